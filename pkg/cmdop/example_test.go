// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdop_test

import (
	"fmt"

	"github.com/yeetrun/cmdop/pkg/cmdop"
)

func Example() {
	e := cmdop.New()
	server := cmdop.Must(e.AddOption("server", cmdop.Description("run as server")))
	cmdop.Must(server.AddParameter("port", cmdop.Default("8080")))
	cmdop.Must(server.AddParameter("tls", cmdop.Boolean()))
	client := cmdop.Must(e.AddOption("client"))
	cmdop.Must(client.AddParameter("host", cmdop.Mandatory()))
	if _, err := e.AddGroup("role", cmdop.GroupExcludeOne, server, client); err != nil {
		panic(err)
	}

	_, err := e.Parse([]string{"--server", "port=9000", "tls"}, cmdop.Merge)
	fmt.Println("error:", err)
	port, _ := e.MustOption("server").MustChild("port").Value()
	tls, _ := e.MustOption("server").MustChild("tls").Value()
	fmt.Println("port:", port, "tls:", tls)

	_, err = e.Parse([]string{"--client", "--server"}, cmdop.Overwrite)
	fmt.Println(err)
	// Output:
	// error: <nil>
	// port: 9000 tls: true
	// 2 errors: Mandatory item 'host' not found; More than one item of the EXCLUDE_ONE-group 'role' found. Only one of the following items is allowed: [server, client]
}

func ExampleEngine_Parse_multiValue() {
	e := cmdop.New()
	cmdop.Must(e.AddOption("files", cmdop.MultiValue(1, 0)))
	verbose := cmdop.Must(e.AddOption("verbose", cmdop.Boolean()))
	cmdop.Must(verbose.AddShortAlias('v'))

	out, _ := e.Parse([]string{"--files", "a.txt", "b.txt", "-v", "c.txt"}, cmdop.Merge)
	fmt.Println(e.MustOption("files").Values())
	for _, msg := range out.Messages(cmdop.SeverityError) {
		fmt.Println(msg)
	}
	// Output:
	// [a.txt b.txt]
	// Unknown argument 'c.txt' given after 'verbose'
}
