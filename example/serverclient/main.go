// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command serverclient shows a definition tree with per-option parameters,
// aliases, multi-value items and an exclusive group.
//
//	go run ./example/serverclient --server port=12345 --maxConnections=10
//	go run ./example/serverclient --client host=localhost port=6789 -ab=x
//	go run ./example/serverclient pmulti p1 p2 --omulti o1 o2 -a
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/yeetrun/cmdop/pkg/cmdop"
	"github.com/yeetrun/cmdop/pkg/cmdop/validator"
	"github.com/yeetrun/cmdop/pkg/printer"
)

func define() (*cmdop.Engine, error) {
	e := cmdop.New()
	port := cmdop.WithValidator(validator.IntRange(1, 65535))

	server, err := e.AddOption("server", cmdop.Boolean(), cmdop.Description("only allowed if client not given"))
	if err != nil {
		return nil, err
	}
	if _, err := server.AddParameter("port", cmdop.Mandatory(), port, cmdop.Description("mandatory if server is given")); err != nil {
		return nil, err
	}
	if _, err := server.AddParameter("dummy", cmdop.Description("just another parameter")); err != nil {
		return nil, err
	}

	client, err := e.AddOption("client", cmdop.Boolean(), cmdop.Description("only allowed if server not given"))
	if err != nil {
		return nil, err
	}
	for _, name := range []string{"host", "port"} {
		opts := []cmdop.ItemOption{cmdop.Mandatory(), cmdop.Description("mandatory if client is given")}
		if name == "port" {
			opts = append(opts, port)
		}
		if _, err := client.AddParameter(name, opts...); err != nil {
			return nil, err
		}
	}

	cmdop.Must(e.AddOption("maxConnections", cmdop.Default("5"), cmdop.WithValidator(validator.Int())))
	cmdop.Must(e.AddOption("timeout", cmdop.Default("30"), cmdop.WithValidator(validator.Int())))
	cmdop.Must(cmdop.Must(e.AddOption("aaa", cmdop.Boolean())).AddShortAlias('a'))
	cmdop.Must(cmdop.Must(e.AddOption("bbb", cmdop.ValueRequired())).AddShortAlias('b'))
	cmdop.Must(e.AddOption("omulti", cmdop.MultiValue(0, 0), cmdop.Description("multi-value option")))
	cmdop.Must(e.AddParameter("pmulti", cmdop.MultiValue(0, 0), cmdop.Description("top-level multi-value parameter")))

	if _, err := e.AddGroup("server_client", cmdop.GroupExclude, server, client); err != nil {
		return nil, err
	}
	return e, nil
}

func main() {
	log.SetFlags(0)
	e, err := define()
	if err != nil {
		log.Fatal(err)
	}
	p := printer.New(os.Stdout)

	out, err := e.Parse(os.Args[1:], cmdop.Overwrite)
	p.Outcome(out)
	if err != nil {
		fmt.Println()
		p.Help(e, false)
		os.Exit(1)
	}

	fmt.Print("tokens: ")
	p.Chain(e.Chain(), true)
	p.Items(e, printer.ItemsOptions{Values: true})

	if e.MustOption("server").Parsed() {
		port, _ := e.MustOption("server").MustChild("port").Value()
		fmt.Printf("serving on port %s\n", port)
	} else {
		c := e.MustOption("client")
		host, _ := c.MustChild("host").Value()
		port, _ := c.MustChild("port").Value()
		fmt.Printf("connecting to %s:%s\n", host, port)
	}
	if values := e.MustOption("omulti").Values(); len(values) > 0 {
		fmt.Printf("omulti: %q\n", values)
	}
}
