// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cmdop turns a flat list of command-line arguments into a validated
// tree of named values.
//
// Items are declared up front on an Engine. Top-level items are options
// (--name), short options (-n) or rootless parameters (name). Any item may own
// child parameters, which are only meaningful after their owner was given:
//
//	e := cmdop.New()
//	server, _ := e.AddOption("server", cmdop.Description("run as server"))
//	server.AddParameter("port", cmdop.Default("8080"))
//	server.AddParameter("tls", cmdop.Boolean())
//	client, _ := e.AddOption("client")
//	client.AddParameter("host", cmdop.Mandatory())
//	e.AddGroup("role", cmdop.GroupExcludeOne, server, client)
//
//	out, err := e.Parse([]string{"--server", "port=9000", "tls"}, cmdop.Merge)
//	if err != nil {
//	    for _, msg := range out.Messages(cmdop.SeverityError) {
//	        fmt.Println(msg)
//	    }
//	}
//	port, _ := e.MustOption("server").MustChild("port").Value() // "9000"
//
// # Tokens
//
// Arguments starting with "--" are options, arguments starting with a single
// "-" are short options and everything else is a parameter. The name and value
// are split at the first "=". Short options can be bundled: "-abc" is the same
// as "-a -b -c", and "-abc=v" hands v to c only.
//
// # Resolution
//
// Tokens are resolved in a single forward pass. An option token always starts
// a new context. A parameter token is first looked up among the children of
// the last matched item, then among the children of each of its ancestors and
// finally among the top-level items. A bare token that matches nothing is
// taken as an extra value when the last matched item is multi-valued;
// otherwise it is reported as an unknown argument.
//
// # Validation
//
// Once the tokens are consumed, every item is checked for missing mandatory
// items, missing required values and too few multi-value entries. Mandatory
// children are only enforced when their parent was given. Groups then check
// INCLUDE, INCLUDE_ONE, EXCLUDE and EXCLUDE_ONE constraints.
//
// An Engine is not safe for concurrent use. Callers that share one must
// serialize calls to Parse.
package cmdop
