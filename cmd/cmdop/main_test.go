// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yeetrun/cmdop/pkg/cmdop"
)

const testDefs = `
[[options]]
name = "server"
short_aliases = ["s"]

  [[options.parameters]]
  name = "port"
  default = "8080"
  validate = { type = "int", min = 1, max = 65535 }

[[options]]
name = "client"

  [[options.parameters]]
  name = "host"
  mandatory = true

[[options]]
name = "debug"
boolean = true
hidden = true

[[groups]]
name = "role"
mode = "EXCLUDE_ONE"
members = ["server", "client"]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		in          []string
		flags, rest []string
	}{
		{[]string{"check", "--defs=a"}, []string{"check", "--defs=a"}, nil},
		{[]string{"check", "--", "--x", "--", "y"}, []string{"check"}, []string{"--x", "--", "y"}},
		{[]string{"tokens", "--"}, []string{"tokens"}, []string{}},
	}
	for _, tt := range tests {
		flags, rest := splitArgs(tt.in)
		if diff := cmp.Diff(tt.flags, flags); diff != "" {
			t.Errorf("splitArgs(%q) flags (-want +got):\n%s", tt.in, diff)
		}
		if diff := cmp.Diff(tt.rest, rest); diff != "" {
			t.Errorf("splitArgs(%q) rest (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestPlanPasses(t *testing.T) {
	args := []string{"--a"}
	from := []string{"--b"}
	modes := func(ps []pass) []cmdop.Mode {
		var m []cmdop.Mode
		for _, p := range ps {
			m = append(m, p.mode)
		}
		return m
	}
	if got := planPasses(args, nil, false, true); len(got) != 1 || got[0].mode != cmdop.Overwrite {
		t.Errorf("no sources: %v", got)
	}
	got := planPasses(args, from, true, false)
	if got[0].args[0] != "--b" || !cmp.Equal(modes(got), []cmdop.Mode{cmdop.Merge, cmdop.Merge}) {
		t.Errorf("merge: %v", got)
	}
	got = planPasses(args, from, true, true)
	if got[0].args[0] != "--a" || !cmp.Equal(modes(got), []cmdop.Mode{cmdop.Overwrite, cmdop.Merge}) {
		t.Errorf("overwrite: %v", got)
	}
}

func TestCheck(t *testing.T) {
	defs := writeFile(t, "defs.toml", testDefs)
	site := writeFile(t, "site.yaml", "server:\n  port: 7000\n")

	tests := []struct {
		name     string
		flags    []string
		rest     []string
		wantErr  error
		contains []string
	}{
		{
			name:     "ok",
			rest:     []string{"-s", "port=9000"},
			contains: []string{"ok\n", "port=9000 (8080)"},
		},
		{
			name:     "validation",
			rest:     []string{"--server", "port=x"},
			wantErr:  errFailed,
			contains: []string{"error: [Int] Validation of item 'port' with value 'x' failed"},
		},
		{
			name:     "group",
			rest:     []string{"--nope"},
			wantErr:  errFailed,
			contains: []string{"Unknown argument 'nope' given", "EXCLUDE_ONE-group 'role'", "unknown: --nope"},
		},
		{
			name:     "unknown as info",
			flags:    []string{"--unknown-info"},
			rest:     []string{"--server", "--nope"},
			contains: []string{"info: Unknown argument 'nope' given\n", "ok\n"},
		},
		{
			name:     "sources win",
			flags:    []string{"--from=" + site},
			rest:     []string{"--server", "port=9000"},
			contains: []string{"port=7000 (8080)", "info: Item 'port' was already set by an earlier parse."},
		},
		{
			name:     "arguments win",
			flags:    []string{"--from=" + site, "--overwrite"},
			rest:     []string{"--server", "port=9000"},
			contains: []string{"port=9000 (8080)"},
		},
		{
			name:     "mandatory from sources",
			flags:    []string{"--from=" + writeFile(t, "client.yaml", "client:\n  host: a\n")},
			rest:     []string{"--client"},
			contains: []string{"host=a"},
		},
		{
			name:     "table",
			flags:    []string{"--format=table"},
			rest:     []string{"--server"},
			contains: []string{"ITEM", "server"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			a := &app{out: &out, rest: tt.rest}
			args := append([]string{"check", "--defs=" + defs}, tt.flags...)
			err := a.handleCheck(context.Background(), args)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("handleCheck error = %v, want %v\n%s", err, tt.wantErr, out.String())
			}
			for _, s := range tt.contains {
				if !strings.Contains(out.String(), s) {
					t.Errorf("output missing %q:\n%s", s, out.String())
				}
			}
		})
	}
}

func TestCheckBadInput(t *testing.T) {
	a := &app{out: &bytes.Buffer{}}
	if err := a.handleCheck(context.Background(), []string{"check"}); err == nil || err.Error() != "--defs is required" {
		t.Errorf("missing defs: %v", err)
	}
	defs := writeFile(t, "defs.toml", testDefs)
	err := a.handleCheck(context.Background(), []string{"check", "--defs=" + defs, "--format=xml"})
	if err == nil || !strings.Contains(err.Error(), `unknown format "xml"`) {
		t.Errorf("bad format: %v", err)
	}
}

func TestTokens(t *testing.T) {
	var out bytes.Buffer
	a := &app{out: &out, rest: []string{"--a=1", "-bc"}}
	if err := a.handleTokens(context.Background(), []string{"tokens"}); err != nil {
		t.Fatal(err)
	}
	want := "a=1 [option]\n  b=<none> [short option]\n    c=<none> [short option]\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("tokens output (-want +got):\n%s", diff)
	}
}

func TestDescribe(t *testing.T) {
	defs := writeFile(t, "defs.toml", testDefs)
	for _, all := range []bool{false, true} {
		var out bytes.Buffer
		a := &app{out: &out}
		args := []string{"describe", "--defs=" + defs}
		if all {
			args = append(args, "--all")
		}
		if err := a.handleDescribe(context.Background(), args); err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(out.String(), "Command line help:\n") {
			t.Errorf("missing heading:\n%s", out.String())
		}
		if got := strings.Contains(out.String(), "--debug"); got != all {
			t.Errorf("all=%v: hidden item shown = %v", all, got)
		}
	}
}

func TestExport(t *testing.T) {
	defs := writeFile(t, "defs.toml", testDefs)
	var out bytes.Buffer
	a := &app{out: &out, rest: []string{"--server", "port=9000"}}
	if err := a.handleExport(context.Background(), []string{"export", "--defs=" + defs, "--prefix=APP"}); err != nil {
		t.Fatal(err)
	}
	want := "APP_SERVER=\nAPP_SERVER__PORT=9000\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("export output (-want +got):\n%s", diff)
	}

	out.Reset()
	a.rest = []string{"--client"}
	if err := a.handleExport(context.Background(), []string{"export", "--defs=" + defs}); !errors.Is(err, errFailed) {
		t.Errorf("export with missing host: %v", err)
	}
	if !strings.Contains(out.String(), "Mandatory item 'host' not found") {
		t.Errorf("output missing diagnostic:\n%s", out.String())
	}
}

type failWriter struct{ err error }

func (w failWriter) Write([]byte) (int, error) { return 0, w.err }

func TestExportWriteError(t *testing.T) {
	defs := writeFile(t, "defs.toml", testDefs)
	werr := errors.New("disk full")
	a := &app{out: failWriter{werr}, rest: []string{"--client"}}
	err := a.handleExport(context.Background(), []string{"export", "--defs=" + defs})
	if !errors.Is(err, errFailed) || !errors.Is(err, werr) {
		t.Errorf("handleExport error = %v, want parse failure and write error", err)
	}
}
