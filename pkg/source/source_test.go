// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package source

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yeetrun/cmdop/pkg/cmdop"
)

func testEngine(t *testing.T) *cmdop.Engine {
	t.Helper()
	e := cmdop.New()
	srv := cmdop.Must(e.AddOption("server"))
	cmdop.Must(srv.AddParameter("port"))
	cmdop.Must(srv.AddParameter("tls", cmdop.Boolean()))
	cmdop.Must(e.AddOption("files", cmdop.MultiValue(1, 0)))
	cmdop.Must(e.AddParameter("mode"))
	cmdop.Must(e.AddShortOption("v"))
	return e
}

var wantEntries = []Entry{
	{Key: "files", Values: []string{"a", "b"}},
	{Key: "server.port", Values: []string{"9000"}},
	{Key: "server.tls", Values: []string{"true"}},
}

func TestArgs(t *testing.T) {
	e := testEngine(t)
	entries := FromMap(map[string]string{
		"server.port": "9000",
		"server.tls":  "",
		"files":       "a",
		"mode":        "fast",
		"v":           "",
		"unknown.x":   "1",
	})
	got := Args(e, entries)
	want := []string{"--files=a", "mode=fast", "--server", "port=9000", "tls", "--unknown", "x=1", "-v"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Args mismatch (-want +got):\n%s", diff)
	}

	e.Parse(got, cmdop.Merge)
	if diff := cmp.Diff([]string{"Unknown argument 'unknown' given", "Unknown argument 'x' given"}, e.Errors()); diff != "" {
		t.Errorf("Errors() mismatch (-want +got):\n%s", diff)
	}
	port, _ := e.MustOption("server").MustChild("port").Value()
	tls, _ := e.MustOption("server").MustChild("tls").Value()
	mode, _ := e.MustParameter("mode").Value()
	if port != "9000" || tls != "true" || mode != "fast" || !e.HasOption("v") {
		t.Errorf("parsed port=%q tls=%q mode=%q v=%v", port, tls, mode, e.HasOption("v"))
	}
}

func TestArgsOrdering(t *testing.T) {
	entries := []Entry{
		{Key: "server.port", Values: []string{"1"}},
		{Key: "server-x"},
		{Key: "server"},
		{Key: "files", Values: []string{"a", "b"}},
		{Key: "server.opts.level", Values: []string{"2"}},
	}
	got := Args(nil, entries)
	want := []string{"--files=a", "--files=b", "--server", "opts", "level=2", "port=1", "--server-x"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Args mismatch (-want +got):\n%s", diff)
	}
}

func TestReaders(t *testing.T) {
	tests := []struct {
		name string
		read func(string) ([]Entry, error)
		in   string
	}{
		{
			name: "toml",
			read: func(s string) ([]Entry, error) { return ReadTOML(strings.NewReader(s)) },
			in:   "files = [\"a\", \"b\"]\n\n[server]\nport = 9000\ntls = true\n",
		},
		{
			name: "yaml",
			read: func(s string) ([]Entry, error) { return ReadYAML(strings.NewReader(s)) },
			in:   "server:\n  tls: true\n  port: 9000\nfiles:\n  - a\n  - b\n",
		},
		{
			name: "jsonc",
			read: func(s string) ([]Entry, error) { return ReadJSONC(strings.NewReader(s)) },
			in:   "{\n  // listener\n  \"server\": {\"port\": 9000, \"tls\": true,},\n  \"files\": [\"a\", \"b\"],\n}\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.read(tt.in)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if diff := cmp.Diff(wantEntries, got); diff != "" {
				t.Errorf("entries mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadYAMLEmpty(t *testing.T) {
	got, err := ReadYAML(strings.NewReader(""))
	if err != nil || len(got) != 0 {
		t.Errorf("ReadYAML(\"\") = %v, %v", got, err)
	}
}

func TestReadProperties(t *testing.T) {
	in := "# comment\nserver.port = 9000\nserver.tls=\nfiles=a\n"
	got, err := ReadProperties(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	want := []Entry{
		{Key: "server.port", Values: []string{"9000"}},
		{Key: "server.tls"},
		{Key: "files", Values: []string{"a"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestReadEnv(t *testing.T) {
	in := `# settings
export APP_SERVER__PORT=9000
APP_SERVER__TLS=
APP_FILES=a
APP_FILES="b c"
OTHER=1
`
	got, err := ReadEnv(strings.NewReader(in), "APP")
	if err != nil {
		t.Fatal(err)
	}
	want := []Entry{
		{Key: "server.port", Values: []string{"9000"}},
		{Key: "server.tls"},
		{Key: "files", Values: []string{"a", "b c"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
	if _, err := ReadEnv(strings.NewReader("NOEQUALS\n"), ""); err == nil {
		t.Errorf("ReadEnv accepted a line without '='")
	}
}

func TestWriteEnvRoundTrip(t *testing.T) {
	e := testEngine(t)
	if _, err := e.Parse([]string{"--server", "port=9000", "tls", "--files=a", "--files=b c"}, cmdop.Merge); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteEnv(&buf, "APP", e); err != nil {
		t.Fatal(err)
	}
	want := "APP_SERVER=\nAPP_SERVER__PORT=9000\nAPP_SERVER__TLS=true\nAPP_FILES=a\nAPP_FILES=\"b c\"\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("WriteEnv mismatch (-want +got):\n%s", diff)
	}
	entries, err := ReadEnv(&buf, "APP")
	if err != nil {
		t.Fatal(err)
	}
	again := testEngine(t)
	if _, err := again.Parse(Args(again, entries), cmdop.Merge); err != nil {
		t.Fatalf("Parse round trip: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b c"}, again.MustOption("files").Values()); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		return p
	}
	a := write("a.toml", "[server]\nport = 1\n")
	b := write("b.env", "MODE=fast\n")
	c := write("c.yml", "files: [x]\n")

	got, err := LoadFiles(context.Background(), a, b, c)
	if err != nil {
		t.Fatal(err)
	}
	want := []Entry{
		{Key: "server.port", Values: []string{"1"}},
		{Key: "mode", Values: []string{"fast"}},
		{Key: "files", Values: []string{"x"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadFiles mismatch (-want +got):\n%s", diff)
	}

	if _, err := LoadFiles(context.Background(), a, write("d.ini", "x=1")); err == nil {
		t.Errorf("LoadFiles accepted an unsupported extension")
	}
	if _, err := LoadFiles(context.Background(), filepath.Join(dir, "missing.toml")); err == nil {
		t.Errorf("LoadFiles accepted a missing file")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := LoadFiles(ctx, a); err == nil {
		t.Errorf("LoadFiles ignored a canceled context")
	}
}
