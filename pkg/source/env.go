// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package source

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yeetrun/cmdop/pkg/cmdop"
)

// envSeparator stands for PathSeparator in variable names.
const envSeparator = "__"

// ReadEnv reads KEY=VALUE lines. Blank lines, comments and a leading
// "export" are ignored. With a prefix only PREFIX_ variables are read and the
// prefix is dropped. Names are lower-cased and "__" separates path segments.
// A repeated key adds a value; an empty value gives a bare entry.
func ReadEnv(r io.Reader, prefix string) ([]Entry, error) {
	var out []Entry
	index := map[string]int{}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		s = strings.TrimPrefix(s, "export ")
		name, raw, ok := strings.Cut(s, "=")
		if !ok {
			return nil, fmt.Errorf("env: line %d: missing '='", line)
		}
		name = strings.TrimSpace(name)
		if prefix != "" {
			var found bool
			if name, found = strings.CutPrefix(name, prefix+"_"); !found {
				continue
			}
		}
		val, err := unquote(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("env: line %d: %w", line, err)
		}
		key := strings.ReplaceAll(strings.ToLower(name), envSeparator, PathSeparator)
		i, seen := index[key]
		if !seen {
			index[key] = len(out)
			out = append(out, Entry{Key: key})
			i = len(out) - 1
		}
		if val != "" {
			out[i].Values = append(out[i].Values, val)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func unquote(s string) (string, error) {
	if len(s) >= 2 {
		switch {
		case s[0] == '"' && s[len(s)-1] == '"':
			return strconv.Unquote(s)
		case s[0] == '\'' && s[len(s)-1] == '\'':
			return s[1 : len(s)-1], nil
		}
	}
	return s, nil
}

// WriteEnv writes every parsed item of e as PREFIX_PATH=VALUE, one line per
// value. Items given without a value are written with an empty value.
func WriteEnv(w io.Writer, prefix string, e *cmdop.Engine) error {
	bw := bufio.NewWriter(w)
	e.Walk(func(n cmdop.Node) bool {
		if !n.Parsed() {
			return true
		}
		name := strings.ToUpper(strings.Join(n.Path(), envSeparator))
		if prefix != "" {
			name = prefix + "_" + name
		}
		values := n.Values()
		if len(values) == 0 {
			values = []string{""}
		}
		for _, v := range values {
			fmt.Fprintf(bw, "%s=%s\n", name, quote(v))
		}
		return true
	})
	return bw.Flush()
}

func quote(s string) string {
	if strings.ContainsAny(s, " \t\"'#\\$\n") {
		return strconv.Quote(s)
	}
	return s
}
