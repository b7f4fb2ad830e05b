// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package source turns key/value input such as property, TOML, YAML, JSONC
// and env files into arguments a cmdop engine can parse.
//
// Keys are dotted paths through the definition tree: "server.port=9000"
// becomes "--server port=9000" when server is a top-level option.
package source

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/yeetrun/cmdop/pkg/cmdop"
)

// PathSeparator separates the segments of an entry key.
const PathSeparator = "."

// Entry is one key with its values. No values means the item is given
// without a value.
type Entry struct {
	Key    string
	Values []string
}

func (e Entry) path() []string { return strings.Split(e.Key, PathSeparator) }

// FromMap returns one entry per map key, sorted by key. An empty string
// value gives a bare entry.
func FromMap(m map[string]string) []Entry {
	out := make([]Entry, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		out = append(out, single(k, m[k]))
	}
	return out
}

func single(key, value string) Entry {
	if value == "" {
		return Entry{Key: key}
	}
	return Entry{Key: key, Values: []string{value}}
}

// Args converts entries into raw arguments for e. Entries are ordered so that
// parents come before their children and a parent already given for an
// earlier entry is not repeated. The first segment is written with the prefix
// of the top-level item it names, or "--" when e does not define it.
func Args(e *cmdop.Engine, entries []Entry) []string {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Entry) int {
		return slices.Compare(a.path(), b.path())
	})

	var args, emitted []string
	for _, en := range sorted {
		path := en.path()
		k := commonPrefix(emitted, path)
		if k == len(path) {
			k--
		}
		for i := k; i < len(path); i++ {
			name := path[i]
			if i == 0 {
				name = topPrefix(e, name) + name
			}
			if i < len(path)-1 {
				args = append(args, name)
				continue
			}
			if len(en.Values) == 0 {
				args = append(args, name)
			}
			for _, v := range en.Values {
				args = append(args, name+cmdop.ValueSeparator+v)
			}
		}
		emitted = path
	}
	return args
}

func commonPrefix(a, b []string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

func topPrefix(e *cmdop.Engine, name string) string {
	if e != nil {
		if k, ok := e.KindOf(name); ok {
			return k.Prefix()
		}
	}
	return cmdop.LongPrefix
}

// flatten walks decoded TOML, YAML or JSON data into entries.
func flatten(prefix string, v any, out *[]Entry) error {
	switch v := v.(type) {
	case map[string]any:
		if len(v) == 0 && prefix != "" {
			*out = append(*out, Entry{Key: prefix})
			return nil
		}
		for _, k := range slices.Sorted(maps.Keys(v)) {
			key := k
			if prefix != "" {
				key = prefix + PathSeparator + k
			}
			if err := flatten(key, v[k], out); err != nil {
				return err
			}
		}
		return nil
	case []any:
		en := Entry{Key: prefix}
		for _, item := range v {
			s, err := scalar(item)
			if err != nil {
				return fmt.Errorf("%s: %w", prefix, err)
			}
			en.Values = append(en.Values, s)
		}
		*out = append(*out, en)
		return nil
	case nil:
		*out = append(*out, Entry{Key: prefix})
		return nil
	}
	s, err := scalar(v)
	if err != nil {
		return fmt.Errorf("%s: %w", prefix, err)
	}
	*out = append(*out, Entry{Key: prefix, Values: []string{s}})
	return nil
}

func scalar(v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case time.Time:
		return v.Format(time.RFC3339), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return "", fmt.Errorf("unsupported value of type %T", v)
	}
}
