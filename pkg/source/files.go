// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/magiconair/properties"
	"github.com/tidwall/jsonc"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// ReadProperties reads a Java style property file. Keys keep their file
// order.
func ReadProperties(r io.Reader) ([]Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	p, err := properties.Load(data, properties.UTF8)
	if err != nil {
		return nil, fmt.Errorf("properties: %w", err)
	}
	var out []Entry
	for _, k := range p.Keys() {
		v, _ := p.Get(k)
		out = append(out, single(k, v))
	}
	return out, nil
}

// ReadTOML reads a TOML document. Tables become path segments and arrays
// become multiple values.
func ReadTOML(r io.Reader) ([]Entry, error) {
	var doc map[string]any
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("toml: %w", err)
	}
	var out []Entry
	if err := flatten("", doc, &out); err != nil {
		return nil, fmt.Errorf("toml: %w", err)
	}
	return out, nil
}

// ReadYAML reads a YAML mapping the same way as ReadTOML.
func ReadYAML(r io.Reader) ([]Entry, error) {
	var doc map[string]any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	var out []Entry
	if err := flatten("", doc, &out); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	return out, nil
}

// ReadJSONC reads JSON that may contain comments and trailing commas.
func ReadJSONC(r io.Reader) ([]Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
		return nil, fmt.Errorf("jsonc: %w", err)
	}
	var out []Entry
	if err := flatten("", doc, &out); err != nil {
		return nil, fmt.Errorf("jsonc: %w", err)
	}
	return out, nil
}

// Load reads a file, picking the format from its extension: .properties,
// .toml, .yaml/.yml, .json/.jsonc or .env.
func Load(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var entries []Entry
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".properties":
		entries, err = ReadProperties(f)
	case ".toml":
		entries, err = ReadTOML(f)
	case ".yaml", ".yml":
		entries, err = ReadYAML(f)
	case ".json", ".jsonc":
		entries, err = ReadJSONC(f)
	case ".env":
		entries, err = ReadEnv(f, "")
	default:
		return nil, fmt.Errorf("%s: unsupported file type %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// LoadFiles reads the files concurrently and returns their entries in the
// order of paths.
func LoadFiles(ctx context.Context, paths ...string) ([]Entry, error) {
	results := make([][]Entry, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			entries, err := Load(p)
			if err != nil {
				return err
			}
			results[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var out []Entry
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}
