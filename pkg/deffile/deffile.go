// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package deffile loads cmdop definition trees from TOML or YAML files.
//
// A TOML definition looks like:
//
//	[[options]]
//	name = "server"
//	description = "run as server"
//	short_aliases = ["s"]
//
//	  [[options.parameters]]
//	  name = "port"
//	  default = "8080"
//	  validate = { type = "int", min = 1, max = 65535 }
//
//	[[groups]]
//	name = "role"
//	mode = "EXCLUDE_ONE"
//	members = ["server", "client"]
package deffile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/yeetrun/cmdop/pkg/cmdop"
	"github.com/yeetrun/cmdop/pkg/cmdop/validator"
	"gopkg.in/yaml.v3"
)

// File is a decoded definition file.
type File struct {
	Options    []Item  `toml:"options" yaml:"options"`
	Parameters []Item  `toml:"parameters" yaml:"parameters"`
	Groups     []Group `toml:"groups" yaml:"groups"`
}

// Item defines one option or parameter and its children.
type Item struct {
	Name          string    `toml:"name" yaml:"name"`
	Short         bool      `toml:"short" yaml:"short"` // top-level options only; longer aliases stay long options
	Default       *string   `toml:"default" yaml:"default"`
	Description   string    `toml:"description" yaml:"description"`
	Mandatory     bool      `toml:"mandatory" yaml:"mandatory"`
	Boolean       bool      `toml:"boolean" yaml:"boolean"`
	ValueRequired bool      `toml:"value_required" yaml:"value_required"`
	Hidden        bool      `toml:"hidden" yaml:"hidden"`
	Multi         *Multi    `toml:"multi" yaml:"multi"`
	Aliases       []string  `toml:"aliases" yaml:"aliases"`
	ShortAliases  []string  `toml:"short_aliases" yaml:"short_aliases"`
	Validate      *Validate `toml:"validate" yaml:"validate"`
	Parameters    []Item    `toml:"parameters" yaml:"parameters"`
}

// Multi is a multi-value range. Max 0 is unbounded.
type Multi struct {
	Min int `toml:"min" yaml:"min"`
	Max int `toml:"max" yaml:"max"`
}

// Validate selects a validator from pkg/cmdop/validator.
type Validate struct {
	Type       string   `toml:"type" yaml:"type"` // int, length, regexp, path, oneof, semver, cron
	Min        *int     `toml:"min" yaml:"min"`
	Max        *int     `toml:"max" yaml:"max"`
	Pattern    string   `toml:"pattern" yaml:"pattern"`
	Mode       string   `toml:"mode" yaml:"mode"` // path: exists, absent, dir, file
	Constraint string   `toml:"constraint" yaml:"constraint"`
	Values     []string `toml:"values" yaml:"values"`
}

// Group is a group constraint. Members are item names, or dotted paths when
// a name is not unique.
type Group struct {
	Name    string   `toml:"name" yaml:"name"`
	Mode    string   `toml:"mode" yaml:"mode"`
	Members []string `toml:"members" yaml:"members"`
}

// Format is the encoding of a definition file.
type Format int

const (
	TOML Format = iota
	YAML
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return 0, fmt.Errorf("%s: unsupported definition file type", path)
}

// Decode reads a definition file. Unknown keys are an error.
func Decode(r io.Reader, f Format) (*File, error) {
	var file File
	switch f {
	case TOML:
		md, err := toml.NewDecoder(r).Decode(&file)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown keys: %v", undecoded)
		}
	case YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown format %d", f)
	}
	return &file, nil
}

// Load reads the definition file at path.
func Load(path string) (*File, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	file, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return file, nil
}

// Build creates an engine holding the definitions of f.
func (f *File) Build(opts ...cmdop.EngineOption) (*cmdop.Engine, error) {
	e := cmdop.New(opts...)
	for _, it := range f.Options {
		add := e.AddOption
		if it.Short {
			add = e.AddShortOption
		}
		if err := buildItem(add, it); err != nil {
			return nil, err
		}
	}
	for _, it := range f.Parameters {
		if it.Short {
			return nil, fmt.Errorf("parameter %q: short is only valid for options", it.Name)
		}
		if err := buildItem(e.AddParameter, it); err != nil {
			return nil, err
		}
	}
	for _, g := range f.Groups {
		if err := buildGroup(e, g); err != nil {
			return nil, err
		}
	}
	return e, nil
}

type addFunc func(name string, opts ...cmdop.ItemOption) (cmdop.Node, error)

func buildItem(add addFunc, it Item) error {
	opts, err := itemOptions(it)
	if err != nil {
		return fmt.Errorf("item %q: %w", it.Name, err)
	}
	n, err := add(it.Name, opts...)
	if err != nil {
		return err
	}
	for _, a := range it.Aliases {
		kind := n.Kind()
		if kind == cmdop.KindShortOption && len([]rune(a)) > 1 {
			kind = cmdop.KindOption
		}
		if _, err := n.AddAliasKind(a, kind); err != nil {
			return err
		}
	}
	for _, a := range it.ShortAliases {
		r := []rune(a)
		if len(r) != 1 {
			return fmt.Errorf("item %q: short alias %q must be a single character", it.Name, a)
		}
		if _, err := n.AddShortAlias(r[0]); err != nil {
			return err
		}
	}
	for _, child := range it.Parameters {
		if child.Short {
			return fmt.Errorf("parameter %q: short is only valid for options", child.Name)
		}
		if err := buildItem(n.AddParameter, child); err != nil {
			return err
		}
	}
	return nil
}

func itemOptions(it Item) ([]cmdop.ItemOption, error) {
	var opts []cmdop.ItemOption
	if it.Default != nil {
		opts = append(opts, cmdop.Default(*it.Default))
	}
	if it.Description != "" {
		opts = append(opts, cmdop.Description(it.Description))
	}
	if it.Mandatory {
		opts = append(opts, cmdop.Mandatory())
	}
	if it.Boolean {
		opts = append(opts, cmdop.Boolean())
	}
	if it.ValueRequired {
		opts = append(opts, cmdop.ValueRequired())
	}
	if it.Hidden {
		opts = append(opts, cmdop.Hidden())
	}
	if it.Multi != nil {
		opts = append(opts, cmdop.MultiValue(it.Multi.Min, it.Multi.Max))
	}
	if it.Validate != nil {
		v, err := it.Validate.validator()
		if err != nil {
			return nil, err
		}
		opts = append(opts, cmdop.WithValidator(v))
	}
	return opts, nil
}

func (v *Validate) validator() (cmdop.Validator, error) {
	switch strings.ToLower(v.Type) {
	case "int":
		switch {
		case v.Min == nil && v.Max == nil:
			return validator.Int(), nil
		case v.Min != nil && v.Max != nil:
			return validator.IntRange(*v.Min, *v.Max), nil
		}
		return nil, errors.New("int validator needs both min and max or neither")
	case "length":
		return validator.Length(deref(v.Min), deref(v.Max)), nil
	case "regexp":
		re, err := validator.Regexp(v.Pattern)
		if err != nil {
			return nil, err
		}
		return re, nil
	case "path":
		modes := map[string]validator.PathMode{
			"":       validator.PathExists,
			"exists": validator.PathExists,
			"absent": validator.PathAbsent,
			"dir":    validator.PathDir,
			"file":   validator.PathFile,
		}
		m, ok := modes[v.Mode]
		if !ok {
			return nil, fmt.Errorf("unknown path mode %q", v.Mode)
		}
		return validator.Path(m), nil
	case "oneof":
		return validator.OneOf(v.Values...), nil
	case "semver":
		sv, err := validator.Semver(v.Constraint)
		if err != nil {
			return nil, err
		}
		return sv, nil
	case "cron":
		return validator.Cron(), nil
	}
	return nil, fmt.Errorf("unknown validator type %q", v.Type)
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func buildGroup(e *cmdop.Engine, g Group) error {
	mode, ok := cmdop.ParseGroupMode(strings.ToUpper(g.Mode))
	if !ok {
		return fmt.Errorf("group %q: unknown mode %q", g.Name, g.Mode)
	}
	grp, err := e.AddGroup(g.Name, mode)
	if err != nil {
		return err
	}
	for _, m := range g.Members {
		if !strings.Contains(m, ".") {
			if err := grp.AddByName(m); err != nil {
				return err
			}
			continue
		}
		n, ok := e.Find(strings.Split(m, ".")...)
		if !ok {
			return fmt.Errorf("group %q: no item at path %q", g.Name, m)
		}
		if err := grp.Add(n); err != nil {
			return err
		}
	}
	return nil
}
