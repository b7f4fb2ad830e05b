// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdop

import "slices"

// GroupMode is the constraint a Group puts on its members.
type GroupMode int

const (
	// GroupInclude requires all members.
	GroupInclude GroupMode = iota
	// GroupIncludeOne requires at least one member.
	GroupIncludeOne
	// GroupExclude allows at most one member.
	GroupExclude
	// GroupExcludeOne requires exactly one member.
	GroupExcludeOne
)

func (m GroupMode) String() string {
	switch m {
	case GroupInclude:
		return "INCLUDE"
	case GroupIncludeOne:
		return "INCLUDE_ONE"
	case GroupExclude:
		return "EXCLUDE"
	case GroupExcludeOne:
		return "EXCLUDE_ONE"
	default:
		return "UNKNOWN"
	}
}

// ParseGroupMode parses the names returned by GroupMode.String.
func ParseGroupMode(s string) (GroupMode, bool) {
	for m := GroupInclude; m <= GroupExcludeOne; m++ {
		if m.String() == s {
			return m, true
		}
	}
	return 0, false
}

// Group is a named constraint over a set of items.
type Group struct {
	e       *Engine
	name    string
	mode    GroupMode
	members []NodeID
}

// AddGroup registers a group. Group names are unique per engine.
func (e *Engine) AddGroup(name string, mode GroupMode, members ...Node) (*Group, error) {
	if name == "" {
		return nil, configErr("", "group with empty name")
	}
	if mode < GroupInclude || mode > GroupExcludeOne {
		return nil, configErr("", "group '%s': invalid mode %d", name, mode)
	}
	if _, ok := e.Group(name); ok {
		return nil, configErr("", "group '%s' already exists", name)
	}
	g := &Group{e: e, name: name, mode: mode}
	if err := g.Add(members...); err != nil {
		return nil, err
	}
	e.groups = append(e.groups, g)
	return g, nil
}

// Group returns the group with the given name.
func (e *Engine) Group(name string) (*Group, bool) {
	for _, g := range e.groups {
		if g.name == name {
			return g, true
		}
	}
	return nil, false
}

// Groups returns the groups in registration order.
func (e *Engine) Groups() []*Group { return slices.Clone(e.groups) }

// Name returns the group name used in diagnostics.
func (g *Group) Name() string { return g.name }

// Mode returns the constraint the group enforces.
func (g *Group) Mode() GroupMode { return g.mode }

// Add adds items to the group. Aliases are replaced by their canonical item
// and items already in the group are ignored.
func (g *Group) Add(members ...Node) error {
	for _, m := range members {
		if m.e != g.e {
			return configErr(m.String(), "group '%s': item belongs to another engine", g.name)
		}
		id := m.canonID()
		if !slices.Contains(g.members, id) {
			g.members = append(g.members, id)
		}
	}
	return nil
}

// AddByName adds the single item with the given name anywhere in the tree.
func (g *Group) AddByName(name string) error {
	var found []Node
	g.e.Walk(func(n Node) bool {
		if n.Name() == name || n.HasAlias(name) {
			found = append(found, n)
		}
		return true
	})
	switch len(found) {
	case 0:
		return configErr(name, "group '%s': no such item", g.name)
	case 1:
		return g.Add(found[0])
	default:
		return configErr(name, "group '%s': name is ambiguous, %d items match", g.name, len(found))
	}
}

// Members returns the member items in the order they were added.
func (g *Group) Members() []Node {
	out := make([]Node, len(g.members))
	for i, id := range g.members {
		out[i] = Node{g.e, id}
	}
	return out
}

func (g *Group) memberNames() []string {
	out := make([]string, len(g.members))
	for i, id := range g.members {
		out[i] = g.e.nodes[id].name
	}
	return out
}

func (g *Group) check() error {
	found := 0
	for _, id := range g.members {
		if g.e.nodes[id].parsed {
			found++
		}
	}
	var violated bool
	switch g.mode {
	case GroupExclude:
		violated = found > 1
	case GroupExcludeOne:
		violated = found != 1
	case GroupInclude:
		violated = found < len(g.members)
	case GroupIncludeOne:
		violated = found == 0
	}
	if !violated {
		return nil
	}
	err := &ConstraintError{
		Rule:    ConstraintGroup,
		Group:   g.name,
		Mode:    g.mode,
		Members: g.memberNames(),
		Found:   found,
	}
	return g.e.report(Diagnostic{Severity: SeverityError, Item: g.name, Pos: -1, Err: err})
}
