// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdop

import (
	"fmt"
	"reflect"
)

// NodeID indexes a node in its engine's arena.
type NodeID int

const noNode NodeID = -1

type node struct {
	name        string
	description string
	def         *string
	values      []*string

	mandatory     bool
	boolean       bool
	valueRequired bool
	hidden        bool
	multi         bool
	min, max      int

	kind      Kind
	validator Validator

	parsed bool
	pos    int
	pass   int // parse pass that set the values

	parent   NodeID
	level    int
	children []NodeID // registration order, aliases included
	byName   map[string]NodeID
	aliasOf  NodeID
	aliases  []NodeID
}

func (n *node) reset() {
	n.values = nil
	n.parsed = false
	n.pos = -1
	n.pass = 0
}

// Validator checks a candidate value for an item before it is stored. value
// is nil when the token carried none; pos is the index the value would get.
// A validator may implement Name() string to label its messages.
type Validator interface {
	Validate(item Node, value *string, pos int) error
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(item Node, value *string, pos int) error

func (f ValidatorFunc) Validate(item Node, value *string, pos int) error {
	return f(item, value, pos)
}

func validatorName(v Validator) string {
	if n, ok := v.(interface{ Name() string }); ok {
		return n.Name()
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" || t.Name() == "ValidatorFunc" {
		return "Validator"
	}
	return t.Name()
}

// Node is a handle to one defined item. Value and flag accessors on an alias
// report the canonical item; Name and Kind report the alias itself.
type Node struct {
	e  *Engine
	id NodeID
}

// IsZero reports whether n refers to no item.
func (n Node) IsZero() bool { return n.e == nil }

// ID returns the arena index of the item.
func (n Node) ID() NodeID { return n.id }

func (n Node) raw() *node { return &n.e.nodes[n.id] }

func (n Node) canon() *node {
	r := n.raw()
	if r.aliasOf != noNode {
		return &n.e.nodes[r.aliasOf]
	}
	return r
}

func (n Node) canonID() NodeID {
	if a := n.raw().aliasOf; a != noNode {
		return a
	}
	return n.id
}

// String returns the item as it is written on the command line, e.g. "--server".
func (n Node) String() string {
	if n.IsZero() {
		return "<nil>"
	}
	return n.Kind().Prefix() + n.Name()
}

// Name returns the item's own name, the alias name for an alias.
func (n Node) Name() string { return n.raw().name }

// Kind returns how the item itself is written. Aliases have their own kind.
func (n Node) Kind() Kind { return n.raw().kind }

// Description returns the help text of the item.
func (n Node) Description() string { return n.canon().description }

// Default returns the default value and whether one is set.
func (n Node) Default() (string, bool) {
	d := n.canon().def
	if d == nil {
		return "", false
	}
	return *d, true
}

// Value returns the first value. An item that was not parsed reports "false"
// when boolean and its default otherwise. ok is false when there is no value.
func (n Node) Value() (string, bool) {
	return n.ValueAt(0)
}

// ValueAt returns the value at index i, following the rules of Value.
func (n Node) ValueAt(i int) (string, bool) {
	c := n.canon()
	if !c.parsed {
		if c.boolean {
			return "false", true
		}
		if c.def == nil {
			return "", false
		}
		return *c.def, true
	}
	if i < 0 || i >= len(c.values) || c.values[i] == nil {
		return "", false
	}
	return *c.values[i], true
}

// Values returns the non-empty parsed values in order.
func (n Node) Values() []string {
	var out []string
	for _, v := range n.canon().values {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}

// NumValues returns the number of values stored by the last parse.
func (n Node) NumValues() int { return len(n.canon().values) }

// Parsed reports whether the item was given in a parse since the last reset.
func (n Node) Parsed() bool { return n.canon().parsed }

// Mandatory reports whether the item must be given when its parent is.
func (n Node) Mandatory() bool { return n.canon().mandatory }

// Boolean reports whether the item holds "true" or "false".
func (n Node) Boolean() bool { return n.canon().boolean }

// ValueRequired reports whether the item must carry a value when given.
func (n Node) ValueRequired() bool { return n.canon().valueRequired }

// Hidden reports whether printers leave the item out by default.
func (n Node) Hidden() bool { return n.canon().hidden }

// MultiValue reports whether the item accumulates several values.
func (n Node) MultiValue() bool { return n.canon().multi }

// Range returns the multi-value bounds. max 0 means unbounded.
func (n Node) Range() (min, max int) {
	c := n.canon()
	return c.min, c.max
}

// Pos returns the chain position of the token that last set the item, or -1.
func (n Node) Pos() int { return n.canon().pos }

// Level is 0 for top-level items and grows by one per ancestor.
func (n Node) Level() int { return n.raw().level }

// Parent returns the owning item. ok is false for top-level items.
func (n Node) Parent() (Node, bool) {
	p := n.raw().parent
	if p == noNode {
		return Node{}, false
	}
	return Node{n.e, p}, true
}

// Path returns the names from the top-level ancestor down to n.
func (n Node) Path() []string {
	var path []string
	for cur, ok := n, true; ok; cur, ok = cur.Parent() {
		path = append([]string{cur.Name()}, path...)
	}
	return path
}

// Child returns the child item with the given name, resolving aliases.
func (n Node) Child(name string) (Node, bool) {
	id, ok := n.canon().byName[name]
	if !ok {
		return Node{}, false
	}
	return Node{n.e, id}.Canonical(), true
}

// MustChild is like Child but panics when the child does not exist.
func (n Node) MustChild(name string) Node {
	c, ok := n.Child(name)
	if !ok {
		panic(fmt.Sprintf("cmdop: %s has no child %q", n, name))
	}
	return c
}

// HasChild reports whether a child or child alias with the name exists.
func (n Node) HasChild(name string) bool {
	_, ok := n.canon().byName[name]
	return ok
}

// Children returns the non-alias children in registration order.
func (n Node) Children() []Node {
	var out []Node
	for _, id := range n.canon().children {
		if n.e.nodes[id].aliasOf == noNode {
			out = append(out, Node{n.e, id})
		}
	}
	return out
}

func (n Node) siblings() []NodeID {
	if p := n.raw().parent; p != noNode {
		return n.e.nodes[p].children
	}
	return n.e.order
}

// Next returns the following non-alias sibling.
func (n Node) Next() (Node, bool) {
	sib := n.siblings()
	for i, id := range sib {
		if id != n.id {
			continue
		}
		for _, next := range sib[i+1:] {
			if n.e.nodes[next].aliasOf == noNode {
				return Node{n.e, next}, true
			}
		}
		break
	}
	return Node{}, false
}

// Previous returns the preceding non-alias sibling.
func (n Node) Previous() (Node, bool) {
	sib := n.siblings()
	for i, id := range sib {
		if id != n.id {
			continue
		}
		for j := i - 1; j >= 0; j-- {
			if n.e.nodes[sib[j]].aliasOf == noNode {
				return Node{n.e, sib[j]}, true
			}
		}
		break
	}
	return Node{}, false
}

// IsAlias reports whether the item is an alias of another item.
func (n Node) IsAlias() bool { return n.raw().aliasOf != noNode }

// AliasOf returns the canonical item of an alias.
func (n Node) AliasOf() (Node, bool) {
	a := n.raw().aliasOf
	if a == noNode {
		return Node{}, false
	}
	return Node{n.e, a}, true
}

// Canonical returns the canonical item, or n itself when it is not an alias.
func (n Node) Canonical() Node { return Node{n.e, n.canonID()} }

// HasAlias reports whether the item has an alias with the given name.
func (n Node) HasAlias(name string) bool {
	_, ok := n.Alias(name)
	return ok
}

// Alias returns the alias with the given name.
func (n Node) Alias(name string) (Node, bool) {
	for _, id := range n.canon().aliases {
		if n.e.nodes[id].name == name {
			return Node{n.e, id}, true
		}
	}
	return Node{}, false
}

// Aliases returns the aliases of the item in registration order.
func (n Node) Aliases() []Node {
	ids := n.canon().aliases
	out := make([]Node, len(ids))
	for i, id := range ids {
		out[i] = Node{n.e, id}
	}
	return out
}

// AddParameter registers a child parameter.
func (n Node) AddParameter(name string, opts ...ItemOption) (Node, error) {
	return n.e.register(n.canonID(), name, KindParameter, noNode, opts)
}

// AddAlias registers an alias next to the item with the canonical item's
// kind.
func (n Node) AddAlias(name string) (Node, error) {
	return n.AddAliasKind(name, n.canon().kind)
}

// AddAliasKind registers an alias next to the item that is written as kind,
// e.g. a long option alias of a short option. Aliases of child parameters
// must be parameters.
func (n Node) AddAliasKind(name string, kind Kind) (Node, error) {
	if err := n.checkKind(name, kind); err != nil {
		return Node{}, err
	}
	return n.e.register(n.raw().parent, name, kind, n.canonID(), nil)
}

// checkKind reports whether an item named name next to n may be written as
// kind.
func (n Node) checkKind(name string, kind Kind) error {
	switch {
	case kind < KindOption || kind > KindParameter:
		return configErr(name, "unknown kind %d", int(kind))
	case kind.IsOption() && n.raw().parent != noNode:
		return configErr(name, "only top-level items can be written as %s", kind)
	case kind == KindShortOption && len([]rune(name)) != 1:
		return configErr(name, "short options must be a single character")
	}
	return nil
}

// AddShortAlias registers a short option alias for a top-level item.
func (n Node) AddShortAlias(r rune) (Node, error) {
	if n.raw().parent != noNode {
		return Node{}, configErr(string(r), "short alias of %s: only top-level items can have short aliases", n.Name())
	}
	cid := n.canonID()
	return n.e.register(noNode, string(r), KindShortOption, cid, nil)
}

// SetMandatory marks the item as mandatory. The check only applies when the
// item's parent was given.
func (n Node) SetMandatory(v bool) Node { n.canon().mandatory = v; return n }

// SetBoolean makes the item report "false" when absent and coerce given
// values to "true" or "false".
func (n Node) SetBoolean(v bool) Node { n.canon().boolean = v; return n }

// SetValueRequired makes a value mandatory whenever the item is given.
func (n Node) SetValueRequired(v bool) Node { n.canon().valueRequired = v; return n }

// SetHidden keeps the item out of help output.
func (n Node) SetHidden(v bool) Node { n.canon().hidden = v; return n }

// SetDescription sets the help text.
func (n Node) SetDescription(s string) Node { n.canon().description = s; return n }

// SetDefault sets the value reported while the item is not parsed.
func (n Node) SetDefault(s string) Node { n.canon().def = &s; return n }

// SetMultiValue lets the item take between min and max values, max 0 being
// unbounded. Negative bounds are treated as 0 and min is capped at max.
func (n Node) SetMultiValue(min, max int) Node {
	c := n.canon()
	c.multi = true
	c.min, c.max = clampRange(min, max)
	return n
}

// SetValidator sets the validator run on every value before it is stored.
func (n Node) SetValidator(v Validator) Node { n.canon().validator = v; return n }

// SetKind changes how the item itself must be written. On an alias it only
// affects the alias. Short options must have single character names and only
// top-level items can be options.
func (n Node) SetKind(k Kind) (Node, error) {
	if err := n.checkKind(n.Name(), k); err != nil {
		return n, err
	}
	n.raw().kind = k
	return n, nil
}

func clampRange(min, max int) (int, int) {
	if min < 0 {
		min = 0
	}
	if max < 0 {
		max = 0
	}
	if max != 0 && min > max {
		min = max
	}
	return min, max
}

// ItemOption configures an item at registration.
type ItemOption func(*node) error

// Default sets the value reported while the item is not parsed.
func Default(v string) ItemOption {
	return func(n *node) error { n.def = &v; return nil }
}

// Description sets the help text.
func Description(s string) ItemOption {
	return func(n *node) error { n.description = s; return nil }
}

// Mandatory requires the item whenever its parent is given.
func Mandatory() ItemOption {
	return func(n *node) error { n.mandatory = true; return nil }
}

// Boolean makes the item a "true"/"false" switch.
func Boolean() ItemOption {
	return func(n *node) error { n.boolean = true; return nil }
}

// ValueRequired requires a value whenever the item is given.
func ValueRequired() ItemOption {
	return func(n *node) error { n.valueRequired = true; return nil }
}

// Hidden keeps the item out of help output.
func Hidden() ItemOption {
	return func(n *node) error { n.hidden = true; return nil }
}

// MultiValue lets the item take between min and max values, max 0 being
// unbounded.
func MultiValue(min, max int) ItemOption {
	return func(n *node) error {
		if min < 0 || max < 0 {
			return fmt.Errorf("negative multi-value range %d..%d", min, max)
		}
		if max != 0 && min > max {
			return fmt.Errorf("multi-value min %d exceeds max %d", min, max)
		}
		n.multi, n.min, n.max = true, min, max
		return nil
	}
}

// WithValidator sets the validator run on every value before it is stored.
func WithValidator(v Validator) ItemOption {
	return func(n *node) error { n.validator = v; return nil }
}
