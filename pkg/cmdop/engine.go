// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdop

import (
	"fmt"
	"log/slog"
)

// Mode selects how a parse treats values left over from earlier parses.
type Mode int

const (
	// Merge keeps earlier values. Items set by an earlier parse are left
	// alone and a repeated item keeps its first occurrence.
	Merge Mode = iota
	// Overwrite clears all values before parsing and lets a repeated item
	// replace the earlier occurrence.
	Overwrite
)

func (m Mode) String() string {
	if m == Overwrite {
		return "overwrite"
	}
	return "merge"
}

// Engine owns the definition tree and the state of the last parse.
type Engine struct {
	nodes  []node
	top    map[string]NodeID // options, parameters and their aliases
	order  []NodeID
	groups []*Group

	failFast    bool
	unknownInfo bool
	suggest     bool
	log         *slog.Logger

	pass    int
	mode    Mode
	args    []string
	chain   *Token
	outcome *Outcome
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithFailFast makes Parse stop at the first error and return it.
func WithFailFast() EngineOption {
	return func(e *Engine) { e.failFast = true }
}

// WithUnknownAsInfo reports unknown arguments as info instead of errors.
func WithUnknownAsInfo() EngineOption {
	return func(e *Engine) { e.unknownInfo = true }
}

// WithSuggestions toggles "did you mean" hints on unknown arguments. They are
// on by default.
func WithSuggestions(on bool) EngineOption {
	return func(e *Engine) { e.suggest = on }
}

// WithLogger sets the logger used for debug tracing of parses.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// New returns an empty Engine.
func New(opts ...EngineOption) *Engine {
	e := &Engine{
		top:     make(map[string]NodeID),
		suggest: true,
		log:     slog.New(slog.DiscardHandler),
		outcome: &Outcome{},
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// AddOption registers a top-level option written as --name.
func (e *Engine) AddOption(name string, opts ...ItemOption) (Node, error) {
	return e.register(noNode, name, KindOption, noNode, opts)
}

// AddShortOption registers a top-level option written as -name.
func (e *Engine) AddShortOption(name string, opts ...ItemOption) (Node, error) {
	return e.register(noNode, name, KindShortOption, noNode, opts)
}

// AddParameter registers a rootless top-level parameter.
func (e *Engine) AddParameter(name string, opts ...ItemOption) (Node, error) {
	return e.register(noNode, name, KindParameter, noNode, opts)
}

// Must panics when err is not nil and returns n otherwise. It is meant for
// static definition trees.
func Must(n Node, err error) Node {
	if err != nil {
		panic(err)
	}
	return n
}

func (e *Engine) register(parent NodeID, name string, kind Kind, aliasOf NodeID, opts []ItemOption) (Node, error) {
	if name == "" {
		return Node{}, configErr(name, "empty name")
	}
	if kind == KindShortOption && len([]rune(name)) != 1 {
		return Node{}, configErr(name, "short options must be a single character")
	}
	scope := e.top
	if parent != noNode {
		scope = e.nodes[parent].byName
	}
	if existing, ok := scope[name]; ok {
		what := e.nodes[existing].kind.String()
		if e.nodes[existing].aliasOf != noNode {
			what = "alias"
		}
		return Node{}, configErr(name, "name already registered as %s", what)
	}
	n := node{
		name:    name,
		kind:    kind,
		pos:     -1,
		parent:  parent,
		aliasOf: aliasOf,
		byName:  make(map[string]NodeID),
	}
	if parent != noNode {
		n.level = e.nodes[parent].level + 1
	}
	for _, o := range opts {
		if err := o(&n); err != nil {
			return Node{}, configErr(name, "%v", err)
		}
	}
	id := NodeID(len(e.nodes))
	e.nodes = append(e.nodes, n)
	if parent == noNode {
		e.top[name] = id
		e.order = append(e.order, id)
	} else {
		p := &e.nodes[parent]
		p.byName[name] = id
		p.children = append(p.children, id)
	}
	if aliasOf != noNode {
		e.nodes[aliasOf].aliases = append(e.nodes[aliasOf].aliases, id)
	}
	return Node{e, id}, nil
}

func (e *Engine) lookupTop(name string, option bool) (Node, bool) {
	id, ok := e.top[name]
	if !ok || e.nodes[id].kind.IsOption() != option {
		return Node{}, false
	}
	return Node{e, id}.Canonical(), true
}

// GetOption returns the top-level option or short option with the name,
// resolving aliases.
func (e *Engine) GetOption(name string) (Node, bool) { return e.lookupTop(name, true) }

// GetParameter returns the rootless parameter with the name, resolving
// aliases.
func (e *Engine) GetParameter(name string) (Node, bool) { return e.lookupTop(name, false) }

// MustOption is like GetOption but panics when the option does not exist.
func (e *Engine) MustOption(name string) Node {
	n, ok := e.GetOption(name)
	if !ok {
		panic(fmt.Sprintf("cmdop: no option %q", name))
	}
	return n
}

// MustParameter is like GetParameter but panics when it does not exist.
func (e *Engine) MustParameter(name string) Node {
	n, ok := e.GetParameter(name)
	if !ok {
		panic(fmt.Sprintf("cmdop: no parameter %q", name))
	}
	return n
}

// HasOption reports whether the option exists and was parsed.
func (e *Engine) HasOption(name string) bool {
	n, ok := e.GetOption(name)
	return ok && n.Parsed()
}

// HasParameter reports whether the rootless parameter exists and was parsed.
func (e *Engine) HasParameter(name string) bool {
	n, ok := e.GetParameter(name)
	return ok && n.Parsed()
}

// KindOf returns the kind a top-level name must be written with. For an alias
// this is the alias's own kind.
func (e *Engine) KindOf(name string) (Kind, bool) {
	id, ok := e.top[name]
	if !ok {
		return 0, false
	}
	return e.nodes[id].kind, true
}

// Items returns the non-alias top-level items in registration order.
func (e *Engine) Items() []Node {
	var out []Node
	for _, id := range e.order {
		if e.nodes[id].aliasOf == noNode {
			out = append(out, Node{e, id})
		}
	}
	return out
}

// Walk visits every non-alias item depth first, top-level items in
// registration order. Returning false from fn skips the item's children.
func (e *Engine) Walk(fn func(Node) bool) {
	var visit func(Node)
	visit = func(n Node) {
		if !fn(n) {
			return
		}
		for _, c := range n.Children() {
			visit(c)
		}
	}
	for _, n := range e.Items() {
		visit(n)
	}
}

// Find follows a path of names from the top level, resolving aliases.
func (e *Engine) Find(path ...string) (Node, bool) {
	if len(path) == 0 {
		return Node{}, false
	}
	id, ok := e.top[path[0]]
	if !ok {
		return Node{}, false
	}
	n := Node{e, id}.Canonical()
	for _, name := range path[1:] {
		if n, ok = n.Child(name); !ok {
			return Node{}, false
		}
	}
	return n, true
}

// Parse tokenizes args and resolves them against the definition tree. The
// error is nil when no errors were collected. Without fail-fast it is a
// *ParseError holding every error; with fail-fast it is the first error.
func (e *Engine) Parse(args []string, mode Mode) (*Outcome, error) {
	return e.parse(Node{}, args, mode)
}

// ParseFrom is like Parse but resolves args as if resume had just been
// matched, so its children and those of its ancestors are in scope. resume
// and its ancestors count as given, with position -1.
func (e *Engine) ParseFrom(resume Node, args []string, mode Mode) (*Outcome, error) {
	if resume.IsZero() {
		return e.parse(Node{}, args, mode)
	}
	if resume.e != e {
		return nil, configErr(resume.Name(), "resume item belongs to another engine")
	}
	return e.parse(resume, args, mode)
}

func (e *Engine) parse(resume Node, args []string, mode Mode) (*Outcome, error) {
	e.pass++
	e.mode = mode
	e.args = append([]string(nil), args...)
	e.outcome = &Outcome{}
	if mode == Overwrite {
		for i := range e.nodes {
			e.nodes[i].reset()
		}
	}
	e.chain = Tokenize(args)
	e.log.Debug("cmdop: parse", "pass", e.pass, "mode", mode, "tokens", e.chain.Len())

	if err := e.resolve(resume); err != nil {
		return e.outcome, err
	}
	if err := e.validate(); err != nil {
		return e.outcome, err
	}
	e.log.Debug("cmdop: parsed", "pass", e.pass, "errors", len(e.outcome.Errors), "info", len(e.outcome.Info), "unknown", len(e.outcome.Unknown))
	return e.outcome, e.outcome.Err()
}

// report records a diagnostic and returns it as an error when the engine
// should stop.
func (e *Engine) report(d Diagnostic) error {
	e.outcome.add(d)
	if e.failFast && d.Severity == SeverityError {
		return d.Err
	}
	return nil
}

// Outcome returns the result of the last parse.
func (e *Engine) Outcome() *Outcome { return e.outcome }

// Errors returns the error messages of the last parse.
func (e *Engine) Errors() []string { return e.outcome.Messages(SeverityError) }

// Info returns the informational messages of the last parse.
func (e *Engine) Info() []string { return e.outcome.Messages(SeverityInfo) }

// HasUnknownArguments reports whether the last parse met unknown arguments.
func (e *Engine) HasUnknownArguments() bool { return len(e.outcome.Unknown) > 0 }

// UnknownArguments returns the unknown tokens of the last parse by name.
func (e *Engine) UnknownArguments() map[string]*Token {
	m := make(map[string]*Token, len(e.outcome.Unknown))
	for _, t := range e.outcome.Unknown {
		m[t.Name] = t
	}
	return m
}

// Chain returns the head of the token chain of the last parse.
func (e *Engine) Chain() *Token { return e.chain }

// Args returns the raw arguments of the last parse, or nil before the first.
func (e *Engine) Args() []string { return e.args }

// Passes returns the number of parses run so far.
func (e *Engine) Passes() int { return e.pass }
