// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdop

import "strings"

// resolve walks the token chain once, matching every token against the tree.
func (e *Engine) resolve(resume Node) error {
	previous := noNode
	if !resume.IsZero() {
		previous = resume.canonID()
		e.matchPath(previous)
	}
	for t := e.chain; t != nil; t = t.next {
		current := e.lookup(t, previous)
		if current != noNode && e.nodes[current].kind != t.Kind {
			// A bare word absorbed by a multi-value item is not a misspelled item.
			if !e.continues(t, previous) {
				err := &KindMismatchError{Item: t.Name, Defined: e.nodes[current].kind, Given: t.Kind}
				if ferr := e.report(Diagnostic{Severity: SeverityInfo, Item: t.Name, Pos: t.Pos, Err: err}); ferr != nil {
					return ferr
				}
			}
			current = noNode
		}
		if t.Kind.IsOption() {
			previous = current
		}
		if current != noNode {
			current = e.canonical(current)
			e.log.Debug("cmdop: token", "token", t.String(), "kind", t.Kind, "pos", t.Pos, "item", e.nodes[current].name)
			if err := e.set(current, t, t.Value); err != nil {
				return err
			}
			previous = current
			continue
		}
		if e.continues(t, previous) {
			e.log.Debug("cmdop: token", "token", t.String(), "kind", t.Kind, "pos", t.Pos, "item", e.nodes[previous].name, "continuation", true)
			name := t.Name
			if err := e.set(previous, t, &name); err != nil {
				return err
			}
			continue
		}
		e.log.Debug("cmdop: token", "token", t.String(), "kind", t.Kind, "pos", t.Pos, "unknown", true)
		if err := e.unknown(t, previous); err != nil {
			return err
		}
	}
	return nil
}

// matchPath marks id and its ancestors as given, as if their tokens had
// preceded the chain. Items already parsed keep their state.
func (e *Engine) matchPath(id NodeID) {
	for ; id != noNode; id = e.nodes[id].parent {
		n := &e.nodes[id]
		if !n.parsed {
			n.parsed, n.pass, n.pos = true, e.pass, -1
		}
	}
}

// continues reports whether t is a bare word that previous takes as one more
// value.
func (e *Engine) continues(t *Token, previous NodeID) bool {
	return !t.Kind.IsOption() && t.Value == nil && previous != noNode && e.nodes[previous].multi
}

func (e *Engine) canonical(id NodeID) NodeID {
	if a := e.nodes[id].aliasOf; a != noNode {
		return a
	}
	return id
}

// lookup returns the raw id (possibly an alias) the token names, or noNode.
func (e *Engine) lookup(t *Token, previous NodeID) NodeID {
	if t.Kind.IsOption() || previous == noNode {
		if id, ok := e.top[t.Name]; ok {
			return id
		}
		return noNode
	}
	for p := previous; p != noNode; p = e.nodes[p].parent {
		if id, ok := e.nodes[p].byName[t.Name]; ok {
			return id
		}
	}
	if id, ok := e.top[t.Name]; ok {
		return id
	}
	return noNode
}

// set applies one value to the canonical item id.
func (e *Engine) set(id NodeID, t *Token, value *string) error {
	n := &e.nodes[id]
	report := func(sev Severity, err error) error {
		return e.report(Diagnostic{Severity: sev, Item: n.name, Pos: t.Pos, Err: err})
	}
	if e.mode == Merge && n.parsed && n.pass < e.pass {
		return report(SeverityInfo, &DuplicateError{Item: n.name, Earlier: true})
	}
	replace := false
	if n.multi {
		if value == nil {
			// Marks the item as given; values follow as separate tokens.
			n.parsed, n.pass, n.pos = true, e.pass, t.Pos
			return nil
		}
		if n.max != 0 && len(n.values) >= n.max {
			return report(SeverityError, &ConstraintError{Rule: ConstraintMaxValues, Item: n.name, Limit: n.max})
		}
	} else if n.parsed {
		if e.mode == Merge {
			return report(SeverityInfo, &DuplicateError{Item: n.name})
		}
		replace = true
	}

	n.parsed, n.pass = true, e.pass
	if n.validator != nil {
		pos := 0
		if n.multi {
			pos = len(n.values)
		}
		if err := n.validator.Validate(Node{e, id}, value, pos); err != nil {
			return report(SeverityError, &ValidationError{Item: n.name, Value: value, Validator: validatorName(n.validator), Err: err})
		}
	}
	if n.boolean {
		b := "false"
		if value == nil || strings.EqualFold(*value, "true") {
			b = "true"
		}
		value = &b
	}
	if replace {
		n.values = []*string{value}
	} else {
		n.values = append(n.values, value)
	}
	n.pos = t.Pos
	return nil
}

func (e *Engine) unknown(t *Token, previous NodeID) error {
	uerr := &UnknownArgumentError{Token: t}
	if previous != noNode {
		uerr.Context = e.nodes[previous].name
	}
	if e.suggest {
		uerr.Suggestion = closestMatch(t.Name, e.candidates(t, previous))
	}
	e.outcome.addUnknown(t)
	sev := SeverityError
	if e.unknownInfo {
		sev = SeverityInfo
	}
	return e.report(Diagnostic{Severity: sev, Item: t.Name, Pos: t.Pos, Err: uerr})
}

// candidates lists the names a token of t's kind could have matched.
func (e *Engine) candidates(t *Token, previous NodeID) []string {
	var names []string
	if !t.Kind.IsOption() {
		for p := previous; p != noNode; p = e.nodes[p].parent {
			for _, id := range e.nodes[p].children {
				names = append(names, e.nodes[id].name)
			}
		}
	}
	for _, id := range e.order {
		if e.nodes[id].kind == t.Kind {
			names = append(names, e.nodes[id].name)
		}
	}
	return names
}
