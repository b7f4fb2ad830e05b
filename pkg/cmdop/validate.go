// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdop

// validate runs the structural checks over the tree and then the groups.
func (e *Engine) validate() error {
	var err error
	e.Walk(func(n Node) bool {
		if err != nil {
			return false
		}
		err = e.checkItem(n)
		return err == nil
	})
	if err != nil {
		return err
	}
	for _, g := range e.groups {
		if err := g.check(); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) checkItem(n Node) error {
	c := n.canon()
	report := func(cerr *ConstraintError) error {
		return e.report(Diagnostic{Severity: SeverityError, Item: c.name, Pos: -1, Err: cerr})
	}
	if c.mandatory && !c.parsed {
		if p, ok := n.Parent(); !ok || p.Parsed() {
			if err := report(&ConstraintError{Rule: ConstraintMandatory, Item: c.name}); err != nil {
				return err
			}
		}
	}
	if c.valueRequired && c.parsed {
		if _, ok := n.Value(); !ok {
			if err := report(&ConstraintError{Rule: ConstraintValueRequired, Item: c.name}); err != nil {
				return err
			}
		}
	}
	if c.parsed && c.multi && len(c.values) < c.min {
		if err := report(&ConstraintError{Rule: ConstraintMinValues, Item: c.name, Limit: c.min}); err != nil {
			return err
		}
	}
	return nil
}
