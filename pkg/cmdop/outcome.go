// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdop

// Severity separates diagnostics that fail a parse from informational ones.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "info"
}

// Diagnostic is one collected message.
type Diagnostic struct {
	Severity Severity
	Item     string
	Pos      int // token position, -1 for the structural checks
	Err      error
}

func (d Diagnostic) String() string {
	return d.Err.Error()
}

// Outcome is the result of one parse.
type Outcome struct {
	Errors []Diagnostic
	Info   []Diagnostic

	// Unknown holds the unresolved tokens, one per name, in the order the
	// names first appeared. A repeated name keeps its latest token.
	Unknown []*Token
}

// OK reports whether no errors were collected.
func (o *Outcome) OK() bool {
	return o == nil || len(o.Errors) == 0
}

// Err returns a *ParseError for the collected errors, or nil.
func (o *Outcome) Err() error {
	if o.OK() {
		return nil
	}
	return &ParseError{Diagnostics: o.Errors}
}

// Messages returns the texts of the diagnostics with the given severity.
func (o *Outcome) Messages(sev Severity) []string {
	if o == nil {
		return nil
	}
	src := o.Info
	if sev == SeverityError {
		src = o.Errors
	}
	out := make([]string, 0, len(src))
	for _, d := range src {
		out = append(out, d.String())
	}
	return out
}

func (o *Outcome) add(d Diagnostic) {
	if d.Severity == SeverityError {
		o.Errors = append(o.Errors, d)
	} else {
		o.Info = append(o.Info, d)
	}
}

func (o *Outcome) addUnknown(t *Token) {
	for i, u := range o.Unknown {
		if u.Name == t.Name {
			o.Unknown[i] = t
			return
		}
	}
	o.Unknown = append(o.Unknown, t)
}
