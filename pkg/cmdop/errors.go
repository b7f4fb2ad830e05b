// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdop

import (
	"fmt"
	"strings"
)

// ConfigurationError is returned while building the definition tree. It is
// never collected; the offending call fails immediately.
type ConfigurationError struct {
	Item   string // name being registered, if any
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Item == "" {
		return "configuration: " + e.Reason
	}
	return fmt.Sprintf("configuration: item '%s': %s", e.Item, e.Reason)
}

func configErr(item, format string, args ...any) error {
	return &ConfigurationError{Item: item, Reason: fmt.Sprintf(format, args...)}
}

// ValidationError is reported when an item's validator rejects a value.
type ValidationError struct {
	Item      string
	Value     *string
	Validator string
	Err       error
}

func (e *ValidationError) Error() string {
	v := "<none>"
	if e.Value != nil {
		v = *e.Value
	}
	return fmt.Sprintf("[%s] Validation of item '%s' with value '%s' failed: %v", e.Validator, e.Item, v, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Constraint names the structural rule a ConstraintError violates.
type Constraint int

const (
	ConstraintMandatory Constraint = iota
	ConstraintValueRequired
	ConstraintMinValues
	ConstraintMaxValues
	ConstraintGroup
)

func (c Constraint) String() string {
	switch c {
	case ConstraintMandatory:
		return "mandatory"
	case ConstraintValueRequired:
		return "value-required"
	case ConstraintMinValues:
		return "min-values"
	case ConstraintMaxValues:
		return "max-values"
	case ConstraintGroup:
		return "group"
	default:
		return "unknown"
	}
}

// ConstraintError is a violated mandatory, required-value, multi-value range
// or group rule.
type ConstraintError struct {
	Rule  Constraint
	Item  string
	Limit int // min or max value count for the range rules

	Group   string
	Mode    GroupMode
	Members []string
	Found   int // parsed members, for group rules
}

func (e *ConstraintError) Error() string {
	switch e.Rule {
	case ConstraintMandatory:
		return fmt.Sprintf("Mandatory item '%s' not found", e.Item)
	case ConstraintValueRequired:
		return fmt.Sprintf("Item '%s' requires a value", e.Item)
	case ConstraintMinValues:
		return fmt.Sprintf("Item '%s' needs at least %d values.", e.Item, e.Limit)
	case ConstraintMaxValues:
		return fmt.Sprintf("Item '%s' is limited to %d values.", e.Item, e.Limit)
	}
	members := "[" + strings.Join(e.Members, ", ") + "]"
	switch {
	case e.Mode == GroupExclude || (e.Mode == GroupExcludeOne && e.Found > 1):
		return fmt.Sprintf("More than one item of the %s-group '%s' found. Only one of the following items is allowed: %s", e.Mode, e.Group, members)
	case e.Mode == GroupExcludeOne:
		return fmt.Sprintf("The %s-group '%s' needs at least one (but not more) of its items. Items in the group are: %s", e.Mode, e.Group, members)
	case e.Mode == GroupInclude:
		return fmt.Sprintf("One or more items of the %s-group '%s' are missing. Needed items are: %s", e.Mode, e.Group, members)
	default:
		return fmt.Sprintf("No item of the %s-group '%s' has been found. At least one of these items is needed: %s", e.Mode, e.Group, members)
	}
}

// UnknownArgumentError is reported for a token that matched no item and was
// not taken as an extra value.
type UnknownArgumentError struct {
	Token      *Token
	Context    string // name of the last matched item, if any
	Suggestion string
}

func (e *UnknownArgumentError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Unknown argument '%s' given", e.Token.Name)
	if e.Context != "" {
		fmt.Fprintf(&b, " after '%s'", e.Context)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, ", did you mean '%s'?", e.Suggestion)
	}
	return b.String()
}

// KindMismatchError is reported when a token names an item but was written
// with the wrong prefix. The match is discarded.
type KindMismatchError struct {
	Item    string
	Defined Kind
	Given   Kind
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("Item '%s' is defined as %s but given as %s", e.Item, e.Defined, e.Given)
}

// DuplicateError is reported when an item that takes a single value occurs
// again, or when a merge pass meets an item set by an earlier pass.
type DuplicateError struct {
	Item    string
	Earlier bool
}

func (e *DuplicateError) Error() string {
	if e.Earlier {
		return fmt.Sprintf("Item '%s' was already set by an earlier parse. The earlier value is kept.", e.Item)
	}
	return fmt.Sprintf("Item '%s' occurs more than once. Only first occurrence is used.", e.Item)
}

// ParseError carries every error diagnostic collected by a parse.
type ParseError struct {
	Diagnostics []Diagnostic
}

func (e *ParseError) Error() string {
	if len(e.Diagnostics) == 1 {
		return e.Diagnostics[0].Err.Error()
	}
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = d.Err.Error()
	}
	return fmt.Sprintf("%d errors: %s", len(msgs), strings.Join(msgs, "; "))
}

func (e *ParseError) Unwrap() []error {
	errs := make([]error, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		errs[i] = d.Err
	}
	return errs
}
