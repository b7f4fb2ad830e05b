// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package validator provides value validators for cmdop items.
package validator

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Masterminds/semver/v3"
	"github.com/yeetrun/cmdop/pkg/cmdop"
)

// ErrNoValue is returned by validators that need a value when none was given.
var ErrNoValue = errors.New("no value given")

// IntValidator accepts base 10 integers, optionally within a range.
type IntValidator struct {
	min, max *int
}

// Int accepts any integer.
func Int() *IntValidator { return &IntValidator{} }

// IntRange accepts integers in [min, max].
func IntRange(min, max int) *IntValidator { return &IntValidator{min: &min, max: &max} }

func (v *IntValidator) Name() string { return "Int" }

func (v *IntValidator) Validate(_ cmdop.Node, value *string, _ int) error {
	if value == nil {
		return ErrNoValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(*value))
	if err != nil {
		return errors.New("failed to parse value as integer")
	}
	if v.min != nil && n < *v.min {
		return fmt.Errorf("%d is below the minimum %d", n, *v.min)
	}
	if v.max != nil && n > *v.max {
		return fmt.Errorf("%d is above the maximum %d", n, *v.max)
	}
	return nil
}

// LengthValidator bounds the number of characters of a value. A bound of 0
// is not checked.
type LengthValidator struct {
	Min, Max int
}

// Length returns a LengthValidator for the given bounds.
func Length(min, max int) LengthValidator { return LengthValidator{Min: min, Max: max} }

func (v LengthValidator) Name() string { return "Length" }

func (v LengthValidator) Validate(_ cmdop.Node, value *string, _ int) error {
	if value == nil {
		return nil
	}
	n := utf8.RuneCountInString(*value)
	if v.Min != 0 && n < v.Min {
		return fmt.Errorf("value too short (minimum %d characters needed)", v.Min)
	}
	if v.Max != 0 && n > v.Max {
		return fmt.Errorf("value too long (maximum %d characters allowed)", v.Max)
	}
	return nil
}

// RegexpValidator requires the whole value to match a pattern. A missing
// value passes.
type RegexpValidator struct {
	re *regexp.Regexp
}

// Regexp compiles pattern, anchored at both ends.
func Regexp(pattern string) (*RegexpValidator, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return nil, fmt.Errorf("validator: %w", err)
	}
	return &RegexpValidator{re: re}, nil
}

// MustRegexp is like Regexp but panics on an invalid pattern.
func MustRegexp(pattern string) *RegexpValidator {
	v, err := Regexp(pattern)
	if err != nil {
		panic(err)
	}
	return v
}

func (v *RegexpValidator) Name() string { return "Regexp" }

func (v *RegexpValidator) Validate(_ cmdop.Node, value *string, _ int) error {
	if value == nil || v.re.MatchString(*value) {
		return nil
	}
	return fmt.Errorf("value does not match %s", v.re)
}

// PathMode selects what PathValidator checks.
type PathMode int

const (
	PathExists PathMode = iota
	PathAbsent
	PathDir
	PathFile
)

// PathValidator checks a value against the file system.
type PathValidator struct {
	Mode PathMode
}

// Path checks the value as a file system path.
func Path(mode PathMode) PathValidator { return PathValidator{Mode: mode} }

func (v PathValidator) Name() string { return "Path" }

func (v PathValidator) Validate(_ cmdop.Node, value *string, _ int) error {
	if value == nil {
		return ErrNoValue
	}
	fi, err := os.Stat(*value)
	exists := err == nil
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	switch v.Mode {
	case PathAbsent:
		if exists {
			return fmt.Errorf("%s already exists", *value)
		}
		return nil
	case PathDir:
		if exists && !fi.IsDir() {
			return fmt.Errorf("%s is not a directory", *value)
		}
	case PathFile:
		if exists && !fi.Mode().IsRegular() {
			return fmt.Errorf("%s is not a regular file", *value)
		}
	}
	if !exists {
		return fmt.Errorf("%s does not exist", *value)
	}
	return nil
}

// OneOfValidator accepts a fixed set of values.
type OneOfValidator struct {
	values []string
}

// OneOf accepts only the listed values.
func OneOf(values ...string) OneOfValidator { return OneOfValidator{values: values} }

func (v OneOfValidator) Name() string { return "OneOf" }

func (v OneOfValidator) Validate(_ cmdop.Node, value *string, _ int) error {
	if value == nil {
		return ErrNoValue
	}
	if slices.Contains(v.values, *value) {
		return nil
	}
	return fmt.Errorf("must be one of %s", strings.Join(v.values, ", "))
}

// SemverValidator accepts semantic versions, optionally restricted by a
// constraint such as ">= 1.2, < 2".
type SemverValidator struct {
	c *semver.Constraints
}

// Semver accepts versions matching constraint. An empty constraint accepts
// any valid version.
func Semver(constraint string) (*SemverValidator, error) {
	if constraint == "" {
		return &SemverValidator{}, nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return nil, fmt.Errorf("validator: invalid constraint %q: %w", constraint, err)
	}
	return &SemverValidator{c: c}, nil
}

func (v *SemverValidator) Name() string { return "Semver" }

func (v *SemverValidator) Validate(_ cmdop.Node, value *string, _ int) error {
	if value == nil {
		return ErrNoValue
	}
	ver, err := semver.NewVersion(*value)
	if err != nil {
		return fmt.Errorf("invalid version: %w", err)
	}
	if v.c == nil {
		return nil
	}
	if ok, errs := v.c.Validate(ver); !ok {
		return errors.Join(errs...)
	}
	return nil
}

// All runs each validator in turn and returns the first error.
func All(vs ...cmdop.Validator) cmdop.ValidatorFunc {
	return func(item cmdop.Node, value *string, pos int) error {
		for _, v := range vs {
			if err := v.Validate(item, value, pos); err != nil {
				return err
			}
		}
		return nil
	}
}
