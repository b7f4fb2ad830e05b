// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package validator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yeetrun/cmdop/pkg/cmdop"
)

// cronFields are the fields of "m h dom mon dow" with their value ranges.
var cronFields = []struct {
	name     string
	min, max int
}{
	{"minute", 0, 59},
	{"hour", 0, 23},
	{"day of month", 1, 31},
	{"month", 1, 12},
	{"day of week", 0, 7},
}

// CronValidator accepts five field cron expressions.
type CronValidator struct{}

// Cron accepts five-field cron expressions.
func Cron() CronValidator { return CronValidator{} }

func (CronValidator) Name() string { return "Cron" }

func (CronValidator) Validate(_ cmdop.Node, value *string, _ int) error {
	if value == nil {
		return ErrNoValue
	}
	return CheckCron(*value)
}

// CheckCron reports whether expr is a valid cron expression. Each field is a
// comma separated list of "*", "N", "A-B", optionally followed by "/STEP".
func CheckCron(expr string) error {
	parts := strings.Fields(expr)
	if len(parts) != len(cronFields) {
		return fmt.Errorf("invalid cron expression: %q", expr)
	}
	for i, part := range parts {
		f := cronFields[i]
		for _, item := range strings.Split(part, ",") {
			if err := checkCronItem(item, f.min, f.max); err != nil {
				return fmt.Errorf("invalid %s %q: %w", f.name, part, err)
			}
		}
	}
	return nil
}

func checkCronItem(item string, min, max int) error {
	rng, step, hasStep := strings.Cut(item, "/")
	if hasStep {
		n, err := strconv.Atoi(step)
		if err != nil || n <= 0 {
			return fmt.Errorf("bad step %q", step)
		}
	}
	if rng == "*" {
		return nil
	}
	lo, hi, isRange := strings.Cut(rng, "-")
	start, err := cronNumber(lo, min, max)
	if err != nil {
		return err
	}
	if !isRange {
		return nil
	}
	end, err := cronNumber(hi, min, max)
	if err != nil {
		return err
	}
	if start > end {
		return fmt.Errorf("range %s is reversed", rng)
	}
	return nil
}

func cronNumber(s string, min, max int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if n < min || n > max {
		return 0, fmt.Errorf("%d is outside %d-%d", n, min, max)
	}
	return n, nil
}
