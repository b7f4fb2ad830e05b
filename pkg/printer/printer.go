// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package printer renders cmdop engines, token chains and parse outcomes for
// humans.
package printer

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/yeetrun/cmdop/pkg/cmdop"
)

// Printer writes renderings to w.
type Printer struct {
	w     io.Writer
	width int

	red, yellow, green, bold *color.Color
}

// Option configures a Printer.
type Option func(*Printer)

// WithColor turns ANSI colors on or off. They are off by default.
func WithColor(on bool) Option {
	return func(p *Printer) {
		for _, c := range []*color.Color{p.red, p.yellow, p.green, p.bold} {
			if on {
				c.EnableColor()
			} else {
				c.DisableColor()
			}
		}
	}
}

// WithWidth caps the width of tables. 0 leaves them unbounded.
func WithWidth(n int) Option {
	return func(p *Printer) { p.width = n }
}

// New returns a Printer writing to w. Colors are off unless WithColor
// turns them on.
func New(w io.Writer, opts ...Option) *Printer {
	p := &Printer{
		w:      w,
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
		green:  color.New(color.FgGreen),
		bold:   color.New(color.Bold),
	}
	WithColor(false)(p)
	for _, o := range opts {
		o(p)
	}
	return p
}

// Chain writes one "name=value [kind]" entry per token. Flat output puts them
// on one line; otherwise each token goes on its own line, indented by its
// position.
func (p *Printer) Chain(head *cmdop.Token, flat bool) error {
	var b strings.Builder
	for t := head; t != nil; t = t.Next() {
		if !flat {
			b.WriteString(strings.Repeat("  ", t.Pos))
		}
		fmt.Fprintf(&b, "%s=%s [%s]", t.Name, optional(t.Value), t.Kind)
		if flat && t.Next() != nil {
			b.WriteByte(' ')
		} else {
			b.WriteByte('\n')
		}
	}
	_, err := io.WriteString(p.w, b.String())
	return err
}

func optional(v *string) string {
	if v == nil {
		return "<none>"
	}
	return *v
}

// ItemsOptions selects what Items shows.
type ItemsOptions struct {
	Flat       bool // one line, prefixed names, no descriptions
	Values     bool // append current values and defaults
	ShowHidden bool
}

// Items lists the defined items depth first. Mandatory items are marked with
// "*" and aliases follow in brackets.
func (p *Printer) Items(e *cmdop.Engine, o ItemsOptions) error {
	if o.Flat {
		var parts []string
		walkVisible(e, o.ShowHidden, func(n cmdop.Node) {
			parts = append(parts, p.itemLabel(n, o.Values))
		})
		_, err := fmt.Fprintln(p.w, strings.Join(parts, " "))
		return err
	}
	tw := tabwriter.NewWriter(p.w, 0, 0, 3, ' ', 0)
	walkVisible(e, o.ShowHidden, func(n cmdop.Node) {
		fmt.Fprintf(tw, "%s%s\t%s\n", strings.Repeat("  ", n.Level()), p.itemLabel(n, o.Values), n.Description())
	})
	return tw.Flush()
}

// Help writes the item tree under a heading.
func (p *Printer) Help(e *cmdop.Engine, showHidden bool) error {
	if _, err := fmt.Fprintln(p.w, "Command line help:"); err != nil {
		return err
	}
	return p.Items(e, ItemsOptions{ShowHidden: showHidden})
}

// Args writes the raw arguments of the last parse.
func (p *Printer) Args(e *cmdop.Engine) error {
	args := e.Args()
	s := "Not yet parsed"
	if args != nil {
		s = strings.Join(args, " ")
	}
	_, err := fmt.Fprintln(p.w, s)
	return err
}

func walkVisible(e *cmdop.Engine, showHidden bool, fn func(cmdop.Node)) {
	e.Walk(func(n cmdop.Node) bool {
		if n.Hidden() && !showHidden {
			return false
		}
		fn(n)
		return true
	})
}

func (p *Printer) itemLabel(n cmdop.Node, withValues bool) string {
	var b strings.Builder
	if n.Mandatory() {
		b.WriteString(p.bold.Sprint("*"))
	}
	b.WriteString(n.Kind().Prefix())
	b.WriteString(n.Name())
	if withValues {
		b.WriteString("=")
		b.WriteString(valueString(n))
		if d, ok := n.Default(); ok {
			fmt.Fprintf(&b, " (%s)", d)
		}
	}
	if aliases := n.Aliases(); len(aliases) > 0 {
		names := make([]string, len(aliases))
		for i, a := range aliases {
			names[i] = a.Kind().Prefix() + a.Name()
		}
		fmt.Fprintf(&b, " [%s]", strings.Join(names, ", "))
	}
	return b.String()
}

func valueString(n cmdop.Node) string {
	if n.Parsed() && n.MultiValue() {
		return strings.Join(n.Values(), " ")
	}
	v, _ := n.Value()
	return v
}

// Table renders every parsed or defaulted item as a table.
func (p *Printer) Table(e *cmdop.Engine) error {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"ITEM", "KIND", "PARSED", "VALUE", "DEFAULT", "POS"})
	e.Walk(func(n cmdop.Node) bool {
		def, _ := n.Default()
		pos := ""
		if n.Pos() >= 0 {
			pos = strconv.Itoa(n.Pos())
		}
		tw.AppendRow(table.Row{
			strings.Repeat("  ", n.Level()) + n.Name(),
			n.Kind().String(),
			formatBool(n.Parsed()),
			valueString(n),
			def,
			pos,
		})
		return true
	})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft},
		{Number: 3, Align: text.AlignCenter},
		{Number: 4, Align: text.AlignLeft},
		{Number: 5, Align: text.AlignLeft},
		{Number: 6, Align: text.AlignRight},
	})
	tw.SetStyle(table.StyleLight)
	if p.width > 0 {
		tw.SetAllowedRowLength(p.width)
	}
	_, err := fmt.Fprintln(p.w, tw.Render())
	return err
}

func formatBool(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// Outcome writes the diagnostics of a parse followed by a summary line.
func (p *Printer) Outcome(out *cmdop.Outcome) error {
	var b strings.Builder
	for _, d := range out.Errors {
		fmt.Fprintf(&b, "%s %s\n", p.red.Sprint("error:"), d)
	}
	for _, d := range out.Info {
		fmt.Fprintf(&b, "%s %s\n", p.yellow.Sprint("info:"), d)
	}
	if len(out.Unknown) > 0 {
		names := make([]string, len(out.Unknown))
		for i, t := range out.Unknown {
			names[i] = t.String()
		}
		fmt.Fprintf(&b, "unknown: %s\n", strings.Join(names, " "))
	}
	if out.OK() {
		b.WriteString(p.green.Sprint("ok"))
	} else {
		b.WriteString(p.red.Sprintf("%d error(s)", len(out.Errors)))
	}
	b.WriteByte('\n')
	_, err := io.WriteString(p.w, b.String())
	return err
}
