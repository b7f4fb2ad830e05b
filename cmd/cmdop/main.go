// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command cmdop parses command lines against definition files and shows how
// every token was resolved.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"slices"

	"github.com/shayne/yargs"
	"github.com/yeetrun/cmdop/pkg/cmdop"
	"github.com/yeetrun/cmdop/pkg/deffile"
	"github.com/yeetrun/cmdop/pkg/printer"
	"github.com/yeetrun/cmdop/pkg/source"
	"golang.org/x/term"
)

// errFailed is returned when a parse produced errors. The outcome has
// already been printed, so main only sets the exit code.
var errFailed = errors.New("parse failed")

type globalFlagsParsed struct{}

type checkFlagsParsed struct {
	Defs        string   `flag:"defs" short:"d" help:"Definition file (.toml, .yaml)"`
	From        []string `flag:"from" help:"Value source parsed with the arguments (repeatable)"`
	Overwrite   bool     `flag:"overwrite" help:"Let the arguments win over --from sources"`
	FailFast    bool     `flag:"fail-fast" help:"Stop at the first error"`
	UnknownInfo bool     `flag:"unknown-info" help:"Report unknown arguments as info"`
	Format      string   `flag:"format" help:"Value output: plain or table" default:"plain"`
	NoColor     bool     `flag:"no-color" help:"Disable colored output"`
	Debug       bool     `flag:"debug" help:"Log token resolution to stderr"`
}

type describeFlagsParsed struct {
	Defs string `flag:"defs" short:"d" help:"Definition file (.toml, .yaml)"`
	All  bool   `flag:"all" help:"Include hidden items"`
}

type exportFlagsParsed struct {
	Defs   string `flag:"defs" short:"d" help:"Definition file (.toml, .yaml)"`
	Prefix string `flag:"prefix" help:"Prefix for variable names"`
}

// app carries the output and the arguments after "--", which are kept away
// from the flag parser.
type app struct {
	out   io.Writer
	rest  []string
	tty   bool
	width int
}

func splitArgs(args []string) (flags, rest []string) {
	i := slices.Index(args, "--")
	if i < 0 {
		return args, nil
	}
	return args[:i], args[i+1:]
}

// stripCommand drops the subcommand name yargs leaves in front of the flags.
func stripCommand(args []string, name string) []string {
	if len(args) > 0 && args[0] == name {
		return args[1:]
	}
	return args
}

func (a *app) printer(noColor bool) *printer.Printer {
	return printer.New(a.out, printer.WithColor(a.tty && !noColor), printer.WithWidth(a.width))
}

func loadEngine(path string, opts ...cmdop.EngineOption) (*cmdop.Engine, error) {
	if path == "" {
		return nil, errors.New("--defs is required")
	}
	f, err := deffile.Load(path)
	if err != nil {
		return nil, err
	}
	return f.Build(opts...)
}

func (a *app) handleCheck(ctx context.Context, args []string) error {
	result, err := yargs.ParseFlags[checkFlagsParsed](stripCommand(args, "check"))
	if err != nil {
		return err
	}
	flags := result.Flags
	switch flags.Format {
	case "", "plain", "table":
	default:
		return fmt.Errorf("unknown format %q", flags.Format)
	}

	var opts []cmdop.EngineOption
	if flags.FailFast {
		opts = append(opts, cmdop.WithFailFast())
	}
	if flags.UnknownInfo {
		opts = append(opts, cmdop.WithUnknownAsInfo())
	}
	if flags.Debug {
		opts = append(opts, cmdop.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	}
	e, err := loadEngine(flags.Defs, opts...)
	if err != nil {
		return err
	}

	var fromArgs []string
	if len(flags.From) > 0 {
		entries, err := source.LoadFiles(ctx, flags.From...)
		if err != nil {
			return err
		}
		fromArgs = source.Args(e, entries)
		if flags.Debug {
			log.Printf("loaded %d entries from %d sources: %q", len(entries), len(flags.From), fromArgs)
		}
	}

	p := a.printer(flags.NoColor)
	var (
		final  *cmdop.Outcome
		failed bool
	)
	passes := planPasses(a.rest, fromArgs, len(flags.From) > 0, flags.Overwrite)
	for i, ps := range passes {
		out, err := e.Parse(ps.args, ps.mode)
		if i == len(passes)-1 {
			final = out
			break
		}
		early := withoutConstraints(out)
		if len(early.Errors)+len(early.Info)+len(early.Unknown) > 0 {
			if err := p.Outcome(early); err != nil {
				return err
			}
		}
		if len(early.Errors) > 0 {
			failed = true
			if flags.FailFast && err != nil {
				return errFailed
			}
		}
	}

	if err := p.Outcome(final); err != nil {
		return err
	}
	if flags.Format == "table" {
		err = p.Table(e)
	} else {
		err = p.Items(e, printer.ItemsOptions{Values: true})
	}
	if err != nil {
		return err
	}
	if failed || !final.OK() {
		return errFailed
	}
	return nil
}

type pass struct {
	args []string
	mode cmdop.Mode
}

// planPasses orders the parses of check. Merge mode keeps the value of the
// first pass that set an item, so whichever side should win goes first.
func planPasses(args, fromArgs []string, haveSources, overwrite bool) []pass {
	switch {
	case !haveSources:
		return []pass{{args, cmdop.Overwrite}}
	case overwrite:
		return []pass{{args, cmdop.Overwrite}, {fromArgs, cmdop.Merge}}
	default:
		return []pass{{fromArgs, cmdop.Merge}, {args, cmdop.Merge}}
	}
}

// withoutConstraints drops structural errors from an intermediate pass. They
// are checked again once every source has been merged.
func withoutConstraints(out *cmdop.Outcome) *cmdop.Outcome {
	early := &cmdop.Outcome{Info: out.Info, Unknown: out.Unknown}
	for _, d := range out.Errors {
		var cerr *cmdop.ConstraintError
		if !errors.As(d.Err, &cerr) {
			early.Errors = append(early.Errors, d)
		}
	}
	return early
}

func (a *app) handleTokens(_ context.Context, args []string) error {
	if len(stripCommand(args, "tokens")) > 0 {
		return errors.New("tokens takes no flags; pass the arguments after --")
	}
	return a.printer(false).Chain(cmdop.Tokenize(a.rest), false)
}

func (a *app) handleDescribe(_ context.Context, args []string) error {
	result, err := yargs.ParseFlags[describeFlagsParsed](stripCommand(args, "describe"))
	if err != nil {
		return err
	}
	e, err := loadEngine(result.Flags.Defs)
	if err != nil {
		return err
	}
	return a.printer(false).Help(e, result.Flags.All)
}

func (a *app) handleExport(_ context.Context, args []string) error {
	result, err := yargs.ParseFlags[exportFlagsParsed](stripCommand(args, "export"))
	if err != nil {
		return err
	}
	e, err := loadEngine(result.Flags.Defs)
	if err != nil {
		return err
	}
	out, err := e.Parse(a.rest, cmdop.Overwrite)
	if err != nil {
		if perr := a.printer(false).Outcome(out); perr != nil {
			return errors.Join(errFailed, perr)
		}
		return errFailed
	}
	return source.WriteEnv(a.out, result.Flags.Prefix, e)
}

func buildHelpConfig() yargs.HelpConfig {
	return yargs.HelpConfig{
		Command: yargs.CommandInfo{
			Name:        "cmdop",
			Description: "Resolve command lines against option and parameter definitions.",
			Examples: []string{
				"cmdop tokens -- --server port=9000 -vq",
				"cmdop check --defs=defs.toml -- --server port=9000",
				"cmdop check --defs=defs.toml --from=site.yaml --overwrite -- --client host=a",
				"cmdop export --defs=defs.toml --prefix=APP -- --server",
			},
		},
		SubCommands: map[string]yargs.SubCommandInfo{
			"check": {
				Name:        "check",
				Description: "Parse arguments and sources, print diagnostics and values",
				Usage:       "--defs=FILE [--from=FILE]... -- ARGS...",
			},
			"tokens": {
				Name:        "tokens",
				Description: "Print the token chain of the arguments",
				Usage:       "-- ARGS...",
			},
			"describe": {
				Name:        "describe",
				Description: "Print the definition tree as help text",
				Usage:       "--defs=FILE [--all]",
			},
			"export": {
				Name:        "export",
				Description: "Print parsed values as environment lines",
				Usage:       "--defs=FILE [--prefix=P] -- ARGS...",
				Examples:    []string{"eval $(cmdop export --defs=defs.toml --prefix=APP -- --server port=1)"},
			},
		},
	}
}

func printCLIError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(w, "cmdop:", err)
}

func main() {
	log.SetFlags(0)
	flags, rest := splitArgs(os.Args[1:])
	a := &app{out: os.Stdout, rest: rest}
	if fd := int(os.Stdout.Fd()); term.IsTerminal(fd) {
		a.tty = true
		if w, _, err := term.GetSize(fd); err == nil {
			a.width = w
		}
	}

	handlers := map[string]yargs.SubcommandHandler{
		"check":    a.handleCheck,
		"tokens":   a.handleTokens,
		"describe": a.handleDescribe,
		"export":   a.handleExport,
	}
	if err := yargs.RunSubcommands(context.Background(), flags, buildHelpConfig(), globalFlagsParsed{}, handlers); err != nil {
		if err != errFailed {
			printCLIError(os.Stderr, err)
		}
		os.Exit(1)
	}
}
