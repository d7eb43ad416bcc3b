// SPDX-License-Identifier: Apache-2.0
package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"hdlio"
	"hdlio/internal/ast"
	"hdlio/internal/config"
	"hdlio/internal/errors"
	"hdlio/internal/group"
	"hdlio/internal/library"
	"hdlio/internal/report"
	"hdlio/repl"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type cli struct {
	grouped bool
	tree    bool
	entity  string
	lib     string
	policy  group.Policy
	std     ast.Standard

	stdout io.Writer
	stderr io.Writer
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("hdlio", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: hdlio [flags] <file.vhd>...")
		fmt.Fprintln(stderr, "       hdlio [flags] -project <dir>")
		fs.PrintDefaults()
	}

	grouped := fs.Bool("grouped", false, "list ports in their source groups")
	policy := fs.String("policy", "", "grouping policy: comments or blank-lines")
	std := fs.String("std", "", "VHDL standard (1993, 2000, 2002, 2008, 2019)")
	lib := fs.String("lib", "", "library to compile into")
	entity := fs.String("entity", "", "only report the named entity")
	tree := fs.Bool("tree", false, "print the syntax tree instead of entities")
	project := fs.String("project", "", "load every library of the project rooted at this directory")
	interactive := fs.Bool("i", false, "read VHDL interactively from stdin")
	verbose := fs.Int("v", 0, "log verbosity")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *verbose > 0 {
		commonlog.Configure(*verbose, nil)
	}

	c := &cli{grouped: *grouped, tree: *tree, entity: *entity, lib: *lib, stdout: stdout, stderr: stderr}
	var err error
	if c.policy, err = group.ParsePolicy(*policy); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	c.std = ast.DefaultStandard
	if *std != "" {
		if c.std, err = ast.ParseStandard(*std); err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
	}

	switch {
	case *interactive:
		if err := repl.Start(stdin, stdout, c.grouped, c.options()...); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	case *project != "":
		return c.project(*project, *policy != "", *std != "")
	case fs.NArg() == 0:
		fs.Usage()
		return 2
	}

	failed := false
	for _, path := range fs.Args() {
		if !c.file(path) {
			failed = true
		}
	}
	if failed {
		return 1
	}
	return 0
}

func (c *cli) options() []hdlio.Option {
	return []hdlio.Option{hdlio.WithPolicy(c.policy), hdlio.WithStandard(c.std), hdlio.WithLibrary(c.lib)}
}

// file reports one input. It returns false when the file could not be read or
// parsed, or when the requested entity is not in it.
func (c *cli) file(path string) bool {
	start := time.Now()
	mode := hdlio.ModeAST
	if c.tree {
		mode = hdlio.ModeTree
	}

	res, err := hdlio.ParseFile(path, mode, c.options()...)
	if err != nil {
		c.fail(err)
		color.New(color.FgRed).Fprintf(c.stderr, "Processing %s failed after %s\n", path, formatDuration(time.Since(start)))
		return false
	}
	c.diagnostics(res.Diagnostics)

	if res.Mode == hdlio.ModeTree {
		fmt.Fprint(c.stdout, res.Tree.String())
	} else if !c.report(res.Module) {
		return false
	}
	color.New(color.FgGreen).Fprintf(c.stderr, "Successfully processed %s in %s\n", path, formatDuration(time.Since(start)))
	return true
}

func (c *cli) report(m *ast.Module) bool {
	if c.entity == "" {
		return c.check(report.Entities(c.stdout, m, c.grouped))
	}
	e, ok := m.Entity(c.entity)
	if !ok {
		var names []string
		for _, e := range m.Entities {
			names = append(names, e.Name)
		}
		c.fail(errors.UnknownEntity(c.entity, ast.Position{Filename: m.Source}, names))
		return false
	}
	return c.check(report.Entity(c.stdout, e, c.grouped))
}

func (c *cli) project(dir string, policySet, stdSet bool) int {
	start := time.Now()
	cfg, root, err := config.Find(dir)
	if err != nil {
		c.fail(err)
		return 1
	}
	if !policySet {
		c.policy, _ = cfg.Policy()
	}
	if !stdSet {
		c.std, _ = cfg.StandardValue()
	}
	libs, err := cfg.Resolve(root)
	if err != nil {
		c.fail(err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := library.New(library.Options{Standard: c.std, Policy: c.policy, Jobs: cfg.Jobs})
	loadErr := m.LoadAll(ctx, libs)
	c.diagnostics(m.Diagnostics())

	failed := false
	if loadErr != nil {
		c.fail(loadErr)
		failed = true
	}

	found := c.entity == ""
	var available []string
	for _, name := range m.Libraries() {
		if c.lib != "" && !strings.EqualFold(name, c.lib) {
			continue
		}
		modules, err := m.Modules(name)
		if err != nil {
			c.fail(err)
			return 1
		}
		for _, mod := range modules {
			if c.entity != "" {
				for _, e := range mod.Entities {
					available = append(available, e.Name)
				}
				if e, ok := mod.Entity(c.entity); ok {
					found = true
					failed = !c.check(report.Entity(c.stdout, e, c.grouped)) || failed
				}
				continue
			}
			fmt.Fprintf(c.stdout, "%s (library %s)\n", mod.Source, mod.Library)
			failed = !c.check(report.Entities(c.stdout, mod, c.grouped)) || failed
		}
	}
	if !found {
		c.fail(errors.UnknownEntity(c.entity, ast.Position{}, available))
		failed = true
	}

	elapsed := formatDuration(time.Since(start))
	if failed {
		color.New(color.FgRed).Fprintf(c.stderr, "Project %s failed after %s\n", root, elapsed)
		return 1
	}
	color.New(color.FgGreen).Fprintf(c.stderr, "Successfully processed %d libraries in %s\n", len(libs), elapsed)
	return 0
}

// fail prints err with a source excerpt where it has a position.
func (c *cli) fail(err error) {
	var (
		syntaxErr   *hdlio.SyntaxError
		notFound    *hdlio.NotFoundError
		compilerErr errors.CompilerError
	)
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			c.fail(e)
		}
		return
	}
	switch {
	case stderrors.As(err, &syntaxErr):
		c.diagnostics([]errors.CompilerError{syntaxErr.Diagnostic()})
	case stderrors.As(err, &compilerErr):
		c.diagnostics([]errors.CompilerError{compilerErr})
	case stderrors.As(err, &notFound):
		color.New(color.FgRed).Fprintln(c.stderr, notFound.Error())
	default:
		color.New(color.FgRed).Fprintln(c.stderr, err.Error())
	}
}

// diagnostics formats ds against the files they point into.
func (c *cli) diagnostics(ds []errors.CompilerError) {
	sources := map[string]string{}
	for _, d := range ds {
		name := d.Position.Filename
		src, ok := sources[name]
		if !ok && name != "" && d.Position.Line > 0 {
			if data, err := os.ReadFile(name); err == nil {
				src = string(data)
			}
			sources[name] = src
		}
		fmt.Fprint(c.stderr, errors.NewErrorReporter(name, src).FormatError(d))
	}
}

func (c *cli) check(err error) bool {
	if err != nil {
		fmt.Fprintln(c.stderr, err)
		return false
	}
	return true
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
