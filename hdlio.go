// Package hdlio extracts the interface of VHDL entities: their generics,
// their ports and the groups the ports were laid out in.
//
//	res, err := hdlio.ParseFile("counter.vhd", hdlio.ModeAST)
//	if err != nil {
//		return err
//	}
//	for _, e := range res.Module.Entities {
//		fmt.Println(e.Name, len(e.Ports))
//	}
package hdlio

import (
	"fmt"
	"os"
	"strings"

	"github.com/tliron/commonlog"

	"hdlio/grammar"
	"hdlio/internal/ast"
	"hdlio/internal/errors"
	"hdlio/internal/group"
	"hdlio/internal/reduce"
)

var log = commonlog.GetLogger("hdlio")

type (
	Module     = ast.Module
	Entity     = ast.Entity
	Generic    = ast.Generic
	Port       = ast.Port
	PortGroup  = ast.PortGroup
	DesignUnit = ast.DesignUnit
	Position   = ast.Position
	Direction  = ast.Direction
	Standard   = ast.Standard
	Policy     = group.Policy

	// Diagnostic is a warning or error attached to a position in the source.
	Diagnostic = errors.CompilerError

	NotFoundError = errors.NotFoundError
	SyntaxError   = errors.SyntaxError
)

const (
	In      = ast.In
	Out     = ast.Out
	InOut   = ast.InOut
	Buffer  = ast.Buffer
	Linkage = ast.Linkage

	PolicyComments   = group.PolicyComments
	PolicyBlankLines = group.PolicyBlankLines

	VHDL1993 = ast.VHDL1993
	VHDL2000 = ast.VHDL2000
	VHDL2002 = ast.VHDL2002
	VHDL2008 = ast.VHDL2008
	VHDL2019 = ast.VHDL2019
)

// Mode selects what a parse returns.
type Mode int

const (
	// ModeAST reduces the source to entities.
	ModeAST Mode = iota
	// ModeTree returns the concrete syntax tree only.
	ModeTree
)

func (m Mode) String() string {
	switch m {
	case ModeAST:
		return "ast"
	case ModeTree:
		return "tree"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(name) {
	case "", "ast":
		return ModeAST, nil
	case "tree", "cst":
		return ModeTree, nil
	}
	return 0, fmt.Errorf("unknown mode %q", name)
}

// Result is the outcome of a successful parse. Tree is set in ModeTree,
// Module and Diagnostics in ModeAST.
type Result struct {
	Mode        Mode
	Tree        *grammar.DesignFile
	Module      *Module
	Diagnostics []Diagnostic
}

type options struct {
	policy   Policy
	standard Standard
	library  string
}

type Option func(*options)

// WithPolicy selects how ports are grouped. The default is PolicyComments.
func WithPolicy(p Policy) Option {
	return func(o *options) { o.policy = p }
}

func WithStandard(s Standard) Option {
	return func(o *options) { o.standard = s }
}

// WithLibrary names the library the units are compiled into. The default is
// "work".
func WithLibrary(name string) Option {
	return func(o *options) { o.library = name }
}

// ParseFile reads and parses the file at path. A path that cannot be read
// yields a *NotFoundError; source that is not valid VHDL a *SyntaxError.
func ParseFile(path string, mode Mode, opts ...Option) (*Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &NotFoundError{Path: path, Err: err}
	}
	return ParseSource(path, string(src), mode, opts...)
}

// ParseSource parses src, reporting positions against name.
func ParseSource(name, src string, mode Mode, opts ...Option) (*Result, error) {
	o := options{standard: ast.DefaultStandard, library: reduce.DefaultLibrary}
	for _, opt := range opts {
		opt(&o)
	}
	if mode != ModeAST && mode != ModeTree {
		return nil, fmt.Errorf("unknown mode %s", mode)
	}

	tree, err := grammar.ParseSource(name, src)
	if err != nil {
		log.Debugf("%s: %v", name, err)
		return nil, errors.NewSyntaxError(name, err)
	}
	if mode == ModeTree {
		return &Result{Mode: mode, Tree: tree}, nil
	}

	stream, err := grammar.Scan(name, src)
	if err != nil {
		return nil, errors.NewSyntaxError(name, err)
	}
	diags := &errors.Collector{}
	module := reduce.Reduce(tree, stream, reduce.Options{
		Policy:   o.policy,
		Library:  o.library,
		Standard: o.standard,
	}, diags)

	return &Result{Mode: mode, Module: module, Diagnostics: diags.All()}, nil
}
