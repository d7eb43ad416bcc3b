package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"hdlio/internal/ast"
)

// DiagnosticBuilder provides a fluent interface for creating diagnostics
type DiagnosticBuilder struct {
	err CompilerError
}

// NewDiagnostic creates a new error builder
func NewDiagnostic(code, message string, pos ast.Position) *DiagnosticBuilder {
	return &DiagnosticBuilder{err: CompilerError{Level: Error, Code: code, Message: message, Position: pos, Length: 1}}
}

// NewWarning creates a new warning builder
func NewWarning(code, message string, pos ast.Position) *DiagnosticBuilder {
	return &DiagnosticBuilder{err: CompilerError{Level: Warning, Code: code, Message: message, Position: pos, Length: 1}}
}

func (b *DiagnosticBuilder) WithLength(length int) *DiagnosticBuilder {
	b.err.Length = length
	return b
}

func (b *DiagnosticBuilder) WithSuggestion(message string) *DiagnosticBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message})
	return b
}

func (b *DiagnosticBuilder) WithReplacement(message, replacement string) *DiagnosticBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message, Replacement: replacement})
	return b
}

func (b *DiagnosticBuilder) WithNote(note string) *DiagnosticBuilder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

func (b *DiagnosticBuilder) WithHelp(help string) *DiagnosticBuilder {
	b.err.HelpText = help
	return b
}

func (b *DiagnosticBuilder) Build() CompilerError {
	return b.err
}

// Collector accumulates the diagnostics of one parse. It is created by the
// caller and passed down explicitly; it is not safe for concurrent use.
type Collector struct {
	diags []CompilerError
}

func (c *Collector) Add(d CompilerError) {
	c.diags = append(c.diags, d)
}

// All returns the diagnostics in the order they were added.
func (c *Collector) All() []CompilerError {
	if c == nil {
		return nil
	}
	return c.diags
}

func (c *Collector) Warnings() []CompilerError {
	return c.filter(Warning)
}

func (c *Collector) Errors() []CompilerError {
	return c.filter(Error)
}

func (c *Collector) HasErrors() bool {
	return len(c.Errors()) > 0
}

func (c *Collector) Len() int {
	if c == nil {
		return 0
	}
	return len(c.diags)
}

func (c *Collector) filter(level ErrorLevel) []CompilerError {
	if c == nil {
		return nil
	}
	var out []CompilerError
	for _, d := range c.diags {
		if d.Level == level {
			out = append(out, d)
		}
	}
	return out
}

// NotFoundError is returned when an input path cannot be read. No parsing
// has been attempted.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("input not found: %s: %v", e.Path, e.Err)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// SyntaxError is returned when the source is not valid VHDL.
type SyntaxError struct {
	Code    string
	Pos     ast.Position
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: syntax error: %s", e.Pos, e.Message)
}

// Diagnostic converts the error for the reporter.
func (e *SyntaxError) Diagnostic() CompilerError {
	return NewDiagnostic(e.Code, e.Message, e.Pos).Build()
}

// NewSyntaxError converts an error from the lexer or parser. Errors that carry
// no position are placed at the start of the file.
func NewSyntaxError(filename string, err error) *SyntaxError {
	var lexErr *lexer.Error
	if stderrors.As(err, &lexErr) {
		return &SyntaxError{Code: ErrorLex, Pos: Position(lexErr.Position()), Message: lexErr.Message()}
	}
	var perr participle.Error
	if stderrors.As(err, &perr) {
		return &SyntaxError{Code: ErrorSyntax, Pos: Position(perr.Position()), Message: perr.Message()}
	}
	return &SyntaxError{
		Code:    ErrorSyntax,
		Pos:     ast.Position{Filename: filename, Line: 1, Column: 1},
		Message: err.Error(),
	}
}

// Position converts a lexer position.
func Position(pos lexer.Position) ast.Position {
	return ast.Position{Filename: pos.Filename, Offset: pos.Offset, Line: pos.Line, Column: pos.Column}
}

func StructuralViolation(message string, pos ast.Position) CompilerError {
	return NewWarning(WarningStructuralViolation, message, pos).
		WithNote("the element was skipped; its siblings are still reduced").
		Build()
}

func LabelMismatch(kind, name, label string, pos ast.Position) CompilerError {
	return NewWarning(WarningLabelMismatch, fmt.Sprintf("%s %q is closed with label %q", kind, name, label), pos).
		WithLength(len(label)).
		WithReplacement("repeat the unit name", "end "+kind+" "+name+";").
		Build()
}

func StandardFeature(feature string, since, selected ast.Standard, pos ast.Position) CompilerError {
	return NewWarning(WarningStandardFeature, fmt.Sprintf("%s requires %s, selected standard is %s", feature, since, selected), pos).
		WithHelp(fmt.Sprintf("select %s or later", since)).
		Build()
}

func UnknownLibrary(name string, available []string) CompilerError {
	err := NewDiagnostic(ErrorUnknownLibrary, fmt.Sprintf("library %q is not loaded", name), ast.Position{})
	return withSimilar(err, name, available).Build()
}

func UnknownEntity(name string, pos ast.Position, available []string) CompilerError {
	err := NewDiagnostic(ErrorUnknownEntity, fmt.Sprintf("no entity named %q", name), pos)
	return withSimilar(err, name, available).Build()
}

func withSimilar(b *DiagnosticBuilder, name string, available []string) *DiagnosticBuilder {
	similar := findSimilarNames(name, available)
	switch {
	case len(similar) > 0:
		b.WithSuggestion(fmt.Sprintf("did you mean '%s'?", similar[0]))
	case len(available) > 0:
		sorted := append([]string(nil), available...)
		sort.Strings(sorted)
		b.WithNote("available: " + strings.Join(sorted, ", "))
	}
	return b
}

// findSimilarNames returns the candidates within edit distance two of target,
// closest first. VHDL names compare without case.
func findSimilarNames(target string, candidates []string) []string {
	type scored struct {
		name string
		dist int
	}
	var found []scored
	lower := strings.ToLower(target)
	for _, candidate := range candidates {
		d := levenshteinDistance(lower, strings.ToLower(candidate))
		if d <= 2 && len(candidate) > 2 {
			found = append(found, scored{candidate, d})
		}
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].dist < found[j].dist })

	similar := make([]string, 0, len(found))
	for _, s := range found {
		similar = append(similar, s.name)
	}
	return similar
}

func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
