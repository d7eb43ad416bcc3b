// Package token SPDX-License-Identifier: Apache-2.0
package token

import (
	"sort"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Kind is the channel a token travels on. The grammar only ever sees Code
// tokens; the other kinds are kept for layout-sensitive consumers.
type Kind int

const (
	Code Kind = iota
	Comment
	Newline
	Whitespace
)

func (k Kind) String() string {
	switch k {
	case Code:
		return "code"
	case Comment:
		return "comment"
	case Newline:
		return "newline"
	case Whitespace:
		return "whitespace"
	default:
		return "unknown"
	}
}

// Lexer symbol names that map to a non-code Kind.
const (
	CommentSymbol    = "Comment"
	NewlineSymbol    = "Newline"
	WhitespaceSymbol = "Whitespace"
)

type Token struct {
	Kind  Kind
	Type  string // lexer symbol name, e.g. "Keyword", "Ident"
	Value string
	Pos   lexer.Position
}

// End returns the byte offset just past the token.
func (t Token) End() int {
	return t.Pos.Offset + len(t.Value)
}

func (t Token) IsTrivia() bool {
	return t.Kind != Code
}

// Is reports whether the token is the given reserved word or punctuation,
// ignoring case.
func (t Token) Is(value string) bool {
	return t.Kind == Code && strings.EqualFold(t.Value, value)
}

// reserved words of VHDL the grammar has to distinguish from identifiers
var keywords = map[string]bool{
	"architecture":  true,
	"begin":         true,
	"body":          true,
	"buffer":        true,
	"bus":           true,
	"configuration": true,
	"constant":      true,
	"context":       true,
	"end":           true,
	"entity":        true,
	"file":          true,
	"function":      true,
	"generic":       true,
	"impure":        true,
	"in":            true,
	"inout":         true,
	"is":            true,
	"library":       true,
	"linkage":       true,
	"map":           true,
	"new":           true,
	"of":            true,
	"out":           true,
	"package":       true,
	"port":          true,
	"procedure":     true,
	"pure":          true,
	"range":         true,
	"shared":        true,
	"signal":        true,
	"type":          true,
	"use":           true,
	"variable":      true,
}

// Keywords returns the reserved words, longest first, so they can be fed
// into an alternation without one shadowing another.
func Keywords() []string {
	words := make([]string, 0, len(keywords))
	for w := range keywords {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if len(words[i]) != len(words[j]) {
			return len(words[i]) > len(words[j])
		}
		return words[i] < words[j]
	})
	return words
}

func IsReserved(word string) bool {
	return keywords[strings.ToLower(word)]
}
