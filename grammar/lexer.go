package grammar

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"hdlio/token"
)

var VHDLLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// Comments: "--" to end of line, and VHDL-2008 delimited comments
		{token.CommentSymbol, `--[^\r\n]*|/\*[\s\S]*?\*/`, nil},

		// Layout. Newlines are their own token so blank lines survive lexing.
		{token.NewlineSymbol, `\r?\n`, nil},
		{token.WhitespaceSymbol, `[ \t\f\v\r]+`, nil},

		// Bit string literals must beat identifiers (X"FF", 8UB"1010")
		{"BitString", `[0-9]*[uUsS]?[bBoOxXdD]"[^"\n]*"`, nil},

		// Reserved words (case-insensitive)
		{"Keyword", `(?i)\b(?:` + strings.Join(token.Keywords(), "|") + `)\b`, nil},

		// Basic and extended identifiers
		{"Ident", `[a-zA-Z][a-zA-Z0-9_]*|\\(?:[^\\\n]|\\\\)*\\`, nil},

		// Abstract literals, including based literals like 16#FF#
		{"Number", `[0-9][0-9_]*(?:#[0-9a-fA-F_.]+#)?(?:\.[0-9_]+)?(?:[eE][-+]?[0-9_]+)?`, nil},

		{"String", `"(?:[^"\n]|"")*"`, nil},
		{"Char", `'[^\n]'`, nil},

		{"Operator", `:=|=>|<=|>=|/=|\?\?|\?/=|\?<=|\?>=|\?=|\?<|\?>|<<|>>|\*\*|<>`, nil},
		{"Punct", `[-+*/&=<>|.:;,()\[\]'@^?!]`, nil},
	},
})
