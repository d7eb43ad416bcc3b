package token

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/tidwall/btree"
)

// Span is an inclusive range of token indices into a Stream.
type Span struct {
	First int
	Last  int
}

// NoSpan is returned when a lookup finds no code tokens.
var NoSpan = Span{First: -1, Last: -1}

// Valid reports whether s covers at least one token.
func (s Span) Valid() bool {
	return s.First >= 0 && s.Last >= s.First
}

// Stream is the complete, ordered token sequence of one source file,
// including the trivia the parser elides.
type Stream struct {
	Filename string
	tokens   []Token

	// byte offset of each code token -> its index in tokens
	code btree.Map[int, int]
}

// Scan lexes source with def and classifies each token by its symbol name.
func Scan(def lexer.Definition, filename, source string) (*Stream, error) {
	lex, err := def.Lex(filename, strings.NewReader(source))
	if err != nil {
		return nil, err
	}
	raw, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, err
	}

	names := make(map[lexer.TokenType]string, len(def.Symbols()))
	for name, typ := range def.Symbols() {
		names[typ] = name
	}

	s := &Stream{Filename: filename, tokens: make([]Token, 0, len(raw))}
	for _, t := range raw {
		if t.EOF() {
			break
		}
		name := names[t.Type]
		tok := Token{Kind: kindOf(name), Type: name, Value: t.Value, Pos: t.Pos}
		if tok.Kind == Code {
			s.code.Set(tok.Pos.Offset, len(s.tokens))
		}
		s.tokens = append(s.tokens, tok)
	}
	return s, nil
}

func kindOf(symbol string) Kind {
	switch symbol {
	case CommentSymbol:
		return Comment
	case NewlineSymbol:
		return Newline
	case WhitespaceSymbol:
		return Whitespace
	default:
		return Code
	}
}

// Len returns the number of tokens, trivia included.
func (s *Stream) Len() int {
	return len(s.tokens)
}

// At returns the token with index i.
func (s *Stream) At(i int) Token {
	return s.tokens[i]
}

// Slice returns the tokens with indices in [from, to).
func (s *Stream) Slice(from, to int) []Token {
	if from < 0 {
		from = 0
	}
	if to > len(s.tokens) {
		to = len(s.tokens)
	}
	if from >= to {
		return nil
	}
	return s.tokens[from:to]
}

// FirstCodeAtOrAfter returns the index of the first code token starting at or
// after offset, or -1.
func (s *Stream) FirstCodeAtOrAfter(offset int) int {
	found := -1
	s.code.Ascend(offset, func(_ int, idx int) bool {
		found = idx
		return false
	})
	return found
}

// LastCodeBefore returns the index of the last code token starting strictly
// before offset, or -1.
func (s *Stream) LastCodeBefore(offset int) int {
	found := -1
	s.code.Descend(offset-1, func(_ int, idx int) bool {
		found = idx
		return false
	})
	return found
}

// Covering returns the span of code tokens starting in [start, end).
func (s *Stream) Covering(start, end lexer.Position) Span {
	if end.Offset <= start.Offset {
		return NoSpan
	}
	first := s.FirstCodeAtOrAfter(start.Offset)
	last := s.LastCodeBefore(end.Offset)
	if first < 0 || last < first {
		return NoSpan
	}
	return Span{First: first, Last: last}
}

// Text renders the code tokens of span, collapsing any trivia between two
// code tokens into a single space. Comments are dropped.
func (s *Stream) Text(span Span) string {
	if !span.Valid() {
		return ""
	}
	var b strings.Builder
	gap := false
	for _, t := range s.tokens[span.First : span.Last+1] {
		if t.IsTrivia() {
			gap = b.Len() > 0
			continue
		}
		if gap {
			b.WriteByte(' ')
			gap = false
		}
		b.WriteString(t.Value)
	}
	return b.String()
}

func (s *Stream) String() string {
	var b strings.Builder
	for i, t := range s.tokens {
		fmt.Fprintf(&b, "%4d %-10s %d:%d %q\n", i, t.Kind, t.Pos.Line, t.Pos.Column, t.Value)
	}
	return b.String()
}
