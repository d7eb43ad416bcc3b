package grammar

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Region is the opaque body of a design unit: every token after the unit
// header up to and including the "end" that closes the unit. The closing
// "end" is the first one at nesting depth zero that does not close a nested
// construct ("end if", "end process", ...) or a subprogram body.
type Region struct {
	Pos    lexer.Position
	Tokens []lexer.Token
}

// keywords that may follow "end" when it closes something nested in a unit
var nestedEnds = map[string]bool{
	"block":     true,
	"case":      true,
	"component": true,
	"for":       true,
	"function":  true,
	"generate":  true,
	"if":        true,
	"loop":      true,
	"postponed": true,
	"procedure": true,
	"process":   true,
	"protected": true,
	"record":    true,
	"units":     true,
	"view":      true,
}

func (r *Region) Parse(lex *lexer.PeekingLexer) error {
	r.Pos = lex.Peek().Pos

	var (
		depth      int // open subprogram bodies
		parens     int
		subprogram bool // saw "function"/"procedure", waiting for "is" or ";"
		prev       string
	)
	for {
		tok := lex.Peek()
		if tok.EOF() {
			return participle.Errorf(tok.Pos, `unexpected end of file, expected "end"`)
		}
		word := strings.ToLower(tok.Value)

		if word == "end" && parens == 0 {
			r.Tokens = append(r.Tokens, *lex.Next())
			next := strings.ToLower(lex.Peek().Value)
			switch {
			case nestedEnds[next]:
				if (next == "function" || next == "procedure") && depth > 0 {
					depth--
				}
				r.Tokens = append(r.Tokens, *lex.Next())
			case depth > 0:
				depth--
			default:
				return nil
			}
			prev = next
			continue
		}

		switch word {
		case "(":
			parens++
		case ")":
			if parens > 0 {
				parens--
			}
		case ";":
			if parens == 0 {
				subprogram = false
			}
		case "function", "procedure":
			// "attribute a of f : function is ..." names an entity class
			subprogram = prev != ":"
		case "is":
			if subprogram && parens == 0 {
				subprogram = false
				r.Tokens = append(r.Tokens, *lex.Next())
				prev = word
				if !strings.EqualFold(lex.Peek().Value, "new") {
					depth++
				}
				continue
			}
		}
		r.Tokens = append(r.Tokens, *lex.Next())
		prev = word
	}
}

// EntityBody is the Region after the header of an entity. It refuses to start
// at "generic" or "port", so a header clause that does not parse fails the
// declaration instead of being read as body text.
type EntityBody struct {
	Region
}

func (b *EntityBody) Parse(lex *lexer.PeekingLexer) error {
	tok := lex.Peek()
	if w := strings.ToLower(tok.Value); w == "generic" || w == "port" {
		return &headerError{keyword: w, pos: tok.Pos}
	}
	return b.Region.Parse(lex)
}

// headerError marks a generic or port clause that failed to parse. ParseSource
// replaces it with the error of the clause itself.
type headerError struct {
	keyword string
	pos     lexer.Position
}

func (e *headerError) Error() string            { return e.pos.String() + ": " + e.Message() }
func (e *headerError) Message() string          { return "invalid " + e.keyword + " clause" }
func (e *headerError) Position() lexer.Position { return e.pos }
