package grammar

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"

	"hdlio/token"
)

var (
	parser        = buildParser[DesignFile]()
	genericParser = buildParser[GenericClause]()
	portParser    = buildParser[PortClause]()
)

func buildParser[G any]() *participle.Parser[G] {
	p, err := participle.Build[G](
		participle.Lexer(VHDLLexer),
		participle.Elide(token.CommentSymbol, token.NewlineSymbol, token.WhitespaceSymbol),
		participle.CaseInsensitive("Keyword"),
		participle.UseLookahead(4),
	)
	if err != nil {
		panic(fmt.Errorf("failed to build parser: %w", err))
	}

	return p
}

// ParseFile reads and parses a VHDL file.
func ParseFile(path string) (*DesignFile, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return ParseSource(path, string(source))
}

// ParseSource parses source text. Errors from the lexer and the grammar are
// returned as participle.Error values and carry a position.
func ParseSource(sourceName string, source string) (*DesignFile, error) {
	file, err := parser.ParseString(sourceName, source)
	var header *headerError
	if errors.As(err, &header) {
		return file, clauseError(sourceName, source, header)
	}
	return file, err
}

// clauseError parses the failed entity header clause on its own and returns
// its error. The text before the clause is blanked so positions stay those of
// the whole source.
func clauseError(sourceName, source string, header *headerError) error {
	offset := header.pos.Offset
	if offset < 0 || offset > len(source) {
		return header
	}
	masked := make([]byte, len(source))
	for i := 0; i < offset; i++ {
		if c := source[i]; c == '\n' || c == '\r' {
			masked[i] = c
		} else {
			masked[i] = ' '
		}
	}
	copy(masked[offset:], source[offset:])

	var err error
	if header.keyword == "generic" {
		_, err = genericParser.ParseString(sourceName, string(masked), participle.AllowTrailing(true))
	} else {
		_, err = portParser.ParseString(sourceName, string(masked), participle.AllowTrailing(true))
	}
	if err == nil {
		return header
	}
	return err
}

// Scan returns the full token stream of source, trivia included, using the
// same lexer the grammar is built on.
func Scan(sourceName string, source string) (*token.Stream, error) {
	return token.Scan(VHDLLexer, sourceName, source)
}
