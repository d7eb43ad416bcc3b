package lsp

import (
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"hdlio/internal/ast"
	"hdlio/token"
)

// SemanticToken represents a single LSP semantic token entry
// Line and StartChar are 0-based positions
// TokenType is an index into the semanticTokenTypes array
// TokenModifiers is a bitmask based on semanticTokenModifiers
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int // index into semanticTokenTypes
	TokenModifiers int // bitmask
}

type declaration struct {
	tokenType string
	modifiers int
}

// collectSemanticTokens classifies the lexical tokens of stream. Identifiers
// are only highlighted where module declares them.
func collectSemanticTokens(stream *token.Stream, module *ast.Module) []SemanticToken {
	if stream == nil {
		return nil
	}
	decls, units := declarations(module)

	var (
		tokens []SemanticToken
		// the name of a unit is the first identifier after its keyword
		pending *declaration
	)
	for i := 0; i < stream.Len(); i++ {
		t := stream.At(i)
		if d, ok := units[t.Pos.Offset]; ok && t.Kind == token.Code {
			pending = &d
		}
		if t.Type == "Ident" && pending != nil {
			tokens = append(tokens, makeToken(t, pending.tokenType, pending.modifiers))
			pending = nil
			continue
		}
		switch t.Type {
		case token.CommentSymbol:
			tokens = append(tokens, commentTokens(t)...)
		case "Keyword":
			tokens = append(tokens, makeToken(t, "keyword", 0))
		case "Number", "BitString":
			tokens = append(tokens, makeToken(t, "number", 0))
		case "String", "Char":
			tokens = append(tokens, makeToken(t, "string", 0))
		case "Operator":
			tokens = append(tokens, makeToken(t, "operator", 0))
		case "Ident":
			if d, ok := decls[t.Pos.Offset]; ok {
				tokens = append(tokens, makeToken(t, d.tokenType, d.modifiers))
			}
		}
	}
	return tokens
}

// declarations maps the byte offset of every declared name in module to its
// highlighting. Design units are keyed by the offset of their first keyword.
func declarations(module *ast.Module) (decls, units map[int]declaration) {
	decls, units = map[int]declaration{}, map[int]declaration{}
	if module == nil {
		return decls, units
	}
	decl := modifier("declaration")
	ast.Walk(module, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.DesignUnit:
			if n.Kind == ast.EntityUnit {
				units[n.Pos.Offset] = declaration{"type", decl}
			} else {
				units[n.Pos.Offset] = declaration{"namespace", decl}
			}
		case *ast.Generic:
			switch n.Kind {
			case ast.GenericType:
				decls[n.Pos.Offset] = declaration{"typeParameter", decl}
			case ast.GenericConstant:
				decls[n.Pos.Offset] = declaration{"parameter", decl | modifier("readonly")}
			}
		case *ast.Port:
			decls[n.Pos.Offset] = declaration{"property", decl}
		}
		return true
	})
	return decls, units
}

// commentTokens splits a delimited comment into one token per line, since
// not every client accepts multiline tokens.
func commentTokens(t token.Token) []SemanticToken {
	lines := strings.Split(t.Value, "\n")
	tokens := make([]SemanticToken, 0, len(lines))
	for i, line := range lines {
		start := uint32(0)
		if i == 0 {
			start = uint32(t.Pos.Column - 1)
		}
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		tokens = append(tokens, SemanticToken{
			Line:      uint32(t.Pos.Line-1) + uint32(i),
			StartChar: start,
			Length:    uint32(len(line)),
			TokenType: indexOf("comment", SemanticTokenTypes),
		})
	}
	return tokens
}

func makeToken(t token.Token, tokenType string, modifiers int) SemanticToken {
	return SemanticToken{
		Line:           uint32(t.Pos.Line - 1),   // LSP uses 0-based line numbers
		StartChar:      uint32(t.Pos.Column - 1), // LSP uses 0-based column numbers
		Length:         uint32(len(t.Value)),
		TokenType:      indexOf(tokenType, SemanticTokenTypes),
		TokenModifiers: modifiers,
	}
}

// encodeSemanticTokens packs tokens into the relative wire format: each entry
// is delta line, delta start, length, type and modifiers.
func encodeSemanticTokens(tokens []SemanticToken) []protocol.UInteger {
	data := make([]protocol.UInteger, 0, len(tokens)*5)
	var prevLine, prevStart uint32
	for _, t := range tokens {
		deltaLine := t.Line - prevLine
		deltaStart := t.StartChar
		if deltaLine == 0 {
			deltaStart = t.StartChar - prevStart
		}
		data = append(data, deltaLine, deltaStart, t.Length, uint32(t.TokenType), uint32(t.TokenModifiers))
		prevLine = t.Line
		prevStart = t.StartChar
	}
	return data
}

func modifier(name string) int {
	return 1 << indexOf(name, SemanticTokenModifiers)
}

// indexOf returns the index of a string in a slice, or 0 if not found
func indexOf(target string, list []string) int {
	for i, v := range list {
		if v == target {
			return i
		}
	}
	return 0
}
