package group

import (
	"github.com/alecthomas/participle/v2/lexer"

	"hdlio/grammar"
	"hdlio/token"
)

// SpanIndex maps syntax tree nodes of entity declarations to the code tokens
// they cover in the token stream. It is built once per file and not modified
// afterwards.
type SpanIndex struct {
	stream *token.Stream
	spans  map[any]token.Span
}

// IndexSpans records the span of every entity declaration, generic and port
// clause, and interface element in file.
func IndexSpans(stream *token.Stream, file *grammar.DesignFile) *SpanIndex {
	ix := &SpanIndex{stream: stream, spans: make(map[any]token.Span)}
	for _, unit := range file.Units {
		if unit.Unit == nil || unit.Unit.Entity == nil {
			continue
		}
		e := unit.Unit.Entity
		ix.add(e, e.Pos, e.EndPos)
		if e.Generics != nil {
			ix.add(e.Generics, e.Generics.Pos, e.Generics.EndPos)
			ix.addElements(e.Generics.Elements)
		}
		if e.Ports != nil {
			ix.add(e.Ports, e.Ports.Pos, e.Ports.EndPos)
			ix.addElements(e.Ports.Elements)
		}
	}
	return ix
}

func (ix *SpanIndex) add(node any, start, end lexer.Position) {
	if span := ix.stream.Covering(start, end); span.Valid() {
		ix.spans[node] = span
	}
}

func (ix *SpanIndex) addElements(elements []*grammar.InterfaceElement) {
	for _, el := range elements {
		if el != nil {
			ix.add(el, el.Pos, el.EndPos)
		}
	}
}

// Span returns the span recorded for node, or token.NoSpan.
func (ix *SpanIndex) Span(node any) token.Span {
	if span, ok := ix.spans[node]; ok {
		return span
	}
	return token.NoSpan
}

// Elements returns the spans of elements in order, skipping elements that
// were not indexed. The second result maps each returned span back to its
// position in elements.
func (ix *SpanIndex) Elements(elements []*grammar.InterfaceElement) ([]token.Span, []int) {
	spans := make([]token.Span, 0, len(elements))
	index := make([]int, 0, len(elements))
	for i, el := range elements {
		if span := ix.Span(el); span.Valid() {
			spans = append(spans, span)
			index = append(index, i)
		}
	}
	return spans, index
}

// Opening returns the index of the "(" that opens the interface list of a
// generic or port clause, or -1.
func (ix *SpanIndex) Opening(clause any) int {
	span := ix.Span(clause)
	if !span.Valid() {
		return -1
	}
	for i := span.First; i <= span.Last; i++ {
		t := ix.stream.At(i)
		if t.Kind == token.Code && t.Value == "(" {
			return i
		}
	}
	return -1
}

func (ix *SpanIndex) Stream() *token.Stream {
	return ix.stream
}
