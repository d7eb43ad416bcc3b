// Package group partitions the interface elements of a clause into runs that
// sit together in the source text.
//
// Two adjacent elements P and Q belong to different runs when the tokens
// strictly between the last token of P and the first token of Q contain a
// separator: a blank line, or, under PolicyComments, a standalone comment.
// A comment is standalone when no code precedes or follows it on its line.
// Trailing comments never separate.
package group

import (
	"fmt"
	"strings"

	"github.com/tliron/commonlog"

	"hdlio/token"
)

var log = commonlog.GetLogger("hdlio.group")

// Policy selects what separates two runs.
type Policy int

const (
	// PolicyComments separates on blank lines and standalone comments.
	PolicyComments Policy = iota
	// PolicyBlankLines separates on blank lines only.
	PolicyBlankLines
)

func (p Policy) String() string {
	switch p {
	case PolicyComments:
		return "comments"
	case PolicyBlankLines:
		return "blank-lines"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy accepts the names returned by Policy.String.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "comments":
		return PolicyComments, nil
	case "blank-lines", "blanklines", "blank":
		return PolicyBlankLines, nil
	}
	return PolicyComments, fmt.Errorf("unknown grouping policy %q", name)
}

// Run is a maximal sequence of adjacent elements, given as inclusive indices
// into the span slice passed to Partition.
type Run struct {
	First int
	Last  int
	// Name is the text of the standalone comment block closest before the
	// run's first element, if any.
	Name string
}

func (r Run) Len() int {
	return r.Last - r.First + 1
}

// Partition splits the elements described by spans into runs. spans must be
// in source order and non-overlapping. opening is the index of the token that
// opens the list, normally "(", or -1; the comments between it and the first
// element name the first run.
//
// The runs cover every element exactly once and in order; an element is never
// split.
func Partition(stream *token.Stream, spans []token.Span, opening int, policy Policy) []Run {
	if len(spans) == 0 {
		return nil
	}

	first := Run{First: 0}
	if opening >= 0 && opening < spans[0].First {
		first.Name = scanGap(stream, opening+1, spans[0].First).name
	}
	runs := []Run{first}

	for i := 1; i < len(spans); i++ {
		g := scanGap(stream, spans[i-1].Last+1, spans[i].First)
		if g.blankLine || (policy == PolicyComments && g.standalone) {
			runs[len(runs)-1].Last = i - 1
			runs = append(runs, Run{First: i, Name: g.name})
		}
	}
	runs[len(runs)-1].Last = len(spans) - 1

	log.Debugf("partitioned %d elements into %d runs (%s)", len(spans), len(runs), policy)
	return runs
}

type gap struct {
	blankLine  bool
	standalone bool
	// text of the last block of standalone comments on consecutive lines
	name string
}

// scanGap classifies the tokens with indices in [from, to). The token before
// from is assumed to be code on the same line as the gap's first token.
func scanGap(stream *token.Stream, from, to int) gap {
	var (
		g           gap
		lineHasCode = true
		newline     bool // saw a newline with only whitespace since
		block       []string
		blockOpen   bool // block may be extended by the next line
	)
	for i := from; i < to; i++ {
		t := stream.At(i)
		switch t.Kind {
		case token.Whitespace:
		case token.Newline:
			if newline {
				g.blankLine = true
				blockOpen = false
			}
			newline = true
			lineHasCode = false
		case token.Code:
			newline = false
			lineHasCode = true
			blockOpen = false
		case token.Comment:
			newline = false
			if lineHasCode || codeFollowsOnLine(stream, i+1) {
				// trailing, or followed by code on its line
				blockOpen = false
				continue
			}
			g.standalone = true
			if !blockOpen {
				block = block[:0]
			}
			if text := commentText(t.Value); text != "" {
				block = append(block, text)
			}
			blockOpen = true
		}
	}
	g.name = strings.Join(block, " ")
	return g
}

func codeFollowsOnLine(stream *token.Stream, from int) bool {
	for i := from; i < stream.Len(); i++ {
		switch t := stream.At(i); t.Kind {
		case token.Newline:
			return false
		case token.Code:
			return true
		case token.Comment:
			if strings.ContainsAny(t.Value, "\r\n") {
				return false
			}
		}
	}
	return false
}

// TrailingComment returns the text of the comment that follows the token at
// index last on the same line, allowing for the ";" that ends the element.
func TrailingComment(stream *token.Stream, last int) string {
	for i := last + 1; i < stream.Len(); i++ {
		t := stream.At(i)
		switch t.Kind {
		case token.Newline:
			return ""
		case token.Comment:
			return commentText(t.Value)
		case token.Code:
			if t.Value != ";" {
				return ""
			}
		}
	}
	return ""
}

// commentText strips the comment delimiters and surrounding space. Rulers made
// only of dashes or stars yield "".
func commentText(comment string) string {
	if strings.HasPrefix(comment, "/*") {
		comment = strings.TrimSuffix(strings.TrimPrefix(comment, "/*"), "*/")
		lines := strings.Split(comment, "\n")
		for i, line := range lines {
			lines[i] = strings.Trim(strings.TrimSpace(line), "*")
		}
		return strings.Join(strings.Fields(strings.Join(lines, " ")), " ")
	}
	return strings.Trim(comment, "- \t\r")
}
