// Package repl SPDX-License-Identifier: Apache-2.0
package repl

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"hdlio"
	"hdlio/grammar"
	"hdlio/internal/errors"
	"hdlio/internal/report"
)

const (
	PROMPT       = ">> "
	CONTINUATION = ".. "
)

// Start reads VHDL from in and reports the entities of each chunk to out. A
// chunk ends at an empty line once it parses, or at the end of input. Empty
// lines inside an unfinished chunk are kept, so port groups survive.
func Start(in io.Reader, out io.Writer, grouped bool, opts ...hdlio.Option) error {
	scanner := bufio.NewScanner(in)
	var (
		chunk strings.Builder
		n     int
	)

	fmt.Fprint(out, PROMPT)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) != "" || (chunk.Len() > 0 && incomplete(chunk.String())) {
			chunk.WriteString(line)
			chunk.WriteByte('\n')
			fmt.Fprint(out, CONTINUATION)
			continue
		}
		if chunk.Len() > 0 {
			n++
			if err := eval(out, fmt.Sprintf("<stdin:%d>", n), chunk.String(), grouped, opts); err != nil {
				return err
			}
			chunk.Reset()
		}
		fmt.Fprint(out, PROMPT)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if chunk.Len() > 0 {
		n++
		return eval(out, fmt.Sprintf("<stdin:%d>", n), chunk.String(), grouped, opts)
	}
	return nil
}

// incomplete reports whether src fails to parse only because it ends early:
// the error sits on its last code token or past it.
func incomplete(src string) bool {
	_, err := hdlio.ParseSource("<stdin>", src, hdlio.ModeTree)
	var syntaxErr *hdlio.SyntaxError
	if !stderrors.As(err, &syntaxErr) {
		return false
	}
	stream, err := grammar.Scan("<stdin>", src)
	if err != nil {
		return false
	}
	last := stream.LastCodeBefore(len(src) + 1)
	if last < 0 {
		return false
	}
	return syntaxErr.Pos.Offset >= stream.At(last).Pos.Offset
}

func eval(out io.Writer, name, src string, grouped bool, opts []hdlio.Option) error {
	fmt.Fprintln(out)
	res, err := hdlio.ParseSource(name, src, hdlio.ModeAST, opts...)
	reporter := errors.NewErrorReporter(name, src)

	var syntaxErr *hdlio.SyntaxError
	if stderrors.As(err, &syntaxErr) {
		_, err = fmt.Fprint(out, reporter.FormatError(syntaxErr.Diagnostic()))
		return err
	}
	if err != nil {
		return err
	}

	if _, err := fmt.Fprint(out, reporter.FormatAll(res.Diagnostics)); err != nil {
		return err
	}
	return report.Entities(out, res.Module, grouped)
}
