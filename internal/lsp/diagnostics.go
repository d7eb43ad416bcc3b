package lsp

import (
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"hdlio/internal/errors"
)

// ConvertDiagnostics transforms parse errors and reducer warnings into LSP
// diagnostics. The result is never nil so that publishing it clears stale
// diagnostics in the client.
func ConvertDiagnostics(diags []errors.CompilerError) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, convertDiagnostic(d))
	}
	return out
}

func convertDiagnostic(d errors.CompilerError) protocol.Diagnostic {
	line := uint32(max(d.Position.Line-1, 0))
	start := uint32(max(d.Position.Column-1, 0))
	length := uint32(max(d.Length, 1))

	severity := protocol.DiagnosticSeverityError
	if d.Level == errors.Warning {
		severity = protocol.DiagnosticSeverityWarning
	}

	message := d.Message
	var extra []string
	for _, s := range d.Suggestions {
		extra = append(extra, s.Message)
	}
	if d.HelpText != "" {
		extra = append(extra, d.HelpText)
	}
	if len(extra) > 0 {
		message += " (" + strings.Join(extra, "; ") + ")"
	}

	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: line, Character: start},
			End:   protocol.Position{Line: line, Character: start + length},
		},
		Severity: &severity,
		Code:     &protocol.IntegerOrString{Value: d.Code},
		Source:   ptrString("hdlio"),
		Message:  message,
	}
}

func ptrString(s string) *string {
	return &s
}
