package lsp

import (
	"fmt"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"
	"ladders/internal/errors"
)

// ConvertDiagnostics transforms compiler errors and warnings into LSP
// diagnostics. Positionless errors are pinned to the start of the file.
func ConvertDiagnostics(errs []errors.CompilerError) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}

	for _, ce := range errs {
		line, char := 0, 0
		if ce.Position.Line > 0 {
			line = ce.Position.Line - 1 // Convert to 0-based indexing
			char = max(ce.Position.Column-1, 0)
		}

		length := ce.Length
		if length <= 0 {
			length = 1
		}

		diagnostic := protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: uint32(line), Character: uint32(char)},
				End:   protocol.Position{Line: uint32(line), Character: uint32(char + length)},
			},
			Severity: ptrSeverity(severity(ce.Level)),
			Source:   ptrString("ladders"),
			Message:  diagnosticMessage(ce),
		}
		if ce.Code != "" {
			diagnostic.Code = &protocol.IntegerOrString{Value: ce.Code}
		}
		diagnostics = append(diagnostics, diagnostic)
	}

	return diagnostics
}

func severity(level errors.ErrorLevel) protocol.DiagnosticSeverity {
	switch level {
	case errors.Warning:
		return protocol.DiagnosticSeverityWarning
	case errors.Note, errors.Help:
		return protocol.DiagnosticSeverityInformation
	}
	return protocol.DiagnosticSeverityError
}

// diagnosticMessage folds suggestions, help and the code description into
// the message text.
func diagnosticMessage(ce errors.CompilerError) string {
	lines := []string{ce.Message}
	for _, s := range ce.Suggestions {
		lines = append(lines, "suggestion: "+s.Message)
	}
	if ce.HelpText != "" {
		lines = append(lines, "help: "+ce.HelpText)
	}
	if ce.Code != "" {
		lines = append(lines, fmt.Sprintf("%s (%s): %s", ce.Code,
			strings.ToLower(errors.GetErrorCategory(ce.Code)), errors.GetErrorDescription(ce.Code)))
	}
	return strings.Join(lines, "\n")
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}
