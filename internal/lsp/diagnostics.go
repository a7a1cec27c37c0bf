package lsp

import (
	"github.com/alecthomas/participle/v2"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"comp/internal/ast"
	"comp/internal/errors"
)

// ConvertParseError turns a participle parse error into a single diagnostic.
// Only a participle.Error carries a position; any other error gets a
// diagnostic anchored at the start of the file.
func ConvertParseError(err error) []protocol.Diagnostic {
	pos := ast.Position{Line: 1, Column: 1}
	if pe, ok := err.(participle.Error); ok {
		pos = pe.Position()
	}

	return []protocol.Diagnostic{{
		Range:    lineRange(pos, 1),
		Severity: ptrSeverity(protocol.DiagnosticSeverityError),
		Source:   ptrString("comp-parser"),
		Message:  err.Error(),
	}}
}

// ConvertSemanticErrors turns typechecker errors into diagnostics.
func ConvertSemanticErrors(errs []errors.CompilerError) []protocol.Diagnostic {
	diagnostics := make([]protocol.Diagnostic, 0, len(errs))
	for _, e := range errs {
		length := e.Length
		if length <= 0 {
			length = 1
		}
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    lineRange(e.Position, length),
			Severity: severityFor(e.Level),
			Source:   ptrString("comp-checker"),
			Message:  e.Message,
		})
	}
	return diagnostics
}

func lineRange(pos ast.Position, length int) protocol.Range {
	line := uint32(0)
	if pos.Line > 0 {
		line = uint32(pos.Line - 1)
	}
	col := uint32(0)
	if pos.Column > 0 {
		col = uint32(pos.Column - 1)
	}
	return protocol.Range{
		Start: protocol.Position{Line: line, Character: col},
		End:   protocol.Position{Line: line, Character: col + uint32(length)},
	}
}

func severityFor(level errors.ErrorLevel) *protocol.DiagnosticSeverity {
	switch level {
	case errors.Warning:
		return ptrSeverity(protocol.DiagnosticSeverityWarning)
	case errors.Note, errors.Help:
		return ptrSeverity(protocol.DiagnosticSeverityInformation)
	default:
		return ptrSeverity(protocol.DiagnosticSeverityError)
	}
}

func ptrBool(b bool) *bool { return &b }

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind { return &k }

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity { return &s }

func ptrString(s string) *string { return &s }
