// Package lsp implements a diagnostics-only language server: on open/change
// it parses and typechecks the document and publishes the resulting
// diagnostics. It does not offer completion or semantic tokens.
package lsp

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"comp/internal/grammar"
	"comp/internal/semantic"
)

// Handler implements the LSP server callbacks this language server supports.
type Handler struct {
	mu      sync.RWMutex
	content map[string]string
}

// NewHandler creates a Handler with no documents open.
func NewHandler() *Handler {
	return &Handler{content: make(map[string]string)}
}

// Initialize advertises this server's capabilities: open/close/full-change
// sync, nothing else.
func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Println("LSP Initialize called")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
		},
	}, nil
}

// Initialized is called once the client has received the server's
// capabilities.
func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Println("LSP Initialized")
	return nil
}

// Shutdown handles the LSP shutdown request.
func (h *Handler) Shutdown(ctx *glsp.Context) error {
	log.Println("LSP Shutdown")
	return nil
}

// TextDocumentDidOpen diagnoses a newly opened document.
func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	return h.diagnose(ctx, params.TextDocument.URI)
}

// TextDocumentDidChange re-diagnoses a document by re-reading its file from
// disk. The changed text carried in params is not used, so unsaved edits are
// not reflected in the diagnostics.
func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	return h.diagnose(ctx, params.TextDocument.URI)
}

// TextDocumentDidClose drops cached state for a closed document.
func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", params.TextDocument.URI, err)
	}

	h.mu.Lock()
	delete(h.content, path)
	h.mu.Unlock()
	return nil
}

// diagnose reads, parses, and typechecks the document at uri, publishing
// whatever diagnostics result (possibly none, which clears prior ones).
func (h *Handler) diagnose(ctx *glsp.Context, uri protocol.DocumentUri) error {
	path, err := uriToPath(uri)
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", uri, err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}

	h.mu.Lock()
	h.content[path] = string(content)
	h.mu.Unlock()

	var diagnostics []protocol.Diagnostic

	program, err := grammar.ParseSource(path, string(content))
	if err != nil {
		diagnostics = ConvertParseError(err)
	} else {
		_, semErrs := semantic.NewAnalyzer(program).Analyze()
		diagnostics = ConvertSemanticErrors(semErrs)
	}

	sendDiagnostics(ctx, uri, diagnostics)
	return nil
}

func sendDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, diagnostics []protocol.Diagnostic) {
	if diagnostics == nil {
		diagnostics = []protocol.Diagnostic{}
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path), nil
}
