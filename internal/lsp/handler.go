package lsp

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"hdlio"
	"hdlio/grammar"
	"hdlio/internal/errors"
	"hdlio/internal/library"
	"hdlio/token"
)

var log = commonlog.GetLogger("hdlio.lsp")

// Define the set of supported semantic token types (as required by the LSP spec)
var SemanticTokenTypes = []string{
	"namespace",
	"type",
	"typeParameter",
	"function",
	"variable",
	"parameter",
	"property",
	"keyword",
	"number",
	"operator",
	"string",
	"comment",
}

// Define the set of supported semantic token modifiers (for extra tagging like declaration, readonly, etc.)
var SemanticTokenModifiers = []string{
	"declaration",
	"definition",
	"readonly",
}

// Handler implements the LSP server handlers for VHDL. Open documents are
// parsed into a library of the shared Manager.
type Handler struct {
	manager *library.Manager
	library string

	mu   sync.RWMutex
	docs map[string]*document
}

type document struct {
	uri    protocol.DocumentUri
	result *hdlio.Result // nil while the text does not parse
	stream *token.Stream
}

// NewHandler creates a handler loading open documents into lib.
func NewHandler(manager *library.Manager, lib string) *Handler {
	if lib == "" {
		lib = library.Work
	}
	return &Handler{
		manager: manager,
		library: lib,
		docs:    make(map[string]*document),
	}
}

// Initialize responds to the LSP client's initialize request and advertises the server's capabilities
func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Info("initialize")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			DocumentSymbolProvider: true,
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: true,
			},
		},
	}, nil
}

func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Info("initialized")
	return nil
}

func (h *Handler) Shutdown(ctx *glsp.Context) error {
	log.Info("shutdown")
	return nil
}

func (h *Handler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// TextDocumentDidOpen handles file open notifications from the editor
func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	log.Debugf("opened %s", params.TextDocument.URI)
	return h.update(ctx, params.TextDocument.URI, params.TextDocument.Text)
}

// TextDocumentDidChange expects full-document sync; only the last change
// matters.
func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	log.Debugf("changed %s", params.TextDocument.URI)
	if len(params.ContentChanges) == 0 {
		return nil
	}
	switch change := params.ContentChanges[len(params.ContentChanges)-1].(type) {
	case protocol.TextDocumentContentChangeEventWhole:
		return h.update(ctx, params.TextDocument.URI, change.Text)
	case protocol.TextDocumentContentChangeEvent:
		return fmt.Errorf("incremental change to %s: server only supports full sync", params.TextDocument.URI)
	default:
		return fmt.Errorf("unexpected change event %T", change)
	}
}

// TextDocumentDidClose handles file close notifications from the editor
func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	log.Debugf("closed %s", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}

	h.mu.Lock()
	delete(h.docs, path)
	h.mu.Unlock()
	h.manager.Remove(path, h.library)
	return nil
}

// TextDocumentDocumentSymbol lists the design units of a document, with the
// generics and ports of entities as children.
func (h *Handler) TextDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	doc, err := h.document(params.TextDocument.URI)
	if err != nil || doc.result == nil {
		return []protocol.DocumentSymbol{}, err
	}
	return documentSymbols(doc.result.Module), nil
}

// TextDocumentSemanticTokensFull handles semantic token requests for the entire document
func (h *Handler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	doc, err := h.document(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	var tokens []SemanticToken
	if doc.result != nil {
		tokens = collectSemanticTokens(doc.stream, doc.result.Module)
	} else {
		tokens = collectSemanticTokens(doc.stream, nil)
	}
	return &protocol.SemanticTokens{Data: encodeSemanticTokens(tokens)}, nil
}

func (h *Handler) document(uri protocol.DocumentUri) (*document, error) {
	path, err := uriToPath(uri)
	if err != nil {
		return nil, err
	}
	h.mu.RLock()
	doc, ok := h.docs[path]
	h.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("document %s is not open", uri)
	}
	return doc, nil
}

// update reparses a document and publishes its diagnostics. A syntax error is
// a diagnostic, not a failure of the notification.
func (h *Handler) update(ctx *glsp.Context, uri protocol.DocumentUri, text string) error {
	path, err := uriToPath(uri)
	if err != nil {
		return err
	}

	doc := &document{uri: uri}
	// a stream that does not lex is left nil; the parse below reports why
	doc.stream, _ = grammar.Scan(path, text)

	var diagnostics []protocol.Diagnostic
	res, err := h.manager.LoadSource(path, text, h.library)
	var syntaxErr *errors.SyntaxError
	switch {
	case err == nil:
		doc.result = res
		diagnostics = ConvertDiagnostics(res.Diagnostics)
	case stderrors.As(err, &syntaxErr):
		h.manager.Remove(path, h.library)
		diagnostics = ConvertDiagnostics([]errors.CompilerError{syntaxErr.Diagnostic()})
	default:
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	h.mu.Lock()
	h.docs[path] = doc
	h.mu.Unlock()

	sendDiagnosticNotification(ctx, uri, diagnostics)
	return nil
}

// Convert URI to platform-local file path
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}
	if u.Scheme != "" && u.Scheme != "file" {
		return "", fmt.Errorf("unsupported URI scheme %q in %s", u.Scheme, rawURI)
	}

	path := u.Path

	// On Windows, remove leading slash (e.g., /C:/...)
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}

	return filepath.FromSlash(path), nil
}

func sendDiagnosticNotification(ctx *glsp.Context, uri protocol.URI, diagnostics []protocol.Diagnostic) {
	if ctx == nil || ctx.Notify == nil {
		return
	}
	if log.AllowLevel(commonlog.Debug) {
		if data, err := json.Marshal(diagnostics); err == nil {
			log.Debugf("diagnostics for %s: %s", uri, data)
		}
	}

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
