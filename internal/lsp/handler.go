package lsp

import (
	stderrors "errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"ladders/internal/access"
	"ladders/internal/config"
	"ladders/internal/errors"
	"ladders/internal/pipeline"
)

var log = commonlog.GetLogger("ladders.lsp")

// Define the set of supported semantic token types (the legend sent to the client)
var SemanticTokenTypes = []string{
	"function",
	"variable",
	"macro",
	"comment",
}

// Define the set of supported semantic token modifiers
var SemanticTokenModifiers = []string{
	"declaration",
	"definition",
	"modification",
}

// document is the last analysis of an open file. Output is nil when the
// file failed to schedule.
type document struct {
	content string
	output  *pipeline.Output
}

// LaddersHandler implements the LSP server handlers for .lad files
type LaddersHandler struct {
	mu   sync.RWMutex
	docs map[string]*document
}

// NewLaddersHandler creates and returns a new LaddersHandler instance
func NewLaddersHandler() *LaddersHandler {
	return &LaddersHandler{
		docs: make(map[string]*document),
	}
}

// Initialize responds to the LSP client's initialize request and advertises the server's capabilities
func (h *LaddersHandler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Info("initialize")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			HoverProvider: ptrBool(true),
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: ptrBool(true),
			},
		},
	}, nil
}

func (h *LaddersHandler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Info("initialized")
	return nil
}

func (h *LaddersHandler) Shutdown(ctx *glsp.Context) error {
	log.Info("shutdown")
	return nil
}

func (h *LaddersHandler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// TextDocumentDidOpen analyzes the text the editor sent and publishes diagnostics
func (h *LaddersHandler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	log.Infof("opened %s", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}
	sendDiagnosticNotification(ctx, params.TextDocument.URI, h.update(path, params.TextDocument.Text))
	return nil
}

// TextDocumentDidClose forgets the document
func (h *LaddersHandler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	log.Infof("closed %s", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.docs, path)
	return nil
}

// TextDocumentDidChange re-analyzes the full text of the latest change
func (h *LaddersHandler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	log.Infof("changed %s", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}

	text, ok := fullText(params.ContentChanges)
	if !ok {
		return fmt.Errorf("no full-text change for %s", params.TextDocument.URI)
	}
	sendDiagnosticNotification(ctx, params.TextDocument.URI, h.update(path, text))
	return nil
}

// fullText returns the text of the last whole-document change.
func fullText(changes []any) (string, bool) {
	var text string
	var found bool
	for _, change := range changes {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text, found = c.Text, true
		case *protocol.TextDocumentContentChangeEventWhole:
			text, found = c.Text, true
		case protocol.TextDocumentContentChangeEvent:
			if c.Range == nil {
				text, found = c.Text, true
			}
		case *protocol.TextDocumentContentChangeEvent:
			if c.Range == nil {
				text, found = c.Text, true
			}
		}
	}
	return text, found
}

// TextDocumentHover shows where the statement under the cursor was scheduled
func (h *LaddersHandler) TextDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	doc, err := h.getOrUpdate(ctx, path, params.TextDocument.URI)
	if err != nil || doc.output == nil {
		return nil, err
	}

	text := hoverText(doc.output, int(params.Position.Line)+1)
	if text == "" {
		return nil, nil
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: text,
		},
	}, nil
}

func hoverText(out *pipeline.Output, line int) string {
	unit := out.Unit
	if unit.Epilogue != nil && unit.Epilogue.Pos.Line == line {
		return "**epilogue**: emitted after every batch"
	}

	stmt := unit.StatementAt(line)
	if stmt == nil {
		return ""
	}
	p, ok := out.Result.PlacementOf(stmt.Index)
	if !ok {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**statement %d**: ", stmt.Index)
	if p.Hoisted {
		b.WriteString("hoisted declaration")
	} else {
		fmt.Fprintf(&b, "batch %d", p.Batch)
		var peers []string
		for _, i := range out.Result.Batches[p.Batch] {
			if i != stmt.Index {
				peers = append(peers, fmt.Sprint(i))
			}
		}
		if len(peers) > 0 {
			fmt.Fprintf(&b, " (runs alongside %s)", strings.Join(peers, ", "))
		}
	}
	fmt.Fprintf(&b, "\n\n%s", access.Describe(out.Sets[stmt.Index]))
	return b.String()
}

// TextDocumentSemanticTokensFull handles semantic token requests for the entire document
func (h *LaddersHandler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	doc, err := h.getOrUpdate(ctx, path, params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	tokens := collectSemanticTokens(doc.output)

	var data []uint32
	var prevLine, prevStart uint32

	// Encode tokens into LSP wire format (using delta-line, delta-start compression)
	for _, token := range tokens {
		deltaLine := token.Line - prevLine
		var deltaStart uint32
		if deltaLine == 0 {
			deltaStart = token.StartChar - prevStart
		} else {
			deltaStart = token.StartChar
		}

		data = append(data, deltaLine, deltaStart, token.Length, uint32(token.TokenType), uint32(token.TokenModifiers))

		prevLine = token.Line
		prevStart = token.StartChar
	}

	return &protocol.SemanticTokens{
		Data: data,
	}, nil
}

// getOrUpdate returns the analysis of path, reading it from disk when the
// editor has not opened it.
func (h *LaddersHandler) getOrUpdate(ctx *glsp.Context, path string, rawURI protocol.DocumentUri) (*document, error) {
	h.mu.RLock()
	doc, ok := h.docs[path]
	h.mu.RUnlock()
	if ok {
		return doc, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	sendDiagnosticNotification(ctx, rawURI, h.update(path, string(content)))

	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.docs[path], nil
}

// update re-runs the pipeline on content and stores the result.
func (h *LaddersHandler) update(path, content string) []protocol.Diagnostic {
	doc := &document{content: content}

	out, err := pipeline.Transpile(path, content, configFor(path))
	var diagnostics []protocol.Diagnostic
	if err != nil {
		var ce errors.CompilerError
		if !stderrors.As(err, &ce) {
			ce = errors.NewError("", err.Error(), ce.Position).Build()
		}
		diagnostics = ConvertDiagnostics([]errors.CompilerError{ce})
	} else {
		doc.output = out
		diagnostics = ConvertDiagnostics(out.Warnings)
	}

	h.mu.Lock()
	h.docs[path] = doc
	h.mu.Unlock()

	return diagnostics
}

// configFor resolves the same configuration the command line would use.
func configFor(path string) config.Config {
	cfg, _, err := config.Discover("", path)
	if err != nil {
		log.Warningf("%s: using defaults: %s", path, err)
		cfg = config.Default()
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		log.Warningf("%s: using defaults: %s", path, err)
		cfg = config.Default()
	}
	return cfg
}

// Convert URI to platform-local file path
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path

	// On Windows, remove leading slash (e.g., /C:/...) -> C:/...
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}

	return filepath.FromSlash(path), nil
}

func sendDiagnosticNotification(ctx *glsp.Context, uri protocol.URI, diagnostics []protocol.Diagnostic) {
	if ctx == nil || ctx.Notify == nil {
		return
	}
	if diagnostics == nil {
		diagnostics = []protocol.Diagnostic{}
	}
	log.Debugf("publishing %d diagnostics for %s", len(diagnostics), uri)

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
