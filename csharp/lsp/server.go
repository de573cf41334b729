// Package lsp serves C# refactorings and syntax diagnostics over the
// Language Server Protocol.
package lsp

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/dhamidi/sharp/csharp/diagnostics"
	"github.com/dhamidi/sharp/csharp/refactor"
	"github.com/dhamidi/sharp/csharp/workspace"
)

const lsName = "sharp"

var log = commonlog.GetLogger("sharp.lsp")

type Server struct {
	// glsp dispatches requests one at a time and gives handlers no
	// context of their own. Work started by the server runs on ctx, which
	// shutdown cancels.
	ctx    context.Context
	cancel context.CancelFunc

	solution *workspace.Solution
	registry *refactor.Registry
	watcher  *workspace.Watcher
	handler  protocol.Handler
	server   *server.Server
	version  string
}

func NewServer(version string, registry *refactor.Registry) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		ctx:      ctx,
		cancel:   cancel,
		version:  version,
		registry: registry,
		solution: workspace.NewSolution(""),
	}

	s.handler = protocol.Handler{
		Initialize:             s.initialize,
		Initialized:            s.initialized,
		Shutdown:               s.shutdown,
		SetTrace:               s.setTrace,
		TextDocumentDidOpen:    s.textDocumentDidOpen,
		TextDocumentDidChange:  s.textDocumentDidChange,
		TextDocumentDidClose:   s.textDocumentDidClose,
		TextDocumentDidSave:    s.textDocumentDidSave,
		TextDocumentCodeAction: s.textDocumentCodeAction,
	}

	s.server = server.NewServer(&s.handler, lsName, false)
	return s
}

func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) RunTCP(address string) error {
	return s.server.RunTCP(address)
}

func (s *Server) RunWebSocket(address string) error {
	return s.server.RunWebSocket(address)
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := ""
	if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	} else if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	}
	s.solution = workspace.NewSolution(rootDir)
	log.Infof("initialize: root %q", rootDir)

	capabilities := s.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}
	capabilities.CodeActionProvider = protocol.CodeActionOptions{
		CodeActionKinds: []protocol.CodeActionKind{protocol.CodeActionKindRefactorRewrite},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	host := s.solution.Host()
	if host == nil {
		return nil
	}
	go func() {
		if err := host.ScanAll(s.ctx); err != nil {
			log.Errorf("scan %s: %s", host.RootDir(), err)
			return
		}
		log.Infof("scanned %d files under %s", len(host.Documents()), host.RootDir())
	}()

	watcher, err := workspace.NewWatcher(host)
	if err != nil {
		log.Warningf("watch %s: %s", host.RootDir(), err)
		return nil
	}
	if err := watcher.Start(); err != nil {
		log.Warningf("watch %s: %s", host.RootDir(), err)
		return nil
	}
	s.watcher = watcher
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	s.cancel()
	if s.watcher != nil {
		s.watcher.Stop()
		s.watcher = nil
	}
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	doc := s.solution.Open(path, params.TextDocument.Text, params.TextDocument.Version)
	s.publishDiagnostics(ctx, params.TextDocument.URI, doc)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	whole, ok := change.(protocol.TextDocumentContentChangeEventWhole)
	if !ok {
		return nil
	}
	doc, err := s.solution.Update(path, whole.Text, params.TextDocument.Version)
	if err != nil {
		doc = s.solution.Open(path, whole.Text, params.TextDocument.Version)
	}
	s.publishDiagnostics(ctx, params.TextDocument.URI, doc)
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	s.solution.Close(path)
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil || params.Text == nil {
		return nil
	}
	old := s.solution.Get(path)
	if old == nil || old.Text == *params.Text {
		return nil
	}
	doc, err := s.solution.Update(path, *params.Text, old.Version+1)
	if err != nil {
		return nil
	}
	s.publishDiagnostics(ctx, params.TextDocument.URI, doc)
	return nil
}

func (s *Server) textDocumentCodeAction(ctx *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	if !wantsRefactorings(params.Context.Only) {
		return nil, nil
	}
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	doc := s.solution.Get(path)
	if doc == nil {
		return nil, nil
	}

	start, end := params.Range.IndexesIn(doc.Text)
	span := textSpan(start, end)

	var out []protocol.CodeAction
	for _, action := range s.registry.Compute(s.ctx, doc, span) {
		next, err := action.Apply(s.ctx)
		if err != nil {
			log.Errorf("%s: %s", action.Title, err)
			continue
		}
		kind := protocol.CodeActionKindRefactorRewrite
		out = append(out, protocol.CodeAction{
			Title: action.Title,
			Kind:  &kind,
			Edit: &protocol.WorkspaceEdit{
				Changes: map[protocol.DocumentUri][]protocol.TextEdit{
					params.TextDocument.URI: {{
						Range:   protocol.Range{End: positionAt(doc.Text, len(doc.Text))},
						NewText: next.Text,
					}},
				},
			},
		})
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func (s *Server) publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, doc *workspace.Document) {
	found, err := diagnostics.Check(context.Background(), []byte(doc.Text))
	if err != nil {
		log.Errorf("check %s: %s", doc.Path, err)
		return
	}
	source := lsName
	items := make([]protocol.Diagnostic, 0, len(found))
	for _, d := range found {
		severity := protocol.DiagnosticSeverityError
		if d.Severity == diagnostics.SeverityWarning {
			severity = protocol.DiagnosticSeverityWarning
		}
		items = append(items, protocol.Diagnostic{
			Range: protocol.Range{
				Start: positionAt(doc.Text, d.StartByte),
				End:   positionAt(doc.Text, d.EndByte),
			},
			Severity: &severity,
			Source:   &source,
			Message:  d.Message,
		})
	}
	version := protocol.UInteger(doc.Version)
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Version:     &version,
		Diagnostics: items,
	})
}

// wantsRefactorings reports whether a request filtered to the given kinds
// accepts refactor.rewrite actions.
func wantsRefactorings(only []protocol.CodeActionKind) bool {
	if len(only) == 0 {
		return true
	}
	for _, kind := range only {
		k := string(kind)
		if k == "" || strings.HasPrefix(string(protocol.CodeActionKindRefactorRewrite), k) {
			return true
		}
	}
	return false
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
