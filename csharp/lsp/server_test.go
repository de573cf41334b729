package lsp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/sharp/csharp/refactor"
	"github.com/dhamidi/sharp/csharp/refactor/ctorfield"
)

type notification struct {
	method string
	params any
}

func newTestServer(t *testing.T, root string) (*Server, *glsp.Context, *[]notification) {
	t.Helper()
	registry := refactor.NewRegistry()
	registry.Register(ctorfield.New())
	s := NewServer("test", registry)

	var sent []notification
	ctx := &glsp.Context{Notify: func(method string, params any) {
		sent = append(sent, notification{method, params})
	}}
	rootURI := "file://" + root
	_, err := s.initialize(ctx, &protocol.InitializeParams{RootURI: &rootURI})
	require.NoError(t, err)
	return s, ctx, &sent
}

func open(t *testing.T, s *Server, ctx *glsp.Context, uri, text string) {
	t.Helper()
	require.NoError(t, s.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "csharp", Version: 1, Text: text},
	}))
}

func codeActions(t *testing.T, s *Server, ctx *glsp.Context, uri string, r protocol.Range) []protocol.CodeAction {
	t.Helper()
	result, err := s.textDocumentCodeAction(ctx, &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Range:        r,
	})
	require.NoError(t, err)
	if result == nil {
		return nil
	}
	actions, ok := result.([]protocol.CodeAction)
	require.True(t, ok, "result is %T", result)
	return actions
}

func caret(line, character int) protocol.Range {
	p := protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(character)}
	return protocol.Range{Start: p, End: p}
}

const fooSource = "class Foo\n{\n    public Foo(string name) { }\n}\n"

func TestCodeAction(t *testing.T) {
	s, ctx, _ := newTestServer(t, "/src")
	uri := "file:///src/Foo.cs"
	open(t, s, ctx, uri, fooSource)

	actions := codeActions(t, s, ctx, uri, caret(2, 23))
	require.Len(t, actions, 1)
	action := actions[0]
	assert.Equal(t, ctorfield.Title, action.Title)
	require.NotNil(t, action.Kind)
	assert.Equal(t, protocol.CodeActionKindRefactorRewrite, *action.Kind)

	require.NotNil(t, action.Edit)
	edits := action.Edit.Changes[uri]
	require.Len(t, edits, 1)
	assert.Equal(t, protocol.Position{Line: 4, Character: 0}, edits[0].Range.End)
	assert.Equal(t, "class Foo\n{\n"+
		"    private readonly string _name;\n"+
		"    public Foo(string name)\n"+
		"    {\n"+
		"        _name = name;\n"+
		"    }\n"+
		"}\n", edits[0].NewText)
}

func TestCodeActionNotOffered(t *testing.T) {
	s, ctx, _ := newTestServer(t, "/src")
	uri := "file:///src/Foo.cs"
	open(t, s, ctx, uri, fooSource)

	selection := protocol.Range{
		Start: protocol.Position{Line: 2, Character: 22},
		End:   protocol.Position{Line: 2, Character: 26},
	}
	assert.Empty(t, codeActions(t, s, ctx, uri, selection))
	assert.Empty(t, codeActions(t, s, ctx, "file:///src/Unknown.cs", caret(0, 0)))

	misc := "file:///elsewhere/Foo.cs"
	open(t, s, ctx, misc, fooSource)
	assert.Empty(t, codeActions(t, s, ctx, misc, caret(2, 23)))

	result, err := s.textDocumentCodeAction(ctx, &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Range:        caret(2, 23),
		Context:      protocol.CodeActionContext{Only: []protocol.CodeActionKind{protocol.CodeActionKindQuickFix}},
	})
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestCodeActionAfterShutdown(t *testing.T) {
	s, ctx, _ := newTestServer(t, "/src")
	uri := "file:///src/Foo.cs"
	open(t, s, ctx, uri, fooSource)
	require.Len(t, codeActions(t, s, ctx, uri, caret(2, 23)), 1)

	require.NoError(t, s.shutdown(ctx))
	assert.Empty(t, codeActions(t, s, ctx, uri, caret(2, 23)))
}

func TestDiagnosticsPublished(t *testing.T) {
	s, ctx, sent := newTestServer(t, "/src")
	uri := "file:///src/Broken.cs"
	open(t, s, ctx, uri, "class Foo {\n    void M() { int x = ; }\n")

	require.NotEmpty(t, *sent)
	last := (*sent)[len(*sent)-1]
	assert.Equal(t, string(protocol.ServerTextDocumentPublishDiagnostics), last.method)
	params, ok := last.params.(protocol.PublishDiagnosticsParams)
	require.True(t, ok)
	assert.Equal(t, uri, params.URI)
	assert.NotEmpty(t, params.Diagnostics)

	require.NoError(t, s.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                2,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "class Foo { }\n"}},
	}))
	last = (*sent)[len(*sent)-1]
	params = last.params.(protocol.PublishDiagnosticsParams)
	assert.Empty(t, params.Diagnostics)
	require.NotNil(t, params.Version)
	assert.Equal(t, protocol.UInteger(2), *params.Version)

	require.NoError(t, s.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}))
	assert.Nil(t, s.solution.Get("/src/Broken.cs"))
}

func TestPositionAt(t *testing.T) {
	text := "ab\n\U0001F600x\ncé"
	tests := []struct {
		offset int
		want   protocol.Position
	}{
		{0, protocol.Position{Line: 0, Character: 0}},
		{2, protocol.Position{Line: 0, Character: 2}},
		{3, protocol.Position{Line: 1, Character: 0}},
		{7, protocol.Position{Line: 1, Character: 2}},
		{8, protocol.Position{Line: 1, Character: 3}},
		{len(text), protocol.Position{Line: 2, Character: 2}},
		{len(text) + 5, protocol.Position{Line: 2, Character: 2}},
	}
	for _, tt := range tests {
		got := positionAt(text, tt.offset)
		assert.Equal(t, tt.want, got, "offset %d", tt.offset)
		if tt.offset <= len(text) {
			assert.Equal(t, tt.offset, got.IndexIn(text), "round trip of offset %d", tt.offset)
		}
	}
}

func TestURIToPath(t *testing.T) {
	path, err := uriToPath("file:///src/My%20App/Foo.cs")
	require.NoError(t, err)
	assert.Equal(t, "/src/My App/Foo.cs", path)

	path, err = uriToPath("untitled:Untitled-1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, "untitled:"))
}

func TestWantsRefactorings(t *testing.T) {
	assert.True(t, wantsRefactorings(nil))
	assert.True(t, wantsRefactorings([]protocol.CodeActionKind{protocol.CodeActionKindRefactor}))
	assert.True(t, wantsRefactorings([]protocol.CodeActionKind{protocol.CodeActionKindRefactorRewrite}))
	assert.False(t, wantsRefactorings([]protocol.CodeActionKind{protocol.CodeActionKindQuickFix}))
}
