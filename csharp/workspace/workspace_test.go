package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/sharp/csharp/syntax"
)

func TestSolutionRouting(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "src", "app")
	s := NewSolution(root)

	tests := []struct {
		path string
		want Kind
	}{
		{filepath.Join(root, "Foo.cs"), KindHost},
		{filepath.Join(root, "Models", "Bar.cs"), KindHost},
		{filepath.Join(root, "..", "other", "Baz.cs"), KindMiscellaneousFiles},
		{filepath.Join(root+"x", "Qux.cs"), KindMiscellaneousFiles},
		{"Scratch.cs", KindMiscellaneousFiles},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, s.WorkspaceFor(tt.path).Kind())
			doc := s.Open(tt.path, "class A { }", 1)
			assert.Equal(t, tt.want, doc.Workspace().Kind())
			assert.Same(t, doc, s.Get(tt.path))
		})
	}

	noRoot := NewSolution("")
	assert.Nil(t, noRoot.Host())
	assert.Equal(t, KindMiscellaneousFiles, noRoot.WorkspaceFor(filepath.Join(root, "Foo.cs")).Kind())
}

func TestOpenKeepsID(t *testing.T) {
	w := New("/src")
	first := w.Open("/src/A.cs", "class A { }", 1)
	second := w.Open("/src/A.cs", "class A { int x; }", 2)
	assert.Equal(t, first.ID, second.ID)

	updated, err := w.Update("/src/A.cs", "class A { int y; }", 3)
	require.NoError(t, err)
	assert.Equal(t, first.ID, updated.ID)
	assert.Equal(t, int32(3), updated.Version)

	_, err = w.Update("/src/B.cs", "", 1)
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	other := w.Open("/src/B.cs", "", 1)
	assert.NotEqual(t, first.ID, other.ID)

	w.Close("/src/A.cs")
	assert.Nil(t, w.Get("/src/A.cs"))
	assert.Len(t, w.Documents(), 1)
}

func TestDocumentSyntaxRoot(t *testing.T) {
	w := New("/src")
	doc := w.Open("/src/A.cs", "class A { A(int x) { } }", 1)

	root, err := doc.SyntaxRoot(context.Background())
	require.NoError(t, err)
	again, err := doc.SyntaxRoot(context.Background())
	require.NoError(t, err)
	assert.Same(t, root, again, "document parsed twice")
	assert.Equal(t, doc.Text, root.ToFullString())

	model, err := doc.SemanticModel(context.Background())
	require.NoError(t, err)
	assert.Same(t, root, model.SyntaxTree().Root())
	assert.Same(t, doc, model.Document())

	ctor := root.ChildrenOfKind(syntax.KindClassDecl)[0].FirstChildOfKind(syntax.KindConstructorDecl)
	require.NotNil(t, ctor)
	assert.Equal(t, "A", model.DeclaredName(model.EnclosingType(ctor)))

	errs, err := doc.SyntaxErrors(context.Background())
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestDocumentCancelled(t *testing.T) {
	doc := New("/src").Open("/src/A.cs", "class A { }", 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := doc.SyntaxRoot(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = doc.SemanticModel(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithSyntaxRoot(t *testing.T) {
	w := New("/src")
	doc := w.Open("/src/A.cs", "class A { int x; }", 4)
	root, err := doc.SyntaxRoot(context.Background())
	require.NoError(t, err)

	field := root.ChildrenOfKind(syntax.KindClassDecl)[0].FirstChildOfKind(syntax.KindFieldDecl)
	edited := root.ReplaceNode(field, syntax.IdentifierName("y"))

	next := doc.WithSyntaxRoot(edited)
	assert.Equal(t, doc.ID, next.ID)
	assert.Equal(t, int32(5), next.Version)
	assert.Equal(t, "class A { y}", next.Text)
	nextRoot, err := next.SyntaxRoot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, next.Text, nextRoot.ToFullString())

	assert.Equal(t, "class A { int x; }", w.Get("/src/A.cs").Text, "workspace changed before Apply")
	require.NoError(t, w.Apply(next))
	assert.Same(t, next, w.Get("/src/A.cs"))
	assert.ErrorIs(t, w.Apply(next), ErrStaleDocument)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestScanAll(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "A.cs"), "class A { }")
	writeFile(t, filepath.Join(dir, "Models", "B.cs"), "class B { }")
	writeFile(t, filepath.Join(dir, "README.md"), "# readme")
	writeFile(t, filepath.Join(dir, "obj", "Generated.cs"), "class G { }")
	writeFile(t, filepath.Join(dir, ".git", "X.cs"), "class X { }")

	w := New(dir)
	require.NoError(t, w.ScanAll(context.Background()))

	var paths []string
	for _, d := range w.Documents() {
		paths = append(paths, d.Path)
	}
	assert.Equal(t, []string{filepath.Join(dir, "A.cs"), filepath.Join(dir, "Models", "B.cs")}, paths)

	before := w.Get(filepath.Join(dir, "A.cs"))
	require.NoError(t, w.ScanFile(filepath.Join(dir, "A.cs")))
	assert.Same(t, before, w.Get(filepath.Join(dir, "A.cs")), "unchanged file rescanned")
}

func TestScanAllCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "A.cs"), "class A { }")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, New(dir).ScanAll(ctx), context.Canceled)
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	w := New(dir)
	watcher, err := NewWatcher(w)
	require.NoError(t, err)
	require.NoError(t, watcher.Start())
	defer watcher.Stop()

	path := filepath.Join(dir, "A.cs")
	writeFile(t, path, "class A { }")
	require.Eventually(t, func() bool {
		d := w.Get(path)
		return d != nil && d.Text == "class A { }"
	}, 5*time.Second, 10*time.Millisecond)

	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")

	require.NoError(t, os.Remove(path))
	require.Eventually(t, func() bool {
		return w.Get(path) == nil
	}, 5*time.Second, 10*time.Millisecond)

	assert.Nil(t, w.Get(filepath.Join(dir, "notes.txt")))
}

func TestScanSkipsEditorBuffers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Foo.cs")
	writeFile(t, path, "class Foo { }\n")

	w := New(dir)
	w.Open(path, "class Foo { public Foo(int unsaved) { } }", 7)
	require.NoError(t, w.ScanAll(context.Background()))
	require.NoError(t, w.ScanFile(path))
	w.RemoveFile(path)

	doc := w.Get(path)
	require.NotNil(t, doc)
	assert.Equal(t, "class Foo { public Foo(int unsaved) { } }", doc.Text)
	assert.Equal(t, int32(7), doc.Version)

	w.Close(path)
	assert.False(t, w.Editing(path))
	require.NoError(t, w.ScanFile(path))
	assert.Equal(t, "class Foo { }\n", w.Get(path).Text)
}

func TestWatcherKeepsEditorBuffers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Foo.cs")
	w := New(dir)
	w.Open(path, "class Foo { public Foo(int unsaved) { } }", 7)

	watcher, err := NewWatcher(w)
	require.NoError(t, err)
	require.NoError(t, watcher.Start())
	defer watcher.Stop()

	// Events are handled in order, so once Bar.cs is loaded the write to
	// Foo.cs has been seen.
	writeFile(t, path, "class Foo { /* external */ }\n")
	bar := filepath.Join(dir, "Bar.cs")
	writeFile(t, bar, "class Bar { }")
	require.Eventually(t, func() bool {
		return w.Get(bar) != nil
	}, 5*time.Second, 10*time.Millisecond)

	doc := w.Get(path)
	require.NotNil(t, doc)
	assert.Equal(t, "class Foo { public Foo(int unsaved) { } }", doc.Text)
	assert.Equal(t, int32(7), doc.Version)

	w.Close(path)
	writeFile(t, path, "class Foo { /* saved */ }\n")
	require.Eventually(t, func() bool {
		d := w.Get(path)
		return d != nil && d.Text == "class Foo { /* saved */ }\n"
	}, 5*time.Second, 10*time.Millisecond)
}
