package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fooSource = "class Foo\n{\n    public Foo(string name) { }\n}\n"

const fooRefactored = "class Foo\n{\n" +
	"    private readonly string _name;\n" +
	"    public Foo(string name)\n" +
	"    {\n" +
	"        _name = name;\n" +
	"    }\n" +
	"}\n"

// run executes the command line in dir, which holds a settings file.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	flags = globalFlags{}
	shutdown = nil
	cfg := filepath.Join(dir, ".sharp.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("indent: 4\n"), 0644))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", cfg}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeSource(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))
	return path
}

func TestRefactorPrintsResult(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "Foo.cs", fooSource)

	out, err := run(t, dir, "refactor", path, "--line", "3", "--column", "24")
	require.NoError(t, err)
	assert.Equal(t, fooRefactored, out)
}

func TestRefactorWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "Foo.cs", fooSource)

	out, err := run(t, dir, "refactor", path, "--line", "3", "--column", "24", "-w")
	require.NoError(t, err)
	assert.Equal(t, path+": +5 -1\n", out)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, fooRefactored, string(data))
}

func TestRefactorFindsSettingsNearFile(t *testing.T) {
	cwd := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(cwd, ".sharp.yaml"), []byte("indent: 4\n"), 0644))
	t.Chdir(cwd)
	path := writeSource(t, t.TempDir(), "Foo.cs", fooSource)

	flags = globalFlags{}
	shutdown = nil
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"refactor", path, "--line", "3", "--column", "24"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, fooRefactored, out.String())
	assert.Empty(t, settings.Path)
}

func TestRefactorDiff(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "Foo.cs", fooSource)

	out, err := run(t, dir, "refactor", path, "--line", "3", "--column", "24", "--diff")
	require.NoError(t, err)
	assert.Contains(t, out, "-    public Foo(string name) { }\n")
	assert.Contains(t, out, "+    private readonly string _name;\n")
	assert.Contains(t, out, "+        _name = name;\n")
}

func TestRefactorList(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "Foo.cs", fooSource)

	out, err := run(t, dir, "refactor", path, "--line", "3", "--column", "24", "--list")
	require.NoError(t, err)
	assert.Equal(t, "Initialize field from parameter\n", out)

	out, err = run(t, dir, "refactor", path, "--line", "1", "--column", "1", "--list")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRefactorNothingOffered(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "Foo.cs", fooSource)

	_, err := run(t, dir, "refactor", path, "--line", "1", "--column", "3")
	assert.ErrorContains(t, err, "no refactoring available")

	_, err = run(t, dir, "refactor", path, "--line", "40", "--column", "1")
	assert.ErrorContains(t, err, "outside the file")
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	good := writeSource(t, dir, "Good.cs", fooSource)
	bad := writeSource(t, dir, "Bad.cs", "class Foo {\n    void M() { int x = ; }\n}\n")

	out, err := run(t, dir, "check", good)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = run(t, dir, "check", good, bad)
	assert.ErrorContains(t, err, "1 of 2 files")
	assert.Contains(t, out, bad+":2:")
}

func TestParse(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "Foo.cs", fooSource)

	out, err := run(t, dir, "parse", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"kind": "ConstructorDecl"`)

	out, err = run(t, dir, "parse", "-f", "tree", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ConstructorDecl")

	_, err = run(t, dir, "parse", "-f", "xml", path)
	assert.ErrorContains(t, err, "unknown format")

	broken := writeSource(t, dir, "Broken.cs", "class Foo { int x }")
	out, err = run(t, dir, "parse", "-f", "lines", broken)
	require.NoError(t, err)
	assert.Contains(t, out, broken+":1:")
	assert.Contains(t, out, "expected")
}

func TestOffsetAt(t *testing.T) {
	text := "ab\r\nçd\nx"
	tests := []struct {
		line, column int
		want         int
		ok           bool
	}{
		{1, 1, 0, true},
		{1, 3, 2, true},
		{1, 4, 0, false},
		{2, 1, 4, true},
		{2, 2, 6, true},
		{2, 3, 7, true},
		{3, 2, 9, true},
		{4, 1, 0, false},
		{0, 1, 0, false},
	}
	for _, tt := range tests {
		got, ok := offsetAt(text, tt.line, tt.column)
		assert.Equal(t, tt.ok, ok, "%d:%d", tt.line, tt.column)
		if tt.ok {
			assert.Equal(t, tt.want, got, "%d:%d", tt.line, tt.column)
		}
	}
}

func TestRefactorDiffColor(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "Foo.cs", fooSource)

	out, err := run(t, dir, "refactor", path, "--line", "3", "--column", "24", "--diff", "--color", "always")
	require.NoError(t, err)
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "_name = name;")

	out, err = run(t, dir, "refactor", path, "--line", "3", "--column", "24", "--diff")
	require.NoError(t, err)
	assert.NotContains(t, out, "\x1b[")
}
