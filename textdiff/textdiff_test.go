package textdiff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnifiedEqual(t *testing.T) {
	out, err := Unified("a/Foo.cs", "b/Foo.cs", "class A { }\n", "class A { }\n")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestUnifiedInsertion(t *testing.T) {
	before := "class Foo\n{\n    public Foo(string name) { }\n}\n"
	after := "class Foo\n{\n    private readonly string _name;\n    public Foo(string name)\n    {\n        _name = name;\n    }\n}\n"

	out, err := Unified("a/Foo.cs", "b/Foo.cs", before, after)
	require.NoError(t, err)
	assert.Contains(t, out, "--- a/Foo.cs\n")
	assert.Contains(t, out, "+++ b/Foo.cs\n")
	assert.Contains(t, out, "-    public Foo(string name) { }\n")
	assert.Contains(t, out, "+    private readonly string _name;\n")
	assert.Contains(t, out, "+        _name = name;\n")
	assert.Contains(t, out, " class Foo\n")

	fd := Compute("a/Foo.cs", "b/Foo.cs", before, after)
	require.Len(t, fd.Hunks, 1)
	h := fd.Hunks[0]
	assert.Equal(t, int32(1), h.OrigStartLine)
	assert.Equal(t, int32(4), h.OrigLines)
	assert.Equal(t, int32(1), h.NewStartLine)
	assert.Equal(t, int32(8), h.NewLines)

	added, removed := Stat(fd)
	assert.Equal(t, 5, added)
	assert.Equal(t, 1, removed)
}

func TestComputeSeparateHunks(t *testing.T) {
	var before, after []string
	for i := 0; i < 30; i++ {
		line := "line " + strings.Repeat("x", i%5)
		before = append(before, line)
		after = append(after, line)
	}
	after[2] = "changed"
	after[25] = "changed"

	fd := Compute("a", "b", strings.Join(before, "\n")+"\n", strings.Join(after, "\n")+"\n")
	require.Len(t, fd.Hunks, 2)
	assert.Equal(t, int32(1), fd.Hunks[0].OrigStartLine)
	assert.Equal(t, int32(6), fd.Hunks[0].OrigLines)
	assert.Equal(t, int32(23), fd.Hunks[1].OrigStartLine)
	assert.Equal(t, int32(7), fd.Hunks[1].OrigLines)
}

func TestComputeFromEmpty(t *testing.T) {
	fd := Compute("a", "b", "", "one\ntwo\n")
	require.Len(t, fd.Hunks, 1)
	assert.Equal(t, int32(0), fd.Hunks[0].OrigStartLine)
	assert.Equal(t, int32(0), fd.Hunks[0].OrigLines)
	assert.Equal(t, int32(1), fd.Hunks[0].NewStartLine)
	assert.Equal(t, "+one\n+two\n", string(fd.Hunks[0].Body))
}

func TestComputeRepeatedLines(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 150; i++ {
		b.WriteString("    {\n        M();\n    }\n")
	}
	before := b.String()
	after := strings.Replace(before, "        M();\n", "        N();\n", 1)

	fd := Compute("a", "b", before, after)
	require.Len(t, fd.Hunks, 1)
	assert.Equal(t, int32(1), fd.Hunks[0].OrigStartLine)
	assert.Equal(t, int32(5), fd.Hunks[0].OrigLines)
	added, removed := Stat(fd)
	assert.Equal(t, 1, added)
	assert.Equal(t, 1, removed)
}
