package diagnostics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckValid(t *testing.T) {
	sources := []string{
		"class Foo { }",
		"class Foo\n{\n    private readonly string _name;\n    public Foo(string name)\n    {\n        _name = name;\n    }\n}\n",
		"using System;\nnamespace A\n{\n    public class B : C\n    {\n        public int X { get; set; }\n    }\n}\n",
	}
	for _, src := range sources {
		diags, err := Check(context.Background(), []byte(src))
		require.NoError(t, err)
		assert.Empty(t, diags, src)
	}
}

func TestCheckErrors(t *testing.T) {
	diags, err := Check(context.Background(), []byte("class Foo {\n    void M() { int x = ; }\n"))
	require.NoError(t, err)
	require.NotEmpty(t, diags)
	for _, d := range diags {
		assert.Equal(t, SeverityError, d.Severity)
		assert.NotEmpty(t, d.Message)
		assert.GreaterOrEqual(t, d.EndByte, d.StartByte)
	}
}

func TestCheckReportsLine(t *testing.T) {
	diags, err := Check(context.Background(), []byte("class Foo {\n    void M() { int x = ; }\n}\n"))
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, 1, diags[0].Line)
	assert.Equal(t, `2:22: error: unexpected "="`, diags[0].String())
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{Severity: SeverityError, Line: 2, Column: 4, Message: "missing ;"}
	assert.Equal(t, "3:5: error: missing ;", d.String())
}
