package format_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/sharp/csharp/parser"
	"github.com/dhamidi/sharp/csharp/syntax"
	"github.com/dhamidi/sharp/format"
)

func parse(t *testing.T, src string) *syntax.Node {
	t.Helper()
	root, err := parser.ParseCompilationUnit(strings.NewReader(src)).Finish()
	require.NoError(t, err)
	return root
}

func firstOfKind(root *syntax.Node, kind syntax.NodeKind) *syntax.Node {
	var found *syntax.Node
	root.Walk(func(n *syntax.Node) bool {
		if found == nil && n.Kind == kind {
			found = n
		}
		return found == nil
	})
	return found
}

// addField inserts an annotated field and an annotated assignment for the
// named constructor parameter, leaving the layout to the formatter.
func addField(t *testing.T, root *syntax.Node, name string) *syntax.Node {
	t.Helper()
	ctor := firstOfKind(root, syntax.KindConstructorDecl)
	require.NotNil(t, ctor)

	var param *syntax.Node
	for _, p := range ctor.Parameters() {
		if p.Identifier().Literal == name {
			param = p
		}
	}
	require.NotNil(t, param, "parameter %s", name)

	field := syntax.FieldDeclaration(
		syntax.Modifiers(syntax.TokenPrivate, syntax.TokenReadonly),
		syntax.VariableDeclaration(param.ParameterType(), syntax.VariableDeclarator("_"+name)),
	).WithAdditionalAnnotations(syntax.FormatterAnnotation)
	assign := syntax.ExpressionStatement(syntax.AssignmentExpression(
		syntax.IdentifierName("_"+name), syntax.IdentifierName(name),
	)).WithAdditionalAnnotations(syntax.FormatterAnnotation)

	root = root.TrackNodes(ctor)
	root = root.InsertNodesBefore(root.GetCurrentNode(ctor), field)
	current := root.GetCurrentNode(ctor)
	body := current.Body()
	require.NotNil(t, body)
	return root.ReplaceNode(current, current.WithBody(body.WithStatements(
		append([]*syntax.Node{assign}, body.Statements()...))))
}

func TestFormatSingleLineBody(t *testing.T) {
	tests := []struct {
		name   string
		source string
		param  string
		want   string
	}{
		{
			name:   "empty body",
			source: "class Foo\n{\n    public Foo(string name) { }\n}\n",
			param:  "name",
			want: "class Foo\n{\n" +
				"    private readonly string _name;\n" +
				"    public Foo(string name)\n" +
				"    {\n" +
				"        _name = name;\n" +
				"    }\n" +
				"}\n",
		},
		{
			name:   "existing statement",
			source: "class Foo\n{\n    public Foo(int a, int b) { DoWork(); }\n}\n",
			param:  "b",
			want: "class Foo\n{\n" +
				"    private readonly int _b;\n" +
				"    public Foo(int a, int b)\n" +
				"    {\n" +
				"        _b = b;\n" +
				"        DoWork();\n" +
				"    }\n" +
				"}\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edited := addField(t, parse(t, tt.source), tt.param)
			got := format.New(format.DefaultOptions()).Format(edited)
			assert.Equal(t, tt.want, got.ToFullString())
		})
	}
}

func TestFormatMultiLineBody(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "with statements",
			source: "class Foo\n{\n    public Foo(int a)\n    {\n        DoWork();\n    }\n}\n",
			want: "class Foo\n{\n" +
				"    private readonly int _a;\n" +
				"    public Foo(int a)\n" +
				"    {\n" +
				"        _a = a;\n" +
				"        DoWork();\n" +
				"    }\n" +
				"}\n",
		},
		{
			name:   "empty",
			source: "class Foo\n{\n    public Foo(int a)\n    {\n    }\n}\n",
			want: "class Foo\n{\n" +
				"    private readonly int _a;\n" +
				"    public Foo(int a)\n" +
				"    {\n" +
				"        _a = a;\n" +
				"    }\n" +
				"}\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edited := addField(t, parse(t, tt.source), "a")
			got := format.New(format.DefaultOptions()).Format(edited)
			assert.Equal(t, tt.want, got.ToFullString())
		})
	}
}

func TestFormatKeepsLineEndings(t *testing.T) {
	source := "class Foo\r\n{\r\n    public Foo(string name) { }\r\n}\r\n"
	edited := addField(t, parse(t, source), "name")
	got := format.New(format.DefaultOptions()).Format(edited).ToFullString()

	want := "class Foo\r\n{\r\n" +
		"    private readonly string _name;\r\n" +
		"    public Foo(string name)\r\n" +
		"    {\r\n" +
		"        _name = name;\r\n" +
		"    }\r\n" +
		"}\r\n"
	assert.Equal(t, want, got)
}

func TestFormatTabs(t *testing.T) {
	source := "class Foo\n{\n\tpublic Foo(string name) { }\n}\n"
	edited := addField(t, parse(t, source), "name")
	got := format.New(format.Options{UseTabs: true}).Format(edited).ToFullString()

	want := "class Foo\n{\n" +
		"\tprivate readonly string _name;\n" +
		"\tpublic Foo(string name)\n" +
		"\t{\n" +
		"\t\t_name = name;\n" +
		"\t}\n" +
		"}\n"
	assert.Equal(t, want, got)
}

func TestFormatRemovesAnnotation(t *testing.T) {
	edited := addField(t, parse(t, "class Foo { Foo(int x) { } }"), "x")
	require.NotEmpty(t, edited.AnnotatedNodes(syntax.FormatterAnnotation))

	got := format.New(format.DefaultOptions()).Format(edited)
	assert.Empty(t, got.AnnotatedNodes(syntax.FormatterAnnotation))
	assert.Contains(t, got.ToFullString(), "private readonly int _x;")
	assert.Contains(t, got.ToFullString(), "_x = x;")
}

func TestFormatWithoutAnnotationsIsIdentity(t *testing.T) {
	root := parse(t, "class Foo { Foo(int x) { } }")
	assert.Same(t, root, format.New(format.DefaultOptions()).Format(root))
}

func TestFormatLeavesParameterAlone(t *testing.T) {
	root := parse(t, "class Foo\n{\n    Foo(string name) { }\n}\n")
	got := format.New(format.DefaultOptions()).Format(addField(t, root, "name"))

	ctor := firstOfKind(got, syntax.KindConstructorDecl)
	require.NotNil(t, ctor)
	assert.Equal(t, "string name", ctor.Parameters()[0].Text())
}

func TestDetectNewline(t *testing.T) {
	assert.Equal(t, "\n", format.DetectNewline(""))
	assert.Equal(t, "\n", format.DetectNewline("a\nb\r\nc\n"))
	assert.Equal(t, "\r\n", format.DetectNewline("a\r\nb\r\n"))
}

func TestEncoders(t *testing.T) {
	root := parse(t, "class A { }")

	var sb strings.Builder
	enc := format.NewEncoder("json", &sb, false)
	require.NotNil(t, enc)
	require.NoError(t, enc.Encode(root))
	assert.Contains(t, sb.String(), `"kind": "CompilationUnit"`)

	sb.Reset()
	enc = format.NewEncoder("tree", &sb, false)
	require.NotNil(t, enc)
	require.NoError(t, enc.Encode(root))
	assert.Contains(t, sb.String(), "ClassDecl")

	assert.Nil(t, format.NewEncoder("xml", &sb, false))
}
