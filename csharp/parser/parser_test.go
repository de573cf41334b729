package parser

import (
	"strings"
	"testing"

	"github.com/dhamidi/sharp/csharp/syntax"
)

func parse(t *testing.T, input string) (*syntax.Node, *Parser) {
	t.Helper()
	p := ParseCompilationUnit(strings.NewReader(input), WithFile("Test.cs"))
	root, err := p.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if root == nil {
		t.Fatal("Finish returned nil")
	}
	return root, p
}

func findFirst(root *syntax.Node, kind syntax.NodeKind) *syntax.Node {
	var found *syntax.Node
	root.Walk(func(n *syntax.Node) bool {
		if found != nil {
			return false
		}
		if n.Kind == kind {
			found = n
			return false
		}
		return true
	})
	return found
}

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace", "  \n\n"},
		{"class", "class Foo { }"},
		{"constructor", "public class Foo\n{\n    public Foo(string name) { }\n}\n"},
		{"crlf", "class Foo\r\n{\r\n    public Foo(int a) { }\r\n}\r\n"},
		{"comments", "// header\n/* doc */\nclass Foo // trailing\n{\n    // inside\n}\n// end\n"},
		{"directives", "#region r\nclass Foo\n{\n#if DEBUG\n    int x;\n#endif\n}\n#endregion\n"},
		{"usings", "using System;\nusing static System.Math;\nusing IO = System.IO;\nglobal using System.Linq;\n"},
		{"namespace", "namespace A.B\n{\n    class C { }\n}\n"},
		{"file scoped", "namespace A.B;\n\npublic sealed class C { }\n"},
		{"generics", "class Box<T> : IEnumerable<T> where T : class, new()\n{\n    private Dictionary<string, List<int>> _map = new Dictionary<string, List<int>>();\n}\n"},
		{"members", "class C\n{\n    public int X { get; private set; } = 1;\n    public int Y => X * 2;\n    public event EventHandler Changed;\n    public int this[int i] => i;\n    public static C operator +(C a, C b) => a;\n    public static implicit operator int(C c) => 0;\n    ~C() { }\n    void IFoo.Bar() { }\n}\n"},
		{"record", "public record Person(string Name, int Age);\npublic record struct Point(int X, int Y) { }\n"},
		{"enum", "enum Color : byte { Red = 1, Green, Blue, }\n"},
		{"delegate", "public delegate void Handler<T>(object sender, T args) where T : EventArgs;\n"},
		{"statements", "class C\n{\n    void M()\n    {\n        var x = 1;\n        if (x > 0) { x++; } else x--;\n        for (int i = 0; i < 10; i++) Console.WriteLine(i);\n        foreach (var item in items) { }\n        while (true) break;\n        do { } while (false);\n        try { } catch (Exception e) when (e != null) { } finally { }\n        switch (x) { case 1: break; default: return; }\n        using (var s = Open()) { }\n        using var t = Open();\n        lock (this) { }\n        Func<int, int> f = y => { return y; };\n        int Add(int a, int b) { return a + b; }\n        var o = new Foo() { A = 1, B = { 2, 3 } };\n        var s2 = x switch { 1 => \"one\", _ => \"many\" };\n        yield return x;\n        await foreach (var z in Stream()) { }\n    }\n}\n"},
		{"strings", "class C { string s = $\"{a} and {b:X2}\"; string v = @\"c:\\x\"; string r = \"\"\"raw\"\"\"; }"},
		{"top level statements", "using System;\n\nConsole.WriteLine(\"hi\");\nvar x = 1;\n\nclass Foo { }\n"},
		{"attributes", "[Serializable]\npublic class C\n{\n    [Obsolete(\"x\")] public C([NotNull] string name, int count = 0) : base(name) { }\n}\n"},
		{"expression bodied ctor", "class C { int _a; public C(int a) => _a = a; }"},
		{"missing paren", "class Foo { public Foo(string name { } }"},
		{"garbage", "class Foo { ) ) public int X; } }"},
		{"unterminated", "class Foo { public Foo(int a) { DoWork(); "},
		{"stray tokens", "} ; ) class A {}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, _ := parse(t, tt.input)
			if got := root.ToFullString(); got != tt.input {
				t.Errorf("ToFullString() =\n%q\nwant\n%q", got, tt.input)
			}
			if root.Kind != syntax.KindCompilationUnit {
				t.Errorf("root kind = %v", root.Kind)
			}
		})
	}
}

func TestParseConstructor(t *testing.T) {
	root, p := parse(t, "public class Foo\n{\n    public Foo(string name, int count = 3) { }\n}\n")

	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	ctor := findFirst(root, syntax.KindConstructorDecl)
	if ctor == nil {
		t.Fatalf("no constructor in\n%s", root)
	}
	if got := ctor.Identifier().Literal; got != "Foo" {
		t.Errorf("constructor name = %q", got)
	}

	params := ctor.Parameters()
	if len(params) != 2 {
		t.Fatalf("got %d parameters, want 2", len(params))
	}
	if got := params[0].Identifier().Literal; got != "name" {
		t.Errorf("param 0 name = %q", got)
	}
	if typ := params[0].ParameterType(); typ == nil || typ.Kind != syntax.KindPredefinedType || typ.Text() != "string" {
		t.Errorf("param 0 type = %v", typ)
	}
	if params[1].FirstChildOfKind(syntax.KindEqualsValueClause) == nil {
		t.Error("param 1 has no default value")
	}
	if body := ctor.Body(); body == nil || len(body.Statements()) != 0 {
		t.Errorf("body = %v", body)
	}
}

func TestParseMemberKinds(t *testing.T) {
	root, _ := parse(t, `class C
{
    private readonly int _x = 1, _y;
    public string Name { get; set; }
    public C(int x) : this() { }
    public void Run() { }
    public List<T> Get<T>() where T : new() => null;
    public int Count => 0;
    ~C() { }
    class Nested { }
}
`)
	class := findFirst(root, syntax.KindClassDecl)
	var kinds []syntax.NodeKind
	for _, child := range class.Children {
		if !child.IsToken() {
			kinds = append(kinds, child.Kind)
		}
	}
	want := []syntax.NodeKind{
		syntax.KindFieldDecl,
		syntax.KindPropertyDecl,
		syntax.KindConstructorDecl,
		syntax.KindMethodDecl,
		syntax.KindMethodDecl,
		syntax.KindPropertyDecl,
		syntax.KindDestructorDecl,
		syntax.KindClassDecl,
	}
	if len(kinds) != len(want) {
		t.Fatalf("got kinds %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("member %d = %v, want %v", i, kinds[i], want[i])
		}
	}

	field := findFirst(class, syntax.KindFieldDecl)
	decl := field.FirstChildOfKind(syntax.KindVariableDeclaration)
	if decl == nil {
		t.Fatal("field without variable declaration")
	}
	if n := len(decl.ChildrenOfKind(syntax.KindVariableDeclarator)); n != 2 {
		t.Errorf("got %d declarators, want 2", n)
	}
}

func TestParseStatements(t *testing.T) {
	root, p := parse(t, `class C
{
    public C(int a, int b)
    {
        DoWork();
        _a = a;
        var x = 1;
        if (a > b) return;
    }
}
`)
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	body := findFirst(root, syntax.KindConstructorDecl).Body()
	stmts := body.Statements()
	want := []syntax.NodeKind{
		syntax.KindExpressionStmt,
		syntax.KindExpressionStmt,
		syntax.KindLocalDeclarationStmt,
		syntax.KindIfStmt,
	}
	if len(stmts) != len(want) {
		t.Fatalf("got %d statements, want %d:\n%s", len(stmts), len(want), body)
	}
	for i := range want {
		if stmts[i].Kind != want[i] {
			t.Errorf("statement %d = %v, want %v", i, stmts[i].Kind, want[i])
		}
	}

	assign := stmts[1].Children[0]
	if assign.Kind != syntax.KindAssignmentExpr {
		t.Fatalf("statement 1 expression = %v, want AssignmentExpr", assign.Kind)
	}
	if assign.Children[0].Text() != "_a" || assign.Children[2].Text() != "a" {
		t.Errorf("assignment = %q", assign.Text())
	}
}

func TestParseLocalFunctionEndsAtBrace(t *testing.T) {
	root, p := parse(t, "class C { void M() { int Add(int a, int b) { return a + b; } Add(1, 2); } }")
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	method := findFirst(root, syntax.KindMethodDecl)
	stmts := method.Body().Statements()
	if len(stmts) != 2 {
		t.Fatalf("got %d statements, want 2:\n%s", len(stmts), method)
	}
	if stmts[1].Kind != syntax.KindExpressionStmt {
		t.Errorf("second statement = %v", stmts[1].Kind)
	}
}

func TestParseExpressionBodiedConstructor(t *testing.T) {
	root, _ := parse(t, "class C { int _a; public C(int a) => _a = a; }")
	ctor := findFirst(root, syntax.KindConstructorDecl)
	if ctor == nil {
		t.Fatal("no constructor")
	}
	if ctor.Body() != nil {
		t.Error("expression-bodied constructor has a block body")
	}
	if ctor.FirstChildOfKind(syntax.KindArrowExpressionClause) == nil {
		t.Error("missing arrow clause")
	}
}

func TestParseRecordPrimaryConstructor(t *testing.T) {
	root, _ := parse(t, "public record Person(string Name, int Age);")
	record := findFirst(root, syntax.KindRecordDecl)
	if record == nil {
		t.Fatalf("no record in\n%s", root)
	}
	if got := len(record.Parameters()); got != 2 {
		t.Errorf("got %d parameters, want 2", got)
	}
	if findFirst(root, syntax.KindConstructorDecl) != nil {
		t.Error("primary constructor parsed as constructor declaration")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing close paren", "class Foo { public Foo(string name { } }"},
		{"missing semicolon", "class Foo { int x }"},
		{"stray close paren", "class Foo { ) }"},
		{"unterminated class", "class Foo {"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, p := parse(t, tt.input)
			if len(p.Errors()) == 0 {
				t.Errorf("expected errors for %q", tt.input)
			}
			if root.ToFullString() != tt.input {
				t.Errorf("round trip failed: %q", root.ToFullString())
			}
		})
	}
}

func TestParseTopLevelStatements(t *testing.T) {
	root, _ := parse(t, "using System;\nConsole.WriteLine(1);\nclass Foo { }\n")
	var kinds []syntax.NodeKind
	for _, child := range root.Children {
		kinds = append(kinds, child.Kind)
	}
	want := []syntax.NodeKind{syntax.KindUsingDirective, syntax.KindGlobalStatement, syntax.KindClassDecl, syntax.KindToken}
	if len(kinds) != len(want) {
		t.Fatalf("got %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("child %d = %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestParseMember(t *testing.T) {
	p := ParseMember(strings.NewReader("public Foo(int a) { }"))
	root, err := p.Finish()
	if err != nil {
		t.Fatal(err)
	}
	if root.Kind != syntax.KindConstructorDecl {
		t.Errorf("kind = %v, want ConstructorDecl", root.Kind)
	}
}

func TestParserReset(t *testing.T) {
	p := ParseCompilationUnit(strings.NewReader("class A { }"))
	first, _ := p.Finish()
	p.Reset(strings.NewReader("class B { }"))
	second, _ := p.Finish()
	if findFirst(first, syntax.KindClassDecl).Identifier().Literal != "A" {
		t.Error("first parse lost")
	}
	if findFirst(second, syntax.KindClassDecl).Identifier().Literal != "B" {
		t.Error("reset did not take new input")
	}
}
