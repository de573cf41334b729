// Package diagnostics reports syntax errors in C# source using the
// tree-sitter C# grammar. It is independent of the parser in
// csharp/parser, which accepts malformed input silently, and serves as an
// outside check on both user input and rewritten output.
package diagnostics

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"
)

type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	}
	return "unknown"
}

// Diagnostic is a problem at a range of the source. Lines and columns are
// zero based; columns count bytes.
type Diagnostic struct {
	Severity           Severity
	Line, Column       int
	EndLine, EndColumn int
	StartByte, EndByte int
	Message            string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s: %s", d.Line+1, d.Column+1, d.Severity, d.Message)
}

// maxDiagnostics bounds the report for badly broken input.
const maxDiagnostics = 100

// Check parses source and returns its syntax errors in document order.
func Check(ctx context.Context, source []byte) ([]Diagnostic, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(csharp.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return nil, nil
	}
	var out []Diagnostic
	collect(root, source, &out)
	return out, nil
}

func collect(n *sitter.Node, source []byte, out *[]Diagnostic) {
	if len(*out) >= maxDiagnostics {
		return
	}
	if n.IsMissing() {
		*out = append(*out, diagnosticFor(n, source))
		return
	}
	if n.IsError() {
		// An unclosed declaration can turn the rest of the file into one
		// error node. Report the errors nested in it when there are any.
		before := len(*out)
		for i := 0; i < int(n.ChildCount()); i++ {
			collect(n.Child(i), source, out)
		}
		if len(*out) == before {
			*out = append(*out, diagnosticFor(n, source))
		}
		return
	}
	if !n.HasError() {
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		collect(n.Child(i), source, out)
	}
}

func diagnosticFor(n *sitter.Node, source []byte) Diagnostic {
	start, end := n.StartPoint(), n.EndPoint()
	d := Diagnostic{
		Severity:  SeverityError,
		Line:      int(start.Row),
		Column:    int(start.Column),
		EndLine:   int(end.Row),
		EndColumn: int(end.Column),
		StartByte: int(n.StartByte()),
		EndByte:   int(n.EndByte()),
	}
	if n.IsMissing() {
		d.Message = fmt.Sprintf("missing %s", n.Type())
		return d
	}
	text := n.Content(source)
	if len(text) > 40 {
		text = text[:40] + "..."
	}
	if text == "" {
		d.Message = "syntax error"
	} else {
		d.Message = fmt.Sprintf("unexpected %q", text)
	}
	return d
}
