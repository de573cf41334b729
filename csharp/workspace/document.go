package workspace

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dhamidi/sharp/csharp/parser"
	"github.com/dhamidi/sharp/csharp/syntax"
)

// LanguageCSharp is the language name providers register for.
const LanguageCSharp = "C#"

// Document is an immutable snapshot of one source file. Edits produce new
// snapshots that keep the ID and carry the next version.
type Document struct {
	ID      uuid.UUID
	Path    string
	Version int32
	Text    string

	workspace *Workspace
	parsed    *parseResult
}

type parseResult struct {
	once   sync.Once
	tree   *syntax.Tree
	errors []syntax.Error
}

func newDocument(ws *Workspace, id uuid.UUID, path, text string, version int32) *Document {
	return &Document{
		ID:        id,
		Path:      path,
		Version:   version,
		Text:      text,
		workspace: ws,
		parsed:    &parseResult{},
	}
}

func (d *Document) Workspace() *Workspace {
	return d.workspace
}

func (d *Document) Language() string {
	return LanguageCSharp
}

func (d *Document) parse() *parseResult {
	d.parsed.once.Do(func() {
		p := parser.ParseCompilationUnit(strings.NewReader(d.Text), parser.WithFile(d.Path))
		// Reading from a strings.Reader cannot fail.
		root, _ := p.Finish()
		d.parsed.tree = syntax.NewTree(root)
		d.parsed.errors = p.Errors()
	})
	return d.parsed
}

// SyntaxRoot returns the root of the document's syntax tree, parsing the
// text on first use.
func (d *Document) SyntaxRoot(ctx context.Context) (*syntax.Node, error) {
	tree, err := d.SyntaxTree(ctx)
	if err != nil {
		return nil, err
	}
	return tree.Root(), nil
}

func (d *Document) SyntaxTree(ctx context.Context) (*syntax.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.parse().tree, nil
}

// SyntaxErrors returns the errors recorded while parsing the document.
func (d *Document) SyntaxErrors(ctx context.Context) ([]syntax.Error, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.parse().errors, nil
}

// SemanticModel returns the document's semantic model. Only syntactic
// queries are supported.
func (d *Document) SemanticModel(ctx context.Context) (*SemanticModel, error) {
	tree, err := d.SyntaxTree(ctx)
	if err != nil {
		return nil, err
	}
	return &SemanticModel{document: d, tree: tree}, nil
}

// WithSyntaxRoot returns the next version of the document holding the text
// of root. The new document parses its text again on demand: edited roots
// may share subtrees between two parents, which a Tree cannot navigate.
func (d *Document) WithSyntaxRoot(root *syntax.Node) *Document {
	return newDocument(d.workspace, d.ID, d.Path, root.ToFullString(), d.Version+1)
}

// SemanticModel answers questions about a document's declarations.
type SemanticModel struct {
	document *Document
	tree     *syntax.Tree
}

func (m *SemanticModel) Document() *Document {
	return m.document
}

func (m *SemanticModel) SyntaxTree() *syntax.Tree {
	return m.tree
}

// EnclosingType returns the innermost type declaration containing n.
func (m *SemanticModel) EnclosingType(n *syntax.Node) *syntax.Node {
	for _, a := range m.tree.Ancestors(n) {
		if a.Kind.IsTypeDeclaration() {
			return a
		}
	}
	return nil
}

// DeclaredName returns the name n declares, or "".
func (m *SemanticModel) DeclaredName(n *syntax.Node) string {
	if tok := n.Identifier(); tok != nil {
		return tok.Literal
	}
	return ""
}
