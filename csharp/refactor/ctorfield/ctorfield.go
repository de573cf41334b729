// Package ctorfield provides the "Initialize field from parameter"
// refactoring: with the caret on a constructor parameter it declares a
// private readonly field for the parameter and assigns it at the top of the
// constructor body.
package ctorfield

import (
	"context"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/sharp/csharp/refactor"
	"github.com/dhamidi/sharp/csharp/syntax"
	"github.com/dhamidi/sharp/csharp/workspace"
)

const Title = "Initialize field from parameter"

var log = commonlog.GetLogger("sharp.refactor.ctorfield")

func init() {
	refactor.Register(New())
}

type Provider struct{}

func New() *Provider {
	return &Provider{}
}

func (p *Provider) Name() string {
	return "InitializeFieldFromParameter"
}

func (p *Provider) Languages() []string {
	return []string{workspace.LanguageCSharp}
}

// ComputeRefactorings offers the action when the caret sits on a parameter
// of a constructor with a block body. It never fails: anything else means
// the action does not apply.
func (p *Provider) ComputeRefactorings(ctx context.Context, c *refactor.Context) error {
	doc := c.Document
	if doc.Workspace().Kind() == workspace.KindMiscellaneousFiles {
		return nil
	}
	if ctx.Err() != nil || !c.Span.IsEmpty() {
		return nil
	}

	model, err := doc.SemanticModel(ctx)
	if err != nil {
		return nil
	}
	root, err := doc.SyntaxRoot(ctx)
	if err != nil {
		return nil
	}
	tree := model.SyntaxTree()

	param := FindParameter(tree, c.Span.Start)
	if param == nil {
		return nil
	}
	ctor := tree.Parent(tree.Parent(param))
	if ctor == nil || ctor.Kind != syntax.KindConstructorDecl || ctor.Body() == nil {
		return nil
	}
	name := param.Identifier()
	if name == nil || param.ParameterType() == nil {
		return nil
	}
	log.Debugf("%s: offering field for parameter %s of %s", doc.Path, name.Literal, model.DeclaredName(model.EnclosingType(ctor)))

	c.RegisterRefactoring(refactor.NewDocumentChange(Title, doc, func(ctx context.Context) (*syntax.Node, error) {
		field, assignment := Synthesize(param)
		return Rewrite(root, ctor, field, assignment), nil
	}))
	return nil
}

// FindParameter returns the parameter the caret at offset is on. A caret on
// the delimiters of a parameter list means its last parameter. The search
// stops at the first statement, member or type declaration above the token.
func FindParameter(tree *syntax.Tree, offset int) *syntax.Node {
	tok := tree.FindToken(offset)
	for n := tree.Parent(tok); n != nil; n = tree.Parent(n) {
		switch {
		case n.Kind == syntax.KindParameter:
			return n
		case n.Kind == syntax.KindParameterList:
			params := n.Parameters()
			if len(params) == 0 {
				return nil
			}
			return params[len(params)-1]
		case n.Kind.IsStatement(), n.Kind.IsMember(), n.Kind.IsTypeDeclaration():
			return nil
		}
	}
	return nil
}

// Synthesize builds `private readonly T _name;` and `_name = name;` for a
// parameter `T name`. The field refers to the parameter's type node.
func Synthesize(param *syntax.Node) (field, assignment *syntax.Node) {
	name := param.Identifier().Literal
	fieldName := "_" + name

	field = syntax.FieldDeclaration(
		syntax.Modifiers(syntax.TokenPrivate, syntax.TokenReadonly),
		syntax.VariableDeclaration(param.ParameterType(), syntax.VariableDeclarator(fieldName)),
	).WithAdditionalAnnotations(syntax.FormatterAnnotation)

	assignment = syntax.ExpressionStatement(syntax.AssignmentExpression(
		syntax.IdentifierName(fieldName),
		syntax.IdentifierName(name),
	)).WithAdditionalAnnotations(syntax.FormatterAnnotation)
	return field, assignment
}

// Rewrite inserts field before ctor and makes assignment the first statement
// of ctor's body. ctor must belong to the tree rooted at root and have a
// block body.
func Rewrite(root, ctor, field, assignment *syntax.Node) *syntax.Node {
	root = root.TrackNodes(ctor)
	root = root.InsertNodesBefore(root.GetCurrentNode(ctor), field)

	current := root.GetCurrentNode(ctor)
	body := current.Body()
	statements := append([]*syntax.Node{assignment}, body.Statements()...)
	return root.ReplaceNode(current, current.WithBody(body.WithStatements(statements)))
}
