// Package refactor hosts code refactoring providers. A provider inspects a
// document at a span and registers the actions that apply there; the host
// shows their titles and applies the one the user picks.
package refactor

import (
	"context"
	"fmt"

	"github.com/dhamidi/sharp/csharp/syntax"
	"github.com/dhamidi/sharp/csharp/workspace"
	"github.com/dhamidi/sharp/format"
)

// Provider computes the refactorings available in a document.
type Provider interface {
	Name() string
	// Languages lists the document languages the provider handles.
	Languages() []string
	// ComputeRefactorings registers actions on c. Providers that do not
	// apply register nothing and return nil.
	ComputeRefactorings(ctx context.Context, c *Context) error
}

// Context is the input of one ComputeRefactorings call.
type Context struct {
	Document *workspace.Document
	Span     syntax.TextSpan

	provider string
	format   format.Options
	actions  []CodeAction
}

func NewContext(doc *workspace.Document, span syntax.TextSpan) *Context {
	return &Context{Document: doc, Span: span, format: format.DefaultOptions()}
}

func (c *Context) RegisterRefactoring(action CodeAction) {
	if action.Provider == "" {
		action.Provider = c.provider
	}
	action.format = c.format
	c.actions = append(c.actions, action)
}

func (c *Context) Actions() []CodeAction {
	return c.actions
}

// CodeAction is a refactoring offered to the user. Nothing happens until
// Apply is called.
type CodeAction struct {
	Title    string
	Provider string

	document *workspace.Document
	change   func(ctx context.Context) (*syntax.Node, error)
	format   format.Options
}

// NewDocumentChange returns an action that replaces the syntax root of doc
// with the root computed by change.
func NewDocumentChange(title string, doc *workspace.Document, change func(ctx context.Context) (*syntax.Node, error)) CodeAction {
	return CodeAction{
		Title:    title,
		document: doc,
		change:   change,
		format:   format.DefaultOptions(),
	}
}

func (a CodeAction) Document() *workspace.Document {
	return a.document
}

// Apply computes the changed document. Nodes the change marked with
// syntax.FormatterAnnotation are formatted; the rest of the text is kept.
func (a CodeAction) Apply(ctx context.Context) (*workspace.Document, error) {
	if a.change == nil {
		return nil, fmt.Errorf("apply %q: no change", a.Title)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	root, err := a.change(ctx)
	if err != nil {
		return nil, fmt.Errorf("apply %q: %w", a.Title, err)
	}
	opts := a.format
	if opts.Newline == "" {
		opts.Newline = format.DetectNewline(a.document.Text)
	}
	root = format.New(opts).Format(root)
	return a.document.WithSyntaxRoot(root), nil
}
