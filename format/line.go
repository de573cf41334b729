package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/sharp/csharp/syntax"
)

// LineEncoder prints the declarations of a compilation unit one per line,
// with tab separated fields: kind, name, type or parameter types, and
// modifiers. Empty fields print as "-".
type LineEncoder struct {
	w io.Writer
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(node *syntax.Node) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText(node *syntax.Node) ([]byte, error) {
	var sb strings.Builder
	node.Walk(func(n *syntax.Node) bool {
		switch n.Kind {
		case syntax.KindBlock, syntax.KindArrowExpressionClause, syntax.KindAccessorList:
			return false
		case syntax.KindClassDecl, syntax.KindStructDecl, syntax.KindInterfaceDecl,
			syntax.KindRecordDecl, syntax.KindEnumDecl:
			fmt.Fprintf(&sb, "%s\t%s\t%s\n", typeKind(n.Kind), declName(n), modifiersStr(n))
		case syntax.KindFieldDecl:
			decl := n.FirstChildOfKind(syntax.KindVariableDeclaration)
			if decl == nil {
				return false
			}
			for _, v := range decl.ChildrenOfKind(syntax.KindVariableDeclarator) {
				fmt.Fprintf(&sb, "field\t%s\t%s\t%s\n", declName(v), typeStr(decl), modifiersStr(n))
			}
			return false
		case syntax.KindPropertyDecl:
			fmt.Fprintf(&sb, "property\t%s\t%s\t%s\n", declName(n), typeStr(n), modifiersStr(n))
			return false
		case syntax.KindMethodDecl:
			fmt.Fprintf(&sb, "method\t%s\t%s\t%s\t%s\n", declName(n), typeStr(n), parametersStr(n), modifiersStr(n))
			return false
		case syntax.KindConstructorDecl:
			fmt.Fprintf(&sb, "constructor\t%s\t%s\t%s\n", declName(n), parametersStr(n), modifiersStr(n))
			return false
		}
		return true
	})
	return []byte(sb.String()), nil
}

func typeKind(k syntax.NodeKind) string {
	switch k {
	case syntax.KindStructDecl:
		return "struct"
	case syntax.KindInterfaceDecl:
		return "interface"
	case syntax.KindRecordDecl:
		return "record"
	case syntax.KindEnumDecl:
		return "enum"
	default:
		return "class"
	}
}

func declName(n *syntax.Node) string {
	if tok := n.Identifier(); tok != nil {
		return tok.Literal
	}
	if tok := n.FirstTokenOfKind(syntax.TokenIdent); tok != nil {
		return tok.Token.Literal
	}
	return "-"
}

// typeStr returns the first type among the children of n: the declared
// type of a field or property, the return type of a method.
func typeStr(n *syntax.Node) string {
	for _, c := range n.Children {
		if c.IsType() {
			return c.Text()
		}
	}
	return "-"
}

func modifiersStr(n *syntax.Node) string {
	mods := n.FirstChildOfKind(syntax.KindModifiers)
	if mods == nil {
		return "-"
	}
	var parts []string
	for _, tok := range mods.Tokens() {
		parts = append(parts, tok.Token.Literal)
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ",")
}

func parametersStr(n *syntax.Node) string {
	params := n.Parameters()
	if len(params) == 0 {
		return "-"
	}
	var parts []string
	for _, p := range params {
		if t := p.ParameterType(); t != nil {
			parts = append(parts, t.Text())
		}
	}
	return strings.Join(parts, ",")
}
