package syntax

import (
	"slices"
	"strings"
)

type NodeKind int

const (
	KindError NodeKind = iota

	// KindToken is a leaf. Every token of the source, punctuation included,
	// is a KindToken node, so printing the leaves reproduces the text.
	KindToken

	// Compilation unit level
	KindCompilationUnit
	KindExternAlias
	KindUsingDirective
	KindNamespaceDecl
	KindFileScopedNamespaceDecl
	KindGlobalStatement

	// Type declarations
	KindClassDecl
	KindStructDecl
	KindInterfaceDecl
	KindRecordDecl
	KindEnumDecl
	KindDelegateDecl
	KindBaseList
	KindTypeParameterList
	KindConstraintClause

	// Members
	KindFieldDecl
	KindEventFieldDecl
	KindPropertyDecl
	KindIndexerDecl
	KindMethodDecl
	KindConstructorDecl
	KindConstructorInitializer
	KindDestructorDecl
	KindOperatorDecl
	KindIncompleteMember

	// Member parts
	KindAttributeList
	KindModifiers
	KindVariableDeclaration
	KindVariableDeclarator
	KindEqualsValueClause
	KindArrowExpressionClause
	KindAccessorList
	KindParameterList
	KindBracketedParameterList
	KindParameter
	KindArgumentList

	// Types
	KindPredefinedType
	KindIdentifierName
	KindGenericName
	KindTypeArgumentList
	KindQualifiedName
	KindAliasQualifiedName
	KindArrayType
	KindNullableType
	KindPointerType
	KindTupleType

	// Statements
	KindBlock
	KindEmptyStmt
	KindExpressionStmt
	KindLocalDeclarationStmt
	KindReturnStmt
	KindThrowStmt
	KindBreakStmt
	KindContinueStmt
	KindGotoStmt
	KindYieldStmt
	KindIfStmt
	KindElseClause
	KindWhileStmt
	KindDoStmt
	KindForStmt
	KindForEachStmt
	KindUsingStmt
	KindLockStmt
	KindFixedStmt
	KindSwitchStmt
	KindTryStmt
	KindCatchClause
	KindFinallyClause
	KindCheckedStmt

	// Expressions
	KindExpression
	KindAssignmentExpr
	KindParenthesized
)

var nodeKindNames = map[NodeKind]string{
	KindError:                   "Error",
	KindToken:                   "Token",
	KindCompilationUnit:         "CompilationUnit",
	KindExternAlias:             "ExternAlias",
	KindUsingDirective:          "UsingDirective",
	KindNamespaceDecl:           "NamespaceDecl",
	KindFileScopedNamespaceDecl: "FileScopedNamespaceDecl",
	KindGlobalStatement:         "GlobalStatement",
	KindClassDecl:               "ClassDecl",
	KindStructDecl:              "StructDecl",
	KindInterfaceDecl:           "InterfaceDecl",
	KindRecordDecl:              "RecordDecl",
	KindEnumDecl:                "EnumDecl",
	KindDelegateDecl:            "DelegateDecl",
	KindBaseList:                "BaseList",
	KindTypeParameterList:       "TypeParameterList",
	KindConstraintClause:        "ConstraintClause",
	KindFieldDecl:               "FieldDecl",
	KindEventFieldDecl:          "EventFieldDecl",
	KindPropertyDecl:            "PropertyDecl",
	KindIndexerDecl:             "IndexerDecl",
	KindMethodDecl:              "MethodDecl",
	KindConstructorDecl:         "ConstructorDecl",
	KindConstructorInitializer:  "ConstructorInitializer",
	KindDestructorDecl:          "DestructorDecl",
	KindOperatorDecl:            "OperatorDecl",
	KindIncompleteMember:        "IncompleteMember",
	KindAttributeList:           "AttributeList",
	KindModifiers:               "Modifiers",
	KindVariableDeclaration:     "VariableDeclaration",
	KindVariableDeclarator:      "VariableDeclarator",
	KindEqualsValueClause:       "EqualsValueClause",
	KindArrowExpressionClause:   "ArrowExpressionClause",
	KindAccessorList:            "AccessorList",
	KindParameterList:           "ParameterList",
	KindBracketedParameterList:  "BracketedParameterList",
	KindParameter:               "Parameter",
	KindArgumentList:            "ArgumentList",
	KindPredefinedType:          "PredefinedType",
	KindIdentifierName:          "IdentifierName",
	KindGenericName:             "GenericName",
	KindTypeArgumentList:        "TypeArgumentList",
	KindQualifiedName:           "QualifiedName",
	KindAliasQualifiedName:      "AliasQualifiedName",
	KindArrayType:               "ArrayType",
	KindNullableType:            "NullableType",
	KindPointerType:             "PointerType",
	KindTupleType:               "TupleType",
	KindBlock:                   "Block",
	KindEmptyStmt:               "EmptyStmt",
	KindExpressionStmt:          "ExpressionStmt",
	KindLocalDeclarationStmt:    "LocalDeclarationStmt",
	KindReturnStmt:              "ReturnStmt",
	KindThrowStmt:               "ThrowStmt",
	KindBreakStmt:               "BreakStmt",
	KindContinueStmt:            "ContinueStmt",
	KindGotoStmt:                "GotoStmt",
	KindYieldStmt:               "YieldStmt",
	KindIfStmt:                  "IfStmt",
	KindElseClause:              "ElseClause",
	KindWhileStmt:               "WhileStmt",
	KindDoStmt:                  "DoStmt",
	KindForStmt:                 "ForStmt",
	KindForEachStmt:             "ForEachStmt",
	KindUsingStmt:               "UsingStmt",
	KindLockStmt:                "LockStmt",
	KindFixedStmt:               "FixedStmt",
	KindSwitchStmt:              "SwitchStmt",
	KindTryStmt:                 "TryStmt",
	KindCatchClause:             "CatchClause",
	KindFinallyClause:           "FinallyClause",
	KindCheckedStmt:             "CheckedStmt",
	KindExpression:              "Expression",
	KindAssignmentExpr:          "AssignmentExpr",
	KindParenthesized:           "Parenthesized",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsTypeDeclaration reports whether nodes of kind k can contain members.
func (k NodeKind) IsTypeDeclaration() bool {
	switch k {
	case KindClassDecl, KindStructDecl, KindInterfaceDecl, KindRecordDecl:
		return true
	}
	return false
}

// IsMember reports whether k is a declaration that lives in a type body,
// a namespace or the compilation unit.
func (k NodeKind) IsMember() bool {
	switch k {
	case KindFieldDecl, KindEventFieldDecl, KindPropertyDecl, KindIndexerDecl,
		KindMethodDecl, KindConstructorDecl, KindDestructorDecl,
		KindOperatorDecl, KindIncompleteMember, KindDelegateDecl,
		KindEnumDecl, KindNamespaceDecl, KindFileScopedNamespaceDecl,
		KindGlobalStatement:
		return true
	}
	return k.IsTypeDeclaration()
}

// IsStatement reports whether k is a statement kind.
func (k NodeKind) IsStatement() bool {
	return k >= KindBlock && k <= KindCheckedStmt &&
		k != KindElseClause && k != KindCatchClause && k != KindFinallyClause
}

type Error struct {
	Message  string
	Expected []TokenKind
	Got      *Token
}

// Node is an element of a concrete syntax tree. Nodes are immutable once
// built: the editing functions in this package return copies and share
// unchanged subtrees between the old and the new tree.
type Node struct {
	Kind     NodeKind
	Span     Span
	Children []*Node
	Token    *Token
	Error    *Error

	annotations []Annotation
	// tracked is only set on roots produced by TrackNodes.
	tracked map[*Node]Annotation
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

func (n *Node) IsError() bool {
	return n.Kind == KindError
}

func (n *Node) IsToken() bool {
	return n.Kind == KindToken
}

// IsTokenKind reports whether n is a leaf holding a token of the given kind.
func (n *Node) IsTokenKind(kind TokenKind) bool {
	return n != nil && n.Kind == KindToken && n.Token != nil && n.Token.Kind == kind
}

func (n *Node) FirstChildOfKind(kind NodeKind) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind NodeKind) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

// FirstTokenOfKind returns the first direct token child of the given kind.
func (n *Node) FirstTokenOfKind(kind TokenKind) *Node {
	for _, child := range n.Children {
		if child.IsTokenKind(kind) {
			return child
		}
	}
	return nil
}

func (n *Node) TokenLiteral() string {
	if n.Token != nil {
		return n.Token.Literal
	}
	return ""
}

// Tokens returns the leaves of n in document order.
func (n *Node) Tokens() []*Node {
	var out []*Node
	n.Walk(func(c *Node) bool {
		if c.Kind == KindToken {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Walk visits n and its descendants in document order. Returning false from
// fn skips the children of the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// FullWidth is the length of the text n covers, trivia included.
func (n *Node) FullWidth() int {
	if n.Kind == KindToken {
		return n.Token.FullWidth()
	}
	w := 0
	for _, child := range n.Children {
		w += child.FullWidth()
	}
	return w
}

// ToFullString prints n with all of its trivia.
func (n *Node) ToFullString() string {
	var sb strings.Builder
	n.writeTo(&sb)
	return sb.String()
}

// Text prints n without the leading trivia of its first token and the
// trailing trivia of its last token.
func (n *Node) Text() string {
	tokens := n.Tokens()
	if len(tokens) == 0 {
		return ""
	}
	full := n.ToFullString()
	first, last := tokens[0].Token, tokens[len(tokens)-1].Token
	return full[len(first.Leading) : len(full)-len(last.Trailing)]
}

func (n *Node) writeTo(sb *strings.Builder) {
	if n.Kind == KindToken {
		sb.WriteString(n.Token.Leading)
		sb.WriteString(n.Token.Literal)
		sb.WriteString(n.Token.Trailing)
		return
	}
	for _, child := range n.Children {
		child.writeTo(sb)
	}
}

func (n *Node) String() string {
	return n.stringIndent(0, false)
}

func (n *Node) StringWithPositions() string {
	return n.stringIndent(0, true)
}

func (n *Node) stringIndent(indent int, showPositions bool) string {
	var sb strings.Builder
	n.writeIndent(&sb, indent, showPositions)
	return sb.String()
}

func (n *Node) writeIndent(sb *strings.Builder, indent int, showPositions bool) {
	sb.WriteString(strings.Repeat("  ", indent))
	sb.WriteString(n.Kind.String())
	if showPositions {
		sb.WriteString(" [" + n.Span.Start.String() + "-" + n.Span.End.String() + "]")
	}
	if n.Token != nil {
		sb.WriteString(" " + n.Token.Literal)
	}
	if n.Error != nil {
		sb.WriteString(" ERROR: " + n.Error.Message)
	}
	sb.WriteString("\n")

	for _, child := range n.Children {
		child.writeIndent(sb, indent+1, showPositions)
	}
}

// copy returns a shallow copy of n with its own children slice.
func (n *Node) copy() *Node {
	c := *n
	c.Children = slices.Clone(n.Children)
	c.annotations = slices.Clone(n.annotations)
	return &c
}

func (n *Node) withChildren(children []*Node) *Node {
	c := *n
	c.Children = children
	return &c
}
