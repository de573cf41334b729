package syntax

// The constructors below build fresh nodes without trivia. Callers that print
// them are expected to run the formatter over nodes carrying
// FormatterAnnotation first.

// NewToken returns a leaf for a keyword or punctuation token.
func NewToken(kind TokenKind) *Node {
	return &Node{Kind: KindToken, Token: &Token{Kind: kind, Literal: kind.String()}}
}

// Identifier returns an identifier leaf.
func Identifier(name string) *Node {
	return &Node{Kind: KindToken, Token: &Token{Kind: TokenIdent, Literal: name}}
}

// IdentifierName returns a simple name expression or type.
func IdentifierName(name string) *Node {
	return &Node{Kind: KindIdentifierName, Children: []*Node{Identifier(name)}}
}

// VariableDeclarator returns a declarator without initializer.
func VariableDeclarator(name string) *Node {
	return &Node{Kind: KindVariableDeclarator, Children: []*Node{Identifier(name)}}
}

// VariableDeclaration returns `typ a, b` from a type and declarators. typ is
// referenced, not copied.
func VariableDeclaration(typ *Node, declarators ...*Node) *Node {
	n := &Node{Kind: KindVariableDeclaration}
	n.AddChild(typ)
	for i, d := range declarators {
		if i > 0 {
			n.AddChild(NewToken(TokenComma))
		}
		n.AddChild(d)
	}
	return n
}

// Modifiers returns a modifier list holding the given keywords in order.
func Modifiers(kinds ...TokenKind) *Node {
	n := &Node{Kind: KindModifiers}
	for _, k := range kinds {
		n.AddChild(NewToken(k))
	}
	return n
}

// FieldDeclaration returns `modifiers declaration;`.
func FieldDeclaration(modifiers, declaration *Node) *Node {
	n := &Node{Kind: KindFieldDecl}
	if modifiers != nil && len(modifiers.Children) > 0 {
		n.AddChild(modifiers)
	}
	n.AddChild(declaration)
	n.AddChild(NewToken(TokenSemicolon))
	return n
}

// AssignmentExpression returns `left = right`.
func AssignmentExpression(left, right *Node) *Node {
	return &Node{Kind: KindAssignmentExpr, Children: []*Node{left, NewToken(TokenAssign), right}}
}

// ExpressionStatement returns `expr;`.
func ExpressionStatement(expr *Node) *Node {
	return &Node{Kind: KindExpressionStmt, Children: []*Node{expr, NewToken(TokenSemicolon)}}
}
