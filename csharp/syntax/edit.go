package syntax

import "slices"

// ReplaceNode returns a copy of the tree rooted at n with old replaced by
// replacement. old must be a node of this tree; the tree is returned
// unchanged when it is not.
func (n *Node) ReplaceNode(old, replacement *Node) *Node {
	if n == old {
		return n.keepTracking(replacement)
	}
	root, _ := spliceAt(n, old, func(*Node) []*Node { return []*Node{replacement} })
	return n.keepTracking(root)
}

// InsertNodesBefore returns a copy of the tree rooted at n with nodes inserted
// as siblings immediately preceding anchor.
func (n *Node) InsertNodesBefore(anchor *Node, nodes ...*Node) *Node {
	root, _ := spliceAt(n, anchor, func(a *Node) []*Node {
		return append(slices.Clone(nodes), a)
	})
	return n.keepTracking(root)
}

// spliceAt copies the path from n down to target and substitutes target with
// the nodes returned by with. The boolean reports whether target was found.
func spliceAt(n, target *Node, with func(*Node) []*Node) (*Node, bool) {
	for i, child := range n.Children {
		if child == target {
			children := make([]*Node, 0, len(n.Children)+1)
			children = append(children, n.Children[:i]...)
			children = append(children, with(child)...)
			children = append(children, n.Children[i+1:]...)
			return n.withChildren(children), true
		}
		if next, ok := spliceAt(child, target, with); ok {
			children := slices.Clone(n.Children)
			children[i] = next
			return n.withChildren(children), true
		}
	}
	return n, false
}

// keepTracking carries the tracking table of n over to an edited root.
func (n *Node) keepTracking(root *Node) *Node {
	if n.tracked == nil || root.tracked != nil {
		return root
	}
	if root == n {
		return root
	}
	c := root.withChildren(root.Children)
	c.tracked = n.tracked
	return c
}

// Body returns the block body of a method-like declaration, or nil when the
// declaration has an expression body or none at all.
func (n *Node) Body() *Node {
	switch n.Kind {
	case KindMethodDecl, KindConstructorDecl, KindDestructorDecl, KindOperatorDecl:
		return n.FirstChildOfKind(KindBlock)
	}
	return nil
}

// WithBody returns a copy of n with its block body replaced.
func (n *Node) WithBody(body *Node) *Node {
	c := n.copy()
	for i, child := range c.Children {
		if child.Kind == KindBlock {
			c.Children[i] = body
			return c
		}
	}
	c.Children = append(c.Children, body)
	return c
}

// Statements returns the statements of a block in order.
func (n *Node) Statements() []*Node {
	if n.Kind != KindBlock {
		return nil
	}
	var out []*Node
	for _, child := range n.Children {
		if child.Kind != KindToken {
			out = append(out, child)
		}
	}
	return out
}

// WithStatements returns a copy of the block n holding stmts between its
// braces.
func (n *Node) WithStatements(stmts []*Node) *Node {
	c := n.copy()
	c.Children = c.Children[:0]
	open := n.FirstTokenOfKind(TokenLBrace)
	if open != nil {
		c.Children = append(c.Children, open)
	}
	c.Children = append(c.Children, stmts...)
	if len(n.Children) > 0 {
		if last := n.Children[len(n.Children)-1]; last.IsTokenKind(TokenRBrace) {
			c.Children = append(c.Children, last)
		}
	}
	return c
}

// Parameters returns the parameters of a parameter list or of a declaration
// owning one.
func (n *Node) Parameters() []*Node {
	list := n
	if n.Kind != KindParameterList && n.Kind != KindBracketedParameterList {
		list = n.FirstChildOfKind(KindParameterList)
		if list == nil {
			return nil
		}
	}
	return list.ChildrenOfKind(KindParameter)
}

// ParameterType returns the declared type of a parameter.
func (n *Node) ParameterType() *Node {
	if n.Kind != KindParameter {
		return nil
	}
	for _, child := range n.Children {
		if isTypeKind(child.Kind) {
			return child
		}
	}
	return nil
}

// Identifier returns the identifier token naming a declaration, or nil.
func (n *Node) Identifier() *Token {
	switch n.Kind {
	case KindParameter, KindVariableDeclarator, KindConstructorDecl,
		KindMethodDecl, KindPropertyDecl, KindDestructorDecl,
		KindClassDecl, KindStructDecl, KindInterfaceDecl, KindRecordDecl,
		KindEnumDecl, KindDelegateDecl, KindIdentifierName, KindGenericName:
		for _, child := range n.Children {
			// Skip the contextual keyword of a record declaration.
			if n.Kind == KindRecordDecl && child.IsTokenKind(TokenIdent) && child.Token.Literal == "record" {
				continue
			}
			if child.IsTokenKind(TokenIdent) {
				return child.Token
			}
		}
	}
	return nil
}

func isTypeKind(k NodeKind) bool {
	switch k {
	case KindPredefinedType, KindIdentifierName, KindGenericName,
		KindQualifiedName, KindAliasQualifiedName, KindArrayType,
		KindNullableType, KindPointerType, KindTupleType:
		return true
	}
	return false
}

// IsType reports whether n is a type syntax node.
func (n *Node) IsType() bool {
	return isTypeKind(n.Kind)
}

// WithChildren returns a copy of n with the given children. Annotations are
// kept.
func (n *Node) WithChildren(children []*Node) *Node {
	return n.withChildren(children)
}

// WithTrivia returns a copy of the token leaf n with new leading and
// trailing trivia.
func (n *Node) WithTrivia(leading, trailing string) *Node {
	if n.Kind != KindToken {
		return n
	}
	tok := *n.Token
	tok.Leading = leading
	tok.Trailing = trailing
	c := n.withChildren(nil)
	c.Token = &tok
	return c
}
