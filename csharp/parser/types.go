package parser

import "github.com/dhamidi/sharp/csharp/syntax"

// parseType parses a type at the current position, or returns nil without
// consuming anything when no type starts here.
func (p *Parser) parseType() *syntax.Node {
	var typ *syntax.Node
	switch {
	case p.peek().Kind.IsPredefinedType():
		typ = p.startNode(syntax.KindPredefinedType)
		typ.AddChild(p.leaf())
		typ = p.finishNode(typ)
	case p.check(syntax.TokenIdent):
		typ = p.parseName()
	case p.check(syntax.TokenLParen) && p.isTupleType():
		typ = p.parseTupleType()
	default:
		return nil
	}

	for {
		switch {
		case p.check(syntax.TokenQuestion) && !p.questionStartsConditional():
			n := &syntax.Node{Kind: syntax.KindNullableType, Span: syntax.Span{Start: typ.Span.Start}}
			n.AddChild(typ)
			n.AddChild(p.leaf())
			typ = p.finishNode(n)
		case p.check(syntax.TokenStar):
			n := &syntax.Node{Kind: syntax.KindPointerType, Span: syntax.Span{Start: typ.Span.Start}}
			n.AddChild(typ)
			n.AddChild(p.leaf())
			typ = p.finishNode(n)
		case p.check(syntax.TokenLBracket) && p.isRankSpecifier():
			n := &syntax.Node{Kind: syntax.KindArrayType, Span: syntax.Span{Start: typ.Span.Start}}
			n.AddChild(typ)
			for p.check(syntax.TokenLBracket) && p.isRankSpecifier() {
				p.collectBalanced(n, syntax.TokenLBracket, syntax.TokenRBracket)
			}
			typ = p.finishNode(n)
		default:
			return typ
		}
	}
}

// questionStartsConditional reports whether the ? at the current position
// belongs to a conditional expression rather than a nullable type.
func (p *Parser) questionStartsConditional() bool {
	switch p.peekN(1).Kind {
	case syntax.TokenIdent, syntax.TokenComma, syntax.TokenRParen, syntax.TokenGT,
		syntax.TokenRBracket, syntax.TokenLBracket, syntax.TokenSemicolon, syntax.TokenAssign,
		syntax.TokenLBrace, syntax.TokenQuestion, syntax.TokenEOF, syntax.TokenThis,
		syntax.TokenOperator, syntax.TokenStar:
		return false
	}
	return true
}

func (p *Parser) isRankSpecifier() bool {
	for i := 1; ; i++ {
		switch p.peekN(i).Kind {
		case syntax.TokenComma:
		case syntax.TokenRBracket:
			return true
		default:
			return false
		}
	}
}

func (p *Parser) isTupleType() bool {
	depth := 0
	sawComma := false
	for i := 0; ; i++ {
		tok := p.peekN(i)
		switch tok.Kind {
		case syntax.TokenEOF, syntax.TokenSemicolon, syntax.TokenLBrace, syntax.TokenAssign:
			return false
		case syntax.TokenLParen:
			depth++
		case syntax.TokenRParen:
			depth--
			if depth == 0 {
				next := p.peekN(i + 1).Kind
				return sawComma && (next == syntax.TokenIdent || next == syntax.TokenQuestion ||
					next == syntax.TokenLBracket || next == syntax.TokenThis || next == syntax.TokenOperator ||
					next == syntax.TokenGT || next == syntax.TokenComma)
			}
		case syntax.TokenComma:
			if depth == 1 {
				sawComma = true
			}
		}
	}
}

func (p *Parser) parseTupleType() *syntax.Node {
	node := p.startNode(syntax.KindTupleType)
	node.AddChild(p.leaf())
	for !p.check(syntax.TokenEOF) && !p.check(syntax.TokenRParen) {
		progressed := p.mustProgress()
		if elem := p.parseType(); elem != nil {
			node.AddChild(elem)
		} else {
			node.AddChild(p.errorNode("expected tuple element type", []syntax.TokenKind{syntax.TokenComma, syntax.TokenRParen}))
		}
		p.accept(node, syntax.TokenIdent)
		if !p.accept(node, syntax.TokenComma) || !progressed() {
			break
		}
	}
	p.expect(node, syntax.TokenRParen)
	return p.finishNode(node)
}

// parseName parses a possibly qualified, possibly generic name:
// Foo, Foo<T>, A.B.C, global::A.B.
func (p *Parser) parseName() *syntax.Node {
	if !p.check(syntax.TokenIdent) {
		return nil
	}
	var name *syntax.Node
	if p.checkN(1, syntax.TokenColonColon) {
		name = p.startNode(syntax.KindAliasQualifiedName)
		name.AddChild(p.leaf())
		name.AddChild(p.leaf())
		if p.check(syntax.TokenIdent) {
			name.AddChild(p.parseSimpleName())
		}
		name = p.finishNode(name)
	} else {
		name = p.parseSimpleName()
	}
	for p.check(syntax.TokenDot) && p.checkN(1, syntax.TokenIdent) {
		q := &syntax.Node{Kind: syntax.KindQualifiedName, Span: syntax.Span{Start: name.Span.Start}}
		q.AddChild(name)
		q.AddChild(p.leaf())
		q.AddChild(p.parseSimpleName())
		name = p.finishNode(q)
	}
	return name
}

// parseSimpleName parses Foo or Foo<T, U>.
func (p *Parser) parseSimpleName() *syntax.Node {
	if _, ok := p.typeArgumentsEnd(p.pos + 1); ok {
		node := p.startNode(syntax.KindGenericName)
		node.AddChild(p.leaf())
		node.AddChild(p.parseTypeArgumentList())
		return p.finishNode(node)
	}
	node := p.startNode(syntax.KindIdentifierName)
	node.AddChild(p.leaf())
	return p.finishNode(node)
}

func (p *Parser) parseTypeArgumentList() *syntax.Node {
	node := p.startNode(syntax.KindTypeArgumentList)
	node.AddChild(p.leaf())
	for !p.check(syntax.TokenEOF) && !p.check(syntax.TokenGT) {
		progressed := p.mustProgress()
		if arg := p.parseType(); arg != nil {
			node.AddChild(arg)
		}
		if !p.accept(node, syntax.TokenComma) || !progressed() {
			break
		}
	}
	p.expect(node, syntax.TokenGT)
	return p.finishNode(node)
}

// typeArgumentsEnd checks whether the token at index i opens a type argument
// list and returns the index just past its closing >.
func (p *Parser) typeArgumentsEnd(i int) (int, bool) {
	if i >= len(p.tokens) || p.tokens[i].Kind != syntax.TokenLT {
		return 0, false
	}
	depth := 0
	for ; i < len(p.tokens); i++ {
		tok := p.tokens[i]
		switch {
		case tok.Kind == syntax.TokenLT:
			depth++
		case tok.Kind == syntax.TokenGT:
			depth--
			if depth == 0 {
				return i + 1, true
			}
		case tok.Kind == syntax.TokenIdent, tok.Kind.IsPredefinedType(),
			tok.Kind == syntax.TokenComma, tok.Kind == syntax.TokenDot,
			tok.Kind == syntax.TokenColonColon, tok.Kind == syntax.TokenQuestion,
			tok.Kind == syntax.TokenLBracket, tok.Kind == syntax.TokenRBracket,
			tok.Kind == syntax.TokenLParen, tok.Kind == syntax.TokenRParen,
			tok.Kind == syntax.TokenStar:
		default:
			return 0, false
		}
	}
	return 0, false
}

// isGenericInExpression applies the disambiguation used inside expressions:
// a < starts a type argument list only if the token after the matching >
// could follow a generic name.
func (p *Parser) isGenericInExpression(i int) (int, bool) {
	end, ok := p.typeArgumentsEnd(i)
	if !ok {
		return 0, false
	}
	if end >= len(p.tokens) {
		return end, true
	}
	switch p.tokens[end].Kind {
	case syntax.TokenLParen, syntax.TokenRParen, syntax.TokenRBracket, syntax.TokenRBrace,
		syntax.TokenColon, syntax.TokenSemicolon, syntax.TokenComma, syntax.TokenDot,
		syntax.TokenQuestion, syntax.TokenQuestionDot, syntax.TokenEQ, syntax.TokenNE,
		syntax.TokenBitOr, syntax.TokenBitXor, syntax.TokenAnd, syntax.TokenOr,
		syntax.TokenBitAnd, syntax.TokenLBrace, syntax.TokenFatArrow, syntax.TokenIdent,
		syntax.TokenEOF, syntax.TokenGT, syntax.TokenLBracket:
		return end, true
	}
	return 0, false
}
