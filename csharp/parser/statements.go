package parser

import "github.com/dhamidi/sharp/csharp/syntax"

func (p *Parser) parseBlock() *syntax.Node {
	node := p.startNode(syntax.KindBlock)
	if !p.expect(node, syntax.TokenLBrace) {
		return p.finishNode(node)
	}
	for !p.check(syntax.TokenEOF) && !p.check(syntax.TokenRBrace) {
		progressed := p.mustProgress()
		node.AddChild(p.parseStatement())
		if !progressed() {
			break
		}
	}
	p.expect(node, syntax.TokenRBrace)
	return p.finishNode(node)
}

// parseStatement always consumes at least one token unless at EOF or at a
// closing brace.
func (p *Parser) parseStatement() *syntax.Node {
	switch p.peek().Kind {
	case syntax.TokenLBrace:
		return p.parseBlock()
	case syntax.TokenSemicolon:
		node := p.startNode(syntax.KindEmptyStmt)
		node.AddChild(p.leaf())
		return p.finishNode(node)
	case syntax.TokenRBrace:
		return p.errorNode("unexpected }", nil)
	case syntax.TokenIf:
		return p.parseIf()
	case syntax.TokenWhile:
		node := p.startNode(syntax.KindWhileStmt)
		node.AddChild(p.leaf())
		p.parseParenthesized(node)
		node.AddChild(p.parseEmbeddedStatement())
		return p.finishNode(node)
	case syntax.TokenDo:
		node := p.startNode(syntax.KindDoStmt)
		node.AddChild(p.leaf())
		node.AddChild(p.parseEmbeddedStatement())
		p.expect(node, syntax.TokenWhile)
		p.parseParenthesized(node)
		p.expect(node, syntax.TokenSemicolon)
		return p.finishNode(node)
	case syntax.TokenFor:
		return p.parseHeaderStatement(syntax.KindForStmt)
	case syntax.TokenForeach:
		return p.parseHeaderStatement(syntax.KindForEachStmt)
	case syntax.TokenLock:
		return p.parseHeaderStatement(syntax.KindLockStmt)
	case syntax.TokenFixed:
		return p.parseHeaderStatement(syntax.KindFixedStmt)
	case syntax.TokenUsing:
		if p.checkN(1, syntax.TokenLParen) {
			return p.parseHeaderStatement(syntax.KindUsingStmt)
		}
		return p.parseSimpleStatement(syntax.KindLocalDeclarationStmt)
	case syntax.TokenChecked, syntax.TokenUnchecked:
		if p.checkN(1, syntax.TokenLBrace) {
			node := p.startNode(syntax.KindCheckedStmt)
			node.AddChild(p.leaf())
			node.AddChild(p.parseBlock())
			return p.finishNode(node)
		}
	case syntax.TokenSwitch:
		node := p.startNode(syntax.KindSwitchStmt)
		node.AddChild(p.leaf())
		p.parseParenthesized(node)
		if p.check(syntax.TokenLBrace) {
			p.collectBalanced(node, syntax.TokenLBrace, syntax.TokenRBrace)
		}
		return p.finishNode(node)
	case syntax.TokenTry:
		return p.parseTry()
	case syntax.TokenReturn:
		return p.parseKeywordStatement(syntax.KindReturnStmt)
	case syntax.TokenThrow:
		return p.parseKeywordStatement(syntax.KindThrowStmt)
	case syntax.TokenBreak:
		return p.parseKeywordStatement(syntax.KindBreakStmt)
	case syntax.TokenContinue:
		return p.parseKeywordStatement(syntax.KindContinueStmt)
	case syntax.TokenGoto:
		return p.parseKeywordStatement(syntax.KindGotoStmt)
	case syntax.TokenIdent:
		switch {
		case p.checkContextual("yield") && (p.checkN(1, syntax.TokenReturn) || p.checkN(1, syntax.TokenBreak)):
			node := p.startNode(syntax.KindYieldStmt)
			node.AddChild(p.leaf())
			return p.parseKeywordStatementInto(node)
		case p.checkContextual("await") && p.checkN(1, syntax.TokenForeach):
			node := p.startNode(syntax.KindForEachStmt)
			node.AddChild(p.leaf())
			return p.parseHeaderStatementInto(node)
		case p.checkContextual("await") && p.checkN(1, syntax.TokenUsing):
			if p.checkN(2, syntax.TokenLParen) {
				node := p.startNode(syntax.KindUsingStmt)
				node.AddChild(p.leaf())
				return p.parseHeaderStatementInto(node)
			}
			return p.parseSimpleStatement(syntax.KindLocalDeclarationStmt)
		}
	}

	if p.isLocalDeclaration() {
		return p.parseSimpleStatement(syntax.KindLocalDeclarationStmt)
	}
	return p.parseSimpleStatement(syntax.KindExpressionStmt)
}

// parseEmbeddedStatement parses the body of a control statement.
func (p *Parser) parseEmbeddedStatement() *syntax.Node {
	if p.check(syntax.TokenEOF) || p.check(syntax.TokenRBrace) {
		return p.errorNode("expected statement", nil)
	}
	return p.parseStatement()
}

func (p *Parser) parseIf() *syntax.Node {
	node := p.startNode(syntax.KindIfStmt)
	node.AddChild(p.leaf())
	p.parseParenthesized(node)
	node.AddChild(p.parseEmbeddedStatement())
	if p.check(syntax.TokenElse) {
		clause := p.startNode(syntax.KindElseClause)
		clause.AddChild(p.leaf())
		clause.AddChild(p.parseEmbeddedStatement())
		node.AddChild(p.finishNode(clause))
	}
	return p.finishNode(node)
}

func (p *Parser) parseHeaderStatement(kind syntax.NodeKind) *syntax.Node {
	return p.parseHeaderStatementInto(p.startNode(kind))
}

// parseHeaderStatementInto parses `keyword ( header ) statement`, keeping the
// header as raw tokens.
func (p *Parser) parseHeaderStatementInto(node *syntax.Node) *syntax.Node {
	node.AddChild(p.leaf())
	p.parseParenthesized(node)
	node.AddChild(p.parseEmbeddedStatement())
	return p.finishNode(node)
}

func (p *Parser) parseParenthesized(node *syntax.Node) {
	if !p.expect(node, syntax.TokenLParen) {
		return
	}
	if expr := p.rawExpression(syntax.TokenRParen); expr != nil {
		node.AddChild(expr)
	}
	p.expect(node, syntax.TokenRParen)
}

func (p *Parser) parseTry() *syntax.Node {
	node := p.startNode(syntax.KindTryStmt)
	node.AddChild(p.leaf())
	node.AddChild(p.parseBlock())
	for p.check(syntax.TokenCatch) {
		clause := p.startNode(syntax.KindCatchClause)
		clause.AddChild(p.leaf())
		if p.check(syntax.TokenLParen) {
			p.collectBalanced(clause, syntax.TokenLParen, syntax.TokenRParen)
		}
		if p.checkContextual("when") {
			clause.AddChild(p.leaf())
			p.parseParenthesized(clause)
		}
		clause.AddChild(p.parseBlock())
		node.AddChild(p.finishNode(clause))
	}
	if p.check(syntax.TokenFinally) {
		clause := p.startNode(syntax.KindFinallyClause)
		clause.AddChild(p.leaf())
		clause.AddChild(p.parseBlock())
		node.AddChild(p.finishNode(clause))
	}
	return p.finishNode(node)
}

func (p *Parser) parseKeywordStatement(kind syntax.NodeKind) *syntax.Node {
	node := p.startNode(kind)
	return p.parseKeywordStatementInto(node)
}

func (p *Parser) parseKeywordStatementInto(node *syntax.Node) *syntax.Node {
	node.AddChild(p.leaf())
	if expr := p.parseExpression(syntax.TokenSemicolon); expr != nil {
		node.AddChild(expr)
	}
	p.expect(node, syntax.TokenSemicolon)
	return p.finishNode(node)
}

// isLocalDeclaration looks ahead for `Type name` followed by =, ; or , .
func (p *Parser) isLocalDeclaration() bool {
	if p.checkContextual("await") {
		return false
	}
	i := 0
	for p.checkN(i, syntax.TokenConst) || p.checkN(i, syntax.TokenRef) || p.checkN(i, syntax.TokenReadonly) ||
		p.checkN(i, syntax.TokenStatic) || p.checkN(i, syntax.TokenUnsafe) ||
		p.peekN(i).Kind == syntax.TokenIdent && (p.peekN(i).Literal == "scoped" || p.peekN(i).Literal == "async") && p.checkN(i+1, syntax.TokenIdent) {
		i++
	}
	if i > 0 && p.checkN(i-1, syntax.TokenConst) {
		return true
	}

	saved := p.pos
	p.pos += i
	defer func() { p.pos = saved }()
	savedErrors := len(p.errors)
	defer func() { p.errors = p.errors[:savedErrors] }()

	// The type is parsed into a throwaway node, then the position is reset.
	if p.parseType() == nil {
		return false
	}
	if !p.check(syntax.TokenIdent) {
		return false
	}
	switch p.peekN(1).Kind {
	case syntax.TokenAssign, syntax.TokenSemicolon, syntax.TokenComma, syntax.TokenLParen, syntax.TokenLT:
		return true
	}
	return false
}

// parseSimpleStatement parses a statement ending in a semicolon. Its inner
// structure is kept as raw tokens, except that a top-level assignment becomes
// an assignment expression.
func (p *Parser) parseSimpleStatement(kind syntax.NodeKind) *syntax.Node {
	node := p.startNode(kind)
	if kind == syntax.KindExpressionStmt {
		expr := p.parseExpression(syntax.TokenSemicolon)
		if expr == nil {
			return p.errorNode("expected statement", []syntax.TokenKind{syntax.TokenSemicolon, syntax.TokenRBrace})
		}
		node.AddChild(expr)
	} else {
		raw := p.parseRaw(syntax.TokenSemicolon)
		node.Children = append(node.Children, raw...)
	}
	if p.check(syntax.TokenSemicolon) || !p.endedAtBrace() {
		p.expect(node, syntax.TokenSemicolon)
	}
	return p.finishNode(node)
}

// endedAtBrace reports whether the previous token is a closing brace, which
// ends statements such as local functions without a semicolon.
func (p *Parser) endedAtBrace() bool {
	return p.pos > 0 && p.tokens[p.pos-1].Kind == syntax.TokenRBrace
}

// parseExpression parses raw tokens up to one of stops at nesting depth 0. A
// simple assignment at depth 0 is split into an assignment expression. It
// returns nil when no tokens were consumed.
func (p *Parser) parseExpression(stops ...syntax.TokenKind) *syntax.Node {
	expr := p.rawExpression(stops...)
	if expr == nil {
		return nil
	}
	raw := expr.Children
	depth := 0
	for i, n := range raw {
		switch {
		case n.IsTokenKind(syntax.TokenLParen), n.IsTokenKind(syntax.TokenLBracket):
			depth++
		case n.IsTokenKind(syntax.TokenRParen), n.IsTokenKind(syntax.TokenRBracket):
			depth--
		case depth == 0 && i > 0 && i < len(raw)-1 && n.IsTokenKind(syntax.TokenAssign):
			left := &syntax.Node{Kind: syntax.KindExpression, Children: raw[:i]}
			left.Span = syntax.Span{Start: raw[0].Span.Start, End: raw[i-1].Span.End}
			right := &syntax.Node{Kind: syntax.KindExpression, Children: raw[i+1:]}
			right.Span = syntax.Span{Start: raw[i+1].Span.Start, End: raw[len(raw)-1].Span.End}
			return &syntax.Node{
				Kind:     syntax.KindAssignmentExpr,
				Span:     expr.Span,
				Children: []*syntax.Node{left, n, right},
			}
		}
	}
	return expr
}

// rawExpression is parseExpression without assignment splitting.
func (p *Parser) rawExpression(stops ...syntax.TokenKind) *syntax.Node {
	start := p.peek().Span.Start
	raw := p.parseRaw(stops...)
	if len(raw) == 0 {
		return nil
	}
	return &syntax.Node{
		Kind:     syntax.KindExpression,
		Span:     syntax.Span{Start: start, End: raw[len(raw)-1].Span.End},
		Children: raw,
	}
}

// parseRaw collects tokens until a stop token at depth 0, an unbalanced
// closer, or a closing brace that ends a local function or similar
// construct. Nested blocks inside lambdas are parsed as blocks.
func (p *Parser) parseRaw(stops ...syntax.TokenKind) []*syntax.Node {
	var out []*syntax.Node
	depth := 0
	for !p.check(syntax.TokenEOF) {
		tok := p.peek()
		if depth == 0 && p.match(stops...) {
			return out
		}
		switch tok.Kind {
		case syntax.TokenLParen, syntax.TokenLBracket:
			depth++
		case syntax.TokenRParen, syntax.TokenRBracket:
			if depth == 0 {
				return out
			}
			depth--
		case syntax.TokenRBrace:
			return out
		case syntax.TokenLBrace:
			if p.pos > 0 && p.tokens[p.pos-1].Kind == syntax.TokenFatArrow || p.startsLocalFunctionBody(out) {
				out = append(out, p.parseBlock())
			} else {
				out = append(out, p.parseBraced())
			}
			if depth == 0 && p.braceEndsStatement() {
				return out
			}
			continue
		case syntax.TokenIdent:
			if end, ok := p.isGenericInExpression(p.pos + 1); ok {
				for p.pos < end {
					out = append(out, p.leaf())
				}
				continue
			}
		}
		out = append(out, p.leaf())
	}
	return out
}

// startsLocalFunctionBody reports whether the raw tokens so far end with
// `Type Name(...)`, as in `int Add(int a, int b) {`.
func (p *Parser) startsLocalFunctionBody(raw []*syntax.Node) bool {
	if len(raw) == 0 || !raw[len(raw)-1].IsTokenKind(syntax.TokenRParen) {
		return false
	}
	depth := 0
	for i := len(raw) - 1; i >= 0; i-- {
		switch {
		case raw[i].IsTokenKind(syntax.TokenRParen):
			depth++
		case raw[i].IsTokenKind(syntax.TokenLParen):
			depth--
			if depth == 0 {
				if i < 2 || !raw[i-1].IsTokenKind(syntax.TokenIdent) {
					return false
				}
				before := raw[i-2]
				if !before.IsToken() {
					return false
				}
				kind := before.Token.Kind
				return kind == syntax.TokenIdent || kind.IsPredefinedType() ||
					kind == syntax.TokenGT || kind == syntax.TokenRBracket || kind == syntax.TokenQuestion
			}
		}
	}
	return false
}

// parseBraced collects an initializer or other braced expression part.
func (p *Parser) parseBraced() *syntax.Node {
	node := p.startNode(syntax.KindExpression)
	node.AddChild(p.leaf())
	for !p.check(syntax.TokenEOF) && !p.check(syntax.TokenRBrace) {
		progressed := p.mustProgress()
		if p.check(syntax.TokenLBrace) {
			node.AddChild(p.parseBraced())
		} else {
			node.Children = append(node.Children, p.parseRaw(syntax.TokenComma)...)
			p.accept(node, syntax.TokenComma)
		}
		if !progressed() {
			break
		}
	}
	p.expect(node, syntax.TokenRBrace)
	return p.finishNode(node)
}

// braceEndsStatement reports whether a statement ends right after a closing
// brace, i.e. the next token cannot continue the expression.
func (p *Parser) braceEndsStatement() bool {
	tok := p.peek()
	switch tok.Kind {
	case syntax.TokenEOF, syntax.TokenRBrace, syntax.TokenLBrace:
		return true
	case syntax.TokenIdent:
		return tok.Literal != "with"
	case syntax.TokenIs, syntax.TokenAs, syntax.TokenSwitch:
		return false
	}
	return tok.Kind.IsKeyword()
}
