package parser

import (
	"fmt"
	"io"

	"github.com/dhamidi/sharp/csharp/syntax"
)

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

type parseFunc func(*Parser) *syntax.Node

// Parser builds a full-fidelity syntax tree: every token of the input,
// with its trivia, ends up as a leaf, so printing the tree returns the input
// byte for byte. Malformed input produces error nodes holding the skipped
// tokens instead of failing.
type Parser struct {
	file   string
	reader io.Reader
	input  []byte
	tokens []syntax.Token
	pos    int
	entry  parseFunc
	errors []syntax.Error
}

func ParseCompilationUnit(r io.Reader, opts ...Option) *Parser {
	p := &Parser{
		reader: r,
		entry:  (*Parser).parseCompilationUnit,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseStatement parses a single statement; the remaining input, if any, is
// attached to an error node.
func ParseStatement(r io.Reader, opts ...Option) *Parser {
	p := &Parser{
		reader: r,
		entry: func(p *Parser) *syntax.Node {
			stmt := p.parseStatement()
			return p.finishInput(stmt)
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseMember parses a single class member.
func ParseMember(r io.Reader, opts ...Option) *Parser {
	p := &Parser{
		reader: r,
		entry: func(p *Parser) *syntax.Node {
			member := p.parseMember()
			return p.finishInput(member)
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Parser) readAll() error {
	if p.input != nil {
		return nil
	}
	data, err := io.ReadAll(p.reader)
	if err != nil {
		return err
	}
	p.input = data
	return nil
}

// Finish parses the input. The error is only non-nil when reading fails.
func (p *Parser) Finish() (*syntax.Node, error) {
	if err := p.readAll(); err != nil {
		return nil, fmt.Errorf("read %s: %w", p.displayName(), err)
	}
	p.tokens = nil
	p.pos = 0
	p.errors = nil
	p.tokenize()
	return p.entry(p), nil
}

// Errors returns the syntax errors found by the last call to Finish.
func (p *Parser) Errors() []syntax.Error {
	return p.errors
}

func (p *Parser) Reset(r io.Reader) {
	p.reader = r
	p.input = nil
	p.tokens = nil
	p.pos = 0
	p.errors = nil
}

func (p *Parser) displayName() string {
	if p.file == "" {
		return "input"
	}
	return p.file
}

func (p *Parser) tokenize() {
	lexer := NewLexer(p.input, p.file)
	for {
		tok := lexer.NextToken()
		p.tokens = append(p.tokens, tok)
		if tok.Kind == syntax.TokenEOF {
			break
		}
	}
}

// finishInput wraps a fragment so trailing tokens and the EOF trivia are
// kept.
func (p *Parser) finishInput(n *syntax.Node) *syntax.Node {
	if p.check(syntax.TokenEOF) && p.peek().Leading == "" {
		return n
	}
	unit := p.startNode(syntax.KindCompilationUnit)
	unit.AddChild(n)
	if !p.check(syntax.TokenEOF) {
		unit.AddChild(p.errorNode("unexpected input", nil))
	}
	for !p.check(syntax.TokenEOF) {
		unit.Children[len(unit.Children)-1].AddChild(p.leaf())
	}
	unit.AddChild(p.leaf())
	return p.finishNode(unit)
}

func (p *Parser) peek() syntax.Token {
	return p.peekN(0)
}

func (p *Parser) peekN(n int) syntax.Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) check(kind syntax.TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) checkN(n int, kind syntax.TokenKind) bool {
	return p.peekN(n).Kind == kind
}

func (p *Parser) match(kinds ...syntax.TokenKind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			return true
		}
	}
	return false
}

// checkContextual reports whether the next token is the identifier word.
func (p *Parser) checkContextual(word string) bool {
	tok := p.peek()
	return tok.Kind == syntax.TokenIdent && tok.Literal == word
}

// leaf consumes the current token and returns it as a tree leaf. At EOF it
// returns the EOF leaf without advancing.
func (p *Parser) leaf() *syntax.Node {
	tok := p.peek()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return &syntax.Node{Kind: syntax.KindToken, Span: tok.Span, Token: &tok}
}

// accept adds the current token to n when it has the given kind.
func (p *Parser) accept(n *syntax.Node, kind syntax.TokenKind) bool {
	if !p.check(kind) {
		return false
	}
	n.AddChild(p.leaf())
	return true
}

// expect adds the current token to n when it has the given kind and records
// an error otherwise. Nothing is consumed on mismatch.
func (p *Parser) expect(n *syntax.Node, kind syntax.TokenKind) bool {
	if p.accept(n, kind) {
		return true
	}
	tok := p.peek()
	p.errors = append(p.errors, syntax.Error{
		Message:  fmt.Sprintf("expected %s", kind),
		Expected: []syntax.TokenKind{kind},
		Got:      &tok,
	})
	return false
}

// mustProgress returns a function that checks if the parser has advanced.
// Call it at the start of a loop iteration, then call the returned function
// at the end to break if no progress was made.
func (p *Parser) mustProgress() func() bool {
	saved := p.pos
	return func() bool {
		return p.pos != saved && !p.check(syntax.TokenEOF)
	}
}

func (p *Parser) startNode(kind syntax.NodeKind) *syntax.Node {
	return &syntax.Node{
		Kind: kind,
		Span: syntax.Span{Start: p.peek().Span.Start},
	}
}

func (p *Parser) finishNode(n *syntax.Node) *syntax.Node {
	if p.pos > 0 {
		n.Span.End = p.tokens[p.pos-1].Span.End
	} else {
		n.Span.End = n.Span.Start
	}
	return n
}

// errorNode records an error at the current token and skips input up to one
// of recoverTo (exclusive). At least one token is consumed unless at EOF.
// The skipped tokens become the children of the returned node.
func (p *Parser) errorNode(msg string, recoverTo []syntax.TokenKind, expected ...syntax.TokenKind) *syntax.Node {
	tok := p.peek()
	node := &syntax.Node{
		Kind: syntax.KindError,
		Span: syntax.Span{Start: tok.Span.Start, End: tok.Span.End},
		Error: &syntax.Error{
			Message:  msg,
			Expected: expected,
			Got:      &tok,
		},
	}
	p.errors = append(p.errors, *node.Error)
	p.recoverTo(node, recoverTo)
	return p.finishNode(node)
}

func (p *Parser) recoverTo(n *syntax.Node, kinds []syntax.TokenKind) {
	if p.check(syntax.TokenEOF) {
		return
	}
	n.AddChild(p.leaf())
	if len(kinds) == 0 {
		return
	}
	for !p.check(syntax.TokenEOF) && !p.match(kinds...) {
		n.AddChild(p.leaf())
	}
}

func (p *Parser) parseCompilationUnit() *syntax.Node {
	node := p.startNode(syntax.KindCompilationUnit)
	for {
		p.parseNamespaceBody(node, true)
		if p.check(syntax.TokenEOF) {
			break
		}
		node.AddChild(p.errorNode("unexpected }", nil))
	}
	node.AddChild(p.leaf())
	return p.finishNode(node)
}

// parseNamespaceBody parses members of a compilation unit or namespace until
// a closing brace or EOF. Top-level statements are allowed in compilation
// units only.
func (p *Parser) parseNamespaceBody(node *syntax.Node, topLevel bool) {
	for !p.check(syntax.TokenEOF) && !p.check(syntax.TokenRBrace) {
		progressed := p.mustProgress()
		switch {
		case p.check(syntax.TokenExtern) && p.peekN(1).Literal == "alias":
			node.AddChild(p.parseRawUntilSemicolon(syntax.KindExternAlias))
		case p.isUsingDirective():
			node.AddChild(p.parseRawUntilSemicolon(syntax.KindUsingDirective))
		case p.check(syntax.TokenNamespace):
			ns := p.parseNamespace()
			node.AddChild(ns)
			if ns.Kind == syntax.KindFileScopedNamespaceDecl {
				p.parseNamespaceBody(ns, false)
				p.finishNode(ns)
			}
		case p.check(syntax.TokenSemicolon):
			node.AddChild(p.errorNode("unexpected ;", nil))
		case topLevel && !p.startsTypeDeclaration():
			stmt := p.startNode(syntax.KindGlobalStatement)
			stmt.AddChild(p.parseStatement())
			node.AddChild(p.finishNode(stmt))
		default:
			node.AddChild(p.parseMember())
		}
		if !progressed() {
			break
		}
	}
}

func (p *Parser) isUsingDirective() bool {
	i := 0
	if p.checkContextual("global") && p.checkN(1, syntax.TokenUsing) {
		i = 1
	}
	if !p.checkN(i, syntax.TokenUsing) {
		return false
	}
	next := p.peekN(i + 1)
	switch next.Kind {
	case syntax.TokenLParen:
		return false
	case syntax.TokenStatic:
		return true
	case syntax.TokenIdent:
		// using var x = ...; and using Foo x = ...; are declarations.
		if next.Literal == "await" {
			return false
		}
		after := p.peekN(i + 2).Kind
		return after != syntax.TokenIdent && after != syntax.TokenLT
	}
	return !next.Kind.IsPredefinedType()
}

func (p *Parser) parseNamespace() *syntax.Node {
	node := p.startNode(syntax.KindNamespaceDecl)
	node.AddChild(p.leaf())
	if name := p.parseName(); name != nil {
		node.AddChild(name)
	} else {
		node.AddChild(p.errorNode("expected namespace name", nil))
	}
	if p.accept(node, syntax.TokenSemicolon) {
		node.Kind = syntax.KindFileScopedNamespaceDecl
		return p.finishNode(node)
	}
	if !p.expect(node, syntax.TokenLBrace) {
		return p.finishNode(node)
	}
	p.parseNamespaceBody(node, false)
	p.expect(node, syntax.TokenRBrace)
	p.accept(node, syntax.TokenSemicolon)
	return p.finishNode(node)
}

// parseRawUntilSemicolon collects tokens up to and including the next
// semicolon into a node of the given kind.
func (p *Parser) parseRawUntilSemicolon(kind syntax.NodeKind) *syntax.Node {
	node := p.startNode(kind)
	for !p.check(syntax.TokenEOF) && !p.check(syntax.TokenSemicolon) {
		node.AddChild(p.leaf())
	}
	p.expect(node, syntax.TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) startsTypeDeclaration() bool {
	i := p.skipAttributesAhead(0)
	for p.isModifierAt(i) {
		i++
	}
	return p.isTypeKeywordAt(i) || p.checkN(i, syntax.TokenDelegate) && !p.checkN(i+1, syntax.TokenLParen) && !p.checkN(i+1, syntax.TokenLBrace)
}

func (p *Parser) isTypeKeywordAt(i int) bool {
	tok := p.peekN(i)
	switch tok.Kind {
	case syntax.TokenClass, syntax.TokenStruct, syntax.TokenInterface, syntax.TokenEnum:
		return true
	case syntax.TokenIdent:
		if tok.Literal != "record" {
			return false
		}
		next := p.peekN(i + 1).Kind
		return next == syntax.TokenIdent || next == syntax.TokenClass || next == syntax.TokenStruct
	}
	return false
}

func (p *Parser) skipAttributesAhead(i int) int {
	for p.checkN(i, syntax.TokenLBracket) {
		depth := 0
		for {
			kind := p.peekN(i).Kind
			if kind == syntax.TokenEOF {
				return i
			}
			i++
			if kind == syntax.TokenLBracket {
				depth++
			} else if kind == syntax.TokenRBracket {
				depth--
				if depth == 0 {
					break
				}
			}
		}
	}
	return i
}

var modifierKeywords = map[syntax.TokenKind]bool{
	syntax.TokenPublic:    true,
	syntax.TokenPrivate:   true,
	syntax.TokenProtected: true,
	syntax.TokenInternal:  true,
	syntax.TokenStatic:    true,
	syntax.TokenReadonly:  true,
	syntax.TokenConst:     true,
	syntax.TokenVolatile:  true,
	syntax.TokenVirtual:   true,
	syntax.TokenOverride:  true,
	syntax.TokenAbstract:  true,
	syntax.TokenSealed:    true,
	syntax.TokenExtern:    true,
	syntax.TokenNew:       true,
	syntax.TokenUnsafe:    true,
	syntax.TokenRef:       true,
	syntax.TokenFixed:     true,
}

var contextualModifiers = map[string]bool{
	"partial":  true,
	"async":    true,
	"required": true,
	"file":     true,
}

func (p *Parser) isModifierAt(i int) bool {
	tok := p.peekN(i)
	if tok.Kind == syntax.TokenNew && p.checkN(i+1, syntax.TokenLParen) {
		return false
	}
	if modifierKeywords[tok.Kind] {
		return true
	}
	if tok.Kind != syntax.TokenIdent || !contextualModifiers[tok.Literal] {
		return false
	}
	next := p.peekN(i + 1)
	switch next.Kind {
	case syntax.TokenIdent, syntax.TokenClass, syntax.TokenStruct, syntax.TokenInterface,
		syntax.TokenEnum, syntax.TokenVoid, syntax.TokenDelegate, syntax.TokenLParen:
		return next.Kind != syntax.TokenLParen || tok.Literal == "async"
	}
	return modifierKeywords[next.Kind] || next.Kind.IsPredefinedType()
}

func (p *Parser) parseAttributeLists(node *syntax.Node) {
	for p.check(syntax.TokenLBracket) {
		list := p.startNode(syntax.KindAttributeList)
		p.collectBalanced(list, syntax.TokenLBracket, syntax.TokenRBracket)
		node.AddChild(p.finishNode(list))
	}
}

func (p *Parser) parseModifiers() *syntax.Node {
	if !p.isModifierAt(0) {
		return nil
	}
	node := p.startNode(syntax.KindModifiers)
	for p.isModifierAt(0) {
		node.AddChild(p.leaf())
	}
	return p.finishNode(node)
}

// collectBalanced adds tokens from the current open token through its
// matching close token to node.
func (p *Parser) collectBalanced(node *syntax.Node, open, close syntax.TokenKind) {
	depth := 0
	for !p.check(syntax.TokenEOF) {
		kind := p.peek().Kind
		node.AddChild(p.leaf())
		switch kind {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return
			}
		}
	}
	p.errors = append(p.errors, syntax.Error{Message: fmt.Sprintf("expected %s", close), Expected: []syntax.TokenKind{close}})
}

// parseMember parses a type declaration or a class member.
func (p *Parser) parseMember() *syntax.Node {
	start := p.startNode(syntax.KindIncompleteMember)
	p.parseAttributeLists(start)
	if mods := p.parseModifiers(); mods != nil {
		start.AddChild(mods)
	}

	switch {
	case p.isTypeKeywordAt(0):
		return p.parseTypeDecl(start)
	case p.check(syntax.TokenDelegate):
		return p.parseDelegate(start)
	case p.check(syntax.TokenBitNot):
		return p.parseDestructor(start)
	case p.check(syntax.TokenIdent) && p.checkN(1, syntax.TokenLParen):
		return p.parseConstructor(start)
	case p.check(syntax.TokenEvent):
		return p.parseEvent(start)
	case p.match(syntax.TokenImplicit, syntax.TokenExplicit):
		return p.parseConversionOperator(start)
	}

	typ := p.parseType()
	if typ == nil {
		if len(start.Children) == 0 {
			return p.errorNode("expected member declaration", memberRecovery)
		}
		start.AddChild(p.errorNode("expected type", memberRecovery))
		return p.finishNode(start)
	}
	start.AddChild(typ)

	switch {
	case p.check(syntax.TokenOperator):
		return p.parseOperator(start)
	case p.check(syntax.TokenThis):
		return p.parseIndexer(start)
	case p.check(syntax.TokenIdent):
		return p.parseNamedMember(start)
	}
	start.AddChild(p.errorNode("expected identifier", memberRecovery, syntax.TokenIdent))
	return p.finishNode(start)
}

var memberRecovery = []syntax.TokenKind{
	syntax.TokenRBrace, syntax.TokenPublic, syntax.TokenPrivate,
	syntax.TokenProtected, syntax.TokenInternal, syntax.TokenStatic,
	syntax.TokenClass, syntax.TokenStruct, syntax.TokenInterface,
	syntax.TokenEnum, syntax.TokenLBracket,
}

func (p *Parser) parseTypeDecl(node *syntax.Node) *syntax.Node {
	isRecord := p.check(syntax.TokenIdent)
	switch p.peek().Kind {
	case syntax.TokenClass:
		node.Kind = syntax.KindClassDecl
	case syntax.TokenStruct:
		node.Kind = syntax.KindStructDecl
	case syntax.TokenInterface:
		node.Kind = syntax.KindInterfaceDecl
	case syntax.TokenEnum:
		node.Kind = syntax.KindEnumDecl
	default:
		node.Kind = syntax.KindRecordDecl
	}
	node.AddChild(p.leaf())
	if isRecord {
		p.accept(node, syntax.TokenClass)
		p.accept(node, syntax.TokenStruct)
	}
	if !p.expect(node, syntax.TokenIdent) {
		return p.finishNode(node)
	}

	if node.Kind == syntax.KindEnumDecl {
		if p.check(syntax.TokenColon) {
			node.AddChild(p.parseBaseList())
		}
		if p.check(syntax.TokenLBrace) {
			p.collectBalanced(node, syntax.TokenLBrace, syntax.TokenRBrace)
		}
		p.accept(node, syntax.TokenSemicolon)
		return p.finishNode(node)
	}

	if p.check(syntax.TokenLT) {
		node.AddChild(p.parseTypeParameterList())
	}
	if p.check(syntax.TokenLParen) {
		node.AddChild(p.parseParameterList())
	}
	if p.check(syntax.TokenColon) {
		node.AddChild(p.parseBaseList())
	}
	p.parseConstraintClauses(node)

	if p.accept(node, syntax.TokenSemicolon) {
		return p.finishNode(node)
	}
	if !p.expect(node, syntax.TokenLBrace) {
		return p.finishNode(node)
	}
	for !p.check(syntax.TokenEOF) && !p.check(syntax.TokenRBrace) {
		progressed := p.mustProgress()
		if p.check(syntax.TokenSemicolon) {
			node.AddChild(p.errorNode("unexpected ;", nil))
			continue
		}
		node.AddChild(p.parseMember())
		if !progressed() {
			break
		}
	}
	p.expect(node, syntax.TokenRBrace)
	p.accept(node, syntax.TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseBaseList() *syntax.Node {
	node := p.startNode(syntax.KindBaseList)
	node.AddChild(p.leaf())
	for !p.check(syntax.TokenEOF) && !p.check(syntax.TokenLBrace) && !p.check(syntax.TokenSemicolon) && !p.checkContextual("where") {
		if p.check(syntax.TokenLParen) {
			node.AddChild(p.parseArgumentList())
			continue
		}
		if typ := p.parseType(); typ != nil {
			node.AddChild(typ)
			continue
		}
		node.AddChild(p.leaf())
	}
	return p.finishNode(node)
}

func (p *Parser) parseConstraintClauses(node *syntax.Node) {
	for p.checkContextual("where") {
		clause := p.startNode(syntax.KindConstraintClause)
		clause.AddChild(p.leaf())
		for !p.check(syntax.TokenEOF) && !p.match(syntax.TokenLBrace, syntax.TokenSemicolon, syntax.TokenFatArrow) && !p.checkContextual("where") {
			if p.check(syntax.TokenLParen) {
				p.collectBalanced(clause, syntax.TokenLParen, syntax.TokenRParen)
				continue
			}
			clause.AddChild(p.leaf())
		}
		node.AddChild(p.finishNode(clause))
	}
}

func (p *Parser) parseTypeParameterList() *syntax.Node {
	node := p.startNode(syntax.KindTypeParameterList)
	p.collectBalanced(node, syntax.TokenLT, syntax.TokenGT)
	return p.finishNode(node)
}

func (p *Parser) parseDelegate(node *syntax.Node) *syntax.Node {
	node.Kind = syntax.KindDelegateDecl
	node.AddChild(p.leaf())
	if typ := p.parseType(); typ != nil {
		node.AddChild(typ)
	}
	p.expect(node, syntax.TokenIdent)
	if p.check(syntax.TokenLT) {
		node.AddChild(p.parseTypeParameterList())
	}
	if p.check(syntax.TokenLParen) {
		node.AddChild(p.parseParameterList())
	}
	p.parseConstraintClauses(node)
	p.expect(node, syntax.TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseConstructor(node *syntax.Node) *syntax.Node {
	node.Kind = syntax.KindConstructorDecl
	node.AddChild(p.leaf())
	node.AddChild(p.parseParameterList())
	if p.check(syntax.TokenColon) {
		init := p.startNode(syntax.KindConstructorInitializer)
		init.AddChild(p.leaf())
		if p.match(syntax.TokenBase, syntax.TokenThis) {
			init.AddChild(p.leaf())
		} else {
			init.AddChild(p.errorNode("expected base or this", []syntax.TokenKind{syntax.TokenLParen, syntax.TokenLBrace}, syntax.TokenBase, syntax.TokenThis))
		}
		if p.check(syntax.TokenLParen) {
			init.AddChild(p.parseArgumentList())
		}
		node.AddChild(p.finishNode(init))
	}
	p.parseMethodBody(node)
	return p.finishNode(node)
}

func (p *Parser) parseDestructor(node *syntax.Node) *syntax.Node {
	node.Kind = syntax.KindDestructorDecl
	node.AddChild(p.leaf())
	p.expect(node, syntax.TokenIdent)
	if p.check(syntax.TokenLParen) {
		node.AddChild(p.parseParameterList())
	}
	p.parseMethodBody(node)
	return p.finishNode(node)
}

// parseMethodBody parses a block body, an expression body or a bare
// semicolon.
func (p *Parser) parseMethodBody(node *syntax.Node) {
	switch {
	case p.check(syntax.TokenLBrace):
		node.AddChild(p.parseBlock())
	case p.check(syntax.TokenFatArrow):
		node.AddChild(p.parseArrowClause())
		p.expect(node, syntax.TokenSemicolon)
	default:
		p.expect(node, syntax.TokenSemicolon)
	}
}

func (p *Parser) parseArrowClause() *syntax.Node {
	node := p.startNode(syntax.KindArrowExpressionClause)
	node.AddChild(p.leaf())
	if expr := p.parseExpression(syntax.TokenSemicolon); expr != nil {
		node.AddChild(expr)
	}
	return p.finishNode(node)
}

func (p *Parser) parseEvent(node *syntax.Node) *syntax.Node {
	node.Kind = syntax.KindEventFieldDecl
	node.AddChild(p.leaf())
	typ := p.parseType()
	if typ == nil {
		node.AddChild(p.errorNode("expected type", memberRecovery))
		return p.finishNode(node)
	}
	if p.check(syntax.TokenIdent) && p.checkN(1, syntax.TokenLBrace) {
		node.AddChild(typ)
		node.AddChild(p.leaf())
		node.AddChild(p.parseAccessorList())
		return p.finishNode(node)
	}
	node.AddChild(p.parseVariableDeclaration(typ))
	p.expect(node, syntax.TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseConversionOperator(node *syntax.Node) *syntax.Node {
	node.Kind = syntax.KindOperatorDecl
	node.AddChild(p.leaf())
	p.expect(node, syntax.TokenOperator)
	if typ := p.parseType(); typ != nil {
		node.AddChild(typ)
	}
	if p.check(syntax.TokenLParen) {
		node.AddChild(p.parseParameterList())
	}
	p.parseMethodBody(node)
	return p.finishNode(node)
}

func (p *Parser) parseOperator(node *syntax.Node) *syntax.Node {
	node.Kind = syntax.KindOperatorDecl
	node.AddChild(p.leaf())
	for !p.check(syntax.TokenEOF) && !p.check(syntax.TokenLParen) {
		node.AddChild(p.leaf())
	}
	node.AddChild(p.parseParameterList())
	p.parseMethodBody(node)
	return p.finishNode(node)
}

func (p *Parser) parseIndexer(node *syntax.Node) *syntax.Node {
	node.Kind = syntax.KindIndexerDecl
	node.AddChild(p.leaf())
	if p.check(syntax.TokenLBracket) {
		node.AddChild(p.parseDelimitedParameters(syntax.KindBracketedParameterList, syntax.TokenLBracket, syntax.TokenRBracket))
	}
	p.parsePropertyBody(node)
	return p.finishNode(node)
}

// parseNamedMember parses what follows `type identifier`: a method, a
// property or a field.
func (p *Parser) parseNamedMember(node *syntax.Node) *syntax.Node {
	if p.checkN(1, syntax.TokenDot) || p.checkN(1, syntax.TokenLT) && p.isExplicitInterfaceName() {
		// Explicit interface implementation: IFoo.Bar or IFoo<T>.Bar.
		for !p.check(syntax.TokenEOF) {
			if p.check(syntax.TokenIdent) && (p.checkN(1, syntax.TokenDot) || p.checkN(1, syntax.TokenLT)) {
				name := p.parseSimpleName()
				node.AddChild(name)
				if p.check(syntax.TokenDot) {
					node.AddChild(p.leaf())
					continue
				}
			}
			break
		}
		if p.check(syntax.TokenThis) {
			return p.parseIndexer(node)
		}
	}

	declaratorStart := p.pos
	node.AddChild(p.leaf())

	switch {
	case p.check(syntax.TokenLT) || p.check(syntax.TokenLParen):
		node.Kind = syntax.KindMethodDecl
		if p.check(syntax.TokenLT) {
			node.AddChild(p.parseTypeParameterList())
		}
		if p.check(syntax.TokenLParen) {
			node.AddChild(p.parseParameterList())
		}
		p.parseConstraintClauses(node)
		p.parseMethodBody(node)
		return p.finishNode(node)
	case p.check(syntax.TokenLBrace) || p.check(syntax.TokenFatArrow):
		node.Kind = syntax.KindPropertyDecl
		p.parsePropertyBody(node)
		return p.finishNode(node)
	}

	// A field. Rewind so the name becomes part of the declarator.
	node.Children = node.Children[:len(node.Children)-1]
	p.pos = declaratorStart
	typ := node.Children[len(node.Children)-1]
	node.Children = node.Children[:len(node.Children)-1]
	node.Kind = syntax.KindFieldDecl
	node.AddChild(p.parseVariableDeclaration(typ))
	p.expect(node, syntax.TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) isExplicitInterfaceName() bool {
	end, ok := p.typeArgumentsEnd(p.pos + 1)
	return ok && end < len(p.tokens) && p.tokens[end].Kind == syntax.TokenDot
}

func (p *Parser) parsePropertyBody(node *syntax.Node) {
	switch {
	case p.check(syntax.TokenLBrace):
		node.AddChild(p.parseAccessorList())
		if p.check(syntax.TokenAssign) {
			node.AddChild(p.parseEqualsValue(syntax.TokenSemicolon))
			p.expect(node, syntax.TokenSemicolon)
		}
	case p.check(syntax.TokenFatArrow):
		node.AddChild(p.parseArrowClause())
		p.expect(node, syntax.TokenSemicolon)
	default:
		node.AddChild(p.errorNode("expected property body", memberRecovery, syntax.TokenLBrace, syntax.TokenFatArrow))
	}
}

// parseAccessorList keeps accessor bodies as blocks and everything else as
// tokens.
func (p *Parser) parseAccessorList() *syntax.Node {
	node := p.startNode(syntax.KindAccessorList)
	node.AddChild(p.leaf())
	for !p.check(syntax.TokenEOF) && !p.check(syntax.TokenRBrace) {
		switch {
		case p.check(syntax.TokenLBrace):
			node.AddChild(p.parseBlock())
		case p.check(syntax.TokenFatArrow):
			node.AddChild(p.parseArrowClause())
		case p.check(syntax.TokenLBracket):
			p.parseAttributeLists(node)
		default:
			node.AddChild(p.leaf())
		}
	}
	p.expect(node, syntax.TokenRBrace)
	return p.finishNode(node)
}

// parseVariableDeclaration parses declarators after an already parsed type.
func (p *Parser) parseVariableDeclaration(typ *syntax.Node) *syntax.Node {
	node := &syntax.Node{Kind: syntax.KindVariableDeclaration, Span: syntax.Span{Start: typ.Span.Start}}
	node.AddChild(typ)
	for {
		decl := p.startNode(syntax.KindVariableDeclarator)
		if !p.expect(decl, syntax.TokenIdent) {
			break
		}
		if p.check(syntax.TokenLBracket) {
			// Fixed size buffer.
			p.collectBalanced(decl, syntax.TokenLBracket, syntax.TokenRBracket)
		}
		if p.check(syntax.TokenAssign) {
			decl.AddChild(p.parseEqualsValue(syntax.TokenComma, syntax.TokenSemicolon))
		}
		node.AddChild(p.finishNode(decl))
		if !p.accept(node, syntax.TokenComma) {
			break
		}
	}
	return p.finishNode(node)
}

func (p *Parser) parseEqualsValue(stops ...syntax.TokenKind) *syntax.Node {
	node := p.startNode(syntax.KindEqualsValueClause)
	node.AddChild(p.leaf())
	if expr := p.parseExpression(stops...); expr != nil {
		node.AddChild(expr)
	}
	return p.finishNode(node)
}

func (p *Parser) parseParameterList() *syntax.Node {
	return p.parseDelimitedParameters(syntax.KindParameterList, syntax.TokenLParen, syntax.TokenRParen)
}

func (p *Parser) parseDelimitedParameters(kind syntax.NodeKind, open, close syntax.TokenKind) *syntax.Node {
	node := p.startNode(kind)
	if !p.expect(node, open) {
		return p.finishNode(node)
	}
	for !p.check(syntax.TokenEOF) && !p.check(close) {
		progressed := p.mustProgress()
		node.AddChild(p.parseParameter(close))
		if !p.accept(node, syntax.TokenComma) {
			break
		}
		if !progressed() {
			break
		}
	}
	if !p.check(close) && !p.check(syntax.TokenEOF) && !p.check(syntax.TokenLBrace) {
		node.AddChild(p.errorNode("unexpected token in parameter list", []syntax.TokenKind{close, syntax.TokenLBrace, syntax.TokenSemicolon}))
	}
	p.expect(node, close)
	return p.finishNode(node)
}

var parameterModifiers = map[syntax.TokenKind]bool{
	syntax.TokenRef:      true,
	syntax.TokenOut:      true,
	syntax.TokenIn:       true,
	syntax.TokenParams:   true,
	syntax.TokenThis:     true,
	syntax.TokenReadonly: true,
}

func (p *Parser) parseParameter(close syntax.TokenKind) *syntax.Node {
	node := p.startNode(syntax.KindParameter)
	p.parseAttributeLists(node)
	if parameterModifiers[p.peek().Kind] || p.checkContextual("scoped") && p.checkN(1, syntax.TokenIdent) {
		mods := p.startNode(syntax.KindModifiers)
		for parameterModifiers[p.peek().Kind] || p.checkContextual("scoped") && p.checkN(1, syntax.TokenIdent) {
			mods.AddChild(p.leaf())
		}
		node.AddChild(p.finishNode(mods))
	}
	typ := p.parseType()
	if typ == nil {
		node.AddChild(p.errorNode("expected parameter type", []syntax.TokenKind{syntax.TokenComma, close}))
		return p.finishNode(node)
	}
	node.AddChild(typ)
	p.expect(node, syntax.TokenIdent)
	if p.check(syntax.TokenAssign) {
		node.AddChild(p.parseEqualsValue(syntax.TokenComma, close))
	}
	return p.finishNode(node)
}

func (p *Parser) parseArgumentList() *syntax.Node {
	node := p.startNode(syntax.KindArgumentList)
	p.collectBalanced(node, syntax.TokenLParen, syntax.TokenRParen)
	return p.finishNode(node)
}
