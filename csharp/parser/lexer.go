package parser

import (
	"unicode/utf8"

	"github.com/dhamidi/sharp/csharp/syntax"
)

type Lexer struct {
	input  []byte
	file   string
	pos    int
	line   int
	column int
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		pos:    0,
		line:   1,
		column: 1,
	}
}

func (l *Lexer) Position() syntax.Position {
	return syntax.Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

// NextToken returns the next token with its leading and trailing trivia.
// At the end of input it returns a TokenEOF whose leading trivia holds
// whatever whitespace and comments remain.
func (l *Lexer) NextToken() syntax.Token {
	leadStart := l.pos
	l.scanLeadingTrivia()
	leading := string(l.input[leadStart:l.pos])

	start := l.Position()
	if l.atEOF() {
		return syntax.Token{Kind: syntax.TokenEOF, Span: syntax.Span{Start: start, End: start}, Leading: leading}
	}

	kind := l.scanToken()
	end := l.Position()
	tok := syntax.Token{
		Kind:    kind,
		Span:    syntax.Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
		Leading: leading,
	}

	trailStart := l.pos
	l.scanTrailingTrivia()
	tok.Trailing = string(l.input[trailStart:l.pos])
	return tok
}

func (l *Lexer) scanLeadingTrivia() {
	for !l.atEOF() {
		ch := l.peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f' || ch == '\v':
			l.advance()
		case ch == '/' && l.peekN(1) == '/':
			l.skipLineComment()
		case ch == '/' && l.peekN(1) == '*':
			l.skipBlockComment()
		case ch == '#' && l.onlyWhitespaceBefore():
			// Preprocessor directives are kept as trivia.
			for !l.atEOF() && l.peek() != '\n' && l.peek() != '\r' {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *Lexer) scanTrailingTrivia() {
	for !l.atEOF() {
		ch := l.peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\f' || ch == '\v':
			l.advance()
		case ch == '\r' && l.peekN(1) == '\n':
			l.advanceN(2)
			return
		case ch == '\n' || ch == '\r':
			l.advance()
			return
		case ch == '/' && l.peekN(1) == '/':
			l.skipLineComment()
		case ch == '/' && l.peekN(1) == '*' && l.blockCommentOnOneLine():
			l.skipBlockComment()
		default:
			return
		}
	}
}

func (l *Lexer) onlyWhitespaceBefore() bool {
	for i := l.pos - 1; i >= 0; i-- {
		switch l.input[i] {
		case '\n':
			return true
		case ' ', '\t':
		default:
			return false
		}
	}
	return true
}

func (l *Lexer) skipLineComment() {
	for !l.atEOF() && l.peek() != '\n' && l.peek() != '\r' {
		l.advance()
	}
}

func (l *Lexer) skipBlockComment() {
	l.advanceN(2)
	for !l.atEOF() {
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.advanceN(2)
			return
		}
		l.advance()
	}
}

func (l *Lexer) blockCommentOnOneLine() bool {
	for i := l.pos + 2; i+1 < len(l.input); i++ {
		if l.input[i] == '\n' {
			return false
		}
		if l.input[i] == '*' && l.input[i+1] == '/' {
			return true
		}
	}
	return false
}

func (l *Lexer) scanToken() syntax.TokenKind {
	ch := l.peek()

	switch {
	case ch == '@' && l.peekN(1) == '"':
		l.advance()
		l.scanVerbatimString()
		return syntax.TokenStringLiteral
	case ch == '@' && l.peekN(1) == '$' || ch == '$':
		return l.scanInterpolatedString()
	case ch == '@' && isIdentStart(l.peekN(1)):
		l.advance()
		l.scanIdentRest()
		return syntax.TokenIdent
	case isIdentStart(ch):
		start := l.pos
		l.scanIdentRest()
		return syntax.LookupKeyword(string(l.input[start:l.pos]))
	case isDigit(ch) || ch == '.' && isDigit(l.peekN(1)):
		return l.scanNumber()
	case ch == '"':
		if l.peekN(1) == '"' && l.peekN(2) == '"' {
			l.scanRawString()
		} else {
			l.scanRegularString()
		}
		return syntax.TokenStringLiteral
	case ch == '\'':
		l.scanCharLiteral()
		return syntax.TokenCharLiteral
	}

	return l.scanOperator()
}

func (l *Lexer) scanIdentRest() {
	for isIdentPart(l.peek()) {
		l.advance()
	}
}

func (l *Lexer) scanNumber() syntax.TokenKind {
	kind := syntax.TokenIntLiteral
	hex := l.peek() == '0' && (l.peekN(1) == 'x' || l.peekN(1) == 'X')
	for !l.atEOF() {
		ch := l.peek()
		switch {
		case isDigit(ch) || ch == '_':
			l.advance()
		case ch == '.' && isDigit(l.peekN(1)):
			kind = syntax.TokenRealLiteral
			l.advance()
		case !hex && (ch == 'e' || ch == 'E') && (isDigit(l.peekN(1)) || (l.peekN(1) == '+' || l.peekN(1) == '-') && isDigit(l.peekN(2))):
			kind = syntax.TokenRealLiteral
			l.advanceN(2)
		case isLetter(ch):
			if !hex && (ch == 'f' || ch == 'F' || ch == 'd' || ch == 'D' || ch == 'm' || ch == 'M') {
				kind = syntax.TokenRealLiteral
			}
			l.advance()
		default:
			return kind
		}
	}
	return kind
}

func (l *Lexer) scanRegularString() {
	l.advance()
	for !l.atEOF() {
		ch := l.peek()
		switch ch {
		case '\\':
			l.advanceN(2)
		case '"':
			l.advance()
			return
		case '\n':
			return
		default:
			l.advance()
		}
	}
}

func (l *Lexer) scanVerbatimString() {
	l.advance()
	for !l.atEOF() {
		if l.peek() == '"' {
			if l.peekN(1) == '"' {
				l.advanceN(2)
				continue
			}
			l.advance()
			return
		}
		l.advance()
	}
}

func (l *Lexer) scanRawString() {
	quotes := 0
	for l.peek() == '"' {
		quotes++
		l.advance()
	}
	for !l.atEOF() {
		if l.peek() == '"' {
			run := 0
			for l.peekN(run) == '"' {
				run++
			}
			l.advanceN(run)
			if run >= quotes {
				return
			}
			continue
		}
		l.advance()
	}
}

func (l *Lexer) scanCharLiteral() {
	l.advance()
	for !l.atEOF() {
		ch := l.peek()
		switch ch {
		case '\\':
			l.advanceN(2)
		case '\'':
			l.advance()
			return
		case '\n':
			return
		default:
			l.advance()
		}
	}
}

// scanInterpolatedString scans $"...", $@"...", @$"..." and raw interpolated
// strings, skipping over nested literals inside interpolation holes.
func (l *Lexer) scanInterpolatedString() syntax.TokenKind {
	verbatim := false
	if l.peek() == '@' {
		verbatim = true
		l.advance()
	}
	dollars := 0
	for l.peek() == '$' {
		dollars++
		l.advance()
	}
	if l.peek() == '@' {
		verbatim = true
		l.advance()
	}
	if dollars == 0 || l.peek() != '"' {
		return syntax.TokenError
	}
	if l.peekN(1) == '"' && l.peekN(2) == '"' {
		l.scanRawString()
		return syntax.TokenInterpolatedString
	}

	l.advance()
	for !l.atEOF() {
		ch := l.peek()
		switch {
		case ch == '"' && verbatim && l.peekN(1) == '"':
			l.advanceN(2)
		case ch == '"':
			l.advance()
			return syntax.TokenInterpolatedString
		case ch == '\\' && !verbatim:
			l.advanceN(2)
		case ch == '{' && l.peekN(1) == '{':
			l.advanceN(2)
		case ch == '{':
			l.advance()
			l.skipInterpolationHole()
		case ch == '\n' && !verbatim:
			return syntax.TokenInterpolatedString
		default:
			l.advance()
		}
	}
	return syntax.TokenInterpolatedString
}

func (l *Lexer) skipInterpolationHole() {
	depth := 1
	for !l.atEOF() {
		ch := l.peek()
		switch {
		case ch == '{':
			depth++
			l.advance()
		case ch == '}':
			depth--
			l.advance()
			if depth == 0 {
				return
			}
		case ch == '@' && l.peekN(1) == '"':
			l.advance()
			l.scanVerbatimString()
		case ch == '$' || ch == '@' && l.peekN(1) == '$':
			l.scanInterpolatedString()
		case ch == '"':
			l.scanRegularString()
		case ch == '\'':
			l.scanCharLiteral()
		default:
			l.advance()
		}
	}
}

var operators = []struct {
	text string
	kind syntax.TokenKind
}{
	{"??=", syntax.TokenQuestionQuestionAssign},
	{"<<=", syntax.TokenShlAssign},
	{"=>", syntax.TokenFatArrow},
	{"==", syntax.TokenEQ},
	{"!=", syntax.TokenNE},
	{"<=", syntax.TokenLE},
	{">=", syntax.TokenGE},
	{"&&", syntax.TokenAnd},
	{"||", syntax.TokenOr},
	{"<<", syntax.TokenShl},
	{"++", syntax.TokenIncrement},
	{"--", syntax.TokenDecrement},
	{"+=", syntax.TokenPlusAssign},
	{"-=", syntax.TokenMinusAssign},
	{"*=", syntax.TokenStarAssign},
	{"/=", syntax.TokenSlashAssign},
	{"%=", syntax.TokenPercentAssign},
	{"&=", syntax.TokenAndAssign},
	{"|=", syntax.TokenOrAssign},
	{"^=", syntax.TokenXorAssign},
	{"??", syntax.TokenQuestionQuestion},
	{"::", syntax.TokenColonColon},
	{"->", syntax.TokenArrow},
	{"..", syntax.TokenDotDot},
	{"(", syntax.TokenLParen},
	{")", syntax.TokenRParen},
	{"{", syntax.TokenLBrace},
	{"}", syntax.TokenRBrace},
	{"[", syntax.TokenLBracket},
	{"]", syntax.TokenRBracket},
	{";", syntax.TokenSemicolon},
	{",", syntax.TokenComma},
	{".", syntax.TokenDot},
	{":", syntax.TokenColon},
	{"?", syntax.TokenQuestion},
	{"=", syntax.TokenAssign},
	{"<", syntax.TokenLT},
	{">", syntax.TokenGT},
	{"!", syntax.TokenNot},
	{"&", syntax.TokenBitAnd},
	{"|", syntax.TokenBitOr},
	{"^", syntax.TokenBitXor},
	{"~", syntax.TokenBitNot},
	{"+", syntax.TokenPlus},
	{"-", syntax.TokenMinus},
	{"*", syntax.TokenStar},
	{"/", syntax.TokenSlash},
	{"%", syntax.TokenPercent},
}

// scanOperator never produces ">>" or ">>=": closing angle brackets of nested
// type arguments are always lexed one at a time.
func (l *Lexer) scanOperator() syntax.TokenKind {
	if l.peek() == '?' && l.peekN(1) == '.' && !isDigit(l.peekN(2)) {
		l.advanceN(2)
		return syntax.TokenQuestionDot
	}
	rest := l.input[l.pos:]
	for _, op := range operators {
		if len(rest) >= len(op.text) && string(rest[:len(op.text)]) == op.text {
			l.advanceN(len(op.text))
			return op.kind
		}
	}
	_, size := utf8.DecodeRune(rest)
	l.advanceN(size)
	return syntax.TokenError
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z'
}

// Bytes of multi-byte UTF-8 sequences are accepted as identifier characters.
func isIdentStart(ch byte) bool {
	return isLetter(ch) || ch == '_' || ch >= 0x80
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
