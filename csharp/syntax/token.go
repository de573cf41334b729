package syntax

import "strconv"

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

type Span struct {
	Start Position
	End   Position
}

// TextSpan is a range of a document's text measured in byte offsets.
// An empty span is a caret.
type TextSpan struct {
	Start  int
	Length int
}

func (s TextSpan) End() int {
	return s.Start + s.Length
}

func (s TextSpan) IsEmpty() bool {
	return s.Length == 0
}

func (s TextSpan) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End()
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError

	// Literals
	TokenIdent
	TokenIntLiteral
	TokenRealLiteral
	TokenCharLiteral
	TokenStringLiteral
	TokenInterpolatedString
	TokenTrue
	TokenFalse
	TokenNull

	// Keywords
	TokenAbstract
	TokenAs
	TokenBase
	TokenBool
	TokenBreak
	TokenByte
	TokenCase
	TokenCatch
	TokenChar
	TokenChecked
	TokenClass
	TokenConst
	TokenContinue
	TokenDecimal
	TokenDefault
	TokenDelegate
	TokenDo
	TokenDouble
	TokenElse
	TokenEnum
	TokenEvent
	TokenExplicit
	TokenExtern
	TokenFinally
	TokenFixed
	TokenFloat
	TokenFor
	TokenForeach
	TokenGoto
	TokenIf
	TokenImplicit
	TokenIn
	TokenInt
	TokenInterface
	TokenInternal
	TokenIs
	TokenLock
	TokenLong
	TokenNamespace
	TokenNew
	TokenObject
	TokenOperator
	TokenOut
	TokenOverride
	TokenParams
	TokenPrivate
	TokenProtected
	TokenPublic
	TokenReadonly
	TokenRef
	TokenReturn
	TokenSbyte
	TokenSealed
	TokenShort
	TokenSizeof
	TokenStackalloc
	TokenStatic
	TokenString
	TokenStruct
	TokenSwitch
	TokenThis
	TokenThrow
	TokenTry
	TokenTypeof
	TokenUint
	TokenUlong
	TokenUnchecked
	TokenUnsafe
	TokenUshort
	TokenUsing
	TokenVirtual
	TokenVoid
	TokenVolatile
	TokenWhile

	// Operators and punctuation
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenSemicolon
	TokenComma
	TokenDot
	TokenDotDot
	TokenColon
	TokenColonColon
	TokenQuestion
	TokenQuestionQuestion
	TokenQuestionDot
	TokenQuestionQuestionAssign
	TokenArrow
	TokenFatArrow
	TokenAssign
	TokenEQ
	TokenNE
	TokenLT
	TokenLE
	TokenGT
	TokenGE
	TokenAnd
	TokenOr
	TokenNot
	TokenBitAnd
	TokenBitOr
	TokenBitXor
	TokenBitNot
	TokenShl
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenIncrement
	TokenDecrement
	TokenPlusAssign
	TokenMinusAssign
	TokenStarAssign
	TokenSlashAssign
	TokenPercentAssign
	TokenAndAssign
	TokenOrAssign
	TokenXorAssign
	TokenShlAssign
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:                    "EOF",
	TokenError:                  "Error",
	TokenIdent:                  "Identifier",
	TokenIntLiteral:             "IntLiteral",
	TokenRealLiteral:            "RealLiteral",
	TokenCharLiteral:            "CharLiteral",
	TokenStringLiteral:          "StringLiteral",
	TokenInterpolatedString:     "InterpolatedString",
	TokenTrue:                   "true",
	TokenFalse:                  "false",
	TokenNull:                   "null",
	TokenAbstract:               "abstract",
	TokenAs:                     "as",
	TokenBase:                   "base",
	TokenBool:                   "bool",
	TokenBreak:                  "break",
	TokenByte:                   "byte",
	TokenCase:                   "case",
	TokenCatch:                  "catch",
	TokenChar:                   "char",
	TokenChecked:                "checked",
	TokenClass:                  "class",
	TokenConst:                  "const",
	TokenContinue:               "continue",
	TokenDecimal:                "decimal",
	TokenDefault:                "default",
	TokenDelegate:               "delegate",
	TokenDo:                     "do",
	TokenDouble:                 "double",
	TokenElse:                   "else",
	TokenEnum:                   "enum",
	TokenEvent:                  "event",
	TokenExplicit:               "explicit",
	TokenExtern:                 "extern",
	TokenFinally:                "finally",
	TokenFixed:                  "fixed",
	TokenFloat:                  "float",
	TokenFor:                    "for",
	TokenForeach:                "foreach",
	TokenGoto:                   "goto",
	TokenIf:                     "if",
	TokenImplicit:               "implicit",
	TokenIn:                     "in",
	TokenInt:                    "int",
	TokenInterface:              "interface",
	TokenInternal:               "internal",
	TokenIs:                     "is",
	TokenLock:                   "lock",
	TokenLong:                   "long",
	TokenNamespace:              "namespace",
	TokenNew:                    "new",
	TokenObject:                 "object",
	TokenOperator:               "operator",
	TokenOut:                    "out",
	TokenOverride:               "override",
	TokenParams:                 "params",
	TokenPrivate:                "private",
	TokenProtected:              "protected",
	TokenPublic:                 "public",
	TokenReadonly:               "readonly",
	TokenRef:                    "ref",
	TokenReturn:                 "return",
	TokenSbyte:                  "sbyte",
	TokenSealed:                 "sealed",
	TokenShort:                  "short",
	TokenSizeof:                 "sizeof",
	TokenStackalloc:             "stackalloc",
	TokenStatic:                 "static",
	TokenString:                 "string",
	TokenStruct:                 "struct",
	TokenSwitch:                 "switch",
	TokenThis:                   "this",
	TokenThrow:                  "throw",
	TokenTry:                    "try",
	TokenTypeof:                 "typeof",
	TokenUint:                   "uint",
	TokenUlong:                  "ulong",
	TokenUnchecked:              "unchecked",
	TokenUnsafe:                 "unsafe",
	TokenUshort:                 "ushort",
	TokenUsing:                  "using",
	TokenVirtual:                "virtual",
	TokenVoid:                   "void",
	TokenVolatile:               "volatile",
	TokenWhile:                  "while",
	TokenLParen:                 "(",
	TokenRParen:                 ")",
	TokenLBrace:                 "{",
	TokenRBrace:                 "}",
	TokenLBracket:               "[",
	TokenRBracket:               "]",
	TokenSemicolon:              ";",
	TokenComma:                  ",",
	TokenDot:                    ".",
	TokenDotDot:                 "..",
	TokenColon:                  ":",
	TokenColonColon:             "::",
	TokenQuestion:               "?",
	TokenQuestionQuestion:       "??",
	TokenQuestionDot:            "?.",
	TokenQuestionQuestionAssign: "??=",
	TokenArrow:                  "->",
	TokenFatArrow:               "=>",
	TokenAssign:                 "=",
	TokenEQ:                     "==",
	TokenNE:                     "!=",
	TokenLT:                     "<",
	TokenLE:                     "<=",
	TokenGT:                     ">",
	TokenGE:                     ">=",
	TokenAnd:                    "&&",
	TokenOr:                     "||",
	TokenNot:                    "!",
	TokenBitAnd:                 "&",
	TokenBitOr:                  "|",
	TokenBitXor:                 "^",
	TokenBitNot:                 "~",
	TokenShl:                    "<<",
	TokenPlus:                   "+",
	TokenMinus:                  "-",
	TokenStar:                   "*",
	TokenSlash:                  "/",
	TokenPercent:                "%",
	TokenIncrement:              "++",
	TokenDecrement:              "--",
	TokenPlusAssign:             "+=",
	TokenMinusAssign:            "-=",
	TokenStarAssign:             "*=",
	TokenSlashAssign:            "/=",
	TokenPercentAssign:          "%=",
	TokenAndAssign:              "&=",
	TokenOrAssign:               "|=",
	TokenXorAssign:              "^=",
	TokenShlAssign:              "<<=",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsKeyword reports whether k is a reserved C# keyword.
func (k TokenKind) IsKeyword() bool {
	return k >= TokenAbstract && k <= TokenWhile ||
		k == TokenTrue || k == TokenFalse || k == TokenNull
}

// IsPredefinedType reports whether k names a built-in type such as int or string.
func (k TokenKind) IsPredefinedType() bool {
	switch k {
	case TokenBool, TokenByte, TokenSbyte, TokenChar, TokenDecimal,
		TokenDouble, TokenFloat, TokenInt, TokenUint, TokenLong,
		TokenUlong, TokenShort, TokenUshort, TokenObject, TokenString,
		TokenVoid:
		return true
	}
	return false
}

// Token is a lexical unit together with the trivia that surrounds it.
// Trailing trivia runs up to and including the first line break after the
// token; everything else before the next token is that token's leading trivia.
type Token struct {
	Kind     TokenKind
	Span     Span
	Literal  string
	Leading  string
	Trailing string
}

// FullWidth is the number of bytes the token occupies including its trivia.
func (t *Token) FullWidth() int {
	return len(t.Leading) + len(t.Literal) + len(t.Trailing)
}

var keywords = map[string]TokenKind{
	"abstract":   TokenAbstract,
	"as":         TokenAs,
	"base":       TokenBase,
	"bool":       TokenBool,
	"break":      TokenBreak,
	"byte":       TokenByte,
	"case":       TokenCase,
	"catch":      TokenCatch,
	"char":       TokenChar,
	"checked":    TokenChecked,
	"class":      TokenClass,
	"const":      TokenConst,
	"continue":   TokenContinue,
	"decimal":    TokenDecimal,
	"default":    TokenDefault,
	"delegate":   TokenDelegate,
	"do":         TokenDo,
	"double":     TokenDouble,
	"else":       TokenElse,
	"enum":       TokenEnum,
	"event":      TokenEvent,
	"explicit":   TokenExplicit,
	"extern":     TokenExtern,
	"false":      TokenFalse,
	"finally":    TokenFinally,
	"fixed":      TokenFixed,
	"float":      TokenFloat,
	"for":        TokenFor,
	"foreach":    TokenForeach,
	"goto":       TokenGoto,
	"if":         TokenIf,
	"implicit":   TokenImplicit,
	"in":         TokenIn,
	"int":        TokenInt,
	"interface":  TokenInterface,
	"internal":   TokenInternal,
	"is":         TokenIs,
	"lock":       TokenLock,
	"long":       TokenLong,
	"namespace":  TokenNamespace,
	"new":        TokenNew,
	"null":       TokenNull,
	"object":     TokenObject,
	"operator":   TokenOperator,
	"out":        TokenOut,
	"override":   TokenOverride,
	"params":     TokenParams,
	"private":    TokenPrivate,
	"protected":  TokenProtected,
	"public":     TokenPublic,
	"readonly":   TokenReadonly,
	"ref":        TokenRef,
	"return":     TokenReturn,
	"sbyte":      TokenSbyte,
	"sealed":     TokenSealed,
	"short":      TokenShort,
	"sizeof":     TokenSizeof,
	"stackalloc": TokenStackalloc,
	"static":     TokenStatic,
	"string":     TokenString,
	"struct":     TokenStruct,
	"switch":     TokenSwitch,
	"this":       TokenThis,
	"throw":      TokenThrow,
	"true":       TokenTrue,
	"try":        TokenTry,
	"typeof":     TokenTypeof,
	"uint":       TokenUint,
	"ulong":      TokenUlong,
	"unchecked":  TokenUnchecked,
	"unsafe":     TokenUnsafe,
	"ushort":     TokenUshort,
	"using":      TokenUsing,
	"virtual":    TokenVirtual,
	"void":       TokenVoid,
	"volatile":   TokenVolatile,
	"while":      TokenWhile,
}

// LookupKeyword returns the keyword kind for ident, or TokenIdent.
// Contextual keywords (var, record, partial, async, ...) are identifiers.
func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return TokenIdent
}
