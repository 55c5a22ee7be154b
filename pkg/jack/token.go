package jack

import "fmt"

// ----------------------------------------------------------------------------
// Token model

// This section contains the shared vocabulary the tokenizer and translator
// agree on: the five token kinds, the reserved keywords and symbols, and
// the grammar token-sets the translator uses for (at most 2-token) lookahead
// decisions. None of this depends on a particular input file, so it lives
// apart from the Tokenizer itself.

// TokenType classifies a Token's payload.
type TokenType string

const (
	KeywordToken TokenType = "keyword"
	Symbol       TokenType = "symbol"
	IntConst     TokenType = "integerConstant"
	StringConst  TokenType = "stringConstant"
	Identifier   TokenType = "identifier"
	invalidToken TokenType = ""
)

// Keyword enumerates the 21 reserved words of the Jack language.
type Keyword string

const (
	KwClass       Keyword = "class"
	KwConstructor Keyword = "constructor"
	KwFunction    Keyword = "function"
	KwMethod      Keyword = "method"
	KwField       Keyword = "field"
	KwStatic      Keyword = "static"
	KwVar         Keyword = "var"

	KwInt     Keyword = "int"
	KwChar    Keyword = "char"
	KwBoolean Keyword = "boolean"
	KwVoid    Keyword = "void"

	KwTrue  Keyword = "true"
	KwFalse Keyword = "false"
	KwNull  Keyword = "null"
	KwThis  Keyword = "this"

	KwLet    Keyword = "let"
	KwDo     Keyword = "do"
	KwIf     Keyword = "if"
	KwElse   Keyword = "else"
	KwWhile  Keyword = "while"
	KwReturn Keyword = "return"
)

// keywords is the reverse lookup used by the tokenizer to reclassify an
// identifier-shaped lexeme as a Keyword when it matches exactly.
var keywords = map[string]Keyword{
	string(KwClass): KwClass, string(KwConstructor): KwConstructor, string(KwFunction): KwFunction,
	string(KwMethod): KwMethod, string(KwField): KwField, string(KwStatic): KwStatic, string(KwVar): KwVar,
	string(KwInt): KwInt, string(KwChar): KwChar, string(KwBoolean): KwBoolean, string(KwVoid): KwVoid,
	string(KwTrue): KwTrue, string(KwFalse): KwFalse, string(KwNull): KwNull, string(KwThis): KwThis,
	string(KwLet): KwLet, string(KwDo): KwDo, string(KwIf): KwIf, string(KwElse): KwElse,
	string(KwWhile): KwWhile, string(KwReturn): KwReturn,
}

// The 19 single-character symbols recognized by the lexer.
const symbolChars = "{}()[].,;+-*/&|<>=~"

// Position marks a token's origin in the source file, used only for
// diagnostics (spec requires "file name and, where possible, token
// position" on error output).
type Position struct {
	Line   int // 1-indexed
	Column int // 1-indexed, counted in bytes
}

func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// Token is a tagged, immutable lexical unit. Exactly one of the typed
// accessors below is meaningful for a given token, selected by Type().
type Token struct {
	typ      TokenType
	keyword  Keyword
	symbol   byte
	intVal   uint16
	strVal   string
	ident    string
	position Position
}

func (t Token) Type() TokenType    { return t.typ }
func (t Token) Position() Position { return t.position }

// Keyword returns the token's keyword payload; only meaningful if Type() == KeywordToken.
func (t Token) Keyword() Keyword { return t.keyword }

// Symbol returns the token's symbol payload; only meaningful if Type() == Symbol.
func (t Token) Symbol() byte { return t.symbol }

// IntVal returns the decoded integer payload; only meaningful if Type() == IntConst.
func (t Token) IntVal() uint16 { return t.intVal }

// StringVal returns the quote-stripped string payload; only meaningful if Type() == StringConst.
func (t Token) StringVal() string { return t.strVal }

// Ident returns the identifier payload; only meaningful if Type() == Identifier.
func (t Token) Ident() string { return t.ident }

// Literal renders the token's payload the way it appeared in source, used
// in error messages.
func (t Token) Literal() string {
	switch t.typ {
	case KeywordToken:
		return string(t.keyword)
	case Symbol:
		return string(t.symbol)
	case IntConst:
		return fmt.Sprint(t.intVal)
	case StringConst:
		return fmt.Sprintf("%q", t.strVal)
	case Identifier:
		return t.ident
	default:
		return "<no token>"
	}
}

// noToken is the sentinel returned by Peek/PeekSecond on an exhausted
// stream; it compares unequal to every real expectation because its Type
// is the empty string, never produced by the tokenizer for a real token.
var noToken = Token{typ: invalidToken}

// ----------------------------------------------------------------------------
// Grammar token-sets

// These sets let the translator answer "is the next token the start of an
// X" without hand-rolling a chain of equality checks at every call site.

var classVarDecStart = map[Keyword]bool{KwStatic: true, KwField: true}

var subroutineDecStart = map[Keyword]bool{KwConstructor: true, KwFunction: true, KwMethod: true}

var varTypeStart = map[Keyword]bool{KwInt: true, KwChar: true, KwBoolean: true}

var statementStart = map[Keyword]bool{
	KwLet: true, KwIf: true, KwWhile: true, KwDo: true, KwReturn: true,
}

var keywordConstant = map[Keyword]bool{
	KwTrue: true, KwFalse: true, KwNull: true, KwThis: true,
}

// binaryOpSymbols lists the binary operator symbols; all but '*' and '/'
// compile to an arithmetic command directly, while those two compile to
// Math.multiply/Math.divide calls instead (see compileExpression).
var binaryOpSymbols = "+-*/&|<>="

func isUnaryOp(sym byte) bool { return sym == '-' || sym == '~' }
