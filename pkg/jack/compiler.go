package jack

import (
	"fmt"
	"io"

	"github.com/arkwright-dev/jackc/pkg/vm"
)

// ----------------------------------------------------------------------------
// Translator
//
// Compiler is a recursive-descent parser for Jack's LL(2) grammar that, as
// it recognizes each nonterminal, resolves identifiers against the two
// symbol tables and drives a vm.Writer directly — there is no intermediate
// AST. This is the hard subsystem of the translator; it is grounded,
// production by production, on CompilationEngine.py from the source this
// spec was distilled from (see _examples/original_source), with the
// two-symbol-table / label-counter shape adapted from the same-domain
// _examples/libklein-jackcompiler reference.
//
// SubroutineKind distinguishes the three subroutine flavors; the ABI
// prologue each one emits differs (see compileSubroutineDec).
type SubroutineKind string

const (
	Constructor SubroutineKind = "constructor"
	Function    SubroutineKind = "function"
	Method      SubroutineKind = "method"
)

// Compiler owns everything scoped to a single compiled file: its token
// stream, both symbol tables, the label counter and the current class
// name. None of this is shared across files.
type Compiler struct {
	tokens *Tokenizer
	writer *vm.Writer

	classTable *SymbolTable // static + this (field), populated once per class
	subTable   *SymbolTable // argument + local, reset per subroutine

	className  string
	labelCount int

	debug io.Writer // optional symbol-table dump sink, nil disables it
}

// NewCompiler returns a Compiler ready to compile a single class from
// tokens, emitting to writer.
func NewCompiler(tokens *Tokenizer, writer *vm.Writer) *Compiler {
	return &Compiler{
		tokens:     tokens,
		writer:     writer,
		classTable: NewSymbolTable(),
		subTable:   NewSymbolTable(),
	}
}

// SetDebugSink enables the optional symbol-table dump, appending to w after
// every class and subroutine compiled.
func (c *Compiler) SetDebugSink(w io.Writer) { c.debug = w }

// Compile translates the single class the token stream holds.
func (c *Compiler) Compile() error {
	return c.compileClass()
}

// CompileSource tokenizes source and compiles it straight to out, the
// single entry point data flows through: source -> Tokenizer -> Compiler
// (consulting the symbol tables, driving label allocation) -> vm.Writer ->
// out. debug may be nil.
func CompileSource(source []byte, out io.Writer, debug io.Writer) error {
	tokens, err := NewTokenizer(source)
	if err != nil {
		return err
	}

	writer := vm.NewWriter(out)
	compiler := NewCompiler(tokens, writer)
	compiler.SetDebugSink(debug)

	if err := compiler.Compile(); err != nil {
		return err
	}
	return writer.Err()
}

// ----------------------------------------------------------------------------
// Token-matching primitives

func (c *Compiler) peek() Token       { return c.tokens.Peek() }
func (c *Compiler) peekSecond() Token { return c.tokens.PeekSecond() }

func (c *Compiler) peekIsKeyword(set map[Keyword]bool) bool {
	tok := c.peek()
	return tok.Type() == KeywordToken && set[tok.Keyword()]
}

func (c *Compiler) peekIsSymbol(sym byte) bool {
	tok := c.peek()
	return tok.Type() == Symbol && tok.Symbol() == sym
}

// expectKeyword consumes the next token, requiring it to be a Keyword. With
// no arguments any keyword is accepted (wildcard); with arguments the
// keyword must be one of them.
func (c *Compiler) expectKeyword(want ...Keyword) (Keyword, error) {
	tok := c.peek()
	if tok.Type() != KeywordToken {
		return "", &SyntaxError{Pos: tok.Position(), Type: KeywordToken}
	}
	if len(want) > 0 && !keywordIn(tok.Keyword(), want) {
		return "", &SyntaxError{Pos: tok.Position(), Type: KeywordToken, Want: keywordList(want)}
	}
	c.tokens.Advance()
	return tok.Keyword(), nil
}

// expectSymbol consumes the next token, requiring it to be a Symbol. With
// no arguments any symbol is accepted; with arguments it must be one of them.
func (c *Compiler) expectSymbol(want ...byte) (byte, error) {
	tok := c.peek()
	if tok.Type() != Symbol {
		return 0, &SyntaxError{Pos: tok.Position(), Type: Symbol}
	}
	if len(want) > 0 && !byteIn(tok.Symbol(), want) {
		return 0, &SyntaxError{Pos: tok.Position(), Type: Symbol, Want: byteList(want)}
	}
	c.tokens.Advance()
	return tok.Symbol(), nil
}

func (c *Compiler) expectIdentifier() (string, Position, error) {
	tok := c.peek()
	if tok.Type() != Identifier {
		return "", tok.Position(), &SyntaxError{Pos: tok.Position(), Type: Identifier}
	}
	c.tokens.Advance()
	return tok.Ident(), tok.Position(), nil
}

func (c *Compiler) expectIntConst() (uint16, error) {
	tok := c.peek()
	if tok.Type() != IntConst {
		return 0, &SyntaxError{Pos: tok.Position(), Type: IntConst}
	}
	c.tokens.Advance()
	return tok.IntVal(), nil
}

func (c *Compiler) expectStringConst() (string, error) {
	tok := c.peek()
	if tok.Type() != StringConst {
		return "", &SyntaxError{Pos: tok.Position(), Type: StringConst}
	}
	c.tokens.Advance()
	return tok.StringVal(), nil
}

// expectType consumes a primitive type keyword (int/char/boolean) or a
// class-name identifier, and returns its textual spelling.
func (c *Compiler) expectType() (string, error) {
	tok := c.peek()
	if tok.Type() == KeywordToken && varTypeStart[tok.Keyword()] {
		c.tokens.Advance()
		return string(tok.Keyword()), nil
	}
	if tok.Type() == Identifier {
		c.tokens.Advance()
		return tok.Ident(), nil
	}
	return "", &SyntaxError{Pos: tok.Position(), Msg: "type expected"}
}

// resolve looks up name as a variable: subroutine-scope first, then
// class-scope (spec §3, "Scope resolution").
func (c *Compiler) resolve(name string) (SymbolEntry, bool) {
	if e, ok := c.subTable.Entry(name); ok {
		return e, true
	}
	if e, ok := c.classTable.Entry(name); ok {
		return e, true
	}
	return SymbolEntry{}, false
}

func (c *Compiler) newLabel() string {
	label := fmt.Sprintf("L%d", c.labelCount)
	c.labelCount++
	return label
}

// ----------------------------------------------------------------------------
// class

// compileClass: 'class' className '{' classVarDec* subroutineDec* '}'
func (c *Compiler) compileClass() error {
	if _, err := c.expectKeyword(KwClass); err != nil {
		return err
	}
	name, _, err := c.expectIdentifier()
	if err != nil {
		return err
	}
	c.className = name

	if _, err := c.expectSymbol('{'); err != nil {
		return err
	}

	for c.peekIsKeyword(classVarDecStart) {
		if err := c.compileClassVarDec(); err != nil {
			return err
		}
	}
	for c.peekIsKeyword(subroutineDecStart) {
		if err := c.compileSubroutineDec(); err != nil {
			return err
		}
	}

	if _, err := c.expectSymbol('}'); err != nil {
		return err
	}

	return dumpSymbolTable(c.debug, c.classTable, name+" class")
}

// compileClassVarDec: ('static'|'field') type varName (',' varName)* ';'
func (c *Compiler) compileClassVarDec() error {
	kw, err := c.expectKeyword(KwStatic, KwField)
	if err != nil {
		return err
	}
	segment := vm.Static
	if kw == KwField {
		segment = fieldSegment
	}

	declaredType, err := c.expectType()
	if err != nil {
		return err
	}

	for {
		name, _, err := c.expectIdentifier()
		if err != nil {
			return err
		}
		c.classTable.Define(name, declaredType, segment)

		if !c.peekIsSymbol(',') {
			break
		}
		if _, err := c.expectSymbol(','); err != nil {
			return err
		}
	}

	_, err = c.expectSymbol(';')
	return err
}

// ----------------------------------------------------------------------------
// subroutines

// compileSubroutineDec: (constructor|function|method) (void|type) name '(' parameterList ')' subroutineBody
func (c *Compiler) compileSubroutineDec() error {
	kindKw, err := c.expectKeyword(KwConstructor, KwFunction, KwMethod)
	if err != nil {
		return err
	}
	kind := SubroutineKind(kindKw)

	if c.peekIsKeywordExact(KwVoid) {
		if _, err := c.expectKeyword(KwVoid); err != nil {
			return err
		}
	} else if _, err := c.expectType(); err != nil {
		return err
	}

	name, _, err := c.expectIdentifier()
	if err != nil {
		return err
	}

	c.subTable.Reset()
	if kind == Method {
		c.subTable.DefineThisReceiver(c.className)
	}

	if _, err := c.expectSymbol('('); err != nil {
		return err
	}
	if err := c.compileParameterList(); err != nil {
		return err
	}
	if _, err := c.expectSymbol(')'); err != nil {
		return err
	}

	if err := c.compileSubroutineBody(name, kind); err != nil {
		return err
	}

	return dumpSymbolTable(c.debug, c.subTable, name+" method")
}

func (c *Compiler) peekIsKeywordExact(kw Keyword) bool {
	tok := c.peek()
	return tok.Type() == KeywordToken && tok.Keyword() == kw
}

// compileParameterList: ((type varName) (',' type varName)*)?
func (c *Compiler) compileParameterList() error {
	if c.peekIsSymbol(')') {
		return nil
	}
	for {
		declaredType, err := c.expectType()
		if err != nil {
			return err
		}
		name, _, err := c.expectIdentifier()
		if err != nil {
			return err
		}
		c.subTable.Define(name, declaredType, vm.Argument)

		if !c.peekIsSymbol(',') {
			break
		}
		if _, err := c.expectSymbol(','); err != nil {
			return err
		}
	}
	return nil
}

// compileSubroutineBody: '{' varDec* statements '}'
//
// The function header can only be emitted once every varDec has been
// parsed, because nLocals is the subroutine table's final local count; no
// other buffering is needed (see spec §9, "Interleaved parse/emit").
func (c *Compiler) compileSubroutineBody(name string, kind SubroutineKind) error {
	if _, err := c.expectSymbol('{'); err != nil {
		return err
	}

	for c.peekIsKeywordExact(KwVar) {
		if err := c.compileVarDec(); err != nil {
			return err
		}
	}

	nLocals := int(c.subTable.VarCount(vm.Local))
	c.writer.WriteFunction(c.className+"."+name, nLocals)

	switch kind {
	case Constructor:
		nFields := int(c.classTable.VarCount(vm.This))
		c.writer.WriteConstant(uint16(nFields))
		c.writer.WriteCall("Memory.alloc", 1)
		c.writer.WritePopThis()
	case Method:
		c.writer.WritePush(vm.Argument, 0)
		c.writer.WritePopThis()
	case Function:
		// no prologue
	}

	if err := c.compileStatements(); err != nil {
		return err
	}

	_, err := c.expectSymbol('}')
	return err
}

// compileVarDec: 'var' type varName (',' varName)* ';'
func (c *Compiler) compileVarDec() error {
	if _, err := c.expectKeyword(KwVar); err != nil {
		return err
	}
	declaredType, err := c.expectType()
	if err != nil {
		return err
	}

	for {
		name, _, err := c.expectIdentifier()
		if err != nil {
			return err
		}
		c.subTable.Define(name, declaredType, vm.Local)

		if !c.peekIsSymbol(',') {
			break
		}
		if _, err := c.expectSymbol(','); err != nil {
			return err
		}
	}

	_, err = c.expectSymbol(';')
	return err
}

// ----------------------------------------------------------------------------
// statements

// compileStatements: (letStatement|ifStatement|whileStatement|doStatement|returnStatement)*
func (c *Compiler) compileStatements() error {
	for c.peekIsKeyword(statementStart) {
		var err error
		switch c.peek().Keyword() {
		case KwLet:
			err = c.compileLet()
		case KwIf:
			err = c.compileIf()
		case KwWhile:
			err = c.compileWhile()
		case KwDo:
			err = c.compileDo()
		case KwReturn:
			err = c.compileReturn()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// compileLet: 'let' varName ('=' expr | '[' expr ']' '=' expr) ';'
func (c *Compiler) compileLet() error {
	if _, err := c.expectKeyword(KwLet); err != nil {
		return err
	}
	name, pos, err := c.expectIdentifier()
	if err != nil {
		return err
	}
	entry, ok := c.resolve(name)
	if !ok {
		return &SemanticError{Pos: pos, Msg: fmt.Sprintf("undefined symbol: %s", name)}
	}

	if c.peekIsSymbol('[') {
		// Array element assignment. The RHS must be evaluated before the
		// 'that' pointer is clobbered, otherwise a nested array access on
		// the RHS would corrupt the address this statement computed.
		c.writer.WritePush(entry.Segment, entry.Index)

		if _, err := c.expectSymbol('['); err != nil {
			return err
		}
		if err := c.compileExpression(); err != nil {
			return err
		}
		if _, err := c.expectSymbol(']'); err != nil {
			return err
		}
		c.writer.WriteArithmetic(vm.Add)

		if _, err := c.expectSymbol('='); err != nil {
			return err
		}
		if err := c.compileExpression(); err != nil {
			return err
		}
		if _, err := c.expectSymbol(';'); err != nil {
			return err
		}

		c.writer.WritePop(vm.Temp, 0)
		c.writer.WritePopThat()
		c.writer.WritePush(vm.Temp, 0)
		c.writer.WritePop(vm.That, 0)
		return nil
	}

	if _, err := c.expectSymbol('='); err != nil {
		return err
	}
	if err := c.compileExpression(); err != nil {
		return err
	}
	if _, err := c.expectSymbol(';'); err != nil {
		return err
	}
	c.writer.WritePop(entry.Segment, entry.Index)
	return nil
}

// compileIf: 'if' '(' expr ')' '{' stmts '}' ('else' '{' stmts '}')?
func (c *Compiler) compileIf() error {
	if _, err := c.expectKeyword(KwIf); err != nil {
		return err
	}
	labelElse, labelEnd := c.newLabel(), c.newLabel()

	if _, err := c.expectSymbol('('); err != nil {
		return err
	}
	if err := c.compileExpression(); err != nil {
		return err
	}
	if _, err := c.expectSymbol(')'); err != nil {
		return err
	}

	c.writer.WriteArithmetic(vm.Not)
	c.writer.WriteIfGoto(labelElse)

	if _, err := c.expectSymbol('{'); err != nil {
		return err
	}
	if err := c.compileStatements(); err != nil {
		return err
	}
	if _, err := c.expectSymbol('}'); err != nil {
		return err
	}

	c.writer.WriteGoto(labelEnd)
	c.writer.WriteLabel(labelElse)

	if c.peekIsKeywordExact(KwElse) {
		if _, err := c.expectKeyword(KwElse); err != nil {
			return err
		}
		if _, err := c.expectSymbol('{'); err != nil {
			return err
		}
		if err := c.compileStatements(); err != nil {
			return err
		}
		if _, err := c.expectSymbol('}'); err != nil {
			return err
		}
	}

	c.writer.WriteLabel(labelEnd)
	return nil
}

// compileWhile: 'while' '(' expr ')' '{' stmts '}'
func (c *Compiler) compileWhile() error {
	if _, err := c.expectKeyword(KwWhile); err != nil {
		return err
	}
	labelLoop, labelExit := c.newLabel(), c.newLabel()

	c.writer.WriteLabel(labelLoop)

	if _, err := c.expectSymbol('('); err != nil {
		return err
	}
	if err := c.compileExpression(); err != nil {
		return err
	}
	if _, err := c.expectSymbol(')'); err != nil {
		return err
	}

	c.writer.WriteArithmetic(vm.Not)
	c.writer.WriteIfGoto(labelExit)

	if _, err := c.expectSymbol('{'); err != nil {
		return err
	}
	if err := c.compileStatements(); err != nil {
		return err
	}
	if _, err := c.expectSymbol('}'); err != nil {
		return err
	}

	c.writer.WriteGoto(labelLoop)
	c.writer.WriteLabel(labelExit)
	return nil
}

// compileDo: 'do' subroutineCall ';'
func (c *Compiler) compileDo() error {
	if _, err := c.expectKeyword(KwDo); err != nil {
		return err
	}
	if err := c.compileSubroutineCall(); err != nil {
		return err
	}
	if _, err := c.expectSymbol(';'); err != nil {
		return err
	}
	c.writer.WritePop(vm.Temp, 0) // discard the callee's return value
	return nil
}

// compileReturn: 'return' expr? ';'
func (c *Compiler) compileReturn() error {
	if _, err := c.expectKeyword(KwReturn); err != nil {
		return err
	}
	if c.peekIsSymbol(';') {
		c.writer.WriteConstant(0) // void subroutines still push a dummy value, by VM convention
	} else if err := c.compileExpression(); err != nil {
		return err
	}
	if _, err := c.expectSymbol(';'); err != nil {
		return err
	}
	c.writer.WriteReturn()
	return nil
}

// ----------------------------------------------------------------------------
// subroutine calls

// compileSubroutineCall handles both syntactic forms from spec §4.4.4:
//
//	name(args)              - unqualified, an instance method of this class
//	qualifier.name(args)    - qualifier is a variable (receiver) or a class
func (c *Compiler) compileSubroutineCall() error {
	first, _, err := c.expectIdentifier()
	if err != nil {
		return err
	}

	className := c.className
	calleeName := first
	nArgs := 0

	if c.peekIsSymbol('.') {
		if _, err := c.expectSymbol('.'); err != nil {
			return err
		}
		calleeName, _, err = c.expectIdentifier()
		if err != nil {
			return err
		}

		if entry, ok := c.resolve(first); ok {
			c.writer.WritePush(entry.Segment, entry.Index)
			className = entry.Type
			nArgs = 1
		} else {
			// Unresolved qualifiers default to being treated as class
			// names without diagnostic (spec §9(c), a deliberate decision
			// recorded in DESIGN.md, not a guess).
			className = first
			nArgs = 0
		}
	} else {
		c.writer.WritePushThis()
		nArgs = 1
	}

	if _, err := c.expectSymbol('('); err != nil {
		return err
	}
	argCount, err := c.compileExpressionList()
	if err != nil {
		return err
	}
	if _, err := c.expectSymbol(')'); err != nil {
		return err
	}

	c.writer.WriteCall(className+"."+calleeName, nArgs+argCount)
	return nil
}

// compileExpressionList: (expr (',' expr)*)?, returns the argument count.
func (c *Compiler) compileExpressionList() (int, error) {
	count := 0
	if c.peekIsSymbol(')') {
		return count, nil
	}

	if err := c.compileExpression(); err != nil {
		return count, err
	}
	count++

	for c.peekIsSymbol(',') {
		if _, err := c.expectSymbol(','); err != nil {
			return count, err
		}
		if err := c.compileExpression(); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

// ----------------------------------------------------------------------------
// expressions

// compileExpression: term (op term)*, left to right, no operator precedence.
func (c *Compiler) compileExpression() error {
	if err := c.compileTerm(); err != nil {
		return err
	}

	for {
		tok := c.peek()
		if tok.Type() != Symbol || !isByteIn(binaryOpSymbols, tok.Symbol()) {
			break
		}
		op, err := c.expectSymbol()
		if err != nil {
			return err
		}
		if err := c.compileTerm(); err != nil {
			return err
		}

		switch op {
		case '+':
			c.writer.WriteArithmetic(vm.Add)
		case '-':
			c.writer.WriteArithmetic(vm.Sub)
		case '=':
			c.writer.WriteArithmetic(vm.Eq)
		case '>':
			c.writer.WriteArithmetic(vm.Gt)
		case '<':
			c.writer.WriteArithmetic(vm.Lt)
		case '&':
			c.writer.WriteArithmetic(vm.And)
		case '|':
			c.writer.WriteArithmetic(vm.Or)
		case '*':
			c.writer.WriteCall("Math.multiply", 2)
		case '/':
			c.writer.WriteCall("Math.divide", 2)
		}
	}

	return nil
}

// compileTerm dispatches on the first (and sometimes second) token; see
// spec §4.4.6 for the full case list.
func (c *Compiler) compileTerm() error {
	tok := c.peek()

	switch {
	case tok.Type() == IntConst:
		val, err := c.expectIntConst()
		if err != nil {
			return err
		}
		c.writer.WriteConstant(val)
		return nil

	case tok.Type() == StringConst:
		s, err := c.expectStringConst()
		if err != nil {
			return err
		}
		c.writer.WriteConstant(uint16(len(s)))
		c.writer.WriteCall("String.new", 1)
		for i := 0; i < len(s); i++ {
			c.writer.WriteConstant(uint16(s[i]))
			c.writer.WriteCall("String.appendChar", 2)
		}
		return nil

	case tok.Type() == KeywordToken && keywordConstant[tok.Keyword()]:
		kw, err := c.expectKeyword()
		if err != nil {
			return err
		}
		switch kw {
		case KwTrue:
			c.writer.WriteConstant(1)
			c.writer.WriteArithmetic(vm.Neg)
		case KwThis:
			c.writer.WritePushThis()
		default: // false, null
			c.writer.WriteConstant(0)
		}
		return nil

	case tok.Type() == Identifier:
		second := c.peekSecond()
		switch {
		case second.Type() == Symbol && second.Symbol() == '[':
			return c.compileArrayRead()
		case second.Type() == Symbol && (second.Symbol() == '(' || second.Symbol() == '.'):
			return c.compileSubroutineCall()
		default:
			return c.compileVarRead()
		}

	case tok.Type() == Symbol && tok.Symbol() == '(':
		if _, err := c.expectSymbol('('); err != nil {
			return err
		}
		if err := c.compileExpression(); err != nil {
			return err
		}
		_, err := c.expectSymbol(')')
		return err

	case tok.Type() == Symbol && isUnaryOp(tok.Symbol()):
		sym, err := c.expectSymbol()
		if err != nil {
			return err
		}
		if err := c.compileTerm(); err != nil {
			return err
		}
		if sym == '-' {
			c.writer.WriteArithmetic(vm.Neg)
		} else {
			c.writer.WriteArithmetic(vm.Not)
		}
		return nil

	default:
		return &SyntaxError{Pos: tok.Position(), Msg: "term expected"}
	}
}

// compileArrayRead: varName '[' expr ']', dereferenced through 'that'.
func (c *Compiler) compileArrayRead() error {
	name, pos, err := c.expectIdentifier()
	if err != nil {
		return err
	}
	entry, ok := c.resolve(name)
	if !ok {
		return &SemanticError{Pos: pos, Msg: fmt.Sprintf("undefined symbol: %s", name)}
	}

	c.writer.WritePush(entry.Segment, entry.Index)
	if _, err := c.expectSymbol('['); err != nil {
		return err
	}
	if err := c.compileExpression(); err != nil {
		return err
	}
	if _, err := c.expectSymbol(']'); err != nil {
		return err
	}

	c.writer.WriteArithmetic(vm.Add)
	c.writer.WritePopThat()
	c.writer.WritePush(vm.That, 0)
	return nil
}

// compileVarRead: a bare scalar variable reference.
func (c *Compiler) compileVarRead() error {
	name, pos, err := c.expectIdentifier()
	if err != nil {
		return err
	}
	entry, ok := c.resolve(name)
	if !ok {
		return &SemanticError{Pos: pos, Msg: fmt.Sprintf("undefined symbol: %s", name)}
	}
	c.writer.WritePush(entry.Segment, entry.Index)
	return nil
}

// ----------------------------------------------------------------------------
// small helpers

func keywordIn(kw Keyword, set []Keyword) bool {
	for _, k := range set {
		if k == kw {
			return true
		}
	}
	return false
}

func keywordList(set []Keyword) string {
	out := ""
	for i, k := range set {
		if i > 0 {
			out += "|"
		}
		out += string(k)
	}
	return out
}

func byteIn(b byte, set []byte) bool {
	for _, s := range set {
		if s == b {
			return true
		}
	}
	return false
}

func byteList(set []byte) string {
	out := ""
	for i, s := range set {
		if i > 0 {
			out += "|"
		}
		out += string(s)
	}
	return out
}

func isByteIn(s string, b byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return true
		}
	}
	return false
}
