package compiler

import (
	"github.com/reardan/w2/emit"
	"github.com/reardan/w2/symtab"
)

// statement parses and emits one statement:
//
//	statement := block | var-decl | if | while | repeat | for
//	           | 'return' expression END | expression END
func (c *Compiler) statement() {
	if c.lex.Accept(":") {
		c.block()
		return
	}
	if c.variableDeclaration() {
		c.expectEnd()
		return
	}
	if c.ifStatement() {
		return
	}
	if c.whileStatement() {
		return
	}
	if c.repeatStatement() {
		return
	}
	if c.forStatement() {
		return
	}
	if c.lex.Accept("return") {
		result := c.expression()
		c.promote(&result)
		c.fixStack(0)
		c.code.Line("ret")
		c.expectEnd()
		return
	}

	c.expression()
	c.expectEnd()
}

// block parses ':' NEWLINE { statement while indent >= block's indent }.
// It opens an inner scope, tracks the indentation level its first
// child statement establishes, and on exit emits an "add esp,K" to
// drop everything the block's statements pushed.
func (c *Compiler) block() {
	c.expectEnd()

	c.symbols.PushScope(symtab.ScopeInner)
	savedStackPosition := c.stackPosition
	scopeDepth := c.symbols.Depth()

	startTabLevel := c.lex.TabLevel()
	for startTabLevel <= c.lex.TabLevel() && !c.lex.EndOfFile() {
		c.statement()
	}

	c.fixStack(savedStackPosition)
	c.symbols.TruncateTo(scopeDepth)
}

// fixStack drops the real stack back to target, emitting "add esp,K"
// only if anything needs dropping, and resets stack_position to
// match. It is the single operation used by block exit, return, and
// for-loop exit alike.
func (c *Compiler) fixStack(target int) {
	if c.stackPosition > target {
		c.code.Linef("add esp,%d", c.stackPosition-target)
		c.stackPosition = target
	}
}

// variableDeclaration parses:
//
//	type [ '*'... ] identifier [ '[' INT ']' ] [ '=' expression ]
//
// The terminator is left to the caller: statement() consumes END,
// while forStatement() continues with 'in'.
//
// It returns false (consuming nothing) if the current token isn't a
// type name, so statement() can fall through to try other forms. The
// array-size bracket trails the identifier (C-style "int a[3]") rather
// than leading it, matching every worked example in this language's
// test scenarios.
func (c *Compiler) variableDeclaration() bool {
	sym := c.symbols.Lookup(c.lex.TokenString())
	symbolType, ok := sym.(*symtab.Type)
	if !ok {
		return false
	}
	c.lex.Advance()

	pointerLevel := 0
	for c.lex.Accept("*") {
		pointerLevel++
	}

	name := c.lex.TokenString()
	if existing := c.symbols.Lookup(name); existing != nil {
		c.fail(`variable "%s" was previously declared`, name)
	}
	c.lex.Advance()

	arrayCount := 0
	if c.lex.Accept("[") {
		arrayCount = c.positiveIntLiteral()
		c.lex.Advance()
		if err := c.lex.Expect("]"); err != nil {
			c.fail(`Missing closing bracket "]" in array variable declaration`)
		}
	}

	variable := &symtab.Variable{
		VarName:      name,
		VariableType: symbolType,
		SubType:      symtab.Local,
		PointerLevel: pointerLevel,
		ArrayCount:   arrayCount,
	}
	if err := c.symbols.Declare(variable); err != nil {
		c.fail("%s", err.Error())
	}

	if c.lex.Accept("=") {
		if pointerLevel == 0 && symbolType.Size != wordSize {
			c.fail("variable declaration initializer for a type whose size is not the word size is not supported")
		}
		result := c.expression()
		c.promote(&result)
		c.binary1()
	} else {
		size := 0
		elementSize := symbolType.Size
		if pointerLevel > 0 {
			elementSize = wordSize
		}
		count := arrayCount
		if count < 1 {
			count = 1
		}
		totalSize := elementSize * count
		for size < totalSize {
			c.code.Line("push 0")
			c.stackPosition += wordSize
			size += wordSize
		}
	}

	variable.StackPosition = c.stackPosition
	return true
}

// positiveIntLiteral reads the current token as a non-negative
// decimal integer without advancing past it - the caller is
// responsible for the advance, matching where each caller needs to
// resume scanning.
func (c *Compiler) positiveIntLiteral() int {
	valid, n := parseIntLiteral(c.lex.TokenString())
	if !valid || n < 0 {
		c.fail("Expected positive int literal inside array definition")
	}
	return n
}

// ifStatement parses 'if' expression statement [ 'else' statement ].
func (c *Compiler) ifStatement() bool {
	if !c.lex.Accept("if") {
		return false
	}

	result := c.expression()
	c.promote(&result)

	elseLabel := c.code.NextLabel(emit.Else)
	endIfLabel := c.code.NextLabel(emit.EndIf)

	c.code.Line("test eax,eax")
	c.code.Linef("jz %s", elseLabel)
	c.statement()
	c.code.Linef("jmp %s", endIfLabel)
	c.code.Label(elseLabel)
	if c.lex.Accept("else") {
		c.statement()
	}
	c.code.Label(endIfLabel)
	return true
}

// whileStatement parses 'while' expression statement.
func (c *Compiler) whileStatement() bool {
	if !c.lex.Accept("while") {
		return false
	}

	startLabel := c.code.NextLabel(emit.WhileStart)
	endLabel := c.code.NextLabel(emit.WhileEnd)

	c.code.Label(startLabel)
	c.expression()
	c.code.Line("test eax,eax")
	c.code.Linef("jz %s", endLabel)
	c.statement()
	c.code.Linef("jmp %s", startLabel)
	c.code.Label(endLabel)
	return true
}

// repeatStatement parses 'repeat' statement 'until' expression.
func (c *Compiler) repeatStatement() bool {
	if !c.lex.Accept("repeat") {
		return false
	}

	startLabel := c.code.NextLabel(emit.RepeatStart)
	c.code.Label(startLabel)
	c.statement()

	if !c.lex.Accept("until") {
		c.fail(`expected matching "until" for "repeat" statement`)
	}
	c.expression()
	c.code.Line("test eax,eax")
	c.code.Linef("jz %s", startLabel)
	return true
}

// forStatement parses:
//
//	'for' var-decl 'in' 'range' '(' expression
//	  [ ',' expression [ ',' expression ] ] ')' statement
//
// Stack layout relative to the iterator's declaration position:
// [iter, end, step]. slot turns a word's position in that layout into
// its [esp+N] offset from the current stack_position.
func (c *Compiler) forStatement() bool {
	if !c.lex.Accept("for") {
		return false
	}

	iteratorPosition := c.stackPosition
	if !c.variableDeclaration() {
		c.fail("Could not find variable declaration inside for loop")
	}
	if !c.lex.Accept("in") {
		c.fail(`for loop parsing failed: expected "in" after variable declaration`)
	}
	if !c.lex.Accept("range") {
		c.fail(`for loop parsing failed: expected "range" after "in"`)
	}
	if !c.lex.Accept("(") {
		c.fail(`for loop parsing failed: expected "(" after "range"`)
	}

	// The iterator's initial value is already on the stack via
	// variableDeclaration(); the first range() argument becomes
	// "end", pending an overwrite below if a second argument follows.
	result := c.expression()
	c.promote(&result)
	c.binary1()

	c.code.Line("push 1") // step, pending overwrite if a third argument follows
	c.stackPosition += wordSize

	slot := func(wordsFromTop int) int {
		return c.stackPosition - iteratorPosition - wordSize*wordsFromTop
	}

	if c.lex.Accept(",") {
		c.expression()
		c.code.Linef("mov ebx,[esp+%d]", slot(2))
		c.code.Linef("mov [esp+%d],ebx", slot(1))
		c.code.Linef("mov [esp+%d],eax", slot(2))
	}
	if c.lex.Accept(",") {
		c.expression()
		c.code.Linef("mov [esp+%d],eax", slot(3))
	}
	if !c.lex.Accept(")") {
		c.fail(`for loop parsing failed: expected ")" after "range(..."`)
	}

	startLabel := c.code.NextLabel(emit.ForStart)
	endLabel := c.code.NextLabel(emit.ForEnd)

	c.code.Label(startLabel)
	c.code.Linef("mov eax,[esp+%d]", slot(1))
	c.code.Linef("mov ebx,[esp+%d]", slot(2))
	c.code.Line("cmp eax,ebx")
	c.code.Linef("je %s", endLabel)
	c.statement()
	c.code.Linef("mov eax,[esp+%d]", slot(3))
	c.code.Linef("add [esp+%d],eax", slot(1))
	c.code.Linef("jmp %s", startLabel)
	c.code.Label(endLabel)

	c.fixStack(iteratorPosition)
	return true
}
