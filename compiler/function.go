package compiler

import (
	"github.com/reardan/w2/symtab"
)

// module parses the top level of the program: a sequence of function
// definitions, with no imports and no top-level variable declarations
// (spec.md's grammar names both as comments only; neither is part of
// this language's surface).
func (c *Compiler) module() {
	c.symbols.PushScope(symtab.ScopeModule)

	for !c.lex.EndOfFile() {
		c.function()
	}
}

// expectTypeName resolves the current token as a pre-declared Type
// and advances past it, failing if the identifier is unknown or isn't
// a Type.
func (c *Compiler) expectTypeName() *symtab.Type {
	name := c.lex.TokenString()
	sym := c.symbols.Lookup(name)
	if sym == nil {
		c.fail(`Undefined type "%s"`, name)
	}
	ty, ok := sym.(*symtab.Type)
	if !ok {
		c.fail(`Symbol is a "%s", expected it to be a "Type"`, sym.Kind())
	}
	c.lex.Advance()
	return ty
}

// function parses one top-level function definition:
//
//	function := type-name identifier '(' [ arg { ',' arg } ] ')' statement
//
// Arguments are not pushed by the callee - they live above the return
// address at positive offsets from esp on entry (see
// argumentStackOffset). The body is a single statement, almost always
// a block.
func (c *Compiler) function() {
	returnType := c.expectTypeName()
	name := c.lex.TokenString()
	c.lex.Advance()

	if err := c.lex.Expect("("); err != nil {
		c.fail("%s", err.Error())
	}

	fn := &symtab.Function{FuncName: name, ReturnType: returnType}
	if err := c.symbols.Declare(fn); err != nil {
		c.fail("%s", err.Error())
	}
	c.code.Label(name)

	scopeDepth := c.symbols.Depth()
	fn.Scope = c.symbols.PushScope(symtab.ScopeFunction)

	for !c.lex.Accept(")") {
		argType := c.expectTypeName()
		argName := c.lex.TokenString()

		arg := &symtab.Variable{
			VarName:      argName,
			VariableType: argType,
			SubType:      symtab.Argument,
		}

		if err := c.symbols.Declare(arg); err != nil {
			c.fail("%s", err.Error())
		}
		fn.Args = append(fn.Args, arg)

		c.lex.Advance()
		c.lex.Accept(",")
	}

	// Argument i (0-based, in declaration order) is assigned
	// i*wordSize. A call pushes its arguments left to right (see
	// expression.call).
	for i, arg := range fn.Args {
		arg.StackPosition = i * wordSize
	}

	prevFunction := c.currentFunction
	c.currentFunction = fn
	c.statement()
	c.currentFunction = prevFunction

	c.symbols.TruncateTo(scopeDepth)
}

// argumentStackOffset returns the real [esp+N] offset for an
// Argument variable: its argument-local position, plus the current
// stack_position (bytes pushed since entry), plus one word to account
// for the return address the "call" instruction pushed.
func (c *Compiler) argumentStackOffset(v *symtab.Variable) int {
	return c.stackPosition + v.StackPosition + wordSize
}

// localStackOffset returns the real [esp+N] offset for a Local
// variable: the current stack_position minus the position recorded
// when it was declared.
func (c *Compiler) localStackOffset(v *symtab.Variable) int {
	return c.stackPosition - v.StackPosition
}

// variableStackOffset dispatches to the right offset calculation for
// a variable's sub_type.
func (c *Compiler) variableStackOffset(v *symtab.Variable) int {
	switch v.SubType {
	case symtab.Argument:
		return c.argumentStackOffset(v)
	default:
		return c.localStackOffset(v)
	}
}
