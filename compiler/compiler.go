// Package compiler is the core of the "W" compiler: a single-pass
// recursive-descent parser whose productions emit FASM assembly as
// they go, coupled to a lexically-scoped symbol table and a
// stack_position counter that shadows the real runtime esp.
//
// In brief, Compile:
//
//  1. Declares the base types and the syscall4 trampoline symbol.
//  2. Emits the fixed ELF/_main prologue.
//  3. Recursively descends from module through function, statement,
//     and expression productions, emitting instructions as it parses.
//
// There is no intermediate representation: every production that
// evaluates something leaves its result in the virtual accumulator
// eax and emits directly to the code buffer.
package compiler

import (
	"github.com/hashicorp/go-hclog"

	"github.com/reardan/w2/emit"
	"github.com/reardan/w2/lexer"
	"github.com/reardan/w2/symtab"
)

// wordSize is the platform word size, in bytes - this target is a
// 32-bit one.
const wordSize = 4

// Compiler holds all of the state shared across one compilation pass:
// the symbol table, the code buffer, the lexer, and the handful of
// mutable counters parsing and codegen depend on.
type Compiler struct {
	// filename is only used to format diagnostics; this package
	// never opens a file itself - reading source is the driver's
	// job (see main.go).
	filename string

	debug  bool
	logger hclog.Logger

	lex     *lexer.Lexer
	symbols *symtab.SymbolTable
	code    *emit.Emitter

	// stackPosition is the compiler's shadow of the real esp: net
	// bytes pushed since function entry, minus those popped. All
	// variable addressing is computed from it.
	stackPosition int

	// currentFunction is the function whose body is currently being
	// parsed. No production reads it; the return statement drops
	// locals with fixStack(0).
	currentFunction *symtab.Function
}

// New creates a Compiler for the given source text. filename is used
// only for diagnostics. A nil logger is replaced with one that
// discards everything.
func New(filename, source string, logger hclog.Logger) *Compiler {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Compiler{
		filename: filename,
		logger:   logger,
		lex:      lexer.New(source),
		symbols:  symtab.New(),
		code:     emit.New(),
	}
}

// SetDebug toggles extra hclog trace output during compilation. It
// never changes the generated assembly.
func (c *Compiler) SetDebug(v bool) {
	c.debug = v
}

// Compile runs the full pipeline and returns the generated assembly.
// Any fatal error raised anywhere in the pass (via fail/wrapf) is
// recovered here and returned as an *Error - there is no partial
// output on failure.
func (c *Compiler) Compile() (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			if cerr, ok := r.(*Error); ok {
				err = cerr
				out = ""
				return
			}
			panic(r)
		}
	}()

	c.defineBaseTypes()
	c.defineLinuxSyscall()
	c.linuxAsmHeader()
	c.module()

	return c.code.String(), nil
}

// defineBaseTypes pre-declares the built-in type names in the global
// scope, before any source is read.
func (c *Compiler) defineBaseTypes() {
	declareType := func(name string, size int, signed bool) {
		if err := c.symbols.Declare(&symtab.Type{TypeName: name, Size: size, Signed: signed}); err != nil {
			panic(err)
		}
	}

	declareType("void", 0, false)

	declareType("char", 1, true)
	declareType("byte", 1, false)

	declareType("int", wordSize, true)
	declareType("int8", 1, true)
	declareType("int16", 2, true)
	declareType("int32", 4, true)
	declareType("int64", 8, true)

	declareType("uint", wordSize, false)
	declareType("uint8", 1, false)
	declareType("uint16", 2, false)
	declareType("uint32", 4, false)
	declareType("uint64", 8, false)
}

// defineLinuxSyscall registers the fixed syscall4 trampoline as a
// callable Function symbol, matching the body linuxAsmHeader emits.
func (c *Compiler) defineLinuxSyscall() {
	intType := c.lookupType("int")
	if err := c.symbols.Declare(&symtab.Function{FuncName: "syscall4", ReturnType: intType}); err != nil {
		panic(err)
	}
}

// lookupType resolves a pre-declared base type by name, panicking if
// it isn't there - this is only ever called by the driver with names
// it just declared itself, so a miss is an internal bug, not a user
// error.
func (c *Compiler) lookupType(name string) *symtab.Type {
	sym := c.symbols.Lookup(name)
	ty, ok := sym.(*symtab.Type)
	if !ok {
		panic("compiler: lookupType(" + name + ") found no such base type")
	}
	return ty
}

// linuxAsmHeader emits the fixed ELF header, entry point, the
// syscall4 trampoline body, and the _main stub that calls main and
// exits via int 0x80.
func (c *Compiler) linuxAsmHeader() {
	c.code.Line("format ELF executable 3")
	c.code.Line("entry _main")
	c.code.Line("")
	c.code.Label("syscall4")
	c.code.Line("mov eax,[esp+16]")
	c.code.Line("mov ebx,[esp+12]")
	c.code.Line("mov ecx,[esp+8]")
	c.code.Line("mov edx,[esp+4]")
	c.code.Line("int 0x80")
	c.code.Line("ret")
	c.code.Line("")
	c.code.Label("_main")
	c.code.Line("call main")
	c.code.Line("mov ebx,eax")
	c.code.Line("mov eax,1")
	c.code.Line("int 0x80")
	c.code.Line("")
}

// trace emits an hclog trace message when -debug is set; it never
// affects the generated assembly.
func (c *Compiler) trace(msg string, args ...any) {
	if c.debug {
		c.logger.Trace(msg, args...)
	}
}

// expectEnd consumes a statement terminator (";" or a newline) and
// echoes the just-completed source line as a comment, so the
// generated assembly stays readable next to the program it came from.
func (c *Compiler) expectEnd() {
	if err := c.lex.ExpectEnd(); err != nil {
		c.fail("%s", err.Error())
	}
	c.code.Comment(c.lex.LastLine())
}
