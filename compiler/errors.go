package compiler

import (
	"fmt"

	"github.com/pkg/errors"
)

// errUnterminatedString is the sentinel cause wrapf attaches when the
// lexer hands back an ERROR token produced by readString running off
// the end of the file.
var errUnterminatedString = errors.New("unterminated string literal")

// Error is a fatal compilation failure: a file position plus a
// message. It is always the first (and only) error reported - this
// compiler does not attempt recovery.
type Error struct {
	File    string
	Line    int
	Column  int
	Message string
	cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("Compilation failed for file %s:%d:%d\n%s", e.File, e.Line, e.Column, e.Message)
}

// Unwrap exposes the wrapped cause, if any, so errors.Is/As keep
// working across this boundary.
func (e *Error) Unwrap() error {
	return e.cause
}

// fail raises a fatal compilation error at the lexer's current
// position. It never returns - callers use it exactly like the
// source language's own fail(), relying on Compile's recover to turn
// the panic into a returned error.
func (c *Compiler) fail(format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	panic(&Error{
		File:    c.filename,
		Line:    c.lex.Line(),
		Column:  c.lex.Column(),
		Message: message,
		cause:   errors.New(message),
	})
}

// wrapf raises a fatal compilation error that wraps an underlying
// cause (e.g. a lexer-level malformed-token error), preserving both
// the exact diagnostic text and the original error via errors.Wrap.
func (c *Compiler) wrapf(cause error, format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	panic(&Error{
		File:    c.filename,
		Line:    c.lex.Line(),
		Column:  c.lex.Column(),
		Message: message,
		cause:   errors.Wrap(cause, message),
	})
}
