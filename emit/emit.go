// Package emit holds the code-emitter: an append-only, ordered buffer
// of assembly-language lines, plus fresh-label counters keyed by
// purpose.
//
// This is deliberately the dumbest possible component - parsing
// productions call Line/Linef to append instructions as they go, and
// the emitter never looks back at what it has already produced.
package emit

import (
	"fmt"
	"strings"
)

// Emitter accumulates FASM-syntax source lines and hands out fresh
// labels on request.
type Emitter struct {
	lines    []string
	counters map[LabelKind]int
}

// New returns an empty Emitter.
func New() *Emitter {
	return &Emitter{counters: make(map[LabelKind]int)}
}

// Line appends a single line of assembly to the buffer verbatim.
func (e *Emitter) Line(s string) {
	e.lines = append(e.lines, s)
}

// Linef appends a formatted line of assembly to the buffer.
func (e *Emitter) Linef(format string, args ...any) {
	e.Line(fmt.Sprintf(format, args...))
}

// Label appends a bare "name:" label line.
func (e *Emitter) Label(name string) {
	e.Line(name + ":")
}

// Comment appends a ";"-prefixed comment line, used to echo the
// original source line of the statement that was just compiled.
func (e *Emitter) Comment(text string) {
	e.Line(";" + text)
}

// NextLabel returns a fresh, uniquely-numbered label name for the
// given purpose, e.g. NextLabel(Else) -> "else_label_1",
// "else_label_2", ...
func (e *Emitter) NextLabel(kind LabelKind) string {
	e.counters[kind]++
	return fmt.Sprintf("%s_%d", kind.name(), e.counters[kind])
}

// String renders the accumulated lines as a newline-separated
// program.
func (e *Emitter) String() string {
	return strings.Join(e.lines, "\n")
}

// Len returns the number of lines emitted so far.
func (e *Emitter) Len() int {
	return len(e.lines)
}
