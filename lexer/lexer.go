// Package lexer implements the indentation- and newline-aware
// tokenizer for "W" source files.
//
// Unlike a conventional lexer that hands back a stream of tokens, this
// one keeps a single "current" token as object state — mirroring the
// way the parser consumes it: peek/accept/expect all act on whatever
// token is currently loaded, and Advance replaces it with the next one.
package lexer

import (
	"strings"
	"unicode"

	"github.com/reardan/w2/token"
)

// Lexer holds our object-state.
type Lexer struct {
	position     int    // current character position
	readPosition int    // next character position
	ch           rune   // current character
	characters   []rune // rune slice of input string

	line   int // 1-based line of l.ch
	column int // 1-based column of l.ch

	tabLevel int // count of leading tab characters on the line being scanned

	curLine  []rune // characters of the logical line currently being scanned
	lastLine string // the most recently completed logical line

	started bool // false only before the very first readChar call

	current token.Token
}

// New creates a Lexer over the given source text and loads the first
// token.
func New(input string) *Lexer {
	l := &Lexer{characters: []rune(input), line: 1, column: 1}
	l.readChar()
	l.Advance()
	return l
}

// readChar consumes the current character and loads the next one,
// updating line/column/tab_level bookkeeping as it goes.
func (l *Lexer) readChar() {
	consumed := l.ch

	if l.started {
		if consumed == '\n' {
			l.lastLine = string(l.curLine)
			l.curLine = nil
			l.line++
			l.column = 1
			l.tabLevel = 0
		} else if consumed != 0 {
			if consumed == '\t' && len(l.curLine) == l.tabLevel {
				l.tabLevel++
			}
			l.curLine = append(l.curLine, consumed)
			l.column++
		}
	}
	l.started = true

	if l.readPosition >= len(l.characters) {
		l.ch = rune(0)
	} else {
		l.ch = l.characters[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

// peekChar returns the character after l.ch without consuming it.
func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.characters) {
		return rune(0)
	}
	return l.characters[l.readPosition]
}

// Advance consumes whitespace (tracking PrecededByNewline and
// tab_level as it goes), then scans exactly one token into the
// lexer's current-token slot.
func (l *Lexer) Advance() {
	precededByNewline := false

	for {
		for isWhitespace(l.ch) {
			if l.ch == '\n' {
				precededByNewline = true
			}
			l.readChar()
		}

		if l.ch == '#' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}

		break
	}

	startLine, startColumn := l.line, l.column

	if l.ch == 0 {
		precededByNewline = true
		l.current = token.Token{
			Type:              token.EOF,
			Literal:           "",
			PrecededByNewline: precededByNewline,
			Line:              startLine,
			Column:            startColumn,
		}
		return
	}

	var tok token.Token

	switch {
	case isAlphaNumeric(l.ch):
		lit := l.readRun(isAlphaNumeric)
		if isDigit(rune(lit[0])) {
			tok = token.Token{Type: token.NUMBER, Literal: lit}
		} else {
			tok = token.Token{Type: token.LookupIdentifier(lit), Literal: lit}
		}

	case strings.ContainsRune("<=>|&!", l.ch):
		lit := l.readRun(func(ch rune) bool { return strings.ContainsRune("<=>|&!", ch) })
		tok = token.Token{Type: token.Type(lit), Literal: lit}

	case strings.ContainsRune("+-/%*", l.ch):
		lit := string(l.ch)
		l.readChar()
		tok = token.Token{Type: token.Type(lit), Literal: lit}

	case strings.ContainsRune("()[],:;@^", l.ch):
		lit := string(l.ch)
		l.readChar()
		tok = token.Token{Type: token.Type(lit), Literal: lit}

	case l.ch == '`' || l.ch == '"' || l.ch == '\'':
		tok = l.readString()

	default:
		lit := string(l.ch)
		l.readChar()
		tok = token.Token{Type: token.ERROR, Literal: lit}
	}

	tok.PrecededByNewline = precededByNewline
	tok.Line = startLine
	tok.Column = startColumn
	l.current = tok
}

// readRun reads a maximal run of characters matching pred.
func (l *Lexer) readRun(pred func(rune) bool) string {
	start := l.position
	for pred(l.ch) {
		l.readChar()
	}
	return string(l.characters[start:l.position])
}

// readString reads a string literal, from its opening delimiter
// through (and including) its matching closing delimiter. Escape
// interpretation does not happen here - the literal text, delimiters
// included, is handed to the parser untouched.
func (l *Lexer) readString() token.Token {
	delim := l.ch
	start := l.position
	l.readChar()
	for l.ch != delim && l.ch != 0 {
		if l.ch == '\\' {
			l.readChar()
			if l.ch == 0 {
				break
			}
		}
		l.readChar()
	}
	if l.ch != delim {
		// Ran off the end of the file without finding the matching
		// closing delimiter.
		return token.Token{Type: token.ERROR, Literal: string(l.characters[start:l.position])}
	}
	l.readChar() // consume the closing delimiter
	return token.Token{Type: token.STRING, Literal: string(l.characters[start:l.position])}
}

// Current returns the token currently loaded.
func (l *Lexer) Current() token.Token {
	return l.current
}

// TokenString returns the literal text of the current token.
func (l *Lexer) TokenString() string {
	return l.current.Literal
}

// EndOfFile reports whether the current token is EOF.
func (l *Lexer) EndOfFile() bool {
	return l.current.Type == token.EOF
}

// TabLevel returns the indentation level (count of leading tabs) of
// the line the current token starts on.
func (l *Lexer) TabLevel() int {
	return l.tabLevel
}

// Line returns the 1-based line number of the current token.
func (l *Lexer) Line() int {
	return l.current.Line
}

// Column returns the 1-based column number of the current token.
func (l *Lexer) Column() int {
	return l.current.Column
}

// PrecededByNewline reports whether whitespace containing a newline
// (or EOF) was skipped to reach the current token.
func (l *Lexer) PrecededByNewline() bool {
	return l.current.PrecededByNewline
}

// LastLine returns the most recently completed source line, used for
// the per-statement assembly comment.
func (l *Lexer) LastLine() string {
	if l.ch == 0 && len(l.curLine) > 0 {
		// At EOF the "current" line never saw a trailing newline, so
		// it is the most recently completed one.
		return strings.TrimRight(string(l.curLine), "\r")
	}
	return l.lastLine
}

// Peek reports whether the current token's literal text equals s.
func (l *Lexer) Peek(s string) bool {
	return l.current.Literal == s
}

// Accept consumes the current token and advances if it matches s.
func (l *Lexer) Accept(s string) bool {
	if l.Peek(s) {
		l.Advance()
		return true
	}
	return false
}

// AcceptOrNewline accepts s, or succeeds (without consuming) because
// the current token was already preceded by a newline - used for
// statement terminators.
func (l *Lexer) AcceptOrNewline(s string) bool {
	if l.Accept(s) {
		return true
	}
	return l.current.PrecededByNewline
}

// Expect accepts s or returns a descriptive error.
func (l *Lexer) Expect(s string) error {
	if l.Accept(s) {
		return nil
	}
	return &unexpectedTokenError{expected: s, found: l.current.Literal}
}

// ExpectOrNewline accepts s, or succeeds if a newline already
// terminated the current token, otherwise errors.
func (l *Lexer) ExpectOrNewline(s string) error {
	if l.AcceptOrNewline(s) {
		return nil
	}
	return &unexpectedTokenError{expected: s + `" or newline`, found: l.current.Literal}
}

// ExpectEnd is a synonym for ExpectOrNewline(";") - statements are
// terminated by ";" or a newline.
func (l *Lexer) ExpectEnd() error {
	return l.ExpectOrNewline(";")
}

type unexpectedTokenError struct {
	expected string
	found    string
}

func (e *unexpectedTokenError) Error() string {
	return `"` + e.expected + `" expected, found "` + e.found + `"`
}

func isWhitespace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isAlphaNumeric(ch rune) bool {
	return unicode.IsLetter(ch) || isDigit(ch)
}
