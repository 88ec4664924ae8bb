package lexer

import (
	"testing"

	"github.com/reardan/w2/token"
)

// Trivial test of scanning a sequence of tokens, checking type,
// literal and the preceded-by-newline flag.
func TestScanSequence(t *testing.T) {
	input := "int x\n= 3 + 4;\nreturn x"

	tests := []struct {
		expectedType      token.Type
		expectedLiteral   string
		expectedPrecededByNewline bool
	}{
		{token.IDENT, "int", false},
		{token.IDENT, "x", false},
		{token.ASSIGN, "=", true},
		{token.NUMBER, "3", false},
		{token.PLUS, "+", false},
		{token.NUMBER, "4", false},
		{token.SEMI, ";", false},
		{token.RETURN, "return", true},
		{token.IDENT, "x", false},
		{token.EOF, "", true},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.Current()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - type wrong, expected=%q, got=%q", i, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong, expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
		if tok.PrecededByNewline != tt.expectedPrecededByNewline {
			t.Fatalf("tests[%d] - preceded-by-newline wrong, expected=%v, got=%v", i, tt.expectedPrecededByNewline, tok.PrecededByNewline)
		}
		l.Advance()
	}
}

// Operators that share the "< = > | & !" class should scan as the
// longest matching run.
func TestScanRelationalOperators(t *testing.T) {
	input := `< <= > >= == != ! &`

	tests := []string{"<", "<=", ">", ">=", "==", "!=", "!", "&"}

	l := New(input)
	for i, expect := range tests {
		if l.TokenString() != expect {
			t.Fatalf("tests[%d] - expected %q, got %q", i, expect, l.TokenString())
		}
		l.Advance()
	}
	if !l.EndOfFile() {
		t.Fatalf("expected EOF after scanning all operators")
	}
}

// A line-comment is discarded entirely, and scanning resumes after it.
func TestLineComment(t *testing.T) {
	input := "3 # this is a comment\n+ 4"

	l := New(input)
	if l.TokenString() != "3" {
		t.Fatalf("expected '3', got %q", l.TokenString())
	}
	l.Advance()
	if l.TokenString() != "+" {
		t.Fatalf("expected '+' after comment, got %q", l.TokenString())
	}
	if !l.PrecededByNewline() {
		t.Fatalf("expected the token after the comment to be preceded by a newline")
	}
}

// A string literal preserves its delimiters in the literal text.
func TestStringLiteral(t *testing.T) {
	l := New(`"hello world"`)
	if l.Current().Type != token.STRING {
		t.Fatalf("expected a STRING token, got %q", l.Current().Type)
	}
	if l.TokenString() != `"hello world"` {
		t.Fatalf("expected delimiters to be preserved, got %q", l.TokenString())
	}
}

// An unterminated string literal is an ERROR token.
func TestUnterminatedString(t *testing.T) {
	l := New(`"hello`)
	if l.Current().Type != token.ERROR {
		t.Fatalf("expected an ERROR token for an unterminated string, got %q", l.Current().Type)
	}
}

// tab_level tracks the count of leading tabs on the current line.
func TestTabLevel(t *testing.T) {
	input := "a\n\t\tb\nc"

	l := New(input)
	if l.TabLevel() != 0 {
		t.Fatalf("expected tab_level 0 on the first line, got %d", l.TabLevel())
	}
	l.Advance()
	if l.TabLevel() != 2 {
		t.Fatalf("expected tab_level 2 on the second line, got %d", l.TabLevel())
	}
	l.Advance()
	if l.TabLevel() != 0 {
		t.Fatalf("expected tab_level 0 on the third line, got %d", l.TabLevel())
	}
}

// accept/peek/expect operate on the current token's literal text.
func TestAcceptExpect(t *testing.T) {
	l := New("foo bar")

	if l.Peek("bar") {
		t.Fatalf("did not expect 'bar' to be peeked when current token is 'foo'")
	}
	if !l.Accept("foo") {
		t.Fatalf("expected to accept 'foo'")
	}
	if err := l.Expect("bar"); err != nil {
		t.Fatalf("expected 'bar' to be accepted, got error: %s", err)
	}
}
