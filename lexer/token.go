package lexer

import (
	"fmt"
)

// Position is a 1-based line and column in the source text.
type Position struct {
	Line int
	Col  int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Token is a lexeme tagged with its type and the position of its first
// character.
type Token struct {
	kind TokenType
	text string
	at   Position
}

// NewToken creates a token of type tt starting at line and col.
func NewToken(tt TokenType, text string, line int, col int) *Token {
	return &Token{kind: tt, text: text, at: Position{Line: line, Col: col}}
}

// Type returns the token type.
func (t Token) Type() TokenType {
	return t.kind
}

// Pos returns the line and column of the first character.
func (t Token) Pos() (int, int) {
	return t.at.Line, t.at.Col
}

// Position returns the position of the first character.
func (t Token) Position() Position {
	return t.at
}

// Text returns the lexeme. For strings this is the text between the quotes,
// with escape sequences left as written.
func (t Token) Text() string {
	return t.text
}

// Is reports whether the token is of type tt.
func (t Token) Is(tt TokenType) bool {
	return t.kind == tt
}

// String renders the token as TYPE('lexeme')@line:col.
func (t Token) String() string {
	return fmt.Sprintf("%v('%s')@%v", t.kind, t.text, t.at)
}
