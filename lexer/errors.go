package lexer

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies lexical errors.
type ErrorKind uint8

// Kinds of lexical errors
const (
	UnterminatedString ErrorKind = iota + 1
	InvalidEscape
	UnexpectedCharacter
)

var (
	ErrUnterminatedString  = errors.New("unterminated string")
	ErrInvalidEscape       = errors.New("invalid escape sequence")
	ErrUnexpectedCharacter = errors.New("unexpected character")
)

var errorKinds = map[ErrorKind]error{
	UnterminatedString:  ErrUnterminatedString,
	InvalidEscape:       ErrInvalidEscape,
	UnexpectedCharacter: ErrUnexpectedCharacter,
}

func (k ErrorKind) String() string {
	if err, ok := errorKinds[k]; ok {
		return err.Error()
	}
	return "unknown lexer error"
}

// Error is returned when the input can't be split into tokens. Line and Col
// point at the offending character, or at the opening quote of an
// unterminated string.
type Error struct {
	Kind ErrorKind
	Char rune
	Line int
	Col  int
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnterminatedString:
		return fmt.Sprintf("%v: string starting at %d:%d is not closed", e.Kind, e.Line, e.Col)
	default:
		return fmt.Sprintf("%v: %q at %d:%d", e.Kind, e.Char, e.Line, e.Col)
	}
}

// Is matches the sentinel error of the same kind.
func (e *Error) Is(target error) bool {
	return errorKinds[e.Kind] == target
}
