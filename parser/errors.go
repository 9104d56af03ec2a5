package parser

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/xiam/lispfront/lexer"
)

// ErrorKind classifies parser errors.
type ErrorKind uint8

// Kinds of parser errors
const (
	UnexpectedToken ErrorKind = iota + 1
	UnexpectedEOF
	ArityMismatch
	DepthExceeded
)

var (
	ErrUnexpectedToken = errors.New("unexpected token")
	ErrUnexpectedEOF   = errors.New("unexpected EOF")
	ErrArityMismatch   = errors.New("arity mismatch")
	ErrDepthExceeded   = errors.New("nesting too deep")
)

var errorKinds = map[ErrorKind]error{
	UnexpectedToken: ErrUnexpectedToken,
	UnexpectedEOF:   ErrUnexpectedEOF,
	ArityMismatch:   ErrArityMismatch,
	DepthExceeded:   ErrDepthExceeded,
}

func (k ErrorKind) String() string {
	if err, ok := errorKinds[k]; ok {
		return err.Error()
	}
	return "unknown parser error"
}

// Error describes the first grammar violation found in the token stream.
// Expected names the construct the parser was looking for and Token is the
// token it found instead.
type Error struct {
	Kind     ErrorKind
	Expected string
	Token    *lexer.Token
}

func (e *Error) Error() string {
	if e.Token == nil {
		return fmt.Sprintf("%v: expected %s", e.Kind, e.Expected)
	}
	line, col := e.Token.Pos()
	return fmt.Sprintf("%v: expected %s, found %v %q at %d:%d", e.Kind, e.Expected, e.Token.Type(), e.Token.Text(), line, col)
}

// Is matches the sentinel error of the same kind.
func (e *Error) Is(target error) bool {
	return errorKinds[e.Kind] == target
}
