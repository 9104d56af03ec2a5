package builder

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/xiam/lispfront/parser"
)

// ErrorKind classifies lowering errors.
type ErrorKind uint8

// Kinds of lowering errors
const (
	UnknownNodeKind ErrorKind = iota + 1
	MalformedChildren
	DepthExceeded
)

var (
	ErrUnknownNodeKind   = errors.New("unknown node kind")
	ErrMalformedChildren = errors.New("malformed children")
	ErrDepthExceeded     = errors.New("nesting too deep")
)

var errorKinds = map[ErrorKind]error{
	UnknownNodeKind:   ErrUnknownNodeKind,
	MalformedChildren: ErrMalformedChildren,
	DepthExceeded:     ErrDepthExceeded,
}

func (k ErrorKind) String() string {
	if err, ok := errorKinds[k]; ok {
		return err.Error()
	}
	return "unknown builder error"
}

// Error is returned when a parse tree node can't be lowered into an AST
// expression. Err holds the underlying cause, if any.
type Error struct {
	Kind   ErrorKind
	Node   *parser.Node
	Reason string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%v: %v", e.Kind, e.Reason)
	if e.Node != nil {
		msg = fmt.Sprintf("%v: %v node: %s", e.Kind, e.Node.Kind, e.Reason)
		if tok := e.Node.Token(); tok != nil {
			line, col := tok.Pos()
			msg = fmt.Sprintf("%s at %d:%d", msg, line, col)
		}
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return msg
}

// Is matches the sentinel error of the same kind.
func (e *Error) Is(target error) bool {
	return errorKinds[e.Kind] == target
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Cause returns the underlying cause.
func (e *Error) Cause() error {
	return e.Err
}
