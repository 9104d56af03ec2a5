// Package lispfront turns the source text of a small Lisp dialect into a
// typed abstract syntax tree. It chains three stages: lexer, parser and
// builder, and stops at the first error of any of them.
package lispfront

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/xiam/lispfront/ast"
	"github.com/xiam/lispfront/builder"
	"github.com/xiam/lispfront/lexer"
	"github.com/xiam/lispfront/parser"
)

// DefaultMaxDepth is the nesting limit used when Options.MaxDepth is zero.
const DefaultMaxDepth = parser.DefaultMaxDepth

// Options configures every stage of a Reader.
type Options struct {
	// MaxDepth limits form nesting. Zero means DefaultMaxDepth and a
	// negative value disables the limit.
	MaxDepth int

	// Logger receives debug traces of all stages.
	Logger logrus.FieldLogger
}

// Reader compiles source text read from an io.Reader. Each Reader consumes
// its input once.
type Reader struct {
	r    io.Reader
	opts Options
}

// NewReader creates a Reader with default options.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		r: r,
		opts: Options{
			Logger: logrus.StandardLogger(),
		},
	}
}

// SetOptions configures the reader.
func (r *Reader) SetOptions(opts Options) {
	if opts.Logger == nil {
		opts.Logger = r.opts.Logger
	}
	r.opts = opts
}

// Tokens runs the lexer only and returns all tokens, EOF included.
func (r *Reader) Tokens() ([]*lexer.Token, error) {
	tokens, err := lexer.TokenizeReader(r.r, r.opts.Logger)
	if err != nil {
		return nil, errors.Wrap(err, "lex")
	}
	return tokens, nil
}

// Tree runs the lexer and the parser and returns the parse tree. Errors
// raised while scanning are prefixed with "lex" even though the parser pulls
// the tokens.
func (r *Reader) Tree() (*parser.Node, error) {
	p := parser.New(r.r)
	p.SetOptions(parser.Options{
		MaxDepth: r.opts.MaxDepth,
		Logger:   r.opts.Logger,
	})

	root, err := p.Parse()
	if err != nil {
		var lexErr *lexer.Error
		if errors.As(err, &lexErr) {
			return nil, errors.Wrap(err, "lex")
		}
		return nil, errors.Wrap(err, "parse")
	}
	return root, nil
}

// Read runs the whole pipeline and returns the program.
func (r *Reader) Read() (*ast.Program, error) {
	root, err := r.Tree()
	if err != nil {
		return nil, err
	}

	b := builder.New()
	b.SetOptions(builder.Options{
		MaxDepth: r.opts.MaxDepth,
		Logger:   r.opts.Logger,
	})

	program, err := b.Build(root)
	if err != nil {
		return nil, errors.Wrap(err, "build")
	}
	return program, nil
}

// Compile reads a whole program from in.
func Compile(in []byte) (*ast.Program, error) {
	return NewReader(bytes.NewReader(in)).Read()
}
