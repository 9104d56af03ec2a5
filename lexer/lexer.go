package lexer

import (
	"bytes"
	"io"
	"text/scanner"

	"github.com/sirupsen/logrus"
)

type lexState func(*Lexer) lexState

var (
	isWhitespace = isClass(classWhitespace)
	isWordStart  = isClass(classWordStart)
	isWordBody   = isClass(classWordBody)
	isDigit      = isClass(classDigit)
)

// New initializes a Lexer object. Tokens are produced on demand by Next; to
// start over create a new Lexer on a fresh reader.
func New(r io.Reader) *Lexer {
	s := &scanner.Scanner{}
	s.Init(r)
	// invalid UTF-8 comes back as utf8.RuneError and is reported by the lexer
	s.Error = func(*scanner.Scanner, string) {}

	return &Lexer{
		in:    s,
		log:   logrus.StandardLogger(),
		state: lexDefaultState,
		buf:   []rune{},
		line:  1,
		col:   1,
	}
}

// Lexer represents a lexical analyzer
type Lexer struct {
	in  *scanner.Scanner
	log logrus.FieldLogger

	state   lexState
	pending []*Token
	eof     *Token
	lastErr error

	buf []rune

	line int
	col  int

	startLine int
	startCol  int
}

// SetLogger replaces the logger used for debug traces.
func (lx *Lexer) SetLogger(l logrus.FieldLogger) {
	if l != nil {
		lx.log = l
	}
}

// Next returns the next token in the input. Once the input is exhausted Next
// keeps returning the EOF token; once an error was found Next keeps
// returning that error.
func (lx *Lexer) Next() (*Token, error) {
	for len(lx.pending) == 0 {
		if lx.state == nil {
			if lx.lastErr != nil {
				return nil, lx.lastErr
			}
			return lx.eof, nil
		}
		lx.state = lx.state(lx)
	}

	tok := lx.pending[0]
	lx.pending = lx.pending[1:]
	return tok, nil
}

func (lx *Lexer) start() {
	lx.startLine, lx.startCol = lx.line, lx.col
	lx.buf = lx.buf[0:0]
}

func (lx *Lexer) emit(tt TokenType) {
	lx.emitText(tt, string(lx.buf))
}

func (lx *Lexer) emitText(tt TokenType, text string) {
	tok := NewToken(tt, text, lx.startLine, lx.startCol)
	if tt == TokenEOF {
		lx.eof = tok
	}
	lx.log.WithFields(logrus.Fields{
		"line": tok.at.Line,
		"col":  tok.at.Col,
	}).Debugf("lexer: %v %q", tt, text)
	lx.pending = append(lx.pending, tok)
}

func (lx *Lexer) peek() rune {
	return lx.in.Peek()
}

func (lx *Lexer) next() (rune, error) {
	r := lx.in.Next()
	if r == scanner.EOF {
		return rune(0), io.EOF
	}

	lx.buf = append(lx.buf, r)
	if r == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	return r, nil
}

func (lx *Lexer) errorf(kind ErrorKind, r rune, line int, col int) lexState {
	return lexStateError(&Error{Kind: kind, Char: r, Line: line, Col: col})
}

func lexDefaultState(lx *Lexer) lexState {
	lx.start()

	r, err := lx.next()
	if err != nil {
		lx.emit(TokenEOF)
		return nil
	}

	switch {
	case isWhitespace(r):
		return lexWhitespace
	case r == ';':
		return lexComment
	case r == '"':
		return lexString
	case isDigit(r):
		return lexCollect(TokenInt, isDigit)
	case isWordStart(r):
		return lexWord
	}

	if tt, ok := operators[r]; ok {
		return lexEmit(tt)
	}
	return lx.errorf(UnexpectedCharacter, r, lx.startLine, lx.startCol)
}

func lexWhitespace(lx *Lexer) lexState {
	for isWhitespace(lx.peek()) {
		if _, err := lx.next(); err != nil {
			return nil
		}
	}
	return lexDefaultState
}

// lexComment skips ";;" up to the end of the line, the newline itself is
// left for lexWhitespace.
func lexComment(lx *Lexer) lexState {
	if lx.peek() != ';' {
		return lx.errorf(UnexpectedCharacter, ';', lx.startLine, lx.startCol)
	}
	for {
		p := lx.peek()
		if p == '\n' || p == scanner.EOF {
			return lexDefaultState
		}
		lx.next()
	}
}

func lexString(lx *Lexer) lexState {
	// drop the opening quote
	lx.buf = lx.buf[0:0]

	for {
		switch p := lx.peek(); p {
		case scanner.EOF:
			return lx.errorf(UnterminatedString, '"', lx.startLine, lx.startCol)

		case '"':
			text := string(lx.buf)
			lx.next()
			lx.emitText(TokenString, text)
			return lexDefaultState

		case '\\':
			line, col := lx.line, lx.col
			lx.next()

			e := lx.peek()
			if e == scanner.EOF {
				return lx.errorf(UnterminatedString, '"', lx.startLine, lx.startCol)
			}
			if _, ok := escapes[e]; !ok {
				return lx.errorf(InvalidEscape, e, line, col)
			}
			lx.next()

		default:
			lx.next()
		}
	}
}

func lexWord(lx *Lexer) lexState {
	for isWordBody(lx.peek()) {
		lx.next()
	}
	return lexEmit(LookupWord(string(lx.buf)))
}

func lexEmit(tt TokenType) lexState {
	return func(lx *Lexer) lexState {
		lx.emit(tt)
		return lexDefaultState
	}
}

func lexCollect(tt TokenType, accept func(rune) bool) lexState {
	return func(lx *Lexer) lexState {
		for accept(lx.peek()) {
			lx.next()
		}
		return lexEmit(tt)
	}
}

func lexStateError(err error) lexState {
	return func(lx *Lexer) lexState {
		lx.log.WithError(err).Debug("lexer: stopped")
		lx.lastErr = err
		return nil
	}
}

// Tokenize takes an array of bytes and returns all the tokens within it,
// ending with an EOF token, or an error if a token can't be identified.
func Tokenize(in []byte) ([]*Token, error) {
	return TokenizeReader(bytes.NewReader(in), nil)
}

// TokenizeReader drains r. A nil logger keeps the default one.
func TokenizeReader(r io.Reader, l logrus.FieldLogger) ([]*Token, error) {
	lx := New(r)
	lx.SetLogger(l)

	tokens := []*Token{}
	for {
		tok, err := lx.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Is(TokenEOF) {
			return tokens, nil
		}
	}
}
