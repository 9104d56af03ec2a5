package parser

import (
	"bytes"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/xiam/lispfront/lexer"
)

// DefaultMaxDepth is the number of nested parenthesized forms accepted when
// Options.MaxDepth is zero.
const DefaultMaxDepth = 1000

// Options configures a Parser.
type Options struct {
	// MaxDepth limits form nesting. Zero means DefaultMaxDepth and a
	// negative value disables the limit.
	MaxDepth int

	// Logger receives debug traces, nil keeps the current logger.
	Logger logrus.FieldLogger
}

// formParser parses the inside of a list expression, starting at the token
// right after "(". It must leave the closing ")" unconsumed.
type formParser func(p *Parser, head *lexer.Token) (*Node, error)

// forms selects a form by the first token after "("; anything else is an
// application.
var forms map[lexer.TokenType]formParser

func init() {
	forms = map[lexer.TokenType]formParser{
		lexer.TokenIf:   parseIfForm,
		lexer.TokenDo:   parseDoForm,
		lexer.TokenDef:  parseDefForm,
		lexer.TokenDefn: parseDefnForm,
		lexer.TokenLet:  parseLetForm,
	}
}

// operators may appear at the head of an application.
var operators = map[lexer.TokenType]bool{
	lexer.TokenPlus:  true,
	lexer.TokenMinus: true,
	lexer.TokenStar:  true,
	lexer.TokenSlash: true,
	lexer.TokenEq:    true,
	lexer.TokenLt:    true,
	lexer.TokenGt:    true,
	lexer.TokenPrint: true,
	lexer.TokenStr:   true,
	lexer.TokenList:  true,
	lexer.TokenNth:   true,
	lexer.TokenHead:  true,
	lexer.TokenTail:  true,
	lexer.TokenIdent: true,
}

var atoms = map[lexer.TokenType]func(*lexer.Token) *Node{
	lexer.TokenInt:    NewIntLiteral,
	lexer.TokenString: NewStringLiteral,
	lexer.TokenBool:   NewBoolLiteral,
	lexer.TokenIdent:  NewIdentifier,
}

// Parser builds a parse tree out of the tokens of a single source text.
type Parser struct {
	lx   *lexer.Lexer
	root *Node
	err  error

	tok *lexer.Token

	depth    int
	maxDepth int

	log logrus.FieldLogger
}

// New creates a parser that reads source text from r.
func New(r io.Reader) *Parser {
	return NewWithLexer(lexer.New(r))
}

// NewWithLexer creates a parser that pulls tokens from lx.
func NewWithLexer(lx *lexer.Lexer) *Parser {
	return &Parser{
		lx:       lx,
		maxDepth: DefaultMaxDepth,
		log:      logrus.StandardLogger(),
	}
}

// SetOptions configures the parser, it must be called before Parse.
func (p *Parser) SetOptions(opts Options) {
	switch {
	case opts.MaxDepth == 0:
		p.maxDepth = DefaultMaxDepth
	case opts.MaxDepth < 0:
		p.maxDepth = 0
	default:
		p.maxDepth = opts.MaxDepth
	}
	if opts.Logger != nil {
		p.log = opts.Logger
		p.lx.SetLogger(opts.Logger)
	}
}

// Parse consumes all tokens and returns a Program node holding the top level
// expressions. The first lexical or grammar error aborts parsing. The input
// is consumed once; later calls return the result of the first one.
func (p *Parser) Parse() (*Node, error) {
	if p.root != nil || p.err != nil {
		return p.root, p.err
	}

	root, err := p.parseProgram()
	if err != nil {
		p.log.WithError(err).Debug("parser: stopped")
		p.err = err
		return nil, err
	}
	p.root = root
	return root, nil
}

// Root returns the tree built by the last successful call to Parse.
func (p *Parser) Root() *Node {
	return p.root
}

func (p *Parser) parseProgram() (*Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}

	exprs := []*Node{}
	for !p.tok.Is(lexer.TokenEOF) {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}

	return NewProgram(exprs...), nil
}

func (p *Parser) advance() error {
	tok, err := p.lx.Next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *Parser) errorf(kind ErrorKind, format string, args ...interface{}) error {
	return &Error{
		Kind:     kind,
		Expected: fmt.Sprintf(format, args...),
		Token:    p.tok,
	}
}

// unexpected reports the current token as out of place, EOF gets its own
// kind.
func (p *Parser) unexpected(format string, args ...interface{}) error {
	if p.tok.Is(lexer.TokenEOF) {
		return p.errorf(UnexpectedEOF, format, args...)
	}
	return p.errorf(UnexpectedToken, format, args...)
}

func (p *Parser) atClose() bool {
	return p.tok.Is(lexer.TokenRParen) || p.tok.Is(lexer.TokenEOF)
}

// expect consumes a token of the given type.
func (p *Parser) expect(tt lexer.TokenType, format string, args ...interface{}) (*lexer.Token, error) {
	if !p.tok.Is(tt) {
		return nil, p.unexpected(format, args...)
	}
	tok := p.tok
	return tok, p.advance()
}

// require is like expect, but a ")" means the form ended too early.
func (p *Parser) require(tt lexer.TokenType, format string, args ...interface{}) (*lexer.Token, error) {
	if p.tok.Is(lexer.TokenRParen) {
		return nil, p.errorf(ArityMismatch, format, args...)
	}
	return p.expect(tt, format, args...)
}

// requireExpr parses a mandatory sub-expression of a form.
func (p *Parser) requireExpr(format string, args ...interface{}) (*Node, error) {
	if p.tok.Is(lexer.TokenRParen) {
		return nil, p.errorf(ArityMismatch, format, args...)
	}
	return p.parseExpr()
}

// closeForm checks that a fixed size form ends here.
func (p *Parser) closeForm(format string, args ...interface{}) error {
	switch {
	case p.tok.Is(lexer.TokenRParen):
		return nil
	case p.tok.Is(lexer.TokenEOF):
		return p.errorf(UnexpectedEOF, "')'")
	}
	return p.errorf(ArityMismatch, format, args...)
}

func (p *Parser) enter() error {
	p.depth++
	if p.maxDepth > 0 && p.depth > p.maxDepth {
		return p.errorf(DepthExceeded, "at most %d nested forms", p.maxDepth)
	}
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

// parseExpr parses an atom or a parenthesized form.
func (p *Parser) parseExpr() (*Node, error) {
	if p.tok.Is(lexer.TokenLParen) {
		return p.parseListExpr()
	}

	newAtom, ok := atoms[p.tok.Type()]
	if !ok {
		return nil, p.unexpected("expression")
	}
	node := newAtom(p.tok)
	return node, p.advance()
}

func (p *Parser) parseListExpr() (*Node, error) {
	open := p.tok
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	if err := p.advance(); err != nil {
		return nil, err
	}

	form, err := p.parseForm()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.TokenRParen, "')'"); err != nil {
		return nil, err
	}
	return NewListExpr(open, form), nil
}

func (p *Parser) parseForm() (*Node, error) {
	head := p.tok

	parse, ok := forms[head.Type()]
	if !ok {
		parse = parseAppForm
	}

	line, col := head.Pos()
	p.log.WithFields(logrus.Fields{
		"line": line,
		"col":  col,
	}).Debugf("parser: %v form", head.Type())

	return parse(p, head)
}

// (if cond then else?)
func parseIfForm(p *Parser, head *lexer.Token) (*Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}

	cond, err := p.requireExpr("condition in if-form")
	if err != nil {
		return nil, err
	}

	then, err := p.requireExpr("then-branch in if-form")
	if err != nil {
		return nil, err
	}

	var els *Node
	if !p.atClose() {
		if els, err = p.parseExpr(); err != nil {
			return nil, err
		}
	}

	if err := p.closeForm("')' after else-branch, if-form takes 2 or 3 expressions"); err != nil {
		return nil, err
	}
	return NewIfExpr(head, cond, then, els), nil
}

// (do expr+)
func parseDoForm(p *Parser, head *lexer.Token) (*Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}

	if p.tok.Is(lexer.TokenRParen) {
		return nil, p.errorf(ArityMismatch, "at least one expression in do-form")
	}

	body := []*Node{}
	for !p.atClose() {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		body = append(body, expr)
	}

	return NewDoExpr(head, body...), nil
}

// (def name value)
func parseDefForm(p *Parser, head *lexer.Token) (*Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}

	name, err := p.require(lexer.TokenIdent, "identifier in def-form")
	if err != nil {
		return nil, err
	}

	value, err := p.requireExpr("value for %q in def-form", name.Text())
	if err != nil {
		return nil, err
	}

	if err := p.closeForm("')' after value, def-form takes a name and one expression"); err != nil {
		return nil, err
	}
	return NewDefExpr(head, name.Text(), value), nil
}

// (defn name (params...) body)
func parseDefnForm(p *Parser, head *lexer.Token) (*Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}

	name, err := p.require(lexer.TokenIdent, "function name in defn-form")
	if err != nil {
		return nil, err
	}

	open, err := p.require(lexer.TokenLParen, "'(' opening the parameters of %q", name.Text())
	if err != nil {
		return nil, err
	}

	params := []*Node{}
	for p.tok.Is(lexer.TokenIdent) {
		params = append(params, NewParam(p.tok))
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(lexer.TokenRParen, "parameter name or ')'"); err != nil {
		return nil, err
	}

	body, err := p.requireExpr("body of %q in defn-form", name.Text())
	if err != nil {
		return nil, err
	}

	if err := p.closeForm("')' after body, defn-form takes a single body expression"); err != nil {
		return nil, err
	}
	return NewDefnExpr(head, name.Text(), NewParamList(open, params...), body), nil
}

// (let (name value ...) body)
func parseLetForm(p *Parser, head *lexer.Token) (*Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}

	open, err := p.require(lexer.TokenLParen, "'(' opening the bindings of let-form")
	if err != nil {
		return nil, err
	}

	bindings := []*Node{}
	for p.tok.Is(lexer.TokenIdent) {
		name := p.tok
		if err := p.advance(); err != nil {
			return nil, err
		}

		value, err := p.requireExpr("value for binding %q", name.Text())
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, NewLetBinding(name, value))
	}

	if _, err := p.expect(lexer.TokenRParen, "binding name or ')'"); err != nil {
		return nil, err
	}

	body, err := p.requireExpr("body in let-form")
	if err != nil {
		return nil, err
	}

	if err := p.closeForm("')' after body, let-form takes a single body expression"); err != nil {
		return nil, err
	}
	return NewLetExpr(head, NewLetBindings(open, bindings...), body), nil
}

// (operator args...)
func parseAppForm(p *Parser, head *lexer.Token) (*Node, error) {
	if !operators[head.Type()] {
		return nil, p.unexpected("operator or function name")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	args := []*Node{}
	for !p.atClose() {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	return NewAppExpr(head, args...), nil
}

// Parse builds the parse tree of the given source text.
func Parse(in []byte) (*Node, error) {
	p := New(bytes.NewReader(in))
	return p.Parse()
}
