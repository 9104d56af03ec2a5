package parser

import (
	"fmt"
	"strings"

	"github.com/xiam/lispfront/lexer"
)

// Kind is the grammar production a parse tree node was built from.
type Kind uint8

// Node kinds
const (
	KindInvalid Kind = iota

	KindProgram

	KindIntLiteral
	KindStringLiteral
	KindBoolLiteral
	KindIdentifier

	KindListExpr
	KindIfExpr
	KindDoExpr
	KindDefExpr
	KindDefnExpr
	KindParamList
	KindParam
	KindLetExpr
	KindLetBindings
	KindLetBinding
	KindAppExpr
)

var kindNames = map[Kind]string{
	KindProgram:       "Program",
	KindIntLiteral:    "IntLiteral",
	KindStringLiteral: "StringLiteral",
	KindBoolLiteral:   "BoolLiteral",
	KindIdentifier:    "Identifier",
	KindListExpr:      "ListExpr",
	KindIfExpr:        "IfExpr",
	KindDoExpr:        "DoExpr",
	KindDefExpr:       "DefExpr",
	KindDefnExpr:      "DefnExpr",
	KindParamList:     "ParamList",
	KindParam:         "Param",
	KindLetExpr:       "LetExpr",
	KindLetBindings:   "LetBindings",
	KindLetBinding:    "LetBinding",
	KindAppExpr:       "AppExpr",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsLeaf returns true for kinds that carry a value and never have children.
func (k Kind) IsLeaf() bool {
	switch k {
	case KindIntLiteral, KindStringLiteral, KindBoolLiteral, KindIdentifier, KindParam:
		return true
	}
	return false
}

// Node is a parse tree node. The number and meaning of its children is fixed
// by its Kind:
//
//	Program       -           expr*
//	IntLiteral    digits      -
//	StringLiteral raw text    -
//	BoolLiteral   true|false  -
//	Identifier    name        -
//	ListExpr      -           form
//	IfExpr        -           cond then else?
//	DoExpr        -           expr+
//	DefExpr       name        value
//	DefnExpr      name        ParamList body
//	ParamList     -           Param*
//	Param         name        -
//	LetExpr       -           LetBindings body
//	LetBindings   -           LetBinding*
//	LetBinding    name        value
//	AppExpr       operator    expr*
//
// The constructors below only build well formed nodes; trees assembled by
// hand are checked when they are lowered.
type Node struct {
	Kind     Kind
	Value    string
	Children []*Node

	tok *lexer.Token
}

// Token returns the token the node starts at, nil for nodes built by hand.
func (n *Node) Token() *lexer.Token {
	return n.tok
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}

	var b strings.Builder
	b.WriteString(n.Kind.String())

	switch {
	case n.Kind == KindStringLiteral:
		fmt.Fprintf(&b, "(%q)", n.Value)
	case n.Kind.IsLeaf() || n.Value != "":
		fmt.Fprintf(&b, "(%s)", n.Value)
	}

	if !n.Kind.IsLeaf() {
		children := make([]string, 0, len(n.Children))
		for i := range n.Children {
			children = append(children, n.Children[i].String())
		}
		fmt.Fprintf(&b, "[%s]", strings.Join(children, " "))
	}

	return b.String()
}

func newNode(kind Kind, tok *lexer.Token, value string, children ...*Node) *Node {
	if children == nil {
		children = []*Node{}
	}
	return &Node{
		Kind:     kind,
		Value:    value,
		Children: children,
		tok:      tok,
	}
}

// NewProgram creates the root node holding all top level expressions.
func NewProgram(exprs ...*Node) *Node {
	return newNode(KindProgram, nil, "", exprs...)
}

// NewIntLiteral creates an integer literal from an INT token.
func NewIntLiteral(tok *lexer.Token) *Node {
	return newNode(KindIntLiteral, tok, tok.Text())
}

// NewStringLiteral creates a string literal from a STRING token. The value
// keeps escape sequences as written.
func NewStringLiteral(tok *lexer.Token) *Node {
	return newNode(KindStringLiteral, tok, tok.Text())
}

// NewBoolLiteral creates a boolean literal from a BOOL token.
func NewBoolLiteral(tok *lexer.Token) *Node {
	return newNode(KindBoolLiteral, tok, tok.Text())
}

// NewIdentifier creates a variable reference from an IDENT token.
func NewIdentifier(tok *lexer.Token) *Node {
	return newNode(KindIdentifier, tok, tok.Text())
}

// NewListExpr wraps the form found between a pair of parentheses.
func NewListExpr(open *lexer.Token, form *Node) *Node {
	return newNode(KindListExpr, open, "", form)
}

// NewIfExpr creates a conditional, els may be nil.
func NewIfExpr(tok *lexer.Token, cond, then, els *Node) *Node {
	if els == nil {
		return newNode(KindIfExpr, tok, "", cond, then)
	}
	return newNode(KindIfExpr, tok, "", cond, then, els)
}

// NewDoExpr creates a sequence of expressions.
func NewDoExpr(tok *lexer.Token, body ...*Node) *Node {
	return newNode(KindDoExpr, tok, "", body...)
}

// NewDefExpr binds name to value.
func NewDefExpr(tok *lexer.Token, name string, value *Node) *Node {
	return newNode(KindDefExpr, tok, name, value)
}

// NewDefnExpr defines a named function.
func NewDefnExpr(tok *lexer.Token, name string, params *Node, body *Node) *Node {
	return newNode(KindDefnExpr, tok, name, params, body)
}

// NewParamList groups the parameters of a defn form.
func NewParamList(tok *lexer.Token, params ...*Node) *Node {
	return newNode(KindParamList, tok, "", params...)
}

// NewParam creates a parameter from an IDENT token.
func NewParam(tok *lexer.Token) *Node {
	return newNode(KindParam, tok, tok.Text())
}

// NewLetExpr creates a let form from its bindings and body.
func NewLetExpr(tok *lexer.Token, bindings *Node, body *Node) *Node {
	return newNode(KindLetExpr, tok, "", bindings, body)
}

// NewLetBindings groups the bindings of a let form, in declaration order.
func NewLetBindings(tok *lexer.Token, bindings ...*Node) *Node {
	return newNode(KindLetBindings, tok, "", bindings...)
}

// NewLetBinding binds the name in tok to value.
func NewLetBinding(tok *lexer.Token, value *Node) *Node {
	return newNode(KindLetBinding, tok, tok.Text(), value)
}

// NewAppExpr applies the operator in tok to args.
func NewAppExpr(tok *lexer.Token, args ...*Node) *Node {
	return newNode(KindAppExpr, tok, tok.Text(), args...)
}
