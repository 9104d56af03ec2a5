package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Node is implemented by every AST variant and by Program.
type Node interface {
	Type() ExprType
	String() string
}

// Expr is implemented by every AST variant that may appear as an expression.
// The set of variants is closed. Program is a Node but not an Expr, so it
// can't be nested.
type Expr interface {
	Node

	expr()
}

// IntLiteral is a signed 64-bit integer constant
type IntLiteral struct {
	Value int64
}

// StringLiteral holds the text of a string literal with escape sequences
// already resolved
type StringLiteral struct {
	Value string
}

// BoolLiteral is true or false
type BoolLiteral struct {
	Value bool
}

// Var is a reference to a named binding
type Var struct {
	Name string
}

// Def binds Name to the value of Value
type Def struct {
	Name  string
	Value Expr
}

// Defn defines a named function
type Defn struct {
	Name   string
	Params []string
	Body   Expr
}

// If is a conditional. Else is nil when the branch was omitted.
type If struct {
	Cond Expr
	Then Expr
	Else Expr
}

// Binding is a single name/value pair of a Let
type Binding struct {
	Name  string
	Value Expr
}

// Let introduces Bindings, in order, that are visible in Body
type Let struct {
	Bindings []Binding
	Body     Expr
}

// Do evaluates a non-empty sequence of expressions
type Do struct {
	Exprs []Expr
}

// Call applies Func to Args. Built-in operators and user defined functions
// share this variant.
type Call struct {
	Func string
	Args []Expr
}

// Program is the list of top level expressions of a source text
type Program struct {
	Body []Expr
}

var (
	_ = Expr(&IntLiteral{})
	_ = Expr(&StringLiteral{})
	_ = Expr(&BoolLiteral{})
	_ = Expr(&Var{})
	_ = Expr(&Def{})
	_ = Expr(&Defn{})
	_ = Expr(&If{})
	_ = Expr(&Let{})
	_ = Expr(&Do{})
	_ = Expr(&Call{})

	_ = Node(&Program{})
)

func (*IntLiteral) expr() {}
func (*StringLiteral) expr() {}
func (*BoolLiteral) expr() {}
func (*Var) expr() {}
func (*Def) expr() {}
func (*Defn) expr() {}
func (*If) expr() {}
func (*Let) expr() {}
func (*Do) expr() {}
func (*Call) expr() {}

func (*IntLiteral) Type() ExprType { return TypeInt }
func (*StringLiteral) Type() ExprType { return TypeString }
func (*BoolLiteral) Type() ExprType { return TypeBool }
func (*Var) Type() ExprType { return TypeVar }
func (*Def) Type() ExprType { return TypeDef }
func (*Defn) Type() ExprType { return TypeDefn }
func (*If) Type() ExprType { return TypeIf }
func (*Let) Type() ExprType { return TypeLet }
func (*Do) Type() ExprType { return TypeDo }
func (*Call) Type() ExprType { return TypeCall }
func (*Program) Type() ExprType { return TypeProgram }

// HasElse returns true if the else branch was written
func (n *If) HasElse() bool {
	return n.Else != nil
}

func (n *IntLiteral) String() string {
	return "Int(" + strconv.FormatInt(n.Value, 10) + ")"
}

func (n *StringLiteral) String() string {
	return fmt.Sprintf("String(%q)", n.Value)
}

func (n *BoolLiteral) String() string {
	return "Bool(" + strconv.FormatBool(n.Value) + ")"
}

func (n *Var) String() string {
	return "Var(" + n.Name + ")"
}

func (n *Def) String() string {
	return fmt.Sprintf("Def(%s, %v)", n.Name, exprString(n.Value))
}

func (n *Defn) String() string {
	return fmt.Sprintf("Defn(%s, params=[%s], body=%v)", n.Name, strings.Join(n.Params, ", "), exprString(n.Body))
}

func (n *If) String() string {
	if !n.HasElse() {
		return fmt.Sprintf("If(%v, %v)", exprString(n.Cond), exprString(n.Then))
	}
	return fmt.Sprintf("If(%v, %v, %v)", exprString(n.Cond), exprString(n.Then), exprString(n.Else))
}

func (b Binding) String() string {
	return b.Name + "=" + exprString(b.Value)
}

func (n *Let) String() string {
	bindings := make([]string, 0, len(n.Bindings))
	for i := range n.Bindings {
		bindings = append(bindings, n.Bindings[i].String())
	}
	return fmt.Sprintf("Let([%s], body=%v)", strings.Join(bindings, ", "), exprString(n.Body))
}

func (n *Do) String() string {
	return "Do[" + joinExprs(n.Exprs) + "]"
}

func (n *Call) String() string {
	return fmt.Sprintf("Call(%s, args=[%s])", n.Func, joinExprs(n.Args))
}

func (n *Program) String() string {
	return "Program[" + joinExprs(n.Body) + "]"
}

func exprString(e Expr) string {
	if e == nil {
		return "<nil>"
	}
	return e.String()
}

func joinExprs(exprs []Expr) string {
	s := make([]string, 0, len(exprs))
	for i := range exprs {
		s = append(s, exprString(exprs[i]))
	}
	return strings.Join(s, ", ")
}
