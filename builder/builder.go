// Package builder lowers the parse trees built by package parser into typed
// ast expressions.
package builder

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/xiam/lispfront/ast"
	"github.com/xiam/lispfront/parser"
)

// DefaultMaxDepth matches the nesting accepted by the parser.
const DefaultMaxDepth = parser.DefaultMaxDepth

// Options configures a Builder.
type Options struct {
	// MaxDepth limits how many forms can be nested. Zero means
	// DefaultMaxDepth and a negative value disables the limit.
	MaxDepth int

	// Logger receives debug traces, nil keeps the current logger.
	Logger logrus.FieldLogger
}

// Builder turns parse trees into ast.Program values. A Builder may be reused
// but not shared between goroutines.
type Builder struct {
	depth    int
	maxDepth int

	log logrus.FieldLogger
}

// New creates a builder with default options.
func New() *Builder {
	return &Builder{
		maxDepth: DefaultMaxDepth,
		log:      logrus.StandardLogger(),
	}
}

// SetOptions configures the builder.
func (b *Builder) SetOptions(opts Options) {
	switch {
	case opts.MaxDepth == 0:
		b.maxDepth = DefaultMaxDepth
	case opts.MaxDepth < 0:
		b.maxDepth = 0
	default:
		b.maxDepth = opts.MaxDepth
	}
	if opts.Logger != nil {
		b.log = opts.Logger
	}
}

// Build lowers root into a Program. A root that is not a Program node is
// lowered as the only expression of a new Program.
func (b *Builder) Build(root *parser.Node) (*ast.Program, error) {
	b.depth = 0

	program, err := b.buildRoot(root)
	if err != nil {
		b.log.WithError(err).Debug("builder: stopped")
		return nil, err
	}

	b.log.WithField("exprs", len(program.Body)).Debug("builder: done")
	return program, nil
}

func (b *Builder) buildRoot(root *parser.Node) (*ast.Program, error) {
	if root == nil {
		return nil, malformed(nil, "missing root node")
	}

	if root.Kind != parser.KindProgram {
		b.log.WithField("kind", root.Kind).Debug("builder: wrapping single expression")

		expr, err := b.buildExpr(root)
		if err != nil {
			return nil, err
		}
		return &ast.Program{Body: []ast.Expr{expr}}, nil
	}

	body, err := b.buildList(root.Children)
	if err != nil {
		return nil, err
	}
	return &ast.Program{Body: body}, nil
}

func (b *Builder) buildList(nodes []*parser.Node) ([]ast.Expr, error) {
	exprs := make([]ast.Expr, 0, len(nodes))
	for i := range nodes {
		expr, err := b.buildExpr(nodes[i])
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

func (b *Builder) enter(n *parser.Node) error {
	b.depth++
	if b.maxDepth > 0 && b.depth > b.maxDepth {
		return &Error{
			Kind:   DepthExceeded,
			Node:   n,
			Reason: fmt.Sprintf("more than %d nested forms", b.maxDepth),
		}
	}
	return nil
}

func (b *Builder) leave() {
	b.depth--
}

func isForm(k parser.Kind) bool {
	switch k {
	case parser.KindIfExpr, parser.KindDoExpr, parser.KindDefExpr,
		parser.KindDefnExpr, parser.KindLetExpr, parser.KindAppExpr:
		return true
	}
	return false
}

// buildExpr lowers any node that may appear in expression position.
func (b *Builder) buildExpr(n *parser.Node) (ast.Expr, error) {
	if n == nil {
		return nil, malformed(nil, "missing expression")
	}

	if isForm(n.Kind) {
		if err := b.enter(n); err != nil {
			return nil, err
		}
		defer b.leave()
	}

	switch n.Kind {
	case parser.KindIntLiteral:
		return buildInt(n)

	case parser.KindStringLiteral:
		return buildString(n)

	case parser.KindBoolLiteral:
		if err := checkLeaf(n); err != nil {
			return nil, err
		}
		return &ast.BoolLiteral{Value: n.Value == "true"}, nil

	case parser.KindIdentifier:
		if err := checkName(n); err != nil {
			return nil, err
		}
		return &ast.Var{Name: n.Value}, nil

	case parser.KindListExpr:
		if len(n.Children) != 1 {
			return nil, malformed(n, "expected exactly one form, got %d", len(n.Children))
		}
		return b.buildExpr(n.Children[0])

	case parser.KindIfExpr:
		return b.buildIf(n)

	case parser.KindDoExpr:
		return b.buildDo(n)

	case parser.KindDefExpr:
		return b.buildDef(n)

	case parser.KindDefnExpr:
		return b.buildDefn(n)

	case parser.KindLetExpr:
		return b.buildLet(n)

	case parser.KindAppExpr:
		return b.buildCall(n)

	case parser.KindProgram:
		return nil, malformed(n, "a program can only appear at the root")

	case parser.KindParamList, parser.KindParam, parser.KindLetBindings, parser.KindLetBinding:
		return nil, malformed(n, "not an expression")
	}

	return nil, &Error{
		Kind:   UnknownNodeKind,
		Node:   n,
		Reason: fmt.Sprintf("no lowering for %v", n.Kind),
	}
}

func buildInt(n *parser.Node) (ast.Expr, error) {
	if err := checkLeaf(n); err != nil {
		return nil, err
	}

	v, err := strconv.ParseInt(n.Value, 10, 64)
	if err != nil {
		return nil, &Error{
			Kind:   MalformedChildren,
			Node:   n,
			Reason: fmt.Sprintf("invalid integer %q", n.Value),
			Err:    err,
		}
	}
	return &ast.IntLiteral{Value: v}, nil
}

func buildString(n *parser.Node) (ast.Expr, error) {
	if err := checkLeaf(n); err != nil {
		return nil, err
	}

	s, err := Unescape(n.Value)
	if err != nil {
		if e, ok := err.(*Error); ok {
			e.Node = n
		}
		return nil, err
	}
	return &ast.StringLiteral{Value: s}, nil
}

func (b *Builder) buildIf(n *parser.Node) (ast.Expr, error) {
	if l := len(n.Children); l != 2 && l != 3 {
		return nil, malformed(n, "expected 2 or 3 children, got %d", l)
	}

	exprs, err := b.buildList(n.Children)
	if err != nil {
		return nil, err
	}

	expr := &ast.If{Cond: exprs[0], Then: exprs[1]}
	if len(exprs) == 3 {
		expr.Else = exprs[2]
	}
	return expr, nil
}

func (b *Builder) buildDo(n *parser.Node) (ast.Expr, error) {
	if len(n.Children) < 1 {
		return nil, malformed(n, "expected at least one expression")
	}

	exprs, err := b.buildList(n.Children)
	if err != nil {
		return nil, err
	}
	return &ast.Do{Exprs: exprs}, nil
}

func (b *Builder) buildDef(n *parser.Node) (ast.Expr, error) {
	if err := checkName(n); err != nil {
		return nil, err
	}
	if len(n.Children) != 1 {
		return nil, malformed(n, "expected exactly one value, got %d", len(n.Children))
	}

	value, err := b.buildExpr(n.Children[0])
	if err != nil {
		return nil, err
	}
	return &ast.Def{Name: n.Value, Value: value}, nil
}

func (b *Builder) buildDefn(n *parser.Node) (ast.Expr, error) {
	if err := checkName(n); err != nil {
		return nil, err
	}
	if len(n.Children) != 2 {
		return nil, malformed(n, "expected a parameter list and a body, got %d children", len(n.Children))
	}

	params, err := buildParams(n.Children[0])
	if err != nil {
		return nil, err
	}

	body, err := b.buildExpr(n.Children[1])
	if err != nil {
		return nil, err
	}
	return &ast.Defn{Name: n.Value, Params: params, Body: body}, nil
}

func buildParams(n *parser.Node) ([]string, error) {
	if n == nil || n.Kind != parser.KindParamList {
		return nil, malformed(n, "expected %v", parser.KindParamList)
	}

	seen := make(map[string]bool, len(n.Children))
	params := make([]string, 0, len(n.Children))
	for _, param := range n.Children {
		if param == nil || param.Kind != parser.KindParam {
			return nil, malformed(n, "expected %v children only", parser.KindParam)
		}
		if err := checkName(param); err != nil {
			return nil, err
		}
		if seen[param.Value] {
			return nil, malformed(param, "duplicate parameter %q", param.Value)
		}
		seen[param.Value] = true
		params = append(params, param.Value)
	}
	return params, nil
}

func (b *Builder) buildLet(n *parser.Node) (ast.Expr, error) {
	if len(n.Children) != 2 {
		return nil, malformed(n, "expected bindings and a body, got %d children", len(n.Children))
	}

	list := n.Children[0]
	if list == nil || list.Kind != parser.KindLetBindings {
		return nil, malformed(list, "expected %v", parser.KindLetBindings)
	}

	bindings := make([]ast.Binding, 0, len(list.Children))
	for _, binding := range list.Children {
		if binding == nil || binding.Kind != parser.KindLetBinding {
			return nil, malformed(list, "expected %v children only", parser.KindLetBinding)
		}
		if err := checkName(binding); err != nil {
			return nil, err
		}
		if len(binding.Children) != 1 {
			return nil, malformed(binding, "expected exactly one value, got %d", len(binding.Children))
		}

		value, err := b.buildExpr(binding.Children[0])
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, ast.Binding{Name: binding.Value, Value: value})
	}

	body, err := b.buildExpr(n.Children[1])
	if err != nil {
		return nil, err
	}
	return &ast.Let{Bindings: bindings, Body: body}, nil
}

func (b *Builder) buildCall(n *parser.Node) (ast.Expr, error) {
	if n.Value == "" {
		return nil, malformed(n, "missing operator")
	}

	args, err := b.buildList(n.Children)
	if err != nil {
		return nil, err
	}
	return &ast.Call{Func: n.Value, Args: args}, nil
}

func checkLeaf(n *parser.Node) error {
	if len(n.Children) > 0 {
		return malformed(n, "literal with %d children", len(n.Children))
	}
	return nil
}

func checkName(n *parser.Node) error {
	if n.Value == "" {
		return malformed(n, "missing name")
	}
	if n.Kind.IsLeaf() {
		return checkLeaf(n)
	}
	return nil
}

func malformed(n *parser.Node, format string, args ...interface{}) error {
	return &Error{
		Kind:   MalformedChildren,
		Node:   n,
		Reason: fmt.Sprintf(format, args...),
	}
}

// Build lowers root using a builder with default options.
func Build(root *parser.Node) (*ast.Program, error) {
	return New().Build(root)
}
