package builder

import (
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiam/lispfront/ast"
	"github.com/xiam/lispfront/parser"
)

func build(t *testing.T, in string) (*ast.Program, error) {
	root, err := parser.Parse([]byte(in))
	require.NoError(t, err, in)
	return Build(root)
}

func TestBuildFromSource(t *testing.T) {
	testCases := []struct {
		In  string
		Out *ast.Program
	}{
		{
			In:  ``,
			Out: &ast.Program{Body: []ast.Expr{}},
		},
		{
			In: `(if 1 2)`,
			Out: &ast.Program{Body: []ast.Expr{
				&ast.If{Cond: &ast.IntLiteral{Value: 1}, Then: &ast.IntLiteral{Value: 2}},
			}},
		},
		{
			In: `(if 1 2 3)`,
			Out: &ast.Program{Body: []ast.Expr{
				&ast.If{
					Cond: &ast.IntLiteral{Value: 1},
					Then: &ast.IntLiteral{Value: 2},
					Else: &ast.IntLiteral{Value: 3},
				},
			}},
		},
		{
			In: `(do 1)`,
			Out: &ast.Program{Body: []ast.Expr{
				&ast.Do{Exprs: []ast.Expr{&ast.IntLiteral{Value: 1}}},
			}},
		},
		{
			In: `(def x 5)`,
			Out: &ast.Program{Body: []ast.Expr{
				&ast.Def{Name: "x", Value: &ast.IntLiteral{Value: 5}},
			}},
		},
		{
			In: `(defn f (a b) a)`,
			Out: &ast.Program{Body: []ast.Expr{
				&ast.Defn{Name: "f", Params: []string{"a", "b"}, Body: &ast.Var{Name: "a"}},
			}},
		},
		{
			In: `(let (x 1 y 2) x)`,
			Out: &ast.Program{Body: []ast.Expr{
				&ast.Let{
					Bindings: []ast.Binding{
						{Name: "x", Value: &ast.IntLiteral{Value: 1}},
						{Name: "y", Value: &ast.IntLiteral{Value: 2}},
					},
					Body: &ast.Var{Name: "x"},
				},
			}},
		},
		{
			In: `(let () 5)`,
			Out: &ast.Program{Body: []ast.Expr{
				&ast.Let{Bindings: []ast.Binding{}, Body: &ast.IntLiteral{Value: 5}},
			}},
		},
		{
			In: `(hello 5)`,
			Out: &ast.Program{Body: []ast.Expr{
				&ast.Call{Func: "hello", Args: []ast.Expr{&ast.IntLiteral{Value: 5}}},
			}},
		},
		{
			In: `(+ 1 2)`,
			Out: &ast.Program{Body: []ast.Expr{
				&ast.Call{Func: "+", Args: []ast.Expr{&ast.IntLiteral{Value: 1}, &ast.IntLiteral{Value: 2}}},
			}},
		},
		{
			In: `"a\"b\\c\nd\te\rf" true false x`,
			Out: &ast.Program{Body: []ast.Expr{
				&ast.StringLiteral{Value: "a\"b\\c\nd\te\rf"},
				&ast.BoolLiteral{Value: true},
				&ast.BoolLiteral{Value: false},
				&ast.Var{Name: "x"},
			}},
		},
		{
			In: `(print (str "n=" (nth (list 1 2) 0)))`,
			Out: &ast.Program{Body: []ast.Expr{
				&ast.Call{Func: "print", Args: []ast.Expr{
					&ast.Call{Func: "str", Args: []ast.Expr{
						&ast.StringLiteral{Value: "n="},
						&ast.Call{Func: "nth", Args: []ast.Expr{
							&ast.Call{Func: "list", Args: []ast.Expr{
								&ast.IntLiteral{Value: 1},
								&ast.IntLiteral{Value: 2},
							}},
							&ast.IntLiteral{Value: 0},
						}},
					}},
				}},
			}},
		},
	}

	for i := range testCases {
		program, err := build(t, testCases[i].In)
		require.NoError(t, err, testCases[i].In)

		if diff := cmp.Diff(testCases[i].Out, program); diff != "" {
			t.Errorf("%q: mismatch (-want +got):\n%s", testCases[i].In, diff)
		}
	}
}

func TestBuildString(t *testing.T) {
	testCases := []struct {
		In  string
		Out string
	}{
		{`(def x 5)`, `Program[Def(x, Int(5))]`},
		{`(defn f (a b) a)`, `Program[Defn(f, params=[a, b], body=Var(a))]`},
		{`(let (x 1 y 2) x)`, `Program[Let([x=Int(1), y=Int(2)], body=Var(x))]`},
		{`(if c t)`, `Program[If(Var(c), Var(t))]`},
		{`(do 1 2) (f)`, `Program[Do[Int(1), Int(2)], Call(f, args=[])]`},
	}

	for i := range testCases {
		program, err := build(t, testCases[i].In)
		require.NoError(t, err)
		assert.Equal(t, testCases[i].Out, program.String())
	}
}

func TestIntegerRoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, 42, 1 << 32, 9223372036854775807} {
		program, err := build(t, strconv.FormatInt(n, 10))
		require.NoError(t, err)

		require.Len(t, program.Body, 1)
		assert.Equal(t, &ast.IntLiteral{Value: n}, program.Body[0])
	}
}

func TestIntegerOverflow(t *testing.T) {
	_, err := build(t, `9223372036854775808`)
	require.Error(t, err)

	assert.True(t, errors.Is(err, ErrMalformedChildren))

	var numErr *strconv.NumError
	require.True(t, errors.As(err, &numErr))
	assert.True(t, errors.Is(numErr, strconv.ErrRange))
}

func TestBuildDegenerateRoot(t *testing.T) {
	root := &parser.Node{Kind: parser.KindIntLiteral, Value: "42"}

	program, err := Build(root)
	require.NoError(t, err)
	assert.Equal(t, &ast.Program{Body: []ast.Expr{&ast.IntLiteral{Value: 42}}}, program)

	list := &parser.Node{
		Kind:     parser.KindListExpr,
		Children: []*parser.Node{
			{Kind: parser.KindAppExpr, Value: "hello", Children: []*parser.Node{
				{Kind: parser.KindIntLiteral, Value: "5"},
			}},
		},
	}

	program, err = Build(list)
	require.NoError(t, err)
	assert.Equal(t, `Program[Call(hello, args=[Int(5)])]`, program.String())
}

func TestBuildNoDoubleWrap(t *testing.T) {
	root, err := parser.Parse([]byte(`42`))
	require.NoError(t, err)
	require.Equal(t, parser.KindProgram, root.Kind)

	program, err := Build(root)
	require.NoError(t, err)

	require.Len(t, program.Body, 1)
	assert.Equal(t, &ast.IntLiteral{Value: 42}, program.Body[0])

	empty, err := Build(parser.NewProgram())
	require.NoError(t, err)
	assert.Empty(t, empty.Body)
}

func TestBuildUnknownKind(t *testing.T) {
	testCases := []*parser.Node{
		{Kind: parser.Kind(99)},
		{Kind: parser.KindInvalid},
		parser.NewProgram(&parser.Node{Kind: parser.Kind(200), Value: "x"}),
		parser.NewProgram(&parser.Node{
			Kind:  parser.KindAppExpr,
			Value: "f",
			Children: []*parser.Node{
				{Kind: parser.KindIntLiteral, Value: "1"},
				{Kind: parser.Kind(42)},
			},
		}),
	}

	for i := range testCases {
		program, err := Build(testCases[i])
		assert.Nil(t, program)
		require.Error(t, err)

		assert.True(t, errors.Is(err, ErrUnknownNodeKind), "%v", err)
		assert.False(t, errors.Is(err, ErrMalformedChildren))

		var buildErr *Error
		require.True(t, errors.As(err, &buildErr))
		assert.Equal(t, UnknownNodeKind, buildErr.Kind)
		require.NotNil(t, buildErr.Node)
	}
}

func TestBuildMalformed(t *testing.T) {
	intNode := func(v string) *parser.Node {
		return &parser.Node{Kind: parser.KindIntLiteral, Value: v}
	}
	ident := func(v string) *parser.Node {
		return &parser.Node{Kind: parser.KindIdentifier, Value: v}
	}
	param := func(v string) *parser.Node {
		return &parser.Node{Kind: parser.KindParam, Value: v}
	}

	testCases := []struct {
		Name string
		In   *parser.Node
	}{
		{"nil root", nil},
		{"if with one child", &parser.Node{Kind: parser.KindIfExpr, Children: []*parser.Node{intNode("1")}}},
		{"if with four children", &parser.Node{Kind: parser.KindIfExpr, Children: []*parser.Node{
			intNode("1"), intNode("2"), intNode("3"), intNode("4"),
		}}},
		{"empty do", &parser.Node{Kind: parser.KindDoExpr}},
		{"def without name", &parser.Node{Kind: parser.KindDefExpr, Children: []*parser.Node{intNode("1")}}},
		{"def without value", &parser.Node{Kind: parser.KindDefExpr, Value: "x"}},
		{"defn without param list", &parser.Node{Kind: parser.KindDefnExpr, Value: "f", Children: []*parser.Node{
			ident("a"), ident("a"),
		}}},
		{"defn with duplicate params", &parser.Node{Kind: parser.KindDefnExpr, Value: "f", Children: []*parser.Node{
			{Kind: parser.KindParamList, Children: []*parser.Node{param("a"), param("b"), param("a")}},
			ident("a"),
		}}},
		{"defn with identifier params", &parser.Node{Kind: parser.KindDefnExpr, Value: "f", Children: []*parser.Node{
			{Kind: parser.KindParamList, Children: []*parser.Node{ident("a")}},
			ident("a"),
		}}},
		{"let without bindings", &parser.Node{Kind: parser.KindLetExpr, Children: []*parser.Node{intNode("1")}}},
		{"let binding without value", &parser.Node{Kind: parser.KindLetExpr, Children: []*parser.Node{
			{Kind: parser.KindLetBindings, Children: []*parser.Node{
				{Kind: parser.KindLetBinding, Value: "x"},
			}},
			ident("x"),
		}}},
		{"let with foreign binding", &parser.Node{Kind: parser.KindLetExpr, Children: []*parser.Node{
			{Kind: parser.KindLetBindings, Children: []*parser.Node{ident("x")}},
			ident("x"),
		}}},
		{"empty list", &parser.Node{Kind: parser.KindListExpr}},
		{"call without operator", &parser.Node{Kind: parser.KindAppExpr}},
		{"literal with children", &parser.Node{Kind: parser.KindIntLiteral, Value: "1", Children: []*parser.Node{intNode("2")}}},
		{"non-numeric integer", intNode("12a")},
		{"empty integer", intNode("")},
		{"identifier without name", ident("")},
		{"nested program", parser.NewProgram(parser.NewProgram())},
		{"param as expression", param("a")},
		{"nil child", &parser.Node{Kind: parser.KindDoExpr, Children: []*parser.Node{nil}}},
		{"bad escape", &parser.Node{Kind: parser.KindStringLiteral, Value: `a\qb`}},
		{"trailing backslash", &parser.Node{Kind: parser.KindStringLiteral, Value: `a\`}},
	}

	for i := range testCases {
		tc := testCases[i]

		program, err := Build(tc.In)
		assert.Nil(t, program, tc.Name)
		require.Error(t, err, tc.Name)
		t.Log(err)

		assert.True(t, errors.Is(err, ErrMalformedChildren), "%s: %v", tc.Name, err)
		assert.False(t, errors.Is(err, ErrUnknownNodeKind), tc.Name)
	}
}

func TestBuildErrorPosition(t *testing.T) {
	root := parser.NewProgram(&parser.Node{Kind: parser.KindDoExpr})

	_, err := Build(root)
	require.Error(t, err)
	assert.Equal(t, "malformed children: DoExpr node: expected at least one expression", err.Error())

	tree, err := parser.Parse([]byte(`(defn f (a a) a)`))
	require.NoError(t, err)

	_, err = Build(tree)
	require.Error(t, err)
	assert.Equal(t, `malformed children: Param node: duplicate parameter "a" at 1:12`, err.Error())
}

func nested(depth int) string {
	return strings.Repeat("(f ", depth) + "1" + strings.Repeat(")", depth)
}

func TestBuildMaxDepth(t *testing.T) {
	p := parser.New(strings.NewReader(nested(DefaultMaxDepth + 10)))
	p.SetOptions(parser.Options{MaxDepth: -1})

	root, err := p.Parse()
	require.NoError(t, err)

	_, err = Build(root)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDepthExceeded))

	b := New()
	b.SetOptions(Options{MaxDepth: -1})

	program, err := b.Build(root)
	require.NoError(t, err)
	require.Len(t, program.Body, 1)

	b.SetOptions(Options{MaxDepth: 3})

	root, err = parser.Parse([]byte(`(f (g (h 1))) (f (g (h (i 1))))`))
	require.NoError(t, err)

	_, err = b.Build(root)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDepthExceeded))

	root, err = parser.Parse([]byte(`(f (g (h 1))) (f (g (h 1)))`))
	require.NoError(t, err)

	_, err = b.Build(root)
	require.NoError(t, err)
}

func TestBuildLogger(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	b := New()
	b.SetOptions(Options{Logger: logger})

	_, err := b.Build(&parser.Node{Kind: parser.KindIntLiteral, Value: "1"})
	require.NoError(t, err)

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "builder: wrapping single expression", entries[0].Message)
	assert.Equal(t, "builder: done", entries[1].Message)
	assert.Equal(t, 1, entries[1].Data["exprs"])

	hook.Reset()

	_, err = b.Build(nil)
	require.Error(t, err)
	assert.Equal(t, "builder: stopped", hook.LastEntry().Message)
}

func TestUnescape(t *testing.T) {
	testCases := []struct {
		In  string
		Out string
	}{
		{``, ``},
		{`plain`, `plain`},
		{`a\"b`, `a"b`},
		{`a\\b`, `a\b`},
		{`\\n`, `\n`},
		{`\n\t\r`, "\n\t\r"},
		{`😊\n`, "😊\n"},
		{"raw\nnewline", "raw\nnewline"},
	}

	for i := range testCases {
		out, err := Unescape(testCases[i].In)
		require.NoError(t, err, testCases[i].In)
		assert.Equal(t, testCases[i].Out, out, testCases[i].In)
	}

	for _, in := range []string{`\q`, `abc\`, `\x41`, `\u0041`, `\0`} {
		_, err := Unescape(in)
		require.Error(t, err, in)
		assert.True(t, errors.Is(err, ErrMalformedChildren), in)
	}
}
