package lispfront

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiam/lispfront/ast"
	"github.com/xiam/lispfront/builder"
	"github.com/xiam/lispfront/lexer"
	"github.com/xiam/lispfront/parser"
)

const sample = `
;; greets small and big numbers
(defn hello (n)
  (if (< n 10)
      (print (str "small: " n))
      (print (str "big: " n))))

(def limit 5)
(let (x 1 y "two\n")
  (do
    (hello x)
    (print (list x y (head (list 1 2)) (tail (list 3 4))))))
(hello limit)
`

func TestCompile(t *testing.T) {
	program, err := Compile([]byte(sample))
	require.NoError(t, err)

	expected := &ast.Program{Body: []ast.Expr{
		&ast.Defn{
			Name:   "hello",
			Params: []string{"n"},
			Body: &ast.If{
				Cond: &ast.Call{Func: "<", Args: []ast.Expr{&ast.Var{Name: "n"}, &ast.IntLiteral{Value: 10}}},
				Then: &ast.Call{Func: "print", Args: []ast.Expr{
					&ast.Call{Func: "str", Args: []ast.Expr{&ast.StringLiteral{Value: "small: "}, &ast.Var{Name: "n"}}},
				}},
				Else: &ast.Call{Func: "print", Args: []ast.Expr{
					&ast.Call{Func: "str", Args: []ast.Expr{&ast.StringLiteral{Value: "big: "}, &ast.Var{Name: "n"}}},
				}},
			},
		},
		&ast.Def{Name: "limit", Value: &ast.IntLiteral{Value: 5}},
		&ast.Let{
			Bindings: []ast.Binding{
				{Name: "x", Value: &ast.IntLiteral{Value: 1}},
				{Name: "y", Value: &ast.StringLiteral{Value: "two\n"}},
			},
			Body: &ast.Do{Exprs: []ast.Expr{
				&ast.Call{Func: "hello", Args: []ast.Expr{&ast.Var{Name: "x"}}},
				&ast.Call{Func: "print", Args: []ast.Expr{
					&ast.Call{Func: "list", Args: []ast.Expr{
						&ast.Var{Name: "x"},
						&ast.Var{Name: "y"},
						&ast.Call{Func: "head", Args: []ast.Expr{
							&ast.Call{Func: "list", Args: []ast.Expr{&ast.IntLiteral{Value: 1}, &ast.IntLiteral{Value: 2}}},
						}},
						&ast.Call{Func: "tail", Args: []ast.Expr{
							&ast.Call{Func: "list", Args: []ast.Expr{&ast.IntLiteral{Value: 3}, &ast.IntLiteral{Value: 4}}},
						}},
					}},
				}},
			}},
		},
		&ast.Call{Func: "hello", Args: []ast.Expr{&ast.Var{Name: "limit"}}},
	}}

	if diff := cmp.Diff(expected, program); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileErrors(t *testing.T) {
	testCases := []struct {
		In     string
		Err    error
		Prefix string
	}{
		{`(print "abc`, lexer.ErrUnterminatedString, "lex: "},
		{`(f "\q")`, lexer.ErrInvalidEscape, "lex: "},
		{`{}`, lexer.ErrUnexpectedCharacter, "lex: "},
		{`(if 1)`, parser.ErrArityMismatch, "parse: "},
		{`(do)`, parser.ErrArityMismatch, "parse: "},
		{`(5 1)`, parser.ErrUnexpectedToken, "parse: "},
		{`(def x`, parser.ErrUnexpectedEOF, "parse: "},
		{`(defn f (a b a) a)`, builder.ErrMalformedChildren, "build: "},
		{`99999999999999999999`, builder.ErrMalformedChildren, "build: "},
	}

	for i := range testCases {
		tc := testCases[i]

		program, err := Compile([]byte(tc.In))
		assert.Nil(t, program, tc.In)
		require.Error(t, err, tc.In)

		assert.True(t, errors.Is(err, tc.Err), "%q: %v", tc.In, err)
		assert.True(t, strings.HasPrefix(err.Error(), tc.Prefix), err.Error())
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		sample,
		``,
		`42 "x" true false y`,
		`(if c 1) (if c 1 2)`,
		`(let () 5) (defn f () (g))`,
		`(print "tab\there \"quoted\" back\\slash")`,
		`(- (* 2 3) (/ 8 4)) (= 1 1) (> 2 1) (nth (list 1) 0)`,
	}

	for _, in := range inputs {
		first, err := Compile([]byte(in))
		require.NoError(t, err, in)

		encoded := ast.Encode(first)

		second, err := Compile(encoded)
		require.NoError(t, err, string(encoded))

		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("%q: round trip mismatch (-first +second):\n%s", in, diff)
		}
	}
}

func TestReaderStages(t *testing.T) {
	in := `(def x 5)`

	tokens, err := NewReader(strings.NewReader(in)).Tokens()
	require.NoError(t, err)
	require.Len(t, tokens, 6)
	assert.True(t, tokens[len(tokens)-1].Is(lexer.TokenEOF))

	tree, err := NewReader(strings.NewReader(in)).Tree()
	require.NoError(t, err)
	assert.Equal(t, `Program[ListExpr[DefExpr(x)[IntLiteral(5)]]]`, tree.String())

	program, err := NewReader(strings.NewReader(in)).Read()
	require.NoError(t, err)
	assert.Equal(t, `Program[Def(x, Int(5))]`, program.String())

	_, err = NewReader(strings.NewReader(`"open`)).Tokens()
	require.Error(t, err)
	assert.True(t, errors.Is(err, lexer.ErrUnterminatedString))
	assert.True(t, strings.HasPrefix(err.Error(), "lex: "))

	_, err = NewReader(strings.NewReader(`(def x "open`)).Tree()
	require.Error(t, err)
	assert.True(t, errors.Is(err, lexer.ErrUnterminatedString))
	assert.Equal(t, "lex: unterminated string: string starting at 1:8 is not closed", err.Error())
}

func TestReaderOptions(t *testing.T) {
	deep := strings.Repeat("(f ", 5) + "1" + strings.Repeat(")", 5)

	r := NewReader(strings.NewReader(deep))
	r.SetOptions(Options{MaxDepth: 4})

	_, err := r.Read()
	require.Error(t, err)
	assert.True(t, errors.Is(err, parser.ErrDepthExceeded))

	r = NewReader(strings.NewReader(deep))
	r.SetOptions(Options{MaxDepth: 5})

	program, err := r.Read()
	require.NoError(t, err)
	require.Len(t, program.Body, 1)

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	r = NewReader(bytes.NewReader([]byte(`(f 1)`)))
	r.SetOptions(Options{Logger: logger})

	_, err = r.Read()
	require.NoError(t, err)

	prefixes := map[string]bool{}
	for _, entry := range hook.AllEntries() {
		prefixes[strings.SplitN(entry.Message, ":", 2)[0]] = true
	}
	assert.Equal(t, map[string]bool{"lexer": true, "parser": true, "builder": true}, prefixes)
}
