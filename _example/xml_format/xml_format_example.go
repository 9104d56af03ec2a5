package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/xiam/lispfront"
	"github.com/xiam/lispfront/ast"
)

func printTree(expr ast.Node) {
	printIndentedTree(expr, 0)
}

func printIndentedTree(expr ast.Node, indentationLevel int) {
	indent := strings.Repeat("  ", indentationLevel)

	var (
		attrs    string
		children []ast.Expr
	)

	switch n := expr.(type) {
	case *ast.IntLiteral:
		fmt.Printf("%s<%s>%d</%s>\n", indent, n.Type(), n.Value, n.Type())
		return
	case *ast.StringLiteral:
		fmt.Printf("%s<%s>%s</%s>\n", indent, n.Type(), n.Value, n.Type())
		return
	case *ast.BoolLiteral:
		fmt.Printf("%s<%s>%v</%s>\n", indent, n.Type(), n.Value, n.Type())
		return
	case *ast.Var:
		fmt.Printf("%s<%s name=%q />\n", indent, n.Type(), n.Name)
		return
	case *ast.Def:
		attrs, children = fmt.Sprintf(" name=%q", n.Name), []ast.Expr{n.Value}
	case *ast.Defn:
		attrs = fmt.Sprintf(" name=%q params=%q", n.Name, strings.Join(n.Params, " "))
		children = []ast.Expr{n.Body}
	case *ast.If:
		children = []ast.Expr{n.Cond, n.Then}
		if n.HasElse() {
			children = append(children, n.Else)
		}
	case *ast.Let:
		for _, b := range n.Bindings {
			children = append(children, &ast.Def{Name: b.Name, Value: b.Value})
		}
		children = append(children, n.Body)
	case *ast.Do:
		children = n.Exprs
	case *ast.Call:
		attrs, children = fmt.Sprintf(" func=%q", n.Func), n.Args
	case *ast.Program:
		children = n.Body
	}

	fmt.Printf("%s<%s%s>\n", indent, expr.Type(), attrs)
	for i := range children {
		printIndentedTree(children[i], indentationLevel+1)
	}
	fmt.Printf("%s</%s>\n", indent, expr.Type())
}

func main() {
	input := `(defn fib (n) (if (< n 2) n (+ (fib (- n 1)) (fib (- n 2))))) (print (fib 10))`

	program, err := lispfront.Compile([]byte(input))
	if err != nil {
		log.Fatal("lispfront.Compile:", err)
	}

	printTree(program)
}
