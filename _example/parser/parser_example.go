package main

import (
	"fmt"
	"log"
	"os"

	"github.com/xiam/lispfront/ast"
	"github.com/xiam/lispfront/builder"
	"github.com/xiam/lispfront/lexer"
	"github.com/xiam/lispfront/parser"
)

func main() {
	input := `(let (x 1 y 2) (if (< x y) (print "less") (print "more")))`

	root, err := parser.Parse([]byte(input))
	if err != nil {
		log.Fatal("parser.Parse:", err)
	}
	fmt.Println(root)

	program, err := builder.Build(root)
	if err != nil {
		log.Fatal("builder.Build:", err)
	}
	if err := ast.Print(os.Stdout, program); err != nil {
		log.Fatal("ast.Print:", err)
	}

	// trees can also be assembled by hand: (hello 5)
	hello := parser.NewProgram(
		parser.NewListExpr(
			lexer.NewToken(lexer.TokenLParen, "(", 1, 1),
			parser.NewAppExpr(
				lexer.NewToken(lexer.TokenIdent, "hello", 1, 2),
				parser.NewIntLiteral(lexer.NewToken(lexer.TokenInt, "5", 1, 8)),
			),
		),
	)

	program, err = builder.Build(hello)
	if err != nil {
		log.Fatal("builder.Build:", err)
	}
	fmt.Println(program)
}
