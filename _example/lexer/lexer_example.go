package main

import (
	"fmt"
	"log"

	"github.com/xiam/lispfront/lexer"
)

func main() {
	input := `
		;; prints a greeting
		(defn greet (name)
			(print (str "Hello, " name "!\n")))
		(greet "😊")
	`

	tokens, err := lexer.Tokenize([]byte(input))
	if err != nil {
		log.Fatal("lexer.Tokenize:", err)
	}

	for i, tok := range tokens {
		line, col := tok.Pos()
		lexeme := tok.Text()
		tt := tok.Type().String()

		fmt.Printf("token[%d] (type: %v, line: %d, col: %d)\n\t-> %q\n\n", i, tt, line, col, lexeme)
	}
}
