package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Print writes a human-readable, indented representation of n to w
func Print(w io.Writer, n Node) error {
	return printLevel(w, n, 0)
}

func printLevel(w io.Writer, e Node, level int) error {
	indent := strings.Repeat("    ", level)

	if e == nil {
		_, err := fmt.Fprintf(w, "%s:nil\n", indent)
		return err
	}

	var (
		label    string
		children []Expr
	)

	switch n := e.(type) {
	case *IntLiteral:
		label = strconv.FormatInt(n.Value, 10)
	case *StringLiteral:
		label = strconv.Quote(n.Value)
	case *BoolLiteral:
		label = strconv.FormatBool(n.Value)
	case *Var:
		label = n.Name
	case *Def:
		label, children = n.Name, []Expr{n.Value}
	case *Defn:
		label, children = fmt.Sprintf("%s [%s]", n.Name, strings.Join(n.Params, " ")), []Expr{n.Body}
	case *If:
		children = []Expr{n.Cond, n.Then}
		if n.HasElse() {
			children = append(children, n.Else)
		}
	case *Let:
		if _, err := fmt.Fprintf(w, "%s(%s)\n", indent, e.Type()); err != nil {
			return err
		}
		for i := range n.Bindings {
			if _, err := fmt.Fprintf(w, "%s    %s =\n", indent, n.Bindings[i].Name); err != nil {
				return err
			}
			if err := printLevel(w, n.Bindings[i].Value, level+2); err != nil {
				return err
			}
		}
		return printLevel(w, n.Body, level+1)
	case *Do:
		children = n.Exprs
	case *Call:
		label, children = n.Func, n.Args
	case *Program:
		children = n.Body
	default:
		return errors.Errorf("unknown expression type %T", e)
	}

	line := fmt.Sprintf("%s(%s)", indent, e.Type())
	if label != "" {
		line += ": " + label
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}

	for i := range children {
		if err := printLevel(w, children[i], level+1); err != nil {
			return err
		}
	}
	return nil
}

// Encode transforms a node back into source text. Encoding a Program and
// compiling the result yields an equal Program.
func Encode(n Node) []byte {
	return []byte(encode(n))
}

func encode(e Node) string {
	switch n := e.(type) {
	case nil:
		return ""
	case *IntLiteral:
		return strconv.FormatInt(n.Value, 10)
	case *StringLiteral:
		return Quote(n.Value)
	case *BoolLiteral:
		return strconv.FormatBool(n.Value)
	case *Var:
		return n.Name
	case *Def:
		return fmt.Sprintf("(def %s %s)", n.Name, encode(n.Value))
	case *Defn:
		return fmt.Sprintf("(defn %s (%s) %s)", n.Name, strings.Join(n.Params, " "), encode(n.Body))
	case *If:
		if !n.HasElse() {
			return fmt.Sprintf("(if %s %s)", encode(n.Cond), encode(n.Then))
		}
		return fmt.Sprintf("(if %s %s %s)", encode(n.Cond), encode(n.Then), encode(n.Else))
	case *Let:
		bindings := make([]string, 0, len(n.Bindings))
		for i := range n.Bindings {
			bindings = append(bindings, n.Bindings[i].Name+" "+encode(n.Bindings[i].Value))
		}
		return fmt.Sprintf("(let (%s) %s)", strings.Join(bindings, " "), encode(n.Body))
	case *Do:
		return "(do " + encodeList(n.Exprs, " ") + ")"
	case *Call:
		if len(n.Args) == 0 {
			return "(" + n.Func + ")"
		}
		return "(" + n.Func + " " + encodeList(n.Args, " ") + ")"
	case *Program:
		return encodeList(n.Body, "\n")
	}
	panic(fmt.Sprintf("unknown expression type %T", e))
}

func encodeList(exprs []Expr, sep string) string {
	s := make([]string, 0, len(exprs))
	for i := range exprs {
		s = append(s, encode(exprs[i]))
	}
	return strings.Join(s, sep)
}

var quoted = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\t", `\t`,
	"\r", `\r`,
)

// Quote returns s as a string literal, escaping backslashes, double quotes,
// newlines, tabs and carriage returns.
func Quote(s string) string {
	return `"` + quoted.Replace(s) + `"`
}
