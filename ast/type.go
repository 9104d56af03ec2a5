package ast

// ExprType represents the variant of an AST expression
type ExprType uint16

// Expression types
const (
	exprTypeLiteral ExprType = 128
	exprTypeForm    ExprType = 256

	TypeInt    = exprTypeLiteral | 1
	TypeString = exprTypeLiteral | 2
	TypeBool   = exprTypeLiteral | 4

	TypeVar ExprType = 8

	TypeDef  = exprTypeForm | 1
	TypeDefn = exprTypeForm | 2
	TypeIf   = exprTypeForm | 4
	TypeLet  = exprTypeForm | 8
	TypeDo   = exprTypeForm | 16
	TypeCall = exprTypeForm | 32

	TypeProgram ExprType = 512
)

func (et ExprType) String() string {
	s, ok := exprTypeName[et]
	if ok {
		return s
	}
	return ""
}

// IsLiteral returns true for integer, string and boolean literals
func (et ExprType) IsLiteral() bool {
	return et&exprTypeLiteral > 0
}

// IsForm returns true for expressions that were written in parentheses
func (et ExprType) IsForm() bool {
	return et&exprTypeForm > 0
}

var exprTypeName = map[ExprType]string{
	TypeInt:     "int",
	TypeString:  "string",
	TypeBool:    "bool",
	TypeVar:     "var",
	TypeDef:     "def",
	TypeDefn:    "defn",
	TypeIf:      "if",
	TypeLet:     "let",
	TypeDo:      "do",
	TypeCall:    "call",
	TypeProgram: "program",
}
