package lexer

// TokenType represents all the possible types of a lexical unit
type TokenType uint8

// List of types of lexical units
const (
	TokenInvalid TokenType = iota

	TokenLParen // Open parenthesis: "("
	TokenRParen // Close parenthesis: ")"

	TokenPlus  // "+"
	TokenMinus // "-"
	TokenStar  // "*"
	TokenSlash // "/"
	TokenEq    // "="
	TokenLt    // "<"
	TokenGt    // ">"

	TokenIf    // if
	TokenDo    // do
	TokenDef   // def
	TokenDefn  // defn
	TokenLet   // let
	TokenPrint // print
	TokenStr   // str
	TokenList  // list
	TokenNth   // nth
	TokenHead  // head
	TokenTail  // tail

	TokenInt    // Digits: [0-9]+
	TokenString // Double quoted text
	TokenBool   // true, false
	TokenIdent  // [a-zA-Z_][a-zA-Z0-9_]*

	TokenEOF // End of file
)

var tokenNames = map[TokenType]string{
	TokenInvalid: "INVALID",
	TokenLParen:  "LPAREN",
	TokenRParen:  "RPAREN",
	TokenPlus:    "PLUS",
	TokenMinus:   "MINUS",
	TokenStar:    "STAR",
	TokenSlash:   "SLASH",
	TokenEq:      "EQ",
	TokenLt:      "LT",
	TokenGt:      "GT",
	TokenIf:      "IF",
	TokenDo:      "DO",
	TokenDef:     "DEF",
	TokenDefn:    "DEFN",
	TokenLet:     "LET",
	TokenPrint:   "PRINT",
	TokenStr:     "STR",
	TokenList:    "LIST",
	TokenNth:     "NTH",
	TokenHead:    "HEAD",
	TokenTail:    "TAIL",
	TokenInt:     "INT",
	TokenString:  "STRING",
	TokenBool:    "BOOL",
	TokenIdent:   "IDENT",
	TokenEOF:     "EOF",
}

func (tt TokenType) String() string {
	if v, ok := tokenNames[tt]; ok {
		return v
	}
	return tokenNames[TokenInvalid]
}

// keywords maps reserved words to their token type. A scanned word that is
// not in this map is an identifier.
var keywords = map[string]TokenType{
	"if":    TokenIf,
	"do":    TokenDo,
	"def":   TokenDef,
	"defn":  TokenDefn,
	"let":   TokenLet,
	"print": TokenPrint,
	"str":   TokenStr,
	"list":  TokenList,
	"nth":   TokenNth,
	"head":  TokenHead,
	"tail":  TokenTail,
	"true":  TokenBool,
	"false": TokenBool,
}

// LookupWord returns the keyword type for word, or TokenIdent.
func LookupWord(word string) TokenType {
	if tt, ok := keywords[word]; ok {
		return tt
	}
	return TokenIdent
}

// operators maps single character operators and delimiters to their type.
var operators = map[rune]TokenType{
	'(': TokenLParen,
	')': TokenRParen,
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenStar,
	'/': TokenSlash,
	'=': TokenEq,
	'<': TokenLt,
	'>': TokenGt,
}

type runeClass uint8

const (
	classWhitespace runeClass = iota
	classWordStart
	classWordBody
	classDigit
)

var classValues = map[runeClass][]rune{
	classWhitespace: []rune(" \t\r\n"),
	classWordStart:  []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_"),
	classWordBody:   []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_0123456789"),
	classDigit:      []rune("0123456789"),
}

func isClass(c runeClass) func(r rune) bool {
	return func(r rune) bool {
		for _, v := range classValues[c] {
			if v == r {
				return true
			}
		}
		return false
	}
}

// escapes lists the characters allowed after a backslash inside a string.
var escapes = map[rune]struct{}{
	'"':  {},
	'\\': {},
	'n':  {},
	't':  {},
	'r':  {},
}
