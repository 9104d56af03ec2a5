package builder

import (
	"fmt"
	"strings"
)

var unescaped = map[rune]rune{
	'"':  '"',
	'\\': '\\',
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
}

// Unescape resolves the escape sequences of a raw string literal. Only \",
// \\, \n, \t and \r are recognized.
func Unescape(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}

	var buf strings.Builder
	buf.Grow(len(s))

	escaped := false
	for i, r := range s {
		if !escaped {
			if r == '\\' {
				escaped = true
				continue
			}
			buf.WriteRune(r)
			continue
		}

		c, ok := unescaped[r]
		if !ok {
			return "", &Error{
				Kind:   MalformedChildren,
				Reason: fmt.Sprintf("invalid escape sequence %q at offset %d", `\`+string(r), i-1),
			}
		}
		buf.WriteRune(c)
		escaped = false
	}

	if escaped {
		return "", &Error{
			Kind:   MalformedChildren,
			Reason: "trailing backslash in string literal",
		}
	}

	return buf.String(), nil
}
