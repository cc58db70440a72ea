package analyzer

import (
	"unicode"

	"github.com/dlclark/regexp2"
)

// wordClass matches a letter, a number or an underscore in any script
const wordClass = `[\p{L}\p{N}_]`

// boundary is \b spelled out over wordClass
const boundary = `(?:(?<=` + wordClass + `)(?!` + wordClass + `)|(?<!` + wordClass + `)(?=` + wordClass + `))`

// Tokenizer and email expressions. A non-ASCII letter is a word character,
// so "Café" yields no token rather than "Caf".
const (
	casedWordExpr = `(?:` + boundary + `[A-Z][a-z]*` + boundary + `|` + boundary + `[a-z]+` + boundary + `)`
	lowerWordExpr = boundary + `[a-z]+` + boundary
	emailExpr     = boundary + `[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}` + boundary
)

// findAll returns every non-overlapping match of re in s, left to right
func findAll(re *regexp2.Regexp, s string) []string {
	var matches []string
	// regexp2 only errors on a match timeout and none is configured
	m, err := re.FindStringMatch(s)
	for err == nil && m != nil {
		matches = append(matches, m.String())
		m, err = re.FindNextMatch(m)
	}
	return matches
}

// isBlank reports whether r is stripped as whitespace around a line. The
// information separators \x1c-\x1f count as whitespace too.
func isBlank(r rune) bool {
	return unicode.IsSpace(r) || (r >= '\x1c' && r <= '\x1f')
}
