package analyzer

import (
	"github.com/dlclark/regexp2"
)

// literalMatcher finds a literal pattern as a whole word. The trailing
// lookahead keeps "test" from matching the local part of "test@example.com".
type literalMatcher struct {
	re *regexp2.Regexp
}

func newLiteralMatcher(pattern string, caseSensitive bool) *literalMatcher {
	expr := boundary + regexp2.Escape(pattern) + boundary + `(?![@\p{L}\p{N}_])`

	opts := regexp2.None
	if !caseSensitive {
		opts |= regexp2.IgnoreCase
	}

	// The pattern is escaped, so compilation cannot fail
	return &literalMatcher{re: regexp2.MustCompile(expr, opts)}
}

func (m *literalMatcher) matches(line string) bool {
	ok, err := m.re.MatchString(line)
	return err == nil && ok
}
