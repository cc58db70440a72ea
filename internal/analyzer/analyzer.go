package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dlclark/regexp2"
)

// Options carries the per-call settings of an operation
type Options struct {
	CaseSensitive bool
	Pattern       string
	NonEmpty      bool
}

// Result holds the output of a single operation. Only the field matching
// Operation is populated.
type Result struct {
	Operation   Operation
	Frequencies map[string]int
	Items       []string
	Count       int
}

// Value returns the operation payload: a frequency map, a string slice or a count
func (r Result) Value() any {
	switch r.Operation {
	case WordFreq:
		return r.Frequencies
	case LineCount:
		return r.Count
	default:
		return r.Items
	}
}

// Size returns the number of entries in the payload (the count itself for line-count)
func (r Result) Size() int {
	switch r.Operation {
	case WordFreq:
		return len(r.Frequencies)
	case LineCount:
		return r.Count
	default:
		return len(r.Items)
	}
}

type operationFunc func(a *Analyzer, text string, opts Options) Result

var dispatch = map[Operation]operationFunc{
	WordFreq: func(a *Analyzer, text string, opts Options) Result {
		return Result{Operation: WordFreq, Frequencies: a.WordFrequency(text, opts.CaseSensitive)}
	},
	RegexFilter: func(a *Analyzer, text string, opts Options) Result {
		return Result{Operation: RegexFilter, Items: a.RegexFilter(text, opts.Pattern, opts.CaseSensitive)}
	},
	ExtractEmails: func(a *Analyzer, text string, _ Options) Result {
		return Result{Operation: ExtractEmails, Items: a.ExtractEmails(text)}
	},
	LineCount: func(a *Analyzer, text string, opts Options) Result {
		return Result{Operation: LineCount, Count: a.LineCount(text, opts.NonEmpty)}
	},
	UniqueWords: func(a *Analyzer, text string, opts Options) Result {
		return Result{Operation: UniqueWords, Items: a.UniqueWords(text, opts.CaseSensitive)}
	},
}

// Analyzer implements the text analysis operations. It only holds compiled
// patterns, so a single value can be shared freely.
type Analyzer struct {
	// Word extraction regexes
	casedWordRegex *regexp2.Regexp
	lowerWordRegex *regexp2.Regexp
	emailRegex     *regexp2.Regexp
}

// New creates a new Analyzer
func New() *Analyzer {
	return &Analyzer{
		casedWordRegex: regexp2.MustCompile(casedWordExpr, regexp2.None),
		lowerWordRegex: regexp2.MustCompile(lowerWordExpr, regexp2.None),
		emailRegex:     regexp2.MustCompile(emailExpr, regexp2.None),
	}
}

// Run dispatches op over text
func (a *Analyzer) Run(op Operation, text string, opts Options) (Result, error) {
	fn, ok := dispatch[op]
	if !ok {
		return Result{}, fmt.Errorf("%w: %d", ErrUnknownOperation, int(op))
	}
	return fn(a, text, opts), nil
}

// WordFrequency counts words per line, skipping every line that contains '@'.
// Case-sensitive matching only accepts capitalized or all-lowercase words, so
// an all-caps word like "TEST" is not counted.
func (a *Analyzer) WordFrequency(text string, caseSensitive bool) map[string]int {
	wordCounts := make(map[string]int)

	for _, line := range splitLines(text) {
		if strings.Contains(line, "@") {
			continue
		}

		var words []string
		if caseSensitive {
			words = findAll(a.casedWordRegex, line)
		} else {
			words = findAll(a.lowerWordRegex, strings.ToLower(line))
		}

		for _, word := range words {
			wordCounts[word]++
		}
	}

	return wordCounts
}

// RegexFilter returns the lines containing pattern as a whole literal word
// that is not followed by '@' or a word character
func (a *Analyzer) RegexFilter(text, pattern string, caseSensitive bool) []string {
	matcher := newLiteralMatcher(pattern, caseSensitive)

	lines := make([]string, 0)
	for _, line := range splitLines(text) {
		if matcher.matches(line) {
			lines = append(lines, line)
		}
	}
	return lines
}

// ExtractEmails returns every email address in text in order of appearance
func (a *Analyzer) ExtractEmails(text string) []string {
	emails := findAll(a.emailRegex, text)
	if emails == nil {
		return []string{}
	}
	return emails
}

// LineCount counts lines, ignoring whitespace-only lines when nonEmpty is set
func (a *Analyzer) LineCount(text string, nonEmpty bool) int {
	lines := splitLines(text)
	if !nonEmpty {
		return len(lines)
	}

	count := 0
	for _, line := range lines {
		if strings.TrimFunc(line, isBlank) != "" {
			count++
		}
	}
	return count
}

// UniqueWords returns the sorted distinct words of WordFrequency
func (a *Analyzer) UniqueWords(text string, caseSensitive bool) []string {
	wordCounts := a.WordFrequency(text, caseSensitive)

	words := make([]string, 0, len(wordCounts))
	for word := range wordCounts {
		words = append(words, word)
	}
	sort.Strings(words)
	return words
}
