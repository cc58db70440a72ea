package analyzer

import (
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleText = `Hello World!
This is a test file.
Hello again, world.
test@example.com
another.test@email.com
This is another TEST line.
`

// TestWordFrequency_CaseSensitive tests counting with the capitalized/lowercase tokenizer
func TestWordFrequency_CaseSensitive(t *testing.T) {
	analyzer := New()

	result := analyzer.WordFrequency(sampleText, true)

	if result["Hello"] != 2 {
		t.Errorf("Expected Hello to appear 2 times, got %d", result["Hello"])
	}
	if _, ok := result["hello"]; ok {
		t.Error("Expected lowercase hello to be absent in case-sensitive mode")
	}

	expected := map[string]int{
		"Hello":   2,
		"World":   1,
		"This":    2,
		"is":      2,
		"a":       1,
		"test":    1,
		"file":    1,
		"again":   1,
		"world":   1,
		"another": 1,
		"line":    1,
	}
	if diff := cmp.Diff(expected, result); diff != "" {
		t.Errorf("WordFrequency mismatch (-want +got):\n%s", diff)
	}
}

// TestWordFrequency_CaseInsensitive tests lowercased counting
func TestWordFrequency_CaseInsensitive(t *testing.T) {
	analyzer := New()

	result := analyzer.WordFrequency(sampleText, false)

	if result["hello"] != 2 {
		t.Errorf("Expected hello to appear 2 times, got %d", result["hello"])
	}
	if result["test"] != 2 {
		t.Errorf("Expected test to appear 2 times, got %d", result["test"])
	}
	if result["world"] != 2 {
		t.Errorf("Expected world to appear 2 times, got %d", result["world"])
	}
}

// TestWordFrequency_SkipsLinesWithAt tests that every word on a line containing '@' is dropped
func TestWordFrequency_SkipsLinesWithAt(t *testing.T) {
	analyzer := New()

	text := "mail me at someone@example.com today\nplain words here\nfoo @ bar"
	result := analyzer.WordFrequency(text, false)

	expected := map[string]int{"plain": 1, "words": 1, "here": 1}
	if diff := cmp.Diff(expected, result); diff != "" {
		t.Errorf("WordFrequency mismatch (-want +got):\n%s", diff)
	}
}

// TestWordFrequency_AllCapsNotCounted tests the asymmetric case-sensitive tokenizer
func TestWordFrequency_AllCapsNotCounted(t *testing.T) {
	analyzer := New()

	tests := []struct {
		name     string
		text     string
		expected map[string]int
	}{
		{"All caps", "TEST NASA", map[string]int{}},
		{"Capitalized", "Go Lang", map[string]int{"Go": 1, "Lang": 1}},
		{"Single capital", "I A", map[string]int{"I": 1, "A": 1}},
		{"Mixed case", "iPhone McDonald", map[string]int{}},
		{"Digits break boundaries", "abc1 x2y plain", map[string]int{"plain": 1}},
		{"Underscore is a word char", "snake_case word", map[string]int{"word": 1}},
		{"Punctuation separates", "well-known, don't", map[string]int{"well": 1, "known": 1, "don": 1, "t": 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := analyzer.WordFrequency(tt.text, true)
			if diff := cmp.Diff(tt.expected, result); diff != "" {
				t.Errorf("WordFrequency(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

// TestWordFrequency_CaseInsensitiveLowersFirst tests that all-caps words count once lowered
func TestWordFrequency_CaseInsensitiveLowersFirst(t *testing.T) {
	analyzer := New()

	result := analyzer.WordFrequency("TEST Test test iPhone", false)

	expected := map[string]int{"test": 3, "iphone": 1}
	if diff := cmp.Diff(expected, result); diff != "" {
		t.Errorf("WordFrequency mismatch (-want +got):\n%s", diff)
	}
}

// TestWordFrequency_Empty tests empty and whitespace-only input
func TestWordFrequency_Empty(t *testing.T) {
	analyzer := New()

	for _, text := range []string{"", "   ", "\n\n", "123 456"} {
		result := analyzer.WordFrequency(text, true)
		if result == nil || len(result) != 0 {
			t.Errorf("Expected empty non-nil map for %q, got %v", text, result)
		}
	}
}

// TestWordFrequency_NonASCIILetters tests that letters outside ASCII join
// their word instead of splitting it into fragments
func TestWordFrequency_NonASCIILetters(t *testing.T) {
	analyzer := New()

	tests := []struct {
		name          string
		text          string
		caseSensitive bool
		expected      map[string]int
	}{
		{"Case sensitive", "naïve Café test", true, map[string]int{"test": 1}},
		{"Case insensitive", "naïve Café test", false, map[string]int{"test": 1}},
		{"Cyrillic neighbours", "go привет go", false, map[string]int{"go": 2}},
		{"Superscript digit", "area² area", false, map[string]int{"area": 1}},
		{"Punctuation still splits", "résumé, done", true, map[string]int{"done": 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := analyzer.WordFrequency(tt.text, tt.caseSensitive)
			if diff := cmp.Diff(tt.expected, result); diff != "" {
				t.Errorf("WordFrequency(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}

	unique := analyzer.UniqueWords("naïve Café test", false)
	if diff := cmp.Diff([]string{"test"}, unique); diff != "" {
		t.Errorf("UniqueWords mismatch (-want +got):\n%s", diff)
	}
}

// TestRegexFilter_Scenario tests the sample text in both case modes
func TestRegexFilter_Scenario(t *testing.T) {
	analyzer := New()

	result := analyzer.RegexFilter(sampleText, "test", true)
	if diff := cmp.Diff([]string{"This is a test file."}, result); diff != "" {
		t.Errorf("case-sensitive RegexFilter mismatch (-want +got):\n%s", diff)
	}

	result = analyzer.RegexFilter(sampleText, "test", false)
	expected := []string{"This is a test file.", "This is another TEST line."}
	if diff := cmp.Diff(expected, result); diff != "" {
		t.Errorf("case-insensitive RegexFilter mismatch (-want +got):\n%s", diff)
	}
}

// TestRegexFilter_Rules tests word boundaries, the '@' lookahead and literal escaping
func TestRegexFilter_Rules(t *testing.T) {
	analyzer := New()

	tests := []struct {
		name     string
		line     string
		pattern  string
		expected bool
	}{
		{"Whole word", "run the tests now", "the", true},
		{"Prefix of longer word", "testing", "test", false},
		{"Suffix of longer word", "contest", "test", false},
		{"Email local part", "test@example.com", "test", false},
		{"Email domain part", "me@test.com", "test", true},
		{"Followed by punctuation", "a test.", "test", true},
		{"Digit after", "test1", "test", false},
		{"Underscore after", "test_case", "test", false},
		{"Metacharacters are literal", "cost is 1+1 today", "1+1", true},
		{"Dot is not a wildcard", "abc", "a.c", false},
		{"Dot literal", "see a.c here", "a.c", true},
		{"Parenthesis", "call f(x) now", "f(x", true},
		{"Trailing non-word char needs a following word char", "x f(x) y", "f(x)", false},
		{"Later candidate after rejected one", "a@a@a", "a@a", true},
		{"Later candidate on same line", "test@x and test here", "test", true},
		{"Accented letter after", "café", "caf", false},
		{"Accented letter before", "écho", "cho", false},
		{"Accented word as pattern", "un café noir", "café", true},
		{"Accented letter before @", "test@x testé@y", "test", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := analyzer.RegexFilter(tt.line, tt.pattern, true)
			got := len(result) == 1
			if got != tt.expected {
				t.Errorf("RegexFilter(%q, %q) matched = %v, expected %v", tt.line, tt.pattern, got, tt.expected)
			}
		})
	}
}

// TestRegexFilter_EmptyPattern tests that an empty pattern behaves as an empty literal
func TestRegexFilter_EmptyPattern(t *testing.T) {
	analyzer := New()

	result := analyzer.RegexFilter("hello world\n\n@@@\nfoo@", "", false)

	// Only a word end followed by something other than '@' or a word char qualifies
	expected := []string{"hello world"}
	if diff := cmp.Diff(expected, result); diff != "" {
		t.Errorf("RegexFilter mismatch (-want +got):\n%s", diff)
	}
}

// TestRegexFilter_PreservesOrder tests that matching lines keep their input order
func TestRegexFilter_PreservesOrder(t *testing.T) {
	analyzer := New()

	text := "go first\nskip\nGo second\ngo third"
	result := analyzer.RegexFilter(text, "go", false)

	expected := []string{"go first", "Go second", "go third"}
	if diff := cmp.Diff(expected, result); diff != "" {
		t.Errorf("RegexFilter mismatch (-want +got):\n%s", diff)
	}
}

// TestExtractEmails tests email extraction order and duplicates
func TestExtractEmails(t *testing.T) {
	analyzer := New()

	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{"Sample", sampleText, []string{"test@example.com", "another.test@email.com"}},
		{"Duplicates kept", "a@b.io, a@b.io and c@d.org", []string{"a@b.io", "a@b.io", "c@d.org"}},
		{"Inline", "Contact: first.last+tag@sub.example.co.uk.", []string{"first.last+tag@sub.example.co.uk"}},
		{"Short TLD rejected", "x@y.z", []string{}},
		{"Numeric TLD rejected", "user@host.123", []string{}},
		{"Empty", "", []string{}},
		{"Accented local part", "josé@example.com ok@example.org", []string{"ok@example.org"}},
		{"Accented letter after TLD", "a@b.comé c@d.io", []string{"c@d.io"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := analyzer.ExtractEmails(tt.text)
			if diff := cmp.Diff(tt.expected, result); diff != "" {
				t.Errorf("ExtractEmails(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
			for _, email := range result {
				if strings.Count(email, "@") != 1 {
					t.Errorf("Expected exactly one @ in %q", email)
				}
			}
		})
	}
}

// TestLineCount tests both counting modes
func TestLineCount(t *testing.T) {
	analyzer := New()

	if got := analyzer.LineCount(sampleText, true); got != 6 {
		t.Errorf("Expected 6 non-empty lines, got %d", got)
	}

	if got := analyzer.LineCount(sampleText+"\n\n", false); got != 8 {
		t.Errorf("Expected 8 lines, got %d", got)
	}

	tests := []struct {
		name     string
		text     string
		nonEmpty bool
		expected int
	}{
		{"Empty text", "", false, 0},
		{"Empty text non-empty", "", true, 0},
		{"No trailing newline", "a\nb", false, 2},
		{"Trailing newline", "a\nb\n", false, 2},
		{"Single newline", "\n", false, 1},
		{"Whitespace lines", " \n\t\nx\n", true, 1},
		{"Whitespace lines all", " \n\t\nx\n", false, 3},
		{"CRLF", "a\r\nb\r\n", false, 2},
		{"Lone CR", "a\rb", false, 2},
		{"Unicode separator", "a\u2028b", false, 2},
		{"Unit separator is blank", "a\x1fb\n\x1f\n", true, 1},
		{"Unit separator padding", "\x1f \x1f\nx", true, 1},
		{"No-break space is blank", "\u00a0\nx", true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := analyzer.LineCount(tt.text, tt.nonEmpty); got != tt.expected {
				t.Errorf("LineCount(%q, %v) = %d, expected %d", tt.text, tt.nonEmpty, got, tt.expected)
			}
		})
	}
}

// TestUniqueWords tests sorting and case handling
func TestUniqueWords(t *testing.T) {
	analyzer := New()

	result := analyzer.UniqueWords(sampleText, true)
	if !contains(result, "Hello") {
		t.Error("Expected Hello in case-sensitive unique words")
	}
	if contains(result, "hello") {
		t.Error("Expected hello to be absent in case-sensitive unique words")
	}
	if !sort.StringsAreSorted(result) {
		t.Errorf("Expected sorted result, got %v", result)
	}

	result = analyzer.UniqueWords(sampleText, false)
	hellos := 0
	for _, word := range result {
		if strings.ToLower(word) == "hello" {
			hellos++
		}
	}
	if hellos != 1 {
		t.Errorf("Expected exactly one casing of hello, got %d", hellos)
	}

	if got := analyzer.UniqueWords("", false); got == nil || len(got) != 0 {
		t.Errorf("Expected empty non-nil slice, got %v", got)
	}
}

// TestProperties checks the relationships between operations over several inputs
func TestProperties(t *testing.T) {
	analyzer := New()

	texts := []string{
		"",
		sampleText,
		sampleText + "\n\n",
		"  \n\t\n",
		"One two\r\nthree@x.io\rFour",
		"Zebra apple Mango apple\nBANANA banana",
	}

	for _, text := range texts {
		if all, nonEmpty := analyzer.LineCount(text, false), analyzer.LineCount(text, true); all < nonEmpty {
			t.Errorf("LineCount(%q): all=%d < non-empty=%d", text, all, nonEmpty)
		}

		for _, caseSensitive := range []bool{true, false} {
			freq := analyzer.WordFrequency(text, caseSensitive)
			keys := make([]string, 0, len(freq))
			for key := range freq {
				keys = append(keys, key)
			}
			sort.Strings(keys)

			if diff := cmp.Diff(keys, analyzer.UniqueWords(text, caseSensitive)); diff != "" {
				t.Errorf("UniqueWords(%q, %v) differs from WordFrequency keys:\n%s", text, caseSensitive, diff)
			}
			if diff := cmp.Diff(freq, analyzer.WordFrequency(text, caseSensitive)); diff != "" {
				t.Errorf("WordFrequency(%q) not deterministic:\n%s", text, diff)
			}
		}

		if diff := cmp.Diff(analyzer.ExtractEmails(text), analyzer.ExtractEmails(text)); diff != "" {
			t.Errorf("ExtractEmails(%q) not deterministic:\n%s", text, diff)
		}
	}
}

// TestRun tests that dispatch matches the direct calls
func TestRun(t *testing.T) {
	analyzer := New()
	opts := Options{CaseSensitive: true, Pattern: "test", NonEmpty: true}

	tests := []struct {
		op       Operation
		expected any
	}{
		{WordFreq, analyzer.WordFrequency(sampleText, true)},
		{RegexFilter, analyzer.RegexFilter(sampleText, "test", true)},
		{ExtractEmails, analyzer.ExtractEmails(sampleText)},
		{LineCount, analyzer.LineCount(sampleText, true)},
		{UniqueWords, analyzer.UniqueWords(sampleText, true)},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			result, err := analyzer.Run(tt.op, sampleText, opts)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if result.Operation != tt.op {
				t.Errorf("Expected operation %v, got %v", tt.op, result.Operation)
			}
			if diff := cmp.Diff(tt.expected, result.Value()); diff != "" {
				t.Errorf("Run mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := analyzer.Run(Operation(99), sampleText, opts); err == nil {
		t.Error("Expected error for unknown operation")
	}
}

func contains(words []string, target string) bool {
	for _, word := range words {
		if word == target {
			return true
		}
	}
	return false
}
