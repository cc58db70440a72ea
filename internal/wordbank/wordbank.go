package wordbank

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/firefly/textproc/internal/analyzer"
)

// validWord is the shape of an acceptable wordbank entry (alphabetic only)
var validWord = regexp.MustCompile(`^[a-zA-Z]+$`)

// WordBank holds the words allowed through word-freq and unique-words results
type WordBank struct {
	words map[string]bool
}

// New creates a new WordBank from a file
func New(filename string) (*WordBank, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening word bank file: %w", err)
	}
	defer file.Close()

	return Load(file)
}

// Load reads one word per line from r. Entries are lowercased; blank lines and
// entries containing anything other than letters are skipped.
func Load(r io.Reader) (*WordBank, error) {
	words := make(map[string]bool)
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" || !validWord.MatchString(word) {
			continue
		}
		words[strings.ToLower(word)] = true
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading word bank file: %w", err)
	}

	return &WordBank{words: words}, nil
}

// IsValid reports whether word is in the bank, ignoring case
func (wb *WordBank) IsValid(word string) bool {
	if word == "" {
		return false
	}
	return wb.words[strings.ToLower(word)]
}

// Size returns the number of words in the word bank
func (wb *WordBank) Size() int {
	return len(wb.words)
}

// Restrict drops words outside the bank from word-freq and unique-words
// results. Results of other operations are returned unchanged.
func (wb *WordBank) Restrict(result analyzer.Result) analyzer.Result {
	switch result.Operation {
	case analyzer.WordFreq:
		kept := make(map[string]int, len(result.Frequencies))
		for word, count := range result.Frequencies {
			if wb.IsValid(word) {
				kept[word] = count
			}
		}
		result.Frequencies = kept

	case analyzer.UniqueWords:
		kept := make([]string, 0, len(result.Items))
		for _, word := range result.Items {
			if wb.IsValid(word) {
				kept = append(kept, word)
			}
		}
		result.Items = kept
	}

	return result
}
