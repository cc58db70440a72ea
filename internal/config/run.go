package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/firefly/textproc/internal/analyzer"
)

// ErrPatternRequired is returned when regex-filter is invoked without a pattern
var ErrPatternRequired = errors.New("--pattern is required for regex-filter")

// Run holds the settings of a single command-line invocation
type Run struct {
	Operation     analyzer.Operation
	InputFile     string
	URL           string
	OutputFile    string
	Pattern       string
	CaseSensitive bool
	IncludeEmpty  bool
	HTML          bool
	Format        string
	Top           int
	WordBankFile  string
}

// Validate checks the invocation before any input is read
func (r *Run) Validate() error {
	if _, err := analyzer.ParseOperation(r.Operation.String()); err != nil {
		return err
	}

	if r.Operation == analyzer.RegexFilter && r.Pattern == "" {
		return ErrPatternRequired
	}

	if r.InputFile != "" && r.URL != "" {
		return fmt.Errorf("--input and --url are mutually exclusive")
	}

	if !validFormat(r.Format) {
		return fmt.Errorf("--format must be one of text, json, table (got %q)", r.Format)
	}

	if r.Top < 0 {
		return fmt.Errorf("--top must be non-negative")
	}

	return nil
}

// ValidateFiles checks that referenced input files exist
func (r *Run) ValidateFiles() error {
	if r.InputFile != "" {
		if _, err := os.Stat(r.InputFile); os.IsNotExist(err) {
			return fmt.Errorf("input file does not exist: %s", r.InputFile)
		}
	}

	if r.WordBankFile != "" {
		if _, err := os.Stat(r.WordBankFile); os.IsNotExist(err) {
			return fmt.Errorf("word bank file does not exist: %s", r.WordBankFile)
		}
	}

	return nil
}

// Options converts the invocation into analyzer options. Line counting skips
// blank lines unless --include-empty was given.
func (r *Run) Options() analyzer.Options {
	return analyzer.Options{
		CaseSensitive: r.CaseSensitive,
		Pattern:       r.Pattern,
		NonEmpty:      !r.IncludeEmpty,
	}
}

// Source describes where the input was read from, for logs and history
func (r *Run) Source() string {
	switch {
	case r.URL != "":
		return r.URL
	case r.InputFile != "":
		return r.InputFile
	default:
		return "stdin"
	}
}
