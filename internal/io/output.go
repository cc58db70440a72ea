package io

import (
	"context"
	"encoding/json"
	"fmt"
	stdio "io"
	"os"
	"strconv"
	"time"

	"github.com/gofrs/flock"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/firefly/textproc/internal/aggregator"
	"github.com/firefly/textproc/internal/analyzer"
	"github.com/firefly/textproc/internal/config"
)

// lockRetryDelay is how often a busy output file lock is retried
const lockRetryDelay = 50 * time.Millisecond

// Render formats a result. top limits the rows of a word-freq table (0 = all).
func Render(result analyzer.Result, format string, top int) ([]byte, error) {
	switch format {
	case config.FormatText, "":
		return []byte(renderText(result)), nil

	case config.FormatJSON:
		jsonData, err := json.MarshalIndent(result.Value(), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling result to JSON: %w", err)
		}
		return jsonData, nil

	case config.FormatTable:
		return []byte(renderTable(result, top)), nil
	}

	return nil, fmt.Errorf("unsupported output format %q", format)
}

// renderText prints the payload the way Go formats it natively; strings are
// quoted so lines with spaces stay distinguishable
func renderText(result analyzer.Result) string {
	if items, ok := result.Value().([]string); ok {
		return fmt.Sprintf("%q", items)
	}
	return fmt.Sprintf("%v", result.Value())
}

func renderTable(result analyzer.Result, top int) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	switch result.Operation {
	case analyzer.WordFreq:
		tw.AppendHeader(table.Row{"Word", "Count"})
		for _, wc := range aggregator.Rank(result.Frequencies, top) {
			tw.AppendRow(table.Row{wc.Word, wc.Count})
		}
		tw.SetColumnConfigs([]table.ColumnConfig{
			{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		})

	case analyzer.LineCount:
		tw.AppendHeader(table.Row{"Lines"})
		tw.AppendRow(table.Row{result.Count})

	default:
		tw.AppendHeader(table.Row{"#", itemHeader(result.Operation)})
		for i, item := range result.Items {
			tw.AppendRow(table.Row{strconv.Itoa(i + 1), item})
		}
		tw.SetColumnConfigs([]table.ColumnConfig{
			{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		})
	}

	return tw.Render()
}

func itemHeader(op analyzer.Operation) string {
	switch op {
	case analyzer.RegexFilter:
		return "Line"
	case analyzer.ExtractEmails:
		return "Email"
	default:
		return "Word"
	}
}

// WriteOutput writes data plus a trailing newline to stdout, or to path when
// set. The file is held under an advisory lock while it is rewritten.
func WriteOutput(ctx context.Context, path string, data []byte, stdout stdio.Writer) error {
	data = append(data, '\n')

	if path == "" {
		if _, err := stdout.Write(data); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		return nil
	}

	lock := flock.New(path)
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("locking output file: %w", err)
	}
	if !locked {
		return fmt.Errorf("locking output file: %s is busy", path)
	}
	defer lock.Unlock()

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing to output file: %w", err)
	}
	return nil
}
