package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/firefly/textproc/internal/analyzer"
	"github.com/firefly/textproc/internal/config"
	"github.com/firefly/textproc/internal/fetcher"
	"github.com/firefly/textproc/internal/history"
	textio "github.com/firefly/textproc/internal/io"
	"github.com/firefly/textproc/internal/parser"
	"github.com/firefly/textproc/internal/wordbank"
)

var operationSummaries = map[analyzer.Operation]string{
	analyzer.WordFreq:      "Count how often each word occurs",
	analyzer.RegexFilter:   "Print lines containing a literal pattern as a whole word",
	analyzer.ExtractEmails: "Print every email address in order of appearance",
	analyzer.LineCount:     "Count lines (non-empty only unless --include-empty)",
	analyzer.UniqueWords:   "Print the distinct words in sorted order",
}

func newOperationCommand(ctx *commandContext, op analyzer.Operation) *cobra.Command {
	run := config.Run{Operation: op}
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   op.String(),
		Short: operationSummaries[op],
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.config
			flags := cmd.Flags()

			if jsonOutput {
				if flags.Changed("format") && run.Format != config.FormatJSON {
					return errors.New("--json conflicts with --format " + run.Format)
				}
				run.Format = config.FormatJSON
			} else if !flags.Changed("format") {
				run.Format = cfg.Output.Format
			}
			if !flags.Changed("top") {
				run.Top = cfg.Output.Top
			}
			if !flags.Changed("html") {
				run.HTML = cfg.Input.HTML
			}
			if !flags.Changed("wordbank") {
				run.WordBankFile = cfg.Input.WordBank
			}
			if run.WordBankFile != "" {
				path, err := config.ExpandPath(run.WordBankFile)
				if err != nil {
					return err
				}
				run.WordBankFile = path
			}

			return runOperation(cmd, ctx, &run)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&run.InputFile, "input", "i", "", "Input file (default: stdin)")
	f.StringVar(&run.URL, "url", "", "Read input from a URL")
	f.StringVarP(&run.OutputFile, "output", "o", "", "Output file (default: stdout)")
	f.BoolVar(&run.HTML, "html", false, "Extract text from HTML input")
	f.BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	f.StringVar(&run.Format, "format", config.FormatText, "Output format (text, json, table)")
	f.IntVar(&run.Top, "top", 0, "Limit table rows (0 = all)")
	f.StringVar(&run.WordBankFile, "wordbank", "", "Restrict words to those listed in this file")

	if op == analyzer.RegexFilter {
		f.StringVarP(&run.Pattern, "pattern", "p", "", "Literal pattern to match as a whole word")
	}
	if op.UsesCase() {
		f.BoolVar(&run.CaseSensitive, "case-sensitive", false, "Perform case-sensitive analysis")
	}
	if op == analyzer.LineCount {
		f.BoolVar(&run.IncludeEmpty, "include-empty", false, "Count blank lines too")
	}

	return cmd
}

func runOperation(cmd *cobra.Command, ctx *commandContext, run *config.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}
	if err := run.ValidateFiles(); err != nil {
		return err
	}

	cfg := ctx.config
	logger := ctx.logger.With("operation", run.Operation.String())

	fetch := fetcher.New(fetcher.Options{
		RateLimit:     cfg.Fetch.RateLimit,
		Timeout:       time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second,
		MaxRetries:    cfg.Fetch.MaxRetries,
		RespectRobots: cfg.Fetch.RespectRobots,
	}, logger)
	reader := textio.NewReader(cmd.InOrStdin(), fetch, parser.New(), logger)

	text, err := reader.Read(cmd.Context(), textio.Source{
		Path: run.InputFile,
		URL:  run.URL,
		HTML: run.HTML,
	})
	if err != nil {
		return err
	}

	result, err := analyzer.New().Run(run.Operation, text, run.Options())
	if err != nil {
		return err
	}

	if run.WordBankFile != "" {
		wb, err := wordbank.New(run.WordBankFile)
		if err != nil {
			return err
		}
		logger.Debug("loaded word bank", "words", wb.Size())
		result = wb.Restrict(result)
	}

	data, err := textio.Render(result, run.Format, run.Top)
	if err != nil {
		return err
	}
	if err := textio.WriteOutput(cmd.Context(), run.OutputFile, data, cmd.OutOrStdout()); err != nil {
		return err
	}

	logger.Debug("operation complete", "source", run.Source(), "result_size", result.Size())

	if cfg.History.Enabled {
		if err := recordRun(cmd.Context(), cfg.History, run, len(text), result); err != nil {
			logger.Warn("history not recorded", "error", err)
		}
	}
	return nil
}

func recordRun(ctx context.Context, cfg config.History, run *config.Run, inputBytes int, result analyzer.Result) error {
	store, err := history.Open(ctx, cfg.Driver, cfg.DSN)
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.Record(ctx, history.Run{
		Operation:     run.Operation.String(),
		Source:        run.Source(),
		InputBytes:    inputBytes,
		ResultSize:    result.Size(),
		CaseSensitive: run.CaseSensitive,
		Pattern:       run.Pattern,
	})
	return err
}
