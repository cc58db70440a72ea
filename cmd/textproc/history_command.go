package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/firefly/textproc/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.config.History
			if !cfg.Enabled {
				return errors.New("history is disabled; set history.enabled = true in the config file")
			}

			store, err := history.Open(cmd.Context(), cfg.Driver, cfg.DSN)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderHistory(runs))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show")
	return cmd
}

func renderHistory(runs []history.Run) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"ID", "When", "Operation", "Source", "Input", "Results"})
	for _, run := range runs {
		op := run.Operation
		if run.Pattern != "" {
			op += " " + strconv.Quote(run.Pattern)
		}
		tw.AppendRow(table.Row{
			shortID(run.ID),
			humanize.Time(run.CreatedAt),
			op,
			run.Source,
			humanize.Bytes(uint64(run.InputBytes)),
			run.ResultSize,
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	return tw.Render()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
