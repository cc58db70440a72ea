package main

import (
	"github.com/spf13/cobra"

	"github.com/firefly/textproc/internal/analyzer"
)

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}
	ctx := newCommandContext(flags)

	rootCmd := &cobra.Command{
		Use:           "textproc",
		Short:         "Analyze text: word frequencies, filtering, emails, line counts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd == cmd.Root() {
				return nil
			}
			return ctx.init(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.config, "config", "c", "", "Configuration file path")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error, off)")
	pf.StringVar(&flags.logFormat, "log-format", "", "Log format (auto, console, json)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	for _, op := range analyzer.Operations() {
		rootCmd.AddCommand(newOperationCommand(ctx, op))
	}
	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))

	return rootCmd
}
