package main

import (
	"github.com/spf13/cobra"

	"github.com/firefly/textproc/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var (
		addr      string
		rateLimit float64
		burst     int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the text processing HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.config.Server
			flags := cmd.Flags()
			if flags.Changed("addr") {
				cfg.Addr = addr
			}
			if flags.Changed("rate-limit") {
				cfg.RateLimit = rateLimit
			}
			if flags.Changed("burst") {
				cfg.Burst = burst
			}

			return server.New(cfg, ctx.logger).ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	cmd.Flags().Float64Var(&rateLimit, "rate-limit", 0, "Requests per second across all clients (0 = unlimited)")
	cmd.Flags().IntVar(&burst, "burst", 0, "Rate limiter burst size")

	return cmd
}
