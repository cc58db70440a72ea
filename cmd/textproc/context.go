package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/firefly/textproc/internal/config"
	"github.com/firefly/textproc/internal/logging"
)

type globalFlags struct {
	config    string
	logLevel  string
	logFormat string
	verbose   bool
}

type commandContext struct {
	flags  *globalFlags
	config *config.Config
	logger *slog.Logger
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

// init loads configuration and builds the logger; flags override the file
func (c *commandContext) init(stderr io.Writer) error {
	cfg, err := config.Load(strings.TrimSpace(c.flags.config))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if c.flags.logLevel != "" {
		cfg.Logging.Level = c.flags.logLevel
	}
	if c.flags.logFormat != "" {
		cfg.Logging.Format = c.flags.logFormat
	}
	if c.flags.verbose {
		cfg.Logging.Level = "debug"
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: stderr,
	})
	if err != nil {
		return err
	}

	c.config = cfg
	c.logger = logger
	return nil
}
