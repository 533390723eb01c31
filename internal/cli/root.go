// Package cli provides the firesim command-line interface.
package cli

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"firesim/internal/logging"
)

const (
	envLogLevel  = "FIRESIM_LOG_LEVEL"
	envLogFormat = "FIRESIM_LOG_FORMAT"
	envWorkers   = "FIRESIM_WORKERS"
)

type rootOptions struct {
	logLevel  string
	logFormat string
	envFile   string
}

// NewRootCmd builds the firesim command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "firesim",
		Short: "Headless heat conduction and combustion simulator.",
		Long: `firesim runs the grid fire simulation without a window: single runs with ` +
			`optional SQLite recording, JSON exports, an HTTP/websocket monitor and ` +
			`parameter sweeps. Scenario files are written in HCL.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error (env "+envLogLevel+")")
	pf.StringVar(&opts.logFormat, "log-format", "text", "log format: text or json (env "+envLogFormat+")")
	pf.StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before flags are resolved")

	root.AddCommand(newRunCmd(), newExportCmd(), newServeCmd(), newSweepCmd())
	return root
}

// setup loads the dotenv file, lets the environment fill flags that were not
// set explicitly and installs the logger into the command context.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	if o.envFile != "" {
		if err := godotenv.Load(o.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	flags := cmd.Flags()
	if v := os.Getenv(envLogLevel); v != "" && !flags.Changed("log-level") {
		o.logLevel = v
	}
	if v := os.Getenv(envLogFormat); v != "" && !flags.Changed("log-format") {
		o.logFormat = v
	}
	if f := flags.Lookup("workers"); f != nil && !f.Changed {
		if v := os.Getenv(envWorkers); v != "" {
			if err := f.Value.Set(v); err != nil {
				return err
			}
		}
	}

	logger := logging.New(o.logLevel, o.logFormat, cmd.ErrOrStderr())
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.WithLogger(ctx, logger))
	return nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
