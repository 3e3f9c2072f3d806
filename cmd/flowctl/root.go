package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/flowguide/internal/config"
	"github.com/dgallion1/flowguide/internal/source"
)

// Version is set via ldflags at build time.
var Version = "dev"

type options struct {
	cfgFile string
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "flowctl",
		Short: "Validate and render flowguide flowcharts",
		Long: `flowctl checks flowchart documents (JSON, JSONC or YAML, local or
over HTTP) and renders them as an HTML fragment, a full page, or a
terminal outline.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "flowguide.yaml", "config file path")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		newValidateCmd(opts),
		newRenderCmd(opts),
		newListCmd(opts),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version of flowctl",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "flowctl %s\n", Version)
			},
		},
	)
	return root
}

func (o *options) config() (config.Config, error) {
	cfg, err := config.Load(o.cfgFile)
	if err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (o *options) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (o *options) fetcher(cfg config.Config) *source.Fetcher {
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return source.NewFetcher(timeout, cfg.MaxDocumentBytes)
}
