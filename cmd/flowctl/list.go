package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/flowguide/internal/catalog"
)

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List flowcharts in the configured catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			cat := catalog.New(cfg.ContentDir, cfg.ContentGlobs, cfg.Sources, opts.logger(cmd.ErrOrStderr()))
			if err := cat.Reload(); err != nil {
				return err
			}
			for _, e := range cat.List() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-30s %s\n", e.Name, e.Locator)
			}
			return nil
		},
	}
}
