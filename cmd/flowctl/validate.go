package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/flowguide/internal/flowchart"
)

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file-or-url>...",
		Short: "Check that flowchart documents parse and form a valid tree",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			fetcher := opts.fetcher(cfg)
			out := cmd.OutOrStdout()

			failed := 0
			for _, loc := range args {
				doc, err := fetcher.Fetch(cmd.Context(), loc)
				var tree *flowchart.Tree
				if err == nil {
					tree, err = flowchart.Build(doc.Root)
				}
				if err == nil {
					err = tree.Check()
				}
				if err != nil {
					failed++
					fmt.Fprintf(out, "FAIL %s: %v\n", loc, err)
					continue
				}
				fmt.Fprintf(out, "ok   %s (%d nodes)\n", loc, tree.Len())
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d documents invalid", failed, len(args))
			}
			return nil
		},
	}
}
