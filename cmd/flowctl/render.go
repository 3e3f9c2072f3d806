package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/net/html"

	"github.com/dgallion1/flowguide/internal/mount"
	"github.com/dgallion1/flowguide/internal/render"
)

const pageContainer = "flowchart"

func newRenderCmd(opts *options) *cobra.Command {
	var (
		format    string
		expandAll bool
	)
	cmd := &cobra.Command{
		Use:   "render <file-or-url>",
		Short: "Render a flowchart as text, an HTML fragment, or a full page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			renderer := render.New(cfg.SiteTitle)
			page, err := renderPage(renderer, args[0])
			if err != nil {
				return err
			}

			m, err := mount.Attach(cmd.Context(), page, pageContainer, args[0], opts.fetcher(cfg), mount.Options{
				Name:     args[0],
				Strict:   true,
				Log:      opts.logger(cmd.ErrOrStderr()),
				Renderer: renderer,
			})
			if err != nil {
				return err
			}
			if m.Err() != nil {
				return m.Err()
			}
			if expandAll {
				if format == "page" {
					return errors.New("--expand-all is not supported with --format page")
				}
				if _, err := m.ToggleAll(); err != nil {
					return err
				}
			}
			return writeMount(cmd.OutOrStdout(), m, page, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, html or page")
	cmd.Flags().BoolVar(&expandAll, "expand-all", false, "expand every section and detail before rendering")
	return cmd
}

func renderPage(r *render.Renderer, name string) (*html.Node, error) {
	var buf bytes.Buffer
	err := r.Page(&buf, render.PageData{Title: name, Name: name, ContainerID: pageContainer, ToggleAll: true})
	if err != nil {
		return nil, err
	}
	return html.Parse(&buf)
}

func writeMount(w io.Writer, m *mount.Mount, page *html.Node, format string) error {
	switch format {
	case "text":
		return m.Text(w)
	case "html":
		frag, err := m.Fragment()
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, string(frag)+"\n")
		return err
	case "page":
		return html.Render(w, page)
	}
	return fmt.Errorf("unknown format %q", format)
}
