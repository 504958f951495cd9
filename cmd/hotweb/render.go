package main

import (
	"bufio"

	"github.com/spf13/cobra"

	"github.com/vango-dev/hotweb/internal/site"
	"github.com/vango-dev/hotweb/pkg/render"
)

func renderCmd(flags *globalFlags) *cobra.Command {
	var (
		pretty   bool
		fragment bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the rendered page",
		Long: `Render the landing page to standard output.

Examples:
  hotweb render > index.html
  hotweb render --fragment --pretty`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}

			r := render.NewRenderer(render.RendererConfig{Pretty: pretty})
			w := bufio.NewWriter(cmd.OutOrStdout())
			tree := site.Root().Render()

			if fragment {
				err = r.RenderToWriter(w, tree)
			} else {
				page := site.Document(cfg.Site.Container, "", tree)
				if cfg.Site.Title != "" {
					page.Title = cfg.Site.Title
				}
				err = r.RenderPage(w, page)
			}
			if err != nil {
				return err
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the output")
	cmd.Flags().BoolVar(&fragment, "fragment", false, "Print only the mounted tree, without the document")

	return cmd
}
