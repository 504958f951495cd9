package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/hotweb/internal/config"
	"github.com/vango-dev/hotweb/internal/errors"
)

const starterCSS = `.hero.is-info {
  background-image: linear-gradient(141deg, #04a6d7 0%, #209cee 71%, #3287f5 100%);
}

.box.cta {
  border-radius: 0;
  border-left: none;
  border-right: none;
}

.card.is-shady:hover {
  box-shadow: 0 10px 16px rgba(0, 0, 0, 0.13), 0 6px 6px rgba(0, 0, 0, 0.19);
}
`

func initCmd(flags *globalFlags) *cobra.Command {
	var (
		yamlFormat bool
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a hotweb project",
		Long: `Create hotweb.json and a public directory with a starter stylesheet.

Examples:
  hotweb init
  hotweb init site --yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := flags.dir
			if len(args) == 1 {
				dir = args[0]
			}
			if dir == "" {
				dir = "."
			}
			return runInit(cmd, dir, yamlFormat, force)
		},
	}

	cmd.Flags().BoolVar(&yamlFormat, "yaml", false, "Write hotweb.yaml instead of hotweb.json")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, yamlFormat, force bool) error {
	out := cmd.OutOrStdout()

	dir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if config.Exists(dir) && !force {
		return errors.Newf(errors.CategoryCLI, "%s already has a hotweb config", dir).
			WithSuggestion("Pass --force to overwrite it")
	}

	cfg := config.New()
	cfg.Name = filepath.Base(dir)
	name := config.JSONFileName
	if yamlFormat {
		name = config.YAMLFileName
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := cfg.SaveTo(filepath.Join(dir, name)); err != nil {
		return err
	}
	success(out, "Created %s", name)

	cssPath := filepath.Join(cfg.PublicPath(), "css", "site.css")
	if _, err := os.Stat(cssPath); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(cssPath), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(cssPath, []byte(starterCSS), 0o644); err != nil {
			return err
		}
		rel, _ := filepath.Rel(dir, cssPath)
		success(out, "Created %s", filepath.ToSlash(rel))
	}

	info(out, "Run hotweb serve to start the development server")
	return nil
}
