package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/hotweb/internal/config"
	"github.com/vango-dev/hotweb/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┬ ┬┌─┐┌┬┐┬ ┬┌─┐┌┐
  ├─┤│ │ │ │││├┤ ├┴┐
  ┴ ┴└─┘ ┴ └┴┘└─┘└─┘
`

// globalFlags are shared by every command.
type globalFlags struct {
	dir       string
	logLevel  string
	logFormat string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "hotweb",
		Short: "A landing page with hot reload",
		Long: `hotweb serves a server-rendered landing page and keeps open
browsers in sync while you edit it.

  • Stylesheets swap in place when a .css file changes
  • The page reloads when its HTML changes
  • Every change redraws the mounted page`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.dir, "dir", "C", "", "Project directory (default: nearest directory with a hotweb config)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "text", "Log format: text or json")

	rootCmd.AddCommand(
		initCmd(flags),
		serveCmd(flags),
		renderCmd(flags),
		publishCmd(flags),
		versionCmd(),
	)
	return rootCmd
}

// newLogger builds the process logger from the log flags.
func newLogger(w io.Writer, format, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, errors.Newf(errors.CategoryCLI, "invalid log level %q", level).
			WithSuggestion("Use debug, info, warn or error")
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, errors.Newf(errors.CategoryCLI, "invalid log format %q", format).
			WithSuggestion("Use text or json")
	}
}

// logger returns the configured logger and installs it as the default.
func (f *globalFlags) logger() (*slog.Logger, error) {
	logger, err := newLogger(os.Stderr, f.logFormat, f.logLevel)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return logger, nil
}

// loadConfig loads the project config from --dir or the working directory.
// A directory without a config file gets the defaults.
func (f *globalFlags) loadConfig() (*config.Config, error) {
	if f.dir == "" {
		return config.LoadFromWorkingDir()
	}
	dir, err := filepath.Abs(f.dir)
	if err != nil {
		return nil, err
	}
	if config.Exists(dir) {
		return config.Load(dir)
	}
	cfg := config.New()
	cfg.SetDir(dir)
	return cfg, nil
}

// printBanner prints the hotweb banner.
func printBanner(w io.Writer) {
	fmt.Fprint(w, banner)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
