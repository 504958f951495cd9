package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"

	"github.com/vango-dev/hotweb/internal/app"
	"github.com/vango-dev/hotweb/internal/dev"
	"github.com/vango-dev/hotweb/internal/site"
	"github.com/vango-dev/hotweb/pkg/middleware"
	"github.com/vango-dev/hotweb/pkg/mount"
)

type serveOptions struct {
	port        int
	host        string
	openBrowser bool
	noReload    bool
	accessLog   bool
}

func serveCmd(flags *globalFlags) *cobra.Command {
	opts := serveOptions{}

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"dev"},
		Short:   "Start the development server",
		Long: `Start the development server with hot reload.

The server renders the landing page, serves the public directory and
pushes changes to connected browsers over a WebSocket.

Examples:
  hotweb serve
  hotweb serve --port=3000
  hotweb serve --host=0.0.0.0 --open`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd, flags, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "Port to run on (default from hotweb.json)")
	cmd.Flags().StringVarP(&opts.host, "host", "H", "", "Host to bind to (default from hotweb.json)")
	cmd.Flags().BoolVarP(&opts.openBrowser, "open", "o", false, "Open browser on start")
	cmd.Flags().BoolVar(&opts.noReload, "no-reload", false, "Disable hot reload")
	cmd.Flags().BoolVar(&opts.accessLog, "access-log", false, "Write an access log line per request to stderr")

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, flags *globalFlags, opts serveOptions) error {
	logger, err := flags.logger()
	if err != nil {
		return err
	}
	cfg, err := flags.loadConfig()
	if err != nil {
		return err
	}

	if opts.port > 0 {
		cfg.Dev.Port = opts.port
	}
	if opts.host != "" {
		cfg.Dev.Host = opts.host
	}
	if opts.openBrowser {
		cfg.Dev.OpenBrowser = true
	}
	if opts.noReload {
		cfg.Dev.HotReload = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(middleware.WithRegistry(reg))
	tracer := middleware.NewTracer(middleware.WithRequestFilter(func(r *http.Request) bool {
		return r.URL.Path != "/healthz" && r.URL.Path != "/metrics"
	}))

	engine := mount.NewEngine(
		mount.WithLogger(logger),
		mount.WithMetrics(metrics),
		mount.WithTracer(tracer),
	)

	var accessLog io.Writer
	if opts.accessLog {
		accessLog = os.Stderr
	}
	srv := dev.NewServer(dev.ServerOptions{
		Config:    cfg,
		Engine:    engine,
		Document:  site.Document,
		Logger:    logger,
		AccessLog: accessLog,
		Metrics:   metrics,
		Gatherer:  reg,
		Tracer:    tracer,
	})

	h, err := app.Bootstrap(ctx, engine, srv.Client(), app.Options{
		Container: cfg.Site.Container,
		PagePath:  cfg.Site.PagePath,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	defer h.Unmount()
	detach := srv.Attach(h)
	defer detach()

	out := cmd.OutOrStdout()
	printBanner(out)
	info(out, "serve")

	if cfg.Dev.OpenBrowser {
		go openWhenReady(ctx, srv, logger)
	}

	return srv.Start(ctx)
}

// openWhenReady opens the page in a browser once the server listens.
func openWhenReady(ctx context.Context, srv *dev.Server, logger *slog.Logger) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(5 * time.Second)

	for {
		select {
		case <-ctx.Done():
			return
		case <-deadline:
			logger.Warn("server not ready, not opening browser")
			return
		case <-ticker.C:
			if addr := srv.Addr(); addr != "" {
				if err := open.Run("http://" + addr); err != nil {
					logger.Warn("open browser", "error", err)
				}
				return
			}
		}
	}
}
