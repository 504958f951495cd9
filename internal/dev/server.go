package dev

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/afero"

	"github.com/vango-dev/hotweb/internal/config"
	"github.com/vango-dev/hotweb/pkg/middleware"
	"github.com/vango-dev/hotweb/pkg/mount"
	"github.com/vango-dev/hotweb/pkg/render"
	"github.com/vango-dev/hotweb/pkg/vdom"
)

// DocumentFunc builds the page data for the document served at the page
// path. clientModule is empty when hot reload is disabled.
type DocumentFunc func(container, clientModule string, body *vdom.VNode) render.PageData

// ServerOptions configures the development server.
type ServerOptions struct {
	// Config is the project configuration.
	Config *config.Config

	// Fs is the filesystem static files are served and watched from.
	// Defaults to the OS filesystem.
	Fs afero.Fs

	// Engine holds the mounted page.
	Engine *mount.Engine

	// Document builds the served document around the mounted tree.
	Document DocumentFunc

	// Logger receives server logs. Defaults to slog.Default().
	Logger *slog.Logger

	// AccessLog receives one line per request. Nil disables the access log.
	AccessLog io.Writer

	// Metrics records server metrics. Optional.
	Metrics *middleware.Metrics

	// Gatherer backs the /metrics endpoint. Nil disables the endpoint.
	Gatherer prometheus.Gatherer

	// Tracer opens a span per request. Optional.
	Tracer *middleware.Tracer
}

// Server is the development server.
type Server struct {
	config   *config.Config
	fs       afero.Fs
	engine   *mount.Engine
	document DocumentFunc
	logger   *slog.Logger
	metrics  *middleware.Metrics

	reload  *ReloadServer
	client  *Client
	watcher *Watcher
	handler http.Handler

	changeCh   chan Change
	mu         sync.Mutex
	running    bool
	httpServer *http.Server
	addr       string
}

// NewServer creates a new development server.
func NewServer(options ServerOptions) *Server {
	cfg := options.Config
	if cfg == nil {
		cfg = config.New()
	}
	fs := options.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	engine := options.Engine
	if engine == nil {
		engine = mount.NewEngine(mount.WithLogger(logger))
	}
	document := options.Document
	if document == nil {
		document = func(container, clientModule string, body *vdom.VNode) render.PageData {
			return render.PageData{Container: container, ClientModule: clientModule, Body: body}
		}
	}

	interval, err := cfg.WatchInterval()
	if err != nil {
		interval = config.DefaultInterval
	}

	reload := NewReloadServer(logger, options.Metrics)
	s := &Server{
		config:   cfg,
		fs:       fs,
		engine:   engine,
		document: document,
		logger:   logger.With("component", "dev"),
		metrics:  options.Metrics,
		reload:   reload,
		client:   NewClient(reload, logger),
		watcher: NewWatcher(WatcherConfig{
			Fs:       fs,
			Paths:    cfg.WatchPaths(),
			Ignore:   append(append([]string{}, DefaultIgnore...), cfg.Dev.Ignore...),
			Interval: interval,
			Logger:   logger,
		}),
		changeCh: make(chan Change, 64),
	}
	s.handler = s.routes(options)
	return s
}

// Client returns the hot-reload registration API.
func (s *Server) Client() *Client {
	return s.client
}

// Reload returns the WebSocket hub.
func (s *Server) Reload() *ReloadServer {
	return s.reload
}

// Handler returns the HTTP handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the address the server listens on once started.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

func (s *Server) routes(options ServerOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(s.metrics.Handler)
	r.Use(options.Tracer.Handler)

	r.Get(s.config.Site.PagePath, s.handlePage)
	r.Get(ClientModulePath, s.handleClientModule)
	if s.config.Dev.HotReload {
		r.Get(WebSocketPath, s.reload.HandleWebSocket)
	}
	r.Get("/healthz", s.handleHealth)
	if options.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(options.Gatherer, promhttp.HandlerOpts{}))
	}

	static := http.FileServer(afero.NewHttpFs(s.fs).Dir(s.config.PublicPath()))
	r.Handle("/*", noCache(static))

	if options.AccessLog == nil {
		return r
	}
	return handlers.LoggingHandler(options.AccessLog, r)
}

// handlePage renders the mounted tree into a full document.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	container := s.config.Site.Container
	h, ok := s.engine.Lookup(container)
	if !ok {
		http.Error(w, "page not mounted", http.StatusServiceUnavailable)
		return
	}

	clientModule := ""
	if s.config.Dev.HotReload {
		clientModule = ClientModulePath
	}
	page := s.document(container, clientModule, h.Tree())
	if s.config.Site.Title != "" {
		page.Title = s.config.Site.Title
	}

	var buf bytes.Buffer
	if err := s.engine.Renderer().RenderPage(&buf, page); err != nil {
		s.logger.Error("render page failed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleClientModule(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = io.WriteString(w, ClientModule)
}

type healthResponse struct {
	Status     string   `json:"status"`
	Clients    int      `json:"clients"`
	Containers []string `json:"containers"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(healthResponse{
		Status:     "ok",
		Clients:    s.reload.ClientCount(),
		Containers: s.engine.Containers(),
	})
}

// noCache disables browser caching so reloaded assets are always fresh.
func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		next.ServeHTTP(w, r)
	})
}

// Attach broadcasts every changed redraw of h to connected browsers.
// The returned function stops broadcasting.
func (s *Server) Attach(h *mount.Handle) (detach func()) {
	return h.Subscribe(func(r mount.Redraw) {
		n := s.reload.NotifyRedraw(r.Container, r.HTML, r.Version)
		s.logger.Debug("redraw pushed", "container", r.Container, "version", r.Version, "clients", n)
	})
}

// HandleChange turns a watched file change into browser messages and
// client dispatch.
func (s *Server) HandleChange(change Change) {
	urlPath := s.urlPath(change.Path)
	s.metrics.RecordChange(change.Type.String())
	s.logger.Info("changed", "path", urlPath, "type", change.Type.String(), "removed", change.Removed)

	s.reload.NotifyChange(urlPath)
	s.client.Dispatch(urlPath)
}

// urlPath maps a filesystem path to the URL path it is served at.
// Paths outside the static directory are made relative to the project.
func (s *Server) urlPath(fsPath string) string {
	for _, root := range []string{s.config.PublicPath(), s.config.Dir()} {
		if root == "" || !isWithinDir(fsPath, root) {
			continue
		}
		if rel, err := filepath.Rel(root, fsPath); err == nil {
			return "/" + filepath.ToSlash(rel)
		}
	}
	return "/" + strings.TrimLeft(filepath.ToSlash(fsPath), "/")
}

// Start starts the development server and blocks until ctx is done or
// the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	ln, err := net.Listen("tcp", s.config.DevAddress())
	if err != nil {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.addr = ln.Addr().String()
	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	if s.config.Dev.HotReload {
		s.watcher.OnChange(func(change Change) {
			select {
			case s.changeCh <- change:
			default:
				s.logger.Warn("change dropped, queue full", "path", change.Path)
			}
		})
		go func() {
			if err := s.watcher.Start(ctx); err != nil && err != context.Canceled {
				s.logger.Error("watcher stopped", "error", err)
			}
		}()
		go s.processChanges(ctx)
	}

	s.logger.Info("server running", "url", "http://"+ln.Addr().String(), "hotReload", s.config.Dev.HotReload)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.Stop()
		return nil
	case err := <-errCh:
		s.Stop()
		return err
	}
}

// Stop stops the development server.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false
	s.watcher.Stop()
	s.reload.Close()

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Warn("shutdown", "error", err)
		}
	}
	s.logger.Info("server stopped")
}

// processChanges serializes file change handling.
func (s *Server) processChanges(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case change := <-s.changeCh:
			s.HandleChange(change)
		}
	}
}

// isWithinDir reports whether path is dir or below it.
func isWithinDir(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator)))
}
