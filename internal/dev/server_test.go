package dev

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"

	"github.com/vango-dev/hotweb/internal/config"
	"github.com/vango-dev/hotweb/pkg/middleware"
	"github.com/vango-dev/hotweb/pkg/mount"
	"github.com/vango-dev/hotweb/pkg/vdom"
)

type testServer struct {
	server *Server
	engine *mount.Engine
	http   *httptest.Server
	count  *atomic.Int64
}

func newTestServer(t *testing.T, mutate func(*config.Config)) *testServer {
	t.Helper()

	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/project/public/css/site.css", []byte("body{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.New()
	cfg.SetDir("/project")
	if mutate != nil {
		mutate(cfg)
	}

	reg := prometheus.NewRegistry()
	metrics := middleware.NewMetrics(middleware.WithRegistry(reg))
	engine := mount.NewEngine(mount.WithLogger(quietLogger()), mount.WithMetrics(metrics))

	s := NewServer(ServerOptions{
		Config:   cfg,
		Fs:       fs,
		Engine:   engine,
		Logger:   quietLogger(),
		Metrics:  metrics,
		Gatherer: reg,
	})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	return &testServer{server: s, engine: engine, http: ts, count: &atomic.Int64{}}
}

func (ts *testServer) mount(t *testing.T) *mount.Handle {
	t.Helper()
	h, err := ts.engine.Mount("app", vdom.Func(func() *vdom.VNode {
		return vdom.H("main", vdom.H("p.count", vdom.Textf("count %d", ts.count.Load())))
	}))
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	return h
}

func (ts *testServer) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(ts.http.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return resp, string(body)
}

func TestServerServesMountedPage(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.mount(t)

	resp, body := ts.get(t, "/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	for _, want := range []string{
		`<div id="app"><main><p class="count">count 0</p></main></div>`,
		ClientModulePath,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q:\n%s", want, body)
		}
	}
}

func TestServerPageReflectsRedraw(t *testing.T) {
	ts := newTestServer(t, nil)
	h := ts.mount(t)

	ts.count.Store(4)
	if _, err := h.Redraw(context.Background()); err != nil {
		t.Fatal(err)
	}

	_, body := ts.get(t, "/")
	if !strings.Contains(body, "count 4") {
		t.Errorf("page not redrawn:\n%s", body)
	}
}

func TestServerPageNotMounted(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, _ := ts.get(t, "/")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusServiceUnavailable)
	}
}

func TestServerWithoutHotReload(t *testing.T) {
	ts := newTestServer(t, func(cfg *config.Config) {
		cfg.Dev.HotReload = false
		cfg.Site.Title = "Docs"
	})
	ts.mount(t)

	_, body := ts.get(t, "/")
	if strings.Contains(body, ClientModulePath) {
		t.Error("page should not load the client module without hot reload")
	}
	if !strings.Contains(body, "<title>Docs</title>") {
		t.Errorf("configured title missing:\n%s", body)
	}

	resp, _ := ts.get(t, WebSocketPath)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("websocket route status = %d, want 404", resp.StatusCode)
	}
}

func TestServerClientModule(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, body := ts.get(t, ClientModulePath)
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/javascript") {
		t.Errorf("Content-Type = %q", ct)
	}
	for _, want := range []string{"export function start", "export function accept", WebSocketPath} {
		if !strings.Contains(body, want) {
			t.Errorf("client module missing %q", want)
		}
	}
}

func TestServerHealth(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.mount(t)

	_, body := ts.get(t, "/healthz")
	var got healthResponse
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := healthResponse{Status: "ok", Containers: []string{"app"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("health mismatch (-want +got):\n%s", diff)
	}
}

func TestServerMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.mount(t)
	ts.get(t, "/")

	_, body := ts.get(t, "/metrics")
	for _, want := range []string{"hotweb_http_requests_total", "hotweb_renders_total"} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %s", want)
		}
	}
}

func TestServerStaticFiles(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, body := ts.get(t, "/css/site.css")
	if resp.StatusCode != http.StatusOK || body != "body{}" {
		t.Errorf("static file = %d %q", resp.StatusCode, body)
	}
	if resp.Header.Get("Cache-Control") != "no-cache" {
		t.Errorf("Cache-Control = %q", resp.Header.Get("Cache-Control"))
	}

	resp, _ = ts.get(t, "/missing.js")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing file status = %d", resp.StatusCode)
	}
}

func TestServerHandleChange(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.server.Client().WatchCSS()

	var dispatched []string
	ts.server.Client().Accept("/css", func(_ time.Time, path string) {
		dispatched = append(dispatched, path)
	})

	conn := dialReload(t, ts.http.URL+WebSocketPath)
	waitForClients(t, ts.server.Reload(), 1)

	ts.server.HandleChange(Change{Path: "/project/public/css/site.css", Type: ChangeCSS})

	want := []Message{
		{Type: MessageChange, Path: "/css/site.css"},
		{Type: MessageCSS, Path: "/css/site.css"},
	}
	got := []Message{readMessage(t, conn), readMessage(t, conn)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"/css/site.css"}, dispatched); diff != "" {
		t.Errorf("dispatch mismatch (-want +got):\n%s", diff)
	}
}

func TestServerAttachPushesRedraws(t *testing.T) {
	ts := newTestServer(t, nil)
	h := ts.mount(t)
	detach := ts.server.Attach(h)

	conn := dialReload(t, ts.http.URL+WebSocketPath)
	waitForClients(t, ts.server.Reload(), 1)

	ts.count.Store(1)
	if _, err := h.Redraw(context.Background()); err != nil {
		t.Fatal(err)
	}

	want := Message{
		Type:      MessageRedraw,
		Container: "app",
		HTML:      `<main><p class="count">count 1</p></main>`,
		Version:   h.Version(),
	}
	if diff := cmp.Diff(want, readMessage(t, conn)); diff != "" {
		t.Errorf("redraw mismatch (-want +got):\n%s", diff)
	}

	detach()
	ts.count.Store(2)
	if _, err := h.Redraw(context.Background()); err != nil {
		t.Fatal(err)
	}
	ts.server.Reload().NotifyReload()
	if got := readMessage(t, conn); got.Type != MessageReload {
		t.Errorf("after detach got %+v, want only the reload message", got)
	}
}

func TestServerURLPath(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := map[string]string{
		"/project/public/css/site.css": "/css/site.css",
		"/project/public/index.html":   "/index.html",
		"/project/src/app.js":          "/src/app.js",
		"/elsewhere/x.txt":             "/elsewhere/x.txt",
	}
	for in, want := range tests {
		if got := ts.server.urlPath(in); got != want {
			t.Errorf("urlPath(%q) = %q, want %q", in, got, want)
		}
	}
}
