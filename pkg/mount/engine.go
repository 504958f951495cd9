package mount

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"github.com/vango-dev/hotweb/internal/errors"
	"github.com/vango-dev/hotweb/pkg/middleware"
	"github.com/vango-dev/hotweb/pkg/render"
	"github.com/vango-dev/hotweb/pkg/vdom"
)

// Registered mount errors. Compare with errors.Is.
var (
	ErrAlreadyMounted = errors.New("E301")
	ErrEmptyContainer = errors.New("E302")
	ErrNilRoot        = errors.New("E303")
	ErrUnmounted      = errors.New("E304")
	ErrRenderPanic    = errors.New("E305")
)

// Engine owns containers and the roots mounted into them.
// It is safe for concurrent use.
type Engine struct {
	mu      sync.Mutex
	handles map[string]*Handle

	renderer *render.Renderer
	logger   *slog.Logger
	metrics  *middleware.Metrics
	tracer   *middleware.Tracer
}

// Option configures an Engine.
type Option func(*Engine)

// WithRenderer sets the renderer used to produce container HTML.
func WithRenderer(r *render.Renderer) Option {
	return func(e *Engine) {
		if r != nil {
			e.renderer = r
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics records renders and redraws on m.
func WithMetrics(m *middleware.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithTracer opens spans around mount and redraw.
func WithTracer(t *middleware.Tracer) Option {
	return func(e *Engine) {
		e.tracer = t
	}
}

// NewEngine creates an Engine with no mounted containers.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		handles:  make(map[string]*Handle),
		renderer: render.NewRenderer(render.RendererConfig{}),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("component", "mount")
	return e
}

// Renderer returns the renderer the engine renders containers with.
func (e *Engine) Renderer() *render.Renderer {
	return e.renderer
}

// MountOption configures a single Mount call.
type MountOption func(*mountOptions)

type mountOptions struct {
	beforeRender []func(*Handle) error
}

// BeforeRender runs fn once the container is reserved for the new handle
// and before its first render. Teardown registered with Handle.OnUnmount
// inside fn also runs when the mount fails. An error from fn aborts the
// mount.
func BeforeRender(fn func(*Handle) error) MountOption {
	return func(o *mountOptions) {
		o.beforeRender = append(o.beforeRender, fn)
	}
}

// Mount renders root into container and returns the handle that owns it.
// While a container is held, concurrent mounts of it fail with
// ErrAlreadyMounted, including during BeforeRender hooks.
func (e *Engine) Mount(container string, root vdom.Component, opts ...MountOption) (h *Handle, err error) {
	if container == "" {
		return nil, errors.New("E302").WithSuggestion("Pass the id of the element the page mounts into")
	}
	if root == nil {
		return nil, errors.New("E303").WithDetailf("container %q", container)
	}

	_, span := e.tracer.Start(context.Background(), "hotweb.mount",
		attribute.String("hotweb.container", container))
	defer func() { e.tracer.End(span, err) }()

	e.mu.Lock()
	if _, taken := e.handles[container]; taken {
		e.mu.Unlock()
		return nil, errors.New("E301").
			WithDetailf("container %q already holds a mounted root", container).
			WithSuggestion("Unmount the existing handle before mounting again")
	}
	h = &Handle{
		engine:    e,
		container: container,
		root:      root,
		subs:      make(map[int]func(Redraw)),
	}
	e.handles[container] = h
	e.mu.Unlock()

	var o mountOptions
	for _, opt := range opts {
		opt(&o)
	}
	for _, fn := range o.beforeRender {
		if err := fn(h); err != nil {
			h.shutdown()
			return nil, err
		}
	}

	if err := h.initialRender(); err != nil {
		h.shutdown()
		return nil, err
	}

	e.logger.Info("mounted root",
		"container", container,
		"nodes", vdom.Count(h.tree),
		"bytes", len(h.html))
	return h, nil
}

// Lookup returns the handle mounted at container.
func (e *Engine) Lookup(container string) (*Handle, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	h, ok := e.handles[container]
	return h, ok
}

// Containers returns the names of all mounted containers in sorted order.
func (e *Engine) Containers() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := make([]string, 0, len(e.handles))
	for name := range e.handles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// release frees the container held by h, if h still holds it.
func (e *Engine) release(h *Handle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.handles[h.container] == h {
		delete(e.handles, h.container)
	}
}
