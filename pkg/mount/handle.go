package mount

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/vango-dev/hotweb/internal/errors"
	"github.com/vango-dev/hotweb/pkg/vdom"
)

// Redraw describes the outcome of one redraw pass.
type Redraw struct {
	Container string
	Version   uint64
	Patches   []vdom.Patch
	HTML      string
	Changed   bool
}

// Handle is the exclusive owner of a mounted container.
type Handle struct {
	engine    *Engine
	container string
	root      vdom.Component

	mu        sync.Mutex
	tree      *vdom.VNode
	html      string
	version   uint64
	unmounted bool
	subs      map[int]func(Redraw)
	nextSub   int
	teardown  []func()
}

// Container returns the name of the container the handle owns.
func (h *Handle) Container() string {
	return h.container
}

// Tree returns the most recently rendered tree.
func (h *Handle) Tree() *vdom.VNode {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.tree
}

// HTML returns the most recently rendered container HTML.
func (h *Handle) HTML() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.html
}

// Version returns the number of changed redraws since mount.
func (h *Handle) Version() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.version
}

// Mounted reports whether the handle still owns its container.
func (h *Handle) Mounted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.unmounted
}

// Subscribe registers fn to run after every redraw that changed the tree.
// The returned function removes the subscription.
func (h *Handle) Subscribe(fn func(Redraw)) (cancel func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextSub
	h.nextSub++
	h.subs[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

// Redraw re-renders the root, diffs it against the previous tree and
// notifies subscribers when anything changed.
func (h *Handle) Redraw(ctx context.Context) (r Redraw, err error) {
	e := h.engine
	ctx, span := e.tracer.Start(ctx, "hotweb.redraw",
		attribute.String("hotweb.container", h.container))
	defer func() {
		span.SetAttributes(attribute.Int("hotweb.patch_count", len(r.Patches)))
		e.tracer.End(span, err)
	}()

	if err := ctx.Err(); err != nil {
		return Redraw{}, err
	}

	h.mu.Lock()
	if h.unmounted {
		h.mu.Unlock()
		return Redraw{}, errors.New("E304").WithDetailf("container %q", h.container)
	}

	next, html, err := h.renderLocked()
	if err != nil {
		h.mu.Unlock()
		return Redraw{}, err
	}

	patches := vdom.Diff(h.tree, next)
	h.tree = next
	h.html = html
	r = Redraw{
		Container: h.container,
		Patches:   patches,
		HTML:      html,
		Changed:   len(patches) > 0,
	}
	if r.Changed {
		h.version++
	}
	r.Version = h.version

	var subs []func(Redraw)
	if r.Changed {
		subs = make([]func(Redraw), 0, len(h.subs))
		for id := 0; id < h.nextSub; id++ {
			if fn, ok := h.subs[id]; ok {
				subs = append(subs, fn)
			}
		}
	}
	h.mu.Unlock()

	e.metrics.RecordRedraw(h.container, len(patches))
	e.logger.Debug("redraw",
		"container", h.container,
		"patches", len(patches),
		"version", r.Version)

	for _, fn := range subs {
		fn(r)
	}
	return r, nil
}

// RequestRedraw redraws and logs the outcome instead of returning it.
// It is the form used by hot-reload refresh callbacks.
func (h *Handle) RequestRedraw() {
	if _, err := h.Redraw(context.Background()); err != nil {
		if errors.Code(err) == ErrUnmounted.Code {
			h.engine.logger.Debug("redraw after unmount ignored", "container", h.container)
			return
		}
		h.engine.logger.Error("redraw failed", "container", h.container, "error", err)
	}
}

// OnUnmount registers fn to run when the handle is unmounted, after the
// container is freed. Functions run in reverse registration order. On an
// unmounted handle fn runs immediately.
func (h *Handle) OnUnmount(fn func()) {
	h.mu.Lock()
	if h.unmounted {
		h.mu.Unlock()
		fn()
		return
	}
	h.teardown = append(h.teardown, fn)
	h.mu.Unlock()
}

// Unmount frees the container. Later operations on h fail with ErrUnmounted.
func (h *Handle) Unmount() error {
	if !h.shutdown() {
		return errors.New("E304").WithDetailf("container %q", h.container)
	}
	h.engine.logger.Info("unmounted root", "container", h.container)
	return nil
}

// shutdown marks h unmounted, frees its container and runs its teardown.
// It reports false if h was already unmounted.
func (h *Handle) shutdown() bool {
	h.mu.Lock()
	if h.unmounted {
		h.mu.Unlock()
		return false
	}
	h.unmounted = true
	h.subs = make(map[int]func(Redraw))
	teardown := h.teardown
	h.teardown = nil
	h.mu.Unlock()

	h.engine.release(h)
	for i := len(teardown) - 1; i >= 0; i-- {
		teardown[i]()
	}
	return true
}

func (h *Handle) initialRender() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	tree, html, err := h.renderLocked()
	if err != nil {
		return err
	}
	h.tree = tree
	h.html = html
	return nil
}

// renderLocked builds a fresh tree from the root and renders it.
// h.mu must be held.
func (h *Handle) renderLocked() (tree *vdom.VNode, html string, err error) {
	e := h.engine
	start := time.Now()
	defer func() {
		e.metrics.ObserveRender(h.container, time.Since(start), err)
	}()

	tree, err = h.safeRender()
	if err != nil {
		return nil, "", err
	}
	html, err = e.renderer.RenderToString(tree)
	if err != nil {
		return nil, "", err
	}
	return tree, html, nil
}

// safeRender runs the root's Render with panic recovery.
func (h *Handle) safeRender() (tree *vdom.VNode, err error) {
	defer func() {
		if r := recover(); r != nil {
			h.engine.logger.Error("render panic",
				"container", h.container,
				"panic", r,
				"stack", string(debug.Stack()))
			if cause, ok := r.(error); ok {
				err = errors.New("E305").WithDetailf("container %q", h.container).Wrap(cause)
				return
			}
			err = errors.New("E305").WithDetail(fmt.Sprintf("container %q: %v", h.container, r))
		}
	}()
	return h.root.Render(), nil
}
