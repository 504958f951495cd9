package mount

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	herrors "github.com/vango-dev/hotweb/internal/errors"
	"github.com/vango-dev/hotweb/pkg/middleware"
	"github.com/vango-dev/hotweb/pkg/vdom"
)

func quietEngine(opts ...Option) *Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEngine(append([]Option{WithLogger(logger)}, opts...)...)
}

// counterRoot renders a paragraph whose text follows an external counter.
type counterRoot struct {
	n atomic.Int64
}

func (c *counterRoot) Render() *vdom.VNode {
	return vdom.H("div.counter", vdom.P(vdom.Textf("count %d", c.n.Load())))
}

func TestMountRendersOnce(t *testing.T) {
	e := quietEngine()
	renders := 0
	root := vdom.Func(func() *vdom.VNode {
		renders++
		return vdom.H("main", vdom.H("h1.title", "hello"))
	})

	h, err := e.Mount("app", root)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if renders != 1 {
		t.Errorf("renders = %d, want 1", renders)
	}
	if got, want := h.HTML(), `<main><h1 class="title">hello</h1></main>`; got != want {
		t.Errorf("HTML = %q, want %q", got, want)
	}
	if h.Container() != "app" || !h.Mounted() {
		t.Errorf("container = %q, mounted = %v", h.Container(), h.Mounted())
	}
	if got, ok := e.Lookup("app"); !ok || got != h {
		t.Error("Lookup should return the mounted handle")
	}
}

func TestMountValidation(t *testing.T) {
	e := quietEngine()
	root := vdom.Func(func() *vdom.VNode { return vdom.Div() })

	tests := []struct {
		name      string
		container string
		root      vdom.Component
		want      error
	}{
		{"empty container", "", root, ErrEmptyContainer},
		{"nil root", "app", nil, ErrNilRoot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Mount(tt.container, tt.root)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
	if len(e.Containers()) != 0 {
		t.Errorf("failed mounts must not occupy containers: %v", e.Containers())
	}
}

func TestMountTwiceFails(t *testing.T) {
	e := quietEngine()
	root := vdom.Func(func() *vdom.VNode { return vdom.Div() })

	first, err := e.Mount("app", root)
	if err != nil {
		t.Fatalf("first Mount: %v", err)
	}
	_, err = e.Mount("app", root)
	if !errors.Is(err, ErrAlreadyMounted) {
		t.Fatalf("second Mount err = %v, want ErrAlreadyMounted", err)
	}
	if got, _ := e.Lookup("app"); got != first {
		t.Error("failed mount must not replace the first handle")
	}

	if _, err := e.Mount("sidebar", root); err != nil {
		t.Errorf("other containers stay free: %v", err)
	}
}

func TestRemountAfterUnmount(t *testing.T) {
	e := quietEngine()
	root := vdom.Func(func() *vdom.VNode { return vdom.Div() })

	h, err := e.Mount("app", root)
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Unmount(); err != nil {
		t.Fatalf("Unmount: %v", err)
	}
	if _, ok := e.Lookup("app"); ok {
		t.Error("container should be free after Unmount")
	}
	if err := h.Unmount(); !errors.Is(err, ErrUnmounted) {
		t.Errorf("second Unmount err = %v, want ErrUnmounted", err)
	}
	if _, err := h.Redraw(context.Background()); !errors.Is(err, ErrUnmounted) {
		t.Errorf("Redraw after Unmount err = %v, want ErrUnmounted", err)
	}

	h2, err := e.Mount("app", root)
	if err != nil {
		t.Fatalf("re-mount: %v", err)
	}
	if h2 == h {
		t.Error("re-mount should produce a new handle")
	}
	// The stale handle must not free the new owner's container.
	_ = h.Unmount()
	if got, ok := e.Lookup("app"); !ok || got != h2 {
		t.Error("stale handle released the new mount")
	}
}

func TestRedrawUnchanged(t *testing.T) {
	e := quietEngine()
	root := &counterRoot{}
	h, err := e.Mount("app", root)
	if err != nil {
		t.Fatal(err)
	}

	notified := 0
	h.Subscribe(func(Redraw) { notified++ })

	r, err := h.Redraw(context.Background())
	if err != nil {
		t.Fatalf("Redraw: %v", err)
	}
	if r.Changed || len(r.Patches) != 0 {
		t.Errorf("Redraw = %+v, want unchanged", r)
	}
	if notified != 0 {
		t.Error("subscribers must not run for unchanged redraws")
	}
	if r.Version != 0 {
		t.Errorf("Version = %d, want 0", r.Version)
	}
}

func TestRedrawChanged(t *testing.T) {
	e := quietEngine()
	root := &counterRoot{}
	h, err := e.Mount("app", root)
	if err != nil {
		t.Fatal(err)
	}

	var got []Redraw
	cancel := h.Subscribe(func(r Redraw) { got = append(got, r) })

	root.n.Store(1)
	r, err := h.Redraw(context.Background())
	if err != nil {
		t.Fatalf("Redraw: %v", err)
	}
	if !r.Changed || len(r.Patches) != 1 || r.Patches[0].Op != vdom.PatchSetText {
		t.Fatalf("Redraw patches = %v", r.Patches)
	}
	if r.HTML != `<div class="counter"><p>count 1</p></div>` || h.HTML() != r.HTML {
		t.Errorf("HTML = %q", r.HTML)
	}
	if len(got) != 1 || got[0].Version != 1 {
		t.Fatalf("subscriber saw %+v", got)
	}

	cancel()
	root.n.Store(2)
	if _, err := h.Redraw(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Error("cancelled subscriber should not run")
	}
	if h.Version() != 2 {
		t.Errorf("Version = %d, want 2", h.Version())
	}
}

func TestRedrawBuildsFreshTree(t *testing.T) {
	e := quietEngine()
	h, err := e.Mount("app", vdom.Fragment(func(children ...*vdom.VNode) *vdom.VNode {
		return vdom.H("section.hero", children)
	}).Component(vdom.H("div.hero-head")))
	if err != nil {
		t.Fatal(err)
	}

	before := h.Tree()
	if _, err := h.Redraw(context.Background()); err != nil {
		t.Fatal(err)
	}
	after := h.Tree()
	if before == after || before.Children[0] == after.Children[0] {
		t.Error("each redraw should build a new tree")
	}
	if !vdom.Equal(before, after) {
		t.Error("fragment output should be deterministic")
	}
}

func TestRedrawCancelledContext(t *testing.T) {
	e := quietEngine()
	h, err := e.Mount("app", &counterRoot{})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := h.Redraw(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRenderPanicIsRecovered(t *testing.T) {
	e := quietEngine()
	_, err := e.Mount("app", vdom.Func(func() *vdom.VNode {
		return vdom.H("div[broken")
	}))
	if !errors.Is(err, ErrRenderPanic) {
		t.Fatalf("err = %v, want ErrRenderPanic", err)
	}
	if !errors.Is(err, herrors.New("E201")) {
		t.Fatalf("err = %v, should wrap the selector error", err)
	}
	if _, ok := e.Lookup("app"); ok {
		t.Error("failed mount must free the container")
	}
}

func TestRequestRedrawAfterUnmount(t *testing.T) {
	e := quietEngine()
	h, err := e.Mount("app", &counterRoot{})
	if err != nil {
		t.Fatal(err)
	}
	_ = h.Unmount()
	h.RequestRedraw()
}

func TestMetricsRecorded(t *testing.T) {
	m := middleware.NewMetrics(middleware.WithRegistry(prometheus.NewRegistry()))
	e := quietEngine(WithMetrics(m), WithTracer(middleware.NewTracer()))
	root := &counterRoot{}

	h, err := e.Mount("app", root)
	if err != nil {
		t.Fatal(err)
	}
	root.n.Store(7)
	h.RequestRedraw()
	if h.Version() != 1 {
		t.Errorf("Version = %d, want 1", h.Version())
	}
}

func TestConcurrentRedraws(t *testing.T) {
	e := quietEngine()
	root := &counterRoot{}
	h, err := e.Mount("app", root)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			root.n.Store(int64(i))
			h.RequestRedraw()
		}(i)
	}
	wg.Wait()

	if _, err := h.Redraw(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got, want := vdom.TextContent(h.Tree()), "count "+strconv.FormatInt(root.n.Load(), 10); got != want {
		t.Errorf("final text = %q, want %q", got, want)
	}
}

func TestContainersSorted(t *testing.T) {
	e := quietEngine()
	root := vdom.Func(func() *vdom.VNode { return vdom.Div() })
	for _, name := range []string{"b", "a", "c"} {
		if _, err := e.Mount(name, root); err != nil {
			t.Fatal(err)
		}
	}
	got := e.Containers()
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("Containers() = %v", got)
	}
}

func TestOnUnmountRunsInReverse(t *testing.T) {
	e := quietEngine()
	var order []string
	h, err := e.Mount("app", vdom.Func(func() *vdom.VNode { return vdom.P("x") }),
		BeforeRender(func(h *Handle) error {
			h.OnUnmount(func() { order = append(order, "first") })
			h.OnUnmount(func() { order = append(order, "second") })
			return nil
		}))
	if err != nil {
		t.Fatal(err)
	}
	if len(order) != 0 {
		t.Fatalf("teardown ran while mounted: %v", order)
	}

	if err := h.Unmount(); err != nil {
		t.Fatal(err)
	}
	if err := h.Unmount(); !errors.Is(err, ErrUnmounted) {
		t.Errorf("second Unmount = %v, want ErrUnmounted", err)
	}
	if got := strings.Join(order, ","); got != "second,first" {
		t.Errorf("teardown order = %s", got)
	}

	ran := false
	h.OnUnmount(func() { ran = true })
	if !ran {
		t.Error("OnUnmount on an unmounted handle should run immediately")
	}
}

func TestBeforeRenderErrorAbortsMount(t *testing.T) {
	e := quietEngine()
	boom := errors.New("boom")
	renders, teardowns := 0, 0
	root := vdom.Func(func() *vdom.VNode {
		renders++
		return vdom.P("x")
	})

	_, err := e.Mount("app", root, BeforeRender(func(h *Handle) error {
		h.OnUnmount(func() { teardowns++ })
		return boom
	}))
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want boom", err)
	}
	if renders != 0 || teardowns != 1 {
		t.Errorf("renders = %d, teardowns = %d", renders, teardowns)
	}
	if _, ok := e.Lookup("app"); ok {
		t.Error("aborted mount must free the container")
	}
}

func TestRenderPanicRunsTeardown(t *testing.T) {
	e := quietEngine()
	teardowns := 0
	root := vdom.Func(func() *vdom.VNode { panic("broken") })

	_, err := e.Mount("app", root, BeforeRender(func(h *Handle) error {
		h.OnUnmount(func() { teardowns++ })
		return nil
	}))
	if !errors.Is(err, ErrRenderPanic) {
		t.Fatalf("error = %v, want ErrRenderPanic", err)
	}
	if teardowns != 1 {
		t.Errorf("teardowns = %d, want 1", teardowns)
	}
	if _, ok := e.Lookup("app"); ok {
		t.Error("failed mount must free the container")
	}
}

func TestBeforeRenderHoldsContainer(t *testing.T) {
	e := quietEngine()
	root := vdom.Func(func() *vdom.VNode { return vdom.P("x") })

	var inner error
	h, err := e.Mount("app", root, BeforeRender(func(*Handle) error {
		_, inner = e.Mount("app", root)
		return nil
	}))
	if err != nil {
		t.Fatal(err)
	}
	defer h.Unmount()
	if !errors.Is(inner, ErrAlreadyMounted) {
		t.Errorf("mount during hook = %v, want ErrAlreadyMounted", inner)
	}
}
