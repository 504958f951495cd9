package app

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/vango-dev/hotweb/internal/config"
	"github.com/vango-dev/hotweb/internal/site"
	"github.com/vango-dev/hotweb/pkg/mount"
	"github.com/vango-dev/hotweb/pkg/vdom"
)

// Registrar is the part of the hot-reload client Bootstrap registers with.
// Each registration returns a function that removes it.
type Registrar interface {
	WatchCSS() (cancel func())
	WatchHTML(pagePath string) (cancel func())
	Refresh(cb func()) (cancel func())
}

// Options configures Bootstrap.
type Options struct {
	// Container is the id of the element the page is mounted into.
	Container string

	// PagePath is the URL path whose HTML changes reload the page.
	PagePath string

	// Root is the mounted component. Defaults to the landing page.
	Root vdom.Component

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

func (o *Options) applyDefaults() {
	if o.Container == "" {
		o.Container = config.DefaultContainer
	}
	if o.PagePath == "" {
		o.PagePath = config.DefaultPagePath
	}
	if o.Root == nil {
		o.Root = site.Root()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Bootstrap registers hot reload and mounts the page. Registration happens
// in a fixed order: stylesheet watching, page watching, the refresh
// callback, then the mount. The refresh callback does nothing until the
// mount has produced a handle.
//
// The registrations belong to the returned handle: Unmount removes them,
// and a failed mount removes them before Bootstrap returns. Bootstrapping
// a container that is already mounted fails with mount.ErrAlreadyMounted
// and registers nothing.
func Bootstrap(ctx context.Context, engine *mount.Engine, client Registrar, opts Options) (*mount.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts.applyDefaults()

	var handle atomic.Pointer[mount.Handle]

	register := func(h *mount.Handle) error {
		h.OnUnmount(client.WatchCSS())
		h.OnUnmount(client.WatchHTML(opts.PagePath))
		h.OnUnmount(client.Refresh(func() {
			if h := handle.Load(); h != nil {
				h.RequestRedraw()
			}
		}))
		return nil
	}

	h, err := engine.Mount(opts.Container, opts.Root, mount.BeforeRender(register))
	if err != nil {
		return nil, err
	}
	handle.Store(h)

	opts.Logger.Info("bootstrapped", "container", opts.Container, "page", opts.PagePath)
	return h, nil
}
