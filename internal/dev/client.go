package dev

import (
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"
)

// Listener is called with the dispatch time and the changed URL path.
type Listener func(ts time.Time, path string)

// Notifier pushes reload instructions to browsers.
type Notifier interface {
	NotifyCSS(path string)
	NotifyReload()
}

type listenerEntry struct {
	id int
	fn Listener
}

type refresherEntry struct {
	id int
	fn func()
}

// Client is the hot-reload registration API. It decides what a file
// change means for the page: listeners react to changes under a path
// prefix and refreshers run after every change.
//
// Every registration returns a cancel function that removes it.
type Client struct {
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time

	mu          sync.Mutex
	nextID      int
	listeners   map[string][]listenerEntry
	refreshers  []refresherEntry
	cssWatched  bool
	htmlWatched map[string]bool
}

// NewClient creates a Client that sends browser instructions to notifier.
func NewClient(notifier Notifier, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		notifier:    notifier,
		logger:      logger.With("component", "client"),
		now:         time.Now,
		listeners:   make(map[string][]listenerEntry),
		htmlWatched: make(map[string]bool),
	}
}

// Accept registers fn for every change whose path starts with prefix.
// The empty prefix matches every change.
func (c *Client) Accept(prefix string, fn Listener) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.listeners[prefix] = append(c.listeners[prefix], listenerEntry{id: id, fn: fn})

	return sync.OnceFunc(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.removeListenerLocked(prefix, id)
	})
}

func (c *Client) removeListenerLocked(prefix string, id int) {
	entries := c.listeners[prefix]
	for i, e := range entries {
		if e.id == id {
			entries = append(entries[:i:i], entries[i+1:]...)
			break
		}
	}
	if len(entries) == 0 {
		delete(c.listeners, prefix)
		return
	}
	c.listeners[prefix] = entries
}

// Refresh registers cb to run after every change, and runs it once now.
func (c *Client) Refresh(cb func()) (cancel func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.refreshers = append(c.refreshers, refresherEntry{id: id, fn: cb})
	c.mu.Unlock()
	cb()

	return sync.OnceFunc(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, e := range c.refreshers {
			if e.id == id {
				c.refreshers = append(c.refreshers[:i:i], c.refreshers[i+1:]...)
				return
			}
		}
	})
}

// WatchCSS swaps stylesheets in place whenever a .css file changes.
// Calling it again while watching has no effect and returns a no-op cancel.
func (c *Client) WatchCSS() (cancel func()) {
	c.mu.Lock()
	if c.cssWatched {
		c.mu.Unlock()
		return func() {}
	}
	c.cssWatched = true
	c.mu.Unlock()

	remove := c.Accept("", func(_ time.Time, path string) {
		if strings.HasSuffix(path, ".css") {
			c.logger.Info("stylesheet changed", "path", path)
			c.notifier.NotifyCSS(path)
		}
	})
	return sync.OnceFunc(func() {
		remove()
		c.mu.Lock()
		c.cssWatched = false
		c.mu.Unlock()
	})
}

// WatchHTML reloads the page served at pagePath when its HTML changes,
// that is pagePath itself or the index.html below it. Calling it again
// for a watched page has no effect and returns a no-op cancel.
func (c *Client) WatchHTML(pagePath string) (cancel func()) {
	if pagePath == "" {
		pagePath = "/"
	}

	c.mu.Lock()
	if c.htmlWatched[pagePath] {
		c.mu.Unlock()
		return func() {}
	}
	c.htmlWatched[pagePath] = true
	c.mu.Unlock()

	withIndex := pagePath + "/index.html"
	if strings.HasSuffix(pagePath, "/") {
		withIndex = pagePath + "index.html"
	}
	remove := c.Accept(pagePath, func(_ time.Time, path string) {
		if path == pagePath || path == withIndex {
			c.logger.Info("page changed", "path", path)
			c.notifier.NotifyReload()
		}
	})
	return sync.OnceFunc(func() {
		remove()
		c.mu.Lock()
		delete(c.htmlWatched, pagePath)
		c.mu.Unlock()
	})
}

// Dispatch runs the listeners whose prefix matches path, longest prefix
// first, then every refresher in registration order.
func (c *Client) Dispatch(path string) {
	ts := c.now()

	c.mu.Lock()
	prefixes := make([]string, 0, len(c.listeners))
	for prefix := range c.listeners {
		if strings.HasPrefix(path, prefix) {
			prefixes = append(prefixes, prefix)
		}
	}
	sort.Slice(prefixes, func(i, j int) bool {
		if len(prefixes[i]) != len(prefixes[j]) {
			return len(prefixes[i]) > len(prefixes[j])
		}
		return prefixes[i] < prefixes[j]
	})
	var listeners []Listener
	for _, prefix := range prefixes {
		for _, e := range c.listeners[prefix] {
			listeners = append(listeners, e.fn)
		}
	}
	refreshers := make([]func(), 0, len(c.refreshers))
	for _, e := range c.refreshers {
		refreshers = append(refreshers, e.fn)
	}
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(ts, path)
	}
	for _, cb := range refreshers {
		cb()
	}
}

// ListenerCount returns the number of registered listeners.
func (c *Client) ListenerCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, entries := range c.listeners {
		n += len(entries)
	}
	return n
}

// RefresherCount returns the number of registered refreshers.
func (c *Client) RefresherCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.refreshers)
}
