// Package dev provides the development server and hot reload functionality.
//
// This package implements:
//   - Polling file watching over an afero filesystem
//   - A WebSocket hub that pushes changes to browsers
//   - The Client registration API used to wire reload behavior
//   - The browser module served at /.hotweb/client.mjs
//   - An HTTP server for the page, static files and metrics
//
// # Architecture
//
//   - Watcher: polls the watched directories and reports Changes
//   - Client: turns a change into listener calls and refreshes
//   - ReloadServer: fans messages out to connected browsers
//   - Server: routes HTTP, runs the watcher and shuts down cleanly
//
// # Client registrations
//
// The Client mirrors the browser module API. Listeners are registered per
// path prefix and refreshers run after every change. Each registration
// returns a cancel func that removes it:
//
//	c := srv.Client()
//	h.OnUnmount(c.WatchCSS())       // swap stylesheets in place on *.css changes
//	h.OnUnmount(c.WatchHTML("/"))   // reload the page when its HTML changes
//	h.OnUnmount(c.Refresh(h.RequestRedraw))
//
// For each change, listeners whose prefix matches the changed path run
// longest prefix first, then every refresher runs in registration order.
//
// # Hot Reload Protocol
//
// Messages are JSON objects sent from server to browser:
//
//	{"type": "change", "path": "/css/site.css"}
//	{"type": "css",    "path": "/css/site.css"}
//	{"type": "reload"}
//	{"type": "redraw", "container": "app", "html": "<main>...</main>"}
package dev
