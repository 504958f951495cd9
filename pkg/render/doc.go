// Package render provides server-side rendering (SSR) of vdom trees.
//
// The render package converts VNode trees into HTML strings or streams:
//
//   - HTML5 element rendering with void element handling
//   - Text and attribute escaping
//   - Deterministic attribute order (class first, then sorted keys)
//   - Optional pretty printing for development
//   - Full documents with head assets and a mount container
//
// # Basic Usage
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(node)
//
// # Full Page Rendering
//
//	err := renderer.RenderPage(w, render.PageData{
//	    Title:       "hotweb",
//	    Container:   "app",
//	    Body:        tree,
//	    StyleSheets: []string{"/css/site.css"},
//	})
//
// A Renderer holds no per-render state and is safe for concurrent use.
package render
