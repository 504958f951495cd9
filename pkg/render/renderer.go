package render

import (
	"bytes"
	"io"
	"sort"
	"strings"

	"github.com/vango-dev/hotweb/internal/errors"
	"github.com/vango-dev/hotweb/pkg/vdom"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables pretty-printed HTML output with indentation.
	// Should only be used in development as it increases output size.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string
}

// Renderer handles server-side rendering of VNode trees to HTML.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// Config returns the renderer configuration.
func (r *Renderer) Config() RendererConfig {
	return r.config
}

// RenderToString renders a VNode tree to an HTML string.
func (r *Renderer) RenderToString(node *vdom.VNode) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a VNode tree to the given writer.
func (r *Renderer) RenderToWriter(w io.Writer, node *vdom.VNode) error {
	sw := &stickyWriter{w: w}
	if err := r.renderNode(sw, node, 0); err != nil {
		return err
	}
	return sw.err
}

// stickyWriter remembers the first write error so the tree walk can write
// unconditionally and check once.
type stickyWriter struct {
	w   io.Writer
	err error
}

func (s *stickyWriter) WriteString(str string) {
	if s.err != nil {
		return
	}
	_, s.err = io.WriteString(s.w, str)
}

// renderNode dispatches rendering based on node kind.
func (r *Renderer) renderNode(w *stickyWriter, node *vdom.VNode, depth int) error {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case vdom.KindElement:
		return r.renderElement(w, node, depth)
	case vdom.KindText:
		w.WriteString(escapeHTML(node.Text))
		return nil
	default:
		return errors.New("E202").WithDetailf("kind %d", node.Kind)
	}
}

// renderElement renders an HTML element with its attributes and children.
func (r *Renderer) renderElement(w *stickyWriter, node *vdom.VNode, depth int) error {
	tag := node.Tag

	if r.config.Pretty && depth > 0 && !isInlineElement(tag) {
		r.writeIndent(w, depth)
	}

	w.WriteString("<")
	w.WriteString(tag)
	r.renderAttributes(w, node)
	w.WriteString(">")

	if isVoidElement(tag) {
		if r.config.Pretty && !isInlineElement(tag) {
			w.WriteString("\n")
		}
		return w.err
	}

	hasBlockChildren := r.config.Pretty && hasElementChildren(node) && !isInlineElement(tag)
	if hasBlockChildren {
		w.WriteString("\n")
	}

	for _, child := range node.Children {
		if hasBlockChildren && child.IsText() {
			r.writeIndent(w, depth+1)
		}
		if err := r.renderNode(w, child, depth+1); err != nil {
			return err
		}
		if hasBlockChildren && child.IsText() {
			w.WriteString("\n")
		}
	}

	if hasBlockChildren {
		r.writeIndent(w, depth)
	}

	w.WriteString("</")
	w.WriteString(tag)
	w.WriteString(">")
	if r.config.Pretty && !isInlineElement(tag) {
		w.WriteString("\n")
	}
	return w.err
}

// renderAttributes renders class first, then every other attribute in key order.
func (r *Renderer) renderAttributes(w *stickyWriter, node *vdom.VNode) {
	if len(node.Classes) > 0 {
		w.WriteString(` class="`)
		w.WriteString(escapeAttr(strings.Join(node.Classes, " ")))
		w.WriteString(`"`)
	}

	if len(node.Attrs) == 0 {
		return
	}
	keys := make([]string, 0, len(node.Attrs))
	for key := range node.Attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := node.Attrs[key]
		w.WriteString(" ")
		w.WriteString(key)
		if value == "" && isBooleanAttr(key) {
			continue
		}
		w.WriteString(`="`)
		w.WriteString(escapeAttr(value))
		w.WriteString(`"`)
	}
}

func hasElementChildren(node *vdom.VNode) bool {
	for _, c := range node.Children {
		if c.IsElement() && !isInlineElement(c.Tag) {
			return true
		}
	}
	return false
}

// writeIndent writes indentation for pretty printing.
func (r *Renderer) writeIndent(w *stickyWriter, depth int) {
	w.WriteString(strings.Repeat(r.config.Indent, depth))
}
