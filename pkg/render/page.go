package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vango-dev/hotweb/pkg/vdom"
)

// DefaultContainer is the id of the mount container when PageData leaves it empty.
const DefaultContainer = "app"

// PageData contains all data needed to render a full HTML page.
type PageData struct {
	// Title is the page title.
	Title string

	// Lang is the document language (default "en").
	Lang string

	// Meta contains meta tags to include in the head.
	Meta []MetaTag

	// Links contains link tags to include in the head.
	Links []LinkTag

	// StyleSheets contains URLs of CSS files to include.
	StyleSheets []string

	// Scripts contains script tags to include in the head.
	Scripts []ScriptTag

	// Container is the id of the element the body is mounted into.
	Container string

	// Body is the mounted tree. A nil body renders an empty container.
	Body *vdom.VNode

	// ClientModule is the URL of the hot-reload browser module. When set, the
	// page imports it and starts it against Container.
	ClientModule string
}

// MetaTag represents a <meta> tag.
type MetaTag struct {
	Name     string
	Content  string
	Property string // For Open Graph tags
}

// LinkTag represents a <link> tag.
type LinkTag struct {
	Rel  string
	Href string
	Type string
}

// ScriptTag represents a <script> tag.
type ScriptTag struct {
	Src    string
	Defer  bool
	Async  bool
	Module bool
	Inline string
}

// RenderPage renders a complete HTML document.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}
	container := page.Container
	if container == "" {
		container = DefaultContainer
	}

	if _, err := io.WriteString(w, "<!DOCTYPE html>\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "<html lang=\"%s\">\n", escapeAttr(lang)); err != nil {
		return err
	}

	if err := r.renderHead(w, page); err != nil {
		return err
	}

	if _, err := io.WriteString(w, "<body>\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "<div id=\"%s\">", escapeAttr(container)); err != nil {
		return err
	}
	if page.Body != nil {
		if err := r.RenderToWriter(w, page.Body); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "</div>\n"); err != nil {
		return err
	}

	if page.ClientModule != "" {
		if err := renderClientModule(w, page.ClientModule, container); err != nil {
			return err
		}
	}

	if _, err := io.WriteString(w, "</body>\n</html>\n"); err != nil {
		return err
	}
	return nil
}

// renderHead renders the <head> section.
func (r *Renderer) renderHead(w io.Writer, page PageData) error {
	if _, err := io.WriteString(w, "<head>\n"); err != nil {
		return err
	}

	if _, err := io.WriteString(w, "  <meta charset=\"utf-8\">\n"); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n"); err != nil {
		return err
	}

	if page.Title != "" {
		if _, err := fmt.Fprintf(w, "  <title>%s</title>\n", escapeHTML(page.Title)); err != nil {
			return err
		}
	}

	for _, meta := range page.Meta {
		if err := renderMetaTag(w, meta); err != nil {
			return err
		}
	}

	for _, link := range page.Links {
		if err := renderLinkTag(w, link); err != nil {
			return err
		}
	}

	for _, href := range page.StyleSheets {
		if _, err := fmt.Fprintf(w, "  <link rel=\"stylesheet\" href=\"%s\">\n", escapeAttr(href)); err != nil {
			return err
		}
	}

	for _, script := range page.Scripts {
		if err := renderScriptTag(w, script); err != nil {
			return err
		}
	}

	if _, err := io.WriteString(w, "</head>\n"); err != nil {
		return err
	}
	return nil
}

func renderMetaTag(w io.Writer, meta MetaTag) error {
	if meta.Property != "" {
		_, err := fmt.Fprintf(w, "  <meta property=\"%s\" content=\"%s\">\n",
			escapeAttr(meta.Property), escapeAttr(meta.Content))
		return err
	}
	_, err := fmt.Fprintf(w, "  <meta name=\"%s\" content=\"%s\">\n",
		escapeAttr(meta.Name), escapeAttr(meta.Content))
	return err
}

func renderLinkTag(w io.Writer, link LinkTag) error {
	if link.Type != "" {
		_, err := fmt.Fprintf(w, "  <link rel=\"%s\" href=\"%s\" type=\"%s\">\n",
			escapeAttr(link.Rel), escapeAttr(link.Href), escapeAttr(link.Type))
		return err
	}
	_, err := fmt.Fprintf(w, "  <link rel=\"%s\" href=\"%s\">\n",
		escapeAttr(link.Rel), escapeAttr(link.Href))
	return err
}

func renderScriptTag(w io.Writer, script ScriptTag) error {
	if _, err := io.WriteString(w, "  <script"); err != nil {
		return err
	}
	if script.Module {
		if _, err := io.WriteString(w, " type=\"module\""); err != nil {
			return err
		}
	}
	if script.Src != "" {
		if _, err := fmt.Fprintf(w, " src=\"%s\"", escapeAttr(script.Src)); err != nil {
			return err
		}
	}
	if script.Defer {
		if _, err := io.WriteString(w, " defer"); err != nil {
			return err
		}
	}
	if script.Async {
		if _, err := io.WriteString(w, " async"); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}
	if script.Inline != "" {
		if _, err := io.WriteString(w, script.Inline); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</script>\n")
	return err
}

// renderClientModule writes the module script that starts the hot-reload
// client against the mount container.
func renderClientModule(w io.Writer, src, container string) error {
	_, err := fmt.Fprintf(w,
		"<script type=\"module\">import * as hotweb from %s; hotweb.start(%s);</script>\n",
		scriptString(src), scriptString(container))
	return err
}

// scriptString quotes s as a JavaScript string literal that is safe inside
// a script element. json.Marshal escapes <, > and & as \u sequences.
func scriptString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(b)
}
