package render

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/vango-dev/hotweb/pkg/vdom"
)

func renderPage(t *testing.T, page PageData) string {
	t.Helper()
	var buf bytes.Buffer
	if err := NewRenderer(RendererConfig{}).RenderPage(&buf, page); err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	return buf.String()
}

func findElement(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, match); found != nil {
			return found
		}
	}
	return nil
}

func attrOf(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func TestRenderPageDocument(t *testing.T) {
	out := renderPage(t, PageData{
		Title:       "Hot <Web>",
		StyleSheets: []string{"/css/site.css"},
		Meta:        []MetaTag{{Name: "description", Content: "demo"}, {Property: "og:title", Content: "hotweb"}},
		Links:       []LinkTag{{Rel: "icon", Href: "/favicon.ico", Type: "image/x-icon"}},
		Scripts:     []ScriptTag{{Src: "/fa.js", Defer: true}},
		Body:        vdom.H("main", vdom.H("h1.title", "hello")),
	})

	if !strings.HasPrefix(out, "<!DOCTYPE html>\n<html lang=\"en\">") {
		t.Errorf("unexpected prologue:\n%s", out)
	}
	for _, want := range []string{
		"<title>Hot &lt;Web&gt;</title>",
		`<meta name="description" content="demo">`,
		`<meta property="og:title" content="hotweb">`,
		`<link rel="icon" href="/favicon.ico" type="image/x-icon">`,
		`<link rel="stylesheet" href="/css/site.css">`,
		`<script src="/fa.js" defer></script>`,
		`<div id="app"><main><h1 class="title">hello</h1></main></div>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("page missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "hotweb.start") {
		t.Error("client module should be omitted when ClientModule is empty")
	}
}

func TestRenderPageParses(t *testing.T) {
	out := renderPage(t, PageData{
		Container:    "root",
		Body:         vdom.H("section.hero", vdom.H("div.hero-head")),
		ClientModule: "/.hotweb/client.mjs",
	})

	doc, err := html.Parse(strings.NewReader(out))
	if err != nil {
		t.Fatalf("html.Parse: %v", err)
	}

	container := findElement(doc, func(n *html.Node) bool { return attrOf(n, "id") == "root" })
	if container == nil {
		t.Fatal("container #root not found")
	}
	hero := container.FirstChild
	if hero == nil || hero.Data != "section" || attrOf(hero, "class") != "hero" {
		t.Fatalf("container child = %+v, want section.hero", hero)
	}

	script := findElement(doc, func(n *html.Node) bool {
		return n.Data == "script" && attrOf(n, "type") == "module"
	})
	if script == nil || script.FirstChild == nil {
		t.Fatal("client module script not found")
	}
	if got := script.FirstChild.Data; !strings.Contains(got, `"/.hotweb/client.mjs"`) || !strings.Contains(got, `hotweb.start("root")`) {
		t.Errorf("client bootstrap = %q", got)
	}
}

func TestRenderPageDefaults(t *testing.T) {
	out := renderPage(t, PageData{Lang: "de"})

	if !strings.Contains(out, `<html lang="de">`) {
		t.Errorf("lang not applied:\n%s", out)
	}
	if !strings.Contains(out, `<div id="app"></div>`) {
		t.Errorf("nil body should render an empty default container:\n%s", out)
	}
	if strings.Contains(out, "<title>") {
		t.Error("empty title should be omitted")
	}
}

func TestRenderModuleScript(t *testing.T) {
	var buf bytes.Buffer
	if err := renderScriptTag(&buf, ScriptTag{Module: true, Inline: "console.log(1)"}); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "  <script type=\"module\">console.log(1)</script>\n" {
		t.Errorf("got %q", got)
	}
}

func TestClientModuleEscapesContainer(t *testing.T) {
	var buf bytes.Buffer
	if err := renderClientModule(&buf, "/.hotweb/client.mjs", `x</script><!--"`); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Count(out, "</script>") != 1 || strings.Contains(out, "<!--") {
		t.Fatalf("container escaped the script element: %q", out)
	}
	if !strings.Contains(out, `hotweb.start("x\u003c/script\u003e\u003c!--\"")`) {
		t.Errorf("got %q", out)
	}
}
