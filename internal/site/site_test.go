package site

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/vango-dev/hotweb/pkg/render"
	"github.com/vango-dev/hotweb/pkg/vdom"
)

var fragments = map[string]vdom.Fragment{
	"HeroSection": HeroSection,
	"HeroHead":    HeroHead,
	"HeroBody":    HeroBody,
	"NavBar":      NavBar,
	"CTA":         CTA,
	"Features":    Features,
	"Footer":      Footer,
	"Page":        Page,
}

func TestFragmentsAreDeterministic(t *testing.T) {
	for name, f := range fragments {
		t.Run(name, func(t *testing.T) {
			a, b := f(), f()
			if a == b {
				t.Fatal("each call should build a new tree")
			}
			if !vdom.Equal(a, b) {
				t.Errorf("two calls differ:\n%s", cmp.Diff(vdom.Outline(a), vdom.Outline(b)))
			}
		})
	}
}

func TestWrappersPlaceChildren(t *testing.T) {
	tests := []struct {
		name string
		f    vdom.Fragment
		root string
	}{
		{"HeroSection", HeroSection, "section.hero.is-info.is-medium.is-bold"},
		{"HeroHead", HeroHead, "div.hero-head"},
		{"HeroBody", HeroBody, "div.hero-body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			empty := tt.f()
			if got := vdom.Outline(empty)[0].String(); got != tt.root {
				t.Errorf("root = %q, want %q", got, tt.root)
			}
			if len(empty.Children) != 0 {
				t.Errorf("zero children should render an empty wrapper, got %d", len(empty.Children))
			}

			a, b := vdom.P("a"), vdom.P("b")
			got := tt.f(a, b)
			if len(got.Children) != 2 || got.Children[0] != a || got.Children[1] != b {
				t.Errorf("children not placed in order: %+v", got.Children)
			}
		})
	}
}

func TestLeafFragmentsNeedNoInput(t *testing.T) {
	tests := []struct {
		name string
		f    vdom.Fragment
		want []string
	}{
		{"CTA", CTA, []string{"section.section", "div.box.cta"}},
		{"Features", Features, []string{"section.container", "div.columns.features"}},
		{"Footer", Footer, []string{"footer.footer", "div.container", "div.content.has-text-centered"}},
		{"NavBar", NavBar, []string{"nav.navbar", "div.container", "div.navbar-brand"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outline := vdom.Outline(tt.f())
			var got []string
			for _, e := range outline[:len(tt.want)] {
				got = append(got, e.String())
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("outline prefix mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFeaturesCards(t *testing.T) {
	tree := Features()

	cards := vdom.FindAll(tree, vdom.ByClass("card"))
	if len(cards) != 3 {
		t.Fatalf("cards = %d, want 3", len(cards))
	}
	for i, card := range cards {
		if !card.HasClass("is-shady") {
			t.Errorf("card %d missing is-shady", i)
		}
		h4 := vdom.Find(card, vdom.ByTag("h4"))
		if got := vdom.TextContent(h4); got != features[i].heading {
			t.Errorf("card %d heading = %q, want %q", i, got, features[i].heading)
		}
		link := vdom.Find(card, vdom.ByTag("a"))
		if href, _ := link.Attr("href"); href != "#" || vdom.TextContent(link) != "Learn more" {
			t.Errorf("card %d link = %q %q", i, href, vdom.TextContent(link))
		}
	}

	extra := Features(vdom.H("div.column.is-4"))
	columns := vdom.FindAll(extra, vdom.ByClass("column"))
	if len(columns) != 4 {
		t.Errorf("extra child should become a fourth column, got %d", len(columns))
	}
}

func TestFooterTags(t *testing.T) {
	tags := vdom.FindAll(Footer(), vdom.ByClass("tag"))
	if len(tags) != 2 {
		t.Fatalf("tags = %d, want 2", len(tags))
	}
	if vdom.TextContent(tags[0]) != "Bulma Templates" || !tags[0].HasClass("is-dark") {
		t.Errorf("first tag = %v %q", tags[0].Classes, vdom.TextContent(tags[0]))
	}
	if vdom.TextContent(tags[1]) != "MIT license" || !tags[1].HasClass("is-info") {
		t.Errorf("second tag = %v %q", tags[1].Classes, vdom.TextContent(tags[1]))
	}
	link := vdom.Find(Footer(), vdom.ByTag("a"))
	if href, _ := link.Attr("href"); href != "https://github.com/BulmaTemplates/bulma-templates" {
		t.Errorf("href = %q", href)
	}
}

func TestNavBarExtraChildren(t *testing.T) {
	nav := NavBar(vdom.H("a.navbar-item#extra", "Blog"))
	end := vdom.Find(nav, vdom.ByClass("navbar-end"))
	last := end.Children[len(end.Children)-1]
	if id, _ := last.Attr("id"); id != "extra" {
		t.Errorf("extra child should close the end menu, got %+v", last)
	}
}

func TestPageTopLevelOrder(t *testing.T) {
	page := Page()
	if page.Tag != "main" {
		t.Fatalf("root = %q, want main", page.Tag)
	}

	var got []string
	for _, child := range page.Children {
		got = append(got, vdom.Entry{Tag: child.Tag, Classes: child.Classes}.String())
	}
	want := []string{
		"section.hero.is-info.is-medium.is-bold",
		"section.section",
		"section.container",
		"footer.footer",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("top-level order mismatch (-want +got):\n%s", diff)
	}
}

func TestPageEndsWithFooterGivenChildren(t *testing.T) {
	page := Page(vdom.P("extra"))
	if !vdom.Equal(page, Page()) {
		t.Error("children must not change the page")
	}
	last := page.Children[len(page.Children)-1]
	if got := (vdom.Entry{Tag: last.Tag, Classes: last.Classes}).String(); got != "footer.footer" {
		t.Errorf("last top-level child = %q, want footer.footer", got)
	}
}

func TestHeroHeadHoldsOnlyNavBar(t *testing.T) {
	head := vdom.Find(Page(), vdom.ByClass("hero-head"))
	if head == nil {
		t.Fatal("hero head not found")
	}
	if len(head.Children) != 1 {
		t.Fatalf("hero head children = %d, want 1", len(head.Children))
	}
	if !vdom.Equal(head.Children[0], NavBar()) {
		t.Error("hero head child should be the navbar")
	}
}

func TestHeroBodyHeadline(t *testing.T) {
	body := vdom.Find(Page(), vdom.ByClass("hero-body"))
	title := vdom.Find(body, vdom.ByClass("title"))
	if title.Tag != "h1" {
		t.Errorf("title tag = %q", title.Tag)
	}
	if got := vdom.TextContent(title); got != " The new standard in hot reloading" {
		t.Errorf("title text = %q", got)
	}
	span := vdom.Find(title, vdom.ByTag("span"))
	if id, _ := span.Attr("id"); id != "new-standard" {
		t.Errorf("span id = %q", id)
	}
	subtitle := vdom.Find(body, vdom.ByClass("subtitle"))
	if vdom.TextContent(subtitle) != Subtitle {
		t.Errorf("subtitle = %q", vdom.TextContent(subtitle))
	}
}

// TestRenderedDocumentOrder parses the rendered document and checks that
// the landmarks appear in document order.
func TestRenderedDocumentOrder(t *testing.T) {
	var b strings.Builder
	renderer := render.NewRenderer(render.RendererConfig{})
	if err := renderer.RenderPage(&b, Document("app", "/.hotweb/client.mjs", Page())); err != nil {
		t.Fatalf("RenderPage: %v", err)
	}

	doc, err := html.Parse(strings.NewReader(b.String()))
	if err != nil {
		t.Fatalf("html.Parse: %v", err)
	}

	var order []string
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, a := range n.Attr {
				if a.Key == "class" {
					switch a.Val {
					case "hero is-info is-medium is-bold", "hero-head", "navbar", "hero-body", "box cta", "columns features", "footer":
						order = append(order, a.Val)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(doc)

	want := []string{
		"hero is-info is-medium is-bold",
		"hero-head",
		"navbar",
		"hero-body",
		"box cta",
		"columns features",
		"footer",
	}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Errorf("document order mismatch (-want +got):\n%s", diff)
	}

	out := b.String()
	for _, asset := range append([]string{FontAwesome}, Stylesheets...) {
		if !strings.Contains(out, asset) {
			t.Errorf("document missing asset %q", asset)
		}
	}
}

func TestRootRendersPage(t *testing.T) {
	root := Root()
	if !vdom.Equal(root.Render(), Page()) {
		t.Error("Root should render the page")
	}
}
