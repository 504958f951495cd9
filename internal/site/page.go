package site

import (
	"github.com/vango-dev/hotweb/pkg/render"
	"github.com/vango-dev/hotweb/pkg/vdom"
)

// Document head assets.
const (
	Title = "hotweb"

	BulmaCSS    = "https://cdnjs.cloudflare.com/ajax/libs/bulma/0.7.2/css/bulma.min.css"
	SiteCSS     = "/css/site.css"
	FontAwesome = "https://use.fontawesome.com/releases/v5.3.1/js/all.js"
)

// Stylesheets are linked from the document head in order.
var Stylesheets = []string{BulmaCSS, SiteCSS}

// Scripts are loaded from the document head.
var Scripts = []render.ScriptTag{{Src: FontAwesome, Defer: true}}

// Subtitle is the hero lead paragraph.
const Subtitle = " Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor incididunt ut labore et dolore magna aliqua. Ut enim ad minim veniam, quis nostrud exercitation ullamco laboris nisi ut aliquip ex ea commodo consequat. "

// Page is the whole landing page. It always ends with the footer, so
// children are ignored.
func Page(_ ...*vdom.VNode) *vdom.VNode {
	return vdom.H("main",
		HeroSection(
			HeroHead(NavBar()),
			HeroBody(
				vdom.H("div.container.has-text-centered",
					vdom.H("h1.title",
						" The new standard in ",
						vdom.H("span[id='new-standard']", "hot reloading"),
					),
					vdom.H("h2.subtitle", Subtitle),
				),
			),
		),
		CTA(),
		Features(),
		Footer(),
	)
}

// Root is Page as a mountable component.
func Root() vdom.Component {
	return vdom.Fragment(Page).Component()
}

// Document returns the page data for a full document with body mounted
// into container. An empty clientModule leaves the hot-reload client out.
func Document(container, clientModule string, body *vdom.VNode) render.PageData {
	return render.PageData{
		Title:        Title,
		Meta:         []render.MetaTag{{Name: "description", Content: "The new standard in hot reloading"}},
		StyleSheets:  Stylesheets,
		Scripts:      Scripts,
		Container:    container,
		Body:         body,
		ClientModule: clientModule,
	}
}
