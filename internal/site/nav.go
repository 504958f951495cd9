package site

import "github.com/vango-dev/hotweb/pkg/vdom"

// NavBar is the top navigation bar. Extra children go into the end menu
// after the GitHub button.
func NavBar(children ...*vdom.VNode) *vdom.VNode {
	return vdom.H("nav.navbar",
		vdom.H("div.container",
			vdom.H("div.navbar-brand",
				vdom.H("a.navbar-item[href='/']", vdom.Strong("hotweb")),
				vdom.H("span.navbar-burger.burger[data-target='navbarMenu']",
					vdom.Span(), vdom.Span(), vdom.Span(),
				),
			),
			vdom.H("div.navbar-menu#navbarMenu",
				vdom.H("div.navbar-end",
					vdom.H("div.tabs.is-right",
						vdom.Ul(
							vdom.H("li.is-active", vdom.H("a[href='#']", "Home")),
							vdom.Li(vdom.H("a[href='#features']", "Features")),
							vdom.Li(vdom.H("a[href='#docs']", "Docs")),
						),
						vdom.H("span.navbar-item",
							vdom.H("a.button.is-white.is-outlined[href='https://github.com/BulmaTemplates/bulma-templates']",
								vdom.H("span.icon", vdom.H("i.fab.fa-github")),
								vdom.Span("View Source"),
							),
						),
					),
					children,
				),
			),
		),
	)
}
