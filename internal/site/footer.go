package site

import "github.com/vango-dev/hotweb/pkg/vdom"

// Footer is the page footer with the template attribution tags.
// Children are appended after the tags.
func Footer(children ...*vdom.VNode) *vdom.VNode {
	return vdom.H("footer.footer",
		vdom.H("div.container",
			vdom.H("div.content.has-text-centered",
				vdom.H("div.control.level-item",
					vdom.H("a[href='https://github.com/BulmaTemplates/bulma-templates']",
						vdom.H("div.tags.has-addons",
							vdom.H("span.tag.is-dark", "Bulma Templates"),
							vdom.H("span.tag.is-info", "MIT license"),
						),
					),
				),
				children,
			),
		),
	)
}
