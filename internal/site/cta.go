package site

import "github.com/vango-dev/hotweb/pkg/vdom"

// CTA is the call-to-action strip below the hero. Children are appended
// inside the box after the announcement.
func CTA(children ...*vdom.VNode) *vdom.VNode {
	return vdom.H("section.section",
		vdom.H("div.box.cta",
			vdom.H("p.has-text-centered",
				vdom.H("span.tag.is-primary", "New"),
				" Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor incididunt ut labore et dolore magna aliqua. ",
			),
			children,
		),
	)
}
