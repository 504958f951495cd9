package site

import "github.com/vango-dev/hotweb/pkg/vdom"

type feature struct {
	heading string
	body    string
}

var features = []feature{
	{
		heading: "Tristique senectus et netus et. ",
		body:    "Purus semper eget duis at tellus at urna condimentum mattis. Non blandit massa enim nec. Integer enim neque volutpat ac tincidunt vitae semper quis. Accumsan tortor posuere ac ut consequat semper viverra nam.",
	},
	{
		heading: "Tempor orci dapibus ultrices in.",
		body:    "Ut venenatis tellus in metus vulputate. Amet consectetur adipiscing elit pellentesque. Sed arcu non odio euismod lacinia at quis risus. Faucibus turpis in eu mi bibendum neque egestas cmonsu songue. Phasellus vestibulum lorem sed risus.",
	},
	{
		heading: " Leo integer malesuada nunc vel risus. ",
		body:    "Imperdiet dui accumsan sit amet nulla facilisi morbi. Fusce ut placerat orci nulla pellentesque dignissim enim. Libero id faucibus nisl tincidunt eget nullam. Commodo viverra maecenas accumsan lacus vel facilisis.",
	},
}

// Features is the three-card grid. Children are appended to the grid as
// additional columns.
func Features(children ...*vdom.VNode) *vdom.VNode {
	return vdom.H("section.container",
		vdom.H("div.columns.features",
			vdom.Range(features, featureCard),
			children,
		),
	)
}

func featureCard(f feature, _ int) *vdom.VNode {
	return vdom.H("div.column.is-4",
		vdom.H("div.card.is-shady",
			vdom.H("div.card-content",
				vdom.H("div.content",
					vdom.H("h4", f.heading),
					vdom.H("p", f.body),
					vdom.H("p", vdom.H("a[href='#']", "Learn more")),
				),
			),
		),
	)
}
