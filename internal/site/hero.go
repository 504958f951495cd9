package site

import "github.com/vango-dev/hotweb/pkg/vdom"

// HeroSection is the full-width banner wrapping the hero head and body.
func HeroSection(children ...*vdom.VNode) *vdom.VNode {
	return vdom.H("section.hero.is-info.is-medium.is-bold", children)
}

// HeroHead is the top band of the hero, holding the navigation bar.
func HeroHead(children ...*vdom.VNode) *vdom.VNode {
	return vdom.H("div.hero-head", children)
}

// HeroBody is the main band of the hero.
func HeroBody(children ...*vdom.VNode) *vdom.VNode {
	return vdom.H("div.hero-body", children)
}
