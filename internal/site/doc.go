// Package site holds the landing page of the demonstration site.
//
// Every exported view is a vdom.Fragment: a stateless function of its
// optional children that returns one freshly built tree. Fragments take no
// other input, have no side effects and never fail, so two calls always
// produce structurally equal trees.
//
// Page composes the fragments in document order:
//
//	main
//	├── section.hero.is-info.is-medium.is-bold
//	│   ├── div.hero-head > nav.navbar
//	│   └── div.hero-body > div.container.has-text-centered
//	├── section.section (CTA)
//	├── section.container (Features)
//	└── footer.footer
package site
