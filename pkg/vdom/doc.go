// Package vdom provides the virtual DOM tree used by hotweb pages.
//
// A VNode is a tagged variant: either an element (tag, ordered class list,
// attributes and children) or a text leaf. There is no fragment node kind:
// sequences of children are flattened into the parent while it is built, so
// a tree never carries "a child or a list of children" ambiguity.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Div(Class("card"), ID("main"),
//	    H1("Title"),
//	    P(Text("Content")),
//	)
//
// or with a hyperscript selector:
//
//	H("div.card#main", H("h1", "Title"), H("p", "Content"))
//
// # Fragments
//
// A Fragment is a stateless function producing one tree from optional
// children. Pages are composed by calling fragments inside other fragments;
// every call builds a fresh tree.
//
// # Comparing trees
//
// Equal compares two trees structurally, Outline flattens the elements of a
// tree to (tag, classes) pairs in document order and Diff lists the patches
// needed to turn one tree into another.
package vdom
