package vdom

import (
	"strconv"
	"strings"
)

// attr creates an Attr with the given key and value.
func attr(key, value string) Attr {
	return Attr{Key: key, Value: value}
}

// AttrOf creates an arbitrary attribute.
func AttrOf(key, value string) Attr { return attr(key, value) }

// Identity attributes

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class adds class names; each argument may itself hold several names.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// StyleAttr sets the style attribute (named to avoid conflict with Style element).
func StyleAttr(style string) Attr { return attr("style", style) }

// Data creates a data-* attribute.
// Example: Data("target", "menu") → data-target="menu"
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Accessibility attributes

// Role sets the role attribute.
func Role(role string) Attr { return attr("role", role) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) Attr { return attr("aria-label", label) }

// AriaHidden sets the aria-hidden attribute.
func AriaHidden(hidden bool) Attr { return attr("aria-hidden", strconv.FormatBool(hidden)) }

// AriaExpanded sets the aria-expanded attribute.
func AriaExpanded(expanded bool) Attr { return attr("aria-expanded", strconv.FormatBool(expanded)) }

// TitleAttr sets the title attribute (named to avoid conflict with Title element).
func TitleAttr(title string) Attr { return attr("title", title) }

// Lang sets the lang attribute.
func Lang(lang string) Attr { return attr("lang", lang) }

// Links and media

func Href(url string) Attr      { return attr("href", url) }
func Src(url string) Attr       { return attr("src", url) }
func Alt(text string) Attr      { return attr("alt", text) }
func Rel(rel string) Attr       { return attr("rel", rel) }
func Target(t string) Attr      { return attr("target", t) }
func Type(t string) Attr        { return attr("type", t) }
func Name(name string) Attr     { return attr("name", name) }
func Content(c string) Attr     { return attr("content", c) }
func Charset(c string) Attr     { return attr("charset", c) }
func Width(w int) Attr          { return attr("width", strconv.Itoa(w)) }
func Height(h int) Attr         { return attr("height", strconv.Itoa(h)) }
func Defer() Attr               { return attr("defer", "") }
func CrossOrigin(v string) Attr { return attr("crossorigin", v) }
