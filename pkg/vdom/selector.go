package vdom

import (
	"strings"
	"sync"

	"github.com/vango-dev/hotweb/internal/errors"
)

// selector is a parsed hyperscript selector.
type selector struct {
	tag     string
	classes []string
	attrs   []Attr
}

// selectorCache memoizes parsed selectors. Selectors are string literals, so
// the set is small and fixed for the life of the process.
var selectorCache sync.Map // map[string]*selector

// H creates an element from a hyperscript selector and arguments.
//
// The selector has the form tag(.class)*(#id)?([key='value'])*; the tag
// defaults to "div". Arguments follow the same rules as the element
// factories:
//
//	H("div.container.has-text-centered",
//	    H("h1.title", " The new standard in ", H("span[id='new-standard']", "hot reloading")),
//	)
//
// H panics on malformed selectors, which are programming errors.
func H(sel string, args ...any) *VNode {
	s, err := parseSelectorCached(sel)
	if err != nil {
		panic(err)
	}
	node := &VNode{Kind: KindElement, Tag: s.tag}
	if len(s.classes) > 0 {
		node.Classes = append(make([]string, 0, len(s.classes)), s.classes...)
	}
	for _, a := range s.attrs {
		node.setAttr(a)
	}
	for _, arg := range args {
		appendArg(node, arg)
	}
	return node
}

// ParseSelector validates sel and returns its tag, classes and attributes.
func ParseSelector(sel string) (tag string, classes []string, attrs []Attr, err error) {
	s, err := parseSelectorCached(sel)
	if err != nil {
		return "", nil, nil, err
	}
	return s.tag, append([]string(nil), s.classes...), append([]Attr(nil), s.attrs...), nil
}

func parseSelectorCached(sel string) (*selector, error) {
	if cached, ok := selectorCache.Load(sel); ok {
		return cached.(*selector), nil
	}
	s, err := parseSelector(sel)
	if err != nil {
		return nil, err
	}
	selectorCache.Store(sel, s)
	return s, nil
}

func parseSelector(sel string) (*selector, error) {
	invalid := func(reason string) error {
		return errors.New("E201").WithDetailf("%q: %s", sel, reason)
	}

	s := &selector{}
	i := 0
	start := i
	for i < len(sel) && isNameByte(sel[i]) {
		i++
	}
	s.tag = strings.ToLower(sel[start:i])
	if s.tag == "" {
		s.tag = "div"
	}

	for i < len(sel) {
		switch sel[i] {
		case '.', '#':
			marker := sel[i]
			i++
			start := i
			for i < len(sel) && isNameByte(sel[i]) {
				i++
			}
			name := sel[start:i]
			if name == "" {
				return nil, invalid("empty class or id")
			}
			if marker == '.' {
				s.classes = append(s.classes, name)
			} else {
				s.attrs = append(s.attrs, ID(name))
			}

		case '[':
			end := attrEnd(sel[i:])
			if end < 0 {
				return nil, invalid("unterminated attribute")
			}
			a, err := parseAttr(sel[i+1 : i+end])
			if err != nil {
				return nil, invalid(err.Error())
			}
			if a.Key == "class" {
				s.classes = append(s.classes, strings.Fields(a.Value)...)
			} else {
				s.attrs = append(s.attrs, a)
			}
			i += end + 1

		default:
			return nil, invalid("unexpected character " + string(sel[i]))
		}
	}
	return s, nil
}

// attrEnd returns the offset of the ']' closing the attribute block that
// starts block, skipping over quoted values, or -1.
func attrEnd(block string) int {
	var quote byte
	for i := 1; i < len(block); i++ {
		c := block[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == ']':
			return i
		}
	}
	return -1
}

// parseAttr parses the inside of a [key='value'] block.
func parseAttr(body string) (Attr, error) {
	key, value, hasValue := strings.Cut(body, "=")
	key = strings.TrimSpace(key)
	if key == "" {
		return Attr{}, errors.Newf(errors.CategoryRender, "empty attribute name")
	}
	for i := 0; i < len(key); i++ {
		if !isNameByte(key[i]) && key[i] != ':' {
			return Attr{}, errors.Newf(errors.CategoryRender, "invalid attribute name %q", key)
		}
	}
	if !hasValue {
		return attr(key, ""), nil
	}
	value = strings.TrimSpace(value)
	if n := len(value); n >= 2 {
		if (value[0] == '\'' && value[n-1] == '\'') || (value[0] == '"' && value[n-1] == '"') {
			value = value[1 : n-1]
		}
	}
	return attr(key, value), nil
}

func isNameByte(c byte) bool {
	return c == '-' || c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
