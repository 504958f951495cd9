package vdom

import "strings"

// Walk visits every node of the tree depth-first in document order. If fn
// returns false the node's children are skipped.
func Walk(root *VNode, fn func(node *VNode, depth int) bool) {
	walk(root, 0, fn)
}

func walk(node *VNode, depth int, fn func(*VNode, int) bool) {
	if node == nil {
		return
	}
	if !fn(node, depth) {
		return
	}
	for _, child := range node.Children {
		walk(child, depth+1, fn)
	}
}

// Entry identifies an element by tag and classes.
type Entry struct {
	Tag     string
	Classes []string
	Depth   int
}

// String renders the entry as a selector, e.g. "div.card.is-shady".
func (e Entry) String() string {
	if len(e.Classes) == 0 {
		return e.Tag
	}
	return e.Tag + "." + strings.Join(e.Classes, ".")
}

// Outline flattens the elements of a tree to (tag, classes) entries in
// document order. Text leaves are skipped.
func Outline(root *VNode) []Entry {
	var entries []Entry
	Walk(root, func(n *VNode, depth int) bool {
		if n.Kind == KindElement {
			entries = append(entries, Entry{
				Tag:     n.Tag,
				Classes: append([]string(nil), n.Classes...),
				Depth:   depth,
			})
		}
		return true
	})
	return entries
}

// Find returns the first node, in document order, for which pred is true.
func Find(root *VNode, pred func(*VNode) bool) *VNode {
	var found *VNode
	Walk(root, func(n *VNode, _ int) bool {
		if found != nil {
			return false
		}
		if pred(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

// FindAll returns every node for which pred is true, in document order.
func FindAll(root *VNode, pred func(*VNode) bool) []*VNode {
	var found []*VNode
	Walk(root, func(n *VNode, _ int) bool {
		if pred(n) {
			found = append(found, n)
		}
		return true
	})
	return found
}

// ByClass matches elements carrying class name.
func ByClass(name string) func(*VNode) bool {
	return func(n *VNode) bool { return n.Kind == KindElement && n.HasClass(name) }
}

// ByTag matches elements with the given tag.
func ByTag(tag string) func(*VNode) bool {
	return func(n *VNode) bool { return n.Kind == KindElement && n.Tag == tag }
}

// Count returns the number of nodes in the tree.
func Count(root *VNode) int {
	n := 0
	Walk(root, func(*VNode, int) bool {
		n++
		return true
	})
	return n
}

// TextContent concatenates all text leaves under root.
func TextContent(root *VNode) string {
	var b strings.Builder
	Walk(root, func(n *VNode, _ int) bool {
		if n.Kind == KindText {
			b.WriteString(n.Text)
		}
		return true
	})
	return b.String()
}

// Equal reports whether two trees are structurally identical.
func Equal(a, b *VNode) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Tag != b.Tag || a.Text != b.Text {
		return false
	}
	if !equalStrings(a.Classes, b.Classes) || !equalAttrs(a.Attrs, b.Attrs) {
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalAttrs(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the tree.
func Clone(node *VNode) *VNode {
	if node == nil {
		return nil
	}
	c := &VNode{
		Kind: node.Kind,
		Tag:  node.Tag,
		Text: node.Text,
	}
	if node.Classes != nil {
		c.Classes = append([]string(nil), node.Classes...)
	}
	if node.Attrs != nil {
		c.Attrs = make(map[string]string, len(node.Attrs))
		for k, v := range node.Attrs {
			c.Attrs[k] = v
		}
	}
	if node.Children != nil {
		c.Children = CloneAll(node.Children)
	}
	return c
}

// CloneAll deep-copies a list of trees.
func CloneAll(nodes []*VNode) []*VNode {
	if nodes == nil {
		return nil
	}
	out := make([]*VNode, len(nodes))
	for i, n := range nodes {
		out[i] = Clone(n)
	}
	return out
}
