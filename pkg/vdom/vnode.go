package vdom

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement VKind = iota // <div>, <section>, etc.
	KindText                 // Plain text node
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	default:
		return "Unknown"
	}
}

// VNode is the virtual DOM node.
type VNode struct {
	Kind     VKind             // Node type
	Tag      string            // Element tag name (e.g., "div")
	Classes  []string          // Class names in declaration order
	Attrs    map[string]string // Attributes other than class
	Children []*VNode          // Child nodes, already flattened
	Text     string            // For KindText
}

// IsElement reports whether the node is an element.
func (v *VNode) IsElement() bool {
	return v != nil && v.Kind == KindElement
}

// IsText reports whether the node is a text leaf.
func (v *VNode) IsText() bool {
	return v != nil && v.Kind == KindText
}

// Attr returns the value of attribute key.
func (v *VNode) Attr(key string) (string, bool) {
	if v == nil || v.Attrs == nil {
		return "", false
	}
	val, ok := v.Attrs[key]
	return val, ok
}

// HasClass reports whether the element carries class name.
func (v *VNode) HasClass(name string) bool {
	if v == nil {
		return false
	}
	for _, c := range v.Classes {
		if c == name {
			return true
		}
	}
	return false
}

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value string
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// Component is anything that can render to a VNode.
type Component interface {
	Render() *VNode
}

// FuncComponent wraps a render function.
type FuncComponent struct {
	render func() *VNode
}

// Render implements Component.
func (f *FuncComponent) Render() *VNode {
	return f.render()
}

// Func creates a component from a render function.
func Func(render func() *VNode) Component {
	return &FuncComponent{render: render}
}

// Fragment is a stateless producer of one tree. Children are optional and
// are placed wherever the fragment chooses to put them.
type Fragment func(children ...*VNode) *VNode

// Component adapts the fragment into a mountable root rendered with the
// given children on every pass.
func (f Fragment) Component(children ...*VNode) Component {
	return Func(func() *VNode { return f(CloneAll(children)...) })
}
