package vdom

import (
	"strconv"
	"strings"
)

// PatchOp is the type of patch operation.
type PatchOp uint8

const (
	PatchSetText     PatchOp = 0x01 // Update text content
	PatchSetAttr     PatchOp = 0x02 // Set/update attribute
	PatchRemoveAttr  PatchOp = 0x03 // Remove attribute
	PatchInsertNode  PatchOp = 0x04 // Insert new node
	PatchRemoveNode  PatchOp = 0x05 // Remove node
	PatchReplaceNode PatchOp = 0x07 // Replace node entirely
	PatchSetClass    PatchOp = 0x0C // Replace the class list
)

// String returns the string representation of the PatchOp.
func (op PatchOp) String() string {
	switch op {
	case PatchSetText:
		return "SetText"
	case PatchSetAttr:
		return "SetAttr"
	case PatchRemoveAttr:
		return "RemoveAttr"
	case PatchInsertNode:
		return "InsertNode"
	case PatchRemoveNode:
		return "RemoveNode"
	case PatchReplaceNode:
		return "ReplaceNode"
	case PatchSetClass:
		return "SetClass"
	default:
		return "Unknown"
	}
}

// Path addresses a node by child indexes from the root. The root is the
// empty path.
type Path []int

// String renders the path as "0/2/1"; the root renders as "/".
func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, "/")
}

func (p Path) child(i int) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = i
	return out
}

// Patch represents a single DOM operation to apply.
type Patch struct {
	Op    PatchOp // Operation type
	Path  Path    // Target node (parent for InsertNode)
	Key   string  // Attribute key (for SetAttr/RemoveAttr)
	Value string  // New value
	Node  *VNode  // For InsertNode/ReplaceNode
	Index int     // Insert position
}

// String returns a compact description, e.g. "SetText 0/1 hello".
func (p Patch) String() string {
	s := p.Op.String() + " " + p.Path.String()
	if p.Key != "" {
		s += " " + p.Key
	}
	if p.Value != "" {
		s += " " + strconv.Quote(p.Value)
	}
	return s
}
