package vdom

import (
	"sort"
	"strings"
)

// Diff compares two trees and returns the patches needed to transform prev
// into next. Children are matched by position.
func Diff(prev, next *VNode) []Patch {
	var patches []Patch
	diff(prev, next, nil, &patches)
	return patches
}

func diff(prev, next *VNode, path Path, patches *[]Patch) {
	switch {
	case prev == nil && next == nil:
		return
	case prev == nil:
		*patches = append(*patches, Patch{Op: PatchReplaceNode, Path: path, Node: next})
		return
	case next == nil:
		*patches = append(*patches, Patch{Op: PatchRemoveNode, Path: path})
		return
	}

	if prev.Kind != next.Kind {
		*patches = append(*patches, Patch{Op: PatchReplaceNode, Path: path, Node: next})
		return
	}

	switch prev.Kind {
	case KindText:
		if prev.Text != next.Text {
			*patches = append(*patches, Patch{Op: PatchSetText, Path: path, Value: next.Text})
		}
	case KindElement:
		diffElement(prev, next, path, patches)
	}
}

func diffElement(prev, next *VNode, path Path, patches *[]Patch) {
	if prev.Tag != next.Tag {
		*patches = append(*patches, Patch{Op: PatchReplaceNode, Path: path, Node: next})
		return
	}

	if !equalStrings(prev.Classes, next.Classes) {
		*patches = append(*patches, Patch{
			Op:    PatchSetClass,
			Path:  path,
			Key:   "class",
			Value: strings.Join(next.Classes, " "),
		})
	}

	diffAttrs(prev, next, path, patches)
	diffChildren(prev, next, path, patches)
}

// diffAttrs emits attribute patches in key order so output is deterministic.
func diffAttrs(prev, next *VNode, path Path, patches *[]Patch) {
	keys := make([]string, 0, len(prev.Attrs)+len(next.Attrs))
	seen := make(map[string]struct{}, cap(keys))
	for k := range prev.Attrs {
		keys = append(keys, k)
		seen[k] = struct{}{}
	}
	for k := range next.Attrs {
		if _, ok := seen[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		pv, inPrev := prev.Attrs[k]
		nv, inNext := next.Attrs[k]
		switch {
		case inPrev && !inNext:
			*patches = append(*patches, Patch{Op: PatchRemoveAttr, Path: path, Key: k})
		case !inPrev || pv != nv:
			*patches = append(*patches, Patch{Op: PatchSetAttr, Path: path, Key: k, Value: nv})
		}
	}
}

func diffChildren(prev, next *VNode, path Path, patches *[]Patch) {
	common := len(prev.Children)
	if len(next.Children) < common {
		common = len(next.Children)
	}
	for i := 0; i < common; i++ {
		diff(prev.Children[i], next.Children[i], path.child(i), patches)
	}
	for i := common; i < len(next.Children); i++ {
		*patches = append(*patches, Patch{
			Op:    PatchInsertNode,
			Path:  path,
			Node:  next.Children[i],
			Index: i,
		})
	}
	// Remove from the end so earlier indexes stay valid while applying.
	for i := len(prev.Children) - 1; i >= common; i-- {
		*patches = append(*patches, Patch{Op: PatchRemoveNode, Path: path.child(i)})
	}
}
