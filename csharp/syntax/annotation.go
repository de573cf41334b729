package syntax

import (
	"slices"
	"sync/atomic"
)

// Annotation is a marker attached to a node. Annotations survive every edit
// that keeps the node, which makes them the way to find "the same" node in a
// tree produced by an edit.
type Annotation struct {
	Kind string
	Data string
	id   uint64
}

var annotationIDs atomic.Uint64

// NewAnnotation returns an annotation distinct from every other annotation,
// including ones with the same kind and data.
func NewAnnotation(kind, data string) Annotation {
	return Annotation{Kind: kind, Data: data, id: annotationIDs.Add(1)}
}

func (a Annotation) Equal(b Annotation) bool {
	return a.id == b.id
}

// FormatterAnnotation marks nodes whose whitespace the formatter owns.
var FormatterAnnotation = NewAnnotation("Formatter", "")

const trackingKind = "Tracking"

func (n *Node) Annotations() []Annotation {
	return slices.Clone(n.annotations)
}

func (n *Node) HasAnnotation(a Annotation) bool {
	return slices.ContainsFunc(n.annotations, a.Equal)
}

// WithAdditionalAnnotations returns a copy of n carrying the given annotations.
func (n *Node) WithAdditionalAnnotations(annotations ...Annotation) *Node {
	c := n.withChildren(n.Children)
	c.annotations = slices.Clone(n.annotations)
	for _, a := range annotations {
		if !c.HasAnnotation(a) {
			c.annotations = append(c.annotations, a)
		}
	}
	return c
}

// WithoutAnnotations returns a copy of n without the given annotations.
func (n *Node) WithoutAnnotations(annotations ...Annotation) *Node {
	c := n.withChildren(n.Children)
	c.annotations = slices.DeleteFunc(slices.Clone(n.annotations), func(a Annotation) bool {
		return slices.ContainsFunc(annotations, a.Equal)
	})
	return c
}

// AnnotatedNodes returns the nodes under n (n included) that carry a.
func (n *Node) AnnotatedNodes(a Annotation) []*Node {
	var out []*Node
	n.Walk(func(c *Node) bool {
		if c.HasAnnotation(a) {
			out = append(out, c)
		}
		return true
	})
	return out
}

// TrackNodes returns a copy of the tree rooted at n in which each of nodes
// carries a private tracking annotation. The returned root remembers the
// annotation for each original node; GetCurrentNode uses it to find the
// node's current incarnation after further edits.
//
// The nodes passed in are not part of the returned tree: edits that target a
// tracked node must first resolve it with GetCurrentNode.
func (n *Node) TrackNodes(nodes ...*Node) *Node {
	tracked := make(map[*Node]Annotation, len(n.tracked)+len(nodes))
	for k, v := range n.tracked {
		tracked[k] = v
	}
	fresh := make(map[*Node]Annotation, len(nodes))
	for _, node := range nodes {
		if _, ok := tracked[node]; ok {
			continue
		}
		a := NewAnnotation(trackingKind, "")
		tracked[node] = a
		fresh[node] = a
	}

	root := annotateAll(n, fresh)
	if root == n {
		root = n.withChildren(n.Children)
	}
	root.tracked = tracked
	return root
}

func annotateAll(n *Node, fresh map[*Node]Annotation) *Node {
	children := n.Children
	changed := false
	for i, child := range n.Children {
		next := annotateAll(child, fresh)
		if next != child {
			if !changed {
				children = slices.Clone(n.Children)
				changed = true
			}
			children[i] = next
		}
	}
	a, track := fresh[n]
	if !changed && !track {
		return n
	}
	out := n.withChildren(children)
	if track {
		out.annotations = append(slices.Clone(n.annotations), a)
	}
	return out
}

// GetCurrentNode returns the node in the tree rooted at n that corresponds to
// original, a node passed to TrackNodes on an ancestor of this tree. It
// returns nil when original was never tracked or its incarnation has been
// replaced.
func (n *Node) GetCurrentNode(original *Node) *Node {
	a, ok := n.tracked[original]
	if !ok {
		return nil
	}
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.HasAnnotation(a) {
			found = c
			return false
		}
		return true
	})
	return found
}
