package syntax

import "sort"

// Tree indexes an immutable root for navigation: parent lookup and
// position-to-token resolution. Offsets are computed from token widths, so a
// Tree works the same for parsed and for edited roots.
type Tree struct {
	root    *Node
	parents map[*Node]*Node
	leaves  []*Node
	starts  []int
	width   int
}

func NewTree(root *Node) *Tree {
	t := &Tree{
		root:    root,
		parents: make(map[*Node]*Node),
	}
	offset := 0
	var index func(n *Node)
	index = func(n *Node) {
		if n.Kind == KindToken {
			t.leaves = append(t.leaves, n)
			t.starts = append(t.starts, offset)
			offset += n.Token.FullWidth()
			return
		}
		for _, child := range n.Children {
			// A shared subtree keeps its first parent.
			if _, seen := t.parents[child]; !seen {
				t.parents[child] = n
			}
			index(child)
		}
	}
	index(root)
	t.width = offset
	return t
}

func (t *Tree) Root() *Node {
	return t.root
}

// Len is the length of the tree's text.
func (t *Tree) Len() int {
	return t.width
}

// Parent returns the parent of n, or nil for the root and for nodes that do
// not belong to the tree.
func (t *Tree) Parent(n *Node) *Node {
	if n == nil {
		return nil
	}
	return t.parents[n]
}

// Ancestors returns the parents of n from the innermost outwards.
func (t *Tree) Ancestors(n *Node) []*Node {
	var out []*Node
	for p := t.Parent(n); p != nil; p = t.Parent(p) {
		out = append(out, p)
	}
	return out
}

// FindToken returns the token leaf whose full span, trivia included, contains
// offset. A caret between two tokens belongs to the token that starts there;
// an offset at or past the end of the text yields the last token.
func (t *Tree) FindToken(offset int) *Node {
	if len(t.leaves) == 0 {
		return nil
	}
	if offset < 0 {
		offset = 0
	}
	i := sort.Search(len(t.starts), func(i int) bool { return t.starts[i] > offset }) - 1
	if i < 0 {
		i = 0
	}
	return t.leaves[i]
}

// TokenStart returns the offset of the first character of the token's text,
// after its leading trivia. It returns -1 for nodes that are not leaves of
// this tree.
func (t *Tree) TokenStart(leaf *Node) int {
	for i, l := range t.leaves {
		if l == leaf {
			return t.starts[i] + len(leaf.Token.Leading)
		}
	}
	return -1
}

// Text prints the whole tree.
func (t *Tree) Text() string {
	return t.root.ToFullString()
}
