package lzss

import (
	"fmt"
)

// A Match is the result of a dictionary search: the match starts Distance
// bytes before the target and covers Length bytes.
type Match struct {
	Distance int
	Length   int
}

// DeleteResult reports what Tree.Delete did.
type DeleteResult int

const (
	// NodeDeleted means the node was removed from the tree.
	NodeDeleted DeleteResult = iota
	// NodeSurvived means the span still occurs elsewhere in the window, so
	// only its reference count was decremented.
	NodeSurvived
)

func (r DeleteResult) String() string {
	switch r {
	case NodeDeleted:
		return "NodeDeleted"
	case NodeSurvived:
		return "NodeSurvived"
	}
	return fmt.Sprintf("DeleteResult(%d)", int(r))
}

const nilNode int32 = -1

type node struct {
	span Span
	// lives counts how many positions in the window hold the same bytes.
	lives               int
	parent, left, right int32
}

// A Tree is a binary search tree of spans of a source buffer, ordered
// lexicographically by content. Equal spans share one node, whose lives
// field counts the copies; the node remembers the most recently added
// position.
//
// The tree is not rebalanced, so sorted input degrades it to a list.
//
// Nodes live in a slice and refer to each other by index. Freed slots are
// reused.
type Tree struct {
	src   []byte
	nodes []node
	free  []int32
	root  int32
	count int
}

// NewTree returns an empty Tree over src.
func NewTree(src []byte) *Tree {
	t := new(Tree)
	t.Reset(src)
	return t
}

// Reset empties the tree and points it at a new source buffer, keeping the
// allocated node storage.
func (t *Tree) Reset(src []byte) {
	t.src = src
	t.nodes = t.nodes[:0]
	t.free = t.free[:0]
	t.root = nilNode
	t.count = 0
}

// Len returns the number of distinct spans in the tree.
func (t *Tree) Len() int {
	return t.count
}

func (t *Tree) bytes(s Span) []byte {
	return t.src[s.Pos : s.Pos+s.Len]
}

func (t *Tree) newNode(s Span, parent int32) int32 {
	n := node{span: s, lives: 1, parent: parent, left: nilNode, right: nilNode}
	t.count++
	if k := len(t.free); k > 0 {
		i := t.free[k-1]
		t.free = t.free[:k-1]
		t.nodes[i] = n
		return i
	}
	t.nodes = append(t.nodes, n)
	return int32(len(t.nodes) - 1)
}

// Add inserts s. If a span with the same bytes is already present, its
// lives count is incremented and it takes over s's position instead.
func (t *Tree) Add(s Span) {
	if t.root == nilNode {
		t.root = t.newNode(s, nilNode)
		return
	}
	key := t.bytes(s)
	i := t.root
	for {
		n := &t.nodes[i]
		cmp, _ := compareBytes(key, t.bytes(n.span))
		switch {
		case cmp == 0:
			n.span = s
			n.lives++
			return
		case cmp < 0:
			if n.left == nilNode {
				child := t.newNode(s, i)
				t.nodes[i].left = child
				return
			}
			i = n.left
		default:
			if n.right == nilNode {
				child := t.newNode(s, i)
				t.nodes[i].right = child
				return
			}
			i = n.right
		}
	}
}

// find returns the index of the node whose bytes equal key, or nilNode.
func (t *Tree) find(key []byte) int32 {
	i := t.root
	for i != nilNode {
		n := &t.nodes[i]
		cmp, _ := compareBytes(key, t.bytes(n.span))
		switch {
		case cmp == 0:
			return i
		case cmp < 0:
			i = n.left
		default:
			i = n.right
		}
	}
	return nilNode
}

// Contains reports whether a span with the same bytes as s is in the tree.
func (t *Tree) Contains(s Span) bool {
	return t.find(t.bytes(s)) != nilNode
}

// Delete removes one copy of s. The node itself is only removed when its
// last copy goes. Deleting a span that is not in the tree is a bug in the
// caller's bookkeeping, and panics.
func (t *Tree) Delete(s Span) DeleteResult {
	i := t.find(t.bytes(s))
	if i == nilNode {
		panic(fmt.Sprintf("lzss: deleting span %+v that is not in the tree", s))
	}
	t.nodes[i].lives--
	if t.nodes[i].lives > 0 {
		return NodeSurvived
	}
	t.remove(i)
	return NodeDeleted
}

// remove takes node i out of the tree regardless of its lives count.
func (t *Tree) remove(i int32) {
	n := &t.nodes[i]
	if n.left != nilNode && n.right != nilNode {
		// The in-order successor is the leftmost node of the right subtree.
		// It has no left child, so it can be spliced out directly, and its
		// contents then replace node i's.
		succ := n.right
		for t.nodes[succ].left != nilNode {
			succ = t.nodes[succ].left
		}
		span, lives := t.nodes[succ].span, t.nodes[succ].lives
		t.remove(succ)
		t.nodes[i].span = span
		t.nodes[i].lives = lives
		return
	}

	child := n.left
	if child == nilNode {
		child = n.right
	}
	t.replaceChild(n.parent, i, child)
	if child != nilNode {
		t.nodes[child].parent = n.parent
	}
	t.nodes[i] = node{parent: nilNode, left: nilNode, right: nilNode}
	t.free = append(t.free, i)
	t.count--
}

// replaceChild makes newChild take old's place under parent.
func (t *Tree) replaceChild(parent, old, newChild int32) {
	switch {
	case parent == nilNode:
		t.root = newChild
	case t.nodes[parent].left == old:
		t.nodes[parent].left = newChild
	case t.nodes[parent].right == old:
		t.nodes[parent].right = newChild
	default:
		panic("lzss: tree parent link is broken")
	}
}

// FindBestMatch looks for the stored span sharing the longest prefix with
// target. It walks a single path from the root, steered by comparing target
// with each node; that path passes both of target's neighbours in sorted
// order, and one of them always has the longest common prefix. Among nodes
// with equal match length, the first one visited wins.
//
// The zero Match is returned if nothing matches even one byte.
func (t *Tree) FindBestMatch(target Span) Match {
	var best Match
	key := t.bytes(target)
	i := t.root
	for i != nilNode {
		n := &t.nodes[i]
		cmp, l := compareBytes(key, t.bytes(n.span))
		if l > best.Length {
			best = Match{Distance: target.Pos - n.span.Pos, Length: l}
		}
		switch {
		case cmp == 0:
			return best
		case cmp < 0:
			i = n.left
		default:
			i = n.right
		}
	}
	return best
}

// Walk calls fn for every node in ascending order, stopping early if fn
// returns false.
func (t *Tree) Walk(fn func(s Span, lives int) bool) {
	var stack []int32
	i := t.root
	for i != nilNode || len(stack) > 0 {
		for i != nilNode {
			stack = append(stack, i)
			i = t.nodes[i].left
		}
		i = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(t.nodes[i].span, t.nodes[i].lives) {
			return
		}
		i = t.nodes[i].right
	}
}

// check verifies the ordering and parent links of the whole tree.
func (t *Tree) check() error {
	var prev []byte
	first := true
	visited := 0
	var err error
	t.Walk(func(s Span, lives int) bool {
		b := t.bytes(s)
		if !first {
			if cmp, _ := compareBytes(prev, b); cmp >= 0 {
				err = fmt.Errorf("span at %d (%q) is not greater than its predecessor (%q)", s.Pos, b, prev)
				return false
			}
		}
		if lives < 1 {
			err = fmt.Errorf("span at %d has %d lives", s.Pos, lives)
			return false
		}
		prev, first = b, false
		visited++
		return true
	})
	if err != nil {
		return err
	}
	if visited != t.count {
		return fmt.Errorf("walked %d nodes, but count is %d", visited, t.count)
	}
	if t.root != nilNode && t.nodes[t.root].parent != nilNode {
		return fmt.Errorf("root has a parent")
	}
	for i, n := range t.nodes {
		for _, c := range [2]int32{n.left, n.right} {
			if c != nilNode && t.nodes[c].parent != int32(i) {
				return fmt.Errorf("node %d: child %d points to parent %d", i, c, t.nodes[c].parent)
			}
		}
	}
	return nil
}
