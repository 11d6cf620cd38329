// Package btree implements the mutable B-tree core: a node arena with
// lazily-propagated lower/upper subtree summaries, a tree handle exposing
// Assoc/Dissoc/Seq, and a Cursor supporting summary-skipping seeks. See
// cursor.go for the seek algorithm and the solver package (Constraint and
// Solver) for how cursors compose into a multi-way join.
package btree

import (
	"iter"

	"leapjoin/key"
	"leapjoin/internal/memsize"
)

// Tree owns one root node plus the arena backing every node reachable from
// it. max_keys is fixed at 2*minKeys; key_len is fixed for the tree's
// lifetime — every Key passed to Assoc/Dissoc/seek must have that many
// elements.
type Tree struct {
	arena []*node
	free  []nodeID

	root    nodeID
	minKeys int
	maxKeys int
	keyLen  int

	// gen increments on every Assoc/Dissoc. Cursors capture gen at Reset
	// and refuse to seek against a stale value — per spec, mutation
	// invalidates every outstanding cursor until it is reset.
	gen int64
}

// New creates an empty tree with the given per-node minimum key count and
// key arity. max_keys is 2*minKeys.
func New(minKeys, keyLen int) *Tree {
	t := &Tree{minKeys: minKeys, maxKeys: 2 * minKeys, keyLen: keyLen}
	t.root = t.newNode()
	return t
}

// KeyLen returns the tree's fixed key arity.
func (t *Tree) KeyLen() int { return t.keyLen }

func (t *Tree) checkArity(k key.Key) {
	if len(k) != t.keyLen {
		panic(&key.ArityError{Want: t.keyLen, Got: len(k)})
	}
}

// Assoc inserts key->val, or overwrites val if key is already present.
// Reports whether the key already existed.
func (t *Tree) Assoc(k key.Key, v any) (existed bool) {
	t.checkArity(k)
	t.gen++
	return t.assocAt(t.root, k.Clone(), v)
}

// Dissoc removes key, reporting whether it was present.
func (t *Tree) Dissoc(k key.Key) (existed bool) {
	t.checkArity(k)
	t.gen++
	return t.dissocAt(t.root, k)
}

// Seq calls yield for every (key,val) pair in key order, stopping early if
// yield returns false.
func (t *Tree) Seq(yield func(key.Key, any) bool) {
	t.inOrder(t.root, yield)
}

// All returns a range-over-func iterator equivalent to Seq, for callers
// that prefer `for k, v := range tree.All()`.
func (t *Tree) All() iter.Seq2[key.Key, any] {
	return func(yield func(key.Key, any) bool) {
		t.inOrder(t.root, yield)
	}
}

// Height returns the number of node levels from root to leaf (a tree with
// just the empty root leaf has height 1).
func (t *Tree) Height() int {
	h := 1
	id := t.root
	for {
		n := t.n(id)
		if n.isLeaf() {
			return h
		}
		id = n.children[0]
		h++
	}
}

// MemoryUsage estimates the deep, heap-reachable size in bytes of every
// node in the arena.
func (t *Tree) MemoryUsage() int64 {
	var total int64
	for _, n := range t.arena {
		if n != nil {
			total += memsize.Of(n)
		}
	}
	return total
}
