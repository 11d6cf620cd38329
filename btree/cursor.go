package btree

import "leapjoin/key"

// Cursor is positioned over one tree at a (node, index) pair. It exploits
// the tree's cached lower/upper summaries to skip whole subtrees on
// repeated, monotonically increasing seeks: each seek first ascends from
// wherever the cursor currently sits — only as far as necessary — then
// descends to the answer, rather than restarting from the root.
//
// A cursor is invalidated by any mutation of its tree; SeekGT/SeekGTE panic
// if called without an intervening Reset.
type Cursor struct {
	tree *Tree
	node nodeID
	ix   int
	gen  int64
}

// NewCursor creates a cursor over t, positioned at the root.
func NewCursor(t *Tree) *Cursor {
	c := &Cursor{tree: t}
	c.Reset()
	return c
}

// KeyLen returns the arity of keys accepted by this cursor's tree.
func (c *Cursor) KeyLen() int { return c.tree.KeyLen() }

// Reset moves the cursor to the tree's root and clears its generation
// check, making it safe to reuse after a mutation.
func (c *Cursor) Reset() {
	c.node = c.tree.root
	c.ix = 0
	c.gen = c.tree.gen
}

func (c *Cursor) checkValid() {
	if c.gen != c.tree.gen {
		panic(&CursorStateError{Msg: "cursor used after mutation without Reset"})
	}
}

// SeekGTE positions the cursor at the smallest stored key >= k, returning
// it (aliased — do not mutate), or ok=false if no such key exists.
func (c *Cursor) SeekGTE(k key.Key) (result key.Key, ok bool) {
	return c.seek(k, false)
}

// SeekGT positions the cursor at the smallest stored key > k, returning it
// (aliased — do not mutate), or ok=false if no such key exists.
func (c *Cursor) SeekGT(k key.Key) (result key.Key, ok bool) {
	return c.seek(k, true)
}

// seek implements both variants: ascend while the current node's cached
// summary proves it can't contain the answer, then descend using
// find_gt/find_gte, consulting each internal child's upper bound to decide
// whether the separator itself is the answer or whether to descend further.
func (c *Cursor) seek(k key.Key, strict bool) (key.Key, bool) {
	c.checkValid()
	t := c.tree

	for c.node != t.root {
		n := t.n(c.node)
		beyond := n.upper != nil && cmpBeyond(n.upper, k, strict)
		before := n.lower != nil && key.Less(k, n.lower)
		if !beyond && !before {
			break
		}
		c.node = n.parent
		c.ix = 0
	}

	for {
		n := t.n(c.node)
		if strict {
			c.ix = key.FindGT(n.keys, k)
		} else {
			c.ix = key.FindGTE(n.keys, k)
		}
		if n.isLeaf() {
			if c.ix < len(n.keys) {
				return n.keys[c.ix], true
			}
			return nil, false
		}

		child := n.children[c.ix]
		cn := t.n(child)
		if cn.upper != nil && cmpBeyond(cn.upper, k, strict) {
			if c.ix == len(n.keys) {
				return nil, false
			}
			return n.keys[c.ix], true
		}
		c.node = child
	}
}

// cmpBeyond reports whether bound is past k for the given strictness:
// bound <= k for strict (gt) seeks, bound < k for non-strict (gte) seeks.
func cmpBeyond(bound, k key.Key, strict bool) bool {
	if strict {
		return key.LessEqual(bound, k)
	}
	return key.Less(bound, k)
}
