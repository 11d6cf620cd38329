package btree

import "leapjoin/key"

// nodeID is an arena handle for a node, per the design note recommending
// an arena of nodes indexed by integer handles over raw parent/child
// pointers — maintenance relinks parents often enough that pointer cycles
// would be awkward to keep consistent.
type nodeID int32

const nilNode nodeID = -1

// node is one B-tree node: a sorted run of keys+values, optionally
// children (present iff internal), a back-reference to its parent via
// handle plus its index within the parent's children, and cached
// lower/upper summaries over the whole subtree.
type node struct {
	keys     []key.Key
	vals     []any
	children []nodeID // nil/empty iff leaf

	parent   nodeID
	parentIx int

	lower key.Key
	upper key.Key
}

func (n *node) isLeaf() bool { return len(n.children) == 0 }

// n dereferences a handle. A freed or out-of-range handle is a programmer
// error in this package, not a user-facing condition.
func (t *Tree) n(id nodeID) *node {
	return t.arena[id]
}

// newNode allocates a node, reusing a freed slot where possible.
func (t *Tree) newNode() nodeID {
	if len(t.free) > 0 {
		id := t.free[len(t.free)-1]
		t.free = t.free[:len(t.free)-1]
		t.arena[id] = &node{parent: nilNode}
		return id
	}
	id := nodeID(len(t.arena))
	t.arena = append(t.arena, &node{parent: nilNode})
	return id
}

// freeNode releases a node back to the arena's free list. Per the resource
// model, nodes are freed immediately on merge/collapse — there is no
// deferred or generational reclamation.
func (t *Tree) freeNode(id nodeID) {
	t.arena[id] = nil
	t.free = append(t.free, id)
}

// push inserts key/val at ix in n's entries. If n is internal, child is
// also inserted, at ix+whichChild (0 = left of the new separator, 1 =
// right). This is the primitive split/rotate build on; it does not call
// maintain.
func (t *Tree) push(id nodeID, ix int, k key.Key, v any, child nodeID, whichChild int) {
	n := t.n(id)
	n.keys = insertKey(n.keys, ix, k)
	n.vals = insertVal(n.vals, ix, v)
	if len(n.children) > 0 || child != nilNode {
		childIx := ix + whichChild
		n.children = insertChild(n.children, childIx, child)
	}
}

// pop removes and returns the key/val at ix (and, if n is internal, the
// child at ix+whichChild). Inverse of push.
func (t *Tree) pop(id nodeID, ix int, whichChild int) (k key.Key, v any, child nodeID) {
	n := t.n(id)
	k, v = n.keys[ix], n.vals[ix]
	n.keys = removeKey(n.keys, ix)
	n.vals = removeVal(n.vals, ix)
	child = nilNode
	if len(n.children) > 0 {
		childIx := ix + whichChild
		child = n.children[childIx]
		n.children = removeChild(n.children, childIx)
	}
	return k, v, child
}

func insertKey(s []key.Key, ix int, v key.Key) []key.Key {
	s = append(s, key.Key(nil))
	copy(s[ix+1:], s[ix:])
	s[ix] = v
	return s
}

func insertVal(s []any, ix int, v any) []any {
	s = append(s, nil)
	copy(s[ix+1:], s[ix:])
	s[ix] = v
	return s
}

func insertChild(s []nodeID, ix int, v nodeID) []nodeID {
	s = append(s, nilNode)
	copy(s[ix+1:], s[ix:])
	s[ix] = v
	return s
}

func removeKey(s []key.Key, ix int) []key.Key {
	copy(s[ix:], s[ix+1:])
	return s[:len(s)-1]
}

func removeVal(s []any, ix int) []any {
	copy(s[ix:], s[ix+1:])
	return s[:len(s)-1]
}

func removeChild(s []nodeID, ix int) []nodeID {
	copy(s[ix:], s[ix+1:])
	return s[:len(s)-1]
}

// relinkChildren fixes every child's parent/parentIx to point at id. Called
// unconditionally at the top of maintain, since push/pop may have shifted
// children around.
func (t *Tree) relinkChildren(id nodeID) {
	n := t.n(id)
	for i, c := range n.children {
		cn := t.n(c)
		cn.parent = id
		cn.parentIx = i
	}
}

// computeSummary derives what lower/upper should be for n purely from its
// current keys/children, with no side effects.
func (t *Tree) computeSummary(id nodeID) (lower, upper key.Key) {
	n := t.n(id)
	if n.isLeaf() {
		if len(n.keys) == 0 {
			return nil, nil
		}
		return n.keys[0], n.keys[len(n.keys)-1]
	}
	first := t.n(n.children[0])
	last := t.n(n.children[len(n.children)-1])
	return first.lower, last.upper
}

func summaryEqual(a, b key.Key) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	return key.Equal(a, b)
}

// updateSummary recomputes id's lower/upper and, if either changed and id
// sits at the corresponding edge of its parent's children, propagates the
// new bound upward — spec's update_lower/update_upper, merged into one
// pass since both bounds are always recomputed together here.
func (t *Tree) updateSummary(id nodeID) {
	for id != nilNode {
		n := t.n(id)
		newLower, newUpper := t.computeSummary(id)
		lowerChanged := !summaryEqual(n.lower, newLower)
		upperChanged := !summaryEqual(n.upper, newUpper)
		n.lower, n.upper = newLower, newUpper
		if !lowerChanged && !upperChanged {
			return
		}
		if n.parent == nilNode {
			return
		}
		pn := t.n(n.parent)
		isFirst := n.parentIx == 0
		isLast := n.parentIx == len(pn.children)-1
		if (lowerChanged && isFirst) || (upperChanged && isLast) {
			id = n.parent
			continue
		}
		return
	}
}

// maintain restores invariants after a local mutation of id: relinks
// children, then splits on overflow, rotates/merges on underflow (non-root
// only), collapses an empty root, or simply refreshes summaries.
func (t *Tree) maintain(id nodeID) {
	n := t.n(id)
	t.relinkChildren(id)

	switch {
	case len(n.keys) > t.maxKeys:
		t.split(id)
	case id != t.root && len(n.keys) < t.minKeys:
		if !t.rotateLeft(id) && !t.rotateRight(id) {
			t.merge(id)
		}
	case len(n.keys) == 0:
		if n.isLeaf() {
			n.lower, n.upper = nil, nil
		} else {
			if len(n.children) != 1 {
				panic(&InvariantError{Msg: "root-collapse attempted with children != 1"})
			}
			newRoot := n.children[0]
			t.n(newRoot).parent = nilNode
			t.root = newRoot
			t.freeNode(id)
		}
	default:
		t.updateSummary(id)
	}
}

// split divides an overflowing node at the median, pushing the median
// (key,val) and the new right sibling into the parent — or, if id is the
// root, installing a brand-new root holding just that one key and the two
// halves as children.
func (t *Tree) split(id nodeID) {
	n := t.n(id)
	mid := len(n.keys) / 2
	medianKey, medianVal := n.keys[mid], n.vals[mid]

	rightID := t.newNode()
	rn := t.n(rightID)
	rn.keys = append([]key.Key(nil), n.keys[mid+1:]...)
	rn.vals = append([]any(nil), n.vals[mid+1:]...)
	if !n.isLeaf() {
		rn.children = append([]nodeID(nil), n.children[mid+1:]...)
		n.children = n.children[:mid+1]
	}
	n.keys = n.keys[:mid]
	n.vals = n.vals[:mid]

	t.relinkChildren(rightID)
	t.updateSummary(rightID)
	t.relinkChildren(id)
	t.updateSummary(id)

	if id == t.root {
		newRootID := t.newNode()
		nrn := t.n(newRootID)
		nrn.keys = []key.Key{medianKey}
		nrn.vals = []any{medianVal}
		nrn.children = []nodeID{id, rightID}
		t.root = newRootID
		t.relinkChildren(newRootID)
		t.updateSummary(newRootID)
		return
	}

	parent := n.parent
	ix := n.parentIx
	t.push(parent, ix, medianKey, medianVal, rightID, 1)
	t.maintain(parent)
}

// rotateLeft borrows the left sibling's last entry through the parent
// separator slot. Returns false if there is no left sibling, or it has
// nothing to spare.
func (t *Tree) rotateLeft(id nodeID) bool {
	n := t.n(id)
	if n.parent == nilNode {
		return false
	}
	pn := t.n(n.parent)
	ix := n.parentIx
	if ix == 0 {
		return false
	}
	leftID := pn.children[ix-1]
	ln := t.n(leftID)
	if len(ln.keys) <= t.minKeys {
		return false
	}

	bKey, bVal, bChild := t.pop(leftID, len(ln.keys)-1, 1)
	sepKey, sepVal := pn.keys[ix-1], pn.vals[ix-1]
	pn.keys[ix-1], pn.vals[ix-1] = bKey, bVal
	t.push(id, 0, sepKey, sepVal, bChild, 0)

	t.relinkChildren(leftID)
	t.updateSummary(leftID)
	t.relinkChildren(id)
	t.updateSummary(id)
	return true
}

// rotateRight borrows the right sibling's first entry through the parent
// separator slot. Symmetric to rotateLeft.
func (t *Tree) rotateRight(id nodeID) bool {
	n := t.n(id)
	if n.parent == nilNode {
		return false
	}
	pn := t.n(n.parent)
	ix := n.parentIx
	if ix >= len(pn.children)-1 {
		return false
	}
	rightID := pn.children[ix+1]
	rn := t.n(rightID)
	if len(rn.keys) <= t.minKeys {
		return false
	}

	bKey, bVal, bChild := t.pop(rightID, 0, 0)
	sepKey, sepVal := pn.keys[ix], pn.vals[ix]
	pn.keys[ix], pn.vals[ix] = bKey, bVal
	t.push(id, len(t.n(id).keys), sepKey, sepVal, bChild, 1)

	t.relinkChildren(rightID)
	t.updateSummary(rightID)
	t.relinkChildren(id)
	t.updateSummary(id)
	return true
}

// merge absorbs id's sibling (or id into its sibling, if id has no right
// sibling) by pulling the separator down from the parent, then calls
// maintain on the parent to handle its now-reduced key count — which is
// where a root-collapse, or a further cascading merge, is triggered.
func (t *Tree) merge(id nodeID) {
	n := t.n(id)
	parent := n.parent
	pn := t.n(parent)
	ix := n.parentIx

	var leftID, rightID nodeID
	var sepIx int
	if ix < len(pn.children)-1 {
		leftID, rightID = id, pn.children[ix+1]
		sepIx = ix
	} else {
		leftID, rightID = pn.children[ix-1], id
		sepIx = ix - 1
	}

	sepKey, sepVal, _ := t.pop(parent, sepIx, 1)
	ln := t.n(leftID)
	rn := t.n(rightID)
	ln.keys = append(ln.keys, sepKey)
	ln.vals = append(ln.vals, sepVal)
	ln.keys = append(ln.keys, rn.keys...)
	ln.vals = append(ln.vals, rn.vals...)
	if !ln.isLeaf() {
		ln.children = append(ln.children, rn.children...)
	}
	t.freeNode(rightID)

	t.relinkChildren(leftID)
	t.updateSummary(leftID)
	t.maintain(parent)
}

// assocAt descends to the leaf for k using find_gte, overwriting the value
// in place if k is already present, otherwise inserting and maintaining.
// Insertion at an internal node only ever happens as a side effect of
// split, never directly from assocAt.
func (t *Tree) assocAt(id nodeID, k key.Key, v any) (existed bool) {
	n := t.n(id)
	ix := key.FindGTE(n.keys, k)
	if ix < len(n.keys) && key.Equal(n.keys[ix], k) {
		n.vals[ix] = v
		return true
	}
	if n.isLeaf() {
		t.push(id, ix, k, v, nilNode, 0)
		t.maintain(id)
		return false
	}
	return t.assocAt(n.children[ix], k, v)
}

// dissocAt descends to k using find_gte. If k is found in an internal
// node, it is replaced by the successor (the leftmost leaf entry of the
// right child), which is then removed from that leaf.
func (t *Tree) dissocAt(id nodeID, k key.Key) (existed bool) {
	n := t.n(id)
	ix := key.FindGTE(n.keys, k)
	found := ix < len(n.keys) && key.Equal(n.keys[ix], k)

	if !found {
		if n.isLeaf() {
			return false
		}
		return t.dissocAt(n.children[ix], k)
	}

	if n.isLeaf() {
		t.pop(id, ix, 0)
		t.maintain(id)
		return true
	}

	succKey, succVal, succLeaf := t.leftmost(n.children[ix+1])
	n.keys[ix] = succKey
	n.vals[ix] = succVal
	t.pop(succLeaf, 0, 0)
	// maintain(succLeaf) bubbles upward through every ancestor whose count
	// changes, including id itself if a merge reaches that far — no
	// separate maintain(id) is needed, and id may no longer exist if one
	// did.
	t.maintain(succLeaf)
	return true
}

// leftmost returns the smallest (key,val) in the subtree rooted at id, and
// the handle of the leaf it lives in.
func (t *Tree) leftmost(id nodeID) (k key.Key, v any, leaf nodeID) {
	n := t.n(id)
	for !n.isLeaf() {
		id = n.children[0]
		n = t.n(id)
	}
	return n.keys[0], n.vals[0], id
}

// inOrder walks the subtree rooted at id, yielding every (key,val) pair in
// key order, stopping early if yield returns false.
func (t *Tree) inOrder(id nodeID, yield func(key.Key, any) bool) bool {
	n := t.n(id)
	if n.isLeaf() {
		for i := range n.keys {
			if !yield(n.keys[i], n.vals[i]) {
				return false
			}
		}
		return true
	}
	for i := range n.keys {
		if !t.inOrder(n.children[i], yield) {
			return false
		}
		if !yield(n.keys[i], n.vals[i]) {
			return false
		}
	}
	return t.inOrder(n.children[len(n.children)-1], yield)
}
