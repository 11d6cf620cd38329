// Package solver implements the leapfrog-style constraint solver: a
// Constraint wraps a btree.Cursor and exposes propagate/split-left/
// split-right over a shared (los, his) bounds pair, and a Solver composes
// several constraints over a shared variable-bounds vector to enumerate
// every assignment that satisfies all of them at once.
package solver

import (
	"leapjoin/btree"
	"leapjoin/key"
)

// Constraint wraps one cursor and binds its key positions 0..KeyLen()-1 to
// a contiguous view of whatever variable-bounds vector the caller (the
// Solver) supplies. It owns its cursor and its scratch buffer exclusively.
type Constraint struct {
	cursor   *btree.Cursor
	keyLen   int
	rightLo  key.Key // scratch buffer for building SplitRight's seek key
	greatest key.Key // sentinel: GreatestKey(keyLen), "no further match"
}

// NewConstraint wraps cursor in a Constraint. The constraint's arity is
// fixed to cursor's tree's key_len.
func NewConstraint(cursor *btree.Cursor) *Constraint {
	n := cursor.KeyLen()
	return &Constraint{
		cursor:   cursor,
		keyLen:   n,
		rightLo:  make(key.Key, n),
		greatest: key.GreatestKey(n),
	}
}

// KeyLen returns the constraint's key arity (its cursor's tree's key_len).
func (c *Constraint) KeyLen() int { return c.keyLen }

// firstDiff returns the smallest index i < len(los) where los[i] != his[i],
// or len(los) if the two already agree everywhere (the variable block this
// constraint sees is already fully pinned).
func firstDiff(los, his key.Key, n int) int {
	for i := 0; i < n; i++ {
		if key.CompareElements(los[i], his[i]) != 0 {
			return i
		}
	}
	return n
}

// Propagate is the leapfrog seek step: widen los/his past the first unfixed
// position (a lexicographic index can't say anything about suffix bounds
// once a prefix element isn't nailed down yet), seek the cursor to the
// smallest stored key >= the widened los, and copy the result back into los
// through the first position where it does not already meet his (later
// positions of the key say nothing about their variables' bounds).
// On no match, los is set to the constraint's GREATEST sentinel, which the
// solver's read-bounds step recognizes as failure.
func (c *Constraint) Propagate(los, his key.Key) {
	i := firstDiff(los, his, c.keyLen)
	for j := i + 1; j < c.keyLen; j++ {
		los[j] = key.Least()
		his[j] = key.Greatest()
	}

	got, ok := c.cursor.SeekGTE(los)
	if !ok {
		copy(los, c.greatest)
		return
	}
	copyUntilMet(los, got, his, c.keyLen)
}

// SplitLeft pins the first unfixed variable (per this constraint's view) to
// its current low value, narrowing his at that position down to los. The
// left branch of the search then explores exactly the assignments where
// that variable equals los[i].
func (c *Constraint) SplitLeft(los, his key.Key) {
	i := firstDiff(los, his, c.keyLen)
	if i == c.keyLen {
		panic(&SplitNothingError{})
	}
	his[i] = los[i]
}

// SplitRight builds a seek key equal to los through the splitter position
// (the same index SplitLeft used) with GREATEST in every later position,
// seeks strictly past it, and copies the result into los the same way
// Propagate does. The right branch then explores assignments where the
// splitter variable is strictly greater than the left branch's fixed value.
func (c *Constraint) SplitRight(los, his key.Key) {
	i := firstDiff(los, his, c.keyLen)
	if i == c.keyLen {
		panic(&SplitNothingError{})
	}
	for j := 0; j < c.keyLen; j++ {
		if j <= i {
			c.rightLo[j] = los[j]
		} else {
			c.rightLo[j] = key.Greatest()
		}
	}

	got, ok := c.cursor.SeekGT(c.rightLo)
	if !ok {
		copy(los, c.greatest)
		return
	}
	copyUntilMet(los, got, his, c.keyLen)
}

// copyUntilMet copies got into dst element by element, continuing only while
// the copied element equals his at that position (the variable is pinned
// there) and stopping after (and including) the first position where it
// does not: once a prefix position is not pinned, the key's later elements
// are not lower bounds for their variables.
func copyUntilMet(dst, got, his key.Key, n int) {
	for j := 0; j < n; j++ {
		dst[j] = got[j]
		if key.CompareElements(got[j], his[j]) != 0 {
			return
		}
	}
}
