package btree

import "fmt"

// InvariantError reports a corrupted tree structure detected during
// maintenance. It should never occur outside a bug in this package; per
// spec, invariant violations are fatal and not recoverable.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("btree: invariant violation: %s", e.Msg)
}

// CursorStateError reports a cursor used after its tree was mutated without
// an intervening Reset. Like InvariantError, this is a programmer error.
type CursorStateError struct {
	Msg string
}

func (e *CursorStateError) Error() string {
	return fmt.Sprintf("btree: %s", e.Msg)
}
