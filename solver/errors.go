package solver

import "fmt"

// NoConstraintsError reports a solver constructed with zero constraints —
// a programmer error per spec, not a recoverable condition.
type NoConstraintsError struct{}

func (e *NoConstraintsError) Error() string {
	return "solver: at least one constraint is required"
}

// VarIndexError reports a problem with a Solver's constraint→variable
// mapping: an entry out of range, a length mismatch against its
// constraint's key arity, or a global variable no constraint binds.
type VarIndexError struct {
	Msg string
}

func (e *VarIndexError) Error() string {
	return "solver: " + e.Msg
}

// SplitNothingError reports the solver reaching the split branch with the
// current constraint's bounds already fully pinned on its own mapped
// variables. By construction the los==his branch handles full convergence
// before a split is ever attempted; reaching here is a bug in this package.
type SplitNothingError struct {
	Constraint int
}

func (e *SplitNothingError) Error() string {
	return fmt.Sprintf("solver: split-nothing: constraint %d has no unfixed variable to split", e.Constraint)
}
