package solver

import (
	"fmt"

	"leapjoin/key"
)

// SolverStats accumulates counters over a Solver's lifetime, in the same
// spirit as the teacher's Trace type for EXPLAIN ANALYZE-style reporting:
// cheap bookkeeping a caller can inspect without changing solve behavior.
type SolverStats struct {
	Rounds     int64 // propagate calls issued across all constraints
	Splits     int64 // split-left branches taken
	Backtracks int64 // split-right branches taken after a backtrack
}

// frame is a saved backtrack point: the global bounds as they stood right
// before a split, plus which constraint's SplitLeft produced the left
// branch (so a later backtrack knows which constraint's SplitRight to run).
type frame struct {
	los, his key.Key
	splitter int
}

// Solver coordinates multiple Constraints over one shared variable-bounds
// vector, driving a leapfrog propagate/split/backtrack loop to enumerate
// every assignment that satisfies every constraint simultaneously.
//
// Solver exclusively owns its constraints and its bounds/stack buffers;
// Constraints exclusively own their cursor and scratch buffers. There is no
// global mutable state and no concurrency: Next runs to completion
// synchronously on every call.
type Solver struct {
	numVars     int
	constraints []*Constraint
	varIxes     [][]int // per constraint, maps its key position -> global var index

	los, his key.Key // global bounds, length numVars

	scratchLos []key.Key // per constraint, length = that constraint's KeyLen()
	scratchHis []key.Key

	stack []frame

	cur    int // current constraint in the round-robin
	streak int // consecutive no-change constraints processed
	failed bool
	done   bool

	stats SolverStats
}

// New constructs a Solver over constraints, where varIxes[c][i] gives the
// global variable index that constraints[c]'s key position i is bound to.
// numVars is the total number of global variables. Panics (programmer
// error, per spec §7) if constraints is empty, or if any mapping entry is
// out of range or mismatched in length with its constraint's arity.
func New(numVars int, constraints []*Constraint, varIxes [][]int) *Solver {
	if len(constraints) == 0 {
		panic(&NoConstraintsError{})
	}
	if len(varIxes) != len(constraints) {
		panic(&VarIndexError{Msg: "varIxes length must match constraints length"})
	}
	mapped := make([]bool, numVars)
	for c, ixes := range varIxes {
		if len(ixes) != constraints[c].KeyLen() {
			panic(&VarIndexError{Msg: fmt.Sprintf("constraint %d: mapping length must match constraint key arity", c)})
		}
		for _, v := range ixes {
			if v < 0 || v >= numVars {
				panic(&VarIndexError{Msg: fmt.Sprintf("constraint %d: variable index %d out of range", c, v)})
			}
			mapped[v] = true
		}
	}
	for v, ok := range mapped {
		if !ok {
			panic(&VarIndexError{Msg: fmt.Sprintf("variable %d is not bound by any constraint", v)})
		}
	}

	s := &Solver{
		numVars:     numVars,
		constraints: constraints,
		varIxes:     varIxes,
		scratchLos:  make([]key.Key, len(constraints)),
		scratchHis:  make([]key.Key, len(constraints)),
	}
	for c, cons := range constraints {
		s.scratchLos[c] = make(key.Key, cons.KeyLen())
		s.scratchHis[c] = make(key.Key, cons.KeyLen())
	}
	s.Reset()
	return s
}

// Stats returns the solver's running counters.
func (s *Solver) Stats() SolverStats { return s.stats }

// Reset returns the solver to its initial state: every variable's bounds
// span LEAST..GREATEST, the backtrack stack is empty, and the next Next()
// call starts the search from scratch.
func (s *Solver) Reset() {
	s.los = key.LeastKey(s.numVars)
	s.his = key.GreatestKey(s.numVars)
	s.stack = nil
	s.cur = 0
	s.streak = 0
	s.failed = false
	s.done = false
}

// Next runs the propagate/split/backtrack loop until it produces the next
// satisfying assignment (a vector of length numVars, one value per global
// variable, safe to read until the next Next call) or exhausts the search
// space, in which case it returns (nil, false) on every subsequent call
// without re-running the search.
func (s *Solver) Next() (key.Key, bool) {
	if s.done {
		return nil, false
	}

	for {
		if s.failed {
			if len(s.stack) == 0 {
				s.done = true
				return nil, false
			}
			top := s.stack[len(s.stack)-1]
			s.stack = s.stack[:len(s.stack)-1]
			s.los, s.his = top.los, top.his
			s.failed = false
			s.stats.Backtracks++
			s.applySplitRight(top.splitter)
			s.cur, s.streak = 0, 0
			continue
		}

		c := s.cur
		s.stats.Rounds++
		moved := s.propagate(c)
		if s.failed {
			continue
		}
		if moved {
			s.streak = 0
		} else {
			s.streak++
		}
		if s.streak < len(s.constraints) {
			s.cur = (c + 1) % len(s.constraints)
			continue
		}

		if s.allFixed() {
			sol := s.los.Clone()
			s.failed = true
			return sol, true
		}

		splitter := s.pickSplitter()
		s.stack = append(s.stack, frame{los: s.los.Clone(), his: s.his.Clone(), splitter: splitter})
		s.stats.Splits++
		s.applySplitLeft(splitter)
		s.cur, s.streak = 0, 0
	}
}

// pickSplitter scans constraints in order and returns the first whose own
// mapped view of the global bounds still disagrees somewhere, i.e. the
// first constraint whose SplitLeft/SplitRight would have something to do.
// A full dry round only means no constraint's Propagate moved a bound; it
// says nothing about which constraint is still unresolved, so the dry
// round's current index is not a safe choice of splitter on its own (a
// constraint whose own variables are already pinned would panic with
// SplitNothingError even though a sibling constraint still has open
// bounds). New rejects any variable left unmapped by every constraint, so
// as long as allFixed() is false this loop always finds a candidate.
func (s *Solver) pickSplitter() int {
	for c := range s.constraints {
		s.writeBounds(c)
		if firstDiff(s.scratchLos[c], s.scratchHis[c], s.constraints[c].KeyLen()) < s.constraints[c].KeyLen() {
			return c
		}
	}
	panic(&SplitNothingError{})
}

func (s *Solver) allFixed() bool {
	for v := 0; v < s.numVars; v++ {
		if key.CompareElements(s.los[v], s.his[v]) != 0 {
			return false
		}
	}
	return true
}

// writeBounds gathers the current global bounds for constraint c's mapped
// variables into its scratch buffers.
func (s *Solver) writeBounds(c int) {
	for i, v := range s.varIxes[c] {
		s.scratchLos[c][i] = s.los[v]
		s.scratchHis[c][i] = s.his[v]
	}
}

// readBounds scatters constraint c's scratch buffers back into the global
// bounds, only ever narrowing (never loosening) a global bound, and flags
// the solver failed if any mapped variable's bounds crossed or collapsed to
// a sentinel. Returns whether any global bound actually moved.
func (s *Solver) readBounds(c int) (moved bool) {
	for i, v := range s.varIxes[c] {
		if lo := s.scratchLos[c][i]; key.CompareElements(lo, s.los[v]) > 0 {
			s.los[v] = lo
			moved = true
		}
		if hi := s.scratchHis[c][i]; key.CompareElements(hi, s.his[v]) < 0 {
			s.his[v] = hi
			moved = true
		}
	}
	for _, v := range s.varIxes[c] {
		lo, hi := s.los[v], s.his[v]
		if key.CompareElements(lo, hi) > 0 || lo.Kind() == key.KindGreatest || hi.Kind() == key.KindLeast {
			s.failed = true
			break
		}
	}
	return moved
}

func (s *Solver) propagate(c int) bool {
	s.writeBounds(c)
	s.constraints[c].Propagate(s.scratchLos[c], s.scratchHis[c])
	return s.readBounds(c)
}

func (s *Solver) applySplitLeft(c int) {
	s.writeBounds(c)
	s.constraints[c].SplitLeft(s.scratchLos[c], s.scratchHis[c])
	s.readBounds(c)
}

func (s *Solver) applySplitRight(c int) {
	s.writeBounds(c)
	s.constraints[c].SplitRight(s.scratchLos[c], s.scratchHis[c])
	s.readBounds(c)
}
