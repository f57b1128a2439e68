// SPDX-License-Identifier: MIT
// Package: lexd/fst
//
// transducer.go - state/edge storage and elementary mutation.
//
// Storage:
//   • trans[s] is the ordered outgoing edge list of state s.
//   • finals is a set; a transducer may have any number of final states.
//   • States are dense ints 0..NumStates()-1; the initial state is stored
//     explicitly and is 0 for every freshly created transducer.
//
// Policy:
//   • Exported mutators validate state indices and return ErrStateNotFound.
//   • Unexported helpers (addEdge, copyInto) skip validation; callers inside
//     the package only pass states they created.
//   • Parallel duplicate edges are tolerated; Determinize collapses them.

package fst

import (
	"fmt"
	"sort"
)

// Transducer is a nondeterministic finite-state transducer over the labels
// of one Alphabet. It does not hold the alphabet itself.
type Transducer struct {
	initial State
	finals  map[State]struct{}
	trans   [][]Transition
}

// New returns a transducer with a single, non-final initial state.
// Complexity: O(1).
func New() *Transducer {
	return &Transducer{
		initial: 0,
		finals:  make(map[State]struct{}),
		trans:   make([][]Transition, 1),
	}
}

// Initial returns the initial state.
func (t *Transducer) Initial() State { return t.initial }

// NumStates returns the number of states.
func (t *Transducer) NumStates() int { return len(t.trans) }

// NumTransitions returns the total number of edges.
// Complexity: O(V).
func (t *Transducer) NumTransitions() int {
	n := 0
	for _, out := range t.trans {
		n += len(out)
	}
	return n
}

// NewState appends a fresh non-final state.
func (t *Transducer) NewState() State {
	t.trans = append(t.trans, nil)
	return State(len(t.trans) - 1)
}

// has reports whether s is a state of t.
func (t *Transducer) has(s State) bool {
	return s >= 0 && int(s) < len(t.trans)
}

// addEdge appends an edge without validation.
func (t *Transducer) addEdge(from State, l Label, to State) {
	t.trans[from] = append(t.trans[from], Transition{Label: l, To: to})
}

// AddTransition inserts the edge from --l--> to.
// Errors: ErrStateNotFound if either endpoint is missing.
func (t *Transducer) AddTransition(from State, l Label, to State) error {
	if !t.has(from) || !t.has(to) {
		return fmt.Errorf("AddTransition(%d,%d): %w", from, to, ErrStateNotFound)
	}
	t.addEdge(from, l, to)

	return nil
}

// InsertSingle adds a fresh state reached from `from` by l and returns it.
func (t *Transducer) InsertSingle(from State, l Label) (State, error) {
	if !t.has(from) {
		return 0, fmt.Errorf("InsertSingle(%d): %w", from, ErrStateNotFound)
	}
	to := t.NewState()
	t.addEdge(from, l, to)

	return to, nil
}

// SetFinal marks s as final.
func (t *Transducer) SetFinal(s State) error {
	if !t.has(s) {
		return fmt.Errorf("SetFinal(%d): %w", s, ErrStateNotFound)
	}
	t.finals[s] = struct{}{}

	return nil
}

// IsFinal reports whether s is final.
func (t *Transducer) IsFinal(s State) bool {
	_, ok := t.finals[s]
	return ok
}

// Finals returns the final states in ascending order.
func (t *Transducer) Finals() []State {
	out := make([]State, 0, len(t.finals))
	for s := range t.finals {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// Transitions returns a copy of the outgoing edges of s.
func (t *Transducer) Transitions(s State) ([]Transition, error) {
	if !t.has(s) {
		return nil, fmt.Errorf("Transitions(%d): %w", s, ErrStateNotFound)
	}
	out := make([]Transition, len(t.trans[s]))
	copy(out, t.trans[s])

	return out, nil
}

// IsEmpty reports whether t accepts nothing (no final state reachable).
func (t *Transducer) IsEmpty() bool {
	return !t.anyFinal(t.forward())
}

// anyFinal reports whether any state of set is final.
func (t *Transducer) anyFinal(set []State) bool {
	for _, s := range set {
		if t.IsFinal(s) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of t.
// Complexity: O(V+E).
func (t *Transducer) Clone() *Transducer {
	c := &Transducer{
		initial: t.initial,
		finals:  make(map[State]struct{}, len(t.finals)),
		trans:   make([][]Transition, len(t.trans)),
	}
	for s := range t.finals {
		c.finals[s] = struct{}{}
	}
	for i, out := range t.trans {
		c.trans[i] = append([]Transition(nil), out...)
	}

	return c
}

// copyInto appends all states of src to t and returns the offset added to
// every src state index.
func (t *Transducer) copyInto(src *Transducer) State {
	offset := State(len(t.trans))
	for _, out := range src.trans {
		moved := make([]Transition, len(out))
		for i, e := range out {
			moved[i] = Transition{Label: e.Label, To: e.To + offset}
		}
		t.trans = append(t.trans, moved)
	}
	return offset
}
