// File: combine.go
// Role: Fragment composition: Insert, Union, Concat, ApplyRepeat.
//
// Fragment shape:
//   - A fragment is any Transducer; composition treats its initial state as
//     entry and its final states as exits.
//   - Insert copies a fragment exactly once and funnels all its exits into
//     one fresh exit state, so callers can keep chaining from a single state.
//
// Determinism:
//   - Composition never reorders edges; results are reproducible.
package fst

import "fmt"

// Insert copies frag into t, links `from` to the copy's entry with ε and
// returns a fresh state that every copied exit reaches by ε.
// The returned state is not final.
// Complexity: O(V_frag + E_frag).
func (t *Transducer) Insert(from State, frag *Transducer) (State, error) {
	if frag == nil {
		return 0, ErrNilTransducer
	}
	if !t.has(from) {
		return 0, fmt.Errorf("Insert(%d): %w", from, ErrStateNotFound)
	}
	offset := t.copyInto(frag)
	end := t.NewState()
	t.addEdge(from, EpsilonLabel, frag.initial+offset)
	for s := range frag.finals {
		t.addEdge(s+offset, EpsilonLabel, end)
	}

	return end, nil
}

// Union returns a new transducer accepting the union of frags.
// A nil or empty list yields a transducer that accepts nothing.
func Union(frags ...*Transducer) (*Transducer, error) {
	u := New()
	end := u.NewState()
	for i, f := range frags {
		if f == nil {
			return nil, fmt.Errorf("Union: fragment %d: %w", i, ErrNilTransducer)
		}
		exit, _ := u.Insert(u.initial, f)
		u.addEdge(exit, EpsilonLabel, end)
	}
	if len(frags) > 0 {
		u.finals[end] = struct{}{}
	}

	return u, nil
}

// Concat returns a new transducer accepting the concatenation of frags in
// order. An empty list yields the ε-acceptor.
func Concat(frags ...*Transducer) (*Transducer, error) {
	c := New()
	cur := c.initial
	for i, f := range frags {
		if f == nil {
			return nil, fmt.Errorf("Concat: fragment %d: %w", i, ErrNilTransducer)
		}
		cur, _ = c.Insert(cur, f)
	}
	c.finals[cur] = struct{}{}

	return c, nil
}

// EpsilonAcceptor returns the transducer accepting only the empty pair.
func EpsilonAcceptor() *Transducer {
	t := New()
	t.finals[t.initial] = struct{}{}

	return t
}

// Isolate rewrites t in place so that its entry has no incoming edges and
// it has exactly one exit state with no outgoing edges. It returns that exit.
// Complexity: O(F) where F = number of final states.
func (t *Transducer) Isolate() State {
	entry := t.NewState()
	t.addEdge(entry, EpsilonLabel, t.initial)
	t.initial = entry

	exit := t.NewState()
	for s := range t.finals {
		t.addEdge(s, EpsilonLabel, exit)
	}
	t.finals = map[State]struct{}{exit: {}}

	return exit
}

// ApplyRepeat applies a repeat mode over the already built states of t:
// mayBeAbsent adds an ε bypass from entry to exit, mayRepeat adds an ε
// back-edge from exit to entry. The fragment is never duplicated.
//
//	Normal   = (false,false)  unchanged
//	Optional = (true, false)  L | ε
//	Plus     = (false,true )  L+
//	Star     = (true, true )  L*
func (t *Transducer) ApplyRepeat(mayBeAbsent, mayRepeat bool) {
	if !mayBeAbsent && !mayRepeat {
		return
	}
	exit := t.Isolate()
	if mayBeAbsent {
		t.addEdge(t.initial, EpsilonLabel, exit)
	}
	if mayRepeat {
		t.addEdge(exit, EpsilonLabel, t.initial)
	}
}
