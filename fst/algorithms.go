// File: algorithms.go
// Role: Generic automaton algorithms used at final assembly: reachability
// trimming, ε-removal, subset-construction determinization, reversal and
// Brzozowski minimization.
//
// All algorithms treat a Label as an opaque atomic symbol. Flag diacritic
// labels are ordinary symbols here; their semantics only matter to Paths.
//
// Complexity:
//
//   - Trim:           O(V + E)
//   - RemoveEpsilons: O(V · (V + E)) worst case
//   - Determinize:    O(2^V · L) worst case, linear in practice for lexicons
//   - Minimize:       two determinizations of reversed automata
package fst

import (
	"sort"
	"strconv"
	"strings"
)

// forward returns the states reachable from the initial state, BFS order.
func (t *Transducer) forward() []State {
	seen := make([]bool, len(t.trans))
	order := []State{t.initial}
	seen[t.initial] = true
	for i := 0; i < len(order); i++ {
		for _, e := range t.trans[order[i]] {
			if !seen[e.To] {
				seen[e.To] = true
				order = append(order, e.To)
			}
		}
	}
	return order
}

// coaccessible marks every state from which some final state is reachable.
func (t *Transducer) coaccessible() []bool {
	rev := make([][]State, len(t.trans))
	for s, out := range t.trans {
		for _, e := range out {
			rev[e.To] = append(rev[e.To], State(s))
		}
	}
	mark := make([]bool, len(t.trans))
	queue := make([]State, 0, len(t.finals))
	for s := range t.finals {
		mark[s] = true
		queue = append(queue, s)
	}
	for i := 0; i < len(queue); i++ {
		for _, p := range rev[queue[i]] {
			if !mark[p] {
				mark[p] = true
				queue = append(queue, p)
			}
		}
	}
	return mark
}

// Trim returns a copy of t restricted to useful states (reachable from the
// initial state and co-reachable to a final state), renumbered in BFS order
// with sorted edges. A transducer accepting nothing trims to New().
func (t *Transducer) Trim() *Transducer {
	co := t.coaccessible()
	if !co[t.initial] {
		return New()
	}

	// 1) BFS over useful states only, assigning new indices on discovery.
	index := map[State]State{t.initial: 0}
	order := []State{t.initial}
	for i := 0; i < len(order); i++ {
		for _, e := range sortedEdges(t.trans[order[i]]) {
			if !co[e.To] {
				continue
			}
			if _, ok := index[e.To]; !ok {
				index[e.To] = State(len(order))
				order = append(order, e.To)
			}
		}
	}

	// 2) Rebuild edges under the new numbering.
	out := &Transducer{
		initial: 0,
		finals:  make(map[State]struct{}),
		trans:   make([][]Transition, len(order)),
	}
	for newS, oldS := range order {
		if t.IsFinal(oldS) {
			out.finals[State(newS)] = struct{}{}
		}
		for _, e := range sortedEdges(t.trans[oldS]) {
			if to, ok := index[e.To]; ok {
				out.trans[newS] = append(out.trans[newS], Transition{Label: e.Label, To: to})
			}
		}
		out.trans[newS] = dedupEdges(out.trans[newS])
	}

	return out
}

// sortedEdges returns edges ordered by (label, to).
func sortedEdges(es []Transition) []Transition {
	out := append([]Transition(nil), es...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Label != out[j].Label {
			return out[i].Label < out[j].Label
		}
		return out[i].To < out[j].To
	})
	return out
}

// dedupEdges removes adjacent duplicates from a sorted edge list.
func dedupEdges(es []Transition) []Transition {
	if len(es) < 2 {
		return es
	}
	w := 1
	for r := 1; r < len(es); r++ {
		if es[r] != es[w-1] {
			es[w] = es[r]
			w++
		}
	}
	return es[:w]
}

// epsilonClosure returns the ε:ε-closure of s (including s).
func (t *Transducer) epsilonClosure(s State, seen []bool) []State {
	stack := []State{s}
	closure := []State{}
	seen[s] = true
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		closure = append(closure, cur)
		for _, e := range t.trans[cur] {
			if e.Label == EpsilonLabel && !seen[e.To] {
				seen[e.To] = true
				stack = append(stack, e.To)
			}
		}
	}
	for _, c := range closure {
		seen[c] = false
	}
	return closure
}

// RemoveEpsilons returns an equivalent transducer without ε:ε edges.
// Flag diacritic edges are kept: they are not ε for matching purposes.
func (t *Transducer) RemoveEpsilons() *Transducer {
	out := &Transducer{
		initial: t.initial,
		finals:  make(map[State]struct{}),
		trans:   make([][]Transition, len(t.trans)),
	}
	seen := make([]bool, len(t.trans))
	for s := range t.trans {
		for _, q := range t.epsilonClosure(State(s), seen) {
			if t.IsFinal(q) {
				out.finals[State(s)] = struct{}{}
			}
			for _, e := range t.trans[q] {
				if e.Label != EpsilonLabel {
					out.trans[s] = append(out.trans[s], e)
				}
			}
		}
	}

	return out.Trim()
}

// subsetKey is the canonical identity of a sorted state set.
func subsetKey(set []State) string {
	var b strings.Builder
	for i, s := range set {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(s)))
	}
	return b.String()
}

// determinizeWork is one pending subset in the construction worklist.
type determinizeWork struct {
	set []State
	id  State
}

// Determinize returns an equivalent deterministic transducer (over pair
// labels) using subset construction. ε:ε edges are removed first.
func (t *Transducer) Determinize() *Transducer {
	src := t.RemoveEpsilons()

	out := New()
	start := []State{src.initial}
	ids := map[string]State{subsetKey(start): out.initial}
	work := []determinizeWork{{set: start, id: out.initial}}

	for len(work) > 0 {
		item := work[0]
		work = work[1:]

		// 1) Final if any member is final.
		if src.anyFinal(item.set) {
			out.finals[item.id] = struct{}{}
		}

		// 2) Group member edges by label.
		next := make(map[Label]map[State]struct{})
		for _, s := range item.set {
			for _, e := range src.trans[s] {
				if next[e.Label] == nil {
					next[e.Label] = make(map[State]struct{})
				}
				next[e.Label][e.To] = struct{}{}
			}
		}
		labels := make([]Label, 0, len(next))
		for l := range next {
			labels = append(labels, l)
		}
		sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })

		// 3) One successor subset per label, allocated on first sight.
		for _, l := range labels {
			set := make([]State, 0, len(next[l]))
			for s := range next[l] {
				set = append(set, s)
			}
			sort.Slice(set, func(i, j int) bool { return set[i] < set[j] })
			key := subsetKey(set)
			id, ok := ids[key]
			if !ok {
				id = out.NewState()
				ids[key] = id
				work = append(work, determinizeWork{set: set, id: id})
			}
			out.addEdge(item.id, l, id)
		}
	}

	return out
}

// Reverse returns the reversal of t: every edge flipped, a fresh initial
// state with ε edges to the old finals, and the old initial as sole final.
func (t *Transducer) Reverse() *Transducer {
	out := &Transducer{
		finals: map[State]struct{}{t.initial: {}},
		trans:  make([][]Transition, len(t.trans)+1),
	}
	out.initial = State(len(t.trans))
	for s, es := range t.trans {
		for _, e := range es {
			out.trans[e.To] = append(out.trans[e.To], Transition{Label: e.Label, To: State(s)})
		}
	}
	for _, f := range t.Finals() {
		out.addEdge(out.initial, EpsilonLabel, f)
	}

	return out
}

// Minimize returns the minimal deterministic transducer over pair labels
// (Brzozowski: determinize ∘ reverse ∘ determinize ∘ reverse).
func (t *Transducer) Minimize() *Transducer {
	return t.Reverse().Determinize().Reverse().Determinize().Trim()
}
