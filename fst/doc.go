// Package fst is a small finite-state transducer toolkit: symbol and
// pair-label interning (Alphabet), a nondeterministic Transducer with
// fragment composition (Insert, Union, Concat, ApplyRepeat), the usual
// generic algorithms (Trim, RemoveEpsilons, Determinize, Reverse, Minimize),
// flag diacritics with their match-time semantics (Flag, FlagState), and
// flag-aware path enumeration (Paths, Accepts, Lookup).
//
// A Transducer stores only states and labelled edges; the meaning of a label
// lives in the Alphabet it was built against. Every transducer that takes
// part in one composition must share the same Alphabet.
//
// Quick example:
//
//	a := fst.NewAlphabet()
//	t := fst.New()
//	s, _ := t.InsertSingle(t.Initial(), a.Label(a.Symbol("a"), a.Symbol("b")))
//	_ = t.SetFinal(s)
//	pairs, _ := fst.Paths(t, a) // [{a b}]
//
// Concurrency: values are not safe for concurrent mutation. Read-only use
// (Paths, WriteATT) of a finished transducer from several goroutines is fine.
package fst
