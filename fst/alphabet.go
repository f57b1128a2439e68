// File: alphabet.go
// Role: Symbol and pair-label interning.
//
// Determinism:
//   - Symbols and labels are numbered in first-seen order.
//   - Symbol(0) is always epsilon, Label(0) is always ε:ε.
//
// Notes:
//   - Any symbol whose spelling parses as a flag diacritic is recorded as a
//     flag, whichever entry point interned it.
package fst

import "fmt"

// Alphabet interns symbols and (input, output) pairs.
type Alphabet struct {
	names  []string          // names[sym]
	bySym  map[string]Symbol // spelling → symbol
	pairs  []Pair            // pairs[label]
	byPair map[Pair]Label    // pair → label
	flags  map[Symbol]Flag   // flag symbols only
}

// NewAlphabet returns an alphabet holding only epsilon and ε:ε.
func NewAlphabet() *Alphabet {
	return &Alphabet{
		names:  []string{""},
		bySym:  map[string]Symbol{"": Epsilon},
		pairs:  []Pair{{Epsilon, Epsilon}},
		byPair: map[Pair]Label{{Epsilon, Epsilon}: EpsilonLabel},
		flags:  make(map[Symbol]Flag),
	}
}

// Symbol interns name and returns its symbol. The empty string is epsilon.
func (a *Alphabet) Symbol(name string) Symbol {
	if s, ok := a.bySym[name]; ok {
		return s
	}
	s := Symbol(len(a.names))
	a.names = append(a.names, name)
	a.bySym[name] = s
	if looksLikeFlag(name) {
		if f, err := ParseFlag(name); err == nil {
			a.flags[s] = f
		}
	}

	return s
}

// Lookup returns the symbol for name without interning it.
func (a *Alphabet) Lookup(name string) (Symbol, bool) {
	s, ok := a.bySym[name]
	return s, ok
}

// FlagSymbol interns the spelling of f.
func (a *Alphabet) FlagSymbol(f Flag) Symbol {
	s := a.Symbol(f.String())
	a.flags[s] = f

	return s
}

// Flag returns the flag behind s, if s is a flag diacritic.
func (a *Alphabet) Flag(s Symbol) (Flag, bool) {
	f, ok := a.flags[s]
	return f, ok
}

// IsFlag reports whether s is a flag diacritic.
func (a *Alphabet) IsFlag(s Symbol) bool {
	_, ok := a.flags[s]
	return ok
}

// Name returns the spelling of s ("" for epsilon and unknown symbols).
func (a *Alphabet) Name(s Symbol) string {
	if s < 0 || int(s) >= len(a.names) {
		return ""
	}
	return a.names[s]
}

// Label interns the pair (in, out).
func (a *Alphabet) Label(in, out Symbol) Label {
	p := Pair{In: in, Out: out}
	if l, ok := a.byPair[p]; ok {
		return l
	}
	l := Label(len(a.pairs))
	a.pairs = append(a.pairs, p)
	a.byPair[p] = l

	return l
}

// Pair returns the (input, output) view of l.
func (a *Alphabet) Pair(l Label) (Pair, error) {
	if l < 0 || int(l) >= len(a.pairs) {
		return Pair{}, fmt.Errorf("label %d: %w", l, ErrLabelNotFound)
	}
	return a.pairs[l], nil
}

// mustPair is Pair for labels produced by this alphabet.
func (a *Alphabet) mustPair(l Label) Pair {
	if l < 0 || int(l) >= len(a.pairs) {
		return Pair{}
	}
	return a.pairs[l]
}

// NumSymbols returns the number of symbols including epsilon.
func (a *Alphabet) NumSymbols() int { return len(a.names) }

// NumLabels returns the number of labels including ε:ε.
func (a *Alphabet) NumLabels() int { return len(a.pairs) }

// NumFlags returns the number of distinct flag diacritic symbols.
func (a *Alphabet) NumFlags() int { return len(a.flags) }

// LabelString renders l as "in:out", or just "in" when both sides agree.
func (a *Alphabet) LabelString(l Label) string {
	p := a.mustPair(l)
	in, out := a.Name(p.In), a.Name(p.Out)
	if in == "" {
		in = "0"
	}
	if out == "" {
		out = "0"
	}
	if p.In == p.Out {
		return in
	}
	return in + ":" + out
}
