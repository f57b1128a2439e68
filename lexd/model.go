// File: model.go
// Role: Data model: tokens, tag sets, segments, entries, pattern elements.
//
// Determinism:
//   - TagSet is always sorted and duplicate-free, so Key() and Compare() are
//     canonical: two textually identical elements produce the same key no
//     matter where they occur.
//
// Immutability:
//   - TagSet methods never modify their receiver; every operation returns a
//     fresh slice.
package lexd

import (
	"sort"
	"strconv"
	"strings"

	"github.com/katalvlaran/lexd/fst"
	"github.com/katalvlaran/lexd/intern"
)

// Token identifies a lexicon or pattern reference by name and column.
// Columns are 1-based; the zero Token (empty name) means "this side absent".
type Token struct {
	Name   intern.Handle
	Column int
}

// Empty reports whether the token names nothing.
func (t Token) Empty() bool { return !t.Name.Valid() }

// Compare orders tokens lexicographically on (Name, Column).
func (t Token) Compare(o Token) int {
	switch {
	case t.Name < o.Name:
		return -1
	case t.Name > o.Name:
		return 1
	case t.Column < o.Column:
		return -1
	case t.Column > o.Column:
		return 1
	}
	return 0
}

// TagSet is a sorted, duplicate-free set of handles.
type TagSet []intern.Handle

// NewTagSet builds a canonical TagSet from arbitrary handles.
func NewTagSet(hs ...intern.Handle) TagSet {
	if len(hs) == 0 {
		return nil
	}
	out := append(TagSet(nil), hs...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	w := 1
	for r := 1; r < len(out); r++ {
		if out[r] != out[w-1] {
			out[w] = out[r]
			w++
		}
	}
	return out[:w]
}

// Has reports membership.
func (s TagSet) Has(h intern.Handle) bool {
	i := sort.Search(len(s), func(i int) bool { return s[i] >= h })
	return i < len(s) && s[i] == h
}

// Union returns s ∪ o.
func (s TagSet) Union(o TagSet) TagSet {
	if len(o) == 0 {
		return s
	}
	if len(s) == 0 {
		return o
	}
	return NewTagSet(append(append(TagSet(nil), s...), o...)...)
}

// Add returns s ∪ {h}.
func (s TagSet) Add(h intern.Handle) TagSet { return s.Union(TagSet{h}) }

// Intersect returns s ∩ o.
func (s TagSet) Intersect(o TagSet) TagSet {
	var out TagSet
	for _, h := range s {
		if o.Has(h) {
			out = append(out, h)
		}
	}
	return out
}

// Minus returns s \ o.
func (s TagSet) Minus(o TagSet) TagSet {
	var out TagSet
	for _, h := range s {
		if !o.Has(h) {
			out = append(out, h)
		}
	}
	return out
}

// SubsetOf reports s ⊆ o.
func (s TagSet) SubsetOf(o TagSet) bool {
	if len(s) > len(o) {
		return false
	}
	for _, h := range s {
		if !o.Has(h) {
			return false
		}
	}
	return true
}

// Disjoint reports s ∩ o = ∅.
func (s TagSet) Disjoint(o TagSet) bool {
	for _, h := range s {
		if o.Has(h) {
			return false
		}
	}
	return true
}

// Compare orders tag sets lexicographically.
func (s TagSet) Compare(o TagSet) int {
	for i := 0; i < len(s) && i < len(o); i++ {
		if s[i] != o[i] {
			if s[i] < o[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(s) < len(o):
		return -1
	case len(s) > len(o):
		return 1
	}
	return 0
}

// key appends a canonical encoding of s to b.
func (s TagSet) key(b *strings.Builder) {
	for i, h := range s {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(uint64(h), 10))
	}
}

// RepeatMode is the pair of independent flags may-be-absent / may-repeat.
type RepeatMode uint8

const (
	// Optional marks an element that may be absent.
	Optional RepeatMode = 1 << iota
	// Repeated marks an element that may repeat.
	Repeated
)

const (
	// Normal: exactly once.
	Normal RepeatMode = 0
	// Question: zero or one ("?").
	Question = Optional
	// Plus: one or more ("+").
	Plus = Repeated
	// Star: zero or more ("*").
	Star = Optional | Repeated
)

// MayBeAbsent reports the Optional bit.
func (m RepeatMode) MayBeAbsent() bool { return m&Optional != 0 }

// MayRepeat reports the Repeated bit.
func (m RepeatMode) MayRepeat() bool { return m&Repeated != 0 }

// String returns the source modifier ("", "?", "+", "*").
func (m RepeatMode) String() string {
	switch m {
	case Question:
		return "?"
	case Plus:
		return "+"
	case Star:
		return "*"
	}
	return ""
}

// Segment is one column slice of an entry.
type Segment struct {
	Left  []fst.Symbol
	Right []fst.Symbol
	Tags  TagSet
}

// Entry is one lexicon row: one segment per column.
type Entry []Segment

// PatternElement is a (possibly side-restricted) reference with a repeat
// mode and tag filters. Left == Right is the ordinary reference; an empty
// side means that side contributes nothing.
type PatternElement struct {
	Left    Token
	Right   Token
	Tags    TagSet
	NegTags TagSet
	Mode    RepeatMode
}

// Ref returns the plain reference to column of name.
func Ref(name intern.Handle, column int) PatternElement {
	tok := Token{Name: name, Column: column}
	return PatternElement{Left: tok, Right: tok}
}

// Symmetric reports whether both sides name the same token.
func (e PatternElement) Symmetric() bool { return e.Left == e.Right }

// Name returns the referenced name (left side first).
func (e PatternElement) Name() intern.Handle { return e.Left.Name.Or(e.Right.Name) }

// Column returns the referenced column (left side first).
func (e PatternElement) Column() int {
	if !e.Left.Empty() {
		return e.Left.Column
	}
	return e.Right.Column
}

// WithMode returns a copy with Mode replaced.
func (e PatternElement) WithMode(m RepeatMode) PatternElement {
	e.Mode = m
	return e
}

// Compare orders elements on (Left, Right, Mode, Tags, NegTags).
func (e PatternElement) Compare(o PatternElement) int {
	if c := e.Left.Compare(o.Left); c != 0 {
		return c
	}
	if c := e.Right.Compare(o.Right); c != 0 {
		return c
	}
	if e.Mode != o.Mode {
		if e.Mode < o.Mode {
			return -1
		}
		return 1
	}
	if c := e.Tags.Compare(o.Tags); c != 0 {
		return c
	}
	return e.NegTags.Compare(o.NegTags)
}

// Key is the canonical cache key covering every field.
func (e PatternElement) Key() string {
	var b strings.Builder
	b.WriteString(strconv.FormatUint(uint64(e.Left.Name), 10))
	b.WriteByte('.')
	b.WriteString(strconv.Itoa(e.Left.Column))
	b.WriteByte(':')
	b.WriteString(strconv.FormatUint(uint64(e.Right.Name), 10))
	b.WriteByte('.')
	b.WriteString(strconv.Itoa(e.Right.Column))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(int(e.Mode)))
	b.WriteByte('|')
	e.Tags.key(&b)
	b.WriteByte('|')
	e.NegTags.key(&b)
	return b.String()
}

// Pattern is one alternative body of a named pattern.
type Pattern struct {
	Line     int
	Elements []PatternElement
}
