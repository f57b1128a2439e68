package fst_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lexd/fst"
)

// word builds a linear transducer mapping in to out symbol by symbol
// (single-rune symbols, shorter side padded with epsilon).
func word(t *testing.T, a *fst.Alphabet, in, out string) *fst.Transducer {
	t.Helper()
	tr := fst.New()
	cur := tr.Initial()
	ri, ro := []rune(in), []rune(out)
	for i := 0; i < len(ri) || i < len(ro); i++ {
		var l, r fst.Symbol
		if i < len(ri) {
			l = a.Symbol(string(ri[i]))
		}
		if i < len(ro) {
			r = a.Symbol(string(ro[i]))
		}
		next, err := tr.InsertSingle(cur, a.Label(l, r))
		require.NoError(t, err)
		cur = next
	}
	require.NoError(t, tr.SetFinal(cur))
	return tr
}

// pairs is a shorthand for building expected PathPair lists.
func pairs(kv ...string) []fst.PathPair {
	out := make([]fst.PathPair, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, fst.PathPair{Input: kv[i], Output: kv[i+1]})
	}
	return out
}

// TestTransducer_Errors checks state validation on exported mutators.
func TestTransducer_Errors(t *testing.T) {
	tr := fst.New()
	assert.ErrorIs(t, tr.AddTransition(0, fst.EpsilonLabel, 5), fst.ErrStateNotFound)
	assert.ErrorIs(t, tr.SetFinal(-1), fst.ErrStateNotFound)
	_, err := tr.InsertSingle(3, fst.EpsilonLabel)
	assert.ErrorIs(t, err, fst.ErrStateNotFound)
	_, err = tr.Transitions(9)
	assert.ErrorIs(t, err, fst.ErrStateNotFound)
	_, err = tr.Insert(0, nil)
	assert.ErrorIs(t, err, fst.ErrNilTransducer)
	_, err = fst.Union(nil)
	assert.ErrorIs(t, err, fst.ErrNilTransducer)
	_, err = fst.Concat(fst.New(), nil)
	assert.ErrorIs(t, err, fst.ErrNilTransducer)
}

// TestTransducer_Basics checks counters, finals and cloning.
func TestTransducer_Basics(t *testing.T) {
	a := fst.NewAlphabet()
	tr := word(t, a, "ab", "x")
	assert.Equal(t, 3, tr.NumStates())
	assert.Equal(t, 2, tr.NumTransitions())
	assert.Equal(t, []fst.State{2}, tr.Finals())
	assert.False(t, tr.IsEmpty())
	assert.True(t, fst.New().IsEmpty())

	c := tr.Clone()
	_ = c.SetFinal(0)
	assert.False(t, tr.IsFinal(0), "clone must not alias finals")
}

// TestUnionConcat checks composition languages.
func TestUnionConcat(t *testing.T) {
	a := fst.NewAlphabet()
	ab := word(t, a, "a", "b")
	cd := word(t, a, "c", "d")

	u, err := fst.Union(ab, cd)
	require.NoError(t, err)
	got, err := fst.Paths(u, a)
	require.NoError(t, err)
	assert.Equal(t, pairs("a", "b", "c", "d"), got)

	c, err := fst.Concat(ab, cd)
	require.NoError(t, err)
	got, err = fst.Paths(c, a)
	require.NoError(t, err)
	assert.Equal(t, pairs("ac", "bd"), got)

	empty, err := fst.Union()
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())

	eps, err := fst.Concat()
	require.NoError(t, err)
	got, err = fst.Paths(eps, a)
	require.NoError(t, err)
	assert.Equal(t, pairs("", ""), got)
}

// TestApplyRepeat checks the four repeat modes over one shared fragment.
func TestApplyRepeat(t *testing.T) {
	a := fst.NewAlphabet()
	cases := []struct {
		name            string
		absent, repeats bool
		want            []fst.PathPair
	}{
		{"normal", false, false, pairs("a", "b")},
		{"optional", true, false, pairs("", "", "a", "b")},
		{"plus", false, true, pairs("a", "b", "aa", "bb", "aaa", "bbb")},
		{"star", true, true, pairs("", "", "a", "b", "aa", "bb", "aaa", "bbb")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr := word(t, a, "a", "b")
			before := tr.NumTransitions()
			tr.ApplyRepeat(tc.absent, tc.repeats)
			// Looping only adds ε edges; the labelled fragment is not copied.
			assert.LessOrEqual(t, tr.NumTransitions()-before, 4)

			got, err := fst.Paths(tr, a, fst.WithMaxSymbols(3))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
