package fst_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lexd/fst"
)

// flagged builds: @U.f.v@ in:out, as a single path.
func flagged(t *testing.T, a *fst.Alphabet, v int, in, out string) *fst.Transducer {
	t.Helper()
	tr := fst.New()
	fs := a.FlagSymbol(fst.Flag{Kind: fst.Unification, Feature: "f", Value: v})
	s, err := tr.InsertSingle(tr.Initial(), a.Label(fs, fs))
	require.NoError(t, err)
	s, err = tr.InsertSingle(s, a.Label(a.Symbol(in), a.Symbol(out)))
	require.NoError(t, err)
	require.NoError(t, tr.SetFinal(s))
	return tr
}

// TestPaths_FlagUnification verifies that unification flags prune the
// cross product of two correlated unions.
func TestPaths_FlagUnification(t *testing.T) {
	a := fst.NewAlphabet()
	left, err := fst.Union(flagged(t, a, 1, "a", "a"), flagged(t, a, 2, "b", "b"))
	require.NoError(t, err)
	right, err := fst.Union(flagged(t, a, 1, "x", "x"), flagged(t, a, 2, "y", "y"))
	require.NoError(t, err)
	both, err := fst.Concat(left, right)
	require.NoError(t, err)

	got, err := fst.Paths(both, a)
	require.NoError(t, err)
	assert.Equal(t, pairs("ax", "ax", "by", "by"), got)

	loose, err := fst.Paths(both, a, fst.WithoutFlagSemantics())
	require.NoError(t, err)
	assert.Len(t, loose, 4, "without flag semantics the cross product is visible")

	// Minimization keeps flags as symbols, so the language is unchanged.
	got, err = fst.Paths(both.Minimize(), a)
	require.NoError(t, err)
	assert.Equal(t, pairs("ax", "ax", "by", "by"), got)
}

// TestPaths_Limit reports ErrPathLimit when the budget is exceeded.
func TestPaths_Limit(t *testing.T) {
	a := fst.NewAlphabet()
	tr := word(t, a, "a", "a")
	tr.ApplyRepeat(true, true)

	_, err := fst.Paths(tr, a, fst.WithMaxSymbols(10), fst.WithMaxPaths(3))
	assert.ErrorIs(t, err, fst.ErrPathLimit)

	_, err = fst.Paths(nil, a)
	assert.ErrorIs(t, err, fst.ErrNilTransducer)
	_, err = fst.Paths(tr, nil)
	assert.ErrorIs(t, err, fst.ErrNilAlphabet)
}

// TestAcceptsLookup checks targeted queries.
func TestAcceptsLookup(t *testing.T) {
	a := fst.NewAlphabet()
	u, err := fst.Union(word(t, a, "walk", "walked"), word(t, a, "walk", "walks"), word(t, a, "run", "ran"))
	require.NoError(t, err)

	ok, err := fst.Accepts(u, a, "walk", "walks")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = fst.Accepts(u, a, "run", "walks")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = fst.Accepts(u, a, "", "")
	require.NoError(t, err)
	assert.False(t, ok)

	outs, err := fst.Lookup(u, a, "walk")
	require.NoError(t, err)
	assert.Equal(t, []string{"walked", "walks"}, outs)
}

// TestLive decides emptiness under flag semantics, including across a
// repetition that Paths could only enumerate up to its budget.
func TestLive(t *testing.T) {
	a := fst.NewAlphabet()
	clash, err := fst.Concat(flagged(t, a, 1, "a", "a"), flagged(t, a, 2, "b", "b"))
	require.NoError(t, err)
	clash.ApplyRepeat(false, true)

	live, err := fst.Live(clash, a)
	require.NoError(t, err)
	assert.False(t, live, "@U.f.1@ then @U.f.2@ never unify")

	live, err = fst.Live(clash, a, fst.WithoutFlagSemantics())
	require.NoError(t, err)
	assert.True(t, live)

	live, err = fst.Live(clash, a, fst.WithFlagFilter(func(f fst.Flag) bool { return f.Feature != "f" }))
	require.NoError(t, err)
	assert.True(t, live, "filtered flags pass as epsilon")

	ok := word(t, a, "a", "a")
	ok.ApplyRepeat(true, true)
	live, err = fst.Live(ok, a)
	require.NoError(t, err)
	assert.True(t, live)

	_, err = fst.Live(nil, a)
	assert.ErrorIs(t, err, fst.ErrNilTransducer)
}

// TestPaths_FlagFilter evaluates only the selected features.
func TestPaths_FlagFilter(t *testing.T) {
	a := fst.NewAlphabet()
	left, err := fst.Union(flagged(t, a, 1, "a", "a"), flagged(t, a, 2, "b", "b"))
	require.NoError(t, err)
	right, err := fst.Union(flagged(t, a, 1, "x", "x"), flagged(t, a, 2, "y", "y"))
	require.NoError(t, err)
	both, err := fst.Concat(left, right)
	require.NoError(t, err)

	got, err := fst.Paths(both, a, fst.WithFlagFilter(func(f fst.Flag) bool { return f.Feature == "g" }))
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

// TestWithOptions_Panics checks option constructor validation.
func TestWithOptions_Panics(t *testing.T) {
	assert.Panics(t, func() { fst.WithMaxSymbols(-1) })
	assert.Panics(t, func() { fst.WithMaxPaths(0) })
	assert.Panics(t, func() { fst.WithFlagFilter(nil) })
}
