package fst_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lexd/fst"
)

// TestFlag_StringParse round-trips every kind through its spelling.
func TestFlag_StringParse(t *testing.T) {
	cases := []struct {
		flag fst.Flag
		text string
	}{
		{fst.Flag{Kind: fst.Unification, Feature: "Noun", Value: 3}, "@U.Noun.3@"},
		{fst.Flag{Kind: fst.Positive, Feature: "x", Value: 1}, "@P.x.1@"},
		{fst.Flag{Kind: fst.Negative, Feature: "x", Value: 2}, "@N.x.2@"},
		{fst.Flag{Kind: fst.Require, Feature: "x", Value: 1}, "@R.x.1@"},
		{fst.Flag{Kind: fst.Require, Feature: "x"}, "@R.x@"},
		{fst.Flag{Kind: fst.Disallow, Feature: "x", Value: 1}, "@D.x.1@"},
		{fst.Flag{Kind: fst.Clear, Feature: "x"}, "@C.x@"},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.text, tc.flag.String())
			got, err := fst.ParseFlag(tc.text)
			require.NoError(t, err)
			assert.Equal(t, tc.flag, got)
		})
	}
}

// TestParseFlag_Malformed rejects non-flag spellings.
func TestParseFlag_Malformed(t *testing.T) {
	for _, s := range []string{"", "@", "@X.a.1@", "U.a.1", "@U.@", "@U.a.zero@"} {
		_, err := fst.ParseFlag(s)
		assert.ErrorIs(t, err, fst.ErrBadFlag, s)
	}
}

// TestFlag_Apply checks the match-time semantics of each kind.
func TestFlag_Apply(t *testing.T) {
	u1 := fst.Flag{Kind: fst.Unification, Feature: "f", Value: 1}
	u2 := fst.Flag{Kind: fst.Unification, Feature: "f", Value: 2}
	p1 := fst.Flag{Kind: fst.Positive, Feature: "f", Value: 1}
	n1 := fst.Flag{Kind: fst.Negative, Feature: "f", Value: 1}
	r1 := fst.Flag{Kind: fst.Require, Feature: "f", Value: 1}
	rAny := fst.Flag{Kind: fst.Require, Feature: "f"}
	d1 := fst.Flag{Kind: fst.Disallow, Feature: "f", Value: 1}
	dAny := fst.Flag{Kind: fst.Disallow, Feature: "f"}
	clr := fst.Flag{Kind: fst.Clear, Feature: "f"}

	var empty fst.FlagState

	// Unification binds when unset, then only agrees with itself.
	s, ok := u1.Apply(empty)
	require.True(t, ok)
	_, ok = u1.Apply(s)
	assert.True(t, ok)
	_, ok = u2.Apply(s)
	assert.False(t, ok)

	// Unification against a negative setting.
	neg, ok := n1.Apply(empty)
	require.True(t, ok)
	_, ok = u1.Apply(neg)
	assert.False(t, ok)
	_, ok = u2.Apply(neg)
	assert.True(t, ok)

	// Require / Disallow with and without value.
	_, ok = r1.Apply(empty)
	assert.False(t, ok)
	_, ok = rAny.Apply(empty)
	assert.False(t, ok)
	_, ok = d1.Apply(empty)
	assert.True(t, ok)
	_, ok = dAny.Apply(empty)
	assert.True(t, ok)

	set, _ := p1.Apply(empty)
	_, ok = r1.Apply(set)
	assert.True(t, ok)
	_, ok = rAny.Apply(set)
	assert.True(t, ok)
	_, ok = d1.Apply(set)
	assert.False(t, ok)
	_, ok = dAny.Apply(set)
	assert.False(t, ok)

	// Clear resets and never fails.
	cleared, ok := clr.Apply(set)
	require.True(t, ok)
	assert.Equal(t, "", cleared.Key())
	_, ok = clr.Apply(empty)
	assert.True(t, ok)

	// Apply never mutates its argument.
	assert.Equal(t, "f=1;", set.Key())
}

// TestFlagState_Key is canonical regardless of insertion order.
func TestFlagState_Key(t *testing.T) {
	a := fst.Flag{Kind: fst.Positive, Feature: "a", Value: 1}
	b := fst.Flag{Kind: fst.Negative, Feature: "b", Value: 2}

	s1, _ := a.Apply(nil)
	s1, _ = b.Apply(s1)
	s2, _ := b.Apply(nil)
	s2, _ = a.Apply(s2)

	assert.Equal(t, s1.Key(), s2.Key())
	assert.Equal(t, "a=1;b!2;", s1.Key())
}
