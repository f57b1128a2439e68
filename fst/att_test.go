package fst_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lexd/fst"
)

// TestWriteATT checks the text layout, epsilon spelling and renumbering.
func TestWriteATT(t *testing.T) {
	a := fst.NewAlphabet()
	tr := word(t, a, "ab", "x")

	got, err := fst.FormatATT(tr, a)
	require.NoError(t, err)
	assert.Equal(t, "0\t1\ta\tx\n1\t2\tb\t@0@\n2\n", got)

	sp := fst.New()
	s, _ := sp.InsertSingle(sp.Initial(), a.Label(a.Symbol(" "), a.Symbol("\t")))
	_ = sp.SetFinal(s)
	got, err = fst.FormatATT(sp, a)
	require.NoError(t, err)
	assert.Equal(t, "0\t1\t@_SPACE_@\t@_TAB_@\n1\n", got)

	assert.ErrorIs(t, fst.WriteATT(nil, nil, a), fst.ErrNilTransducer)
	assert.ErrorIs(t, fst.WriteATT(nil, tr, nil), fst.ErrNilAlphabet)
}

// TestAlphabet checks interning, labels and flag registration.
func TestAlphabet(t *testing.T) {
	a := fst.NewAlphabet()
	assert.Equal(t, fst.Epsilon, a.Symbol(""))
	x := a.Symbol("x")
	assert.Equal(t, x, a.Symbol("x"))
	assert.Equal(t, "x", a.Name(x))

	l := a.Label(x, fst.Epsilon)
	assert.Equal(t, l, a.Label(x, fst.Epsilon))
	p, err := a.Pair(l)
	require.NoError(t, err)
	assert.Equal(t, fst.Pair{In: x, Out: fst.Epsilon}, p)
	assert.Equal(t, "x:0", a.LabelString(l))
	assert.Equal(t, "x", a.LabelString(a.Label(x, x)))
	_, err = a.Pair(fst.Label(999))
	assert.ErrorIs(t, err, fst.ErrLabelNotFound)

	f := fst.Flag{Kind: fst.Unification, Feature: "L", Value: 2}
	fs := a.FlagSymbol(f)
	assert.Equal(t, fs, a.Symbol("@U.L.2@"), "equal flags intern once")
	got, ok := a.Flag(fs)
	assert.True(t, ok)
	assert.Equal(t, f, got)
	assert.True(t, a.IsFlag(a.Symbol("@C.other@")), "flag spellings are recognised on plain interning")
	assert.False(t, a.IsFlag(x))
	assert.Equal(t, 2, a.NumFlags())
}
