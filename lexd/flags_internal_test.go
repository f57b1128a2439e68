package lexd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/katalvlaran/lexd/fst"
)

// TestEncodeFlag checks the bijective base-26 codes.
func TestEncodeFlag(t *testing.T) {
	for n, want := range map[uint32]string{1: "A", 26: "Z", 27: "AA", 52: "AZ", 53: "BA", 703: "AAA"} {
		assert.Equal(t, want, encodeFlag(n), "n=%d", n)
	}
	assert.Equal(t, "", encodeFlag(0))
}

// TestAlignSymbols checks tie-breaking of the edit alignment.
func TestAlignSymbols(t *testing.T) {
	a, b, x := fst.Symbol(1), fst.Symbol(2), fst.Symbol(3)
	p := func(in, out fst.Symbol) fst.Pair { return fst.Pair{In: in, Out: out} }

	assert.Equal(t, []fst.Pair{p(a, 0), p(b, b)}, alignSymbols([]fst.Symbol{a, b}, []fst.Symbol{b}, false))
	assert.Equal(t, []fst.Pair{p(a, 0), p(b, 0), p(0, x)}, alignSymbols([]fst.Symbol{a, b}, []fst.Symbol{x}, false))
	assert.Equal(t, []fst.Pair{p(a, 0), p(b, x)}, alignSymbols([]fst.Symbol{a, b}, []fst.Symbol{x}, true))
	assert.Empty(t, alignSymbols(nil, nil, false))
}

// TestFeatureEscaping keeps dots and spaces out of flag features.
func TestFeatureEscaping(t *testing.T) {
	c := New()
	h := c.Intern("a.b c")
	assert.Equal(t, "a_b#c", c.feature(spaceLexicon, h))
	assert.Equal(t, "+a_b#c", c.feature(spaceTag, h))

	m := New(WithMinFlags())
	h = m.Intern("x")
	assert.Equal(t, "^"+encodeFlag(uint32(h)), m.feature(spaceCall, h))
}
