package intern_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lexd/intern"
)

// TestTable_InternResolve checks idempotent allocation and inversion.
func TestTable_InternResolve(t *testing.T) {
	tab := intern.New()

	a := tab.Intern("Noun")
	b := tab.Intern("Verb")
	assert.Equal(t, intern.Handle(1), a)
	assert.Equal(t, intern.Handle(2), b)
	assert.Equal(t, a, tab.Intern("Noun"), "second Intern must reuse the handle")
	assert.Equal(t, "Noun", tab.Resolve(a))
	assert.Equal(t, "Verb", tab.Resolve(b))
	assert.Equal(t, 2, tab.Len())

	h, ok := tab.Has("Verb")
	assert.True(t, ok)
	assert.Equal(t, b, h)
	_, ok = tab.Has("Adj")
	assert.False(t, ok)
}

// TestTable_EmptyHandle checks the reserved zero handle.
func TestTable_EmptyHandle(t *testing.T) {
	tab := intern.New()
	assert.False(t, intern.Empty.Valid())
	assert.Equal(t, "", tab.Resolve(intern.Empty))

	_, err := tab.Lookup(intern.Empty)
	require.ErrorIs(t, err, intern.ErrUnknownHandle)
	_, err = tab.Lookup(intern.Handle(42))
	require.ErrorIs(t, err, intern.ErrUnknownHandle)

	x := tab.Intern("x")
	assert.Equal(t, x, intern.Empty.Or(x))
	assert.Equal(t, x, x.Or(intern.Empty))
}

// TestTable_Anonymous checks that synthesized names are unique and resolvable.
func TestTable_Anonymous(t *testing.T) {
	tab := intern.New()
	first := tab.Anonymous("pattern")
	second := tab.Anonymous("pattern")

	assert.NotEqual(t, first, second)
	assert.Contains(t, tab.Resolve(first), " ")
	assert.NotEqual(t, tab.Resolve(first), tab.Resolve(second))

	// A user name equal to a future synthesized one is skipped over.
	tab.Intern("lexicon 3")
	third := tab.Anonymous("lexicon")
	assert.NotEqual(t, "lexicon 3", tab.Resolve(third))

	assert.True(t, tab.IsAnonymous(first))
	assert.True(t, tab.IsAnonymous(third))
	assert.False(t, tab.IsAnonymous(tab.Intern("lexicon 3")))
	assert.False(t, tab.IsAnonymous(intern.Empty))
}
