package lexd_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lexd/lexd"
)

// buildErr compiles g and returns the error, which must be a *CompileError.
func buildErr(t *testing.T, g *grammar) *lexd.CompileError {
	t.Helper()
	_, err := g.c.Build()
	require.Error(t, err)
	var ce *lexd.CompileError
	require.True(t, errors.As(err, &ce), "want *CompileError, got %T: %v", err, err)
	return ce
}

// TestErrors covers each error class with its location.
func TestErrors(t *testing.T) {
	t.Run("unknown name", func(t *testing.T) {
		g := newGrammar(t)
		g.lex("A", "a")
		g.pat("", g.ref("A"), g.ref("Nope"))
		ce := buildErr(t, g)
		assert.ErrorIs(t, ce, lexd.ErrUnknownName)
		assert.Equal(t, 2, ce.Line)
		assert.Equal(t, "Nope", ce.Name)
		assert.Equal(t, lexd.ClassReference, lexd.Classify(ce))
	})

	t.Run("column out of range", func(t *testing.T) {
		g := newGrammar(t)
		g.lex("A", "a b")
		g.pat("", g.col("A", 3))
		ce := buildErr(t, g)
		assert.ErrorIs(t, ce, lexd.ErrColumnCount)
		assert.Equal(t, lexd.ClassShape, lexd.Classify(ce))
	})

	t.Run("tag conflict", func(t *testing.T) {
		g := newGrammar(t)
		g.lex("A", "a[m]")
		g.pat("", g.tagged(g.ref("A"), "m", "-m"))
		ce := buildErr(t, g)
		assert.ErrorIs(t, ce, lexd.ErrTagConflict)
		assert.Equal(t, 2, ce.Line)
	})

	t.Run("bound lexicon in repetition", func(t *testing.T) {
		g := newGrammar(t)
		g.lex("L", "a 1", "b 2")
		g.pat("", mode(g.col("L", 1), lexd.Plus), g.col("L", 2))
		ce := buildErr(t, g)
		assert.ErrorIs(t, ce, lexd.ErrBoundRepeat)
		assert.Equal(t, "L", ce.Name)
	})

	t.Run("no match", func(t *testing.T) {
		g := newGrammar(t)
		g.lex("A", "a[m]")
		g.pat("", g.tagged(g.ref("A"), "f"))
		ce := buildErr(t, g)
		assert.ErrorIs(t, ce, lexd.ErrNoMatch)
		assert.Equal(t, lexd.ClassEmptiness, lexd.Classify(ce))
		assert.Equal(t, 2, ce.Line)
	})

	t.Run("no match with flags", func(t *testing.T) {
		g := newGrammar(t, lexd.WithTagsAsFlags())
		g.lex("A", "a[m]")
		g.pat("P", g.ref("A"))
		g.pat("", g.tagged(g.ref("P"), "f"))
		assert.ErrorIs(t, buildErr(t, g), lexd.ErrNoMatch)

		// Each row carries one of the two tags, none carries both.
		g = newGrammar(t, lexd.WithTagsAsFlags())
		g.lex("A", "a[x]", "b[y]")
		g.pat("", g.tagged(g.ref("A"), "x", "y"))
		assert.ErrorIs(t, buildErr(t, g), lexd.ErrNoMatch)

		g = newGrammar(t, lexd.WithTagsAsFlags())
		g.lex("A", "a[x]", "b[y]")
		g.pat("P", g.ref("A"))
		g.pat("", g.tagged(g.ref("P"), "x", "y"))
		assert.ErrorIs(t, buildErr(t, g), lexd.ErrNoMatch)
	})

	t.Run("no match inside a filtered pattern", func(t *testing.T) {
		for _, opts := range [][]lexd.Option{nil, {lexd.WithTagsAsFlags()}} {
			for _, root := range [][]string{nil, {"x"}} {
				g := newGrammar(t, opts...)
				g.lex("A", "a[x]").lex("B", "b").lex("C", "c[x]")
				g.pat("P", g.tagged(g.ref("A"), "y"), g.ref("B"))
				g.pat("P", g.ref("C"))
				g.pat("", g.tagged(g.ref("P"), root...))
				ce := buildErr(t, g)
				assert.ErrorIs(t, ce, lexd.ErrNoMatch)
				assert.Equal(t, 4, ce.Line, "root tags %v", root)
				assert.Equal(t, "A[y]", ce.Name)
			}
		}
	})

	t.Run("bound lexicon repeated inside a pattern", func(t *testing.T) {
		g := newGrammar(t)
		g.lex("L", "a 1", "b 2")
		g.pat("Q", mode(g.col("L", 1), lexd.Plus))
		g.pat("", g.ref("Q"), g.col("L", 2))
		ce := buildErr(t, g)
		assert.ErrorIs(t, ce, lexd.ErrBoundRepeat)
		assert.Equal(t, "L", ce.Name)
		assert.Equal(t, 4, ce.Line)
	})

	t.Run("cycle", func(t *testing.T) {
		g := newGrammar(t)
		g.lex("A", "a")
		g.pat("P", g.ref("A"), g.ref("Q"))
		g.pat("Q", g.ref("P"))
		g.pat("", g.ref("P"))
		ce := buildErr(t, g)
		assert.ErrorIs(t, ce, lexd.ErrCycle)
		assert.Equal(t, "P -> Q -> P", ce.Name)
	})

	t.Run("malformed sieve", func(t *testing.T) {
		g := newGrammar(t)
		_, right := g.c.Sieves()
		g.lex("A", "a")
		g.pat("", lexd.Ref(right, 1), g.ref("A"))
		assert.ErrorIs(t, buildErr(t, g), lexd.ErrBadSieve)
	})

	t.Run("no top-level pattern", func(t *testing.T) {
		g := newGrammar(t)
		g.lex("A", "a")
		assert.ErrorIs(t, buildErr(t, g), lexd.ErrUnknownName)
	})
}

// TestPopulationErrors checks shape errors raised while filling a grammar.
func TestPopulationErrors(t *testing.T) {
	g := newGrammar(t)
	g.lex("A", "a b")
	a := g.c.Intern("A")

	err := g.c.AddEntry(a, 7, lexd.Entry{g.seg("x")})
	assert.ErrorIs(t, err, lexd.ErrColumnCount)
	var ce *lexd.CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 7, ce.Line)

	assert.ErrorIs(t, g.c.AddPattern(a, 8, nil), lexd.ErrRedefined)
	g.pat("P", g.ref("A"))
	assert.ErrorIs(t, g.c.AddEntry(g.c.Intern("P"), 9, lexd.Entry{g.seg("x")}), lexd.ErrRedefined)
	assert.ErrorIs(t, g.c.AddAlias(g.c.Intern("B"), g.c.Intern("Missing"), 10), lexd.ErrUnknownName)
}

// TestCompileError_Format covers the message layouts.
func TestCompileError_Format(t *testing.T) {
	assert.Equal(t, "line 3: A: lexd: undefined name",
		(&lexd.CompileError{Line: 3, Name: "A", Err: lexd.ErrUnknownName}).Error())
	assert.Equal(t, "line 3: lexd: undefined name",
		(&lexd.CompileError{Line: 3, Err: lexd.ErrUnknownName}).Error())
	assert.Equal(t, "A: lexd: undefined name",
		(&lexd.CompileError{Name: "A", Err: lexd.ErrUnknownName}).Error())
	assert.Equal(t, lexd.ClassNone, lexd.Classify(errors.New("other")))
	assert.Equal(t, lexd.ClassInternal, lexd.Classify(lexd.ErrInternal))
	assert.Equal(t, "shape", lexd.ClassShape.String())
}

// TestWithLogger_Panics checks option validation.
func TestWithLogger_Panics(t *testing.T) {
	assert.Panics(t, func() { lexd.WithLogger(nil) })
}
