package lexd_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lexd/fst"
	"github.com/katalvlaran/lexd/lexd"
)

// grammar is a small builder over the Compiler population API.
type grammar struct {
	t    *testing.T
	c    *lexd.Compiler
	line int
}

func newGrammar(t *testing.T, opts ...lexd.Option) *grammar {
	t.Helper()
	return &grammar{t: t, c: lexd.New(opts...)}
}

func (g *grammar) next() int {
	g.line++
	return g.line
}

// seg parses "left:right[tag,tag]"; without ':' both sides are equal.
func (g *grammar) seg(s string) lexd.Segment {
	var seg lexd.Segment
	if i := strings.IndexByte(s, '['); i >= 0 {
		seg.Tags = g.c.Tags(strings.Split(strings.TrimSuffix(s[i+1:], "]"), ",")...)
		s = s[:i]
	}
	left, right, found := strings.Cut(s, ":")
	if !found {
		right = left
	}
	seg.Left = g.c.SymbolsOf(left)
	seg.Right = g.c.SymbolsOf(right)
	return seg
}

// lex adds one row per argument; columns are separated by spaces.
func (g *grammar) lex(name string, rows ...string) *grammar {
	g.t.Helper()
	h := g.c.Intern(name)
	for _, row := range rows {
		var e lexd.Entry
		for _, cell := range strings.Fields(row) {
			e = append(e, g.seg(cell))
		}
		require.NoError(g.t, g.c.AddEntry(h, g.next(), e))
	}
	return g
}

// pat adds one body to name ("" is the top-level pattern).
func (g *grammar) pat(name string, elems ...lexd.PatternElement) *grammar {
	g.t.Helper()
	if name == "" {
		name = lexd.RootName
	}
	require.NoError(g.t, g.c.AddPattern(g.c.Intern(name), g.next(), elems))
	return g
}

// ref is a plain reference to column 1 of name.
func (g *grammar) ref(name string) lexd.PatternElement {
	return lexd.Ref(g.c.Intern(name), 1)
}

// col is a plain reference to one column of name.
func (g *grammar) col(name string, n int) lexd.PatternElement {
	return lexd.Ref(g.c.Intern(name), n)
}

// tagged adds required and excluded ("-t") tags to e.
func (g *grammar) tagged(e lexd.PatternElement, tags ...string) lexd.PatternElement {
	for _, t := range tags {
		if strings.HasPrefix(t, "-") {
			e.NegTags = e.NegTags.Union(g.c.Tags(t[1:]))
		} else {
			e.Tags = e.Tags.Union(g.c.Tags(t))
		}
	}
	return e
}

func mode(e lexd.PatternElement, m lexd.RepeatMode) lexd.PatternElement { return e.WithMode(m) }

// leftOnly and rightOnly restrict a reference to one side.
func leftOnly(e lexd.PatternElement) lexd.PatternElement {
	e.Right = lexd.Token{}
	return e
}

func rightOnly(e lexd.PatternElement) lexd.PatternElement {
	e.Left = lexd.Token{}
	return e
}

// build compiles and returns the accepted pairs as "in:out" strings.
func (g *grammar) build(opts ...fst.PathOption) []string {
	g.t.Helper()
	res, err := g.c.Build()
	require.NoError(g.t, err)
	return pathStrings(g.t, res.Transducer, res.Alphabet, opts...)
}

func pathStrings(t *testing.T, tr *fst.Transducer, a *fst.Alphabet, opts ...fst.PathOption) []string {
	t.Helper()
	ps, err := fst.Paths(tr, a, opts...)
	require.NoError(t, err)
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.String()
	}
	return out
}
