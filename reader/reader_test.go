package reader_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lexd/fst"
	"github.com/katalvlaran/lexd/lexd"
	"github.com/katalvlaran/lexd/reader"
)

// compile reads src and returns the accepted pairs.
func compile(t *testing.T, src string, opts ...lexd.Option) []string {
	t.Helper()
	c := lexd.New(opts...)
	require.NoError(t, reader.ReadString(src, c))
	res, err := c.Build()
	require.NoError(t, err)
	ps, err := fst.Paths(res.Transducer, res.Alphabet, fst.WithMaxSymbols(12))
	require.NoError(t, err)
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.String()
	}
	return out
}

// TestRead_Grammar compiles a small grammar end to end.
func TestRead_Grammar(t *testing.T) {
	src := `
# nouns and verbs
PATTERNS
Nouns Number
Verbs(1) Verbs(2)

LEXICON Nouns
cat
mouse:mice[irr]

LEXICON Number
<sg>:
<pl>:s

LEXICON Verbs(2)
sing <past>:sang
`
	got := compile(t, src)
	assert.Equal(t, []string{
		"cat<pl>:cats",
		"cat<sg>:cat",
		"mouse<pl>:mices",
		"mouse<sg>:mice",
		"sing<past>:singsang",
	}, got)
}

// TestRead_PatternsAndFilters covers named patterns, tags, modifiers,
// anonymous patterns and lexicons, sides and sieves.
func TestRead_PatternsAndFilters(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "tag filter and modifier",
			src: `PATTERNS
A[x] B?
LEXICON A
a[x]
b
LEXICON B
c`,
			want: []string{"a:a", "ac:ac"},
		},
		{
			name: "negative tag on named pattern",
			src: `PATTERNS
P[-x]
PATTERN P
A
LEXICON A
a[x]
b`,
			want: []string{"b:b"},
		},
		{
			name: "anonymous pattern with alternation",
			src: `PATTERNS
(A | B) C
LEXICON A
a
LEXICON B
b
LEXICON C
c`,
			want: []string{"ac:ac", "bc:bc"},
		},
		{
			name: "top-level alternation",
			src: `PATTERNS
A | B
LEXICON A
a
LEXICON B
b`,
			want: []string{"a:a", "b:b"},
		},
		{
			name: "anonymous lexicon",
			src: `PATTERNS
A [x:y | z]
LEXICON A
a`,
			want: []string{"ax:ay", "az:az"},
		},
		{
			name: "sides",
			src: `PATTERNS
A: :A
LEXICON A
a:b`,
			want: []string{"a:b"},
		},
		{
			name: "sieve",
			src: `PATTERNS
A > B
LEXICON A
a
LEXICON B
b`,
			want: []string{"a:a", "ab:ab"},
		},
		{
			name: "lexicon tags and escapes",
			src: `PATTERNS
A[t]
LEXICON A[t]
\#{ab}\:`,
			want: []string{"#ab::#ab:"},
		},
		{
			name: "alias",
			src: `PATTERNS
A B
LEXICON A
a
b
ALIAS A B`,
			want: []string{"aa:aa", "ab:ab", "ba:ba", "bb:bb"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, compile(t, tc.src))
		})
	}
}

// TestRead_SyntaxErrors checks positions of malformed input.
func TestRead_SyntaxErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		line int
		col  int
	}{
		{"outside section", "a b", 1, 1},
		{"unterminated tags", "PATTERNS\nA[x", 2, 2},
		{"missing paren", "PATTERNS\n(A | B", 2, 7},
		{"double modifier", "PATTERNS\nA?*", 2, 3},
		{"empty alternative", "PATTERNS\nA | | B", 2, 5},
		{"bad column", "LEXICON A(x)", 1, 11},
		{"lone sieve", "PATTERNS\nA >B", 2, 4},
		{"second colon", "LEXICON A\na:b:c", 2, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := reader.ReadString(tc.src, lexd.New())
			var se *reader.SyntaxError
			require.True(t, errors.As(err, &se), "got %v", err)
			assert.Equal(t, tc.line, se.Pos.Line, se.Error())
			assert.Equal(t, tc.col, se.Pos.Column, se.Error())
		})
	}
}

// TestRead_CompileErrors passes population errors through unchanged.
func TestRead_CompileErrors(t *testing.T) {
	err := reader.ReadString("LEXICON A(2)\na b\nc", lexd.New())
	assert.ErrorIs(t, err, lexd.ErrColumnCount)
	var ce *lexd.CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 3, ce.Line)

	err = reader.ReadString("PATTERN A\nB\nLEXICON A\na", lexd.New())
	assert.ErrorIs(t, err, lexd.ErrRedefined)
}

// TestReadFile reads from disk.
func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.lexd")
	require.NoError(t, os.WriteFile(path, []byte("PATTERNS\nA\nLEXICON A\nx\n"), 0o644))
	c := lexd.New()
	require.NoError(t, reader.ReadFile(path, c))
	assert.True(t, c.IsLexicon(c.Intern("A")))

	assert.Error(t, reader.ReadFile(filepath.Join(t.TempDir(), "missing"), c))
}

// TestRead_AnonymousStatistics keeps the names the reader synthesizes out
// of the named counts.
func TestRead_AnonymousStatistics(t *testing.T) {
	src := "PATTERNS\n(A | B) [x|y] P\nPATTERN P\n(B)\nLEXICON A\na\nLEXICON B\nb\n"
	c := lexd.New()
	require.NoError(t, reader.ReadString(src, c))
	_, err := c.Build()
	require.NoError(t, err)

	st := c.Statistics()
	assert.Equal(t, 1, st.Patterns)
	assert.Equal(t, 2, st.AnonymousPatterns)
	assert.Equal(t, 2, st.Lexicons)
	assert.Equal(t, 1, st.AnonymousLexicons)
	assert.Equal(t, 4, st.Entries)
	// B is reached twice from the root body.
	assert.Equal(t, 1, st.CorrelationGroups)
}
