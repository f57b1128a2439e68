// File: lexicon.go
// Role: Lexicon references: per-entry fragments and their filtered union.
//
// Entry fragment layout (a single linear path):
//
//	[@U.<lex>.<row>@]  [@C.+<tag>@ ...]  l1:r1 l2:r2 ...
//
// The row flag appears only when the reference belongs to a correlation
// group; tag clears only in tags-as-flags mode, and only for tracked tags.
package lexd

import (
	"fmt"

	"github.com/katalvlaran/lexd/fst"
)

// Costs for alignment. A mismatched substitution is priced above
// delete+insert unless compression is on.
const (
	costMatch    = 0
	costIndel    = 1
	costSubCheap = 1
	costSubDear  = 100
)

// pairSymbols pairs the two sides of a segment.
// Without alignment the pairing is positional, padding the shorter side
// with epsilon.
func (c *Compiler) pairSymbols(left, right []fst.Symbol) []fst.Pair {
	if c.cfg.align {
		return alignSymbols(left, right, c.cfg.compress)
	}
	n := len(left)
	if len(right) > n {
		n = len(right)
	}
	out := make([]fst.Pair, n)
	for i := range out {
		if i < len(left) {
			out[i].In = left[i]
		}
		if i < len(right) {
			out[i].Out = right[i]
		}
	}
	return out
}

// alignSymbols computes a minimum-cost edit alignment of left onto right.
// Ties break towards substitution, then deletion before insertion in
// reading order, so "ab:xy" with no matches yields a:0 b:0 0:x 0:y unless
// compress makes substitution cheap.
func alignSymbols(left, right []fst.Symbol, compress bool) []fst.Pair {
	sub := costSubDear
	if compress {
		sub = costSubCheap
	}
	n, m := len(left), len(right)

	// 1) Fill the cost table.
	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, m+1)
		dp[i][0] = i * costIndel
	}
	for j := 0; j <= m; j++ {
		dp[0][j] = j * costIndel
	}
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			diag := sub
			if left[i-1] == right[j-1] {
				diag = costMatch
			}
			best := dp[i-1][j-1] + diag
			if v := dp[i-1][j] + costIndel; v < best {
				best = v
			}
			if v := dp[i][j-1] + costIndel; v < best {
				best = v
			}
			dp[i][j] = best
		}
	}

	// 2) Walk back from the corner. Going backwards, insertion is preferred
	//    over deletion so that deletions come first in reading order.
	var rev []fst.Pair
	i, j := n, m
	for i > 0 || j > 0 {
		if i > 0 && j > 0 {
			diag := sub
			if left[i-1] == right[j-1] {
				diag = costMatch
			}
			if dp[i][j] == dp[i-1][j-1]+diag {
				rev = append(rev, fst.Pair{In: left[i-1], Out: right[j-1]})
				i, j = i-1, j-1
				continue
			}
		}
		if j > 0 && dp[i][j] == dp[i][j-1]+costIndel {
			rev = append(rev, fst.Pair{Out: right[j-1]})
			j--
			continue
		}
		rev = append(rev, fst.Pair{In: left[i-1]})
		i--
	}

	// 3) Reverse into reading order.
	for a, b := 0, len(rev)-1; a < b; a, b = a+1, b-1 {
		rev[a], rev[b] = rev[b], rev[a]
	}
	return rev
}

// insertSegment appends the labels of seg (projected to the requested
// sides) after from and returns the last state.
func (c *Compiler) insertSegment(t *fst.Transducer, from fst.State, seg Segment, left, right bool) (fst.State, error) {
	var l, r []fst.Symbol
	if left {
		l = seg.Left
	}
	if right {
		r = seg.Right
	}
	cur := from
	for _, p := range c.pairSymbols(l, r) {
		var err error
		if cur, err = t.InsertSingle(cur, c.alpha.Label(p.In, p.Out)); err != nil {
			return 0, err
		}
	}
	return cur, nil
}

// entryFragment returns the memoized fragment for one row of a lexicon
// reference in group g (-1 when free). Tag filters do not enter the key:
// they only decide which rows take part.
func (c *Compiler) entryFragment(tok Token, left, right bool, row, g int) (*fst.Transducer, error) {
	key := fmt.Sprintf("%d.%d|%t%t|%d|%d", tok.Name, tok.Column, left, right, row, g)
	if t, ok := c.entryFrags[key]; ok {
		return t, nil
	}
	entries := c.lexicons[tok.Name]
	if row < 0 || row >= len(entries) || tok.Column < 1 || tok.Column > len(entries[row]) {
		return nil, fmt.Errorf("entryFragment(%s, row %d): %w", c.names.Resolve(tok.Name), row, ErrInternal)
	}
	seg := entries[row][tok.Column-1]

	// 1) Row flag for correlated references.
	t := fst.New()
	cur := t.Initial()
	var err error
	if g >= 0 {
		if cur, err = c.insertFlag(t, cur, c.rowFlag(fst.Unification, g, row+1)); err != nil {
			return nil, err
		}
	}

	// 2) Satisfy pending tag requirements.
	if c.cfg.tagsAsFlags {
		if cur, err = c.insertTagClears(t, cur, seg.Tags); err != nil {
			return nil, err
		}
	}

	// 3) The symbols themselves.
	if cur, err = c.insertSegment(t, cur, seg, left, right); err != nil {
		return nil, err
	}
	if err = t.SetFinal(cur); err != nil {
		return nil, err
	}
	c.entryFrags[key] = t
	c.stats.EntryFragments++

	return t, nil
}

// selects reports whether seg passes e's filters in the current mode.
// Exclusions always filter statically; requirements do too unless they
// are enforced by flags.
func (c *Compiler) selects(e PatternElement, seg Segment) bool {
	if !seg.Tags.Disjoint(e.NegTags) {
		return false
	}
	return c.cfg.tagsAsFlags || e.Tags.SubsetOf(seg.Tags)
}

// buildLexicon builds a lexicon reference with a single token (both sides
// of the same column, or one side only). Mode is not applied here.
//
// The reference matches nothing unless some selected row carries every
// required tag by itself: under flags a path crosses exactly one row, so
// requirements spread over different rows can never be met together.
func (c *Compiler) buildLexicon(e PatternElement, env bindings) (*fst.Transducer, error) {
	key := e.WithMode(Normal).Key() + env.key()
	if t, ok := c.lexiconFrags[key]; ok {
		return t, nil
	}
	tok := e.sides()[0]
	left, right := !e.Left.Empty(), !e.Right.Empty()
	name := c.names.Resolve(tok.Name)
	g := -1
	if b, ok := env.find(tok.Name); ok {
		g = b.group
	}

	// 1) Union of selected rows.
	var rows []*fst.Transducer
	carried := len(e.Tags) == 0
	for i, entry := range c.lexicons[tok.Name] {
		if tok.Column < 1 || tok.Column > len(entry) {
			return nil, errAt(0, name, fmt.Errorf("column %d: %w", tok.Column, ErrColumnCount))
		}
		seg := entry[tok.Column-1]
		if !c.selects(e, seg) {
			continue
		}
		carried = carried || e.Tags.SubsetOf(seg.Tags)
		frag, err := c.entryFragment(tok, left, right, i, g)
		if err != nil {
			return nil, err
		}
		rows = append(rows, frag)
	}
	if len(rows) == 0 || !carried {
		return nil, errAt(0, c.describe(e), ErrNoMatch)
	}
	u, err := fst.Union(rows...)
	if err != nil {
		return nil, err
	}

	// 2) Requirements as flags.
	if c.cfg.tagsAsFlags {
		if u, err = c.wrapTags(u, e.Tags); err != nil {
			return nil, err
		}
	}
	c.lexiconFrags[key] = u
	c.stats.LexiconFragments++
	c.log.Debug("built lexicon reference", "element", c.describe(e), "rows", len(rows), "states", u.NumStates())

	return u, nil
}

// BuildSingleLexicon compiles one lexicon on its own, without flags or
// filters. Column 0 concatenates all columns of each row.
func (c *Compiler) BuildSingleLexicon(name string, column int) (*fst.Transducer, error) {
	h, ok := c.names.Has(name)
	if !ok || !c.IsLexicon(h) {
		return nil, errAt(0, name, ErrUnknownName)
	}
	cols := c.lexiconColumns[h]
	if column < 0 || column > cols {
		return nil, errAt(0, name, fmt.Errorf("column %d of %d: %w", column, cols, ErrColumnCount))
	}

	rows := make([]*fst.Transducer, 0, len(c.lexicons[h]))
	for _, entry := range c.lexicons[h] {
		t := fst.New()
		cur := t.Initial()
		for i, seg := range entry {
			if column != 0 && i != column-1 {
				continue
			}
			var err error
			if cur, err = c.insertSegment(t, cur, seg, true, true); err != nil {
				return nil, err
			}
		}
		if err := t.SetFinal(cur); err != nil {
			return nil, err
		}
		rows = append(rows, t)
	}
	if len(rows) == 0 {
		return nil, errAt(c.lexiconLine[h], name, ErrNoMatch)
	}
	u, err := fst.Union(rows...)
	if err != nil {
		return nil, err
	}
	return u.Minimize(), nil
}
