// File: pattern.go
// Role: Pattern-element building: memoization, cycle guard, side
// projection, tag push-down, sieve expansion and repeat modes.
//
// Algorithm (buildElement):
//  1. cache hit → return
//  2. key in progress → ErrCycle
//  3. non-Normal mode → build the Normal element, copy once, apply the mode
//  4. asymmetric A:B → concat(A:, :B)
//  5. lexicon → buildLexicon; pattern → buildPattern
//
// Every element is built under the bindings of the lexicons it reaches, so
// the cache key is the element key plus those bindings.
//
// Static tags (default):
//   - exclusions are pushed into every child: a body element inherits the
//     parent's NegTags, down to the lexicon rows
//   - each required tag must be carried by exactly one chosen position; the
//     pattern becomes a union over the possible placements
//
// A variant is dropped only when a child fails because of filters the
// parent added; a child that matches nothing as written fails the build.
package lexd

import (
	"errors"
	"strings"

	"github.com/katalvlaran/lexd/fst"
	"github.com/katalvlaran/lexd/intern"
)

// buildElement returns the finished fragment for e. The result is cached
// and shared; callers must copy it (Insert) and never mutate it.
func (c *Compiler) buildElement(e PatternElement, env bindings, line int) (*fst.Transducer, error) {
	// 1) Memo.
	key := e.Key() + env.key()
	if t, ok := c.patternFrags[key]; ok {
		return t, nil
	}
	if c.inProgress[key] {
		return nil, errAt(line, c.describe(e), ErrCycle)
	}
	c.inProgress[key] = true
	defer delete(c.inProgress, key)

	// 2) Build. Entry clears sit inside the Normal fragment, so a repeated
	// element passes them on every iteration.
	var (
		frag *fst.Transducer
		err  error
	)
	if e.Mode != Normal {
		var base *fst.Transducer
		if base, err = c.buildElement(e.WithMode(Normal), env, line); err != nil {
			return nil, err
		}
		frag, err = c.applyMode(base, e)
	} else if frag, err = c.buildBase(e, env, line); err == nil {
		frag, err = c.prefixClears(frag, env.fresh())
	}
	if err != nil {
		return nil, errAt(line, c.describe(e), err)
	}

	c.patternFrags[key] = frag
	return frag, nil
}

// applyMode copies base once and applies e.Mode.
func (c *Compiler) applyMode(base *fst.Transducer, e PatternElement) (*fst.Transducer, error) {
	t := fst.New()
	cur, err := t.Insert(t.Initial(), base)
	if err != nil {
		return nil, err
	}
	if err = t.SetFinal(cur); err != nil {
		return nil, err
	}
	t.ApplyRepeat(e.Mode.MayBeAbsent(), e.Mode.MayRepeat())

	return t, nil
}

// buildBase builds a Normal-mode element.
func (c *Compiler) buildBase(e PatternElement, env bindings, line int) (*fst.Transducer, error) {
	if both := e.Tags.Intersect(e.NegTags); len(both) > 0 {
		return nil, ErrTagConflict
	}
	sides := e.sides()
	switch len(sides) {
	case 0:
		return fst.EpsilonAcceptor(), nil
	case 2:
		l := PatternElement{Left: e.Left, Tags: e.Tags, NegTags: e.NegTags}
		r := PatternElement{Right: e.Right, Tags: e.Tags, NegTags: e.NegTags}
		fl, err := c.buildElement(l, env.restrict(c.reached(l)).settled(), line)
		if err != nil {
			return nil, err
		}
		fr, err := c.buildElement(r, env.restrict(c.reached(r)).settled(), line)
		if err != nil {
			return nil, err
		}
		return fst.Concat(fl, fr)
	}

	switch name := sides[0].Name; {
	case c.IsLexicon(name):
		return c.buildLexicon(e, env)
	case c.IsPattern(name):
		return c.buildPattern(e, env, line)
	}
	return nil, ErrUnknownName
}

// part is one child of a variant. origin is the child as written in the
// body, before the parent's exclusions and placed tags were added.
type part struct {
	elem   PatternElement
	origin PatternElement
}

// variant is one concrete sequence of children for a pattern element.
type variant struct {
	body  int
	line  int
	parts []part
}

// buildPattern unions every surviving variant of e's bodies.
func (c *Compiler) buildPattern(e PatternElement, env bindings, line int) (*fst.Transducer, error) {
	variants, err := c.patternVariants(e)
	if err != nil {
		return nil, err
	}
	name := e.Name()

	// 1) One concatenation per variant, opened by the row clears of the
	// groups its body owns when the pattern has several instances.
	frags := make([]*fst.Transducer, 0, len(variants))
	for _, v := range variants {
		ref := bodyRef{pattern: name, index: v.body}
		t := fst.New()
		cur := t.Initial()
		if c.multi[name] {
			if cur, err = c.insertRowClears(t, cur, c.entryClears(ref)); err != nil {
				return nil, err
			}
		}
		ok := true
		for _, p := range v.parts {
			f, err := c.buildElement(p.elem, c.bind(p.elem, ref, env), v.line)
			if err != nil {
				skip, err := c.skippable(err, p, ref, env, v.line)
				if err != nil {
					return nil, err
				}
				if skip {
					ok = false
					break
				}
			}
			if cur, err = t.Insert(cur, f); err != nil {
				return nil, err
			}
		}
		if !ok {
			continue
		}
		if err = t.SetFinal(cur); err != nil {
			return nil, err
		}
		frags = append(frags, t)
	}
	if len(frags) == 0 {
		return nil, errAt(line, c.describe(e), ErrNoMatch)
	}

	// 2) Union, then requirements as flags.
	u, err := fst.Union(frags...)
	if err != nil {
		return nil, err
	}
	if c.cfg.tagsAsFlags && len(e.Tags) > 0 {
		if u, err = c.wrapTags(u, e.Tags); err != nil {
			return nil, err
		}
		live, err := c.satisfiable(u)
		if err != nil {
			return nil, err
		}
		if !live {
			return nil, errAt(line, c.describe(e), ErrNoMatch)
		}
	}
	c.stats.PatternFragments++
	c.log.Debug("built pattern reference", "element", c.describe(e), "variants", len(frags), "states", u.NumStates())

	return u, nil
}

// skippable decides a failed child of a variant. The variant is dropped
// when the child matches nothing only under the parent's filters; any other
// failure, including a child that is empty as written, is returned.
func (c *Compiler) skippable(err error, p part, ref bodyRef, env bindings, line int) (bool, error) {
	if !errors.Is(err, ErrNoMatch) || sameFilters(p.elem, p.origin) {
		return false, errAt(line, c.describe(p.elem), err)
	}
	own := p.origin.WithMode(Normal)
	if _, oerr := c.buildElement(own, c.bind(own, ref, env), line); oerr != nil {
		return false, errAt(line, c.describe(own), oerr)
	}
	return true, nil
}

// sameFilters reports whether a and b carry the same tag filters.
func sameFilters(a, b PatternElement) bool {
	return a.Tags.Compare(b.Tags) == 0 && a.NegTags.Compare(b.NegTags) == 0
}

// patternVariants lists the child sequences e stands for: every body,
// projected and filtered by e, expanded over sieves and (static mode)
// over tag placements.
func (c *Compiler) patternVariants(e PatternElement) ([]variant, error) {
	var out []variant
	for k, body := range c.patterns[e.Name()] {
		// 1) Project sides and push exclusions down.
		parts := make([]part, 0, len(body.Elements))
		possible := true
		for _, child := range body.Elements {
			p, ok := c.childOf(e, child)
			if !ok {
				possible = false
				break
			}
			parts = append(parts, p)
		}
		if !possible {
			continue
		}

		// 2) Sieves.
		spans, err := c.expandSieve(body.Elements)
		if err != nil {
			return nil, errAt(body.Line, "", err)
		}

		// 3) Tag placements.
		for _, span := range spans {
			seq := make([]part, len(span))
			for i, j := range span {
				seq[i] = parts[j]
			}
			if c.cfg.tagsAsFlags || len(e.Tags) == 0 {
				out = append(out, variant{body: k, line: body.Line, parts: seq})
				continue
			}
			for _, placed := range c.placeTags(seq, e.Tags) {
				out = append(out, variant{body: k, line: body.Line, parts: placed})
			}
		}
	}
	return out, nil
}

// childOf derives the element a body child stands for under parent.
// It reports false when an inherited exclusion contradicts a requirement
// of the child, which makes the whole body impossible.
func (c *Compiler) childOf(parent, child PatternElement) (part, bool) {
	if c.reserved(child.Name()) {
		return part{elem: child, origin: child}, true
	}
	switch {
	case parent.Symmetric():
	case parent.Right.Empty():
		child.Right = Token{}
	case parent.Left.Empty():
		child.Left = Token{}
	}
	if len(child.sides()) == 0 {
		return part{}, true
	}
	p := part{elem: child, origin: child}
	p.elem.NegTags = child.NegTags.Union(parent.NegTags)
	return p, p.elem.Tags.Disjoint(p.elem.NegTags)
}

// placeTags returns every way to hand each tag in tags to one position of
// seq. Duplicate placements are dropped.
func (c *Compiler) placeTags(seq []part, tags TagSet) [][]part {
	if len(tags) == 0 {
		return [][]part{seq}
	}
	x, rest := tags[0], tags[1:]

	var out [][]part
	seen := make(map[string]bool)
	for i, p := range seq {
		if c.reserved(p.elem.Name()) || p.elem.NegTags.Has(x) {
			continue
		}
		repl := withTag(p, x)
		next := make([]part, 0, len(seq)+len(repl)-1)
		next = append(next, seq[:i]...)
		next = append(next, repl...)
		next = append(next, seq[i+1:]...)
		for _, v := range c.placeTags(next, rest) {
			if k := seqKey(v); !seen[k] {
				seen[k] = true
				out = append(out, v)
			}
		}
	}
	return out
}

// withTag requires x of one occurrence of p.
//
//	A  → A[x]     A? → A[x]     A+, A* → A* A[x] A*
//
// The copies of a repeated child stay independent: whatever row choice the
// child owns is cleared on entry to each copy.
func withTag(p part, x intern.Handle) []part {
	tagged := p
	tagged.elem.Tags = p.elem.Tags.Add(x)
	tagged.elem = tagged.elem.WithMode(Normal)
	if !p.elem.Mode.MayRepeat() {
		return []part{tagged}
	}
	star := p
	star.elem = p.elem.WithMode(Star)
	return []part{star, tagged, star}
}

// seqKey is a canonical key for a part sequence.
func seqKey(seq []part) string {
	keys := make([]string, len(seq))
	for i, p := range seq {
		keys[i] = p.elem.Key()
	}
	return strings.Join(keys, " ")
}

// expandSieve turns "<" and ">" markers into alternatives, each given as
// the indices of the elements it keeps:
//
//	A > B > C  →  A | A B | A B C
//	A < B < C  →  C | B C | A B C
//
// All "<" must precede all ">", and no segment between markers may be empty.
func (c *Compiler) expandSieve(elems []PatternElement) ([][]int, error) {
	// 1) Split into segments.
	var (
		segs    [][]int
		markers []bool // true for ">"
		cur     []int
	)
	for i, e := range elems {
		switch e.Name() {
		case c.leftSieve, c.rightSieve:
			if len(cur) == 0 {
				return nil, ErrBadSieve
			}
			segs = append(segs, cur)
			markers = append(markers, e.Name() == c.rightSieve)
			cur = nil
		default:
			cur = append(cur, i)
		}
	}
	if len(markers) == 0 {
		return [][]int{cur}, nil
	}
	if len(cur) == 0 {
		return nil, ErrBadSieve
	}
	segs = append(segs, cur)

	// 2) Shape: <* then >*.
	core := 0
	for core < len(markers) && !markers[core] {
		core++
	}
	for _, right := range markers[core:] {
		if !right {
			return nil, ErrBadSieve
		}
	}

	// 3) Every (left start, right end) pair around the core.
	var out [][]int
	for s := core; s >= 0; s-- {
		for t := core; t < len(segs); t++ {
			var span []int
			for _, seg := range segs[s : t+1] {
				span = append(span, seg...)
			}
			out = append(out, span)
		}
	}
	return out, nil
}
