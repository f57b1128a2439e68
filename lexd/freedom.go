// File: freedom.go
// Role: Grammar-wide analyses computed once per grammar:
//   - row-correlation groups (which body owns the row choice of a lexicon)
//   - instance counts (may a pattern be entered twice on one path?)
//   - tracked tags (tags used as positive filters, flag mode)
//
// Groups. Each side of a body element that names a lexicon, or names a
// pattern leaving that lexicon open, is one occurrence. Per body and lexicon:
//   - a single occurrence leaves the lexicon open to the body's referrers
//   - several occurrences from one element (L(1):L(2)) form a group owned
//     by that element; a repeated element picks a fresh row per iteration
//   - occurrences from several elements form a group owned by the body;
//     every instance of the body picks one row for all of them
//
// A lexicon open all the way up to a root is free and needs no flags. Two
// references to a pattern that owns a group are two instances, each with
// its own row. Groups of one lexicon owned by different bodies are spelled
// with distinct features, so a nested group never disturbs an outer one.
package lexd

import (
	"sort"
	"strconv"
	"strings"

	"github.com/katalvlaran/lexd/intern"
)

// bodyRef names one body of a pattern.
type bodyRef struct {
	pattern intern.Handle
	index   int
}

// group is one row-correlation scope.
type group struct {
	lexicon intern.Handle
	owner   bodyRef
	// scope tells apart groups of the same lexicon; 0 when there is one.
	scope int
	// fresh: the owning element repeats and clears the row on entry.
	fresh bool
}

// occurrence is one side of a body element that reaches a lexicon.
type occurrence struct {
	elem int
	// nested: reached through a repetition inside a referenced pattern.
	nested bool
}

// binding ties a lexicon reached by an element to its group.
type binding struct {
	lexicon intern.Handle
	group   int
	fresh   bool
}

// bindings is sorted by lexicon.
type bindings []binding

// find returns the binding of lex.
func (bs bindings) find(lex intern.Handle) (binding, bool) {
	i := sort.Search(len(bs), func(i int) bool { return bs[i].lexicon >= lex })
	if i < len(bs) && bs[i].lexicon == lex {
		return bs[i], true
	}
	return binding{}, false
}

// restrict keeps the bindings of lexicons in lex.
func (bs bindings) restrict(lex TagSet) bindings {
	var out bindings
	for _, b := range bs {
		if lex.Has(b.lexicon) {
			out = append(out, b)
		}
	}
	return out
}

// settled drops the entry clears: the groups stay, the row carries over.
func (bs bindings) settled() bindings {
	out := make(bindings, len(bs))
	for i, b := range bs {
		b.fresh = false
		out[i] = b
	}
	return out
}

// fresh lists the groups cleared on entry.
func (bs bindings) fresh() []int {
	var out []int
	for _, b := range bs {
		if b.fresh {
			out = append(out, b.group)
		}
	}
	return out
}

// key extends a fragment key; free elements add nothing.
func (bs bindings) key() string {
	if len(bs) == 0 {
		return ""
	}
	var b strings.Builder
	for _, x := range bs {
		b.WriteByte('|')
		b.WriteString(strconv.Itoa(x.group))
		if x.fresh {
			b.WriteByte('!')
		}
	}
	return b.String()
}

// analyse fills the group, instance and tracked-tag tables.
func (c *Compiler) analyse() {
	if c.analysed {
		return
	}
	c.groups = nil
	c.owned = make(map[bodyRef]map[intern.Handle]int)
	c.open = make(map[intern.Handle]map[intern.Handle]bool)
	owners := make(map[intern.Handle]int)
	var tracked []intern.Handle

	// 1) Groups, body by body.
	for _, name := range c.sortedPatterns() {
		for k, body := range c.patterns[name] {
			for _, e := range body.Elements {
				tracked = append(tracked, e.Tags...)
			}
			occs := c.occurrences(body)
			for _, lex := range sortedKeys(occs) {
				list := occs[lex]
				if len(list) < 2 {
					continue
				}
				ref := bodyRef{pattern: name, index: k}
				g := group{lexicon: lex, owner: ref}
				if oneElement(list) {
					g.fresh = body.Elements[list[0].elem].Mode.MayRepeat()
				}
				owners[lex]++
				g.scope = owners[lex]
				if c.owned[ref] == nil {
					c.owned[ref] = make(map[intern.Handle]int)
				}
				c.owned[ref][lex] = len(c.groups)
				c.groups = append(c.groups, g)
			}
		}
	}
	for i, g := range c.groups {
		if owners[g.lexicon] == 1 {
			c.groups[i].scope = 0
		}
	}

	// 2) Instances and tracked tags.
	c.multi = c.instances()
	c.trackedTags = NewTagSet(tracked...)
	c.analysed = true
	c.log.Debug("analysed grammar", "lexicons", len(c.lexiconColumns), "groups", len(c.groups), "tracked_tags", len(c.trackedTags))
}

// occurrences collects, per lexicon, the occurrences in body.
func (c *Compiler) occurrences(body Pattern) map[intern.Handle][]occurrence {
	occs := make(map[intern.Handle][]occurrence)
	for i, e := range body.Elements {
		if c.reserved(e.Name()) {
			continue
		}
		for _, tok := range e.sides() {
			switch {
			case c.IsLexicon(tok.Name):
				occs[tok.Name] = append(occs[tok.Name], occurrence{elem: i})
			case c.IsPattern(tok.Name):
				for lex, nested := range c.openUnder(tok.Name) {
					occs[lex] = append(occs[lex], occurrence{elem: i, nested: nested})
				}
			}
		}
	}
	return occs
}

// openUnder returns the lexicons pattern name leaves to its referrers,
// mapped to whether the occurrence sits under a repetition.
func (c *Compiler) openUnder(name intern.Handle) map[intern.Handle]bool {
	if m, ok := c.open[name]; ok {
		return m
	}
	// Cycles are rejected by Validate; the placeholder only keeps a
	// malformed grammar from recursing forever.
	c.open[name] = nil
	m := make(map[intern.Handle]bool)
	for _, body := range c.patterns[name] {
		for lex, list := range c.occurrences(body) {
			if len(list) != 1 {
				continue
			}
			o := list[0]
			m[lex] = m[lex] || o.nested || body.Elements[o.elem].Mode.MayRepeat()
		}
	}
	c.open[name] = m

	return m
}

// oneElement reports whether every occurrence comes from the same element.
func oneElement(list []occurrence) bool {
	for _, o := range list[1:] {
		if o.elem != list[0].elem {
			return false
		}
	}
	return true
}

// instances marks the patterns that may be entered more than once on one
// path: referenced twice, referenced from a repeated element, or referenced
// from a pattern that is itself entered more than once.
func (c *Compiler) instances() map[intern.Handle]bool {
	refs := make(map[intern.Handle]int)
	repeated := make(map[intern.Handle]bool)
	referrers := make(map[intern.Handle][]intern.Handle)
	for _, name := range c.sortedPatterns() {
		for _, body := range c.patterns[name] {
			for _, e := range body.Elements {
				for _, tok := range e.sides() {
					if !c.IsPattern(tok.Name) {
						continue
					}
					refs[tok.Name]++
					repeated[tok.Name] = repeated[tok.Name] || e.Mode.MayRepeat()
					referrers[tok.Name] = append(referrers[tok.Name], name)
				}
			}
		}
	}

	multi := make(map[intern.Handle]bool)
	visiting := make(map[intern.Handle]bool)
	var visit func(h intern.Handle) bool
	visit = func(h intern.Handle) bool {
		if m, ok := multi[h]; ok {
			return m
		}
		if visiting[h] {
			return false
		}
		visiting[h] = true
		m := refs[h] > 1 || repeated[h]
		for _, p := range referrers[h] {
			m = m || visit(p)
		}
		multi[h] = m
		return m
	}
	for _, name := range c.sortedPatterns() {
		visit(name)
	}
	return multi
}

// reached lists the lexicons e's sides reach without a group of their own
// in between: direct references and what referenced patterns leave open.
func (c *Compiler) reached(e PatternElement) TagSet {
	var acc []intern.Handle
	for _, tok := range e.sides() {
		switch {
		case c.IsLexicon(tok.Name):
			acc = append(acc, tok.Name)
		case c.IsPattern(tok.Name):
			for lex := range c.openUnder(tok.Name) {
				acc = append(acc, lex)
			}
		}
	}
	return NewTagSet(acc...)
}

// bind resolves the groups of child, an element of body ref: groups the
// body owns come first, lexicons the body leaves open keep the binding of
// the enclosing element, the rest are free.
func (c *Compiler) bind(child PatternElement, ref bodyRef, env bindings) bindings {
	c.analyse()
	var out bindings
	for _, lex := range c.reached(child) {
		if g, ok := c.owned[ref][lex]; ok {
			out = append(out, binding{lexicon: lex, group: g, fresh: c.groups[g].fresh})
			continue
		}
		if b, ok := env.find(lex); ok {
			out = append(out, binding{lexicon: lex, group: b.group})
		}
	}
	return out
}

// entryClears lists the groups ref owns outright; an instance of the body
// clears them before its first occurrence.
func (c *Compiler) entryClears(ref bodyRef) []int {
	var out []int
	for _, g := range c.owned[ref] {
		if !c.groups[g].fresh {
			out = append(out, g)
		}
	}
	sort.Ints(out)
	return out
}

// sortedPatterns lists pattern names in first-interned order.
func (c *Compiler) sortedPatterns() []intern.Handle {
	out := make([]intern.Handle, 0, len(c.patterns))
	for h := range c.patterns {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// sortedKeys lists the keys of m in first-interned order.
func sortedKeys[V any](m map[intern.Handle]V) []intern.Handle {
	out := make([]intern.Handle, 0, len(m))
	for h := range m {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
