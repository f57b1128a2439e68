// File: hypermin.go
// Role: Companion automaton in which every pattern element is laid down
// once and entered through call/return flags.
//
// Call site k of pattern element X:
//
//	from ─ε→ a ─[@C.<lex>@…]─ @P.^X.k@ → start(X) … end(X) ─ @R.^X.k@ → b
//
// with the usual ε bypass a→b for optional and back-edge b→a for repeated
// elements. Lexicon references are inserted as ordinary fragments.
// Under flag semantics it accepts exactly the language of Build.
package lexd

import (
	"github.com/katalvlaran/lexd/fst"
	"github.com/katalvlaran/lexd/intern"
)

type hyperLoc struct {
	start, end fst.State
}

type hyperminBuilder struct {
	t     *fst.Transducer
	locs  map[string]hyperLoc
	sites map[intern.Handle]int
}

// buildHypermin builds the companion automaton for roots.
func (c *Compiler) buildHypermin(roots []intern.Handle) (*fst.Transducer, error) {
	hb := &hyperminBuilder{
		t:     fst.New(),
		locs:  make(map[string]hyperLoc),
		sites: make(map[intern.Handle]int),
	}
	c.hyper = hb

	for _, h := range roots {
		end, err := c.hyperElement(hb, Ref(h, 1), nil, hb.t.Initial(), c.definitionLine(h))
		if err != nil {
			return nil, err
		}
		if err = hb.t.SetFinal(end); err != nil {
			return nil, err
		}
	}
	c.log.Debug("built hypermin", "locations", len(hb.locs), "call_sites", c.callSites(hb))

	return hb.t.Minimize(), nil
}

// callSites sums the call counters of hb.
func (c *Compiler) callSites(hb *hyperminBuilder) int {
	n := 0
	for _, k := range hb.sites {
		n += k
	}
	return n
}

// hyperElement lays e down after from and returns its exit state.
func (c *Compiler) hyperElement(hb *hyperminBuilder, e PatternElement, env bindings, from fst.State, line int) (fst.State, error) {
	sides := e.sides()
	if len(sides) == 0 {
		return from, nil
	}

	// 1) Lexicons and two-sided references are ordinary fragments.
	if len(sides) == 2 || !c.IsPattern(sides[0].Name) {
		frag, err := c.buildElement(e, env, line)
		if err != nil {
			return 0, err
		}
		return hb.t.Insert(from, frag)
	}

	// 2) One shared location per Normal-mode element and bindings.
	loc, err := c.hyperLocation(hb, e.WithMode(Normal), env.settled(), line)
	if err != nil {
		return 0, err
	}

	// 3) Call and return through a fresh site number.
	name := sides[0].Name
	hb.sites[name]++
	site := hb.sites[name]

	t := hb.t
	a, b := t.NewState(), t.NewState()
	if err = t.AddTransition(from, fst.EpsilonLabel, a); err != nil {
		return 0, err
	}
	cur, err := c.insertRowClears(t, a, env.fresh())
	if err != nil {
		return 0, err
	}
	call := c.getFlag(fst.Positive, spaceCall, name, site)
	ret := c.getFlag(fst.Require, spaceCall, name, site)
	if err = t.AddTransition(cur, c.alpha.Label(call, call), loc.start); err != nil {
		return 0, err
	}
	if err = t.AddTransition(loc.end, c.alpha.Label(ret, ret), b); err != nil {
		return 0, err
	}

	// 4) Mode.
	if e.Mode.MayBeAbsent() {
		if err = t.AddTransition(a, fst.EpsilonLabel, b); err != nil {
			return 0, err
		}
	}
	if e.Mode.MayRepeat() {
		if err = t.AddTransition(b, fst.EpsilonLabel, a); err != nil {
			return 0, err
		}
	}
	return b, nil
}

// hyperLocation returns (building on first use) the single copy of e.
func (c *Compiler) hyperLocation(hb *hyperminBuilder, e PatternElement, env bindings, line int) (hyperLoc, error) {
	key := e.Key() + env.key()
	if loc, ok := hb.locs[key]; ok {
		return loc, nil
	}
	// The ordinary fragment carries every emptiness check; it is cached
	// from Build.
	if _, err := c.buildElement(e, env, line); err != nil {
		return hyperLoc{}, err
	}
	variants, err := c.patternVariants(e)
	if err != nil {
		return hyperLoc{}, err
	}
	name := e.Name()

	t := hb.t
	loc := hyperLoc{start: t.NewState(), end: t.NewState()}
	inner, err := c.insertPreTags(t, loc.start, c.flagTags(e))
	if err != nil {
		return hyperLoc{}, err
	}
	join := t.NewState()

	// 1) Each variant hangs off its own state; a dropped variant is left
	// unconnected and disappears in Minimize.
	built := 0
	for _, v := range variants {
		ref := bodyRef{pattern: name, index: v.body}
		vstart := t.NewState()
		cur := vstart
		if c.multi[name] {
			if cur, err = c.insertRowClears(t, cur, c.entryClears(ref)); err != nil {
				return hyperLoc{}, err
			}
		}
		ok := true
		for _, p := range v.parts {
			next, err := c.hyperElement(hb, p.elem, c.bind(p.elem, ref, env), cur, v.line)
			if err != nil {
				skip, err := c.skippable(err, p, ref, env, v.line)
				if err != nil {
					return hyperLoc{}, err
				}
				if skip {
					ok = false
					break
				}
			}
			cur = next
		}
		if !ok {
			continue
		}
		if err = t.AddTransition(inner, fst.EpsilonLabel, vstart); err != nil {
			return hyperLoc{}, err
		}
		if err = t.AddTransition(cur, fst.EpsilonLabel, join); err != nil {
			return hyperLoc{}, err
		}
		built++
	}
	if built == 0 {
		return hyperLoc{}, errAt(line, c.describe(e), ErrNoMatch)
	}

	// 2) Close with requirement checks.
	last, err := c.insertPostTags(t, join, c.flagTags(e))
	if err != nil {
		return hyperLoc{}, err
	}
	if err = t.AddTransition(last, fst.EpsilonLabel, loc.end); err != nil {
		return hyperLoc{}, err
	}
	hb.locs[key] = loc

	return loc, nil
}

// flagTags returns the requirements enforced by flags for e.
func (c *Compiler) flagTags(e PatternElement) TagSet {
	if !c.cfg.tagsAsFlags {
		return nil
	}
	return e.Tags
}
