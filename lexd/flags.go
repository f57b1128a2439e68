// File: flags.go
// Role: Synthetic flag diacritics: row correlation, tag requirements,
// repeat clears and hypermin call/return addresses.
//
// Namespaces (one interner serves lexicons, patterns and tags, so the
// feature spelling carries the namespace):
//
//	lexicon row   @U.<lex>.<row>@          @C.<lex>@
//	tag pending   @P.+<tag>.1@  @C.+<tag>@  @D.+<tag>.1@
//	call/return   @P.^<pat>.<site>@        @R.^<pat>.<site>@
//
// A lexicon correlated by several bodies spells each group <lex>~<n>.
// With WithMinFlags the names are replaced by short letter codes.
package lexd

import (
	"strconv"
	"strings"

	"github.com/katalvlaran/lexd/fst"
	"github.com/katalvlaran/lexd/intern"
)

type flagSpace byte

const (
	spaceLexicon flagSpace = 0
	spaceTag     flagSpace = '+'
	spaceCall    flagSpace = '^'
)

// flagKey is the structural identity of one synthetic flag.
type flagKey struct {
	kind  fst.FlagKind
	space flagSpace
	name  intern.Handle
	scope int
	value int
}

// encodeFlag spells n as a bijective base-26 code: 1→A, 26→Z, 27→AA.
func encodeFlag(n uint32) string {
	var buf []byte
	for n > 0 {
		n--
		buf = append(buf, byte('A'+n%26))
		n /= 26
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

var featureEscaper = strings.NewReplacer(".", "_", "@", "_", "~", "_", " ", "#", "\t", "#")

// feature spells the flag feature for name in space.
func (c *Compiler) feature(space flagSpace, name intern.Handle) string {
	var body string
	if c.cfg.minFlags {
		body = encodeFlag(uint32(name))
	} else {
		body = featureEscaper.Replace(c.names.Resolve(name))
	}
	if space == spaceLexicon {
		return body
	}
	return string(space) + body
}

// getFlag returns the memoized symbol for one flag.
func (c *Compiler) getFlag(kind fst.FlagKind, space flagSpace, name intern.Handle, value int) fst.Symbol {
	return c.scopedFlag(flagKey{kind: kind, space: space, name: name, value: value})
}

// rowFlag returns the row flag of group g.
func (c *Compiler) rowFlag(kind fst.FlagKind, g, row int) fst.Symbol {
	grp := c.groups[g]
	return c.scopedFlag(flagKey{kind: kind, space: spaceLexicon, name: grp.lexicon, scope: grp.scope, value: row})
}

func (c *Compiler) scopedFlag(k flagKey) fst.Symbol {
	if s, ok := c.flagSymbols[k]; ok {
		return s
	}
	feat := c.feature(k.space, k.name)
	if k.scope > 0 {
		feat += "~" + strconv.Itoa(k.scope)
	}
	s := c.alpha.FlagSymbol(fst.Flag{Kind: k.kind, Feature: feat, Value: k.value})
	c.flagSymbols[k] = s

	return s
}

// insertFlag appends one flag transition (flag:flag) after from.
func (c *Compiler) insertFlag(t *fst.Transducer, from fst.State, s fst.Symbol) (fst.State, error) {
	return t.InsertSingle(from, c.alpha.Label(s, s))
}

// insertPreTags marks every tag in tags as pending.
func (c *Compiler) insertPreTags(t *fst.Transducer, from fst.State, tags TagSet) (fst.State, error) {
	cur := from
	for _, h := range tags {
		var err error
		if cur, err = c.insertFlag(t, cur, c.getFlag(fst.Positive, spaceTag, h, 1)); err != nil {
			return 0, err
		}
	}
	return cur, nil
}

// insertPostTags rejects paths on which a pending tag was never satisfied.
func (c *Compiler) insertPostTags(t *fst.Transducer, from fst.State, tags TagSet) (fst.State, error) {
	cur := from
	for _, h := range tags {
		var err error
		if cur, err = c.insertFlag(t, cur, c.getFlag(fst.Disallow, spaceTag, h, 1)); err != nil {
			return 0, err
		}
	}
	return cur, nil
}

// insertTagClears satisfies every tracked tag a segment carries.
func (c *Compiler) insertTagClears(t *fst.Transducer, from fst.State, tags TagSet) (fst.State, error) {
	cur := from
	for _, h := range tags.Intersect(c.trackedTags) {
		var err error
		if cur, err = c.insertFlag(t, cur, c.getFlag(fst.Clear, spaceTag, h, 0)); err != nil {
			return 0, err
		}
	}
	return cur, nil
}

// insertRowClears resets the row flag of each group, so a new instance of
// its owner picks a fresh row.
func (c *Compiler) insertRowClears(t *fst.Transducer, from fst.State, groups []int) (fst.State, error) {
	cur := from
	for _, g := range groups {
		var err error
		if cur, err = c.insertFlag(t, cur, c.rowFlag(fst.Clear, g, 0)); err != nil {
			return 0, err
		}
	}
	return cur, nil
}

// prefixClears returns frag preceded by the row clears of groups.
func (c *Compiler) prefixClears(frag *fst.Transducer, groups []int) (*fst.Transducer, error) {
	if len(groups) == 0 {
		return frag, nil
	}
	t := fst.New()
	cur, err := c.insertRowClears(t, t.Initial(), groups)
	if err != nil {
		return nil, err
	}
	if cur, err = t.Insert(cur, frag); err != nil {
		return nil, err
	}
	if err = t.SetFinal(cur); err != nil {
		return nil, err
	}
	return t, nil
}

// isTagFlag reports whether f belongs to the tag namespace.
func isTagFlag(f fst.Flag) bool {
	return strings.HasPrefix(f.Feature, string(spaceTag))
}

// satisfiable reports whether frag accepts anything once its tag flags
// are evaluated. Row flags are left to the whole transducer.
func (c *Compiler) satisfiable(frag *fst.Transducer) (bool, error) {
	return fst.Live(frag, c.alpha, fst.WithFlagFilter(isTagFlag))
}

// wrapTags surrounds frag with pre/post tag flags; frag is not modified.
func (c *Compiler) wrapTags(frag *fst.Transducer, tags TagSet) (*fst.Transducer, error) {
	if len(tags) == 0 {
		return frag, nil
	}
	t := fst.New()
	cur, err := c.insertPreTags(t, t.Initial(), tags)
	if err != nil {
		return nil, err
	}
	if cur, err = t.Insert(cur, frag); err != nil {
		return nil, err
	}
	if cur, err = c.insertPostTags(t, cur, tags); err != nil {
		return nil, err
	}
	if err = t.SetFinal(cur); err != nil {
		return nil, err
	}
	return t, nil
}
