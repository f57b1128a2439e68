// File: compiler.go
// Role: Compiler context: grammar tables, caches and the population API.
//
// Lifecycle:
//  1. New(opts...)
//  2. populate: AddEntry / DeclareLexicon / AddAlias / AddPattern
//     (normally done by package reader)
//  3. Build / BuildSingleLexicon, any number of times
//
// Caches:
//   - patternFrags / lexiconFrags / entryFrags hold finished fragments that
//     are never mutated after insertion; callers copy them with Insert.
//   - Keys capture every field that influences a fragment, so a cached
//     result can be reused in any context with an equal key.
//
// Concurrency:
//   - A Compiler is not safe for concurrent use.
package lexd

import (
	"fmt"
	"log/slog"

	"github.com/katalvlaran/lexd/fst"
	"github.com/katalvlaran/lexd/intern"
)

// Reserved names.
const (
	// RootName holds the bodies of the top-level PATTERNS section.
	RootName = " "
	// LeftSieveName and RightSieveName mark sieve boundaries inside a body.
	LeftSieveName  = "<"
	RightSieveName = ">"
)

// Compiler holds one grammar and everything derived from it.
type Compiler struct {
	cfg config
	log *slog.Logger

	names *intern.Table
	alpha *fst.Alphabet

	root, leftSieve, rightSieve intern.Handle

	lexicons       map[intern.Handle][]Entry
	lexiconColumns map[intern.Handle]int
	lexiconLine    map[intern.Handle]int
	patterns       map[intern.Handle][]Pattern
	patternLine    map[intern.Handle]int

	patternFrags map[string]*fst.Transducer
	lexiconFrags map[string]*fst.Transducer
	entryFrags   map[string]*fst.Transducer
	inProgress   map[string]bool

	flagSymbols map[flagKey]fst.Symbol
	// groups: every row-correlation scope, in analysis order.
	groups []group
	// owned: per body, the group of each lexicon the body correlates.
	owned map[bodyRef]map[intern.Handle]int
	// open: per pattern, the lexicons left to its referrers.
	open map[intern.Handle]map[intern.Handle]bool
	// multi: patterns that may be entered more than once on one path.
	multi       map[intern.Handle]bool
	trackedTags TagSet
	analysed    bool
	validated   bool

	hyper *hyperminBuilder
	stats Statistics
}

// New returns an empty Compiler.
func New(opts ...Option) *Compiler {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	c := &Compiler{
		cfg:            cfg,
		log:            cfg.logger,
		names:          intern.New(),
		alpha:          fst.NewAlphabet(),
		lexicons:       make(map[intern.Handle][]Entry),
		lexiconColumns: make(map[intern.Handle]int),
		lexiconLine:    make(map[intern.Handle]int),
		patterns:       make(map[intern.Handle][]Pattern),
		patternLine:    make(map[intern.Handle]int),
		patternFrags:   make(map[string]*fst.Transducer),
		lexiconFrags:   make(map[string]*fst.Transducer),
		entryFrags:     make(map[string]*fst.Transducer),
		inProgress:     make(map[string]bool),
		flagSymbols:    make(map[flagKey]fst.Symbol),
	}
	c.root = c.names.Intern(RootName)
	c.leftSieve = c.names.Intern(LeftSieveName)
	c.rightSieve = c.names.Intern(RightSieveName)

	return c
}

// Names exposes the interner shared by lexicon, pattern and tag names.
func (c *Compiler) Names() *intern.Table { return c.names }

// Alphabet exposes the symbol alphabet of every built transducer.
func (c *Compiler) Alphabet() *fst.Alphabet { return c.alpha }

// Intern is shorthand for c.Names().Intern(name).
func (c *Compiler) Intern(name string) intern.Handle { return c.names.Intern(name) }

// Root returns the handle of the top-level pattern.
func (c *Compiler) Root() intern.Handle { return c.root }

// Sieves returns the handles of the "<" and ">" markers.
func (c *Compiler) Sieves() (left, right intern.Handle) { return c.leftSieve, c.rightSieve }

// Symbols interns each spelling and returns the symbol sequence.
func (c *Compiler) Symbols(spellings ...string) []fst.Symbol {
	out := make([]fst.Symbol, len(spellings))
	for i, s := range spellings {
		out[i] = c.alpha.Symbol(s)
	}
	return out
}

// SymbolsOf splits a plain string into one symbol per rune.
func (c *Compiler) SymbolsOf(s string) []fst.Symbol {
	out := make([]fst.Symbol, 0, len(s))
	for _, r := range s {
		out = append(out, c.alpha.Symbol(string(r)))
	}
	return out
}

// Tags interns tag names into a TagSet.
func (c *Compiler) Tags(names ...string) TagSet {
	hs := make([]intern.Handle, len(names))
	for i, n := range names {
		hs[i] = c.names.Intern(n)
	}
	return NewTagSet(hs...)
}

// reserved reports names a user may not define.
func (c *Compiler) reserved(h intern.Handle) bool {
	return h == c.leftSieve || h == c.rightSieve || h == intern.Empty
}

// IsLexicon reports whether h names a declared lexicon.
func (c *Compiler) IsLexicon(h intern.Handle) bool {
	_, ok := c.lexiconColumns[h]
	return ok
}

// IsPattern reports whether h names a pattern with at least one body.
func (c *Compiler) IsPattern(h intern.Handle) bool {
	_, ok := c.patterns[h]
	return ok
}

// DeclareLexicon fixes the column count of a lexicon. Redeclaring with the
// same count is a no-op; a different count is ErrColumnCount.
func (c *Compiler) DeclareLexicon(name intern.Handle, columns, line int) error {
	// 1) Name sanity.
	if c.reserved(name) || name == c.root {
		return errAt(line, c.names.Resolve(name), ErrRedefined)
	}
	if c.IsPattern(name) {
		return errAt(line, c.names.Resolve(name), ErrRedefined)
	}
	if columns < 1 {
		return errAt(line, c.names.Resolve(name), fmt.Errorf("%d columns: %w", columns, ErrColumnCount))
	}

	// 2) First declaration wins.
	if n, ok := c.lexiconColumns[name]; ok {
		if n != columns {
			return errAt(line, c.names.Resolve(name),
				fmt.Errorf("declared with %d columns, now %d: %w", n, columns, ErrColumnCount))
		}
		return nil
	}
	c.lexiconColumns[name] = columns
	c.lexiconLine[name] = line
	c.invalidate()

	return nil
}

// AddEntry appends one row to a lexicon, declaring it on first use.
func (c *Compiler) AddEntry(name intern.Handle, line int, e Entry) error {
	if err := c.DeclareLexicon(name, len(e), line); err != nil {
		return err
	}
	c.lexicons[name] = append(c.lexicons[name], e)
	c.invalidate()

	return nil
}

// AddAlias makes alias an independent copy of target: same rows, separate
// row correlation.
func (c *Compiler) AddAlias(alias, target intern.Handle, line int) error {
	cols, ok := c.lexiconColumns[target]
	if !ok {
		return errAt(line, c.names.Resolve(target), ErrUnknownName)
	}
	if err := c.DeclareLexicon(alias, cols, line); err != nil {
		return err
	}
	c.lexicons[alias] = append(c.lexicons[alias], c.lexicons[target]...)
	c.invalidate()

	return nil
}

// AddPattern appends one alternative body to a pattern.
func (c *Compiler) AddPattern(name intern.Handle, line int, elems []PatternElement) error {
	if c.reserved(name) || c.IsLexicon(name) {
		return errAt(line, c.names.Resolve(name), ErrRedefined)
	}
	if _, ok := c.patternLine[name]; !ok {
		c.patternLine[name] = line
	}
	c.patterns[name] = append(c.patterns[name], Pattern{
		Line:     line,
		Elements: append([]PatternElement(nil), elems...),
	})
	c.invalidate()

	return nil
}

// invalidate drops every derived table after the grammar changed.
func (c *Compiler) invalidate() {
	if !c.analysed && !c.validated && len(c.patternFrags) == 0 && len(c.lexiconFrags) == 0 {
		return
	}
	c.patternFrags = make(map[string]*fst.Transducer)
	c.lexiconFrags = make(map[string]*fst.Transducer)
	c.entryFrags = make(map[string]*fst.Transducer)
	c.inProgress = make(map[string]bool)
	c.groups = nil
	c.owned = nil
	c.open = nil
	c.multi = nil
	c.trackedTags = nil
	c.analysed = false
	c.validated = false
	c.hyper = nil
	c.stats = Statistics{}
}

// describe renders e roughly as written, for logs and error names.
func (c *Compiler) describe(e PatternElement) string {
	tok := func(t Token) string {
		if t.Empty() {
			return ""
		}
		s := c.names.Resolve(t.Name)
		if t.Column > 1 {
			s += fmt.Sprintf("(%d)", t.Column)
		}
		return s
	}
	var s string
	switch {
	case e.Symmetric():
		s = tok(e.Left)
	default:
		s = tok(e.Left) + ":" + tok(e.Right)
	}
	if len(e.Tags) > 0 || len(e.NegTags) > 0 {
		s += "["
		for i, h := range e.Tags {
			if i > 0 {
				s += ","
			}
			s += c.names.Resolve(h)
		}
		for i, h := range e.NegTags {
			if i > 0 || len(e.Tags) > 0 {
				s += ","
			}
			s += "-" + c.names.Resolve(h)
		}
		s += "]"
	}
	return s + e.Mode.String()
}
