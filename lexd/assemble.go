// File: assemble.go
// Role: Top-level assembly: validate, build the roots, minimize.
package lexd

import (
	"fmt"

	"github.com/katalvlaran/lexd/fst"
	"github.com/katalvlaran/lexd/intern"
)

// Result is the output of Build. Transducer and Hypermin share Alphabet.
type Result struct {
	Transducer *fst.Transducer
	// Hypermin is nil unless the compiler was built WithHypermin.
	Hypermin *fst.Transducer
	Alphabet *fst.Alphabet
}

// Build compiles the named top-level patterns (the PATTERNS section when
// none are given) into one minimized transducer.
func (c *Compiler) Build(roots ...string) (*Result, error) {
	// 1) Whole-grammar checks first, so errors do not depend on build order.
	if err := c.Validate(); err != nil {
		return nil, err
	}

	// 2) Resolve roots.
	handles, err := c.resolveRoots(roots)
	if err != nil {
		return nil, err
	}

	// 3) Build and union.
	frags := make([]*fst.Transducer, 0, len(handles))
	for _, h := range handles {
		f, err := c.buildElement(Ref(h, 1), nil, c.definitionLine(h))
		if err != nil {
			return nil, err
		}
		frags = append(frags, f)
	}
	u, err := fst.Union(frags...)
	if err != nil {
		return nil, fmt.Errorf("Build: %w", err)
	}

	// 4) Final minimization.
	res := &Result{Transducer: u.Minimize(), Alphabet: c.alpha}
	c.stats.States = res.Transducer.NumStates()
	c.stats.Transitions = res.Transducer.NumTransitions()

	// 5) Companion automaton.
	if c.cfg.hypermin {
		if res.Hypermin, err = c.buildHypermin(handles); err != nil {
			return nil, err
		}
		c.stats.HyperminStates = res.Hypermin.NumStates()
		c.stats.HyperminTransitions = res.Hypermin.NumTransitions()
	}
	c.log.Info("compiled transducer",
		"roots", len(handles),
		"states", c.stats.States,
		"transitions", c.stats.Transitions,
		"flags", c.alpha.NumFlags(),
	)

	return res, nil
}

// resolveRoots maps root names to handles, defaulting to the PATTERNS section.
func (c *Compiler) resolveRoots(roots []string) ([]intern.Handle, error) {
	if len(roots) == 0 {
		if !c.IsPattern(c.root) {
			return nil, errAt(0, "PATTERNS", ErrUnknownName)
		}
		return []intern.Handle{c.root}, nil
	}
	out := make([]intern.Handle, 0, len(roots))
	for _, r := range roots {
		h, ok := c.names.Has(r)
		if !ok || !(c.IsPattern(h) || c.IsLexicon(h)) {
			return nil, errAt(0, r, ErrUnknownName)
		}
		out = append(out, h)
	}
	return out, nil
}

// definitionLine returns the first line that defined h (0 if unknown).
func (c *Compiler) definitionLine(h intern.Handle) int {
	if l, ok := c.patternLine[h]; ok {
		return l
	}
	return c.lexiconLine[h]
}
