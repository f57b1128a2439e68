// File: validate.go
// Role: Whole-grammar checks run once before any fragment is built.
//
// Order (first failure wins, so reports are deterministic):
//  1. per body, in pattern then line order: names resolve, columns exist,
//     tags do not conflict, sieves are well formed, no correlation group
//     spans a repetition
//  2. pattern references form no cycle (three-colour DFS)
package lexd

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/lexd/intern"
)

const (
	white = iota // unvisited
	gray         // on the DFS stack
	black        // finished
)

// Validate checks the grammar without building anything.
func (c *Compiler) Validate() error {
	if c.validated {
		return nil
	}
	c.analyse()

	// 1) Per-body checks.
	for _, name := range c.sortedPatterns() {
		for _, body := range c.patterns[name] {
			if err := c.validateBody(body); err != nil {
				return err
			}
		}
	}

	// 2) Cycles.
	if err := c.detectCycles(); err != nil {
		return err
	}
	c.validated = true

	return nil
}

// validateBody checks one body.
func (c *Compiler) validateBody(body Pattern) error {
	for _, e := range body.Elements {
		if c.reserved(e.Name()) {
			continue
		}
		// 1) Each side must resolve, with a column that exists.
		for _, tok := range e.sides() {
			name := c.names.Resolve(tok.Name)
			switch {
			case c.IsLexicon(tok.Name):
				if n := c.lexiconColumns[tok.Name]; tok.Column < 1 || tok.Column > n {
					return errAt(body.Line, name,
						fmt.Errorf("column %d of %d: %w", tok.Column, n, ErrColumnCount))
				}
			case c.IsPattern(tok.Name):
				if tok.Column != 1 {
					return errAt(body.Line, name,
						fmt.Errorf("patterns have one column, not %d: %w", tok.Column, ErrColumnCount))
				}
			default:
				return errAt(body.Line, name, ErrUnknownName)
			}
		}
		// 2) Required and excluded tags must be disjoint.
		if both := e.Tags.Intersect(e.NegTags); len(both) > 0 {
			return errAt(body.Line, c.describe(e),
				fmt.Errorf("%s: %w", c.names.Resolve(both[0]), ErrTagConflict))
		}
	}

	// 3) Sieve shape.
	if _, err := c.expandSieve(body.Elements); err != nil {
		return errAt(body.Line, "", err)
	}

	// 4) No correlation group spans a repetition.
	return c.checkBoundRepeat(body)
}

// checkBoundRepeat rejects a correlation group with an occurrence that
// repeats on its own: each iteration would pick a fresh row while the
// other occurrences keep theirs. A repeated element that holds the whole
// group (L(1):L(2)+) is fine, each iteration is one instance.
func (c *Compiler) checkBoundRepeat(body Pattern) error {
	occs := c.occurrences(body)
	for _, lex := range sortedKeys(occs) {
		list := occs[lex]
		if len(list) < 2 {
			continue
		}
		whole := oneElement(list)
		for _, o := range list {
			if o.nested || (!whole && body.Elements[o.elem].Mode.MayRepeat()) {
				return errAt(body.Line, c.names.Resolve(lex), ErrBoundRepeat)
			}
		}
	}
	return nil
}

// detectCycles runs a three-colour DFS over pattern references.
func (c *Compiler) detectCycles() error {
	state := make(map[intern.Handle]int, len(c.patterns))
	var path []intern.Handle

	var visit func(h intern.Handle) error
	visit = func(h intern.Handle) error {
		// 1) Mark in progress and push.
		state[h] = gray
		path = append(path, h)

		// 2) Explore referenced patterns.
		for _, body := range c.patterns[h] {
			for _, e := range body.Elements {
				for _, tok := range e.sides() {
					if !c.IsPattern(tok.Name) {
						continue
					}
					switch state[tok.Name] {
					case white:
						if err := visit(tok.Name); err != nil {
							return err
						}
					case gray:
						return errAt(body.Line, c.cyclePath(path, tok.Name), ErrCycle)
					}
				}
			}
		}

		// 3) Pop and finish.
		path = path[:len(path)-1]
		state[h] = black
		return nil
	}

	for _, h := range c.sortedPatterns() {
		if state[h] == white {
			if err := visit(h); err != nil {
				return err
			}
		}
	}
	return nil
}

// cyclePath renders the cycle closing at back, e.g. "A -> B -> A".
func (c *Compiler) cyclePath(path []intern.Handle, back intern.Handle) string {
	start := 0
	for i, h := range path {
		if h == back {
			start = i
			break
		}
	}
	parts := make([]string, 0, len(path)-start+1)
	for _, h := range path[start:] {
		parts = append(parts, c.displayName(h))
	}
	parts = append(parts, c.displayName(back))
	return strings.Join(parts, " -> ")
}

// displayName renders the root pattern readably.
func (c *Compiler) displayName(h intern.Handle) string {
	if h == c.root {
		return "PATTERNS"
	}
	return c.names.Resolve(h)
}
