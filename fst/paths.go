// File: paths.go
// Role: Flag-aware enumeration of accepted (input, output) string pairs.
//
// Semantics:
//   - Flag diacritic edges consume nothing and are evaluated with Flag.Apply
//     against the path's FlagState; a failing flag kills the path.
//   - ε:ε edges consume nothing.
//   - Output strings concatenate symbol spellings; epsilon contributes "".
//
// Termination:
//   - Each configuration (state, flags, input, output) is explored at most
//     once and both sides are bounded by MaxSymbols, so the walk is finite
//     even across ε-cycles.
//   - Live ignores symbols altogether; its configurations are (state, flags)
//     and it needs no budget.
package fst

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// PathPair is one accepted (input, output) pair.
type PathPair struct {
	Input  string
	Output string
}

// String renders the pair as "input:output".
func (p PathPair) String() string { return p.Input + ":" + p.Output }

// Default budgets for Paths.
const (
	DefaultMaxSymbols = 24
	DefaultMaxPaths   = 100000
)

// PathOption configures Paths and Accepts.
type PathOption func(*pathConfig)

// pathConfig holds enumeration budgets and switches.
type pathConfig struct {
	maxSymbols int  // per side
	maxPaths   int  // distinct pairs
	flags      bool // evaluate flag diacritics
	keep       func(Flag) bool
}

// evaluates reports whether f is checked rather than passed as ε.
func (c pathConfig) evaluates(f Flag) bool {
	return c.flags && (c.keep == nil || c.keep(f))
}

// WithMaxSymbols bounds the number of symbols on each side of a path.
// Panics if n < 0.
func WithMaxSymbols(n int) PathOption {
	if n < 0 {
		panic("fst: WithMaxSymbols(n<0)")
	}
	return func(c *pathConfig) { c.maxSymbols = n }
}

// WithMaxPaths bounds the number of distinct pairs returned.
// Panics if n <= 0.
func WithMaxPaths(n int) PathOption {
	if n <= 0 {
		panic("fst: WithMaxPaths(n<=0)")
	}
	return func(c *pathConfig) { c.maxPaths = n }
}

// WithoutFlagSemantics treats flag diacritics as plain ε, exposing the
// over-approximated language of a flagged transducer.
func WithoutFlagSemantics() PathOption {
	return func(c *pathConfig) { c.flags = false }
}

// WithFlagFilter evaluates only the flag diacritics keep accepts; the
// others pass as ε. Panics if keep is nil.
func WithFlagFilter(keep func(Flag) bool) PathOption {
	if keep == nil {
		panic("fst: WithFlagFilter(nil)")
	}
	return func(c *pathConfig) { c.keep = keep }
}

// pathNode is one configuration of the walk.
type pathNode struct {
	state  State
	flags  FlagState
	in     []string
	out    []string
	inLen  int
	outLen int
}

// key returns the visited-set identity of n.
func (n pathNode) key() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(int(n.state)))
	b.WriteByte(0)
	b.WriteString(n.flags.Key())
	b.WriteByte(0)
	b.WriteString(strings.Join(n.in, "\x01"))
	b.WriteByte(0)
	b.WriteString(strings.Join(n.out, "\x01"))
	return b.String()
}

// walk enumerates accepted pairs; prune may reject partial configurations.
func walk(t *Transducer, a *Alphabet, cfg pathConfig, prune func(in, out []string) bool) ([]PathPair, error) {
	if t == nil {
		return nil, ErrNilTransducer
	}
	if a == nil {
		return nil, ErrNilAlphabet
	}

	seen := make(map[string]struct{})
	found := make(map[PathPair]struct{})
	queue := []pathNode{{state: t.initial}}
	seen[queue[0].key()] = struct{}{}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		// 1) Record acceptance.
		if t.IsFinal(n.state) {
			found[PathPair{Input: strings.Join(n.in, ""), Output: strings.Join(n.out, "")}] = struct{}{}
			if len(found) > cfg.maxPaths {
				return nil, fmt.Errorf("Paths: more than %d pairs: %w", cfg.maxPaths, ErrPathLimit)
			}
		}

		// 2) Expand every edge.
		for _, e := range t.trans[n.state] {
			p, err := a.Pair(e.Label)
			if err != nil {
				return nil, err
			}
			next := pathNode{state: e.To, flags: n.flags, in: n.in, out: n.out, inLen: n.inLen, outLen: n.outLen}

			if f, isFlag := a.Flag(p.In); isFlag {
				if cfg.evaluates(f) {
					var ok bool
					if next.flags, ok = f.Apply(n.flags); !ok {
						continue
					}
				}
			} else {
				if p.In != Epsilon {
					next.in = appendCopy(n.in, a.Name(p.In))
					next.inLen++
				}
				if p.Out != Epsilon {
					next.out = appendCopy(n.out, a.Name(p.Out))
					next.outLen++
				}
			}
			if next.inLen > cfg.maxSymbols || next.outLen > cfg.maxSymbols {
				continue
			}
			if prune != nil && prune(next.in, next.out) {
				continue
			}
			k := next.key()
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			queue = append(queue, next)
		}
	}

	pairs := make([]PathPair, 0, len(found))
	for p := range found {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Input != pairs[j].Input {
			return pairs[i].Input < pairs[j].Input
		}
		return pairs[i].Output < pairs[j].Output
	})

	return pairs, nil
}

// appendCopy appends without aliasing the parent configuration's slice.
func appendCopy(xs []string, x string) []string {
	out := make([]string, len(xs), len(xs)+1)
	copy(out, xs)
	return append(out, x)
}

// Paths enumerates every (input, output) pair accepted by t whose sides do
// not exceed the symbol budget, honouring flag diacritic semantics.
// Pairs are sorted by input then output.
//
// Errors:
//   - ErrNilTransducer / ErrNilAlphabet for nil arguments.
//   - ErrPathLimit when more than MaxPaths distinct pairs exist.
func Paths(t *Transducer, a *Alphabet, opts ...PathOption) ([]PathPair, error) {
	cfg := pathConfig{maxSymbols: DefaultMaxSymbols, maxPaths: DefaultMaxPaths, flags: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	return walk(t, a, cfg, nil)
}

// Live reports whether some path of t reaches a final state under flag
// diacritic semantics, that is, whether t accepts anything at all.
// Budgets are ignored; WithoutFlagSemantics and WithFlagFilter apply.
func Live(t *Transducer, a *Alphabet, opts ...PathOption) (bool, error) {
	if t == nil {
		return false, ErrNilTransducer
	}
	if a == nil {
		return false, ErrNilAlphabet
	}
	cfg := pathConfig{flags: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	type node struct {
		state State
		flags FlagState
	}
	key := func(n node) string { return strconv.Itoa(int(n.state)) + "\x00" + n.flags.Key() }
	queue := []node{{state: t.initial}}
	seen := map[string]struct{}{key(queue[0]): {}}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if t.IsFinal(n.state) {
			return true, nil
		}
		for _, e := range t.trans[n.state] {
			p, err := a.Pair(e.Label)
			if err != nil {
				return false, err
			}
			next := node{state: e.To, flags: n.flags}
			if f, isFlag := a.Flag(p.In); isFlag && cfg.evaluates(f) {
				var ok bool
				if next.flags, ok = f.Apply(n.flags); !ok {
					continue
				}
			}
			k := key(next)
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			queue = append(queue, next)
		}
	}

	return false, nil
}

// Accepts reports whether t maps input to output. Both strings are given as
// concatenated symbol spellings.
func Accepts(t *Transducer, a *Alphabet, input, output string, opts ...PathOption) (bool, error) {
	cfg := pathConfig{
		maxSymbols: len(input) + len(output),
		maxPaths:   DefaultMaxPaths,
		flags:      true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	prune := func(in, out []string) bool {
		return !strings.HasPrefix(input, strings.Join(in, "")) ||
			!strings.HasPrefix(output, strings.Join(out, ""))
	}
	pairs, err := walk(t, a, cfg, prune)
	if err != nil {
		return false, err
	}
	for _, p := range pairs {
		if p.Input == input && p.Output == output {
			return true, nil
		}
	}

	return false, nil
}

// Lookup returns every output t produces for input, sorted.
func Lookup(t *Transducer, a *Alphabet, input string, opts ...PathOption) ([]string, error) {
	cfg := pathConfig{maxSymbols: DefaultMaxSymbols, maxPaths: DefaultMaxPaths, flags: true}
	if len(input) > cfg.maxSymbols {
		cfg.maxSymbols = len(input)
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	prune := func(in, _ []string) bool {
		return !strings.HasPrefix(input, strings.Join(in, ""))
	}
	pairs, err := walk(t, a, cfg, prune)
	if err != nil {
		return nil, err
	}
	var outs []string
	for _, p := range pairs {
		if p.Input == input {
			outs = append(outs, p.Output)
		}
	}

	return outs, nil
}
