// File: options.go
// Role: Functional options for New.
package lexd

import (
	"io"
	"log/slog"
)

// Option configures a Compiler.
type Option func(*config)

type config struct {
	align       bool
	compress    bool
	tagsAsFlags bool
	hypermin    bool
	minFlags    bool
	logger      *slog.Logger
}

func defaultConfig() config {
	return config{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// WithAlign pairs the two sides of every segment by edit-distance alignment
// instead of position, so "ab:b" becomes a:0 b:b rather than a:b b:0.
func WithAlign() Option {
	return func(c *config) { c.align = true }
}

// WithCompress is WithAlign with cheap substitutions: "a:b" stays one
// label a:b instead of a:0 0:b. Implies WithAlign.
func WithCompress() Option {
	return func(c *config) {
		c.align = true
		c.compress = true
	}
}

// WithTagsAsFlags enforces positive tag filters with flag diacritics
// instead of expanding them statically.
func WithTagsAsFlags() Option {
	return func(c *config) { c.tagsAsFlags = true }
}

// WithHypermin also builds the companion automaton in which every pattern
// body is inserted once and entered through call/return flags.
func WithHypermin() Option {
	return func(c *config) { c.hypermin = true }
}

// WithMinFlags spells synthetic flag features with short generated codes.
func WithMinFlags() Option {
	return func(c *config) { c.minFlags = true }
}

// WithLogger routes compiler diagnostics to l.
// Panics if l is nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("lexd: WithLogger(nil)")
	}
	return func(c *config) { c.logger = l }
}
