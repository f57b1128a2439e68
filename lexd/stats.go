package lexd

// Statistics summarizes a grammar and the fragments built from it.
// Lexicons and Patterns count named objects; the inline "[a|b]" lexicons
// and "(...)" groups the reader synthesizes are counted apart. Entries and
// PatternBodies cover both. Fragment counters count cache misses since the
// grammar last changed; sizes describe the most recent Build.
type Statistics struct {
	Lexicons          int `json:"lexicons" yaml:"lexicons"`
	AnonymousLexicons int `json:"anonymous_lexicons,omitempty" yaml:"anonymous_lexicons,omitempty"`
	Entries           int `json:"entries" yaml:"entries"`
	Patterns          int `json:"patterns" yaml:"patterns"`
	AnonymousPatterns int `json:"anonymous_patterns,omitempty" yaml:"anonymous_patterns,omitempty"`
	PatternBodies     int `json:"pattern_bodies" yaml:"pattern_bodies"`
	CorrelationGroups int `json:"correlation_groups" yaml:"correlation_groups"`

	EntryFragments   int `json:"entry_fragments" yaml:"entry_fragments"`
	LexiconFragments int `json:"lexicon_fragments" yaml:"lexicon_fragments"`
	PatternFragments int `json:"pattern_fragments" yaml:"pattern_fragments"`

	Symbols     int `json:"symbols" yaml:"symbols"`
	FlagSymbols int `json:"flag_symbols" yaml:"flag_symbols"`
	States      int `json:"states" yaml:"states"`
	Transitions int `json:"transitions" yaml:"transitions"`

	HyperminStates      int `json:"hypermin_states,omitempty" yaml:"hypermin_states,omitempty"`
	HyperminTransitions int `json:"hypermin_transitions,omitempty" yaml:"hypermin_transitions,omitempty"`
}

// Statistics returns the current counters.
func (c *Compiler) Statistics() Statistics {
	s := c.stats
	for h := range c.lexiconColumns {
		if c.names.IsAnonymous(h) {
			s.AnonymousLexicons++
		} else {
			s.Lexicons++
		}
	}
	for _, rows := range c.lexicons {
		s.Entries += len(rows)
	}
	for h, bodies := range c.patterns {
		switch {
		case h == c.root:
		case c.names.IsAnonymous(h):
			s.AnonymousPatterns++
		default:
			s.Patterns++
		}
		s.PatternBodies += len(bodies)
	}
	s.CorrelationGroups = len(c.groups)
	s.Symbols = c.alpha.NumSymbols() - 1
	s.FlagSymbols = c.alpha.NumFlags()

	return s
}
