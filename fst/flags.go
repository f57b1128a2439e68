// File: flags.go
// Role: Flag diacritic identity, spelling and match-time semantics.
//
// Spelling (HFST/lttoolbox compatible):
//   - "@U.feature.3@", "@P.feature.1@", "@N.feature.1@", "@R.feature.1@",
//     "@D.feature.1@", "@C.feature@".
//   - Value 0 means "no value": "@R.feature@" requires any value to be set,
//     "@D.feature@" forbids any value.
//
// Determinism:
//   - FlagState.Key() is a canonical encoding (features sorted).
package fst

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// FlagKind enumerates the six flag diacritic operations.
type FlagKind uint8

const (
	// Unification sets the feature when unset, otherwise checks equality.
	Unification FlagKind = iota
	// Positive sets the feature to the value.
	Positive
	// Negative sets the feature to "anything but" the value.
	Negative
	// Require checks the feature equals the value (or is set, for value 0).
	Require
	// Disallow checks the feature differs from the value (or is unset, for value 0).
	Disallow
	// Clear resets the feature.
	Clear
)

// letter returns the one-letter operator used in flag spellings.
func (k FlagKind) letter() byte {
	switch k {
	case Unification:
		return 'U'
	case Positive:
		return 'P'
	case Negative:
		return 'N'
	case Require:
		return 'R'
	case Disallow:
		return 'D'
	case Clear:
		return 'C'
	}
	return '?'
}

// String returns the operator letter.
func (k FlagKind) String() string { return string(k.letter()) }

// kindFromLetter is the inverse of letter.
func kindFromLetter(b byte) (FlagKind, bool) {
	switch b {
	case 'U':
		return Unification, true
	case 'P':
		return Positive, true
	case 'N':
		return Negative, true
	case 'R':
		return Require, true
	case 'D':
		return Disallow, true
	case 'C':
		return Clear, true
	}
	return 0, false
}

// Flag is the structural identity of a flag diacritic. Two equal Flags
// always intern to the same Symbol.
type Flag struct {
	Kind    FlagKind
	Feature string
	Value   int
}

// String spells the flag, e.g. "@U.Noun.2@".
func (f Flag) String() string {
	if f.Kind == Clear || f.Value == 0 {
		return fmt.Sprintf("@%c.%s@", f.Kind.letter(), f.Feature)
	}
	return fmt.Sprintf("@%c.%s.%d@", f.Kind.letter(), f.Feature, f.Value)
}

// ParseFlag parses a flag spelling produced by Flag.String.
// It returns ErrBadFlag for anything else.
func ParseFlag(s string) (Flag, error) {
	if len(s) < 5 || s[0] != '@' || s[len(s)-1] != '@' || s[2] != '.' {
		return Flag{}, fmt.Errorf("%q: %w", s, ErrBadFlag)
	}
	kind, ok := kindFromLetter(s[1])
	if !ok {
		return Flag{}, fmt.Errorf("%q: unknown operator: %w", s, ErrBadFlag)
	}
	body := s[3 : len(s)-1]
	if body == "" {
		return Flag{}, fmt.Errorf("%q: empty feature: %w", s, ErrBadFlag)
	}
	f := Flag{Kind: kind, Feature: body}
	if i := strings.LastIndexByte(body, '.'); i > 0 && kind != Clear {
		v, err := strconv.Atoi(body[i+1:])
		if err != nil || v <= 0 {
			return Flag{}, fmt.Errorf("%q: bad value: %w", s, ErrBadFlag)
		}
		f.Feature, f.Value = body[:i], v
	}

	return f, nil
}

// looksLikeFlag reports whether s is spelled like a flag diacritic.
func looksLikeFlag(s string) bool {
	return len(s) >= 5 && s[0] == '@' && s[len(s)-1] == '@' && s[2] == '.'
}

// flagValue is the current setting of one feature.
type flagValue struct {
	value   int
	negated bool
}

// FlagState is the feature → value store evaluated along one path.
// The zero value (nil) is the empty state. FlagState is treated as
// immutable: Apply returns a fresh copy when it changes anything.
type FlagState map[string]flagValue

// Apply evaluates f against s. It reports whether the path may continue
// and returns the (possibly updated) state.
func (f Flag) Apply(s FlagState) (FlagState, bool) {
	cur, set := s[f.Feature]
	switch f.Kind {
	case Unification:
		switch {
		case !set:
			return s.with(f.Feature, flagValue{value: f.Value}), true
		case cur.negated && cur.value != f.Value:
			return s.with(f.Feature, flagValue{value: f.Value}), true
		case !cur.negated && cur.value == f.Value:
			return s, true
		default:
			return s, false
		}
	case Positive:
		return s.with(f.Feature, flagValue{value: f.Value}), true
	case Negative:
		return s.with(f.Feature, flagValue{value: f.Value, negated: true}), true
	case Require:
		if f.Value == 0 {
			return s, set
		}
		return s, set && !cur.negated && cur.value == f.Value
	case Disallow:
		if f.Value == 0 {
			return s, !set
		}
		return s, !(set && !cur.negated && cur.value == f.Value)
	case Clear:
		if !set {
			return s, true
		}
		return s.without(f.Feature), true
	}
	return s, false
}

// with returns a copy of s with feature set to v.
func (s FlagState) with(feature string, v flagValue) FlagState {
	if cur, ok := s[feature]; ok && cur == v {
		return s
	}
	out := make(FlagState, len(s)+1)
	for k, x := range s {
		out[k] = x
	}
	out[feature] = v

	return out
}

// without returns a copy of s with feature removed.
func (s FlagState) without(feature string) FlagState {
	out := make(FlagState, len(s))
	for k, x := range s {
		if k != feature {
			out[k] = x
		}
	}
	return out
}

// Key returns a canonical encoding of s for visited-set bookkeeping.
func (s FlagState) Key() string {
	if len(s) == 0 {
		return ""
	}
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		v := s[k]
		b.WriteString(k)
		if v.negated {
			b.WriteByte('!')
		} else {
			b.WriteByte('=')
		}
		b.WriteString(strconv.Itoa(v.value))
		b.WriteByte(';')
	}
	return b.String()
}
