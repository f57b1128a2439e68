// SPDX-License-Identifier: MIT
// Package: lexd
//
// errors.go - sentinel errors and the positioned CompileError wrapper.
//
// Every failure the compiler reports wraps exactly one sentinel, so callers
// branch with errors.Is and read the location with errors.As:
//
//	var ce *lexd.CompileError
//	if errors.As(err, &ce) { fmt.Println(ce.Line, ce.Name) }
//
// Error classes:
//
//	Reference: ErrUnknownName, ErrRedefined, ErrCycle
//	Shape:     ErrColumnCount, ErrTagConflict, ErrBoundRepeat, ErrBadSieve
//	Emptiness: ErrNoMatch
//	Internal:  ErrInternal
package lexd

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownName: a pattern element names neither a lexicon nor a pattern.
	ErrUnknownName = errors.New("lexd: undefined name")

	// ErrRedefined: a name is used both as a lexicon and as a pattern.
	ErrRedefined = errors.New("lexd: name defined twice")

	// ErrCycle: a pattern refers to itself, directly or through other patterns.
	ErrCycle = errors.New("lexd: recursive pattern")

	// ErrColumnCount: an entry or reference disagrees with the lexicon's column count.
	ErrColumnCount = errors.New("lexd: column count mismatch")

	// ErrTagConflict: one tag is both required and excluded on the same element.
	ErrTagConflict = errors.New("lexd: tag both required and excluded")

	// ErrBoundRepeat: occurrences that must share one row are split by a
	// repetition, e.g. L(1)+ L(2).
	ErrBoundRepeat = errors.New("lexd: correlated lexicon inside a repetition")

	// ErrBadSieve: sieve markers are misplaced (leading, trailing, doubled or out of order).
	ErrBadSieve = errors.New("lexd: malformed sieve")

	// ErrNoMatch: a reference selects no entries or a pattern has no surviving body.
	ErrNoMatch = errors.New("lexd: reference matches nothing")

	// ErrInternal: an invariant of the compiler itself was broken.
	ErrInternal = errors.New("lexd: internal error")
)

// Class groups sentinels by the taxonomy above.
type Class uint8

const (
	ClassNone Class = iota
	ClassReference
	ClassShape
	ClassEmptiness
	ClassInternal
)

// String returns a lowercase class name.
func (c Class) String() string {
	switch c {
	case ClassReference:
		return "reference"
	case ClassShape:
		return "shape"
	case ClassEmptiness:
		return "emptiness"
	case ClassInternal:
		return "internal"
	}
	return "none"
}

// Classify maps err to its class (ClassNone for foreign errors).
func Classify(err error) Class {
	switch {
	case err == nil:
		return ClassNone
	case errors.Is(err, ErrUnknownName), errors.Is(err, ErrRedefined), errors.Is(err, ErrCycle):
		return ClassReference
	case errors.Is(err, ErrColumnCount), errors.Is(err, ErrTagConflict),
		errors.Is(err, ErrBoundRepeat), errors.Is(err, ErrBadSieve):
		return ClassShape
	case errors.Is(err, ErrNoMatch):
		return ClassEmptiness
	case errors.Is(err, ErrInternal):
		return ClassInternal
	}
	return ClassNone
}

// CompileError carries the source line and offending name of a failure.
// Line is 0 when no source position is known.
type CompileError struct {
	Line int
	Name string
	Err  error
}

// Error implements error.
func (e *CompileError) Error() string {
	switch {
	case e.Line > 0 && e.Name != "":
		return fmt.Sprintf("line %d: %s: %v", e.Line, e.Name, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	case e.Name != "":
		return fmt.Sprintf("%s: %v", e.Name, e.Err)
	}
	return e.Err.Error()
}

// Unwrap exposes the sentinel.
func (e *CompileError) Unwrap() error { return e.Err }

// errAt wraps err with a position. An error that already carries a
// position keeps its name and only gains a line if it had none.
func errAt(line int, name string, err error) error {
	var ce *CompileError
	if errors.As(err, &ce) {
		if ce.Line == 0 && line > 0 {
			return &CompileError{Line: line, Name: ce.Name, Err: ce.Err}
		}
		return err
	}
	return &CompileError{Line: line, Name: name, Err: err}
}
