// Package fst defines the Transducer, Alphabet and Flag types together with
// the sentinel errors shared by every operation in the package.
//
// Errors:
//
//	ErrNilTransducer   - a nil *Transducer was passed where one is required.
//	ErrNilAlphabet     - a nil *Alphabet was passed where one is required.
//	ErrStateNotFound   - a state index is outside the transducer.
//	ErrLabelNotFound   - a transition label was never allocated by the alphabet.
//	ErrBadFlag         - a symbol spelled like a flag diacritic could not be parsed.
//	ErrPathLimit       - path enumeration exceeded the configured path budget.
//	ErrOptionViolation - a PathOption received a meaningless value at run time.
package fst

import "errors"

// Sentinel errors for transducer operations.
var (
	// ErrNilTransducer indicates that a nil *Transducer was supplied.
	ErrNilTransducer = errors.New("fst: transducer is nil")

	// ErrNilAlphabet indicates that a nil *Alphabet was supplied.
	ErrNilAlphabet = errors.New("fst: alphabet is nil")

	// ErrStateNotFound indicates an operation referenced a non-existent state.
	ErrStateNotFound = errors.New("fst: state not found")

	// ErrLabelNotFound indicates a transition label unknown to the alphabet.
	ErrLabelNotFound = errors.New("fst: label not found")

	// ErrBadFlag indicates a malformed flag diacritic spelling.
	ErrBadFlag = errors.New("fst: malformed flag diacritic")

	// ErrPathLimit indicates that path enumeration hit its path budget.
	ErrPathLimit = errors.New("fst: path limit exceeded")

	// ErrOptionViolation indicates an invalid option value detected at run time.
	ErrOptionViolation = errors.New("fst: invalid option value")
)

// Symbol is an interned atomic automaton symbol: a character, a multichar
// symbol such as "<n>", or a synthetic flag diacritic. Symbol 0 is epsilon.
type Symbol int32

// Epsilon is the empty symbol.
const Epsilon Symbol = 0

// Label is an interned (input, output) symbol pair. Label 0 is ε:ε.
type Label int32

// EpsilonLabel is the ε:ε transition label.
const EpsilonLabel Label = 0

// Pair is the (input, output) view of a Label.
type Pair struct {
	In  Symbol
	Out Symbol
}

// State indexes a state inside one Transducer.
type State int

// Transition is an outgoing labelled edge.
type Transition struct {
	Label Label
	To    State
}
