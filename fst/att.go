// File: att.go
// Role: AT&T text serialisation.
//
// Format (one line per item, tab separated):
//   - edge:  src dst input output
//   - final: state
//
// Epsilon is written as "@0@", spaces as "@_SPACE_@" and tabs as
// "@_TAB_@", matching the HFST/lttoolbox conventions. States are
// renumbered in BFS order so the initial state is always 0.
package fst

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// attSymbol escapes a symbol spelling for AT&T output.
func attSymbol(a *Alphabet, s Symbol) string {
	if s == Epsilon {
		return "@0@"
	}
	name := a.Name(s)
	switch name {
	case " ":
		return "@_SPACE_@"
	case "\t":
		return "@_TAB_@"
	}
	return name
}

// WriteATT writes t in AT&T text format.
//
// Errors:
//   - ErrNilTransducer / ErrNilAlphabet for nil arguments.
//   - any error from w.
func WriteATT(w io.Writer, t *Transducer, a *Alphabet) error {
	if t == nil {
		return ErrNilTransducer
	}
	if a == nil {
		return ErrNilAlphabet
	}
	trimmed := t.Trim()
	bw := bufio.NewWriter(w)

	for s, out := range trimmed.trans {
		for _, e := range out {
			p, err := a.Pair(e.Label)
			if err != nil {
				return fmt.Errorf("WriteATT: %w", err)
			}
			if _, err = fmt.Fprintf(bw, "%d\t%d\t%s\t%s\n", s, e.To, attSymbol(a, p.In), attSymbol(a, p.Out)); err != nil {
				return err
			}
		}
	}
	for _, f := range trimmed.Finals() {
		if _, err := fmt.Fprintf(bw, "%d\n", f); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// FormatATT returns WriteATT output as a string.
func FormatATT(t *Transducer, a *Alphabet) (string, error) {
	var b strings.Builder
	if err := WriteATT(&b, t, a); err != nil {
		return "", err
	}
	return b.String(), nil
}
