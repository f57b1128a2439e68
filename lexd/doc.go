// SPDX-License-Identifier: MIT

// Package lexd compiles a lexicon-and-pattern grammar into a finite-state
// transducer.
//
// A grammar has two parts:
//
//   - Lexicons: named tables whose rows (entries) have a fixed number of
//     columns. Each cell is a segment: a left (input) and right (output)
//     symbol string plus a set of tags.
//   - Patterns: named sets of alternative bodies. A body is a sequence of
//     pattern elements, each referring to a lexicon column or to another
//     pattern, optionally restricted to one side, filtered by required or
//     excluded tags, and modified by ?, + or *.
//
// Build resolves the top-level pattern recursively:
//
//	c := lexd.New(lexd.WithAlign())
//	// populate with AddEntry / AddPattern, or use package reader
//	res, err := c.Build()
//	if err != nil { ... }
//	fst.WriteATT(os.Stdout, res.Transducer, res.Alphabet)
//
// Row correlation:
//
// When one lexicon is used several times in a body (typically different
// columns, as in Stem(1) Suffix Stem(2)), the choices must come from the
// same row. Such lexicons are "bound": each of their entry fragments starts
// with @U.<lexicon>.<row>@, so mismatching rows fail unification at lookup
// time. Lexicons used once, in one column, are "free" and carry no flags.
//
// Tags:
//
// Exclusions ([-t]) always prune statically. Requirements ([t]) are
// expanded statically into a union over the positions that can carry the
// tag; WithTagsAsFlags replaces that expansion with pending-requirement
// flags (@P.+t.1@ … @C.+t@ … @D.+t.1@).
//
// Errors wrap one of the package sentinels in *CompileError; see Classify.
package lexd
