// SPDX-License-Identifier: MIT
// Package: lexd/intern
//
// intern.go - bidirectional name ↔ handle table.
//
// Contract:
//   • Handle(0) is reserved: it is never returned by Intern and always means
//     "unset" / "anonymous".
//   • Intern is idempotent: the same name always yields the same handle.
//   • Resolve is total over every handle ever returned by Intern.
//   • Handles are dense and allocated in first-seen order, so iteration over
//     1..Len() is deterministic.

// Package intern maps names (lexicon ids, pattern ids, tags) to compact
// integer handles and back. A Table is owned by exactly one compilation and
// is not safe for concurrent mutation.
package intern

import (
	"errors"
	"strconv"
)

// ErrUnknownHandle is returned by Lookup for a handle the table never issued.
var ErrUnknownHandle = errors.New("intern: unknown handle")

// Handle is an opaque interned reference to a name string.
// Equality and ordering are by the underlying integer.
type Handle uint32

// Empty is the distinguished "unset/anonymous" handle.
const Empty Handle = 0

// Valid reports whether h refers to an interned name.
func (h Handle) Valid() bool { return h != Empty }

// Or returns h when it is valid and other otherwise.
func (h Handle) Or(other Handle) Handle {
	if h.Valid() {
		return h
	}
	return other
}

// Less orders handles by allocation order.
func (h Handle) Less(o Handle) bool { return h < o }

// Table is the interning arena.
type Table struct {
	byName    map[string]Handle
	names     []string // names[h] is the name of handle h; names[0] == ""
	anon      map[Handle]bool
	anonCount int
}

// New returns an empty Table with the reserved slot 0 in place.
func New() *Table {
	return &Table{
		byName: make(map[string]Handle),
		names:  []string{""},
		anon:   make(map[Handle]bool),
	}
}

// Intern returns the handle for name, allocating the next integer if the
// name was never seen. The empty string is a regular name here; callers that
// want "anonymous" use Empty directly.
func (t *Table) Intern(name string) Handle {
	if h, ok := t.byName[name]; ok {
		return h
	}
	h := Handle(len(t.names))
	t.names = append(t.names, name)
	t.byName[name] = h

	return h
}

// Has reports whether name has been interned, returning its handle.
func (t *Table) Has(name string) (Handle, bool) {
	h, ok := t.byName[name]
	return h, ok
}

// Resolve returns the name of h, or "" for Empty and unknown handles.
func (t *Table) Resolve(h Handle) string {
	if int(h) >= len(t.names) {
		return ""
	}
	return t.names[h]
}

// Lookup is Resolve with an explicit error for foreign handles.
func (t *Table) Lookup(h Handle) (string, error) {
	if !h.Valid() || int(h) >= len(t.names) {
		return "", ErrUnknownHandle
	}
	return t.names[h], nil
}

// Anonymous interns a fresh synthesized name built from prefix and an
// internal counter. Synthesized names contain a space so they can never
// collide with a name written in a source file.
func (t *Table) Anonymous(prefix string) Handle {
	for {
		t.anonCount++
		name := prefix + " " + strconv.Itoa(t.anonCount)
		if _, taken := t.byName[name]; !taken {
			h := t.Intern(name)
			t.anon[h] = true
			return h
		}
	}
}

// IsAnonymous reports whether h was synthesized by Anonymous.
func (t *Table) IsAnonymous(h Handle) bool { return t.anon[h] }

// Len returns the number of interned names (excluding the reserved slot).
func (t *Table) Len() int { return len(t.names) - 1 }
