package key

import (
	"slices"
	"strings"
)

// Sequence is an ordered series of chords forming one shortcut.
// Examples: "Ctrl+S", "Ctrl+K, Ctrl+S", "g g"
//
// Sequences are values; the zero Sequence is empty and means "no shortcut".
type Sequence struct {
	// Chords contains the chords in activation order.
	Chords []Chord
}

// NewSequence creates a sequence from the given chords.
func NewSequence(chords ...Chord) Sequence {
	return Sequence{Chords: chords}
}

// Len returns the number of chords in the sequence.
func (s Sequence) Len() int {
	return len(s.Chords)
}

// IsEmpty returns true if the sequence has no chords.
func (s Sequence) IsEmpty() bool {
	return len(s.Chords) == 0
}

// Equals returns true if two sequences are identical.
func (s Sequence) Equals(other Sequence) bool {
	return slices.EqualFunc(s.Chords, other.Chords, Chord.Equals)
}

// HasPrefix returns true if this sequence starts with prefix.
// Every sequence has the empty prefix.
func (s Sequence) HasPrefix(prefix Sequence) bool {
	if len(prefix.Chords) > len(s.Chords) {
		return false
	}
	return slices.EqualFunc(prefix.Chords, s.Chords[:len(prefix.Chords)], Chord.Equals)
}

// Match describes how one sequence relates to another.
type Match int

const (
	// NoMatch means the sequences diverge.
	NoMatch Match = iota

	// PartialMatch means the receiver is a proper prefix of the argument.
	PartialMatch

	// ExactMatch means the sequences are equal.
	ExactMatch
)

// String returns the match name.
func (m Match) String() string {
	switch m {
	case PartialMatch:
		return "partial"
	case ExactMatch:
		return "exact"
	default:
		return "none"
	}
}

// Matches reports how s relates to other. Typing s completely either
// triggers other (ExactMatch), leaves other pending (PartialMatch), or
// rules other out (NoMatch). An empty sequence matches nothing.
func (s Sequence) Matches(other Sequence) Match {
	if s.IsEmpty() || other.IsEmpty() {
		return NoMatch
	}
	if !other.HasPrefix(s) {
		return NoMatch
	}
	if len(s.Chords) == len(other.Chords) {
		return ExactMatch
	}
	return PartialMatch
}

// Ambiguous reports whether a and b cannot both be bound: one is a
// prefix of the other, equality included. The relation is symmetric.
func Ambiguous(a, b Sequence) bool {
	return a.Matches(b) != NoMatch || b.Matches(a) != NoMatch
}

// String returns the portable representation, chords joined by ", ".
func (s Sequence) String() string {
	parts := make([]string, len(s.Chords))
	for i, c := range s.Chords {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}

// VimString returns a Vim-style representation such as "<C-x><C-s>".
func (s Sequence) VimString() string {
	var sb strings.Builder
	for _, c := range s.Chords {
		sb.WriteString(c.VimString())
	}
	return sb.String()
}

// Clone returns a copy that shares no storage with s.
func (s Sequence) Clone() Sequence {
	return Sequence{Chords: slices.Clone(s.Chords)}
}

// Index returns the position of s in list, or -1.
func Index(list []Sequence, s Sequence) int {
	return slices.IndexFunc(list, s.Equals)
}

// Contains reports whether list holds a sequence equal to s.
func Contains(list []Sequence, s Sequence) bool {
	return Index(list, s) >= 0
}

// CloneAll deep-copies a list of sequences. A nil list stays nil.
func CloneAll(list []Sequence) []Sequence {
	if list == nil {
		return nil
	}
	out := make([]Sequence, len(list))
	for i, s := range list {
		out[i] = s.Clone()
	}
	return out
}

// EqualLists reports whether two lists hold equal sequences in the same order.
func EqualLists(a, b []Sequence) bool {
	return slices.EqualFunc(a, b, Sequence.Equals)
}

// Strings formats every sequence in list.
func Strings(list []Sequence) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.String()
	}
	return out
}
