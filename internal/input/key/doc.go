// Package key provides key chord and key sequence types for shortcut handling.
//
// This package defines the fundamental types for describing keyboard shortcuts:
//
//   - Key: Identifies a keyboard key (special keys, function keys, or runes)
//   - Modifier: Represents modifier keys (Ctrl, Alt, Shift, Meta)
//   - Chord: A single key together with the modifiers held while pressing it
//   - Sequence: An ordered series of chords forming one shortcut
//
// # Key Specifications
//
// Sequences can be written in several formats:
//
//   - Portable form: "Ctrl+S", "Ctrl+K, Ctrl+S", "Ctrl+Shift+P"
//   - Space separated: "C-x C-s", "g g"
//   - Vim-style: "<C-s>", "<C-x><C-s>", "gg", "<CR>"
//
// The canonical text form produced by Sequence.String is the portable form.
//
// # Matching
//
// Two sequences are ambiguous when one is a prefix of the other, equality
// included. A shorter shortcut fires before a longer one sharing its prefix
// can be completed, so "Ctrl+K" and "Ctrl+K, Ctrl+S" cannot both be bound.
package key
