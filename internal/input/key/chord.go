package key

import (
	"fmt"
	"strings"
	"unicode"
)

// Chord is a single key press together with the modifiers held down.
// Letter runes are stored lowercase; an uppercase letter is expressed
// through ModShift so "A", "Shift+a" and "Shift+A" compare equal.
type Chord struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune chords.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier
}

// NewRuneChord creates a chord for a character key.
func NewRuneChord(r rune, mods Modifier) Chord {
	if unicode.IsUpper(r) {
		r = unicode.ToLower(r)
		mods = mods.With(ModShift)
	}
	return Chord{Key: KeyRune, Rune: r, Modifiers: mods}
}

// NewSpecialChord creates a chord for a special key.
func NewSpecialChord(k Key, mods Modifier) Chord {
	return Chord{Key: k, Modifiers: mods}
}

// IsZero reports whether the chord holds no key.
func (c Chord) IsZero() bool {
	return c.Key == KeyNone
}

// Equals returns true if two chords represent the same key press.
func (c Chord) Equals(other Chord) bool {
	return c.Key == other.Key && c.Rune == other.Rune && c.Modifiers == other.Modifiers
}

// String returns the portable representation.
// Examples: "a", "Shift+G", "Ctrl+S", "Ctrl+Shift+P", "F5", "Space"
func (c Chord) String() string {
	var name string
	switch c.Key {
	case KeyRune:
		switch {
		case c.Rune == ' ':
			name = "Space"
		case c.Rune == ',':
			name = "Comma"
		case c.Rune == '+':
			name = "Plus"
		case c.Rune == ';':
			name = "Semicolon"
		case c.Modifiers != ModNone:
			name = string(unicode.ToUpper(c.Rune))
		default:
			name = string(c.Rune)
		}
	default:
		name = c.Key.String()
	}

	if c.Modifiers == ModNone {
		return name
	}
	return c.Modifiers.String() + "+" + name
}

// VimString returns a Vim-style representation.
// Examples: "a", "G", "<C-s>", "<C-S-p>", "<CR>"
func (c Chord) VimString() string {
	if c.Key == KeyRune && c.Modifiers.Without(ModShift) == ModNone && c.Rune != ' ' && c.Rune != '<' {
		if c.Modifiers.Has(ModShift) {
			return string(unicode.ToUpper(c.Rune))
		}
		return string(c.Rune)
	}

	parts := make([]string, 0, 5)
	if c.Modifiers.Has(ModCtrl) {
		parts = append(parts, "C")
	}
	if c.Modifiers.Has(ModAlt) {
		parts = append(parts, "A")
	}
	if c.Modifiers.Has(ModShift) {
		parts = append(parts, "S")
	}
	if c.Modifiers.Has(ModMeta) {
		parts = append(parts, "D")
	}

	switch {
	case c.Key == KeyRune && c.Rune == ' ':
		parts = append(parts, "Space")
	case c.Key == KeyRune && c.Rune == '<':
		parts = append(parts, "lt")
	case c.Key == KeyRune:
		parts = append(parts, string(c.Rune))
	case c.Key == KeyEnter:
		parts = append(parts, "CR")
	case c.Key == KeyBackspace:
		parts = append(parts, "BS")
	default:
		parts = append(parts, c.Key.String())
	}
	return "<" + strings.Join(parts, "-") + ">"
}

// GoString implements fmt.GoStringer for debugging.
func (c Chord) GoString() string {
	return fmt.Sprintf("Chord{Key: %s, Rune: %q, Modifiers: %s}", c.Key, c.Rune, c.Modifiers)
}
