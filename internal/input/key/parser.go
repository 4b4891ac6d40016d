package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse errors
var (
	ErrEmptySpec        = errors.New("empty key specification")
	ErrInvalidSpec      = errors.New("invalid key specification")
	ErrUnmatchedBracket = errors.New("unmatched bracket in key specification")
)

// runeNames maps named punctuation and whitespace to their runes.
var runeNames = map[string]rune{
	"space":     ' ',
	"comma":     ',',
	"semicolon": ';',
	"plus":      '+',
	"minus":     '-',
	"lt":        '<',
	"gt":        '>',
	"bar":       '|',
	"bslash":    '\\',
}

// ParseChord parses a single chord specification.
//
// Supported formats:
//   - Single character: "a", "A", "1", "@"
//   - Key names: "Enter", "Escape", "Tab", "F5", "Space", "Comma", "Semicolon"
//   - With modifiers: "Ctrl+S", "Alt+F4", "Ctrl+Shift+P", "Ctrl++"
//   - Vim-style: "<C-s>", "<A-f>", "<C-S-p>", "<CR>", "<Esc>"
func ParseChord(spec string) (Chord, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Chord{}, ErrEmptySpec
	}

	if len(spec) > 2 && spec[0] == '<' {
		if spec[len(spec)-1] != '>' {
			return Chord{}, fmt.Errorf("%w: %q", ErrUnmatchedBracket, spec)
		}
		return parseVimChord(spec[1 : len(spec)-1])
	}

	if len(spec) > 1 && strings.Contains(spec, "+") {
		return parsePlusChord(spec)
	}

	// Bare Vim notation without brackets: "C-s", "A-F4", "C--"
	if i := strings.IndexByte(spec, '-'); i > 0 && len(spec) > 2 && ModifierFromName(spec[:i]) != ModNone {
		return parseVimChord(spec)
	}

	return parseKeyPart(spec, ModNone)
}

// parsePlusChord parses "Ctrl+S" style notation. A trailing "++" names
// the plus key itself.
func parsePlusChord(spec string) (Chord, error) {
	var modPart, keyPart string
	if strings.HasSuffix(spec, "++") {
		modPart, keyPart = spec[:len(spec)-2], "+"
	} else {
		i := strings.LastIndexByte(spec, '+')
		modPart, keyPart = spec[:i], spec[i+1:]
	}

	mods, err := parseModifierList(strings.Split(modPart, "+"))
	if err != nil {
		return Chord{}, err
	}
	return parseKeyPart(keyPart, mods)
}

// parseVimChord parses the inside of "<...>" such as "C-s", "CR" or "C--".
func parseVimChord(inner string) (Chord, error) {
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return Chord{}, ErrInvalidSpec
	}

	var modPart []string
	keyPart := inner
	switch {
	case strings.HasSuffix(inner, "--"):
		modPart = strings.Split(inner[:len(inner)-2], "-")
		keyPart = "-"
	case strings.Contains(inner, "-") && len(inner) > 1:
		parts := strings.Split(inner, "-")
		modPart = parts[:len(parts)-1]
		keyPart = parts[len(parts)-1]
	}

	mods, err := parseModifierList(modPart)
	if err != nil {
		return Chord{}, err
	}
	return parseKeyPart(keyPart, mods)
}

func parseModifierList(names []string) (Modifier, error) {
	var mods Modifier
	for _, name := range names {
		mod := ModifierFromName(name)
		if mod == ModNone {
			return ModNone, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, strings.TrimSpace(name))
		}
		mods = mods.With(mod)
	}
	return mods, nil
}

// parseKeyPart parses a key name or single character with already-known modifiers.
func parseKeyPart(keyPart string, mods Modifier) (Chord, error) {
	keyPart = strings.TrimSpace(keyPart)
	if keyPart == "" {
		// "Ctrl+ " style specs lose their key to TrimSpace
		return Chord{}, ErrInvalidSpec
	}

	if utf8.RuneCountInString(keyPart) == 1 {
		r, _ := utf8.DecodeRuneInString(keyPart)
		if !unicode.IsPrint(r) {
			return Chord{}, fmt.Errorf("%w: unprintable key %q", ErrInvalidSpec, keyPart)
		}
		if mods != ModNone {
			// With explicit modifiers the letter case is not significant:
			// "Ctrl+S" and "Ctrl+s" are the same chord.
			return Chord{Key: KeyRune, Rune: unicode.ToLower(r), Modifiers: mods}, nil
		}
		return NewRuneChord(r, mods), nil
	}

	lower := strings.ToLower(keyPart)
	if r, ok := runeNames[lower]; ok {
		return NewRuneChord(r, mods), nil
	}
	if k := KeyFromName(lower); k != KeyNone {
		return NewSpecialChord(k, mods), nil
	}

	return Chord{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, keyPart)
}

// ParseSequence parses a key sequence string into a Sequence.
// An empty or blank string yields the empty sequence.
// Examples: "Ctrl+K, Ctrl+S", "C-x C-s", "<C-x><C-s>", "gg", "F5"
func ParseSequence(s string) (Sequence, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Sequence{}, nil
	}

	var tokens []string
	switch {
	case strings.Contains(s, ", "):
		tokens = strings.Split(s, ", ")
	case strings.ContainsAny(s, " \t"):
		tokens = strings.Fields(s)
	case isCommaList(s):
		tokens = strings.Split(s, ",")
	default:
		if isContinuous(s) {
			return parseContinuous(s)
		}
		tokens = []string{s}
	}

	seq := Sequence{Chords: make([]Chord, 0, len(tokens))}
	for _, tok := range tokens {
		c, err := ParseChord(tok)
		if err != nil {
			return Sequence{}, fmt.Errorf("parsing %q: %w", s, err)
		}
		seq.Chords = append(seq.Chords, c)
	}
	return seq, nil
}

// isCommaList reports whether s looks like "Ctrl+K,Ctrl+S" rather than a
// single chord naming the comma key ("," or "Ctrl+,").
func isCommaList(s string) bool {
	if len(s) < 3 || !strings.Contains(s, ",") {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] != ',' {
			continue
		}
		if i == 0 || i == len(s)-1 || s[i-1] == '+' {
			return false
		}
	}
	return true
}

// isContinuous reports whether s is a run of Vim-style chords like
// "gg" or "<C-x><C-s>" rather than a single named chord.
func isContinuous(s string) bool {
	if utf8.RuneCountInString(s) < 2 {
		return false
	}
	if s[0] == '<' {
		end := strings.IndexByte(s, '>')
		return end >= 0 && end != len(s)-1
	}
	if strings.Contains(s, "+") {
		return false
	}
	if i := strings.IndexByte(s, '-'); i > 0 && ModifierFromName(s[:i]) != ModNone {
		return false
	}
	lower := strings.ToLower(s)
	if _, ok := runeNames[lower]; ok {
		return false
	}
	return KeyFromName(lower) == KeyNone
}

func parseContinuous(s string) (Sequence, error) {
	seq := Sequence{}
	for i := 0; i < len(s); {
		if s[i] == '<' {
			end := strings.IndexByte(s[i:], '>')
			if end == -1 {
				return Sequence{}, fmt.Errorf("%w: %q", ErrUnmatchedBracket, s)
			}
			c, err := ParseChord(s[i : i+end+1])
			if err != nil {
				return Sequence{}, fmt.Errorf("parsing %q: %w", s, err)
			}
			seq.Chords = append(seq.Chords, c)
			i += end + 1
			continue
		}

		r, size := utf8.DecodeRuneInString(s[i:])
		seq.Chords = append(seq.Chords, NewRuneChord(r, ModNone))
		i += size
	}
	return seq, nil
}

// ParseSequences parses a list of specifications. Blank entries are
// skipped and duplicates collapse onto their first occurrence, so the
// result can be used directly as a shortcut set.
func ParseSequences(specs []string) ([]Sequence, error) {
	out := make([]Sequence, 0, len(specs))
	for _, spec := range specs {
		seq, err := ParseSequence(spec)
		if err != nil {
			return nil, err
		}
		if seq.IsEmpty() || Contains(out, seq) {
			continue
		}
		out = append(out, seq)
	}
	return out, nil
}

// MustParseSequence parses a sequence string and panics on error.
// Use only for known-valid sequences in initialization code and tests.
func MustParseSequence(s string) Sequence {
	seq, err := ParseSequence(s)
	if err != nil {
		panic("invalid key sequence: " + s + ": " + err.Error())
	}
	return seq
}

// MustParseSequences is the list form of MustParseSequence.
func MustParseSequences(specs ...string) []Sequence {
	seqs, err := ParseSequences(specs)
	if err != nil {
		panic("invalid key sequences: " + err.Error())
	}
	return seqs
}

// NormalizeSpec parses and re-formats a sequence specification to its
// canonical portable form.
func NormalizeSpec(spec string) (string, error) {
	seq, err := ParseSequence(spec)
	if err != nil {
		return "", err
	}
	return seq.String(), nil
}
