package ui

import (
	"errors"
	"strings"

	"github.com/dshills/keyward/internal/input/key"
	"github.com/dshills/keyward/internal/shortcut"
)

// ErrNoDefaults is returned for "default" when the command has none.
var ErrNoDefaults = errors.New("command has no default shortcuts")

// ParseProposal interprets one line of editor input.
//
//	""           keep current
//	"default"    use defaults
//	"none"       remove every shortcut
//	"cancel"     abandon the edit
//	"F5; Ctrl+K, Ctrl+S"  two sequences
//
// Only the first shortcut.MaxAlternatives sequences are kept, whichever
// form the input takes. A ';' directly after a modifier ("Ctrl+;") or
// inside brackets ("<C-;>") names the key rather than separating entries.
// The second result is false when the user cancelled.
func ParseProposal(input string, current, defaults []key.Sequence) ([]key.Sequence, bool, error) {
	input = strings.TrimSpace(input)
	switch strings.ToLower(input) {
	case "":
		return limit(key.CloneAll(current)), true, nil
	case "cancel":
		return nil, false, nil
	case "none":
		return []key.Sequence{}, true, nil
	case "default":
		if len(defaults) == 0 {
			return nil, true, ErrNoDefaults
		}
		return limit(key.CloneAll(defaults)), true, nil
	}

	seqs, err := key.ParseSequences(splitProposal(input))
	if err != nil {
		return nil, true, err
	}
	return limit(seqs), true, nil
}

func limit(seqs []key.Sequence) []key.Sequence {
	if len(seqs) > shortcut.MaxAlternatives {
		return seqs[:shortcut.MaxAlternatives]
	}
	return seqs
}

// splitProposal splits input on the ';' separators, leaving semicolon keys
// in place.
func splitProposal(input string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(input); i++ {
		afterMod := i > start && (input[i-1] == '+' || input[i-1] == '-')
		switch input[i] {
		case '<':
			if afterMod {
				continue
			}
			if j := strings.IndexByte(input[i:], '>'); j > 1 {
				i += j
			}
		case ';':
			if afterMod {
				continue
			}
			parts = append(parts, input[start:i])
			start = i + 1
		}
	}
	return append(parts, input[start:])
}

// formatList renders sequences for display, "(none)" for an empty list.
func formatList(seqs []key.Sequence) string {
	if len(seqs) == 0 {
		return "(none)"
	}
	return strings.Join(key.Strings(seqs), "; ")
}
