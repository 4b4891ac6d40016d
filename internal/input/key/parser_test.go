package key

import (
	"errors"
	"testing"
)

func TestParseChordSingleCharacter(t *testing.T) {
	tests := []struct {
		spec     string
		wantRune rune
		wantMod  Modifier
	}{
		{"a", 'a', ModNone},
		{"A", 'a', ModShift},
		{"1", '1', ModNone},
		{"@", '@', ModNone},
		{",", ',', ModNone},
		{"+", '+', ModNone},
		{"-", '-', ModNone},
	}

	for _, tt := range tests {
		c, err := ParseChord(tt.spec)
		if err != nil {
			t.Errorf("ParseChord(%q) error = %v", tt.spec, err)
			continue
		}
		if c.Key != KeyRune {
			t.Errorf("ParseChord(%q) key = %v, want KeyRune", tt.spec, c.Key)
		}
		if c.Rune != tt.wantRune {
			t.Errorf("ParseChord(%q) rune = %q, want %q", tt.spec, c.Rune, tt.wantRune)
		}
		if c.Modifiers != tt.wantMod {
			t.Errorf("ParseChord(%q) modifiers = %v, want %v", tt.spec, c.Modifiers, tt.wantMod)
		}
	}
}

func TestParseChordNamedKeys(t *testing.T) {
	tests := []struct {
		spec    string
		wantKey Key
	}{
		{"Enter", KeyEnter},
		{"return", KeyEnter},
		{"Escape", KeyEscape},
		{"Esc", KeyEscape},
		{"Tab", KeyTab},
		{"Backspace", KeyBackspace},
		{"Del", KeyDelete},
		{"Up", KeyUp},
		{"PgDown", KeyPageDown},
		{"F1", KeyF1},
		{"F12", KeyF12},
	}

	for _, tt := range tests {
		c, err := ParseChord(tt.spec)
		if err != nil {
			t.Errorf("ParseChord(%q) error = %v", tt.spec, err)
			continue
		}
		if c.Key != tt.wantKey {
			t.Errorf("ParseChord(%q) key = %v, want %v", tt.spec, c.Key, tt.wantKey)
		}
	}
}

func TestParseChordModifiers(t *testing.T) {
	tests := []struct {
		spec string
		want Chord
	}{
		{"Ctrl+S", Chord{Key: KeyRune, Rune: 's', Modifiers: ModCtrl}},
		{"ctrl+s", Chord{Key: KeyRune, Rune: 's', Modifiers: ModCtrl}},
		{"Ctrl+Shift+P", Chord{Key: KeyRune, Rune: 'p', Modifiers: ModCtrl | ModShift}},
		{"Shift+A", Chord{Key: KeyRune, Rune: 'a', Modifiers: ModShift}},
		{"Alt+F4", Chord{Key: KeyF4, Modifiers: ModAlt}},
		{"Cmd+Q", Chord{Key: KeyRune, Rune: 'q', Modifiers: ModMeta}},
		{"Ctrl++", Chord{Key: KeyRune, Rune: '+', Modifiers: ModCtrl}},
		{"Ctrl+,", Chord{Key: KeyRune, Rune: ',', Modifiers: ModCtrl}},
		{"Ctrl+Space", Chord{Key: KeyRune, Rune: ' ', Modifiers: ModCtrl}},
		{"<C-s>", Chord{Key: KeyRune, Rune: 's', Modifiers: ModCtrl}},
		{"<C-S-p>", Chord{Key: KeyRune, Rune: 'p', Modifiers: ModCtrl | ModShift}},
		{"<CR>", Chord{Key: KeyEnter}},
		{"<S-Tab>", Chord{Key: KeyTab, Modifiers: ModShift}},
		{"<lt>", Chord{Key: KeyRune, Rune: '<'}},
		{"C-x", Chord{Key: KeyRune, Rune: 'x', Modifiers: ModCtrl}},
		{"C--", Chord{Key: KeyRune, Rune: '-', Modifiers: ModCtrl}},
	}

	for _, tt := range tests {
		got, err := ParseChord(tt.spec)
		if err != nil {
			t.Errorf("ParseChord(%q) error = %v", tt.spec, err)
			continue
		}
		if !got.Equals(tt.want) {
			t.Errorf("ParseChord(%q) = %#v, want %#v", tt.spec, got, tt.want)
		}
	}
}

func TestParseChordErrors(t *testing.T) {
	tests := []struct {
		spec    string
		wantErr error
	}{
		{"", ErrEmptySpec},
		{"   ", ErrEmptySpec},
		{"Hyper+S", ErrInvalidSpec},
		{"Ctrl+Bogus", ErrInvalidSpec},
		{"<>", ErrInvalidSpec},
		{"<C-s", ErrUnmatchedBracket},
		{"Nonsense", ErrInvalidSpec},
	}

	for _, tt := range tests {
		_, err := ParseChord(tt.spec)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("ParseChord(%q) error = %v, want %v", tt.spec, err, tt.wantErr)
		}
	}
}

func TestParseSequenceFormats(t *testing.T) {
	ctrlK := Chord{Key: KeyRune, Rune: 'k', Modifiers: ModCtrl}
	ctrlS := Chord{Key: KeyRune, Rune: 's', Modifiers: ModCtrl}
	ctrlX := Chord{Key: KeyRune, Rune: 'x', Modifiers: ModCtrl}
	g := Chord{Key: KeyRune, Rune: 'g'}

	tests := []struct {
		spec string
		want []Chord
	}{
		{"Ctrl+S", []Chord{ctrlS}},
		{"Ctrl+K, Ctrl+S", []Chord{ctrlK, ctrlS}},
		{"Ctrl+K,Ctrl+S", []Chord{ctrlK, ctrlS}},
		{"C-x", []Chord{ctrlX}},
		{"C-x C-s", []Chord{ctrlX, ctrlS}},
		{"<C-x><C-s>", []Chord{ctrlX, ctrlS}},
		{"g g", []Chord{g, g}},
		{"gg", []Chord{g, g}},
		{"F5", []Chord{{Key: KeyF5}}},
		{"Space", []Chord{{Key: KeyRune, Rune: ' '}}},
		{"Ctrl+,", []Chord{{Key: KeyRune, Rune: ',', Modifiers: ModCtrl}}},
	}

	for _, tt := range tests {
		got, err := ParseSequence(tt.spec)
		if err != nil {
			t.Errorf("ParseSequence(%q) error = %v", tt.spec, err)
			continue
		}
		if !got.Equals(NewSequence(tt.want...)) {
			t.Errorf("ParseSequence(%q) = %q, want %q", tt.spec, got, NewSequence(tt.want...))
		}
	}
}

func TestParseSequenceEmpty(t *testing.T) {
	seq, err := ParseSequence("  ")
	if err != nil {
		t.Fatalf("ParseSequence(blank) error = %v", err)
	}
	if !seq.IsEmpty() {
		t.Errorf("ParseSequence(blank) = %q, want empty", seq)
	}
}

func TestParseSequenceError(t *testing.T) {
	if _, err := ParseSequence("Ctrl+K, Hyper+S"); !errors.Is(err, ErrInvalidSpec) {
		t.Errorf("ParseSequence error = %v, want ErrInvalidSpec", err)
	}
	if _, err := ParseSequence("g<C-s"); !errors.Is(err, ErrUnmatchedBracket) {
		t.Errorf("ParseSequence error = %v, want ErrUnmatchedBracket", err)
	}
}

func TestParseSequencesDeduplicates(t *testing.T) {
	got, err := ParseSequences([]string{"Ctrl+S", "", "ctrl+s", "<C-s>", "F2"})
	if err != nil {
		t.Fatalf("ParseSequences error = %v", err)
	}
	want := []string{"Ctrl+S", "F2"}
	if !equalStrings(Strings(got), want) {
		t.Errorf("ParseSequences = %v, want %v", Strings(got), want)
	}
}

func TestNormalizeSpecRoundTrip(t *testing.T) {
	tests := []struct {
		spec string
		want string
	}{
		{"ctrl+s", "Ctrl+S"},
		{"<C-x><C-s>", "Ctrl+X, Ctrl+S"},
		{"C-k C-s", "Ctrl+K, Ctrl+S"},
		{"G", "Shift+G"},
		{"shift+alt+ctrl+a", "Ctrl+Alt+Shift+A"},
		{"Ctrl++", "Ctrl+Plus"},
		{"Ctrl+,", "Ctrl+Comma"},
		{"Ctrl+;", "Ctrl+Semicolon"},
		{";", "Semicolon"},
		{"ctrl+semicolon", "Ctrl+Semicolon"},
		{"<C-;>", "Ctrl+Semicolon"},
		{"<CR>", "Return"},
		{"gg", "g, g"},
	}

	for _, tt := range tests {
		got, err := NormalizeSpec(tt.spec)
		if err != nil {
			t.Errorf("NormalizeSpec(%q) error = %v", tt.spec, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeSpec(%q) = %q, want %q", tt.spec, got, tt.want)
		}

		again, err := NormalizeSpec(got)
		if err != nil {
			t.Errorf("NormalizeSpec(%q) error = %v", got, err)
			continue
		}
		if again != got {
			t.Errorf("NormalizeSpec is not stable: %q -> %q", got, again)
		}
	}
}

func TestMustParseSequencePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParseSequence should panic on invalid input")
		}
	}()
	MustParseSequence("Hyper+Q")
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
