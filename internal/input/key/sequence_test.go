package key

import (
	"testing"
)

func TestSequenceBasics(t *testing.T) {
	var empty Sequence
	if !empty.IsEmpty() {
		t.Error("zero Sequence should be empty")
	}
	if empty.Len() != 0 {
		t.Errorf("zero Sequence length = %d, want 0", empty.Len())
	}

	seq := MustParseSequence("Ctrl+K, Ctrl+S")
	if seq.Len() != 2 {
		t.Errorf("Len() = %d, want 2", seq.Len())
	}
	if seq.String() != "Ctrl+K, Ctrl+S" {
		t.Errorf("String() = %q, want %q", seq.String(), "Ctrl+K, Ctrl+S")
	}
	if seq.VimString() != "<C-k><C-s>" {
		t.Errorf("VimString() = %q, want %q", seq.VimString(), "<C-k><C-s>")
	}
}

func TestSequenceCloneIsIndependent(t *testing.T) {
	seq := MustParseSequence("Ctrl+K, Ctrl+S")
	clone := seq.Clone()
	clone.Chords[0] = NewRuneChord('z', ModNone)

	if !seq.Equals(MustParseSequence("Ctrl+K, Ctrl+S")) {
		t.Errorf("original modified through clone: %q", seq)
	}
}

func TestSequenceMatches(t *testing.T) {
	tests := []struct {
		a, b string
		want Match
	}{
		{"Ctrl+S", "Ctrl+S", ExactMatch},
		{"Ctrl+K", "Ctrl+K, Ctrl+S", PartialMatch},
		{"Ctrl+K, Ctrl+S", "Ctrl+K", NoMatch},
		{"Ctrl+K, Ctrl+S", "Ctrl+K, Ctrl+T", NoMatch},
		{"Ctrl+S", "Ctrl+Shift+S", NoMatch},
		{"g", "g g", PartialMatch},
		{"", "Ctrl+S", NoMatch},
		{"Ctrl+S", "", NoMatch},
	}

	for _, tt := range tests {
		a, b := MustParseSequence(tt.a), MustParseSequence(tt.b)
		if got := a.Matches(b); got != tt.want {
			t.Errorf("%q.Matches(%q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestAmbiguousIsSymmetric(t *testing.T) {
	specs := []string{
		"Ctrl+S", "Ctrl+K", "Ctrl+K, Ctrl+S", "Ctrl+K, Ctrl+T",
		"g", "g g", "g g g", "F5", "Shift+F5", "",
	}

	for _, x := range specs {
		for _, y := range specs {
			a, b := MustParseSequence(x), MustParseSequence(y)
			if Ambiguous(a, b) != Ambiguous(b, a) {
				t.Errorf("Ambiguous(%q, %q) != Ambiguous(%q, %q)", x, y, y, x)
			}
		}
	}
}

func TestAmbiguous(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"Ctrl+S", "Ctrl+S", true},
		{"Ctrl+K", "Ctrl+K, Ctrl+S", true},
		{"Ctrl+K, Ctrl+S", "Ctrl+K", true},
		{"Ctrl+K, Ctrl+S", "Ctrl+K, Ctrl+T", false},
		{"Ctrl+S", "Alt+S", false},
		{"", "", false},
	}

	for _, tt := range tests {
		if got := Ambiguous(MustParseSequence(tt.a), MustParseSequence(tt.b)); got != tt.want {
			t.Errorf("Ambiguous(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSequenceListHelpers(t *testing.T) {
	list := MustParseSequences("Ctrl+S", "Ctrl+K, Ctrl+S", "F2")

	if Index(list, MustParseSequence("F2")) != 2 {
		t.Errorf("Index(F2) = %d, want 2", Index(list, MustParseSequence("F2")))
	}
	if Contains(list, MustParseSequence("Ctrl+K")) {
		t.Error("Contains(Ctrl+K) should be false; prefixes are not members")
	}

	clone := CloneAll(list)
	if !EqualLists(list, clone) {
		t.Error("CloneAll should produce an equal list")
	}
	if CloneAll(nil) != nil {
		t.Error("CloneAll(nil) should stay nil")
	}
	if EqualLists(list, clone[:2]) {
		t.Error("EqualLists should compare lengths")
	}
}
