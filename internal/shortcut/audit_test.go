package shortcut

import (
	"testing"

	"github.com/dshills/keyward/internal/input/key"
)

func TestAudit(t *testing.T) {
	reg := NewRegistry()
	main := NewActionCollection("main")
	main.Add("save", "Save", key.MustParseSequence("Ctrl+S"))
	main.Add("chord", "Chord", key.MustParseSequence("Ctrl+K, Ctrl+S"), key.MustParseSequence("Ctrl+K, Ctrl+K"))
	main.Add("open", "Open", key.MustParseSequence("Ctrl+O"))
	reg.Register(main)

	snippets := NewShortcutCollection("snippets")
	snippets.Define("sig", "Signature", key.MustParseSequence("Ctrl+S, s"))
	snippets.Define("kill", "Kill", key.MustParseSequence("Ctrl+K"))
	reg.Register(snippets)

	got := Audit(reg)
	want := []string{
		"main/save (Ctrl+S) <> snippets/sig (Ctrl+S, s)",
		"main/chord (Ctrl+K, Ctrl+S) <> snippets/kill (Ctrl+K)",
		"main/chord (Ctrl+K, Ctrl+K) <> snippets/kill (Ctrl+K)",
	}
	if len(got) != len(want) {
		t.Fatalf("Audit() returned %d ambiguities, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i].String() != want[i] {
			t.Errorf("ambiguity %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAuditIgnoresOwnSequences(t *testing.T) {
	reg := NewRegistry()
	main := NewActionCollection("main")
	main.Add("chord", "Chord", key.MustParseSequence("Ctrl+K"), key.MustParseSequence("Ctrl+K, Ctrl+S"))
	reg.Register(main)

	if got := Audit(reg); len(got) != 0 {
		t.Errorf("Audit() = %v, want none", got)
	}
}
