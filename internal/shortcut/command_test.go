package shortcut

import (
	"sync"
	"testing"

	"github.com/dshills/keyward/internal/input/key"
)

func TestStripAccelerator(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Save", "Save"},
		{"&Save", "Save"},
		{"Save &As...", "Save As..."},
		{"Save && Quit", "Save & Quit"},
		{"&&&Tools", "&Tools"},
		{"Trailing&", "Trailing"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := StripAccelerator(tt.in); got != tt.want {
			t.Errorf("StripAccelerator(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCommandDisplayName(t *testing.T) {
	if got := NewCommand("main", "file_save", "&Save").DisplayName(); got != "Save" {
		t.Errorf("DisplayName() = %q, want %q", got, "Save")
	}
	if got := NewCommand("main", "file_save", "").DisplayName(); got != "file_save" {
		t.Errorf("DisplayName() without text = %q, want %q", got, "file_save")
	}
}

func TestCommandShortcutsAreCopies(t *testing.T) {
	main := NewActionCollection("main")
	cmd := main.Add("file_save", "Save", key.MustParseSequence("Ctrl+S"))

	got := cmd.Shortcuts()
	got[0] = key.MustParseSequence("F2")

	if !key.EqualLists(cmd.Shortcuts(), key.MustParseSequences("Ctrl+S")) {
		t.Errorf("Shortcuts() leaked internal storage: %v", key.Strings(cmd.Shortcuts()))
	}
}

func TestActionCollectionAddDuplicate(t *testing.T) {
	main := NewActionCollection("main")
	first := main.Add("file_save", "Save")
	second := main.Add("file_save", "Save again")

	if first != second {
		t.Error("Add with a taken name should return the existing command")
	}
	if err := main.AddCommand(NewCommand("other", "file_save", "")); err == nil {
		t.Error("AddCommand with a taken name should fail")
	}
	if main.Len() != 1 {
		t.Errorf("Len() = %d, want 1", main.Len())
	}
}

func TestActionCollectionAdoptsCommand(t *testing.T) {
	main := NewActionCollection("main")
	cmd := NewCommand("elsewhere", "quit", "&Quit")
	if err := main.AddCommand(cmd); err != nil {
		t.Fatalf("AddCommand error = %v", err)
	}
	if cmd.Collection() != "main" {
		t.Errorf("Collection() = %q, want main", cmd.Collection())
	}

	cmd.SetShortcuts(key.MustParseSequences("Ctrl+Q"))
	if !key.EqualLists(main.Shortcuts("quit"), key.MustParseSequences("Ctrl+Q")) {
		t.Error("collection should see shortcuts set through the command")
	}

	if !main.Remove("quit") || main.Remove("quit") {
		t.Error("Remove should succeed once")
	}
}

func TestShortcutCollectionKeepsShortcutsApart(t *testing.T) {
	snippets := NewShortcutCollection("snippets")
	snippets.Define("sig", "&Signature", key.MustParseSequence("Alt+S"))

	cmd := snippets.RealAction("sig")
	if cmd == nil {
		t.Fatal("RealAction(sig) = nil")
	}
	if cmd != snippets.RealAction("sig") {
		t.Error("RealAction should return the same command every time")
	}
	if cmd.local() != nil {
		t.Error("materialized command should not store shortcuts itself")
	}
	if !key.EqualLists(cmd.Shortcuts(), key.MustParseSequences("Alt+S")) {
		t.Errorf("Shortcuts() = %v, want [Alt+S]", key.Strings(cmd.Shortcuts()))
	}

	cmd.SetShortcuts(key.MustParseSequences("Alt+G"))
	if !key.EqualLists(snippets.Shortcuts("sig"), key.MustParseSequences("Alt+G")) {
		t.Errorf("collection Shortcuts = %v, want [Alt+G]", key.Strings(snippets.Shortcuts("sig")))
	}

	if snippets.SetShortcuts("missing", nil) {
		t.Error("SetShortcuts on unknown entry should return false")
	}
	if snippets.RealAction("missing") != nil {
		t.Error("RealAction on unknown entry should return nil")
	}

	if !snippets.Forget("sig") {
		t.Error("Forget(sig) should succeed")
	}
	n := 0
	for range snippets.Actions() {
		n++
	}
	if n != 0 {
		t.Errorf("Actions yielded %d entries after Forget, want 0", n)
	}
}

func TestShortcutCollectionConcurrentDefine(t *testing.T) {
	snippets := NewShortcutCollection("snippets")
	snippets.Define("sig", "&Signature", key.MustParseSequence("Alt+S"))
	cmd := snippets.RealAction("sig")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			snippets.Define("sig", "&Sign", key.MustParseSequence("Alt+G"))
			snippets.Define("sig", "&Signature", key.MustParseSequence("Alt+S"))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_ = cmd.DisplayName()
			_ = cmd.Text()
			_ = cmd.Shortcuts()
		}
	}()
	wg.Wait()

	if got := cmd.DisplayName(); got != "Signature" {
		t.Errorf("DisplayName() = %q, want Signature", got)
	}

	snippets.Forget("sig")
	if got := cmd.Shortcuts(); len(got) != 0 {
		t.Errorf("Shortcuts() after Forget = %v, want none", key.Strings(got))
	}
}

func TestActionsStopEarly(t *testing.T) {
	main := NewActionCollection("main")
	main.Add("a", "A")
	main.Add("b", "B")
	main.Add("c", "C")

	var seen []string
	for name := range main.Actions() {
		seen = append(seen, name)
		if name == "b" {
			break
		}
	}
	if len(seen) != 2 {
		t.Errorf("seen = %v, want [a b]", seen)
	}
}
