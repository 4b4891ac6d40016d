package config

import (
	"errors"
	"strings"
	"testing"
)

const tomlDefs = `
[[collection]]
name = "main"

[[collection.command]]
name = "file_save"
text = "&Save"
keys = ["Ctrl+S"]
defaults = ["Ctrl+S"]

[[collection.command]]
name = "kill_line"
text = "Kill Line"
keys = ["Ctrl+K, Ctrl+K", "C-k C-l"]

[[collection]]
name = "snippets"
kind = "shortcut"

[[collection.command]]
name = "sig"
text = "Signature"
keys = ["Alt+S"]
`

const yamlDefs = `
collection:
  - name: main
    command:
      - name: file_save
        text: "&Save"
        keys: ["Ctrl+S"]
        defaults: ["Ctrl+S"]
      - name: kill_line
        text: Kill Line
        keys: ["Ctrl+K, Ctrl+K", "C-k C-l"]
  - name: snippets
    kind: shortcut
    command:
      - name: sig
        text: Signature
        keys: ["Alt+S"]
`

const jsonDefs = `{
  "collection": [
    {
      "name": "main",
      "command": [
        {"name": "file_save", "text": "&Save", "keys": ["Ctrl+S"], "defaults": ["Ctrl+S"]},
        {"name": "kill_line", "text": "Kill Line", "keys": ["Ctrl+K, Ctrl+K", "C-k C-l"]}
      ]
    },
    {
      "name": "snippets",
      "kind": "shortcut",
      "command": [{"name": "sig", "text": "Signature", "keys": ["Alt+S"]}]
    }
  ]
}`

func TestDecodeFormats(t *testing.T) {
	tests := []struct {
		path    string
		content string
	}{
		{"defs.toml", tomlDefs},
		{"defs.yaml", yamlDefs},
		{"defs.yml", yamlDefs},
		{"defs.JSON", jsonDefs},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			f, err := Decode(tt.path, []byte(tt.content))
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if len(f.Collections) != 2 {
				t.Fatalf("got %d collections, want 2", len(f.Collections))
			}

			main := f.Collections[0]
			if main.Name != "main" || main.EffectiveKind() != KindAction || main.Source != tt.path {
				t.Errorf("main = %+v", main)
			}
			if len(main.Commands) != 2 {
				t.Fatalf("main has %d commands, want 2", len(main.Commands))
			}
			save := main.Commands[0]
			if save.Text != "&Save" || len(save.Keys) != 1 || save.Keys[0] != "Ctrl+S" || len(save.Defaults) != 1 {
				t.Errorf("file_save = %+v", save)
			}
			if got := main.Commands[1].Keys; len(got) != 2 || got[1] != "C-k C-l" {
				t.Errorf("kill_line keys = %v", got)
			}

			if f.Collections[1].EffectiveKind() != KindShortcut {
				t.Errorf("snippets kind = %q, want shortcut", f.Collections[1].Kind)
			}
		})
	}
}

func TestDecodeEmpty(t *testing.T) {
	for _, path := range []string{"a.toml", "a.yaml", "a.json"} {
		f, err := Decode(path, []byte("\n"))
		if err != nil {
			t.Errorf("Decode(%s) error = %v", path, err)
			continue
		}
		if len(f.Collections) != 0 {
			t.Errorf("Decode(%s) = %d collections, want 0", path, len(f.Collections))
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		path     string
		content  string
		wantLine int
	}{
		{"bad.toml", "[[collection]]\nname = \"main\"\ncolor = \"red\"\n", 3},
		{"bad.yaml", "collection:\n  - name: main\n    colour: red\n", 3},
		{"bad.json", "{\n  \"collection\": [\n    {\"name\": 42}\n  ]\n}", 3},
		{"bad.json", "{\n  \"collection\": [,]\n}", 2},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := Decode(tt.path, []byte(tt.content))
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error = %v, want *ParseError", err)
			}
			if pe.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d (%v)", pe.Line, tt.wantLine, err)
			}
			if pe.Path != tt.path {
				t.Errorf("Path = %q, want %q", pe.Path, tt.path)
			}
		})
	}
}

func TestDecodeUnknownFormat(t *testing.T) {
	if _, err := Decode("keys.ini", nil); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("error = %v, want ErrUnknownFormat", err)
	}
}

func TestEncodeDecode(t *testing.T) {
	src, err := Decode("defs.toml", []byte(tomlDefs))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	for _, path := range []string{"out.toml", "out.yaml", "out.json"} {
		data, err := Encode(path, src)
		if err != nil {
			t.Fatalf("Encode(%s) failed: %v", path, err)
		}
		back, err := Decode(path, data)
		if err != nil {
			t.Fatalf("Decode(%s) failed: %v\n%s", path, err, data)
		}
		if len(back.Collections) != 2 || len(back.Collections[0].Commands) != 2 {
			t.Errorf("%s lost data:\n%s", path, data)
			continue
		}
		if got := back.Collections[0].Commands[1].Keys; strings.Join(got, "|") != "Ctrl+K, Ctrl+K|C-k C-l" {
			t.Errorf("%s keys = %v", path, got)
		}
	}
}

func TestParseErrorMessage(t *testing.T) {
	tests := []struct {
		err  ParseError
		want string
	}{
		{ParseError{Path: "a.toml", Line: 3, Column: 5, Message: "boom"}, "parse error in a.toml at line 3, column 5: boom"},
		{ParseError{Path: "a.yaml", Line: 3, Message: "boom"}, "parse error in a.yaml at line 3: boom"},
		{ParseError{Path: "a.json", Message: "boom"}, "parse error in a.json: boom"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
