package config

import (
	"errors"
	"io/fs"
	"testing"
	"time"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return &memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return 0 }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return time.Now() }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestLoad(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/etc/keyward/keyward.toml", `
include = ["keys/editor.toml"]
plugins = ["plugins/vim.lua", "/abs/other.lua"]

[log]
level = "debug"

[ui]
mode = "line"
separator = " / "

[[collection]]
name = "main"

[[collection.command]]
name = "file_save"
text = "&Save"
keys = ["Ctrl+S"]
`)

	cfg, err := NewLoader(WithFS(memfs), WithEnv(noEnv)).Load("/etc/keyward/keyward.toml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Log.Format = %q, want default text", cfg.Log.Format)
	}
	if cfg.UI.Mode != UIModeLine || cfg.UI.Separator != " / " {
		t.Errorf("UI = %+v", cfg.UI)
	}
	if cfg.Path != "/etc/keyward/keyward.toml" {
		t.Errorf("Path = %q", cfg.Path)
	}

	plugins := cfg.PluginPaths()
	want := []string{"/etc/keyward/plugins/vim.lua", "/abs/other.lua"}
	if len(plugins) != 2 || plugins[0] != want[0] || plugins[1] != want[1] {
		t.Errorf("PluginPaths() = %v, want %v", plugins, want)
	}

	if len(cfg.Collections) != 1 {
		t.Fatalf("got %d inline collections, want 1", len(cfg.Collections))
	}
	c := cfg.Collections[0]
	if c.Name != "main" || c.Source != cfg.Path || len(c.Commands) != 1 || c.Commands[0].Keys[0] != "Ctrl+S" {
		t.Errorf("inline collection = %+v", c)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := NewLoader(WithFS(NewMemFS()), WithEnv(noEnv)).Load("/nope.toml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Path != "" {
		t.Errorf("Path = %q, want empty", cfg.Path)
	}
	if cfg.UI.Mode != UIModeAuto || cfg.Log.Level != "info" {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/keyward.toml", "plugins = [\"a.lua\"]\n[ui]\nmode = \"line\"\n")

	env := envMap(map[string]string{
		"KEYWARD_LOG_LEVEL":  "warn",
		"KEYWARD_LOG_FORMAT": "JSON",
		"KEYWARD_UI_MODE":    "Screen",
		"KEYWARD_PLUGINS":    "b.lua",
	})
	cfg, err := NewLoader(WithFS(memfs), WithEnv(env)).Load("/keyward.toml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want json", cfg.Log.Format)
	}
	if cfg.UI.Mode != UIModeScreen {
		t.Errorf("UI.Mode = %q, want screen", cfg.UI.Mode)
	}
	if len(cfg.Plugins) != 2 || cfg.Plugins[1] != "b.lua" {
		t.Errorf("Plugins = %v, want [a.lua b.lua]", cfg.Plugins)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantLine int
		wantErr  error
	}{
		{"syntax", "[log]\nlevel = \n", 2, nil},
		{"unknown key", "[log]\nlevel = \"info\"\ncolour = true\n", 3, nil},
		{"bad mode", "[ui]\nmode = \"gui\"\n", 0, ErrInvalidValue},
		{"bad format", "[log]\nformat = \"xml\"\n", 0, ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			memfs := NewMemFS()
			memfs.AddFile("/keyward.toml", tt.content)

			_, err := NewLoader(WithFS(memfs), WithEnv(noEnv)).Load("/keyward.toml")
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error = %T %v, want *ParseError", err, err)
			}
			if pe.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d", pe.Line, tt.wantLine)
			}
		})
	}
}

func TestDefinitionsFollowIncludes(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/cfg/keyward.toml", `
include = ["keys/base.toml"]

[[collection]]
name = "inline"
`)
	memfs.AddFile("/cfg/keys/base.toml", `
include = ["snippets.yaml"]

[[collection]]
name = "base"
`)
	memfs.AddFile("/cfg/keys/snippets.yaml", `
collection:
  - name: snippets
    kind: shortcut
`)

	l := NewLoader(WithFS(memfs), WithEnv(noEnv))
	cfg, err := l.Load("/cfg/keyward.toml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defs, err := l.Definitions(cfg)
	if err != nil {
		t.Fatalf("Definitions failed: %v", err)
	}

	want := []struct{ name, source string }{
		{"inline", "/cfg/keyward.toml"},
		{"snippets", "/cfg/keys/snippets.yaml"},
		{"base", "/cfg/keys/base.toml"},
	}
	if len(defs) != len(want) {
		t.Fatalf("got %d definitions, want %d", len(defs), len(want))
	}
	for i, w := range want {
		if defs[i].Name != w.name || defs[i].Source != w.source {
			t.Errorf("defs[%d] = %s from %s, want %s from %s", i, defs[i].Name, defs[i].Source, w.name, w.source)
		}
	}
}

func TestDefinitionsIncludeCycle(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/a.toml", `include = ["b.toml"]`)
	memfs.AddFile("/b.toml", `include = ["a.toml"]`)

	_, err := NewLoader(WithFS(memfs), WithEnv(noEnv)).LoadDefinitions("/a.toml")
	if !errors.Is(err, ErrIncludeDepth) {
		t.Errorf("error = %v, want ErrIncludeDepth", err)
	}
}

func TestDefinitionsMissingInclude(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/keyward.toml", `include = ["missing.toml"]`)

	l := NewLoader(WithFS(memfs), WithEnv(noEnv))
	cfg, err := l.Load("/keyward.toml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := l.Definitions(cfg); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error = %v, want fs.ErrNotExist", err)
	}
}
