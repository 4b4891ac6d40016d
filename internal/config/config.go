package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// DefaultFile is the application config file name looked up by the CLI.
const DefaultFile = "keyward.toml"

// maxIncludeDepth limits nested definition includes.
const maxIncludeDepth = 8

// UI modes.
const (
	UIModeAuto   = "auto"
	UIModeLine   = "line"
	UIModeScreen = "screen"
)

// Config holds the application settings.
type Config struct {
	Log LogConfig `toml:"log"`
	UI  UIConfig  `toml:"ui"`

	// Include lists definition files, relative to the config file.
	Include []string `toml:"include"`

	// Plugins lists Lua plugin scripts, relative to the config file.
	Plugins []string `toml:"plugins"`

	// Collections are definitions written inline in the config file.
	Collections []CollectionDef `toml:"collection"`

	// Path is the file the settings came from; empty for defaults.
	Path string `toml:"-"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// UIConfig configures the interactive surfaces.
type UIConfig struct {
	Mode      string `toml:"mode"`
	Separator string `toml:"separator"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info", Format: "text"},
		UI:  UIConfig{Mode: UIModeAuto},
	}
}

// Validate checks settings that have a closed set of values.
func (c *Config) Validate() error {
	switch c.UI.Mode {
	case UIModeAuto, UIModeLine, UIModeScreen:
	default:
		return fmt.Errorf("%w: ui.mode %q", ErrInvalidValue, c.UI.Mode)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalidValue, c.Log.Format)
	}
	return nil
}

// Resolve returns p relative to the config file's directory.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Path == "" {
		return p
	}
	return filepath.Join(filepath.Dir(c.Path), p)
}

// PluginPaths returns the plugin scripts resolved against the config file.
func (c *Config) PluginPaths() []string {
	out := make([]string, 0, len(c.Plugins))
	for _, p := range c.Plugins {
		out = append(out, c.Resolve(p))
	}
	return out
}

// Loader reads settings and definition files.
type Loader struct {
	fs     FileSystem
	lookup func(string) (string, bool)
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFS sets the file system the loader reads from.
func WithFS(fsys FileSystem) LoaderOption {
	return func(l *Loader) {
		if fsys != nil {
			l.fs = fsys
		}
	}
}

// WithEnv sets the environment lookup used for overrides.
func WithEnv(lookup func(string) (string, bool)) LoaderOption {
	return func(l *Loader) {
		l.lookup = lookup
	}
}

// NewLoader creates a loader reading the OS file system and environment.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{fs: DefaultFS(), lookup: os.LookupEnv}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the settings at path on top of the defaults and applies
// environment overrides. A missing file is not an error: the defaults
// are returned with an empty Path.
func (l *Loader) Load(path string) (*Config, error) {
	cfg := Default()

	data, err := l.fs.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	default:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, newParseError(path, data, err)
		}
		cfg.Path = path
		for i := range cfg.Collections {
			cfg.Collections[i].Source = path
		}
	}

	if l.lookup != nil {
		ApplyEnv(cfg, l.lookup)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides settings from KEYWARD_ environment variables:
// KEYWARD_LOG_LEVEL, KEYWARD_LOG_FORMAT, KEYWARD_UI_MODE and
// KEYWARD_PLUGINS (a path list appended to the configured plugins).
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup("KEYWARD_LOG_LEVEL"); ok && v != "" {
		cfg.Log.Level = v
	}
	if v, ok := lookup("KEYWARD_LOG_FORMAT"); ok && v != "" {
		cfg.Log.Format = strings.ToLower(v)
	}
	if v, ok := lookup("KEYWARD_UI_MODE"); ok && v != "" {
		cfg.UI.Mode = strings.ToLower(v)
	}
	if v, ok := lookup("KEYWARD_PLUGINS"); ok && v != "" {
		for _, p := range filepath.SplitList(v) {
			if p != "" {
				cfg.Plugins = append(cfg.Plugins, p)
			}
		}
	}
}

// Definitions returns the inline definitions of cfg followed by those of
// every included file, in order.
func (l *Loader) Definitions(cfg *Config) ([]CollectionDef, error) {
	defs := append([]CollectionDef(nil), cfg.Collections...)
	for _, inc := range cfg.Include {
		more, err := l.LoadDefinitions(cfg.Resolve(inc))
		if err != nil {
			return nil, err
		}
		defs = append(defs, more...)
	}
	return defs, nil
}

// LoadDefinitions reads a definition file and the files it includes.
// Included files come before the including file's own collections.
func (l *Loader) LoadDefinitions(path string) ([]CollectionDef, error) {
	return l.loadDefinitions(path, maxIncludeDepth)
}

func (l *Loader) loadDefinitions(path string, depth int) ([]CollectionDef, error) {
	if depth <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrIncludeDepth, path)
	}

	data, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading definitions %s: %w", path, err)
	}
	f, err := Decode(path, data)
	if err != nil {
		return nil, err
	}

	var defs []CollectionDef
	base := filepath.Dir(path)
	for _, inc := range f.Include {
		if !filepath.IsAbs(inc) {
			inc = filepath.Join(base, inc)
		}
		more, err := l.loadDefinitions(inc, depth-1)
		if err != nil {
			return nil, fmt.Errorf("loading include %s: %w", inc, err)
		}
		defs = append(defs, more...)
	}
	return append(defs, f.Collections...), nil
}
