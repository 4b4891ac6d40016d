package lua

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keyward/internal/config"
	"github.com/dshills/keyward/internal/input/key"
	"github.com/dshills/keyward/internal/shortcut"
)

// releaser is implemented by collections with an explicit lifetime.
type releaser interface {
	Release()
}

// Plugin is one loaded Lua script and the collections it contributed.
type Plugin struct {
	name     string
	path     string
	state    *State
	registry *shortcut.Registry
	detector *shortcut.Detector
	log      *logrus.Entry

	mu          sync.Mutex
	collections []shortcut.Collection
}

// Option configures a Plugin.
type Option func(*Plugin)

// WithLogger sets the logger; plugin output from keyward.log goes here too.
func WithLogger(log *logrus.Entry) Option {
	return func(p *Plugin) {
		if log != nil {
			p.log = log
		}
	}
}

// New creates a plugin bound to reg without running any code.
func New(name string, reg *shortcut.Registry, opts ...Option) *Plugin {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	p := &Plugin{
		name:     name,
		registry: reg,
		detector: shortcut.NewDetector(reg),
		log:      logrus.NewEntry(discard),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.WithField("plugin", name)

	p.state = NewState()
	p.state.RegisterModule("keyward", map[string]lua.LGFunction{
		"collection": p.luaCollection,
		"conflicts":  p.luaConflicts,
		"shortcuts":  p.luaShortcuts,
		"normalize":  p.luaNormalize,
		"log":        p.luaLog,
	})
	return p
}

// Load runs the script at path in a new plugin named after the file.
// On error the plugin is closed and any collections it created are
// released.
func Load(ctx context.Context, path string, reg *shortcut.Registry, opts ...Option) (*Plugin, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	p := New(name, reg, opts...)
	p.path = path

	if err := p.state.DoFile(ctx, path); err != nil {
		p.Close()
		return nil, fmt.Errorf("loading plugin %s: %w", path, err)
	}
	p.log.WithField("collections", len(p.Collections())).Info("plugin loaded")
	return p, nil
}

// Name returns the plugin name.
func (p *Plugin) Name() string {
	return p.name
}

// Path returns the script path, empty for plugins run from strings.
func (p *Plugin) Path() string {
	return p.path
}

// Run executes a chunk of Lua in the plugin's state.
func (p *Plugin) Run(ctx context.Context, code string) error {
	return p.state.DoString(ctx, code)
}

// Collections returns the names of the collections the plugin registered.
func (p *Plugin) Collections() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]string, len(p.collections))
	for i, c := range p.collections {
		out[i] = c.Name()
	}
	return out
}

// Close releases every collection the plugin registered and the Lua state.
func (p *Plugin) Close() error {
	p.mu.Lock()
	colls := p.collections
	p.collections = nil
	p.mu.Unlock()

	for _, c := range colls {
		if r, ok := c.(releaser); ok {
			r.Release()
		}
	}
	if len(colls) > 0 {
		p.log.WithField("collections", len(colls)).Debug("plugin collections released")
	}
	return p.state.Close()
}

// luaCollection implements keyward.collection(name, commands [, kind]).
// It returns true when the collection was registered and false when a
// live collection already holds the name.
func (p *Plugin) luaCollection(L *lua.LState) int {
	def := config.CollectionDef{
		Name:   L.CheckString(1),
		Kind:   config.Kind(L.OptString(3, string(config.KindAction))),
		Source: p.name,
	}

	L.CheckTable(2).ForEach(func(_, v lua.LValue) {
		tbl, ok := v.(*lua.LTable)
		if !ok {
			L.ArgError(2, "commands must be tables")
		}
		def.Commands = append(def.Commands, config.CommandDef{
			Name:     lua.LVAsString(tbl.RawGetString("name")),
			Text:     lua.LVAsString(tbl.RawGetString("text")),
			Icon:     lua.LVAsString(tbl.RawGetString("icon")),
			Keys:     stringList(tbl.RawGetString("keys")),
			Defaults: stringList(tbl.RawGetString("defaults")),
		})
	})

	if err := config.Validate([]config.CollectionDef{def}); err != nil {
		L.RaiseError("keyward.collection: %v", err)
		return 0
	}
	coll, err := config.NewCollection(def)
	if err != nil {
		L.RaiseError("keyward.collection: %v", err)
		return 0
	}

	if !p.registry.Register(coll) {
		p.log.WithField("collection", def.Name).Warn("collection name already taken")
		L.Push(lua.LFalse)
		return 1
	}

	p.mu.Lock()
	p.collections = append(p.collections, coll)
	p.mu.Unlock()

	p.log.WithFields(logrus.Fields{"collection": def.Name, "commands": len(def.Commands)}).Debug("collection registered")
	L.Push(lua.LTrue)
	return 1
}

// luaConflicts implements keyward.conflicts(keys): the "collection/name"
// of every command whose shortcuts are ambiguous with any of keys.
func (p *Plugin) luaConflicts(L *lua.LState) int {
	seqs, err := key.ParseSequences(stringList(L.Get(1)))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}

	report := p.detector.Detect(nil, seqs, shortcut.SkipNothing)
	out := L.NewTable()
	for _, c := range report.Conflicts() {
		out.Append(lua.LString(c.Ref().String()))
	}
	L.Push(out)
	return 1
}

// luaShortcuts implements keyward.shortcuts(collection, name): the bound
// sequences of a command, or nil when it does not exist.
func (p *Plugin) luaShortcuts(L *lua.LState) int {
	cmd, ok := p.registry.FindCommand(L.CheckString(1), L.CheckString(2))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	out := L.NewTable()
	for _, s := range key.Strings(cmd.Shortcuts()) {
		out.Append(lua.LString(s))
	}
	L.Push(out)
	return 1
}

// luaNormalize implements keyward.normalize(spec): the canonical form of
// a key sequence.
func (p *Plugin) luaNormalize(L *lua.LState) int {
	s, err := key.NormalizeSpec(L.CheckString(1))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	L.Push(lua.LString(s))
	return 1
}

// luaLog implements keyward.log(level, message).
func (p *Plugin) luaLog(L *lua.LState) int {
	level, err := logrus.ParseLevel(L.CheckString(1))
	if err != nil {
		level = logrus.InfoLevel
	}
	p.log.Log(level, L.CheckString(2))
	return 0
}

// stringList accepts a string or an array of strings.
func stringList(v lua.LValue) []string {
	switch v := v.(type) {
	case lua.LString:
		return []string{string(v)}
	case *lua.LTable:
		out := make([]string, 0, v.Len())
		for i := 1; i <= v.Len(); i++ {
			if s, ok := v.RawGetInt(i).(lua.LString); ok {
				out = append(out, string(s))
			}
		}
		return out
	default:
		return nil
	}
}
