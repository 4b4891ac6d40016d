package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/dshills/keyward/internal/config"
	"github.com/dshills/keyward/internal/input/key"
	"github.com/dshills/keyward/internal/plugin/lua"
	"github.com/dshills/keyward/internal/search"
	"github.com/dshills/keyward/internal/shortcut"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the settings file. Empty means config.DefaultFile.
	ConfigPath string

	// LogLevel overrides the configured log level when set.
	LogLevel string

	// Plugins are extra Lua scripts loaded after the configured ones.
	Plugins []string

	// LogOutput receives log output unless the config names a log file.
	// Defaults to os.Stderr.
	LogOutput io.Writer

	// FS and Env replace the file system and environment lookup, for tests.
	FS  config.FileSystem
	Env func(string) (string, bool)
}

// App owns the registry built from configuration and plugins.
type App struct {
	opts      Options
	loader    *config.Loader
	log       *logrus.Logger
	logCloser io.Closer

	// editMu serializes resolver runs.
	editMu sync.Mutex

	mu       sync.RWMutex
	cfg      *config.Config
	sources  []string
	registry *shortcut.Registry
	detector *shortcut.Detector
	plugins  *lua.Manager
	closed   bool
}

// New loads the configuration, builds the registry and loads plugins.
// Plugins that fail to load are logged and skipped; configuration and
// definition errors are fatal.
func New(ctx context.Context, opts Options) (*App, error) {
	if opts.ConfigPath == "" {
		opts.ConfigPath = config.DefaultFile
	}

	var loaderOpts []config.LoaderOption
	if opts.FS != nil {
		loaderOpts = append(loaderOpts, config.WithFS(opts.FS))
	}
	if opts.Env != nil {
		loaderOpts = append(loaderOpts, config.WithEnv(opts.Env))
	}
	loader := config.NewLoader(loaderOpts...)

	cfg, err := loader.Load(opts.ConfigPath)
	if err != nil {
		return nil, &ComponentError{Component: "config", Err: err}
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}

	log, closer, err := NewLogger(cfg.Log, opts.LogOutput)
	if err != nil {
		return nil, &ComponentError{Component: "logging", Err: err}
	}

	a := &App{opts: opts, loader: loader, log: log, logCloser: closer}
	if err := a.load(ctx, cfg); err != nil {
		closer.Close()
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"config":      cfg.Path,
		"collections": a.Registry().Len(),
	}).Debug("application started")
	return a, nil
}

// load builds a fresh registry from cfg and swaps it in.
func (a *App) load(ctx context.Context, cfg *config.Config) error {
	reg := shortcut.NewRegistry(shortcut.WithRegistryLogger(WithComponent(a.log, "registry")))

	defs, err := a.loader.Definitions(cfg)
	if err != nil {
		return &ComponentError{Component: "definitions", Err: err}
	}
	if _, err := config.Build(reg, defs); err != nil {
		return &ComponentError{Component: "definitions", Err: err}
	}

	plugins := lua.NewManager(reg, lua.WithLogger(WithComponent(a.log, "plugins")))
	paths := append(cfg.PluginPaths(), a.opts.Plugins...)
	if err := plugins.Load(ctx, paths...); err != nil {
		a.log.WithError(err).Warn("plugins failed to load")
	}

	sources := make([]string, 0, len(cfg.Include)+1)
	seen := make(map[string]bool)
	add := func(p string) {
		if p != "" && !seen[p] {
			seen[p] = true
			sources = append(sources, p)
		}
	}
	add(a.opts.ConfigPath)
	for _, inc := range cfg.Include {
		add(cfg.Resolve(inc))
	}
	for _, d := range defs {
		add(d.Source)
	}

	a.mu.Lock()
	old := a.plugins
	a.cfg = cfg
	a.sources = sources
	a.registry = reg
	a.detector = shortcut.NewDetector(reg, shortcut.WithDetectorLogger(WithComponent(a.log, "detector")))
	a.plugins = plugins
	a.mu.Unlock()

	if old != nil {
		old.Close()
	}
	return nil
}

// Config returns the active settings.
func (a *App) Config() *config.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cfg
}

// Registry returns the active registry. Reload replaces it.
func (a *App) Registry() *shortcut.Registry {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.registry
}

// Detector returns the detector over the active registry.
func (a *App) Detector() *shortcut.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Logger returns the application logger.
func (a *App) Logger() *logrus.Logger {
	return a.log
}

// Command looks up a command by collection and name.
func (a *App) Command(collection, name string) (*shortcut.Command, error) {
	reg := a.Registry()
	if _, ok := reg.Collection(collection); !ok {
		return nil, fmt.Errorf("%w: %q", ErrCollectionNotFound, collection)
	}
	cmd, ok := reg.FindCommand(collection, name)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrCommandNotFound, collection, name)
	}
	return cmd, nil
}

// Check reports the conflicts the given sequences would cause if they
// were assigned to the command. Nothing is changed.
func (a *App) Check(collection, name string, specs []string) (*shortcut.Report, error) {
	target := collection + "/" + name
	cmd, err := a.Command(collection, name)
	if err != nil {
		return nil, NewOperationError("check", target, err)
	}
	seqs, err := key.ParseSequences(specs)
	if err != nil {
		return nil, NewOperationError("check", target, err)
	}
	return a.Detector().Detect(cmd, seqs, nil), nil
}

// Lookup reports every command whose shortcuts are ambiguous with spec.
func (a *App) Lookup(spec string) (*shortcut.Report, error) {
	seq, err := key.ParseSequence(spec)
	if err != nil {
		return nil, NewOperationError("lookup", spec, err)
	}
	if seq.IsEmpty() {
		return nil, NewOperationError("lookup", spec, key.ErrEmptySpec)
	}
	return a.Detector().Detect(nil, []key.Sequence{seq}, shortcut.SkipNothing), nil
}

// Find returns the commands whose names fuzzy-match query, best first.
func (a *App) Find(query string, limit int) []search.Hit {
	return search.NewFinder().Find(a.Registry(), query, limit)
}

// Audit lists every ambiguous pair in the active registry.
func (a *App) Audit() []shortcut.Ambiguity {
	return shortcut.Audit(a.Registry())
}

// Surface is an editing surface usable by Edit.
type Surface interface {
	shortcut.Editor
	shortcut.Presenter
}

// Edit runs the interactive resolution for one command. Only one edit
// runs at a time.
func (a *App) Edit(ctx context.Context, collection, name string, s Surface, opts ...shortcut.ResolverOption) (shortcut.Outcome, error) {
	target := collection + "/" + name
	cmd, err := a.Command(collection, name)
	if err != nil {
		return shortcut.Outcome{State: shortcut.StateCancelled}, NewOperationError("edit", target, err)
	}

	a.editMu.Lock()
	defer a.editMu.Unlock()

	base := []shortcut.ResolverOption{
		shortcut.WithResolverLogger(WithComponent(a.log, "resolver")),
		shortcut.WithFormatOptions(shortcut.WithSeparator(a.Config().UI.Separator)),
	}
	r := shortcut.NewResolver(a.Detector(), s, s, append(base, opts...)...)

	out, err := r.Run(ctx, cmd, cmd.Defaults(), nil)
	if err != nil {
		return out, NewOperationError("edit", target, err)
	}
	return out, nil
}

// Snapshot captures the collections defined by configuration, leaving
// out those contributed by plugins.
func (a *App) Snapshot() *config.File {
	a.mu.RLock()
	reg, plugins := a.registry, a.plugins
	a.mu.RUnlock()

	fromPlugins := make(map[string]bool)
	for _, p := range plugins.Plugins() {
		for _, name := range p.Collections() {
			fromPlugins[name] = true
		}
	}

	f := config.Snapshot(reg)
	kept := f.Collections[:0]
	for _, c := range f.Collections {
		if !fromPlugins[c.Name] {
			kept = append(kept, c)
		}
	}
	f.Collections = kept
	return f
}

// Save writes Snapshot to path in the format its extension selects.
func (a *App) Save(path string) error {
	data, err := config.Encode(path, a.Snapshot())
	if err != nil {
		return NewOperationError("save", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return NewOperationError("save", path, err)
	}
	a.log.WithField("path", path).Info("definitions saved")
	return nil
}

// Reload reads the configuration again and replaces the registry. On
// error the previous registry stays active.
func (a *App) Reload(ctx context.Context) error {
	if a.isClosed() {
		return ErrClosed
	}
	cfg, err := a.loader.Load(a.opts.ConfigPath)
	if err != nil {
		return &ComponentError{Component: "config", Err: err}
	}
	if a.opts.LogLevel != "" {
		cfg.Log.Level = a.opts.LogLevel
	}
	if err := a.load(ctx, cfg); err != nil {
		return err
	}
	a.log.WithField("collections", a.Registry().Len()).Info("configuration reloaded")
	return nil
}

// ReloadPlugins reruns the plugin scripts against the active registry.
func (a *App) ReloadPlugins(ctx context.Context) error {
	if a.isClosed() {
		return ErrClosed
	}
	a.mu.RLock()
	plugins := a.plugins
	a.mu.RUnlock()
	return plugins.Reload(ctx)
}

// Sources returns the configuration and definition files in use.
func (a *App) Sources() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]string(nil), a.sources...)
}

// PluginPaths returns every plugin script requested, loaded or not.
func (a *App) PluginPaths() []string {
	a.mu.RLock()
	plugins := a.plugins
	a.mu.RUnlock()
	return plugins.Paths()
}

func (a *App) isClosed() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.closed
}

// Close unloads plugins and closes the log file.
func (a *App) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	plugins := a.plugins
	a.mu.Unlock()

	var errs ErrorList
	errs.Add(plugins.Close())
	errs.Add(a.logCloser.Close())
	return errs.AsError()
}
