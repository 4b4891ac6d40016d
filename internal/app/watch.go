package app

import (
	"context"
	"path/filepath"
	"time"

	"github.com/dshills/keyward/internal/config"
)

// ReloadEvent describes one reload triggered by Watch.
type ReloadEvent struct {
	Change config.Event

	// Plugins is true when only plugin scripts were rerun.
	Plugins bool

	// Err is the reload error; the previous registry stays active.
	Err error
}

// WatchOption configures Watch.
type WatchOption func(*watchConfig)

type watchConfig struct {
	debounce time.Duration
}

// WithWatchDebounce sets the quiet period before a change is acted on.
func WithWatchDebounce(d time.Duration) WatchOption {
	return func(c *watchConfig) {
		c.debounce = d
	}
}

// Watch reloads the application whenever a configuration, definition or
// plugin file changes, calling onReload after each attempt. A changed
// plugin script reruns the plugins only. Watch returns when ctx is done.
func (a *App) Watch(ctx context.Context, onReload func(ReloadEvent), opts ...WatchOption) error {
	var wc watchConfig
	for _, opt := range opts {
		opt(&wc)
	}

	w, err := config.NewWatcher(
		config.WithDebounce(wc.debounce),
		config.WithWatcherLogger(WithComponent(a.log, "watcher")),
	)
	if err != nil {
		return NewOperationError("watch", a.opts.ConfigPath, err)
	}
	defer w.Close()

	plugins := a.watchAll(w)
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			a.log.WithError(err).Warn("watch error")
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			re := ReloadEvent{Change: ev, Plugins: plugins[ev.Path]}
			if re.Plugins {
				re.Err = a.ReloadPlugins(ctx)
			} else {
				re.Err = a.Reload(ctx)
			}
			if re.Err != nil {
				a.log.WithError(re.Err).WithField("path", ev.Path).Warn("reload failed")
			}
			// A reload may bring in new includes or scripts.
			plugins = a.watchAll(w)
			if onReload != nil {
				onReload(re)
			}
		}
	}
}

// watchAll adds every source and plugin file to w and returns the set of
// absolute plugin paths.
func (a *App) watchAll(w *config.Watcher) map[string]bool {
	for _, p := range a.Sources() {
		if err := w.Watch(p); err != nil {
			a.log.WithError(err).WithField("path", p).Debug("cannot watch file")
		}
	}

	plugins := make(map[string]bool)
	for _, p := range a.PluginPaths() {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		plugins[abs] = true
		if err := w.Watch(abs); err != nil {
			a.log.WithError(err).WithField("path", abs).Debug("cannot watch file")
		}
	}
	return plugins
}
