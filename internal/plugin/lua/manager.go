package lua

import (
	"context"
	"errors"
	"sync"

	"github.com/dshills/keyward/internal/shortcut"
)

// Manager owns the plugins loaded into one registry.
type Manager struct {
	registry *shortcut.Registry
	opts     []Option

	mu      sync.Mutex
	plugins []*Plugin
	paths   []string
}

// NewManager creates a manager loading plugins into reg.
func NewManager(reg *shortcut.Registry, opts ...Option) *Manager {
	return &Manager{registry: reg, opts: opts}
}

// Load runs every script in order. A failing script is skipped and its
// error joined into the result; the others stay loaded. Failed scripts
// are still remembered for Reload.
func (m *Manager) Load(ctx context.Context, paths ...string) error {
	m.mu.Lock()
	m.paths = append(m.paths, paths...)
	m.mu.Unlock()

	var errs []error
	for _, path := range paths {
		p, err := Load(ctx, path, m.registry, m.opts...)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		m.mu.Lock()
		m.plugins = append(m.plugins, p)
		m.mu.Unlock()
	}
	return errors.Join(errs...)
}

// Plugins returns the loaded plugins in load order.
func (m *Manager) Plugins() []*Plugin {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Plugin(nil), m.plugins...)
}

// Paths returns every script passed to Load, including failed ones.
func (m *Manager) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.paths...)
}

// Reload closes every plugin and runs all scripts passed to Load again.
func (m *Manager) Reload(ctx context.Context) error {
	m.mu.Lock()
	old, paths := m.plugins, m.paths
	m.plugins, m.paths = nil, nil
	m.mu.Unlock()

	for _, p := range old {
		p.Close()
	}
	m.registry.Prune()
	return m.Load(ctx, paths...)
}

// Close closes every plugin.
func (m *Manager) Close() error {
	m.mu.Lock()
	plugins := m.plugins
	m.plugins = nil
	m.mu.Unlock()

	var errs []error
	for _, p := range plugins {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
