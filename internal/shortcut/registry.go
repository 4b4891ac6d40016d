package shortcut

import (
	"io"
	"iter"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"
)

// Registry indexes collections by name without owning them.
//
// Each entry carries a liveness check. Entries whose check fails are
// skipped by every read and pruned afterwards, so an owner releasing its
// collection never has to unregister it explicitly.
type Registry struct {
	mu sync.RWMutex

	// entries holds registered collections by name.
	entries map[string]*registryEntry

	// order keeps registration order for stable iteration.
	order []string

	log *logrus.Entry
}

type registryEntry struct {
	coll  Collection
	alive func() bool
}

func (e *registryEntry) isAlive() bool {
	return e.alive == nil || e.alive()
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryLogger sets the logger used for registry events.
func WithRegistryLogger(log *logrus.Entry) RegistryOption {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		entries: make(map[string]*registryEntry),
		log:     discardLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a collection unless a live collection with the same name
// is already registered. If c implements Liveness its Alive method is used
// as the liveness check. Returns true if c was inserted.
func (r *Registry) Register(c Collection) bool {
	var alive func() bool
	if l, ok := c.(Liveness); ok {
		alive = l.Alive
	}
	return r.RegisterFunc(c, alive)
}

// RegisterFunc adds a collection with an explicit liveness check.
// A nil check means the collection stays until unregistered.
func (r *Registry) RegisterFunc(c Collection, alive func() bool) bool {
	if c == nil {
		return false
	}
	name := c.Name()

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.entries[name]; ok {
		if existing.isAlive() {
			r.log.WithField("collection", name).Debug("collection already registered")
			return false
		}
		r.removeLocked(name)
	}

	r.entries[name] = &registryEntry{coll: c, alive: alive}
	r.order = append(r.order, name)
	r.log.WithField("collection", name).Debug("collection registered")
	return true
}

// Unregister removes the collection registered under c's name.
func (r *Registry) Unregister(c Collection) {
	if c == nil {
		return
	}
	r.UnregisterName(c.Name())
}

// UnregisterName removes the collection registered under name, if any.
func (r *Registry) UnregisterName(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.removeLocked(name) {
		r.log.WithField("collection", name).Debug("collection unregistered")
	}
}

// removeLocked deletes an entry. Caller must hold the write lock.
func (r *Registry) removeLocked(name string) bool {
	if _, ok := r.entries[name]; !ok {
		return false
	}
	delete(r.entries, name)
	if i := slices.Index(r.order, name); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
	return true
}

// snapshot returns the entries in registration order.
func (r *Registry) snapshot() []*registryEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*registryEntry, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entries[name])
	}
	return out
}

// All yields the live collections in registration order.
//
// The sequence is lazy and restartable: each iteration takes a fresh
// snapshot, checks liveness right before yielding a collection and prunes
// dead entries once it finishes. Mutations during iteration never affect
// an iteration already in progress.
func (r *Registry) All() iter.Seq[Collection] {
	return func(yield func(Collection) bool) {
		sawDead := false
		defer func() {
			if sawDead {
				r.Prune()
			}
		}()

		for _, e := range r.snapshot() {
			if !e.isAlive() {
				sawDead = true
				continue
			}
			if !yield(e.coll) {
				return
			}
		}
	}
}

// Collection returns the live collection registered under name.
func (r *Registry) Collection(name string) (Collection, bool) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if !e.isAlive() {
		r.Prune()
		return nil, false
	}
	return e.coll, true
}

// FindCommand returns the named command of the named collection.
// The second result is false when either does not exist.
func (r *Registry) FindCommand(collection, name string) (*Command, bool) {
	c, ok := r.Collection(collection)
	if !ok {
		return nil, false
	}
	cmd := c.RealAction(name)
	return cmd, cmd != nil
}

// Names returns the names of live collections in registration order.
func (r *Registry) Names() []string {
	var names []string
	for c := range r.All() {
		names = append(names, c.Name())
	}
	return names
}

// Len returns the number of live collections.
func (r *Registry) Len() int {
	n := 0
	for range r.All() {
		n++
	}
	return n
}

// Prune removes every entry whose liveness check fails and returns how
// many were removed.
func (r *Registry) Prune() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for _, name := range slices.Clone(r.order) {
		if e := r.entries[name]; !e.isAlive() {
			r.removeLocked(name)
			removed++
			r.log.WithField("collection", name).Debug("released collection pruned")
		}
	}
	return removed
}

// discardLogger returns a logger that drops everything. Components use it
// until a real logger is supplied.
func discardLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}
