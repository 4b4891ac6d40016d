package shortcut

import (
	"fmt"
	"iter"
	"sync"
	"sync/atomic"

	"github.com/dshills/keyward/internal/input/key"
)

// Collection is the capability every group of commands offers to the
// registry and the detector, whatever its storage looks like.
type Collection interface {
	// Name is the process-wide unique collection name.
	Name() string

	// Actions yields command names and commands in insertion order.
	Actions() iter.Seq2[string, *Command]

	// Shortcuts returns the authoritative shortcuts of the named command.
	// Unknown names yield nil.
	Shortcuts(name string) []key.Sequence

	// RealAction returns the named command, or nil.
	RealAction(name string) *Command

	// SetShortcuts replaces the shortcuts of the named command.
	// Returns false if the command does not exist.
	SetShortcuts(name string, seqs []key.Sequence) bool
}

// Liveness is implemented by collections whose owner can release them.
// The registry drops a collection once Alive reports false.
type Liveness interface {
	Alive() bool
}

// Lifetime tracks whether the owner of a collection still holds it.
// The zero value is alive.
type Lifetime struct {
	released atomic.Bool
}

// Release marks the collection as gone. Registries observing it prune it
// on their next read.
func (l *Lifetime) Release() {
	l.released.Store(true)
}

// Alive reports whether Release has not been called.
func (l *Lifetime) Alive() bool {
	return !l.released.Load()
}

// ActionCollection is a collection whose commands store their own shortcuts.
type ActionCollection struct {
	Lifetime

	mu       sync.RWMutex
	name     string
	order    []string
	commands map[string]*Command
}

// NewActionCollection creates an empty collection.
func NewActionCollection(name string) *ActionCollection {
	return &ActionCollection{
		name:     name,
		commands: make(map[string]*Command),
	}
}

// Name returns the collection name.
func (c *ActionCollection) Name() string {
	return c.name
}

// Add creates a command in this collection and returns it.
// If the name is already taken the existing command is returned unchanged.
func (c *ActionCollection) Add(name, text string, shortcuts ...key.Sequence) *Command {
	cmd := NewCommand(c.name, name, text)
	cmd.setLocal(shortcuts)
	if err := c.AddCommand(cmd); err != nil {
		return c.RealAction(name)
	}
	return cmd
}

// AddCommand adopts cmd into this collection. The command's collection
// name is rewritten to this collection's name.
func (c *ActionCollection) AddCommand(cmd *Command) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.commands[cmd.name]; exists {
		return fmt.Errorf("%w: %s/%s", ErrDuplicateCommand, c.name, cmd.name)
	}
	cmd.collection = c.name
	cmd.setOwner(c)
	c.commands[cmd.name] = cmd
	c.order = append(c.order, cmd.name)
	return nil
}

// Remove deletes the named command. Returns false if it did not exist.
func (c *ActionCollection) Remove(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	cmd, ok := c.commands[name]
	if !ok {
		return false
	}
	cmd.setOwner(nil)
	delete(c.commands, name)
	for i, n := range c.order {
		if n == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of commands.
func (c *ActionCollection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// Actions yields commands in insertion order. The order is captured when
// iteration starts.
func (c *ActionCollection) Actions() iter.Seq2[string, *Command] {
	return func(yield func(string, *Command) bool) {
		c.mu.RLock()
		names := append([]string(nil), c.order...)
		cmds := make([]*Command, len(names))
		for i, n := range names {
			cmds[i] = c.commands[n]
		}
		c.mu.RUnlock()

		for i, n := range names {
			if !yield(n, cmds[i]) {
				return
			}
		}
	}
}

// Shortcuts returns the shortcuts of the named command.
func (c *ActionCollection) Shortcuts(name string) []key.Sequence {
	cmd := c.RealAction(name)
	if cmd == nil {
		return nil
	}
	return cmd.local()
}

// RealAction returns the named command, or nil.
func (c *ActionCollection) RealAction(name string) *Command {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.commands[name]
}

// SetShortcuts replaces the shortcuts of the named command.
func (c *ActionCollection) SetShortcuts(name string, seqs []key.Sequence) bool {
	cmd := c.RealAction(name)
	if cmd == nil {
		return false
	}
	cmd.setLocal(seqs)
	return true
}

// ShortcutCollection keeps shortcuts in the collection itself and
// materializes command objects on demand. It suits user-defined entries
// such as snippets, whose shortcuts live in settings rather than on an
// action object. Commands yielded by Actions carry no shortcuts of their
// own; Shortcuts(name) is the only authoritative source.
type ShortcutCollection struct {
	Lifetime

	mu        sync.RWMutex
	name      string
	order     []string
	texts     map[string]string
	shortcuts map[string][]key.Sequence
	defaults  map[string][]key.Sequence
	commands  map[string]*Command
}

// NewShortcutCollection creates an empty shortcut collection.
func NewShortcutCollection(name string) *ShortcutCollection {
	return &ShortcutCollection{
		name:      name,
		texts:     make(map[string]string),
		shortcuts: make(map[string][]key.Sequence),
		defaults:  make(map[string][]key.Sequence),
		commands:  make(map[string]*Command),
	}
}

// Name returns the collection name.
func (c *ShortcutCollection) Name() string {
	return c.name
}

// Define adds or updates an entry with its display text and shortcuts.
func (c *ShortcutCollection) Define(name, text string, shortcuts ...key.Sequence) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.texts[name]; !exists {
		c.order = append(c.order, name)
	}
	c.texts[name] = text
	c.shortcuts[name] = key.CloneAll(shortcuts)
	if cmd, ok := c.commands[name]; ok {
		cmd.setText(text)
	}
}

// SetDefaults records the default shortcuts of an entry.
func (c *ShortcutCollection) SetDefaults(name string, seqs []key.Sequence) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defaults[name] = key.CloneAll(seqs)
	if cmd, ok := c.commands[name]; ok {
		cmd.SetDefaults(seqs)
	}
}

// Forget removes an entry and its shortcuts.
func (c *ShortcutCollection) Forget(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.texts[name]; !ok {
		return false
	}
	delete(c.texts, name)
	delete(c.shortcuts, name)
	delete(c.defaults, name)
	if cmd, ok := c.commands[name]; ok {
		cmd.setOwner(nil)
		delete(c.commands, name)
	}
	for i, n := range c.order {
		if n == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// Actions yields a materialized command for every entry in definition order.
func (c *ShortcutCollection) Actions() iter.Seq2[string, *Command] {
	return func(yield func(string, *Command) bool) {
		c.mu.RLock()
		names := append([]string(nil), c.order...)
		c.mu.RUnlock()

		for _, n := range names {
			cmd := c.RealAction(n)
			if cmd == nil {
				// forgotten since the snapshot
				continue
			}
			if !yield(n, cmd) {
				return
			}
		}
	}
}

// Shortcuts returns the stored shortcuts of the named entry.
func (c *ShortcutCollection) Shortcuts(name string) []key.Sequence {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return key.CloneAll(c.shortcuts[name])
}

// RealAction materializes the command for the named entry, or returns nil.
// The same *Command is returned on every call.
func (c *ShortcutCollection) RealAction(name string) *Command {
	c.mu.Lock()
	defer c.mu.Unlock()

	text, ok := c.texts[name]
	if !ok {
		return nil
	}
	if cmd, ok := c.commands[name]; ok {
		return cmd
	}
	cmd := NewCommand(c.name, name, text)
	cmd.defaults = key.CloneAll(c.defaults[name])
	cmd.owner = c
	c.commands[name] = cmd
	return cmd
}

// SetShortcuts replaces the stored shortcuts of the named entry.
func (c *ShortcutCollection) SetShortcuts(name string, seqs []key.Sequence) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.texts[name]; !ok {
		return false
	}
	c.shortcuts[name] = key.CloneAll(seqs)
	return true
}
