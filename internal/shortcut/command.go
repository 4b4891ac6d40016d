package shortcut

import (
	"strings"
	"sync"

	"github.com/dshills/keyward/internal/input/key"
)

// CommandRef identifies a command by collection and command name.
type CommandRef struct {
	Collection string
	Name       string
}

// String returns "collection/name".
func (r CommandRef) String() string {
	return r.Collection + "/" + r.Name
}

// Command is an editor action with keyboard shortcuts.
//
// A command created by a collection delegates its shortcut storage to that
// collection, so Shortcuts and SetShortcuts always see the authoritative
// values even for collections that keep shortcuts apart from the command
// objects (see ShortcutCollection).
type Command struct {
	mu sync.RWMutex

	collection string
	name       string
	text       string
	icon       string

	shortcuts []key.Sequence
	defaults  []key.Sequence

	owner Collection
}

// NewCommand creates a free-standing command that stores its own shortcuts.
func NewCommand(collection, name, text string) *Command {
	return &Command{
		collection: collection,
		name:       name,
		text:       text,
	}
}

// Ref returns the command's identity.
func (c *Command) Ref() CommandRef {
	return CommandRef{Collection: c.collection, Name: c.name}
}

// Collection returns the name of the collection the command belongs to.
func (c *Command) Collection() string {
	return c.collection
}

// Name returns the command name, unique within its collection.
func (c *Command) Name() string {
	return c.name
}

// Text returns the raw display text, including accelerator markup.
func (c *Command) Text() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.text
}

func (c *Command) setText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
}

// DisplayName returns the display text with accelerator markup removed.
// Falls back to the command name when no text is set.
func (c *Command) DisplayName() string {
	text := c.Text()
	if text == "" {
		return c.name
	}
	return StripAccelerator(text)
}

// Icon returns the optional icon name.
func (c *Command) Icon() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.icon
}

// WithIcon sets the icon name.
func (c *Command) WithIcon(icon string) *Command {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.icon = icon
	return c
}

// owning returns the collection holding the command's shortcuts, if any.
// The command lock is released before the owner is called, since owners
// lock themselves first and then their commands.
func (c *Command) owning() Collection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.owner
}

func (c *Command) setOwner(owner Collection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.owner = owner
}

// Shortcuts returns a copy of the command's live shortcuts.
func (c *Command) Shortcuts() []key.Sequence {
	if owner := c.owning(); owner != nil {
		return owner.Shortcuts(c.name)
	}
	return c.local()
}

// SetShortcuts replaces the command's live shortcuts.
func (c *Command) SetShortcuts(seqs []key.Sequence) {
	if owner := c.owning(); owner != nil {
		owner.SetShortcuts(c.name, seqs)
		return
	}
	c.setLocal(seqs)
}

func (c *Command) setLocal(seqs []key.Sequence) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shortcuts = key.CloneAll(seqs)
}

func (c *Command) local() []key.Sequence {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return key.CloneAll(c.shortcuts)
}

// Defaults returns the default shortcuts, or nil when the command has none.
func (c *Command) Defaults() []key.Sequence {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return key.CloneAll(c.defaults)
}

// SetDefaults sets the default shortcuts.
func (c *Command) SetDefaults(seqs []key.Sequence) *Command {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defaults = key.CloneAll(seqs)
	return c
}

// StripAccelerator removes menu accelerator markup from text: a single
// "&" marks the following character and is dropped, "&&" stands for a
// literal ampersand.
//
//	"&Save"        -> "Save"
//	"Save && Quit" -> "Save & Quit"
func StripAccelerator(text string) string {
	if !strings.Contains(text, "&") {
		return text
	}

	var sb strings.Builder
	sb.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if text[i] != '&' {
			sb.WriteByte(text[i])
			continue
		}
		if i+1 < len(text) && text[i+1] == '&' {
			sb.WriteByte('&')
			i++
		}
	}
	return sb.String()
}
