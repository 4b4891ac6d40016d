package config

import (
	"fmt"

	"github.com/dshills/keyward/internal/input/key"
	"github.com/dshills/keyward/internal/shortcut"
)

// Validate checks a set of definitions: names present and unique, kinds
// known and every key sequence parseable. All problems are reported
// together in a *ValidationError.
func Validate(defs []CollectionDef) error {
	var problems []error
	seen := make(map[string]string)

	for _, d := range defs {
		where := d.Source
		if where == "" {
			where = "<inline>"
		}
		if d.Name == "" {
			problems = append(problems, fmt.Errorf("%s: collection: %w", where, ErrMissingName))
			continue
		}
		if first, dup := seen[d.Name]; dup {
			problems = append(problems, fmt.Errorf("%s: %w %q (first defined in %s)", where, ErrDuplicateCollection, d.Name, first))
		} else {
			seen[d.Name] = where
		}
		if k := d.EffectiveKind(); k != KindAction && k != KindShortcut {
			problems = append(problems, fmt.Errorf("%s: collection %q: %w %q", where, d.Name, ErrInvalidKind, d.Kind))
		}

		names := make(map[string]bool, len(d.Commands))
		for _, c := range d.Commands {
			if c.Name == "" {
				problems = append(problems, fmt.Errorf("%s: collection %q: command: %w", where, d.Name, ErrMissingName))
				continue
			}
			if names[c.Name] {
				problems = append(problems, fmt.Errorf("%s: %w %s/%s", where, ErrDuplicateCommand, d.Name, c.Name))
			}
			names[c.Name] = true
			if _, err := key.ParseSequences(c.Keys); err != nil {
				problems = append(problems, fmt.Errorf("%s: %s/%s keys: %w", where, d.Name, c.Name, err))
			}
			if _, err := key.ParseSequences(c.Defaults); err != nil {
				problems = append(problems, fmt.Errorf("%s: %s/%s defaults: %w", where, d.Name, c.Name, err))
			}
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// NewCollection builds the collection described by d.
func NewCollection(d CollectionDef) (shortcut.Collection, error) {
	switch d.EffectiveKind() {
	case KindAction:
		c := shortcut.NewActionCollection(d.Name)
		for _, cd := range d.Commands {
			keys, defaults, err := parseCommand(d.Name, cd)
			if err != nil {
				return nil, err
			}
			cmd := shortcut.NewCommand(d.Name, cd.Name, cd.Text).WithIcon(cd.Icon).SetDefaults(defaults)
			if err := c.AddCommand(cmd); err != nil {
				return nil, err
			}
			cmd.SetShortcuts(keys)
		}
		return c, nil

	case KindShortcut:
		c := shortcut.NewShortcutCollection(d.Name)
		for _, cd := range d.Commands {
			keys, defaults, err := parseCommand(d.Name, cd)
			if err != nil {
				return nil, err
			}
			c.Define(cd.Name, cd.Text, keys...)
			c.SetDefaults(cd.Name, defaults)
		}
		return c, nil

	default:
		return nil, fmt.Errorf("collection %q: %w %q", d.Name, ErrInvalidKind, d.Kind)
	}
}

func parseCommand(collection string, cd CommandDef) (keys, defaults []key.Sequence, err error) {
	if keys, err = key.ParseSequences(cd.Keys); err != nil {
		return nil, nil, fmt.Errorf("%s/%s keys: %w", collection, cd.Name, err)
	}
	if defaults, err = key.ParseSequences(cd.Defaults); err != nil {
		return nil, nil, fmt.Errorf("%s/%s defaults: %w", collection, cd.Name, err)
	}
	return keys, defaults, nil
}

// Build validates defs, creates their collections and registers them in
// reg. It fails with ErrDuplicateCollection if reg already holds a live
// collection with one of the names. On any error reg is left as it was:
// collections registered before the failure are unregistered again.
func Build(reg *shortcut.Registry, defs []CollectionDef) ([]shortcut.Collection, error) {
	if err := Validate(defs); err != nil {
		return nil, err
	}

	colls := make([]shortcut.Collection, 0, len(defs))
	for _, d := range defs {
		c, err := NewCollection(d)
		if err != nil {
			return nil, err
		}
		colls = append(colls, c)
	}

	for i, c := range colls {
		if !reg.Register(c) {
			for _, added := range colls[:i] {
				reg.Unregister(added)
			}
			return nil, fmt.Errorf("%w %q: already registered", ErrDuplicateCollection, c.Name())
		}
	}
	return colls, nil
}

// Snapshot captures the live state of every collection in reg as a
// definition file. Shortcut collections are written as KindShortcut,
// everything else as KindAction.
func Snapshot(reg *shortcut.Registry) *File {
	f := &File{}
	for c := range reg.All() {
		d := CollectionDef{Name: c.Name(), Kind: KindAction}
		if _, ok := c.(*shortcut.ShortcutCollection); ok {
			d.Kind = KindShortcut
		}
		for name, cmd := range c.Actions() {
			d.Commands = append(d.Commands, CommandDef{
				Name:     name,
				Text:     cmd.Text(),
				Icon:     cmd.Icon(),
				Keys:     key.Strings(c.Shortcuts(name)),
				Defaults: key.Strings(cmd.Defaults()),
			})
		}
		f.Collections = append(f.Collections, d)
	}
	return f
}
