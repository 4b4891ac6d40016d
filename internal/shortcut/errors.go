package shortcut

import "errors"

// Errors returned by the shortcut package.
var (
	// ErrDuplicateCommand is returned when a command name is reused within a collection.
	ErrDuplicateCommand = errors.New("duplicate command name")

	// ErrCollectionNotFound is returned by lookups that must name a registered collection.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrCommandNotFound is returned by lookups that must name an existing command.
	ErrCommandNotFound = errors.New("command not found")

	// ErrNoEditor is returned when a resolver has no editing surface.
	ErrNoEditor = errors.New("no shortcut editor configured")

	// ErrNoPresenter is returned when a resolver has no conflict presentation surface.
	ErrNoPresenter = errors.New("no conflict presenter configured")

	// ErrNilCommand is returned when a nil command is passed to the resolver.
	ErrNilCommand = errors.New("nil command")
)
