package config

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownFormat is returned for definition files with an unsupported extension.
	ErrUnknownFormat = errors.New("unknown definition format")

	// ErrDuplicateCollection is returned when two definitions share a name.
	ErrDuplicateCollection = errors.New("duplicate collection")

	// ErrDuplicateCommand is returned when a collection defines a command twice.
	ErrDuplicateCommand = errors.New("duplicate command")

	// ErrMissingName is returned for a collection or command without a name.
	ErrMissingName = errors.New("missing name")

	// ErrInvalidKind is returned for an unknown collection kind.
	ErrInvalidKind = errors.New("invalid collection kind")

	// ErrInvalidValue is returned for a setting outside its allowed values.
	ErrInvalidValue = errors.New("invalid value")

	// ErrIncludeDepth is returned when includes nest too deeply.
	ErrIncludeDepth = errors.New("include depth exceeded")
)

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError collects every problem found in a set of definitions.
type ValidationError struct {
	Problems []error
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return e.Problems[0].Error()
	}
	return fmt.Sprintf("%s (and %d more)", e.Problems[0], len(e.Problems)-1)
}

// Unwrap exposes every problem to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error {
	return e.Problems
}
