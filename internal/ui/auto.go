package ui

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"github.com/dshills/keyward/internal/shortcut"
)

// Surface edits shortcuts and reports conflicts for a resolver.
type Surface interface {
	shortcut.Editor
	shortcut.Presenter
	io.Closer
}

// Surface modes.
const (
	ModeAuto   = "auto"
	ModeLine   = "line"
	ModeScreen = "screen"
)

// ErrUnknownMode is returned for a mode other than auto, line or screen.
var ErrUnknownMode = errors.New("unknown ui mode")

// ErrNotTerminal is returned when screen mode is requested without a terminal.
var ErrNotTerminal = errors.New("not a terminal")

// Open returns the surface for mode. Auto mode picks the screen when both
// in and out are terminals and falls back to the line surface otherwise.
func Open(mode string, in, out *os.File, log *logrus.Entry) (Surface, error) {
	if log == nil {
		log = discardLogger()
	}

	switch mode {
	case ModeLine:
		return NewLine(in, out, WithLineLogger(log)), nil
	case ModeScreen:
		if !IsTerminal(in) || !IsTerminal(out) {
			return nil, fmt.Errorf("screen mode: %w", ErrNotTerminal)
		}
		return NewTerminalScreen(WithScreenLogger(log))
	case ModeAuto, "":
		if IsTerminal(in) && IsTerminal(out) {
			s, err := NewTerminalScreen(WithScreenLogger(log))
			if err == nil {
				return s, nil
			}
			log.WithError(err).Debug("screen unavailable, using line mode")
		}
		return NewLine(in, out, WithLineLogger(log)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

// IsTerminal reports whether f is a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
