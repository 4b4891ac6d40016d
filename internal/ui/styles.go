package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles of the line surface.
type Styles struct {
	Title    lipgloss.Style
	Command  lipgloss.Style
	Label    lipgloss.Style
	Sequence lipgloss.Style
	Conflict lipgloss.Style
	Error    lipgloss.Style
	Hint     lipgloss.Style
}

// DefaultStyles returns styles rendered for w. Color is used only when w
// is a color-capable terminal.
func DefaultStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	return Styles{
		Title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		Command:  r.NewStyle().Bold(true),
		Label:    r.NewStyle().Foreground(lipgloss.Color("8")),
		Sequence: r.NewStyle().Foreground(lipgloss.Color("14")),
		Conflict: r.NewStyle().Foreground(lipgloss.Color("9")).PaddingLeft(2),
		Error:    r.NewStyle().Foreground(lipgloss.Color("9")),
		Hint:     r.NewStyle().Faint(true),
	}
}

// PlainStyles returns styles that render text unchanged.
func PlainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{
		Title:    s,
		Command:  s,
		Label:    s,
		Sequence: s,
		Conflict: s.PaddingLeft(2),
		Error:    s,
		Hint:     s,
	}
}
