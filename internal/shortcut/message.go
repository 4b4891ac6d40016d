package shortcut

import (
	"html"
	"strings"

	"github.com/dshills/keyward/internal/input/key"
)

// DefaultSeparator joins several sequences of one command in a conflict line.
const DefaultSeparator = " — "

// Message is a conflict report rendered for a person.
type Message struct {
	Title string
	Intro string

	// Lines holds one entry per conflicting command.
	Lines []MessageLine
}

// MessageLine describes one conflicting command.
type MessageLine struct {
	Command   string
	Ref       CommandRef
	Sequences []string
	Separator string
}

// String returns the command name followed by its sequences in parentheses.
func (l MessageLine) String() string {
	sep := l.Separator
	if sep == "" {
		sep = DefaultSeparator
	}
	return l.Command + " (" + strings.Join(l.Sequences, sep) + ")"
}

// FormatOption configures FormatReport.
type FormatOption func(*formatConfig)

type formatConfig struct {
	separator string
}

// WithSeparator sets the separator between sequences of one command.
func WithSeparator(sep string) FormatOption {
	return func(c *formatConfig) {
		if sep != "" {
			c.separator = sep
		}
	}
}

// FormatReport renders a report. Each line names the conflicting command
// by its display name and lists the proposed sequences that collide with
// it.
func FormatReport(r *Report, opts ...FormatOption) Message {
	cfg := formatConfig{separator: DefaultSeparator}
	for _, opt := range opts {
		opt(&cfg)
	}

	msg := Message{Title: "Shortcut Conflict"}
	if r.Len() == 1 {
		msg.Intro = "This shortcut conflicts with the following command:"
	} else {
		msg.Intro = "This shortcut conflicts with the following commands:"
	}

	for _, c := range r.Conflicts() {
		msg.Lines = append(msg.Lines, MessageLine{
			Command:   c.Command.DisplayName(),
			Ref:       c.Ref(),
			Sequences: key.Strings(c.Proposed()),
			Separator: cfg.separator,
		})
	}
	return msg
}

// Text renders the message as plain text, one line per command.
func (m Message) Text() string {
	var sb strings.Builder
	sb.WriteString(m.Intro)
	for _, l := range m.Lines {
		sb.WriteByte('\n')
		sb.WriteString(l.String())
	}
	return sb.String()
}

// HTML renders the message as two paragraphs, the command lines separated
// by line breaks.
func (m Message) HTML() string {
	lines := make([]string, len(m.Lines))
	for i, l := range m.Lines {
		lines[i] = html.EscapeString(l.String())
	}
	return "<p>" + html.EscapeString(m.Intro) + "</p><p>" + strings.Join(lines, "<br/>") + "</p>"
}
