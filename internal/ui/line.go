package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dshills/keyward/internal/shortcut"
)

// Line is a prompt-driven surface reading answers one line at a time.
// End of input cancels an edit and dismisses a conflict report.
type Line struct {
	in     *bufio.Reader
	out    io.Writer
	styles Styles
	log    *logrus.Entry
}

// LineOption configures a Line.
type LineOption func(*Line)

// WithStyles sets the styles used for output.
func WithStyles(s Styles) LineOption {
	return func(l *Line) {
		l.styles = s
	}
}

// WithLineLogger sets the logger.
func WithLineLogger(log *logrus.Entry) LineOption {
	return func(l *Line) {
		if log != nil {
			l.log = log
		}
	}
}

// NewLine creates a line surface reading from in and writing to out.
func NewLine(in io.Reader, out io.Writer, opts ...LineOption) *Line {
	l := &Line{
		in:     bufio.NewReader(in),
		out:    out,
		styles: DefaultStyles(out),
		log:    discardLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Edit prompts for new shortcuts until the input parses or the user
// cancels.
func (l *Line) Edit(ctx context.Context, req shortcut.EditRequest) (shortcut.EditResult, error) {
	s := l.styles
	fmt.Fprintf(l.out, "%s %s\n",
		s.Title.Render("Shortcuts for"),
		s.Command.Render(fmt.Sprintf("%s (%s)", req.Command.DisplayName(), req.Command.Ref())))
	fmt.Fprintf(l.out, "%s %s\n", s.Label.Render("  current: "), s.Sequence.Render(formatList(req.Current)))
	if len(req.Defaults) > 0 {
		fmt.Fprintf(l.out, "%s %s\n", s.Label.Render("  default: "), s.Sequence.Render(formatList(req.Defaults)))
	}

	for {
		if err := ctx.Err(); err != nil {
			return shortcut.EditResult{}, err
		}

		fmt.Fprint(l.out, s.Hint.Render(fmt.Sprintf("New shortcuts (up to %d, ';' separated; default, none, cancel): ", shortcut.MaxAlternatives)))
		input, err := l.readLine()
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(l.out)
			return shortcut.EditResult{}, nil
		}
		if err != nil {
			return shortcut.EditResult{}, err
		}

		seqs, ok, err := ParseProposal(input, req.Current, req.Defaults)
		if err != nil {
			fmt.Fprintln(l.out, s.Error.Render("  "+err.Error()))
			l.log.WithError(err).Debug("proposal rejected")
			continue
		}
		return shortcut.EditResult{Shortcuts: seqs, Confirmed: ok}, nil
	}
}

// ReportConflicts prints the conflict message and asks whether to edit
// again.
func (l *Line) ReportConflicts(ctx context.Context, n shortcut.Notice) (shortcut.Choice, error) {
	s := l.styles
	fmt.Fprintln(l.out, s.Title.Render(n.Message.Title))
	fmt.Fprintln(l.out, n.Message.Intro)
	for _, line := range n.Message.Lines {
		fmt.Fprintln(l.out, s.Conflict.Render(line.String()))
	}

	for {
		if err := ctx.Err(); err != nil {
			return shortcut.ChoiceDismiss, err
		}

		fmt.Fprint(l.out, s.Hint.Render("[e]dit again or [d]ismiss? "))
		input, err := l.readLine()
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(l.out)
			return shortcut.ChoiceDismiss, nil
		}
		if err != nil {
			return shortcut.ChoiceDismiss, err
		}

		switch strings.ToLower(input) {
		case "e", "edit", "edit again":
			return shortcut.ChoiceEditAgain, nil
		case "d", "dismiss", "":
			return shortcut.ChoiceDismiss, nil
		}
	}
}

// Close does nothing; Line does not own its streams.
func (l *Line) Close() error {
	return nil
}

// readLine returns the next line without its terminator. A final line
// without newline is returned before io.EOF.
func (l *Line) readLine() (string, error) {
	line, err := l.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func discardLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}
