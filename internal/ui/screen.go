package ui

import (
	"context"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/dshills/keyward/internal/input/key"
	"github.com/dshills/keyward/internal/shortcut"
)

// Screen is a full-screen tcell dialog.
//
// While editing, the input line holds the proposal in ParseProposal
// syntax. F2 starts recording: key presses are captured as chords until
// Enter appends the recorded sequence to the input or Esc drops it.
// Enter and Esc themselves cannot be recorded.
type Screen struct {
	scr tcell.Screen
	log *logrus.Entry

	mu   sync.Mutex
	open bool

	styles screenStyles
}

type screenStyles struct {
	title, label, value, input, err, hint, conflict tcell.Style
}

func defaultScreenStyles() screenStyles {
	base := tcell.StyleDefault
	return screenStyles{
		title:    base.Bold(true).Foreground(tcell.ColorYellow),
		label:    base.Foreground(tcell.ColorGray),
		value:    base.Foreground(tcell.ColorAqua),
		input:    base.Underline(true),
		err:      base.Foreground(tcell.ColorRed),
		hint:     base.Dim(true),
		conflict: base.Foreground(tcell.ColorRed),
	}
}

// ScreenOption configures a Screen.
type ScreenOption func(*Screen)

// WithScreenLogger sets the logger.
func WithScreenLogger(log *logrus.Entry) ScreenOption {
	return func(s *Screen) {
		if log != nil {
			s.log = log
		}
	}
}

// NewScreen wraps scr. The screen is initialized on first use.
func NewScreen(scr tcell.Screen, opts ...ScreenOption) *Screen {
	s := &Screen{scr: scr, log: discardLogger(), styles: defaultScreenStyles()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewTerminalScreen creates a Screen on the controlling terminal.
func NewTerminalScreen(opts ...ScreenOption) (*Screen, error) {
	scr, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewScreen(scr, opts...), nil
}

// Open initializes the terminal. It is called by Edit and ReportConflicts
// and is a no-op once the screen is open.
func (s *Screen) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.open {
		return nil
	}
	if err := s.scr.Init(); err != nil {
		return err
	}
	s.scr.EnablePaste()
	s.open = true
	return nil
}

// Close restores the terminal.
func (s *Screen) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.open {
		s.scr.Fini()
		s.open = false
	}
	return nil
}

// watch interrupts PollEvent when ctx is done. The returned function
// stops watching.
func (s *Screen) watch(ctx context.Context) func() {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = s.scr.PostEvent(tcell.NewEventInterrupt(ctx.Err()))
		case <-done:
		}
	}()
	return func() { close(done) }
}

type editState struct {
	input     []rune
	recording bool
	recorded  []key.Chord
	message   string
}

// Edit runs the editing dialog.
func (s *Screen) Edit(ctx context.Context, req shortcut.EditRequest) (shortcut.EditResult, error) {
	if err := s.Open(); err != nil {
		return shortcut.EditResult{}, err
	}
	defer s.watch(ctx)()

	st := &editState{}
	if len(req.Current) > 0 {
		st.input = []rune(strings.Join(key.Strings(req.Current), "; "))
	}

	for {
		s.drawEdit(req, st)

		switch ev := s.scr.PollEvent().(type) {
		case nil:
			return shortcut.EditResult{}, context.Canceled
		case *tcell.EventInterrupt:
			if err := ctx.Err(); err != nil {
				return shortcut.EditResult{}, err
			}
		case *tcell.EventResize:
			s.scr.Sync()
		case *tcell.EventKey:
			if st.recording {
				s.record(st, ev)
				continue
			}
			if res, done := s.editKey(req, st, ev); done {
				return res, nil
			}
		}
	}
}

// editKey applies one key press to the input line. It reports true when
// the dialog is finished.
func (s *Screen) editKey(req shortcut.EditRequest, st *editState, ev *tcell.EventKey) (shortcut.EditResult, bool) {
	st.message = ""

	switch ev.Key() {
	case tcell.KeyEscape:
		return shortcut.EditResult{}, true
	case tcell.KeyEnter:
		seqs, ok, err := ParseProposal(string(st.input), req.Current, req.Defaults)
		if err != nil {
			st.message = err.Error()
			return shortcut.EditResult{}, false
		}
		if len(st.input) == 0 {
			// An emptied line means no shortcuts, not "keep current".
			seqs = []key.Sequence{}
		}
		return shortcut.EditResult{Shortcuts: seqs, Confirmed: ok}, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if n := len(st.input); n > 0 {
			st.input = st.input[:n-1]
		}
	case tcell.KeyCtrlU:
		st.input = nil
	case tcell.KeyCtrlD:
		if len(req.Defaults) == 0 {
			st.message = ErrNoDefaults.Error()
			break
		}
		st.input = []rune(strings.Join(key.Strings(req.Defaults), "; "))
	case tcell.KeyF2:
		st.recording = true
		st.recorded = nil
	case tcell.KeyRune:
		st.input = append(st.input, ev.Rune())
	}
	return shortcut.EditResult{}, false
}

// record captures one key press while recording.
func (s *Screen) record(st *editState, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		st.recording = false
		st.recorded = nil
		return
	case tcell.KeyEnter:
		st.recording = false
		if len(st.recorded) == 0 {
			return
		}
		seq := key.NewSequence(st.recorded...).String()
		if len(st.input) > 0 {
			st.input = append(st.input, []rune("; ")...)
		}
		st.input = append(st.input, []rune(seq)...)
		st.recorded = nil
		return
	}

	if c, ok := ChordFromEvent(ev); ok {
		st.recorded = append(st.recorded, c)
	}
}

func (s *Screen) drawEdit(req shortcut.EditRequest, st *editState) {
	s.scr.Clear()
	ss := s.styles

	row := 0
	s.text(0, row, ss.title, "Shortcuts for "+req.Command.DisplayName()+" ("+req.Command.Ref().String()+")")
	row += 2
	s.text(0, row, ss.label, "Current: ")
	s.text(9, row, ss.value, formatList(req.Current))
	row++
	if len(req.Defaults) > 0 {
		s.text(0, row, ss.label, "Default: ")
		s.text(9, row, ss.value, formatList(req.Defaults))
		row++
	}
	row++

	s.text(0, row, ss.label, "> ")
	s.text(2, row, ss.input, string(st.input))
	s.scr.ShowCursor(2+len(st.input), row)
	row++

	if st.recording {
		s.text(0, row, ss.value, "Recording: "+key.NewSequence(st.recorded...).String())
	}
	row++
	if st.message != "" {
		s.text(0, row, ss.err, st.message)
	}

	_, h := s.scr.Size()
	hint := "Enter accept  Esc cancel  F2 record  Ctrl+D default  Ctrl+U clear"
	if st.recording {
		hint = "Press keys to record  Enter finish  Esc discard"
	}
	s.text(0, h-1, ss.hint, hint)
	s.scr.Show()
}

// ReportConflicts shows the conflict message until the user answers.
func (s *Screen) ReportConflicts(ctx context.Context, n shortcut.Notice) (shortcut.Choice, error) {
	if err := s.Open(); err != nil {
		return shortcut.ChoiceDismiss, err
	}
	defer s.watch(ctx)()

	for {
		s.drawNotice(n)

		switch ev := s.scr.PollEvent().(type) {
		case nil:
			return shortcut.ChoiceDismiss, context.Canceled
		case *tcell.EventInterrupt:
			if err := ctx.Err(); err != nil {
				return shortcut.ChoiceDismiss, err
			}
		case *tcell.EventResize:
			s.scr.Sync()
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyEscape:
				return shortcut.ChoiceDismiss, nil
			case ev.Key() == tcell.KeyRune && (ev.Rune() == 'e' || ev.Rune() == 'E'):
				return shortcut.ChoiceEditAgain, nil
			case ev.Key() == tcell.KeyRune && (ev.Rune() == 'd' || ev.Rune() == 'D'):
				return shortcut.ChoiceDismiss, nil
			}
		}
	}
}

func (s *Screen) drawNotice(n shortcut.Notice) {
	s.scr.Clear()
	s.scr.HideCursor()
	ss := s.styles

	s.text(0, 0, ss.title, n.Message.Title)
	s.text(0, 2, tcell.StyleDefault, n.Message.Intro)
	for i, line := range n.Message.Lines {
		s.text(2, 3+i, ss.conflict, line.String())
	}

	_, h := s.scr.Size()
	s.text(0, h-1, ss.hint, "e edit again  d/Esc dismiss")
	s.scr.Show()
}

// text draws str from (x, y), clipped to the screen width.
func (s *Screen) text(x, y int, style tcell.Style, str string) {
	w, h := s.scr.Size()
	if y < 0 || y >= h {
		return
	}
	for _, r := range str {
		if x >= w {
			return
		}
		s.scr.SetContent(x, y, r, nil, style)
		x++
	}
}

// ChordFromEvent converts a tcell key event into a chord. It reports
// false for keys with no chord equivalent.
func ChordFromEvent(ev *tcell.EventKey) (key.Chord, bool) {
	mods := convertMod(ev.Modifiers())

	if ev.Key() == tcell.KeyRune {
		// Shift is carried by the rune itself.
		return key.NewRuneChord(ev.Rune(), mods.Without(key.ModShift)), true
	}
	if ev.Key() == tcell.KeyBacktab {
		return key.NewSpecialChord(key.KeyTab, mods.With(key.ModShift)), true
	}
	// Ctrl+H, Ctrl+I and Ctrl+M arrive as Backspace, Tab and Enter.
	if k, ok := specialKeys[ev.Key()]; ok {
		return key.NewSpecialChord(k, mods), true
	}
	if ev.Key() >= tcell.KeyCtrlA && ev.Key() <= tcell.KeyCtrlZ {
		r := 'a' + rune(ev.Key()-tcell.KeyCtrlA)
		return key.NewRuneChord(r, mods.With(key.ModCtrl)), true
	}
	return key.Chord{}, false
}

var specialKeys = map[tcell.Key]key.Key{
	tcell.KeyEscape:     key.KeyEscape,
	tcell.KeyEnter:      key.KeyEnter,
	tcell.KeyTab:        key.KeyTab,
	tcell.KeyBackspace:  key.KeyBackspace,
	tcell.KeyBackspace2: key.KeyBackspace,
	tcell.KeyDelete:     key.KeyDelete,
	tcell.KeyInsert:     key.KeyInsert,
	tcell.KeyHome:       key.KeyHome,
	tcell.KeyEnd:        key.KeyEnd,
	tcell.KeyPgUp:       key.KeyPageUp,
	tcell.KeyPgDn:       key.KeyPageDown,
	tcell.KeyUp:         key.KeyUp,
	tcell.KeyDown:       key.KeyDown,
	tcell.KeyLeft:       key.KeyLeft,
	tcell.KeyRight:      key.KeyRight,
	tcell.KeyF1:         key.KeyF1,
	tcell.KeyF2:         key.KeyF2,
	tcell.KeyF3:         key.KeyF3,
	tcell.KeyF4:         key.KeyF4,
	tcell.KeyF5:         key.KeyF5,
	tcell.KeyF6:         key.KeyF6,
	tcell.KeyF7:         key.KeyF7,
	tcell.KeyF8:         key.KeyF8,
	tcell.KeyF9:         key.KeyF9,
	tcell.KeyF10:        key.KeyF10,
	tcell.KeyF11:        key.KeyF11,
	tcell.KeyF12:        key.KeyF12,
	tcell.KeyPause:      key.KeyPause,
	tcell.KeyPrint:      key.KeyPrint,
}

func convertMod(m tcell.ModMask) key.Modifier {
	var mods key.Modifier
	if m&tcell.ModShift != 0 {
		mods = mods.With(key.ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		mods = mods.With(key.ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		mods = mods.With(key.ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		mods = mods.With(key.ModMeta)
	}
	return mods
}
