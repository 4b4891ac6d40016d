package shortcut

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dshills/keyward/internal/input/key"
)

// MaxAlternatives is the number of sequences an editing surface offers:
// a primary shortcut and three alternates.
const MaxAlternatives = 4

// State is a step of the resolution workflow.
type State int

const (
	// StateEditing waits for the editing surface to return a proposal.
	StateEditing State = iota

	// StateCheckingConflicts runs the detector on the proposal.
	StateCheckingConflicts

	// StateReportingConflict waits for the user's answer to a conflict report.
	StateReportingConflict

	// StateAccepted is terminal: the proposal was committed.
	StateAccepted

	// StateCancelled is terminal: nothing was committed.
	StateCancelled
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateCheckingConflicts:
		return "checking"
	case StateReportingConflict:
		return "reporting"
	case StateAccepted:
		return "accepted"
	case StateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether the workflow ends in this state.
func (s State) Terminal() bool {
	return s == StateAccepted || s == StateCancelled
}

// Choice is the user's answer to a conflict report.
type Choice int

const (
	// ChoiceDismiss abandons the edit.
	ChoiceDismiss Choice = iota

	// ChoiceEditAgain returns to editing with the conflicting sequences removed.
	ChoiceEditAgain
)

// String returns the choice name.
func (c Choice) String() string {
	if c == ChoiceEditAgain {
		return "edit-again"
	}
	return "dismiss"
}

// EditRequest is handed to the editing surface.
type EditRequest struct {
	// Command is the command being edited.
	Command *Command

	// Defaults are the command's default shortcuts; nil hides the
	// "use default" option.
	Defaults []key.Sequence

	// Current is the proposal to start from.
	Current []key.Sequence

	// Round counts editing passes, starting at 1.
	Round int
}

// EditResult is what the editing surface returns.
type EditResult struct {
	Shortcuts []key.Sequence

	// Confirmed is false when the user cancelled.
	Confirmed bool
}

// Editor is the editing surface.
type Editor interface {
	Edit(ctx context.Context, req EditRequest) (EditResult, error)
}

// EditorFunc adapts a function to the Editor interface.
type EditorFunc func(ctx context.Context, req EditRequest) (EditResult, error)

// Edit calls f.
func (f EditorFunc) Edit(ctx context.Context, req EditRequest) (EditResult, error) {
	return f(ctx, req)
}

// Notice is handed to the conflict presentation surface.
type Notice struct {
	Report  *Report
	Message Message
}

// Presenter is the conflict presentation surface.
type Presenter interface {
	ReportConflicts(ctx context.Context, n Notice) (Choice, error)
}

// PresenterFunc adapts a function to the Presenter interface.
type PresenterFunc func(ctx context.Context, n Notice) (Choice, error)

// ReportConflicts calls f.
func (f PresenterFunc) ReportConflicts(ctx context.Context, n Notice) (Choice, error) {
	return f(ctx, n)
}

// Outcome describes how a resolution run ended.
type Outcome struct {
	// State is StateAccepted or StateCancelled.
	State State

	// Shortcuts is the committed set when accepted, otherwise the last
	// proposal seen.
	Shortcuts []key.Sequence

	// Rounds counts editing passes.
	Rounds int

	// Report is the conflict report behind a cancellation after a
	// conflict, nil otherwise.
	Report *Report

	// Session identifies the run in logs.
	Session string
}

// OK reports whether the new shortcuts were committed.
func (o Outcome) OK() bool {
	return o.State == StateAccepted
}

// Resolver runs the edit, check and report loop for one command at a time.
// Runs are not meant to overlap; the caller serializes them.
type Resolver struct {
	detector  *Detector
	editor    Editor
	presenter Presenter

	formatOpts []FormatOption
	hook       func(from, to State)
	log        *logrus.Entry
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithResolverLogger sets the logger used by the resolver.
func WithResolverLogger(log *logrus.Entry) ResolverOption {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// WithTransitionHook registers a function called on every state change.
func WithTransitionHook(hook func(from, to State)) ResolverOption {
	return func(r *Resolver) {
		r.hook = hook
	}
}

// WithFormatOptions sets the options used to render conflict messages.
func WithFormatOptions(opts ...FormatOption) ResolverOption {
	return func(r *Resolver) {
		r.formatOpts = append(r.formatOpts, opts...)
	}
}

// NewResolver creates a resolver.
func NewResolver(det *Detector, editor Editor, presenter Presenter, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		detector:  det,
		editor:    editor,
		presenter: presenter,
		log:       discardLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run edits the shortcuts of candidate until the user accepts a
// conflict-free proposal or cancels.
//
// defaults are offered to the editing surface as the "use default" choice.
// skip selects the command excluded from conflict checks; nil excludes
// candidate. The command's live shortcuts change only when the returned
// outcome is accepted. Errors from the surfaces or ctx abort the run
// without committing anything.
func (r *Resolver) Run(ctx context.Context, candidate *Command, defaults []key.Sequence, skip SkipFunc) (Outcome, error) {
	if candidate == nil {
		return Outcome{State: StateCancelled}, ErrNilCommand
	}
	if r.editor == nil {
		return Outcome{State: StateCancelled}, ErrNoEditor
	}
	if r.presenter == nil {
		return Outcome{State: StateCancelled}, ErrNoPresenter
	}
	if skip == nil {
		skip = SkipCommand(candidate)
	}

	out := Outcome{Session: uuid.NewString()}
	log := r.log.WithFields(logrus.Fields{
		"session": out.Session,
		"command": candidate.Ref().String(),
	})

	proposal := candidate.Shortcuts()
	state := StateEditing
	move := func(to State) {
		log.WithFields(logrus.Fields{"from": state.String(), "to": to.String()}).Debug("state change")
		if r.hook != nil {
			r.hook(state, to)
		}
		state = to
	}
	finish := func(to State) Outcome {
		move(to)
		out.State = to
		out.Shortcuts = key.CloneAll(proposal)
		return out
	}

	for {
		if err := ctx.Err(); err != nil {
			return finish(StateCancelled), fmt.Errorf("editing shortcuts of %s: %w", candidate.Ref(), err)
		}

		switch state {
		case StateEditing:
			out.Rounds++
			res, err := r.editor.Edit(ctx, EditRequest{
				Command:  candidate,
				Defaults: key.CloneAll(defaults),
				Current:  key.CloneAll(proposal),
				Round:    out.Rounds,
			})
			if err != nil {
				return finish(StateCancelled), fmt.Errorf("editing shortcuts of %s: %w", candidate.Ref(), err)
			}
			if !res.Confirmed {
				log.Info("shortcut edit cancelled")
				return finish(StateCancelled), nil
			}
			proposal = dedupe(res.Shortcuts)
			move(StateCheckingConflicts)

		case StateCheckingConflicts:
			out.Report = nil
			if len(proposal) > 0 {
				out.Report = r.detector.Detect(candidate, proposal, skip)
				if !out.Report.Empty() {
					move(StateReportingConflict)
					continue
				}
			}
			candidate.SetShortcuts(proposal)
			log.WithField("shortcuts", key.Strings(proposal)).Info("shortcuts committed")
			return finish(StateAccepted), nil

		case StateReportingConflict:
			notice := Notice{Report: out.Report, Message: FormatReport(out.Report, r.formatOpts...)}
			choice, err := r.presenter.ReportConflicts(ctx, notice)
			if err != nil {
				return finish(StateCancelled), fmt.Errorf("reporting conflicts for %s: %w", candidate.Ref(), err)
			}
			log.WithFields(logrus.Fields{
				"conflicts": out.Report.Len(),
				"choice":    choice.String(),
			}).Info("shortcut conflict reported")

			if choice != ChoiceEditAgain {
				return finish(StateCancelled), nil
			}
			proposal = out.Report.Prune(proposal)
			move(StateEditing)
		}
	}
}

// dedupe drops empty and repeated sequences, keeping first occurrences.
func dedupe(seqs []key.Sequence) []key.Sequence {
	out := make([]key.Sequence, 0, len(seqs))
	for _, s := range seqs {
		if s.IsEmpty() || key.Contains(out, s) {
			continue
		}
		out = append(out, s.Clone())
	}
	return out
}
