package ui

import (
	"context"
	"fmt"
	"sync"

	"github.com/dshills/keyward/internal/shortcut"
)

// Script answers editor and presenter calls from prepared input, for
// non-interactive runs and tests. Each proposal uses the ParseProposal
// syntax. When the proposals run out the edit is cancelled; when the
// answers run out conflicts are dismissed.
type Script struct {
	mu        sync.Mutex
	proposals []string
	answers   []shortcut.Choice

	// Notices records every conflict report shown.
	Notices []shortcut.Notice
}

// NewScript creates a scripted surface.
func NewScript(proposals []string, answers ...shortcut.Choice) *Script {
	return &Script{proposals: proposals, answers: answers}
}

// Edit returns the next proposal.
func (s *Script) Edit(_ context.Context, req shortcut.EditRequest) (shortcut.EditResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.proposals) == 0 {
		return shortcut.EditResult{}, nil
	}
	input := s.proposals[0]
	s.proposals = s.proposals[1:]

	seqs, ok, err := ParseProposal(input, req.Current, req.Defaults)
	if err != nil {
		return shortcut.EditResult{}, fmt.Errorf("scripted proposal %q: %w", input, err)
	}
	return shortcut.EditResult{Shortcuts: seqs, Confirmed: ok}, nil
}

// ReportConflicts records n and returns the next answer.
func (s *Script) ReportConflicts(_ context.Context, n shortcut.Notice) (shortcut.Choice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Notices = append(s.Notices, n)
	if len(s.answers) == 0 {
		return shortcut.ChoiceDismiss, nil
	}
	c := s.answers[0]
	s.answers = s.answers[1:]
	return c, nil
}

// Close does nothing.
func (s *Script) Close() error {
	return nil
}
