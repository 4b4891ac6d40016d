package shortcut

import (
	"github.com/sirupsen/logrus"

	"github.com/dshills/keyward/internal/input/key"
)

// SkipFunc decides whether a visited command is excluded from conflict
// comparison. It is called with the collection, the command name and the
// command as yielded by the collection.
type SkipFunc func(c Collection, name string, cmd *Command) bool

// SkipCommand skips the given command. A command matches by identity or,
// for collections that materialize fresh command objects, by its
// collection and command name.
func SkipCommand(target *Command) SkipFunc {
	if target == nil {
		return SkipNothing
	}
	ref := target.Ref()
	return func(c Collection, name string, cmd *Command) bool {
		return cmd == target || (c.Name() == ref.Collection && name == ref.Name)
	}
}

// SkipName skips the command identified by an explicit collection and
// command name. A pair naming nothing simply never matches.
func SkipName(collection, name string) SkipFunc {
	return func(c Collection, n string, _ *Command) bool {
		return c.Name() == collection && n == name
	}
}

// SkipNothing compares against every command.
func SkipNothing(Collection, string, *Command) bool {
	return false
}

// Overlap is one pair of ambiguous sequences: an existing shortcut of a
// foreign command and the proposed shortcut it collides with.
type Overlap struct {
	Existing key.Sequence
	Proposed key.Sequence
}

// Conflict lists every overlap found for one foreign command.
type Conflict struct {
	Command  *Command
	Overlaps []Overlap
}

// Ref returns the conflicting command's identity.
func (c Conflict) Ref() CommandRef {
	return c.Command.Ref()
}

// Sequences returns the foreign command's overlapping sequences in
// discovery order, without duplicates.
func (c Conflict) Sequences() []key.Sequence {
	out := make([]key.Sequence, 0, len(c.Overlaps))
	for _, o := range c.Overlaps {
		if !key.Contains(out, o.Existing) {
			out = append(out, o.Existing)
		}
	}
	return out
}

// Proposed returns the proposed sequences that collide with this command,
// in discovery order, without duplicates.
func (c Conflict) Proposed() []key.Sequence {
	out := make([]key.Sequence, 0, len(c.Overlaps))
	for _, o := range c.Overlaps {
		if !key.Contains(out, o.Proposed) {
			out = append(out, o.Proposed)
		}
	}
	return out
}

// Report is the result of one conflict check. It is ordered by discovery:
// collections in registration order, then commands in insertion order,
// then sequences.
type Report struct {
	// Candidate is the command being edited. May be nil.
	Candidate *Command

	// Proposed is the shortcut set that was checked.
	Proposed []key.Sequence

	conflicts []Conflict
	index     map[CommandRef]int
}

func newReport(candidate *Command, proposed []key.Sequence) *Report {
	return &Report{
		Candidate: candidate,
		Proposed:  key.CloneAll(proposed),
		index:     make(map[CommandRef]int),
	}
}

func (r *Report) add(cmd *Command, o Overlap) {
	ref := cmd.Ref()
	i, ok := r.index[ref]
	if !ok {
		i = len(r.conflicts)
		r.index[ref] = i
		r.conflicts = append(r.conflicts, Conflict{Command: cmd})
	}
	r.conflicts[i].Overlaps = append(r.conflicts[i].Overlaps, o)
}

// Empty reports whether no conflict was found.
func (r *Report) Empty() bool {
	return r == nil || len(r.conflicts) == 0
}

// Len returns the number of conflicting commands.
func (r *Report) Len() int {
	if r == nil {
		return 0
	}
	return len(r.conflicts)
}

// Conflicts returns the conflicts in discovery order.
func (r *Report) Conflicts() []Conflict {
	if r == nil {
		return nil
	}
	out := make([]Conflict, len(r.conflicts))
	copy(out, r.conflicts)
	return out
}

// Lookup returns the conflict recorded for a command.
func (r *Report) Lookup(ref CommandRef) (Conflict, bool) {
	if r == nil {
		return Conflict{}, false
	}
	i, ok := r.index[ref]
	if !ok {
		return Conflict{}, false
	}
	return r.conflicts[i], true
}

// Sequences returns the overlapping sequences recorded against cmd, or nil.
func (r *Report) Sequences(cmd *Command) []key.Sequence {
	if cmd == nil {
		return nil
	}
	c, ok := r.Lookup(cmd.Ref())
	if !ok {
		return nil
	}
	return c.Sequences()
}

// ConflictingProposals returns every proposed sequence that collides with
// at least one foreign command, in proposal order.
func (r *Report) ConflictingProposals() []key.Sequence {
	if r.Empty() {
		return nil
	}
	var out []key.Sequence
	for _, p := range r.Proposed {
		if r.isConflicting(p) {
			out = append(out, p.Clone())
		}
	}
	return out
}

func (r *Report) isConflicting(s key.Sequence) bool {
	for _, c := range r.conflicts {
		for _, o := range c.Overlaps {
			if o.Proposed.Equals(s) {
				return true
			}
		}
	}
	return false
}

// Prune returns proposal without the sequences this report found in
// conflict. Each conflicting sequence is dropped once no matter how many
// commands it collides with; order of the survivors is kept. proposal is
// not modified.
func (r *Report) Prune(proposal []key.Sequence) []key.Sequence {
	out := make([]key.Sequence, 0, len(proposal))
	for _, s := range proposal {
		if r.Empty() || !r.isConflicting(s) {
			out = append(out, s.Clone())
		}
	}
	return out
}

// Detector finds commands whose shortcuts are ambiguous with a proposal.
// Detection is read-only.
type Detector struct {
	registry *Registry
	log      *logrus.Entry
}

// DetectorOption configures a Detector.
type DetectorOption func(*Detector)

// WithDetectorLogger sets the logger used by the detector.
func WithDetectorLogger(log *logrus.Entry) DetectorOption {
	return func(d *Detector) {
		if log != nil {
			d.log = log
		}
	}
}

// NewDetector creates a detector scanning reg.
func NewDetector(reg *Registry, opts ...DetectorOption) *Detector {
	d := &Detector{
		registry: reg,
		log:      discardLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Registry returns the registry the detector scans.
func (d *Detector) Registry() *Registry {
	return d.registry
}

// Detect compares proposed against the shortcuts of every command in the
// registry and reports the overlaps. candidate is carried into the report
// for display. A nil skip excludes candidate itself.
//
// An empty proposal yields an empty report without scanning.
func (d *Detector) Detect(candidate *Command, proposed []key.Sequence, skip SkipFunc) *Report {
	report := newReport(candidate, proposed)
	if len(proposed) == 0 {
		return report
	}
	if skip == nil {
		skip = SkipCommand(candidate)
	}

	scanned := 0
	for coll := range d.registry.All() {
		scanned++
		for name, cmd := range coll.Actions() {
			if skip(coll, name, cmd) {
				continue
			}
			// Read the collection, not the command: some collections
			// keep shortcuts apart from their command objects.
			for _, existing := range coll.Shortcuts(name) {
				for _, p := range proposed {
					if key.Ambiguous(existing, p) {
						report.add(cmd, Overlap{Existing: existing, Proposed: p.Clone()})
					}
				}
			}
		}
	}

	fields := logrus.Fields{
		"collections": scanned,
		"conflicts":   report.Len(),
	}
	if candidate != nil {
		fields["command"] = candidate.Ref().String()
	}
	d.log.WithFields(fields).Debug("conflict check finished")
	return report
}
