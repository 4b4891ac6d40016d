package shortcut

import (
	"fmt"

	"github.com/dshills/keyward/internal/input/key"
)

// Ambiguity is a pair of commands whose shortcuts cannot both fire.
type Ambiguity struct {
	A, B       CommandRef
	SeqA, SeqB key.Sequence
}

// String returns "main/save (Ctrl+S) <> snippets/sig (Ctrl+S, s)".
func (a Ambiguity) String() string {
	return fmt.Sprintf("%s (%s) <> %s (%s)", a.A, a.SeqA, a.B, a.SeqB)
}

type boundSequence struct {
	ref CommandRef
	seq key.Sequence
}

// Audit lists every ambiguous pair among all commands in reg, in
// registry order. A command is never reported against itself.
func Audit(reg *Registry) []Ambiguity {
	var bound []boundSequence
	for coll := range reg.All() {
		for name := range coll.Actions() {
			ref := CommandRef{Collection: coll.Name(), Name: name}
			for _, s := range coll.Shortcuts(name) {
				bound = append(bound, boundSequence{ref: ref, seq: s})
			}
		}
	}

	var out []Ambiguity
	for i := 0; i < len(bound); i++ {
		for j := i + 1; j < len(bound); j++ {
			a, b := bound[i], bound[j]
			if a.ref == b.ref || !key.Ambiguous(a.seq, b.seq) {
				continue
			}
			out = append(out, Ambiguity{A: a.ref, B: b.ref, SeqA: a.seq, SeqB: b.seq})
		}
	}
	return out
}
