// Package search finds commands by fuzzy matching their names.
//
// A query matches when all of its characters appear in order in the
// command's display name or "collection/name" reference. Matches score
// higher when they are consecutive, fall on word boundaries or start the
// text, and lower when spread out.
package search

import (
	"sort"
	"strings"
	"unicode"

	"github.com/dshills/keyward/internal/input/key"
	"github.com/dshills/keyward/internal/shortcut"
)

// Hit is one command matching a query.
type Hit struct {
	Command   *shortcut.Command
	Shortcuts []key.Sequence

	// Text is the string that matched; Matches holds its matched rune
	// indices.
	Text    string
	Matches []int
	Score   int
}

// Weights tunes scoring.
type Weights struct {
	Base           int // starting score for any match
	Consecutive    int // per character following the previous match
	WordBoundary   int // per match at a word start
	Prefix         int // first match at position 0
	ExactPrefix    int // query is a prefix of the text
	Gap            int // penalty per skipped character between matches
	Leading        int // penalty per character before the first match
	ShortThreshold int // texts shorter than this earn the difference
}

// DefaultWeights returns the default scoring weights.
func DefaultWeights() Weights {
	return Weights{
		Base:           100,
		Consecutive:    20,
		WordBoundary:   15,
		Prefix:         25,
		ExactPrefix:    50,
		Gap:            2,
		Leading:        1,
		ShortThreshold: 20,
	}
}

// Finder matches queries against the commands of a registry.
type Finder struct {
	weights Weights
}

// Option configures a Finder.
type Option func(*Finder)

// WithWeights replaces the scoring weights.
func WithWeights(w Weights) Option {
	return func(f *Finder) {
		f.weights = w
	}
}

// NewFinder creates a finder.
func NewFinder(opts ...Option) *Finder {
	f := &Finder{weights: DefaultWeights()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Find returns the commands of reg matching query, best first. An empty
// query returns every command in registry order. limit <= 0 means no
// limit.
func (f *Finder) Find(reg *shortcut.Registry, query string, limit int) []Hit {
	query = strings.ToLower(strings.TrimSpace(query))
	q := []rune(query)

	var hits []Hit
	for coll := range reg.All() {
		for name, cmd := range coll.Actions() {
			var best *Hit
			for _, text := range []string{cmd.DisplayName(), cmd.Ref().String()} {
				if text == "" {
					continue
				}
				if len(q) == 0 {
					best = &Hit{Text: text}
					break
				}
				score, matches, ok := f.Score(q, text)
				if ok && (best == nil || score > best.Score) {
					best = &Hit{Text: text, Matches: matches, Score: score}
				}
			}
			if best == nil {
				continue
			}
			best.Command = cmd
			best.Shortcuts = coll.Shortcuts(name)
			hits = append(hits, *best)
		}
	}

	if len(q) > 0 {
		sort.SliceStable(hits, func(i, j int) bool {
			if hits[i].Score != hits[j].Score {
				return hits[i].Score > hits[j].Score
			}
			return hits[i].Text < hits[j].Text
		})
	}
	if limit > 0 && limit < len(hits) {
		hits = hits[:limit]
	}
	return hits
}

// Score matches the lowercase query runes against text, case-insensitively.
// It reports false when the query is empty or some query character is
// missing.
func (f *Finder) Score(query []rune, text string) (int, []int, bool) {
	if len(query) == 0 {
		return 0, nil, false
	}
	original := []rune(text)
	lower := []rune(strings.ToLower(text))
	if len(lower) != len(original) {
		// Case folding changed the length; boundaries use the folded text.
		original = lower
	}

	matches := make([]int, 0, len(query))
	qi := 0
	for i := 0; i < len(lower) && qi < len(query); i++ {
		if lower[i] == query[qi] {
			matches = append(matches, i)
			qi++
		}
	}
	if qi != len(query) {
		return 0, nil, false
	}
	return f.score(query, original, lower, matches), matches, true
}

func (f *Finder) score(query, original, lower []rune, matches []int) int {
	w := f.weights
	score := w.Base

	for i := 1; i < len(matches); i++ {
		if matches[i] == matches[i-1]+1 {
			score += w.Consecutive
		}
	}
	for _, idx := range matches {
		if isWordBoundary(original, idx) {
			score += w.WordBoundary
		}
	}
	if matches[0] == 0 {
		score += w.Prefix
	}
	if gap := matches[len(matches)-1] - matches[0] - len(matches) + 1; gap > 0 {
		score -= gap * w.Gap
	}
	score -= matches[0] * w.Leading
	if n := len(lower); n < w.ShortThreshold {
		score += w.ShortThreshold - n
	}
	if len(lower) >= len(query) && string(lower[:len(query)]) == string(query) {
		score += w.ExactPrefix
	}

	return max(score, 1)
}

// isWordBoundary reports whether runes[idx] starts a word: the first
// rune, one after a space or punctuation, or an uppercase letter after a
// lowercase one.
func isWordBoundary(runes []rune, idx int) bool {
	if idx == 0 {
		return true
	}
	if idx >= len(runes) {
		return false
	}
	prev, cur := runes[idx-1], runes[idx]
	if unicode.IsSpace(prev) || unicode.IsPunct(prev) {
		return true
	}
	return unicode.IsLower(prev) && unicode.IsUpper(cur)
}
