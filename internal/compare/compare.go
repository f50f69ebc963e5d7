// Package compare measures how far a rewritten text moved away from its source.
package compare

import (
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// SignificantRate is the change rate from which a rewrite counts as a
// substantial departure from the source.
const SignificantRate = 0.5

// Stats summarises a rune level diff between two texts.
type Stats struct {
	Equal    int
	Inserted int
	Deleted  int
}

// Rate is the share of changed runes among all runes touched by the diff.
func (s Stats) Rate() float64 {
	total := s.Equal + s.Inserted + s.Deleted
	if total == 0 {
		return 0
	}
	return float64(s.Inserted+s.Deleted) / float64(total)
}

func (s Stats) Significant() bool {
	return s.Rate() >= SignificantRate
}

// Diff computes rune counts for the semantic diff from original to modified.
func Diff(original, modified string) Stats {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(original, modified, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var s Stats
	for _, d := range diffs {
		n := utf8.RuneCountInString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			s.Equal += n
		case diffmatchpatch.DiffInsert:
			s.Inserted += n
		case diffmatchpatch.DiffDelete:
			s.Deleted += n
		}
	}
	return s
}

// ChangeRate returns Diff(original, modified).Rate().
func ChangeRate(original, modified string) float64 {
	return Diff(original, modified).Rate()
}
