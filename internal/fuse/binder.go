// Package fuse merges raw detections from independent extractors into
// canonical, confidence-ranked drug entities.
package fuse

import "github.com/dkolev/rxscan/internal/model"

// Bind associates the best attribute candidate of one kind with a drug
// mention by character-offset proximity. An unknown mention offset (-1)
// degrades to the first candidate in encounter order, the lowest-precision
// mode. Ties on distance keep the earliest candidate. No candidates of the
// kind yields the empty string.
func Bind(kind model.AttributeKind, mentionOffset int, candidates []model.AttributeCandidate) string {
	best := ""
	bestDistance := -1

	for _, c := range candidates {
		if c.Kind != kind {
			continue
		}

		if mentionOffset < 0 {
			// Cannot rank by proximity; first candidate wins
			return c.Text
		}

		distance := c.CharOffset - mentionOffset
		if distance < 0 {
			distance = -distance
		}
		if bestDistance == -1 || distance < bestDistance {
			best = c.Text
			bestDistance = distance
		}
	}

	return best
}
