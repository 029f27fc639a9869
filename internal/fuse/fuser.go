package fuse

import (
	"strings"

	"github.com/dkolev/rxscan/internal/dataset"
	"github.com/dkolev/rxscan/internal/model"
)

// Fuser deduplicates and confidence-ranks detections from multiple
// extractors. It is a pure function of its inputs: no state survives a call.
type Fuser struct {
	tables *dataset.Tables
	minLen int
}

// NewFuser creates a fuser. minLen guards against noise tokens; mentions
// shorter than it are discarded before fusion.
func NewFuser(tables *dataset.Tables, minLen int) *Fuser {
	if minLen <= 0 {
		minLen = 3
	}
	return &Fuser{tables: tables, minLen: minLen}
}

// Fuse merges detections into one entity per fusion key. Detections must
// arrive in extractor-priority order: for a given key a later detection
// replaces the stored one only when its confidence is strictly greater, so
// equal confidence keeps the first writer. Dedup is exact-key only:
// "Amoxicillin" and "Amoxicillin 500mg" stay separate entities; merging by
// substring containment trades too much precision for recall.
func (f *Fuser) Fuse(detections []model.RawDetection, candidates []model.AttributeCandidate) []model.FusedDrugEntity {
	best := make(map[string]model.RawDetection)
	var order []string

	for _, d := range detections {
		d = clampConfidence(d)

		key := strings.ToLower(strings.TrimSpace(d.Mention))
		if len(key) < f.minLen {
			continue
		}

		stored, seen := best[key]
		if !seen {
			best[key] = d
			order = append(order, key)
			continue
		}
		if d.Confidence > stored.Confidence {
			best[key] = d
		}
	}

	entities := make([]model.FusedDrugEntity, 0, len(order))
	for _, key := range order {
		d := best[key]
		identity := f.tables.Resolve(d.Mention)

		entities = append(entities, model.FusedDrugEntity{
			CanonicalName: key,
			DisplayName:   strings.TrimSpace(d.Mention),
			DrugbankID:    identity.ID,
			Confidence:    d.Confidence,
			Dosage:        Bind(model.AttributeDosage, d.CharOffset, candidates),
			Frequency:     Bind(model.AttributeFrequency, d.CharOffset, candidates),
			Route:         Bind(model.AttributeRoute, d.CharOffset, candidates),
			Duration:      Bind(model.AttributeDuration, d.CharOffset, candidates),
			SourceMethod:  d.SourceMethod,
		})
	}

	return entities
}

func clampConfidence(d model.RawDetection) model.RawDetection {
	if d.Confidence < 0 {
		d.Confidence = 0
	}
	if d.Confidence > 1 {
		d.Confidence = 1
	}
	return d
}
