package model

// AttributeKind classifies a free-floating prescription span
type AttributeKind string

const (
	AttributeDosage    AttributeKind = "dosage"
	AttributeFrequency AttributeKind = "frequency"
	AttributeRoute     AttributeKind = "route"
	AttributeDuration  AttributeKind = "duration"
)

// RawDetection is a single drug mention as reported by one extractor,
// normalized into a common shape before fusion. Every extractor adapter is
// responsible for mapping its native output into this shape.
type RawDetection struct {
	SourceMethod string  `json:"source_method"`         // Which extractor produced it (e.g., "pattern", "lexicon")
	Mention      string  `json:"mention"`               // The mention text as seen in the source
	Confidence   float64 `json:"confidence"`            // Extractor confidence, normalized to [0,1]
	CharOffset   int     `json:"char_offset,omitempty"` // First character offset in the raw text, -1 if unknown
}

// AttributeCandidate is a detached dosage/frequency/route/duration span found
// in the raw text, waiting to be bound to the nearest drug mention.
type AttributeCandidate struct {
	Kind       AttributeKind `json:"kind"`
	Text       string        `json:"text"`
	CharOffset int           `json:"char_offset"`
}
