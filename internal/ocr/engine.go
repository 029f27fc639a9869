// Package ocr acquires text from prescription images through a quality-gated
// engine cascade. Engines are opaque scoring oracles behind one interface;
// each adapter normalizes its native confidence scale to [0,1] before the
// cascade compares anything.
package ocr

import "context"

// Result is a successful text acquisition
type Result struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"` // normalized to [0,1]
	Method     string  `json:"method"`     // engine name, kept for provenance
}

// Engine is a single text-acquisition backend
type Engine interface {
	// Name returns the engine name
	Name() string

	// Recognize extracts text from an encoded image. A nil result with a
	// nil error means the engine found no usable text.
	Recognize(ctx context.Context, image []byte) (*Result, error)

	// IsAvailable checks if the engine is configured and reachable
	IsAvailable(ctx context.Context) bool
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
