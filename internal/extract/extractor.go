// Package extract turns raw prescription text into normalized drug mention
// detections. Each extractor adapter maps its native output into
// model.RawDetection before anything reaches fusion; heterogeneous shapes
// never cross the package boundary.
package extract

import (
	"context"
	"strings"

	"github.com/dkolev/rxscan/internal/model"
)

// Extractor reports drug mentions found in prescription text. A failing
// extractor returns an error and is excluded from the fusion pool for that
// request; it is never fatal on its own.
type Extractor interface {
	// Name returns the extractor name, recorded as detection provenance
	Name() string

	// Detect finds drug mentions in the text
	Detect(ctx context.Context, text string) ([]model.RawDetection, error)
}

// offsetOf finds the first case-insensitive position of mention in text,
// -1 if absent
func offsetOf(text, mention string) int {
	return strings.Index(strings.ToLower(text), strings.ToLower(mention))
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
