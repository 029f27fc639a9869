package extract

import (
	"context"
	"strings"

	"github.com/dkolev/rxscan/internal/model"
)

// lexiconConfidence ranks lexicon hits above pattern matches: a name that
// appears in the reference mapping is almost certainly a real drug mention.
const lexiconConfidence = 0.9

// LexiconExtractor scans for drug names known to the reference mapping.
// It catches names the suffix templates miss (aspirin, warfarin) and its
// mentions carry canonical spellings, which keeps fusion keys stable.
type LexiconExtractor struct {
	names []string // dataset order
}

// NewLexiconExtractor creates a lexicon extractor over the given names
func NewLexiconExtractor(names []string) *LexiconExtractor {
	return &LexiconExtractor{names: names}
}

// Name returns the extractor name
func (e *LexiconExtractor) Name() string { return "lexicon" }

// Detect reports one detection per known name present in the text
func (e *LexiconExtractor) Detect(_ context.Context, text string) ([]model.RawDetection, error) {
	lower := strings.ToLower(text)

	var detections []model.RawDetection
	for _, name := range e.names {
		offset := strings.Index(lower, name)
		if offset == -1 {
			continue
		}
		detections = append(detections, model.RawDetection{
			SourceMethod: e.Name(),
			Mention:      upperFirst(name),
			Confidence:   lexiconConfidence,
			CharOffset:   offset,
		})
	}

	return detections, nil
}
