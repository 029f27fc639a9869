package pipeline

import "errors"

// Request-fatal conditions, surfaced to the caller with distinct,
// user-actionable messages. Anything below these (a single engine or
// extractor failing) is absorbed locally and only logged.
var (
	// ErrNoText means every OCR engine was exhausted without usable text
	ErrNoText = errors.New("could not extract readable text from image")

	// ErrNoEntities means fusion produced no drug entities from the text
	ErrNoEntities = errors.New("no drugs recognized in prescription text")
)
