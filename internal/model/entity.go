package model

// CanonicalDrugIdentity is the stable identifier a free-text drug name
// resolves to. When no real mapping exists the ID carries the
// DB_UNKNOWN_<NAME> sentinel, which by construction never matches an
// interaction record.
type CanonicalDrugIdentity struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// FusedDrugEntity is one deduplicated drug mention with its bound attributes.
// It lives for a single analysis call.
type FusedDrugEntity struct {
	CanonicalName string  `json:"canonical_name"` // lower-cased, trimmed fusion key
	DisplayName   string  `json:"name"`           // mention text as extracted
	DrugbankID    string  `json:"drugbank_id"`    // canonical identifier (or sentinel)
	Confidence    float64 `json:"confidence"`
	Dosage        string  `json:"dosage"`
	Frequency     string  `json:"frequency"`
	Route         string  `json:"route"`
	Duration      string  `json:"duration"`
	SourceMethod  string  `json:"source_method"` // provenance of the winning detection
}
