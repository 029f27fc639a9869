package dataset

import (
	"strings"

	"github.com/dkolev/rxscan/internal/model"
)

// UnknownPrefix marks synthesized identifiers for unmapped drug names
const UnknownPrefix = "DB_UNKNOWN_"

// Resolve maps a free-text drug name to a canonical identity. It never
// fails: an unmapped name degrades to a guaranteed-non-matching sentinel so
// downstream interaction lookups stay total.
//
// Matching order: exact normalized lookup, then a substring fuzzy pass over
// the mapping in dataset order. First match wins with no edit-distance
// ranking; the dataset contract is first-match, and changing it would change
// observable behavior on short names.
func (t *Tables) Resolve(name string) model.CanonicalDrugIdentity {
	trimmed := strings.TrimSpace(name)
	norm := strings.ToLower(trimmed)

	// An empty name would substring-match every mapping entry
	if norm == "" {
		return model.CanonicalDrugIdentity{ID: UnknownPrefix, DisplayName: ""}
	}

	if id, ok := t.mapping[norm]; ok {
		return model.CanonicalDrugIdentity{ID: id, DisplayName: trimmed}
	}

	for _, mapped := range t.mappingOrder {
		if strings.Contains(mapped, norm) || strings.Contains(norm, mapped) {
			return model.CanonicalDrugIdentity{ID: t.mapping[mapped], DisplayName: trimmed}
		}
	}

	return model.CanonicalDrugIdentity{
		ID:          UnknownPrefix + strings.ToUpper(trimmed),
		DisplayName: trimmed,
	}
}
