// Package interaction detects pairwise drug interactions against the
// reference table.
package interaction

import (
	"fmt"
	"strings"

	"github.com/dkolev/rxscan/internal/dataset"
	"github.com/dkolev/rxscan/internal/model"
)

// Engine looks up pairwise interaction severity for sets of drug names
type Engine struct {
	tables *dataset.Tables
}

// New creates an interaction engine over the given tables
func New(tables *dataset.Tables) *Engine {
	return &Engine{tables: tables}
}

// Check resolves every name once, then queries the table for every ordered
// pair in both directions. Per-drug hits are formatted as
// "with <other>: <severity>: <description>" and joined with "; ". A drug
// with no hits carries the literal "None". O(N²) pair checks are fine:
// prescriptions carry single-digit drug counts.
func (e *Engine) Check(names []string) []model.DrugInteraction {
	identities := make([]model.CanonicalDrugIdentity, len(names))
	for i, name := range names {
		identities[i] = e.tables.Resolve(name)
	}

	results := make([]model.DrugInteraction, 0, len(names))
	for i, name := range names {
		var hits []string
		for j, other := range names {
			if i == j {
				continue
			}
			if text := e.checkPair(identities[i].ID, identities[j].ID); text != model.NoInteraction {
				hits = append(hits, fmt.Sprintf("with %s: %s", strings.TrimSpace(other), text))
			}
		}

		interaction := model.NoInteraction
		if len(hits) > 0 {
			interaction = strings.Join(hits, "; ")
		}

		results = append(results, model.DrugInteraction{
			Drug:        strings.TrimSpace(name),
			DrugbankID:  identities[i].ID,
			Interaction: interaction,
		})
	}

	return results
}

// checkPair returns "<severity>: <description>" for a known pair, else "None"
func (e *Engine) checkPair(idA, idB string) string {
	rec, ok := e.tables.Lookup(idA, idB)
	if !ok {
		return model.NoInteraction
	}
	return fmt.Sprintf("%s: %s", rec.Severity, rec.Description)
}
