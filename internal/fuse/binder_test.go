package fuse

import (
	"testing"

	"github.com/dkolev/rxscan/internal/model"
)

func TestBindNearestWins(t *testing.T) {
	candidates := []model.AttributeCandidate{
		{Kind: model.AttributeDosage, Text: "500mg", CharOffset: 50},
		{Kind: model.AttributeDosage, Text: "100mg", CharOffset: 10},
	}

	if got := Bind(model.AttributeDosage, 12, candidates); got != "100mg" {
		t.Errorf("expected nearest candidate 100mg, got %q", got)
	}
	if got := Bind(model.AttributeDosage, 48, candidates); got != "500mg" {
		t.Errorf("expected nearest candidate 500mg, got %q", got)
	}
}

func TestBindTieKeepsEarliest(t *testing.T) {
	candidates := []model.AttributeCandidate{
		{Kind: model.AttributeFrequency, Text: "2/day", CharOffset: 10},
		{Kind: model.AttributeFrequency, Text: "3/day", CharOffset: 30},
	}

	// Offset 20 is equidistant from both
	if got := Bind(model.AttributeFrequency, 20, candidates); got != "2/day" {
		t.Errorf("expected earliest candidate on tie, got %q", got)
	}
}

func TestBindUnknownOffset(t *testing.T) {
	candidates := []model.AttributeCandidate{
		{Kind: model.AttributeRoute, Text: "oral", CharOffset: 40},
		{Kind: model.AttributeRoute, Text: "intravenous", CharOffset: 5},
	}

	// Offset -1 cannot rank; first candidate in encounter order wins
	if got := Bind(model.AttributeRoute, -1, candidates); got != "oral" {
		t.Errorf("expected first candidate for unknown offset, got %q", got)
	}
}

func TestBindFiltersKind(t *testing.T) {
	candidates := []model.AttributeCandidate{
		{Kind: model.AttributeDosage, Text: "100mg", CharOffset: 0},
		{Kind: model.AttributeDuration, Text: "for 7 days", CharOffset: 1},
	}

	if got := Bind(model.AttributeDuration, 0, candidates); got != "for 7 days" {
		t.Errorf("expected duration candidate, got %q", got)
	}
	if got := Bind(model.AttributeFrequency, 0, candidates); got != "" {
		t.Errorf("expected empty string for absent kind, got %q", got)
	}
}
