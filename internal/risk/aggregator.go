// Package risk combines interaction severities and dosage-rule outcomes into
// an overall risk level with bounded alternative suggestions.
package risk

import (
	"fmt"
	"strings"

	"github.com/dkolev/rxscan/internal/model"
)

// maxAlternatives caps the alternative suggestion list
const maxAlternatives = 2

// SeverityFromText classifies an interaction description by keyword.
// "severe"/"major" outrank "moderate"/"warning"; anything else is Low.
func SeverityFromText(text string) model.RiskLevel {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "severe") || strings.Contains(lower, "major") {
		return model.RiskHigh
	}
	if strings.Contains(lower, "moderate") || strings.Contains(lower, "warning") {
		return model.RiskMedium
	}
	return model.RiskLow
}

// Aggregator applies the dosage rule set and risk roll-up
type Aggregator struct {
	substitutions []substitution
}

type substitution struct {
	drug, alternative string
}

// NewAggregator creates an aggregator with the fixed substitution table
func NewAggregator() *Aggregator {
	return &Aggregator{
		substitutions: []substitution{
			{"paracetamol", "ibuprofen"},
			{"acetaminophen", "ibuprofen"},
			{"aspirin", "paracetamol"},
			{"ibuprofen", "naproxen"},
			{"warfarin", "rivaroxaban"},
			{"metformin", "glipizide"},
		},
	}
}

// DosageAdvice applies the age-banded dosage rules to each fused entity.
// The rules are deterministic and not data-driven: pediatric (<18) halves
// 500mg/1000mg doses, geriatric (>65) reduces 1000mg or flags high-frequency
// 500mg, and the adult band is always Low.
func (a *Aggregator) DosageAdvice(entities []model.FusedDrugEntity, age int) []model.DosageAdvice {
	advice := make([]model.DosageAdvice, 0, len(entities))

	for _, entity := range entities {
		current := entity.Dosage
		recommended := current
		text := ""
		level := model.RiskLow

		switch {
		case age < 18:
			switch {
			case strings.Contains(current, "500mg"):
				recommended = strings.ReplaceAll(current, "500mg", "250mg")
				text = "Reduced dosage recommended for pediatric patients"
				level = model.RiskMedium
			case strings.Contains(current, "1000mg"):
				recommended = strings.ReplaceAll(current, "1000mg", "500mg")
				text = "Significantly reduced dosage for pediatric use"
				level = model.RiskHigh
			default:
				text = "Verify pediatric dosing guidelines"
				level = model.RiskMedium
			}
		case age > 65:
			switch {
			case strings.Contains(current, "1000mg"):
				recommended = strings.ReplaceAll(current, "1000mg", "750mg")
				text = "Reduced dosage recommended for elderly patients"
				level = model.RiskMedium
			case strings.Contains(current, "500mg") && strings.Contains(entity.Frequency, "3/day"):
				text = "Consider reducing frequency for elderly patients"
				level = model.RiskMedium
			default:
				text = "Standard adult dosage appropriate"
			}
		default:
			text = "Standard adult dosage appropriate"
		}

		advice = append(advice, model.DosageAdvice{
			Drug:              entity.DisplayName,
			CurrentDosage:     current,
			RecommendedDosage: recommended,
			Advice:            text,
			RiskLevel:         level,
		})
	}

	return advice
}

// Alternatives suggests substitutes for drugs whose interaction text contains
// "severe". First-found order, capped at two entries.
func (a *Aggregator) Alternatives(interactions []model.DrugInteraction) []model.Alternative {
	alternatives := make([]model.Alternative, 0, maxAlternatives)

	for _, result := range interactions {
		if result.Interaction == model.NoInteraction {
			continue
		}
		if !strings.Contains(strings.ToLower(result.Interaction), "severe") {
			continue
		}

		if alt, ok := a.lookupSubstitute(result.Drug); ok {
			alternatives = append(alternatives, model.Alternative{
				OriginalDrug: result.Drug,
				Alternative:  alt,
				Reason:       fmt.Sprintf("Safer alternative due to interaction risk: %s", result.Interaction),
			})
			if len(alternatives) == maxAlternatives {
				break
			}
		}
	}

	return alternatives
}

func (a *Aggregator) lookupSubstitute(drug string) (string, bool) {
	norm := strings.ToLower(strings.TrimSpace(drug))
	for _, s := range a.substitutions {
		if s.drug == norm {
			return upperFirst(s.alternative), true
		}
	}
	return "", false
}

// OverallRisk rolls interaction and dosage signals up monotonically: any
// High forces High, else any Medium forces Medium, else Low.
func (a *Aggregator) OverallRisk(interactions []model.DrugInteraction, advice []model.DosageAdvice) model.RiskLevel {
	overall := model.RiskLow

	for _, result := range interactions {
		if result.Interaction == model.NoInteraction {
			continue
		}
		overall = overall.Max(SeverityFromText(result.Interaction))
	}
	for _, d := range advice {
		overall = overall.Max(d.RiskLevel)
	}

	return overall
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
