package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/dkolev/rxscan/internal/model"
)

// Renderer writes analysis reports as JSON, Markdown, or a terminal summary
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.AnalysisReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// RenderMarkdown writes the report as a Markdown document
func (r *Renderer) RenderMarkdown(report *model.AnalysisReport, path string) error {
	var b strings.Builder

	b.WriteString("# Prescription Safety Report\n\n")
	b.WriteString(fmt.Sprintf("**Overall Risk:** %s %s\n\n", riskBadge(report.OverallRisk), report.OverallRisk))
	b.WriteString(fmt.Sprintf("**Patient Age:** %d\n\n", report.PatientAge))
	if report.Patient != nil && report.Patient.Name != "" {
		b.WriteString(fmt.Sprintf("**Patient:** %s\n\n", report.Patient.Name))
	}
	if report.Prescriber != nil && report.Prescriber.Name != "" {
		b.WriteString(fmt.Sprintf("**Prescriber:** Dr. %s\n\n", report.Prescriber.Name))
	}
	if report.Method != "" {
		b.WriteString(fmt.Sprintf("**OCR Method:** %s\n\n", report.Method))
	}

	b.WriteString("## Extracted Drugs\n\n")
	if len(report.Entities) == 0 {
		b.WriteString("None detected.\n\n")
	} else {
		b.WriteString("| Drug | Dosage | Frequency | Route | Duration | Confidence | Source |\n")
		b.WriteString("|------|--------|-----------|-------|----------|------------|--------|\n")
		for _, e := range report.Entities {
			b.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %.2f | %s |\n",
				e.DisplayName, orDash(e.Dosage), orDash(e.Frequency), orDash(e.Route),
				orDash(e.Duration), e.Confidence, e.SourceMethod))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Interactions\n\n")
	for _, it := range report.Interactions {
		if it.Interaction == model.NoInteraction {
			b.WriteString(fmt.Sprintf("- **%s** (%s): no known interactions\n", it.Drug, it.DrugbankID))
		} else {
			b.WriteString(fmt.Sprintf("- **%s** (%s): %s\n", it.Drug, it.DrugbankID, it.Interaction))
		}
	}
	b.WriteString("\n")

	if len(report.DosageAdvice) > 0 {
		b.WriteString("## Dosage Advice\n\n")
		for _, d := range report.DosageAdvice {
			if d.RecommendedDosage != d.CurrentDosage && d.RecommendedDosage != "" {
				b.WriteString(fmt.Sprintf("- **%s**: %s (current: %s, recommended: %s)\n",
					d.Drug, d.Advice, orDash(d.CurrentDosage), d.RecommendedDosage))
			} else {
				b.WriteString(fmt.Sprintf("- **%s**: %s\n", d.Drug, d.Advice))
			}
		}
		b.WriteString("\n")
	}

	if len(report.Alternatives) > 0 {
		b.WriteString("## Suggested Alternatives\n\n")
		for _, a := range report.Alternatives {
			b.WriteString(fmt.Sprintf("- **%s** -> %s: %s\n", a.OriginalDrug, a.Alternative, a.Reason))
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("*Analyzed at %s*\n", report.AnalyzedAt.Format("2006-01-02 15:04:05 UTC")))

	if r.includeFooter {
		b.WriteString("\n---\n\n")
		b.WriteString("*Generated by rxscan. This report is informational and does not replace\nprofessional medical judgment.*\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// RenderSummary prints a short human summary to stdout
func (r *Renderer) RenderSummary(report *model.AnalysisReport) {
	fmt.Println()
	fmt.Printf("Overall risk: %s %s\n", riskBadge(report.OverallRisk), report.OverallRisk)
	fmt.Printf("Drugs found:  %d\n", len(report.Entities))

	for _, e := range report.Entities {
		parts := []string{e.DisplayName}
		if e.Dosage != "" {
			parts = append(parts, e.Dosage)
		}
		if e.Frequency != "" {
			parts = append(parts, e.Frequency)
		}
		fmt.Printf("  - %s (%.2f via %s)\n", strings.Join(parts, " "), e.Confidence, e.SourceMethod)
	}

	for _, it := range report.Interactions {
		if it.Interaction != model.NoInteraction {
			fmt.Printf("  ! %s: %s\n", it.Drug, it.Interaction)
		}
	}

	for _, a := range report.Alternatives {
		fmt.Printf("  > Consider %s instead of %s\n", a.Alternative, a.OriginalDrug)
	}
	fmt.Println()
}

func riskBadge(level model.RiskLevel) string {
	switch level {
	case model.RiskHigh:
		return "🔴"
	case model.RiskMedium:
		return "🟡"
	default:
		return "🟢"
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
