package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dkolev/rxscan/internal/model"
)

func testConfig(t *testing.T) *model.Config {
	t.Helper()
	dir := t.TempDir()

	mapping := filepath.Join(dir, "mapping.json")
	if err := os.WriteFile(mapping, []byte(`{
		"aspirin": "DB00945",
		"warfarin": "DB00682",
		"paracetamol": "DB00316",
		"amoxicillin": "DB01060"
	}`), 0644); err != nil {
		t.Fatal(err)
	}

	interactions := filepath.Join(dir, "interactions.csv")
	if err := os.WriteFile(interactions, []byte(
		"drug1_drugbank_id,drug2_drugbank_id,severity,description\n"+
			"DB00945,DB00682,Severe,bleeding risk\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := model.DefaultConfig()
	cfg.Data.MappingPath = mapping
	cfg.Data.InteractionsPath = interactions
	cfg.Cache.Enabled = false
	return cfg
}

func TestAnalyzeText(t *testing.T) {
	p, err := New(testConfig(t), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	report, err := p.AnalyzeText(context.Background(),
		"Aspirin 100mg daily, Warfarin 5mg once daily", 70)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Entities) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(report.Entities))
	}
	if report.Entities[0].DisplayName != "Aspirin" {
		t.Errorf("expected Aspirin first, got %q", report.Entities[0].DisplayName)
	}
	if report.Entities[0].Dosage != "100mg" {
		t.Errorf("expected dosage 100mg, got %q", report.Entities[0].Dosage)
	}
	if report.Entities[1].Dosage != "5mg" {
		t.Errorf("expected dosage 5mg, got %q", report.Entities[1].Dosage)
	}

	if !strings.Contains(report.Interactions[0].Interaction, "with Warfarin: Severe: bleeding risk") {
		t.Errorf("unexpected interaction: %q", report.Interactions[0].Interaction)
	}
	if report.Interactions[0].Severity != model.RiskHigh {
		t.Errorf("expected High severity, got %q", report.Interactions[0].Severity)
	}

	if report.OverallRisk != model.RiskHigh {
		t.Errorf("expected High overall risk, got %q", report.OverallRisk)
	}
	if report.PatientAge != 70 {
		t.Errorf("expected patient age 70, got %d", report.PatientAge)
	}
	if len(report.Alternatives) == 0 || len(report.Alternatives) > 2 {
		t.Errorf("expected 1-2 alternatives, got %d", len(report.Alternatives))
	}
	if report.AnalyzedAt.IsZero() {
		t.Error("expected analysis timestamp to be set")
	}
}

func TestAnalyzeTextNoEntities(t *testing.T) {
	p, err := New(testConfig(t), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = p.AnalyzeText(context.Background(), "drink water and get some rest", 30)
	if !errors.Is(err, ErrNoEntities) {
		t.Errorf("expected ErrNoEntities, got %v", err)
	}
}

func TestAnalyzeTextPediatricDosage(t *testing.T) {
	p, err := New(testConfig(t), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	report, err := p.AnalyzeText(context.Background(), "Amoxicillin 500mg 3 times a day", 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.DosageAdvice) != 1 {
		t.Fatalf("expected 1 advice entry, got %d", len(report.DosageAdvice))
	}
	if report.DosageAdvice[0].RecommendedDosage != "250mg" {
		t.Errorf("expected pediatric reduction to 250mg, got %q", report.DosageAdvice[0].RecommendedDosage)
	}
	if report.Entities[0].Frequency != "3/day" {
		t.Errorf("expected frequency 3/day, got %q", report.Entities[0].Frequency)
	}
	if report.OverallRisk != model.RiskMedium {
		t.Errorf("expected Medium risk, got %q", report.OverallRisk)
	}
}

func TestAnalyzeTextAgeFromPrescription(t *testing.T) {
	p, err := New(testConfig(t), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := "Patient: John Smith\nAge: 70\nDr. Jane Roe, MD\nAspirin 100mg daily\nWarfarin 5mg once daily"
	report, err := p.AnalyzeText(context.Background(), text, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.PatientAge != 70 {
		t.Errorf("expected printed age 70 to apply, got %d", report.PatientAge)
	}
	if report.Patient == nil || report.Patient.Name != "John Smith" {
		t.Errorf("expected patient John Smith on the report, got %+v", report.Patient)
	}
	if report.Prescriber == nil || report.Prescriber.Name != "Jane Roe" {
		t.Errorf("expected prescriber Jane Roe on the report, got %+v", report.Prescriber)
	}

	// Age 70 is geriatric; the severe pair must still surface
	if report.OverallRisk != model.RiskHigh {
		t.Errorf("expected High risk, got %q", report.OverallRisk)
	}
}

func TestAnalyzeTextExplicitAgeWins(t *testing.T) {
	p, err := New(testConfig(t), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	report, err := p.AnalyzeText(context.Background(), "Age: 70\nAspirin 100mg daily", 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.PatientAge != 25 {
		t.Errorf("expected explicit age 25 to win over printed age, got %d", report.PatientAge)
	}
}

func TestAnalyzeTextDefaultAge(t *testing.T) {
	p, err := New(testConfig(t), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	report, err := p.AnalyzeText(context.Background(), "Aspirin 100mg daily", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.PatientAge != 30 {
		t.Errorf("expected adult default age 30, got %d", report.PatientAge)
	}
	if report.Patient != nil {
		t.Errorf("expected no patient info for unlabeled text, got %+v", report.Patient)
	}
}

func TestAnalyzeSafetyReportShape(t *testing.T) {
	p, err := New(testConfig(t), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entities := []model.FusedDrugEntity{
		{CanonicalName: "aspirin", DisplayName: "Aspirin", Dosage: "100mg"},
	}
	report := p.AnalyzeSafety(entities, 30)

	if len(report.Interactions) != 1 {
		t.Fatalf("expected 1 interaction result, got %d", len(report.Interactions))
	}
	if report.Interactions[0].Interaction != model.NoInteraction {
		t.Errorf("expected %q for a single drug, got %q", model.NoInteraction, report.Interactions[0].Interaction)
	}
	if report.Interactions[0].Severity != "" {
		t.Errorf("expected no severity for %q result, got %q", model.NoInteraction, report.Interactions[0].Severity)
	}
	if report.OverallRisk != model.RiskLow {
		t.Errorf("expected Low risk, got %q", report.OverallRisk)
	}
}

func TestRenderReports(t *testing.T) {
	p, err := New(testConfig(t), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	report, err := p.AnalyzeText(context.Background(), "Aspirin 100mg and Warfarin 5mg", 70)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dir := t.TempDir()
	renderer := NewRenderer(true)

	jsonPath := filepath.Join(dir, "report.json")
	if err := renderer.RenderJSON(report, jsonPath); err != nil {
		t.Fatalf("render JSON: %v", err)
	}
	jsonData, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("read JSON: %v", err)
	}
	if !strings.Contains(string(jsonData), `"overall_risk": "High"`) {
		t.Error("expected overall risk in JSON output")
	}

	mdPath := filepath.Join(dir, "report.md")
	if err := renderer.RenderMarkdown(report, mdPath); err != nil {
		t.Fatalf("render markdown: %v", err)
	}
	mdData, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatalf("read markdown: %v", err)
	}
	md := string(mdData)
	if !strings.Contains(md, "# Prescription Safety Report") {
		t.Error("expected report heading in markdown")
	}
	if !strings.Contains(md, "Aspirin") {
		t.Error("expected drug name in markdown")
	}
	if !strings.Contains(md, "does not replace") {
		t.Error("expected footer in markdown")
	}
}
