package extract

import (
	"context"
	"testing"

	"github.com/dkolev/rxscan/internal/model"
)

func mentions(detections []model.RawDetection) []string {
	out := make([]string, len(detections))
	for i, d := range detections {
		out[i] = d.Mention
	}
	return out
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func TestPatternDetectSuffix(t *testing.T) {
	e := NewPatternExtractor()

	detections, err := e.Detect(context.Background(), "Prescribed Amoxicillin and Atorvastatin today")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := mentions(detections)
	if !contains(got, "Amoxicillin") {
		t.Errorf("expected Amoxicillin detected, got %v", got)
	}
	if !contains(got, "Atorvastatin") {
		t.Errorf("expected Atorvastatin detected, got %v", got)
	}
}

func TestPatternDetectDoseLed(t *testing.T) {
	e := NewPatternExtractor()

	detections, err := e.Detect(context.Background(), "Take Aspirin 100mg with food")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !contains(mentions(detections), "Aspirin") {
		t.Errorf("expected name before dose detected, got %v", mentions(detections))
	}
	if detections[0].CharOffset != 5 {
		t.Errorf("expected offset 5, got %d", detections[0].CharOffset)
	}
	if detections[0].Confidence != patternConfidence {
		t.Errorf("expected confidence %f, got %f", patternConfidence, detections[0].Confidence)
	}
}

func TestPatternDetectRxLabel(t *testing.T) {
	e := NewPatternExtractor()

	detections, err := e.Detect(context.Background(), "Rx: Warfarin as directed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !contains(mentions(detections), "Warfarin") {
		t.Errorf("expected labeled drug detected, got %v", mentions(detections))
	}
}

func TestPatternDetectNothing(t *testing.T) {
	e := NewPatternExtractor()

	detections, err := e.Detect(context.Background(), "drink plenty of water and rest")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(detections) != 0 {
		t.Errorf("expected no detections, got %v", mentions(detections))
	}
}

func candidateTexts(candidates []model.AttributeCandidate, kind model.AttributeKind) []string {
	var out []string
	for _, c := range candidates {
		if c.Kind == kind {
			out = append(out, c.Text)
		}
	}
	return out
}

func TestAttributesDosage(t *testing.T) {
	candidates := Attributes("Aspirin 100 mg and Warfarin 2.5mg")

	got := candidateTexts(candidates, model.AttributeDosage)
	if !contains(got, "100mg") {
		t.Errorf("expected spaces stripped from dosage, got %v", got)
	}
	if !contains(got, "2.5mg") {
		t.Errorf("expected decimal dosage, got %v", got)
	}
}

func TestAttributesFrequency(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"take 3 times a day", "3/day"},
		{"take 2/day with meals", "2/day"},
		{"every 8 hours", "Every 8 hours"},
		{"twice daily", "2/day"},
		{"once a day", "1/day"},
		{"tablet TID after meals", "3/day"},
		{"PRN for pain", "As needed"},
		{"one at bedtime", "1/day (bedtime)"},
	}

	for _, tt := range tests {
		got := candidateTexts(Attributes(tt.text), model.AttributeFrequency)
		if !contains(got, tt.want) {
			t.Errorf("Attributes(%q) frequency = %v, want %q", tt.text, got, tt.want)
		}
	}
}

func TestAttributesRoute(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"take orally with water", "oral"},
		{"administer PO", "oral"},
		{"give IV over 30 minutes", "intravenous"},
		{"apply topically", "topical"},
		{"place sublingually", "sublingual"},
	}

	for _, tt := range tests {
		got := candidateTexts(Attributes(tt.text), model.AttributeRoute)
		if !contains(got, tt.want) {
			t.Errorf("Attributes(%q) route = %v, want %q", tt.text, got, tt.want)
		}
	}
}

func TestAttributesDuration(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"take for 7 days", "for 7 days"},
		{"a 2 week course", "2 week course"},
		{"continue until finished", "until finished"},
	}

	for _, tt := range tests {
		got := candidateTexts(Attributes(tt.text), model.AttributeDuration)
		if !contains(got, tt.want) {
			t.Errorf("Attributes(%q) duration = %v, want %q", tt.text, got, tt.want)
		}
	}
}

func TestAttributesOffsets(t *testing.T) {
	text := "Aspirin 100mg twice daily, Warfarin 5mg once daily"
	candidates := Attributes(text)

	for _, c := range candidates {
		if c.CharOffset < 0 || c.CharOffset >= len(text) {
			t.Errorf("candidate %q has out-of-range offset %d", c.Text, c.CharOffset)
		}
	}

	dosages := candidateTexts(candidates, model.AttributeDosage)
	if len(dosages) != 2 {
		t.Fatalf("expected 2 dosages, got %v", dosages)
	}
}
