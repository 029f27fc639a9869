package model

import "time"

// RiskLevel classifies interaction and dosage risk
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// rank orders risk levels for monotone aggregation
func (r RiskLevel) rank() int {
	switch r {
	case RiskHigh:
		return 2
	case RiskMedium:
		return 1
	default:
		return 0
	}
}

// Max returns the higher of two risk levels
func (r RiskLevel) Max(other RiskLevel) RiskLevel {
	if other.rank() > r.rank() {
		return other
	}
	return r
}

// NoInteraction is the literal sentinel for "no interaction found".
// Kept as a string rather than an absent value so downstream formatting
// never branches on nil. Fragile if a real description ever contains the
// bare word, but it is the established dataset contract.
const NoInteraction = "None"

// DrugInteraction is the per-drug interaction lookup result
type DrugInteraction struct {
	Drug        string    `json:"drug"`
	DrugbankID  string    `json:"drugbank_id"`
	Interaction string    `json:"interaction"` // "with <drug>: <severity>: <description>" joined by "; ", or "None"
	Severity    RiskLevel `json:"severity,omitempty"`
}

// DosageAdvice is an age-banded dosage recommendation for one drug
type DosageAdvice struct {
	Drug              string    `json:"drug"`
	CurrentDosage     string    `json:"current_dosage"`
	RecommendedDosage string    `json:"recommended_dosage"`
	Advice            string    `json:"advice"`
	RiskLevel         RiskLevel `json:"risk_level"`
}

// Alternative suggests a safer substitute for a high-risk drug
type Alternative struct {
	OriginalDrug string `json:"original_drug"`
	Alternative  string `json:"alternative"`
	Reason       string `json:"reason"`
}

// PatientInfo is demographic context printed on the prescription itself
type PatientInfo struct {
	Name string `json:"name,omitempty"`
	DOB  string `json:"dob,omitempty"`
	Age  int    `json:"age,omitempty"`
}

// PrescriberInfo identifies the prescribing physician
type PrescriberInfo struct {
	Name    string `json:"name,omitempty"`
	License string `json:"license,omitempty"`
}

// AnalysisReport is the final output of one analysis call, immutable once built
type AnalysisReport struct {
	ExtractedText string            `json:"extracted_text,omitempty"` // OCR text (image analysis only)
	Method        string            `json:"method,omitempty"`         // OCR engine that produced the text
	PatientAge    int               `json:"patient_age"`
	Patient       *PatientInfo      `json:"patient,omitempty"`
	Prescriber    *PrescriberInfo   `json:"prescriber,omitempty"`
	Entities      []FusedDrugEntity `json:"extracted_drugs"`
	Interactions  []DrugInteraction `json:"interactions"`
	DosageAdvice  []DosageAdvice    `json:"dosage_advice"`
	Alternatives  []Alternative     `json:"alternatives"` // capped at 2
	OverallRisk   RiskLevel         `json:"overall_risk"`
	AnalyzedAt    time.Time         `json:"analyzed_at"`
}
