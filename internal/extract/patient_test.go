package extract

import "testing"

func TestPatientContext(t *testing.T) {
	text := "Patient: John Smith\nDOB: 04/12/1958\nAge: 67\nAspirin 100mg daily"

	info := PatientContext(text)
	if info.Name != "John Smith" {
		t.Errorf("expected patient name John Smith, got %q", info.Name)
	}
	if info.DOB != "04/12/1958" {
		t.Errorf("expected DOB 04/12/1958, got %q", info.DOB)
	}
	if info.Age != 67 {
		t.Errorf("expected age 67, got %d", info.Age)
	}
}

func TestPatientContextLabelPriority(t *testing.T) {
	// The Patient label outranks Name and For wherever it appears
	info := PatientContext("For: Carol Jones\nPatient: Dana Reeves")
	if info.Name != "Dana Reeves" {
		t.Errorf("expected Patient label to win, got %q", info.Name)
	}

	info = PatientContext("Name: Alice Brown\nIbuprofen 200mg")
	if info.Name != "Alice Brown" {
		t.Errorf("expected Name label fallback, got %q", info.Name)
	}
}

func TestPatientContextAbsent(t *testing.T) {
	info := PatientContext("Aspirin 100mg daily, Warfarin 5mg once daily")
	if info.Name != "" || info.DOB != "" || info.Age != 0 {
		t.Errorf("expected zero info for unlabeled text, got %+v", info)
	}
}

func TestPatientContextImplausibleAge(t *testing.T) {
	for _, text := range []string{"Age: 0", "Age: 200"} {
		if info := PatientContext(text); info.Age != 0 {
			t.Errorf("%q: expected implausible age dropped, got %d", text, info.Age)
		}
	}
}

func TestPrescriberContext(t *testing.T) {
	text := "Dr. Jane Roe, MD\nLicense: A12345\nAmoxicillin 500mg"

	info := PrescriberContext(text)
	if info.Name != "Jane Roe" {
		t.Errorf("expected prescriber Jane Roe, got %q", info.Name)
	}
	if info.License != "A12345" {
		t.Errorf("expected license A12345, got %q", info.License)
	}
}

func TestPrescriberContextLabelVariants(t *testing.T) {
	info := PrescriberContext("Physician: Sam Lee\nMD 98765")
	if info.Name != "Sam Lee" {
		t.Errorf("expected Physician label match, got %q", info.Name)
	}
	if info.License != "98765" {
		t.Errorf("expected MD-number license, got %q", info.License)
	}
}

func TestPrescriberContextAbsent(t *testing.T) {
	info := PrescriberContext("Aspirin 100mg daily")
	if info.Name != "" || info.License != "" {
		t.Errorf("expected zero info for unlabeled text, got %+v", info)
	}
}
