package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dkolev/rxscan/internal/model"
)

// Label patterns follow what clinicians actually print on scripts. Within
// each field the patterns run in order and the first hit wins.
var (
	patientNamePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bPatient:\s*([A-Za-z][A-Za-z ]*)`),
		regexp.MustCompile(`(?i)\bName:\s*([A-Za-z][A-Za-z ]*)`),
		regexp.MustCompile(`(?i)\bFor:\s*([A-Za-z][A-Za-z ]*)`),
	}
	patientDOBPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bDOB:\s*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
		regexp.MustCompile(`(?i)\bBorn:\s*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
		regexp.MustCompile(`(?i)\bBirth:\s*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
	}
	patientAgePattern = regexp.MustCompile(`(?i)\bAge:\s*(\d{1,3})\b`)

	prescriberNamePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\bDr\.\s*([A-Za-z][A-Za-z ]*)`),
		regexp.MustCompile(`(?i)\bDoctor:\s*([A-Za-z][A-Za-z ]*)`),
		regexp.MustCompile(`(?i)\bPhysician:\s*([A-Za-z][A-Za-z ]*)`),
	}
	prescriberLicensePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bLicense:\s*([A-Z0-9]+)`),
		regexp.MustCompile(`(?i)\bLic\.\s*([A-Z0-9]+)`),
		regexp.MustCompile(`\bMD\s*([0-9]+)`),
	}
)

// PatientContext pulls patient demographics from the prescription text.
// Missing labels leave their fields zero; an implausible printed age is
// treated as absent.
func PatientContext(text string) model.PatientInfo {
	info := model.PatientInfo{
		Name: firstCapture(patientNamePatterns, text),
		DOB:  firstCapture(patientDOBPatterns, text),
	}

	if m := patientAgePattern.FindStringSubmatch(text); m != nil {
		if age, err := strconv.Atoi(m[1]); err == nil && age > 0 && age < 120 {
			info.Age = age
		}
	}

	return info
}

// PrescriberContext pulls the prescribing physician's name and license
// number from the prescription text
func PrescriberContext(text string) model.PrescriberInfo {
	return model.PrescriberInfo{
		Name:    firstCapture(prescriberNamePatterns, text),
		License: firstCapture(prescriberLicensePatterns, text),
	}
}

func firstCapture(patterns []*regexp.Regexp, text string) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}
