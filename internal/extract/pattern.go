package extract

import (
	"context"
	"regexp"
	"strings"

	"github.com/dkolev/rxscan/internal/model"
)

// patternConfidence is the fixed confidence of rule-based matches. Patterns
// are precise but blind to anything outside their templates, so they rank
// below the lexicon and remote NER methods.
const patternConfidence = 0.6

var (
	// Name templates: pharmaceutical suffixes and names directly followed
	// by a dose
	reDrugSuffix = regexp.MustCompile(`\b[A-Z][a-z]+(?:cillin|mycin|prazole|statin|sartan|olol|pine|zide|mab|nib)\b`)
	reDoseLed    = regexp.MustCompile(`\b([A-Z][a-z]{3,})\s+\d+(?:\.\d+)?\s*(?:mg|mcg|g|ml|units?)\b`)
	reRxLabel    = regexp.MustCompile(`(?i)(?:Rx:|Take:|Medication:)\s*([A-Za-z]+)`)
)

// Attribute span patterns, tried in order; match order within the text is
// the candidate encounter order the binder relies on for tie-breaking.
var (
	reDosage = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:mg|mcg|g|ml|units?)\b`),
		regexp.MustCompile(`(?i)\b\d+/\d+\s*(?:mg|mcg|g|ml)\b`),
	}
	reFreqCount = regexp.MustCompile(`(?i)\b(\d+)\s*(?:times?|x)\s*(?:per\s+|a\s+)?(?:day|daily)\b`)
	reFreqSlash = regexp.MustCompile(`(?i)\b(\d+)/day\b`)
	reFreqHours = regexp.MustCompile(`(?i)\bevery\s+(\d+)\s+hours?\b`)
	reFreqWords = regexp.MustCompile(`(?i)\b(once|twice|thrice|three times)\s+(?:per\s+)?(?:daily|a\s+day|day)\b`)
	reFreqTime  = regexp.MustCompile(`(?i)\b(morning|evening|night|bedtime)\b`)
	reFreqAbbr  = regexp.MustCompile(`(?i)\b(BID|TID|QID|QD|PRN)\b`)

	reRoute = regexp.MustCompile(`(?i)\b(orally|oral|by mouth|PO|intravenously|intravenous|IV|intramuscularly|intramuscular|IM|subcutaneously|subcut|SC|SQ|topically|topical|inhaled|inhalation|nebulized|rectally|rectal|PR|sublingually|sublingual|SL)\b`)

	reDuration = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bfor\s+\d+\s+(?:day|week|month)s?\b`),
		regexp.MustCompile(`(?i)\b\d+\s+(?:day|week|month)\s+(?:course|treatment)\b`),
		regexp.MustCompile(`(?i)\buntil\s+(?:finished|gone|empty)\b`),
	}
)

var freqWordMap = map[string]string{
	"once":        "1/day",
	"twice":       "2/day",
	"thrice":      "3/day",
	"three times": "3/day",
	"bid":         "2/day",
	"tid":         "3/day",
	"qid":         "4/day",
	"qd":          "1/day",
	"prn":         "As needed",
}

var routeMap = map[string]string{
	"orally": "oral", "oral": "oral", "by mouth": "oral", "po": "oral",
	"intravenously": "intravenous", "iv": "intravenous", "intravenous": "intravenous",
	"intramuscularly": "intramuscular", "im": "intramuscular", "intramuscular": "intramuscular",
	"subcutaneously": "subcutaneous", "sc": "subcutaneous", "sq": "subcutaneous", "subcut": "subcutaneous",
	"topically": "topical", "topical": "topical",
	"inhaled": "inhalation", "inhalation": "inhalation", "nebulized": "inhalation",
	"rectally": "rectal", "rectal": "rectal", "pr": "rectal",
	"sublingually": "sublingual", "sublingual": "sublingual", "sl": "sublingual",
}

// PatternExtractor finds drug mentions with rule-based templates. It needs
// no external services and acts as the always-available floor of the
// extraction set.
type PatternExtractor struct{}

// NewPatternExtractor creates a pattern extractor
func NewPatternExtractor() *PatternExtractor {
	return &PatternExtractor{}
}

// Name returns the extractor name
func (e *PatternExtractor) Name() string { return "pattern" }

// Detect finds drug mentions using the name templates
func (e *PatternExtractor) Detect(_ context.Context, text string) ([]model.RawDetection, error) {
	var detections []model.RawDetection

	add := func(mention string, offset int) {
		detections = append(detections, model.RawDetection{
			SourceMethod: e.Name(),
			Mention:      mention,
			Confidence:   patternConfidence,
			CharOffset:   offset,
		})
	}

	for _, loc := range reDrugSuffix.FindAllStringIndex(text, -1) {
		add(text[loc[0]:loc[1]], loc[0])
	}
	for _, m := range reDoseLed.FindAllStringSubmatchIndex(text, -1) {
		add(text[m[2]:m[3]], m[2])
	}
	for _, m := range reRxLabel.FindAllStringSubmatchIndex(text, -1) {
		add(text[m[2]:m[3]], m[2])
	}

	return detections, nil
}

// Attributes extracts dosage, frequency, route and duration candidate spans
// with their character offsets. Frequencies and routes are normalized to the
// dataset vocabulary ("3/day", "oral") while keeping the original span
// offset for proximity binding.
func Attributes(text string) []model.AttributeCandidate {
	var candidates []model.AttributeCandidate

	add := func(kind model.AttributeKind, value string, offset int) {
		candidates = append(candidates, model.AttributeCandidate{
			Kind:       kind,
			Text:       value,
			CharOffset: offset,
		})
	}

	for _, re := range reDosage {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			add(model.AttributeDosage, strings.ReplaceAll(text[loc[0]:loc[1]], " ", ""), loc[0])
		}
	}

	for _, m := range reFreqCount.FindAllStringSubmatchIndex(text, -1) {
		add(model.AttributeFrequency, text[m[2]:m[3]]+"/day", m[0])
	}
	for _, m := range reFreqSlash.FindAllStringSubmatchIndex(text, -1) {
		add(model.AttributeFrequency, text[m[2]:m[3]]+"/day", m[0])
	}
	for _, m := range reFreqHours.FindAllStringSubmatchIndex(text, -1) {
		add(model.AttributeFrequency, "Every "+text[m[2]:m[3]]+" hours", m[0])
	}
	for _, m := range reFreqWords.FindAllStringSubmatchIndex(text, -1) {
		word := strings.ToLower(text[m[2]:m[3]])
		add(model.AttributeFrequency, freqWordMap[word], m[0])
	}
	for _, m := range reFreqTime.FindAllStringSubmatchIndex(text, -1) {
		when := strings.ToLower(text[m[2]:m[3]])
		add(model.AttributeFrequency, "1/day ("+when+")", m[0])
	}
	for _, m := range reFreqAbbr.FindAllStringSubmatchIndex(text, -1) {
		abbr := strings.ToLower(text[m[2]:m[3]])
		add(model.AttributeFrequency, freqWordMap[abbr], m[0])
	}

	for _, m := range reRoute.FindAllStringSubmatchIndex(text, -1) {
		raw := strings.ToLower(text[m[2]:m[3]])
		normalized, ok := routeMap[raw]
		if !ok {
			normalized = raw
		}
		add(model.AttributeRoute, normalized, m[0])
	}

	for _, re := range reDuration {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			add(model.AttributeDuration, text[loc[0]:loc[1]], loc[0])
		}
	}

	return candidates
}
