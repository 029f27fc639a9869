package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dkolev/rxscan/internal/model"
	"github.com/dkolev/rxscan/internal/worker"
)

// remoteConfidence is assigned to remote NER detections. The inference API
// reports no per-entity scores, so the method carries a single reliability
// figure like the other extractors.
const remoteConfidence = 0.85

// RemoteExtractor queries a hosted medical NER model over an HF-style
// inference API. Model responses are free text with an embedded JSON array;
// anything unparseable is an extractor error, recovered by the caller.
type RemoteExtractor struct {
	endpoint   string
	token      string
	httpClient *http.Client
	limiter    *worker.Limiter
}

type remoteRequest struct {
	Inputs string `json:"inputs"`
}

type remoteGeneration struct {
	GeneratedText string `json:"generated_text"`
}

type remoteDrug struct {
	DrugName string `json:"drug_name"`
	Name     string `json:"name"` // Some models answer with "name" instead
}

// NewRemoteExtractor creates a remote NER extractor. A nil client gets a
// default with a 30-second timeout.
func NewRemoteExtractor(endpoint, token string, client *http.Client, limiter *worker.Limiter) *RemoteExtractor {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &RemoteExtractor{
		endpoint:   endpoint,
		token:      token,
		httpClient: client,
		limiter:    limiter,
	}
}

// Name returns the extractor name
func (e *RemoteExtractor) Name() string { return "remote-ner" }

// Detect queries the remote model and maps its answer into detections
func (e *RemoteExtractor) Detect(ctx context.Context, text string) ([]model.RawDetection, error) {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx, e.endpoint); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	prompt := fmt.Sprintf(`Extract all medication names from the text below.
Return the result ONLY as a JSON array of objects with a "drug_name" field.
Text: %q`, text)

	body, err := json.Marshal(remoteRequest{Inputs: prompt})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote NER request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remote NER status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	generated, err := extractGeneratedText(raw)
	if err != nil {
		return nil, err
	}

	drugs, err := parseDrugArray(generated)
	if err != nil {
		return nil, err
	}

	detections := make([]model.RawDetection, 0, len(drugs))
	for _, d := range drugs {
		mention := d.DrugName
		if mention == "" {
			mention = d.Name
		}
		if mention == "" {
			continue
		}
		detections = append(detections, model.RawDetection{
			SourceMethod: e.Name(),
			Mention:      mention,
			Confidence:   remoteConfidence,
			CharOffset:   offsetOf(text, mention),
		})
	}

	return detections, nil
}

// extractGeneratedText handles the two response shapes the API produces:
// a list of generations or a single object
func extractGeneratedText(raw []byte) (string, error) {
	var list []remoteGeneration
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list[0].GeneratedText, nil
	}

	var single remoteGeneration
	if err := json.Unmarshal(raw, &single); err == nil && single.GeneratedText != "" {
		return single.GeneratedText, nil
	}

	return "", fmt.Errorf("unexpected remote NER response shape")
}

// parseDrugArray pulls the first JSON array out of the generated text.
// Models pad their answers with prose, so the array is located by bracket
// scan rather than strict decoding.
func parseDrugArray(generated string) ([]remoteDrug, error) {
	start := strings.Index(generated, "[")
	end := strings.LastIndex(generated, "]")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("no JSON array in remote NER output")
	}

	var drugs []remoteDrug
	if err := json.Unmarshal([]byte(generated[start:end+1]), &drugs); err != nil {
		return nil, fmt.Errorf("parse remote NER output: %w", err)
	}

	return drugs, nil
}
