package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// minLineConfidence filters out low-confidence recognized lines before they
// pollute the averaged engine confidence
const minLineConfidence = 0.5

// PaddleEngine talks to a PaddleOCR serving sidecar over HTTP. It is the
// primary engine: best on handwritten prescriptions, and it reports real
// per-line confidences.
type PaddleEngine struct {
	baseURL    string
	httpClient *http.Client
}

type paddleRequest struct {
	Image string `json:"image"` // base64-encoded
}

type paddleLine struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

type paddleResponse struct {
	Results []paddleLine `json:"results"`
	Error   string       `json:"error,omitempty"`
}

// NewPaddleEngine creates a Paddle engine for the given sidecar base URL.
// A nil client gets a default with a 30-second timeout.
func NewPaddleEngine(baseURL string, client *http.Client) *PaddleEngine {
	if baseURL == "" {
		baseURL = "http://localhost:8868"
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &PaddleEngine{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

// Name returns the engine name
func (e *PaddleEngine) Name() string { return "paddle" }

// IsAvailable probes the sidecar health endpoint
func (e *PaddleEngine) IsAvailable(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, e.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := e.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Recognize sends the image for recognition and averages the retained line
// confidences into the engine confidence
func (e *PaddleEngine) Recognize(ctx context.Context, image []byte) (*Result, error) {
	body, err := json.Marshal(paddleRequest{
		Image: base64.StdEncoding.EncodeToString(image),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/predict/ocr", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paddle request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("paddle status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var parsed paddleResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("paddle error: %s", parsed.Error)
	}

	var sb strings.Builder
	total := 0.0
	kept := 0
	for _, line := range parsed.Results {
		if line.Confidence <= minLineConfidence {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(line.Text)
		total += line.Confidence
		kept++
	}

	if kept == 0 {
		return nil, nil
	}

	return &Result{
		Text:       strings.TrimSpace(sb.String()),
		Confidence: total / float64(kept),
	}, nil
}
