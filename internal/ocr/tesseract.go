package ocr

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// minWordConfidence drops words tesseract itself is unsure about;
// tesseract reports per-word confidence on a 0-100 scale
const minWordConfidence = 30

// TesseractEngine shells out to a local tesseract binary, the final
// fallback when neither remote engine produced usable text.
type TesseractEngine struct {
	bin string
}

// NewTesseractEngine creates a tesseract engine; bin may be a bare name
// resolved via PATH or an absolute path
func NewTesseractEngine(bin string) *TesseractEngine {
	if bin == "" {
		bin = "tesseract"
	}
	return &TesseractEngine{bin: bin}
}

// Name returns the engine name
func (e *TesseractEngine) Name() string { return "tesseract" }

// IsAvailable checks the binary is on PATH
func (e *TesseractEngine) IsAvailable(_ context.Context) bool {
	_, err := exec.LookPath(e.bin)
	return err == nil
}

// Recognize runs tesseract in TSV mode and keeps words above the
// per-word confidence floor. The mean retained confidence, scaled to
// [0,1], becomes the engine confidence.
func (e *TesseractEngine) Recognize(ctx context.Context, image []byte) (*Result, error) {
	tmp, err := os.CreateTemp("", "rxscan-ocr-*.img")
	if err != nil {
		return nil, fmt.Errorf("temp image: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(image); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp image: %w", err)
	}

	cmd := exec.CommandContext(ctx, e.bin, tmp.Name(), "stdout", "--psm", "6", "tsv")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("tesseract: %w", err)
	}

	text, confidence := parseTSV(string(out))
	if text == "" {
		return nil, nil
	}

	return &Result{
		Text:       text,
		Confidence: confidence,
	}, nil
}

// parseTSV extracts words and confidences from tesseract TSV output.
// Columns: level page block par line word left top width height conf text.
func parseTSV(tsv string) (string, float64) {
	var words []string
	total := 0.0
	kept := 0

	lines := strings.Split(tsv, "\n")
	for i, line := range lines {
		if i == 0 { // header
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 12 {
			continue
		}

		conf, err := strconv.ParseFloat(fields[10], 64)
		if err != nil || conf <= minWordConfidence {
			continue
		}

		word := strings.TrimSpace(fields[11])
		if word == "" {
			continue
		}

		words = append(words, word)
		total += conf
		kept++
	}

	if kept == 0 {
		return "", 0
	}

	return strings.Join(words, " "), total / float64(kept) / 100.0
}
