package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiterPacesRepeatCalls(t *testing.T) {
	// Burst 1 means every call after the first waits a full interval
	l := NewLimiter(50, 1)
	endpoint := "https://api-inference.huggingface.co/models/medical-ner"

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := l.Wait(context.Background(), endpoint); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	elapsed := time.Since(start)

	// Two paced waits at 50 req/s are 40ms; allow scheduler slack
	if elapsed < 30*time.Millisecond {
		t.Errorf("expected calls to be paced, finished in %v", elapsed)
	}
}

func TestLimiterTracksHostsIndependently(t *testing.T) {
	l := NewLimiter(2, 1)

	start := time.Now()
	if err := l.Wait(context.Background(), "http://paddle-ocr.local:8868/predict/ocr"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := l.Wait(context.Background(), "https://api-inference.huggingface.co/models/medical-ner"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	elapsed := time.Since(start)

	// Different hosts each spend their own burst; neither waits the 500ms
	// interval the shared host would
	if elapsed > 250*time.Millisecond {
		t.Errorf("expected independent hosts to proceed without pacing, took %v", elapsed)
	}
}

func TestLimiterInvalidURL(t *testing.T) {
	l := NewLimiter(10, 5)

	if err := l.Wait(context.Background(), "://missing-scheme"); err == nil {
		t.Error("expected error for unparseable URL, got nil")
	}
}

func TestLimiterRespectsContext(t *testing.T) {
	l := NewLimiter(0.1, 1)
	endpoint := "https://api-inference.huggingface.co/models/medical-ner"

	// Spend the burst, then the next wait would block ten seconds
	if err := l.Wait(context.Background(), endpoint); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx, endpoint); err == nil {
		t.Error("expected context expiry to abort the wait, got nil")
	}
}

func TestLimiterDefaultBurst(t *testing.T) {
	l := NewLimiter(10, -1)
	if l.burst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l.burst)
	}
}
