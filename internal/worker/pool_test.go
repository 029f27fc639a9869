package worker

import (
	"context"
	"testing"

	"github.com/dkolev/rxscan/internal/model"
)

// ctxAnalyzer fails when its context is already done
type ctxAnalyzer struct{}

func (a *ctxAnalyzer) AnalyzeText(ctx context.Context, _ string, _ int) (*model.AnalysisReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &model.AnalysisReport{}, nil
}

func TestPoolRunsAllAnalyzeJobs(t *testing.T) {
	p := NewPool(3)
	p.Start(context.Background())

	texts := []string{"Aspirin 100mg", "Warfarin 5mg", "Metformin 500mg", "Ibuprofen 200mg", "Paracetamol 500mg"}
	for i, text := range texts {
		p.Submit(&AnalyzeJob{Line: i + 1, Text: text, Age: 30, Analyzer: &fakeAnalyzer{}})
	}

	results := p.Wait()
	if len(results) != len(texts) {
		t.Fatalf("expected %d results, got %d", len(texts), len(results))
	}

	seen := make(map[int]bool)
	for _, r := range results {
		ar, ok := r.(*AnalyzeResult)
		if !ok {
			t.Fatalf("expected *AnalyzeResult, got %T", r)
		}
		if ar.Err != nil {
			t.Errorf("line %d: unexpected error: %v", ar.Line, ar.Err)
		}
		seen[ar.Line] = true
	}
	for i := 1; i <= len(texts); i++ {
		if !seen[i] {
			t.Errorf("expected a result for line %d", i)
		}
	}
}

func TestPoolSurfacesJobErrors(t *testing.T) {
	p := NewPool(2)
	p.Start(context.Background())

	p.Submit(&AnalyzeJob{Line: 1, Text: "Aspirin 100mg", Age: 30, Analyzer: &fakeAnalyzer{}})
	p.Submit(&AnalyzeJob{Line: 2, Text: "this should fail", Age: 30, Analyzer: &fakeAnalyzer{}})

	results := p.Wait()
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	var failures int
	for _, r := range results {
		if r.GetError() != nil {
			failures++
		}
	}
	if failures != 1 {
		t.Errorf("expected exactly 1 failed job, got %d", failures)
	}
}

func TestPoolDefaultsToOneWorker(t *testing.T) {
	p := NewPool(0)
	p.Start(context.Background())

	p.Submit(&AnalyzeJob{Line: 1, Text: "Aspirin 100mg", Age: 30, Analyzer: &fakeAnalyzer{}})

	results := p.Wait()
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
}

func TestPoolHandlesMoreJobsThanQueueCapacity(t *testing.T) {
	// Submitting far more jobs than the buffered queue holds must not
	// deadlock the submitter
	p := NewPool(2)
	p.Start(context.Background())

	const jobs = 50
	for i := 0; i < jobs; i++ {
		p.Submit(&AnalyzeJob{Line: i + 1, Text: "Aspirin 100mg", Age: 30, Analyzer: &fakeAnalyzer{}})
	}

	results := p.Wait()
	if len(results) != jobs {
		t.Fatalf("expected %d results, got %d", jobs, len(results))
	}
}

func TestPoolPassesContextToJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPool(1)
	p.Start(ctx)

	p.Submit(&AnalyzeJob{Line: 1, Text: "Aspirin 100mg", Age: 30, Analyzer: &ctxAnalyzer{}})

	results := p.Wait()
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].GetError() == nil {
		t.Error("expected cancelled context to reach the analyzer")
	}
}
