package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dkolev/rxscan/internal/model"
)

// Analyzer analyzes one prescription text
type Analyzer interface {
	AnalyzeText(ctx context.Context, text string, age int) (*model.AnalysisReport, error)
}

// AnalyzeJob is one prescription text queued for analysis
type AnalyzeJob struct {
	Line     int
	Text     string
	Age      int
	Analyzer Analyzer
}

// Execute runs the analysis
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	report, err := j.Analyzer.AnalyzeText(ctx, j.Text, j.Age)
	return &AnalyzeResult{
		Line:   j.Line,
		Text:   j.Text,
		Report: report,
		Err:    err,
	}
}

// AnalyzeResult is the outcome of one batch entry
type AnalyzeResult struct {
	Line   int
	Text   string
	Report *model.AnalysisReport
	Err    error
}

// GetError returns the analysis error, if any
func (r *AnalyzeResult) GetError() error {
	return r.Err
}

// BatchProcessor analyzes many prescription texts concurrently. The
// reference tables are immutable after load, so concurrent analyses share
// them without synchronization.
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// ProcessTexts analyzes the given prescription texts through the pool
func (b *BatchProcessor) ProcessTexts(ctx context.Context, texts []string, age int) []*AnalyzeResult {
	if len(texts) == 0 {
		return nil
	}

	pool := NewPool(b.concurrency)
	pool.Start(ctx)

	for i, text := range texts {
		pool.Submit(&AnalyzeJob{
			Line:     i + 1,
			Text:     text,
			Age:      age,
			Analyzer: b.analyzer,
		})
	}

	raw := pool.Wait()

	results := make([]*AnalyzeResult, 0, len(raw))
	for _, r := range raw {
		if ar, ok := r.(*AnalyzeResult); ok {
			results = append(results, ar)
		}
	}
	return results
}

// ReadLines reads one prescription text per non-empty line from a file.
// Lines starting with # are treated as comments.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open batch file: %w", err)
	}
	defer f.Close()

	var texts []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		texts = append(texts, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}

	return texts, nil
}
