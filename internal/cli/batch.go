package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/dkolev/rxscan/internal/pipeline"
	"github.com/dkolev/rxscan/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze multiple prescriptions from a file in parallel",
	Long: `Batch processes multiple prescription texts concurrently:
- Read prescriptions from input file (one per line, # for comments)
- Analyze in parallel with configurable worker count
- Write an individual JSON report per prescription

Example:
  rxscan batch prescriptions.txt
  rxscan batch prescriptions.txt --concurrency 10 --output-dir ./reports
  rxscan batch prescriptions.txt --age 70 --timeout 5m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./rxscan-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().IntVar(&patientAge, "age", 0, "patient age applied to every prescription (0 reads each from its text)")
	batchCmd.Flags().StringVar(&mappingPath, "mapping", "", "drug mapping JSON path (default from config)")
	batchCmd.Flags().StringVar(&interactionsPath, "interactions", "", "interaction CSV path (default from config)")
	batchCmd.Flags().StringVar(&remoteURL, "remote-ner", "", "remote medical NER endpoint (optional)")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	batchCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	batchCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Rxscan Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	if patientAge > 0 {
		fmt.Fprintf(os.Stderr, "  Patient age:  %d\n", patientAge)
	} else {
		fmt.Fprintf(os.Stderr, "  Patient age:  from each prescription\n")
	}
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	cfg := buildConfig()

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := pipeline.New(cfg, newLogger())
	if err != nil {
		return fmt.Errorf("initialize pipeline: %w", err)
	}

	texts, err := worker.ReadLines(file)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ Loaded %d prescriptions\n", len(texts))
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "⚙️  Processing with %d workers...\n", concurrency)
	fmt.Fprintf(os.Stderr, "\n")

	processor := worker.NewBatchProcessor(p, concurrency)
	results := processor.ProcessTexts(ctx, texts, patientAge)

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ line %d: %v\n", result.Line, result.Err)
			continue
		}

		successCount++

		jsonPath := filepath.Join(outputDir, fmt.Sprintf("prescription-%03d.json", result.Line))
		if err := renderer.RenderJSON(result.Report, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ line %d: failed to write JSON: %v\n", result.Line, err)
			continue
		}

		fmt.Fprintf(os.Stderr, "✓ line %d: %d drugs, risk %s\n",
			result.Line, len(result.Report.Entities), result.Report.OverallRisk)
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d prescriptions\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}
