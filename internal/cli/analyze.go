package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dkolev/rxscan/internal/model"
	"github.com/dkolev/rxscan/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	patientAge       int
	outJSON          string
	outMD            string
	analyzeTimeout   time.Duration
	mappingPath      string
	interactionsPath string
	remoteURL        string
	noCache          bool
	noFooter         bool
	httpProxy        string
	httpsProxy       string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <text>",
	Short: "Analyze prescription text for drug safety issues",
	Long: `Analyze extracts medications from prescription text and checks them:
- Recognize drug names, dosages, frequencies, routes and durations
- Resolve names against the reference drug database
- Detect pairwise drug interactions
- Apply age-banded dosage rules
- Suggest safer alternatives for severe interactions

Example:
  rxscan analyze "Aspirin 100mg daily, Warfarin 5mg once daily" --age 70
  rxscan analyze "Amoxicillin 500mg 3 times a day" --json report.json --md report.md`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().IntVar(&patientAge, "age", 0, "patient age in years (0 reads it from the prescription)")
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 2*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().StringVar(&mappingPath, "mapping", "", "drug mapping JSON path (default from config)")
	analyzeCmd.Flags().StringVar(&interactionsPath, "interactions", "", "interaction CSV path (default from config)")
	analyzeCmd.Flags().StringVar(&remoteURL, "remote-ner", "", "remote medical NER endpoint (optional)")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	text := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	cfg := buildConfig()

	p, err := pipeline.New(cfg, newLogger())
	if err != nil {
		return fmt.Errorf("initialize pipeline: %w", err)
	}

	if verbose {
		mapped, interactions := p.Tables().Size()
		fmt.Fprintf(os.Stderr, "Loaded %d mapped drugs, %d interaction pairs\n", mapped, interactions)
	}

	report, err := p.AnalyzeText(ctx, text, patientAge)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	return renderOutputs(cfg, report)
}

// buildConfig assembles the effective configuration from defaults and flags
func buildConfig() *model.Config {
	cfg := model.DefaultConfig()

	if mappingPath != "" {
		cfg.Data.MappingPath = mappingPath
	}
	if interactionsPath != "" {
		cfg.Data.InteractionsPath = interactionsPath
	}
	if remoteURL != "" {
		cfg.Extract.RemoteURL = remoteURL
	}
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter
	cfg.Proxy.HTTPProxy = httpProxy
	cfg.Proxy.HTTPSProxy = httpsProxy

	// Secrets come from the environment only
	cfg.OCR.VisionAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.Extract.RemoteToken = os.Getenv("HF_API_TOKEN")

	return cfg
}

// renderOutputs writes the requested report files and prints the summary
func renderOutputs(cfg *model.Config, report *model.AnalysisReport) error {
	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)

	if outJSON != "" {
		if err := renderer.RenderJSON(report, outJSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
		}
	}

	if outMD != "" {
		if err := renderer.RenderMarkdown(report, outMD); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", outMD)
		}
	}

	renderer.RenderSummary(report)
	return nil
}
