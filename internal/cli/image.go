package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dkolev/rxscan/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	paddleURL    string
	visionModel  string
	tesseractBin string
)

// imageCmd represents the image command
var imageCmd = &cobra.Command{
	Use:   "image <path>",
	Short: "Analyze a prescription image for drug safety issues",
	Long: `Image runs the full analysis pipeline on a prescription photo or scan:
- Extract text through the OCR cascade (PaddleOCR, vision API, tesseract)
- Cache OCR results by image content hash
- Recognize and analyze medications as with plain text

Engines that are unreachable or unconfigured are skipped; only total
OCR failure aborts the analysis.

Example:
  rxscan image prescription.jpg --age 8
  rxscan image scan.png --json report.json --no-cache`,
	Args: cobra.ExactArgs(1),
	RunE: runImage,
}

func init() {
	rootCmd.AddCommand(imageCmd)

	imageCmd.Flags().IntVar(&patientAge, "age", 0, "patient age in years (0 reads it from the prescription)")
	imageCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	imageCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	imageCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 3*time.Minute, "overall analysis timeout")
	imageCmd.Flags().StringVar(&mappingPath, "mapping", "", "drug mapping JSON path (default from config)")
	imageCmd.Flags().StringVar(&interactionsPath, "interactions", "", "interaction CSV path (default from config)")
	imageCmd.Flags().StringVar(&remoteURL, "remote-ner", "", "remote medical NER endpoint (optional)")
	imageCmd.Flags().StringVar(&paddleURL, "paddle-url", "", "PaddleOCR sidecar base URL (default from config)")
	imageCmd.Flags().StringVar(&visionModel, "vision-model", "", "vision OCR model name (default from config)")
	imageCmd.Flags().StringVar(&tesseractBin, "tesseract", "", "tesseract binary (default from config)")
	imageCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable OCR result cache")
	imageCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	imageCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	imageCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
}

func runImage(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	image, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}

	cfg := buildConfig()
	if paddleURL != "" {
		cfg.OCR.PaddleURL = paddleURL
	}
	if visionModel != "" {
		cfg.OCR.VisionModel = visionModel
	}
	if tesseractBin != "" {
		cfg.OCR.TesseractBin = tesseractBin
	}

	p, err := pipeline.New(cfg, newLogger())
	if err != nil {
		return fmt.Errorf("initialize pipeline: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s (%d bytes)\n", path, len(image))
	}

	report, err := p.AnalyzeImage(ctx, image, patientAge)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ OCR via %s\n", report.Method)
		fmt.Fprintf(os.Stderr, "✓ Extracted %d drugs\n", len(report.Entities))
	}

	return renderOutputs(cfg, report)
}
