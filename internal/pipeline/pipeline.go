// Package pipeline wires text acquisition, entity extraction, fusion and
// safety analysis into the end-to-end prescription analysis flow.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dkolev/rxscan/internal/cache"
	"github.com/dkolev/rxscan/internal/dataset"
	"github.com/dkolev/rxscan/internal/extract"
	"github.com/dkolev/rxscan/internal/fuse"
	"github.com/dkolev/rxscan/internal/interaction"
	"github.com/dkolev/rxscan/internal/model"
	"github.com/dkolev/rxscan/internal/ocr"
	"github.com/dkolev/rxscan/internal/risk"
	"github.com/dkolev/rxscan/internal/util"
	"github.com/dkolev/rxscan/internal/worker"
)

// minUsableTextLen rejects OCR output too short to be a prescription
const minUsableTextLen = 10

// defaultPatientAge is assumed when no age is given or printed
const defaultPatientAge = 30

// Pipeline owns the full analysis flow. All fields are set at construction
// and read-only afterwards, so one Pipeline serves concurrent analyses.
type Pipeline struct {
	cfg        *model.Config
	tables     *dataset.Tables
	cascade    *ocr.Cascade
	extractors []extract.Extractor
	fuser      *fuse.Fuser
	checker    *interaction.Engine
	risk       *risk.Aggregator
	cache      cache.Cache
	logger     *slog.Logger
}

// New builds a pipeline from configuration. Reference tables load eagerly;
// OCR engines and extractors are constructed but not probed, since
// availability is rechecked per call anyway.
func New(cfg *model.Config, logger *slog.Logger) (*Pipeline, error) {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	tables, err := dataset.Load(cfg.Data.MappingPath, cfg.Data.InteractionsPath, logger)
	if err != nil {
		return nil, fmt.Errorf("load reference data: %w", err)
	}

	p := &Pipeline{
		cfg:     cfg,
		tables:  tables,
		fuser:   fuse.NewFuser(tables, cfg.Extract.MinMentionLen),
		checker: interaction.New(tables),
		risk:    risk.NewAggregator(),
		logger:  logger,
	}

	p.cascade = ocr.NewCascade(p.buildEngines(), cfg.OCR.Thresholds, cfg.OCR.EngineTimeout, logger)
	p.extractors = p.buildExtractors()

	if cfg.Cache.Enabled {
		p.cache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	return p, nil
}

// Tables exposes the loaded reference tables
func (p *Pipeline) Tables() *dataset.Tables { return p.tables }

// httpClient builds an outbound client honoring the proxy configuration
func (p *Pipeline) httpClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(p.cfg.Proxy.HTTPProxy, p.cfg.Proxy.HTTPSProxy, p.cfg.Proxy.NoProxy),
		},
	}
}

// buildEngines instantiates OCR engines in the configured priority order.
// The vision engine needs an API key and is skipped without one; the
// cascade degrades to the remaining engines.
func (p *Pipeline) buildEngines() []ocr.Engine {
	var engines []ocr.Engine

	for _, name := range p.cfg.OCR.Order {
		switch name {
		case "paddle":
			engines = append(engines, ocr.NewPaddleEngine(p.cfg.OCR.PaddleURL, p.httpClient(p.cfg.OCR.EngineTimeout)))
		case "vision":
			engine, err := ocr.NewVisionEngine(p.cfg.OCR.VisionAPIKey, p.cfg.OCR.VisionBaseURL, p.cfg.OCR.VisionModel)
			if err != nil {
				p.logger.Warn("vision engine disabled", "error", err)
				continue
			}
			engines = append(engines, engine)
		case "tesseract":
			engines = append(engines, ocr.NewTesseractEngine(p.cfg.OCR.TesseractBin))
		default:
			p.logger.Warn("unknown OCR engine in config", "engine", name)
		}
	}

	return engines
}

// buildExtractors assembles the extractor set in priority order: most
// reliable first, so equal-confidence fusion ties resolve toward the
// better source. The lexicon extractor only exists when the mapping
// dataset loaded; the remote extractor only when an endpoint is set.
func (p *Pipeline) buildExtractors() []extract.Extractor {
	var extractors []extract.Extractor

	if names := p.tables.MappedNames(); len(names) > 0 {
		extractors = append(extractors, extract.NewLexiconExtractor(names))
	}

	if p.cfg.Extract.RemoteURL != "" {
		limiter := worker.NewLimiter(p.cfg.Extract.RatePerSecond, p.cfg.Extract.RateBurst)
		extractors = append(extractors, extract.NewRemoteExtractor(
			p.cfg.Extract.RemoteURL,
			p.cfg.Extract.RemoteToken,
			p.httpClient(p.cfg.Extract.Timeout),
			limiter,
		))
	}

	extractors = append(extractors, extract.NewPatternExtractor())

	return extractors
}

// AcquireText runs the OCR cascade, consulting the cache first. Cached
// results are keyed by image content hash, so renamed or re-sent files
// still hit.
func (p *Pipeline) AcquireText(ctx context.Context, image []byte) (*ocr.Result, error) {
	var key string
	if p.cache != nil {
		key = cache.ImageKey(image)
		if data, ok := p.cache.Get(key); ok {
			var cached ocr.Result
			if err := json.Unmarshal(data, &cached); err == nil {
				p.logger.Debug("OCR cache hit", "method", cached.Method)
				return &cached, nil
			}
		}
	}

	result, err := p.cascade.Acquire(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoText, err)
	}
	if len(strings.TrimSpace(result.Text)) < minUsableTextLen {
		return nil, ErrNoText
	}

	if p.cache != nil {
		if data, err := json.Marshal(result); err == nil {
			if err := p.cache.Set(key, data, 0); err != nil {
				p.logger.Warn("OCR cache write failed", "error", err)
			}
		}
	}

	return result, nil
}

// ExtractAndFuse fans the text out to every extractor concurrently, then
// fuses the detections. Results are reassembled by extractor index so
// fusion sees them in priority order regardless of completion order. A
// failed extractor contributes nothing; only an empty fused set is an error.
func (p *Pipeline) ExtractAndFuse(ctx context.Context, text string) ([]model.FusedDrugEntity, error) {
	perExtractor := make([][]model.RawDetection, len(p.extractors))

	var wg sync.WaitGroup
	for i, ex := range p.extractors {
		wg.Add(1)
		go func(i int, ex extract.Extractor) {
			defer wg.Done()

			exCtx := ctx
			if p.cfg.Extract.Timeout > 0 {
				var cancel context.CancelFunc
				exCtx, cancel = context.WithTimeout(ctx, p.cfg.Extract.Timeout)
				defer cancel()
			}

			detections, err := ex.Detect(exCtx, text)
			if err != nil {
				p.logger.Warn("extractor failed", "extractor", ex.Name(), "error", err)
				return
			}
			perExtractor[i] = detections
		}(i, ex)
	}
	wg.Wait()

	var detections []model.RawDetection
	for _, batch := range perExtractor {
		detections = append(detections, batch...)
	}

	entities := p.fuser.Fuse(detections, extract.Attributes(text))
	if len(entities) == 0 {
		return nil, ErrNoEntities
	}

	p.logger.Info("extraction complete",
		"detections", len(detections), "entities", len(entities))
	return entities, nil
}

// AnalyzeSafety runs interaction checks, dosage rules and risk roll-up
// over an already-fused entity set
func (p *Pipeline) AnalyzeSafety(entities []model.FusedDrugEntity, age int) *model.AnalysisReport {
	names := make([]string, len(entities))
	for i, e := range entities {
		names[i] = e.DisplayName
	}

	interactions := p.checker.Check(names)
	for i := range interactions {
		if interactions[i].Interaction != model.NoInteraction {
			interactions[i].Severity = risk.SeverityFromText(interactions[i].Interaction)
		}
	}

	advice := p.risk.DosageAdvice(entities, age)
	alternatives := p.risk.Alternatives(interactions)

	return &model.AnalysisReport{
		PatientAge:   age,
		Entities:     entities,
		Interactions: interactions,
		DosageAdvice: advice,
		Alternatives: alternatives,
		OverallRisk:  p.risk.OverallRisk(interactions, advice),
		AnalyzedAt:   time.Now().UTC(),
	}
}

// AnalyzeText runs the text half of the flow: extraction, fusion, safety.
// A non-positive age falls back to the age printed on the prescription,
// then to the adult default.
func (p *Pipeline) AnalyzeText(ctx context.Context, text string, age int) (*model.AnalysisReport, error) {
	patient := extract.PatientContext(text)
	if age <= 0 {
		if patient.Age > 0 {
			age = patient.Age
		} else {
			age = defaultPatientAge
		}
	}

	entities, err := p.ExtractAndFuse(ctx, text)
	if err != nil {
		return nil, err
	}

	report := p.AnalyzeSafety(entities, age)
	if patient != (model.PatientInfo{}) {
		report.Patient = &patient
	}
	if prescriber := extract.PrescriberContext(text); prescriber != (model.PrescriberInfo{}) {
		report.Prescriber = &prescriber
	}
	return report, nil
}

// AnalyzeImage runs the full flow from raw image bytes
func (p *Pipeline) AnalyzeImage(ctx context.Context, image []byte, age int) (*model.AnalysisReport, error) {
	acquired, err := p.AcquireText(ctx, image)
	if err != nil {
		return nil, err
	}

	report, err := p.AnalyzeText(ctx, acquired.Text, age)
	if err != nil {
		return nil, err
	}

	report.ExtractedText = acquired.Text
	report.Method = acquired.Method
	return report, nil
}
