package ocr

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// ErrExhausted is returned when every engine errored or produced no text
var ErrExhausted = errors.New("all OCR engines failed to extract text")

// DefaultThreshold is the short-circuit bar for engines without a
// configured threshold
const DefaultThreshold = 0.6

// Cascade runs engines in priority order with per-engine short-circuit
// thresholds. Thresholds are configuration: engines have different
// reliability profiles, so a fast engine may need a higher bar than a slow
// accurate one.
type Cascade struct {
	engines    []Engine
	thresholds map[string]float64
	timeout    time.Duration
	logger     *slog.Logger
}

// NewCascade creates a cascade over the given engines, in priority order
func NewCascade(engines []Engine, thresholds map[string]float64, timeout time.Duration, logger *slog.Logger) *Cascade {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cascade{
		engines:    engines,
		thresholds: thresholds,
		timeout:    timeout,
		logger:     logger,
	}
}

// Acquire tries each engine in order. Unavailable engines are skipped
// before recognition is attempted. An engine whose normalized confidence
// exceeds its threshold returns immediately; otherwise its result joins the
// candidate pool and the next engine runs. With no short-circuit the best
// pooled candidate wins. Engine errors and timeouts are logged and treated
// as no-result; only total pool exhaustion is a hard failure.
func (c *Cascade) Acquire(ctx context.Context, image []byte) (*Result, error) {
	var pool []*Result

	for _, engine := range c.engines {
		if !c.available(ctx, engine) {
			c.logger.Info("OCR engine unavailable, skipping", "engine", engine.Name())
			continue
		}

		result, err := c.runEngine(ctx, engine, image)
		if err != nil {
			c.logger.Warn("OCR engine failed", "engine", engine.Name(), "error", err)
			continue
		}
		if result == nil || result.Text == "" {
			c.logger.Debug("OCR engine produced no text", "engine", engine.Name())
			continue
		}

		result.Confidence = clamp(result.Confidence)
		result.Method = engine.Name()

		if result.Confidence > c.threshold(engine.Name()) {
			c.logger.Info("OCR short-circuit",
				"engine", engine.Name(), "confidence", result.Confidence)
			return result, nil
		}

		pool = append(pool, result)
	}

	if len(pool) == 0 {
		return nil, ErrExhausted
	}

	best := pool[0]
	for _, r := range pool[1:] {
		if r.Confidence > best.Confidence {
			best = r
		}
	}

	c.logger.Info("OCR best-of-pool fallback",
		"engine", best.Method, "confidence", best.Confidence, "pool_size", len(pool))
	return best, nil
}

// available probes the engine under the same per-engine timeout as
// recognition
func (c *Cascade) available(ctx context.Context, engine Engine) bool {
	engCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		engCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return engine.IsAvailable(engCtx)
}

func (c *Cascade) runEngine(ctx context.Context, engine Engine, image []byte) (*Result, error) {
	engCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		engCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return engine.Recognize(engCtx, image)
}

func (c *Cascade) threshold(engine string) float64 {
	if t, ok := c.thresholds[engine]; ok {
		return t
	}
	return DefaultThreshold
}
