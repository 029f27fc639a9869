package model

import "time"

// Config holds the complete rxscan configuration
type Config struct {
	OCR     OCRConfig     `yaml:"ocr"`
	Extract ExtractConfig `yaml:"extract"`
	Data    DataConfig    `yaml:"data"`
	Cache   CacheConfig   `yaml:"cache"`
	Output  OutputConfig  `yaml:"output"`
	Proxy   ProxyConfig   `yaml:"proxy"`
}

// ProxyConfig routes outbound HTTP (OCR sidecar, remote NER) through
// explicit proxies; empty values fall back to the standard environment
// variables
type ProxyConfig struct {
	HTTPProxy  string `yaml:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy"`
	NoProxy    string `yaml:"no_proxy"`
}

// OCRConfig configures the text-acquisition cascade
type OCRConfig struct {
	// Order is the engine priority order for the cascade
	Order []string `yaml:"order"`

	// Thresholds are per-engine short-circuit confidence bars.
	// Engines have different reliability profiles, so the bars differ.
	Thresholds map[string]float64 `yaml:"thresholds"`

	// EngineTimeout bounds each engine call; a timed-out engine is
	// treated like an engine error and excluded from the pool
	EngineTimeout time.Duration `yaml:"engine_timeout"`

	// PaddleURL is the base URL of the PaddleOCR serving sidecar
	PaddleURL string `yaml:"paddle_url"`

	// Vision engine settings (OpenAI-compatible vision API)
	VisionModel   string `yaml:"vision_model"`
	VisionAPIKey  string `yaml:"-"` // From env only, never persisted
	VisionBaseURL string `yaml:"vision_base_url"`

	// TesseractBin is the tesseract binary name or path
	TesseractBin string `yaml:"tesseract_bin"`
}

// ExtractConfig configures the entity extraction and fusion set
type ExtractConfig struct {
	// MinMentionLen discards mention texts shorter than this (noise guard)
	MinMentionLen int `yaml:"min_mention_len"`

	// Timeout bounds each extractor call in the fuse-all set
	Timeout time.Duration `yaml:"timeout"`

	// Remote medical NER endpoint (HF-style inference API); empty disables it
	RemoteURL   string `yaml:"remote_url"`
	RemoteToken string `yaml:"-"` // From env only

	// Rate limiting for remote endpoints
	RatePerSecond float64 `yaml:"rate_per_second"`
	RateBurst     int     `yaml:"rate_burst"`
}

// DataConfig locates the read-only reference datasets
type DataConfig struct {
	// MappingPath is the drug-name -> canonical-identifier JSON mapping
	MappingPath string `yaml:"mapping_path"`

	// InteractionsPath is the pairwise interaction CSV table
	InteractionsPath string `yaml:"interactions_path"`
}

// CacheConfig configures OCR result caching
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// OutputConfig configures report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose"`
	IncludeFooter bool `yaml:"include_footer"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		OCR: OCRConfig{
			Order: []string{"paddle", "vision", "tesseract"},
			Thresholds: map[string]float64{
				"paddle":    0.6,
				"vision":    0.0, // Vision API reports no confidence; any result short-circuits
				"tesseract": 0.4,
			},
			EngineTimeout: 30 * time.Second,
			PaddleURL:     "http://localhost:8868",
			VisionModel:   "gpt-4o-mini",
			TesseractBin:  "tesseract",
		},
		Extract: ExtractConfig{
			MinMentionLen: 3,
			Timeout:       30 * time.Second,
			RatePerSecond: 2,
			RateBurst:     5,
		},
		Data: DataConfig{
			MappingPath:      "data/drug_mapping.json",
			InteractionsPath: "data/interactions.csv",
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".rxscan-cache",
			MemoryTTL: 1 * time.Hour,
			DiskTTL:   24 * time.Hour,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
