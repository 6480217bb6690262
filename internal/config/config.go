package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dgallion1/examstyle/internal/content"
	"github.com/dgallion1/examstyle/internal/styling"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Logging: debug, info, warn or error.
	LogLevel string

	// Worker pool
	WorkerCount         int
	MaxQueueSize        int
	MaxConcurrentFields int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL      time.Duration
	StatsWindow time.Duration

	// PDF
	PDFFallbackPdftotext bool

	// Styling
	MaxStyleRanges   int
	MaxStyledPercent float64
	MergeOverlaps    bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey:   os.Getenv("EXAMSTYLE_API_KEY"),
		LogLevel: envOr("LOG_LEVEL", "info"),

		WorkerCount:         envInt("WORKER_COUNT", 4),
		MaxQueueSize:        envInt("MAX_QUEUE_SIZE", 100),
		MaxConcurrentFields: envInt("MAX_CONCURRENT_FIELDS", 8),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10<<20), // 10MB

		JobTTL:      envDuration("JOB_TTL", 1*time.Hour),
		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		MaxStyleRanges:   envInt("MAX_STYLE_RANGES", styling.DefaultBalanceLimits.MaxRanges),
		MaxStyledPercent: envFloat("MAX_STYLED_PERCENT", styling.DefaultBalanceLimits.MaxStyledPercent),
		MergeOverlaps:    envBool("MERGE_OVERLAPS", false),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxConcurrentFields <= 0 {
		cfg.MaxConcurrentFields = 8
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 << 20
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("EXAMSTYLE_API_KEY is required")
	}
	if c.MaxStyleRanges <= 0 {
		return fmt.Errorf("MAX_STYLE_RANGES must be positive, got %d", c.MaxStyleRanges)
	}
	if c.MaxStyledPercent <= 0 || c.MaxStyledPercent > 100 {
		return fmt.Errorf("MAX_STYLED_PERCENT must be in (0, 100], got %g", c.MaxStyledPercent)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", c.LogLevel)
	}
	return nil
}

// BuildConfig returns the session builder settings.
func (c Config) BuildConfig() content.BuildConfig {
	return content.BuildConfig{
		MaxConcurrent: c.MaxConcurrentFields,
		MergeOverlaps: c.MergeOverlaps,
		Balance: styling.BalanceLimits{
			MaxRanges:        c.MaxStyleRanges,
			MaxStyledPercent: c.MaxStyledPercent,
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
