package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Storage
	DBPath    string
	UploadDir string

	// Upload limits
	MaxUploadBytes int64

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Chunking
	MinChunkLength int
	MaxChunkLength int

	// Retry policy for failed extractions
	MaxRetries int
	RetryDelay time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8080"),

		DBPath:    envOr("DB_PATH", "data/lawchunk.db"),
		UploadDir: envOr("UPLOAD_DIR", "data/uploads"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MinChunkLength: envInt("MIN_CHUNK_LENGTH", 50),
		MaxChunkLength: envInt("MAX_CHUNK_LENGTH", 2000),

		MaxRetries: envInt("MAX_RETRIES", 3),
		RetryDelay: envDuration("RETRY_DELAY", time.Minute),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.MinChunkLength <= 0 {
		cfg.MinChunkLength = 50
	}
	if cfg.MaxChunkLength <= 0 {
		cfg.MaxChunkLength = 2000
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Minute
	}

	return cfg
}

func (c Config) Validate() error {
	if c.MinChunkLength >= c.MaxChunkLength {
		return fmt.Errorf("MIN_CHUNK_LENGTH (%d) must be below MAX_CHUNK_LENGTH (%d)", c.MinChunkLength, c.MaxChunkLength)
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH is required")
	}
	if c.UploadDir == "" {
		return fmt.Errorf("UPLOAD_DIR is required")
	}
	return nil
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
