package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	BackendDir  = "dir"
	BackendHTTP = "http"
	BackendS3   = "s3"
)

type Config struct {
	Port string

	// Auth
	EditorPIN string

	// Route file storage
	StoreBackend string
	StoreDir     string
	StoreWatch   bool
	StoreURL     string
	StoreToken   string
	StorePrefix  string

	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3UseSSL    bool

	// Resolver
	CacheSize      int
	MaxImportDepth int
	FetchRetries   int

	// Station names; empty uses the built-in table
	StationsFile string

	// Export worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first; variables already set win.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port: envOr("PORT", "8090"),

		EditorPIN: os.Getenv("EDITOR_PIN"),

		StoreBackend: envOr("STORE_BACKEND", BackendDir),
		StoreDir:     envOr("STORE_DIR", "strecken"),
		StoreWatch:   envBool("STORE_WATCH", true),
		StoreURL:     os.Getenv("STORE_URL"),
		StoreToken:   os.Getenv("STORE_TOKEN"),
		StorePrefix:  envOr("STORE_PREFIX", "strecken/"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOr("S3_REGION", "us-east-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    envOr("S3_BUCKET", "signaleditor"),
		S3UseSSL:    envBool("S3_USE_SSL", true),

		CacheSize:      envInt("CACHE_SIZE", 256),
		MaxImportDepth: envInt("MAX_IMPORT_DEPTH", 8),
		FetchRetries:   envInt("FETCH_RETRIES", 3),

		StationsFile: os.Getenv("STATIONS_FILE"),

		WorkerCount:  envInt("WORKER_COUNT", 2),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 50),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 5242880), // 5MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),
	}

	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 256
	}
	if cfg.MaxImportDepth <= 0 {
		cfg.MaxImportDepth = 8
	}
	if cfg.FetchRetries <= 0 {
		cfg.FetchRetries = 3
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 50
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 5242880
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.EditorPIN == "" {
		return fmt.Errorf("EDITOR_PIN is required")
	}
	switch c.StoreBackend {
	case BackendDir:
		if c.StoreDir == "" {
			return fmt.Errorf("STORE_DIR is required for the dir backend")
		}
	case BackendHTTP:
		if c.StoreURL == "" {
			return fmt.Errorf("STORE_URL is required for the http backend")
		}
	case BackendS3:
		if c.S3Endpoint == "" || c.S3AccessKey == "" || c.S3SecretKey == "" {
			return fmt.Errorf("S3_ENDPOINT, S3_ACCESS_KEY and S3_SECRET_KEY are required for the s3 backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
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
