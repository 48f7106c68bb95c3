package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORE_BACKEND", "CACHE_SIZE", "JOB_TTL", "STORE_WATCH", "WORKER_COUNT"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.Port)
	}
	if cfg.StoreBackend != BackendDir || cfg.StoreDir != "strecken" || !cfg.StoreWatch {
		t.Errorf("unexpected store defaults %+v", cfg)
	}
	if cfg.CacheSize != 256 || cfg.MaxImportDepth != 8 || cfg.FetchRetries != 3 {
		t.Errorf("unexpected resolver defaults %+v", cfg)
	}
	if cfg.JobTTL != time.Hour || cfg.WorkerCount != 2 {
		t.Errorf("unexpected pipeline defaults %+v", cfg)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "http")
	t.Setenv("STORE_URL", "http://files.local")
	t.Setenv("CACHE_SIZE", "-4")
	t.Setenv("JOB_TTL", "15m")
	t.Setenv("STORE_WATCH", "false")
	t.Setenv("WORKER_COUNT", "abc")

	cfg := Load()
	if cfg.StoreBackend != BackendHTTP || cfg.StoreURL != "http://files.local" {
		t.Errorf("unexpected store config %+v", cfg)
	}
	if cfg.CacheSize != 256 {
		t.Errorf("expected invalid cache size to fall back, got %d", cfg.CacheSize)
	}
	if cfg.JobTTL != 15*time.Minute {
		t.Errorf("expected 15m, got %s", cfg.JobTTL)
	}
	if cfg.StoreWatch {
		t.Error("expected watch disabled")
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("expected unparsable worker count to fall back, got %d", cfg.WorkerCount)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"missing pin", Config{StoreBackend: BackendDir, StoreDir: "x"}, true},
		{"dir ok", Config{EditorPIN: "1234", StoreBackend: BackendDir, StoreDir: "x"}, false},
		{"http without url", Config{EditorPIN: "1234", StoreBackend: BackendHTTP}, true},
		{"http ok", Config{EditorPIN: "1234", StoreBackend: BackendHTTP, StoreURL: "http://x"}, false},
		{"s3 without keys", Config{EditorPIN: "1234", StoreBackend: BackendS3, S3Endpoint: "minio:9000"}, true},
		{"s3 ok", Config{EditorPIN: "1234", StoreBackend: BackendS3, S3Endpoint: "minio:9000", S3AccessKey: "a", S3SecretKey: "b"}, false},
		{"unknown backend", Config{EditorPIN: "1234", StoreBackend: "ftp"}, true},
	}
	for _, tt := range tests {
		err := tt.cfg.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: expected error %v, got %v", tt.name, tt.wantErr, err)
		}
	}
}
