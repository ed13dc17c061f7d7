package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"
)

// clearEnv unsets every variable LoadServerConfig reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "ENV", "DATABASE_URL", "SESSION_SECRET", "SESSION_MAX_AGE",
		"LISTEN_ADDR", "PORT", "CORS_ORIGINS", "RATE_LIMIT_REQUESTS", "RATE_LIMIT_PERIOD",
		"REDIS_URL", "TZ_LOCATION", "BACKUP_S3_ENDPOINT", "BACKUP_S3_REGION",
		"BACKUP_S3_BUCKET", "BACKUP_S3_PREFIX", "BACKUP_S3_ACCESS_KEY_ID",
		"BACKUP_S3_SECRET_ACCESS_KEY", "BACKUP_S3_USE_SSL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadServerConfig_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadServerConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Environment != EnvDevelopment {
		t.Errorf("expected %q, got %q", EnvDevelopment, cfg.Environment)
	}
	if cfg.SessionMaxAge != 86400 {
		t.Errorf("expected session max age 86400, got %d", cfg.SessionMaxAge)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("expected :8080, got %s", cfg.ListenAddr)
	}
	if cfg.RateLimitRequests != 100 || cfg.RateLimitPeriod != time.Minute {
		t.Errorf("unexpected rate limit %d/%s", cfg.RateLimitRequests, cfg.RateLimitPeriod)
	}
	if cfg.Location != time.Local {
		t.Errorf("expected local time zone, got %s", cfg.Location)
	}
}

func TestLoadServerConfig_InvalidEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "invalid")
	cfg, err := LoadServerConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Environment != EnvDevelopment {
		t.Errorf("expected %q for invalid ENV, got %q", EnvDevelopment, cfg.Environment)
	}
}

func TestLoadServerConfig_ValidEnvironments(t *testing.T) {
	tests := []struct {
		env  string
		want Environment
	}{
		{"development", EnvDevelopment},
		{"staging", EnvStaging},
		{"production", EnvProduction},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("ENV", tt.env)
			cfg, err := LoadServerConfig()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Environment != tt.want {
				t.Errorf("expected %q, got %q", tt.want, cfg.Environment)
			}
		})
	}
}

func TestLoadServerConfig_Env(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/cor1")
	t.Setenv("PORT", "9000")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("RATE_LIMIT_REQUESTS", "20")
	t.Setenv("RATE_LIMIT_PERIOD", "30s")
	t.Setenv("SESSION_MAX_AGE", "-5")
	t.Setenv("TZ_LOCATION", "Asia/Jakarta")
	t.Setenv("BACKUP_S3_BUCKET", "backups")
	t.Setenv("BACKUP_S3_USE_SSL", "yes")

	cfg, err := LoadServerConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ListenAddr != ":9000" {
		t.Errorf("expected :9000, got %s", cfg.ListenAddr)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Errorf("unexpected origins %v", cfg.CORSOrigins)
	}
	if cfg.RateLimitRequests != 20 || cfg.RateLimitPeriod != 30*time.Second {
		t.Errorf("unexpected rate limit %d/%s", cfg.RateLimitRequests, cfg.RateLimitPeriod)
	}
	if cfg.SessionMaxAge != 86400 {
		t.Errorf("expected negative max age to fall back, got %d", cfg.SessionMaxAge)
	}
	if cfg.Location.String() != "Asia/Jakarta" {
		t.Errorf("unexpected location %s", cfg.Location)
	}
	if cfg.BackupS3.Bucket != "backups" || !cfg.BackupS3.UseSSL {
		t.Errorf("unexpected s3 config %+v", cfg.BackupS3)
	}

	t.Run("listen addr wins over port", func(t *testing.T) {
		t.Setenv("LISTEN_ADDR", "127.0.0.1:8081")
		cfg, err := LoadServerConfig()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.ListenAddr != "127.0.0.1:8081" {
			t.Errorf("expected 127.0.0.1:8081, got %s", cfg.ListenAddr)
		}
	})
}

func TestLoadServerConfig_InvalidTimezone(t *testing.T) {
	clearEnv(t)
	t.Setenv("TZ_LOCATION", "Nowhere/Special")
	if _, err := LoadServerConfig(); err == nil {
		t.Error("expected error for unknown time zone")
	}
}

func TestLoadServerConfig_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "cor1.yaml")
	data := `
env: staging
database_url: postgres://file/cor1
session_secret: file-secret-that-is-at-least-32-bytes
listen_addr: ":7000"
cors_origins: ["https://file.example"]
rate_limit:
  requests: 5
  period: 10s
timezone: UTC
backup_s3:
  bucket: file-bucket
  prefix: nightly
`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("DATABASE_URL", "postgres://env/cor1")

	cfg, err := LoadServerConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Environment != EnvStaging {
		t.Errorf("expected staging, got %s", cfg.Environment)
	}
	if cfg.DatabaseURL != "postgres://env/cor1" {
		t.Errorf("expected environment to win, got %s", cfg.DatabaseURL)
	}
	if cfg.ListenAddr != ":7000" {
		t.Errorf("expected :7000, got %s", cfg.ListenAddr)
	}
	if cfg.RateLimitRequests != 5 || cfg.RateLimitPeriod != 10*time.Second {
		t.Errorf("unexpected rate limit %d/%s", cfg.RateLimitRequests, cfg.RateLimitPeriod)
	}
	if cfg.Location != time.UTC {
		t.Errorf("expected UTC, got %s", cfg.Location)
	}
	if cfg.BackupS3.Bucket != "file-bucket" || cfg.BackupS3.Prefix != "nightly" {
		t.Errorf("unexpected s3 config %+v", cfg.BackupS3)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestLoadServerConfig_BadFile(t *testing.T) {
	clearEnv(t)

	t.Run("missing", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
		if _, err := LoadServerConfig(); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("malformed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("rate_limit: [unclosed"), 0600); err != nil {
			t.Fatal(err)
		}
		t.Setenv("CONFIG_FILE", path)
		if _, err := LoadServerConfig(); err == nil {
			t.Error("expected error")
		}
	})
}

func TestServerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServerConfig
		wantErr bool
	}{
		{"valid", ServerConfig{DatabaseURL: "postgres://x", SessionSecret: "0123456789abcdef0123456789abcdef", RateLimitRequests: 1}, false},
		{"no database", ServerConfig{SessionSecret: "0123456789abcdef0123456789abcdef", RateLimitRequests: 1}, true},
		{"short secret", ServerConfig{DatabaseURL: "postgres://x", SessionSecret: "short", RateLimitRequests: 1}, true},
		{"no rate limit", ServerConfig{DatabaseURL: "postgres://x", SessionSecret: "0123456789abcdef0123456789abcdef"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
