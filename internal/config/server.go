// Package config provides configuration management for the Cor1 server.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment represents the deployment environment.
type Environment string

const (
	// EnvDevelopment is the default local development environment.
	EnvDevelopment Environment = "development"
	// EnvStaging is the staging/pre-production environment.
	EnvStaging Environment = "staging"
	// EnvProduction is the production environment.
	EnvProduction Environment = "production"
)

const (
	defaultListenAddr        = ":8080"
	defaultSessionMaxAge     = 86400
	defaultRateLimitRequests = 100
	defaultRateLimitPeriod   = time.Minute
)

// S3Config configures the optional offsite mirror for backup workbooks.
type S3Config struct {
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	UseSSL          bool   `yaml:"use_ssl"`
}

// ServerConfig holds server-level configuration.
type ServerConfig struct {
	Environment       Environment
	DatabaseURL       string
	SessionSecret     string
	SessionMaxAge     int // session lifetime in seconds (default: 86400)
	ListenAddr        string
	CORSOrigins       []string
	RateLimitRequests int64
	RateLimitPeriod   time.Duration
	RedisURL          string
	Location          *time.Location
	BackupS3          S3Config
}

// fileConfig is the YAML form of ServerConfig.
type fileConfig struct {
	Environment   string   `yaml:"env"`
	DatabaseURL   string   `yaml:"database_url"`
	SessionSecret string   `yaml:"session_secret"`
	SessionMaxAge int      `yaml:"session_max_age"`
	ListenAddr    string   `yaml:"listen_addr"`
	CORSOrigins   []string `yaml:"cors_origins"`
	RateLimit     struct {
		Requests int64  `yaml:"requests"`
		Period   string `yaml:"period"`
	} `yaml:"rate_limit"`
	RedisURL string   `yaml:"redis_url"`
	Timezone string   `yaml:"timezone"`
	BackupS3 S3Config `yaml:"backup_s3"`
}

// IsProduction reports whether the server runs in production.
func (c ServerConfig) IsProduction() bool {
	return c.Environment == EnvProduction
}

// Validate checks that the settings required to start the server are present.
func (c ServerConfig) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if len(c.SessionSecret) < 32 {
		errs = append(errs, errors.New("SESSION_SECRET must be at least 32 bytes"))
	}
	if c.RateLimitRequests < 1 {
		errs = append(errs, errors.New("RATE_LIMIT_REQUESTS must be positive"))
	}
	return errors.Join(errs...)
}

// LoadServerConfig reads server configuration from the YAML file named by
// CONFIG_FILE, if set, and then from environment variables. Environment
// variables win over file values.
func LoadServerConfig() (ServerConfig, error) {
	cfg := ServerConfig{
		Environment:       EnvDevelopment,
		SessionMaxAge:     defaultSessionMaxAge,
		ListenAddr:        defaultListenAddr,
		RateLimitRequests: defaultRateLimitRequests,
		RateLimitPeriod:   defaultRateLimitPeriod,
		Location:          time.Local,
	}
	timezone := ""

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		fc, err := loadFile(path)
		if err != nil {
			return ServerConfig{}, err
		}
		if err := cfg.applyFile(fc); err != nil {
			return ServerConfig{}, err
		}
		timezone = fc.Timezone
	}

	cfg.Environment = Environment(getEnv("ENV", string(cfg.Environment)))
	switch cfg.Environment {
	case EnvDevelopment, EnvStaging, EnvProduction:
		// valid
	default:
		cfg.Environment = EnvDevelopment
	}

	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.SessionSecret = getEnv("SESSION_SECRET", cfg.SessionSecret)
	cfg.SessionMaxAge = getEnvInt("SESSION_MAX_AGE", cfg.SessionMaxAge)
	if cfg.SessionMaxAge < 0 {
		cfg.SessionMaxAge = defaultSessionMaxAge
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.ListenAddr = ":" + port
	}
	cfg.ListenAddr = getEnv("LISTEN_ADDR", cfg.ListenAddr)

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = splitList(origins)
	}

	cfg.RateLimitRequests = int64(getEnvInt("RATE_LIMIT_REQUESTS", int(cfg.RateLimitRequests)))
	cfg.RateLimitPeriod = getEnvDuration("RATE_LIMIT_PERIOD", cfg.RateLimitPeriod)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)

	timezone = getEnv("TZ_LOCATION", timezone)
	if timezone != "" {
		loc, err := time.LoadLocation(timezone)
		if err != nil {
			return ServerConfig{}, fmt.Errorf("load time zone %q: %w", timezone, err)
		}
		cfg.Location = loc
	}

	s3 := &cfg.BackupS3
	s3.Endpoint = getEnv("BACKUP_S3_ENDPOINT", s3.Endpoint)
	s3.Region = getEnv("BACKUP_S3_REGION", s3.Region)
	s3.Bucket = getEnv("BACKUP_S3_BUCKET", s3.Bucket)
	s3.Prefix = getEnv("BACKUP_S3_PREFIX", s3.Prefix)
	s3.AccessKeyID = getEnv("BACKUP_S3_ACCESS_KEY_ID", s3.AccessKeyID)
	s3.SecretAccessKey = getEnv("BACKUP_S3_SECRET_ACCESS_KEY", s3.SecretAccessKey)
	s3.UseSSL = getEnvBool("BACKUP_S3_USE_SSL", s3.UseSSL)

	return cfg, nil
}

// loadFile reads and parses a YAML configuration file.
func loadFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return &fc, nil
}

// applyFile overlays the non-empty values of fc onto c.
func (c *ServerConfig) applyFile(fc *fileConfig) error {
	if fc.Environment != "" {
		c.Environment = Environment(fc.Environment)
	}
	if fc.DatabaseURL != "" {
		c.DatabaseURL = fc.DatabaseURL
	}
	if fc.SessionSecret != "" {
		c.SessionSecret = fc.SessionSecret
	}
	if fc.SessionMaxAge != 0 {
		c.SessionMaxAge = fc.SessionMaxAge
	}
	if fc.ListenAddr != "" {
		c.ListenAddr = fc.ListenAddr
	}
	if len(fc.CORSOrigins) > 0 {
		c.CORSOrigins = fc.CORSOrigins
	}
	if fc.RateLimit.Requests != 0 {
		c.RateLimitRequests = fc.RateLimit.Requests
	}
	if fc.RateLimit.Period != "" {
		d, err := time.ParseDuration(fc.RateLimit.Period)
		if err != nil {
			return fmt.Errorf("parse rate_limit.period: %w", err)
		}
		c.RateLimitPeriod = d
	}
	if fc.RedisURL != "" {
		c.RedisURL = fc.RedisURL
	}
	c.BackupS3 = fc.BackupS3
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnv reads a string from an environment variable, returning the default if unset.
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvBool reads a boolean from an environment variable, returning the default if unset or invalid.
func getEnvBool(key string, defaultVal bool) bool {
	val := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch val {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultVal
	}
}

// getEnvInt reads an integer from an environment variable, returning the default if unset or invalid.
func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

// getEnvDuration reads a duration such as "30s" from an environment variable,
// returning the default if unset or invalid.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}
