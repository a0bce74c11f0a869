package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Security
	JWTSecret string
	JWTExpiry time.Duration

	// Blob storage (S3-compatible: MinIO, AWS S3, Cloudflare R2, etc.)
	S3Region        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string // Optional: for S3-compatible services
	PreviewBucket   string
	OriginalBucket  string
	LegacyBucket    string // Pre-migration bucket name, tried once on NotFound
	SignedURLExpiry time.Duration

	// Rate limiting
	RedisAddr         string // Optional: empty selects the in-process counter
	RedisPassword     string
	ShareRateLimit    int
	ShareRateWindow   time.Duration
	DefaultRateLimit  int
	DefaultRateWindow time.Duration

	// External collaborators
	AliasDirectoryURL   string
	CatalogServiceURL   string
	CollaboratorTimeout time.Duration

	// Observability (optional)
	SentryDSN string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		AppName: envString("APP_NAME", "gallerygate"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		Port:    envString("PORT", "8090"),

		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/gallerygate.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		JWTSecret: envRequired("JWT_SECRET"),
		JWTExpiry: envDuration("JWT_EXPIRY", 12*time.Hour),

		S3Region:        envRequired("S3_REGION"),
		S3AccessKey:     envRequired("S3_ACCESS_KEY"),
		S3SecretKey:     envRequired("S3_SECRET_KEY"),
		S3Endpoint:      envString("S3_ENDPOINT", ""), // Optional: for non-AWS providers
		PreviewBucket:   envRequired("PREVIEW_BUCKET"),
		OriginalBucket:  envRequired("ORIGINAL_BUCKET"),
		LegacyBucket:    envString("LEGACY_BUCKET", ""),
		SignedURLExpiry: envDuration("SIGNED_URL_EXPIRY", 15*time.Minute),

		RedisAddr:         envString("REDIS_ADDR", ""),
		RedisPassword:     envString("REDIS_PASSWORD", ""),
		ShareRateLimit:    envInt("SHARE_RATE_LIMIT", 60),
		ShareRateWindow:   envDuration("SHARE_RATE_WINDOW", time.Minute),
		DefaultRateLimit:  envInt("DEFAULT_RATE_LIMIT", 240),
		DefaultRateWindow: envDuration("DEFAULT_RATE_WINDOW", time.Minute),

		AliasDirectoryURL:   envRequired("ALIAS_DIRECTORY_URL"),
		CatalogServiceURL:   envString("CATALOG_SERVICE_URL", ""),
		CollaboratorTimeout: envDuration("COLLABORATOR_TIMEOUT", 5*time.Second),

		SentryDSN: envString("SENTRY_DSN", ""),
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures services that may fall back to local modes in
// development are configured for production deployments.
func validateProduction(cfg *Config) {
	if cfg.RedisAddr == "" {
		slog.Error("production deployment requires REDIS_ADDR for distributed rate limiting",
			"hint", "set APP_ENV=development to use the in-process counter")
		os.Exit(1)
	}
	if cfg.LegacyBucket == "" {
		slog.Warn("LEGACY_BUCKET not set, bucket-rename fallback disabled")
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
