// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes server timeouts,
// logging, the SQLite store, plan artifact storage, rate limiting, and
// observability settings.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Artifact backends accepted by ARTIFACT_BACKEND.
const (
	ArtifactBackendNone  = "none"
	ArtifactBackendLocal = "local"
	ArtifactBackendS3    = "s3"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "training-planner")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// DBConfig holds the SQLite store settings.
type DBConfig struct {
	Path         string        // DB_PATH
	MaxOpenConns int           // DB_MAX_OPEN_CONNS; 1 keeps a single writer connection
	BusyTimeout  time.Duration // DB_BUSY_TIMEOUT; bounded lock wait before SQLITE_BUSY
	Reset        bool          // DB_RESET; drop and recreate all tables on startup
	Tracing      bool          // DB_TRACING; gorm OpenTelemetry plugin
}

// S3Config holds the S3-compatible object storage settings used when
// ARTIFACT_BACKEND=s3.
type S3Config struct {
	Endpoint        string // S3_ENDPOINT; empty uses AWS default resolution
	Region          string // S3_REGION
	Bucket          string // S3_BUCKET
	AccessKeyID     string // S3_ACCESS_KEY_ID
	SecretAccessKey string // S3_SECRET_ACCESS_KEY
	Prefix          string // S3_PREFIX; optional key prefix
}

// ArtifactConfig selects where exported plan files are written.
type ArtifactConfig struct {
	Backend string // none|local|s3
	Dir     string // ARTIFACT_DIR for the local backend
	S3      S3Config
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	ShutdownTimeout   time.Duration // graceful shutdown budget
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// Storage
	DB        DBConfig
	Artifacts ArtifactConfig

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Idempotency
	IdempotencyTTL time.Duration // how long a given Idempotency-Key is valid

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:   getdur("SHUTDOWN_TIMEOUT", 10*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		DB: DBConfig{
			Path:         getenv("DB_PATH", "training_data.db"),
			MaxOpenConns: getint("DB_MAX_OPEN_CONNS", 1),
			BusyTimeout:  getdur("DB_BUSY_TIMEOUT", 5*time.Second),
			Reset:        getbool("DB_RESET", false),
			Tracing:      getbool("DB_TRACING", false),
		},
		Artifacts: ArtifactConfig{
			Backend: strings.ToLower(getenv("ARTIFACT_BACKEND", ArtifactBackendLocal)),
			Dir:     getenv("ARTIFACT_DIR", "plans"),
			S3: S3Config{
				Endpoint:        getenv("S3_ENDPOINT", ""),
				Region:          getenv("S3_REGION", "us-east-1"),
				Bucket:          getenv("S3_BUCKET", ""),
				AccessKeyID:     getenv("S3_ACCESS_KEY_ID", ""),
				SecretAccessKey: getenv("S3_SECRET_ACCESS_KEY", ""),
				Prefix:          strings.Trim(getenv("S3_PREFIX", ""), "/"),
			},
		},

		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		IdempotencyTTL: getdur("IDEMPOTENCY_TTL", 24*time.Hour),

		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "training-planner"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.ShutdownTimeout <= 0 {
		return cfg, errors.New("SHUTDOWN_TIMEOUT must be > 0")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.DB.Path) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if cfg.DB.MaxOpenConns < 1 {
		return cfg, errors.New("DB_MAX_OPEN_CONNS must be >= 1")
	}
	if cfg.DB.BusyTimeout < 0 {
		return cfg, errors.New("DB_BUSY_TIMEOUT must be >= 0")
	}
	switch cfg.Artifacts.Backend {
	case ArtifactBackendNone:
	case ArtifactBackendLocal:
		if strings.TrimSpace(cfg.Artifacts.Dir) == "" {
			return cfg, errors.New("ARTIFACT_DIR must not be empty for the local backend")
		}
	case ArtifactBackendS3:
		if strings.TrimSpace(cfg.Artifacts.S3.Bucket) == "" {
			return cfg, errors.New("S3_BUCKET must be set for the s3 backend")
		}
	default:
		return cfg, errors.New("ARTIFACT_BACKEND must be one of: none, local, s3")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.IdempotencyTTL <= 0 {
		return cfg, errors.New("IDEMPOTENCY_TTL must be > 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
