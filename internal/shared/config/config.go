package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Plaid      PlaidConfig
	Encryption EncryptionConfig
	Sync       SyncConfig
	Scheduler  SchedulerConfig
	Auth       AuthConfig
	TLS        TLSConfig
	Telemetry  TelemetryConfig
	Log        LogConfig
}

type ServerConfig struct {
	Port           string
	Host           string
	AllowedOrigins []string
	AllowedHosts   []string
}

type DatabaseConfig struct {
	Driver       string
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	Path         string
	MaxOpenConns int
}

type PlaidConfig struct {
	ClientID       string
	Secret         string
	Env            string
	RedirectURI    string
	ClientName     string
	Products       []string
	CountryCodes   []string
	RequestTimeout time.Duration
	RateLimit      float64
	RateBurst      int
}

type EncryptionConfig struct {
	Key string
}

type SyncConfig struct {
	EmptyPageDelay      time.Duration
	MaxEmptyPageRetries int
	Concurrency         int
	OnLink              bool
}

type SchedulerConfig struct {
	Enabled      bool
	File         string
	WorkerCount  int
	QueueSize    int
	JobTimeout   time.Duration
	RunOnStartup bool
}

// AuthConfig enables bearer token checks on /api routes when JWTSecret is set.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type TLSConfig struct {
	Enabled      bool
	CertPath     string
	KeyPath      string
	RedirectHTTP bool
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	Environment  string
	OTLPEndpoint string
	MetricsPort  string
}

type LogConfig struct {
	Level  string
	Format string
}

var (
	validPlaidEnvs = map[string]bool{"sandbox": true, "development": true, "production": true}
	validDrivers   = map[string]bool{"postgres": true, "sqlite3": true}
)

// Load reads configuration from the environment, after merging an optional .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	dbPort, err := getIntEnv("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}
	dbMaxOpen, err := getIntEnv("DB_MAX_OPEN_CONNS", 10)
	if err != nil {
		return nil, err
	}

	plaidTimeout, err := getDurationEnv("PLAID_REQUEST_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	plaidRate, err := strconv.ParseFloat(getEnv("PLAID_RATE_LIMIT", "5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid PLAID_RATE_LIMIT: %w", err)
	}
	plaidBurst, err := getIntEnv("PLAID_RATE_BURST", 5)
	if err != nil {
		return nil, err
	}

	emptyPageDelay, err := getDurationEnv("SYNC_EMPTY_PAGE_DELAY", 2*time.Second)
	if err != nil {
		return nil, err
	}
	maxEmptyRetries, err := getIntEnv("SYNC_MAX_EMPTY_PAGE_RETRIES", 15)
	if err != nil {
		return nil, err
	}
	syncConcurrency, err := getIntEnv("SYNC_CONCURRENCY", 4)
	if err != nil {
		return nil, err
	}

	schedulerWorkers, err := getIntEnv("SCHEDULER_WORKERS", 2)
	if err != nil {
		return nil, err
	}
	schedulerQueueSize, err := getIntEnv("SCHEDULER_QUEUE_SIZE", 50)
	if err != nil {
		return nil, err
	}
	schedulerJobTimeout, err := getDurationEnv("SCHEDULER_JOB_TIMEOUT", 10*time.Minute)
	if err != nil {
		return nil, err
	}

	tokenTTL, err := getDurationEnv("AUTH_TOKEN_TTL", 30*24*time.Hour)
	if err != nil {
		return nil, err
	}

	frontendURL := getEnv("FRONTEND_URL", "http://localhost:3000")
	allowedOrigins := splitList(getEnv("ALLOWED_ORIGINS", frontendURL))

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "3001"),
			Host:           getEnv("HOST", "0.0.0.0"),
			AllowedOrigins: allowedOrigins,
			AllowedHosts:   splitList(getEnv("ALLOWED_HOSTS", "")),
		},
		Database: DatabaseConfig{
			Driver:       getEnv("DB_DRIVER", "postgres"),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         dbPort,
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			DBName:       getEnv("DB_NAME", "finance_tracker"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			Path:         getEnv("DB_PATH", "fintrack.db"),
			MaxOpenConns: dbMaxOpen,
		},
		Plaid: PlaidConfig{
			ClientID:       getEnv("PLAID_CLIENT_ID", ""),
			Secret:         getEnv("PLAID_SECRET", ""),
			Env:            strings.ToLower(getEnv("PLAID_ENV", "sandbox")),
			RedirectURI:    strings.TrimSpace(os.Getenv("PLAID_REDIRECT_URI")),
			ClientName:     getEnv("PLAID_CLIENT_NAME", "Personal Finance Tracker"),
			Products:       splitList(getEnv("PLAID_PRODUCTS", "transactions")),
			CountryCodes:   splitList(getEnv("PLAID_COUNTRY_CODES", "US")),
			RequestTimeout: plaidTimeout,
			RateLimit:      plaidRate,
			RateBurst:      plaidBurst,
		},
		Encryption: EncryptionConfig{
			Key: getEnv("ENCRYPTION_KEY", ""),
		},
		Sync: SyncConfig{
			EmptyPageDelay:      emptyPageDelay,
			MaxEmptyPageRetries: maxEmptyRetries,
			Concurrency:         syncConcurrency,
			OnLink:              getBoolEnv("SYNC_ON_LINK", true),
		},
		Scheduler: SchedulerConfig{
			Enabled:      getBoolEnv("SCHEDULER_ENABLED", false),
			File:         getEnv("SCHEDULER_FILE", ""),
			WorkerCount:  schedulerWorkers,
			QueueSize:    schedulerQueueSize,
			JobTimeout:   schedulerJobTimeout,
			RunOnStartup: getBoolEnv("SCHEDULER_RUN_ON_STARTUP", false),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("AUTH_JWT_SECRET", ""),
			TokenTTL:  tokenTTL,
		},
		TLS: TLSConfig{
			Enabled:      getBoolEnv("TLS_ENABLED", false),
			CertPath:     getEnv("TLS_CERT_PATH", ""),
			KeyPath:      getEnv("TLS_KEY_PATH", ""),
			RedirectHTTP: getBoolEnv("TLS_REDIRECT_HTTP", false),
		},
		Telemetry: TelemetryConfig{
			Enabled:      getBoolEnv("OTEL_ENABLED", false),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "fintrack-api"),
			Environment:  getEnv("OTEL_ENVIRONMENT", "development"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_ENDPOINT", "localhost:4317"),
			MetricsPort:  getEnv("METRICS_PORT", "9464"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Plaid.ClientID == "" {
		return fmt.Errorf("PLAID_CLIENT_ID is required")
	}
	if c.Plaid.Secret == "" {
		return fmt.Errorf("PLAID_SECRET is required")
	}
	if !validPlaidEnvs[c.Plaid.Env] {
		return fmt.Errorf("PLAID_ENV must be one of sandbox, development, production (got %q)", c.Plaid.Env)
	}
	if !validDrivers[c.Database.Driver] {
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite3 (got %q)", c.Database.Driver)
	}
	if c.Encryption.Key == "" {
		return fmt.Errorf("ENCRYPTION_KEY is required")
	}
	if len(c.Encryption.Key) != 32 {
		return fmt.Errorf("ENCRYPTION_KEY must be exactly 32 bytes")
	}
	if c.Sync.Concurrency < 1 {
		return fmt.Errorf("SYNC_CONCURRENCY must be at least 1")
	}
	if c.Sync.MaxEmptyPageRetries < 0 {
		return fmt.Errorf("SYNC_MAX_EMPTY_PAGE_RETRIES must not be negative")
	}

	if c.TLS.Enabled {
		if c.TLS.CertPath == "" {
			return fmt.Errorf("TLS_CERT_PATH is required when TLS_ENABLED=true")
		}
		if c.TLS.KeyPath == "" {
			return fmt.Errorf("TLS_KEY_PATH is required when TLS_ENABLED=true")
		}
	}
	return nil
}

// DSN returns the driver-specific data source name.
func (c *DatabaseConfig) DSN() string {
	if c.Driver == "sqlite3" {
		return c.Path + "?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"
	}
	return c.ConnectionString()
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}

func getIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
