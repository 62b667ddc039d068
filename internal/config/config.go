package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Save backend identifiers accepted in SAVE_BACKEND
const (
	SaveBackendFile     = "file"
	SaveBackendPostgres = "postgres"
)

// Config holds the application configuration
type Config struct {
	Port           int
	LogLevel       string
	LogFormat      string
	LogDir         string
	Environment    string
	ServiceName    string
	Version        string
	APIKey         string // API key for authentication
	TrustedProxies []string

	// Database (only used when SaveBackend is "postgres")
	DBUser            string
	DBPassword        string
	DBHost            string
	DBPort            string
	DBName            string
	DBMaxConns        int
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration

	// Engine data paths
	BalanceDir     string
	MilestonesPath string
	DeadLetterPath string

	// Persistence
	SaveBackend string
	SaveDir     string

	// Sessions and scheduling
	SessionTTL       time.Duration
	SessionMax       int
	AutosaveInterval time.Duration
	SaveWorkers      int

	// Offline progress tuning
	OfflineEfficiency float64
	OfflineMinSeconds int
	OfflineCapHours   float64

	// Notifications
	DiscordWebhookURL string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		LogDir:      getEnv("LOG_DIR", "logs"),
		Environment: getEnv("ENVIRONMENT", "dev"),
		ServiceName: getEnv("SERVICE_NAME", "gamedev-clicker"),
		Version:     getEnv("VERSION", "dev"),
		APIKey:      getEnv("API_KEY", ""),

		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBName:            getEnv("DB_NAME", "gamedevclicker"),
		DBMaxConns:        getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),
		DBMaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", DefaultDBMaxConnIdleTime),
		DBMaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", DefaultDBMaxConnLifetime),

		BalanceDir:     getEnv("BALANCE_DIR", ConfigPathBalanceDir),
		MilestonesPath: getEnv("MILESTONES_PATH", ConfigPathMilestones),
		DeadLetterPath: getEnv("DEAD_LETTER_PATH", "logs/dead_letter.jsonl"),

		SaveBackend: getEnv("SAVE_BACKEND", SaveBackendFile),
		SaveDir:     getEnv("SAVE_DIR", "saves"),

		DiscordWebhookURL: getEnv("DISCORD_WEBHOOK_URL", ""),
	}

	if raw := getEnv("TRUSTED_PROXIES", ""); raw != "" {
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				cfg.TrustedProxies = append(cfg.TrustedProxies, p)
			}
		}
	}

	port, err := getEnvInt("PORT", 8080)
	if err != nil {
		return nil, err
	}
	cfg.Port = port

	if cfg.SessionTTL, err = getEnvDuration("SESSION_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SessionMax, err = getEnvInt("SESSION_MAX", 1024); err != nil {
		return nil, err
	}
	if cfg.AutosaveInterval, err = getEnvDuration("AUTOSAVE_INTERVAL", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.SaveWorkers, err = getEnvInt("SAVE_WORKERS", 4); err != nil {
		return nil, err
	}

	if cfg.OfflineEfficiency, err = getEnvFloat("OFFLINE_EFFICIENCY", 0.5); err != nil {
		return nil, err
	}
	if cfg.OfflineMinSeconds, err = getEnvInt("OFFLINE_MIN_SECONDS", 60); err != nil {
		return nil, err
	}
	if cfg.OfflineCapHours, err = getEnvFloat("OFFLINE_CAP_HOURS", 24); err != nil {
		return nil, err
	}

	if cfg.SaveBackend != SaveBackendFile && cfg.SaveBackend != SaveBackendPostgres {
		return nil, fmt.Errorf("invalid SAVE_BACKEND value: %q", cfg.SaveBackend)
	}

	// Offline efficiency is a fraction of real time, never a bonus
	if cfg.OfflineEfficiency <= 0 || cfg.OfflineEfficiency >= 1 {
		return nil, fmt.Errorf("OFFLINE_EFFICIENCY must be in (0, 1), got %v", cfg.OfflineEfficiency)
	}

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

// getEnvAsInt parses an integer tuning knob, falling back to the default on
// any parse failure. Used for values where a bad override should not prevent
// startup.
func getEnvAsInt(key string, defaultValue int) int {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return v
}

// getEnvAsDuration parses a duration tuning knob, falling back to the default
// on any parse failure.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return defaultValue
	}
	return v
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

// UsesPostgres reports whether any component needs a database pool.
func (c *Config) UsesPostgres() bool {
	return c.SaveBackend == SaveBackendPostgres
}
