package config

import (
	"fmt"
	"os"
	"strconv"

	// Load environment variables from .env files when present.
	_ "github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	OCR           OCRConfig
	Parsers       ParserConfig
	Observability ObservabilityConfig
}

type ServerConfig struct {
	Host               string
	Port               int
	RateLimitPerSecond int
	RateLimitBurst     int
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// OCRConfig points at the text-recognition sidecar. The model itself is
// external; the service only ever talks to it over HTTP.
type OCRConfig struct {
	BaseURL        string
	TimeoutSeconds int
	BeamWidth      int
}

type ParserConfig struct {
	// BanksFile is the declarative bank configuration consumed by the
	// generic parser for banks without a coded implementation.
	BanksFile string
	// DefaultBankCode is the registry fallback when a bank code has
	// neither a coded parser nor a configuration entry.
	DefaultBankCode string
}

type ObservabilityConfig struct {
	MetricsEnabled bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:               getEnv("SERVER_HOST", "localhost"),
			Port:               getEnvAsInt("SERVER_PORT", 8080),
			RateLimitPerSecond: getEnvAsInt("SERVER_RATE_LIMIT_PER_SECOND", 50),
			RateLimitBurst:     getEnvAsInt("SERVER_RATE_LIMIT_BURST", 100),
		},
		Database: DatabaseConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvAsInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", "postgres"),
			Database: getEnv("POSTGRES_DB", "bankbook"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		OCR: OCRConfig{
			BaseURL:        getEnv("OCR_BASE_URL", "http://localhost:8501"),
			TimeoutSeconds: getEnvAsInt("OCR_TIMEOUT_SECONDS", 60),
			BeamWidth:      getEnvAsInt("OCR_BEAM_WIDTH", 10),
		},
		Parsers: ParserConfig{
			BanksFile:       getEnv("BANKS_CONFIG_FILE", "configs/banks.json"),
			DefaultBankCode: getEnv("DEFAULT_BANK_CODE", "700"),
		},
		Observability: ObservabilityConfig{
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
		},
	}

	return cfg, nil
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
