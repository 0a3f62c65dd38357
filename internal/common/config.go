package common

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	OCR      OCRConfig
	Parser   ParserConfig
	Search   SearchConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver           string
	DSN              string
	SQLitePath       string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	GRPCAddr string
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Tesseract   string
	Language    string
	PSM         int
	TessdataDir string
}

// ParserConfig selects the pairing strategy. "auto" probes the layout.
type ParserConfig struct {
	Strategy string
}

// SearchConfig tunes the ranked synonym search.
type SearchConfig struct {
	MinQueryLength      int
	Limit               int
	SimilarityThreshold float64
}

// LoadConfig loads configuration from environment variables.
// A .env file in the working directory is applied first when present.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env file", "error", err)
	}

	return &Config{
		Database: DatabaseConfig{
			Driver:           strings.ToLower(getEnv("STORE_DRIVER", DriverMemory)),
			DSN:              getEnv("DB_URL", ""),
			SQLitePath:       getEnv("SQLITE_PATH", "file:menuscan.db?_pragma=foreign_keys(1)"),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 2),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Server: ServerConfig{
			GRPCAddr: getEnv("GRPC_ADDR", ":8080"),
		},
		OCR: OCRConfig{
			Tesseract:   getEnv("TESSERACT_BIN", "tesseract"),
			Language:    getEnv("TESSERACT_LANG", "eng"),
			PSM:         getEnvAsInt("TESSERACT_PSM", 6),
			TessdataDir: getEnv("TESSDATA_PREFIX", ""),
		},
		Parser: ParserConfig{
			Strategy: strings.ToLower(getEnv("PARSE_STRATEGY", "auto")),
		},
		Search: SearchConfig{
			MinQueryLength:      getEnvAsInt("SEARCH_MIN_QUERY", 3),
			Limit:               getEnvAsInt("SEARCH_LIMIT", 3),
			SimilarityThreshold: getEnvAsFloat64("SEARCH_SIMILARITY_THRESHOLD", 0.3),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return NewAppError(CodeConfig, "SQLITE_PATH is required for the sqlite driver", ErrInvalidInput)
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			return NewAppError(CodeConfig, "DB_URL is required for the postgres driver", ErrInvalidInput)
		}
	default:
		return NewAppError(CodeConfig, "STORE_DRIVER must be one of memory, sqlite, postgres", ErrInvalidInput)
	}
	if c.Server.GRPCAddr == "" {
		return NewAppError(CodeConfig, "GRPC_ADDR is required", ErrInvalidInput)
	}
	switch c.Parser.Strategy {
	case "auto", "adjacency", "table", "column":
	default:
		return NewAppError(CodeConfig, "PARSE_STRATEGY must be one of auto, adjacency, table, column", ErrInvalidInput)
	}
	if c.Search.MinQueryLength < 1 || c.Search.Limit < 1 {
		return NewAppError(CodeConfig, "SEARCH_MIN_QUERY and SEARCH_LIMIT must be positive", ErrInvalidInput)
	}
	if c.Search.SimilarityThreshold <= 0 || c.Search.SimilarityThreshold > 1 {
		return NewAppError(CodeConfig, "SEARCH_SIMILARITY_THRESHOLD must be in (0,1]", ErrInvalidInput)
	}
	return nil
}
