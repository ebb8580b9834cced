package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	RedisAddr          string
	HeatmapCacheTTLSec int

	ListingURL        string
	RateLimitMs       int
	NavTimeoutSec     int
	ListingTimeoutSec int
	MaxRetries        int
	DefaultCity       string

	CSVOutputPath string
	ServerPort    string
	MetricsPort   string
	ChromeBin     string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "tnbynight"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "tnbynight123"),
		PostgresDB:       getEnv("POSTGRES_DB", "events_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisAddr:          getEnv("REDIS_ADDR", ""),
		HeatmapCacheTTLSec: getEnvInt("HEATMAP_CACHE_TTL_SEC", 60),

		ListingURL:        getEnv("LISTING_URL", "https://teskerti.tn/category/spectacle"),
		RateLimitMs:       getEnvInt("RATE_LIMIT_MS", 400),
		NavTimeoutSec:     getEnvInt("NAV_TIMEOUT_SEC", 15),
		ListingTimeoutSec: getEnvInt("LISTING_TIMEOUT_SEC", 60),
		MaxRetries:        getEnvInt("MAX_RETRIES", 3),
		DefaultCity:       getEnv("DEFAULT_CITY", "Tunis"),

		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", "events.csv"),
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		MetricsPort:   getEnv("METRICS_PORT", "9091"),
		ChromeBin:     getEnv("CHROME_BIN", ""),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
