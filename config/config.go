package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config holds all process configuration. It is built once in main and
// passed by reference; nothing mutates it after Load returns.
type Config struct {
	Port        string
	Environment string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret         string
	AdminPasswordHash string

	SpotProviderURL    string
	BasicInfoRefreshAt string // HH:MM, local to the scheduler's timezone

	DefaultPageSize int
	MaxPageSize     int
}

// Load reads configuration from the environment, with .env support for
// local development.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "stock_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:         getEnv("JWT_SECRET", ""),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),

		SpotProviderURL:    getEnv("SPOT_PROVIDER_URL", ""),
		BasicInfoRefreshAt: getEnv("BASIC_INFO_REFRESH_AT", "17:00"),

		DefaultPageSize: getEnvInt("DEFAULT_PAGE_SIZE", 20),
		MaxPageSize:     getEnvInt("MAX_PAGE_SIZE", 100),
	}

	if cfg.Environment == "production" && cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}

	return cfg, nil
}

// OpenDB opens the postgres connection and verifies it with a ping.
func (c *Config) OpenDB() (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)

	logLevel := logger.Info
	if c.Environment == "production" {
		logLevel = logger.Error
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	log.Printf("Database connection verified: host=%s dbname=%s", maskHost(c.DBHost), c.DBName)
	return db, nil
}

// maskHost masks host for logging, preserving domain structure
func maskHost(host string) string {
	if len(host) <= 3 {
		return "***"
	}
	if len(host) <= 15 {
		return host[:3] + "***"
	}
	return host[:8] + "***" + host[len(host)-10:]
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid value for %s: %q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}
