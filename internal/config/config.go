package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every externally supplied setting. It is built once at startup
// and passed down explicitly; nothing else in the codebase reads the environment.
type Config struct {
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	JWTSecret   string
	AdminSecret string

	RazorpayKeyID     string
	RazorpayKeySecret string

	Port string
}

// Load reads .env (if present) and the environment into a Config.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", ""),
		DBName:      getEnv("DB_NAME", "agrimart"),

		JWTSecret:   getEnv("JWT_SECRET", "change-me-in-production"),
		AdminSecret: getEnv("ADMIN_SECRET", ""),

		RazorpayKeyID:     getEnv("RAZORPAY_KEY_ID", "mock_key_id"),
		RazorpayKeySecret: getEnv("RAZORPAY_KEY_SECRET", ""),

		Port: getEnv("PORT", "5000"),
	}
}

// DSN returns the Postgres connection string, preferring DATABASE_URL.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}

// MockPayments reports whether the payment subsystem runs in simulation mode.
// A "mock_"-prefixed key id switches every gateway call to the mock path.
func (c *Config) MockPayments() bool {
	return strings.HasPrefix(c.RazorpayKeyID, "mock_")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
