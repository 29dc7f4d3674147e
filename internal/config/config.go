package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"attendly/internal/core/domain"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode        string
	Port           string
	AllowedOrigins string
	Database       DatabaseConfig
	JWT            JWTConfig
	Auth           AuthConfig
	Seed           SeedConfig
}

// GetAllowedOrigins returns the CORS origin allowlist for prod mode
func (c *Config) GetAllowedOrigins() string {
	return c.AllowedOrigins
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// JWTConfig holds per-platform JWT configuration. Client and admin tokens
// are signed with separate secrets so one can never be replayed against
// the other surface.
type JWTConfig struct {
	ClientSecret string
	AdminSecret  string
	Expiry       time.Duration
}

// SecretFor returns the signing secret for a platform.
func (c JWTConfig) SecretFor(p domain.Platform) string {
	if p == domain.PlatformAdmin {
		return c.AdminSecret
	}
	return c.ClientSecret
}

// AuthConfig holds login lockout configuration
type AuthConfig struct {
	MaxLoginRetryLimit int
	LoginReactiveTime  time.Duration
}

// SeedConfig holds bootstrap account credentials
type SeedConfig struct {
	AdminUsername string
	AdminPassword string
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Get APP_MODE (default to "dev") - trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode:        appMode,
		Port:           getEnv("PORT", "3000"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
		Database:       loadDatabaseConfig(appMode),
		JWT:            loadJWTConfig(appMode),
		Auth:           loadAuthConfig(),
		Seed: SeedConfig{
			AdminUsername: getEnv("SEED_ADMIN_USERNAME", "admin"),
			AdminPassword: getEnv("SEED_ADMIN_PASSWORD", "Admin@123"),
		},
	}

	// Set global config
	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	return DatabaseConfig{
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "attendly"),
	}
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	expiryMins, _ := strconv.Atoi(getEnv("ACCESS_TOKEN_MINUTES", "720"))

	return JWTConfig{
		ClientSecret: getEnv(prefix+"CLIENT_JWT_SECRET", "client_default_secret"),
		AdminSecret:  getEnv(prefix+"ADMIN_JWT_SECRET", "admin_default_secret"),
		Expiry:       time.Duration(expiryMins) * time.Minute,
	}
}

// loadAuthConfig loads login lockout config
func loadAuthConfig() AuthConfig {
	retries, _ := strconv.Atoi(getEnv("MAX_LOGIN_RETRY_LIMIT", "5"))
	reactiveMins, _ := strconv.Atoi(getEnv("LOGIN_REACTIVE_MINUTES", "15"))

	return AuthConfig{
		MaxLoginRetryLimit: retries,
		LoginReactiveTime:  time.Duration(reactiveMins) * time.Minute,
	}
}

// IsDev reports whether the app runs in dev mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd reports whether the app runs in prod mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// getEnv gets an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
