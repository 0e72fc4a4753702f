package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is the placeholder signing secret. It is NOT safe for
// production; startup logs a warning whenever it is in effect.
const DefaultJWTSecret = "change-me"

// Config holds all configuration values for the application
type Config struct {
	Port           string
	LogLevel       string
	Environment    string
	AllowedOrigins []string

	JWTSecret    string
	JWTExpiresIn time.Duration

	FirebaseCredentialsPath string
	FirebaseCredentialsJSON string

	SuggestionServiceURL string
	SuggestionTimeout    time.Duration

	OpenAIAPIKey string
	OpenAIModel  string

	RedisURL string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Environment:    getEnv("ENVIRONMENT", "production"),
		AllowedOrigins: parseOrigins(getEnv("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")),

		JWTSecret:    getEnv("JWT_SECRET", DefaultJWTSecret),
		JWTExpiresIn: time.Duration(getIntEnv("JWT_EXPIRES_IN", 3600)) * time.Second,

		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		FirebaseCredentialsJSON: getEnv("FIREBASE_CREDENTIALS", ""),

		SuggestionServiceURL: getEnv("SUGGESTION_SERVICE_URL", "http://localhost:8000/api/generate"),
		SuggestionTimeout:    time.Duration(getIntEnv("SUGGESTION_TIMEOUT_SECONDS", 15)) * time.Second,

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o"),

		RedisURL: getEnv("REDIS_URL", ""),
	}, nil
}

// UsingDefaultJWTSecret reports whether the unsafe placeholder secret is in
// effect.
func (c *Config) UsingDefaultJWTSecret() bool {
	return c.JWTSecret == DefaultJWTSecret
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getIntEnv gets an integer environment variable with a fallback value
func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

// parseOrigins parses comma-separated origins into a slice
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
