package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// app config, built once at startup and passed down by pointer
type Config struct {
	Port     string
	Provider string
	LogLevel string

	GeminiAPIKey string
	GeminiModel  string

	// MockMode bypasses the model and returns a canned report.
	MockMode bool
	// SkipExplanationCall drops the explanation request whose text is never returned.
	SkipExplanationCall bool

	RateLimitPerMinute int
	RedisAddr          string
	// TrustProxy takes the client address from X-Forwarded-For and friends.
	// Only safe behind a proxy that overwrites those headers.
	TrustProxy bool

	AllowedOrigins []string
}

// loads configuration from an optional .env file and the environment
func LoadConfig() (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	config := &Config{
		Port:                getEnvOrDefault("PORT", "8080"),
		Provider:            getEnvOrDefault("AI_PROVIDER", "gemini"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		GeminiAPIKey:        strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:         getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		MockMode:            getEnvBool("MOCK_MODE", false),
		SkipExplanationCall: getEnvBool("SKIP_EXPLANATION_CALL", false),
		RedisAddr:           strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		TrustProxy:          getEnvBool("TRUST_PROXY", false),
		AllowedOrigins:      splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
	}

	limit, err := getEnvInt("RATE_LIMIT_PER_MINUTE", 10)
	if err != nil {
		return nil, err
	}
	config.RateLimitPerMinute = limit

	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Provider != "gemini" {
		return errors.New("unsupported AI provider: " + config.Provider + ". Currently supported: gemini")
	}
	if config.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative, got %d", config.RateLimitPerMinute)
	}
	// a missing GEMINI_API_KEY is allowed; model calls fail when actually made
	return nil
}

// HasAPIKey reports whether the model client can authenticate.
func (c *Config) HasAPIKey() bool {
	return c.GeminiAPIKey != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return strings.EqualFold(value, "true") || value == "1"
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return i, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
