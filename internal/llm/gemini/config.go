package gemini

import (
	"bugfinder/internal/config"
)

const defaultModel = "gemini-2.5-flash"

// holds Gemini-specific configuration
type Config struct {
	APIKey string
	Model  string

	// BaseURL and APIVersion override the public endpoint (tests, proxies).
	BaseURL    string
	APIVersion string
}

// NewConfig derives the Gemini settings from the app config. An empty API key
// is accepted here; the client reports it on the first call instead.
func NewConfig(cfg *config.Config) *Config {
	model := cfg.GeminiModel
	if model == "" {
		model = defaultModel
	}

	return &Config{
		APIKey: cfg.GeminiAPIKey,
		Model:  model,
	}
}
