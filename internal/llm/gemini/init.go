package gemini

import (
	"bugfinder/internal/config"
	"bugfinder/internal/llm"
)

// Register Gemini provider on package import
func init() {
	llm.RegisterProvider("gemini", func(cfg *config.Config) (llm.Provider, error) {
		return NewClient(NewConfig(cfg))
	})
}
