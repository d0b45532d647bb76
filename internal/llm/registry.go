package llm

import (
	"fmt"

	"bugfinder/internal/config"
)

// defines a function that creates a new provider instance from the app config
type ProviderFactory func(cfg *config.Config) (Provider, error)

// global registry of available providers
var providers = make(map[string]ProviderFactory)

// registers a provider factory with the given name
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// creates a new provider instance based on cfg.Provider
func NewProvider(cfg *config.Config) (Provider, error) {
	factory, exists := providers[cfg.Provider]
	if !exists {
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
