package handlers

import (
	"net/http"

	"bugfinder/internal/config"
	"bugfinder/internal/llm"
	"bugfinder/internal/prompts"
	"bugfinder/internal/samples"
	"bugfinder/internal/utils"
)

type ReadinessCheck struct {
	Status  string `json:"status"` // "ok" | "failed"
	Message string `json:"message,omitempty"`
}

type ReadinessResponse struct {
	Status  string                    `json:"status"`  // "ready" | "not_ready"
	Service string                    `json:"service"` // Service name
	Checks  map[string]ReadinessCheck `json:"checks"`  // Individual check results
}

type HealthHandler struct {
	provider      llm.Provider
	promptManager prompts.PromptProvider
	catalog       *samples.Catalog
	config        *config.Config
}

func NewHealthHandler(provider llm.Provider, promptManager prompts.PromptProvider, catalog *samples.Catalog, cfg *config.Config) *HealthHandler {
	return &HealthHandler{
		provider:      provider,
		promptManager: promptManager,
		catalog:       catalog,
		config:        cfg,
	}
}

func (handler *HealthHandler) HealthzHandler(writer http.ResponseWriter, request *http.Request) {
	utils.JSON(writer, http.StatusOK, map[string]string{"status": "ok"})
}

func (handler *HealthHandler) ReadyzHandler(writer http.ResponseWriter, request *http.Request) {
	checks := make(map[string]ReadinessCheck)
	allChecksPass := true

	fail := func(name, message string) {
		checks[name] = ReadinessCheck{Status: "failed", Message: message}
		allChecksPass = false
	}
	ok := func(name string) {
		checks[name] = ReadinessCheck{Status: "ok"}
	}

	if handler.provider == nil {
		fail("provider", "AI provider not initialized")
	} else {
		ok("provider")
	}

	// verify prompt manager has templates loaded
	switch {
	case handler.promptManager == nil:
		fail("prompt_manager", "Prompt manager not initialized")
	case len(handler.promptManager.GetTemplates()) == 0:
		fail("prompt_manager", "No prompt templates loaded")
	default:
		ok("prompt_manager")
	}

	if handler.catalog == nil || handler.catalog.Len() == 0 {
		fail("sample_catalog", "Sample catalog not loaded")
	} else {
		ok("sample_catalog")
	}

	if handler.config == nil {
		fail("configuration", "Configuration not loaded")
	} else {
		ok("configuration")
	}

	response := ReadinessResponse{
		Service: "bugfinder",
		Checks:  checks,
	}

	if allChecksPass {
		response.Status = "ready"
		utils.JSON(writer, http.StatusOK, response)
	} else {
		response.Status = "not_ready"
		utils.JSON(writer, http.StatusServiceUnavailable, response)
	}
}
