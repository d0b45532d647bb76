package handlers

import (
	"context"
	"text/template"

	"bugfinder/internal/models"
)

type mockProvider struct {
	generateContentFn func(ctx context.Context, prompt string, requestID string) (*models.GenerationResponse, error)
	getProviderNameFn func() string
}

func (m *mockProvider) GenerateContent(ctx context.Context, prompt string, requestID string) (*models.GenerationResponse, error) {
	if m.generateContentFn == nil {
		return &models.GenerationResponse{}, nil
	}
	return m.generateContentFn(ctx, prompt, requestID)
}

func (m *mockProvider) GetProviderName() string {
	if m.getProviderNameFn == nil {
		return "mock"
	}
	return m.getProviderNameFn()
}

type mockPromptManager struct {
	buildPromptFn  func(name, variant string, data interface{}) (string, error)
	getTemplatesFn func() map[string]map[string]*template.Template
}

func (m *mockPromptManager) BuildPrompt(name, variant string, data interface{}) (string, error) {
	if m.buildPromptFn == nil {
		return "mock prompt", nil
	}
	return m.buildPromptFn(name, variant, data)
}

func (m *mockPromptManager) GetTemplates() map[string]map[string]*template.Template {
	if m.getTemplatesFn == nil {
		return map[string]map[string]*template.Template{
			"analysis": {
				"default": template.Must(template.New("test").Parse("test")),
			},
		}
	}
	return m.getTemplatesFn()
}

type mockReporter struct {
	getBugReportFn func(ctx context.Context, language, code string, mode models.Mode) (*models.BugReport, error)
	calls          int
	lastMode       models.Mode
}

func (m *mockReporter) GetBugReport(ctx context.Context, language, code string, mode models.Mode) (*models.BugReport, error) {
	m.calls++
	m.lastMode = mode
	if m.getBugReportFn == nil {
		return models.BugReportFields{BugType: "Logical Bug", Description: "d"}.WithLanguage(language), nil
	}
	return m.getBugReportFn(ctx, language, code, mode)
}
