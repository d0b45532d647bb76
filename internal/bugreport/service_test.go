package bugreport

import (
	"context"
	"errors"
	"strings"
	"testing"
	"text/template"

	"go.uber.org/goleak"
	"go.uber.org/zap"

	"bugfinder/internal/config"
	"bugfinder/internal/llm"
	"bugfinder/internal/models"
	"bugfinder/internal/prompts"
)

type mockProvider struct {
	generateContentFn func(ctx context.Context, prompt, requestID string) (*models.GenerationResponse, error)
	prompts           []string
}

func (m *mockProvider) GenerateContent(ctx context.Context, prompt, requestID string) (*models.GenerationResponse, error) {
	m.prompts = append(m.prompts, prompt)
	if m.generateContentFn == nil {
		return &models.GenerationResponse{Content: "explanation"}, nil
	}
	return m.generateContentFn(ctx, prompt, requestID)
}

func (m *mockProvider) GetProviderName() string { return "mock" }

type failingPromptManager struct{}

func (failingPromptManager) BuildPrompt(string, string, interface{}) (string, error) {
	return "", errors.New("boom")
}

func (failingPromptManager) GetTemplates() map[string]map[string]*template.Template {
	return nil
}

const analysisJSON = `{"bug_type":"Logical Bug","description":"Returns True for odd numbers instead of even.","suggestion":"Use n % 2 == 0 instead."}`

// replies with analysisJSON to the analysis prompt and prose to anything else
func replyByPrompt(analysis string) func(context.Context, string, string) (*models.GenerationResponse, error) {
	return func(_ context.Context, prompt, _ string) (*models.GenerationResponse, error) {
		if strings.Contains(prompt, "Respond only in JSON format.") {
			return &models.GenerationResponse{Content: analysis}, nil
		}
		return &models.GenerationResponse{Content: "It returns True for odd numbers."}, nil
	}
}

func newTestService(t *testing.T, provider llm.Provider, cfg *config.Config) *Service {
	t.Helper()
	pm, err := prompts.NewPromptManager()
	if err != nil {
		t.Fatalf("NewPromptManager error: %v", err)
	}
	return NewService(provider, pm, cfg, zap.NewNop())
}

func TestGetBugReportSuccess(t *testing.T) {
	defer goleak.VerifyNone(t)

	provider := &mockProvider{generateContentFn: replyByPrompt(analysisJSON)}
	svc := newTestService(t, provider, &config.Config{})

	report, err := svc.GetBugReport(context.Background(), "python", "def is_even(n): return n % 2 == 1", models.ModeDeveloperFriendly)
	if err != nil {
		t.Fatalf("GetBugReport returned error: %v", err)
	}

	if report.Language != "python" || report.BugType != "Logical Bug" {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.Suggestion == nil || *report.Suggestion != "Use n % 2 == 0 instead." {
		t.Fatalf("unexpected suggestion: %v", report.Suggestion)
	}

	if len(provider.prompts) != 2 {
		t.Fatalf("expected explanation and analysis calls, got %d", len(provider.prompts))
	}
	if !strings.HasPrefix(provider.prompts[0], "Explain in a technical and concise manner") {
		t.Fatalf("expected explanation prompt first, got %q", provider.prompts[0])
	}
	if !strings.Contains(provider.prompts[1], "Respond only in JSON format.") {
		t.Fatalf("expected analysis prompt second, got %q", provider.prompts[1])
	}
}

func TestGetBugReportCasualTone(t *testing.T) {
	provider := &mockProvider{generateContentFn: replyByPrompt(analysisJSON)}
	svc := newTestService(t, provider, &config.Config{})

	if _, err := svc.GetBugReport(context.Background(), "python", "x = 1", models.ModeCasual); err != nil {
		t.Fatalf("GetBugReport returned error: %v", err)
	}
	if !strings.HasPrefix(provider.prompts[0], "Explain simply in a friendly tone") {
		t.Fatalf("expected casual tone, got %q", provider.prompts[0])
	}
}

func TestGetBugReportSkipExplanation(t *testing.T) {
	provider := &mockProvider{generateContentFn: replyByPrompt(analysisJSON)}
	svc := newTestService(t, provider, &config.Config{SkipExplanationCall: true})

	if _, err := svc.GetBugReport(context.Background(), "python", "x = 1", models.ModeCasual); err != nil {
		t.Fatalf("GetBugReport returned error: %v", err)
	}
	if len(provider.prompts) != 1 {
		t.Fatalf("expected only the analysis call, got %d", len(provider.prompts))
	}
}

func TestGetBugReportFallback(t *testing.T) {
	provider := &mockProvider{generateContentFn: replyByPrompt("Sorry, I cannot produce JSON today.")}
	svc := newTestService(t, provider, &config.Config{})

	report, err := svc.GetBugReport(context.Background(), "Python", "x = 1", models.ModeDeveloperFriendly)
	if err != nil {
		t.Fatalf("parse failures must not surface as errors, got %v", err)
	}
	if report.BugType != "Unknown" || report.Description != FallbackDescription {
		t.Fatalf("expected fallback report, got %+v", report)
	}
	if report.Language != "Python" {
		t.Fatalf("expected language attached as given, got %s", report.Language)
	}
}

func TestGetBugReportEmptyAnalysisReplyFallsBack(t *testing.T) {
	blocked := &llm.ProviderError{Provider: "gemini", Code: llm.ErrCodeEmptyResponse, Message: "Empty response generated, blocked: SAFETY"}
	provider := &mockProvider{generateContentFn: func(_ context.Context, prompt, _ string) (*models.GenerationResponse, error) {
		if strings.Contains(prompt, "Respond only in JSON format.") {
			return nil, blocked
		}
		return &models.GenerationResponse{Content: "explanation"}, nil
	}}
	svc := newTestService(t, provider, &config.Config{})

	report, err := svc.GetBugReport(context.Background(), "python", "x = 1", models.ModeDeveloperFriendly)
	if err != nil {
		t.Fatalf("an empty analysis reply must not surface as an error, got %v", err)
	}
	if report.BugType != "Unknown" || report.Description != FallbackDescription || report.Language != "python" {
		t.Fatalf("expected fallback report, got %+v", report)
	}
}

func TestGetBugReportEmptyExplanationReplyIsAnError(t *testing.T) {
	blocked := &llm.ProviderError{Provider: "gemini", Code: llm.ErrCodeEmptyResponse, Message: "Empty response generated"}
	provider := &mockProvider{generateContentFn: func(context.Context, string, string) (*models.GenerationResponse, error) {
		return nil, blocked
	}}
	svc := newTestService(t, provider, &config.Config{})

	if _, err := svc.GetBugReport(context.Background(), "python", "x = 1", models.ModeDeveloperFriendly); err != blocked {
		t.Fatalf("expected explanation failure to be returned, got %v", err)
	}
}

func TestGetBugReportProviderErrorPropagates(t *testing.T) {
	provErr := &llm.ProviderError{Provider: "gemini", Code: llm.ErrCodeRateLimit, Message: "quota exceeded"}

	t.Run("explanation call", func(t *testing.T) {
		provider := &mockProvider{generateContentFn: func(context.Context, string, string) (*models.GenerationResponse, error) {
			return nil, provErr
		}}
		svc := newTestService(t, provider, &config.Config{})

		_, err := svc.GetBugReport(context.Background(), "python", "x = 1", models.ModeDeveloperFriendly)
		if err != provErr {
			t.Fatalf("expected provider error unchanged, got %v", err)
		}
		if len(provider.prompts) != 1 {
			t.Fatalf("expected analysis call to be skipped after failure, got %d calls", len(provider.prompts))
		}
	})

	t.Run("analysis call", func(t *testing.T) {
		provider := &mockProvider{generateContentFn: func(_ context.Context, prompt, _ string) (*models.GenerationResponse, error) {
			if strings.Contains(prompt, "Respond only in JSON format.") {
				return nil, provErr
			}
			return &models.GenerationResponse{Content: "ok"}, nil
		}}
		svc := newTestService(t, provider, &config.Config{})

		_, err := svc.GetBugReport(context.Background(), "python", "x = 1", models.ModeDeveloperFriendly)
		if err != provErr {
			t.Fatalf("expected provider error unchanged, got %v", err)
		}
		if err.Error() != "gemini error: quota exceeded" {
			t.Fatalf("unexpected message: %s", err.Error())
		}
	})
}

func TestGetBugReportPromptError(t *testing.T) {
	provider := &mockProvider{}
	svc := NewService(provider, failingPromptManager{}, &config.Config{}, zap.NewNop())

	if _, err := svc.GetBugReport(context.Background(), "python", "x = 1", models.ModeDeveloperFriendly); err == nil {
		t.Fatal("expected prompt build error")
	}
	if len(provider.prompts) != 0 {
		t.Fatal("provider must not be called when the prompt cannot be built")
	}
}
