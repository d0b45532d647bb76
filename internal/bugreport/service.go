package bugreport

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"bugfinder/internal/config"
	"bugfinder/internal/llm"
	"bugfinder/internal/metrics"
	"bugfinder/internal/models"
	"bugfinder/internal/prompts"
	"bugfinder/internal/utils"
)

// prompt kinds, used as metric and log labels
const (
	kindExplanation = "explanation"
	kindAnalysis    = "analysis"
)

// Service turns a validated snippet into a bug report using the model.
type Service struct {
	provider        llm.Provider
	promptManager   prompts.PromptProvider
	logger          *zap.Logger
	skipExplanation bool
}

func NewService(provider llm.Provider, promptManager prompts.PromptProvider, cfg *config.Config, logger *zap.Logger) *Service {
	return &Service{
		provider:        provider,
		promptManager:   promptManager,
		logger:          logger,
		skipExplanation: cfg.SkipExplanationCall,
	}
}

// GetBugReport issues the explanation call (unless disabled), then the
// analysis call, and parses the analysis reply. Provider errors are returned
// unchanged; parse failures are absorbed into the fallback record.
func (s *Service) GetBugReport(ctx context.Context, language, code string, mode models.Mode) (*models.BugReport, error) {
	requestID := utils.RequestID(ctx)
	logger := s.logger.With(zap.String("request_id", requestID), zap.String("mode", string(mode)))

	if !s.skipExplanation {
		prompt, err := prompts.BuildExplanationPrompt(s.promptManager, language, code, mode)
		if err != nil {
			return nil, fmt.Errorf("build explanation prompt: %w", err)
		}
		explanation, err := s.generate(ctx, kindExplanation, prompt, requestID)
		if err != nil {
			return nil, err
		}
		// the explanation text is not part of the report
		logger.Debug("explanation generated", zap.Int("length", len(explanation.Content)))
	}

	prompt, err := prompts.BuildAnalysisPrompt(s.promptManager, language, code)
	if err != nil {
		return nil, fmt.Errorf("build analysis prompt: %w", err)
	}
	analysis, err := s.generate(ctx, kindAnalysis, prompt, requestID)
	if err != nil {
		// a blocked or empty analysis reply is unparseable output, not a failed call
		if llm.ErrorCode(err) == llm.ErrCodeEmptyResponse {
			return s.fallback(logger, language, &ParseError{Reason: "empty model reply", Err: err}), nil
		}
		return nil, err
	}

	fields, parseErr := ParseAnalysis(analysis.Content)
	if parseErr != nil {
		return s.fallback(logger, language, parseErr), nil
	}

	logger.Info("bug report generated",
		zap.String("provider", s.provider.GetProviderName()),
		zap.String("bug_type", fields.BugType),
		zap.Int("processing_time_ms", analysis.Metadata.ProcessingTime))
	metrics.IncReport(metrics.SourceModel)
	return fields.WithLanguage(language), nil
}

func (s *Service) fallback(logger *zap.Logger, language string, parseErr error) *models.BugReport {
	logger.Warn("model reply could not be parsed, using fallback report", zap.Error(parseErr))
	metrics.IncReport(metrics.SourceFallback)
	return Fallback().WithLanguage(language)
}

func (s *Service) generate(ctx context.Context, kind, prompt, requestID string) (*models.GenerationResponse, error) {
	start := time.Now()
	resp, err := s.provider.GenerateContent(ctx, prompt, requestID)
	metrics.ObserveModelCall(kind, time.Since(start), err)
	if err != nil {
		s.logger.Error("AI provider error",
			zap.String("request_id", requestID),
			zap.String("kind", kind),
			zap.Error(err))
		return nil, err
	}
	return resp, nil
}
