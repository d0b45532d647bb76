package gemini

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"bugfinder/internal/llm"
	"bugfinder/internal/models"
	"bugfinder/internal/utils"
)

const providerName = "gemini"

// Client represents a Gemini LLM client
type Client struct {
	client *genai.Client
	config *Config
	logger *zap.Logger
}

// NewClient builds a client. Without an API key no genai client is created
// and every GenerateContent call fails with an invalid_api_key error.
func NewClient(config *Config) (*Client, error) {
	return newClient(config, nil)
}

func newClient(config *Config, httpClient *http.Client) (*Client, error) {
	c := &Client{
		config: config,
		logger: utils.GetLogger().With(zap.String("provider", providerName)),
	}
	if config.APIKey == "" {
		c.logger.Warn("GEMINI_API_KEY is not set, model calls will fail")
		return c, nil
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     config.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if config.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{
			BaseURL:    config.BaseURL,
			APIVersion: config.APIVersion,
		}
	}

	client, err := genai.NewClient(context.Background(), clientConfig)
	if err != nil {
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     llm.ErrCodeAPIKey,
			Message:  "Failed to create Gemini client",
			Err:      err,
		}
	}
	c.client = client
	return c, nil
}

// sends a single prompt and returns the text of the first candidate
func (c *Client) GenerateContent(ctx context.Context, prompt string, requestID string) (*models.GenerationResponse, error) {
	if c.client == nil {
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     llm.ErrCodeAPIKey,
			Message:  "GEMINI_API_KEY is not configured",
		}
	}

	startTime := time.Now()
	result, err := c.client.Models.GenerateContent(ctx, c.config.Model, genai.Text(prompt), nil)
	if err != nil {
		c.logger.Warn("generate content failed",
			zap.String("request_id", requestID),
			zap.String("model", c.config.Model),
			zap.Error(err))
		return nil, classifyError(err)
	}

	text := responseText(result)
	if text == "" {
		message := "Empty response generated"
		if result != nil && result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
			message += ", blocked: " + string(result.PromptFeedback.BlockReason)
		}
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     llm.ErrCodeEmptyResponse,
			Message:  message,
		}
	}

	processingTime := time.Since(startTime).Milliseconds()
	c.logger.Debug("generate content succeeded",
		zap.String("request_id", requestID),
		zap.Int64("processing_time_ms", processingTime))

	return &models.GenerationResponse{
		Content: text,
		Metadata: models.GenerationMetadata{
			ProcessingTime: int(processingTime),
			Provider:       providerName,
			Model:          c.config.Model,
			ModelVersion:   result.ModelVersion,
		},
	}, nil
}

func (c *Client) GetProviderName() string {
	return providerName
}

// concatenates the answer text of the first candidate; thought parts are skipped
func responseText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 {
		return ""
	}
	candidate := result.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}

func classifyError(err error) *llm.ProviderError {
	provErr := &llm.ProviderError{
		Provider: providerName,
		Code:     llm.ErrCodeServiceDown,
		Message:  "Failed to generate content",
		Err:      err,
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		provErr.Code = llm.ErrCodeTimeout
		provErr.Message = "Request to Gemini timed out"
	case isRateLimitError(err):
		provErr.Code = llm.ErrCodeRateLimit
		provErr.Message = "Gemini quota or rate limit exceeded"
	case isAuthError(err):
		provErr.Code = llm.ErrCodeAPIKey
		provErr.Message = "Gemini rejected the API key"
	}
	return provErr
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "quota")
}

func isAuthError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "api key not valid") ||
		strings.Contains(msg, "permission_denied") ||
		strings.Contains(msg, "unauthenticated")
}
