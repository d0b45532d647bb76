package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"bugfinder/internal/metrics"
	"bugfinder/internal/middleware"
	"bugfinder/internal/models"
	"bugfinder/internal/samples"
	"bugfinder/internal/utils"
)

const welcomeMessage = "Welcome to the BugFinder API! Use /find-bug to POST code for analysis."

// BugReporter produces a report for a validated snippet.
type BugReporter interface {
	GetBugReport(ctx context.Context, language, code string, mode models.Mode) (*models.BugReport, error)
}

type BugHandler struct {
	reporter BugReporter
	catalog  *samples.Catalog
	mockMode bool
	logger   *zap.Logger
}

func NewBugHandler(reporter BugReporter, catalog *samples.Catalog, mockMode bool, logger *zap.Logger) *BugHandler {
	return &BugHandler{
		reporter: reporter,
		catalog:  catalog,
		mockMode: mockMode,
		logger:   logger,
	}
}

func (h *BugHandler) FindBugHandler(w http.ResponseWriter, r *http.Request) {
	// body was decoded and validated by middleware
	snippet := middleware.GetValidatedRequest[*models.CodeSnippet](r)

	mode, ok := parseModeParam(w, r)
	if !ok {
		return
	}

	requestID := utils.RequestID(r.Context())

	if h.mockMode {
		metrics.IncReport(metrics.SourceMock)
		utils.JSON(w, http.StatusOK, mockedReport(snippet.Language))
		return
	}

	start := time.Now()
	report, err := h.reporter.GetBugReport(r.Context(), snippet.Language, snippet.Code, mode)
	if err != nil {
		h.logger.Error("Bug report generation failed",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.String("mode", string(mode)))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:   models.ErrCodeInternal,
			Detail: err.Error(),
		})
		return
	}

	h.logger.Info("Bug report generated",
		zap.String("request_id", requestID),
		zap.String("mode", string(mode)),
		zap.String("bug_type", report.BugType),
		zap.Int64("processing_time_ms", time.Since(start).Milliseconds()))

	utils.JSON(w, http.StatusOK, report)
}

func (h *BugHandler) SampleCasesHandler(w http.ResponseWriter, r *http.Request) {
	mode, ok := parseModeParam(w, r)
	if !ok {
		return
	}
	utils.JSON(w, http.StatusOK, h.catalog.Render(mode))
}

func (h *BugHandler) RootHandler(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]string{"message": welcomeMessage})
}

// parseModeParam reads ?mode=, writing a 400 and returning false when it is not a known mode.
func parseModeParam(w http.ResponseWriter, r *http.Request) (models.Mode, bool) {
	raw := r.URL.Query().Get("mode")
	mode, ok := models.ParseMode(raw)
	if !ok {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:   models.ErrCodeInvalidMode,
			Detail: "Invalid mode '" + raw + "'. Expected one of: " + strings.Join(models.ValidModesList(), ", ") + ".",
		})
		return "", false
	}
	return mode, true
}

func mockedReport(language string) models.BugReport {
	return models.BugReport{
		Language:    language,
		BugType:     models.BugTypeMockedBug,
		Description: "This is a mocked bug description.",
		Suggestion:  models.StringPtr("This is a mocked suggestion."),
	}
}
