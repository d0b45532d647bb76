package routers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"bugfinder/internal/config"
	"bugfinder/internal/handlers"
	"bugfinder/internal/models"
	"bugfinder/internal/samples"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type stubReporter struct{}

func (stubReporter) GetBugReport(_ context.Context, language, _ string, _ models.Mode) (*models.BugReport, error) {
	return models.BugReportFields{BugType: "Logical Bug", Description: "d"}.WithLanguage(language), nil
}

// denies everything after the first request
type onceLimiter struct{ used bool }

func (l *onceLimiter) Allow(context.Context, string) (bool, error) {
	if l.used {
		return false, nil
	}
	l.used = true
	return true, nil
}

func newTestBugHandler(t *testing.T) *handlers.BugHandler {
	t.Helper()
	catalog, err := samples.Load()
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}
	return handlers.NewBugHandler(stubReporter{}, catalog, false, zap.NewNop())
}

func TestHealthRoutes(t *testing.T) {
	router := chi.NewRouter()
	handler := handlers.NewHealthHandler(nil, nil, nil, &config.Config{Provider: "gemini"})

	HealthRoutes(router, handler)

	for _, path := range []string{"/healthz", "/metrics"} {
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("%s route not registered correctly, got status %d", path, rec.Code)
		}
	}
}

func TestBugRoutesRegistersEndpoints(t *testing.T) {
	router := chi.NewRouter()
	BugRoutes(router, newTestBugHandler(t), nil, zap.NewNop())

	paths := map[string]bool{}
	if err := chi.Walk(router, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		paths[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("failed walking routes: %v", err)
	}

	expected := []string{
		"GET /",
		"GET /sample-cases",
		"POST /find-bug",
	}

	for _, route := range expected {
		if !paths[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func TestFindBugIsRateLimited(t *testing.T) {
	router := chi.NewRouter()
	BugRoutes(router, newTestBugHandler(t), &onceLimiter{}, zap.NewNop())

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/find-bug", bytes.NewBufferString(`{"language":"python","code":"x = 1"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send(); code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", code)
	}
	if code := send(); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on second request, got %d", code)
	}

	// sample cases never hit the limiter
	req := httptest.NewRequest(http.MethodGet, "/sample-cases", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected sample cases to be unlimited, got %d", rec.Code)
	}
}
