package routers

import (
	"bugfinder/internal/handlers"
	"bugfinder/internal/middleware"
	"bugfinder/internal/models"
	"bugfinder/internal/ratelimit"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BugRoutes mounts the analysis endpoints. Only /find-bug is rate limited,
// since it is the one that reaches the model.
func BugRoutes(router *chi.Mux, bugHandler *handlers.BugHandler, limiter ratelimit.Limiter, logger *zap.Logger) {
	router.Get("/", bugHandler.RootHandler)
	router.Get("/sample-cases", bugHandler.SampleCasesHandler)
	router.With(
		middleware.RateLimit(limiter, logger),
		middleware.ValidateRequest[*models.CodeSnippet](),
	).Post("/find-bug", bugHandler.FindBugHandler)
}
