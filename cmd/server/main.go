package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bugfinder/internal/bugreport"
	"bugfinder/internal/config"
	"bugfinder/internal/handlers"
	"bugfinder/internal/llm"
	_ "bugfinder/internal/llm/gemini"
	"bugfinder/internal/metrics"
	"bugfinder/internal/prompts"
	"bugfinder/internal/ratelimit"
	"bugfinder/internal/routers"
	"bugfinder/internal/samples"
	"bugfinder/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func registerRoutes(router *chi.Mux, bugHandler *handlers.BugHandler, healthHandler *handlers.HealthHandler, limiter ratelimit.Limiter, logger *zap.Logger) {
	routers.HealthRoutes(router, healthHandler)
	routers.BugRoutes(router, bugHandler, limiter, logger)
}

// newRouter builds the middleware chain and mounts every route.
// Forwarded-for headers are only honoured with TrustProxy, since any client
// can set them and the rate limiter keys on the resulting address.
func newRouter(cfg *config.Config, bugHandler *handlers.BugHandler, healthHandler *handlers.HealthHandler, limiter ratelimit.Limiter, logger *zap.Logger) *chi.Mux {
	router := chi.NewRouter()

	// cors middleware
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization"},
	}))

	router.Use(middleware.RequestID)
	if cfg.TrustProxy {
		router.Use(middleware.RealIP)
	}
	router.Use(middleware.Logger, middleware.Recoverer, middleware.Timeout(60*time.Second))
	router.Use(metrics.Middleware)

	registerRoutes(router, bugHandler, healthHandler, limiter, logger)
	return router
}

// newLimiter picks the limiter backend. Redis is used when configured and
// reachable, otherwise counters stay in process. A zero limit disables it.
func newLimiter(cfg *config.Config, logger *zap.Logger) ratelimit.Limiter {
	if cfg.RateLimitPerMinute == 0 {
		logger.Info("Rate limiting disabled")
		return nil
	}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis unreachable, falling back to in-memory rate limiter",
				zap.String("addr", cfg.RedisAddr), zap.Error(err))
			_ = rdb.Close()
		} else {
			logger.Info("Using Redis rate limiter",
				zap.String("addr", cfg.RedisAddr),
				zap.Int("per_minute", cfg.RateLimitPerMinute))
			return ratelimit.NewRedisLimiter(rdb, cfg.RateLimitPerMinute)
		}
	}

	logger.Info("Using in-memory rate limiter", zap.Int("per_minute", cfg.RateLimitPerMinute))
	return ratelimit.NewMemoryLimiter(cfg.RateLimitPerMinute)
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		bootstrap, _ := zap.NewProduction()
		bootstrap.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger, err := utils.NewLogger(cfg.LogLevel)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()
	utils.Logger = logger

	logger.Info("Configuration loaded",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.GeminiModel),
		zap.Bool("mock_mode", cfg.MockMode),
		zap.Bool("skip_explanation_call", cfg.SkipExplanationCall),
		zap.Bool("trust_proxy", cfg.TrustProxy))

	// prompt manager
	promptManager, err := prompts.NewPromptManager()
	if err != nil {
		logger.Fatal("Failed to initialize prompt manager", zap.Error(err))
	}

	catalog, err := samples.Load()
	if err != nil {
		logger.Fatal("Failed to load sample catalog", zap.Error(err))
	}

	// AI provider based on configuration
	aiProvider, err := llm.NewProvider(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize AI provider", zap.Error(err))
	}

	service := bugreport.NewService(aiProvider, promptManager, cfg, logger)
	bugHandler := handlers.NewBugHandler(service, catalog, cfg.MockMode, logger)
	healthHandler := handlers.NewHealthHandler(aiProvider, promptManager, catalog, cfg)
	limiter := newLimiter(cfg, logger)

	router := newRouter(cfg, bugHandler, healthHandler, limiter, logger)

	serverAddr := ":" + cfg.Port

	// model calls run twice per request, so the write timeout covers the router timeout
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 65 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// starting server in a goroutine
	go func() {
		logger.Info("BugFinder service starting", zap.String("addr", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// wait for interrupt signal to gracefully shutdown the server
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("BugFinder service shutting down...")

	// graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("BugFinder service exited")
}
