package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/BradenHooton/roster/internal/auth"
	"github.com/BradenHooton/roster/internal/config"
	"github.com/BradenHooton/roster/internal/database"
	"github.com/BradenHooton/roster/internal/handlers"
	"github.com/BradenHooton/roster/internal/metrics"
	middlewareCustom "github.com/BradenHooton/roster/internal/middleware"
	"github.com/BradenHooton/roster/internal/repositories"
	"github.com/BradenHooton/roster/internal/routes"
	"github.com/BradenHooton/roster/internal/services"
	pkghttp "github.com/BradenHooton/roster/pkg/http"
	pkglogger "github.com/BradenHooton/roster/pkg/logger"
)

const tokenExpiry = 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := pkglogger.New(os.Stdout, cfg.Server.LogLevel)
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	proxies, err := pkghttp.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		logger.Error("invalid trusted proxies", slog.Any("error", err))
		os.Exit(1)
	}

	// Initialize database
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := database.NewConnection(ctx, &cfg.Database, logger)
	if err != nil {
		cancel()
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		database.SilenceMigrations(logger)
		if err := db.Migrate(ctx, "up"); err != nil {
			cancel()
			logger.Error("failed to apply migrations", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("migrations applied")
	}
	cancel()

	// Initialize repositories
	memberRepo := repositories.NewMemberRepository(db)
	teamRepo := repositories.NewTeamRepository(db)
	itemRepo := repositories.NewItemRepository(db)
	orderRepo := repositories.NewOrderRepository(db)

	m := metrics.New()
	auditLogger := pkglogger.NewAuditLogger(logger)

	// Initialize services
	memberService := services.NewMemberService(memberRepo, m, logger, auditLogger)
	teamService := services.NewTeamService(teamRepo, logger, auditLogger)
	itemService := services.NewItemService(itemRepo, logger, auditLogger)
	orderService := services.NewOrderService(orderRepo, memberRepo, itemRepo, m, logger, auditLogger)

	// Bearer tokens are optional; without a secret every request is anonymous
	var tokenManager *auth.TokenManager
	if cfg.Auth.JWTSecret != "" {
		tokenManager = auth.NewTokenManager(cfg.Auth.JWTSecret, tokenExpiry)
	} else {
		logger.Info("JWT_SECRET not set, requests are attributed to anonymous principals")
	}

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middlewareCustom.SecureLogger(logger, proxies))
	router.Use(middleware.Recoverer)
	router.Use(m.Middleware)
	router.Use(middleware.Timeout(60 * time.Second))

	paging := handlers.PagingParams{
		DefaultSize: cfg.Paging.DefaultSize,
		MaxSize:     cfg.Paging.MaxSize,
	}
	searchLimit := middlewareCustom.RateLimitConfig{
		RequestsPerMinute: cfg.RateLimit.SearchRequestsPerMinute,
		Proxies:           proxies,
	}
	routes.RegisterRoutes(router, routes.Handlers{
		Members: handlers.NewMemberHandler(memberService, paging),
		Teams:   handlers.NewTeamHandler(teamService),
		Items:   handlers.NewItemHandler(itemService),
		Orders:  handlers.NewOrderHandler(orderService, paging),
	}, routes.Options{
		TokenManager: tokenManager,
		SearchLimit:  searchLimit,
		Logger:       logger,
	})

	router.Handle("/metrics", m.Handler())

	// Health check with database
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.HealthCheck(ctx); err != nil {
			pkghttp.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "database": "down"})
			return
		}
		pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy", "database": "up"})
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}
