package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/leaguehq/leaguehq-auth/internal/auth"
	"github.com/leaguehq/leaguehq-auth/internal/background"
	"github.com/leaguehq/leaguehq-auth/internal/config"
	"github.com/leaguehq/leaguehq-auth/internal/database"
	"github.com/leaguehq/leaguehq-auth/internal/handlers"
	middlewareCustom "github.com/leaguehq/leaguehq-auth/internal/middleware"
	"github.com/leaguehq/leaguehq-auth/internal/repositories"
	"github.com/leaguehq/leaguehq-auth/internal/routes"
	"github.com/leaguehq/leaguehq-auth/internal/services"
	pkgauth "github.com/leaguehq/leaguehq-auth/pkg/auth"
	pkglogger "github.com/leaguehq/leaguehq-auth/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := pkglogger.New(cfg.Server.LogLevel, cfg.Server.Env)
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db.Pool)
	resetTokenRepo := repositories.NewResetTokenRepository(db.Pool)
	resetFlow := repositories.NewResetFlow(db.Pool)

	// Initialize cleanup manager
	cleanupManager := background.NewCleanupManager(resetTokenRepo, logger, cfg.Auth.CleanupInterval, 24*time.Hour)

	// Initialize token manager and lockout guard
	tokenManager, err := auth.NewTokenManager(cfg.Auth)
	if err != nil {
		logger.Error("failed to initialize token manager", slog.Any("error", err))
		os.Exit(1)
	}
	lockoutGuard := auth.NewLockoutGuard(userRepo, cfg.Auth, logger)

	// Password hashing pool
	hasher := pkgauth.NewHasher(0)

	// AWS SES email sender
	emailSender, err := services.NewAWSSESEmailSender(
		cfg.Email.AWSRegion,
		cfg.Email.FromAddress,
		cfg.Email.LinkBaseURL,
		logger,
	)
	if err != nil {
		logger.Error("failed to initialize email sender", slog.Any("error", err))
		os.Exit(1)
	}

	// Initialize services
	settingsService := services.NewSettingsService(db.Pool, logger)
	authService := services.NewAuthService(userRepo, settingsService, lockoutGuard, tokenManager, hasher, emailSender, logger)
	resetService := services.NewResetService(userRepo, resetTokenRepo, resetFlow, emailSender, hasher, cfg.Auth.ResetTokenTTL, logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, resetService, logger)
	healthHandler := handlers.NewHealthHandler(db, logger)

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)))
	router.Use(middlewareCustom.ResolveTenant)
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	routes.RegisterRoutes(router, auth.RequireSession(tokenManager, logger), authHandler, healthHandler)

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start cleanup task
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()

	go cleanupManager.Start(cleanupCtx)

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	cleanupCancel()
	cleanupManager.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}
