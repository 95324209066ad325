package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/leaguehq/leaguehq-auth/internal/handlers"
	"github.com/leaguehq/leaguehq-auth/internal/middleware"
)

// RegisterRoutes registers all application routes. Credential endpoints sit
// behind a per-IP rate limit; everything is public by design except GET
// /token, which sits behind the session middleware.
func RegisterRoutes(
	router chi.Router,
	requireSession func(http.Handler) http.Handler,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
) {
	rateLimit := middleware.RateLimitByIP(middleware.DefaultAuthRateLimit())

	router.With(rateLimit).Post("/register", authHandler.Register)
	router.With(rateLimit).Post("/login", authHandler.Login)
	router.With(rateLimit).Post("/forgot-password", authHandler.ForgotPassword)
	router.With(rateLimit).Post("/reset-password", authHandler.ResetPassword)

	router.Post("/verify/{tenant}/{verificationCode}", authHandler.VerifyEmail)
	router.With(requireSession).Get("/token", authHandler.Token)
	router.Post("/refresh-token", authHandler.RefreshToken)
	router.Get("/exists", authHandler.Exists)
	router.Get("/health", healthHandler.Health)
}
