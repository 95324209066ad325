package handlers

import (
	"context"
	"log/slog"
	"net/http"

	httpx "github.com/leaguehq/leaguehq-auth/pkg/http"
)

// HealthChecker reports readiness of a dependency.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler handles GET /health.
type HealthHandler struct {
	db     HealthChecker
	logger *slog.Logger
}

func NewHealthHandler(db HealthChecker, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.HealthCheck(r.Context()); err != nil {
		h.logger.Error("health check failed", slog.Any("error", err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"success":false,"message":"unhealthy"}`))
		return
	}
	httpx.RespondJSON(w, http.StatusOK, "ok", map[string]string{"status": "healthy"})
}
