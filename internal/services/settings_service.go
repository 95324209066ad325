package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/leaguehq/leaguehq-auth/internal/models"
	"github.com/leaguehq/leaguehq-auth/internal/repositories"
	"github.com/leaguehq/leaguehq-auth/internal/scoped"
)

// SettingsStore is the slice of settings behavior the auth flows consume:
// bootstrap one document at registration, read it back for session
// responses, and probe tenant existence for the signup UI.
type SettingsStore interface {
	Create(ctx context.Context, tenant, ownerID string) (models.Settings, error)
	Get(ctx context.Context, tenant string) (models.Settings, error)
	Exists(ctx context.Context, tenant string) (bool, error)
}

// SettingsService implements SettingsStore over the scoped repository. Each
// tenant holds exactly one settings row.
type SettingsService struct {
	repo   *scoped.Repository[models.Settings]
	logger *slog.Logger
}

func NewSettingsService(q scoped.Querier, log *slog.Logger) *SettingsService {
	return &SettingsService{
		repo:   scoped.New(q, repositories.SettingsMapper()),
		logger: log,
	}
}

// Create bootstraps the tenant's settings document, named after the tenant
// and owned by the registering user.
func (s *SettingsService) Create(ctx context.Context, tenant, ownerID string) (models.Settings, error) {
	settings, err := s.repo.Create(ctx, tenant, models.Settings{
		ID:      uuid.NewString(),
		Name:    tenant,
		OwnerID: ownerID,
	})
	if err != nil {
		return models.Settings{}, err
	}

	s.logger.Info("settings bootstrapped",
		slog.String("tenant", tenant),
		slog.String("owner_id", ownerID))
	return settings, nil
}

// Get returns the tenant's settings document.
func (s *SettingsService) Get(ctx context.Context, tenant string) (models.Settings, error) {
	return s.repo.FindOne(ctx, tenant, nil)
}

// Exists reports whether the tenant has been registered.
func (s *SettingsService) Exists(ctx context.Context, tenant string) (bool, error) {
	return s.repo.Exists(ctx, tenant, nil)
}
