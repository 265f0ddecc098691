package service

import (
	"context"
	"strings"

	"tenanthub/internal/domain"
	"tenanthub/internal/models"

	"github.com/rs/zerolog"
)

// CatalogService manages the add-on service catalog. Removal is a soft
// delete: rows keep their history and can be restored.
type CatalogService struct {
	repo   domain.ServiceRepository
	logger *zerolog.Logger
}

func NewCatalogService(repo domain.ServiceRepository, logger *zerolog.Logger) *CatalogService {
	return &CatalogService{repo: repo, logger: logger}
}

func (s *CatalogService) CreateService(ctx context.Context, svc *models.Service) error {
	if strings.TrimSpace(svc.Name) == "" {
		return validation("service name is required")
	}
	svc.Deleted = false
	return s.repo.CreateService(ctx, svc)
}

func (s *CatalogService) GetService(ctx context.Context, id int64) (*models.Service, error) {
	return s.repo.GetService(ctx, id)
}

// Active returns services visible to tenants: not deleted and switched on.
func (s *CatalogService) Active(ctx context.Context) ([]*models.Service, error) {
	return s.repo.ActiveServices(ctx)
}

// IncludingDeleted is the admin view across the soft-delete boundary.
func (s *CatalogService) IncludingDeleted(ctx context.Context) ([]*models.Service, error) {
	return s.repo.ServicesIncludingDeleted(ctx)
}

func (s *CatalogService) Deleted(ctx context.Context) ([]*models.Service, error) {
	return s.repo.DeletedServices(ctx)
}

func (s *CatalogService) SoftDelete(ctx context.Context, id int64) error {
	if err := s.repo.SoftDeleteService(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("service_id", id).Msg("service soft-deleted")
	return nil
}

func (s *CatalogService) Restore(ctx context.Context, id int64) error {
	if err := s.repo.RestoreService(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("service_id", id).Msg("service restored")
	return nil
}

func (s *CatalogService) Activate(ctx context.Context, id int64) error {
	return s.repo.ActivateService(ctx, id)
}

func (s *CatalogService) Deactivate(ctx context.Context, id int64) error {
	return s.repo.DeactivateService(ctx, id)
}

func (s *CatalogService) CreateCategory(ctx context.Context, category *models.ServiceCategory) error {
	if strings.TrimSpace(category.Name) == "" {
		return validation("category name is required")
	}
	return s.repo.CreateServiceCategory(ctx, category)
}

func (s *CatalogService) Categories(ctx context.Context) ([]*models.ServiceCategory, error) {
	return s.repo.GetServiceCategories(ctx)
}
