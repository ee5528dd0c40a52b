package readstore

import (
	"context"

	"salon-scheduler/internal/domain/catalog"
	"salon-scheduler/internal/infra/db"
	"salon-scheduler/internal/infra/repository"

	"github.com/google/uuid"
)

type CatalogReadStore struct {
	repo *repository.CatalogRepository
}

func NewCatalogReadStore(db db.DBTX) *CatalogReadStore {
	return &CatalogReadStore{repo: repository.NewCatalogRepository(db)}
}

func (s *CatalogReadStore) FindService(ctx context.Context, id uuid.UUID) (*catalog.Service, error) {
	return s.repo.ServiceByID(ctx, id)
}

func (s *CatalogReadStore) FindBusiness(ctx context.Context, id uuid.UUID) (*catalog.Business, error) {
	return s.repo.BusinessByID(ctx, id)
}
