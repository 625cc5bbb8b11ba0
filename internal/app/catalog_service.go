package app

import (
	"context"

	"github.com/aiaxcartpremium/aiaxshop/internal/domain"
)

type ProductRepository interface {
	GetProduct(ctx context.Context, productID string) (domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// CatalogService is a read-only lookup used for presentation. Catalog
// editing happens outside this core.
type CatalogService struct {
	repo ProductRepository
}

func NewCatalogService(repo ProductRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) Get(ctx context.Context, productID string) (domain.Product, error) {
	if productID == "" {
		return domain.Product{}, domain.ErrInvalidID
	}
	return s.repo.GetProduct(ctx, productID)
}

func (s *CatalogService) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx)
}
