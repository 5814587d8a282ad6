package service

import (
	"context"

	"github.com/marktprijs/catalog/internal/model"
	"github.com/marktprijs/catalog/internal/repository"
)

// CatalogService serves read-side queries over the denormalized catalog view.
type CatalogService struct {
	catalog repository.CatalogStore
}

// NewCatalogService creates a CatalogService over the given store.
func NewCatalogService(catalog repository.CatalogStore) *CatalogService {
	return &CatalogService{catalog: catalog}
}

// ListBySupermarket returns one supermarket's products with optional filters.
func (s *CatalogService) ListBySupermarket(ctx context.Context, code string, filter model.CatalogFilter) ([]model.CatalogProduct, error) {
	return s.catalog.ListBySupermarket(ctx, code, filter)
}

// Search matches products by name or search tags.
func (s *CatalogService) Search(ctx context.Context, term, supermarketCode string) ([]model.CatalogProduct, error) {
	return s.catalog.Search(ctx, term, supermarketCode)
}
