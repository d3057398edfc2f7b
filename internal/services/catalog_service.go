package services

import (
	"context"

	"lashodia/internal/domain"
)

// NewProduct carries the client-supplied product fields. Available defaults to
// true when nil.
type NewProduct struct {
	Title       string
	Image       string
	Category    string
	NewPrice    float64
	OldPrice    float64
	Available   *bool
	Description string
	Rating      domain.Rating
}

type CatalogService struct {
	Products ProductStore
}

func NewCatalogService(products ProductStore) *CatalogService {
	return &CatalogService{Products: products}
}

// Add stores np under the next sequential id.
func (s *CatalogService) Add(ctx context.Context, np NewProduct) (domain.Product, error) {
	available := true
	if np.Available != nil {
		available = *np.Available
	}
	p := domain.Product{
		Title:       np.Title,
		Image:       np.Image,
		Category:    np.Category,
		NewPrice:    np.NewPrice,
		OldPrice:    np.OldPrice,
		Available:   available,
		Description: np.Description,
		Rating:      np.Rating,
	}
	if err := s.Products.Create(ctx, &p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (s *CatalogService) List(ctx context.Context) ([]domain.Product, error) {
	return s.Products.List(ctx)
}

// Remove deletes the product. Carts holding it keep their copy.
func (s *CatalogService) Remove(ctx context.Context, id int64) error {
	return s.Products.Delete(ctx, id)
}
