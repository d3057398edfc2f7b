package services

import (
	"context"
	"errors"

	"lashodia/internal/domain"
	"lashodia/internal/repos"
)

// ProductSnapshot is what the client tells us about a product when adding it.
// It is copied into the cart as is.
type ProductSnapshot struct {
	ID    int64
	Title string
	Price float64
	Image string
}

type CartService struct {
	Carts CartStore
}

func NewCartService(carts CartStore) *CartService {
	return &CartService{Carts: carts}
}

// Add puts qty of p into the user's cart, adding to the quantity of an
// existing line for the same product id.
func (s *CartService) Add(ctx context.Context, userID string, p ProductSnapshot, qty int) ([]domain.CartItem, error) {
	if qty < 1 {
		qty = 1
	}
	items, err := s.Carts.AddItem(ctx, userID, domain.CartItem{
		ProductID: p.ID,
		Title:     p.Title,
		Quantity:  qty,
		Price:     p.Price,
		Image:     p.Image,
	})
	return items, mapUserErr(err)
}

// Remove drops every line with productID from the user's cart.
func (s *CartService) Remove(ctx context.Context, userID string, productID int64) ([]domain.CartItem, error) {
	items, err := s.Carts.RemoveItem(ctx, userID, productID)
	return items, mapUserErr(err)
}

func (s *CartService) Items(ctx context.Context, userID string) ([]domain.CartItem, error) {
	items, err := s.Carts.Items(ctx, userID)
	return items, mapUserErr(err)
}

func mapUserErr(err error) error {
	if errors.Is(err, repos.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}
