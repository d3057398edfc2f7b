package services

import (
	"context"
	"io"

	"lashodia/internal/domain"
)

// Stores return repos.ErrNotFound for a missing user and repos.ErrDuplicate for
// an email that is already registered.

type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	ByEmail(ctx context.Context, email string) (*domain.User, error)
}

type CartStore interface {
	AddItem(ctx context.Context, userID string, item domain.CartItem) ([]domain.CartItem, error)
	RemoveItem(ctx context.Context, userID string, productID int64) ([]domain.CartItem, error)
	Items(ctx context.Context, userID string) ([]domain.CartItem, error)
}

type ProductStore interface {
	Create(ctx context.Context, p *domain.Product) error
	List(ctx context.Context) ([]domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

// ObjectStore receives uploaded files and returns a public URL for them.
type ObjectStore interface {
	Put(ctx context.Context, name, contentType string, r io.Reader) (string, error)
}
