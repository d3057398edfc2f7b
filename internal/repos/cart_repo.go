package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lashodia/internal/domain"

	"github.com/jmoiron/sqlx"
)

// CartRepo stores each user's cart as rows keyed by (user_id, product_id).
// Every mutation runs in one transaction and returns the cart as committed.
type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

// AddItem merges item into the user's cart: an existing line for the same
// product has its quantity increased, otherwise item is appended as given.
func (r *CartRepo) AddItem(ctx context.Context, userID string, item domain.CartItem) ([]domain.CartItem, error) {
	var out []domain.CartItem
	err := r.inTx(ctx, userID, func(tx *sqlx.Tx) error {
		now := time.Now().UTC().Format(time.RFC3339Nano)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO cart_items(user_id,product_id,title,quantity,price,image,created_at,updated_at)
			VALUES(?,?,?,?,?,?,?,?)
			ON CONFLICT(user_id,product_id) DO UPDATE
			SET quantity = cart_items.quantity + excluded.quantity, updated_at = excluded.updated_at
		`, userID, item.ProductID, item.Title, item.Quantity, item.Price, item.Image, now, now); err != nil {
			return fmt.Errorf("upsert cart item: %w", err)
		}
		var err error
		out, err = cartItems(ctx, tx, userID)
		return err
	})
	return out, err
}

// RemoveItem drops every line for productID from the user's cart.
func (r *CartRepo) RemoveItem(ctx context.Context, userID string, productID int64) ([]domain.CartItem, error) {
	var out []domain.CartItem
	err := r.inTx(ctx, userID, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id=? AND product_id=?`, userID, productID); err != nil {
			return fmt.Errorf("delete cart item: %w", err)
		}
		var err error
		out, err = cartItems(ctx, tx, userID)
		return err
	})
	return out, err
}

func (r *CartRepo) Items(ctx context.Context, userID string) ([]domain.CartItem, error) {
	if err := userExists(ctx, r.db, userID); err != nil {
		return nil, err
	}
	return cartItems(ctx, r.db, userID)
}

func (r *CartRepo) inTx(ctx context.Context, userID string, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := userExists(ctx, tx, userID); err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func userExists(ctx context.Context, q sqlx.QueryerContext, userID string) error {
	var one int
	err := sqlx.GetContext(ctx, q, &one, `SELECT 1 FROM users WHERE id=?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	return nil
}

// cartItems lists a cart in insertion order. Never returns a nil slice.
func cartItems(ctx context.Context, q sqlx.QueryerContext, userID string) ([]domain.CartItem, error) {
	items := []domain.CartItem{}
	if err := sqlx.SelectContext(ctx, q, &items, `
		SELECT product_id, title, quantity, price, image
		FROM cart_items
		WHERE user_id = ?
		ORDER BY rowid
	`, userID); err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return items, nil
}
