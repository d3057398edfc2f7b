package repos

import (
	"context"
	"fmt"
	"time"

	"lashodia/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

type productRow struct {
	ID          int64   `db:"id"`
	Title       string  `db:"title"`
	Image       string  `db:"image"`
	Category    string  `db:"category"`
	NewPrice    float64 `db:"new_price"`
	OldPrice    float64 `db:"old_price"`
	Available   bool    `db:"available"`
	Description string  `db:"description"`
	Rate        float64 `db:"rate"`
	RateCount   int     `db:"rate_count"`
	CreatedAt   string  `db:"created_at"`
}

func (r productRow) toDomain() domain.Product {
	created, _ := time.Parse(time.RFC3339Nano, r.CreatedAt)
	return domain.Product{
		ID:          r.ID,
		Title:       r.Title,
		Image:       r.Image,
		Category:    r.Category,
		NewPrice:    r.NewPrice,
		OldPrice:    r.OldPrice,
		Available:   r.Available,
		Description: r.Description,
		Rating:      domain.Rating{Rate: r.Rate, Count: r.RateCount},
		CreatedAt:   created,
	}
}

// Create assigns p.ID as the highest existing id plus one (1 for an empty
// catalog) and inserts p, both inside one write transaction.
func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var next int64
	if err := tx.GetContext(ctx, &next, `SELECT COALESCE(MAX(id), 0) + 1 FROM products`); err != nil {
		return fmt.Errorf("next product id: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO products(id,title,image,category,new_price,old_price,available,description,rate,rate_count,created_at)
		VALUES(?,?,?,?,?,?,?,?,?,?,?)`,
		next, p.Title, p.Image, p.Category, p.NewPrice, p.OldPrice, p.Available, p.Description,
		p.Rating.Rate, p.Rating.Count, p.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	p.ID = next
	return nil
}

// List returns the whole catalog in id order.
func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT id,title,image,category,new_price,old_price,available,description,rate,rate_count,created_at
		FROM products
		ORDER BY id
	`); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// Delete removes the product with id. Deleting a missing id is not an error.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id=?`, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
