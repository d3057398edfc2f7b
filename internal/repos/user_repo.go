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

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

type userRow struct {
	ID        string `db:"id"`
	Username  string `db:"username"`
	Email     string `db:"email"`
	Hash      string `db:"password_hash"`
	CreatedAt string `db:"created_at"`
}

func (r userRow) toDomain() *domain.User {
	created, _ := time.Parse(time.RFC3339Nano, r.CreatedAt)
	return &domain.User{
		ID:        r.ID,
		Username:  r.Username,
		Email:     r.Email,
		Hash:      r.Hash,
		Cart:      []domain.CartItem{},
		CreatedAt: created,
	}
}

// Create inserts u. A second user with the same email yields ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO users(id,username,email,password_hash,created_at)
		VALUES(?,?,?,?,?)`,
		u.ID, u.Username, u.Email, u.Hash, u.CreatedAt.Format(time.RFC3339Nano))
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	if u.Cart == nil {
		u.Cart = []domain.CartItem{}
	}
	return nil
}

func (r *UserRepo) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.one(ctx, `SELECT id,username,email,password_hash,created_at FROM users WHERE LOWER(email)=LOWER(?)`, email)
}

func (r *UserRepo) one(ctx context.Context, query string, arg any) (*domain.User, error) {
	var row userRow
	err := r.DB.GetContext(ctx, &row, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return row.toDomain(), nil
}
