package repos

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// OpenDB opens the SQLite store and applies the schema. The pool is pinned to a
// single connection: SQLite serializes writers anyway, and it keeps ":memory:"
// databases alive for the life of the pool.
func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL,
  email TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  created_at TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

-- Cart line items, one row per (user, product). Title/price/image are the
-- values seen when the product was first added.
CREATE TABLE IF NOT EXISTS cart_items(
  user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  product_id INTEGER NOT NULL,
  title      TEXT NOT NULL,
  quantity   INTEGER NOT NULL CHECK (quantity >= 1),
  price      NUMERIC NOT NULL,
  image      TEXT NOT NULL DEFAULT '',
  created_at TEXT,
  updated_at TEXT,
  PRIMARY KEY (user_id, product_id)
);

-- Products; ids are assigned by ProductRepo.Create, not AUTOINCREMENT.
CREATE TABLE IF NOT EXISTS products(
  id INTEGER PRIMARY KEY,
  title TEXT NOT NULL,
  image TEXT NOT NULL,
  category TEXT NOT NULL,
  new_price NUMERIC NOT NULL,
  old_price NUMERIC NOT NULL,
  available INTEGER NOT NULL DEFAULT 1,
  description TEXT NOT NULL,
  rate NUMERIC NOT NULL DEFAULT 0,
  rate_count INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
`
	_, err := db.Exec(schema)
	return err
}

// SeedDemoProducts inserts a small demo catalog when the products table is empty.
func SeedDemoProducts(ctx context.Context, db *sqlx.DB) error {
	var n int
	if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo products")

	now := time.Now().UTC().Format(time.RFC3339Nano)
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `INSERT INTO products(id,title,image,category,new_price,old_price,available,description,rate,rate_count,created_at) VALUES
	  (1,'Striped Flutter Sleeve Blouse','https://storage.googleapis.com/lashodia-demo/product_1.png','women',50.0,80.5,1,'Lightweight overlap-collar blouse.',4.1,259,?),
	  (2,'Men Green Solid Zippered Bomber','https://storage.googleapis.com/lashodia-demo/product_2.png','men',85.0,120.5,1,'Full-zip slim fit bomber jacket.',3.9,120,?),
	  (3,'Boys Orange Colourblocked Hoodie','https://storage.googleapis.com/lashodia-demo/product_3.png','kid',60.0,100.5,1,'Hooded sweatshirt with front pocket.',4.7,500,?)`,
		now, now, now)
	if err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	return tx.Commit()
}
