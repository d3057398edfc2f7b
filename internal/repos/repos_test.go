package repos_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"lashodia/internal/domain"
	"lashodia/internal/repos"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedUser(t *testing.T, db *sqlx.DB, id, email string) {
	t.Helper()
	err := repos.NewUserRepo(db).Create(context.Background(), &domain.User{
		ID: id, Username: "user " + id, Email: email, Hash: "$2a$04$hash",
	})
	require.NoError(t, err)
}

func TestUserRepo_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	db := memdb(t)
	users := repos.NewUserRepo(db)

	u := &domain.User{ID: "u-1", Username: "Ilham", Email: "ilham@lashodia.test", Hash: "h"}
	require.NoError(t, users.Create(ctx, u))
	assert.False(t, u.CreatedAt.IsZero())

	got, err := users.ByEmail(ctx, "ILHAM@lashodia.test")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.ID)

	assert.NotNil(t, got.Cart)
	assert.Empty(t, got.Cart)

	_, err = users.ByEmail(ctx, "missing@lashodia.test")
	assert.ErrorIs(t, err, repos.ErrNotFound)

	err = users.Create(ctx, &domain.User{ID: "u-2", Username: "Other", Email: "Ilham@Lashodia.test", Hash: "h"})
	assert.ErrorIs(t, err, repos.ErrDuplicate)
}

func TestCartRepo_AddAccumulatesQuantity(t *testing.T) {
	ctx := context.Background()
	db := memdb(t)
	seedUser(t, db, "u-1", "a@lashodia.test")
	carts := repos.NewCartRepo(db)

	item := domain.CartItem{ProductID: 4, Title: "Bomber", Quantity: 2, Price: 85, Image: "img"}
	_, err := carts.AddItem(ctx, "u-1", item)
	require.NoError(t, err)

	item.Quantity = 3
	item.Price = 1 // later snapshot values are ignored for an existing line
	cart, err := carts.AddItem(ctx, "u-1", item)
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, 5, cart[0].Quantity)
	assert.Equal(t, 85.0, cart[0].Price)
}

func TestCartRepo_RemoveKeepsOthers(t *testing.T) {
	ctx := context.Background()
	db := memdb(t)
	seedUser(t, db, "u-1", "a@lashodia.test")
	carts := repos.NewCartRepo(db)

	for _, id := range []int64{1, 2, 3} {
		_, err := carts.AddItem(ctx, "u-1", domain.CartItem{ProductID: id, Title: "p", Quantity: int(id), Price: 10})
		require.NoError(t, err)
	}
	cart, err := carts.RemoveItem(ctx, "u-1", 2)
	require.NoError(t, err)
	require.Len(t, cart, 2)
	assert.Equal(t, int64(1), cart[0].ProductID)
	assert.Equal(t, 1, cart[0].Quantity)
	assert.Equal(t, int64(3), cart[1].ProductID)
	assert.Equal(t, 3, cart[1].Quantity)

	// Removing something absent is a no-op.
	cart, err = carts.RemoveItem(ctx, "u-1", 99)
	require.NoError(t, err)
	assert.Len(t, cart, 2)
}

func TestCartRepo_UnknownUser(t *testing.T) {
	ctx := context.Background()
	carts := repos.NewCartRepo(memdb(t))

	_, err := carts.AddItem(ctx, "ghost", domain.CartItem{ProductID: 1, Title: "x", Quantity: 1})
	assert.ErrorIs(t, err, repos.ErrNotFound)
	_, err = carts.RemoveItem(ctx, "ghost", 1)
	assert.ErrorIs(t, err, repos.ErrNotFound)
	_, err = carts.Items(ctx, "ghost")
	assert.ErrorIs(t, err, repos.ErrNotFound)
}

func TestCartRepo_ConcurrentAddNoLostUpdates(t *testing.T) {
	ctx := context.Background()
	db := memdb(t)
	seedUser(t, db, "u-1", "a@lashodia.test")
	carts := repos.NewCartRepo(db)

	const N = 50
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < N; i++ {
		g.Go(func() error {
			_, err := carts.AddItem(gctx, "u-1", domain.CartItem{ProductID: 7, Title: "p", Quantity: 1, Price: 1})
			return err
		})
	}
	require.NoError(t, g.Wait())

	cart, err := carts.Items(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, N, cart[0].Quantity)
}

func TestProductRepo_SequentialIDs(t *testing.T) {
	ctx := context.Background()
	db := memdb(t)
	products := repos.NewProductRepo(db)

	p := &domain.Product{Title: "first", Image: "i", Category: "women", Available: true, Description: "d"}
	require.NoError(t, products.Create(ctx, p))
	assert.Equal(t, int64(1), p.ID)

	_, err := db.Exec(`INSERT INTO products(id,title,image,category,new_price,old_price,description,created_at)
	                   VALUES(7,'seven','i','men',1,2,'d','2024-01-01T00:00:00Z')`)
	require.NoError(t, err)

	p = &domain.Product{Title: "next", Image: "i", Category: "kid", Description: "d", Rating: domain.Rating{Rate: 4.5, Count: 10}}
	require.NoError(t, products.Create(ctx, p))
	assert.Equal(t, int64(8), p.ID)

	all, err := products.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{1, 7, 8}, []int64{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, 4.5, all[2].Rating.Rate)
	assert.Equal(t, 10, all[2].Rating.Count)
	assert.True(t, all[0].Available)

	require.NoError(t, products.Delete(ctx, 7))
	require.NoError(t, products.Delete(ctx, 7), "deleting twice is fine")
	all, err = products.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestProductRepo_ConcurrentCreateUniqueIDs(t *testing.T) {
	ctx := context.Background()
	products := repos.NewProductRepo(memdb(t))

	const N = 20
	ids := make([]int64, N)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < N; i++ {
		i := i
		g.Go(func() error {
			p := &domain.Product{Title: "p", Image: "i", Category: "c", Description: "d"}
			if err := products.Create(gctx, p); err != nil {
				return err
			}
			ids[i] = p.ID
			return nil
		})
	}
	require.NoError(t, g.Wait())

	seen := map[int64]bool{}
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, N)
}

func TestSeedDemoProducts(t *testing.T) {
	ctx := context.Background()
	db := memdb(t)
	require.NoError(t, repos.SeedDemoProducts(ctx, db))
	require.NoError(t, repos.SeedDemoProducts(ctx, db), "second seed is a no-op")

	all, err := repos.NewProductRepo(db).List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
