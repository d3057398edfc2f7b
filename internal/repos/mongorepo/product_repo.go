package mongorepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lashodia/internal/domain"
)

type ProductRepo struct {
	coll     *mongo.Collection
	counters *mongo.Collection
}

func newProductRepo(db *mongo.Database) *ProductRepo {
	return &ProductRepo{coll: db.Collection(productsColl), counters: db.Collection(countersColl)}
}

// Create assigns the next product id from the "products" counter and inserts p.
// The counter is first raised to the current max id so documents written by
// other tools are never reused.
func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	maxID, err := r.maxID(ctx)
	if err != nil {
		return err
	}
	if _, err := r.counters.UpdateOne(ctx,
		bson.M{"_id": productsColl},
		bson.M{"$max": bson.M{"seq": maxID}},
		options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("sync product counter: %w", err)
	}

	var ctr struct {
		Seq int64 `bson:"seq"`
	}
	if err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": productsColl},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&ctr); err != nil {
		return fmt.Errorf("next product id: %w", err)
	}

	p.ID = ctr.Seq
	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepo) maxID(ctx context.Context) (int64, error) {
	var last struct {
		ID int64 `bson:"id"`
	}
	err := r.coll.FindOne(ctx, bson.M{},
		options.FindOne().SetSort(bson.D{{Key: "id", Value: -1}}).SetProjection(bson.M{"id": 1}),
	).Decode(&last)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("max product id: %w", err)
	}
	return last.ID, nil
}

// List returns every product in natural order.
func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := []domain.Product{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return out, nil
}

func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"id": id}); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
