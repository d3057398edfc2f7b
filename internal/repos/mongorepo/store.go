// Package mongorepo keeps users (with their cart embedded as cartData) and
// products in MongoDB. Cart updates and product id assignment use single-document
// atomic operators instead of read-modify-write.
package mongorepo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

func Open(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	s := &Store{client: client, db: client.Database(dbName)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	if _, err := s.db.Collection(usersColl).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("users email index: %w", err)
	}
	if _, err := s.db.Collection(productsColl).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("products id index: %w", err)
	}
	return nil
}

func (s *Store) Users() *UserRepo       { return &UserRepo{coll: s.db.Collection(usersColl)} }
func (s *Store) Carts() *CartRepo       { return &CartRepo{coll: s.db.Collection(usersColl)} }
func (s *Store) Products() *ProductRepo { return newProductRepo(s.db) }

// Drop removes the whole database. Used by tests.
func (s *Store) Drop(ctx context.Context) error { return s.db.Drop(ctx) }

func (s *Store) Close(ctx context.Context) error { return s.client.Disconnect(ctx) }

const (
	usersColl    = "users"
	productsColl = "products"
	countersColl = "counters"
)
