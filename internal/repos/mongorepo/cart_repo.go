package mongorepo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lashodia/internal/domain"
	"lashodia/internal/repos"
)

// CartRepo mutates the cartData array embedded in user documents.
type CartRepo struct{ coll *mongo.Collection }

// addAttempts bounds the inc/push loop; a retry only happens when another
// request pushed the same product between our two updates.
const addAttempts = 3

func (r *CartRepo) AddItem(ctx context.Context, userID string, item domain.CartItem) ([]domain.CartItem, error) {
	for i := 0; i < addAttempts; i++ {
		// Existing line: bump its quantity in place.
		cart, err := r.update(ctx,
			bson.M{"_id": userID, "cartData.productId": item.ProductID},
			bson.M{"$inc": bson.M{"cartData.$.quantity": item.Quantity}})
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, repos.ErrNotFound) {
			return nil, err
		}

		// No line yet: append, guarded so a concurrent push cannot duplicate it.
		cart, err = r.update(ctx,
			bson.M{"_id": userID, "cartData.productId": bson.M{"$ne": item.ProductID}},
			bson.M{"$push": bson.M{"cartData": item}})
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, repos.ErrNotFound) {
			return nil, err
		}

		n, err := r.coll.CountDocuments(ctx, bson.M{"_id": userID})
		if err != nil {
			return nil, fmt.Errorf("load user: %w", err)
		}
		if n == 0 {
			return nil, repos.ErrNotFound
		}
	}
	return nil, fmt.Errorf("add cart item: too much contention on user %s", userID)
}

func (r *CartRepo) RemoveItem(ctx context.Context, userID string, productID int64) ([]domain.CartItem, error) {
	return r.update(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"cartData": bson.M{"productId": productID}}})
}

func (r *CartRepo) Items(ctx context.Context, userID string) ([]domain.CartItem, error) {
	var doc cartDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": userID},
		options.FindOne().SetProjection(bson.M{"cartData": 1})).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repos.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return doc.items(), nil
}

type cartDoc struct {
	Cart []domain.CartItem `bson:"cartData"`
}

func (d cartDoc) items() []domain.CartItem {
	if d.Cart == nil {
		return []domain.CartItem{}
	}
	return d.Cart
}

// update applies change to the user matching filter and returns the cart after
// the change. ErrNotFound means filter matched nothing.
func (r *CartRepo) update(ctx context.Context, filter, change bson.M) ([]domain.CartItem, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"cartData": 1})
	var doc cartDoc
	err := r.coll.FindOneAndUpdate(ctx, filter, change, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repos.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update cart: %w", err)
	}
	return doc.items(), nil
}
