package domain

import "time"

type User struct {
	ID        string     `bson:"_id" json:"id"`
	Username  string     `bson:"username" json:"username"`
	Email     string     `bson:"email" json:"email"`
	Hash      string     `bson:"password" json:"-"`
	Cart      []CartItem `bson:"cartData" json:"cartData"`
	CreatedAt time.Time  `bson:"date" json:"date"`
}

// CartItem is a copy of the product taken when it was added. Title, price and
// image are not refreshed from the catalog afterwards.
type CartItem struct {
	ProductID int64   `db:"product_id" bson:"productId" json:"productId"`
	Title     string  `db:"title" bson:"title" json:"title"`
	Quantity  int     `db:"quantity" bson:"quantity" json:"quantity"`
	Price     float64 `db:"price" bson:"price" json:"price"`
	Image     string  `db:"image" bson:"image" json:"image"`
}
