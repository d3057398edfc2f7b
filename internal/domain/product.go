package domain

import "time"

type Rating struct {
	Rate  float64 `bson:"rate" json:"rate"`
	Count int     `bson:"count" json:"count"`
}

type Product struct {
	ID          int64     `bson:"id" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Image       string    `bson:"image" json:"image"`
	Category    string    `bson:"category" json:"category"`
	NewPrice    float64   `bson:"new_price" json:"new_price"`
	OldPrice    float64   `bson:"old_price" json:"old_price"`
	Available   bool      `bson:"available" json:"available"`
	Description string    `bson:"description" json:"description"`
	Rating      Rating    `bson:"rating" json:"rating"`
	CreatedAt   time.Time `bson:"date" json:"date"`
}
