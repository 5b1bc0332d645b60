package entity

import "time"

// Favorite's identity is the (userId, productId) pair; its existence is the
// favorite relation itself.
type Favorite struct {
	UserID    string    `json:"user_id" firestore:"userId"`
	ProductID string    `json:"product_id" firestore:"productId"`
	AddedAt   time.Time `json:"added_at" firestore:"addedAt"`
}
