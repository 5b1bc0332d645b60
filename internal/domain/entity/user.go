package entity

import (
	"time"
)

type UserLocation struct {
	City    string `json:"city" firestore:"city"`
	State   string `json:"state" firestore:"state"`
	Country string `json:"country" firestore:"country"`
}

type User struct {
	ID          string        `json:"id" firestore:"id"`
	Email       string        `json:"email" firestore:"email"`
	Username    string        `json:"username" firestore:"username"`
	DisplayName string        `json:"display_name" firestore:"displayName"`
	PhotoURL    string        `json:"photo_url,omitempty" firestore:"photoURL,omitempty"`
	PhoneNumber string        `json:"phone_number,omitempty" firestore:"phoneNumber,omitempty"`
	Bio         string        `json:"bio,omitempty" firestore:"bio,omitempty"`
	Location    *UserLocation `json:"location,omitempty" firestore:"location,omitempty"`

	// Denormalized list of favorited product IDs; the favorites collection
	// is the source of truth.
	FavoriteProducts []string `json:"favorite_products" firestore:"favoriteProducts"`

	IsActive     bool      `json:"is_active" firestore:"isActive"`
	Rating       float64   `json:"rating,omitempty" firestore:"rating,omitempty"`
	ReviewsCount int       `json:"reviews_count,omitempty" firestore:"reviewsCount,omitempty"`
	CreatedAt    time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt    time.Time `json:"updated_at" firestore:"updatedAt"`
	LastLoginAt  time.Time `json:"last_login_at,omitempty" firestore:"lastLoginAt,omitempty"`
}
