package entity

import (
	"time"
)

// Product lifecycle status. Independent of the sale status below: a product
// can be active yet already sold.
const (
	ProductStatusActive  = "active"
	ProductStatusPaused  = "paused"
	ProductStatusDeleted = "deleted"
	ProductStatusBlocked = "blocked"
)

const (
	SaleStatusForSale  = "for-sale"
	SaleStatusReserved = "reserved"
	SaleStatusSold     = "sold"
)

var ProductCategories = []string{
	"electronics",
	"fashion",
	"home",
	"sports",
	"vehicles",
	"real-estate",
	"books",
	"music",
	"art",
	"other",
}

var ProductConditions = []string{
	"new",
	"like-new",
	"good",
	"acceptable",
	"needs-repair",
}

type ProductImage struct {
	ID    string `json:"id" firestore:"id"`
	URL   string `json:"url" firestore:"url"`
	Order int    `json:"order" firestore:"order"`
	Alt   string `json:"alt,omitempty" firestore:"alt,omitempty"`
}

type ProductLocation struct {
	City    string `json:"city" firestore:"city"`
	State   string `json:"state" firestore:"state"`
	Country string `json:"country" firestore:"country"`
	ZipCode string `json:"zip_code,omitempty" firestore:"zipCode,omitempty"`
}

type Product struct {
	ID          string          `json:"id" firestore:"id"`
	Title       string          `json:"title" firestore:"title"`
	Description string          `json:"description" firestore:"description"`
	Price       float64         `json:"price" firestore:"price"`
	Currency    string          `json:"currency" firestore:"currency"`
	Category    string          `json:"category" firestore:"category"`
	Subcategory string          `json:"subcategory,omitempty" firestore:"subcategory,omitempty"`
	Condition   string          `json:"condition" firestore:"condition"`
	Status      string          `json:"status" firestore:"status"`
	SaleStatus  string          `json:"sale_status" firestore:"saleStatus"`
	Images      []ProductImage  `json:"images" firestore:"images"`
	Location    ProductLocation `json:"location" firestore:"location"`
	SellerID    string          `json:"seller_id" firestore:"sellerId"`
	Tags        []string        `json:"tags,omitempty" firestore:"tags,omitempty"`

	// Advisory counters, incremented fire-and-forget; may drift from the
	// favorites collection.
	Views     int `json:"views" firestore:"views"`
	Favorites int `json:"favorites" firestore:"favorites"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

func ValidCategory(category string) bool {
	for _, c := range ProductCategories {
		if c == category {
			return true
		}
	}
	return false
}

func ValidCondition(condition string) bool {
	for _, c := range ProductConditions {
		if c == condition {
			return true
		}
	}
	return false
}

func ValidSaleStatus(status string) bool {
	return status == SaleStatusForSale || status == SaleStatusReserved || status == SaleStatusSold
}
