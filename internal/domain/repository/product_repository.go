package repository

import (
	"context"
	"time"

	"fyndit/internal/domain/entity"
)

// SearchCursor points after the last document of the previous page. Which
// value field applies depends on the sort order the query was built with.
type SearchCursor struct {
	SortBy    string    `json:"sort"`
	Time      time.Time `json:"t,omitempty"`
	Price     float64   `json:"p,omitempty"`
	Favorites int       `json:"f,omitempty"`
	DocID     string    `json:"id"`
}

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error

	// Search runs the backend query only: status, category, condition,
	// price range, sort, cursor, limit. Free-text filtering happens above
	// the repository.
	Search(ctx context.Context, filters entity.SearchFilters, limit int, after *SearchCursor) ([]*entity.Product, error)

	ListBySellerID(ctx context.Context, sellerID string) ([]*entity.Product, error)

	// Advisory counter writes; callers treat failures as non-critical.
	IncrementViews(ctx context.Context, id string) error
	IncrementFavorites(ctx context.Context, id string, delta int) error
}
