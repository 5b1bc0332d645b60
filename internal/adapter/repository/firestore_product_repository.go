package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"fyndit/internal/domain/entity"
	"fyndit/internal/domain/repository"
	"fyndit/pkg/errors"
	"fyndit/pkg/logger"
)

type firestoreProductRepository struct {
	client *firestore.Client
}

func NewFirestoreProductRepository(client *firestore.Client) repository.ProductRepository {
	return &firestoreProductRepository{
		client: client,
	}
}

func (r *firestoreProductRepository) Create(ctx context.Context, product *entity.Product) error {
	if product.ID == "" {
		doc := r.client.Collection("products").NewDoc()
		product.ID = doc.ID
	}

	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now
	if product.Status == "" {
		product.Status = entity.ProductStatusActive
	}
	if product.SaleStatus == "" {
		product.SaleStatus = entity.SaleStatusForSale
	}

	_, err := r.client.Collection("products").Doc(product.ID).Set(ctx, product)
	if err != nil {
		return errors.Internal("Failed to create product", err)
	}

	return nil
}

func (r *firestoreProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	doc, err := r.client.Collection("products").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Product", err)
		}
		return nil, errors.Internal("Failed to get product", err)
	}

	var product entity.Product
	if err := doc.DataTo(&product); err != nil {
		return nil, errors.Internal("Failed to parse product data", err)
	}
	product.ID = doc.Ref.ID

	return &product, nil
}

func (r *firestoreProductRepository) Update(ctx context.Context, product *entity.Product) error {
	product.UpdatedAt = time.Now()

	_, err := r.client.Collection("products").Doc(product.ID).Set(ctx, product)
	if err != nil {
		return errors.Internal("Failed to update product", err)
	}

	return nil
}

func (r *firestoreProductRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("products").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete product", err)
	}

	return nil
}

func (r *firestoreProductRepository) Search(ctx context.Context, filters entity.SearchFilters, limit int, after *repository.SearchCursor) ([]*entity.Product, error) {
	query := r.client.Collection("products").Query.Where("status", "==", entity.ProductStatusActive)

	if filters.Category != "" {
		query = query.Where("category", "==", filters.Category)
	}
	if filters.Subcategory != "" {
		query = query.Where("subcategory", "==", filters.Subcategory)
	}
	if len(filters.Condition) > 0 {
		query = query.Where("condition", "in", filters.Condition)
	}
	if filters.PriceRange != nil {
		if filters.PriceRange.Min > 0 {
			query = query.Where("price", ">=", float64(filters.PriceRange.Min))
		}
		if filters.PriceRange.Max > 0 {
			query = query.Where("price", "<=", float64(filters.PriceRange.Max))
		}
	}

	// Document id is the tiebreak on every order; the cursor carries it
	// so pagination stays total when sort values collide.
	switch filters.SortBy {
	case entity.SortPriceLow:
		query = query.OrderBy("price", firestore.Asc).OrderBy(firestore.DocumentID, firestore.Asc)
	case entity.SortPriceHigh:
		query = query.OrderBy("price", firestore.Desc).OrderBy(firestore.DocumentID, firestore.Desc)
	case entity.SortPopularity:
		query = query.OrderBy("favorites", firestore.Desc).OrderBy(firestore.DocumentID, firestore.Desc)
	default:
		query = query.OrderBy("createdAt", firestore.Desc).OrderBy(firestore.DocumentID, firestore.Desc)
	}

	if after != nil {
		switch after.SortBy {
		case entity.SortPriceLow, entity.SortPriceHigh:
			query = query.StartAfter(after.Price, after.DocID)
		case entity.SortPopularity:
			query = query.StartAfter(after.Favorites, after.DocID)
		default:
			query = query.StartAfter(after.Time, after.DocID)
		}
	}

	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	var products []*entity.Product

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate products", err)
		}

		var product entity.Product
		if err := doc.DataTo(&product); err != nil {
			logger.Warn("Skipping malformed product document %s: %v", doc.Ref.ID, err)
			continue
		}
		product.ID = doc.Ref.ID
		products = append(products, &product)
	}

	return products, nil
}

func (r *firestoreProductRepository) ListBySellerID(ctx context.Context, sellerID string) ([]*entity.Product, error) {
	query := r.client.Collection("products").
		Where("sellerId", "==", sellerID).
		OrderBy("createdAt", firestore.Desc)

	iter := query.Documents(ctx)
	var products []*entity.Product

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate seller products", err)
		}

		var product entity.Product
		if err := doc.DataTo(&product); err != nil {
			logger.Warn("Skipping malformed product document %s: %v", doc.Ref.ID, err)
			continue
		}
		product.ID = doc.Ref.ID
		products = append(products, &product)
	}

	return products, nil
}

func (r *firestoreProductRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.client.Collection("products").Doc(id).Update(ctx, []firestore.Update{
		{Path: "views", Value: firestore.Increment(1)},
	})
	if err != nil {
		return errors.Internal("Failed to increment product views", err)
	}

	return nil
}

func (r *firestoreProductRepository) IncrementFavorites(ctx context.Context, id string, delta int) error {
	_, err := r.client.Collection("products").Doc(id).Update(ctx, []firestore.Update{
		{Path: "favorites", Value: firestore.Increment(delta)},
	})
	if err != nil {
		return errors.Internal("Failed to increment product favorites", err)
	}

	return nil
}
