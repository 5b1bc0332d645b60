package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"fyndit/internal/domain/entity"
	"fyndit/internal/domain/repository"
	"fyndit/pkg/errors"
	"fyndit/pkg/logger"
)

type firestoreFavoriteRepository struct {
	client *firestore.Client
}

func NewFirestoreFavoriteRepository(client *firestore.Client) repository.FavoriteRepository {
	return &firestoreFavoriteRepository{
		client: client,
	}
}

// Favorite documents are keyed by the user/product pair, which makes Add
// idempotent and lookups a direct document get.
func favoriteDocID(userID, productID string) string {
	return fmt.Sprintf("%s_%s", userID, productID)
}

func (r *firestoreFavoriteRepository) Get(ctx context.Context, userID, productID string) (*entity.Favorite, error) {
	doc, err := r.client.Collection("favorites").Doc(favoriteDocID(userID, productID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Favorite", err)
		}
		return nil, errors.Internal("Failed to get favorite", err)
	}

	var favorite entity.Favorite
	if err := doc.DataTo(&favorite); err != nil {
		return nil, errors.Internal("Failed to parse favorite data", err)
	}

	return &favorite, nil
}

func (r *firestoreFavoriteRepository) Add(ctx context.Context, userID, productID string) error {
	favorite := &entity.Favorite{
		UserID:    userID,
		ProductID: productID,
		AddedAt:   time.Now(),
	}

	_, err := r.client.Collection("favorites").Doc(favoriteDocID(userID, productID)).Set(ctx, favorite)
	if err != nil {
		return errors.Internal("Failed to add favorite", err)
	}

	return nil
}

func (r *firestoreFavoriteRepository) Remove(ctx context.Context, userID, productID string) error {
	_, err := r.client.Collection("favorites").Doc(favoriteDocID(userID, productID)).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to remove favorite", err)
	}

	return nil
}

func (r *firestoreFavoriteRepository) ListByUserID(ctx context.Context, userID string) ([]*entity.Favorite, error) {
	query := r.client.Collection("favorites").
		Where("userId", "==", userID).
		OrderBy("addedAt", firestore.Desc)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to fetch favorites", err)
	}

	var favorites []*entity.Favorite
	for _, doc := range docs {
		var favorite entity.Favorite
		if err := doc.DataTo(&favorite); err != nil {
			logger.Warn("Skipping malformed favorite document %s: %v", doc.Ref.ID, err)
			continue
		}
		favorites = append(favorites, &favorite)
	}

	return favorites, nil
}
