package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fyndit/internal/domain/entity"
	"fyndit/pkg/errors"
)

// recordingStorage captures delete calls so image cleanup can be asserted.
type recordingStorage struct {
	deleted []string
}

func (s *recordingStorage) DeleteFile(ctx context.Context, fileURL string) error {
	s.deleted = append(s.deleted, fileURL)
	return nil
}

func newProductFixture(t *testing.T) (*ProductUseCase, *fakeProductRepo, *recordingStorage) {
	t.Helper()

	productRepo := newFakeProductRepo()
	userRepo := newFakeUserRepo()
	storage := &recordingStorage{}

	ctx := context.Background()
	require.NoError(t, userRepo.Create(ctx, &entity.User{ID: "seller", Username: "seller", Email: "s@example.com"}))

	return NewProductUseCase(productRepo, userRepo, storage, nil), productRepo, storage
}

func validProductInput() CreateProductInput {
	return CreateProductInput{
		Title:       "Mountain bike",
		Description: "Barely used",
		Price:       250,
		Category:    "sports",
		Condition:   "good",
		Images:      []ProductImageInput{{URL: "https://img.example.com/bike.jpg", Order: 0}},
	}
}

func TestCreateProductDefaults(t *testing.T) {
	uc, _, _ := newProductFixture(t)

	product, err := uc.CreateProduct(context.Background(), "seller", validProductInput())
	require.NoError(t, err)
	assert.Equal(t, "USD", product.Currency)
	assert.Equal(t, entity.ProductStatusActive, product.Status)
	assert.Equal(t, entity.SaleStatusForSale, product.SaleStatus)
	require.Len(t, product.Images, 1)
	assert.NotEmpty(t, product.Images[0].ID)
}

func TestCreateProductRejectsBadMetadata(t *testing.T) {
	uc, _, _ := newProductFixture(t)
	ctx := context.Background()

	input := validProductInput()
	input.Category = "weapons"
	_, err := uc.CreateProduct(ctx, "seller", input)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	input = validProductInput()
	input.Condition = "destroyed"
	_, err = uc.CreateProduct(ctx, "seller", input)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestGetProductVisibility(t *testing.T) {
	uc, productRepo, _ := newProductFixture(t)
	ctx := context.Background()

	product, err := uc.CreateProduct(ctx, "seller", validProductInput())
	require.NoError(t, err)

	stored, _ := productRepo.GetByID(ctx, product.ID)
	stored.Status = entity.ProductStatusPaused
	require.NoError(t, productRepo.Update(ctx, stored))

	// Paused listings stay visible to their seller but nobody else.
	_, err = uc.GetProduct(ctx, product.ID, "seller")
	assert.NoError(t, err)

	_, err = uc.GetProduct(ctx, product.ID, "visitor")
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestUpdateProductOwnerOnly(t *testing.T) {
	uc, _, _ := newProductFixture(t)
	ctx := context.Background()

	product, err := uc.CreateProduct(ctx, "seller", validProductInput())
	require.NoError(t, err)

	_, err = uc.UpdateProduct(ctx, product.ID, "intruder", validProductInput())
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	input := validProductInput()
	input.Price = 199
	updated, err := uc.UpdateProduct(ctx, product.ID, "seller", input)
	require.NoError(t, err)
	assert.Equal(t, float64(199), updated.Price)
	// The unchanged image keeps its identity.
	assert.Equal(t, product.Images[0].ID, updated.Images[0].ID)
}

func TestUpdateSaleStatus(t *testing.T) {
	uc, _, _ := newProductFixture(t)
	ctx := context.Background()

	product, err := uc.CreateProduct(ctx, "seller", validProductInput())
	require.NoError(t, err)

	updated, err := uc.UpdateSaleStatus(ctx, product.ID, "seller", entity.SaleStatusSold)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusSold, updated.SaleStatus)

	_, err = uc.UpdateSaleStatus(ctx, product.ID, "seller", "gifted")
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestDeleteProductSoftDeletes(t *testing.T) {
	uc, productRepo, storage := newProductFixture(t)
	ctx := context.Background()

	product, err := uc.CreateProduct(ctx, "seller", validProductInput())
	require.NoError(t, err)

	require.NoError(t, uc.DeleteProduct(ctx, product.ID, "seller"))

	// The document survives with a deleted status.
	stored, err := productRepo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ProductStatusDeleted, stored.Status)

	assert.Equal(t, []string{"https://img.example.com/bike.jpg"}, storage.deleted)

	mine, err := uc.ListMyProducts(ctx, "seller")
	require.NoError(t, err)
	assert.Empty(t, mine)
}
