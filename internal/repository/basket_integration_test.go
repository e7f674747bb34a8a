package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airneis/airneis-api/internal/model"
)

func seedTestProduct(t *testing.T, slug string) *model.Product {
	t.Helper()
	repo := NewProductRepository(testPool)
	product := &model.Product{
		Name: "Chair", Slug: slug, Price: decimal.NewFromInt(50), Stock: 10,
		Materials: []model.Material{}, Images: []model.Media{},
	}
	require.NoError(t, repo.Create(context.Background(), product))
	return product
}

func TestBasketRepository_UniquePerUserAndProduct(t *testing.T) {
	cleanupTable(t, "user_basket", "products", "users")
	repo := NewBasketRepository(testPool)
	user := seedTestUser(t, "basket@example.com")
	product := seedTestProduct(t, "chair-basket")

	err := repo.Insert(context.Background(), &model.BasketItem{
		UserID: user.ID, ProductID: product.ID, Quantity: 1,
	})
	require.NoError(t, err)

	// Second row for the same pair trips the constraint, not a silent
	// duplicate.
	err = repo.Insert(context.Background(), &model.BasketItem{
		UserID: user.ID, ProductID: product.ID, Quantity: 2,
	})
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestBasketRepository_UpdateAndClear(t *testing.T) {
	cleanupTable(t, "user_basket", "products", "users")
	repo := NewBasketRepository(testPool)
	user := seedTestUser(t, "basket@example.com")
	product := seedTestProduct(t, "chair-basket")

	require.NoError(t, repo.Insert(context.Background(), &model.BasketItem{
		UserID: user.ID, ProductID: product.ID, Quantity: 1,
	}))

	affected, err := repo.UpdateQuantity(context.Background(), user.ID, product.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	require.NoError(t, repo.Clear(context.Background(), user.ID))
	items, err := repo.ListByUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
