package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airneis/airneis-api/internal/model"
)

func TestOrderRepository_CreateSnapshotsAndClearsBasket(t *testing.T) {
	cleanupTable(t, "order_products", "orders", "order_addresses", "user_basket", "products", "users")
	orderRepo := NewOrderRepository(testPool)
	basketRepo := NewBasketRepository(testPool)
	productRepo := NewProductRepository(testPool)

	user := seedTestUser(t, "orders@example.com")
	product := seedTestProduct(t, "chair-order")
	require.NoError(t, basketRepo.Insert(context.Background(), &model.BasketItem{
		UserID: user.ID, ProductID: product.ID, Quantity: 2,
	}))

	address := &model.OrderAddress{
		FirstName: "John", LastName: "Doe", Address1: "1 Main St",
		City: "Glasgow", Region: "Scotland", PostalCode: "G1 1AA",
		Country: "GB", Phone: "+44",
	}
	second := *address
	productID := product.ID
	order := &model.Order{
		UserID: user.ID, Status: model.OrderStatusPending,
		BillingAddress: address, ShippingAddress: &second,
		Products: []model.OrderProduct{{
			ProductID: &productID, Name: product.Name, Price: product.Price, Quantity: 2,
		}},
	}
	require.NoError(t, orderRepo.Create(context.Background(), order))
	assert.NotZero(t, order.ID)

	items, err := basketRepo.ListByUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, items, "order placement must clear the basket")

	// Catalog deletion nulls the line reference but keeps the copy.
	_, err = productRepo.Delete(context.Background(), product.ID)
	require.NoError(t, err)

	reloaded, err := orderRepo.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	require.Len(t, reloaded.Products, 1)
	assert.Nil(t, reloaded.Products[0].ProductID)
	assert.Equal(t, "Chair", reloaded.Products[0].Name)
	assert.True(t, reloaded.Products[0].Price.Equal(decimal.NewFromInt(50)))
}
