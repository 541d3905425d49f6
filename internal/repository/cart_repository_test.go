package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/model"
)

func TestCartRepository_GetDoesNotPersist(t *testing.T) {
	repo := NewCartRepository().(*cartRepository)
	ctx := context.Background()

	cart, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.NotNil(t, cart.Items)
	assert.True(t, cart.Total.IsZero())

	_, stored := repo.carts["u1"]
	assert.False(t, stored)
}

func TestCartRepository_SaveAndClear(t *testing.T) {
	repo := NewCartRepository()
	ctx := context.Background()

	cart := model.NewCart()
	cart.Items = append(cart.Items, model.CartItem{
		ProductID: 1,
		Name:      "Backpack",
		Price:     decimal.RequireFromString("49.99"),
		Quantity:  2,
	})
	cart.Recalculate()

	saved, err := repo.Save(ctx, "u1", cart)
	require.NoError(t, err)
	assert.Equal(t, "99.98", saved.Total.String())

	loaded, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, 2, loaded.Items[0].Quantity)

	other, err := repo.Get(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, other.Items)

	cleared, err := repo.Clear(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, cleared.Items)

	loaded, err = repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, loaded.Items)
	assert.True(t, loaded.Total.IsZero())
}

func TestCartRepository_IsolatesCallers(t *testing.T) {
	repo := NewCartRepository()
	ctx := context.Background()

	cart := model.NewCart()
	cart.Items = append(cart.Items, model.CartItem{ProductID: 1, Price: decimal.NewFromInt(10), Quantity: 1})
	cart.Recalculate()
	_, err := repo.Save(ctx, "u1", cart)
	require.NoError(t, err)

	cart.Items[0].Quantity = 99

	loaded, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	loaded.Items[0].Quantity = 42

	again, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Items[0].Quantity)
}
