package service

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// MockCartRepository is a mock implementation of CartRepository.
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) Get(ctx context.Context, userID string) (model.Cart, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.Cart), args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, userID string, cart model.Cart) (model.Cart, error) {
	args := m.Called(ctx, userID, cart)
	return args.Get(0).(model.Cart), args.Error(1)
}

func (m *MockCartRepository) Clear(ctx context.Context, userID string) (model.Cart, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.Cart), args.Error(1)
}

func testCatalog() repository.ProductRepository {
	return repository.NewProductRepository([]model.Product{
		{ID: 1, Name: "Notebook", Price: decimal.RequireFromString("10.00"), Image: "notebook.png", Category: "Office"},
		{ID: 2, Name: "Pen", Price: decimal.RequireFromString("1.25"), Category: "Office"},
		{ID: 3, Name: "Lamp", Price: decimal.RequireFromString("24.99"), Category: "Home"},
	})
}

func newTestCartService() CartService {
	return NewCartService(repository.NewCartRepository(), testCatalog(), zap.NewNop())
}

// assertTotal checks that the cart total equals the sum of its line subtotals.
func assertTotal(t *testing.T, cart model.Cart) {
	t.Helper()
	expected := decimal.Zero
	for _, item := range cart.Items {
		expected = expected.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	assert.True(t, expected.Equal(cart.Total), "total %s, expected %s", cart.Total, expected)
}

func TestCartService_AddItemIncrements(t *testing.T) {
	service := newTestCartService()
	ctx := context.Background()

	_, err := service.AddItem(ctx, "u1", 3, 1)
	require.NoError(t, err)
	cart, err := service.AddItem(ctx, "u1", 3, 2)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, "74.97", cart.Total.String())
	assertTotal(t, cart)
}

func TestCartService_AddItemSnapshotsProduct(t *testing.T) {
	service := newTestCartService()

	cart, err := service.AddItem(context.Background(), "u1", 1, 1)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, model.CartItem{
		ProductID: 1,
		Name:      "Notebook",
		Price:     decimal.RequireFromString("10.00"),
		Image:     "notebook.png",
		Quantity:  1,
	}, cart.Items[0])
}

func TestCartService_AddItemErrors(t *testing.T) {
	service := newTestCartService()
	ctx := context.Background()

	tests := []struct {
		name          string
		productID     int
		quantity      int
		expectedError error
	}{
		{name: "unknown product", productID: 42, quantity: 1, expectedError: apperrors.ErrProductNotFound},
		{name: "zero quantity", productID: 1, quantity: 0, expectedError: apperrors.ErrValidation},
		{name: "negative quantity", productID: 1, quantity: -3, expectedError: apperrors.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.AddItem(ctx, "u1", tt.productID, tt.quantity)
			assert.ErrorIs(t, err, tt.expectedError)
		})
	}

	cart, err := service.GetCart(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartService_QuantityIsBounded(t *testing.T) {
	service := newTestCartService()
	ctx := context.Background()

	for _, quantity := range []int{model.MaxItemQuantity + 1, math.MaxInt} {
		_, err := service.AddItem(ctx, "u1", 1, quantity)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	}

	cart, err := service.AddItem(ctx, "u1", 1, model.MaxItemQuantity)
	require.NoError(t, err)
	assert.Equal(t, model.MaxItemQuantity, cart.Items[0].Quantity)

	// Accumulating past the bound is rejected and leaves the line unchanged.
	_, err = service.AddItem(ctx, "u1", 1, 1)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.EqualError(t, err, "Quantity must be at most 10000")

	_, err = service.UpdateQuantity(ctx, "u1", 1, math.MaxInt)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	cart, err = service.GetCart(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, model.MaxItemQuantity, cart.Items[0].Quantity)
	assert.Equal(t, "100000", cart.Total.String())
	assertTotal(t, cart)
}

func TestCartService_UpdateQuantity(t *testing.T) {
	service := newTestCartService()
	ctx := context.Background()

	_, err := service.AddItem(ctx, "u1", 1, 1)
	require.NoError(t, err)

	cart, err := service.UpdateQuantity(ctx, "u1", 1, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, cart.Items[0].Quantity, "update sets, it does not increment")
	assertTotal(t, cart)

	cart, err = service.UpdateQuantity(ctx, "u1", 1, 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.Total.IsZero())

	_, err = service.UpdateQuantity(ctx, "u1", 1, 5)
	assert.ErrorIs(t, err, apperrors.ErrItemNotFound)
}

func TestCartService_UpdateQuantityNegativeRemoves(t *testing.T) {
	service := newTestCartService()
	ctx := context.Background()

	_, err := service.AddItem(ctx, "u1", 1, 1)
	require.NoError(t, err)
	_, err = service.AddItem(ctx, "u1", 2, 2)
	require.NoError(t, err)

	cart, err := service.UpdateQuantity(ctx, "u1", 1, -1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].ProductID)
	assertTotal(t, cart)
}

func TestCartService_RemoveItemIsIdempotent(t *testing.T) {
	service := newTestCartService()
	ctx := context.Background()

	before, err := service.AddItem(ctx, "u1", 2, 3)
	require.NoError(t, err)

	after, err := service.RemoveItem(ctx, "u1", 3)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	emptied, err := service.RemoveItem(ctx, "u1", 2)
	require.NoError(t, err)
	assert.Empty(t, emptied.Items)

	again, err := service.RemoveItem(ctx, "u1", 2)
	require.NoError(t, err)
	assert.Equal(t, emptied, again)
}

func TestCartService_WorkedExample(t *testing.T) {
	service := newTestCartService()
	ctx := context.Background()

	cart, err := service.AddItem(ctx, "u1", 1, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.True(t, cart.Total.Equal(decimal.RequireFromString("20.00")))

	cart, err = service.UpdateQuantity(ctx, "u1", 1, 1)
	require.NoError(t, err)
	assert.True(t, cart.Total.Equal(decimal.RequireFromString("10.00")))

	cart, err = service.RemoveItem(ctx, "u1", 1)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.Total.IsZero())
}

func TestCartService_TotalInvariant(t *testing.T) {
	service := newTestCartService()
	ctx := context.Background()

	steps := []struct {
		op        string
		productID int
		quantity  int
	}{
		{"add", 1, 1},
		{"add", 2, 7},
		{"add", 3, 2},
		{"add", 1, 5},
		{"update", 2, 3},
		{"remove", 3, 0},
		{"add", 3, 1},
		{"update", 1, 0},
		{"remove", 1, 0},
		{"add", 2, 1},
	}

	for _, step := range steps {
		var (
			cart model.Cart
			err  error
		)
		switch step.op {
		case "add":
			cart, err = service.AddItem(ctx, "u1", step.productID, step.quantity)
		case "update":
			cart, err = service.UpdateQuantity(ctx, "u1", step.productID, step.quantity)
		case "remove":
			cart, err = service.RemoveItem(ctx, "u1", step.productID)
		}
		require.NoError(t, err, "%s %d", step.op, step.productID)
		assertTotal(t, cart)
	}

	cart, err := service.GetCart(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, 2, cart.Items[0].ProductID)
	assert.Equal(t, 4, cart.Items[0].Quantity)
	assert.Equal(t, "29.99", cart.Total.String())
}

func TestCartService_CartsAreIsolatedPerUser(t *testing.T) {
	service := newTestCartService()
	ctx := context.Background()

	_, err := service.AddItem(ctx, "u1", 1, 1)
	require.NoError(t, err)

	other, err := service.GetCart(ctx, "never-signed-up")
	require.NoError(t, err)
	assert.Empty(t, other.Items)

	cleared, err := service.ClearCart(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, cleared.Items)
	assert.True(t, cleared.Total.IsZero())
}

func TestCartService_ConcurrentAddsKeepEveryIncrement(t *testing.T) {
	service := newTestCartService()
	ctx := context.Background()

	const adds = 50
	var wg sync.WaitGroup
	for i := 0; i < adds; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.AddItem(ctx, "u1", 2, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	cart, err := service.GetCart(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, adds, cart.Items[0].Quantity)
	assertTotal(t, cart)
}

func TestCartService_RepositoryFailure(t *testing.T) {
	mockRepo := new(MockCartRepository)
	mockRepo.On("Get", mock.Anything, "u1").Return(model.Cart{}, errors.New("store offline"))

	service := NewCartService(mockRepo, testCatalog(), zap.NewNop())

	_, err := service.AddItem(context.Background(), "u1", 1, 1)
	assert.EqualError(t, err, "get cart: store offline")
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestCartService_FailedMutationIsNotSaved(t *testing.T) {
	mockRepo := new(MockCartRepository)
	mockRepo.On("Get", mock.Anything, "u1").Return(model.NewCart(), nil)

	service := NewCartService(mockRepo, testCatalog(), zap.NewNop())

	_, err := service.UpdateQuantity(context.Background(), "u1", 1, 2)
	assert.ErrorIs(t, err, apperrors.ErrItemNotFound)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}
