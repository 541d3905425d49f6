package repository

import (
	"context"
	"sync"

	"storefront/internal/model"
)

// CartRepository defines cart persistence operations keyed by user id.
type CartRepository interface {
	Get(ctx context.Context, userID string) (model.Cart, error)
	Save(ctx context.Context, userID string, cart model.Cart) (model.Cart, error)
	Clear(ctx context.Context, userID string) (model.Cart, error)
}

type cartRepository struct {
	mu    sync.RWMutex
	carts map[string]model.Cart
}

// NewCartRepository builds an in-memory cart repository.
func NewCartRepository() CartRepository {
	return &cartRepository{carts: make(map[string]model.Cart)}
}

// Get returns a copy of the stored cart, or an empty cart without storing it.
func (r *cartRepository) Get(ctx context.Context, userID string) (model.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[userID]
	if !ok {
		return model.NewCart(), nil
	}
	return cart.Clone(), nil
}

// Save replaces the stored cart wholesale.
func (r *cartRepository) Save(ctx context.Context, userID string, cart model.Cart) (model.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.carts[userID] = cart.Clone()
	return cart.Clone(), nil
}

// Clear stores an empty cart for the user.
func (r *cartRepository) Clear(ctx context.Context, userID string) (model.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.carts[userID] = model.NewCart()
	return model.NewCart(), nil
}
