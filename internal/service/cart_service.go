package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// ProductLookup resolves catalog products for the cart.
type ProductLookup interface {
	FindByID(ctx context.Context, id int) (*model.Product, error)
}

// CartService handles cart operations. Every mutation recomputes the total
// from the line items.
type CartService interface {
	GetCart(ctx context.Context, userID string) (model.Cart, error)
	AddItem(ctx context.Context, userID string, productID, quantity int) (model.Cart, error)
	UpdateQuantity(ctx context.Context, userID string, productID, quantity int) (model.Cart, error)
	RemoveItem(ctx context.Context, userID string, productID int) (model.Cart, error)
	ClearCart(ctx context.Context, userID string) (model.Cart, error)
}

type cartService struct {
	cartRepo  repository.CartRepository
	products  ProductLookup
	logger    *zap.Logger
	userLocks keyedMutex
}

// NewCartService creates a new cart service. Mutations for one user id are
// serialized so concurrent read-modify-write cycles cannot lose updates.
func NewCartService(cartRepo repository.CartRepository, products ProductLookup, logger *zap.Logger) CartService {
	return &cartService{
		cartRepo: cartRepo,
		products: products,
		logger:   logger,
	}
}

// GetCart returns the user's cart, empty if none exists yet.
func (s *cartService) GetCart(ctx context.Context, userID string) (model.Cart, error) {
	cart, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		return model.Cart{}, fmt.Errorf("get cart: %w", err)
	}
	return cart, nil
}

// AddItem increments the line for productID by quantity, creating the line
// from the current catalog entry when absent.
func (s *cartService) AddItem(ctx context.Context, userID string, productID, quantity int) (model.Cart, error) {
	if quantity < 1 {
		return model.Cart{}, apperrors.NewValidationError("Quantity must be a positive integer")
	}
	if quantity > model.MaxItemQuantity {
		return model.Cart{}, quantityTooLarge()
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Cart{}, apperrors.ErrProductNotFound
		}
		return model.Cart{}, fmt.Errorf("find product: %w", err)
	}

	return s.mutate(ctx, userID, func(cart *model.Cart) error {
		if idx := cart.FindItem(productID); idx >= 0 {
			if cart.Items[idx].Quantity > model.MaxItemQuantity-quantity {
				return quantityTooLarge()
			}
			cart.Items[idx].Quantity += quantity
			return nil
		}
		cart.Items = append(cart.Items, model.CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Image:     product.Image,
			Quantity:  quantity,
		})
		return nil
	})
}

// UpdateQuantity sets the quantity of an existing line. A quantity of zero or
// less removes the line.
func (s *cartService) UpdateQuantity(ctx context.Context, userID string, productID, quantity int) (model.Cart, error) {
	if quantity > model.MaxItemQuantity {
		return model.Cart{}, quantityTooLarge()
	}
	return s.mutate(ctx, userID, func(cart *model.Cart) error {
		idx := cart.FindItem(productID)
		if idx < 0 {
			return apperrors.ErrItemNotFound
		}
		if quantity <= 0 {
			cart.RemoveItem(productID)
			return nil
		}
		cart.Items[idx].Quantity = quantity
		return nil
	})
}

// RemoveItem drops the line for productID. Removing an absent line is a no-op.
func (s *cartService) RemoveItem(ctx context.Context, userID string, productID int) (model.Cart, error) {
	return s.mutate(ctx, userID, func(cart *model.Cart) error {
		cart.RemoveItem(productID)
		return nil
	})
}

// ClearCart empties the user's cart.
func (s *cartService) ClearCart(ctx context.Context, userID string) (model.Cart, error) {
	unlock := s.userLocks.Lock(userID)
	defer unlock()

	cart, err := s.cartRepo.Clear(ctx, userID)
	if err != nil {
		return model.Cart{}, fmt.Errorf("clear cart: %w", err)
	}
	s.logger.Debug("cart cleared", zap.String("user_id", userID))
	return cart, nil
}

func quantityTooLarge() error {
	return apperrors.NewValidationError(fmt.Sprintf("Quantity must be at most %d", model.MaxItemQuantity))
}

// mutate loads the cart, applies fn, recomputes the total and saves it, all
// under the user's lock. Nothing is saved when fn fails.
func (s *cartService) mutate(ctx context.Context, userID string, fn func(cart *model.Cart) error) (model.Cart, error) {
	unlock := s.userLocks.Lock(userID)
	defer unlock()

	cart, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		return model.Cart{}, fmt.Errorf("get cart: %w", err)
	}

	if err := fn(&cart); err != nil {
		return model.Cart{}, err
	}
	cart.Recalculate()

	saved, err := s.cartRepo.Save(ctx, userID, cart)
	if err != nil {
		return model.Cart{}, fmt.Errorf("save cart: %w", err)
	}

	s.logger.Debug("cart updated",
		zap.String("user_id", userID),
		zap.Int("items", len(saved.Items)),
		zap.String("total", saved.Total.String()),
	)
	return saved, nil
}
