package service

import (
	"context"
	"errors"
	"fmt"

	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// ProductService exposes the read-only catalog.
type ProductService interface {
	ListProducts(ctx context.Context, category, search string) ([]model.Product, error)
	GetProduct(ctx context.Context, id int) (*model.Product, error)
}

type productService struct {
	repo repository.ProductRepository
}

// NewProductService builds a ProductService over the catalog repository.
func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{repo: repo}
}

func (s *productService) ListProducts(ctx context.Context, category, search string) ([]model.Product, error) {
	return s.repo.List(ctx, repository.ProductFilter{Category: category, Search: search})
}

func (s *productService) GetProduct(ctx context.Context, id int) (*model.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return product, nil
}
