package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/model"
)

// ProductFilter narrows a catalog listing. Empty fields match everything.
type ProductFilter struct {
	Category string
	Search   string
}

// ProductRepository defines read access to the catalog.
type ProductRepository interface {
	FindByID(ctx context.Context, id int) (*model.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]model.Product, error)
}

// productRepository is never written after construction, so concurrent reads
// need no locking.
type productRepository struct {
	products []model.Product
}

// NewProductRepository builds an in-memory catalog seeded with products.
func NewProductRepository(products []model.Product) ProductRepository {
	seeded := make([]model.Product, len(products))
	copy(seeded, products)
	return &productRepository{products: seeded}
}

// FindByID finds a product by id.
func (r *productRepository) FindByID(ctx context.Context, id int) (*model.Product, error) {
	for _, p := range r.products {
		if p.ID == id {
			product := p
			return &product, nil
		}
	}
	return nil, ErrNotFound
}

// List returns products whose category equals filter.Category and whose name
// or description contains filter.Search, both case-insensitively.
func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	category := strings.ToLower(filter.Category)
	search := strings.ToLower(filter.Search)

	products := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		if category != "" && strings.ToLower(p.Category) != category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

// LoadProducts reads a JSON array of products from path.
func LoadProducts(path string) ([]model.Product, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return ParseProducts(body)
}

// ParseProducts decodes a JSON array of products and rejects entries with a
// non-positive id or price as well as duplicate ids.
func ParseProducts(body []byte) ([]model.Product, error) {
	var products []model.Product
	if err := json.Unmarshal(body, &products); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	seen := make(map[int]struct{}, len(products))
	for _, p := range products {
		if p.ID <= 0 {
			return nil, fmt.Errorf("catalog product %q: id must be positive", p.Name)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("catalog product %d: duplicate id", p.ID)
		}
		if !p.Price.IsPositive() {
			return nil, fmt.Errorf("catalog product %d: price must be positive", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return products, nil
}

// DefaultProducts returns the built-in catalog.
func DefaultProducts() []model.Product {
	return []model.Product{
		{
			ID:          1,
			Name:        "Wireless Headphones",
			Description: "High-quality wireless headphones with noise cancellation",
			Price:       decimal.RequireFromString("99.99"),
			Image:       "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=300",
			Category:    "Electronics",
			Stock:       50,
		},
		{
			ID:          2,
			Name:        "Smart Watch",
			Description: "Feature-rich smartwatch with health tracking",
			Price:       decimal.RequireFromString("199.99"),
			Image:       "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=300",
			Category:    "Electronics",
			Stock:       30,
		},
		{
			ID:          3,
			Name:        "Running Shoes",
			Description: "Comfortable running shoes for athletes",
			Price:       decimal.RequireFromString("79.99"),
			Image:       "https://images.unsplash.com/photo-1542291026-7eec264c27ff?w=300",
			Category:    "Sports",
			Stock:       100,
		},
		{
			ID:          4,
			Name:        "Backpack",
			Description: "Durable backpack for everyday use",
			Price:       decimal.RequireFromString("49.99"),
			Image:       "https://images.unsplash.com/photo-1553062407-98eeb64c6a62?w=300",
			Category:    "Accessories",
			Stock:       75,
		},
		{
			ID:          5,
			Name:        "Sunglasses",
			Description: "Stylish sunglasses with UV protection",
			Price:       decimal.RequireFromString("29.99"),
			Image:       "https://images.unsplash.com/photo-1572635196237-14b3f281503f?w=300",
			Category:    "Accessories",
			Stock:       200,
		},
		{
			ID:          6,
			Name:        "Coffee Mug",
			Description: "Insulated coffee mug keeps drinks hot",
			Price:       decimal.RequireFromString("14.99"),
			Image:       "https://images.unsplash.com/photo-1514228742587-6b1558fcca3d?w=300",
			Category:    "Home",
			Stock:       150,
		},
	}
}
