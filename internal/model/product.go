package model

import "github.com/shopspring/decimal"

// Product represents a catalog entry.
type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
}
