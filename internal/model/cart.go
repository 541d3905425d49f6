package model

import "github.com/shopspring/decimal"

// MaxItemQuantity bounds the quantity of a single cart line.
const MaxItemQuantity = 10000

// CartItem is a single line item. Name, price and image are snapshotted from
// the product when the line is first added.
type CartItem struct {
	ProductID int             `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
	Quantity  int             `json:"quantity"`
}

// Subtotal returns price times quantity for the line.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart holds at most one line item per product, in insertion order.
type Cart struct {
	Items []CartItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// NewCart returns an empty cart.
func NewCart() Cart {
	return Cart{
		Items: []CartItem{},
		Total: decimal.Zero,
	}
}

// Clone returns a deep copy so stored carts are never shared with callers.
func (c Cart) Clone() Cart {
	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items, Total: c.Total}
}

// FindItem returns the index of the line for productID, or -1.
func (c *Cart) FindItem(productID int) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// RemoveItem drops the line for productID if present.
func (c *Cart) RemoveItem(productID int) {
	kept := c.Items[:0]
	for _, item := range c.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	c.Items = kept
}

// Recalculate sets Total to the sum of all line subtotals.
func (c *Cart) Recalculate() {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	c.Total = total
}
