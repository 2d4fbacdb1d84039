package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID        int
	SKU       string
	Name      string
	Price     *decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasPrice reports whether the product can be priced on an order line.
// Allocation rejects products without a price.
func (p Product) HasPrice() bool {
	return p.Price != nil
}
