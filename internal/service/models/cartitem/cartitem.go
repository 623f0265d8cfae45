package cartitem

import (
	"github.com/corray333/atlas-cafe/internal/service/models/menuitem"
	"github.com/shopspring/decimal"
)

// CartItem represents a menu item selected into the cart together with its quantity.
type CartItem struct {
	menuitem.MenuItem
	Quantity int `json:"quantity"`
}

// Subtotal returns price multiplied by quantity.
func (c CartItem) Subtotal() decimal.Decimal {
	return c.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// Total sums the subtotals of all items.
func Total(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}

	return total
}
