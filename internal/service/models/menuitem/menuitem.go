package menuitem

import (
	"github.com/shopspring/decimal"
)

// MenuItem represents a catalog entry.
type MenuItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    Category        `json:"category"`
	Image       string          `json:"image"`
}

// Filter returns the items of the given category, or all of them for CategoryAll and "".
func Filter(items []MenuItem, category string) []MenuItem {
	if category == "" || category == CategoryAll {
		return append([]MenuItem(nil), items...)
	}

	result := make([]MenuItem, 0, len(items))
	for _, item := range items {
		if item.Category.String() == category {
			result = append(result, item)
		}
	}

	return result
}
