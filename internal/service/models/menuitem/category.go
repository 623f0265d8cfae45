package menuitem

import (
	"errors"
)

// Category groups menu items on the menu page.
type Category string

const (
	CategoryCoffee  Category = "coffee"
	CategoryFood    Category = "food"
	CategoryDessert Category = "dessert"
	CategoryCombo   Category = "combo"
)

// CategoryAll is the pseudo category used by filters to select the whole catalog.
const CategoryAll = "all"

var ErrInvalidCategory = errors.New("invalid category")

func (c Category) String() string {
	return string(c)
}

func ParseCategory(s string) (Category, error) {
	switch s {
	case CategoryCoffee.String():
		return CategoryCoffee, nil
	case CategoryFood.String():
		return CategoryFood, nil
	case CategoryDessert.String():
		return CategoryDessert, nil
	case CategoryCombo.String():
		return CategoryCombo, nil
	default:
		return "", ErrInvalidCategory
	}
}

// CategoryLabel is a filter tab shown above the menu.
type CategoryLabel struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Labels returns the filter tabs in display order.
func Labels() []CategoryLabel {
	return []CategoryLabel{
		{ID: CategoryAll, Label: "All"},
		{ID: CategoryCombo.String(), Label: "Match Combos"},
		{ID: CategoryFood.String(), Label: "Food"},
		{ID: CategoryCoffee.String(), Label: "Drinks"},
		{ID: CategoryDessert.String(), Label: "Sweets"},
	}
}
