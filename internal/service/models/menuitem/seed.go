package menuitem

import "github.com/shopspring/decimal"

// Seed returns the catalog every new session starts with.
func Seed() []MenuItem {
	return []MenuItem{
		{
			ID:          "1",
			Name:        "Atlas Mint Tea",
			Description: "Traditional Moroccan mint tea, served hot and sweet.",
			Price:       decimal.NewFromInt(15),
			Category:    CategoryCoffee,
			Image:       "https://picsum.photos/400/300?random=1",
		},
		{
			ID:          "2",
			Name:        "Casablanca Coffee",
			Description: "Strong espresso with a touch of milk and spices.",
			Price:       decimal.NewFromInt(20),
			Category:    CategoryCoffee,
			Image:       "https://picsum.photos/400/300?random=2",
		},
		{
			ID:          "3",
			Name:        "Tajine Burger",
			Description: "Spiced beef patty with preserved lemon sauce and olives.",
			Price:       decimal.NewFromInt(65),
			Category:    CategoryFood,
			Image:       "https://picsum.photos/400/300?random=3",
		},
		{
			ID:          "4",
			Name:        "Marrakech Panini",
			Description: "Grilled chicken, harissa mayo, and melted cheese.",
			Price:       decimal.NewFromInt(45),
			Category:    CategoryFood,
			Image:       "https://picsum.photos/400/300?random=4",
		},
		{
			ID:          "5",
			Name:        "Gazelle Horns",
			Description: "Almond pastry coated in orange blossom water.",
			Price:       decimal.NewFromInt(12),
			Category:    CategoryDessert,
			Image:       "https://picsum.photos/400/300?random=5",
		},
		{
			ID:          "6",
			Name:        "AFCON Victory Combo",
			Description: "2 Burgers, 2 Fries, and 2 Drinks for the match.",
			Price:       decimal.NewFromInt(120),
			Category:    CategoryCombo,
			Image:       "https://picsum.photos/400/300?random=6",
		},
	}
}
