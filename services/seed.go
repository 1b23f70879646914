package services

import (
	"fmt"

	"waiter-telegram/models"
)

// DefaultMenu is inserted the first time the catalog is read from an empty store.
func DefaultMenu() []models.MenuItem {
	img := func(n int) string { return fmt.Sprintf("%s?random=%d", models.PlaceholderImage, n) }
	return []models.MenuItem{
		{ID: "1", Name: "Classic Cheeseburger", Description: "Angus beef patty, cheddar, lettuce, tomato, house sauce.", Price: 1299, Category: "Mains", Image: img(1), Available: true},
		{ID: "2", Name: "Truffle Fries", Description: "Crispy shoestring fries tossed in truffle oil and parmesan.", Price: 650, Category: "Sides", Image: img(2), Available: true},
		{ID: "3", Name: "Caesar Salad", Description: "Romaine hearts, garlic croutons, shaved parmesan.", Price: 1000, Category: "Starters", Image: img(3), Available: true},
		{ID: "4", Name: "Grilled Salmon", Description: "Fresh salmon fillet with asparagus and lemon butter.", Price: 1850, Category: "Mains", Image: img(4), Available: true},
		{ID: "5", Name: "Chocolate Lava Cake", Description: "Warm chocolate cake with a molten center, served with vanilla ice cream.", Price: 800, Category: "Desserts", Image: img(5), Available: true},
		{ID: "6", Name: "Iced Lemon Tea", Description: "House-brewed black tea with fresh lemon slices.", Price: 450, Category: "Drinks", Image: img(6), Available: true},
	}
}

// DefaultCategories derives the category list from items: distinct names in
// order of first appearance, sort_order = that position.
func DefaultCategories(items []models.MenuItem) []models.Category {
	seen := make(map[string]bool)
	var cats []models.Category
	for _, it := range items {
		if it.Category == "" || seen[it.Category] {
			continue
		}
		seen[it.Category] = true
		cats = append(cats, models.Category{Name: it.Category, SortOrder: len(cats)})
	}
	return cats
}

// DefaultSettings fills the blanks of base with the built-in defaults.
func DefaultSettings(base models.Settings) models.Settings {
	if base.RestaurantName == "" {
		base.RestaurantName = "Gourmet Bistro"
	}
	if base.Currency == "" {
		base.Currency = "$"
	}
	return base
}
