package models

import "time"

const (
	// CategoryUncategorized is assigned to items whose category is unset or was deleted.
	CategoryUncategorized = "Uncategorized"
	// CategoryAll is the filter value that matches every item. It is never stored.
	CategoryAll = "All"

	PlaceholderImage = "https://picsum.photos/400/300"
)

type MenuItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       Money     `json:"price"`
	Category    string    `json:"category"`
	Image       string    `json:"image"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"created_at"`
}

type Category struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

// CartItem is a snapshot of a menu item taken when it was added to the cart.
type CartItem struct {
	MenuItem
	Quantity int `json:"quantity"`
}

// LineTotal is price × quantity.
func (ci CartItem) LineTotal() Money {
	return ci.Price * Money(ci.Quantity)
}
