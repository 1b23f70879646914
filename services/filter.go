package services

import (
	"strings"

	"waiter-telegram/models"
)

// FilterItems keeps items matching the category (or every item for "All" and
// "") whose name contains search, ignoring case. Order is preserved.
func FilterItems(items []models.MenuItem, f models.Filter) []models.MenuItem {
	q := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]models.MenuItem, 0, len(items))
	for _, it := range items {
		if f.Category != "" && f.Category != models.CategoryAll && it.Category != f.Category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(it.Name), q) {
			continue
		}
		out = append(out, it)
	}
	return out
}
