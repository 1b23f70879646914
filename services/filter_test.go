package services

import (
	"testing"

	"waiter-telegram/models"
)

func TestFilterItems(t *testing.T) {
	items := DefaultMenu()
	tests := []struct {
		name   string
		filter models.Filter
		want   []string
	}{
		{"all", models.Filter{Category: models.CategoryAll}, []string{"1", "2", "3", "4", "5", "6"}},
		{"empty filter", models.Filter{}, []string{"1", "2", "3", "4", "5", "6"}},
		{"category", models.Filter{Category: "Mains"}, []string{"1", "4"}},
		{"search ignores case", models.Filter{Category: models.CategoryAll, Search: "FRIES"}, []string{"2"}},
		{"category and search", models.Filter{Category: "Mains", Search: "salmon"}, []string{"4"}},
		{"search misses category", models.Filter{Category: "Drinks", Search: "salmon"}, nil},
		{"unknown category", models.Filter{Category: "Breakfast"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterItems(items, tt.filter)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d items, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("item %d = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}
