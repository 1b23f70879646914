package services

import (
	"context"
	"errors"
	"testing"

	"waiter-telegram/models"
)

func seededMemory(t *testing.T) *MemoryCatalog {
	t.Helper()
	m := NewMemoryCatalog(models.Settings{})
	seeded, err := m.SeedIfEmpty(context.Background())
	if err != nil || !seeded {
		t.Fatalf("SeedIfEmpty = %v, %v", seeded, err)
	}
	return m
}

func itemsIn(items []models.MenuItem, category string) int {
	n := 0
	for _, it := range items {
		if it.Category == category {
			n++
		}
	}
	return n
}

func hasCategory(cats []models.Category, name string) bool {
	for _, c := range cats {
		if c.Name == name {
			return true
		}
	}
	return false
}

func TestMemorySeedOnlyOnce(t *testing.T) {
	ctx := context.Background()
	m := seededMemory(t)
	if _, err := m.UpsertItem(ctx, models.MenuItem{ID: "x", Name: "Soup", Category: "Starters"}); err != nil {
		t.Fatal(err)
	}
	seeded, err := m.SeedIfEmpty(ctx)
	if err != nil || seeded {
		t.Errorf("second SeedIfEmpty = %v, %v; want false", seeded, err)
	}
	items, _ := m.Menu(ctx)
	if len(items) != 7 {
		t.Errorf("len(items) = %d, want 7", len(items))
	}
	if items[6].ID != "x" {
		t.Errorf("new item should be listed last, got %s", items[6].ID)
	}
}

func TestMemoryRenameCategoryCascades(t *testing.T) {
	ctx := context.Background()
	m := seededMemory(t)
	before, _ := m.Menu(ctx)
	n := itemsIn(before, "Mains")
	if n != 2 {
		t.Fatalf("seed has %d Mains, want 2", n)
	}

	if err := m.RenameCategory(ctx, "Mains", "Entrees"); err != nil {
		t.Fatalf("RenameCategory: %v", err)
	}
	items, _ := m.Menu(ctx)
	cats, _ := m.Categories(ctx)
	if got := itemsIn(items, "Entrees"); got != n {
		t.Errorf("Entrees items = %d, want %d", got, n)
	}
	if itemsIn(items, "Mains") != 0 || hasCategory(cats, "Mains") {
		t.Error("old name still present")
	}
	if !hasCategory(cats, "Entrees") {
		t.Error("renamed category missing")
	}
}

func TestMemoryRenameCategoryErrors(t *testing.T) {
	ctx := context.Background()
	m := seededMemory(t)
	if err := m.RenameCategory(ctx, "Breakfast", "Brunch"); !errors.Is(err, ErrCategoryNotFound) {
		t.Errorf("unknown old name: err = %v", err)
	}
	if err := m.RenameCategory(ctx, "Mains", "Sides"); !errors.Is(err, ErrCategoryExists) {
		t.Errorf("clash: err = %v", err)
	}
	items, _ := m.Menu(ctx)
	if itemsIn(items, "Mains") != 2 {
		t.Error("failed rename must not touch items")
	}
}

func TestMemoryDeleteCategoryReassigns(t *testing.T) {
	ctx := context.Background()
	m := seededMemory(t)
	if err := m.DeleteCategory(ctx, "Mains"); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	items, _ := m.Menu(ctx)
	cats, _ := m.Categories(ctx)
	if hasCategory(cats, "Mains") {
		t.Error("category still listed")
	}
	if itemsIn(items, "Mains") != 0 || itemsIn(items, models.CategoryUncategorized) != 2 {
		t.Errorf("items not reassigned: %+v", items)
	}
	if err := m.DeleteCategory(ctx, "Mains"); !errors.Is(err, ErrCategoryNotFound) {
		t.Errorf("second delete err = %v", err)
	}
}

func TestMemoryReorderCategories(t *testing.T) {
	ctx := context.Background()
	m := seededMemory(t)
	cats, _ := m.Categories(ctx)

	// reverse the list
	ids := make([]int64, len(cats))
	for i, c := range cats {
		ids[len(cats)-1-i] = c.ID
	}
	if err := m.ReorderCategories(ctx, ids); err != nil {
		t.Fatalf("ReorderCategories: %v", err)
	}
	got, _ := m.Categories(ctx)
	for i, c := range got {
		if c.ID != ids[i] || c.SortOrder != i {
			t.Errorf("position %d = %+v, want id %d sort_order %d", i, c, ids[i], i)
		}
	}
}

func TestMemoryReorderRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	m := seededMemory(t)
	before, _ := m.Categories(ctx)

	if err := m.ReorderCategories(ctx, []int64{before[1].ID, 999}); !errors.Is(err, ErrCategoryNotFound) {
		t.Errorf("unknown id: err = %v", err)
	}
	if err := m.ReorderCategories(ctx, []int64{before[1].ID, before[1].ID}); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("duplicate id: err = %v", err)
	}
	after, _ := m.Categories(ctx)
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("failed reorder changed %+v to %+v", before[i], after[i])
		}
	}
}

func TestMemoryAddCategoryAppends(t *testing.T) {
	ctx := context.Background()
	m := seededMemory(t)
	c, err := m.AddCategory(ctx, "Specials")
	if err != nil {
		t.Fatal(err)
	}
	if c.SortOrder != 5 {
		t.Errorf("sort_order = %d, want 5", c.SortOrder)
	}
	if _, err := m.AddCategory(ctx, "Specials"); !errors.Is(err, ErrCategoryExists) {
		t.Errorf("duplicate err = %v", err)
	}
	cats, _ := m.Categories(ctx)
	if cats[len(cats)-1].Name != "Specials" {
		t.Errorf("new category should be last: %+v", cats)
	}
}

func TestMemorySettingsSeededAndReplaced(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryCatalog(models.Settings{RestaurantName: "Chez Nous"})
	s, err := m.Settings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if s.RestaurantName != "Chez Nous" || s.Currency != "$" {
		t.Errorf("seeded settings = %+v", s)
	}
	s.TelegramChatID = "-100"
	if _, err := m.SaveSettings(ctx, s); err != nil {
		t.Fatal(err)
	}
	got, _ := m.Settings(ctx)
	if got != s {
		t.Errorf("settings = %+v, want %+v", got, s)
	}
}

func TestFetchCatalogSeedsEmptyStore(t *testing.T) {
	m := NewMemoryCatalog(models.Settings{})
	c, err := FetchCatalog(context.Background(), m)
	if err != nil {
		t.Fatalf("FetchCatalog: %v", err)
	}
	if len(c.Items) != 6 || len(c.Categories) != 5 {
		t.Errorf("got %d items, %d categories", len(c.Items), len(c.Categories))
	}
	if c.Settings.RestaurantName != "Gourmet Bistro" {
		t.Errorf("settings = %+v", c.Settings)
	}
}

func TestNormalizeItem(t *testing.T) {
	cats := []models.Category{{ID: 1, Name: "Mains"}, {ID: 2, Name: "Sides"}}

	it, err := NormalizeItem(models.MenuItem{Name: "  Soup ", Price: 500}, cats)
	if err != nil {
		t.Fatal(err)
	}
	if it.ID == "" || it.Name != "Soup" || it.Category != "Mains" || it.Image == "" {
		t.Errorf("normalized = %+v", it)
	}

	it, _ = NormalizeItem(models.MenuItem{ID: "7", Name: "Soup", Category: "Gone"}, cats)
	if it.Category != models.CategoryUncategorized || it.ID != "7" {
		t.Errorf("unknown category = %+v", it)
	}

	it, _ = NormalizeItem(models.MenuItem{Name: "Soup"}, nil)
	if it.Category != models.CategoryUncategorized {
		t.Errorf("no categories: %q", it.Category)
	}

	if _, err := NormalizeItem(models.MenuItem{Name: " "}, cats); !errors.Is(err, ErrInvalidItem) {
		t.Errorf("blank name err = %v", err)
	}
	if _, err := NormalizeItem(models.MenuItem{Name: "Soup", Price: MaxItemPrice + 1}, cats); !errors.Is(err, ErrInvalidItem) {
		t.Errorf("price above the cap err = %v", err)
	}
	if _, err := NormalizeItem(models.MenuItem{Name: "Soup", Price: -1}, cats); !errors.Is(err, ErrInvalidItem) {
		t.Errorf("negative price err = %v", err)
	}
}

func TestValidateCategoryName(t *testing.T) {
	if got, err := ValidateCategoryName("  Brunch "); err != nil || got != "Brunch" {
		t.Errorf("ValidateCategoryName = %q, %v", got, err)
	}
	if _, err := ValidateCategoryName("all"); !errors.Is(err, ErrCategoryReserved) {
		t.Errorf("All err = %v", err)
	}
	if _, err := ValidateCategoryName("Uncategorized"); !errors.Is(err, ErrCategoryReserved) {
		t.Errorf("Uncategorized err = %v", err)
	}
	if _, err := ValidateCategoryName(""); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("empty err = %v", err)
	}
}
