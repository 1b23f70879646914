package services

import (
	"context"
	"fmt"
	"strings"

	"waiter-telegram/models"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// CatalogStore is the data-access layer for menu items, categories and the
// settings row. Multi-step operations (rename, delete, reorder) are atomic.
type CatalogStore interface {
	// SeedIfEmpty inserts the default menu and its categories when there are no items.
	SeedIfEmpty(ctx context.Context) (bool, error)
	Menu(ctx context.Context) ([]models.MenuItem, error)
	Categories(ctx context.Context) ([]models.Category, error)
	UpsertItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error)
	DeleteItem(ctx context.Context, id string) error
	AddCategory(ctx context.Context, name string) (models.Category, error)
	RenameCategory(ctx context.Context, oldName, newName string) error
	DeleteCategory(ctx context.Context, name string) error
	// ReorderCategories sets each category's sort_order to its index in ids.
	ReorderCategories(ctx context.Context, ids []int64) error
	// Settings returns the settings row, inserting defaults when it is missing.
	Settings(ctx context.Context) (models.Settings, error)
	SaveSettings(ctx context.Context, s models.Settings) (models.Settings, error)
	Ping(ctx context.Context) error
}

// Catalog is one consistent read of everything the waiter screen needs.
type Catalog struct {
	Items      []models.MenuItem
	Categories []models.Category
	Settings   models.Settings
}

// FetchCatalog seeds an empty store, then loads items, categories and settings
// with three concurrent reads.
func FetchCatalog(ctx context.Context, store CatalogStore) (*Catalog, error) {
	if _, err := store.SeedIfEmpty(ctx); err != nil {
		return nil, WrapStoreError("seed catalog", err)
	}

	var c Catalog
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := store.Menu(gctx)
		if err != nil {
			return WrapStoreError("list menu", err)
		}
		c.Items = items
		return nil
	})
	g.Go(func() error {
		cats, err := store.Categories(gctx)
		if err != nil {
			return WrapStoreError("list categories", err)
		}
		c.Categories = cats
		return nil
	})
	g.Go(func() error {
		s, err := store.Settings(gctx)
		if err != nil {
			return WrapStoreError("get settings", err)
		}
		c.Settings = s
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &c, nil
}

// NormalizeItem validates an item coming from the admin form and fills in the
// defaults: a fresh id, a known category and a placeholder image.
func NormalizeItem(item models.MenuItem, categories []models.Category) (models.MenuItem, error) {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return item, fmt.Errorf("%w: name is required", ErrInvalidItem)
	}
	if item.Price < 0 {
		return item, fmt.Errorf("%w: price must be >= 0", ErrInvalidItem)
	}
	if item.Price > MaxItemPrice {
		return item, fmt.Errorf("%w: price must be at most %s", ErrInvalidItem, MaxItemPrice)
	}
	item.ID = strings.TrimSpace(item.ID)
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.Description = strings.TrimSpace(item.Description)
	item.Category = ResolveCategory(strings.TrimSpace(item.Category), categories)
	item.Image = strings.TrimSpace(item.Image)
	if item.Image == "" {
		item.Image = fmt.Sprintf("%s?random=%s", models.PlaceholderImage, item.ID)
	}
	return item, nil
}

// ResolveCategory maps name onto a known category. An empty name takes the
// first category; an unknown one becomes Uncategorized.
func ResolveCategory(name string, categories []models.Category) string {
	if name == "" {
		if len(categories) > 0 {
			return categories[0].Name
		}
		return models.CategoryUncategorized
	}
	for _, c := range categories {
		if c.Name == name {
			return name
		}
	}
	return models.CategoryUncategorized
}

// ValidateCategoryName trims name and rejects empty and reserved names.
func ValidateCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidCategory)
	}
	if strings.EqualFold(name, models.CategoryAll) || strings.EqualFold(name, models.CategoryUncategorized) {
		return "", fmt.Errorf("%w: %q", ErrCategoryReserved, name)
	}
	return name, nil
}

// validateOrder rejects an order list that names a category twice.
func validateOrder(ids []int64) error {
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return fmt.Errorf("%w: category %d listed twice", ErrInvalidCategory, id)
		}
		seen[id] = true
	}
	return nil
}
