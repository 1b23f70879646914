package app

import (
	"context"
	"errors"
	"strings"

	"waiter-telegram/models"
	"waiter-telegram/services"
)

var ErrInvalidDirection = errors.New("direction must be up or down")

// SaveItem normalises item against the cached categories and upserts it.
func (s *State) SaveItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveItemLocked(ctx, item)
}

// UpdateItem is SaveItem for an item that must already exist.
func (s *State) UpdateItem(ctx context.Context, id string, item models.MenuItem) (models.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.itemLocked(id); !ok {
		return models.MenuItem{}, services.ErrItemNotFound
	}
	item.ID = id
	return s.saveItemLocked(ctx, item)
}

func (s *State) saveItemLocked(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	item, err := services.NormalizeItem(item, s.categories)
	if err != nil {
		return models.MenuItem{}, err
	}
	saved, err := s.store.UpsertItem(ctx, item)
	if err := s.afterMutationLocked(ctx, "upsert item", err); err != nil {
		return models.MenuItem{}, err
	}
	s.logger.Infow("menu item saved", "id", saved.ID, "name", saved.Name)
	return saved, nil
}

func (s *State) DeleteItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.store.DeleteItem(ctx, id)
	return s.afterMutationLocked(ctx, "delete item", err)
}

// ToggleAvailability flips the item's sold-out flag.
func (s *State) ToggleAvailability(ctx context.Context, id string) (models.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.itemLocked(id)
	if !ok {
		return models.MenuItem{}, services.ErrItemNotFound
	}
	it.Available = !it.Available
	saved, err := s.store.UpsertItem(ctx, it)
	if err := s.afterMutationLocked(ctx, "toggle availability", err); err != nil {
		return models.MenuItem{}, err
	}
	return saved, nil
}

func (s *State) AddCategory(ctx context.Context, name string) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, err := services.ValidateCategoryName(name)
	if err != nil {
		return models.Category{}, err
	}
	c, err := s.store.AddCategory(ctx, name)
	if err := s.afterMutationLocked(ctx, "add category", err); err != nil {
		return models.Category{}, err
	}
	return c, nil
}

// RenameCategory renames the category and moves its items. A waiter filter on
// the old name follows the rename.
func (s *State) RenameCategory(ctx context.Context, oldName, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	newName, err := services.ValidateCategoryName(newName)
	if err != nil {
		return err
	}
	err = s.store.RenameCategory(ctx, oldName, newName)
	if err := s.afterMutationLocked(ctx, "rename category", err); err != nil {
		return err
	}
	if s.filter.Category == oldName {
		s.filter.Category = newName
	}
	s.logger.Infow("category renamed", "from", oldName, "to", newName)
	return nil
}

// DeleteCategory removes the category; its items become Uncategorized.
func (s *State) DeleteCategory(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.store.DeleteCategory(ctx, name)
	if err := s.afterMutationLocked(ctx, "delete category", err); err != nil {
		return err
	}
	if s.filter.Category == name {
		s.filter.Category = models.CategoryAll
	}
	s.logger.Infow("category deleted", "name", name)
	return nil
}

// ReorderCategories persists ids as the new category order.
func (s *State) ReorderCategories(ctx context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.store.ReorderCategories(ctx, ids)
	return s.afterMutationLocked(ctx, "reorder categories", err)
}

// MoveCategory swaps the category with its neighbour. Moving past either end
// is a no-op.
func (s *State) MoveCategory(ctx context.Context, name, direction string) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var step int
	switch strings.ToLower(direction) {
	case "up":
		step = -1
	case "down":
		step = 1
	default:
		return nil, ErrInvalidDirection
	}

	idx := -1
	for i, c := range s.categories {
		if c.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, services.ErrCategoryNotFound
	}
	target := idx + step
	if target < 0 || target >= len(s.categories) {
		return cloneCategories(s.categories), nil
	}

	ids := make([]int64, len(s.categories))
	for i, c := range s.categories {
		ids[i] = c.ID
	}
	ids[idx], ids[target] = ids[target], ids[idx]
	err := s.store.ReorderCategories(ctx, ids)
	if err := s.afterMutationLocked(ctx, "move category", err); err != nil {
		return nil, err
	}
	return cloneCategories(s.categories), nil
}

// SaveSettings replaces the settings record. A blank currency falls back to "$".
func (s *State) SaveSettings(ctx context.Context, in models.Settings) (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	in.RestaurantName = strings.TrimSpace(in.RestaurantName)
	in.Currency = strings.TrimSpace(in.Currency)
	in.TelegramBotToken = strings.TrimSpace(in.TelegramBotToken)
	in.TelegramChatID = strings.TrimSpace(in.TelegramChatID)
	if in.Currency == "" {
		in.Currency = services.DefaultSettings(models.Settings{}).Currency
	}
	saved, err := s.store.SaveSettings(ctx, in)
	if err := s.afterMutationLocked(ctx, "save settings", err); err != nil {
		return models.Settings{}, err
	}
	s.logger.Infow("settings saved", "restaurant", saved.RestaurantName, "telegram_configured", saved.TelegramConfigured())
	return saved, nil
}
