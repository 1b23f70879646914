package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"waiter-telegram/models"
)

// MemoryCatalog keeps the catalog in process memory. It backs STORE_DRIVER=memory
// for local runs without Postgres and follows the same rules as PgCatalog.
type MemoryCatalog struct {
	mu         sync.Mutex
	items      []models.MenuItem
	categories []models.Category
	settings   *models.Settings
	defaults   models.Settings
	nextCatID  int64
	now        func() time.Time
}

func NewMemoryCatalog(defaults models.Settings) *MemoryCatalog {
	return &MemoryCatalog{defaults: DefaultSettings(defaults), nextCatID: 1, now: time.Now}
}

func (m *MemoryCatalog) SeedIfEmpty(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.items) > 0 {
		return false, nil
	}
	menu := DefaultMenu()
	for i := range menu {
		menu[i].CreatedAt = m.now()
	}
	m.items = menu
	for _, c := range DefaultCategories(menu) {
		if m.categoryIndex(c.Name) >= 0 {
			continue
		}
		c.ID = m.nextCatID
		m.nextCatID++
		m.categories = append(m.categories, c)
	}
	return true, nil
}

func (m *MemoryCatalog) Menu(ctx context.Context) ([]models.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.MenuItem, len(m.items))
	copy(out, m.items) // slice order is creation order
	return out, nil
}

func (m *MemoryCatalog) Categories(ctx context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Category, len(m.categories))
	copy(out, m.categories)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryCatalog) UpsertItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == item.ID {
			item.CreatedAt = m.items[i].CreatedAt
			m.items[i] = item
			return item, nil
		}
	}
	item.CreatedAt = m.now()
	m.items = append(m.items, item)
	return item, nil
}

func (m *MemoryCatalog) DeleteItem(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryCatalog) AddCategory(ctx context.Context, name string) (models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.categoryIndex(name) >= 0 {
		return models.Category{}, ErrCategoryExists
	}
	next := 0
	for _, c := range m.categories {
		if c.SortOrder >= next {
			next = c.SortOrder + 1
		}
	}
	c := models.Category{ID: m.nextCatID, Name: name, SortOrder: next}
	m.nextCatID++
	m.categories = append(m.categories, c)
	return c, nil
}

func (m *MemoryCatalog) RenameCategory(ctx context.Context, oldName, newName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.categoryIndex(oldName)
	if i < 0 {
		return ErrCategoryNotFound
	}
	if oldName == newName {
		return nil
	}
	if m.categoryIndex(newName) >= 0 {
		return ErrCategoryExists
	}
	m.categories[i].Name = newName
	m.reassign(oldName, newName)
	return nil
}

func (m *MemoryCatalog) DeleteCategory(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.categoryIndex(name)
	if i < 0 {
		return ErrCategoryNotFound
	}
	m.reassign(name, models.CategoryUncategorized)
	m.categories = append(m.categories[:i], m.categories[i+1:]...)
	return nil
}

func (m *MemoryCatalog) ReorderCategories(ctx context.Context, ids []int64) error {
	if err := validateOrder(ids); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	// resolve every id first; an unknown id leaves all sort orders untouched
	pos := make([]int, len(ids))
	for n, id := range ids {
		pos[n] = -1
		for i := range m.categories {
			if m.categories[i].ID == id {
				pos[n] = i
				break
			}
		}
		if pos[n] < 0 {
			return ErrCategoryNotFound
		}
	}
	for n, i := range pos {
		m.categories[i].SortOrder = n
	}
	return nil
}

func (m *MemoryCatalog) Settings(ctx context.Context) (models.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settings == nil {
		s := m.defaults
		m.settings = &s
	}
	return *m.settings, nil
}

func (m *MemoryCatalog) SaveSettings(ctx context.Context, s models.Settings) (models.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = &s
	return s, nil
}

func (m *MemoryCatalog) Ping(ctx context.Context) error {
	return nil
}

func (m *MemoryCatalog) categoryIndex(name string) int {
	for i := range m.categories {
		if m.categories[i].Name == name {
			return i
		}
	}
	return -1
}

func (m *MemoryCatalog) reassign(from, to string) {
	for i := range m.items {
		if m.items[i].Category == from {
			m.items[i].Category = to
		}
	}
}
