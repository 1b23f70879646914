package app

import (
	"context"
	"errors"
	"strings"
	"sync"

	"waiter-telegram/models"
	"waiter-telegram/services"

	"go.uber.org/zap"
)

var ErrInvalidView = errors.New("view cannot be opened directly")

// State is the process-wide screen state shared by the waiter tablet and the
// admin dashboard: the catalog cache, the cart, the filter and the current view.
// Every action holds mu for its whole duration, so actions never interleave.
type State struct {
	mu       sync.Mutex
	store    services.CatalogStore
	notifier services.OrderNotifier
	orderLog services.OrderLog
	logger   *zap.SugaredLogger

	items      []models.MenuItem
	categories []models.Category
	settings   models.Settings
	cart       *services.Cart
	filter     models.Filter
	view       models.View
	loaded     bool
}

func New(store services.CatalogStore, notifier services.OrderNotifier, logger *zap.SugaredLogger) *State {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &State{
		store:    store,
		notifier: notifier,
		logger:   logger,
		cart:     services.NewCart(),
		filter:   models.Filter{Category: models.CategoryAll},
		view:     models.ViewWaiter,
	}
}

// WithOrderLog records every delivered order in l.
func (s *State) WithOrderLog(l services.OrderLog) *State {
	s.orderLog = l
	return s
}

// CartView is the cart as shown on screen.
type CartView struct {
	Items      []models.CartItem `json:"items"`
	TotalItems int               `json:"total_items"`
	TotalPrice models.Money      `json:"total_price"`
}

// Snapshot is the public screen state. It never carries the bot token.
type Snapshot struct {
	View               models.View       `json:"view"`
	Filter             models.Filter     `json:"filter"`
	Settings           models.Settings   `json:"settings"`
	TelegramConfigured bool              `json:"telegram_configured"`
	Categories         []models.Category `json:"categories"`
	Items              []models.MenuItem `json:"items"`
	Cart               CartView          `json:"cart"`
	Loaded             bool              `json:"loaded"`
}

// Load fetches items, categories and settings (seeding an empty store) and
// replaces the cache.
func (s *State) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resyncLocked(ctx)
}

func (s *State) resyncLocked(ctx context.Context) error {
	c, err := services.FetchCatalog(ctx, s.store)
	if err != nil {
		return err
	}
	s.items = c.Items
	s.categories = c.Categories
	s.settings = c.Settings
	s.loaded = true
	return nil
}

// afterMutationLocked re-fetches the catalog after a write. A failed write
// still triggers a resync; its error wins over a resync error.
func (s *State) afterMutationLocked(ctx context.Context, op string, err error) error {
	if err != nil {
		err = services.WrapStoreError(op, err)
		if rerr := s.resyncLocked(ctx); rerr != nil {
			s.logger.Warnw("resync after failed write", "op", op, "error", rerr)
		}
		return err
	}
	return s.resyncLocked(ctx)
}

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		View:               s.view,
		Filter:             s.filter,
		Settings:           s.settings.Public(),
		TelegramConfigured: s.settings.TelegramConfigured(),
		Categories:         cloneCategories(s.categories),
		Items:              services.FilterItems(s.items, s.filter),
		Cart:               s.cartViewLocked(),
		Loaded:             s.loaded,
	}
}

// Menu returns the whole cached catalog in creation order.
func (s *State) Menu() []models.MenuItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.MenuItem, len(s.items))
	copy(out, s.items)
	return out
}

// VisibleItems returns the cached items that pass the current filter.
func (s *State) VisibleItems() []models.MenuItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return services.FilterItems(s.items, s.filter)
}

func (s *State) Categories() []models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneCategories(s.categories)
}

// Settings returns the full settings record, token included. Admin only.
func (s *State) Settings() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// SetFilter replaces the waiter filter. An empty category means All.
func (s *State) SetFilter(f models.Filter) models.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	f.Category = strings.TrimSpace(f.Category)
	if f.Category == "" {
		f.Category = models.CategoryAll
	}
	s.filter = f
	return f
}

func (s *State) View() models.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// SetView handles the open-login and exit transitions. The dashboard is only
// reachable through LoginSucceeded.
func (s *State) SetView(v models.View) (models.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch v {
	case models.ViewWaiter:
		s.view = models.ViewWaiter
	case models.ViewAdminLogin:
		if s.view != models.ViewAdminDashboard {
			s.view = models.ViewAdminLogin
		}
	default:
		return s.view, ErrInvalidView
	}
	return s.view, nil
}

func (s *State) LoginSucceeded() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = models.ViewAdminDashboard
}

func (s *State) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = models.ViewWaiter
}

func (s *State) itemLocked(id string) (models.MenuItem, bool) {
	for _, it := range s.items {
		if it.ID == id {
			return it, true
		}
	}
	return models.MenuItem{}, false
}

func cloneCategories(in []models.Category) []models.Category {
	out := make([]models.Category, len(in))
	copy(out, in)
	return out
}
