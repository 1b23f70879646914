package app

import (
	"context"
	"errors"
	"testing"

	"waiter-telegram/models"
	"waiter-telegram/services"
)

func categoryNames(cats []models.Category) []string {
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = c.Name
	}
	return out
}

func TestSaveItemNormalisesAndResyncs(t *testing.T) {
	s, _, _ := loadedState(t)
	ctx := context.Background()

	saved, err := s.SaveItem(ctx, models.MenuItem{Name: " Soup ", Price: 550, Category: "Nope", Available: true})
	if err != nil {
		t.Fatalf("SaveItem: %v", err)
	}
	if saved.ID == "" || saved.Name != "Soup" || saved.Category != models.CategoryUncategorized || saved.Image == "" {
		t.Errorf("saved = %+v", saved)
	}
	menu := s.Menu()
	if len(menu) != 7 || menu[6].ID != saved.ID {
		t.Errorf("cache not resynced: %d items", len(menu))
	}

	if _, err := s.SaveItem(ctx, models.MenuItem{Name: ""}); !errors.Is(err, services.ErrInvalidItem) {
		t.Errorf("blank name err = %v", err)
	}
	if _, err := s.UpdateItem(ctx, "missing", models.MenuItem{Name: "x"}); !errors.Is(err, services.ErrItemNotFound) {
		t.Errorf("update missing err = %v", err)
	}

	upd, err := s.UpdateItem(ctx, "1", models.MenuItem{Name: "Double Burger", Price: 1599, Category: "Mains", Available: true})
	if err != nil {
		t.Fatal(err)
	}
	if upd.ID != "1" || upd.Price != 1599 {
		t.Errorf("updated = %+v", upd)
	}
}

func TestDeleteItem(t *testing.T) {
	s, _, _ := loadedState(t)
	ctx := context.Background()
	if err := s.DeleteItem(ctx, "3"); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteItem(ctx, "3"); err != nil {
		t.Errorf("deleting an absent id should be a no-op: %v", err)
	}
	if len(s.Menu()) != 5 {
		t.Errorf("menu len = %d, want 5", len(s.Menu()))
	}
}

func TestCategoryLifecycle(t *testing.T) {
	s, _, _ := loadedState(t)
	ctx := context.Background()

	if _, err := s.AddCategory(ctx, "All"); !errors.Is(err, services.ErrCategoryReserved) {
		t.Errorf("reserved err = %v", err)
	}
	if _, err := s.AddCategory(ctx, "Specials"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddCategory(ctx, "Specials"); !errors.Is(err, services.ErrCategoryExists) {
		t.Errorf("duplicate err = %v", err)
	}

	s.SetFilter(models.Filter{Category: "Mains"})
	if err := s.RenameCategory(ctx, "Mains", "Entrees"); err != nil {
		t.Fatal(err)
	}
	if s.Snapshot().Filter.Category != "Entrees" {
		t.Error("filter did not follow the rename")
	}
	if len(s.VisibleItems()) != 2 {
		t.Errorf("Entrees visible = %d, want 2", len(s.VisibleItems()))
	}

	if err := s.DeleteCategory(ctx, "Entrees"); err != nil {
		t.Fatal(err)
	}
	if s.Snapshot().Filter.Category != models.CategoryAll {
		t.Error("filter should reset to All after its category is deleted")
	}
	n := 0
	for _, it := range s.Menu() {
		if it.Category == models.CategoryUncategorized {
			n++
		}
	}
	if n != 2 {
		t.Errorf("uncategorized items = %d, want 2", n)
	}
	if err := s.DeleteCategory(ctx, "Entrees"); !errors.Is(err, services.ErrCategoryNotFound) {
		t.Errorf("second delete err = %v", err)
	}
}

func TestMoveAndReorderCategories(t *testing.T) {
	s, _, _ := loadedState(t)
	ctx := context.Background()
	// seed order: Mains, Sides, Starters, Desserts, Drinks
	cats, err := s.MoveCategory(ctx, "Sides", "up")
	if err != nil {
		t.Fatal(err)
	}
	if got := categoryNames(cats); got[0] != "Sides" || got[1] != "Mains" {
		t.Errorf("after move up = %v", got)
	}
	cats, _ = s.MoveCategory(ctx, "Sides", "up")
	if got := categoryNames(cats); got[0] != "Sides" {
		t.Errorf("move past the top changed order: %v", got)
	}
	if _, err := s.MoveCategory(ctx, "Sides", "sideways"); !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("bad direction err = %v", err)
	}
	if _, err := s.MoveCategory(ctx, "Nope", "down"); !errors.Is(err, services.ErrCategoryNotFound) {
		t.Errorf("unknown category err = %v", err)
	}

	cats = s.Categories()
	ids := make([]int64, 0, len(cats))
	for i := len(cats) - 1; i >= 0; i-- {
		ids = append(ids, cats[i].ID)
	}
	if err := s.ReorderCategories(ctx, ids); err != nil {
		t.Fatal(err)
	}
	for i, c := range s.Categories() {
		if c.ID != ids[i] || c.SortOrder != i {
			t.Errorf("position %d = %+v", i, c)
		}
	}
}

func TestSaveSettings(t *testing.T) {
	s, _, _ := loadedState(t)
	saved, err := s.SaveSettings(context.Background(), models.Settings{RestaurantName: " Chez Nous ", TelegramBotToken: "9:XYZ", TelegramChatID: "-42"})
	if err != nil {
		t.Fatal(err)
	}
	if saved.RestaurantName != "Chez Nous" || saved.Currency != "$" {
		t.Errorf("saved = %+v", saved)
	}
	if got := s.Settings(); got != saved {
		t.Errorf("cache = %+v, want %+v", got, saved)
	}
}

type failingStore struct {
	*services.MemoryCatalog
	err error
}

func (f failingStore) AddCategory(ctx context.Context, name string) (models.Category, error) {
	return models.Category{}, f.err
}

func TestStoreFailureIsWrappedAndStateIntact(t *testing.T) {
	mem := services.NewMemoryCatalog(models.Settings{})
	s := New(failingStore{MemoryCatalog: mem, err: errors.New("connection reset")}, &fakeNotifier{}, nil)
	ctx := context.Background()
	if err := s.Load(ctx); err != nil {
		t.Fatal(err)
	}
	_, err := s.AddCategory(ctx, "Specials")
	var se *services.StoreError
	if !errors.As(err, &se) || se.Op != "add category" {
		t.Fatalf("err = %v, want StoreError", err)
	}
	if len(s.Categories()) != 5 || len(s.Menu()) != 6 {
		t.Error("cache damaged by a failed write")
	}
}
