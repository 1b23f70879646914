package services

import (
	"strings"
	"testing"
	"time"

	"waiter-telegram/models"
)

func TestBuildKitchenMessage(t *testing.T) {
	items := []models.CartItem{
		{MenuItem: burger, Quantity: 2},
		{MenuItem: fries, Quantity: 1},
	}
	msg := BuildKitchenMessage(KitchenOrder{
		Table:    "5",
		Items:    items,
		Total:    CartTotal(items),
		Currency: "$",
		PlacedAt: time.Date(2026, 3, 14, 19, 30, 0, 0, time.UTC),
	})

	for _, want := range []string{
		"NEW ORDER",
		"2026-03-14 19:30",
		"Table No: 5",
		"- Classic Cheeseburger (x2) - $25.98",
		"- Truffle Fries (x1) - $6.50",
		"Total: $32.48",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestBuildKitchenMessageEscapesMarkdown(t *testing.T) {
	items := []models.CartItem{{MenuItem: models.MenuItem{Name: "Chef_special *hot*", Price: 100}, Quantity: 1}}
	msg := BuildKitchenMessage(KitchenOrder{Table: "A_1", Items: items, Total: 100, Currency: "€"})
	if !strings.Contains(msg, `Chef\_special \*hot\*`) {
		t.Errorf("item name not escaped:\n%s", msg)
	}
	if !strings.Contains(msg, `Table No: A\_1`) {
		t.Errorf("table not escaped:\n%s", msg)
	}
}
