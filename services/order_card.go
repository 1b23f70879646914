package services

import (
	"fmt"
	"strings"
	"time"

	"waiter-telegram/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const orderTimeLayout = "2006-01-02 15:04"

// KitchenOrder is what the kitchen chat receives for one table.
type KitchenOrder struct {
	Table    string
	Items    []models.CartItem
	Total    models.Money
	Currency string
	PlacedAt time.Time
}

// BuildKitchenMessage renders the order as Telegram Markdown. User supplied
// text is escaped so a stray "_" or "*" in an item name cannot break parsing.
func BuildKitchenMessage(o KitchenOrder) string {
	esc := func(s string) string { return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s) }
	cur := esc(o.Currency)

	var b strings.Builder
	b.WriteString("🔔 *NEW ORDER* 🔔\n")
	fmt.Fprintf(&b, "📅 %s\n", o.PlacedAt.Format(orderTimeLayout))
	fmt.Fprintf(&b, "🍽 *Table No: %s*\n\n", esc(o.Table))
	b.WriteString("*Order Details:*\n")
	for _, ci := range o.Items {
		fmt.Fprintf(&b, "- %s (x%d) - %s%s\n", esc(ci.Name), ci.Quantity, cur, ci.LineTotal())
	}
	b.WriteString("\n-------------------------\n")
	fmt.Fprintf(&b, "💰 *Total: %s%s*", cur, o.Total)
	return b.String()
}
