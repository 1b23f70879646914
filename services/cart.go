package services

import "waiter-telegram/models"

const (
	// MaxLineQuantity bounds one cart entry.
	MaxLineQuantity = 999
	// MaxItemPrice is 1,000,000.00. With MaxLineQuantity it keeps line totals far from overflow.
	MaxItemPrice models.Money = 100_000_000
)

// Cart is the waiter's unsubmitted selection for one table. Entries are unique
// by item id and keep the order in which they were first added.
type Cart struct {
	items []models.CartItem
}

func NewCart() *Cart {
	return &Cart{}
}

// Add puts one more of item in the cart.
func (c *Cart) Add(item models.MenuItem) error {
	if i := c.index(item.ID); i >= 0 {
		if c.items[i].Quantity >= MaxLineQuantity {
			return ErrQuantityLimit
		}
		c.items[i].Quantity++
		return nil
	}
	c.items = append(c.items, models.CartItem{MenuItem: item, Quantity: 1})
	return nil
}

// AdjustQuantity adds delta to the entry for id and drops it once the quantity
// reaches zero. Unknown ids are ignored. A delta that would take the entry past
// MaxLineQuantity leaves the cart unchanged.
func (c *Cart) AdjustQuantity(id string, delta int) error {
	i := c.index(id)
	if i < 0 {
		return nil
	}
	qty := c.items[i].Quantity
	if delta > MaxLineQuantity-qty {
		return ErrQuantityLimit
	}
	qty += delta
	if qty <= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
		return nil
	}
	c.items[i].Quantity = qty
	return nil
}

func (c *Cart) Clear() {
	c.items = nil
}

// Items returns a copy of the entries.
func (c *Cart) Items() []models.CartItem {
	out := make([]models.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Len() int {
	return len(c.items)
}

func (c *Cart) TotalItems() int {
	n := 0
	for _, ci := range c.items {
		n += ci.Quantity
	}
	return n
}

func (c *Cart) TotalPrice() models.Money {
	return CartTotal(c.items)
}

// CartTotal sums price × quantity over items.
func CartTotal(items []models.CartItem) models.Money {
	var total models.Money
	for _, ci := range items {
		total += ci.LineTotal()
	}
	return total
}

func (c *Cart) index(id string) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}
