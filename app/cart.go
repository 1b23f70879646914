package app

import (
	"context"
	"strings"
	"time"

	"waiter-telegram/models"
	"waiter-telegram/services"
)

func (s *State) Cart() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartViewLocked()
}

// AddToCart adds one of the cached item. Unknown and sold-out items are refused.
func (s *State) AddToCart(id string) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.itemLocked(id)
	if !ok {
		return s.cartViewLocked(), services.ErrItemNotFound
	}
	if !it.Available {
		return s.cartViewLocked(), services.ErrItemUnavailable
	}
	err := s.cart.Add(it)
	return s.cartViewLocked(), err
}

func (s *State) AdjustCart(id string, delta int) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.cart.AdjustQuantity(id, delta)
	return s.cartViewLocked(), err
}

func (s *State) ClearCart() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
	return s.cartViewLocked()
}

// PlaceOrder sends the cart for table to the kitchen. The cart is cleared only
// when the message was delivered; on any failure it is kept for a retry.
func (s *State) PlaceOrder(ctx context.Context, table string) (models.SentOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table = strings.TrimSpace(table)
	if table == "" {
		return models.SentOrder{}, services.ErrTableRequired
	}
	if s.cart.Len() == 0 {
		return models.SentOrder{}, services.ErrEmptyCart
	}

	items := s.cart.Items()
	total := services.CartTotal(items)
	if err := s.notifier.SendOrder(ctx, items, table, total, s.settings); err != nil {
		s.logger.Warnw("order not delivered", "table", table, "items", len(items), "error", err)
		return models.SentOrder{}, err
	}

	s.cart.Clear()
	s.logger.Infow("order sent", "table", table, "items", len(items), "total", total.String())

	sent := models.SentOrder{
		Table:    table,
		Items:    items,
		Total:    total,
		Currency: s.settings.Currency,
		SentAt:   time.Now(),
	}
	if s.orderLog != nil {
		saved, err := s.orderLog.SaveSentOrder(ctx, sent)
		if err != nil {
			// the kitchen already has the order; only the history entry is lost
			s.logger.Warnw("record sent order", "table", table, "error", err)
		} else {
			sent = saved
		}
	}
	return sent, nil
}

// RecentOrders lists delivered orders, newest first.
func (s *State) RecentOrders(ctx context.Context, limit int) ([]models.SentOrder, error) {
	if s.orderLog == nil {
		return []models.SentOrder{}, nil
	}
	orders, err := s.orderLog.RecentOrders(ctx, limit)
	return orders, services.WrapStoreError("list sent orders", err)
}

func (s *State) cartViewLocked() CartView {
	return CartView{
		Items:      s.cart.Items(),
		TotalItems: s.cart.TotalItems(),
		TotalPrice: s.cart.TotalPrice(),
	}
}
