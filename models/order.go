package models

import "time"

// SentOrder is an order that reached the kitchen chat.
type SentOrder struct {
	ID       int64      `json:"id,omitempty"`
	Table    string     `json:"table"`
	Items    []CartItem `json:"items"`
	Total    Money      `json:"total"`
	Currency string     `json:"currency"`
	SentAt   time.Time  `json:"sent_at"`
}
