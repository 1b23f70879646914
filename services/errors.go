package services

import (
	"errors"
	"fmt"
)

var (
	ErrCategoryExists     = errors.New("category already exists")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrCategoryReserved   = errors.New("category name is reserved")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrItemNotFound       = errors.New("menu item not found")
	ErrItemUnavailable    = errors.New("menu item is sold out")
	ErrInvalidItem        = errors.New("invalid menu item")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrQuantityLimit      = errors.New("quantity exceeds the per-item limit")
	ErrTableRequired      = errors.New("table number is required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrLoginThrottled     = errors.New("too many failed login attempts")
	ErrUnauthorized       = errors.New("missing or invalid session")
)

// StoreError is any failed catalog or settings call to the backing store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// ConfigurationError means an order was attempted before the Telegram settings were filled in.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return "Admin has not configured Telegram Bot settings."
}

// DeliveryError means the Bot API answered but refused the message.
type DeliveryError struct {
	Code        int
	Description string
}

func (e *DeliveryError) Error() string {
	return "Telegram Error: " + e.Description
}

// ConnectivityError means the Bot API could not be reached at all.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("Connection failed: %v. Note: the Telegram API may be blocked from this network or by cross-origin restrictions. Try a proxy or check the internet connection.", e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// WrapStoreError tags err as a StoreError unless it is nil or already a domain error.
func WrapStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) || isDomainError(err) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

func isDomainError(err error) bool {
	for _, target := range []error{
		ErrCategoryExists, ErrCategoryNotFound, ErrCategoryReserved, ErrInvalidCategory,
		ErrItemNotFound, ErrInvalidItem,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
