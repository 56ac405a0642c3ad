package store

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidState      = errors.New("invalid order state")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicateOrderID  = errors.New("duplicate order id")
)
