package services

import "errors"

// Sentinel errors returned by the service layer. Callers discriminate with
// errors.Is; wrapped messages carry the order/product id involved.
var (
	ErrInvalidPrice         = errors.New("price must be positive")
	ErrUnknownCategory      = errors.New("unknown category")
	ErrNegativeStock        = errors.New("stock cannot be negative")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrProductNotFound      = errors.New("product not found")
	ErrOutOfStock           = errors.New("product out of stock")
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
	ErrEmptyAddress         = errors.New("payment address is required")
	ErrPaymentNotConfigured = errors.New("payment method not configured")
	ErrBuyerBlacklisted     = errors.New("buyer is blacklisted")
	ErrNoPendingOrder       = errors.New("no pending order")
	ErrOrderNotFound        = errors.New("order not found")
	ErrInvalidOrderState    = errors.New("order is not awaiting review")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrOrderIDConflict      = errors.New("order id conflict")
)
