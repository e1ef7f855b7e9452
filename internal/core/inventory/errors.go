package inventory

import "errors"

var (
	// ErrNotFound is returned when no product has the requested SKU.
	ErrNotFound = errors.New("product not found")
	// ErrSourceUnavailable marks store timeouts and connection failures.
	ErrSourceUnavailable = errors.New("stock source unavailable")
	// ErrInvalidInput marks malformed SKUs, rejected before any store access.
	ErrInvalidInput = errors.New("invalid input")
)
