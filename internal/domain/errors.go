package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity is missing or not owned by the caller.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict (email, sku, slug, order number).
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidState indicates a business-rule violation such as an empty
	// cart, an inactive product or an order outside the expected status.
	ErrInvalidState = errors.New("invalid state")
	// ErrInsufficientStock indicates a requested quantity exceeds availability.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidTransition indicates an illegal order status change.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrUnauthorized indicates a missing or invalid credential.
	ErrUnauthorized = errors.New("unauthorized")
)
