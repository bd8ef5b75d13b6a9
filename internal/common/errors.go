package common

import "errors"

// Business logic errors
var (
	// General errors
	ErrNotFound     = errors.New("resource not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")

	// Page errors
	ErrPageNotFound = errors.New("page not found")
	ErrSlugTaken    = errors.New("slug already exists")

	// Menu errors
	ErrMenuNotFound   = errors.New("menu not found")
	ErrParentNotFound = errors.New("parent menu not found")
	ErrHasChildren    = errors.New("cannot delete menu with children")
	ErrCyclicMove     = errors.New("cannot move menu to its own descendant")
	ErrBadReorder     = errors.New("reorder batch violates sibling ordering")

	// Auth errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)
