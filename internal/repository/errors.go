package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrInsufficientSeats is returned when a seat reservation asks for more
	// seats than the ride has available at evaluation time.
	ErrInsufficientSeats = errors.New("not enough seats available")
)
