package repository

import (
	"context"
	"time"

	"github.com/sanneekanupuru/SmartRide/internal/domain"
)

// RideRepository defines the persistence operations for rides, including the
// seat inventory primitives.
//
// ReserveSeats and ReleaseSeats are the only operations allowed to mutate a
// ride's seats_available, and each must execute as a single atomic unit
// relative to all other reserve/release calls on the same ride. Operations
// on different rides must never block one another.
type RideRepository interface {
	// Create persists a new ride.
	Create(ctx context.Context, ride *domain.Ride) error

	// GetByID retrieves a ride by ID.
	GetByID(ctx context.Context, id string) (*domain.Ride, error)

	// Search retrieves rides matching source/destination substrings
	// departing on the given date, with at least one seat available.
	Search(ctx context.Context, source, destination string, date time.Time) ([]*domain.Ride, error)

	// GetByDriverID retrieves rides posted by a driver, newest first.
	GetByDriverID(ctx context.Context, driverID string) ([]*domain.Ride, error)

	// ReserveSeats atomically checks seats_available >= seats and decrements
	// it. Returns the new available count, ErrInsufficientSeats when the
	// check fails, or ErrNotFound when the ride does not exist.
	ReserveSeats(ctx context.Context, rideID string, seats int) (int, error)

	// ReleaseSeats atomically increments seats_available by seats, capped at
	// seats_total. Returns the new available count.
	ReleaseSeats(ctx context.Context, rideID string, seats int) (int, error)
}
