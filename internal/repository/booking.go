package repository

import (
	"context"

	"github.com/sanneekanupuru/SmartRide/internal/domain"
)

// BookingRepository defines the persistence operations for bookings.
//
// MarkApproved, Terminate and Confirm are conditional single-statement
// updates guarded on the current status: they report ok=false without error
// when the guard does not hold, so two concurrent transitions on the same
// booking can never both succeed. The caller reloads the row to classify a
// lost race.
type BookingRepository interface {
	// Create persists a new booking.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking by ID.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// GetByPassengerID retrieves a passenger's bookings, newest first.
	GetByPassengerID(ctx context.Context, passengerID string) ([]*domain.Booking, error)

	// GetByRideID retrieves all bookings on a ride.
	GetByRideID(ctx context.Context, rideID string) ([]*domain.Booking, error)

	// MarkApproved sets driver_approved while the booking is still PENDING.
	MarkApproved(ctx context.Context, id string) (bool, error)

	// Terminate moves a PENDING booking whose seats have not been released
	// into REJECTED or CANCELLED and flips the seats_released marker in the
	// same statement.
	Terminate(ctx context.Context, id string, to domain.BookingStatus) (bool, error)

	// Confirm moves a PENDING booking to CONFIRMED and stamps its fare.
	Confirm(ctx context.Context, id string, fare float64) (bool, error)
}
