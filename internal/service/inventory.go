package service

import (
	"context"

	"github.com/sanneekanupuru/SmartRide/internal/repository"
)

// SeatInventory guards the seat pool of every ride. All reservation and
// release traffic goes through it, so the no-oversell invariant has a single
// enforcement point backed by the repository's atomic conditional updates.
type SeatInventory struct {
	rides repository.RideRepository
}

// NewSeatInventory creates a new SeatInventory.
func NewSeatInventory(rides repository.RideRepository) *SeatInventory {
	return &SeatInventory{rides: rides}
}

// Reserve atomically takes seats from a ride. Returns the remaining count,
// repository.ErrInsufficientSeats when fewer seats are available, or
// repository.ErrNotFound when the ride does not exist.
func (s *SeatInventory) Reserve(ctx context.Context, rideID string, seats int) (int, error) {
	if rideID == "" {
		return 0, ErrInvalidRideID
	}
	if seats <= 0 {
		return 0, ErrInvalidSeatCount
	}
	return s.rides.ReserveSeats(ctx, rideID, seats)
}

// Release atomically returns seats to a ride, capped at the ride's total.
func (s *SeatInventory) Release(ctx context.Context, rideID string, seats int) (int, error) {
	if rideID == "" {
		return 0, ErrInvalidRideID
	}
	if seats <= 0 {
		return 0, ErrInvalidSeatCount
	}
	return s.rides.ReleaseSeats(ctx, rideID, seats)
}
