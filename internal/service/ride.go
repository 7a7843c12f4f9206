package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sanneekanupuru/SmartRide/internal/domain"
	"github.com/sanneekanupuru/SmartRide/internal/repository"
)

// RideService handles posting and searching rides.
type RideService struct {
	rideRepo repository.RideRepository
	userRepo repository.UserRepository
}

// NewRideService creates a new RideService.
func NewRideService(rideRepo repository.RideRepository, userRepo repository.UserRepository) *RideService {
	return &RideService{rideRepo: rideRepo, userRepo: userRepo}
}

// PostRideRequest carries the data for posting a ride.
type PostRideRequest struct {
	DriverID      string
	Source        string
	Destination   string
	DepartureTime time.Time
	SeatsTotal    int
	PricePerSeat  float64
}

// PostRide creates a ride offer. The ride starts with all seats available and
// carries a snapshot of the driver's vehicle details.
func (s *RideService) PostRide(ctx context.Context, req PostRideRequest) (*domain.Ride, error) {
	if req.DriverID == "" {
		return nil, ErrInvalidUserID
	}
	if strings.TrimSpace(req.Source) == "" || strings.TrimSpace(req.Destination) == "" {
		return nil, ErrInvalidLocation
	}
	if req.SeatsTotal <= 0 {
		return nil, ErrInvalidSeatCount
	}
	if req.PricePerSeat <= 0 {
		return nil, ErrInvalidPrice
	}
	if !req.DepartureTime.After(time.Now()) {
		return nil, ErrInvalidDepartureTime
	}

	driver, err := s.userRepo.GetByID(ctx, req.DriverID)
	if err != nil {
		return nil, err
	}
	if driver.Role != domain.RoleDriver {
		return nil, ErrDriverRoleRequired
	}
	if driver.Capacity > 0 && req.SeatsTotal > driver.Capacity {
		return nil, ErrSeatsExceedCapacity
	}

	ride := &domain.Ride{
		ID:             uuid.New().String(),
		DriverID:       driver.ID,
		Source:         strings.TrimSpace(req.Source),
		Destination:    strings.TrimSpace(req.Destination),
		DepartureTime:  req.DepartureTime,
		SeatsTotal:     req.SeatsTotal,
		SeatsAvailable: req.SeatsTotal,
		PricePerSeat:   req.PricePerSeat,
		VehicleModel:   driver.VehicleModel,
		LicensePlate:   driver.LicensePlate,
		CreatedAt:      time.Now(),
	}

	if err := s.rideRepo.Create(ctx, ride); err != nil {
		return nil, err
	}
	return ride, nil
}

// GetRide retrieves a ride by ID.
func (s *RideService) GetRide(ctx context.Context, id string) (*domain.Ride, error) {
	if id == "" {
		return nil, ErrInvalidRideID
	}
	return s.rideRepo.GetByID(ctx, id)
}

// SearchRides finds rides matching source/destination substrings that depart
// on the given date and still have seats.
func (s *RideService) SearchRides(ctx context.Context, source, destination string, date time.Time) ([]*domain.Ride, error) {
	if strings.TrimSpace(source) == "" || strings.TrimSpace(destination) == "" {
		return nil, ErrInvalidLocation
	}
	return s.rideRepo.Search(ctx, strings.TrimSpace(source), strings.TrimSpace(destination), date)
}

// GetDriverRides retrieves the rides posted by a driver, newest first.
func (s *RideService) GetDriverRides(ctx context.Context, driverID string) ([]*domain.Ride, error) {
	if driverID == "" {
		return nil, ErrInvalidUserID
	}
	return s.rideRepo.GetByDriverID(ctx, driverID)
}
