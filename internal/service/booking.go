package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sanneekanupuru/SmartRide/internal/domain"
	"github.com/sanneekanupuru/SmartRide/internal/repository"
)

// errTransitionLost aborts a transition transaction when the conditional
// status update matched no row. The caller reloads the booking to report
// which guard failed.
var errTransitionLost = errors.New("booking transition lost")

// BookingService drives the booking lifecycle: creation with seat
// reservation, driver approval/rejection, passenger cancellation.
//
// Transitions into REJECTED or CANCELLED release the booking's seats, and
// both the status change and the release run in one database transaction.
// The conditional updates underneath guarantee that concurrent transitions
// on the same booking resolve to exactly one winner and that seats are
// released exactly once.
type BookingService struct {
	bookingRepo repository.BookingRepository
	rideRepo    repository.RideRepository
	inventory   *SeatInventory
	tx          repository.TxRunner
	notifier    *NotificationService
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookingRepo repository.BookingRepository,
	rideRepo repository.RideRepository,
	inventory *SeatInventory,
	tx repository.TxRunner,
	notifier *NotificationService,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		rideRepo:    rideRepo,
		inventory:   inventory,
		tx:          tx,
		notifier:    notifier,
	}
}

// CreateBookingRequest carries the data for booking seats on a ride.
type CreateBookingRequest struct {
	RideID      string
	PassengerID string
	Seats       int
}

// CreateBooking reserves seats on the ride and records a PENDING booking.
// The reservation happens first; if persisting the booking fails the seats
// are released again so no inventory leaks.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	if req.PassengerID == "" {
		return nil, ErrInvalidUserID
	}
	if req.RideID == "" {
		return nil, ErrInvalidRideID
	}
	if req.Seats <= 0 {
		return nil, ErrInvalidSeatCount
	}

	ride, err := s.rideRepo.GetByID(ctx, req.RideID)
	if err != nil {
		return nil, err
	}

	if _, err := s.inventory.Reserve(ctx, req.RideID, req.Seats); err != nil {
		return nil, err
	}

	now := time.Now()
	booking := &domain.Booking{
		ID:          uuid.New().String(),
		RideID:      req.RideID,
		PassengerID: req.PassengerID,
		SeatsBooked: req.Seats,
		Status:      domain.BookingStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		_, _ = s.inventory.Release(ctx, req.RideID, req.Seats)
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	_ = s.notifier.BookingRequested(ctx, booking, ride)

	return booking, nil
}

// ApproveBooking records the driver's approval on a PENDING booking. The
// booking stays PENDING; approval only unlocks payment.
func (s *BookingService) ApproveBooking(ctx context.Context, bookingID, driverID string) (*domain.Booking, error) {
	booking, ride, err := s.loadForDriver(ctx, bookingID, driverID)
	if err != nil {
		return nil, err
	}

	ok, err := s.bookingRepo.MarkApproved(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.classifyLostTransition(ctx, bookingID)
	}

	booking.DriverApproved = true
	_ = s.notifier.BookingApproved(ctx, booking, ride)

	return booking, nil
}

// RejectBooking moves a PENDING booking to REJECTED and releases its seats,
// both in one transaction.
func (s *BookingService) RejectBooking(ctx context.Context, bookingID, driverID string) (*domain.Booking, error) {
	booking, ride, err := s.loadForDriver(ctx, bookingID, driverID)
	if err != nil {
		return nil, err
	}

	if err := s.terminate(ctx, booking, domain.BookingStatusRejected); err != nil {
		return nil, err
	}

	booking.Status = domain.BookingStatusRejected
	_ = s.notifier.BookingRejected(ctx, booking, ride)

	return booking, nil
}

// CancelBooking moves a passenger's PENDING booking to CANCELLED and releases
// its seats, both in one transaction. Cancellation stays legal after driver
// approval but not once payment confirmed the booking.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, passengerID string) (*domain.Booking, error) {
	booking, err := s.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.PassengerID != passengerID {
		return nil, ErrNotBookingPassenger
	}

	ride, err := s.rideRepo.GetByID(ctx, booking.RideID)
	if err != nil {
		return nil, err
	}

	if err := s.terminate(ctx, booking, domain.BookingStatusCancelled); err != nil {
		return nil, err
	}

	booking.Status = domain.BookingStatusCancelled
	_ = s.notifier.BookingCancelled(ctx, booking, ride)

	return booking, nil
}

// GetBooking retrieves a booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	if id == "" {
		return nil, ErrInvalidBookingID
	}
	return s.bookingRepo.GetByID(ctx, id)
}

// GetPassengerBookings retrieves a passenger's bookings, newest first.
func (s *BookingService) GetPassengerBookings(ctx context.Context, passengerID string) ([]*domain.Booking, error) {
	if passengerID == "" {
		return nil, ErrInvalidUserID
	}
	return s.bookingRepo.GetByPassengerID(ctx, passengerID)
}

// GetRideBookings retrieves all bookings on a ride, restricted to the ride's
// driver.
func (s *BookingService) GetRideBookings(ctx context.Context, rideID, driverID string) ([]*domain.Booking, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.DriverID != driverID {
		return nil, ErrNotRideDriver
	}

	return s.bookingRepo.GetByRideID(ctx, rideID)
}

// terminate runs the conditional status update and the seat release in one
// transaction. The update's guard on seats_released makes the release
// exactly-once: a retried or racing transition matches no row and the
// transaction carries no release.
func (s *BookingService) terminate(ctx context.Context, booking *domain.Booking, to domain.BookingStatus) error {
	err := s.tx.WithinTx(ctx, func(bookings repository.BookingRepository, rides repository.RideRepository, _ repository.PaymentRepository) error {
		ok, err := bookings.Terminate(ctx, booking.ID, to)
		if err != nil {
			return err
		}
		if !ok {
			return errTransitionLost
		}
		_, err = rides.ReleaseSeats(ctx, booking.RideID, booking.SeatsBooked)
		return err
	})
	if errors.Is(err, errTransitionLost) {
		return s.classifyLostTransition(ctx, booking.ID)
	}
	return err
}

// classifyLostTransition reloads a booking after its conditional update
// matched no row and maps the current state to the guard that failed.
func (s *BookingService) classifyLostTransition(ctx context.Context, bookingID string) error {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.Status == domain.BookingStatusConfirmed {
		return ErrBookingNotPending
	}
	if booking.Status.IsTerminal() {
		return ErrBookingAlreadyTerminal
	}
	return fmt.Errorf("booking %s transition failed in status %s", bookingID, booking.Status)
}

func (s *BookingService) loadForDriver(ctx context.Context, bookingID, driverID string) (*domain.Booking, *domain.Ride, error) {
	booking, err := s.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}

	ride, err := s.rideRepo.GetByID(ctx, booking.RideID)
	if err != nil {
		return nil, nil, err
	}
	if ride.DriverID != driverID {
		return nil, nil, ErrNotRideDriver
	}

	return booking, ride, nil
}
