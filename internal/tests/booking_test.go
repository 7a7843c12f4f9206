package tests

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sanneekanupuru/SmartRide/internal/domain"
	"github.com/sanneekanupuru/SmartRide/internal/repository"
	"github.com/sanneekanupuru/SmartRide/internal/service"
)

// ──────────────────────────────────────────────
// BOOKING CREATION
// ──────────────────────────────────────────────

func TestCreateBooking_ReservesSeatsAndStartsPending(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.rides.AddRide(newTestRide("ride-1", "driver-1", 4))

	booking, err := f.svc.CreateBooking(context.Background(), service.CreateBookingRequest{
		RideID:      "ride-1",
		PassengerID: "passenger-1",
		Seats:       2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != domain.BookingStatusPending {
		t.Errorf("expected PENDING, got %s", booking.Status)
	}
	if booking.DriverApproved {
		t.Error("new booking must not be driver approved")
	}
	if booking.Fare != 0 {
		t.Errorf("fare must be zero before confirmation, got %f", booking.Fare)
	}
	if got := f.rides.GetRide("ride-1").SeatsAvailable; got != 2 {
		t.Errorf("expected 2 seats left, got %d", got)
	}
	// Driver gets a best-effort notification.
	if f.notifications.CountForUser("driver-1") != 1 {
		t.Errorf("expected 1 driver notification, got %d", f.notifications.CountForUser("driver-1"))
	}
}

func TestCreateBooking_InsufficientSeats_Fails(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.rides.AddRide(newTestRide("ride-1", "driver-1", 1))

	_, err := f.svc.CreateBooking(context.Background(), service.CreateBookingRequest{
		RideID:      "ride-1",
		PassengerID: "passenger-1",
		Seats:       2,
	})
	if !errors.Is(err, repository.ErrInsufficientSeats) {
		t.Fatalf("expected ErrInsufficientSeats, got %v", err)
	}
	if got := f.rides.GetRide("ride-1").SeatsAvailable; got != 1 {
		t.Errorf("failed booking must not consume seats, got %d available", got)
	}
}

func TestCreateBooking_PersistFailure_ReleasesSeats(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.rides.AddRide(newTestRide("ride-1", "driver-1", 4))
	f.bookings.CreateError = ErrMockDBFailure

	_, err := f.svc.CreateBooking(context.Background(), service.CreateBookingRequest{
		RideID:      "ride-1",
		PassengerID: "passenger-1",
		Seats:       2,
	})
	if !errors.Is(err, ErrMockDBFailure) {
		t.Fatalf("expected injected error, got %v", err)
	}

	// The compensating release must return the reserved seats.
	if got := f.rides.GetRide("ride-1").SeatsAvailable; got != 4 {
		t.Errorf("expected seats restored to 4, got %d", got)
	}
}

// ──────────────────────────────────────────────
// DRIVER APPROVAL / REJECTION
// ──────────────────────────────────────────────

func TestApproveBooking_SetsFlagAndStaysPending(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.rides.AddRide(newTestRide("ride-1", "driver-1", 4))
	f.bookings.AddBooking(newTestBooking("booking-1", "ride-1", "passenger-1", 2))

	booking, err := f.svc.ApproveBooking(context.Background(), "booking-1", "driver-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !booking.DriverApproved {
		t.Error("expected driver approved")
	}
	// Approval unlocks payment but does not advance the status.
	if booking.Status != domain.BookingStatusPending {
		t.Errorf("expected status PENDING after approval, got %s", booking.Status)
	}
	if f.notifications.CountForUser("passenger-1") != 1 {
		t.Errorf("expected passenger notification, got %d", f.notifications.CountForUser("passenger-1"))
	}
}

func TestApproveBooking_WrongDriver_Forbidden(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.rides.AddRide(newTestRide("ride-1", "driver-1", 4))
	f.bookings.AddBooking(newTestBooking("booking-1", "ride-1", "passenger-1", 2))

	_, err := f.svc.ApproveBooking(context.Background(), "booking-1", "driver-2")
	if !errors.Is(err, service.ErrNotRideDriver) {
		t.Fatalf("expected ErrNotRideDriver, got %v", err)
	}
	if f.bookings.GetBooking("booking-1").DriverApproved {
		t.Error("booking must not be approved by a foreign driver")
	}
}

func TestApproveBooking_AfterCancellation_AlreadyTerminal(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	ride := newTestRide("ride-1", "driver-1", 4)
	ride.SeatsAvailable = 2
	f.rides.AddRide(ride)
	f.bookings.AddBooking(newTestBooking("booking-1", "ride-1", "passenger-1", 2))

	if _, err := f.svc.CancelBooking(context.Background(), "booking-1", "passenger-1"); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	_, err := f.svc.ApproveBooking(context.Background(), "booking-1", "driver-1")
	if !errors.Is(err, service.ErrBookingAlreadyTerminal) {
		t.Fatalf("expected ErrBookingAlreadyTerminal, got %v", err)
	}
}

func TestRejectBooking_ReleasesSeatsExactlyOnce(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	ride := newTestRide("ride-1", "driver-1", 4)
	ride.SeatsAvailable = 2 // 2 seats held by the booking
	f.rides.AddRide(ride)
	f.bookings.AddBooking(newTestBooking("booking-1", "ride-1", "passenger-1", 2))

	booking, err := f.svc.RejectBooking(context.Background(), "booking-1", "driver-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != domain.BookingStatusRejected {
		t.Errorf("expected REJECTED, got %s", booking.Status)
	}
	if got := f.rides.GetRide("ride-1").SeatsAvailable; got != 4 {
		t.Errorf("expected seats released back to 4, got %d", got)
	}

	// A retried rejection must not release again.
	_, err = f.svc.RejectBooking(context.Background(), "booking-1", "driver-1")
	if !errors.Is(err, service.ErrBookingAlreadyTerminal) {
		t.Fatalf("expected ErrBookingAlreadyTerminal on retry, got %v", err)
	}
	if got := f.rides.GetRide("ride-1").SeatsAvailable; got != 4 {
		t.Errorf("retry must not release seats again, got %d", got)
	}
	if got := atomic.LoadInt32(&f.rides.ReleaseCallCount); got != 1 {
		t.Errorf("expected exactly 1 release call, got %d", got)
	}
}

// ──────────────────────────────────────────────
// PASSENGER CANCELLATION
// ──────────────────────────────────────────────

func TestCancelBooking_AfterApproval_StillAllowed(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	ride := newTestRide("ride-1", "driver-1", 4)
	ride.SeatsAvailable = 3
	f.rides.AddRide(ride)
	f.bookings.AddBooking(newTestBooking("booking-1", "ride-1", "passenger-1", 1))

	if _, err := f.svc.ApproveBooking(context.Background(), "booking-1", "driver-1"); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	booking, err := f.svc.CancelBooking(context.Background(), "booking-1", "passenger-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != domain.BookingStatusCancelled {
		t.Errorf("expected CANCELLED, got %s", booking.Status)
	}
	if got := f.rides.GetRide("ride-1").SeatsAvailable; got != 4 {
		t.Errorf("expected seats released back to 4, got %d", got)
	}
}

func TestCancelBooking_WrongPassenger_Forbidden(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	f.rides.AddRide(newTestRide("ride-1", "driver-1", 4))
	f.bookings.AddBooking(newTestBooking("booking-1", "ride-1", "passenger-1", 2))

	_, err := f.svc.CancelBooking(context.Background(), "booking-1", "passenger-2")
	if !errors.Is(err, service.ErrNotBookingPassenger) {
		t.Fatalf("expected ErrNotBookingPassenger, got %v", err)
	}
}

func TestCancelBooking_AfterConfirmation_Fails(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	ride := newTestRide("ride-1", "driver-1", 4)
	ride.SeatsAvailable = 2
	f.rides.AddRide(ride)
	booking := newTestBooking("booking-1", "ride-1", "passenger-1", 2)
	booking.DriverApproved = true
	booking.Status = domain.BookingStatusConfirmed
	booking.Fare = 1000
	f.bookings.AddBooking(booking)

	_, err := f.svc.CancelBooking(context.Background(), "booking-1", "passenger-1")
	if !errors.Is(err, service.ErrBookingNotPending) {
		t.Fatalf("expected ErrBookingNotPending, got %v", err)
	}
	// Confirmed bookings keep their seats.
	if got := f.rides.GetRide("ride-1").SeatsAvailable; got != 2 {
		t.Errorf("cancel attempt must not touch seats, got %d", got)
	}
}

func TestConcurrentRejectAndCancel_ExactlyOneWins(t *testing.T) {
	t.Parallel()

	f := newBookingFixture()
	ride := newTestRide("ride-1", "driver-1", 4)
	ride.SeatsAvailable = 2
	f.rides.AddRide(ride)
	f.bookings.AddBooking(newTestBooking("booking-1", "ride-1", "passenger-1", 2))

	var wg sync.WaitGroup
	errs := make([]error, 2)

	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = f.svc.RejectBooking(context.Background(), "booking-1", "driver-1")
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = f.svc.CancelBooking(context.Background(), "booking-1", "passenger-1")
	}()
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, service.ErrBookingAlreadyTerminal) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one winning transition, got %d", succeeded)
	}

	final := f.bookings.GetBooking("booking-1")
	if !final.Status.IsTerminal() || final.Status == domain.BookingStatusConfirmed {
		t.Errorf("expected REJECTED or CANCELLED, got %s", final.Status)
	}
	if !final.SeatsReleased {
		t.Error("expected seats_released marker set")
	}
	if got := f.rides.GetRide("ride-1").SeatsAvailable; got != 4 {
		t.Errorf("expected seats released exactly once (4 available), got %d", got)
	}
}
