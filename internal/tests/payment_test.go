package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sanneekanupuru/SmartRide/internal/domain"
	"github.com/sanneekanupuru/SmartRide/internal/service"
)

// ──────────────────────────────────────────────
// PAYMENT GATING
// ──────────────────────────────────────────────

func TestPay_BeforeDriverApproval_Fails(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	f.rides.AddRide(newTestRide("ride-1", "driver-1", 4))
	f.bookings.AddBooking(newTestBooking("booking-1", "ride-1", "passenger-1", 2))

	_, err := f.svc.Pay(context.Background(), service.PayRequest{
		BookingID:   "booking-1",
		PassengerID: "passenger-1",
		Method:      "CARD",
	})
	if !errors.Is(err, service.ErrBookingNotApproved) {
		t.Fatalf("expected ErrBookingNotApproved, got %v", err)
	}
	if f.payments.CountPayments("booking-1") != 0 {
		t.Error("no payment row may exist for an unapproved booking")
	}
}

func TestPay_WrongPassenger_Forbidden(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	f.rides.AddRide(newTestRide("ride-1", "driver-1", 4))
	booking := newTestBooking("booking-1", "ride-1", "passenger-1", 2)
	booking.DriverApproved = true
	f.bookings.AddBooking(booking)

	_, err := f.svc.Pay(context.Background(), service.PayRequest{
		BookingID:   "booking-1",
		PassengerID: "passenger-2",
		Method:      "CARD",
	})
	if !errors.Is(err, service.ErrNotBookingPassenger) {
		t.Fatalf("expected ErrNotBookingPassenger, got %v", err)
	}
}

func TestPay_InvalidMethod_Fails(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()

	_, err := f.svc.Pay(context.Background(), service.PayRequest{
		BookingID:   "booking-1",
		PassengerID: "passenger-1",
		Method:      "BARTER",
	})
	if !errors.Is(err, service.ErrInvalidPaymentMethod) {
		t.Fatalf("expected ErrInvalidPaymentMethod, got %v", err)
	}
}

func TestPay_OnCancelledBooking_AlreadyTerminal(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	f.rides.AddRide(newTestRide("ride-1", "driver-1", 4))
	booking := newTestBooking("booking-1", "ride-1", "passenger-1", 2)
	booking.DriverApproved = true
	booking.Status = domain.BookingStatusCancelled
	booking.SeatsReleased = true
	f.bookings.AddBooking(booking)

	_, err := f.svc.Pay(context.Background(), service.PayRequest{
		BookingID:   "booking-1",
		PassengerID: "passenger-1",
		Method:      "CARD",
	})
	if !errors.Is(err, service.ErrBookingAlreadyTerminal) {
		t.Fatalf("expected ErrBookingAlreadyTerminal, got %v", err)
	}
}

// ──────────────────────────────────────────────
// NON-CASH SETTLEMENT
// ──────────────────────────────────────────────

func TestPay_Card_ConfirmsBookingAndStampsFare(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	f.rides.AddRide(newTestRide("ride-1", "driver-1", 4))
	booking := newTestBooking("booking-1", "ride-1", "passenger-1", 2)
	booking.DriverApproved = true
	f.bookings.AddBooking(booking)

	payment, err := f.svc.Pay(context.Background(), service.PayRequest{
		BookingID:   "booking-1",
		PassengerID: "passenger-1",
		Method:      "CARD",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if payment.Status != domain.PaymentStatusCompleted {
		t.Errorf("expected COMPLETED payment, got %s", payment.Status)
	}
	if payment.Amount <= 0 {
		t.Errorf("expected positive amount, got %f", payment.Amount)
	}

	stored := f.bookings.GetBooking("booking-1")
	if stored.Status != domain.BookingStatusConfirmed {
		t.Errorf("expected booking CONFIRMED, got %s", stored.Status)
	}
	if stored.Fare != payment.Amount {
		t.Errorf("booking fare %f must match payment amount %f", stored.Fare, payment.Amount)
	}

	// Both parties are notified.
	if f.notifications.CountForUser("passenger-1") != 1 {
		t.Errorf("expected passenger notification, got %d", f.notifications.CountForUser("passenger-1"))
	}
	if f.notifications.CountForUser("driver-1") != 1 {
		t.Errorf("expected driver notification, got %d", f.notifications.CountForUser("driver-1"))
	}
}

func TestPay_Twice_AlreadyPaid(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	f.rides.AddRide(newTestRide("ride-1", "driver-1", 4))
	booking := newTestBooking("booking-1", "ride-1", "passenger-1", 2)
	booking.DriverApproved = true
	f.bookings.AddBooking(booking)

	req := service.PayRequest{BookingID: "booking-1", PassengerID: "passenger-1", Method: "UPI"}
	if _, err := f.svc.Pay(context.Background(), req); err != nil {
		t.Fatalf("first payment failed: %v", err)
	}

	_, err := f.svc.Pay(context.Background(), req)
	if !errors.Is(err, service.ErrBookingAlreadyPaid) {
		t.Fatalf("expected ErrBookingAlreadyPaid, got %v", err)
	}
	if got := f.payments.CountPayments("booking-1"); got != 1 {
		t.Errorf("expected a single payment row, got %d", got)
	}
}

func TestPay_FareUnavailable_LeavesBookingUntouched(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	f.geocoder.ResolveError = ErrMockGeocodeAPI
	f.rides.AddRide(newTestRide("ride-1", "driver-1", 4))
	booking := newTestBooking("booking-1", "ride-1", "passenger-1", 2)
	booking.DriverApproved = true
	f.bookings.AddBooking(booking)

	_, err := f.svc.Pay(context.Background(), service.PayRequest{
		BookingID:   "booking-1",
		PassengerID: "passenger-1",
		Method:      "CARD",
	})
	if !errors.Is(err, service.ErrFareUnavailable) {
		t.Fatalf("expected ErrFareUnavailable, got %v", err)
	}

	if f.payments.CountPayments("booking-1") != 0 {
		t.Error("no payment row may be written when the fare is unavailable")
	}
	stored := f.bookings.GetBooking("booking-1")
	if stored.Status != domain.BookingStatusPending || stored.Fare != 0 {
		t.Errorf("booking must stay PENDING with zero fare, got %s fare=%f", stored.Status, stored.Fare)
	}
}

// ──────────────────────────────────────────────
// CASH SETTLEMENT
// ──────────────────────────────────────────────

func TestPay_Cash_StaysPendingUntilDriverSettles(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	f.rides.AddRide(newTestRide("ride-1", "driver-1", 4))
	booking := newTestBooking("booking-1", "ride-1", "passenger-1", 2)
	booking.DriverApproved = true
	f.bookings.AddBooking(booking)

	payment, err := f.svc.Pay(context.Background(), service.PayRequest{
		BookingID:   "booking-1",
		PassengerID: "passenger-1",
		Method:      "CASH",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if payment.Status != domain.PaymentStatusPending {
		t.Errorf("expected PENDING cash payment, got %s", payment.Status)
	}
	stored := f.bookings.GetBooking("booking-1")
	if stored.Status != domain.BookingStatusPending {
		t.Errorf("cash payment must not confirm the booking, got %s", stored.Status)
	}
	if stored.Fare != 0 {
		t.Errorf("fare must stay zero until confirmation, got %f", stored.Fare)
	}

	// Driver collects the cash and settles.
	settled, err := f.svc.UpdatePaymentStatus(context.Background(), payment.ID, "COMPLETED", "driver-1")
	if err != nil {
		t.Fatalf("settlement failed: %v", err)
	}
	if settled.Status != domain.PaymentStatusCompleted {
		t.Errorf("expected COMPLETED, got %s", settled.Status)
	}

	stored = f.bookings.GetBooking("booking-1")
	if stored.Status != domain.BookingStatusConfirmed {
		t.Errorf("settlement must confirm the booking, got %s", stored.Status)
	}
	if stored.Fare != payment.Amount {
		t.Errorf("booking fare %f must match payment amount %f", stored.Fare, payment.Amount)
	}
}

func TestPay_DefaultsToCash(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	f.rides.AddRide(newTestRide("ride-1", "driver-1", 4))
	booking := newTestBooking("booking-1", "ride-1", "passenger-1", 1)
	booking.DriverApproved = true
	f.bookings.AddBooking(booking)

	payment, err := f.svc.Pay(context.Background(), service.PayRequest{
		BookingID:   "booking-1",
		PassengerID: "passenger-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payment.Method != domain.PaymentMethodCash {
		t.Errorf("expected CASH default, got %s", payment.Method)
	}
}

func TestUpdatePaymentStatus_Completed_Idempotent(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	f.rides.AddRide(newTestRide("ride-1", "driver-1", 4))
	booking := newTestBooking("booking-1", "ride-1", "passenger-1", 2)
	booking.DriverApproved = true
	f.bookings.AddBooking(booking)

	payment, err := f.svc.Pay(context.Background(), service.PayRequest{
		BookingID:   "booking-1",
		PassengerID: "passenger-1",
		Method:      "CASH",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.svc.UpdatePaymentStatus(context.Background(), payment.ID, "COMPLETED", "driver-1"); err != nil {
		t.Fatalf("first settlement failed: %v", err)
	}

	// Retrying the settlement is a no-op, not an error.
	if _, err := f.svc.UpdatePaymentStatus(context.Background(), payment.ID, "COMPLETED", "driver-1"); err != nil {
		t.Fatalf("retried settlement must be idempotent, got %v", err)
	}

	stored := f.bookings.GetBooking("booking-1")
	if stored.Status != domain.BookingStatusConfirmed {
		t.Errorf("expected CONFIRMED, got %s", stored.Status)
	}
}

func TestUpdatePaymentStatus_WrongDriver_Forbidden(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	f.rides.AddRide(newTestRide("ride-1", "driver-1", 4))
	booking := newTestBooking("booking-1", "ride-1", "passenger-1", 2)
	booking.DriverApproved = true
	f.bookings.AddBooking(booking)

	payment, err := f.svc.Pay(context.Background(), service.PayRequest{
		BookingID:   "booking-1",
		PassengerID: "passenger-1",
		Method:      "CASH",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = f.svc.UpdatePaymentStatus(context.Background(), payment.ID, "COMPLETED", "driver-2")
	if !errors.Is(err, service.ErrNotRideDriver) {
		t.Fatalf("expected ErrNotRideDriver, got %v", err)
	}
}

func TestUpdatePaymentStatus_InvalidStatus_Fails(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()

	_, err := f.svc.UpdatePaymentStatus(context.Background(), "payment-1", "SETTLED", "driver-1")
	if !errors.Is(err, service.ErrInvalidPaymentStatus) {
		t.Fatalf("expected ErrInvalidPaymentStatus, got %v", err)
	}
}

func TestUpdatePaymentStatus_Failed_KeepsBookingAndSeats(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	ride := newTestRide("ride-1", "driver-1", 4)
	ride.SeatsAvailable = 2
	f.rides.AddRide(ride)
	booking := newTestBooking("booking-1", "ride-1", "passenger-1", 2)
	booking.DriverApproved = true
	f.bookings.AddBooking(booking)

	payment, err := f.svc.Pay(context.Background(), service.PayRequest{
		BookingID:   "booking-1",
		PassengerID: "passenger-1",
		Method:      "CASH",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	failed, err := f.svc.UpdatePaymentStatus(context.Background(), payment.ID, "FAILED", "driver-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if failed.Status != domain.PaymentStatusFailed {
		t.Errorf("expected FAILED, got %s", failed.Status)
	}

	// A failed attempt leaves the booking open with its seats held; the
	// passenger can try again.
	stored := f.bookings.GetBooking("booking-1")
	if stored.Status != domain.BookingStatusPending {
		t.Errorf("expected booking still PENDING, got %s", stored.Status)
	}
	if got := f.rides.GetRide("ride-1").SeatsAvailable; got != 2 {
		t.Errorf("failed payment must not release seats, got %d", got)
	}
}

// ──────────────────────────────────────────────
// FARE ESTIMATE
// ──────────────────────────────────────────────

func TestEstimateFare_MatchesSettlementAmount(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	f.rides.AddRide(newTestRide("ride-1", "driver-1", 4))
	booking := newTestBooking("booking-1", "ride-1", "passenger-1", 2)
	booking.DriverApproved = true
	f.bookings.AddBooking(booking)

	quote, err := f.svc.EstimateFare(context.Background(), "booking-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payment, err := f.svc.Pay(context.Background(), service.PayRequest{
		BookingID:   "booking-1",
		PassengerID: "passenger-1",
		Method:      "CARD",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if payment.Amount != quote.Amount {
		t.Errorf("estimate %f must match settlement %f", quote.Amount, payment.Amount)
	}
}

func TestGetBookingPayments_NewestFirst(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	now := time.Now()
	f.payments.Create(context.Background(), &domain.Payment{
		ID: "payment-1", BookingID: "booking-1",
		Status: domain.PaymentStatusFailed, CreatedAt: now.Add(-time.Hour),
	})
	f.payments.Create(context.Background(), &domain.Payment{
		ID: "payment-2", BookingID: "booking-1",
		Status: domain.PaymentStatusCompleted, CreatedAt: now,
	})

	payments, err := f.svc.GetBookingPayments(context.Background(), "booking-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(payments) != 2 {
		t.Fatalf("expected 2 payments, got %d", len(payments))
	}
	if payments[0].ID != "payment-2" {
		t.Errorf("expected newest payment first, got %s", payments[0].ID)
	}
}
