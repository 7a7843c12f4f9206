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

// PaymentService settles bookings.
//
// A payment is accepted only after the driver approved the booking and only
// while no COMPLETED payment exists for it. Cash payments stay PENDING until
// the driver marks them completed; every other method completes immediately
// and confirms the booking in the same transaction as the payment row.
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	bookingRepo repository.BookingRepository
	rideRepo    repository.RideRepository
	fare        *FareService
	tx          repository.TxRunner
	notifier    *NotificationService
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	bookingRepo repository.BookingRepository,
	rideRepo repository.RideRepository,
	fare *FareService,
	tx repository.TxRunner,
	notifier *NotificationService,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
		rideRepo:    rideRepo,
		fare:        fare,
		tx:          tx,
		notifier:    notifier,
	}
}

// ValidatePaymentMethod parses a payment method string. An empty method
// defaults to cash.
func ValidatePaymentMethod(method string) (domain.PaymentMethod, error) {
	switch domain.PaymentMethod(method) {
	case "":
		return domain.PaymentMethodCash, nil
	case domain.PaymentMethodCash, domain.PaymentMethodCard, domain.PaymentMethodUPI:
		return domain.PaymentMethod(method), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidPaymentMethod, method)
	}
}

// ValidatePaymentStatus parses a payment status string.
func ValidatePaymentStatus(status string) (domain.PaymentStatus, error) {
	switch domain.PaymentStatus(status) {
	case domain.PaymentStatusPending, domain.PaymentStatusCompleted, domain.PaymentStatusFailed:
		return domain.PaymentStatus(status), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidPaymentStatus, status)
	}
}

// PayRequest carries the data for paying a booking.
type PayRequest struct {
	BookingID   string
	PassengerID string
	Method      string
}

// Pay settles a booking. The fare is computed from the ride's endpoints
// before any write, so a geocoding failure leaves the booking untouched.
// Non-cash payments confirm the booking and stamp its fare in the same
// transaction as the payment row.
func (s *PaymentService) Pay(ctx context.Context, req PayRequest) (*domain.Payment, error) {
	method, err := ValidatePaymentMethod(req.Method)
	if err != nil {
		return nil, err
	}
	if req.BookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if req.PassengerID != "" && booking.PassengerID != req.PassengerID {
		return nil, ErrNotBookingPassenger
	}
	if err := s.checkPayable(ctx, booking); err != nil {
		return nil, err
	}

	ride, err := s.rideRepo.GetByID(ctx, booking.RideID)
	if err != nil {
		return nil, err
	}

	quote, err := s.fare.Quote(ctx, ride.Source, ride.Destination, booking.SeatsBooked)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	payment := &domain.Payment{
		ID:        uuid.New().String(),
		BookingID: booking.ID,
		Amount:    quote.Amount,
		Method:    method,
		Status:    domain.PaymentStatusCompleted,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if method == domain.PaymentMethodCash {
		payment.Status = domain.PaymentStatusPending
	}

	err = s.tx.WithinTx(ctx, func(bookings repository.BookingRepository, _ repository.RideRepository, payments repository.PaymentRepository) error {
		if err := payments.Create(ctx, payment); err != nil {
			return err
		}
		if payment.Status != domain.PaymentStatusCompleted {
			return nil
		}
		ok, err := bookings.Confirm(ctx, booking.ID, payment.Amount)
		if err != nil {
			return err
		}
		if !ok {
			return errTransitionLost
		}
		return nil
	})
	if errors.Is(err, errTransitionLost) {
		return nil, s.classifyLostConfirmation(ctx, booking.ID)
	}
	if err != nil {
		return nil, err
	}

	if payment.Status == domain.PaymentStatusCompleted {
		booking.Status = domain.BookingStatusConfirmed
		booking.Fare = payment.Amount
		_ = s.notifier.BookingConfirmed(ctx, booking, ride)
	} else {
		_ = s.notifier.CashPaymentRecorded(ctx, booking, ride, payment.Amount)
	}

	return payment, nil
}

// UpdatePaymentStatus moves a payment to a new status; drivers use it to
// settle cash. Completing a payment confirms its booking in the same
// transaction. Completion is idempotent for an already confirmed booking.
func (s *PaymentService) UpdatePaymentStatus(ctx context.Context, paymentID, status, actorID string) (*domain.Payment, error) {
	newStatus, err := ValidatePaymentStatus(status)
	if err != nil {
		return nil, err
	}
	if paymentID == "" {
		return nil, ErrInvalidPaymentID
	}

	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	booking, err := s.bookingRepo.GetByID(ctx, payment.BookingID)
	if err != nil {
		return nil, err
	}
	ride, err := s.rideRepo.GetByID(ctx, booking.RideID)
	if err != nil {
		return nil, err
	}
	if actorID != "" && ride.DriverID != actorID {
		return nil, ErrNotRideDriver
	}

	if newStatus != domain.PaymentStatusCompleted {
		if err := s.paymentRepo.UpdateStatus(ctx, paymentID, newStatus); err != nil {
			return nil, err
		}
		payment.Status = newStatus
		return payment, nil
	}

	err = s.tx.WithinTx(ctx, func(bookings repository.BookingRepository, _ repository.RideRepository, payments repository.PaymentRepository) error {
		if err := payments.UpdateStatus(ctx, paymentID, newStatus); err != nil {
			return err
		}
		ok, err := bookings.Confirm(ctx, booking.ID, payment.Amount)
		if err != nil {
			return err
		}
		if !ok {
			// An already confirmed booking makes completion a no-op;
			// anything else aborts the settlement.
			current, err := bookings.GetByID(ctx, booking.ID)
			if err != nil {
				return err
			}
			if current.Status != domain.BookingStatusConfirmed {
				return errTransitionLost
			}
		}
		return nil
	})
	if errors.Is(err, errTransitionLost) {
		return nil, s.classifyLostConfirmation(ctx, booking.ID)
	}
	if err != nil {
		return nil, err
	}

	payment.Status = newStatus
	booking.Status = domain.BookingStatusConfirmed
	_ = s.notifier.BookingConfirmed(ctx, booking, ride)

	return payment, nil
}

// EstimateFare quotes the fare a booking would settle at, without writing
// anything.
func (s *PaymentService) EstimateFare(ctx context.Context, bookingID string) (*FareQuote, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	ride, err := s.rideRepo.GetByID(ctx, booking.RideID)
	if err != nil {
		return nil, err
	}

	return s.fare.Quote(ctx, ride.Source, ride.Destination, booking.SeatsBooked)
}

// GetBookingPayments retrieves a booking's payments, newest first.
func (s *PaymentService) GetBookingPayments(ctx context.Context, bookingID string) ([]*domain.Payment, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}
	return s.paymentRepo.GetByBookingID(ctx, bookingID)
}

// checkPayable enforces the payment gates: driver approval first, then no
// completed payment yet, on a booking that is not already closed.
func (s *PaymentService) checkPayable(ctx context.Context, booking *domain.Booking) error {
	if !booking.DriverApproved {
		return ErrBookingNotApproved
	}
	if booking.Status == domain.BookingStatusConfirmed {
		return ErrBookingAlreadyPaid
	}
	if booking.Status.IsTerminal() {
		return ErrBookingAlreadyTerminal
	}

	paid, err := s.paymentRepo.HasCompleted(ctx, booking.ID)
	if err != nil {
		return err
	}
	if paid {
		return ErrBookingAlreadyPaid
	}
	return nil
}

// classifyLostConfirmation reloads a booking after Confirm matched no row.
func (s *PaymentService) classifyLostConfirmation(ctx context.Context, bookingID string) error {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	switch {
	case booking.Status == domain.BookingStatusConfirmed:
		return ErrBookingAlreadyPaid
	case booking.Status.IsTerminal():
		return ErrBookingAlreadyTerminal
	default:
		return fmt.Errorf("booking %s confirmation failed in status %s", bookingID, booking.Status)
	}
}
