package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/sanneekanupuru/SmartRide/internal/domain"
	"github.com/sanneekanupuru/SmartRide/internal/repository"
)

// NotificationService records in-app notifications for booking and payment
// events. Delivery is fire-and-forget: every method logs and persists on a
// best-effort basis, and callers ignore the returned error so a notification
// failure can never fail or roll back the operation that produced it.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// BookingRequested notifies the driver that a passenger requested seats.
func (s *NotificationService) BookingRequested(ctx context.Context, booking *domain.Booking, ride *domain.Ride) error {
	msg := fmt.Sprintf("New booking request for %d seat(s) on your ride %s -> %s",
		booking.SeatsBooked, ride.Source, ride.Destination)
	return s.send(ctx, ride.DriverID, booking, "Booking requested", msg)
}

// BookingApproved notifies the passenger that the driver approved.
func (s *NotificationService) BookingApproved(ctx context.Context, booking *domain.Booking, ride *domain.Ride) error {
	msg := fmt.Sprintf("Your booking for %s -> %s was approved. You can now pay to confirm.",
		ride.Source, ride.Destination)
	return s.send(ctx, booking.PassengerID, booking, "Booking approved", msg)
}

// BookingRejected notifies the passenger that the driver rejected.
func (s *NotificationService) BookingRejected(ctx context.Context, booking *domain.Booking, ride *domain.Ride) error {
	msg := fmt.Sprintf("Your booking for %s -> %s was rejected by the driver.",
		ride.Source, ride.Destination)
	return s.send(ctx, booking.PassengerID, booking, "Booking rejected", msg)
}

// BookingCancelled notifies the driver that the passenger cancelled.
func (s *NotificationService) BookingCancelled(ctx context.Context, booking *domain.Booking, ride *domain.Ride) error {
	msg := fmt.Sprintf("A booking for %d seat(s) on your ride %s -> %s was cancelled.",
		booking.SeatsBooked, ride.Source, ride.Destination)
	return s.send(ctx, ride.DriverID, booking, "Booking cancelled", msg)
}

// BookingConfirmed notifies both parties that payment settled the booking.
func (s *NotificationService) BookingConfirmed(ctx context.Context, booking *domain.Booking, ride *domain.Ride) error {
	passengerMsg := fmt.Sprintf("Payment received. Your booking for %s -> %s is confirmed.",
		ride.Source, ride.Destination)
	driverMsg := fmt.Sprintf("A booking for %d seat(s) on your ride %s -> %s is confirmed.",
		booking.SeatsBooked, ride.Source, ride.Destination)

	if err := s.send(ctx, booking.PassengerID, booking, "Booking confirmed", passengerMsg); err != nil {
		return err
	}
	return s.send(ctx, ride.DriverID, booking, "Booking confirmed", driverMsg)
}

// CashPaymentRecorded notifies the driver that a cash payment awaits
// collection.
func (s *NotificationService) CashPaymentRecorded(ctx context.Context, booking *domain.Booking, ride *domain.Ride, amount float64) error {
	msg := fmt.Sprintf("Cash payment of %.2f recorded for a booking on %s -> %s. Mark it completed once collected.",
		amount, ride.Source, ride.Destination)
	return s.send(ctx, ride.DriverID, booking, "Cash payment pending", msg)
}

// ListForUser returns a user's notifications, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID string) ([]*domain.Notification, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	return s.notificationRepo.GetByUserID(ctx, userID)
}

// MarkSeen marks a notification as seen.
func (s *NotificationService) MarkSeen(ctx context.Context, id string) error {
	if id == "" {
		return repository.ErrNotFound
	}
	return s.notificationRepo.MarkSeen(ctx, id)
}

func (s *NotificationService) send(ctx context.Context, userID string, booking *domain.Booking, title, message string) error {
	log.Printf("notify user=%s: %s: %s", userID, title, message)

	n := &domain.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		RideID:    booking.RideID,
		BookingID: booking.ID,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now(),
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		log.Printf("failed to persist notification for user %s: %v", userID, err)
		return err
	}
	return nil
}
