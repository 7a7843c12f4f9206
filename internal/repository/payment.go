package repository

import (
	"context"

	"github.com/sanneekanupuru/SmartRide/internal/domain"
)

// PaymentRepository defines the persistence operations for payments.
type PaymentRepository interface {
	// Create persists a new payment.
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByID retrieves a payment by ID.
	GetByID(ctx context.Context, id string) (*domain.Payment, error)

	// GetByBookingID retrieves a booking's payments, newest first. The
	// latest payment is authoritative for display.
	GetByBookingID(ctx context.Context, bookingID string) ([]*domain.Payment, error)

	// HasCompleted reports whether a COMPLETED payment exists for a booking.
	HasCompleted(ctx context.Context, bookingID string) (bool, error)

	// UpdateStatus updates the status of a payment.
	UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus) error
}
