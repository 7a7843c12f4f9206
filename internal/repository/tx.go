package repository

import "context"

// TxRunner executes fn with repositories bound to one transaction, so a
// booking status change and its side effects (seat release, payment row)
// commit together or not at all.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(bookings BookingRepository, rides RideRepository, payments PaymentRepository) error) error
}
