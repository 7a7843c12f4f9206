package postgres

import (
	"context"
	"database/sql"

	"github.com/sanneekanupuru/SmartRide/internal/repository"
)

// TxRunner runs a function with repositories bound to one database
// transaction.
type TxRunner struct {
	db *sql.DB
}

// NewTxRunner creates a new TxRunner.
func NewTxRunner(db *sql.DB) *TxRunner {
	return &TxRunner{db: db}
}

// WithinTx begins a transaction, invokes fn with transaction-scoped
// repositories, and commits. Any error from fn rolls the whole transaction
// back, so a status change and a seat release apply together or not at all.
func (t *TxRunner) WithinTx(ctx context.Context, fn func(bookings repository.BookingRepository, rides repository.RideRepository, payments repository.PaymentRepository) error) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(NewBookingRepositoryWithTx(tx), NewRideRepositoryWithTx(tx), NewPaymentRepositoryWithTx(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

var _ repository.TxRunner = (*TxRunner)(nil)
