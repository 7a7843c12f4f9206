package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sanneekanupuru/SmartRide/internal/domain"
	"github.com/sanneekanupuru/SmartRide/internal/repository"
)

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// NewBookingRepositoryWithTx creates a booking repository using a transaction.
func NewBookingRepositoryWithTx(tx *sql.Tx) *BookingRepository {
	return &BookingRepository{q: tx}
}

const bookingColumns = `id, ride_id, passenger_id, seats_booked, status, driver_approved, fare, seats_released, created_at, updated_at`

// Create persists a new booking.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (id, ride_id, passenger_id, seats_booked, status, driver_approved, seats_released, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.q.ExecContext(ctx, query,
		booking.ID,
		booking.RideID,
		booking.PassengerID,
		booking.SeatsBooked,
		booking.Status,
		booking.DriverApproved,
		booking.SeatsReleased,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	return err
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return booking, nil
}

// GetByPassengerID retrieves a passenger's bookings, newest first.
func (r *BookingRepository) GetByPassengerID(ctx context.Context, passengerID string) ([]*domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + ` FROM bookings
		WHERE passenger_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, passengerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBookings(rows)
}

// GetByRideID retrieves all bookings on a ride.
func (r *BookingRepository) GetByRideID(ctx context.Context, rideID string) ([]*domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + ` FROM bookings
		WHERE ride_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, rideID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBookings(rows)
}

// MarkApproved sets driver_approved while the booking is still PENDING.
func (r *BookingRepository) MarkApproved(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE bookings
		SET driver_approved = TRUE, updated_at = $2
		WHERE id = $1 AND status = $3
	`

	result, err := r.q.ExecContext(ctx, query, id, time.Now(), domain.BookingStatusPending)
	if err != nil {
		return false, err
	}
	return affectedOne(result)
}

// Terminate moves a PENDING booking into REJECTED or CANCELLED and flips the
// seats_released marker in the same statement, so a retried transition can
// never pass the guard again.
func (r *BookingRepository) Terminate(ctx context.Context, id string, to domain.BookingStatus) (bool, error) {
	query := `
		UPDATE bookings
		SET status = $2, seats_released = TRUE, updated_at = $3
		WHERE id = $1 AND status = $4 AND NOT seats_released
	`

	result, err := r.q.ExecContext(ctx, query, id, to, time.Now(), domain.BookingStatusPending)
	if err != nil {
		return false, err
	}
	return affectedOne(result)
}

// Confirm moves a PENDING booking to CONFIRMED and stamps its fare. Fare is
// non-null exactly when the booking is CONFIRMED.
func (r *BookingRepository) Confirm(ctx context.Context, id string, fare float64) (bool, error) {
	query := `
		UPDATE bookings
		SET status = $2, fare = $3, updated_at = $4
		WHERE id = $1 AND status = $5
	`

	result, err := r.q.ExecContext(ctx, query, id, domain.BookingStatusConfirmed, fare, time.Now(), domain.BookingStatusPending)
	if err != nil {
		return false, err
	}
	return affectedOne(result)
}

func affectedOne(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var fare sql.NullFloat64

	err := row.Scan(
		&booking.ID,
		&booking.RideID,
		&booking.PassengerID,
		&booking.SeatsBooked,
		&booking.Status,
		&booking.DriverApproved,
		&fare,
		&booking.SeatsReleased,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if fare.Valid {
		booking.Fare = fare.Float64
	}
	return &booking, nil
}

func collectBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	var bookings []*domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}
