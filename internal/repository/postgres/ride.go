package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sanneekanupuru/SmartRide/internal/domain"
	"github.com/sanneekanupuru/SmartRide/internal/repository"
)

// RideRepository is a PostgreSQL implementation of repository.RideRepository.
type RideRepository struct {
	q Querier
}

// NewRideRepository creates a new PostgreSQL ride repository.
func NewRideRepository(db *sql.DB) *RideRepository {
	return &RideRepository{q: db}
}

// NewRideRepositoryWithTx creates a ride repository using a transaction.
func NewRideRepositoryWithTx(tx *sql.Tx) *RideRepository {
	return &RideRepository{q: tx}
}

const rideColumns = `id, driver_id, source, destination, departure_time, seats_total, seats_available, price_per_seat, vehicle_model, license_plate, created_at`

// Create persists a new ride.
func (r *RideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	query := `
		INSERT INTO rides (` + rideColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.q.ExecContext(ctx, query,
		ride.ID,
		ride.DriverID,
		ride.Source,
		ride.Destination,
		ride.DepartureTime,
		ride.SeatsTotal,
		ride.SeatsAvailable,
		ride.PricePerSeat,
		ride.VehicleModel,
		ride.LicensePlate,
		ride.CreatedAt,
	)

	return err
}

// GetByID retrieves a ride by ID.
func (r *RideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1`

	ride, err := scanRide(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return ride, nil
}

// Search retrieves rides matching source/destination substrings departing on
// the given date, with at least one seat available.
func (r *RideRepository) Search(ctx context.Context, source, destination string, date time.Time) ([]*domain.Ride, error) {
	query := `
		SELECT ` + rideColumns + ` FROM rides
		WHERE source ILIKE '%' || $1 || '%'
		  AND destination ILIKE '%' || $2 || '%'
		  AND departure_time::date = $3::date
		  AND seats_available > 0
		ORDER BY departure_time ASC
	`

	rows, err := r.q.QueryContext(ctx, query, source, destination, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRides(rows)
}

// GetByDriverID retrieves rides posted by a driver, newest first.
func (r *RideRepository) GetByDriverID(ctx context.Context, driverID string) ([]*domain.Ride, error) {
	query := `
		SELECT ` + rideColumns + ` FROM rides
		WHERE driver_id = $1
		ORDER BY departure_time DESC
	`

	rows, err := r.q.QueryContext(ctx, query, driverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRides(rows)
}

// ReserveSeats atomically checks and decrements seats_available in one
// conditional update. Rides never contend with each other: the statement
// touches exactly one row and holds no lock beyond its own execution.
func (r *RideRepository) ReserveSeats(ctx context.Context, rideID string, seats int) (int, error) {
	query := `
		UPDATE rides
		SET seats_available = seats_available - $2
		WHERE id = $1 AND seats_available >= $2
		RETURNING seats_available
	`

	var remaining int
	err := r.q.QueryRowContext(ctx, query, rideID, seats).Scan(&remaining)
	if err == nil {
		return remaining, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	// The guard failed: distinguish a missing ride from insufficient seats.
	var exists bool
	if err := r.q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM rides WHERE id = $1)`, rideID).Scan(&exists); err != nil {
		return 0, err
	}
	if !exists {
		return 0, repository.ErrNotFound
	}
	return 0, repository.ErrInsufficientSeats
}

// ReleaseSeats atomically increments seats_available, capped at seats_total.
func (r *RideRepository) ReleaseSeats(ctx context.Context, rideID string, seats int) (int, error) {
	query := `
		UPDATE rides
		SET seats_available = LEAST(seats_total, seats_available + $2)
		WHERE id = $1
		RETURNING seats_available
	`

	var available int
	err := r.q.QueryRowContext(ctx, query, rideID, seats).Scan(&available)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, repository.ErrNotFound
		}
		return 0, err
	}
	return available, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRide(row rowScanner) (*domain.Ride, error) {
	var ride domain.Ride
	var vehicleModel, licensePlate sql.NullString

	err := row.Scan(
		&ride.ID,
		&ride.DriverID,
		&ride.Source,
		&ride.Destination,
		&ride.DepartureTime,
		&ride.SeatsTotal,
		&ride.SeatsAvailable,
		&ride.PricePerSeat,
		&vehicleModel,
		&licensePlate,
		&ride.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	ride.VehicleModel = vehicleModel.String
	ride.LicensePlate = licensePlate.String
	return &ride, nil
}

func collectRides(rows *sql.Rows) ([]*domain.Ride, error) {
	var rides []*domain.Ride
	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, ride)
	}
	return rides, rows.Err()
}
