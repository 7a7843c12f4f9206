package postgres

import (
	"context"
	"database/sql"

	"github.com/sanneekanupuru/SmartRide/internal/domain"
	"github.com/sanneekanupuru/SmartRide/internal/repository"
)

// NotificationRepository is a PostgreSQL implementation of
// repository.NotificationRepository.
type NotificationRepository struct {
	q Querier
}

// NewNotificationRepository creates a new PostgreSQL notification repository.
func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{q: db}
}

// Create persists a new notification.
func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, ride_id, booking_id, title, message, seen, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	var rideID, bookingID sql.NullString
	if n.RideID != "" {
		rideID = sql.NullString{String: n.RideID, Valid: true}
	}
	if n.BookingID != "" {
		bookingID = sql.NullString{String: n.BookingID, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		n.ID,
		n.UserID,
		rideID,
		bookingID,
		n.Title,
		n.Message,
		n.Seen,
		n.CreatedAt,
	)

	return err
}

// GetByUserID retrieves a user's notifications, newest first.
func (r *NotificationRepository) GetByUserID(ctx context.Context, userID string) ([]*domain.Notification, error) {
	query := `
		SELECT id, user_id, ride_id, booking_id, title, message, seen, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		var n domain.Notification
		var rideID, bookingID sql.NullString
		if err := rows.Scan(
			&n.ID,
			&n.UserID,
			&rideID,
			&bookingID,
			&n.Title,
			&n.Message,
			&n.Seen,
			&n.CreatedAt,
		); err != nil {
			return nil, err
		}
		n.RideID = rideID.String
		n.BookingID = bookingID.String
		notifications = append(notifications, &n)
	}
	return notifications, rows.Err()
}

// MarkSeen marks a notification as seen.
func (r *NotificationRepository) MarkSeen(ctx context.Context, id string) error {
	query := `UPDATE notifications SET seen = TRUE WHERE id = $1`

	result, err := r.q.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}
