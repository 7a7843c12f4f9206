package repository

import (
	"context"

	"github.com/sanneekanupuru/SmartRide/internal/domain"
)

// NotificationRepository defines the persistence operations for in-app
// notifications.
type NotificationRepository interface {
	// Create persists a new notification.
	Create(ctx context.Context, n *domain.Notification) error

	// GetByUserID retrieves a user's notifications, newest first.
	GetByUserID(ctx context.Context, userID string) ([]*domain.Notification, error)

	// MarkSeen marks a notification as seen.
	MarkSeen(ctx context.Context, id string) error
}
