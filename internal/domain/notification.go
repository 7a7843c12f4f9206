package domain

import "time"

// Notification is an in-app notification row. Delivery is best-effort and
// never gates the operation that produced it.
type Notification struct {
	ID        string
	UserID    string
	RideID    string
	BookingID string
	Title     string
	Message   string
	Seen      bool
	CreatedAt time.Time
}
