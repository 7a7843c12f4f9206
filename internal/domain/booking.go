package domain

import "time"

// BookingStatus represents the current lifecycle state of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusApproved  BookingStatus = "APPROVED"
	BookingStatusRejected  BookingStatus = "REJECTED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
)

// IsTerminal reports whether no further transition is legal from s.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusRejected || s == BookingStatusCancelled || s == BookingStatusConfirmed
}

// Booking represents a passenger's claim on seats of one ride.
//
// The booking is created PENDING with its seats already reserved. The driver
// flips DriverApproved; payment then confirms the booking. Fare is zero
// until the booking reaches CONFIRMED, at which point it is stamped together
// with the status change. SeatsReleased flips exactly once, together with a
// transition into REJECTED or CANCELLED, so a retried transition can never
// release seats twice.
type Booking struct {
	ID             string
	RideID         string
	PassengerID    string
	SeatsBooked    int
	Status         BookingStatus
	DriverApproved bool
	Fare           float64
	SeatsReleased  bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
