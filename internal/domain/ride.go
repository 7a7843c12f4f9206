package domain

import "time"

// Ride represents a driver-posted offer with a fixed seat capacity.
//
// SeatsAvailable is mutated only through the seat inventory operations on
// the ride repository (ReserveSeats/ReleaseSeats); no other code path may
// touch it. Invariant: 0 <= SeatsAvailable <= SeatsTotal.
type Ride struct {
	ID             string
	DriverID       string
	Source         string
	Destination    string
	DepartureTime  time.Time
	SeatsTotal     int
	SeatsAvailable int
	PricePerSeat   float64
	VehicleModel   string
	LicensePlate   string
	CreatedAt      time.Time
}
