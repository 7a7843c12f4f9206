package domain

import "time"

// Role represents the role of a user in the system.
type Role string

const (
	RolePassenger Role = "PASSENGER"
	RoleDriver    Role = "DRIVER"
)

// User represents a registered passenger or driver.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	Role         Role

	// Driver-only profile fields.
	VehicleModel string
	LicensePlate string
	Capacity     int

	CreatedAt time.Time
}
