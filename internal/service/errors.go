package service

import "errors"

// Validation errors.
var (
	// ErrInvalidRideID is returned when a ride ID is missing or malformed.
	ErrInvalidRideID = errors.New("invalid ride ID")

	// ErrInvalidBookingID is returned when a booking ID is missing or malformed.
	ErrInvalidBookingID = errors.New("invalid booking ID")

	// ErrInvalidPaymentID is returned when a payment ID is missing or malformed.
	ErrInvalidPaymentID = errors.New("invalid payment ID")

	// ErrInvalidUserID is returned when a user ID is missing or malformed.
	ErrInvalidUserID = errors.New("invalid user ID")

	// ErrInvalidSeatCount is returned when a seat count is not a positive integer.
	ErrInvalidSeatCount = errors.New("seat count must be a positive integer")

	// ErrInvalidLocation is returned when a source or destination name is empty.
	ErrInvalidLocation = errors.New("source and destination are required")

	// ErrInvalidDepartureTime is returned when a ride's departure time is in the past.
	ErrInvalidDepartureTime = errors.New("departure time must be in the future")

	// ErrInvalidPrice is returned when a ride's per-seat price is not positive.
	ErrInvalidPrice = errors.New("price per seat must be positive")

	// ErrSeatsExceedCapacity is returned when a ride offers more seats than the
	// driver's registered vehicle capacity.
	ErrSeatsExceedCapacity = errors.New("seats exceed vehicle capacity")

	// ErrInvalidPaymentMethod is returned for an unrecognized payment method.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// ErrInvalidPaymentStatus is returned for an unrecognized payment status.
	ErrInvalidPaymentStatus = errors.New("invalid payment status")

	// ErrInvalidRole is returned for a role other than PASSENGER or DRIVER.
	ErrInvalidRole = errors.New("invalid role")

	// ErrInvalidRegistration is returned when a registration is missing
	// required fields.
	ErrInvalidRegistration = errors.New("name, email and password are required")

	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned when login email or password is wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Authorization errors.
var (
	// ErrDriverRoleRequired is returned when a non-driver attempts a
	// driver-only operation.
	ErrDriverRoleRequired = errors.New("driver role required")

	// ErrNotRideDriver is returned when a driver acts on a ride they did not post.
	ErrNotRideDriver = errors.New("not the driver of this ride")

	// ErrNotBookingPassenger is returned when a passenger acts on a booking
	// they do not own.
	ErrNotBookingPassenger = errors.New("not the passenger of this booking")
)

// Lifecycle errors.
var (
	// ErrBookingNotPending is returned when a transition requires a booking
	// that is still open and it has already been confirmed.
	ErrBookingNotPending = errors.New("booking is not pending")

	// ErrBookingAlreadyTerminal is returned when a booking has already reached
	// a terminal state and can accept no further transitions.
	ErrBookingAlreadyTerminal = errors.New("booking already in a terminal state")

	// ErrBookingNotApproved is returned when payment is attempted before the
	// driver has approved the booking.
	ErrBookingNotApproved = errors.New("booking not approved by driver")

	// ErrBookingAlreadyPaid is returned when a completed payment already
	// settles the booking.
	ErrBookingAlreadyPaid = errors.New("booking already paid")
)

// Fare errors.
var (
	// ErrLocationNotFound is returned when a place name resolves to no
	// geographic location.
	ErrLocationNotFound = errors.New("location not found")

	// ErrFareUnavailable is returned when the fare cannot be computed because
	// geocoding failed or timed out. The condition is retryable.
	ErrFareUnavailable = errors.New("fare temporarily unavailable")
)
