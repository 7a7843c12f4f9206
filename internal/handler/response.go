package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sanneekanupuru/SmartRide/internal/repository"
	"github.com/sanneekanupuru/SmartRide/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation and precondition errors - Bad Request
	case errors.Is(err, service.ErrInvalidRideID),
		errors.Is(err, service.ErrInvalidBookingID),
		errors.Is(err, service.ErrInvalidPaymentID),
		errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrInvalidSeatCount),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrInvalidDepartureTime),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrSeatsExceedCapacity),
		errors.Is(err, service.ErrInvalidPaymentMethod),
		errors.Is(err, service.ErrInvalidPaymentStatus),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidRegistration),
		errors.Is(err, service.ErrLocationNotFound),
		errors.Is(err, service.ErrBookingNotApproved),
		errors.Is(err, service.ErrBookingAlreadyPaid),
		errors.Is(err, repository.ErrInsufficientSeats):
		return http.StatusBadRequest

	// Authentication errors
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Ownership/role errors
	case errors.Is(err, service.ErrNotRideDriver),
		errors.Is(err, service.ErrNotBookingPassenger),
		errors.Is(err, service.ErrDriverRoleRequired):
		return http.StatusForbidden

	// Conflict errors
	case errors.Is(err, service.ErrBookingNotPending),
		errors.Is(err, service.ErrBookingAlreadyTerminal),
		errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict

	// Service unavailable
	case errors.Is(err, service.ErrFareUnavailable):
		return http.StatusServiceUnavailable

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
