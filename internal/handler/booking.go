package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sanneekanupuru/SmartRide/internal/domain"
	"github.com/sanneekanupuru/SmartRide/internal/middleware"
	"github.com/sanneekanupuru/SmartRide/internal/service"
)

// BookingHandler handles HTTP requests for bookings.
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// CreateBookingRequest is the HTTP request body for booking seats.
type CreateBookingRequest struct {
	RideID string `json:"ride_id"`
	Seats  int    `json:"seats"`
}

// BookingResponse is the HTTP representation of a booking. Fare is present
// only once the booking is confirmed.
type BookingResponse struct {
	ID             string   `json:"id"`
	RideID         string   `json:"ride_id"`
	PassengerID    string   `json:"passenger_id"`
	SeatsBooked    int      `json:"seats_booked"`
	Status         string   `json:"status"`
	DriverApproved bool     `json:"driver_approved"`
	Fare           *float64 `json:"fare,omitempty"`
	CreatedAt      string   `json:"created_at"`
}

// CreateBooking handles POST /v1/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), service.CreateBookingRequest{
		RideID:      req.RideID,
		PassengerID: middleware.CallerID(c),
		Seats:       req.Seats,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toBookingResponse(booking))
}

// GetBooking handles GET /v1/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, err := h.bookingService.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// GetMyBookings handles GET /v1/bookings/mine
func (h *BookingHandler) GetMyBookings(c *gin.Context) {
	bookings, err := h.bookingService.GetPassengerBookings(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		response = append(response, toBookingResponse(b))
	}
	respondJSON(c, http.StatusOK, response)
}

// GetRideBookings handles GET /v1/rides/:id/bookings
func (h *BookingHandler) GetRideBookings(c *gin.Context) {
	bookings, err := h.bookingService.GetRideBookings(c.Request.Context(), c.Param("id"), middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		response = append(response, toBookingResponse(b))
	}
	respondJSON(c, http.StatusOK, response)
}

// ApproveBooking handles POST /v1/bookings/:id/approve
func (h *BookingHandler) ApproveBooking(c *gin.Context) {
	booking, err := h.bookingService.ApproveBooking(c.Request.Context(), c.Param("id"), middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// RejectBooking handles POST /v1/bookings/:id/reject
func (h *BookingHandler) RejectBooking(c *gin.Context) {
	booking, err := h.bookingService.RejectBooking(c.Request.Context(), c.Param("id"), middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// CancelBooking handles POST /v1/bookings/:id/cancel
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	booking, err := h.bookingService.CancelBooking(c.Request.Context(), c.Param("id"), middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

func toBookingResponse(b *domain.Booking) BookingResponse {
	response := BookingResponse{
		ID:             b.ID,
		RideID:         b.RideID,
		PassengerID:    b.PassengerID,
		SeatsBooked:    b.SeatsBooked,
		Status:         string(b.Status),
		DriverApproved: b.DriverApproved,
		CreatedAt:      b.CreatedAt.Format(time.RFC3339),
	}
	if b.Status == domain.BookingStatusConfirmed {
		fare := b.Fare
		response.Fare = &fare
	}
	return response
}
