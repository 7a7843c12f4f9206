package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sanneekanupuru/SmartRide/internal/domain"
	"github.com/sanneekanupuru/SmartRide/internal/middleware"
	"github.com/sanneekanupuru/SmartRide/internal/service"
)

// PaymentHandler handles HTTP requests for payments.
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// PayRequest is the HTTP request body for paying a booking.
type PayRequest struct {
	BookingID string `json:"booking_id"`
	Method    string `json:"method,omitempty"` // CASH, CARD, UPI; defaults to CASH
}

// UpdatePaymentStatusRequest is the HTTP request body for settling a payment.
type UpdatePaymentStatusRequest struct {
	Status string `json:"status"` // PENDING, COMPLETED, FAILED
}

// PaymentResponse is the HTTP representation of a payment.
type PaymentResponse struct {
	ID        string  `json:"id"`
	BookingID string  `json:"booking_id"`
	Amount    float64 `json:"amount"`
	Method    string  `json:"method"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
}

// FareEstimateResponse is the HTTP response for a fare estimate.
type FareEstimateResponse struct {
	DistanceKm float64 `json:"distance_km"`
	Amount     float64 `json:"amount"`
}

// Pay handles POST /v1/payments
func (h *PaymentHandler) Pay(c *gin.Context) {
	var req PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	payment, err := h.paymentService.Pay(c.Request.Context(), service.PayRequest{
		BookingID:   req.BookingID,
		PassengerID: middleware.CallerID(c),
		Method:      req.Method,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toPaymentResponse(payment))
}

// UpdateStatus handles PATCH /v1/payments/:id/status
func (h *PaymentHandler) UpdateStatus(c *gin.Context) {
	var req UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	payment, err := h.paymentService.UpdatePaymentStatus(c.Request.Context(), c.Param("id"), req.Status, middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPaymentResponse(payment))
}

// EstimateFare handles GET /v1/bookings/:id/fare
func (h *PaymentHandler) EstimateFare(c *gin.Context) {
	quote, err := h.paymentService.EstimateFare(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, FareEstimateResponse{
		DistanceKm: quote.DistanceKm,
		Amount:     quote.Amount,
	})
}

// GetBookingPayments handles GET /v1/bookings/:id/payments
func (h *PaymentHandler) GetBookingPayments(c *gin.Context) {
	payments, err := h.paymentService.GetBookingPayments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		response = append(response, toPaymentResponse(p))
	}
	respondJSON(c, http.StatusOK, response)
}

func toPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:        p.ID,
		BookingID: p.BookingID,
		Amount:    p.Amount,
		Method:    string(p.Method),
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}
