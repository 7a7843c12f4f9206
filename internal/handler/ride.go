package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sanneekanupuru/SmartRide/internal/domain"
	"github.com/sanneekanupuru/SmartRide/internal/middleware"
	"github.com/sanneekanupuru/SmartRide/internal/service"
)

// RideHandler handles HTTP requests for rides.
type RideHandler struct {
	rideService *service.RideService
}

// NewRideHandler creates a new RideHandler.
func NewRideHandler(rideService *service.RideService) *RideHandler {
	return &RideHandler{rideService: rideService}
}

// PostRideRequest is the HTTP request body for posting a ride.
type PostRideRequest struct {
	Source        string  `json:"source"`
	Destination   string  `json:"destination"`
	DepartureTime string  `json:"departure_time"` // RFC 3339
	SeatsTotal    int     `json:"seats_total"`
	PricePerSeat  float64 `json:"price_per_seat"`
}

// RideResponse is the HTTP representation of a ride.
type RideResponse struct {
	ID             string  `json:"id"`
	DriverID       string  `json:"driver_id"`
	Source         string  `json:"source"`
	Destination    string  `json:"destination"`
	DepartureTime  string  `json:"departure_time"`
	SeatsTotal     int     `json:"seats_total"`
	SeatsAvailable int     `json:"seats_available"`
	PricePerSeat   float64 `json:"price_per_seat"`
	VehicleModel   string  `json:"vehicle_model,omitempty"`
	LicensePlate   string  `json:"license_plate,omitempty"`
}

// PostRide handles POST /v1/rides
func (h *RideHandler) PostRide(c *gin.Context) {
	var req PostRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	departure, err := time.Parse(time.RFC3339, req.DepartureTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "departure_time must be RFC 3339"})
		return
	}

	ride, err := h.rideService.PostRide(c.Request.Context(), service.PostRideRequest{
		DriverID:      middleware.CallerID(c),
		Source:        req.Source,
		Destination:   req.Destination,
		DepartureTime: departure,
		SeatsTotal:    req.SeatsTotal,
		PricePerSeat:  req.PricePerSeat,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toRideResponse(ride))
}

// SearchRides handles GET /v1/rides/search?source=&destination=&date=
func (h *RideHandler) SearchRides(c *gin.Context) {
	date := time.Now()
	if d := c.Query("date"); d != "" {
		parsed, err := time.Parse("2006-01-02", d)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "date must be YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	rides, err := h.rideService.SearchRides(c.Request.Context(), c.Query("source"), c.Query("destination"), date)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RideResponse, 0, len(rides))
	for _, r := range rides {
		response = append(response, toRideResponse(r))
	}
	respondJSON(c, http.StatusOK, response)
}

// GetRide handles GET /v1/rides/:id
func (h *RideHandler) GetRide(c *gin.Context) {
	ride, err := h.rideService.GetRide(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// GetMyRides handles GET /v1/rides/mine
func (h *RideHandler) GetMyRides(c *gin.Context) {
	rides, err := h.rideService.GetDriverRides(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RideResponse, 0, len(rides))
	for _, r := range rides {
		response = append(response, toRideResponse(r))
	}
	respondJSON(c, http.StatusOK, response)
}

func toRideResponse(r *domain.Ride) RideResponse {
	return RideResponse{
		ID:             r.ID,
		DriverID:       r.DriverID,
		Source:         r.Source,
		Destination:    r.Destination,
		DepartureTime:  r.DepartureTime.Format(time.RFC3339),
		SeatsTotal:     r.SeatsTotal,
		SeatsAvailable: r.SeatsAvailable,
		PricePerSeat:   r.PricePerSeat,
		VehicleModel:   r.VehicleModel,
		LicensePlate:   r.LicensePlate,
	}
}
