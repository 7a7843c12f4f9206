package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sanneekanupuru/SmartRide/internal/domain"
	"github.com/sanneekanupuru/SmartRide/internal/middleware"
	"github.com/sanneekanupuru/SmartRide/internal/service"
)

// NotificationHandler handles HTTP requests for in-app notifications.
type NotificationHandler struct {
	notificationService *service.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// NotificationResponse is the HTTP representation of a notification.
type NotificationResponse struct {
	ID        string `json:"id"`
	RideID    string `json:"ride_id,omitempty"`
	BookingID string `json:"booking_id,omitempty"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Seen      bool   `json:"seen"`
	CreatedAt string `json:"created_at"`
}

// GetMyNotifications handles GET /v1/notifications
func (h *NotificationHandler) GetMyNotifications(c *gin.Context) {
	notifications, err := h.notificationService.ListForUser(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		response = append(response, toNotificationResponse(n))
	}
	respondJSON(c, 200, response)
}

// MarkSeen handles POST /v1/notifications/:id/seen
func (h *NotificationHandler) MarkSeen(c *gin.Context) {
	if err := h.notificationService.MarkSeen(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, 200, gin.H{"status": "ok"})
}

func toNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		RideID:    n.RideID,
		BookingID: n.BookingID,
		Title:     n.Title,
		Message:   n.Message,
		Seen:      n.Seen,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
}
