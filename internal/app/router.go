package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"github.com/sanneekanupuru/SmartRide/internal/auth"
	"github.com/sanneekanupuru/SmartRide/internal/domain"
	"github.com/sanneekanupuru/SmartRide/internal/handler"
	"github.com/sanneekanupuru/SmartRide/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	UserHandler         *handler.UserHandler
	RideHandler         *handler.RideHandler
	BookingHandler      *handler.BookingHandler
	PaymentHandler      *handler.PaymentHandler
	NotificationHandler *handler.NotificationHandler
	TokenService        *auth.TokenService
	RedisClient         *redis.Client
	NewRelicApp         *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered. Everything
// except registration, login, health and ride search requires a valid token.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authenticate := middleware.Authenticate(deps.TokenService)
	driverOnly := middleware.RequireRole(domain.RoleDriver)
	passengerOnly := middleware.RequireRole(domain.RolePassenger)

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Public auth routes.
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", deps.UserHandler.Register)
			authGroup.POST("/login", deps.UserHandler.Login)
		}

		// Public ride discovery.
		v1.GET("/rides/search", deps.RideHandler.SearchRides)
		v1.GET("/rides/:id", deps.RideHandler.GetRide)

		// Authenticated routes. The idempotency layer sits behind auth so
		// its keys are scoped per caller.
		authed := v1.Group("")
		authed.Use(authenticate)
		authed.Use(middleware.IdempotencyMiddleware(deps.RedisClient))
		{
			authed.GET("/users/me", deps.UserHandler.Me)

			// Ride routes.
			authed.POST("/rides", driverOnly, deps.RideHandler.PostRide)
			authed.GET("/rides/mine", driverOnly, deps.RideHandler.GetMyRides)
			authed.GET("/rides/:id/bookings", driverOnly, deps.BookingHandler.GetRideBookings)

			// Booking routes.
			bookings := authed.Group("/bookings")
			{
				bookings.POST("", passengerOnly, deps.BookingHandler.CreateBooking)
				bookings.GET("/mine", deps.BookingHandler.GetMyBookings)
				bookings.GET("/:id", deps.BookingHandler.GetBooking)
				bookings.POST("/:id/approve", driverOnly, deps.BookingHandler.ApproveBooking)
				bookings.POST("/:id/reject", driverOnly, deps.BookingHandler.RejectBooking)
				bookings.POST("/:id/cancel", passengerOnly, deps.BookingHandler.CancelBooking)
				bookings.GET("/:id/fare", deps.PaymentHandler.EstimateFare)
				bookings.GET("/:id/payments", deps.PaymentHandler.GetBookingPayments)
			}

			// Payment routes.
			payments := authed.Group("/payments")
			{
				payments.POST("", passengerOnly, deps.PaymentHandler.Pay)
				payments.PATCH("/:id/status", driverOnly, deps.PaymentHandler.UpdateStatus)
			}

			// Notification routes.
			notifications := authed.Group("/notifications")
			{
				notifications.GET("", deps.NotificationHandler.GetMyNotifications)
				notifications.POST("/:id/seen", deps.NotificationHandler.MarkSeen)
			}
		}
	}

	return router
}
