package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"github.com/sanneekanupuru/SmartRide/internal/app"
	"github.com/sanneekanupuru/SmartRide/internal/auth"
	"github.com/sanneekanupuru/SmartRide/internal/config"
	"github.com/sanneekanupuru/SmartRide/internal/handler"
	"github.com/sanneekanupuru/SmartRide/internal/maps"
	internalRedis "github.com/sanneekanupuru/SmartRide/internal/redis"
	"github.com/sanneekanupuru/SmartRide/internal/repository/postgres"
	"github.com/sanneekanupuru/SmartRide/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic first so the database driver can be instrumented.
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	geocoder, err := maps.NewGeocoder(cfg.Maps.APIKey)
	if err != nil {
		log.Fatalf("failed to create geocoder: %v", err)
	}

	// Wire dependencies.
	server := wireServer(db, redisClient, geocoder, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, geocoder *maps.Geocoder, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	// Initialize repositories.
	userRepo := postgres.NewUserRepository(db)
	rideRepo := postgres.NewRideRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	txRunner := postgres.NewTxRunner(db)

	// Initialize supporting services.
	tokenService := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.Expiry)
	geocodeCache := internalRedis.NewGeocodeCache(redisClient)

	// Initialize domain services.
	notificationService := service.NewNotificationService(notificationRepo)
	inventory := service.NewSeatInventory(rideRepo)
	fareService := service.NewFareService(geocoder, geocodeCache, cfg.Fare)
	userService := service.NewUserService(userRepo, tokenService)
	rideService := service.NewRideService(rideRepo, userRepo)
	bookingService := service.NewBookingService(bookingRepo, rideRepo, inventory, txRunner, notificationService)
	paymentService := service.NewPaymentService(paymentRepo, bookingRepo, rideRepo, fareService, txRunner, notificationService)

	// Initialize handlers.
	userHandler := handler.NewUserHandler(userService)
	rideHandler := handler.NewRideHandler(rideService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	notificationHandler := handler.NewNotificationHandler(notificationService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		UserHandler:         userHandler,
		RideHandler:         rideHandler,
		BookingHandler:      bookingHandler,
		PaymentHandler:      paymentHandler,
		NotificationHandler: notificationHandler,
		TokenService:        tokenService,
		RedisClient:         redisClient,
		NewRelicApp:         nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
