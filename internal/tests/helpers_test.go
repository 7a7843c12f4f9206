package tests

import (
	"time"

	"github.com/sanneekanupuru/SmartRide/internal/config"
	"github.com/sanneekanupuru/SmartRide/internal/domain"
	"github.com/sanneekanupuru/SmartRide/internal/maps"
	"github.com/sanneekanupuru/SmartRide/internal/service"
)

// Fixed coordinate table used across fare and payment tests.
var testCoords = map[string]maps.Coordinate{
	"Hyderabad": {Lat: 17.3850, Lng: 78.4867},
	"Bangalore": {Lat: 12.9716, Lng: 77.5946},
	"Chennai":   {Lat: 13.0827, Lng: 80.2707},
}

func testFareConfig() config.FareConfig {
	return config.FareConfig{
		BaseFare:       50,
		RatePerKm:      10,
		GeocodeTimeout: time.Second,
	}
}

func newTestRide(id, driverID string, seats int) *domain.Ride {
	return &domain.Ride{
		ID:             id,
		DriverID:       driverID,
		Source:         "Hyderabad",
		Destination:    "Bangalore",
		DepartureTime:  time.Now().Add(24 * time.Hour),
		SeatsTotal:     seats,
		SeatsAvailable: seats,
		PricePerSeat:   300,
		CreatedAt:      time.Now(),
	}
}

func newTestBooking(id, rideID, passengerID string, seats int) *domain.Booking {
	now := time.Now()
	return &domain.Booking{
		ID:          id,
		RideID:      rideID,
		PassengerID: passengerID,
		SeatsBooked: seats,
		Status:      domain.BookingStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// bookingFixture bundles the mocks behind a BookingService.
type bookingFixture struct {
	rides         *MockRideRepository
	bookings      *MockBookingRepository
	payments      *MockPaymentRepository
	notifications *MockNotificationRepository
	tx            *MockTxRunner
	svc           *service.BookingService
}

func newBookingFixture() *bookingFixture {
	rides := NewMockRideRepository()
	bookings := NewMockBookingRepository()
	payments := NewMockPaymentRepository()
	notifications := NewMockNotificationRepository()
	tx := NewMockTxRunner(bookings, rides, payments)

	svc := service.NewBookingService(
		bookings,
		rides,
		service.NewSeatInventory(rides),
		tx,
		service.NewNotificationService(notifications),
	)

	return &bookingFixture{
		rides:         rides,
		bookings:      bookings,
		payments:      payments,
		notifications: notifications,
		tx:            tx,
		svc:           svc,
	}
}

// paymentFixture bundles the mocks behind a PaymentService with a stub
// geocoder.
type paymentFixture struct {
	rides         *MockRideRepository
	bookings      *MockBookingRepository
	payments      *MockPaymentRepository
	notifications *MockNotificationRepository
	geocoder      *StubGeocoder
	svc           *service.PaymentService
}

func newPaymentFixture() *paymentFixture {
	rides := NewMockRideRepository()
	bookings := NewMockBookingRepository()
	payments := NewMockPaymentRepository()
	notifications := NewMockNotificationRepository()
	geocoder := NewStubGeocoder(testCoords)
	tx := NewMockTxRunner(bookings, rides, payments)

	fare := service.NewFareService(geocoder, nil, testFareConfig())
	svc := service.NewPaymentService(
		payments,
		bookings,
		rides,
		fare,
		tx,
		service.NewNotificationService(notifications),
	)

	return &paymentFixture{
		rides:         rides,
		bookings:      bookings,
		payments:      payments,
		notifications: notifications,
		geocoder:      geocoder,
		svc:           svc,
	}
}
