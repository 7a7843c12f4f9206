package tests

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sanneekanupuru/SmartRide/internal/domain"
	"github.com/sanneekanupuru/SmartRide/internal/maps"
	"github.com/sanneekanupuru/SmartRide/internal/redis"
	"github.com/sanneekanupuru/SmartRide/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

// ──────────────────────────────────────────────
// MOCK RIDE REPOSITORY
// ──────────────────────────────────────────────

// MockRideRepository is a mock implementation of RideRepository. ReserveSeats
// and ReleaseSeats hold the mutex across the check and the write, matching
// the atomicity contract of the real conditional updates.
type MockRideRepository struct {
	mu    sync.RWMutex
	rides map[string]*domain.Ride

	// Counters for verification
	CreateCallCount  int32
	ReserveCallCount int32
	ReleaseCallCount int32

	// Error injection
	CreateError  error
	ReserveError error
	ReleaseError error
}

// NewMockRideRepository creates a new mock ride repository.
func NewMockRideRepository() *MockRideRepository {
	return &MockRideRepository{
		rides: make(map[string]*domain.Ride),
	}
}

// AddRide adds a ride to the mock repository.
func (m *MockRideRepository) AddRide(ride *domain.Ride) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.ID] = ride
}

func (m *MockRideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.ID] = ride
	return nil
}

func (m *MockRideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ride, ok := m.rides[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *ride
	return &copy, nil
}

func (m *MockRideRepository) Search(ctx context.Context, source, destination string, date time.Time) ([]*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Ride
	for _, r := range m.rides {
		if !strings.Contains(strings.ToLower(r.Source), strings.ToLower(source)) {
			continue
		}
		if !strings.Contains(strings.ToLower(r.Destination), strings.ToLower(destination)) {
			continue
		}
		y1, m1, d1 := r.DepartureTime.Date()
		y2, m2, d2 := date.Date()
		if y1 != y2 || m1 != m2 || d1 != d2 {
			continue
		}
		if r.SeatsAvailable < 1 {
			continue
		}
		copy := *r
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockRideRepository) GetByDriverID(ctx context.Context, driverID string) ([]*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Ride
	for _, r := range m.rides {
		if r.DriverID == driverID {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockRideRepository) ReserveSeats(ctx context.Context, rideID string, seats int) (int, error) {
	atomic.AddInt32(&m.ReserveCallCount, 1)
	if m.ReserveError != nil {
		return 0, m.ReserveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	if ride.SeatsAvailable < seats {
		return 0, repository.ErrInsufficientSeats
	}
	ride.SeatsAvailable -= seats
	return ride.SeatsAvailable, nil
}

func (m *MockRideRepository) ReleaseSeats(ctx context.Context, rideID string, seats int) (int, error) {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	if m.ReleaseError != nil {
		return 0, m.ReleaseError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	ride.SeatsAvailable += seats
	if ride.SeatsAvailable > ride.SeatsTotal {
		ride.SeatsAvailable = ride.SeatsTotal
	}
	return ride.SeatsAvailable, nil
}

// GetRide returns the ride by ID (for test assertions).
func (m *MockRideRepository) GetRide(id string) *domain.Ride {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rides[id]
}

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is a mock implementation of BookingRepository. The
// conditional transitions hold the mutex across the guard check and the
// write, so concurrent transitions resolve to exactly one winner, matching
// the real single-statement updates.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking

	// Counters for verification
	CreateCallCount    int32
	TerminateCallCount int32
	ConfirmCallCount   int32

	// Error injection
	CreateError    error
	TerminateError error
	ConfirmError   error
}

// NewMockBookingRepository creates a new mock booking repository.
func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{
		bookings: make(map[string]*domain.Booking),
	}
}

// AddBooking adds a booking to the mock repository.
func (m *MockBookingRepository) AddBooking(booking *domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *booking
	m.bookings[booking.ID] = &copy
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	booking, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *booking
	return &copy, nil
}

func (m *MockBookingRepository) GetByPassengerID(ctx context.Context, passengerID string) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Booking
	for _, b := range m.bookings {
		if b.PassengerID == passengerID {
			copy := *b
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (m *MockBookingRepository) GetByRideID(ctx context.Context, rideID string) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Booking
	for _, b := range m.bookings {
		if b.RideID == rideID {
			copy := *b
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockBookingRepository) MarkApproved(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	if !ok || booking.Status != domain.BookingStatusPending {
		return false, nil
	}
	booking.DriverApproved = true
	booking.UpdatedAt = time.Now()
	return true, nil
}

func (m *MockBookingRepository) Terminate(ctx context.Context, id string, to domain.BookingStatus) (bool, error) {
	atomic.AddInt32(&m.TerminateCallCount, 1)
	if m.TerminateError != nil {
		return false, m.TerminateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	if !ok || booking.Status != domain.BookingStatusPending || booking.SeatsReleased {
		return false, nil
	}
	booking.Status = to
	booking.SeatsReleased = true
	booking.UpdatedAt = time.Now()
	return true, nil
}

func (m *MockBookingRepository) Confirm(ctx context.Context, id string, fare float64) (bool, error) {
	atomic.AddInt32(&m.ConfirmCallCount, 1)
	if m.ConfirmError != nil {
		return false, m.ConfirmError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	if !ok || booking.Status != domain.BookingStatusPending {
		return false, nil
	}
	booking.Status = domain.BookingStatusConfirmed
	booking.Fare = fare
	booking.UpdatedAt = time.Now()
	return true, nil
}

// GetBooking returns the booking by ID (for test assertions).
func (m *MockBookingRepository) GetBooking(id string) *domain.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bookings[id]
}

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]*domain.Payment),
	}
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *payment
	m.payments[payment.ID] = &copy
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payment, ok := m.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *payment
	return &copy, nil
}

func (m *MockPaymentRepository) GetByBookingID(ctx context.Context, bookingID string) ([]*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Payment
	for _, p := range m.payments {
		if p.BookingID == bookingID {
			copy := *p
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (m *MockPaymentRepository) HasCompleted(ctx context.Context, bookingID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payments {
		if p.BookingID == bookingID && p.Status == domain.PaymentStatusCompleted {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockPaymentRepository) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[id]
	if !ok {
		return repository.ErrNotFound
	}
	payment.Status = status
	payment.UpdatedAt = time.Now()
	return nil
}

// CountPayments returns the number of payments for a booking.
func (m *MockPaymentRepository) CountPayments(bookingID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, p := range m.payments {
		if p.BookingID == bookingID {
			count++
		}
	}
	return count
}

// ──────────────────────────────────────────────
// MOCK NOTIFICATION REPOSITORY
// ──────────────────────────────────────────────

// MockNotificationRepository is a mock implementation of NotificationRepository.
type MockNotificationRepository struct {
	mu            sync.RWMutex
	notifications []*domain.Notification

	// Error injection
	CreateError error
}

// NewMockNotificationRepository creates a new mock notification repository.
func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{}
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *n
	m.notifications = append(m.notifications, &copy)
	return nil
}

func (m *MockNotificationRepository) GetByUserID(ctx context.Context, userID string) ([]*domain.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			copy := *n
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockNotificationRepository) MarkSeen(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.ID == id {
			n.Seen = true
			return nil
		}
	}
	return repository.ErrNotFound
}

// CountForUser returns the number of notifications for a user.
func (m *MockNotificationRepository) CountForUser(userID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, n := range m.notifications {
		if n.UserID == userID {
			count++
		}
	}
	return count
}

// ──────────────────────────────────────────────
// MOCK TX RUNNER
// ──────────────────────────────────────────────

// MockTxRunner passes the backing mocks straight to fn. It does not roll
// anything back, but the conditional guards in the mocks still hold, which
// is what the transition tests exercise.
type MockTxRunner struct {
	Bookings *MockBookingRepository
	Rides    *MockRideRepository
	Payments *MockPaymentRepository

	// Counters for verification
	CallCount int32

	// Error injection
	WithinTxError error
}

// NewMockTxRunner creates a new mock tx runner over the given mocks.
func NewMockTxRunner(bookings *MockBookingRepository, rides *MockRideRepository, payments *MockPaymentRepository) *MockTxRunner {
	return &MockTxRunner{Bookings: bookings, Rides: rides, Payments: payments}
}

func (m *MockTxRunner) WithinTx(ctx context.Context, fn func(bookings repository.BookingRepository, rides repository.RideRepository, payments repository.PaymentRepository) error) error {
	atomic.AddInt32(&m.CallCount, 1)
	if m.WithinTxError != nil {
		return m.WithinTxError
	}
	return fn(m.Bookings, m.Rides, m.Payments)
}

// ──────────────────────────────────────────────
// STUB GEOCODER
// ──────────────────────────────────────────────

// StubGeocoder resolves place names from a fixed table.
type StubGeocoder struct {
	mu     sync.Mutex
	coords map[string]maps.Coordinate

	// Delay makes every lookup wait, to exercise the geocoding timeout.
	Delay time.Duration

	// Error injection
	ResolveError error

	// Counters for verification
	ResolveCallCount int32
}

// NewStubGeocoder creates a stub geocoder with a fixed coordinate table.
func NewStubGeocoder(coords map[string]maps.Coordinate) *StubGeocoder {
	return &StubGeocoder{coords: coords}
}

func (g *StubGeocoder) Resolve(ctx context.Context, place string) (maps.Coordinate, error) {
	atomic.AddInt32(&g.ResolveCallCount, 1)

	if g.Delay > 0 {
		select {
		case <-ctx.Done():
			return maps.Coordinate{}, ctx.Err()
		case <-time.After(g.Delay):
		}
	}

	if g.ResolveError != nil {
		return maps.Coordinate{}, g.ResolveError
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	coord, ok := g.coords[place]
	if !ok {
		return maps.Coordinate{}, maps.ErrNoResults
	}
	return coord, nil
}

// ──────────────────────────────────────────────
// IN-MEMORY GEOCODE CACHE
// ──────────────────────────────────────────────

// MemoryGeocodeCache is an in-memory stand-in for the Redis geocode cache.
type MemoryGeocodeCache struct {
	mu     sync.Mutex
	coords map[string]redis.CachedCoordinate
}

// NewMemoryGeocodeCache creates an empty in-memory geocode cache.
func NewMemoryGeocodeCache() *MemoryGeocodeCache {
	return &MemoryGeocodeCache{coords: make(map[string]redis.CachedCoordinate)}
}

func (c *MemoryGeocodeCache) Get(ctx context.Context, place string) (*redis.CachedCoordinate, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	coord, ok := c.coords[place]
	if !ok {
		return nil, nil
	}
	return &coord, nil
}

func (c *MemoryGeocodeCache) Set(ctx context.Context, place string, coord redis.CachedCoordinate) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.coords[place] = coord
	return nil
}

// ──────────────────────────────────────────────
// HELPER ERRORS
// ──────────────────────────────────────────────

var (
	ErrMockDBFailure  = errors.New("mock: database failure")
	ErrMockGeocodeAPI = errors.New("mock: geocoding api down")
)
