package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sanneekanupuru/SmartRide/internal/auth"
	"github.com/sanneekanupuru/SmartRide/internal/domain"
	"github.com/sanneekanupuru/SmartRide/internal/service"
)

// ──────────────────────────────────────────────
// REGISTRATION AND LOGIN
// ──────────────────────────────────────────────

func newUserService() (*service.UserService, *auth.TokenService) {
	tokens := auth.NewTokenService("test-secret", time.Hour)
	return service.NewUserService(NewMockUserRepository(), tokens), tokens
}

func TestRegisterAndLogin_RoundTrip(t *testing.T) {
	t.Parallel()

	svc, tokens := newUserService()

	user, err := svc.Register(context.Background(), service.RegisterRequest{
		Name:     "Asha",
		Email:    "Asha@Example.com",
		Password: "s3cret-pw",
		Role:     "PASSENGER",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "asha@example.com" {
		t.Errorf("expected lowercased email, got %q", user.Email)
	}
	if user.PasswordHash == "s3cret-pw" || user.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}

	logged, token, err := svc.Login(context.Background(), "asha@example.com", "s3cret-pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if logged.ID != user.ID {
		t.Errorf("expected user %s, got %s", user.ID, logged.ID)
	}

	claims, err := tokens.Validate(token)
	if err != nil {
		t.Fatalf("token validation failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != "PASSENGER" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestRegister_DriverRequiresCapacity(t *testing.T) {
	t.Parallel()

	svc, _ := newUserService()

	_, err := svc.Register(context.Background(), service.RegisterRequest{
		Name:     "Ravi",
		Email:    "ravi@example.com",
		Password: "pw",
		Role:     "DRIVER",
	})
	if !errors.Is(err, service.ErrInvalidSeatCount) {
		t.Fatalf("expected ErrInvalidSeatCount, got %v", err)
	}

	driver, err := svc.Register(context.Background(), service.RegisterRequest{
		Name:         "Ravi",
		Email:        "ravi@example.com",
		Password:     "pw",
		Role:         "DRIVER",
		VehicleModel: "Innova",
		LicensePlate: "KA01XY9876",
		Capacity:     6,
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if driver.Role != domain.RoleDriver || driver.Capacity != 6 {
		t.Errorf("unexpected driver profile: %+v", driver)
	}
}

func TestRegister_DuplicateEmail_Fails(t *testing.T) {
	t.Parallel()

	svc, _ := newUserService()

	req := service.RegisterRequest{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "pw",
		Role:     "PASSENGER",
	}
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err := svc.Register(context.Background(), req)
	if !errors.Is(err, service.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegister_UnknownRole_Fails(t *testing.T) {
	t.Parallel()

	svc, _ := newUserService()

	_, err := svc.Register(context.Background(), service.RegisterRequest{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "pw",
		Role:     "ADMIN",
	})
	if !errors.Is(err, service.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestLogin_WrongPassword_Fails(t *testing.T) {
	t.Parallel()

	svc, _ := newUserService()

	if _, err := svc.Register(context.Background(), service.RegisterRequest{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "right-pw",
		Role:     "PASSENGER",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "asha@example.com", "wrong-pw"); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "nobody@example.com", "right-pw"); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}
