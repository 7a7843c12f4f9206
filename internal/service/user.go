package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sanneekanupuru/SmartRide/internal/auth"
	"github.com/sanneekanupuru/SmartRide/internal/domain"
	"github.com/sanneekanupuru/SmartRide/internal/repository"
)

// UserService handles registration and login.
type UserService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenService
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, tokens *auth.TokenService) *UserService {
	return &UserService{userRepo: userRepo, tokens: tokens}
}

// RegisterRequest carries the data for creating an account.
type RegisterRequest struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Role     string

	// Driver-only fields.
	VehicleModel string
	LicensePlate string
	Capacity     int
}

// Register creates a passenger or driver account with a bcrypt password hash.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" || email == "" || req.Password == "" {
		return nil, ErrInvalidRegistration
	}

	role := domain.Role(req.Role)
	if role != domain.RolePassenger && role != domain.RoleDriver {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRole, req.Role)
	}
	if role == domain.RoleDriver && req.Capacity <= 0 {
		return nil, ErrInvalidSeatCount
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         role,
		CreatedAt:    time.Now(),
	}
	if role == domain.RoleDriver {
		user.VehicleModel = strings.TrimSpace(req.VehicleModel)
		user.LicensePlate = strings.TrimSpace(req.LicensePlate)
		user.Capacity = req.Capacity
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a signed token.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return user, token, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, ErrInvalidUserID
	}
	return s.userRepo.GetByID(ctx, id)
}
