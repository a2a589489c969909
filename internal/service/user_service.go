package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/arolitec/taskboard-api/internal/domain"
	"github.com/arolitec/taskboard-api/internal/service/auth"
	"github.com/arolitec/taskboard-api/internal/store"
)

// UserService provides registration, login and user lookup operations.
type UserService interface {
	// Register creates a new account with the default user role.
	// Returns store.ErrEmailExists if the email is already taken.
	Register(ctx context.Context, email, password, firstName, lastName string) (*domain.User, error)

	// Login checks the credentials and returns the user together with a
	// signed access token. Both an unknown email and a wrong password
	// return auth.ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*domain.User, string, error)

	// GetUser retrieves a user by their ID.
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// ListUsers returns all users, newest first.
	ListUsers(ctx context.Context) ([]*domain.User, error)
}

// UserServiceImpl implements the UserService interface.
type UserServiceImpl struct {
	userStore store.UserStore
	jwt       auth.JWTService
	verifier  auth.PasswordVerifier
	logger    *slog.Logger
}

// Ensure UserServiceImpl implements UserService interface
var _ UserService = (*UserServiceImpl)(nil)

// NewUserService creates a new UserService.
func NewUserService(
	userStore store.UserStore,
	jwt auth.JWTService,
	verifier auth.PasswordVerifier,
	logger *slog.Logger,
) *UserServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}

	return &UserServiceImpl{
		userStore: userStore,
		jwt:       jwt,
		verifier:  verifier,
		logger:    logger.With("component", "user_service"),
	}
}

// Register creates a new user account.
func (s *UserServiceImpl) Register(ctx context.Context, email, password, firstName, lastName string) (*domain.User, error) {
	user, err := domain.NewUser(email, password, firstName, lastName)
	if err != nil {
		s.logger.Debug("invalid registration input",
			"error", err,
			"email", email)
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			s.logger.Debug("attempted to register existing email",
				"email", email)
		} else {
			s.logger.Error("failed to save user",
				"error", err,
				"email", email)
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info("user registered",
		"user_id", user.ID,
		"email", user.Email)
	return user, nil
}

// Login checks the credentials and issues an access token.
// The error for an unknown email and a wrong password is identical, so
// responses never reveal whether an account exists.
func (s *UserServiceImpl) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("login attempt for unknown email", "email", email)
			return nil, "", auth.ErrInvalidCredentials
		}
		s.logger.Error("failed to look up user for login",
			"error", err,
			"email", email)
		return nil, "", fmt.Errorf("failed to log in: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		s.logger.Debug("login attempt with wrong password",
			"user_id", user.ID)
		return nil, "", auth.ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(ctx, user)
	if err != nil {
		s.logger.Error("failed to issue token",
			"error", err,
			"user_id", user.ID)
		return nil, "", fmt.Errorf("failed to log in: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return user, token, nil
}

// GetUser retrieves a user by their ID.
func (s *UserServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			s.logger.Error("failed to retrieve user",
				"error", err,
				"user_id", userID)
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	return user, nil
}

// ListUsers returns all users, newest first.
func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userStore.List(ctx)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}
