package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/todolist/internal/domain"
	"github.com/phrazzld/todolist/internal/platform/logger"
	"github.com/phrazzld/todolist/internal/redact"
	"github.com/phrazzld/todolist/internal/service/auth"
	"github.com/phrazzld/todolist/internal/store"
)

// UserService provides account registration and login.
type UserService interface {
	// Register creates an account. Returns store.ErrEmailExists when the
	// email (compared case-insensitively) is already registered, and domain
	// validation errors for bad input.
	Register(ctx context.Context, name, email, password string) (*domain.User, error)

	// Authenticate checks credentials. Returns store.ErrUserNotFound for an
	// unknown email and ErrInvalidCredentials for a wrong password.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// GetUser retrieves a user by their ID
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

type userServiceImpl struct {
	users    store.UserStore
	hasher   auth.PasswordHasher
	verifier auth.PasswordVerifier
	logger   *slog.Logger
}

// NewUserService creates a new UserService
// It returns an error if any of the required dependencies are nil.
func NewUserService(
	users store.UserStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	logger *slog.Logger,
) (UserService, error) {
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if hasher == nil {
		return nil, domain.NewValidationError("hasher", "cannot be nil", domain.ErrValidation)
	}
	if verifier == nil {
		return nil, domain.NewValidationError("verifier", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &userServiceImpl{
		users:    users,
		hasher:   hasher,
		verifier: verifier,
		logger:   logger.With(slog.String("component", "user_service")),
	}, nil
}

func (s *userServiceImpl) Register(
	ctx context.Context,
	name, email, password string,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(name, email, password)
	if err != nil {
		log.Debug("registration rejected by validation", slog.String("error", err.Error()))
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, NewServiceError("register", "failed to hash password", err)
	}
	user.HashedPassword = hash

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("attempted to register existing email",
				slog.String("email", redact.Email(user.Email)))
			return nil, fmt.Errorf("failed to register: %w", err)
		}
		log.Error("failed to save user", slog.String("error", redact.Error(err)))
		return nil, NewServiceError("register", "failed to save user", err)
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	return user, nil
}

func (s *userServiceImpl) Authenticate(
	ctx context.Context,
	email, password string,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login for unknown email", slog.String("email", redact.Email(email)))
			return nil, fmt.Errorf("failed to authenticate: %w", err)
		}
		log.Error("failed to look up user", slog.String("error", redact.Error(err)))
		return nil, NewServiceError("authenticate", "failed to look up user", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login with wrong password", slog.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *userServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to retrieve user: %w", err)
		}
		return nil, NewServiceError("get_user", "failed to retrieve user", err)
	}
	return user, nil
}
