package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/feed-api/internal/domain"
	"github.com/phrazzld/feed-api/internal/platform/logger"
	"github.com/phrazzld/feed-api/internal/service/auth"
	"github.com/phrazzld/feed-api/internal/store"
	"github.com/phrazzld/feed-api/internal/validation"
)

// RegisterInput holds the fields of a registration request.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// AuthResult is returned by a successful login.
type AuthResult struct {
	Token  string
	UserID uuid.UUID
}

// AccountService provides registration, login and status operations.
type AccountService interface {
	// Register validates the input, hashes the password and stores a new user.
	// The returned user never carries the password hash.
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)

	// Login verifies the credentials and issues a token.
	// Unknown emails and wrong passwords both return ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*AuthResult, error)

	// FetchStatus returns the authenticated user's status line.
	FetchStatus(ctx context.Context) (string, error)

	// UpdateStatus overwrites the authenticated user's status line.
	UpdateStatus(ctx context.Context, status string) error

	// GetUser retrieves a user by ID without the password hash.
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type accountService struct {
	users    store.UserStore
	hasher   auth.PasswordHasher
	verifier auth.PasswordVerifier
	tokens   auth.JWTService
	logger   *slog.Logger
	now      func() time.Time
}

var _ AccountService = (*accountService)(nil)

// NewAccountService creates a new AccountService
func NewAccountService(
	users store.UserStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	tokens auth.JWTService,
	logger *slog.Logger,
) AccountService {
	return &accountService{
		users:    users,
		hasher:   hasher,
		verifier: verifier,
		tokens:   tokens,
		logger:   logger.With("component", "account_service"),
		now:      time.Now,
	}
}

// Register creates a new account.
func (s *accountService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	email := strings.TrimSpace(input.Email)

	if err := NewValidationError(validation.Registration(email, input.Password)); err != nil {
		log.Debug("registration input rejected", "email", email)
		return nil, err
	}

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		log.Debug("attempted to register existing email", "email", email)
		return nil, ErrUserExists
	case !errors.Is(err, store.ErrUserNotFound):
		log.Error("failed to look up user by email", "error", err, "email", email)
		return nil, newServiceError("account", "register", err)
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		log.Error("failed to hash password", "error", err)
		return nil, newServiceError("account", "register", err)
	}

	user, err := domain.NewUser(email, hashed, input.Name)
	if err != nil {
		return nil, newServiceError("account", "register", err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent registration can pass the lookup above and still lose
		// on the unique constraint.
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("attempted to register existing email", "email", email)
			return nil, ErrUserExists
		}
		log.Error("failed to save user", "error", err, "email", email)
		return nil, newServiceError("account", "register", err)
	}

	log.Info("user registered", "user_id", user.ID)
	return user.Sanitized(), nil
}

// Login authenticates by email and password.
func (s *accountService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	email = strings.TrimSpace(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login for unknown email", "email", email)
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to look up user by email", "error", err, "email", email)
		return nil, newServiceError("account", "login", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login with wrong password", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(ctx, user.ID, user.Email)
	if err != nil {
		log.Error("failed to generate token", "error", err, "user_id", user.ID)
		return nil, newServiceError("account", "login", err)
	}

	log.Info("user logged in", "user_id", user.ID)
	return &AuthResult{Token: token, UserID: user.ID}, nil
}

// FetchStatus returns the caller's status.
func (s *accountService) FetchStatus(ctx context.Context) (string, error) {
	user, err := s.currentUser(ctx, "fetch_status")
	if err != nil {
		return "", err
	}
	return user.Status, nil
}

// UpdateStatus sets the caller's status.
func (s *accountService) UpdateStatus(ctx context.Context, status string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.currentUser(ctx, "update_status")
	if err != nil {
		return err
	}

	user.Status = status
	user.UpdatedAt = s.now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return ErrUserNotFound
		}
		log.Error("failed to update status", "error", err, "user_id", user.ID)
		return newServiceError("account", "update_status", err)
	}

	log.Debug("status updated", "user_id", user.ID)
	return nil
}

// GetUser looks up a user by ID.
func (s *accountService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).
			Error("failed to retrieve user", "error", err, "user_id", id)
		return nil, newServiceError("account", "get_user", err)
	}
	return user.Sanitized(), nil
}

// currentUser loads the user behind the request identity.
func (s *accountService) currentUser(ctx context.Context, op string) (*domain.User, error) {
	id, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}

	user, err := s.users.GetByID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).
			Error("failed to retrieve current user", "error", err, "user_id", id.UserID)
		return nil, newServiceError("account", op, err)
	}
	return user, nil
}
