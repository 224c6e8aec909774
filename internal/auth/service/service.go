// Package service implements credential verification and user management.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/shrivathsaJoisa/patient-repository/internal/auth/models"
	dErrors "github.com/shrivathsaJoisa/patient-repository/pkg/domain-errors"
	"github.com/shrivathsaJoisa/patient-repository/pkg/platform/sentinel"
	"github.com/shrivathsaJoisa/patient-repository/pkg/requestcontext"
)

// tokenTTL is the lifetime of issued access tokens.
const tokenTTL = 10 * time.Hour

// UserStore is the durable user store. Implementations enforce email
// uniqueness atomically inside CreateIfEmailAvailable and report it as
// sentinel.ErrAlreadyUsed.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	CreateIfEmailAvailable(ctx context.Context, u *models.User) error
}

// TokenIssuer signs access tokens for authenticated principals.
type TokenIssuer interface {
	GenerateAccessToken(email string, role string, expiresIn time.Duration) (string, error)
}

// Service verifies credentials and manages user accounts. It holds no state
// between calls and is safe for concurrent use.
type Service struct {
	users  UserStore
	tokens TokenIssuer
	logger *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New creates an auth service.
func New(users UserStore, tokens TokenIssuer, opts ...Option) *Service {
	s := &Service{
		users:  users,
		tokens: tokens,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Authenticate verifies the credentials and returns a signed access token.
// Unknown emails and wrong passwords produce the same error so callers
// cannot probe which emails are registered.
func (s *Service) Authenticate(ctx context.Context, req models.LoginRequest) (string, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
	}

	token, err := s.tokens.GenerateAccessToken(user.Email, user.Role, tokenTTL)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign token")
	}
	return token, nil
}

// CreateUser registers a new user with a bcrypt-hashed password.
func (s *Service) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         strings.ToUpper(req.Role),
		CreatedAt:    requestcontext.Now(ctx),
	}
	if err := s.users.CreateIfEmailAvailable(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "a user with this email already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}
	return user, nil
}

// SeedAdmin ensures an admin account exists for the given credentials. It is
// idempotent: an already-registered email is not an error. Empty credentials
// disable seeding.
func (s *Service) SeedAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	_, err := s.CreateUser(ctx, models.CreateUserRequest{
		Email:    email,
		Password: password,
		Role:     models.RoleAdmin,
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			s.logger.InfoContext(ctx, "admin account already exists", "email", email)
			return nil
		}
		return err
	}
	s.logger.InfoContext(ctx, "seeded admin account", "email", email)
	return nil
}
