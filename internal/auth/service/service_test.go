package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/shrivathsaJoisa/patient-repository/internal/auth/models"
	"github.com/shrivathsaJoisa/patient-repository/internal/auth/store"
	"github.com/shrivathsaJoisa/patient-repository/internal/jwttoken"
	dErrors "github.com/shrivathsaJoisa/patient-repository/pkg/domain-errors"
)

type AuthServiceSuite struct {
	suite.Suite
	store   *store.InMemory
	tokens  *jwttoken.JWTService
	service *Service
}

func (s *AuthServiceSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.tokens = jwttoken.NewJWTService("test-signing-key", "test-issuer")
	s.service = New(s.store, s.tokens,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}

func createReq() models.CreateUserRequest {
	return models.CreateUserRequest{
		Email:    "doc@example.com",
		Password: "correct horse battery",
		Role:     "user",
	}
}

func (s *AuthServiceSuite) TestCreateUser() {
	ctx := context.Background()

	s.Run("stores a bcrypt hash, never the password", func() {
		user, err := s.service.CreateUser(ctx, createReq())
		s.Require().NoError(err)
		s.False(user.ID.IsNil())
		s.Equal("USER", user.Role)
		s.NotEqual("correct horse battery", user.PasswordHash)
		s.NoError(bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct horse battery")))
	})

	s.Run("rejects a duplicate email", func() {
		_, err := s.service.CreateUser(ctx, createReq())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func (s *AuthServiceSuite) TestAuthenticate() {
	ctx := context.Background()
	_, err := s.service.CreateUser(ctx, createReq())
	s.Require().NoError(err)

	s.Run("issues a token carrying subject and role", func() {
		token, err := s.service.Authenticate(ctx, models.LoginRequest{
			Email:    "doc@example.com",
			Password: "correct horse battery",
		})
		s.Require().NoError(err)

		claims, err := s.tokens.ValidateToken(token)
		s.Require().NoError(err)
		s.Equal("doc@example.com", claims.Subject)
		s.Equal("USER", claims.Role)
	})

	s.Run("wrong password and unknown email are indistinguishable", func() {
		_, wrongPassword := s.service.Authenticate(ctx, models.LoginRequest{
			Email:    "doc@example.com",
			Password: "nope",
		})
		_, unknownEmail := s.service.Authenticate(ctx, models.LoginRequest{
			Email:    "nobody@example.com",
			Password: "nope",
		})
		s.Require().Error(wrongPassword)
		s.Require().Error(unknownEmail)
		s.True(dErrors.HasCode(wrongPassword, dErrors.CodeUnauthorized))
		s.Equal(wrongPassword.Error(), unknownEmail.Error())
	})
}

func (s *AuthServiceSuite) TestSeedAdmin() {
	ctx := context.Background()

	s.Run("creates the admin account", func() {
		s.Require().NoError(s.service.SeedAdmin(ctx, "admin@example.com", "super secret pw"))

		token, err := s.service.Authenticate(ctx, models.LoginRequest{
			Email:    "admin@example.com",
			Password: "super secret pw",
		})
		s.Require().NoError(err)
		claims, err := s.tokens.ValidateToken(token)
		s.Require().NoError(err)
		s.Equal("ADMIN", claims.Role)
	})

	s.Run("is idempotent", func() {
		s.Require().NoError(s.service.SeedAdmin(ctx, "admin@example.com", "super secret pw"))
	})

	s.Run("empty credentials disable seeding", func() {
		s.Require().NoError(s.service.SeedAdmin(ctx, "", ""))
	})
}
