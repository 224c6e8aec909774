package models

import (
	"strings"
	"time"

	"github.com/asaskevich/govalidator"

	id "github.com/shrivathsaJoisa/patient-repository/pkg/domain"
	dErrors "github.com/shrivathsaJoisa/patient-repository/pkg/domain-errors"
)

// Roles recognized by the service. Stored uppercase; comparisons are
// case-insensitive at the middleware layer.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// User is an authentication principal. PasswordHash is a bcrypt hash and
// never leaves the store/service boundary.
type User struct {
	ID           id.UserID
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// LoginRequest is the wire shape of a login attempt.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "email and password are required")
	}
	if !govalidator.IsEmail(r.Email) {
		return dErrors.New(dErrors.CodeInvalidInput, "email must be a valid email address")
	}
	return nil
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	Token string `json:"token"`
}

// CreateUserRequest is the wire shape of an admin user-creation call.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (r CreateUserRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "email is required")
	}
	if !govalidator.IsEmail(r.Email) {
		return dErrors.New(dErrors.CodeInvalidInput, "email must be a valid email address")
	}
	if len(r.Password) < 8 {
		return dErrors.New(dErrors.CodeInvalidInput, "password must be at least 8 characters")
	}
	switch strings.ToUpper(r.Role) {
	case RoleAdmin, RoleUser:
		return nil
	default:
		return dErrors.New(dErrors.CodeInvalidInput, "role must be ADMIN or USER")
	}
}

// UserResponse is the client view of a user.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func ToResponse(u *User) UserResponse {
	return UserResponse{
		ID:    u.ID.String(),
		Email: u.Email,
		Role:  u.Role,
	}
}
