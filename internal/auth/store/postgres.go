package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/shrivathsaJoisa/patient-repository/internal/auth/models"
	id "github.com/shrivathsaJoisa/patient-repository/pkg/domain"
	"github.com/shrivathsaJoisa/patient-repository/pkg/platform/sentinel"
)

// uniqueViolation is the PostgreSQL error code raised when an insert breaks
// the UNIQUE index on users.email.
const uniqueViolation = "23505"

// Postgres persists users in PostgreSQL over database/sql.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed user store. The schema is
// managed by the SQL files under migrations/.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, role, created_at
		FROM users
		WHERE email = $1
	`, email)

	var (
		u     models.User
		rowID uuid.UUID
	)
	err := row.Scan(&rowID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.ID = id.UserID(rowID)
	return &u, nil
}

// CreateIfEmailAvailable assigns an ID and inserts the user. A unique
// violation on the email index maps to sentinel.ErrAlreadyUsed.
func (s *Postgres) CreateIfEmailAvailable(ctx context.Context, u *models.User) error {
	newID := uuid.New()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, newID, u.Email, u.PasswordHash, u.Role, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID = id.UserID(newID)
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
