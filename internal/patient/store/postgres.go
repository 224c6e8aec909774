package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/shrivathsaJoisa/patient-repository/internal/patient/models"
	id "github.com/shrivathsaJoisa/patient-repository/pkg/domain"
	"github.com/shrivathsaJoisa/patient-repository/pkg/platform/sentinel"
)

// uniqueViolation is the PostgreSQL error code raised when an insert or
// update breaks the UNIQUE index on patients.email. That index is the
// authoritative uniqueness enforcement point.
const uniqueViolation = "23505"

// Postgres persists patients in PostgreSQL over database/sql.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed patient store. The schema is
// managed by the SQL files under migrations/.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) FindAll(ctx context.Context) ([]*models.Patient, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, address, date_of_birth, registered_date
		FROM patients
		ORDER BY registered_date, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query patients: %w", err)
	}
	defer rows.Close()

	var patients []*models.Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		patients = append(patients, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate patients: %w", err)
	}
	return patients, nil
}

func (s *Postgres) FindByID(ctx context.Context, patientID id.PatientID) (*models.Patient, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, address, date_of_birth, registered_date
		FROM patients
		WHERE id = $1
	`, uuid.UUID(patientID))

	p, err := scanPatient(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Postgres) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM patients WHERE email = $1)`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return exists, nil
}

func (s *Postgres) ExistsByEmailExcluding(ctx context.Context, email string, excluded id.PatientID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM patients WHERE email = $1 AND id <> $2)`,
		email, uuid.UUID(excluded),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email exists excluding: %w", err)
	}
	return exists, nil
}

// CreateIfEmailAvailable assigns an ID and inserts the patient. A unique
// violation on the email index maps to sentinel.ErrAlreadyUsed.
func (s *Postgres) CreateIfEmailAvailable(ctx context.Context, p *models.Patient) error {
	newID := uuid.New()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO patients (id, name, email, address, date_of_birth, registered_date)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, newID, p.Name, p.Email, p.Address, p.DateOfBirth, p.RegisteredDate)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert patient: %w", err)
	}
	p.ID = id.PatientID(newID)
	return nil
}

// UpdateIfEmailAvailable overwrites the stored row. A unique violation maps
// to sentinel.ErrAlreadyUsed; a missing row to sentinel.ErrNotFound.
func (s *Postgres) UpdateIfEmailAvailable(ctx context.Context, p *models.Patient) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE patients
		SET name = $2, email = $3, address = $4, date_of_birth = $5, registered_date = $6
		WHERE id = $1
	`, uuid.UUID(p.ID), p.Name, p.Email, p.Address, p.DateOfBirth, p.RegisteredDate)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("update patient: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update patient rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) DeleteByID(ctx context.Context, patientID id.PatientID) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM patients WHERE id = $1`, uuid.UUID(patientID))
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete patient rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPatient(row rowScanner) (*models.Patient, error) {
	var (
		p     models.Patient
		rowID uuid.UUID
	)
	err := row.Scan(&rowID, &p.Name, &p.Email, &p.Address, &p.DateOfBirth, &p.RegisteredDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan patient: %w", err)
	}
	p.ID = id.PatientID(rowID)
	return &p, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
