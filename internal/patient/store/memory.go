// Package store provides the patient persistence implementations: an
// in-memory store for local development and tests, and a PostgreSQL store
// for production.
//
// Email uniqueness is enforced here, not in the service: the in-memory store
// holds its lock across the check-and-insert, and the PostgreSQL store relies
// on a UNIQUE index. The service-level guard check is only a fast path that
// improves error reporting; the store is the authority.
package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/shrivathsaJoisa/patient-repository/internal/patient/models"
	id "github.com/shrivathsaJoisa/patient-repository/pkg/domain"
	"github.com/shrivathsaJoisa/patient-repository/pkg/platform/sentinel"
)

// InMemory keeps patients in a map guarded by a single mutex. It favors
// clarity over performance.
type InMemory struct {
	mu       sync.RWMutex
	patients map[id.PatientID]models.Patient
	order    []id.PatientID
}

// NewInMemory creates an empty in-memory patient store.
func NewInMemory() *InMemory {
	return &InMemory{patients: make(map[id.PatientID]models.Patient)}
}

// FindAll returns every patient in insertion order.
func (s *InMemory) FindAll(_ context.Context) ([]*models.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*models.Patient, 0, len(s.order))
	for _, patientID := range s.order {
		p := s.patients[patientID]
		result = append(result, &p)
	}
	return result, nil
}

// FindByID returns the patient with the given ID or sentinel.ErrNotFound.
func (s *InMemory) FindByID(_ context.Context, patientID id.PatientID) (*models.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.patients[patientID]; ok {
		return &p, nil
	}
	return nil, sentinel.ErrNotFound
}

// ExistsByEmail reports whether any patient holds the email.
func (s *InMemory) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.emailTaken(email, id.PatientID{}), nil
}

// ExistsByEmailExcluding reports whether a patient other than excluded holds
// the email.
func (s *InMemory) ExistsByEmailExcluding(_ context.Context, email string, excluded id.PatientID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.emailTaken(email, excluded), nil
}

// CreateIfEmailAvailable assigns an ID and inserts the patient, or returns
// sentinel.ErrAlreadyUsed when the email is taken. The lock spans both the
// check and the insert, so concurrent creates cannot both pass.
func (s *InMemory) CreateIfEmailAvailable(_ context.Context, p *models.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.emailTaken(p.Email, id.PatientID{}) {
		return sentinel.ErrAlreadyUsed
	}
	p.ID = id.PatientID(uuid.New())
	s.patients[p.ID] = *p
	s.order = append(s.order, p.ID)
	return nil
}

// UpdateIfEmailAvailable overwrites the stored patient, or returns
// sentinel.ErrAlreadyUsed when the email belongs to another patient and
// sentinel.ErrNotFound when the ID is not live.
func (s *InMemory) UpdateIfEmailAvailable(_ context.Context, p *models.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.patients[p.ID]; !ok {
		return sentinel.ErrNotFound
	}
	if s.emailTaken(p.Email, p.ID) {
		return sentinel.ErrAlreadyUsed
	}
	s.patients[p.ID] = *p
	return nil
}

// DeleteByID removes the patient or returns sentinel.ErrNotFound.
func (s *InMemory) DeleteByID(_ context.Context, patientID id.PatientID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.patients[patientID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.patients, patientID)
	for i, existing := range s.order {
		if existing == patientID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// emailTaken must be called with at least the read lock held. Matching is
// case-sensitive and exact.
func (s *InMemory) emailTaken(email string, excluded id.PatientID) bool {
	for _, p := range s.patients {
		if p.Email == email && p.ID != excluded {
			return true
		}
	}
	return false
}
