package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/shrivathsaJoisa/patient-repository/internal/patient/models"
	id "github.com/shrivathsaJoisa/patient-repository/pkg/domain"
	"github.com/shrivathsaJoisa/patient-repository/pkg/platform/sentinel"
)

type InMemorySuite struct {
	suite.Suite
	store *InMemory
}

func (s *InMemorySuite) SetupTest() {
	s.store = NewInMemory()
}

func TestInMemorySuite(t *testing.T) {
	suite.Run(t, new(InMemorySuite))
}

func newPatient(email string) *models.Patient {
	return &models.Patient{
		Name:           "John Doe",
		Email:          email,
		Address:        "123 Main St",
		DateOfBirth:    time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC),
		RegisteredDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func (s *InMemorySuite) TestCreate() {
	ctx := context.Background()

	s.Run("assigns an id on insert", func() {
		p := newPatient("a@example.com")
		s.Require().NoError(s.store.CreateIfEmailAvailable(ctx, p))
		s.False(p.ID.IsNil())

		found, err := s.store.FindByID(ctx, p.ID)
		s.Require().NoError(err)
		s.Equal(p.Email, found.Email)
	})

	s.Run("rejects a taken email", func() {
		s.Require().NoError(s.store.CreateIfEmailAvailable(ctx, newPatient("b@example.com")))

		err := s.store.CreateIfEmailAvailable(ctx, newPatient("b@example.com"))
		s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)
	})

	s.Run("email matching is case-sensitive", func() {
		s.Require().NoError(s.store.CreateIfEmailAvailable(ctx, newPatient("case@example.com")))
		s.Require().NoError(s.store.CreateIfEmailAvailable(ctx, newPatient("CASE@example.com")))
	})

	s.Run("exactly one concurrent create wins for the same email", func() {
		store := NewInMemory()
		const attempts = 16
		var wg sync.WaitGroup
		errs := make([]error, attempts)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = store.CreateIfEmailAvailable(ctx, newPatient("race@example.com"))
			}(i)
		}
		wg.Wait()

		var won int
		for _, err := range errs {
			if err == nil {
				won++
			} else {
				s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)
			}
		}
		s.Equal(1, won)
	})
}

func (s *InMemorySuite) TestFind() {
	ctx := context.Background()

	s.Run("lists patients in insertion order", func() {
		first := newPatient("first@example.com")
		second := newPatient("second@example.com")
		s.Require().NoError(s.store.CreateIfEmailAvailable(ctx, first))
		s.Require().NoError(s.store.CreateIfEmailAvailable(ctx, second))

		all, err := s.store.FindAll(ctx)
		s.Require().NoError(err)
		s.Require().Len(all, 2)
		s.Equal("first@example.com", all[0].Email)
		s.Equal("second@example.com", all[1].Email)
	})

	s.Run("returns ErrNotFound for unknown id", func() {
		_, err := s.store.FindByID(ctx, id.PatientID(uuid.New()))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("exists checks respect the exclusion", func() {
		p := newPatient("self@example.com")
		s.Require().NoError(s.store.CreateIfEmailAvailable(ctx, p))

		taken, err := s.store.ExistsByEmail(ctx, "self@example.com")
		s.Require().NoError(err)
		s.True(taken)

		taken, err = s.store.ExistsByEmailExcluding(ctx, "self@example.com", p.ID)
		s.Require().NoError(err)
		s.False(taken)
	})
}

func (s *InMemorySuite) TestUpdate() {
	ctx := context.Background()

	s.Run("overwrites the stored record", func() {
		p := newPatient("update@example.com")
		s.Require().NoError(s.store.CreateIfEmailAvailable(ctx, p))

		p.Name = "Jane Doe"
		s.Require().NoError(s.store.UpdateIfEmailAvailable(ctx, p))

		found, err := s.store.FindByID(ctx, p.ID)
		s.Require().NoError(err)
		s.Equal("Jane Doe", found.Name)
	})

	s.Run("rejects an email held by another patient", func() {
		other := newPatient("held@example.com")
		s.Require().NoError(s.store.CreateIfEmailAvailable(ctx, other))
		p := newPatient("mine@example.com")
		s.Require().NoError(s.store.CreateIfEmailAvailable(ctx, p))

		p.Email = "held@example.com"
		err := s.store.UpdateIfEmailAvailable(ctx, p)
		s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)
	})

	s.Run("keeping your own email is not a conflict", func() {
		p := newPatient("keep@example.com")
		s.Require().NoError(s.store.CreateIfEmailAvailable(ctx, p))

		p.Address = "456 Oak Ave"
		s.Require().NoError(s.store.UpdateIfEmailAvailable(ctx, p))
	})

	s.Run("returns ErrNotFound for unknown id", func() {
		p := newPatient("ghost@example.com")
		p.ID = id.PatientID(uuid.New())
		err := s.store.UpdateIfEmailAvailable(ctx, p)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemorySuite) TestDelete() {
	ctx := context.Background()

	s.Run("frees the email for reuse", func() {
		p := newPatient("reuse@example.com")
		s.Require().NoError(s.store.CreateIfEmailAvailable(ctx, p))
		s.Require().NoError(s.store.DeleteByID(ctx, p.ID))

		_, err := s.store.FindByID(ctx, p.ID)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)

		s.Require().NoError(s.store.CreateIfEmailAvailable(ctx, newPatient("reuse@example.com")))
	})

	s.Run("returns ErrNotFound for unknown id", func() {
		err := s.store.DeleteByID(ctx, id.PatientID(uuid.New()))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}
