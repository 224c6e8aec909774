package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/shrivathsaJoisa/patient-repository/internal/patient/handler/mocks"
	"github.com/shrivathsaJoisa/patient-repository/internal/patient/models"
	"github.com/shrivathsaJoisa/patient-repository/internal/patient/service"
	"github.com/shrivathsaJoisa/patient-repository/internal/platform/middleware"
	id "github.com/shrivathsaJoisa/patient-repository/pkg/domain"
	dErrors "github.com/shrivathsaJoisa/patient-repository/pkg/domain-errors"
	"github.com/shrivathsaJoisa/patient-repository/pkg/testutil"
)

// stubValidator accepts exactly one token, standing in for the JWT service.
type stubValidator struct{}

func (stubValidator) ValidateToken(token string) (*middleware.JWTClaims, error) {
	if token == "good-token" {
		return &middleware.JWTClaims{Subject: "doc@example.com", Role: "USER"}, nil
	}
	return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
}

type HandlerSuite struct {
	suite.Suite
	mockService *mocks.MockService
	router      chi.Router
}

func (s *HandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.T().Cleanup(ctrl.Finish)
	s.mockService = mocks.NewMockService(ctrl)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(s.mockService, logger, nil, stubValidator{})
	s.router = chi.NewRouter()
	h.Register(s.router)
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func authed(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer good-token")
	return req
}

func requestBody() models.PatientRequest {
	return models.PatientRequest{
		Name:           "John Doe",
		Email:          "john.doe@example.com",
		Address:        "123 Main St",
		DateOfBirth:    "1990-05-20",
		RegisteredDate: "2024-01-15",
	}
}

func somePatient() *models.Patient {
	return &models.Patient{
		ID:             id.PatientID(uuid.New()),
		Name:           "John Doe",
		Email:          "john.doe@example.com",
		Address:        "123 Main St",
		DateOfBirth:    time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC),
		RegisteredDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func (s *HandlerSuite) TestAuthRequired() {
	s.Run("rejects requests without a token", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/patients"))
		testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
	})

	s.Run("rejects requests with an invalid token", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/patients")
		req.Header.Set("Authorization", "Bearer bad-token")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
	})
}

func (s *HandlerSuite) TestList() {
	s.mockService.EXPECT().List(gomock.Any()).Return([]*models.Patient{somePatient()}, nil)

	rr := testutil.DoRequest(s.router, authed(testutil.NewRequest(s.T(), http.MethodGet, "/patients")))

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	responses := testutil.UnmarshalResponse[[]models.PatientResponse](s.T(), rr)
	s.Require().Len(*responses, 1)
	s.Equal("john.doe@example.com", (*responses)[0].Email)
	s.Equal("1990-05-20", (*responses)[0].DateOfBirth)
}

func (s *HandlerSuite) TestGet() {
	s.Run("returns the patient", func() {
		stored := somePatient()
		s.mockService.EXPECT().Get(gomock.Any(), stored.ID).Return(stored, nil)

		rr := testutil.DoRequest(s.router, authed(testutil.NewRequest(s.T(), http.MethodGet, "/patients/"+stored.ID.String())))

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[models.PatientResponse](s.T(), rr)
		s.Equal(stored.ID.String(), resp.ID)
	})

	s.Run("rejects a malformed id", func() {
		rr := testutil.DoRequest(s.router, authed(testutil.NewRequest(s.T(), http.MethodGet, "/patients/not-a-uuid")))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
	})

	s.Run("maps not found", func() {
		unknown := id.PatientID(uuid.New())
		s.mockService.EXPECT().Get(gomock.Any(), unknown).Return(nil, dErrors.New(dErrors.CodeNotFound, "patient not found"))

		rr := testutil.DoRequest(s.router, authed(testutil.NewRequest(s.T(), http.MethodGet, "/patients/"+unknown.String())))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})
}

func (s *HandlerSuite) TestCreate() {
	s.Run("returns 201 with the created patient", func() {
		created := somePatient()
		s.mockService.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&service.CreateResult{Patient: created}, nil)

		rr := testutil.DoRequest(s.router, authed(testutil.NewJSONRequest(s.T(), http.MethodPost, "/patients", requestBody())))

		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		resp := testutil.UnmarshalResponse[models.PatientResponse](s.T(), rr)
		s.Equal(created.ID.String(), resp.ID)
	})

	s.Run("returns 409 for a duplicate email", func() {
		s.mockService.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeConflict, "a patient with this email already exists"))

		rr := testutil.DoRequest(s.router, authed(testutil.NewJSONRequest(s.T(), http.MethodPost, "/patients", requestBody())))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")
	})

	s.Run("returns 502 with the committed patient when provisioning fails", func() {
		created := somePatient()
		result := &service.CreateResult{
			Patient:         created,
			ProvisioningErr: dErrors.New(dErrors.CodeProvisioningFailed, "billing account provisioning failed"),
		}
		s.mockService.EXPECT().Create(gomock.Any(), gomock.Any()).Return(result, nil)

		rr := testutil.DoRequest(s.router, authed(testutil.NewJSONRequest(s.T(), http.MethodPost, "/patients", requestBody())))

		testutil.AssertStatus(s.T(), rr, http.StatusBadGateway)
		resp := testutil.UnmarshalResponse[map[string]any](s.T(), rr)
		s.Equal("provisioning_failed", (*resp)["error"])
		patient := (*resp)["patient"].(map[string]any)
		s.Equal(created.ID.String(), patient["id"])
	})

	s.Run("rejects a non-JSON body", func() {
		req := authed(testutil.NewRequest(s.T(), http.MethodPost, "/patients"))
		req.Header.Set("Content-Type", "text/plain")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusUnsupportedMediaType)
	})

	s.Run("rejects an invalid payload before touching the service", func() {
		body := requestBody()
		body.DateOfBirth = "2999-01-01"
		rr := testutil.DoRequest(s.router, authed(testutil.NewJSONRequest(s.T(), http.MethodPost, "/patients", body)))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})
}

func (s *HandlerSuite) TestUpdate() {
	s.Run("returns the updated patient", func() {
		stored := somePatient()
		s.mockService.EXPECT().Update(gomock.Any(), stored.ID, gomock.Any()).Return(stored, nil)

		rr := testutil.DoRequest(s.router, authed(testutil.NewJSONRequest(s.T(), http.MethodPut, "/patients/"+stored.ID.String(), requestBody())))

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
	})

	s.Run("maps not found", func() {
		unknown := id.PatientID(uuid.New())
		s.mockService.EXPECT().Update(gomock.Any(), unknown, gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "patient not found"))

		rr := testutil.DoRequest(s.router, authed(testutil.NewJSONRequest(s.T(), http.MethodPut, "/patients/"+unknown.String(), requestBody())))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})
}

func (s *HandlerSuite) TestDelete() {
	s.Run("returns the tombstone view", func() {
		stored := somePatient()
		s.mockService.EXPECT().Delete(gomock.Any(), stored.ID).Return(stored, nil)

		rr := testutil.DoRequest(s.router, authed(testutil.NewRequest(s.T(), http.MethodDelete, "/patients/"+stored.ID.String())))

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[models.PatientResponse](s.T(), rr)
		s.Equal(stored.Email, resp.Email)
	})

	s.Run("maps not found", func() {
		unknown := id.PatientID(uuid.New())
		s.mockService.EXPECT().Delete(gomock.Any(), unknown).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "patient not found"))

		rr := testutil.DoRequest(s.router, authed(testutil.NewRequest(s.T(), http.MethodDelete, "/patients/"+unknown.String())))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})
}
