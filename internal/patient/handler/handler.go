package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shrivathsaJoisa/patient-repository/internal/patient/models"
	"github.com/shrivathsaJoisa/patient-repository/internal/patient/service"
	platformmetrics "github.com/shrivathsaJoisa/patient-repository/internal/platform/metrics"
	"github.com/shrivathsaJoisa/patient-repository/internal/platform/middleware"
	"github.com/shrivathsaJoisa/patient-repository/internal/transport/http/shared"
	id "github.com/shrivathsaJoisa/patient-repository/pkg/domain"
	dErrors "github.com/shrivathsaJoisa/patient-repository/pkg/domain-errors"
	"github.com/shrivathsaJoisa/patient-repository/pkg/requestcontext"
)

// Service defines the patient operations the HTTP layer delegates to.
type Service interface {
	List(ctx context.Context) ([]*models.Patient, error)
	Get(ctx context.Context, patientID id.PatientID) (*models.Patient, error)
	Create(ctx context.Context, input models.PatientInput) (*service.CreateResult, error)
	Update(ctx context.Context, patientID id.PatientID, input models.PatientInput) (*models.Patient, error)
	Delete(ctx context.Context, patientID id.PatientID) (*models.Patient, error)
}

// Handler handles the patient endpoints.
type Handler struct {
	logger       *slog.Logger
	patients     Service
	metrics      *platformmetrics.Metrics
	jwtValidator middleware.JWTValidator
}

// New creates a patient Handler.
func New(
	patients Service,
	logger *slog.Logger,
	metrics *platformmetrics.Metrics,
	jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		patients:     patients,
		metrics:      metrics,
		jwtValidator: jwtValidator,
	}
}

// Register registers the patient routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	patientRouter := chi.NewRouter()
	patientRouter.Use(middleware.Recovery(h.logger))
	patientRouter.Use(middleware.RequestID)
	patientRouter.Use(middleware.Logger(h.logger))
	patientRouter.Use(middleware.Timeout(30 * time.Second))
	patientRouter.Use(middleware.ContentTypeJSON)
	patientRouter.Use(middleware.Latency(h.metrics))
	patientRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
	patientRouter.Get("/", h.handleList)
	patientRouter.Post("/", h.handleCreate)
	patientRouter.Get("/{id}", h.handleGet)
	patientRouter.Put("/{id}", h.handleUpdate)
	patientRouter.Delete("/{id}", h.handleDelete)

	r.Mount("/patients", patientRouter)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	patients, err := h.patients.List(r.Context())
	if err != nil {
		h.logError(r, "failed to list patients", err)
		shared.WriteError(w, err)
		return
	}

	responses := make([]models.PatientResponse, 0, len(patients))
	for _, p := range patients {
		responses = append(responses, models.ToResponse(p))
	}
	shared.WriteJSON(w, http.StatusOK, responses)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	patientID, ok := h.patientID(w, r)
	if !ok {
		return
	}

	patient, err := h.patients.Get(r.Context(), patientID)
	if err != nil {
		h.logError(r, "failed to get patient", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, models.ToResponse(patient))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	result, err := h.patients.Create(ctx, input)
	if err != nil {
		h.logError(r, "failed to create patient", err)
		shared.WriteError(w, err)
		return
	}

	if result.ProvisioningFailed() {
		// The record committed; the response carries it alongside the
		// failure so the client can see the ambiguous state.
		code := dErrors.CodeOf(result.ProvisioningErr)
		shared.WriteJSON(w, shared.StatusFor(code), map[string]any{
			"error":   string(code),
			"message": dErrors.MessageOf(result.ProvisioningErr),
			"patient": models.ToResponse(result.Patient),
		})
		return
	}

	shared.WriteJSON(w, http.StatusCreated, models.ToResponse(result.Patient))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	patientID, ok := h.patientID(w, r)
	if !ok {
		return
	}
	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	patient, err := h.patients.Update(r.Context(), patientID, input)
	if err != nil {
		h.logError(r, "failed to update patient", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, models.ToResponse(patient))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	patientID, ok := h.patientID(w, r)
	if !ok {
		return
	}

	patient, err := h.patients.Delete(r.Context(), patientID)
	if err != nil {
		h.logError(r, "failed to delete patient", err)
		shared.WriteError(w, err)
		return
	}
	// Tombstone view of the removed record, for confirmation only.
	shared.WriteJSON(w, http.StatusOK, models.ToResponse(patient))
}

func (h *Handler) patientID(w http.ResponseWriter, r *http.Request) (id.PatientID, bool) {
	patientID, err := id.ParsePatientID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return id.PatientID{}, false
	}
	return patientID, true
}

func (h *Handler) decodeInput(w http.ResponseWriter, r *http.Request) (models.PatientInput, bool) {
	var req models.PatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(r.Context(), "invalid patient request body",
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return models.PatientInput{}, false
	}

	input, err := req.Validate(requestcontext.Now(r.Context()))
	if err != nil {
		shared.WriteError(w, err)
		return models.PatientInput{}, false
	}
	return input, true
}

func (h *Handler) logError(r *http.Request, msg string, err error) {
	ctx := r.Context()
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, msg,
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		return
	}
	h.logger.WarnContext(ctx, msg,
		"request_id", middleware.GetRequestID(ctx),
		"error", err.Error(),
	)
}
