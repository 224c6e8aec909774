package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shrivathsaJoisa/patient-repository/internal/auth/models"
	platformmetrics "github.com/shrivathsaJoisa/patient-repository/internal/platform/metrics"
	"github.com/shrivathsaJoisa/patient-repository/internal/platform/middleware"
	"github.com/shrivathsaJoisa/patient-repository/internal/transport/http/shared"
	dErrors "github.com/shrivathsaJoisa/patient-repository/pkg/domain-errors"
)

// Service defines the auth operations the HTTP layer delegates to.
type Service interface {
	Authenticate(ctx context.Context, req models.LoginRequest) (string, error)
	CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error)
}

// Handler handles the login, token validation and user administration
// endpoints.
type Handler struct {
	logger       *slog.Logger
	auth         Service
	metrics      *platformmetrics.Metrics
	jwtValidator middleware.JWTValidator
}

// New creates an auth Handler.
func New(
	auth Service,
	logger *slog.Logger,
	metrics *platformmetrics.Metrics,
	jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		auth:         auth,
		metrics:      metrics,
		jwtValidator: jwtValidator,
	}
}

// Register registers the auth routes with the chi router. Login and validate
// are public; user administration requires an admin token.
func (h *Handler) Register(r chi.Router) {
	authRouter := chi.NewRouter()
	authRouter.Use(middleware.Recovery(h.logger))
	authRouter.Use(middleware.RequestID)
	authRouter.Use(middleware.Logger(h.logger))
	authRouter.Use(middleware.Timeout(10 * time.Second))
	authRouter.Use(middleware.Latency(h.metrics))

	authRouter.Post("/login", h.handleLogin)
	authRouter.Get("/validate", h.handleValidate)

	authRouter.Group(func(admin chi.Router) {
		admin.Use(middleware.ContentTypeJSON)
		admin.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		admin.Post("/admin/users", h.handleCreateUser)
	})

	r.Mount("/", authRouter)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		shared.WriteError(w, err)
		return
	}

	token, err := h.auth.Authenticate(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "login failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, models.LoginResponse{Token: token})
}

// handleValidate answers whether the bearer token in the Authorization
// header is currently valid. Downstream services gate on the status code.
func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || token == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing bearer token"))
		return
	}

	if _, err := h.jwtValidator.ValidateToken(token); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		shared.WriteError(w, err)
		return
	}

	user, err := h.auth.CreateUser(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to create user",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, models.ToResponse(user))
}
