package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/stakeholder/models"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	dErrors "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain-errors"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/platform/httputil"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/requestcontext"
)

// Service defines the interface for stakeholder operations.
type Service interface {
	Add(ctx context.Context, caller id.UserID, projectID id.ProjectID, name, role, email string) (*models.Stakeholder, error)
	List(ctx context.Context, caller id.UserID, projectID id.ProjectID) ([]models.Stakeholder, error)
}

// Handler wires stakeholder endpoints to the stakeholder service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a stakeholder handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts stakeholder endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/projects/{projectID}/stakeholders", h.HandleAdd)
	r.Get("/projects/{projectID}/stakeholders", h.HandleList)
}

// AddRequest is the HTTP request body for POST /projects/{projectID}/stakeholders.
type AddRequest struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Email string `json:"email"`
}

// Validate validates the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *AddRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

// HandleAdd handles POST /projects/{projectID}/stakeholders requests.
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID := requestcontext.UserID(ctx)
	if userID == (id.UserID{}) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	projectID, err := id.ParseProjectID(chi.URLParam(r, "projectID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[AddRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	stakeholder, err := h.service.Add(ctx, userID, projectID, req.Name, req.Role, req.Email)
	if err != nil {
		h.logger.ErrorContext(ctx, "stakeholder creation failed",
			"request_id", requestID,
			"user_id", userID,
			"project_id", projectID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, stakeholder)
}

// HandleList handles GET /projects/{projectID}/stakeholders requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	if userID == (id.UserID{}) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	projectID, err := id.ParseProjectID(chi.URLParam(r, "projectID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	stakeholders, err := h.service.List(ctx, userID, projectID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"stakeholders": stakeholders})
}
