package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/questionnaire/models"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	dErrors "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain-errors"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/platform/httputil"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/requestcontext"
)

// Service defines the interface for questionnaire progress operations.
type Service interface {
	SetProgress(ctx context.Context, caller id.UserID, projectID id.ProjectID, answered, total int) (*models.Progress, error)
	GetProgress(ctx context.Context, caller id.UserID, projectID id.ProjectID) (*models.Progress, error)
}

// Handler wires questionnaire endpoints to the questionnaire service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a questionnaire handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts questionnaire endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Put("/projects/{projectID}/questionnaire", h.HandleSetProgress)
	r.Get("/projects/{projectID}/questionnaire", h.HandleGetProgress)
}

// SetProgressRequest is the HTTP request body for
// PUT /projects/{projectID}/questionnaire.
type SetProgressRequest struct {
	Answered *int `json:"answered"`
	Total    *int `json:"total"`
}

// Validate validates the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *SetProgressRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Answered == nil || r.Total == nil {
		return dErrors.New(dErrors.CodeValidation, "answered and total are required")
	}
	if *r.Answered < 0 || *r.Total < 0 {
		return dErrors.New(dErrors.CodeValidation, "answered and total cannot be negative")
	}
	if *r.Answered > *r.Total {
		return dErrors.New(dErrors.CodeValidation, "answered cannot exceed total")
	}
	return nil
}

// HandleSetProgress handles PUT /projects/{projectID}/questionnaire requests.
func (h *Handler) HandleSetProgress(w http.ResponseWriter, r *http.Request) {
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

	req, ok := httputil.DecodeAndPrepare[SetProgressRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	progress, err := h.service.SetProgress(ctx, userID, projectID, *req.Answered, *req.Total)
	if err != nil {
		h.logger.ErrorContext(ctx, "questionnaire progress update failed",
			"request_id", requestID,
			"user_id", userID,
			"project_id", projectID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, progress)
}

// HandleGetProgress handles GET /projects/{projectID}/questionnaire requests.
func (h *Handler) HandleGetProgress(w http.ResponseWriter, r *http.Request) {
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

	progress, err := h.service.GetProgress(ctx, userID, projectID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, progress)
}
