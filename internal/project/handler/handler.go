package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/project/models"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	dErrors "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain-errors"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/platform/httputil"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/requestcontext"
)

// Service defines the interface for project operations.
type Service interface {
	Create(ctx context.Context, owner id.UserID, name, description string) (*models.Project, error)
	Get(ctx context.Context, caller id.UserID, projectID id.ProjectID) (*models.Project, error)
	List(ctx context.Context, caller id.UserID) ([]models.Project, error)
	SetOnHold(ctx context.Context, caller id.UserID, projectID id.ProjectID, onHold bool) (*models.Project, error)
}

// Handler wires project endpoints to the project service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a project handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts project endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/projects", h.HandleCreate)
	r.Get("/projects", h.HandleList)
	r.Get("/projects/{projectID}", h.HandleGet)
	r.Post("/projects/{projectID}/hold", h.HandleSetOnHold)
}

// HandleCreate handles POST /projects requests.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID := requestcontext.UserID(ctx)
	if userID == (id.UserID{}) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[CreateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	project, err := h.service.Create(ctx, userID, req.Name, req.Description)
	if err != nil {
		h.logger.ErrorContext(ctx, "project creation failed",
			"request_id", requestID,
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, project)
}

// HandleList handles GET /projects requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	if userID == (id.UserID{}) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	projects, err := h.service.List(ctx, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

// HandleGet handles GET /projects/{projectID} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
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

	project, err := h.service.Get(ctx, userID, projectID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, project)
}

// HandleSetOnHold handles POST /projects/{projectID}/hold requests.
func (h *Handler) HandleSetOnHold(w http.ResponseWriter, r *http.Request) {
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

	req, ok := httputil.DecodeAndPrepare[SetOnHoldRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	project, err := h.service.SetOnHold(ctx, userID, projectID, *req.OnHold)
	if err != nil {
		h.logger.ErrorContext(ctx, "project hold update failed",
			"request_id", requestID,
			"user_id", userID,
			"project_id", projectID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, project)
}
