package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/boundary/models"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	dErrors "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain-errors"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/platform/httputil"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/requestcontext"
)

// Service defines the interface for boundary operations.
type Service interface {
	Create(ctx context.Context, caller id.UserID, projectID id.ProjectID, name string, boundaryType models.Type, notes string) (*models.Boundary, error)
	SetIncluded(ctx context.Context, caller id.UserID, boundaryID id.BoundaryID, included bool) (*models.Boundary, error)
	Delete(ctx context.Context, caller id.UserID, boundaryID id.BoundaryID) error
	List(ctx context.Context, caller id.UserID, projectID id.ProjectID) ([]models.Boundary, error)
}

// Handler wires boundary endpoints to the boundary service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a boundary handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts boundary endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/projects/{projectID}/boundaries", h.HandleCreate)
	r.Get("/projects/{projectID}/boundaries", h.HandleList)
	r.Put("/boundaries/{boundaryID}/included", h.HandleSetIncluded)
	r.Delete("/boundaries/{boundaryID}", h.HandleDelete)
}

// HandleCreate handles POST /projects/{projectID}/boundaries requests.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
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

	req, ok := httputil.DecodeAndPrepare[CreateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	boundary, err := h.service.Create(ctx, userID, projectID, req.Name, req.ParsedType(), req.Notes)
	if err != nil {
		h.logger.ErrorContext(ctx, "boundary creation failed",
			"request_id", requestID,
			"user_id", userID,
			"project_id", projectID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, boundary)
}

// HandleList handles GET /projects/{projectID}/boundaries requests.
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

	boundaries, err := h.service.List(ctx, userID, projectID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"boundaries": boundaries})
}

// HandleSetIncluded handles PUT /boundaries/{boundaryID}/included requests.
func (h *Handler) HandleSetIncluded(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID := requestcontext.UserID(ctx)
	if userID == (id.UserID{}) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	boundaryID, err := id.ParseBoundaryID(chi.URLParam(r, "boundaryID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[SetIncludedRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	boundary, err := h.service.SetIncluded(ctx, userID, boundaryID, *req.Included)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, boundary)
}

// HandleDelete handles DELETE /boundaries/{boundaryID} requests.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID := requestcontext.UserID(ctx)
	if userID == (id.UserID{}) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	boundaryID, err := id.ParseBoundaryID(chi.URLParam(r, "boundaryID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Delete(ctx, userID, boundaryID); err != nil {
		h.logger.ErrorContext(ctx, "boundary deletion failed",
			"request_id", requestID,
			"user_id", userID,
			"boundary_id", boundaryID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
