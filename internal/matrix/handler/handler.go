package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/matrix/models"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	dErrors "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain-errors"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/platform/httputil"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/requestcontext"
)

// Service defines the interface for matrix operations.
type Service interface {
	SetApplicability(ctx context.Context, caller id.UserID, projectID id.ProjectID, boundaryID id.BoundaryID, controlID id.ControlID, isApplicable bool, reason string) (*models.Cell, error)
	RecordAssessment(ctx context.Context, caller id.UserID, cellID id.CellID, status models.ComplianceStatus, implementationStatus string, date time.Time, notes string) (*models.Cell, error)
	ListForBoundary(ctx context.Context, caller id.UserID, boundaryID id.BoundaryID) ([]models.MatrixRow, error)
	ListForProject(ctx context.Context, caller id.UserID, projectID id.ProjectID) ([]models.MatrixRow, error)
}

// Handler wires matrix endpoints to the matrix service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a matrix handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts matrix endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Put("/matrix/applicability", h.HandleSetApplicability)
	r.Put("/matrix/cells/{cellID}/assessment", h.HandleRecordAssessment)
	r.Get("/projects/{projectID}/matrix", h.HandleListForProject)
	r.Get("/boundaries/{boundaryID}/matrix", h.HandleListForBoundary)
}

// HandleSetApplicability handles PUT /matrix/applicability requests.
func (h *Handler) HandleSetApplicability(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID := requestcontext.UserID(ctx)
	if userID == (id.UserID{}) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[SetApplicabilityRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	cell, err := h.service.SetApplicability(ctx, userID,
		req.ParsedProjectID(), req.ParsedBoundaryID(), req.ParsedControlID(),
		*req.IsApplicable, req.Reason)
	if err != nil {
		h.logger.ErrorContext(ctx, "applicability decision failed",
			"request_id", requestID,
			"user_id", userID,
			"boundary_id", req.BoundaryID,
			"control_id", req.ControlID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, cell)
}

// HandleRecordAssessment handles PUT /matrix/cells/{cellID}/assessment requests.
func (h *Handler) HandleRecordAssessment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID := requestcontext.UserID(ctx)
	if userID == (id.UserID{}) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	cellID, err := id.ParseCellID(chi.URLParam(r, "cellID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[RecordAssessmentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	cell, err := h.service.RecordAssessment(ctx, userID, cellID,
		req.ParsedStatus(), req.ImplementationStatus, req.ParsedDate(), req.Notes)
	if err != nil {
		h.logger.ErrorContext(ctx, "assessment recording failed",
			"request_id", requestID,
			"user_id", userID,
			"cell_id", cellID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, cell)
}

// HandleListForProject handles GET /projects/{projectID}/matrix requests.
func (h *Handler) HandleListForProject(w http.ResponseWriter, r *http.Request) {
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

	rows, err := h.service.ListForProject(ctx, userID, projectID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"rows": rows})
}

// HandleListForBoundary handles GET /boundaries/{boundaryID}/matrix requests.
func (h *Handler) HandleListForBoundary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
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

	rows, err := h.service.ListForBoundary(ctx, userID, boundaryID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"rows": rows})
}
