package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/readiness/service"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	dErrors "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain-errors"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/platform/httputil"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/requestcontext"
)

// Service defines the interface for readiness computation.
type Service interface {
	Compute(ctx context.Context, caller id.UserID, projectID id.ProjectID) (*service.ReadinessView, error)
}

// Handler wires the readiness endpoint to the aggregator.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a readiness handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the readiness endpoint on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/projects/{projectID}/readiness", h.HandleCompute)
}

// HandleCompute handles GET /projects/{projectID}/readiness requests.
func (h *Handler) HandleCompute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

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

	view, err := h.service.Compute(ctx, userID, projectID)
	if err != nil {
		h.logger.ErrorContext(ctx, "readiness computation failed",
			"request_id", requestID,
			"user_id", userID,
			"project_id", projectID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "readiness computed",
		"request_id", requestID,
		"project_id", projectID,
		"completion_percentage", view.CompletionPercentage,
		"status", view.Status,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, view)
}
