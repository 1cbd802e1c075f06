package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/ledger/models"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	dErrors "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain-errors"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/platform/httputil"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/requestcontext"
)

// Service defines the interface for ledger operations.
type Service interface {
	AddEvidence(ctx context.Context, caller id.UserID, cellID id.CellID, title, description, fileRef string) (*models.Evidence, error)
	ListEvidence(ctx context.Context, caller id.UserID, cellID id.CellID) ([]models.Evidence, error)
	OpenGap(ctx context.Context, caller id.UserID, cellID id.CellID, description string, severity models.Severity) (*models.Gap, error)
	TransitionGap(ctx context.Context, caller id.UserID, gapID id.GapID, next models.Status, expectedVersion int) (*models.Gap, error)
	GapsByCell(ctx context.Context, caller id.UserID, cellID id.CellID) ([]models.Gap, error)
}

// Handler wires ledger endpoints to the ledger service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a ledger handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts ledger endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/cells/{cellID}/evidence", h.HandleAddEvidence)
	r.Get("/cells/{cellID}/evidence", h.HandleListEvidence)
	r.Post("/cells/{cellID}/gaps", h.HandleOpenGap)
	r.Get("/cells/{cellID}/gaps", h.HandleGapsByCell)
	r.Post("/gaps/{gapID}/transition", h.HandleTransitionGap)
}

func (h *Handler) cellID(w http.ResponseWriter, r *http.Request) (id.CellID, id.UserID, bool) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	if userID == (id.UserID{}) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return id.CellID{}, id.UserID{}, false
	}
	cellID, err := id.ParseCellID(chi.URLParam(r, "cellID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.CellID{}, id.UserID{}, false
	}
	return cellID, userID, true
}

// HandleAddEvidence handles POST /cells/{cellID}/evidence requests.
func (h *Handler) HandleAddEvidence(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	cellID, userID, ok := h.cellID(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[AddEvidenceRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	evidence, err := h.service.AddEvidence(ctx, userID, cellID, req.Title, req.Description, req.FileRef)
	if err != nil {
		h.logger.ErrorContext(ctx, "evidence creation failed",
			"request_id", requestID,
			"user_id", userID,
			"cell_id", cellID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, evidence)
}

// HandleListEvidence handles GET /cells/{cellID}/evidence requests.
func (h *Handler) HandleListEvidence(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cellID, userID, ok := h.cellID(w, r)
	if !ok {
		return
	}

	records, err := h.service.ListEvidence(ctx, userID, cellID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"evidence": records})
}

// HandleOpenGap handles POST /cells/{cellID}/gaps requests.
func (h *Handler) HandleOpenGap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	cellID, userID, ok := h.cellID(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[OpenGapRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	gap, err := h.service.OpenGap(ctx, userID, cellID, req.Description, req.ParsedSeverity())
	if err != nil {
		h.logger.ErrorContext(ctx, "gap creation failed",
			"request_id", requestID,
			"user_id", userID,
			"cell_id", cellID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, gap)
}

// HandleGapsByCell handles GET /cells/{cellID}/gaps requests.
func (h *Handler) HandleGapsByCell(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cellID, userID, ok := h.cellID(w, r)
	if !ok {
		return
	}

	gaps, err := h.service.GapsByCell(ctx, userID, cellID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"gaps": gaps})
}

// HandleTransitionGap handles POST /gaps/{gapID}/transition requests.
func (h *Handler) HandleTransitionGap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID := requestcontext.UserID(ctx)
	if userID == (id.UserID{}) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	gapID, err := id.ParseGapID(chi.URLParam(r, "gapID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[TransitionGapRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	gap, err := h.service.TransitionGap(ctx, userID, gapID, req.ParsedStatus(), *req.Version)
	if err != nil {
		h.logger.ErrorContext(ctx, "gap transition failed",
			"request_id", requestID,
			"user_id", userID,
			"gap_id", gapID,
			"target_status", req.Status,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, gap)
}
