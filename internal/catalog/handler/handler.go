package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/catalog/models"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	dErrors "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain-errors"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/platform/httputil"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/requestcontext"
)

// Service defines the interface for catalog reads.
type Service interface {
	List(ctx context.Context) ([]models.Control, error)
	Get(ctx context.Context, controlID id.ControlID) (models.Control, error)
	Search(ctx context.Context, query string) ([]models.Control, error)
}

// Handler wires catalog endpoints to the catalog service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a catalog handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts catalog endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/controls", h.HandleList)
	r.Get("/controls/{controlID}", h.HandleGet)
}

// HandleList handles GET /controls requests. An optional q parameter filters
// by reference prefix or free text over description and domain.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	if userID == (id.UserID{}) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	var controls []models.Control
	var err error
	if query := strings.TrimSpace(r.URL.Query().Get("q")); query != "" {
		controls, err = h.service.Search(ctx, query)
	} else {
		controls, err = h.service.List(ctx)
	}
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"controls": controls})
}

// HandleGet handles GET /controls/{controlID} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	if userID == (id.UserID{}) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	controlID, err := id.ParseControlID(chi.URLParam(r, "controlID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	control, err := h.service.Get(ctx, controlID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, control)
}
