package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	boundarymodels "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/boundary/models"
	boundarystore "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/boundary/store"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/ledger/service"
	ledgerstore "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/ledger/store"
	matrixmodels "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/matrix/models"
	matrixstore "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/matrix/store"
	projectmodels "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/project/models"
	projectservice "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/project/service"
	projectstore "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/project/store"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/requestcontext"
)

func newLedgerRouter(t *testing.T) (http.Handler, id.CellID) {
	t.Helper()
	ctx := context.Background()
	owner := id.NewUserID()

	projects := projectstore.NewInMemory()
	project, err := projectmodels.NewProject(id.NewProjectID(), owner, "Audit prep", "", time.Now())
	if err != nil {
		t.Fatalf("new project: %v", err)
	}
	if err := projects.Create(ctx, project); err != nil {
		t.Fatalf("create project: %v", err)
	}

	boundaries := boundarystore.NewInMemory()
	boundary, err := boundarymodels.NewBoundary(id.NewBoundaryID(), project.ID, owner, "Datacenter", boundarymodels.TypeLocation, "", time.Now())
	if err != nil {
		t.Fatalf("new boundary: %v", err)
	}
	if err := boundaries.Create(ctx, boundary); err != nil {
		t.Fatalf("create boundary: %v", err)
	}

	cells := matrixstore.NewInMemory()
	cell, err := matrixmodels.NewCell(id.NewCellID(), boundary.ID, id.NewControlID(), owner, true, "physical access in scope", time.Now())
	if err != nil {
		t.Fatalf("new cell: %v", err)
	}
	if err := cells.Upsert(ctx, cell); err != nil {
		t.Fatalf("upsert cell: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	svc := service.New(
		ledgerstore.NewInMemoryEvidence(),
		ledgerstore.NewInMemoryGaps(),
		cells,
		boundaries,
		projectservice.New(projects),
		service.WithLogger(logger),
	)

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(requestcontext.WithUserID(r.Context(), owner)))
		})
	})
	New(svc, logger).Register(router)
	return router, cell.ID
}

func postJSON(t *testing.T, router http.Handler, path string, payload map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAddAndListEvidence(t *testing.T) {
	router, cellID := newLedgerRouter(t)

	rec := postJSON(t, router, "/cells/"+cellID.String()+"/evidence", map[string]any{
		"title":    "Badge access log export",
		"file_ref": "s3://evidence/badges.csv",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 adding evidence, got %d: %s", rec.Code, rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/cells/"+cellID.String()+"/evidence", nil)
	listRec := httptest.NewRecorder()
	router.ServeHTTP(listRec, req)
	if listRec.Code != http.StatusOK {
		t.Fatalf("expected 200 listing evidence, got %d", listRec.Code)
	}
	var resp struct {
		Evidence []struct {
			Title string `json:"title"`
		} `json:"evidence"`
	}
	if err := json.NewDecoder(listRec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode evidence: %v", err)
	}
	if len(resp.Evidence) != 1 || resp.Evidence[0].Title != "Badge access log export" {
		t.Fatalf("unexpected evidence list: %+v", resp.Evidence)
	}
}

func TestAddEvidenceMissingTitle(t *testing.T) {
	router, cellID := newLedgerRouter(t)
	rec := postJSON(t, router, "/cells/"+cellID.String()+"/evidence", map[string]any{"title": "  "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing title, got %d", rec.Code)
	}
}

func TestGapLifecycleOverHTTP(t *testing.T) {
	router, cellID := newLedgerRouter(t)

	rec := postJSON(t, router, "/cells/"+cellID.String()+"/gaps", map[string]any{
		"description": "visitor log not maintained",
		"severity":    "high",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 opening gap, got %d: %s", rec.Code, rec.Body.String())
	}
	var gap struct {
		ID      string `json:"id"`
		Status  string `json:"status"`
		Version int    `json:"version"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&gap); err != nil {
		t.Fatalf("decode gap: %v", err)
	}
	if gap.Status != "identified" || gap.Version != 1 {
		t.Fatalf("unexpected new gap: %+v", gap)
	}

	rec = postJSON(t, router, "/gaps/"+gap.ID+"/transition", map[string]any{
		"status":  "in_review",
		"version": 1,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 transitioning gap, got %d: %s", rec.Code, rec.Body.String())
	}

	// stale version from a second client
	rec = postJSON(t, router, "/gaps/"+gap.ID+"/transition", map[string]any{
		"status":  "confirmed",
		"version": 1,
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for stale version, got %d", rec.Code)
	}

	// skipping ahead is rejected
	rec = postJSON(t, router, "/gaps/"+gap.ID+"/transition", map[string]any{
		"status":  "closed",
		"version": 2,
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for invalid transition, got %d", rec.Code)
	}
}

func TestOpenGapUnknownCell(t *testing.T) {
	router, _ := newLedgerRouter(t)
	rec := postJSON(t, router, "/cells/"+id.NewCellID().String()+"/gaps", map[string]any{
		"description": "gap",
		"severity":    "low",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown cell, got %d", rec.Code)
	}
}
