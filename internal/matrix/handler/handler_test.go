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
	catalogmodels "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/catalog/models"
	catalogstore "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/catalog/store"
	ledgerstore "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/ledger/store"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/matrix/service"
	matrixstore "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/matrix/store"
	projectmodels "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/project/models"
	projectservice "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/project/service"
	projectstore "github.com/karthikkrs/ISMS-Dashboard-sub001/internal/project/store"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
	"github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/requestcontext"
)

type fixture struct {
	router    http.Handler
	service   *service.Service
	owner     id.UserID
	projectID id.ProjectID
	boundary  *boundarymodels.Boundary
	control   catalogmodels.Control
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	owner := id.NewUserID()

	projects := projectstore.NewInMemory()
	project, err := projectmodels.NewProject(id.NewProjectID(), owner, "Certification push", "", time.Now())
	if err != nil {
		t.Fatalf("new project: %v", err)
	}
	if err := projects.Create(ctx, project); err != nil {
		t.Fatalf("create project: %v", err)
	}

	boundaries := boundarystore.NewInMemory()
	boundary, err := boundarymodels.NewBoundary(id.NewBoundaryID(), project.ID, owner, "HR", boundarymodels.TypeDepartment, "", time.Now())
	if err != nil {
		t.Fatalf("new boundary: %v", err)
	}
	if err := boundaries.Create(ctx, boundary); err != nil {
		t.Fatalf("create boundary: %v", err)
	}

	catalog := catalogstore.NewInMemory()
	control := catalogmodels.Control{ID: id.NewControlID(), Reference: "A.5.1", Description: "Policies for information security", Domain: "Organizational controls"}
	if err := catalog.Insert(ctx, control); err != nil {
		t.Fatalf("insert control: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	svc := service.New(
		matrixstore.NewInMemory(),
		boundaries,
		catalog,
		ledgerstore.NewInMemoryGaps(),
		ledgerstore.NewInMemoryEvidence(),
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

	return &fixture{
		router:    router,
		service:   svc,
		owner:     owner,
		projectID: project.ID,
		boundary:  boundary,
		control:   control,
	}
}

func (f *fixture) setApplicability(t *testing.T, isApplicable bool, reason string) map[string]any {
	t.Helper()
	payload := map[string]any{
		"project_id":    f.projectID.String(),
		"boundary_id":   f.boundary.ID.String(),
		"control_id":    f.control.ID.String(),
		"is_applicable": isApplicable,
		"reason":        reason,
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPut, "/matrix/applicability", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 deciding applicability, got %d: %s", rec.Code, rec.Body.String())
	}
	var cell map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&cell); err != nil {
		t.Fatalf("decode cell: %v", err)
	}
	return cell
}

func TestSetApplicability(t *testing.T) {
	f := newFixture(t)
	cell := f.setApplicability(t, true, "handles personnel records")

	if cell["is_applicable"] != true {
		t.Fatalf("expected applicable cell, got %v", cell)
	}
	if cell["reason_inclusion"] != "handles personnel records" {
		t.Fatalf("expected inclusion reason, got %v", cell["reason_inclusion"])
	}
}

func TestSetApplicabilityMissingReason(t *testing.T) {
	f := newFixture(t)
	payload := map[string]any{
		"project_id":    f.projectID.String(),
		"boundary_id":   f.boundary.ID.String(),
		"control_id":    f.control.ID.String(),
		"is_applicable": true,
		"reason":        "",
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPut, "/matrix/applicability", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing reason, got %d", rec.Code)
	}
}

func TestRecordAssessment(t *testing.T) {
	f := newFixture(t)
	cell := f.setApplicability(t, true, "in scope")
	cellID := cell["id"].(string)

	payload := map[string]any{
		"compliance_status":     "partially_compliant",
		"implementation_status": "partially_implemented",
		"notes":                 "policy approved, rollout pending",
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPut, "/matrix/cells/"+cellID+"/assessment", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 recording assessment, got %d: %s", rec.Code, rec.Body.String())
	}

	var updated map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&updated); err != nil {
		t.Fatalf("decode cell: %v", err)
	}
	if updated["compliance_status"] != "partially_compliant" {
		t.Fatalf("expected partially_compliant, got %v", updated["compliance_status"])
	}
}

func TestRecordAssessmentNonApplicable(t *testing.T) {
	f := newFixture(t)
	cell := f.setApplicability(t, false, "fully outsourced")
	cellID := cell["id"].(string)

	payload := map[string]any{"compliance_status": "compliant"}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPut, "/matrix/cells/"+cellID+"/assessment", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 assessing non-applicable cell, got %d", rec.Code)
	}
}

func TestListForProjectGrid(t *testing.T) {
	f := newFixture(t)
	f.setApplicability(t, true, "in scope")

	req := httptest.NewRequest(http.MethodGet, "/projects/"+f.projectID.String()+"/matrix", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 listing matrix, got %d", rec.Code)
	}

	var resp struct {
		Rows []struct {
			Reference    string `json:"reference"`
			IsApplicable *bool  `json:"is_applicable"`
		} `json:"rows"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode rows: %v", err)
	}
	if len(resp.Rows) != 1 {
		t.Fatalf("expected one row, got %d", len(resp.Rows))
	}
	if resp.Rows[0].IsApplicable == nil || !*resp.Rows[0].IsApplicable {
		t.Fatalf("expected decided applicable row")
	}
}

func TestUnauthenticatedRejected(t *testing.T) {
	f := newFixture(t)
	// a bare router without the user-injecting middleware
	bare := chi.NewRouter()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	New(f.service, logger).Register(bare)

	req := httptest.NewRequest(http.MethodGet, "/projects/"+f.projectID.String()+"/matrix", nil)
	rec := httptest.NewRecorder()
	bare.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", rec.Code)
	}
}
