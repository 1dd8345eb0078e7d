package modules_test

import (
	"net/http"
	"testing"

	uierrors "github.com/dalemusser/programhub/internal/app/features/errors"
	"github.com/dalemusser/programhub/internal/app/features/modules"
	"github.com/dalemusser/programhub/internal/app/services/curriculum"
	modulestore "github.com/dalemusser/programhub/internal/app/store/modules"
	"github.com/dalemusser/programhub/internal/domain/models"
	"github.com/dalemusser/programhub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func setup(t *testing.T) (chi.Router, *testutil.Fixtures) {
	t.Helper()
	g := testutil.NewMemoryGateway()
	logger := zap.NewNop()
	h := modules.NewHandler(curriculum.New(g, logger), modulestore.New(g), uierrors.NewErrorLogger(logger), nil, logger)
	return modules.Routes(h, testutil.NewSessionManager(t)), testutil.NewFixtures(t, g)
}

func send(t *testing.T, router chi.Router, method, target string, body any, user testutil.TestUser) *testutil.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = testutil.NewJSONRequest(t, method, target, body)
	} else {
		req = testutil.NewRequest(method, target)
	}
	return testutil.Serve(router, testutil.WithUser(req, user))
}

func TestCreate_FillsSnapshots(t *testing.T) {
	router, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	p := fx.CreateProgram(ctx, "P")
	sub := fx.CreateSubject(ctx, "Go Basics", "GO101")
	ins := fx.CreateInstructor(ctx, "Ada Lovelace")

	rec := send(t, router, http.MethodPost, "/", map[string]any{
		"program_id":    p.ID.Hex(),
		"subject_id":    sub.ID.Hex(),
		"instructor_id": ins.ID.Hex(),
		"start_date":    "2025-01-01",
		"end_date":      "2025-02-01",
		"hours":         30,
		"month_number":  1,
	}, testutil.CoordinatorUser())
	rec.AssertStatus(t, http.StatusCreated)

	var m models.Module
	rec.DecodeJSON(t, &m)
	if m.SubjectSnapshot != "Go Basics" || m.InstructorSnapshot != "Ada Lovelace" {
		t.Errorf("snapshots not filled: %+v", m)
	}
}

func TestCreate_MissingReferences(t *testing.T) {
	router, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	p := fx.CreateProgram(ctx, "P")

	tests := []struct {
		name string
		body map[string]any
	}{
		{"program", map[string]any{"program_id": primitive.NewObjectID().Hex()}},
		{"subject", map[string]any{"program_id": p.ID.Hex(), "subject_id": primitive.NewObjectID().Hex()}},
		{"instructor", map[string]any{"program_id": p.ID.Hex(), "instructor_id": primitive.NewObjectID().Hex()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.body["start_date"] = "2025-01-01"
			tt.body["end_date"] = "2025-02-01"
			tt.body["hours"] = 24
			tt.body["month_number"] = 1
			rec := send(t, router, http.MethodPost, "/", tt.body, testutil.AdminUser())
			rec.AssertStatus(t, http.StatusNotFound)
		})
	}
}

func TestCreate_Validation(t *testing.T) {
	router, _ := setup(t)
	rec := send(t, router, http.MethodPost, "/", map[string]any{
		"program_id":   primitive.NewObjectID().Hex(),
		"start_date":   "2025-01-01",
		"end_date":     "2025-02-01",
		"hours":        0,
		"month_number": 1,
	}, testutil.AdminUser())
	rec.AssertStatus(t, http.StatusUnprocessableEntity)
	rec.AssertContains(t, `"hours"`)
}

func TestUpdate_AssignAndClear(t *testing.T) {
	router, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	p := fx.CreateProgram(ctx, "P")
	m := fx.CreateModule(ctx, p.ID, 1)
	ins := fx.CreateInstructor(ctx, "Grace Hopper")

	rec := send(t, router, http.MethodPatch, "/"+m.ID.Hex(),
		map[string]any{"instructor_id": ins.ID.Hex(), "hours": 40}, testutil.AdminUser())
	rec.AssertStatus(t, http.StatusOK)
	var got models.Module
	rec.DecodeJSON(t, &got)
	if got.InstructorID == nil || *got.InstructorID != ins.ID || got.InstructorSnapshot != "Grace Hopper" || got.Hours != 40 {
		t.Errorf("unexpected module after assign: %+v", got)
	}

	rec = send(t, router, http.MethodPatch, "/"+m.ID.Hex(), map[string]any{"clear_instructor": true}, testutil.AdminUser())
	rec.AssertStatus(t, http.StatusOK)
	got = models.Module{}
	rec.DecodeJSON(t, &got)
	if got.InstructorID != nil || got.InstructorSnapshot != "" {
		t.Errorf("instructor not cleared: %+v", got)
	}

	rec = send(t, router, http.MethodPatch, "/"+m.ID.Hex(),
		map[string]any{"subject_id": primitive.NewObjectID().Hex()}, testutil.AdminUser())
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestListFilterAndDelete(t *testing.T) {
	router, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	p1 := fx.CreateProgram(ctx, "P1")
	p2 := fx.CreateProgram(ctx, "P2")
	fx.CreateModule(ctx, p1.ID, 2)
	first := fx.CreateModule(ctx, p1.ID, 1)
	fx.CreateModule(ctx, p2.ID, 1)

	rec := send(t, router, http.MethodGet, "/", nil, testutil.ViewerUser())
	rec.AssertStatus(t, http.StatusOK)
	var all []models.Module
	rec.DecodeJSON(t, &all)
	if len(all) != 3 {
		t.Errorf("expected 3 modules, got %d", len(all))
	}

	rec = send(t, router, http.MethodGet, "/?program_id="+p1.ID.Hex(), nil, testutil.ViewerUser())
	rec.AssertStatus(t, http.StatusOK)
	var timeline []models.Module
	rec.DecodeJSON(t, &timeline)
	if len(timeline) != 2 || timeline[0].ID != first.ID {
		t.Errorf("unexpected timeline: %+v", timeline)
	}

	rec = send(t, router, http.MethodGet, "/?program_id=bogus", nil, testutil.ViewerUser())
	rec.AssertStatus(t, http.StatusBadRequest)

	rec = send(t, router, http.MethodDelete, "/"+first.ID.Hex(), nil, testutil.CoordinatorUser())
	rec.AssertStatus(t, http.StatusForbidden)
	rec = send(t, router, http.MethodDelete, "/"+first.ID.Hex(), nil, testutil.AdminUser())
	rec.AssertStatus(t, http.StatusNoContent)
	rec = send(t, router, http.MethodGet, "/"+first.ID.Hex(), nil, testutil.ViewerUser())
	rec.AssertStatus(t, http.StatusNotFound)
}
