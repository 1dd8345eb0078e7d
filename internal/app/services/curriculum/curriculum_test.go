package curriculum_test

import (
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/programhub/internal/app/services/curriculum"
	modulestore "github.com/dalemusser/programhub/internal/app/store/modules"
	"github.com/dalemusser/programhub/internal/app/system/docstore"
	"github.com/dalemusser/programhub/internal/domain/models"
	"github.com/dalemusser/programhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestAddMonths(t *testing.T) {
	tests := []struct {
		start string
		n     int
		want  string
	}{
		{"2025-01-15", 1, "2025-02-15"},
		{"2025-01-31", 1, "2025-02-28"},
		{"2024-01-31", 1, "2024-02-29"},
		{"2025-03-31", 1, "2025-04-30"},
		{"2025-11-30", 2, "2026-01-30"},
		{"2025-12-31", 0, "2025-12-31"},
	}
	for _, tt := range tests {
		t.Run(tt.start, func(t *testing.T) {
			start, _ := time.Parse(curriculum.DateLayout, tt.start)
			if got := curriculum.AddMonths(start, tt.n).Format(curriculum.DateLayout); got != tt.want {
				t.Errorf("AddMonths(%s, %d) = %s, want %s", tt.start, tt.n, got, tt.want)
			}
		})
	}
}

func TestPlanModules(t *testing.T) {
	pid := primitive.NewObjectID()
	plan, err := curriculum.PlanModules(pid, "2025-01-31", 3)
	if err != nil {
		t.Fatalf("PlanModules: %v", err)
	}
	want := []struct{ start, end string }{
		{"2025-01-31", "2025-02-28"},
		{"2025-02-28", "2025-03-28"},
		{"2025-03-31", "2025-04-30"},
	}
	if len(plan) != len(want) {
		t.Fatalf("len = %d, want %d", len(plan), len(want))
	}
	for i, m := range plan {
		if m.MonthNumber != i+1 || m.Hours != curriculum.DefaultModuleHours || m.ProgramID != pid {
			t.Errorf("module %d = %+v", i, m)
		}
		if m.StartDate != want[i].start || m.EndDate != want[i].end {
			t.Errorf("module %d dates = %s..%s, want %s..%s", i, m.StartDate, m.EndDate, want[i].start, want[i].end)
		}
		if m.SubjectID != nil || m.InstructorID != nil || m.SubjectSnapshot != "" {
			t.Errorf("module %d should be unassigned", i)
		}
	}

	if _, err := curriculum.PlanModules(pid, "01/02/2025", 2); err == nil {
		t.Error("expected error for malformed date")
	}
	if plan, err := curriculum.PlanModules(pid, "", 0); err != nil || len(plan) != 0 {
		t.Errorf("zero months = %v, %v", plan, err)
	}
}

func TestGenerateModulesAndTimeline(t *testing.T) {
	mem := docstore.NewMemory()
	fx := testutil.NewFixtures(t, mem)
	svc := curriculum.New(mem, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := fx.CreateProgram(ctx, "Full Stack")
	p.StartDate, p.DurationMonths = "2025-09-01", 4

	created, err := svc.GenerateModules(ctx, p)
	if err != nil {
		t.Fatalf("GenerateModules: %v", err)
	}
	if len(created) != 4 {
		t.Fatalf("created %d modules, want 4", len(created))
	}

	timeline, err := svc.Timeline(ctx, p.ID)
	if err != nil {
		t.Fatalf("Timeline: %v", err)
	}
	if len(timeline) != 4 || timeline[0].MonthNumber != 1 || timeline[3].MonthNumber != 4 {
		t.Errorf("unexpected timeline: %+v", timeline)
	}
	if timeline[3].StartDate != "2025-12-01" || timeline[3].EndDate != "2026-01-01" {
		t.Errorf("last module dates = %s..%s", timeline[3].StartDate, timeline[3].EndDate)
	}

	if _, err := svc.Timeline(ctx, primitive.NewObjectID()); !errors.Is(err, curriculum.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	empty := fx.CreateProgram(ctx, "Empty")
	if got, err := svc.Timeline(ctx, empty.ID); err != nil || got == nil || len(got) != 0 {
		t.Errorf("empty timeline = %#v, %v", got, err)
	}
}

func TestModuleSnapshots(t *testing.T) {
	mem := docstore.NewMemory()
	fx := testutil.NewFixtures(t, mem)
	svc := curriculum.New(mem, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := fx.CreateProgram(ctx, "P")
	sub := fx.CreateSubject(ctx, "Databases", "DB-1")
	inst := fx.CreateInstructor(ctx, "Grace Hopper")

	m, err := svc.CreateModule(ctx, models.Module{
		ProgramID: p.ID, MonthNumber: 1, SubjectID: &sub.ID, SubjectSnapshot: "spoofed",
	})
	if err != nil {
		t.Fatalf("CreateModule: %v", err)
	}
	if m.SubjectSnapshot != "Databases" || m.InstructorSnapshot != "" {
		t.Errorf("snapshots = %q, %q", m.SubjectSnapshot, m.InstructorSnapshot)
	}

	if err := svc.UpdateModule(ctx, m.ID, modulestore.Patch{InstructorID: &inst.ID}); err != nil {
		t.Fatalf("UpdateModule: %v", err)
	}
	got, _ := modulestore.New(mem).GetByID(ctx, m.ID)
	if got.InstructorSnapshot != "Grace Hopper" || got.SubjectSnapshot != "Databases" {
		t.Errorf("snapshots after update = %q, %q", got.SubjectSnapshot, got.InstructorSnapshot)
	}

	missing := primitive.NewObjectID()
	if err := svc.UpdateModule(ctx, m.ID, modulestore.Patch{SubjectID: &missing}); !errors.Is(err, curriculum.ErrNotFound) {
		t.Errorf("missing subject: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.CreateModule(ctx, models.Module{ProgramID: p.ID, InstructorID: &missing}); !errors.Is(err, curriculum.ErrNotFound) {
		t.Errorf("missing instructor: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.CreateModule(ctx, models.Module{ProgramID: missing}); !errors.Is(err, curriculum.ErrNotFound) {
		t.Errorf("missing program: expected ErrNotFound, got %v", err)
	}
	hours := 10
	if err := svc.UpdateModule(ctx, missing, modulestore.Patch{Hours: &hours}); !errors.Is(err, curriculum.ErrNotFound) {
		t.Errorf("missing module: expected ErrNotFound, got %v", err)
	}
}

func TestStats(t *testing.T) {
	mem := docstore.NewMemory()
	fx := testutil.NewFixtures(t, mem)
	svc := curriculum.New(mem, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := fx.CreateProgram(ctx, "P")
	fx.CreateCohort(ctx, "C", p.ID)

	st := svc.Stats(ctx)
	if st.Programs != 1 || st.Cohorts != 1 || st.Students != 0 {
		t.Errorf("unexpected stats: %+v", st)
	}
}
