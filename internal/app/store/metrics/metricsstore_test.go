package metricsstore_test

import (
	"context"
	"errors"
	"testing"

	metricsstore "github.com/dalemusser/programhub/internal/app/store/metrics"
	programstore "github.com/dalemusser/programhub/internal/app/store/programs"
	"github.com/dalemusser/programhub/internal/app/system/docstore"
	"github.com/dalemusser/programhub/internal/domain/models"
	"github.com/dalemusser/programhub/internal/testutil"
)

func TestFetchDashboardCounts_Empty(t *testing.T) {
	ctx, cancel := testutil.TestContext()
	defer cancel()

	counts := metricsstore.FetchDashboardCounts(ctx, docstore.NewMemory())
	if counts != (metricsstore.Counts{}) {
		t.Errorf("expected zero counts, got %+v", counts)
	}
}

func TestFetchDashboardCounts_WithData(t *testing.T) {
	mem := docstore.NewMemory()
	fixtures := testutil.NewFixtures(t, mem)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p1 := fixtures.CreateProgram(ctx, "Program One")
	fixtures.CreateProgram(ctx, "Program Two")
	inactive := models.StatusInactive
	if err := programstore.New(mem).Update(ctx, p1.ID, programstore.Patch{Status: &inactive}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	c := fixtures.CreateCohort(ctx, "Cohort", p1.ID)
	fixtures.CreateStudent(ctx, "Student One", c.ID)
	fixtures.CreateStudent(ctx, "Student Two", c.ID)
	fixtures.CreateInstructor(ctx, "Instructor")
	fixtures.CreateSubject(ctx, "Subject", "S-1")

	counts := metricsstore.FetchDashboardCounts(ctx, mem)
	want := metricsstore.Counts{
		Programs: 2, ActivePrograms: 1, Cohorts: 1, Students: 2, Instructors: 1, Subjects: 1,
	}
	if counts != want {
		t.Errorf("counts = %+v, want %+v", counts, want)
	}
}

type failingCounter struct{ *docstore.Memory }

func (failingCounter) Count(context.Context, string, docstore.Filter) (int64, error) {
	return 0, errors.New("down")
}

func TestFetchDashboardCounts_ToleratesErrors(t *testing.T) {
	ctx, cancel := testutil.TestContext()
	defer cancel()

	counts := metricsstore.FetchDashboardCounts(ctx, failingCounter{docstore.NewMemory()})
	if counts != (metricsstore.Counts{}) {
		t.Errorf("expected zero counts on error, got %+v", counts)
	}
}
