package metricsstore

import (
	"context"

	cohortstore "github.com/dalemusser/programhub/internal/app/store/cohorts"
	instructorstore "github.com/dalemusser/programhub/internal/app/store/instructors"
	modulestore "github.com/dalemusser/programhub/internal/app/store/modules"
	programstore "github.com/dalemusser/programhub/internal/app/store/programs"
	studentstore "github.com/dalemusser/programhub/internal/app/store/students"
	subjectstore "github.com/dalemusser/programhub/internal/app/store/subjects"
	"github.com/dalemusser/programhub/internal/app/system/docstore"
	"github.com/dalemusser/programhub/internal/domain/models"
)

// Counts is the set of totals shown on the dashboard.
type Counts struct {
	Programs       int64 `json:"programs"`
	ActivePrograms int64 `json:"active_programs"`
	Cohorts        int64 `json:"cohorts"`
	Students       int64 `json:"students"`
	Instructors    int64 `json:"instructors"`
	Subjects       int64 `json:"subjects"`
	Modules        int64 `json:"modules"`
}

// FetchDashboardCounts returns the high-level counts used by the dashboard.
// Intentionally tolerant: on error it returns 0 for that counter.
func FetchDashboardCounts(ctx context.Context, g docstore.Gateway) Counts {
	var out Counts
	count := func(coll string, f docstore.Filter) int64 {
		n, err := g.Count(ctx, coll, f)
		if err != nil {
			return 0
		}
		return n
	}

	out.Programs = count(programstore.Collection, nil)
	out.ActivePrograms = count(programstore.Collection, docstore.Filter{docstore.Eq("status", models.StatusActive)})
	out.Cohorts = count(cohortstore.Collection, nil)
	out.Students = count(studentstore.Collection, nil)
	out.Instructors = count(instructorstore.Collection, nil)
	out.Subjects = count(subjectstore.Collection, nil)
	out.Modules = count(modulestore.Collection, nil)
	return out
}
