package dashboard_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/programhub/internal/app/features/dashboard"
	"github.com/dalemusser/programhub/internal/app/services/curriculum"
	metricsstore "github.com/dalemusser/programhub/internal/app/store/metrics"
	"github.com/dalemusser/programhub/internal/testutil"
	"go.uber.org/zap"
)

func TestServeDashboard_Counts(t *testing.T) {
	g := testutil.NewMemoryGateway()
	fx := testutil.NewFixtures(t, g)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p, c := fx.CreateLinkedPair(ctx, "P")
	fx.CreateProgram(ctx, "Q")
	fx.CreateModule(ctx, p.ID, 1)
	fx.CreateStudent(ctx, "S1", c.ID)
	fx.CreateStudent(ctx, "S2", c.ID)
	fx.CreateInstructor(ctx, "I")

	h := dashboard.NewHandler(curriculum.New(g, zap.NewNop()), zap.NewNop())
	router := dashboard.Routes(h, testutil.NewSessionManager(t))

	rec := testutil.Serve(router, testutil.NewAuthenticatedRequest(http.MethodGet, "/", testutil.ViewerUser()))
	rec.AssertStatus(t, http.StatusOK)

	var got metricsstore.Counts
	rec.DecodeJSON(t, &got)
	want := metricsstore.Counts{Programs: 2, ActivePrograms: 2, Cohorts: 1, Students: 2, Instructors: 1, Modules: 1}
	if got != want {
		t.Errorf("counts = %+v, want %+v", got, want)
	}
}

func TestServeDashboard_Unauthenticated(t *testing.T) {
	h := dashboard.NewHandler(curriculum.New(testutil.NewMemoryGateway(), zap.NewNop()), zap.NewNop())
	router := dashboard.Routes(h, testutil.NewSessionManager(t))

	rec := testutil.Serve(router, testutil.NewRequest(http.MethodGet, "/"))
	rec.AssertStatus(t, http.StatusUnauthorized)
}
