package consistency_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/programhub/internal/app/features/consistency"
	uierrors "github.com/dalemusser/programhub/internal/app/features/errors"
	"github.com/dalemusser/programhub/internal/app/services/linkage"
	"github.com/dalemusser/programhub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type reportBody struct {
	Consistent      bool `json:"consistent"`
	Inconsistencies []struct {
		Kind      string `json:"kind"`
		ProgramID string `json:"program_id"`
		CohortID  string `json:"cohort_id"`
	} `json:"inconsistencies"`
}

func setup(t *testing.T) (chi.Router, *testutil.Fixtures) {
	t.Helper()
	g := testutil.NewMemoryGateway()
	logger := zap.NewNop()
	h := consistency.NewHandler(linkage.New(g, linkage.Options{Logger: logger}), uierrors.NewErrorLogger(logger), logger)
	return consistency.Routes(h, testutil.NewSessionManager(t)), testutil.NewFixtures(t, g)
}

func TestServeReport_Consistent(t *testing.T) {
	router, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateLinkedPair(ctx, "P")
	fx.CreateProgram(ctx, "Unlinked")

	rec := testutil.Serve(router, testutil.NewAuthenticatedRequest(http.MethodGet, "/", testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusOK)

	var body reportBody
	rec.DecodeJSON(t, &body)
	if !body.Consistent || body.Inconsistencies == nil || len(body.Inconsistencies) != 0 {
		t.Errorf("expected a clean report with an empty list, got %+v", body)
	}
}

func TestServeReport_FindsHalfLink(t *testing.T) {
	router, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	p := fx.CreateProgram(ctx, "P")
	c := fx.CreateCohort(ctx, "C", p.ID)

	rec := testutil.Serve(router, testutil.NewAuthenticatedRequest(http.MethodGet, "/", testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusOK)

	var body reportBody
	rec.DecodeJSON(t, &body)
	if body.Consistent || len(body.Inconsistencies) != 1 {
		t.Fatalf("expected one inconsistency, got %+v", body)
	}
	got := body.Inconsistencies[0]
	if got.Kind != string(linkage.KindMissingForwardLink) || got.ProgramID != p.ID.Hex() || got.CohortID != c.ID.Hex() {
		t.Errorf("unexpected inconsistency %+v", got)
	}
}

func TestServeReport_AdminOnly(t *testing.T) {
	router, _ := setup(t)

	tests := []struct {
		name string
		user *testutil.TestUser
		want int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"viewer", ptr(testutil.ViewerUser()), http.StatusForbidden},
		{"coordinator", ptr(testutil.CoordinatorUser()), http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.NewRequest(http.MethodGet, "/")
			if tt.user != nil {
				req = testutil.WithUser(req, *tt.user)
			}
			testutil.Serve(router, req).AssertStatus(t, tt.want)
		})
	}
}

func ptr(u testutil.TestUser) *testutil.TestUser { return &u }
