package login_test

import (
	"net/http"
	"testing"
	"time"

	uierrors "github.com/dalemusser/programhub/internal/app/features/errors"
	"github.com/dalemusser/programhub/internal/app/features/login"
	"github.com/dalemusser/programhub/internal/app/store/audit"
	userstore "github.com/dalemusser/programhub/internal/app/store/users"
	"github.com/dalemusser/programhub/internal/app/system/auditlog"
	"github.com/dalemusser/programhub/internal/app/system/auth"
	"github.com/dalemusser/programhub/internal/app/system/ratelimit"
	"github.com/dalemusser/programhub/internal/domain/models"
	"github.com/dalemusser/programhub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type fixture struct {
	router chi.Router
	h      *login.Handler
	fx     *testutil.Fixtures
	users  *userstore.Store
	audit  *audit.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	g := testutil.NewMemoryGateway()
	logger := zap.NewNop()
	users := userstore.New(g)
	auditStore := audit.New(g)
	h := login.NewHandler(users, testutil.NewSessionManager(t), uierrors.NewErrorLogger(logger),
		auditlog.New(auditStore, logger, auditlog.Config{Auth: "db"}), logger)
	return &fixture{router: login.Routes(h), h: h, fx: testutil.NewFixtures(t, g), users: users, audit: auditStore}
}

func (f *fixture) post(t *testing.T, body any) *testutil.ResponseRecorder {
	t.Helper()
	return testutil.Serve(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/", body))
}

func TestLogin_Success(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f.fx.CreateUser(ctx, "coord@example.com", models.RoleCoordinator, "s3cret-pass")

	rec := f.post(t, map[string]any{"email": "Coord@Example.com", "password": "s3cret-pass"})
	rec.AssertStatus(t, http.StatusOK)

	var su auth.SessionUser
	rec.DecodeJSON(t, &su)
	if su.Email != "coord@example.com" || su.Role != models.RoleCoordinator {
		t.Errorf("unexpected session user: %+v", su)
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected a session cookie")
	}

	events, err := f.audit.Query(ctx, audit.QueryFilter{})
	if err != nil {
		t.Fatalf("Query audit: %v", err)
	}
	if len(events) != 1 || events[0].EventType != audit.EventLoginSuccess {
		t.Errorf("unexpected audit events: %+v", events)
	}
}

func TestLogin_Failures(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	u := f.fx.CreateUser(ctx, "viewer@example.com", models.RoleViewer, "right-password")
	disabled := models.StatusInactive
	f.fx.CreateUser(ctx, "gone@example.com", models.RoleViewer, "right-password")
	gone, _ := f.users.GetByEmail(ctx, "gone@example.com")
	if err := f.users.Update(ctx, gone.ID, userstore.Patch{Status: &disabled}); err != nil {
		t.Fatalf("disable user: %v", err)
	}

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"unknown email", map[string]any{"email": "nobody@example.com", "password": "x"}, http.StatusUnauthorized, "invalid_credentials"},
		{"wrong password", map[string]any{"email": u.Email, "password": "wrong"}, http.StatusUnauthorized, "invalid_credentials"},
		{"disabled", map[string]any{"email": "gone@example.com", "password": "right-password"}, http.StatusForbidden, "account_disabled"},
		{"missing password", map[string]any{"email": u.Email}, http.StatusUnprocessableEntity, "validation_failed"},
		{"malformed", "{", http.StatusBadRequest, "bad_request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.post(t, tt.body)
			rec.AssertStatus(t, tt.status)
			rec.AssertContains(t, tt.code)
			if len(rec.Result().Cookies()) != 0 {
				t.Error("no session cookie expected on failure")
			}
		})
	}
}

func TestLogin_Throttled(t *testing.T) {
	f := newFixture(t)
	f.h.Limiter = ratelimit.NewLoginLimiter(100, time.Minute, 2, time.Minute)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f.fx.CreateUser(ctx, "coord@example.com", models.RoleCoordinator, "s3cret-pass")

	for i := 0; i < 2; i++ {
		f.post(t, map[string]any{"email": "coord@example.com", "password": "wrong"}).
			AssertStatus(t, http.StatusUnauthorized)
	}

	rec := f.post(t, map[string]any{"email": "coord@example.com", "password": "s3cret-pass"})
	rec.AssertStatus(t, http.StatusTooManyRequests)
	rec.AssertContains(t, "rate_limited")
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected a Retry-After header")
	}

	// Other accounts from the same client are unaffected.
	f.fx.CreateUser(ctx, "viewer@example.com", models.RoleViewer, "s3cret-pass")
	f.post(t, map[string]any{"email": "viewer@example.com", "password": "s3cret-pass"}).
		AssertStatus(t, http.StatusOK)
}
