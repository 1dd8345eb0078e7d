package userinfo_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/programhub/internal/app/features/userinfo"
	"github.com/dalemusser/programhub/internal/testutil"
	"github.com/go-chi/chi/v5"
)

type meBody struct {
	IsAuthenticated bool `json:"isAuthenticated"`
	User            *struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
}

func newRouter() chi.Router {
	r := chi.NewRouter()
	r.Route("/api", func(api chi.Router) {
		userinfo.MountRoutes(api, userinfo.NewHandler())
	})
	return r
}

func TestServeUserInfo_Unauthenticated(t *testing.T) {
	rec := testutil.Serve(newRouter(), testutil.NewRequest(http.MethodGet, "/api/me"))
	rec.AssertStatus(t, http.StatusOK)

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}
	var body meBody
	rec.DecodeJSON(t, &body)
	if body.IsAuthenticated {
		t.Error("isAuthenticated: got true, want false")
	}
	if body.User != nil {
		t.Errorf("user: got %+v, want null", body.User)
	}
}

func TestServeUserInfo_Authenticated(t *testing.T) {
	user := testutil.CoordinatorUser()
	rec := testutil.Serve(newRouter(), testutil.NewAuthenticatedRequest(http.MethodGet, "/api/me", user))
	rec.AssertStatus(t, http.StatusOK)

	var body meBody
	rec.DecodeJSON(t, &body)
	if !body.IsAuthenticated || body.User == nil {
		t.Fatalf("expected authenticated user, got %+v", body)
	}
	if body.User.ID != user.ID || body.User.Email != user.Email || body.User.Role != user.Role {
		t.Errorf("user: got %+v, want %+v", body.User, user)
	}
}
