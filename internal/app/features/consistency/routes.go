// internal/app/features/consistency/routes.go
package consistency

import (
	"github.com/dalemusser/programhub/internal/app/system/auth"
	"github.com/dalemusser/programhub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted at /api/admin/consistency.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Use(sm.RequireRole(authz.Admins...))
	r.Get("/", h.ServeReport)
	return r
}
