// internal/app/features/cohorts/routes.go
package cohorts

import (
	"github.com/dalemusser/programhub/internal/app/system/auth"
	"github.com/dalemusser/programhub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the cohort endpoints under /api/cohorts.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(authz.Readers...))
		pr.Get("/", h.ServeList)
		pr.Get("/{id}", h.ServeGet)
		pr.Get("/{id}/program", h.ServeProgram)
		pr.Get("/{id}/students", h.ServeRoster)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(authz.Writers...))
		pr.Post("/", h.HandleCreate)
		pr.Patch("/{id}", h.HandleUpdate)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(authz.Admins...))
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
