// internal/app/features/subjects/routes.go
package subjects

import (
	"github.com/dalemusser/programhub/internal/app/system/auth"
	"github.com/dalemusser/programhub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.With(sm.RequireRole(authz.Readers...)).Get("/", h.ServeList)
	r.With(sm.RequireRole(authz.Readers...)).Get("/{id}", h.ServeGet)
	r.With(sm.RequireRole(authz.Writers...)).Post("/", h.HandleCreate)
	r.With(sm.RequireRole(authz.Writers...)).Patch("/{id}", h.HandleUpdate)
	r.With(sm.RequireRole(authz.Admins...)).Delete("/{id}", h.HandleDelete)

	return r
}
