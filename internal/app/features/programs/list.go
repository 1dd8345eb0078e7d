// internal/app/features/programs/list.go
package programs

import (
	"net/http"

	"github.com/dalemusser/programhub/internal/app/system/docstore"
	"github.com/dalemusser/programhub/internal/app/system/respond"
	"github.com/dalemusser/programhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// ServeList handles GET /programs, sorted by name.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list programs")
	defer cancel()

	list, err := h.Programs.List(ctx)
	if err != nil {
		h.ErrLog.Write(w, r, "list programs", err)
		return
	}
	respond.OK(w, list)
}

// ServeGet handles GET /programs/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := docstore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Write(w, r, "get program", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get program")
	defer cancel()

	p, err := h.Programs.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, "get program", err)
		return
	}
	respond.OK(w, p)
}

// ServeCohorts handles GET /programs/{id}/cohorts. An unknown program yields
// an empty list.
func (h *Handler) ServeCohorts(w http.ResponseWriter, r *http.Request) {
	id, err := docstore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Write(w, r, "program cohorts", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "program cohorts")
	defer cancel()

	cohorts, err := h.Links.LookupCohortsByProgramID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, "program cohorts", err)
		return
	}
	respond.OK(w, cohorts)
}

// ServeTimeline handles GET /programs/{id}/modules, ordered by month.
func (h *Handler) ServeTimeline(w http.ResponseWriter, r *http.Request) {
	id, err := docstore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Write(w, r, "program timeline", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "program timeline")
	defer cancel()

	modules, err := h.Curriculum.Timeline(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, "program timeline", err)
		return
	}
	respond.OK(w, modules)
}
