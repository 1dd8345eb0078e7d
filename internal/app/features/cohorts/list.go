// internal/app/features/cohorts/list.go
package cohorts

import (
	"net/http"

	"github.com/dalemusser/programhub/internal/app/system/docstore"
	"github.com/dalemusser/programhub/internal/app/system/respond"
	"github.com/dalemusser/programhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// ServeList handles GET /cohorts, sorted by name.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list cohorts")
	defer cancel()

	list, err := h.Cohorts.List(ctx)
	if err != nil {
		h.ErrLog.Write(w, r, "list cohorts", err)
		return
	}
	respond.OK(w, list)
}

// ServeGet handles GET /cohorts/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := docstore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Write(w, r, "get cohort", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get cohort")
	defer cancel()

	c, err := h.Cohorts.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, "get cohort", err)
		return
	}
	respond.OK(w, c)
}

// ServeProgram handles GET /cohorts/{id}/program. It answers null when no
// program links the cohort.
func (h *Handler) ServeProgram(w http.ResponseWriter, r *http.Request) {
	id, err := docstore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Write(w, r, "cohort program", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "cohort program")
	defer cancel()

	p, err := h.Links.LookupProgramByCohortID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, "cohort program", err)
		return
	}
	respond.OK(w, p)
}

// ServeRoster handles GET /cohorts/{id}/students.
func (h *Handler) ServeRoster(w http.ResponseWriter, r *http.Request) {
	id, err := docstore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Write(w, r, "cohort roster", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "cohort roster")
	defer cancel()

	if _, err := h.Cohorts.GetByID(ctx, id); err != nil {
		h.ErrLog.Write(w, r, "cohort roster", err)
		return
	}
	students, err := h.Students.ListByCohort(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, "cohort roster", err)
		return
	}
	respond.OK(w, students)
}
