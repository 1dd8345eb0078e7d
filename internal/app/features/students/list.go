// internal/app/features/students/list.go
package students

import (
	"net/http"

	"github.com/dalemusser/programhub/internal/app/system/docstore"
	"github.com/dalemusser/programhub/internal/app/system/respond"
	"github.com/dalemusser/programhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// ServeList handles GET /students, sorted by full name.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list students")
	defer cancel()

	list, err := h.Students.List(ctx)
	if err != nil {
		h.ErrLog.Write(w, r, "list students", err)
		return
	}
	respond.OK(w, list)
}

func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := docstore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Write(w, r, "get student", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get student")
	defer cancel()

	st, err := h.Students.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, "get student", err)
		return
	}
	respond.OK(w, st)
}
