// internal/app/features/instructors/list.go
package instructors

import (
	"net/http"

	"github.com/dalemusser/programhub/internal/app/system/docstore"
	"github.com/dalemusser/programhub/internal/app/system/respond"
	"github.com/dalemusser/programhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list instructors")
	defer cancel()

	list, err := h.Instructors.List(ctx)
	if err != nil {
		h.ErrLog.Write(w, r, "list instructors", err)
		return
	}
	respond.OK(w, list)
}

func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := docstore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Write(w, r, "get instructor", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get instructor")
	defer cancel()

	in, err := h.Instructors.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, "get instructor", err)
		return
	}
	respond.OK(w, in)
}
