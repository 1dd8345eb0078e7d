// internal/app/features/students/delete.go
package students

import (
	"net/http"

	"github.com/dalemusser/programhub/internal/app/system/docstore"
	"github.com/dalemusser/programhub/internal/app/system/respond"
	"github.com/dalemusser/programhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := docstore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Write(w, r, "delete student", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete student")
	defer cancel()

	if err := h.Students.Delete(ctx, id); err != nil {
		h.ErrLog.Write(w, r, "delete student", err)
		return
	}
	h.Audit.EntityDeleted(ctx, "student", id)
	respond.NoContent(w)
}
