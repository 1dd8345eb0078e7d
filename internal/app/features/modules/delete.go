// internal/app/features/modules/delete.go
package modules

import (
	"net/http"

	"github.com/dalemusser/programhub/internal/app/system/docstore"
	"github.com/dalemusser/programhub/internal/app/system/respond"
	"github.com/dalemusser/programhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// HandleDelete handles DELETE /modules/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := docstore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Write(w, r, "delete module", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete module")
	defer cancel()

	if err := h.Modules.Delete(ctx, id); err != nil {
		h.ErrLog.Write(w, r, "delete module", err)
		return
	}
	h.Audit.EntityDeleted(ctx, "module", id)
	respond.NoContent(w)
}
