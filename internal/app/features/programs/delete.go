// internal/app/features/programs/delete.go
package programs

import (
	"net/http"

	"github.com/dalemusser/programhub/internal/app/system/docstore"
	"github.com/dalemusser/programhub/internal/app/system/respond"
	"github.com/dalemusser/programhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// HandleDelete handles DELETE /programs/{id}. The program's cohort and
// modules are left in place.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := docstore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Write(w, r, "delete program", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete program")
	defer cancel()

	if err := h.Links.DeleteProgram(ctx, id); err != nil {
		h.ErrLog.Write(w, r, "delete program", err)
		return
	}
	h.Audit.EntityDeleted(ctx, "program", id)
	h.Log.Info("program deleted", zap.String("program_id", id.Hex()))
	respond.NoContent(w)
}
