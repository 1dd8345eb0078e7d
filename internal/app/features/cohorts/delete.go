// internal/app/features/cohorts/delete.go
package cohorts

import (
	"net/http"

	"github.com/dalemusser/programhub/internal/app/system/docstore"
	"github.com/dalemusser/programhub/internal/app/system/respond"
	"github.com/dalemusser/programhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// HandleDelete handles DELETE /cohorts/{id}. The linked program keeps its
// cohort_id; the consistency report lists it afterwards.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := docstore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Write(w, r, "delete cohort", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete cohort")
	defer cancel()

	if err := h.Links.DeleteCohort(ctx, id); err != nil {
		h.ErrLog.Write(w, r, "delete cohort", err)
		return
	}
	h.Audit.EntityDeleted(ctx, "cohort", id)
	h.Log.Info("cohort deleted", zap.String("cohort_id", id.Hex()))
	respond.NoContent(w)
}
