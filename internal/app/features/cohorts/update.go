// internal/app/features/cohorts/update.go
package cohorts

import (
	"net/http"

	"github.com/dalemusser/programhub/internal/app/system/docstore"
	"github.com/dalemusser/programhub/internal/app/system/inputval"
	"github.com/dalemusser/programhub/internal/app/system/respond"
	"github.com/dalemusser/programhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// HandleUpdate handles PATCH /cohorts/{id}. Changing program_id moves the
// link from the old program to the new one.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := docstore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Write(w, r, "update cohort", err)
		return
	}
	var in updateInput
	if err := respond.Decode(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, "update cohort", err)
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		respond.Invalid(w, res.Fields())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update cohort")
	defer cancel()

	patch := in.patch()
	sg, err := h.Links.UpdateCohort(ctx, id, patch)
	if err != nil {
		h.ErrLog.Write(w, r, "update cohort", err)
		return
	}
	if fields := patch.Fields(); len(fields) > 0 {
		h.Audit.EntityUpdated(ctx, "cohort", id, fields)
	}

	c, err := h.Cohorts.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, "reload cohort", err)
		return
	}
	respond.OK(w, writeResponse{Cohort: c, Saga: sg})
}
