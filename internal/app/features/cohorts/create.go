// internal/app/features/cohorts/create.go
package cohorts

import (
	"net/http"

	"github.com/dalemusser/programhub/internal/app/system/inputval"
	"github.com/dalemusser/programhub/internal/app/system/respond"
	"github.com/dalemusser/programhub/internal/app/system/timeouts"
)

// HandleCreate handles POST /cohorts. The named program must exist and must
// not already have a cohort.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in createInput
	if err := respond.Decode(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, "create cohort", err)
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		respond.Invalid(w, res.Fields())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create cohort")
	defer cancel()

	c, sg, err := h.Links.CreateCohort(ctx, in.cohort())
	if err != nil {
		h.ErrLog.Write(w, r, "create cohort", err)
		return
	}
	h.Audit.EntityCreated(ctx, "cohort", c.ID)
	respond.Created(w, writeResponse{Cohort: c, Saga: sg})
}
