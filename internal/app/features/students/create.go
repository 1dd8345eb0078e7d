// internal/app/features/students/create.go
package students

import (
	"net/http"

	"github.com/dalemusser/programhub/internal/app/system/inputval"
	"github.com/dalemusser/programhub/internal/app/system/respond"
	"github.com/dalemusser/programhub/internal/app/system/timeouts"
)

// HandleCreate handles POST /students. The cohort must exist.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in createInput
	if err := respond.Decode(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, "create student", err)
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		respond.Invalid(w, res.Fields())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create student")
	defer cancel()

	st := in.student()
	if _, err := h.Cohorts.GetByID(ctx, st.CohortID); err != nil {
		h.ErrLog.Write(w, r, "create student", err)
		return
	}
	created, err := h.Students.Create(ctx, st)
	if err != nil {
		h.ErrLog.Write(w, r, "create student", err)
		return
	}
	h.Audit.EntityCreated(ctx, "student", created.ID)
	respond.Created(w, created)
}
