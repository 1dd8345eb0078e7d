// internal/app/features/students/update.go
package students

import (
	"net/http"

	"github.com/dalemusser/programhub/internal/app/system/docstore"
	"github.com/dalemusser/programhub/internal/app/system/inputval"
	"github.com/dalemusser/programhub/internal/app/system/respond"
	"github.com/dalemusser/programhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// HandleUpdate handles PATCH /students/{id}. Moving a student checks that
// the target cohort exists.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := docstore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Write(w, r, "update student", err)
		return
	}
	var in updateInput
	if err := respond.Decode(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, "update student", err)
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		respond.Invalid(w, res.Fields())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update student")
	defer cancel()

	patch := in.patch()
	if patch.CohortID != nil {
		if _, err := h.Cohorts.GetByID(ctx, *patch.CohortID); err != nil {
			h.ErrLog.Write(w, r, "update student", err)
			return
		}
	}
	if err := h.Students.Update(ctx, id, patch); err != nil {
		h.ErrLog.Write(w, r, "update student", err)
		return
	}
	if fields := patch.Fields(); len(fields) > 0 {
		h.Audit.EntityUpdated(ctx, "student", id, fields)
	}

	st, err := h.Students.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, "reload student", err)
		return
	}
	respond.OK(w, st)
}
