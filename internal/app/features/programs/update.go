// internal/app/features/programs/update.go
package programs

import (
	"net/http"

	"github.com/dalemusser/programhub/internal/app/system/docstore"
	"github.com/dalemusser/programhub/internal/app/system/inputval"
	"github.com/dalemusser/programhub/internal/app/system/respond"
	"github.com/dalemusser/programhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// HandleUpdate handles PATCH /programs/{id} and answers with the stored
// program. A set cohort_id can be confirmed but never changed.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := docstore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Write(w, r, "update program", err)
		return
	}
	var in updateInput
	if err := respond.Decode(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, "update program", err)
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		respond.Invalid(w, res.Fields())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update program")
	defer cancel()

	fields, err := h.Links.UpdateProgram(ctx, id, in.patch())
	if err != nil {
		h.ErrLog.Write(w, r, "update program", err)
		return
	}
	if len(fields) > 0 {
		h.Audit.EntityUpdated(ctx, "program", id, fields)
	}

	p, err := h.Programs.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, "reload program", err)
		return
	}
	respond.OK(w, p)
}
