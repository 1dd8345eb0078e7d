// internal/app/features/modules/update.go
package modules

import (
	"net/http"

	"github.com/dalemusser/programhub/internal/app/system/docstore"
	"github.com/dalemusser/programhub/internal/app/system/inputval"
	"github.com/dalemusser/programhub/internal/app/system/respond"
	"github.com/dalemusser/programhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// HandleUpdate handles PATCH /modules/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := docstore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Write(w, r, "update module", err)
		return
	}
	var in updateInput
	if err := respond.Decode(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, "update module", err)
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		respond.Invalid(w, res.Fields())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update module")
	defer cancel()

	patch := in.patch()
	if err := h.Curriculum.UpdateModule(ctx, id, patch); err != nil {
		h.ErrLog.Write(w, r, "update module", err)
		return
	}
	if fields := patch.Fields(); len(fields) > 0 {
		h.Audit.EntityUpdated(ctx, "module", id, fields)
	}

	m, err := h.Modules.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, "reload module", err)
		return
	}
	respond.OK(w, m)
}
