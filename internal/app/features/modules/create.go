// internal/app/features/modules/create.go
package modules

import (
	"net/http"

	"github.com/dalemusser/programhub/internal/app/system/inputval"
	"github.com/dalemusser/programhub/internal/app/system/respond"
	"github.com/dalemusser/programhub/internal/app/system/timeouts"
)

// HandleCreate handles POST /modules. The program and any assigned subject
// or instructor must exist.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in createInput
	if err := respond.Decode(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, "create module", err)
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		respond.Invalid(w, res.Fields())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create module")
	defer cancel()

	m, err := h.Curriculum.CreateModule(ctx, in.module())
	if err != nil {
		h.ErrLog.Write(w, r, "create module", err)
		return
	}
	h.Audit.EntityCreated(ctx, "module", m.ID)
	respond.Created(w, m)
}
