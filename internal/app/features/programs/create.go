// internal/app/features/programs/create.go
package programs

import (
	"net/http"

	"github.com/dalemusser/programhub/internal/app/system/inputval"
	"github.com/dalemusser/programhub/internal/app/system/respond"
	"github.com/dalemusser/programhub/internal/app/system/timeouts"
	"github.com/dalemusser/programhub/internal/domain/models"
	"go.uber.org/zap"
)

// HandleCreate handles POST /programs. Unless generate_modules is false it
// also lays out one module per month of the program.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in createInput
	if err := respond.Decode(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, "create program", err)
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		respond.Invalid(w, res.Fields())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "create program")
	defer cancel()

	p, err := h.Links.CreateProgram(ctx, in.program())
	if err != nil {
		h.ErrLog.Write(w, r, "create program", err)
		return
	}
	h.Audit.EntityCreated(ctx, "program", p.ID)

	resp := createResponse{Program: p, Modules: []models.Module{}}
	if in.generate() {
		mods, err := h.Curriculum.GenerateModules(ctx, p)
		if mods != nil {
			resp.Modules = mods
		}
		if err != nil {
			// The program stays; the caller can add the missing months by hand.
			h.Log.Warn("module generation incomplete",
				zap.String("program_id", p.ID.Hex()),
				zap.Int("created", len(resp.Modules)),
				zap.Error(err))
			resp.ModulesError = err.Error()
		}
	}

	respond.Created(w, resp)
}
