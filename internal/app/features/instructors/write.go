// internal/app/features/instructors/write.go
package instructors

import (
	"net/http"

	"github.com/dalemusser/programhub/internal/app/system/docstore"
	"github.com/dalemusser/programhub/internal/app/system/inputval"
	"github.com/dalemusser/programhub/internal/app/system/respond"
	"github.com/dalemusser/programhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// HandleCreate handles POST /instructors. A CV is attached afterwards with
// POST /instructors/{id}/cv.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in createInput
	if err := respond.Decode(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, "create instructor", err)
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		respond.Invalid(w, res.Fields())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create instructor")
	defer cancel()

	created, err := h.Instructors.Create(ctx, in.instructor())
	if err != nil {
		h.ErrLog.Write(w, r, "create instructor", err)
		return
	}
	h.Audit.EntityCreated(ctx, "instructor", created.ID)
	respond.Created(w, created)
}

// HandleUpdate handles PATCH /instructors/{id}. The CV fields are not
// writable here.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := docstore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Write(w, r, "update instructor", err)
		return
	}
	var in updateInput
	if err := respond.Decode(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, "update instructor", err)
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		respond.Invalid(w, res.Fields())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update instructor")
	defer cancel()

	patch := in.patch()
	if err := h.Instructors.Update(ctx, id, patch); err != nil {
		h.ErrLog.Write(w, r, "update instructor", err)
		return
	}
	if fields := patch.Fields(); len(fields) > 0 {
		h.Audit.EntityUpdated(ctx, "instructor", id, fields)
	}

	got, err := h.Instructors.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, "reload instructor", err)
		return
	}
	respond.OK(w, got)
}

// HandleDelete handles DELETE /instructors/{id}. Modules keep their
// instructor snapshot.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := docstore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Write(w, r, "delete instructor", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete instructor")
	defer cancel()

	if err := h.Instructors.Delete(ctx, id); err != nil {
		h.ErrLog.Write(w, r, "delete instructor", err)
		return
	}
	h.Audit.EntityDeleted(ctx, "instructor", id)
	respond.NoContent(w)
}
