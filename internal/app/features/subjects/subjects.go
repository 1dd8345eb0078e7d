// internal/app/features/subjects/subjects.go
package subjects

import (
	"net/http"
	"strings"

	subjectstore "github.com/dalemusser/programhub/internal/app/store/subjects"
	"github.com/dalemusser/programhub/internal/app/system/docstore"
	"github.com/dalemusser/programhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/programhub/internal/app/system/inputval"
	"github.com/dalemusser/programhub/internal/app/system/respond"
	"github.com/dalemusser/programhub/internal/app/system/timeouts"
	"github.com/dalemusser/programhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Type is free text; the dashboard offers Tech, Soft Skills and Project.
type createInput struct {
	Name         string `json:"name" validate:"required,notblank,max=200" label:"Name"`
	Description  string `json:"description" validate:"required,notblank,max=5000" label:"Description"`
	Type         string `json:"type" validate:"required,notblank,max=100" label:"Type"`
	Code         string `json:"code" validate:"required,notblank,max=50" label:"Code"`
	DefaultHours int    `json:"default_hours" validate:"required,gte=1" label:"Default hours"`
	Status       string `json:"status" validate:"omitempty,oneof=active inactive" label:"Status"`
}

type updateInput struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,notblank,max=200" label:"Name"`
	Description  *string `json:"description,omitempty" validate:"omitempty,notblank,max=5000" label:"Description"`
	Type         *string `json:"type,omitempty" validate:"omitempty,notblank,max=100" label:"Type"`
	Code         *string `json:"code,omitempty" validate:"omitempty,notblank,max=50" label:"Code"`
	DefaultHours *int    `json:"default_hours,omitempty" validate:"omitempty,gte=1" label:"Default hours"`
	Status       *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive" label:"Status"`
}

func trim(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// ServeList handles GET /subjects, sorted by name.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list subjects")
	defer cancel()

	list, err := h.Subjects.List(ctx)
	if err != nil {
		h.ErrLog.Write(w, r, "list subjects", err)
		return
	}
	respond.OK(w, list)
}

func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := docstore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Write(w, r, "get subject", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get subject")
	defer cancel()

	sub, err := h.Subjects.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, "get subject", err)
		return
	}
	respond.OK(w, sub)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in createInput
	if err := respond.Decode(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, "create subject", err)
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		respond.Invalid(w, res.Fields())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create subject")
	defer cancel()

	sub, err := h.Subjects.Create(ctx, models.Subject{
		Name:         strings.TrimSpace(in.Name),
		Description:  htmlsanitize.Clean(in.Description),
		Type:         strings.TrimSpace(in.Type),
		Code:         strings.TrimSpace(in.Code),
		DefaultHours: in.DefaultHours,
		Status:       in.Status,
	})
	if err != nil {
		h.ErrLog.Write(w, r, "create subject", err)
		return
	}
	h.Audit.EntityCreated(ctx, "subject", sub.ID)
	respond.Created(w, sub)
}

// HandleUpdate handles PATCH /subjects/{id}. Existing module snapshots keep
// the old name.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := docstore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Write(w, r, "update subject", err)
		return
	}
	var in updateInput
	if err := respond.Decode(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, "update subject", err)
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		respond.Invalid(w, res.Fields())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update subject")
	defer cancel()

	patch := subjectstore.Patch{
		Name:         trim(in.Name),
		Description:  htmlsanitize.CleanPtr(in.Description),
		Type:         trim(in.Type),
		Code:         trim(in.Code),
		DefaultHours: in.DefaultHours,
		Status:       in.Status,
	}
	if err := h.Subjects.Update(ctx, id, patch); err != nil {
		h.ErrLog.Write(w, r, "update subject", err)
		return
	}
	if fields := patch.Fields(); len(fields) > 0 {
		h.Audit.EntityUpdated(ctx, "subject", id, fields)
	}

	sub, err := h.Subjects.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, "reload subject", err)
		return
	}
	respond.OK(w, sub)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := docstore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Write(w, r, "delete subject", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete subject")
	defer cancel()

	if err := h.Subjects.Delete(ctx, id); err != nil {
		h.ErrLog.Write(w, r, "delete subject", err)
		return
	}
	h.Audit.EntityDeleted(ctx, "subject", id)
	respond.NoContent(w)
}
