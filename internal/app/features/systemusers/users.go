// internal/app/features/systemusers/users.go
package systemusers

import (
	"context"
	"net/http"

	"github.com/dalemusser/programhub/internal/app/system/authz"
	"github.com/dalemusser/programhub/internal/app/system/docstore"
	"github.com/dalemusser/programhub/internal/app/system/inputval"
	"github.com/dalemusser/programhub/internal/app/system/respond"
	"github.com/dalemusser/programhub/internal/app/system/timeouts"
	"github.com/dalemusser/programhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// ServeList handles GET /api/admin/users.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list users")
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list users", err)
		return
	}
	respond.OK(w, users)
}

// ServeGet handles GET /api/admin/users/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := docstore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Write(w, r, "get user", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get user")
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, "get user", err)
		return
	}
	respond.OK(w, u)
}

// HandleCreate handles POST /api/admin/users.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in createInput
	if err := respond.Decode(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, "create user", err)
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		respond.Invalid(w, res.Fields())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create user")
	defer cancel()

	u, err := h.Users.Create(ctx, in.newUser())
	if err != nil {
		h.ErrLog.Write(w, r, "create user", err)
		return
	}
	h.AuditLog.EntityCreated(ctx, "user", u.ID)
	respond.Created(w, u)
}

// HandleUpdate handles PATCH /api/admin/users/{id}. Admins cannot change
// their own role or status, and the last active admin cannot be demoted or
// disabled.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	_, _, who, _ := authz.UserCtx(r)
	id, err := docstore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Write(w, r, "update user", err)
		return
	}
	var in updateInput
	if err := respond.Decode(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, "update user", err)
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		respond.Invalid(w, res.Fields())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update user")
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, "update user", err)
		return
	}

	patch := in.patch()
	demotes := patch.Role != nil && *patch.Role != models.RoleAdmin
	disables := patch.Status != nil && *patch.Status != models.StatusActive
	if id == who && (demotes || disables) {
		respond.Error(w, http.StatusConflict, "self_change",
			"you can't change your own role or status; ask another admin")
		return
	}
	if demotes || disables {
		if ok := h.keepsAnAdmin(ctx, w, r, u); !ok {
			return
		}
	}

	if err := h.Users.Update(ctx, id, patch); err != nil {
		h.ErrLog.Write(w, r, "update user", err)
		return
	}
	if fields := in.fields(); len(fields) > 0 {
		h.AuditLog.EntityUpdated(ctx, "user", id, fields)
	}

	u, err = h.Users.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, "reload user", err)
		return
	}
	respond.OK(w, u)
}

// HandleDelete handles DELETE /api/admin/users/{id}, with the same guards
// as HandleUpdate.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	_, _, who, _ := authz.UserCtx(r)
	id, err := docstore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Write(w, r, "delete user", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete user")
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, "delete user", err)
		return
	}
	if id == who {
		respond.Error(w, http.StatusConflict, "self_change",
			"you can't delete your own account; ask another admin")
		return
	}
	if ok := h.keepsAnAdmin(ctx, w, r, u); !ok {
		return
	}

	if err := h.Users.Delete(ctx, id); err != nil {
		h.ErrLog.Write(w, r, "delete user", err)
		return
	}
	h.AuditLog.EntityDeleted(ctx, "user", id)
	respond.NoContent(w)
}

// keepsAnAdmin answers 409 and returns false when removing u from the active
// admins would leave none.
func (h *Handler) keepsAnAdmin(ctx context.Context, w http.ResponseWriter, r *http.Request, u models.User) bool {
	if u.Role != models.RoleAdmin || u.Status != models.StatusActive {
		return true
	}
	n, err := h.Users.CountActiveAdmins(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count active admins", err)
		return false
	}
	if n <= 1 {
		respond.Error(w, http.StatusConflict, "last_admin", "there must be at least one active admin")
		return false
	}
	return true
}
