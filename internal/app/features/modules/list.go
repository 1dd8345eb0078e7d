// internal/app/features/modules/list.go
package modules

import (
	"net/http"
	"strings"

	"github.com/dalemusser/programhub/internal/app/system/docstore"
	"github.com/dalemusser/programhub/internal/app/system/respond"
	"github.com/dalemusser/programhub/internal/app/system/timeouts"
	"github.com/dalemusser/programhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// ServeList handles GET /modules. With ?program_id= it answers that
// program's timeline instead.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list modules")
	defer cancel()

	var (
		list []models.Module
		err  error
	)
	if raw := strings.TrimSpace(r.URL.Query().Get("program_id")); raw != "" {
		pid, perr := docstore.ParseID(raw)
		if perr != nil {
			h.ErrLog.Write(w, r, "list modules", perr)
			return
		}
		list, err = h.Curriculum.Timeline(ctx, pid)
	} else {
		list, err = h.Modules.List(ctx)
	}
	if err != nil {
		h.ErrLog.Write(w, r, "list modules", err)
		return
	}
	respond.OK(w, list)
}

// ServeGet handles GET /modules/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := docstore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Write(w, r, "get module", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get module")
	defer cancel()

	m, err := h.Modules.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, "get module", err)
		return
	}
	respond.OK(w, m)
}
