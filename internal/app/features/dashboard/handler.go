// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"

	"github.com/dalemusser/programhub/internal/app/services/curriculum"
	"github.com/dalemusser/programhub/internal/app/system/authz"
	"github.com/dalemusser/programhub/internal/app/system/respond"
	"github.com/dalemusser/programhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type Handler struct {
	Curriculum *curriculum.Service
	Log        *zap.Logger
}

func NewHandler(curr *curriculum.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Curriculum: curr,
		Log:        logger,
	}
}

// ServeDashboard handles GET /dashboard. Counters that fail to load read 0;
// the dashboard never errors.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	_, uname, _, _ := authz.UserCtx(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "dashboard")
	defer cancel()

	counts := h.Curriculum.Stats(ctx)
	h.Log.Debug("dashboard served", zap.String("user", uname))
	respond.OK(w, counts)
}
