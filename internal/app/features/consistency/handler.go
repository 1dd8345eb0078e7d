// internal/app/features/consistency/handler.go
package consistency

import (
	"net/http"

	uierrors "github.com/dalemusser/programhub/internal/app/features/errors"
	"github.com/dalemusser/programhub/internal/app/services/linkage"
	"github.com/dalemusser/programhub/internal/app/system/respond"
	"github.com/dalemusser/programhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type Handler struct {
	Links  *linkage.Service
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(links *linkage.Service, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Links: links, ErrLog: errLog, Log: logger}
}

type report struct {
	Consistent      bool                    `json:"consistent"`
	Inconsistencies []linkage.Inconsistency `json:"inconsistencies"`
}

// ServeReport handles GET /api/admin/consistency.
func (h *Handler) ServeReport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "consistency check")
	defer cancel()

	found, err := h.Links.CheckConsistency(ctx)
	if err != nil {
		h.ErrLog.Write(w, r, "consistency check", err)
		return
	}
	if len(found) > 0 {
		h.Log.Warn("link inconsistencies found", zap.Int("count", len(found)))
	}
	respond.OK(w, report{Consistent: len(found) == 0, Inconsistencies: found})
}
