// internal/app/features/auditlog/handler.go
package auditlog

import (
	uierrors "github.com/dalemusser/programhub/internal/app/features/errors"
	"github.com/dalemusser/programhub/internal/app/store/audit"
	"go.uber.org/zap"
)

type Handler struct {
	Events *audit.Store
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

// NewHandler constructs an audit log feature handler over the audit store.
func NewHandler(events *audit.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Events: events,
		Log:    logger,
		ErrLog: errLog,
	}
}
