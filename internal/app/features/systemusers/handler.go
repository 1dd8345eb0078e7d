// internal/app/features/systemusers/handler.go
package systemusers

import (
	uierrors "github.com/dalemusser/programhub/internal/app/features/errors"
	userstore "github.com/dalemusser/programhub/internal/app/store/users"
	"github.com/dalemusser/programhub/internal/app/system/auditlog"
	"go.uber.org/zap"
)

type Handler struct {
	Users    *userstore.Store
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
}

// NewHandler constructs the dashboard user management handler.
func NewHandler(users *userstore.Store, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:    users,
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
	}
}
