// internal/app/features/modules/handler.go
package modules

import (
	uierrors "github.com/dalemusser/programhub/internal/app/features/errors"
	"github.com/dalemusser/programhub/internal/app/services/curriculum"
	modulestore "github.com/dalemusser/programhub/internal/app/store/modules"
	"github.com/dalemusser/programhub/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// Handler serves the module endpoints. Creates and updates go through
// Curriculum so subject and instructor snapshots stay filled.
type Handler struct {
	Curriculum *curriculum.Service
	Modules    *modulestore.Store
	ErrLog     *uierrors.ErrorLogger
	Audit      *auditlog.Logger
	Log        *zap.Logger
}

func NewHandler(curr *curriculum.Service, modules *modulestore.Store, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Curriculum: curr,
		Modules:    modules,
		ErrLog:     errLog,
		Audit:      audit,
		Log:        logger,
	}
}
