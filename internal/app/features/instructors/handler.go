// internal/app/features/instructors/handler.go
package instructors

import (
	uierrors "github.com/dalemusser/programhub/internal/app/features/errors"
	"github.com/dalemusser/programhub/internal/app/services/cvupload"
	instructorstore "github.com/dalemusser/programhub/internal/app/store/instructors"
	"github.com/dalemusser/programhub/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// Handler serves the instructor endpoints, including CV upload.
type Handler struct {
	Instructors *instructorstore.Store
	CV          *cvupload.Service
	ErrLog      *uierrors.ErrorLogger
	Audit       *auditlog.Logger
	Log         *zap.Logger
}

func NewHandler(instructors *instructorstore.Store, cv *cvupload.Service, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Instructors: instructors,
		CV:          cv,
		ErrLog:      errLog,
		Audit:       audit,
		Log:         logger,
	}
}
