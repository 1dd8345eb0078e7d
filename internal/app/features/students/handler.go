// internal/app/features/students/handler.go
package students

import (
	uierrors "github.com/dalemusser/programhub/internal/app/features/errors"
	cohortstore "github.com/dalemusser/programhub/internal/app/store/cohorts"
	studentstore "github.com/dalemusser/programhub/internal/app/store/students"
	"github.com/dalemusser/programhub/internal/app/system/auditlog"
	"go.uber.org/zap"
)

type Handler struct {
	Students *studentstore.Store
	Cohorts  *cohortstore.Store
	ErrLog   *uierrors.ErrorLogger
	Audit    *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(students *studentstore.Store, cohorts *cohortstore.Store, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Students: students,
		Cohorts:  cohorts,
		ErrLog:   errLog,
		Audit:    audit,
		Log:      logger,
	}
}
