// internal/app/features/cohorts/handler.go
package cohorts

import (
	uierrors "github.com/dalemusser/programhub/internal/app/features/errors"
	"github.com/dalemusser/programhub/internal/app/services/linkage"
	cohortstore "github.com/dalemusser/programhub/internal/app/store/cohorts"
	studentstore "github.com/dalemusser/programhub/internal/app/store/students"
	"github.com/dalemusser/programhub/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// Handler serves the cohort endpoints. Every write goes through Links because
// a cohort's program_id is one half of the program link.
type Handler struct {
	Links    *linkage.Service
	Cohorts  *cohortstore.Store
	Students *studentstore.Store
	ErrLog   *uierrors.ErrorLogger
	Audit    *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(links *linkage.Service, cohorts *cohortstore.Store, students *studentstore.Store, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Links:    links,
		Cohorts:  cohorts,
		Students: students,
		ErrLog:   errLog,
		Audit:    audit,
		Log:      logger,
	}
}
