// internal/app/features/programs/handler.go
package programs

import (
	uierrors "github.com/dalemusser/programhub/internal/app/features/errors"
	"github.com/dalemusser/programhub/internal/app/services/curriculum"
	"github.com/dalemusser/programhub/internal/app/services/linkage"
	programstore "github.com/dalemusser/programhub/internal/app/store/programs"
	"github.com/dalemusser/programhub/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// Handler serves the program endpoints. Writes that touch cohort_id go
// through Links; plain reads hit the store directly.
type Handler struct {
	Links      *linkage.Service
	Programs   *programstore.Store
	Curriculum *curriculum.Service
	ErrLog     *uierrors.ErrorLogger
	Audit      *auditlog.Logger
	Log        *zap.Logger
}

func NewHandler(links *linkage.Service, programs *programstore.Store, curr *curriculum.Service, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Links:      links,
		Programs:   programs,
		Curriculum: curr,
		ErrLog:     errLog,
		Audit:      audit,
		Log:        logger,
	}
}
