// internal/app/features/subjects/handler.go
package subjects

import (
	uierrors "github.com/dalemusser/programhub/internal/app/features/errors"
	subjectstore "github.com/dalemusser/programhub/internal/app/store/subjects"
	"github.com/dalemusser/programhub/internal/app/system/auditlog"
	"go.uber.org/zap"
)

type Handler struct {
	Subjects *subjectstore.Store
	ErrLog   *uierrors.ErrorLogger
	Audit    *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(subjects *subjectstore.Store, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Subjects: subjects, ErrLog: errLog, Audit: audit, Log: logger}
}
