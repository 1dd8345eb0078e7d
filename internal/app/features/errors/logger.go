// internal/app/features/errors/logger.go
package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/dalemusser/programhub/internal/app/services/curriculum"
	"github.com/dalemusser/programhub/internal/app/services/cvupload"
	"github.com/dalemusser/programhub/internal/app/services/linkage"
	cohortstore "github.com/dalemusser/programhub/internal/app/store/cohorts"
	instructorstore "github.com/dalemusser/programhub/internal/app/store/instructors"
	modulestore "github.com/dalemusser/programhub/internal/app/store/modules"
	programstore "github.com/dalemusser/programhub/internal/app/store/programs"
	studentstore "github.com/dalemusser/programhub/internal/app/store/students"
	subjectstore "github.com/dalemusser/programhub/internal/app/store/subjects"
	userstore "github.com/dalemusser/programhub/internal/app/store/users"
	"github.com/dalemusser/programhub/internal/app/system/docstore"
	"github.com/dalemusser/programhub/internal/app/system/respond"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ErrorLogger turns service and store errors into JSON responses, logging
// the ones that are our fault.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{Log: logger}
}

var notFound = []error{
	linkage.ErrNotFound,
	curriculum.ErrNotFound,
	cvupload.ErrNotFound,
	programstore.ErrNotFound,
	cohortstore.ErrNotFound,
	modulestore.ErrNotFound,
	studentstore.ErrNotFound,
	subjectstore.ErrNotFound,
	instructorstore.ErrNotFound,
	userstore.ErrNotFound,
	docstore.ErrNotFound,
}

// Classify maps err to an HTTP status and a machine-readable code.
func Classify(err error) (int, string) {
	var comp *linkage.CompensationError
	switch {
	case err == nil:
		return http.StatusOK, ""
	case stderrors.As(err, &comp):
		return http.StatusInternalServerError, "link_inconsistent"
	case stderrors.Is(err, respond.ErrBadBody):
		return http.StatusBadRequest, "bad_request"
	case stderrors.Is(err, docstore.ErrInvalidID):
		return http.StatusBadRequest, "invalid_id"
	case stderrors.Is(err, linkage.ErrAlreadyLinked):
		return http.StatusConflict, "already_linked"
	case stderrors.Is(err, linkage.ErrImmutableLink):
		return http.StatusConflict, "immutable_link"
	case stderrors.Is(err, userstore.ErrDuplicateEmail), stderrors.Is(err, docstore.ErrDuplicate):
		return http.StatusConflict, "duplicate"
	case stderrors.Is(err, cvupload.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, "too_large"
	case stderrors.Is(err, cvupload.ErrBadContentType):
		return http.StatusUnsupportedMediaType, "unsupported_media_type"
	case stderrors.Is(err, cvupload.ErrEmpty):
		return http.StatusUnprocessableEntity, "empty_file"
	}
	for _, target := range notFound {
		if stderrors.Is(err, target) {
			return http.StatusNotFound, "not_found"
		}
	}
	return http.StatusInternalServerError, "internal"
}

// Write classifies err and writes it. Client errors carry err's message;
// server errors are logged with msg and answered with a generic message.
func (e *ErrorLogger) Write(w http.ResponseWriter, r *http.Request, msg string, err error) {
	status, code := Classify(err)
	if status < http.StatusInternalServerError {
		respond.Error(w, status, code, err.Error())
		return
	}
	e.LogServerError(w, r, msg, err)
}

// LogServerError logs err at error level and answers 500.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	fields := []zap.Field{
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if reqID := middleware.GetReqID(r.Context()); reqID != "" {
		fields = append(fields, zap.String("request_id", reqID))
	}

	var comp *linkage.CompensationError
	if stderrors.As(err, &comp) && comp.Saga != nil {
		fields = append(fields,
			zap.String("operation_id", comp.Saga.OperationID),
			zap.Strings("steps", comp.Saga.Summary()))
		e.Log.Error(msg+": link may be inconsistent", fields...)
		respond.Error(w, http.StatusInternalServerError, "link_inconsistent",
			"the change failed and could not be fully rolled back; operation "+comp.Saga.OperationID)
		return
	}

	e.Log.Error(msg, fields...)
	respond.Error(w, http.StatusInternalServerError, "internal", "something went wrong")
}
