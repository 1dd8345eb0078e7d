// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/dalemusser/programhub/internal/app/store/audit"
	"github.com/dalemusser/programhub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for authentication events (login, logout).
	// Values: "all" (store + zap), "db" (store only), "log" (zap only), "off" (disabled)
	Auth string
	// Admin controls logging for record changes and cohort linking.
	// Values: "all" (store + zap), "db" (store only), "log" (zap only), "off" (disabled)
	Admin string
}

// ValidSetting reports whether v is an accepted Config value.
func ValidSetting(v string) bool {
	switch v {
	case "all", "db", "log", "off":
		return true
	}
	return false
}

// Logger records audit events to the audit store and to zap.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

type ctxKey struct{}

// WithActor attaches the acting user to ctx.
func WithActor(ctx context.Context, id *primitive.ObjectID) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// ActorFrom returns the acting user attached by WithActor, if any.
func ActorFrom(ctx context.Context) *primitive.ObjectID {
	id, _ := ctx.Value(ctxKey{}).(*primitive.ObjectID)
	return id
}

// ActorMiddleware copies the signed-in user into the request context so
// services can attribute the events they log.
func ActorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := authz.ActorID(r); id != nil {
			r = r.WithContext(WithActor(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the client IP from the request.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.EntityType != "" {
		fields = append(fields, zap.String("entity_type", event.EntityType))
	}
	if event.EntityID != nil {
		fields = append(fields, zap.String("entity_id", event.EntityID.Hex()))
	}
	if event.OperationID != "" {
		fields = append(fields, zap.String("operation_id", event.OperationID))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event according to the category's setting.
// A nil Logger is a no-op so tests and tools can skip auditing.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin, audit.CategoryLink:
		setting = l.config.Admin
	default:
		setting = "all"
	}
	if setting == "off" {
		return
	}
	if event.ActorID == nil {
		event.ActorID = ActorFrom(ctx)
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}
	if setting == "all" || setting == "db" {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Authentication Events ---

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, authMethod, email string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &userID,
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"auth_method": authMethod,
			"email":       email,
		},
	})
}

// LoginFailedUserNotFound logs a login attempt for an unknown email.
func (l *Logger) LoginFailedUserNotFound(ctx context.Context, r *http.Request, attemptedEmail string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedUserNotFound,
		IP:            clientIP(r),
		UserAgent:     r.UserAgent(),
		FailureReason: "user not found",
		Details:       map[string]string{"attempted_email": attemptedEmail},
	})
}

// LoginFailedWrongPassword logs a failed password check.
func (l *Logger) LoginFailedWrongPassword(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedWrongPassword,
		UserID:        &userID,
		IP:            clientIP(r),
		UserAgent:     r.UserAgent(),
		FailureReason: "wrong password",
		Details:       map[string]string{"email": email},
	})
}

// LoginFailedUserDisabled logs a login by an inactive account.
func (l *Logger) LoginFailedUserDisabled(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedUserDisabled,
		UserID:        &userID,
		IP:            clientIP(r),
		UserAgent:     r.UserAgent(),
		FailureReason: "user disabled",
		Details:       map[string]string{"email": email},
	})
}

// Logout logs a logout. Malformed user IDs are recorded without a user.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userIDHex string) {
	ev := audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLogout,
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	}
	if id, err := primitive.ObjectIDFromHex(userIDHex); err == nil {
		ev.UserID = &id
	}
	l.Log(ctx, ev)
}

// --- Record Events ---

// EntityCreated logs creation of a record of the given type.
func (l *Logger) EntityCreated(ctx context.Context, entityType string, id primitive.ObjectID) {
	l.entity(ctx, audit.EventEntityCreated, entityType, id, nil)
}

// EntityUpdated logs an update, listing the changed fields.
func (l *Logger) EntityUpdated(ctx context.Context, entityType string, id primitive.ObjectID, fields []string) {
	var details map[string]string
	if len(fields) > 0 {
		details = map[string]string{"fields": strings.Join(fields, ",")}
	}
	l.entity(ctx, audit.EventEntityUpdated, entityType, id, details)
}

// EntityDeleted logs a deletion.
func (l *Logger) EntityDeleted(ctx context.Context, entityType string, id primitive.ObjectID) {
	l.entity(ctx, audit.EventEntityDeleted, entityType, id, nil)
}

// CVUploaded logs a stored instructor CV.
func (l *Logger) CVUploaded(ctx context.Context, instructorID primitive.ObjectID, path string) {
	l.entity(ctx, audit.EventCVUploaded, "instructor", instructorID, map[string]string{"path": path})
}

func (l *Logger) entity(ctx context.Context, eventType, entityType string, id primitive.ObjectID, details map[string]string) {
	l.Log(ctx, audit.Event{
		Category:   audit.CategoryAdmin,
		EventType:  eventType,
		EntityType: entityType,
		EntityID:   &id,
		Success:    true,
		Details:    details,
	})
}

// --- Link Events ---

// LinkOutcome summarises one cohort/program link operation.
type LinkOutcome struct {
	OperationID string
	Operation   string // create_cohort or update_cohort
	CohortID    primitive.ObjectID
	ProgramID   primitive.ObjectID
	Previous    *primitive.ObjectID // prior program on a relink
	Err         error
	Compensated bool // steps were rolled back after Err
	Stuck       bool // a rollback step itself failed
}

// Link logs the outcome of a cohort/program link.
func (l *Logger) Link(ctx context.Context, o LinkOutcome) {
	ev := audit.Event{
		Category:    audit.CategoryLink,
		EventType:   audit.EventCohortLinked,
		EntityType:  "cohort",
		EntityID:    &o.CohortID,
		OperationID: o.OperationID,
		Success:     o.Err == nil,
		Details: map[string]string{
			"operation":  o.Operation,
			"program_id": o.ProgramID.Hex(),
		},
	}
	if o.Previous != nil {
		ev.EventType = audit.EventCohortRelinked
		ev.Details["previous_program_id"] = o.Previous.Hex()
	}
	if o.Err != nil {
		ev.FailureReason = o.Err.Error()
		switch {
		case o.Stuck:
			ev.EventType = audit.EventLinkCompensateFail
		case o.Compensated:
			ev.EventType = audit.EventLinkCompensated
		}
	}
	l.Log(ctx, ev)
}
