// internal/app/features/login/handler.go
package login

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	uierrors "github.com/dalemusser/programhub/internal/app/features/errors"
	userstore "github.com/dalemusser/programhub/internal/app/store/users"
	"github.com/dalemusser/programhub/internal/app/system/auditlog"
	"github.com/dalemusser/programhub/internal/app/system/auth"
	"github.com/dalemusser/programhub/internal/app/system/inputval"
	"github.com/dalemusser/programhub/internal/app/system/ratelimit"
	"github.com/dalemusser/programhub/internal/app/system/respond"
	"github.com/dalemusser/programhub/internal/app/system/timeouts"
	"github.com/dalemusser/programhub/internal/domain/models"
	"go.uber.org/zap"
)

type Handler struct {
	Users      *userstore.Store
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Log        *zap.Logger

	// Limiter throttles attempts. Nil disables throttling.
	Limiter *ratelimit.LoginLimiter
}

func NewHandler(users *userstore.Store, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      users,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		AuditLog:   auditLog,
		Log:        logger,
	}
}

type loginInput struct {
	Email    string `json:"email" validate:"required,notblank,max=254" label:"Email"`
	Password string `json:"password" validate:"required,max=200" label:"Password"`
}

// badCredentials is shared by the unknown-email and wrong-password paths so
// the response does not reveal which accounts exist.
const badCredentials = "email or password is incorrect"

// HandleLoginPost handles POST /api/login. On success the session cookie is
// set and the signed-in user is returned.
func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := respond.Decode(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, "login", err)
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		respond.Invalid(w, res.Fields())
		return
	}
	email := strings.TrimSpace(in.Email)

	if ok, retry := h.Limiter.Check(r, email); !ok {
		h.Log.Warn("login throttled", zap.String("ip", ratelimit.ClientIP(r)), zap.Duration("retry", retry))
		w.Header().Set("Retry-After", strconv.Itoa(int(retry.Seconds())+1))
		respond.Error(w, http.StatusTooManyRequests, "rate_limited", "too many sign-in attempts; try again later")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "login")
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, userstore.ErrNotFound):
		h.AuditLog.LoginFailedUserNotFound(ctx, r, email)
		respond.Error(w, http.StatusUnauthorized, "invalid_credentials", badCredentials)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "login: find user", err)
		return
	}

	if !userstore.CheckPassword(u, in.Password) {
		h.AuditLog.LoginFailedWrongPassword(ctx, r, u.ID, email)
		respond.Error(w, http.StatusUnauthorized, "invalid_credentials", badCredentials)
		return
	}
	if u.Status != models.StatusActive {
		h.AuditLog.LoginFailedUserDisabled(ctx, r, u.ID, email)
		respond.Error(w, http.StatusForbidden, "account_disabled",
			"your account is disabled; contact an administrator")
		return
	}

	su := userstore.SessionUser(u)
	if err := h.SessionMgr.Login(w, r, su); err != nil {
		h.ErrLog.LogServerError(w, r, "login: save session", err)
		return
	}
	h.Limiter.Succeeded(email)
	h.AuditLog.LoginSuccess(ctx, r, u.ID, "password", u.Email)
	h.Log.Info("user signed in", zap.String("user_id", su.ID), zap.String("role", su.Role))
	respond.OK(w, su)
}
