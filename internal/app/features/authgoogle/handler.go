// internal/app/features/authgoogle/handler.go
package authgoogle

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	userstore "github.com/dalemusser/programhub/internal/app/store/users"
	"github.com/dalemusser/programhub/internal/app/system/auditlog"
	"github.com/dalemusser/programhub/internal/app/system/auth"
	"github.com/dalemusser/programhub/internal/app/system/timeouts"
	"github.com/dalemusser/programhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	stateKey  = "oauth_state"
	returnKey = "oauth_return"

	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// Handler signs existing users in with Google. It never creates accounts:
// an admin must have added the user's email first.
type Handler struct {
	Users      *userstore.Store
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	Log        *zap.Logger

	ClientID     string
	ClientSecret string
	RedirectURL  string // e.g. "https://programhub.example.com/api/auth/google/callback"

	// Endpoint and UserInfoURL default to Google's; tests point them at a fake.
	Endpoint    oauth2.Endpoint
	UserInfoURL string
}

// NewHandler creates a new Google OAuth handler.
func NewHandler(
	users *userstore.Store,
	sessionMgr *auth.SessionManager,
	audit *auditlog.Logger,
	clientID, clientSecret, baseURL string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Users:        users,
		SessionMgr:   sessionMgr,
		AuditLog:     audit,
		Log:          logger,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  strings.TrimRight(baseURL, "/") + "/api/auth/google/callback",
		Endpoint:     google.Endpoint,
		UserInfoURL:  googleUserInfoURL,
	}
}

func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: h.Endpoint,
	}
}

// IsConfigured returns true if Google OAuth is configured.
func (h *Handler) IsConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /api/auth/google                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeLogin stores a random state in the session and redirects to Google's
// consent screen.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.Log.Warn("Google OAuth not configured")
		redirectWithError(w, r, "google_not_configured")
		return
	}

	state, err := generateState()
	if err != nil {
		h.Log.Error("failed to generate OAuth state", zap.Error(err))
		redirectWithError(w, r, "internal")
		return
	}

	sess, err := h.SessionMgr.Session(r)
	if err != nil {
		h.Log.Warn("session cookie invalid, using fresh session", zap.Error(err))
	}
	sess.Values[stateKey] = state
	sess.Values[returnKey] = query.Get(r, "return")
	if err := sess.Save(r, w); err != nil {
		h.Log.Error("failed to save OAuth state", zap.Error(err))
		redirectWithError(w, r, "internal")
		return
	}

	http.Redirect(w, r, h.oauth2Config().AuthCodeURL(state), http.StatusTemporaryRedirect)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /api/auth/google/callback                                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("Google OAuth error",
			zap.String("error", errParam),
			zap.String("description", r.URL.Query().Get("error_description")))
		redirectWithError(w, r, "google_denied")
		return
	}

	sess, err := h.SessionMgr.Session(r)
	if err != nil {
		h.Log.Warn("session cookie invalid during OAuth callback", zap.Error(err))
	}
	want, _ := sess.Values[stateKey].(string)
	returnURL, _ := sess.Values[returnKey].(string)
	delete(sess.Values, stateKey)
	delete(sess.Values, returnKey)

	state := r.URL.Query().Get("state")
	if want == "" || state == "" || state != want {
		h.Log.Warn("invalid or missing OAuth state")
		redirectWithError(w, r, "invalid_state")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		redirectWithError(w, r, "invalid_code")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "google callback")
	defer cancel()

	token, err := h.oauth2Config().Exchange(ctx, code)
	if err != nil {
		h.Log.Error("failed to exchange OAuth code", zap.Error(err))
		redirectWithError(w, r, "token_exchange")
		return
	}

	gu, err := h.fetchUserInfo(ctx, token)
	if err != nil {
		h.Log.Error("failed to fetch Google user info", zap.Error(err))
		redirectWithError(w, r, "user_info")
		return
	}
	if !gu.EmailVerified || gu.Email == "" {
		h.Log.Info("Google OAuth: unverified email", zap.String("google_id", gu.ID))
		redirectWithError(w, r, "email_unverified")
		return
	}

	u, err := h.Users.GetByEmail(ctx, gu.Email)
	switch {
	case errors.Is(err, userstore.ErrNotFound):
		h.Log.Info("Google OAuth: user not found", zap.String("email", gu.Email))
		h.AuditLog.LoginFailedUserNotFound(ctx, r, gu.Email)
		redirectWithError(w, r, "no_account")
		return
	case err != nil:
		h.Log.Error("failed to look up user", zap.Error(err))
		redirectWithError(w, r, "internal")
		return
	}
	if u.Status != models.StatusActive {
		h.AuditLog.LoginFailedUserDisabled(ctx, r, u.ID, gu.Email)
		redirectWithError(w, r, "account_disabled")
		return
	}

	su := userstore.SessionUser(u)
	if err := h.SessionMgr.Login(w, r, su); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("user_id", su.ID))
		redirectWithError(w, r, "session")
		return
	}
	h.AuditLog.LoginSuccess(ctx, r, u.ID, "google", u.Email)
	h.Log.Info("user signed in via Google", zap.String("user_id", su.ID))

	http.Redirect(w, r, urlutil.SafeReturn(returnURL, "", "/"), http.StatusSeeOther)
}

// googleUserInfo is the subset of Google's userinfo response we use.
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
}

func (h *Handler) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.UserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	return &info, nil
}

// redirectWithError sends the browser back to the app root with a code the
// front end can show.
func redirectWithError(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, "/?login_error="+code, http.StatusSeeOther)
}

// generateState creates a cryptographically secure random state string.
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
