// internal/app/features/userinfo/handler.go
package userinfo

import (
	"net/http"

	"github.com/dalemusser/programhub/internal/app/system/auth"
	"github.com/dalemusser/programhub/internal/app/system/respond"
)

// Handler reports who the current session belongs to.
type Handler struct{}

// NewHandler creates a new userinfo handler.
func NewHandler() *Handler {
	return &Handler{}
}

type meResponse struct {
	IsAuthenticated bool              `json:"isAuthenticated"`
	User            *auth.SessionUser `json:"user"`
}

// ServeUserInfo handles GET /api/me. Anonymous callers get 200 with
// isAuthenticated false so clients can check sign-in state without tripping a 401.
func (h *Handler) ServeUserInfo(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		respond.OK(w, meResponse{})
		return
	}
	respond.OK(w, meResponse{IsAuthenticated: true, User: user})
}
