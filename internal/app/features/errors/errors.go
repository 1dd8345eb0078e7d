// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/programhub/internal/app/system/respond"
)

// Handler serves the router-level fallbacks.
// No DB needed; it just writes JSON.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// NotFound answers unknown routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	respond.Error(w, http.StatusNotFound, "not_found", "no route for "+r.Method+" "+r.URL.Path)
}

// MethodNotAllowed answers a known route hit with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respond.Error(w, http.StatusMethodNotAllowed, "method_not_allowed", r.Method+" is not supported here")
}
