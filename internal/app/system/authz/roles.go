package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/programhub/internal/domain/models"
)

// Readers, Writers and Admins are the role sets routes are gated on.
var (
	Readers = []string{models.RoleAdmin, models.RoleCoordinator, models.RoleViewer}
	Writers = []string{models.RoleAdmin, models.RoleCoordinator}
	Admins  = []string{models.RoleAdmin}
)

// HasAnyRole reports whether the current request's user has any of the given roles.
// Returns false if no user is present (i.e., not signed in).
func HasAnyRole(r *http.Request, roles ...string) bool {
	role, _, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	for _, want := range roles {
		if role == strings.ToLower(strings.TrimSpace(want)) {
			return true
		}
	}
	return false
}

// HasRole is a convenience wrapper for a single role.
func HasRole(r *http.Request, role string) bool {
	return HasAnyRole(r, role)
}

// ValidRole reports whether role is one of the known user roles.
func ValidRole(role string) bool {
	switch strings.ToLower(role) {
	case models.RoleAdmin, models.RoleCoordinator, models.RoleViewer:
		return true
	}
	return false
}
