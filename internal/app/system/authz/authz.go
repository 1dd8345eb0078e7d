package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/programhub/internal/app/system/auth"
	"github.com/dalemusser/programhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's role (lowercased), name, ObjectID, and a found
// flag. Missing users and malformed IDs both yield "visitor", "", NilObjectID,
// false, so ok=true always means a valid authenticated user.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session: fail closed.
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// ActorID returns the signed-in user's ID, or nil for anonymous requests.
func ActorID(r *http.Request) *primitive.ObjectID {
	_, _, id, ok := UserCtx(r)
	if !ok {
		return nil
	}
	return &id
}

// IsAdmin reports whether the current user is an admin.
func IsAdmin(r *http.Request) bool {
	return HasRole(r, models.RoleAdmin)
}

// CanWrite reports whether the current user may create and update records.
// Deletes and user management stay admin-only.
func CanWrite(r *http.Request) bool {
	return HasAnyRole(r, models.RoleAdmin, models.RoleCoordinator)
}

// CanRead reports whether the current user may read records.
func CanRead(r *http.Request) bool {
	return HasAnyRole(r, models.RoleAdmin, models.RoleCoordinator, models.RoleViewer)
}
