package userstore

import (
	"context"
	"errors"

	"github.com/dalemusser/programhub/internal/app/system/auth"
	"github.com/dalemusser/programhub/internal/app/system/timeouts"
	"github.com/dalemusser/programhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Fetcher implements auth.UserFetcher to load fresh user data on each request.
type Fetcher struct {
	store *Store
}

// NewFetcher creates a UserFetcher backed by the user store.
func NewFetcher(store *Store) *Fetcher {
	return &Fetcher{store: store}
}

// FetchUser returns nil for missing, malformed or inactive users and an error
// only when the lookup itself failed.
func (f *Fetcher) FetchUser(ctx context.Context, userID string) (*auth.SessionUser, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	u, err := f.store.GetByID(ctx, oid)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if u.Status != models.StatusActive {
		return nil, nil
	}
	return SessionUser(u), nil
}

// SessionUser converts a stored user into the session shape.
func SessionUser(u models.User) *auth.SessionUser {
	name := u.DisplayName
	if name == "" {
		name = u.Email
	}
	return &auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  name,
		Email: u.Email,
		Role:  u.Role,
	}
}
