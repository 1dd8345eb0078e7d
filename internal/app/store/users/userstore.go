package userstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dalemusser/programhub/internal/app/system/docstore"
	"github.com/dalemusser/programhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const Collection = "users"

var (
	ErrNotFound = errors.New("user not found")

	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")

	errBadRole = errors.New(`role must be "admin"|"coordinator"|"viewer"`)
)

type Store struct {
	g docstore.Gateway
}

func New(g docstore.Gateway) *Store {
	return &Store{g: g}
}

// NewUser is the input to Create. An empty Password creates an account that
// can only sign in through Google.
type NewUser struct {
	Email       string
	DisplayName string
	Role        string
	Password    string
}

// Patch is a partial user update.
type Patch struct {
	DisplayName *string
	Role        *string
	Status      *string
	Password    *string
}

func validRole(role string) bool {
	switch role {
	case models.RoleAdmin, models.RoleCoordinator, models.RoleViewer:
		return true
	}
	return false
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	if err := s.g.GetByID(ctx, Collection, id, &u); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByEmail looks up a user by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var out []models.User
	err := s.g.Query(ctx, Collection, docstore.Query{
		Filter: docstore.Filter{docstore.Eq("email_ci", text.Fold(strings.TrimSpace(email)))},
		Limit:  1,
	}, &out)
	if err != nil {
		return models.User{}, err
	}
	if len(out) == 0 {
		return models.User{}, ErrNotFound
	}
	return out[0], nil
}

// List returns all users ordered by email.
func (s *Store) List(ctx context.Context) ([]models.User, error) {
	var out []models.User
	err := s.g.Query(ctx, Collection, docstore.Query{
		Sort: []docstore.SortKey{{Field: "email_ci"}},
	}, &out)
	return out, err
}

// Create inserts a new user, hashing the password with bcrypt.
func (s *Store) Create(ctx context.Context, in NewUser) (models.User, error) {
	role := strings.ToLower(strings.TrimSpace(in.Role))
	if !validRole(role) {
		return models.User{}, errBadRole
	}
	email := strings.TrimSpace(in.Email)
	u := models.User{
		Email:       email,
		EmailCI:     text.Fold(email),
		DisplayName: strings.TrimSpace(in.DisplayName),
		Role:        role,
		Status:      models.StatusActive,
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = string(hash)
	}

	meta, err := s.g.Create(ctx, Collection, u)
	if err != nil {
		if errors.Is(err, docstore.ErrDuplicate) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	u.ID, u.CreatedAt, u.UpdatedAt = meta.ID, meta.CreatedAt, meta.UpdatedAt
	return u, nil
}

// Update applies patch, re-hashing a new password.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, patch Patch) error {
	set := bson.M{}
	if patch.DisplayName != nil {
		set["display_name"] = strings.TrimSpace(*patch.DisplayName)
	}
	if patch.Role != nil {
		role := strings.ToLower(*patch.Role)
		if !validRole(role) {
			return errBadRole
		}
		set["role"] = role
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		set["password_hash"] = string(hash)
	}
	if len(set) == 0 {
		return nil
	}
	err := s.g.Update(ctx, Collection, id, docstore.Patch{Set: set})
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// Delete removes a user.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	err := s.g.Delete(ctx, Collection, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// CountActiveAdmins returns the number of active admins.
func (s *Store) CountActiveAdmins(ctx context.Context) (int64, error) {
	return s.g.Count(ctx, Collection, docstore.Filter{
		docstore.Eq("role", models.RoleAdmin),
		docstore.Eq("status", models.StatusActive),
	})
}

// CheckPassword reports whether password matches u's stored hash. Accounts
// without a hash never match.
func CheckPassword(u models.User, password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// EnsureAdmin creates an active admin with the given email and password
// unless a user with that email already exists. It reports whether a user
// was created.
func (s *Store) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	if _, err := s.GetByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, ErrNotFound) {
		return false, err
	}
	_, err := s.Create(ctx, NewUser{
		Email:       email,
		DisplayName: "Administrator",
		Role:        models.RoleAdmin,
		Password:    password,
	})
	if errors.Is(err, ErrDuplicateEmail) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
