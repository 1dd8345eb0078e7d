package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/dalemusser/programhub/internal/app/store/users"
	"github.com/dalemusser/programhub/internal/app/system/docstore"
	"github.com/dalemusser/programhub/internal/domain/models"
	"github.com/dalemusser/programhub/internal/testutil"
)

func newStore() *userstore.Store {
	m := docstore.NewMemory()
	m.EnsureUnique(userstore.Collection, "email_ci")
	return userstore.New(m)
}

func TestCreate_HashesPassword(t *testing.T) {
	store := newStore()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, userstore.NewUser{
		Email: "Ada@Example.com", DisplayName: "Ada", Role: "Coordinator", Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if u.PasswordHash == "" || u.PasswordHash == "s3cret-pass" {
		t.Errorf("expected bcrypt hash, got %q", u.PasswordHash)
	}
	if u.Role != models.RoleCoordinator || u.Status != models.StatusActive {
		t.Errorf("unexpected role/status: %q/%q", u.Role, u.Status)
	}
	if !userstore.CheckPassword(u, "s3cret-pass") {
		t.Error("expected password to match")
	}
	if userstore.CheckPassword(u, "wrong") {
		t.Error("expected wrong password to fail")
	}
}

func TestCreate_RejectsBadRoleAndDuplicateEmail(t *testing.T) {
	store := newStore()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, userstore.NewUser{Email: "x@example.com", Role: "superadmin"}); err == nil {
		t.Error("expected error for unknown role")
	}
	if _, err := store.Create(ctx, userstore.NewUser{Email: "dup@example.com", Role: "viewer"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	_, err := store.Create(ctx, userstore.NewUser{Email: "DUP@example.com", Role: "viewer"})
	if !errors.Is(err, userstore.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestGetByEmail_CaseInsensitive(t *testing.T) {
	store := newStore()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, _ := store.Create(ctx, userstore.NewUser{Email: "Grace@Example.com", Role: "admin"})

	got, err := store.GetByEmail(ctx, "  grace@example.COM ")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("got %v, want %v", got.ID, created.ID)
	}
	if _, err := store.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCheckPassword_NoHash(t *testing.T) {
	if userstore.CheckPassword(models.User{}, "") {
		t.Error("accounts without a hash must never match")
	}
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	store := newStore()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.EnsureAdmin(ctx, "root@example.com", "bootstrap-pass")
	if err != nil || !created {
		t.Fatalf("first EnsureAdmin = %v, %v", created, err)
	}
	created, err = store.EnsureAdmin(ctx, "ROOT@example.com", "other")
	if err != nil || created {
		t.Errorf("second EnsureAdmin = %v, %v; want false, nil", created, err)
	}

	u, _ := store.GetByEmail(ctx, "root@example.com")
	if u.Role != models.RoleAdmin {
		t.Errorf("Role = %q", u.Role)
	}
	if !userstore.CheckPassword(u, "bootstrap-pass") {
		t.Error("expected original password to remain")
	}
}

func TestFetcher(t *testing.T) {
	store := newStore()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, _ := store.Create(ctx, userstore.NewUser{Email: "v@example.com", DisplayName: "Vee", Role: "viewer"})
	f := userstore.NewFetcher(store)

	su, err := f.FetchUser(ctx, u.ID.Hex())
	if err != nil || su == nil {
		t.Fatalf("FetchUser = %v, %v", su, err)
	}
	if su.Name != "Vee" || su.Role != "viewer" {
		t.Errorf("unexpected session user: %+v", su)
	}

	inactive := models.StatusInactive
	if err := store.Update(ctx, u.ID, userstore.Patch{Status: &inactive}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if su, err := f.FetchUser(ctx, u.ID.Hex()); err != nil || su != nil {
		t.Errorf("inactive user: FetchUser = %v, %v; want nil, nil", su, err)
	}
	if su, err := f.FetchUser(ctx, "bogus"); err != nil || su != nil {
		t.Errorf("malformed id: FetchUser = %v, %v; want nil, nil", su, err)
	}
}

func TestCountActiveAdmins(t *testing.T) {
	store := newStore()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a1, _ := store.Create(ctx, userstore.NewUser{Email: "a1@example.com", Role: models.RoleAdmin})
	if _, err := store.Create(ctx, userstore.NewUser{Email: "a2@example.com", Role: models.RoleAdmin}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, userstore.NewUser{Email: "c@example.com", Role: models.RoleCoordinator}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	inactive := models.StatusInactive
	if err := store.Update(ctx, a1.ID, userstore.Patch{Status: &inactive}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	n, err := store.CountActiveAdmins(ctx)
	if err != nil || n != 1 {
		t.Errorf("CountActiveAdmins = %d, %v; want 1", n, err)
	}
}
