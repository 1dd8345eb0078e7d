package subjectstore_test

import (
	"errors"
	"testing"

	subjectstore "github.com/dalemusser/programhub/internal/app/store/subjects"
	"github.com/dalemusser/programhub/internal/app/system/docstore"
	"github.com/dalemusser/programhub/internal/domain/models"
	"github.com/dalemusser/programhub/internal/testutil"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCRUD(t *testing.T) {
	store := subjectstore.New(docstore.NewMemory())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	sub, err := store.Create(ctx, models.Subject{Name: "Databases", Code: "DB-101", DefaultHours: 24})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if sub.CodeCI != text.Fold("DB-101") || sub.Status != models.StatusActive {
		t.Errorf("unexpected subject: %+v", sub)
	}

	code := "DB-201"
	hours := 30
	if err := store.Update(ctx, sub.ID, subjectstore.Patch{Code: &code, DefaultHours: &hours}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, err := store.GetByID(ctx, sub.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Code != code || got.CodeCI != text.Fold(code) || got.DefaultHours != hours {
		t.Errorf("unexpected subject after update: %+v", got)
	}

	list, err := store.List(ctx)
	if err != nil || len(list) != 1 {
		t.Errorf("List = %d, %v", len(list), err)
	}

	if err := store.Delete(ctx, sub.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, sub.ID); !errors.Is(err, subjectstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.GetByID(ctx, primitive.NewObjectID()); !errors.Is(err, subjectstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
