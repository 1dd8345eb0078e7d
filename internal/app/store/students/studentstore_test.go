package studentstore_test

import (
	"errors"
	"testing"

	studentstore "github.com/dalemusser/programhub/internal/app/store/students"
	"github.com/dalemusser/programhub/internal/app/system/docstore"
	"github.com/dalemusser/programhub/internal/domain/models"
	"github.com/dalemusser/programhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRoster(t *testing.T) {
	store := studentstore.New(docstore.NewMemory())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cohort := primitive.NewObjectID()
	for _, name := range []string{"Zoe", "amir"} {
		if _, err := store.Create(ctx, models.Student{CohortID: cohort, FullName: name, Email: " " + name + "@Example.com"}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	if _, err := store.Create(ctx, models.Student{CohortID: primitive.NewObjectID(), FullName: "Other"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	roster, err := store.ListByCohort(ctx, cohort)
	if err != nil {
		t.Fatalf("ListByCohort failed: %v", err)
	}
	if len(roster) != 2 {
		t.Fatalf("expected 2 students, got %d", len(roster))
	}
	if roster[0].FullName != "amir" || roster[1].FullName != "Zoe" {
		t.Errorf("unexpected roster order: %s, %s", roster[0].FullName, roster[1].FullName)
	}
	if roster[0].Email != "amir@example.com" {
		t.Errorf("Email = %q, want normalized", roster[0].Email)
	}
	if roster[0].Status != models.StatusActive {
		t.Errorf("Status = %q, want active", roster[0].Status)
	}

	n, err := store.Count(ctx)
	if err != nil || n != 3 {
		t.Errorf("Count = %d, %v", n, err)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	store := studentstore.New(docstore.NewMemory())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	st, _ := store.Create(ctx, models.Student{CohortID: primitive.NewObjectID(), FullName: "Ann"})
	moved := primitive.NewObjectID()
	if err := store.Update(ctx, st.ID, studentstore.Patch{CohortID: &moved}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, _ := store.GetByID(ctx, st.ID)
	if got.CohortID != moved {
		t.Errorf("CohortID = %v, want %v", got.CohortID, moved)
	}
	if err := store.Delete(ctx, st.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.GetByID(ctx, st.ID); !errors.Is(err, studentstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
