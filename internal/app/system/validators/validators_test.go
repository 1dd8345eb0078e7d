package validators_test

import (
	"testing"

	"github.com/dalemusser/programhub/internal/app/system/validators"
	"github.com/dalemusser/programhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEnsureAll_CreatesCollections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	// Second call should also succeed (idempotent)
	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}
	have := make(map[string]bool)
	for _, n := range names {
		have[n] = true
	}
	for _, c := range validators.Collections() {
		if !have[c.Name] {
			t.Errorf("expected collection %q to exist", c.Name)
		}
	}
}

func TestValidators(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	pid := primitive.NewObjectID()
	tests := []struct {
		name    string
		coll    string
		doc     bson.M
		wantErr bool
	}{
		{"program ok", "programs", bson.M{"name": "P", "name_ci": "p", "status": "active"}, false},
		{"program missing name", "programs", bson.M{"status": "active"}, true},
		{"program bad status", "programs", bson.M{"name": "P", "name_ci": "p", "status": "completed"}, true},
		{"program string cohort", "programs", bson.M{"name": "P", "name_ci": "p", "status": "active", "cohort_id": "abc"}, true},
		{"cohort ok", "cohorts", bson.M{"name": "C", "program_id": pid, "status": "completed"}, false},
		{"cohort without program", "cohorts", bson.M{"name": "C", "status": "active"}, true},
		{"module ok", "modules", bson.M{"program_id": pid, "month_number": 1, "hours": 24}, false},
		{"module month zero", "modules", bson.M{"program_id": pid, "month_number": 0}, true},
		{"student blank name", "students", bson.M{"cohort_id": pid, "full_name": "  ", "status": "active"}, true},
		{"instructor no technologies", "instructors", bson.M{"full_name": "I", "status": "active"}, true},
		{"instructor ok", "instructors", bson.M{"full_name": "I", "status": "active", "technologies": bson.A{}}, false},
		{"user bad role", "users", bson.M{"email": "a@b.co", "email_ci": "a@b.co", "role": "superadmin", "status": "active"}, true},
		{"user ok", "users", bson.M{"email": "a@b.co", "email_ci": "a@b.co", "role": "viewer", "status": "active"}, false},
		{"audit unvalidated", "audit_events", bson.M{"anything": true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.Collection(tt.coll).InsertOne(ctx, tt.doc)
			if (err != nil) != tt.wantErr {
				t.Errorf("InsertOne err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
