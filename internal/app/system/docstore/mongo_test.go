package docstore_test

import (
	"errors"
	"testing"

	"github.com/dalemusser/programhub/internal/app/system/docstore"
	"github.com/dalemusser/programhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestMongo_ConditionalUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	g := docstore.NewMongo(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	other := primitive.NewObjectID()

	meta, err := g.Create(ctx, "widgets", widget{Name: "alpha"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	err = g.UpdateWhere(ctx, "widgets", meta.ID,
		docstore.Filter{docstore.In("owner_id", nil, owner)},
		docstore.Patch{Set: bson.M{"owner_id": owner}})
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	err = g.UpdateWhere(ctx, "widgets", meta.ID,
		docstore.Filter{docstore.In("owner_id", nil, other)},
		docstore.Patch{Set: bson.M{"owner_id": other}})
	if !errors.Is(err, docstore.ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}

	err = g.UpdateWhere(ctx, "widgets", meta.ID,
		docstore.Filter{docstore.Eq("owner_id", owner)},
		docstore.Patch{Unset: []string{"owner_id"}})
	if err != nil {
		t.Fatalf("release failed: %v", err)
	}

	var got widget
	if err := g.GetByID(ctx, "widgets", meta.ID, &got); err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.OwnerID != nil {
		t.Errorf("expected owner_id removed, got %v", got.OwnerID)
	}
}

func TestMongo_SortTiesFollowDirection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	assertTiesFollowSortDirection(t, docstore.NewMongo(db))
}

func TestMongo_DuplicateOnPartialUniqueIndex(t *testing.T) {
	db := testutil.SetupTestDB(t)
	g := docstore.NewMongo(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := db.Collection("widgets").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner_id", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"owner_id": bson.M{"$exists": true}}),
	})
	if err != nil {
		t.Fatalf("create index failed: %v", err)
	}

	owner := primitive.NewObjectID()
	if _, err := g.Create(ctx, "widgets", widget{Name: "free"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := g.Create(ctx, "widgets", widget{Name: "free2"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := g.Create(ctx, "widgets", widget{Name: "one", OwnerID: &owner}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := g.Create(ctx, "widgets", widget{Name: "two", OwnerID: &owner}); !errors.Is(err, docstore.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestMongo_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	g := docstore.NewMongo(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	var got widget
	if err := g.GetByID(ctx, "widgets", primitive.NewObjectID(), &got); !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := g.Delete(ctx, "widgets", primitive.NewObjectID()); !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound on delete, got %v", err)
	}
}
