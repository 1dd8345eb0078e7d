// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/programhub/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates the application's collections and attaches JSON-Schema
// validators. Servers that reject collMod validators (some DocumentDB
// versions) are logged and skipped.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	for _, c := range Collections() {
		if err := ensureCollection(ctx, db, c.Name); err != nil {
			problems = append(problems, c.Name+": "+err.Error())
			continue
		}
		if c.Schema == nil {
			continue
		}
		if err := setValidator(ctx, db, c.Name, c.Schema); err != nil {
			if isUnsupported(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", c.Name))
				continue
			}
			problems = append(problems, c.Name+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// Collection pairs a collection name with its validator, if any.
type Collection struct {
	Name   string
	Schema bson.M
}

// Collections lists every collection the application writes.
func Collections() []Collection {
	return []Collection{
		{"programs", programsSchema()},
		{"cohorts", cohortsSchema()},
		{"modules", modulesSchema()},
		{"students", studentsSchema()},
		{"subjects", subjectsSchema()},
		{"instructors", instructorsSchema()},
		{"users", usersSchema()},
		{"audit_events", nil},
	}
}

/* ---------------------- collection helpers ---------------------- */

func ensureCollection(ctx context.Context, db *mongo.Database, name string) error {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err == nil && len(names) > 0 {
		zap.L().Info("collection exists", zap.String("collection", name))
		return nil
	}
	if err := db.CreateCollection(ctx, name); err != nil {
		if isNamespaceExists(err) {
			return nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return nil
}

func setValidator(ctx context.Context, db *mongo.Database, name string, schema bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: schema},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

func commandMatches(err error, codes []int32, phrases ...string) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		for _, c := range codes {
			if ce.Code == c {
				return true
			}
		}
	}
	s := strings.ToLower(err.Error())
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func isNamespaceExists(err error) bool {
	return commandMatches(err, []int32{48}, "already exists", "namespace exists")
}

// isUnsupported matches "no such command" (59) and "not implemented" (115).
func isUnsupported(err error) bool {
	return commandMatches(err, []int32{59, 115}, "no such command", "not implemented", "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

func enum(values []string) bson.A {
	out := bson.A{}
	for _, v := range values {
		out = append(out, v)
	}
	return out
}

func object(required bson.A, props bson.M) bson.M {
	return bson.M{"$jsonSchema": bson.M{
		"bsonType":   "object",
		"required":   required,
		"properties": props,
	}}
}

func programsSchema() bson.M {
	return object(bson.A{"name", "name_ci", "status"}, bson.M{
		"name":            nonBlank,
		"name_ci":         nonBlank,
		"status":          bson.M{"enum": enum(models.ProgramStatuses)},
		"duration_months": bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
		"cohort_id":       bson.M{"bsonType": "objectId"},
	})
}

func cohortsSchema() bson.M {
	return object(bson.A{"name", "program_id", "status"}, bson.M{
		"name":       nonBlank,
		"program_id": bson.M{"bsonType": "objectId"},
		"status":     bson.M{"enum": enum(models.EntityStatuses)},
	})
}

func modulesSchema() bson.M {
	return object(bson.A{"program_id", "month_number"}, bson.M{
		"program_id":    bson.M{"bsonType": "objectId"},
		"subject_id":    bson.M{"bsonType": "objectId"},
		"instructor_id": bson.M{"bsonType": "objectId"},
		"month_number":  bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 1},
		"hours":         bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
	})
}

func studentsSchema() bson.M {
	return object(bson.A{"cohort_id", "full_name", "status"}, bson.M{
		"cohort_id": bson.M{"bsonType": "objectId"},
		"full_name": nonBlank,
		"status":    bson.M{"enum": enum(models.EntityStatuses)},
	})
}

func subjectsSchema() bson.M {
	return object(bson.A{"name", "status"}, bson.M{
		"name":          nonBlank,
		"status":        bson.M{"enum": enum(models.EntityStatuses)},
		"default_hours": bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
	})
}

func instructorsSchema() bson.M {
	return object(bson.A{"full_name", "status", "technologies"}, bson.M{
		"full_name":    nonBlank,
		"status":       bson.M{"enum": enum(models.EntityStatuses)},
		"technologies": bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
	})
}

func usersSchema() bson.M {
	return object(bson.A{"email", "email_ci", "role", "status"}, bson.M{
		"email":    nonBlank,
		"email_ci": nonBlank,
		"role":     bson.M{"enum": bson.A{models.RoleAdmin, models.RoleCoordinator, models.RoleViewer}},
		"status":   bson.M{"enum": bson.A{models.StatusActive, models.StatusInactive}},
	})
}
