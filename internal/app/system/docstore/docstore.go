// Package docstore is the generic document-store gateway every entity store
// goes through: get/list/query/create/update/delete by collection name.
//
// Two gateways implement it. Mongo talks to a real database through the
// official driver; Memory keeps documents in process and is used by tests and
// by local runs without a database. Both encode documents with bson so a
// struct round-trips the same way through either one.
//
// The gateway assigns _id, created_at and updated_at on Create and refreshes
// updated_at on every Update, so callers never stamp those themselves.
package docstore

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned when the addressed document does not exist.
	ErrNotFound = errors.New("docstore: document not found")

	// ErrNoMatch is returned by UpdateWhere when the document exists but the
	// condition did not hold at write time.
	ErrNoMatch = errors.New("docstore: condition not met")

	// ErrDuplicate is returned when a write violates a unique index.
	ErrDuplicate = errors.New("docstore: duplicate key")

	// ErrInvalidID is returned by ParseID for malformed identifiers.
	ErrInvalidID = errors.New("docstore: invalid id")
)

// Meta is what the store assigns on create.
type Meta struct {
	ID        primitive.ObjectID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Op is a predicate operator.
type Op string

const (
	OpEq     Op = "eq"
	OpIn     Op = "in"
	OpExists Op = "exists"
)

// Cond is one predicate on a top-level field.
type Cond struct {
	Field  string
	Op     Op
	Value  any
	Values []any
}

// Eq matches documents whose field equals v. A nil v matches documents where
// the field is missing or null.
func Eq(field string, v any) Cond { return Cond{Field: field, Op: OpEq, Value: v} }

// In matches documents whose field equals any of vs. A nil entry matches a
// missing or null field.
func In(field string, vs ...any) Cond { return Cond{Field: field, Op: OpIn, Values: vs} }

// Exists matches documents where the field is present and not null.
func Exists(field string) Cond { return Cond{Field: field, Op: OpExists} }

// Filter is a conjunction of conditions. The empty filter matches everything.
type Filter []Cond

// SortKey orders query results by one field.
type SortKey struct {
	Field string
	Desc  bool
}

// Query combines a filter with ordering and an optional limit (0 = none).
type Query struct {
	Filter Filter
	Sort   []SortKey
	Limit  int64
}

// Patch is a partial update: fields to set and fields to remove.
type Patch struct {
	Set   bson.M
	Unset []string
}

// IsEmpty reports whether applying the patch would change nothing.
func (p Patch) IsEmpty() bool {
	return len(p.Set) == 0 && len(p.Unset) == 0
}

// Fields lists the touched field names in sorted order.
func (p Patch) Fields() []string {
	out := make([]string, 0, len(p.Set)+len(p.Unset))
	for k := range p.Set {
		out = append(out, k)
	}
	out = append(out, p.Unset...)
	sort.Strings(out)
	return out
}

// Gateway is the uniform document-store surface.
//
// GetByID decodes into out (a pointer to a struct). GetAll and Query decode
// into out (a pointer to a slice). Update and Delete return ErrNotFound when
// no document has the id. UpdateWhere additionally requires cond to hold and
// returns ErrNoMatch when the document exists but cond does not match.
type Gateway interface {
	GetByID(ctx context.Context, coll string, id primitive.ObjectID, out any) error
	GetAll(ctx context.Context, coll string, out any) error
	Query(ctx context.Context, coll string, q Query, out any) error
	Count(ctx context.Context, coll string, f Filter) (int64, error)
	Create(ctx context.Context, coll string, doc any) (Meta, error)
	Update(ctx context.Context, coll string, id primitive.ObjectID, p Patch) error
	UpdateWhere(ctx context.Context, coll string, id primitive.ObjectID, cond Filter, p Patch) error
	Delete(ctx context.Context, coll string, id primitive.ObjectID) error
}

// Transactor is implemented by gateways that can run several writes as one
// atomic multi-document transaction. fn must issue all of its calls with the
// context it is handed.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ParseID parses a hex object id, mapping failures to ErrInvalidID.
func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}

// toDoc converts any bson-marshalable value into a bson.M.
func toDoc(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out bson.M
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
