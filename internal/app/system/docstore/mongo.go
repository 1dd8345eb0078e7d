package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo is a Gateway backed by a MongoDB database.
type Mongo struct {
	db *mongo.Database
}

// NewMongo wraps db as a Gateway.
func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{db: db}
}

// Database exposes the underlying database for schema setup and health checks.
func (m *Mongo) Database() *mongo.Database { return m.db }

func (m *Mongo) GetByID(ctx context.Context, coll string, id primitive.ObjectID, out any) error {
	err := m.db.Collection(coll).FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func (m *Mongo) GetAll(ctx context.Context, coll string, out any) error {
	return m.Query(ctx, coll, Query{}, out)
}

func (m *Mongo) Query(ctx context.Context, coll string, q Query, out any) error {
	opts := options.Find()
	if len(q.Sort) > 0 {
		sort := bson.D{}
		for _, k := range q.Sort {
			dir := 1
			if k.Desc {
				dir = -1
			}
			sort = append(sort, bson.E{Key: k.Field, Value: dir})
		}
		// _id breaks ties in the direction of the leading key, so newest-first
		// queries stay newest-first within one timestamp.
		sort = append(sort, bson.E{Key: "_id", Value: tiebreakDir(q.Sort)})
		opts.SetSort(sort)
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	cur, err := m.db.Collection(coll).Find(ctx, mongoFilter(q.Filter), opts)
	if err != nil {
		return err
	}
	defer cur.Close(ctx)
	return cur.All(ctx, out)
}

func tiebreakDir(keys []SortKey) int {
	if len(keys) > 0 && keys[0].Desc {
		return -1
	}
	return 1
}

func (m *Mongo) Count(ctx context.Context, coll string, f Filter) (int64, error) {
	return m.db.Collection(coll).CountDocuments(ctx, mongoFilter(f))
}

func (m *Mongo) Create(ctx context.Context, coll string, doc any) (Meta, error) {
	d, err := toDoc(doc)
	if err != nil {
		return Meta{}, fmt.Errorf("encode %s document: %w", coll, err)
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	meta := Meta{ID: primitive.NewObjectID(), CreatedAt: now, UpdatedAt: now}
	d["_id"] = meta.ID
	d["created_at"] = now
	d["updated_at"] = now

	if _, err := m.db.Collection(coll).InsertOne(ctx, d); err != nil {
		if wafflemongo.IsDup(err) {
			return Meta{}, fmt.Errorf("%s: %w", coll, ErrDuplicate)
		}
		return Meta{}, err
	}
	return meta, nil
}

func (m *Mongo) Update(ctx context.Context, coll string, id primitive.ObjectID, p Patch) error {
	return m.UpdateWhere(ctx, coll, id, nil, p)
}

func (m *Mongo) UpdateWhere(ctx context.Context, coll string, id primitive.ObjectID, cond Filter, p Patch) error {
	filter := mongoFilter(cond)
	filter["_id"] = id

	res, err := m.db.Collection(coll).UpdateOne(ctx, filter, mongoUpdate(p))
	if err != nil {
		if wafflemongo.IsDup(err) {
			return fmt.Errorf("%s: %w", coll, ErrDuplicate)
		}
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}
	if len(cond) == 0 {
		return ErrNotFound
	}
	// Distinguish a missing document from a failed condition.
	n, err := m.db.Collection(coll).CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrNoMatch
}

func (m *Mongo) Delete(ctx context.Context, coll string, id primitive.ObjectID) error {
	res, err := m.db.Collection(coll).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// WithTransaction runs fn in a multi-document transaction. On a standalone
// server the first write inside fn fails; callers detect that with
// txn.IsNotSupported and fall back.
func (m *Mongo) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := m.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func mongoFilter(f Filter) bson.M {
	out := bson.M{}
	for _, c := range f {
		switch c.Op {
		case OpEq:
			out[c.Field] = c.Value
		case OpIn:
			vals := make(bson.A, 0, len(c.Values))
			vals = append(vals, c.Values...)
			out[c.Field] = bson.M{"$in": vals}
		case OpExists:
			out[c.Field] = bson.M{"$exists": true, "$ne": nil}
		}
	}
	return out
}

func mongoUpdate(p Patch) bson.M {
	set := bson.M{}
	for k, v := range p.Set {
		set[k] = v
	}
	set["updated_at"] = time.Now().UTC().Truncate(time.Millisecond)

	upd := bson.M{"$set": set}
	if len(p.Unset) > 0 {
		unset := bson.M{}
		for _, f := range p.Unset {
			unset[f] = ""
		}
		upd["$unset"] = unset
	}
	return upd
}
