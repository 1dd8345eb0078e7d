package docstore

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory is an in-process Gateway. Every call is serialized by one mutex, so
// UpdateWhere is an atomic compare-and-set just as a single-document update is
// on a real server. Unique constraints registered with EnsureUnique behave like
// partial unique indexes: only documents where the field is present count.
type Memory struct {
	mu     sync.Mutex
	colls  map[string]map[primitive.ObjectID]bson.M
	unique map[string][]string
	now    func() time.Time
}

// NewMemory returns an empty in-memory gateway.
func NewMemory() *Memory {
	return &Memory{
		colls:  make(map[string]map[primitive.ObjectID]bson.M),
		unique: make(map[string][]string),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// EnsureUnique registers a partial unique constraint on coll.field.
func (m *Memory) EnsureUnique(coll, field string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unique[coll] = append(m.unique[coll], field)
}

func (m *Memory) coll(name string) map[primitive.ObjectID]bson.M {
	c, ok := m.colls[name]
	if !ok {
		c = make(map[primitive.ObjectID]bson.M)
		m.colls[name] = c
	}
	return c
}

func (m *Memory) GetByID(ctx context.Context, coll string, id primitive.ObjectID, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.coll(coll)[id]
	if !ok {
		return ErrNotFound
	}
	return decodeOne(d, out)
}

func (m *Memory) GetAll(ctx context.Context, coll string, out any) error {
	return m.Query(ctx, coll, Query{}, out)
}

func (m *Memory) Query(ctx context.Context, coll string, q Query, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	docs := make([]bson.M, 0)
	for _, d := range m.coll(coll) {
		if matches(d, q.Filter) {
			docs = append(docs, d)
		}
	}
	sortDocs(docs, q.Sort)
	if q.Limit > 0 && int64(len(docs)) > q.Limit {
		docs = docs[:q.Limit]
	}
	return decodeAll(docs, out)
}

func (m *Memory) Count(ctx context.Context, coll string, f Filter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for _, d := range m.coll(coll) {
		if matches(d, f) {
			n++
		}
	}
	return n, nil
}

func (m *Memory) Create(ctx context.Context, coll string, doc any) (Meta, error) {
	if err := ctx.Err(); err != nil {
		return Meta{}, err
	}
	d, err := toDoc(doc)
	if err != nil {
		return Meta{}, fmt.Errorf("encode %s document: %w", coll, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().Truncate(time.Millisecond)
	meta := Meta{ID: primitive.NewObjectID(), CreatedAt: now, UpdatedAt: now}
	d["_id"] = meta.ID
	d["created_at"] = primitive.NewDateTimeFromTime(now)
	d["updated_at"] = primitive.NewDateTimeFromTime(now)

	if err := m.checkUnique(coll, meta.ID, d); err != nil {
		return Meta{}, err
	}
	m.coll(coll)[meta.ID] = d
	return meta, nil
}

func (m *Memory) Update(ctx context.Context, coll string, id primitive.ObjectID, p Patch) error {
	return m.UpdateWhere(ctx, coll, id, nil, p)
}

func (m *Memory) UpdateWhere(ctx context.Context, coll string, id primitive.ObjectID, cond Filter, p Patch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	set := bson.M{}
	if len(p.Set) > 0 {
		var err error
		if set, err = toDoc(p.Set); err != nil {
			return fmt.Errorf("encode %s patch: %w", coll, err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.coll(coll)[id]
	if !ok {
		return ErrNotFound
	}
	if !matches(cur, cond) {
		return ErrNoMatch
	}

	next := make(bson.M, len(cur)+len(set))
	for k, v := range cur {
		next[k] = v
	}
	for k, v := range set {
		next[k] = v
	}
	for _, f := range p.Unset {
		delete(next, f)
	}
	next["updated_at"] = primitive.NewDateTimeFromTime(m.now().Truncate(time.Millisecond))

	if err := m.checkUnique(coll, id, next); err != nil {
		return err
	}
	m.coll(coll)[id] = next
	return nil
}

func (m *Memory) Delete(ctx context.Context, coll string, id primitive.ObjectID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.coll(coll)
	if _, ok := c[id]; !ok {
		return ErrNotFound
	}
	delete(c, id)
	return nil
}

// checkUnique must be called with m.mu held.
func (m *Memory) checkUnique(coll string, id primitive.ObjectID, d bson.M) error {
	for _, field := range m.unique[coll] {
		v, ok := d[field]
		if !ok || v == nil {
			continue
		}
		for otherID, other := range m.coll(coll) {
			if otherID == id {
				continue
			}
			if ov, ok := other[field]; ok && equalValues(ov, v) {
				return fmt.Errorf("%s.%s: %w", coll, field, ErrDuplicate)
			}
		}
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* matching, ordering, decoding                                               */
/* -------------------------------------------------------------------------- */

func matches(d bson.M, f Filter) bool {
	for _, c := range f {
		have, present := d[c.Field]
		switch c.Op {
		case OpEq:
			if !condEqual(have, present, c.Value) {
				return false
			}
		case OpIn:
			hit := false
			for _, want := range c.Values {
				if condEqual(have, present, want) {
					hit = true
					break
				}
			}
			if !hit {
				return false
			}
		case OpExists:
			if !present || have == nil {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func condEqual(have any, present bool, want any) bool {
	if isNil(want) {
		return !present || have == nil
	}
	if !present {
		return false
	}
	norm, err := normalize(want)
	if err != nil {
		return false
	}
	return equalValues(have, norm)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

// normalize encodes v the way a stored document field would be encoded.
func normalize(v any) (any, error) {
	d, err := toDoc(bson.M{"v": v})
	if err != nil {
		return nil, err
	}
	return d["v"], nil
}

func equalValues(a, b any) bool {
	if c, ok := compareValues(a, b); ok {
		return c == 0
	}
	return reflect.DeepEqual(a, b)
}

// compareValues orders two decoded bson values of the same family.
func compareValues(a, b any) (int, bool) {
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			switch {
			case af < bf:
				return -1, true
			case af > bf:
				return 1, true
			}
			return 0, true
		}
		return 0, false
	}
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv), true
		}
	case primitive.ObjectID:
		if bv, ok := b.(primitive.ObjectID); ok {
			return strings.Compare(av.Hex(), bv.Hex()), true
		}
	case primitive.DateTime:
		if bv, ok := b.(primitive.DateTime); ok {
			switch {
			case av < bv:
				return -1, true
			case av > bv:
				return 1, true
			}
			return 0, true
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0, true
			case !av:
				return -1, true
			}
			return 1, true
		}
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func sortDocs(docs []bson.M, keys []SortKey) {
	sort.SliceStable(docs, func(i, j int) bool {
		for _, k := range keys {
			c := compareField(docs[i], docs[j], k.Field)
			if c == 0 {
				continue
			}
			if k.Desc {
				return c > 0
			}
			return c < 0
		}
		c := compareField(docs[i], docs[j], "_id")
		if tiebreakDir(keys) < 0 {
			return c > 0
		}
		return c < 0
	})
}

// compareField orders missing values before present ones.
func compareField(a, b bson.M, field string) int {
	av, aok := a[field]
	bv, bok := b[field]
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return -1
	case !bok:
		return 1
	}
	c, _ := compareValues(av, bv)
	return c
}

func decodeOne(d bson.M, out any) error {
	raw, err := bson.Marshal(d)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}

func decodeAll(docs []bson.M, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Slice {
		return errors.New("docstore: out must be a pointer to a slice")
	}
	sv := rv.Elem()
	res := reflect.MakeSlice(sv.Type(), 0, len(docs))
	for _, d := range docs {
		ep := reflect.New(sv.Type().Elem())
		if err := decodeOne(d, ep.Interface()); err != nil {
			return err
		}
		res = reflect.Append(res, ep.Elem())
	}
	sv.Set(res)
	return nil
}
