package cohortstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/programhub/internal/app/system/docstore"
	"github.com/dalemusser/programhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection is the cohorts collection name.
const Collection = "cohorts"

// ErrNotFound is returned when the cohort does not exist.
var ErrNotFound = errors.New("cohort not found")

type Store struct {
	g docstore.Gateway
}

func New(g docstore.Gateway) *Store {
	return &Store{g: g}
}

// Patch is a partial cohort update. Nil fields are left alone.
type Patch struct {
	Name      *string
	ProgramID *primitive.ObjectID
	StartDate *string
	EndDate   *string
	Status    *string
}

func (p Patch) doc() docstore.Patch {
	set := bson.M{}
	if p.Name != nil {
		set["name"] = *p.Name
		set["name_ci"] = text.Fold(*p.Name)
	}
	if p.ProgramID != nil {
		set["program_id"] = *p.ProgramID
	}
	if p.StartDate != nil {
		set["start_date"] = *p.StartDate
	}
	if p.EndDate != nil {
		set["end_date"] = *p.EndDate
	}
	if p.Status != nil {
		set["status"] = *p.Status
	}
	return docstore.Patch{Set: set}
}

// Fields lists the stored fields the patch touches.
func (p Patch) Fields() []string { return p.doc().Fields() }

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Cohort, error) {
	var c models.Cohort
	if err := s.g.GetByID(ctx, Collection, id, &c); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return models.Cohort{}, ErrNotFound
		}
		return models.Cohort{}, err
	}
	return c, nil
}

// List returns all cohorts ordered by name.
func (s *Store) List(ctx context.Context) ([]models.Cohort, error) {
	var out []models.Cohort
	err := s.g.Query(ctx, Collection, docstore.Query{
		Sort: []docstore.SortKey{{Field: "name_ci"}},
	}, &out)
	return out, err
}

// ListByProgram returns the cohorts whose program_id is programID.
func (s *Store) ListByProgram(ctx context.Context, programID primitive.ObjectID) ([]models.Cohort, error) {
	var out []models.Cohort
	err := s.g.Query(ctx, Collection, docstore.Query{
		Filter: docstore.Filter{docstore.Eq("program_id", programID)},
		Sort:   []docstore.SortKey{{Field: "name_ci"}},
	}, &out)
	return out, err
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.g.Count(ctx, Collection, nil)
}

// Create inserts c; status defaults to active.
func (s *Store) Create(ctx context.Context, c models.Cohort) (models.Cohort, error) {
	c.ID = primitive.NilObjectID
	c.NameCI = text.Fold(c.Name)
	if c.Status == "" {
		c.Status = models.StatusActive
	}
	meta, err := s.g.Create(ctx, Collection, c)
	if err != nil {
		return models.Cohort{}, fmt.Errorf("create cohort: %w", err)
	}
	c.ID, c.CreatedAt, c.UpdatedAt = meta.ID, meta.CreatedAt, meta.UpdatedAt
	return c, nil
}

// Update applies patch. An empty patch performs no write.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, patch Patch) error {
	p := patch.doc()
	if p.IsEmpty() {
		return nil
	}
	return mapErr(s.g.Update(ctx, Collection, id, p))
}

// SetProgram rewrites program_id only if it still equals from. It fails with
// docstore.ErrNoMatch when another writer moved the cohort first.
func (s *Store) SetProgram(ctx context.Context, id, from, to primitive.ObjectID) error {
	err := s.g.UpdateWhere(ctx, Collection, id,
		docstore.Filter{docstore.Eq("program_id", from)},
		docstore.Patch{Set: bson.M{"program_id": to}})
	if errors.Is(err, docstore.ErrNoMatch) {
		return fmt.Errorf("cohort %s no longer on program %s: %w", id.Hex(), from.Hex(), err)
	}
	return mapErr(err)
}

// Delete removes a cohort. The program keeps its cohort_id.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	return mapErr(s.g.Delete(ctx, Collection, id))
}

func mapErr(err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
