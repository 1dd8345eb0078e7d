package programstore

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

// Collection is the programs collection name.
const Collection = "programs"

var (
	// ErrNotFound is returned when the program does not exist.
	ErrNotFound = errors.New("program not found")

	// ErrLinkConflict is returned by a cohort-setting update when the program
	// already points at a different cohort at write time.
	ErrLinkConflict = errors.New("program is linked to another cohort")

	// ErrCohortClaimed is returned when another program already holds the
	// cohort (unique index on cohort_id).
	ErrCohortClaimed = errors.New("cohort is already claimed by another program")

	// ErrNotLinked is returned by Unlink when the program no longer points at
	// the given cohort.
	ErrNotLinked = errors.New("program is not linked to that cohort")
)

type Store struct {
	g docstore.Gateway
}

func New(g docstore.Gateway) *Store {
	return &Store{g: g}
}

// Patch is a partial program update. Nil fields are left alone. CohortID,
// when set, is written only if the stored cohort_id is unset or already equal.
type Patch struct {
	Name           *string
	Description    *string
	StartDate      *string
	EndDate        *string
	DurationMonths *int
	Status         *string
	ProgramType    *string
	CohortID       *primitive.ObjectID
}

func (p Patch) doc() docstore.Patch {
	set := bson.M{}
	if p.Name != nil {
		set["name"] = *p.Name
		set["name_ci"] = text.Fold(*p.Name)
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.StartDate != nil {
		set["start_date"] = *p.StartDate
	}
	if p.EndDate != nil {
		set["end_date"] = *p.EndDate
	}
	if p.DurationMonths != nil {
		set["duration_months"] = *p.DurationMonths
	}
	if p.Status != nil {
		set["status"] = *p.Status
	}
	if p.ProgramType != nil {
		set["program_type"] = *p.ProgramType
	}
	if p.CohortID != nil {
		set["cohort_id"] = *p.CohortID
	}
	return docstore.Patch{Set: set}
}

// Fields lists the stored fields the patch touches.
func (p Patch) Fields() []string { return p.doc().Fields() }

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool { return p.doc().IsEmpty() }

// GetByID loads one program.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Program, error) {
	var p models.Program
	if err := s.g.GetByID(ctx, Collection, id, &p); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return models.Program{}, ErrNotFound
		}
		return models.Program{}, err
	}
	return p, nil
}

// List returns all programs ordered by name.
func (s *Store) List(ctx context.Context) ([]models.Program, error) {
	var out []models.Program
	err := s.g.Query(ctx, Collection, docstore.Query{
		Sort: []docstore.SortKey{{Field: "name_ci"}},
	}, &out)
	return out, err
}

// FindByCohort returns the programs whose cohort_id is cohortID. A healthy
// database yields zero or one.
func (s *Store) FindByCohort(ctx context.Context, cohortID primitive.ObjectID) ([]models.Program, error) {
	var out []models.Program
	err := s.g.Query(ctx, Collection, docstore.Query{
		Filter: docstore.Filter{docstore.Eq("cohort_id", cohortID)},
	}, &out)
	return out, err
}

// Count returns the number of programs.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.g.Count(ctx, Collection, nil)
}

// Create inserts p. Programs are always created without a cohort; a status
// defaults to active.
func (s *Store) Create(ctx context.Context, p models.Program) (models.Program, error) {
	p.ID = primitive.NilObjectID
	p.CohortID = nil
	p.NameCI = text.Fold(p.Name)
	if p.Status == "" {
		p.Status = models.StatusActive
	}
	meta, err := s.g.Create(ctx, Collection, p)
	if err != nil {
		return models.Program{}, fmt.Errorf("create program: %w", err)
	}
	p.ID, p.CreatedAt, p.UpdatedAt = meta.ID, meta.CreatedAt, meta.UpdatedAt
	return p, nil
}

// Update applies patch. An empty patch performs no write.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, patch Patch) error {
	if patch.IsEmpty() {
		return nil
	}
	var cond docstore.Filter
	if patch.CohortID != nil {
		cond = docstore.Filter{docstore.In("cohort_id", nil, *patch.CohortID)}
	}
	return mapErr(s.g.UpdateWhere(ctx, Collection, id, cond, patch.doc()))
}

// Link points the program at cohortID if it is unset or already cohortID.
func (s *Store) Link(ctx context.Context, id, cohortID primitive.ObjectID) error {
	return s.Update(ctx, id, Patch{CohortID: &cohortID})
}

// Unlink clears cohort_id if it still equals cohortID.
func (s *Store) Unlink(ctx context.Context, id, cohortID primitive.ObjectID) error {
	err := s.g.UpdateWhere(ctx, Collection, id,
		docstore.Filter{docstore.Eq("cohort_id", cohortID)},
		docstore.Patch{Unset: []string{"cohort_id"}})
	if errors.Is(err, docstore.ErrNoMatch) {
		return ErrNotLinked
	}
	return mapErr(err)
}

// Delete removes a program. Its cohort keeps its program_id.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	return mapErr(s.g.Delete(ctx, Collection, id))
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, docstore.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, docstore.ErrNoMatch):
		return ErrLinkConflict
	case errors.Is(err, docstore.ErrDuplicate):
		return ErrCohortClaimed
	}
	return err
}
