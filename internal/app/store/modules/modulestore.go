package modulestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/programhub/internal/app/system/docstore"
	"github.com/dalemusser/programhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const Collection = "modules"

var ErrNotFound = errors.New("module not found")

type Store struct {
	g docstore.Gateway
}

func New(g docstore.Gateway) *Store {
	return &Store{g: g}
}

// Patch is a partial module update. ClearSubject and ClearInstructor remove
// the assignment together with its snapshot.
type Patch struct {
	SubjectID          *primitive.ObjectID
	SubjectSnapshot    *string
	InstructorID       *primitive.ObjectID
	InstructorSnapshot *string
	ClearSubject       bool
	ClearInstructor    bool
	StartDate          *string
	EndDate            *string
	Hours              *int
	MonthNumber        *int
}

func (p Patch) doc() docstore.Patch {
	set := bson.M{}
	var unset []string
	switch {
	case p.ClearSubject:
		unset = append(unset, "subject_id")
		set["subject_snapshot"] = ""
	case p.SubjectID != nil:
		set["subject_id"] = *p.SubjectID
	}
	if p.SubjectSnapshot != nil && !p.ClearSubject {
		set["subject_snapshot"] = *p.SubjectSnapshot
	}
	switch {
	case p.ClearInstructor:
		unset = append(unset, "instructor_id")
		set["instructor_snapshot"] = ""
	case p.InstructorID != nil:
		set["instructor_id"] = *p.InstructorID
	}
	if p.InstructorSnapshot != nil && !p.ClearInstructor {
		set["instructor_snapshot"] = *p.InstructorSnapshot
	}
	if p.StartDate != nil {
		set["start_date"] = *p.StartDate
	}
	if p.EndDate != nil {
		set["end_date"] = *p.EndDate
	}
	if p.Hours != nil {
		set["hours"] = *p.Hours
	}
	if p.MonthNumber != nil {
		set["month_number"] = *p.MonthNumber
	}
	return docstore.Patch{Set: set, Unset: unset}
}

// Fields lists the stored fields the patch touches.
func (p Patch) Fields() []string { return p.doc().Fields() }

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Module, error) {
	var m models.Module
	if err := s.g.GetByID(ctx, Collection, id, &m); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return models.Module{}, ErrNotFound
		}
		return models.Module{}, err
	}
	return m, nil
}

// List returns every module grouped by program, then by month.
func (s *Store) List(ctx context.Context) ([]models.Module, error) {
	var out []models.Module
	err := s.g.Query(ctx, Collection, docstore.Query{
		Sort: []docstore.SortKey{{Field: "program_id"}, {Field: "month_number"}},
	}, &out)
	return out, err
}

// ListByProgram returns a program's modules ordered by month_number.
func (s *Store) ListByProgram(ctx context.Context, programID primitive.ObjectID) ([]models.Module, error) {
	var out []models.Module
	err := s.g.Query(ctx, Collection, docstore.Query{
		Filter: docstore.Filter{docstore.Eq("program_id", programID)},
		Sort:   []docstore.SortKey{{Field: "month_number"}},
	}, &out)
	return out, err
}

func (s *Store) Create(ctx context.Context, m models.Module) (models.Module, error) {
	m.ID = primitive.NilObjectID
	meta, err := s.g.Create(ctx, Collection, m)
	if err != nil {
		return models.Module{}, fmt.Errorf("create module: %w", err)
	}
	m.ID, m.CreatedAt, m.UpdatedAt = meta.ID, meta.CreatedAt, meta.UpdatedAt
	return m, nil
}

// Update applies patch. An empty patch performs no write.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, patch Patch) error {
	p := patch.doc()
	if p.IsEmpty() {
		return nil
	}
	err := s.g.Update(ctx, Collection, id, p)
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	err := s.g.Delete(ctx, Collection, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
