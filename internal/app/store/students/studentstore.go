package studentstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dalemusser/programhub/internal/app/system/docstore"
	"github.com/dalemusser/programhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const Collection = "students"

var ErrNotFound = errors.New("student not found")

type Store struct {
	g docstore.Gateway
}

func New(g docstore.Gateway) *Store {
	return &Store{g: g}
}

type Patch struct {
	CohortID  *primitive.ObjectID
	FullName  *string
	Email     *string
	Phone     *string
	BirthDate *string
	Status    *string
}

func (p Patch) doc() docstore.Patch {
	set := bson.M{}
	if p.CohortID != nil {
		set["cohort_id"] = *p.CohortID
	}
	if p.FullName != nil {
		set["full_name"] = *p.FullName
		set["full_name_ci"] = text.Fold(*p.FullName)
	}
	if p.Email != nil {
		set["email"] = strings.ToLower(strings.TrimSpace(*p.Email))
	}
	if p.Phone != nil {
		set["phone"] = *p.Phone
	}
	if p.BirthDate != nil {
		set["birth_date"] = *p.BirthDate
	}
	if p.Status != nil {
		set["status"] = *p.Status
	}
	return docstore.Patch{Set: set}
}

// Fields lists the stored fields the patch touches.
func (p Patch) Fields() []string { return p.doc().Fields() }

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Student, error) {
	var st models.Student
	if err := s.g.GetByID(ctx, Collection, id, &st); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return models.Student{}, ErrNotFound
		}
		return models.Student{}, err
	}
	return st, nil
}

func (s *Store) List(ctx context.Context) ([]models.Student, error) {
	var out []models.Student
	err := s.g.Query(ctx, Collection, docstore.Query{
		Sort: []docstore.SortKey{{Field: "full_name_ci"}},
	}, &out)
	return out, err
}

// ListByCohort returns a cohort's roster ordered by name.
func (s *Store) ListByCohort(ctx context.Context, cohortID primitive.ObjectID) ([]models.Student, error) {
	var out []models.Student
	err := s.g.Query(ctx, Collection, docstore.Query{
		Filter: docstore.Filter{docstore.Eq("cohort_id", cohortID)},
		Sort:   []docstore.SortKey{{Field: "full_name_ci"}},
	}, &out)
	return out, err
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.g.Count(ctx, Collection, nil)
}

func (s *Store) Create(ctx context.Context, st models.Student) (models.Student, error) {
	st.ID = primitive.NilObjectID
	st.FullNameCI = text.Fold(st.FullName)
	st.Email = strings.ToLower(strings.TrimSpace(st.Email))
	if st.Status == "" {
		st.Status = models.StatusActive
	}
	meta, err := s.g.Create(ctx, Collection, st)
	if err != nil {
		return models.Student{}, fmt.Errorf("create student: %w", err)
	}
	st.ID, st.CreatedAt, st.UpdatedAt = meta.ID, meta.CreatedAt, meta.UpdatedAt
	return st, nil
}

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
