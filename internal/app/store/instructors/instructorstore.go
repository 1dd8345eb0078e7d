package instructorstore

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

const Collection = "instructors"

var ErrNotFound = errors.New("instructor not found")

type Store struct {
	g docstore.Gateway
}

func New(g docstore.Gateway) *Store {
	return &Store{g: g}
}

type Patch struct {
	FullName     *string
	Email        *string
	Phone        *string
	ShortBio     *string
	Status       *string
	Technologies *[]string
}

func (p Patch) doc() docstore.Patch {
	set := bson.M{}
	if p.FullName != nil {
		set["full_name"] = *p.FullName
		set["full_name_ci"] = text.Fold(*p.FullName)
	}
	if p.Email != nil {
		email := strings.TrimSpace(*p.Email)
		set["email"] = email
		set["email_ci"] = text.Fold(email)
	}
	if p.Phone != nil {
		set["phone"] = *p.Phone
	}
	if p.ShortBio != nil {
		set["short_bio"] = *p.ShortBio
	}
	if p.Status != nil {
		set["status"] = *p.Status
	}
	if p.Technologies != nil {
		techs := *p.Technologies
		if techs == nil {
			techs = []string{}
		}
		set["technologies"] = techs
	}
	return docstore.Patch{Set: set}
}

// Fields lists the stored fields the patch touches.
func (p Patch) Fields() []string { return p.doc().Fields() }

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Instructor, error) {
	var in models.Instructor
	if err := s.g.GetByID(ctx, Collection, id, &in); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return models.Instructor{}, ErrNotFound
		}
		return models.Instructor{}, err
	}
	if in.Technologies == nil {
		in.Technologies = []string{}
	}
	return in, nil
}

func (s *Store) List(ctx context.Context) ([]models.Instructor, error) {
	var out []models.Instructor
	err := s.g.Query(ctx, Collection, docstore.Query{
		Sort: []docstore.SortKey{{Field: "full_name_ci"}},
	}, &out)
	for i := range out {
		if out[i].Technologies == nil {
			out[i].Technologies = []string{}
		}
	}
	return out, err
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.g.Count(ctx, Collection, nil)
}

// Create inserts in; technologies default to an empty list and status to active.
func (s *Store) Create(ctx context.Context, in models.Instructor) (models.Instructor, error) {
	in.ID = primitive.NilObjectID
	in.FullNameCI = text.Fold(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	in.EmailCI = text.Fold(in.Email)
	if in.Technologies == nil {
		in.Technologies = []string{}
	}
	if in.Status == "" {
		in.Status = models.StatusActive
	}
	in.CVStoragePath, in.CVURL = "", ""
	meta, err := s.g.Create(ctx, Collection, in)
	if err != nil {
		return models.Instructor{}, fmt.Errorf("create instructor: %w", err)
	}
	in.ID, in.CreatedAt, in.UpdatedAt = meta.ID, meta.CreatedAt, meta.UpdatedAt
	return in, nil
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

// SetCV records where the instructor's CV is stored.
func (s *Store) SetCV(ctx context.Context, id primitive.ObjectID, path, url string) error {
	err := s.g.Update(ctx, Collection, id, docstore.Patch{Set: bson.M{
		"cv_storage_path": path,
		"cv_url":          url,
	}})
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
