package subjectstore

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

const Collection = "subjects"

var ErrNotFound = errors.New("subject not found")

type Store struct {
	g docstore.Gateway
}

func New(g docstore.Gateway) *Store {
	return &Store{g: g}
}

type Patch struct {
	Name         *string
	Description  *string
	Type         *string
	Code         *string
	DefaultHours *int
	Status       *string
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
	if p.Type != nil {
		set["type"] = *p.Type
	}
	if p.Code != nil {
		set["code"] = *p.Code
		set["code_ci"] = text.Fold(*p.Code)
	}
	if p.DefaultHours != nil {
		set["default_hours"] = *p.DefaultHours
	}
	if p.Status != nil {
		set["status"] = *p.Status
	}
	return docstore.Patch{Set: set}
}

// Fields lists the stored fields the patch touches.
func (p Patch) Fields() []string { return p.doc().Fields() }

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Subject, error) {
	var sub models.Subject
	if err := s.g.GetByID(ctx, Collection, id, &sub); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return models.Subject{}, ErrNotFound
		}
		return models.Subject{}, err
	}
	return sub, nil
}

func (s *Store) List(ctx context.Context) ([]models.Subject, error) {
	var out []models.Subject
	err := s.g.Query(ctx, Collection, docstore.Query{
		Sort: []docstore.SortKey{{Field: "name_ci"}},
	}, &out)
	return out, err
}

func (s *Store) Create(ctx context.Context, sub models.Subject) (models.Subject, error) {
	sub.ID = primitive.NilObjectID
	sub.NameCI = text.Fold(sub.Name)
	sub.CodeCI = text.Fold(sub.Code)
	if sub.Status == "" {
		sub.Status = models.StatusActive
	}
	meta, err := s.g.Create(ctx, Collection, sub)
	if err != nil {
		return models.Subject{}, fmt.Errorf("create subject: %w", err)
	}
	sub.ID, sub.CreatedAt, sub.UpdatedAt = meta.ID, meta.CreatedAt, meta.UpdatedAt
	return sub, nil
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
