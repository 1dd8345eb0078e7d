// internal/app/features/students/types.go
package students

import (
	"strings"

	studentstore "github.com/dalemusser/programhub/internal/app/store/students"
	"github.com/dalemusser/programhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type createInput struct {
	FullName  string `json:"full_name" validate:"required,notblank,max=200" label:"Full name"`
	Email     string `json:"email" validate:"required,email,max=254" label:"Email"`
	Phone     string `json:"phone" validate:"max=50" label:"Phone"`
	BirthDate string `json:"birth_date" validate:"required,date" label:"Birth date"`
	CohortID  string `json:"cohort_id" validate:"required,objectid" label:"Cohort"`
	Status    string `json:"status" validate:"omitempty,oneof=active inactive completed cancelled" label:"Status"`
}

func (in createInput) student() models.Student {
	cid, _ := primitive.ObjectIDFromHex(strings.TrimSpace(in.CohortID))
	return models.Student{
		CohortID:  cid,
		FullName:  strings.TrimSpace(in.FullName),
		Email:     in.Email,
		Phone:     strings.TrimSpace(in.Phone),
		BirthDate: in.BirthDate,
		Status:    in.Status,
	}
}

type updateInput struct {
	FullName  *string `json:"full_name,omitempty" validate:"omitempty,notblank,max=200" label:"Full name"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email,max=254" label:"Email"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=50" label:"Phone"`
	BirthDate *string `json:"birth_date,omitempty" validate:"omitempty,date" label:"Birth date"`
	CohortID  *string `json:"cohort_id,omitempty" validate:"omitempty,objectid" label:"Cohort"`
	Status    *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive completed cancelled" label:"Status"`
}

func (in updateInput) patch() studentstore.Patch {
	p := studentstore.Patch{
		Email:     in.Email,
		BirthDate: in.BirthDate,
		Status:    in.Status,
	}
	if in.FullName != nil {
		v := strings.TrimSpace(*in.FullName)
		p.FullName = &v
	}
	if in.Phone != nil {
		v := strings.TrimSpace(*in.Phone)
		p.Phone = &v
	}
	if in.CohortID != nil {
		id, _ := primitive.ObjectIDFromHex(strings.TrimSpace(*in.CohortID))
		p.CohortID = &id
	}
	return p
}
