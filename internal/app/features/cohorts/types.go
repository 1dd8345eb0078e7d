// internal/app/features/cohorts/types.go
package cohorts

import (
	"strings"

	"github.com/dalemusser/programhub/internal/app/services/linkage"
	cohortstore "github.com/dalemusser/programhub/internal/app/store/cohorts"
	"github.com/dalemusser/programhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type createInput struct {
	Name      string `json:"name" validate:"required,notblank,max=200" label:"Name"`
	ProgramID string `json:"program_id" validate:"required,objectid" label:"Program"`
	StartDate string `json:"start_date" validate:"required,date" label:"Start date"`
	EndDate   string `json:"end_date" validate:"required,date" label:"End date"`
	Status    string `json:"status" validate:"omitempty,oneof=active inactive completed cancelled" label:"Status"`
}

func (in createInput) cohort() models.Cohort {
	pid, _ := primitive.ObjectIDFromHex(strings.TrimSpace(in.ProgramID))
	return models.Cohort{
		Name:      strings.TrimSpace(in.Name),
		ProgramID: pid,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Status:    in.Status,
	}
}

type updateInput struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,notblank,max=200" label:"Name"`
	ProgramID *string `json:"program_id,omitempty" validate:"omitempty,objectid" label:"Program"`
	StartDate *string `json:"start_date,omitempty" validate:"omitempty,date" label:"Start date"`
	EndDate   *string `json:"end_date,omitempty" validate:"omitempty,date" label:"End date"`
	Status    *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive completed cancelled" label:"Status"`
}

func (in updateInput) patch() cohortstore.Patch {
	p := cohortstore.Patch{
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Status:    in.Status,
	}
	if in.Name != nil {
		n := strings.TrimSpace(*in.Name)
		p.Name = &n
	}
	if in.ProgramID != nil {
		id, _ := primitive.ObjectIDFromHex(strings.TrimSpace(*in.ProgramID))
		p.ProgramID = &id
	}
	return p
}

// writeResponse is returned by create and update so callers can see which
// link steps ran.
type writeResponse struct {
	Cohort models.Cohort `json:"cohort"`
	Saga   *linkage.Saga `json:"saga,omitempty"`
}
