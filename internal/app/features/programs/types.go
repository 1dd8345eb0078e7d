// internal/app/features/programs/types.go
package programs

import (
	"strings"

	programstore "github.com/dalemusser/programhub/internal/app/store/programs"
	"github.com/dalemusser/programhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/programhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// createInput is the POST body. cohort_id is accepted and ignored: programs
// are always created unlinked.
type createInput struct {
	Name            string  `json:"name" validate:"required,notblank,max=200" label:"Name"`
	Description     string  `json:"description" validate:"required,notblank,max=5000" label:"Description"`
	StartDate       string  `json:"start_date" validate:"required,date" label:"Start date"`
	EndDate         string  `json:"end_date" validate:"required,date" label:"End date"`
	DurationMonths  int     `json:"duration_months" validate:"required,gte=1,lte=12" label:"Duration"`
	Status          string  `json:"status" validate:"omitempty,oneof=active inactive" label:"Status"`
	ProgramType     string  `json:"program_type" validate:"max=100" label:"Program type"`
	CohortID        *string `json:"cohort_id,omitempty"`
	GenerateModules *bool   `json:"generate_modules,omitempty"`
}

func (in createInput) program() models.Program {
	return models.Program{
		Name:           strings.TrimSpace(in.Name),
		Description:    htmlsanitize.Clean(in.Description),
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		DurationMonths: in.DurationMonths,
		Status:         in.Status,
		ProgramType:    strings.TrimSpace(in.ProgramType),
	}
}

// generate defaults to true, matching the creation form.
func (in createInput) generate() bool {
	return in.GenerateModules == nil || *in.GenerateModules
}

type createResponse struct {
	Program      models.Program  `json:"program"`
	Modules      []models.Module `json:"modules"`
	ModulesError string          `json:"modules_error,omitempty"`
}

type updateInput struct {
	Name           *string `json:"name,omitempty" validate:"omitempty,notblank,max=200" label:"Name"`
	Description    *string `json:"description,omitempty" validate:"omitempty,notblank,max=5000" label:"Description"`
	StartDate      *string `json:"start_date,omitempty" validate:"omitempty,date" label:"Start date"`
	EndDate        *string `json:"end_date,omitempty" validate:"omitempty,date" label:"End date"`
	DurationMonths *int    `json:"duration_months,omitempty" validate:"omitempty,gte=1,lte=12" label:"Duration"`
	Status         *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive" label:"Status"`
	ProgramType    *string `json:"program_type,omitempty" validate:"omitempty,max=100" label:"Program type"`
	CohortID       *string `json:"cohort_id,omitempty" validate:"omitempty,objectid" label:"Cohort"`
}

func (in updateInput) patch() programstore.Patch {
	p := programstore.Patch{
		Name:           trimPtr(in.Name),
		Description:    htmlsanitize.CleanPtr(in.Description),
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		DurationMonths: in.DurationMonths,
		Status:         in.Status,
		ProgramType:    trimPtr(in.ProgramType),
	}
	if in.CohortID != nil {
		// validated as an objectid above
		id, _ := primitive.ObjectIDFromHex(strings.TrimSpace(*in.CohortID))
		p.CohortID = &id
	}
	return p
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
