// internal/app/features/modules/types.go
package modules

import (
	"strings"

	modulestore "github.com/dalemusser/programhub/internal/app/store/modules"
	"github.com/dalemusser/programhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type createInput struct {
	ProgramID    string  `json:"program_id" validate:"required,objectid" label:"Program"`
	SubjectID    *string `json:"subject_id,omitempty" validate:"omitempty,objectid" label:"Subject"`
	InstructorID *string `json:"instructor_id,omitempty" validate:"omitempty,objectid" label:"Instructor"`
	StartDate    string  `json:"start_date" validate:"required,date" label:"Start date"`
	EndDate      string  `json:"end_date" validate:"required,date" label:"End date"`
	Hours        int     `json:"hours" validate:"required,gte=1" label:"Hours"`
	MonthNumber  int     `json:"month_number" validate:"required,gte=1" label:"Month"`
}

func (in createInput) module() models.Module {
	return models.Module{
		ProgramID:    mustID(in.ProgramID),
		SubjectID:    optID(in.SubjectID),
		InstructorID: optID(in.InstructorID),
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		Hours:        in.Hours,
		MonthNumber:  in.MonthNumber,
	}
}

// updateInput leaves absent fields alone. clear_subject and clear_instructor
// remove an assignment; they win over a subject_id or instructor_id sent in
// the same body.
type updateInput struct {
	SubjectID       *string `json:"subject_id,omitempty" validate:"omitempty,objectid" label:"Subject"`
	InstructorID    *string `json:"instructor_id,omitempty" validate:"omitempty,objectid" label:"Instructor"`
	ClearSubject    bool    `json:"clear_subject,omitempty"`
	ClearInstructor bool    `json:"clear_instructor,omitempty"`
	StartDate       *string `json:"start_date,omitempty" validate:"omitempty,date" label:"Start date"`
	EndDate         *string `json:"end_date,omitempty" validate:"omitempty,date" label:"End date"`
	Hours           *int    `json:"hours,omitempty" validate:"omitempty,gte=1" label:"Hours"`
	MonthNumber     *int    `json:"month_number,omitempty" validate:"omitempty,gte=1" label:"Month"`
}

func (in updateInput) patch() modulestore.Patch {
	p := modulestore.Patch{
		ClearSubject:    in.ClearSubject,
		ClearInstructor: in.ClearInstructor,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		Hours:           in.Hours,
		MonthNumber:     in.MonthNumber,
	}
	if !in.ClearSubject {
		p.SubjectID = optID(in.SubjectID)
	}
	if !in.ClearInstructor {
		p.InstructorID = optID(in.InstructorID)
	}
	return p
}

// Both helpers run after validation, so the hex is known to parse.
func mustID(s string) primitive.ObjectID {
	id, _ := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	return id
}

func optID(s *string) *primitive.ObjectID {
	if s == nil {
		return nil
	}
	id := mustID(*s)
	return &id
}
