// internal/domain/models/program.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Program is a multi-month curriculum run with a fixed date range.
//
// CohortID is the forward half of the one-to-one Program↔Cohort link. It is
// absent until a cohort is created against the program and never changes
// afterwards.
type Program struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	NameCI         string             `bson:"name_ci" json:"-"`
	Description    string             `bson:"description" json:"description"`
	StartDate      string             `bson:"start_date" json:"start_date"`
	EndDate        string             `bson:"end_date" json:"end_date"`
	DurationMonths int                `bson:"duration_months" json:"duration_months"`
	Status         string             `bson:"status" json:"status"`
	ProgramType    string             `bson:"program_type,omitempty" json:"program_type,omitempty"`

	CohortID *primitive.ObjectID `bson:"cohort_id,omitempty" json:"cohort_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Linked reports whether the program already points at a cohort.
func (p Program) Linked() bool {
	return p.CohortID != nil && !p.CohortID.IsZero()
}
