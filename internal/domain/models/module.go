// internal/domain/models/module.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Module is a one-month slice of a program. SubjectID and InstructorID are
// nil until assigned; the snapshot fields keep the display names captured at
// assignment time.
type Module struct {
	ID                 primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ProgramID          primitive.ObjectID  `bson:"program_id" json:"program_id"`
	SubjectID          *primitive.ObjectID `bson:"subject_id,omitempty" json:"subject_id,omitempty"`
	InstructorID       *primitive.ObjectID `bson:"instructor_id,omitempty" json:"instructor_id,omitempty"`
	SubjectSnapshot    string              `bson:"subject_snapshot" json:"subject_snapshot"`
	InstructorSnapshot string              `bson:"instructor_snapshot" json:"instructor_snapshot"`
	StartDate          string              `bson:"start_date" json:"start_date"`
	EndDate            string              `bson:"end_date" json:"end_date"`
	Hours              int                 `bson:"hours" json:"hours"`
	MonthNumber        int                 `bson:"month_number" json:"month_number"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
