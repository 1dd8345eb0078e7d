// internal/domain/models/cohort.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Cohort is one intake of students following a program.
// ProgramID is mandatory and is the reverse half of the Program↔Cohort link.
type Cohort struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	NameCI    string             `bson:"name_ci" json:"-"`
	ProgramID primitive.ObjectID `bson:"program_id" json:"program_id"`
	StartDate string             `bson:"start_date" json:"start_date"`
	EndDate   string             `bson:"end_date" json:"end_date"`
	Status    string             `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
