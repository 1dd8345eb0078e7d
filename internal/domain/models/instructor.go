// internal/domain/models/instructor.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Instructor teaches modules. CVStoragePath is the object-storage key of the
// uploaded CV and CVURL the retrievable reference handed back by storage.
type Instructor struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"full_name" json:"full_name"`
	FullNameCI   string             `bson:"full_name_ci" json:"-"`
	Email        string             `bson:"email" json:"email"`
	EmailCI      string             `bson:"email_ci" json:"-"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	ShortBio     string             `bson:"short_bio,omitempty" json:"short_bio,omitempty"`
	Status       string             `bson:"status" json:"status"`
	Technologies []string           `bson:"technologies" json:"technologies"`

	CVStoragePath string `bson:"cv_storage_path,omitempty" json:"cv_storage_path,omitempty"`
	CVURL         string `bson:"cv_url,omitempty" json:"cv_url,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
