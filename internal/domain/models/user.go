// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a dashboard operator. Role is one of admin, coordinator, viewer.
// PasswordHash is empty for accounts that only sign in with Google.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	EmailCI      string             `bson:"email_ci" json:"-"`
	DisplayName  string             `bson:"display_name" json:"display_name"`
	Role         string             `bson:"role" json:"role"`
	Status       string             `bson:"status" json:"status"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
