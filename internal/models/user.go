// internal/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email        string             `bson:"email" json:"email" validate:"required,email"`
	Name         string             `bson:"name" json:"name" validate:"required,min=2,max=100"`
	PasswordHash string             `bson:"password_hash" json:"-"`

	IsModerator bool `bson:"is_moderator" json:"is_moderator"`
	IsBlocked   bool `bson:"is_blocked" json:"is_blocked"`

	// Notifications created before this moment are never shown to the user.
	RegisteredAt time.Time  `bson:"registered_at" json:"registered_at"`
	LastLoginAt  *time.Time `bson:"last_login_at,omitempty" json:"last_login_at,omitempty"`
}
