package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a staff or customer account. Registration and profile management
// live elsewhere; this backend only reads users for login and ownership checks.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"` // Store hash, not plaintext
	IsAdmin      bool               `bson:"is_admin" json:"is_admin"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
	Deleted      bool               `bson:"deleted" json:"-"` // Soft delete flag
}
