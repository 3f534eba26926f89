// internal/domain/models/account.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account is an identity record: the credentials side of a user,
// separate from their role assignment. Accounts created through the
// admin API are confirmed immediately (no verification email step).
type Account struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash []byte             `bson:"password_hash" json:"-"`
	Confirmed    bool               `bson:"confirmed" json:"confirmed"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// AccessToken is an opaque bearer token tied to an account. Tokens are
// random values, not claims: every request re-derives the user's role
// from the role assignment store.
type AccessToken struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Token     string             `bson:"token"`
	UserID    primitive.ObjectID `bson:"user_id"`
	ExpiresAt time.Time          `bson:"expires_at"`
	CreatedAt time.Time          `bson:"created_at"`
}
