// internal/domain/models/roleassignment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoleAssignment maps a user to exactly one role. A unique index on
// UserID enforces at most one active row per user; writes go through
// upsert-on-conflict so a re-assignment replaces the previous role.
//
// AssignedBy records who granted the role. It is audit metadata, not
// ownership: it is nulled out when the granting user is deleted.
type RoleAssignment struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID  `bson:"user_id" json:"user_id"`
	Role       string              `bson:"role" json:"role"`
	AssignedBy *primitive.ObjectID `bson:"assigned_by,omitempty" json:"assigned_by,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
