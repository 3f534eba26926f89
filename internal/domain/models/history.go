// internal/domain/models/history.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Change types recorded in document history.
const (
	ChangeCreated  = "created"
	ChangeUpdated  = "updated"
	ChangeApproved = "approved"
	ChangeArchived = "archived"
	ChangeRestored = "restored"
)

// IsValidChangeType reports whether ct is a known history change type.
func IsValidChangeType(ct string) bool {
	switch ct {
	case ChangeCreated, ChangeUpdated, ChangeApproved, ChangeArchived, ChangeRestored:
		return true
	}
	return false
}

// HistoryEntry is an immutable snapshot of a document at the time of a
// mutation. Entries are append-only: they are never updated, and are
// deleted only as a cascade of user removal.
type HistoryEntry struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DocumentID primitive.ObjectID `bson:"document_id" json:"document_id"`
	Title      string             `bson:"title" json:"title"`
	Content    string             `bson:"content" json:"content"`
	Status     string             `bson:"status" json:"status"`
	Version    int                `bson:"version" json:"version"`
	ChangedBy  primitive.ObjectID `bson:"changed_by" json:"changed_by"`
	ChangeType string             `bson:"change_type" json:"change_type"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
