// internal/domain/models/document.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document status values are part of the external contract: they are
// stored and compared verbatim and must never be renamed.
const (
	StatusRascunho   = "Rascunho"
	StatusAguardando = "Aguardando Aprovação"
	StatusAprovado   = "Aprovado"
	StatusArquivado  = "Arquivado"
)

// Statuses lists every document status in workflow order, with the
// archival side-channel last.
var Statuses = []string{StatusRascunho, StatusAguardando, StatusAprovado, StatusArquivado}

// IsValidStatus reports whether status is a member of the status enum.
func IsValidStatus(status string) bool {
	switch status {
	case StatusRascunho, StatusAguardando, StatusAprovado, StatusArquivado:
		return true
	}
	return false
}

// StatusBadgeColor returns the UI badge classes for a document status.
func StatusBadgeColor(status string) string {
	switch status {
	case StatusRascunho:
		return "bg-gray-100 text-gray-800"
	case StatusAguardando:
		return "bg-yellow-100 text-yellow-800"
	case StatusAprovado:
		return "bg-green-100 text-green-800"
	case StatusArquivado:
		return "bg-red-100 text-red-800"
	}
	return "bg-gray-100 text-gray-800"
}

// Document is a workflow-managed document.
//
// Invariants:
//   - ApprovedBy and ApprovedAt are both nil or both set.
//   - Version starts at 1 and never decreases for a given ID.
//   - AuthorID is immutable once the document is created.
type Document struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title      string              `bson:"title" json:"title"`
	TitleCI    string              `bson:"title_ci" json:"-"` // lowercase, diacritics-stripped
	Content    string              `bson:"content" json:"content"`
	Status     string              `bson:"status" json:"status"`
	CategoryID *primitive.ObjectID `bson:"category_id,omitempty" json:"category_id,omitempty"`
	AuthorID   primitive.ObjectID  `bson:"author_id" json:"author_id"`
	ApprovedBy *primitive.ObjectID `bson:"approved_by,omitempty" json:"approved_by,omitempty"`
	ApprovedAt *time.Time          `bson:"approved_at,omitempty" json:"approved_at,omitempty"`
	Version    int                 `bson:"version" json:"version"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
