// Package inputval validates document payloads at the API boundary.
//
// Validation failures are reported as a FieldError naming the first
// failing field, checked in a fixed order (title, content, status,
// category). Validation is a distinct outcome from authorization: a
// denied caller gets a forbidden response, never a validation message,
// and vice versa.
package inputval

import (
	"strings"
	"unicode/utf8"

	"github.com/matheusmeigre/docportal/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Title length bounds, counted in runes after trimming.
const (
	TitleMinLen = 3
	TitleMaxLen = 200
)

// FieldError reports the first field that failed validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// DocumentInput is the client-supplied document payload before
// sanitization and persistence.
type DocumentInput struct {
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	Status     string  `json:"status"`
	CategoryID *string `json:"category_id"`
}

// ValidateDocument checks the payload against the document schema:
// title 3–200 runes after trimming, non-empty content, status in the
// four-value enum, and a parseable category id when one is given.
// Returns nil when the payload is valid.
func ValidateDocument(in DocumentInput) *FieldError {
	title := strings.TrimSpace(in.Title)
	if utf8.RuneCountInString(title) < TitleMinLen {
		return &FieldError{Field: "title", Message: "Título muito curto"}
	}
	if utf8.RuneCountInString(title) > TitleMaxLen {
		return &FieldError{Field: "title", Message: "Título muito longo"}
	}

	if strings.TrimSpace(in.Content) == "" {
		return &FieldError{Field: "content", Message: "Conteúdo obrigatório"}
	}

	if in.Status != "" && !models.IsValidStatus(in.Status) {
		return &FieldError{Field: "status", Message: "Status inválido"}
	}

	if in.CategoryID != nil && *in.CategoryID != "" {
		if _, err := primitive.ObjectIDFromHex(*in.CategoryID); err != nil {
			return &FieldError{Field: "category_id", Message: "Categoria inválida"}
		}
	}

	return nil
}

// CategoryOID parses the optional category reference from a payload.
// Returns nil when no category was supplied. Call ValidateDocument
// first; this assumes the id is well-formed.
func CategoryOID(in DocumentInput) *primitive.ObjectID {
	if in.CategoryID == nil || *in.CategoryID == "" {
		return nil
	}
	oid, err := primitive.ObjectIDFromHex(*in.CategoryID)
	if err != nil {
		return nil
	}
	return &oid
}
