// internal/app/features/documents/types.go
package documents

import (
	documentstore "github.com/matheusmeigre/docportal/internal/app/store/documents"
	"github.com/matheusmeigre/docportal/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// documentResponse is a document as returned by the API, with the
// badge color derived from the status so clients render consistently.
// CategoryName is joined onto list rows; single-document responses
// leave it empty and clients resolve it from /categories.
type documentResponse struct {
	models.Document
	StatusColor  string `json:"status_color"`
	CategoryName string `json:"category_name,omitempty"`
}

func toResponse(d models.Document) documentResponse {
	return documentResponse{
		Document:    d,
		StatusColor: models.StatusBadgeColor(d.Status),
	}
}

func toResponses(docs []models.Document, categoryNames map[primitive.ObjectID]string) []documentResponse {
	out := make([]documentResponse, 0, len(docs))
	for _, d := range docs {
		resp := toResponse(d)
		if d.CategoryID != nil {
			resp.CategoryName = categoryNames[*d.CategoryID]
		}
		out = append(out, resp)
	}
	return out
}

// listResponse is one page of documents plus paging metadata.
type listResponse struct {
	Documents []documentResponse `json:"documents"`
	Total     int64              `json:"total"`
	Page      int                `json:"page"`
	Pages     int                `json:"pages"`
	PageSize  int                `json:"page_size"`
}

// statsResponse is the dashboard payload: the portal-wide status
// breakdown plus the caller's own draft count.
type statsResponse struct {
	documentstore.StatusCounts
	MyDrafts int64 `json:"my_drafts"`
}
