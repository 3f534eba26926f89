// internal/app/features/documents/list.go
package documents

import (
	"net/http"

	documentstore "github.com/matheusmeigre/docportal/internal/app/store/documents"
	"github.com/matheusmeigre/docportal/internal/app/system/apierrors"
	"github.com/matheusmeigre/docportal/internal/app/system/auth"
	"github.com/matheusmeigre/docportal/internal/app/system/paging"
	"github.com/matheusmeigre/docportal/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// seesAll reports whether the caller's listing is unrestricted.
// Mirrors the view predicate: Coordenador and Gerente see every
// document, everyone else sees approved documents plus their own.
func seesAll(u *auth.SessionUser) bool {
	return u.Role == models.RoleCoordenador || u.Role == models.RoleGerente
}

// ServeList handles GET /documents.
//
// Query parameters: "q" filters by title substring (case and accent
// insensitive), "status" by exact status, "page" selects a zero-based
// page of fixed size.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	status := r.URL.Query().Get("status")
	if status != "" && !models.IsValidStatus(status) {
		apierrors.BadRequest(w, "Status inválido")
		return
	}

	page := paging.ParsePage(r)
	docs, total, err := h.Docs.List(r.Context(), documentstore.ListParams{
		Query:         r.URL.Query().Get("q"),
		Status:        status,
		ViewerID:      actorOID(u),
		ViewerSeesAll: seesAll(u),
		Skip:          paging.Skip(page),
		Limit:         paging.PageSize,
	})
	if err != nil {
		h.ErrLog.Dependency(w, r, "list documents", err)
		return
	}

	names, err := h.Cats.NamesByIDs(r.Context(), categoryIDs(docs))
	if err != nil {
		h.ErrLog.Dependency(w, r, "resolve category names", err)
		return
	}

	apierrors.JSON(w, http.StatusOK, listResponse{
		Documents: toResponses(docs, names),
		Total:     total,
		Page:      page,
		Pages:     paging.Pages(total),
		PageSize:  paging.PageSize,
	})
}

func categoryIDs(docs []models.Document) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{})
	var ids []primitive.ObjectID
	for _, d := range docs {
		if d.CategoryID == nil {
			continue
		}
		if _, ok := seen[*d.CategoryID]; ok {
			continue
		}
		seen[*d.CategoryID] = struct{}{}
		ids = append(ids, *d.CategoryID)
	}
	return ids
}

// ServeStats handles GET /documents/stats: portal-wide per-status
// counts plus the caller's own draft count.
func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	stats, err := h.Docs.Stats(r.Context())
	if err != nil {
		h.ErrLog.Dependency(w, r, "document stats", err)
		return
	}
	myDrafts, err := h.Docs.CountByAuthorStatus(r.Context(), actorOID(u), models.StatusRascunho)
	if err != nil {
		h.ErrLog.Dependency(w, r, "count own drafts", err)
		return
	}
	apierrors.JSON(w, http.StatusOK, statsResponse{
		StatusCounts: stats,
		MyDrafts:     myDrafts,
	})
}
