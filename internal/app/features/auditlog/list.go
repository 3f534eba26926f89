// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"time"

	"github.com/matheusmeigre/docportal/internal/app/store/audit"
	"github.com/matheusmeigre/docportal/internal/app/system/apierrors"
	"github.com/matheusmeigre/docportal/internal/app/system/paging"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type eventResponse struct {
	ID            string            `json:"id"`
	Timestamp     time.Time         `json:"timestamp"`
	Category      string            `json:"category"`
	EventType     string            `json:"event_type"`
	UserID        *string           `json:"user_id,omitempty"`
	ActorID       *string           `json:"actor_id,omitempty"`
	IP            string            `json:"ip"`
	Success       bool              `json:"success"`
	FailureReason string            `json:"failure_reason,omitempty"`
	Details       map[string]string `json:"details,omitempty"`
}

type listResponse struct {
	Events   []eventResponse `json:"events"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	Pages    int             `json:"pages"`
	PageSize int             `json:"page_size"`
}

func toResponse(e audit.Event) eventResponse {
	resp := eventResponse{
		ID:            e.ID.Hex(),
		Timestamp:     e.Timestamp,
		Category:      e.Category,
		EventType:     e.EventType,
		IP:            e.IP,
		Success:       e.Success,
		FailureReason: e.FailureReason,
		Details:       e.Details,
	}
	if e.UserID != nil {
		hex := e.UserID.Hex()
		resp.UserID = &hex
	}
	if e.ActorID != nil {
		hex := e.ActorID.Hex()
		resp.ActorID = &hex
	}
	return resp
}

// ServeList handles GET /admin/audit. Filters are additive: category,
// event_type, user_id, and a since/until window in RFC 3339.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := paging.ParsePage(r)

	filter := audit.QueryFilter{
		Category:  q.Get("category"),
		EventType: q.Get("event_type"),
		Limit:     paging.PageSize,
		Offset:    paging.Skip(page),
	}

	if raw := q.Get("user_id"); raw != "" {
		oid, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			apierrors.BadRequest(w, "Usuário inválido")
			return
		}
		filter.UserID = &oid
	}
	if raw := q.Get("since"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			apierrors.BadRequest(w, "Data inicial inválida")
			return
		}
		filter.StartTime = &ts
	}
	if raw := q.Get("until"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			apierrors.BadRequest(w, "Data final inválida")
			return
		}
		filter.EndTime = &ts
	}

	events, err := h.Audit.Query(r.Context(), filter)
	if err != nil {
		h.ErrLog.Dependency(w, r, "query audit events", err)
		return
	}
	total, err := h.Audit.CountByFilter(r.Context(), filter)
	if err != nil {
		h.ErrLog.Dependency(w, r, "count audit events", err)
		return
	}

	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toResponse(e))
	}
	apierrors.JSON(w, http.StatusOK, listResponse{
		Events:   out,
		Total:    total,
		Page:     page,
		Pages:    paging.Pages(total),
		PageSize: paging.PageSize,
	})
}

// ServeFailedLogins handles GET /admin/audit/failed-logins. It covers
// the last 24 hours, which is what an administrator checking on a
// lockout complaint actually wants to see.
func (h *Handler) ServeFailedLogins(w http.ResponseWriter, r *http.Request) {
	since := time.Now().Add(-24 * time.Hour)
	events, err := h.Audit.GetFailedLogins(r.Context(), since, paging.PageSize)
	if err != nil {
		h.ErrLog.Dependency(w, r, "query failed logins", err)
		return
	}
	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toResponse(e))
	}
	apierrors.JSON(w, http.StatusOK, map[string]any{"events": out})
}
