// internal/app/features/auditlog/handler_test.go
package auditlog_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matheusmeigre/docportal/internal/app/features/auditlog"
	"github.com/matheusmeigre/docportal/internal/app/store/audit"
	"github.com/matheusmeigre/docportal/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newHandler(t *testing.T) *auditlog.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return auditlog.NewHandler(db, zap.NewNop())
}

func seedEvent(t *testing.T, h *auditlog.Handler, category, eventType string, success bool, at time.Time) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	uid := primitive.NewObjectID()
	err := h.Audit.Log(ctx, audit.Event{
		Timestamp: at,
		Category:  category,
		EventType: eventType,
		UserID:    &uid,
		IP:        "10.0.0.1",
		Success:   success,
	})
	if err != nil {
		t.Fatalf("seed audit event: %v", err)
	}
}

type listBody struct {
	Events []struct {
		Category  string `json:"category"`
		EventType string `json:"event_type"`
		IP        string `json:"ip"`
	} `json:"events"`
	Total    int64 `json:"total"`
	PageSize int   `json:"page_size"`
}

func TestServeList_FiltersByCategory(t *testing.T) {
	h := newHandler(t)
	now := time.Now()
	seedEvent(t, h, audit.CategoryAuth, audit.EventLoginSuccess, true, now.Add(-2*time.Minute))
	seedEvent(t, h, audit.CategoryAdmin, audit.EventUserCreated, true, now.Add(-time.Minute))
	seedEvent(t, h, audit.CategoryDocument, audit.EventDocumentApproved, true, now)

	req := httptest.NewRequest("GET", "/admin/audit?category=admin", nil)
	rec := httptest.NewRecorder()
	h.ServeList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var got listBody
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if got.Total != 1 || len(got.Events) != 1 {
		t.Fatalf("expected exactly one admin event, got total=%d events=%d", got.Total, len(got.Events))
	}
	if got.Events[0].EventType != audit.EventUserCreated {
		t.Errorf("EventType: got %q, want %q", got.Events[0].EventType, audit.EventUserCreated)
	}
	if got.PageSize != 20 {
		t.Errorf("PageSize: got %d, want 20", got.PageSize)
	}
}

func TestServeList_TimeWindow(t *testing.T) {
	h := newHandler(t)
	now := time.Now().Truncate(time.Second)
	seedEvent(t, h, audit.CategoryAuth, audit.EventLoginSuccess, true, now.Add(-48*time.Hour))
	seedEvent(t, h, audit.CategoryAuth, audit.EventLoginSuccess, true, now)

	since := now.Add(-time.Hour).Format(time.RFC3339)
	req := httptest.NewRequest("GET", "/admin/audit?since="+since, nil)
	rec := httptest.NewRecorder()
	h.ServeList(rec, req)

	var got listBody
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if got.Total != 1 {
		t.Errorf("Total: got %d, want 1 event inside the window", got.Total)
	}
}

func TestServeList_BadParams(t *testing.T) {
	h := newHandler(t)

	cases := []struct {
		name string
		url  string
	}{
		{"malformed user id", "/admin/audit?user_id=nope"},
		{"malformed since", "/admin/audit?since=yesterday"},
		{"malformed until", "/admin/audit?until=tomorrow"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeList(rec, httptest.NewRequest("GET", tc.url, nil))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400", rec.Code)
			}
		})
	}
}

func TestServeFailedLogins(t *testing.T) {
	h := newHandler(t)
	now := time.Now()
	seedEvent(t, h, audit.CategoryAuth, audit.EventLoginFailedWrongPassword, false, now.Add(-time.Minute))
	seedEvent(t, h, audit.CategoryAuth, audit.EventLoginSuccess, true, now)
	// Too old to show up.
	seedEvent(t, h, audit.CategoryAuth, audit.EventLoginFailedUserNotFound, false, now.Add(-48*time.Hour))

	req := httptest.NewRequest("GET", "/admin/audit/failed-logins", nil)
	rec := httptest.NewRecorder()
	h.ServeFailedLogins(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	var got struct {
		Events []struct {
			EventType string `json:"event_type"`
		} `json:"events"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(got.Events) != 1 {
		t.Fatalf("expected one recent failed login, got %d", len(got.Events))
	}
	if got.Events[0].EventType != audit.EventLoginFailedWrongPassword {
		t.Errorf("EventType: got %q", got.Events[0].EventType)
	}
}
