// internal/app/features/documents/handler_test.go
package documents_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matheusmeigre/docportal/internal/app/features/documents"
	documentstore "github.com/matheusmeigre/docportal/internal/app/store/documents"
	"github.com/matheusmeigre/docportal/internal/app/system/auth"
	"github.com/matheusmeigre/docportal/internal/domain/models"
	"github.com/matheusmeigre/docportal/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newHandler(t *testing.T) (*documents.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return documents.NewHandler(db, nil, zap.NewNop()), testutil.NewFixtures(t, db)
}

func sessionUser(id primitive.ObjectID, role string) *auth.SessionUser {
	return &auth.SessionUser{ID: id.Hex(), Email: role + "@test.com", Role: role}
}

func jsonReq(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func TestHandleCreate_AnalistaStartsAtRascunho(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	acct := fx.CreateAccount(ctx, "analista@test.com")
	req := jsonReq("POST", "/documents", `{"title":"Relatório Semanal","content":"dados da semana"}`)
	req = testutil.WithUser(req, sessionUser(acct.ID, models.RoleAnalista))

	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}

	var got models.Document
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if got.Status != models.StatusRascunho {
		t.Errorf("Status: got %q, want %q", got.Status, models.StatusRascunho)
	}
	if got.Version != 1 {
		t.Errorf("Version: got %d, want 1", got.Version)
	}
	if got.ApprovedBy != nil {
		t.Error("new draft should have no approver")
	}

	// Creation is snapshotted.
	entries, err := h.History.ListByDocument(ctx, got.ID)
	if err != nil {
		t.Fatalf("ListByDocument failed: %v", err)
	}
	if len(entries) != 1 || entries[0].ChangeType != models.ChangeCreated {
		t.Errorf("expected one 'created' history entry, got %+v", entries)
	}
}

func TestHandleCreate_GerenteStartsApproved(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	acct := fx.CreateAccount(ctx, "gerente@test.com")
	req := jsonReq("POST", "/documents", `{"title":"Política Interna","content":"texto"}`)
	req = testutil.WithUser(req, sessionUser(acct.ID, models.RoleGerente))

	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201", rec.Code)
	}

	var got models.Document
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if got.Status != models.StatusAprovado {
		t.Errorf("Status: got %q, want %q", got.Status, models.StatusAprovado)
	}
	if got.ApprovedBy == nil || got.ApprovedBy.Hex() != acct.ID.Hex() {
		t.Errorf("ApprovedBy: got %v, want creator", got.ApprovedBy)
	}
	if got.ApprovedAt == nil {
		t.Error("expected ApprovedAt to be stamped")
	}
}

func TestHandleCreate_Validation(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	acct := fx.CreateAccount(ctx, "analista@test.com")

	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"short title", `{"title":"ab","content":"x"}`, "title"},
		{"empty content", `{"title":"Título válido","content":"   "}`, "content"},
		{"script only content", `{"title":"Título válido","content":"<script>alert(1)</script>"}`, "content"},
		{"bad category", `{"title":"Título válido","content":"x","category_id":"zzz"}`, "category_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := jsonReq("POST", "/documents", tt.body)
			req = testutil.WithUser(req, sessionUser(acct.ID, models.RoleAnalista))
			rec := httptest.NewRecorder()
			h.HandleCreate(rec, req)

			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status: got %d, want 422", rec.Code)
			}
			var resp struct {
				Field string `json:"field"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to parse response: %v", err)
			}
			if resp.Field != tt.wantField {
				t.Errorf("field: got %q, want %q", resp.Field, tt.wantField)
			}
		})
	}
}

func TestHandleEdit_AnalistaOwnDraft(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	acct := fx.CreateAccount(ctx, "analista@test.com")
	doc := fx.CreateDocument(ctx, "Original", acct.ID, models.StatusRascunho)

	req := jsonReq("PUT", "/documents/"+doc.ID.Hex(), `{"title":"Título Editado","content":"novo conteúdo"}`)
	req = testutil.WithChiURLParam(req, "id", doc.ID.Hex())
	req = testutil.WithUser(req, sessionUser(acct.ID, models.RoleAnalista))

	rec := httptest.NewRecorder()
	h.HandleEdit(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var got models.Document
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if got.Title != "Título Editado" {
		t.Errorf("Title: got %q", got.Title)
	}
	if got.Version != 2 {
		t.Errorf("Version: got %d, want 2", got.Version)
	}
}

func TestHandleEdit_DeniedCases(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fx.CreateAccount(ctx, "autor@test.com")
	other := fx.CreateAccount(ctx, "outro@test.com")

	draft := fx.CreateDocument(ctx, "Rascunho Alheio", author.ID, models.StatusRascunho)
	approved := fx.CreateDocument(ctx, "Já Aprovado", author.ID, models.StatusAprovado)

	tests := []struct {
		name string
		doc  models.Document
		user *auth.SessionUser
	}{
		{"analista editing someone else's draft", draft, sessionUser(other.ID, models.RoleAnalista)},
		{"analista editing own approved document", approved, sessionUser(author.ID, models.RoleAnalista)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := jsonReq("PUT", "/documents/"+tt.doc.ID.Hex(), `{"title":"Tentativa","content":"x"}`)
			req = testutil.WithChiURLParam(req, "id", tt.doc.ID.Hex())
			req = testutil.WithUser(req, tt.user)
			rec := httptest.NewRecorder()
			h.HandleEdit(rec, req)

			if rec.Code != http.StatusForbidden {
				t.Fatalf("status: got %d, want 403", rec.Code)
			}
		})
	}
}

func TestServeView_Visibility(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fx.CreateAccount(ctx, "autor@test.com")
	other := fx.CreateAccount(ctx, "outro@test.com")

	draft := fx.CreateDocument(ctx, "Rascunho", author.ID, models.StatusRascunho)
	approved := fx.CreateDocument(ctx, "Aprovado", author.ID, models.StatusAprovado)

	tests := []struct {
		name string
		doc  models.Document
		user *auth.SessionUser
		want int
	}{
		{"author sees own draft", draft, sessionUser(author.ID, models.RoleAnalista), http.StatusOK},
		{"other analista cannot see draft", draft, sessionUser(other.ID, models.RoleAnalista), http.StatusForbidden},
		{"other analista sees approved", approved, sessionUser(other.ID, models.RoleAnalista), http.StatusOK},
		{"coordenador sees draft", draft, sessionUser(other.ID, models.RoleCoordenador), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/documents/"+tt.doc.ID.Hex(), nil)
			req = testutil.WithChiURLParam(req, "id", tt.doc.ID.Hex())
			req = testutil.WithUser(req, tt.user)
			rec := httptest.NewRecorder()
			h.ServeView(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status: got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestServeView_UnknownID(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	acct := fx.CreateAccount(ctx, "gerente@test.com")

	missing := primitive.NewObjectID().Hex()
	req := httptest.NewRequest("GET", "/documents/"+missing, nil)
	req = testutil.WithChiURLParam(req, "id", missing)
	req = testutil.WithUser(req, sessionUser(acct.ID, models.RoleGerente))

	rec := httptest.NewRecorder()
	h.ServeView(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", rec.Code)
	}
}

func TestServeList_RestrictsAnalista(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	viewer := fx.CreateAccount(ctx, "analista@test.com")
	other := fx.CreateAccount(ctx, "outro@test.com")

	fx.CreateDocument(ctx, "Meu Rascunho", viewer.ID, models.StatusRascunho)
	fx.CreateDocument(ctx, "Aprovado Alheio", other.ID, models.StatusAprovado)
	fx.CreateDocument(ctx, "Rascunho Alheio", other.ID, models.StatusRascunho)

	req := httptest.NewRequest("GET", "/documents", nil)
	req = testutil.WithUser(req, sessionUser(viewer.ID, models.RoleAnalista))
	rec := httptest.NewRecorder()
	h.ServeList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	var resp struct {
		Documents []models.Document `json:"documents"`
		Total     int64             `json:"total"`
		PageSize  int               `json:"page_size"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("Total: got %d, want 2", resp.Total)
	}
	if resp.PageSize != 20 {
		t.Errorf("PageSize: got %d, want 20", resp.PageSize)
	}
}

func TestServeList_BadStatusFilter(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	acct := fx.CreateAccount(ctx, "gerente@test.com")

	req := httptest.NewRequest("GET", "/documents?status=Pendente", nil)
	req = testutil.WithUser(req, sessionUser(acct.ID, models.RoleGerente))
	rec := httptest.NewRecorder()
	h.ServeList(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
}

func TestServeStats(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	acct := fx.CreateAccount(ctx, "gerente@test.com")
	other := fx.CreateAccount(ctx, "analista@test.com")
	fx.CreateDocument(ctx, "A", acct.ID, models.StatusRascunho)
	fx.CreateDocument(ctx, "B", acct.ID, models.StatusAprovado)
	fx.CreateDocument(ctx, "C", other.ID, models.StatusRascunho)

	req := httptest.NewRequest("GET", "/documents/stats", nil)
	req = testutil.WithUser(req, sessionUser(acct.ID, models.RoleGerente))
	rec := httptest.NewRecorder()
	h.ServeStats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	var resp struct {
		Total    int64 `json:"total"`
		Rascunho int64 `json:"rascunho"`
		MyDrafts int64 `json:"my_drafts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Total != 3 || resp.Rascunho != 2 {
		t.Errorf("stats: got %+v", resp)
	}
	if resp.MyDrafts != 1 {
		t.Errorf("MyDrafts: got %d, want only the caller's draft", resp.MyDrafts)
	}
}

func TestServeList_JoinsCategoryNames(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	acct := fx.CreateAccount(ctx, "gerente@test.com")
	cat := fx.CreateCategory(ctx, "Relatórios")
	doc := fx.CreateDocument(ctx, "Mensal", acct.ID, models.StatusAprovado)
	if _, err := h.Docs.UpdateContent(ctx, doc.ID, documentstore.ContentUpdate{
		Title:      doc.Title,
		Content:    doc.Content,
		CategoryID: &cat.ID,
	}); err != nil {
		t.Fatalf("attach category: %v", err)
	}

	req := httptest.NewRequest("GET", "/documents", nil)
	req = testutil.WithUser(req, sessionUser(acct.ID, models.RoleGerente))
	rec := httptest.NewRecorder()
	h.ServeList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	var resp struct {
		Documents []struct {
			Title        string `json:"title"`
			CategoryName string `json:"category_name"`
		} `json:"documents"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp.Documents) != 1 {
		t.Fatalf("expected one document, got %d", len(resp.Documents))
	}
	if resp.Documents[0].CategoryName != "Relatórios" {
		t.Errorf("CategoryName: got %q, want %q", resp.Documents[0].CategoryName, "Relatórios")
	}
}
