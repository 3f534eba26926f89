// internal/app/features/login/handler_test.go
package login_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matheusmeigre/docportal/internal/app/features/login"
	accountstore "github.com/matheusmeigre/docportal/internal/app/store/accounts"
	rolestore "github.com/matheusmeigre/docportal/internal/app/store/roles"
	"github.com/matheusmeigre/docportal/internal/app/system/auth"
	"github.com/matheusmeigre/docportal/internal/domain/models"
	"github.com/matheusmeigre/docportal/internal/testutil"
	"go.uber.org/zap"
)

func newHandler(t *testing.T) (*login.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	accounts := accountstore.New(db, time.Hour)
	roles := rolestore.New(db)
	sm, err := auth.NewSessionManager("", "docportal_test", "", false, accounts, roles, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return login.NewHandler(db, accounts, sm, nil, zap.NewNop()), testutil.NewFixtures(t, db)
}

func postLogin(body string) (*http.Request, *httptest.ResponseRecorder) {
	r := httptest.NewRequest("POST", "/auth/login", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r, httptest.NewRecorder()
}

func TestHandleLogin_Success(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	acct := fx.CreateAccount(ctx, "coordenador@test.com")
	fx.AssignRole(ctx, acct.ID, models.RoleCoordenador)

	req, rec := postLogin(`{"email":"Coordenador@Test.com","password":"senha-teste"}`)
	h.HandleLogin(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	var got struct {
		Token string `json:"token"`
		User  struct {
			ID           string `json:"id"`
			Email        string `json:"email"`
			Role         string `json:"role"`
			Capabilities struct {
				CanApprove bool `json:"can_approve"`
				CanDelete  bool `json:"can_delete"`
			} `json:"capabilities"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if got.Token == "" {
		t.Error("expected a bearer token")
	}
	if got.User.Email != "coordenador@test.com" {
		t.Errorf("Email: got %q, want normalized address", got.User.Email)
	}
	if got.User.Role != models.RoleCoordenador {
		t.Errorf("Role: got %q, want %q", got.User.Role, models.RoleCoordenador)
	}
	if !got.User.Capabilities.CanApprove || got.User.Capabilities.CanDelete {
		t.Errorf("capabilities do not match role: %+v", got.User.Capabilities)
	}

	// The issued token resolves back to the account.
	userID, email, err := h.Accounts.UserForToken(ctx, got.Token)
	if err != nil {
		t.Fatalf("UserForToken failed: %v", err)
	}
	if userID != acct.ID.Hex() || email != acct.Email {
		t.Errorf("token resolved to (%s, %s), want (%s, %s)", userID, email, acct.ID.Hex(), acct.Email)
	}

	// A cookie session was established alongside the token.
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected a session cookie")
	}
}

func TestHandleLogin_WrongPassword(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateAccount(ctx, "analista@test.com")

	req, rec := postLogin(`{"email":"analista@test.com","password":"errada"}`)
	h.HandleLogin(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Email ou senha inválidos") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestHandleLogin_UnknownEmailSameAnswer(t *testing.T) {
	h, _ := newHandler(t)

	req, rec := postLogin(`{"email":"ninguem@test.com","password":"qualquer"}`)
	h.HandleLogin(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Email ou senha inválidos") {
		t.Errorf("unknown email must get the same message, got: %s", rec.Body.String())
	}
}

func TestHandleLogin_MalformedBody(t *testing.T) {
	h, _ := newHandler(t)

	req, rec := postLogin(`{not json`)
	h.HandleLogin(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
}

func TestServeMe(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	acct := fx.CreateAccount(ctx, "gerente@test.com")
	fx.AssignRole(ctx, acct.ID, models.RoleGerente)

	req := httptest.NewRequest("GET", "/auth/me", nil)
	req = testutil.WithUser(req, &auth.SessionUser{ID: acct.ID.Hex(), Email: acct.Email, Role: models.RoleGerente})
	rec := httptest.NewRecorder()
	h.ServeMe(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	var got struct {
		Role         string `json:"role"`
		Capabilities struct {
			CanManageUsers bool `json:"can_manage_users"`
		} `json:"capabilities"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if got.Role != models.RoleGerente || !got.Capabilities.CanManageUsers {
		t.Errorf("unexpected identity payload: %+v", got)
	}
}

func TestServeMe_Anonymous(t *testing.T) {
	h, _ := newHandler(t)

	req := httptest.NewRequest("GET", "/auth/me", nil)
	rec := httptest.NewRecorder()
	h.ServeMe(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want 401", rec.Code)
	}
}
