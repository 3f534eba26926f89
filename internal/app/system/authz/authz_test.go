// internal/app/system/authz/authz_test.go
package authz_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matheusmeigre/docportal/internal/app/policy/rolepolicy"
	"github.com/matheusmeigre/docportal/internal/app/system/auth"
	"github.com/matheusmeigre/docportal/internal/app/system/authz"
	"github.com/matheusmeigre/docportal/internal/domain/models"
)

func TestCapsAnonymous(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, _, ok := authz.Caps(r); ok {
		t.Fatal("expected ok=false for anonymous request")
	}
}

func TestCapsRoleless(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = auth.WithTestUser(r, &auth.SessionUser{ID: "u1", Email: "a@b.co"})

	u, caps, ok := authz.Caps(r)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if u.ID != "u1" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if caps != (rolepolicy.Capabilities{}) {
		t.Fatalf("roleless user should have no capabilities, got %+v", caps)
	}
}

func TestCapsGerente(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = auth.WithTestUser(r, &auth.SessionUser{ID: "u1", Role: models.RoleGerente})

	_, caps, ok := authz.Caps(r)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if !caps.CanDelete || !caps.CanManageUsers {
		t.Fatalf("expected full capabilities for Gerente, got %+v", caps)
	}
}

func TestRequire(t *testing.T) {
	handler := authz.Require(func(c rolepolicy.Capabilities) bool { return c.CanManageCategories })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	tests := []struct {
		name string
		user *auth.SessionUser
		want int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"analista", &auth.SessionUser{ID: "u1", Role: models.RoleAnalista}, http.StatusForbidden},
		{"coordenador", &auth.SessionUser{ID: "u1", Role: models.RoleCoordenador}, http.StatusOK},
		{"gerente", &auth.SessionUser{ID: "u1", Role: models.RoleGerente}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.user != nil {
				r = auth.WithTestUser(r, tt.user)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)
			if w.Code != tt.want {
				t.Fatalf("want %d, got %d", tt.want, w.Code)
			}
		})
	}
}
