package testutil

import (
	"net/http"

	"github.com/matheusmeigre/docportal/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AnalistaUser returns a context user with the Analista role.
func AnalistaUser() *auth.SessionUser {
	return &auth.SessionUser{
		ID:    primitive.NewObjectID().Hex(),
		Email: "analista@test.com",
		Role:  "Analista",
	}
}

// CoordenadorUser returns a context user with the Coordenador role.
func CoordenadorUser() *auth.SessionUser {
	return &auth.SessionUser{
		ID:    primitive.NewObjectID().Hex(),
		Email: "coordenador@test.com",
		Role:  "Coordenador",
	}
}

// GerenteUser returns a context user with the Gerente role.
func GerenteUser() *auth.SessionUser {
	return &auth.SessionUser{
		ID:    primitive.NewObjectID().Hex(),
		Email: "gerente@test.com",
		Role:  "Gerente",
	}
}

// WithUser injects the user into the request context the same way the
// session middleware does.
func WithUser(r *http.Request, u *auth.SessionUser) *http.Request {
	return auth.WithTestUser(r, u)
}
