// internal/app/system/authz/authz.go
//
// Thin glue between the request context and the role capability table.
// Handlers ask "what can the caller do" instead of repeating role
// string comparisons.
package authz

import (
	"net/http"

	"github.com/matheusmeigre/docportal/internal/app/policy/rolepolicy"
	"github.com/matheusmeigre/docportal/internal/app/system/apierrors"
	"github.com/matheusmeigre/docportal/internal/app/system/auth"
)

// Caps returns the caller with their capability set. ok is false for
// anonymous requests. A signed-in user with no role assignment gets
// the all-false capability set.
func Caps(r *http.Request) (*auth.SessionUser, rolepolicy.Capabilities, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return nil, rolepolicy.Capabilities{}, false
	}
	return u, rolepolicy.For(u.Role), true
}

// Require guards a route with a capability predicate. Anonymous
// callers get 401, callers whose capabilities fail the check get 403.
func Require(check func(rolepolicy.Capabilities) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, caps, ok := Caps(r)
			if !ok {
				apierrors.Unauthorized(w, "Missing bearer token")
				return
			}
			if !check(caps) {
				apierrors.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
