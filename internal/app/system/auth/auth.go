// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/matheusmeigre/docportal/internal/app/system/apierrors"
	"go.uber.org/zap"
)

const (
	isAuthKey = "is_authenticated"
	userIDKey = "user_id"
	userEmail = "user_email"
)

// SessionUser is the authenticated caller injected into r.Context().
// Role is re-derived from the role store on every request, never read
// from the cookie or from anything the client sent, so a role change
// or revocation takes effect immediately.
type SessionUser struct {
	ID    string
	Email string
	Role  string // empty when the user has no role assignment
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user in context and a found flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// TokenVerifier resolves a bearer token to a user. Implemented by the
// identity provider.
type TokenVerifier interface {
	UserForToken(ctx context.Context, token string) (userID, email string, err error)
}

// RoleResolver returns the user's assigned role, or "" when the user
// has none. Implemented by the role assignment store.
type RoleResolver interface {
	RoleOf(ctx context.Context, userID string) (string, error)
}

// SessionManager owns cookie-session handling and bearer-token
// authentication. Both paths converge on the same SessionUser.
type SessionManager struct {
	store  *sessions.CookieStore
	name   string
	tokens TokenVerifier
	roles  RoleResolver
	log    *zap.Logger
}

// NewSessionManager builds a SessionManager. An empty session key is
// replaced with a random one (sessions won't survive restarts; fine for
// dev, logged loudly).
func NewSessionManager(sessionKey, name, domain string, secure bool, tokens TokenVerifier, roles RoleResolver, logger *zap.Logger) (*SessionManager, error) {
	if name == "" {
		return nil, fmt.Errorf("session cookie name is empty")
	}
	key := []byte(sessionKey)
	if len(key) == 0 {
		key = securecookie.GenerateRandomKey(32)
		logger.Warn("session key not configured; generated a volatile random key")
	} else if len(key) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(key)))
	}

	store := sessions.NewCookieStore(key)
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	return &SessionManager{
		store:  store,
		name:   name,
		tokens: tokens,
		roles:  roles,
		log:    logger,
	}, nil
}

// SignIn records the user in the cookie session. Only the identity is
// stored; the role is looked up fresh on each request.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, userID, email string) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = userID
	sess.Values[userEmail] = email
	return sess.Save(r, w)
}

// SignOut clears the cookie session.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Options.MaxAge = -1
	sess.Values = map[interface{}]interface{}{}
	return sess.Save(r, w)
}

// LoadUser authenticates the request if possible and injects the
// SessionUser into context. Order: Authorization bearer token first,
// then the cookie session. Requests without credentials pass through
// anonymous; RequireSignedIn is the enforcement point.
func (sm *SessionManager) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := sm.userFromBearer(r); ok {
			next.ServeHTTP(w, withUser(r, user))
			return
		}
		if user, ok := sm.userFromSession(r); ok {
			next.ServeHTTP(w, withUser(r, user))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (sm *SessionManager) userFromBearer(r *http.Request) (*SessionUser, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return nil, false
	}

	userID, email, err := sm.tokens.UserForToken(r.Context(), token)
	if err != nil {
		// Invalid or expired: treat as anonymous and let the
		// enforcement middleware produce the 401.
		return nil, false
	}
	return sm.resolve(r.Context(), userID, email), true
}

func (sm *SessionManager) userFromSession(r *http.Request) (*SessionUser, bool) {
	sess, _ := sm.store.Get(r, sm.name)
	if isAuth, _ := sess.Values[isAuthKey].(bool); !isAuth {
		return nil, false
	}
	userID := getString(sess, userIDKey)
	if userID == "" {
		return nil, false
	}
	return sm.resolve(r.Context(), userID, getString(sess, userEmail)), true
}

// resolve attaches the freshly looked-up role. A lookup failure leaves
// the role empty, which fails closed everywhere downstream.
func (sm *SessionManager) resolve(ctx context.Context, userID, email string) *SessionUser {
	role, err := sm.roles.RoleOf(ctx, userID)
	if err != nil {
		sm.log.Warn("role lookup failed; continuing with no role",
			zap.String("user_id", userID),
			zap.Error(err))
		role = ""
	}
	return &SessionUser{ID: userID, Email: email, Role: role}
}

// RequireSignedIn rejects anonymous requests with a 401.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			apierrors.Unauthorized(w, "Missing bearer token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects signed-in callers whose resolved role is not in
// the allowed set. Anonymous callers get a 401.
func (sm *SessionManager) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				apierrors.Unauthorized(w, "Missing bearer token")
				return
			}
			if _, has := set[u.Role]; !has {
				apierrors.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithTestUser injects a user into the request context, bypassing the
// middleware. Test helper only.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}
