package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/apexcoatings/backoffice/internal/auth"
	"github.com/apexcoatings/backoffice/internal/database/models"
)

type contextKey string

const (
	SessionIDKey    contextKey = "session_id"
	UserIDKey       contextKey = "user_id"
	UserRoleKey     contextKey = "user_role"
	IsLocalAdminKey contextKey = "is_local_admin"
	CapabilitiesKey contextKey = "capabilities"
)

// SessionCookieName is the auth cookie. httpOnly, sameSite=lax, secure in
// production; set by the login handlers.
const SessionCookieName = "session_id"

// Auth resolves the session cookie to a server-side session record and
// attaches the identity plus its capability set to the request context. The
// capability set is computed once here, not re-derived at each gate.
func Auth(store auth.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			sess, err := store.Get(r.Context(), cookie.Value)
			if err != nil {
				// Covers not-found, TTL expiry, and failed token refresh.
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			caps := auth.CapabilitiesFor(sess.Role, sess.IsLocalAdmin)

			ctx := r.Context()
			ctx = context.WithValue(ctx, SessionIDKey, sess.ID)
			ctx = context.WithValue(ctx, UserIDKey, sess.UserID)
			ctx = context.WithValue(ctx, UserRoleKey, sess.Role)
			ctx = context.WithValue(ctx, IsLocalAdminKey, sess.IsLocalAdmin)
			ctx = context.WithValue(ctx, CapabilitiesKey, caps)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Require gates a route on a capability. Runs after Auth, so a missing
// capability means authenticated-but-unauthorized: 403.
func Require(c auth.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !GetCapabilities(r.Context()).Has(c) {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Helper functions to extract values from context

func GetSessionID(ctx context.Context) string {
	if id, ok := ctx.Value(SessionIDKey).(string); ok {
		return id
	}
	return ""
}

func GetUserID(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(UserIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

func GetUserRole(ctx context.Context) models.Role {
	if role, ok := ctx.Value(UserRoleKey).(models.Role); ok {
		return role
	}
	return ""
}

func IsLocalAdmin(ctx context.Context) bool {
	if v, ok := ctx.Value(IsLocalAdminKey).(bool); ok {
		return v
	}
	return false
}

func GetCapabilities(ctx context.Context) auth.CapabilitySet {
	if caps, ok := ctx.Value(CapabilitiesKey).(auth.CapabilitySet); ok {
		return caps
	}
	return 0
}
