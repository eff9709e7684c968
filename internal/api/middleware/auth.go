package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gregp1985/gregorys-bistro/internal/api/handlers"
)

// Identity headers set by the edge gateway. The gateway has already
// authenticated the caller; this service only reads the result.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"

	RoleStaff = "staff"
)

type ctxKey int

const identityKey ctxKey = iota

// Identity is the authenticated caller as asserted by the gateway.
type Identity struct {
	UserID  int64
	IsStaff bool
}

// Auth requires a valid X-User-ID header and puts the caller's identity
// into the request context.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userIDStr := r.Header.Get(HeaderUserID)
		if userIDStr == "" {
			handlers.RespondUnauthorized(w, "missing "+HeaderUserID+" header")
			return
		}

		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, "invalid "+HeaderUserID+" header")
			return
		}

		identity := Identity{
			UserID:  userID,
			IsStaff: r.Header.Get(HeaderUserRole) == RoleStaff,
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// StaffOnly rejects non-staff callers. Must run after Auth.
func StaffOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			handlers.RespondUnauthorized(w, "missing caller identity")
			return
		}
		if !identity.IsStaff {
			handlers.RespondForbidden(w, "staff access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// IdentityFromContext returns the caller identity set by Auth.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}

// GetUserID is a shorthand for handlers that only need the user id.
func GetUserID(ctx context.Context) (int64, bool) {
	identity, ok := IdentityFromContext(ctx)
	return identity.UserID, ok
}
