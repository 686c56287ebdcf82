package middleware

import (
	"context"
	"net/http"
)

// MembershipChecker reports whether a user id may use the data routes.
type MembershipChecker interface {
	IsWhitelisted(ctx context.Context, userID string) (bool, error)
}

// RequireWhitelist gates data routes behind household membership. It
// must run after Auth so the user id is in the request context. A failed
// check counts as not whitelisted.
func RequireWhitelist(checker MembershipChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserID(r.Context())
			if !ok {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			member, err := checker.IsWhitelisted(r.Context(), userID)
			if err != nil || !member {
				http.Error(w, "Account is not whitelisted", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
