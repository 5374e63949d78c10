package middleware

import (
	"context"
	"net/http"
	"strings"

	"takatrack-backend/pkg/utils"

	"go.uber.org/zap"
)

type contextKey string

const UserContextKey contextKey = "user_id"

// TokenVerifier resolves a bearer token to the id of the user it was issued for.
type TokenVerifier interface {
	Identity(token string) (int64, error)
}

type AuthOptions struct {
	// Enforce rejects requests without an Authorization header. When false
	// such requests run as DemoUserID.
	Enforce    bool
	DemoUserID int64
}

// Auth middleware validates the bearer token and adds the user id to context.
// A token that is present but invalid is rejected in every mode.
func Auth(v TokenVerifier, opts AuthOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := zap.S()

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				if opts.Enforce {
					log.Debugw("❌ No authorization header", "path", r.URL.Path)
					utils.RespondError(w, http.StatusUnauthorized, "Authorization token is required")
					return
				}
				next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), opts.DemoUserID)))
				return
			}

			// Extract Bearer token
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				log.Debugw("❌ Invalid authorization header format", "parts", len(parts))
				utils.RespondError(w, http.StatusUnauthorized, "Invalid authorization header")
				return
			}

			userID, err := v.Identity(parts[1])
			if err != nil {
				log.Debugw("❌ Invalid token", "path", r.URL.Path, "error", err)
				utils.RespondError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, UserContextKey, userID)
}

// GetUserFromContext extracts the authenticated user id from request context
func GetUserFromContext(r *http.Request) (int64, bool) {
	userID, ok := r.Context().Value(UserContextKey).(int64)
	return userID, ok
}
