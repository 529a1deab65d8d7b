package middleware

import (
	"net/http"
	"strings"

	"proxima/backend/projects-service/logging"
	"proxima/backend/projects-service/services"
	"proxima/backend/projects-service/utils"
)

// JWTAuthMiddleware guards a route tree with bearer-token authentication.
// On success the authenticated user id is set on the User-ID header for the
// handlers downstream. Revoked tokens are rejected via the blacklist.
func JWTAuthMiddleware(blacklist *services.TokenBlacklist) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logging.Logger.Warnf("Event ID: JWT_AUTH_MISSING_HEADER, Description: Authorization header missing for request to %s %s", r.Method, r.URL.Path)
				http.Error(w, "Authorization header missing", http.StatusUnauthorized)
				return
			}

			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := utils.ValidateToken(tokenStr)
			if err != nil {
				logging.Logger.Warnf("Event ID: JWT_AUTH_INVALID_TOKEN, Description: Invalid token provided for request to %s %s: %v", r.Method, r.URL.Path, err)
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			if blacklist != nil {
				revoked, err := blacklist.Contains(r.Context(), tokenStr)
				if err != nil {
					logging.Logger.Errorf("Event ID: JWT_AUTH_BLACKLIST_ERROR, Description: Blacklist lookup failed for request to %s %s: %v", r.Method, r.URL.Path, err)
					http.Error(w, "Authorization check failed", http.StatusInternalServerError)
					return
				}
				if revoked {
					logging.Logger.Warnf("Event ID: JWT_AUTH_REVOKED_TOKEN, Description: Revoked token presented for request to %s %s", r.Method, r.URL.Path)
					http.Error(w, "Invalid token", http.StatusUnauthorized)
					return
				}
			}

			r.Header.Set("User-ID", claims.UserID)
			next.ServeHTTP(w, r)
		})
	}
}
