package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/privalytics/riskpipe/pkg/auth"
	"github.com/privalytics/riskpipe/pkg/logging"
)

// Context key for storing claims
type contextKey string

const claimsContextKey contextKey = "claims"

// requireAuth validates the bearer token and stores claims in the request
// context for handlers to read.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || token == "" {
			s.metricsRegistry.AuthFailuresTotal.Inc()
			s.respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := s.tokenValidator.ValidateToken(r.Context(), token)
		if err != nil {
			s.logger.Warn("token validation failed", logging.Error(err))
			s.metricsRegistry.AuthFailuresTotal.Inc()
			s.respondError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		// The user may have been deleted since the token was issued.
		if _, err := s.userStore.GetUserByID(claims.UserID); err != nil {
			s.metricsRegistry.AuthFailuresTotal.Inc()
			s.respondError(w, http.StatusUnauthorized, "user not found")
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// requireAdmin validates the bearer token and requires the admin role.
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFromContext(r)
		if !ok {
			s.respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if claims.Role != auth.RoleAdmin {
			s.metricsRegistry.SecurityUnauthorizedAccessTotal.Inc()
			s.respondError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// claimsFromContext returns the validated claims stored by requireAuth.
func claimsFromContext(r *http.Request) (*auth.Claims, bool) {
	claims, ok := r.Context().Value(claimsContextKey).(*auth.Claims)
	return claims, ok
}
