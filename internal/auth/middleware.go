package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"botbridge-backend/internal/types"
)

type contextKey struct{}

var claimsKey contextKey

// TokenFromRequest pulls the bearer token from the Authorization header, or
// from the access_token query parameter for clients that cannot set headers
// (the browser WebSocket API at upgrade time).
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return r.URL.Query().Get("access_token")
}

// Middleware rejects requests without a valid bearer token and stores the
// verified claims on the request context.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := TokenFromRequest(r)
		if token == "" {
			unauthorized(w)
			return
		}
		claims, err := s.ValidateToken(token)
		if err != nil {
			s.log.Debugw("token rejected", "path", r.URL.Path, "error", err)
			unauthorized(w)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

// ClaimsFromContext returns the claims stored by Middleware, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: "unauthorized"})
}
