package http

import (
	"context"
	"net/http"
	"strings"

	"rentaride-backend/internal/domain"
	"rentaride-backend/internal/security"
)

type contextKey string

const claimsKey contextKey = "party-claims"

// AuthMiddleware validates the Bearer token issued by the external identity
// service and stores the party claims on the request context.
func AuthMiddleware(tokens security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token", Code: "UNAUTHENTICATED"})
				return
			}
			claims, err := tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error(), Code: "UNAUTHENTICATED"})
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CallerFromContext returns the authenticated party as a recipient.
func CallerFromContext(ctx context.Context) (domain.Recipient, bool) {
	claims, ok := ctx.Value(claimsKey).(*security.PartyClaims)
	if !ok {
		return domain.Recipient{}, false
	}
	return domain.Recipient{Kind: claims.Kind, ID: claims.PartyID}, true
}
