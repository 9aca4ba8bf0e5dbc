package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/thingmesh/telemetry-go/internal/auth"
	"github.com/thingmesh/telemetry-go/internal/util"
)

type ctxKey int

const claimsKey ctxKey = iota

// requireToken verifies the bearer token before the handler runs. A
// verification failure short-circuits without touching the store or
// the transport.
func (h *handlers) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := h.verifier.Verify(r.Header.Get("Authorization"))
		if err != nil {
			if errors.Is(err, auth.ErrUnauthenticated) {
				util.WriteError(w, http.StatusUnauthorized, "unauthenticated", "missing Bearer token")
				return
			}
			util.WriteError(w, http.StatusForbidden, "forbidden", "invalid or expired token")
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromContext returns the verified claims attached by
// requireToken.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}
