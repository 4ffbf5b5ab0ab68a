package middleware

import (
	"context"
	"net/http"
	"strings"
)

type ownerKey struct{}

// ResolveOwner pulls the already-authenticated owner identity from the
// X-Owner-ID header (identity resolution happens upstream; this service
// only needs to know who owns what).
func ResolveOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner := strings.TrimSpace(r.Header.Get("X-Owner-ID"))
		if owner != "" {
			r = r.WithContext(context.WithValue(r.Context(), ownerKey{}, owner))
		}
		next.ServeHTTP(w, r)
	})
}

// OwnerID returns the resolved owner for the request, "" when absent.
func OwnerID(ctx context.Context) string {
	if v, ok := ctx.Value(ownerKey{}).(string); ok {
		return v
	}
	return ""
}
