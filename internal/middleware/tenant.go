package middleware

import (
	"net/http"

	"github.com/leaguehq/leaguehq-auth/internal/auth"
	"github.com/leaguehq/leaguehq-auth/internal/tenant"
)

// ResolveTenant derives the tenant from the Origin header and stores the
// RequestContext. Resolution never fails: an origin that identifies no
// tenant yields the degraded empty tenant and the request proceeds, scoped
// to nothing.
func ResolveTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = r.Header.Get("Referer")
		}

		rc := auth.RequestContext{Tenant: tenant.Resolve(origin)}
		next.ServeHTTP(w, r.WithContext(auth.WithRequestContext(r.Context(), rc)))
	})
}
