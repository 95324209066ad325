package auth

import (
	"log/slog"
	"net/http"

	"github.com/leaguehq/leaguehq-auth/internal/models"
	httpx "github.com/leaguehq/leaguehq-auth/pkg/http"
)

// RequireSession verifies the bearer token and records the authenticated
// user in the RequestContext. Routes behind it can assume UserID is set.
func RequireSession(tm *TokenManager, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := httpx.BearerToken(r)
			if token == "" {
				httpx.RespondError(w, logger, models.ErrInvalidToken.WithMessage("missing bearer token"))
				return
			}

			userID, err := tm.Verify(token)
			if err != nil {
				httpx.RespondError(w, logger, err)
				return
			}

			rc := FromContext(r.Context())
			rc.UserID = userID
			rc.Token = token
			next.ServeHTTP(w, r.WithContext(WithRequestContext(r.Context(), rc)))
		})
	}
}
