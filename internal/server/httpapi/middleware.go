package httpapi

import (
	"net/http"
	"strings"

	"github.com/streamhub/authd/internal/common"
)

// extractAccessToken pulls the access token off the request: the cookie is
// preferred, with the Authorization header as fallback. The scheme prefix is
// matched case-sensitively.
func extractAccessToken(r *http.Request) string {
	if c, err := r.Cookie(common.AccessTokenCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	value := r.Header.Get(common.AuthorizationHeaderName)
	if strings.HasPrefix(value, common.BearerSchemePrefix) {
		return strings.TrimPrefix(value, common.BearerSchemePrefix)
	}
	return ""
}

// requireAuth gates protected routes. It verifies the access token, resolves
// the subject against the directory, and attaches the sanitized identity to
// the request context. Every request re-verifies; nothing is cached across
// requests.
func (a *API) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractAccessToken(r)
		if token == "" {
			writeError(w, common.ErrMissingCredential)
			return
		}

		identity, err := a.users.Authenticate(r.Context(), token)
		if err != nil {
			a.logger.Debug(r.Context(), "request authentication failed", "error", err)
			writeError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), identity)))
	})
}
