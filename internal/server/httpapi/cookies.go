package httpapi

import (
	"net/http"
	"time"

	"github.com/streamhub/authd/internal/common"
	"github.com/streamhub/authd/internal/server/services"
)

// cookieWriter stamps the credential pair onto responses. It is built once
// from server config and passed by reference into the handlers; there is no
// shared mutable options object.
type cookieWriter struct {
	secure     bool
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func newCookieWriter(secure bool, accessTTL, refreshTTL time.Duration) *cookieWriter {
	return &cookieWriter{secure: secure, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func (c *cookieWriter) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// setTokenPair stores both credentials on the response.
func (c *cookieWriter) setTokenPair(w http.ResponseWriter, pair *services.TokenPair) {
	http.SetCookie(w, c.cookie(common.AccessTokenCookieName, pair.AccessToken, int(c.accessTTL.Seconds())))
	http.SetCookie(w, c.cookie(common.RefreshTokenCookieName, pair.RefreshToken, int(c.refreshTTL.Seconds())))
}

// clearTokenPair drops both credential channels.
func (c *cookieWriter) clearTokenPair(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie(common.AccessTokenCookieName, "", -1))
	http.SetCookie(w, c.cookie(common.RefreshTokenCookieName, "", -1))
}
