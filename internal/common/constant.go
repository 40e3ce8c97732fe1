// Package common contains shared constants and sentinel errors used across
// service components.
package common

const (
	// AccessTokenCookieName and RefreshTokenCookieName are the cookie names
	// under which the credential pair travels between client and server.
	AccessTokenCookieName  = "accessToken"
	RefreshTokenCookieName = "refreshToken"

	// AuthorizationHeaderName carries the access token when cookies are not
	// available; the value must use the BearerSchemePrefix.
	AuthorizationHeaderName = "Authorization"
	BearerSchemePrefix      = "Bearer "
)
