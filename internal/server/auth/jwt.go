// Package auth implements the credential primitives of the server: a JWT
// token codec (HS256) and a bcrypt password hasher.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/streamhub/authd/internal/common"
)

// Claims is the claim set embedded in issued tokens. Access tokens carry the
// profile fields in addition to UserID; refresh tokens carry UserID only.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"uid"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"fullName,omitempty"`
}

// GenerateToken signs claims with HS256, stamping IssuedAt=now,
// ExpiresAt=now+validity, and a random token ID. The token ID keeps two
// tokens minted within the same second from being byte-identical. The secret
// key is process-wide configuration and is never rotated at runtime.
func GenerateToken(claims Claims, secretKey []byte, validity time.Duration) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(validity))

	jti, err := common.MakeRandHexString(16)
	if err != nil {
		return "", err
	}
	claims.ID = jti

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies a token string and returns its claims. Failures are
// reported as one of three sentinels so that callers can react differently:
//
//   - common.ErrTokenExpired: valid signature, past expiry
//   - common.ErrTokenMalformed: token-shaped but forged or structurally invalid
//   - common.ErrTokenUnparseable: not token-shaped input at all
//
// Callers must not treat a malformed token as a candidate for refresh-token
// comparison; it is considered forged.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, common.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, common.ErrTokenUnparseable
		default:
			return nil, common.ErrTokenMalformed
		}
	}

	if !token.Valid {
		return nil, common.ErrTokenMalformed
	}

	return claims, nil
}
