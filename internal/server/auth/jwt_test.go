package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/streamhub/authd/internal/common"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	claims := Claims{
		UserID:   "user-123",
		Username: "alice",
		Email:    "alice@example.com",
		FullName: "Alice Example",
	}

	tok, err := GenerateToken(claims, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	got, err := ParseToken(tok, secret)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if got.UserID != claims.UserID {
		t.Fatalf("UserID mismatch: got %q want %q", got.UserID, claims.UserID)
	}
	if got.Username != claims.Username || got.Email != claims.Email || got.FullName != claims.FullName {
		t.Fatalf("profile claims mismatch: got %+v", got)
	}
	if got.IssuedAt == nil || got.ExpiresAt == nil {
		t.Fatalf("expected iat and exp to be stamped, got %+v", got)
	}
}

func TestGenerateToken_UniqueTokenIDs(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	claims := Claims{UserID: "u1"}

	a, err := GenerateToken(claims, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	b, err := GenerateToken(claims, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	// Identical claims minted back to back must still produce distinct tokens.
	if a == b {
		t.Fatalf("two tokens with identical claims are byte-identical")
	}

	got, err := ParseToken(a, secret)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if got.ID == "" {
		t.Fatalf("expected a token ID to be stamped")
	}
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	tok, err := GenerateToken(Claims{UserID: "u1"}, secret, -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = ParseToken(tok, secret)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken(Claims{UserID: "u2"}, []byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = ParseToken(tok, []byte("wrong-secret"))
	if !errors.Is(err, common.ErrTokenMalformed) {
		t.Fatalf("expected common.ErrTokenMalformed, got %v", err)
	}
}

func TestParseToken_TamperedPayload(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := GenerateToken(Claims{UserID: "u3"}, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	// Flip a byte in the payload segment; the signature no longer matches.
	b := []byte(tok)
	mid := len(b) / 2
	if b[mid] == 'a' {
		b[mid] = 'b'
	} else {
		b[mid] = 'a'
	}

	_, err = ParseToken(string(b), secret)
	if !errors.Is(err, common.ErrTokenMalformed) && !errors.Is(err, common.ErrTokenUnparseable) {
		t.Fatalf("expected malformed or unparseable, got %v", err)
	}
}

func TestParseToken_Garbage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"not a token", "hello world"},
		{"two segments", "abc.def"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseToken(tc.input, []byte("secret"))
			if !errors.Is(err, common.ErrTokenUnparseable) {
				t.Fatalf("expected common.ErrTokenUnparseable, got %v", err)
			}
		})
	}
}

func TestParseToken_RejectsUnexpectedAlg(t *testing.T) {
	t.Parallel()

	// alg=none with an empty signature must never validate.
	unsigned := "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0.eyJ1aWQiOiJ1MSJ9."
	_, err := ParseToken(unsigned, []byte("secret"))
	if err == nil {
		t.Fatalf("expected error for alg=none token")
	}
}
