// Package users declares the server-side repository contract for the user
// directory, including the single-field refresh-token store.
package users

import (
	"context"

	"github.com/streamhub/authd/internal/server/models"
)

// Repository defines operations on user records. Implementations return
// common.ErrorNotFound when the addressed user does not exist.
type Repository interface {
	// Create inserts a new user and returns it with generated fields filled
	// in. A duplicate username or email yields common.ErrAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByID returns the user with the given id.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByLogin resolves an identifier to a user record. The identifier is
	// matched against the username (normalized to lowercase) or the email
	// (compared as given).
	GetByLogin(ctx context.Context, identifier string) (*models.User, error)

	// SetRefreshToken overwrites the stored refresh token in a single
	// round trip. A nil token clears it.
	SetRefreshToken(ctx context.Context, userID string, token *string) error

	// RotateRefreshToken replaces current with next only if current is
	// still the stored value. The write is a single conditional statement;
	// a lost race or superseded token yields common.ErrStaleCredential.
	RotateRefreshToken(ctx context.Context, userID, current, next string) error

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, userID, passwordHash string) error

	// UpdateAccount updates the mutable profile fields and returns the
	// updated record.
	UpdateAccount(ctx context.Context, userID, fullName, email string) (*models.User, error)

	// UpdateAvatar stores a new avatar URL and returns the updated record.
	UpdateAvatar(ctx context.Context, userID, url string) (*models.User, error)

	// UpdateCoverImage stores a new cover image URL and returns the updated record.
	UpdateCoverImage(ctx context.Context, userID, url string) (*models.User, error)
}
