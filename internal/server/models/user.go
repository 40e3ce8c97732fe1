// Package models holds the persistent data structures shared by the
// repositories and services.
package models

import "time"

// User is the directory record for one account. PasswordHash and RefreshToken
// never leave the server; outward-facing code works with PublicUser.
type User struct {
	ID            string    `db:"id"`
	Username      string    `db:"username"`
	Email         string    `db:"email"`
	FullName      string    `db:"full_name"`
	AvatarURL     string    `db:"avatar_url"`
	CoverImageURL string    `db:"cover_image_url"`
	PasswordHash  string    `db:"password_hash"`
	// RefreshToken is the single refresh token considered valid for this
	// user at any instant. nil means the user has no active session.
	RefreshToken *string   `db:"refresh_token"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// PublicUser is the sanitized projection of User returned to clients.
type PublicUser struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	AvatarURL     string    `json:"avatar,omitempty"`
	CoverImageURL string    `json:"coverImage,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Public returns the sanitized view of the user, excluding the password hash
// and the stored refresh token.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		FullName:      u.FullName,
		AvatarURL:     u.AvatarURL,
		CoverImageURL: u.CoverImageURL,
		CreatedAt:     u.CreatedAt,
	}
}
