// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, request authentication,
// refresh-token rotation, and logout.
package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/streamhub/authd/internal/common"
	"github.com/streamhub/authd/internal/dbx"
	"github.com/streamhub/authd/internal/server/auth"
	"github.com/streamhub/authd/internal/server/config"
	"github.com/streamhub/authd/internal/server/models"
	"github.com/streamhub/authd/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
// Both are minted together and the refresh token is persisted before the pair
// is handed to the caller.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService provides authentication-related operations:
//   - Register: create users
//   - Login: verify credentials and mint a token pair
//   - Refresh: rotate the refresh token and mint a new pair
//   - Authenticate: verify an access token and resolve its subject
//   - Logout: invalidate the active session
type UserService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	accessSecret    []byte
	refreshSecret   []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:              db,
		repomanager:     m,
		accessSecret:    []byte(cfg.AccessTokenSecret),
		refreshSecret:   []byte(cfg.RefreshTokenSecret),
		accessTokenTTL:  cfg.AccessTokenTTL,
		refreshTokenTTL: cfg.RefreshTokenTTL,
	}
}

// Register creates a new user with a freshly hashed password. The username is
// normalized to lowercase by the directory. Duplicate username or email
// yields common.ErrAlreadyExists.
func (s *UserService) Register(ctx context.Context, username, email, fullName, password string) (*models.PublicUser, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.Create(ctx, &models.User{
		Username:     username,
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("%w: creating user: %v", common.ErrPersistenceFailure, err)
	}

	return user.Public(), nil
}

// Login verifies the password for the user addressed by identifier (username
// or email) and, on success, mints a token pair. The new refresh token is
// persisted before the pair is returned; if persistence fails the computed
// tokens are discarded and common.ErrPersistenceFailure is returned, so no
// token is ever valid without its stored counterpart.
//
// ErrNoSuchUser and ErrBadCredentials are distinct for logging but must both
// render as a generic authentication failure at the boundary.
func (s *UserService) Login(ctx context.Context, identifier, password string) (*TokenPair, *models.PublicUser, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByLogin(ctx, identifier)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrNoSuchUser
		}
		return nil, nil, fmt.Errorf("%w: resolving user: %v", common.ErrPersistenceFailure, err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, nil, common.ErrBadCredentials
	}

	pair, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, err
	}

	if err := repo.SetRefreshToken(ctx, user.ID, &pair.RefreshToken); err != nil {
		return nil, nil, fmt.Errorf("%w: storing refresh token: %v", common.ErrPersistenceFailure, err)
	}

	return pair, user.Public(), nil
}

// Refresh validates a presented refresh token and rotates it. Validity
// requires a good signature, an unexpired claim set, and byte-for-byte
// equality with the stored token; the rotation itself is a conditional write,
// so of two concurrent refreshes with the same token exactly one wins and the
// other observes common.ErrStaleCredential.
func (s *UserService) Refresh(ctx context.Context, presented string) (*TokenPair, error) {
	if presented == "" {
		return nil, common.ErrMissingCredential
	}

	claims, err := auth.ParseToken(presented, s.refreshSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, common.ErrExpiredCredential
		}
		// Malformed or unparseable: treat as forged and stop before any
		// directory lookup.
		return nil, common.ErrInvalidCredential
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredential
		}
		return nil, fmt.Errorf("%w: resolving user: %v", common.ErrPersistenceFailure, err)
	}

	if user.RefreshToken == nil ||
		subtle.ConstantTimeCompare([]byte(*user.RefreshToken), []byte(presented)) != 1 {
		return nil, common.ErrStaleCredential
	}

	pair, err := s.generateTokenPair(user)
	if err != nil {
		return nil, err
	}

	if err := repo.RotateRefreshToken(ctx, user.ID, presented, pair.RefreshToken); err != nil {
		if errors.Is(err, common.ErrStaleCredential) {
			return nil, common.ErrStaleCredential
		}
		return nil, fmt.Errorf("%w: rotating refresh token: %v", common.ErrPersistenceFailure, err)
	}

	return pair, nil
}

// Authenticate verifies an access token and resolves its subject to a
// sanitized identity. Access tokens are self-contained; the directory lookup
// only confirms the account still exists.
func (s *UserService) Authenticate(ctx context.Context, accessToken string) (*models.PublicUser, error) {
	if accessToken == "" {
		return nil, common.ErrMissingCredential
	}

	claims, err := auth.ParseToken(accessToken, s.accessSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, common.ErrExpiredCredential
		}
		return nil, common.ErrInvalidCredential
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// A well-signed token whose subject no longer resolves is
			// adversarially reachable; reject it, don't crash.
			return nil, common.ErrInvalidCredential
		}
		return nil, fmt.Errorf("%w: resolving user: %v", common.ErrPersistenceFailure, err)
	}

	return user.Public(), nil
}

// Logout clears the stored refresh token, invalidating any outstanding
// refresh token for the user. Logging out an already-logged-out user is not
// an error; only a missing user yields common.ErrorNotFound.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	if err := s.repomanager.Users(s.db).SetRefreshToken(ctx, userID, nil); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("%w: clearing refresh token: %v", common.ErrPersistenceFailure, err)
	}
	return nil
}

// ChangePassword verifies the old password and stores a hash of the new one.
// The read and write run in one transaction so two concurrent changes cannot
// interleave.
func (s *UserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		user, err := repo.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorNotFound
			}
			return fmt.Errorf("%w: resolving user: %v", common.ErrPersistenceFailure, err)
		}

		if !auth.CheckPassword(oldPassword, user.PasswordHash) {
			return common.ErrBadCredentials
		}

		hash, err := auth.HashPassword(newPassword)
		if err != nil {
			return err
		}

		if err := repo.UpdatePassword(ctx, userID, hash); err != nil {
			return fmt.Errorf("%w: storing password: %v", common.ErrPersistenceFailure, err)
		}
		return nil
	})
}

// UpdateAccount updates the mutable profile fields.
func (s *UserService) UpdateAccount(ctx context.Context, userID, fullName, email string) (*models.PublicUser, error) {
	user, err := s.repomanager.Users(s.db).UpdateAccount(ctx, userID, fullName, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: updating account: %v", common.ErrPersistenceFailure, err)
	}
	return user.Public(), nil
}

// UpdateAvatar stores a new avatar URL on the user record.
func (s *UserService) UpdateAvatar(ctx context.Context, userID, url string) (*models.PublicUser, error) {
	user, err := s.repomanager.Users(s.db).UpdateAvatar(ctx, userID, url)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: updating avatar: %v", common.ErrPersistenceFailure, err)
	}
	return user.Public(), nil
}

// UpdateCoverImage stores a new cover image URL on the user record.
func (s *UserService) UpdateCoverImage(ctx context.Context, userID, url string) (*models.PublicUser, error) {
	user, err := s.repomanager.Users(s.db).UpdateCoverImage(ctx, userID, url)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: updating cover image: %v", common.ErrPersistenceFailure, err)
	}
	return user.Public(), nil
}

// --- helpers below ---

func (s *UserService) generateTokenPair(user *models.User) (*TokenPair, error) {
	access, err := auth.GenerateToken(auth.Claims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
	}, s.accessSecret, s.accessTokenTTL)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refresh, err := auth.GenerateToken(auth.Claims{
		UserID: user.ID,
	}, s.refreshSecret, s.refreshTokenTTL)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
