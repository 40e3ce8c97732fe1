package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/streamhub/authd/internal/common"
	"github.com/streamhub/authd/internal/dbx"
	"github.com/streamhub/authd/internal/server/models"
)

const uniqueViolationCode = "23505"

// userColumns is the column list every row-returning query uses, in the order
// scanUser expects.
const userColumns = `id, username, email, full_name, avatar_url, cover_image_url, password_hash, refresh_token, created_at, updated_at`

// PostgresRepository implements Repository over dbx.DBTX (satisfied by both
// *sql.DB and *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.FullName,
		&user.AvatarURL, &user.CoverImageURL, &user.PasswordHash,
		&user.RefreshToken, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// Create inserts a new user. The username is stored lowercase; uniqueness of
// username and email is enforced by the schema.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (username, email, full_name, avatar_url, cover_image_url, password_hash)
		VALUES (lower($1), $2, $3, $4, $5, $6)
		RETURNING ` + userColumns

	row := r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.FullName,
		user.AvatarURL, user.CoverImageURL, user.PasswordHash)

	created := &models.User{}
	err := row.Scan(
		&created.ID, &created.Username, &created.Email, &created.FullName,
		&created.AvatarURL, &created.CoverImageURL, &created.PasswordHash,
		&created.RefreshToken, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

// GetByID returns the user with the given id or common.ErrorNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

// GetByLogin resolves a username (lowercased before comparison) or an email
// (compared as given) to a user record.
func (r *PostgresRepository) GetByLogin(ctx context.Context, identifier string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE username = lower($1) OR email = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, identifier))
}

// SetRefreshToken overwrites the stored refresh token unconditionally.
// Passing nil clears it (logout).
func (r *PostgresRepository) SetRefreshToken(ctx context.Context, userID string, token *string) error {
	query := `
		UPDATE users
		SET refresh_token = $2, updated_at = now()
		WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, userID, token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// RotateRefreshToken is the compare-and-swap that serializes concurrent
// renewals: the UPDATE only matches while current is still the stored value,
// so of two racing rotations exactly one affects a row. A zero row count
// means the token was superseded (or the stored value is NULL).
func (r *PostgresRepository) RotateRefreshToken(ctx context.Context, userID, current, next string) error {
	query := `
		UPDATE users
		SET refresh_token = $3, updated_at = now()
		WHERE id = $1 AND refresh_token = $2`

	res, err := r.db.ExecContext(ctx, query, userID, current, next)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrStaleCredential
	}
	return nil
}

// UpdatePassword replaces the stored password hash.
func (r *PostgresRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	query := `
		UPDATE users
		SET password_hash = $2, updated_at = now()
		WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// UpdateAccount updates fullName and email and returns the updated record.
func (r *PostgresRepository) UpdateAccount(ctx context.Context, userID, fullName, email string) (*models.User, error) {
	query := `
		UPDATE users
		SET full_name = $2, email = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, userID, fullName, email))
	if err != nil && isUniqueViolation(err) {
		return nil, common.ErrAlreadyExists
	}
	return user, err
}

// UpdateAvatar stores a new avatar URL and returns the updated record.
func (r *PostgresRepository) UpdateAvatar(ctx context.Context, userID, url string) (*models.User, error) {
	query := `
		UPDATE users
		SET avatar_url = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns
	return scanUser(r.db.QueryRowContext(ctx, query, userID, url))
}

// UpdateCoverImage stores a new cover image URL and returns the updated record.
func (r *PostgresRepository) UpdateCoverImage(ctx context.Context, userID, url string) (*models.User, error) {
	query := `
		UPDATE users
		SET cover_image_url = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns
	return scanUser(r.db.QueryRowContext(ctx, query, userID, url))
}
