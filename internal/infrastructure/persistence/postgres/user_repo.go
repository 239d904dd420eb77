package postgres

import (
	"context"
	"fmt"

	"github.com/jogr-app/jogr-backend/internal/domain/shared"
	"github.com/jogr-app/jogr-backend/internal/domain/user"
	"github.com/jogr-app/jogr-backend/pkg/logger"
	"github.com/jogr-app/jogr-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// USER REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// UserRepository stores user profiles and Strava credentials in PostgreSQL.
type UserRepository struct {
	conn   *Connection
	logger *logger.Logger
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(conn *Connection, log *logger.Logger) *UserRepository {
	if log == nil {
		log = logger.Default()
	}
	return &UserRepository{
		conn:   conn,
		logger: log.With(logger.Component("user_repository")),
	}
}

// Save upserts a user profile by ID.
func (r *UserRepository) Save(ctx context.Context, u user.User) error {
	if err := u.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	query := `
		INSERT INTO users (id, strava_id, nickname, email, birthdate, gender, country, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			strava_id = EXCLUDED.strava_id,
			nickname = EXCLUDED.nickname,
			email = EXCLUDED.email,
			birthdate = EXCLUDED.birthdate,
			gender = EXCLUDED.gender,
			country = EXCLUDED.country,
			description = EXCLUDED.description,
			updated_at = NOW()
	`

	if _, err := r.conn.Exec(ctx, query,
		u.ID, u.StravaID, u.Nickname, u.Email,
		u.Birthdate, u.Gender, u.Country, u.Description); err != nil {
		return fmt.Errorf("save user: %w", err)
	}

	r.logger.Debug("user saved", logger.UserID(u.ID))
	return nil
}

// ByID returns the user with the given ID.
func (r *UserRepository) ByID(ctx context.Context, id string) (user.User, error) {
	query := `
		SELECT id, strava_id, nickname, email, birthdate, gender, country, description
		FROM users
		WHERE id = $1
	`
	return r.scanUser(r.conn.QueryRow(ctx, query, id))
}

// ByStravaID returns the user linked to the given Strava athlete.
func (r *UserRepository) ByStravaID(ctx context.Context, stravaID string) (user.User, error) {
	query := `
		SELECT id, strava_id, nickname, email, birthdate, gender, country, description
		FROM users
		WHERE strava_id = $1
	`
	return r.scanUser(r.conn.QueryRow(ctx, query, stravaID))
}

// Nickname implements user.NicknameResolver.
func (r *UserRepository) Nickname(ctx context.Context, userID string) (string, error) {
	var nickname string
	err := r.conn.QueryRow(ctx,
		`SELECT nickname FROM users WHERE id = $1`, userID).Scan(&nickname)
	if IsNoRows(err) {
		return "", shared.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query nickname: %w", err)
	}
	if nickname == "" {
		return "", shared.ErrNotFound
	}
	return nickname, nil
}

// SaveCredentials upserts a user's Strava token set.
func (r *UserRepository) SaveCredentials(ctx context.Context, creds user.Credentials) error {
	query := `
		INSERT INTO oauth_credentials (user_id, access_token, refresh_token, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			expires_at = EXCLUDED.expires_at,
			updated_at = NOW()
	`

	if _, err := r.conn.Exec(ctx, query,
		creds.UserID, creds.AccessToken, creds.RefreshToken, creds.ExpiresAt); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}

	r.logger.Debug("credentials saved",
		logger.UserID(creds.UserID),
		logger.String("expires_at", timeutil.FormatActivityTime(creds.ExpiresAt)))
	return nil
}

// CredentialsByUser returns the user's Strava token set.
func (r *UserRepository) CredentialsByUser(ctx context.Context, userID string) (user.Credentials, error) {
	query := `
		SELECT user_id, access_token, refresh_token, expires_at
		FROM oauth_credentials
		WHERE user_id = $1
	`

	var creds user.Credentials
	err := r.conn.QueryRow(ctx, query, userID).Scan(
		&creds.UserID, &creds.AccessToken, &creds.RefreshToken, &creds.ExpiresAt)
	if IsNoRows(err) {
		return user.Credentials{}, shared.ErrNotFound
	}
	if err != nil {
		return user.Credentials{}, fmt.Errorf("query credentials: %w", err)
	}
	return creds, nil
}

// scanUser scans one user row, mapping a miss to shared.ErrNotFound.
func (r *UserRepository) scanUser(row interface{ Scan(...any) error }) (user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.StravaID, &u.Nickname, &u.Email,
		&u.Birthdate, &u.Gender, &u.Country, &u.Description)
	if IsNoRows(err) {
		return user.User{}, shared.ErrNotFound
	}
	if err != nil {
		return user.User{}, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}
