// Package token keeps Strava access tokens usable. Every use case that
// talks to Strava on a user's behalf goes through the Manager, which
// refreshes tokens ahead of expiry and persists the rotated pair.
package token

import (
	"context"
	"fmt"
	"time"

	"github.com/jogr-app/jogr-backend/internal/domain/shared"
	"github.com/jogr-app/jogr-backend/internal/domain/user"
	"github.com/jogr-app/jogr-backend/internal/infrastructure/external/strava"
	"github.com/jogr-app/jogr-backend/pkg/logger"
	"github.com/jogr-app/jogr-backend/pkg/timeutil"
)

// Refresher exchanges a refresh token for a fresh token set.
type Refresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (*strava.TokenDTO, error)
}

// Manager resolves a usable access token for a user.
type Manager struct {
	users        user.Repository
	refresher    Refresher
	refreshAhead time.Duration
	logger       *logger.Logger
}

// NewManager creates a token Manager. refreshAhead is how long before
// expiry a token is considered stale and refreshed proactively.
func NewManager(users user.Repository, refresher Refresher, refreshAhead time.Duration, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.Default()
	}
	return &Manager{
		users:        users,
		refresher:    refresher,
		refreshAhead: refreshAhead,
		logger:       log.With(logger.Component("token_manager")),
	}
}

// AccessToken returns a valid access token for the user, refreshing and
// persisting the rotated credentials when the stored token is near expiry.
// Returns shared.ErrNotFound when the user never connected Strava, and
// shared.ErrTokenExpired when Strava rejects the refresh grant.
func (m *Manager) AccessToken(ctx context.Context, userID string) (string, error) {
	creds, err := m.users.CredentialsByUser(ctx, userID)
	if err != nil {
		return "", err
	}

	if !creds.ExpiresWithin(timeutil.NowUTC(), m.refreshAhead) {
		return creds.AccessToken, nil
	}

	token, err := m.refresher.RefreshToken(ctx, creds.RefreshToken)
	if err != nil {
		m.logger.Warn("strava token refresh failed",
			logger.UserID(userID), logger.Err(err))
		return "", fmt.Errorf("%w: %v", shared.ErrTokenExpired, err)
	}

	rotated := user.Credentials{
		UserID:       userID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    time.Unix(token.ExpiresAt, 0).UTC(),
	}
	if err := m.users.SaveCredentials(ctx, rotated); err != nil {
		// The new token is valid even if persisting it failed; next call
		// will refresh again.
		m.logger.Error("failed to persist rotated credentials",
			logger.UserID(userID), logger.Err(err))
	}

	m.logger.Debug("strava token refreshed", logger.UserID(userID))
	return rotated.AccessToken, nil
}
