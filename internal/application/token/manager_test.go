package token

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jogr-app/jogr-backend/internal/domain/shared"
	"github.com/jogr-app/jogr-backend/internal/domain/user"
	"github.com/jogr-app/jogr-backend/internal/infrastructure/external/strava"
)

type fakeUserRepo struct {
	creds   map[string]user.Credentials
	saveErr error
	saved   []user.Credentials
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{creds: make(map[string]user.Credentials)}
}

func (r *fakeUserRepo) Save(ctx context.Context, u user.User) error { return nil }

func (r *fakeUserRepo) ByID(ctx context.Context, id string) (user.User, error) {
	return user.User{}, shared.ErrNotFound
}

func (r *fakeUserRepo) ByStravaID(ctx context.Context, stravaID string) (user.User, error) {
	return user.User{}, shared.ErrNotFound
}

func (r *fakeUserRepo) SaveCredentials(ctx context.Context, creds user.Credentials) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.creds[creds.UserID] = creds
	r.saved = append(r.saved, creds)
	return nil
}

func (r *fakeUserRepo) CredentialsByUser(ctx context.Context, userID string) (user.Credentials, error) {
	creds, ok := r.creds[userID]
	if !ok {
		return user.Credentials{}, shared.ErrNotFound
	}
	return creds, nil
}

type fakeRefresher struct {
	token *strava.TokenDTO
	err   error
	calls int
}

func (f *fakeRefresher) RefreshToken(ctx context.Context, refreshToken string) (*strava.TokenDTO, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.token, nil
}

func TestAccessToken_ReturnsStoredWhenFresh(t *testing.T) {
	repo := newFakeUserRepo()
	repo.creds["u1"] = user.Credentials{
		UserID:      "u1",
		AccessToken: "fresh-token",
		ExpiresAt:   time.Now().UTC().Add(2 * time.Hour),
	}
	refresher := &fakeRefresher{}
	mgr := NewManager(repo, refresher, time.Hour, nil)

	token, err := mgr.AccessToken(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", token)
	assert.Zero(t, refresher.calls)
}

func TestAccessToken_RefreshesNearExpiry(t *testing.T) {
	repo := newFakeUserRepo()
	repo.creds["u1"] = user.Credentials{
		UserID:       "u1",
		AccessToken:  "stale-token",
		RefreshToken: "refresh-1",
		ExpiresAt:    time.Now().UTC().Add(10 * time.Minute),
	}
	expiresAt := time.Now().Add(6 * time.Hour).Unix()
	refresher := &fakeRefresher{token: &strava.TokenDTO{
		AccessToken:  "rotated-token",
		RefreshToken: "refresh-2",
		ExpiresAt:    expiresAt,
	}}
	mgr := NewManager(repo, refresher, time.Hour, nil)

	token, err := mgr.AccessToken(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "rotated-token", token)
	assert.Equal(t, 1, refresher.calls)

	// Rotated pair must be persisted for the next call.
	require.Len(t, repo.saved, 1)
	assert.Equal(t, "refresh-2", repo.saved[0].RefreshToken)
	assert.Equal(t, time.Unix(expiresAt, 0).UTC(), repo.saved[0].ExpiresAt)
}

func TestAccessToken_RefreshFailureMapsToTokenExpired(t *testing.T) {
	repo := newFakeUserRepo()
	repo.creds["u1"] = user.Credentials{
		UserID:       "u1",
		AccessToken:  "stale-token",
		RefreshToken: "revoked",
		ExpiresAt:    time.Now().UTC().Add(-time.Minute),
	}
	refresher := &fakeRefresher{err: strava.ErrBadGrant}
	mgr := NewManager(repo, refresher, time.Hour, nil)

	_, err := mgr.AccessToken(context.Background(), "u1")
	assert.ErrorIs(t, err, shared.ErrTokenExpired)
}

func TestAccessToken_NeverConnected(t *testing.T) {
	mgr := NewManager(newFakeUserRepo(), &fakeRefresher{}, time.Hour, nil)

	_, err := mgr.AccessToken(context.Background(), "ghost")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestAccessToken_PersistFailureStillReturnsToken(t *testing.T) {
	repo := newFakeUserRepo()
	repo.creds["u1"] = user.Credentials{
		UserID:       "u1",
		AccessToken:  "stale-token",
		RefreshToken: "refresh-1",
		ExpiresAt:    time.Now().UTC(),
	}
	repo.saveErr = errors.New("db down")
	refresher := &fakeRefresher{token: &strava.TokenDTO{
		AccessToken:  "rotated-token",
		RefreshToken: "refresh-2",
		ExpiresAt:    time.Now().Add(6 * time.Hour).Unix(),
	}}
	mgr := NewManager(repo, refresher, time.Hour, nil)

	token, err := mgr.AccessToken(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "rotated-token", token)
}
