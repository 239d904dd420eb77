package strava

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jogr-app/jogr-backend/pkg/retry"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := DefaultClientConfig("client-id", "client-secret")
	cfg.TokenURL = srv.URL + "/oauth/token"
	cfg.ActivitiesURL = srv.URL + "/api/v3/athlete/activities"
	cfg.Timeout = 5 * time.Second
	cfg.RetryConfig = retry.Config{
		MaxAttempts:  2,
		BaseDelay:    time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
		JitterFactor: 0,
	}
	return NewClient(cfg), srv
}

func TestExchangeCode_Success(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.FormValue("grant_type"))
		assert.Equal(t, "the-code", r.FormValue("code"))
		assert.Equal(t, "client-id", r.FormValue("client_id"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"token_type": "Bearer",
			"access_token": "at",
			"refresh_token": "rt",
			"expires_at": 1714561200,
			"athlete": {"id": 42, "username": "runner"}
		}`))
	})

	token, err := client.ExchangeCode(context.Background(), "the-code", "https://api.jogr.app/auth/strava/callback")
	require.NoError(t, err)
	assert.Equal(t, "at", token.AccessToken)
	assert.Equal(t, "rt", token.RefreshToken)
	assert.Equal(t, int64(42), token.Athlete.ID)
}

func TestExchangeCode_BadGrant(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Bad Request"}`, http.StatusBadRequest)
	})

	_, err := client.ExchangeCode(context.Background(), "expired-code", "")
	assert.ErrorIs(t, err, ErrBadGrant)
}

func TestRefreshToken_Success(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.FormValue("grant_type"))
		assert.Equal(t, "old-rt", r.FormValue("refresh_token"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token": "new-at", "refresh_token": "new-rt", "expires_at": 1714561200}`))
	})

	token, err := client.RefreshToken(context.Background(), "old-rt")
	require.NoError(t, err)
	assert.Equal(t, "new-at", token.AccessToken)
	assert.Equal(t, "new-rt", token.RefreshToken)
}

func TestActivities_Success(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		assert.Equal(t, "30", r.URL.Query().Get("per_page"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 1, "type": "Run", "distance": 5000, "moving_time": 1500, "start_date": "2024-05-01T10:00:00Z"},
			{"id": 2, "type": "Ride", "distance": 20000, "moving_time": 3600, "start_date": "2024-05-02T10:00:00Z"}
		]`))
	})

	activities, err := client.Activities(context.Background(), "token-123", 30)
	require.NoError(t, err)
	require.Len(t, activities, 2)
	assert.Equal(t, "Run", activities[0].Type)
}

func TestActivities_PerPageClamped(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "200", r.URL.Query().Get("per_page"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := client.Activities(context.Background(), "t", 1000)
	require.NoError(t, err)
}

func TestActivities_Unauthorized(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"message":"Authorization Error"}`, http.StatusUnauthorized)
	})

	_, err := client.Activities(context.Background(), "revoked", 30)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, calls, "401 must not be retried")
}

func TestActivities_RetriesServerErrors(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "oops", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	activities, err := client.Activities(context.Background(), "t", 30)
	require.NoError(t, err)
	assert.Empty(t, activities)
	assert.Equal(t, 2, calls)
}
