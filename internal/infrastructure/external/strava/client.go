// Package strava implements the Strava API client: OAuth token exchange
// and refresh, plus athlete activity listing. All calls go through the
// rate limiter, circuit breaker, and retrier so one flaky Strava outage
// never cascades into the rest of the backend.
package strava

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jogr-app/jogr-backend/pkg/circuitbreaker"
	"github.com/jogr-app/jogr-backend/pkg/logger"
	"github.com/jogr-app/jogr-backend/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrRateLimited is returned when the local rate limiter refuses a slot.
	ErrRateLimited = errors.New("strava: rate limited")

	// ErrUnauthorized is returned on 401/403 responses, typically a revoked
	// or expired token.
	ErrUnauthorized = errors.New("strava: unauthorized")

	// ErrBadGrant is returned when a token grant is rejected.
	ErrBadGrant = errors.New("strava: invalid grant")
)

// APIError is a non-2xx response from the Strava API.
type APIError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("strava: api error %d: %s", e.StatusCode, e.Body)
}

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// ClientConfig contains configuration for the Strava client.
type ClientConfig struct {
	// ClientID and ClientSecret are the OAuth application credentials.
	ClientID     string
	ClientSecret string

	// TokenURL is the OAuth token endpoint.
	TokenURL string

	// ActivitiesURL is the athlete activities endpoint.
	ActivitiesURL string

	// Timeout is the HTTP request timeout.
	Timeout time.Duration

	// RateLimiterConfig for API rate limiting.
	RateLimiterConfig RateLimiterConfig

	// CircuitBreakerConfig for fault tolerance.
	CircuitBreakerConfig circuitbreaker.Config

	// RetryConfig for retry behavior.
	RetryConfig retry.Config

	// Logger for structured logging.
	Logger *logger.Logger
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(clientID, clientSecret string) ClientConfig {
	return ClientConfig{
		ClientID:             clientID,
		ClientSecret:         clientSecret,
		TokenURL:             "https://www.strava.com/oauth/token",
		ActivitiesURL:        "https://www.strava.com/api/v3/athlete/activities",
		Timeout:              30 * time.Second,
		RateLimiterConfig:    DefaultRateLimiterConfig(),
		CircuitBreakerConfig: circuitbreaker.DefaultConfig("strava"),
		RetryConfig:          retry.DefaultConfig(),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client is the Strava API client.
type Client struct {
	config      ClientConfig
	httpClient  *http.Client
	logger      *logger.Logger
	rateLimiter *RateLimiter
	breaker     *circuitbreaker.Breaker
	retrier     *retry.Retrier
}

// NewClient creates a new Strava client.
func NewClient(config ClientConfig) *Client {
	log := config.Logger
	if log == nil {
		log = logger.Default()
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger:      log.With(logger.Component("strava_client")),
		rateLimiter: NewRateLimiter(config.RateLimiterConfig),
		breaker:     circuitbreaker.New(config.CircuitBreakerConfig),
		retrier:     retry.New(config.RetryConfig),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// TOKEN OPERATIONS
// ══════════════════════════════════════════════════════════════════════════════

// ExchangeCode exchanges an OAuth authorization code for a token set.
// The response carries the athlete identity used to find or create the
// internal user account.
func (c *Client) ExchangeCode(ctx context.Context, code, redirectURI string) (*TokenDTO, error) {
	form := url.Values{
		"client_id":     {c.config.ClientID},
		"client_secret": {c.config.ClientSecret},
		"code":          {code},
		"grant_type":    {"authorization_code"},
		"redirect_uri":  {redirectURI},
	}

	token, err := c.requestToken(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	c.logger.Info("strava token exchanged",
		logger.Int64("athlete_id", token.Athlete.ID))
	return token, nil
}

// RefreshToken exchanges a refresh token for a fresh token set.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*TokenDTO, error) {
	form := url.Values{
		"client_id":     {c.config.ClientID},
		"client_secret": {c.config.ClientSecret},
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}

	token, err := c.requestToken(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}

	c.logger.Debug("strava token refreshed")
	return token, nil
}

// requestToken posts a grant to the token endpoint.
func (c *Client) requestToken(ctx context.Context, form url.Values) (*TokenDTO, error) {
	var token TokenDTO
	err := c.do(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.config.TokenURL, strings.NewReader(form.Encode()))
		if err != nil {
			return retry.Permanent(fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Accept", "application/json")

		return c.execute(req, &token)
	})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest {
			return nil, fmt.Errorf("%w: %v", ErrBadGrant, err)
		}
		return nil, err
	}
	return &token, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ACTIVITY OPERATIONS
// ══════════════════════════════════════════════════════════════════════════════

// Activities fetches the athlete's recent activities using the given
// access token. perPage is clamped to the API maximum of 200.
func (c *Client) Activities(ctx context.Context, accessToken string, perPage int) ([]ActivityDTO, error) {
	if perPage <= 0 {
		perPage = 100
	}
	if perPage > 200 {
		perPage = 200
	}

	endpoint := c.config.ActivitiesURL + "?per_page=" + strconv.Itoa(perPage)

	var activities []ActivityDTO
	err := c.do(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return retry.Permanent(fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("Authorization", "Bearer "+accessToken)
		req.Header.Set("Accept", "application/json")

		return c.execute(req, &activities)
	})
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}

	c.logger.Debug("strava activities fetched", logger.Int("count", len(activities)))
	return activities, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST PIPELINE
// ══════════════════════════════════════════════════════════════════════════════

// do runs op through rate limiter, circuit breaker, and retrier, in that
// order: a blocked request should not count against the breaker, and a
// retried request must re-acquire a rate limit slot each attempt.
func (c *Client) do(ctx context.Context, op func(ctx context.Context) error) error {
	return c.retrier.Do(ctx, func(ctx context.Context) error {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return retry.Permanent(err)
		}
		return c.breaker.Execute(ctx, op)
	})
}

// execute performs one HTTP request, classifying the outcome for the
// retrier: transport failures and 5xx/429 responses are retryable, other
// non-2xx responses are permanent.
func (c *Client) execute(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return retry.Retryable(fmt.Errorf("execute request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return retry.Retryable(fmt.Errorf("read response: %w", err))
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return retry.Permanent(fmt.Errorf("parse response: %w", err))
		}
		return nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return retry.Retryable(&APIError{StatusCode: resp.StatusCode, Body: truncate(body)})
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return retry.Permanent(fmt.Errorf("%w: %s", ErrUnauthorized, truncate(body)))
	default:
		return retry.Permanent(&APIError{StatusCode: resp.StatusCode, Body: truncate(body)})
	}
}

// truncate keeps error bodies log-friendly.
func truncate(body []byte) string {
	const max = 256
	s := string(body)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
