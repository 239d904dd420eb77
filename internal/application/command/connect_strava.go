// Package command contains write operations following the CQRS pattern.
// Each command is a self-contained use case with its own request type.
package command

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jogr-app/jogr-backend/internal/domain/shared"
	"github.com/jogr-app/jogr-backend/internal/domain/user"
	"github.com/jogr-app/jogr-backend/internal/infrastructure/external/strava"
	"github.com/jogr-app/jogr-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONNECT STRAVA COMMAND
// Completes the OAuth callback: exchange the authorization code, find or
// create the account linked to the athlete, persist the token set.
// ══════════════════════════════════════════════════════════════════════════════

// CodeExchanger exchanges an OAuth authorization code for a token set.
type CodeExchanger interface {
	ExchangeCode(ctx context.Context, code, redirectURI string) (*strava.TokenDTO, error)
}

// ConnectStravaCommand carries the OAuth callback parameters.
type ConnectStravaCommand struct {
	// Code is the authorization code from the Strava callback.
	Code string

	// RedirectURI must match the URI used to start the OAuth flow.
	RedirectURI string
}

// Validate checks the command.
func (c ConnectStravaCommand) Validate() error {
	if c.Code == "" {
		return errors.New("connect_strava: authorization code is required")
	}
	return nil
}

// ConnectStravaResult identifies the connected account.
type ConnectStravaResult struct {
	UserID   string `json:"userID"`
	StravaID string `json:"stravaID"`

	// NewUser is true when the athlete had no account and one was created.
	NewUser bool `json:"newUser"`
}

// ConnectStravaHandler handles the OAuth callback.
type ConnectStravaHandler struct {
	users     user.Repository
	exchanger CodeExchanger
	logger    *logger.Logger
}

// NewConnectStravaHandler creates a new handler.
func NewConnectStravaHandler(users user.Repository, exchanger CodeExchanger, log *logger.Logger) *ConnectStravaHandler {
	if log == nil {
		log = logger.Default()
	}
	return &ConnectStravaHandler{
		users:     users,
		exchanger: exchanger,
		logger:    log.With(logger.Component("connect_strava")),
	}
}

// Handle exchanges the code and links the athlete to an account.
func (h *ConnectStravaHandler) Handle(ctx context.Context, cmd ConnectStravaCommand) (*ConnectStravaResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	token, err := h.exchanger.ExchangeCode(ctx, cmd.Code, cmd.RedirectURI)
	if err != nil {
		if errors.Is(err, strava.ErrBadGrant) {
			return nil, fmt.Errorf("%w: %v", shared.ErrUnauthorized, err)
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrExternalService, err)
	}

	stravaID := strconv.FormatInt(token.Athlete.ID, 10)

	u, err := h.users.ByStravaID(ctx, stravaID)
	newUser := false
	switch {
	case errors.Is(err, shared.ErrNotFound):
		u = user.User{
			ID:       uuid.NewString(),
			StravaID: stravaID,
			Nickname: athleteNickname(token.Athlete),
		}
		if err := h.users.Save(ctx, u); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		newUser = true
	case err != nil:
		return nil, fmt.Errorf("find user: %w", err)
	}

	creds := user.Credentials{
		UserID:       u.ID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    time.Unix(token.ExpiresAt, 0).UTC(),
	}
	if err := h.users.SaveCredentials(ctx, creds); err != nil {
		return nil, fmt.Errorf("save credentials: %w", err)
	}

	h.logger.Info("strava account connected",
		logger.UserID(u.ID),
		logger.StravaID(stravaID),
		logger.Bool("new_user", newUser))

	return &ConnectStravaResult{UserID: u.ID, StravaID: stravaID, NewUser: newUser}, nil
}

// athleteNickname derives an initial nickname from the athlete profile.
func athleteNickname(a strava.AthleteDTO) string {
	switch {
	case a.Username != "":
		return a.Username
	case a.Firstname != "":
		return a.Firstname
	default:
		return ""
	}
}
