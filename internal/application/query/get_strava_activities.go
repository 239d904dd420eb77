package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/jogr-app/jogr-backend/internal/domain/activity"
	"github.com/jogr-app/jogr-backend/internal/domain/shared"
	"github.com/jogr-app/jogr-backend/internal/infrastructure/external/strava"
	"github.com/jogr-app/jogr-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET STRAVA ACTIVITIES QUERY
// Live fetch from Strava on the user's behalf: resolve a usable access
// token, call the API, keep only runs and walks, normalize units.
// ══════════════════════════════════════════════════════════════════════════════

// AccessTokenSource resolves a usable Strava access token for a user.
type AccessTokenSource interface {
	AccessToken(ctx context.Context, userID string) (string, error)
}

// ActivitySource lists an athlete's raw Strava activities.
type ActivitySource interface {
	Activities(ctx context.Context, accessToken string, perPage int) ([]strava.ActivityDTO, error)
}

// GetStravaActivitiesQuery requests a user's recent Strava activities.
type GetStravaActivitiesQuery struct {
	UserID string

	// PerPage limits the fetch; zero means the client default.
	PerPage int
}

// Validate checks the query parameters.
func (q GetStravaActivitiesQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("get_strava_activities: user ID is required")
	}
	return nil
}

// GetStravaActivitiesResult contains the normalized activities.
type GetStravaActivitiesResult struct {
	UserID     string            `json:"userID"`
	Activities []activity.Record `json:"activities"`
}

// GetStravaActivitiesHandler handles live Strava fetches.
type GetStravaActivitiesHandler struct {
	tokens AccessTokenSource
	source ActivitySource
	mapper *strava.Mapper
	logger *logger.Logger
}

// NewGetStravaActivitiesHandler creates a new handler.
func NewGetStravaActivitiesHandler(
	tokens AccessTokenSource,
	source ActivitySource,
	log *logger.Logger,
) *GetStravaActivitiesHandler {
	if log == nil {
		log = logger.Default()
	}
	return &GetStravaActivitiesHandler{
		tokens: tokens,
		source: source,
		mapper: strava.NewMapper(),
		logger: log.With(logger.Component("get_strava_activities")),
	}
}

// Handle fetches and normalizes the user's recent Strava activities.
func (h *GetStravaActivitiesHandler) Handle(ctx context.Context, q GetStravaActivitiesQuery) (*GetStravaActivitiesResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	accessToken, err := h.tokens.AccessToken(ctx, q.UserID)
	if err != nil {
		return nil, err
	}

	dtos, err := h.source.Activities(ctx, accessToken, q.PerPage)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrExternalService, err)
	}

	records := h.mapper.RecordsFromDTOs(dtos, q.UserID)
	h.logger.Debug("strava activities normalized",
		logger.UserID(q.UserID),
		logger.Int("fetched", len(dtos)),
		logger.Int("kept", len(records)))

	return &GetStravaActivitiesResult{UserID: q.UserID, Activities: records}, nil
}
